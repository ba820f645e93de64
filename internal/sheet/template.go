package sheet

import (
	"fmt"
	"os"

	"github.com/xuri/excelize/v2"
)

// Sheet and column names of the documented workbook layout.
const (
	VersionSheet    = "version"
	AddressMapSheet = "address_map"
	TemplateSheet   = "register_template"
)

// VersionColumns, AddressMapColumns and RegisterColumns are written as the
// header rows of a fresh template workbook.
var (
	VersionColumns    = []string{"VENDOR", "LIBRARY", "NAME", "VERSION", "DESCRIPTION"}
	AddressMapColumns = []string{"BLOCK", "OFFSET", "RANGE", "DESCRIPTION"}
	RegisterColumns   = []string{"ADDR", "REG", "FIELD", "BIT", "WIDTH", "REG_SIZE", "STRIDE", "ATTRIBUTE", "DEFAULT", "DESCRIPTION"}
)

// WriteTemplate creates an empty workbook with the documented sheets. It
// refuses to overwrite an existing file.
func WriteTemplate(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("template %s already exists", path)
	}

	f := excelize.NewFile()
	defer f.Close()

	sheets := []struct {
		name   string
		header []string
	}{
		{VersionSheet, VersionColumns},
		{AddressMapSheet, AddressMapColumns},
		{TemplateSheet, RegisterColumns},
	}
	for i, s := range sheets {
		if i == 0 {
			if err := f.SetSheetName(f.GetSheetName(0), s.name); err != nil {
				return err
			}
		} else if _, err := f.NewSheet(s.name); err != nil {
			return err
		}
		header := make([]any, len(s.header))
		for j, h := range s.header {
			header[j] = h
		}
		if err := f.SetSheetRow(s.name, "A1", &header); err != nil {
			return fmt.Errorf("sheet %q: %w", s.name, err)
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to write template %s: %w", path, err)
	}
	return nil
}
