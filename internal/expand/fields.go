package expand

import (
	"github.com/vk/irgen/internal/model"
)

// ValidateFields checks the bit layout of a template: every field must lie
// inside the register and no two fields may share a bit. Reserved fields take
// part in the checks even though they are never emitted. With coverage
// enabled, the fields must also tile the register from bit 0 to its width.
func ValidateFields(tpl *model.RegisterTemplate, coverage bool) error {
	all := tpl.AllFields()
	for _, f := range all {
		if f.Width <= 0 || f.Offset < 0 || f.Msb() >= tpl.Width {
			return model.Errorf(model.KindInvalidBitRange, f.Ref,
				"field bits %s do not fit in the %d-bit register", f.Span(), tpl.Width).
				WithName(tpl.Name.Template + "." + f.Name)
		}
	}

	for i := 1; i < len(all); i++ {
		for j := 0; j < i; j++ {
			if all[j].Overlaps(all[i]) {
				return model.Errorf(model.KindFieldOverlap, all[i].Ref,
					"field %s %s overlaps field %s %s", all[i].Name, all[i].Span(), all[j].Name, all[j].Span()).
					WithName(tpl.Name.Template)
			}
		}
	}

	if !coverage {
		return nil
	}
	next := 0
	for _, f := range all {
		if f.Offset > next {
			return model.Errorf(model.KindCoverageGap, tpl.Ref,
				"bits [%d:%d] are not covered by any field", f.Offset-1, next).WithName(tpl.Name.Template)
		}
		next = f.Msb() + 1
	}
	if next < tpl.Width {
		return model.Errorf(model.KindCoverageGap, tpl.Ref,
			"bits [%d:%d] are not covered by any field", tpl.Width-1, next).WithName(tpl.Name.Template)
	}
	return nil
}
