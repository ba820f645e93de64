package hcl_adapter

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/irgen/internal/config"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_OverlaysDefaults(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	dir := t.TempDir()
	path := writeFile(t, dir, "irgen.hcl", `
schema_version = "1685-2022"
max_address    = "0xFFFF"
check_coverage = true
columns = {
  REG   = "Register"
  FIELD = "Field"
}
component {
  vendor  = "example.com"
  library = "ip"
  name    = "uart"
  version = "1.0"
}
`)

	// --- Act ---
	s, err := NewLoader().Load(context.Background(), path)

	// --- Assert ---
	require.NoError(t, err)
	want := config.Defaults()
	want.SchemaVersion = "1685-2022"
	want.MaxAddress = 0xFFFF
	want.CheckCoverage = true
	want.Columns = map[string]string{"REG": "Register", "FIELD": "Field"}
	want.Component = config.Component{Vendor: "example.com", Library: "ip", Name: "uart", Version: "1.0"}
	if diff := cmp.Diff(want, s); diff != "" {
		t.Errorf("settings mismatch (-want +got):\n%s", diff)
	}
}

func TestLoad_MissingPathKeepsDefaults(t *testing.T) {
	t.Parallel()

	s, err := NewLoader().Load(context.Background(), filepath.Join(t.TempDir(), "absent.hcl"))

	require.NoError(t, err)
	assert.Equal(t, config.Defaults(), s)
}

func TestLoad_DirectoryLaterFilesWin(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFile(t, dir, "a.hcl", `workers = 2`)
	writeFile(t, dir, "b.hcl", `workers = 8`)

	s, err := NewLoader().Load(context.Background(), dir)

	require.NoError(t, err)
	assert.Equal(t, 8, s.Workers)
}

func TestLoad_Errors(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name    string
		content string
		want    string
	}{
		{name: "syntax", content: `schema_version = `, want: "failed to parse"},
		{name: "unknown attribute", content: `colour = "red"`, want: "failed to decode"},
		{name: "bad max address", content: `max_address = "lots"`, want: "max_address"},
		{name: "columns not a map", content: `columns = ["REG"]`, want: "columns"},
		{name: "validation", content: `stride_default = "sometimes"`, want: "stride_default"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			path := writeFile(t, t.TempDir(), "irgen.hcl", tc.content)

			_, err := NewLoader().Load(context.Background(), path)

			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.want)
		})
	}
}
