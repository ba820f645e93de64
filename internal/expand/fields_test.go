package expand

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/irgen/internal/model"
)

func TestValidateFields_Overlap(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name    string
		a, b    model.FieldSpec
		wantErr bool
	}{
		{name: "shared bits", a: model.FieldSpec{Name: "a", Offset: 0, Width: 4}, b: model.FieldSpec{Name: "b", Offset: 2, Width: 4}, wantErr: true},
		{name: "adjacent", a: model.FieldSpec{Name: "a", Offset: 0, Width: 4}, b: model.FieldSpec{Name: "b", Offset: 4, Width: 4}},
		{name: "nested", a: model.FieldSpec{Name: "a", Offset: 0, Width: 16}, b: model.FieldSpec{Name: "b", Offset: 4, Width: 1}, wantErr: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			tpl := &model.RegisterTemplate{Name: model.NameTemplate{Template: "r"}, Width: 32, Fields: []model.FieldSpec{tc.a, tc.b}}

			err := ValidateFields(tpl, false)

			if !tc.wantErr {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Equal(t, model.KindFieldOverlap, model.KindOf(err))
			assert.Contains(t, err.Error(), tc.a.Span())
			assert.Contains(t, err.Error(), tc.b.Span())
		})
	}
}

func TestValidateFields_ReservedFieldsTakePart(t *testing.T) {
	t.Parallel()

	tpl := &model.RegisterTemplate{
		Name:     model.NameTemplate{Template: "r"},
		Width:    8,
		Fields:   []model.FieldSpec{{Name: "en", Offset: 0, Width: 1}},
		Reserved: []model.FieldSpec{{Name: "rsvd", Offset: 0, Width: 8, Reserved: true}},
	}

	err := ValidateFields(tpl, false)

	require.Error(t, err)
	assert.Equal(t, model.KindFieldOverlap, model.KindOf(err))
}

func TestValidateFields_Coverage(t *testing.T) {
	t.Parallel()

	gap := &model.RegisterTemplate{
		Name:   model.NameTemplate{Template: "r"},
		Width:  8,
		Fields: []model.FieldSpec{{Name: "lo", Offset: 0, Width: 2}, {Name: "hi", Offset: 4, Width: 4}},
	}
	assert.NoError(t, ValidateFields(gap, false), "gaps are allowed unless coverage is requested")

	err := ValidateFields(gap, true)
	require.Error(t, err)
	assert.Equal(t, model.KindCoverageGap, model.KindOf(err))
	assert.Contains(t, err.Error(), "[3:2]")

	short := &model.RegisterTemplate{
		Name:     model.NameTemplate{Template: "r"},
		Width:    8,
		Fields:   []model.FieldSpec{{Name: "lo", Offset: 0, Width: 2}},
		Reserved: []model.FieldSpec{{Name: "rsvd", Offset: 2, Width: 4, Reserved: true}},
	}
	err = ValidateFields(short, true)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "[7:6]")

	full := &model.RegisterTemplate{
		Name:     model.NameTemplate{Template: "r"},
		Width:    8,
		Fields:   []model.FieldSpec{{Name: "lo", Offset: 0, Width: 2}},
		Reserved: []model.FieldSpec{{Name: "rsvd", Offset: 2, Width: 6, Reserved: true}},
	}
	assert.NoError(t, ValidateFields(full, true))
}
