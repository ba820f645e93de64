package model

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRangeSpec_Values(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name string
		spec RangeSpec
		want []int
	}{
		{name: "enumerated", spec: Enumerated(3), want: []int{0, 1, 2}},
		{name: "bounded", spec: Bounded(4, 6), want: []int{4, 5, 6}},
		{name: "bounded single value", spec: Bounded(7, 7), want: []int{7}},
		{name: "stepped", spec: Stepped(0, 8, 2), want: []int{0, 2, 4, 6}},
		{name: "stepped uneven stop", spec: Stepped(1, 8, 3), want: []int{1, 4, 7}},
		{name: "stepped descending", spec: Stepped(5, 0, -2), want: []int{5, 3, 1}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			require.NoError(t, tc.spec.Validate())
			assert.Equal(t, tc.want, tc.spec.Values())
			assert.Equal(t, len(tc.want), tc.spec.Len())
		})
	}
}

func TestRangeSpec_Validate(t *testing.T) {
	t.Parallel()

	assert.Error(t, Enumerated(0).Validate())
	assert.Error(t, Bounded(3, 2).Validate())
	assert.Error(t, Stepped(0, 4, 0).Validate())
	assert.Error(t, Stepped(4, 0, 1).Validate(), "empty stepped range must be rejected")
}

func TestRangeSpec_WideBoundsAreRejectedNotEmpty(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name string
		spec RangeSpec
	}{
		{name: "bounded from zero", spec: Bounded(0, math.MaxInt)},
		{name: "bounded from negative", spec: Bounded(-5, math.MaxInt)},
		{name: "bounded full int", spec: Bounded(math.MinInt, math.MaxInt)},
		{name: "stepped ascending", spec: Stepped(math.MinInt, math.MaxInt, 1)},
		{name: "stepped descending", spec: Stepped(math.MaxInt, math.MinInt, -1)},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			// --- Act ---
			err := tc.spec.Validate()

			// --- Assert ---
			require.Error(t, err)
			assert.Contains(t, err.Error(), "more than can be addressed")
			assert.Equal(t, math.MaxInt, tc.spec.Len(), "an oversized range must never look empty")
		})
	}
}

func TestRangeSpec_LenAtIntExtremes(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 2, Bounded(math.MaxInt-1, math.MaxInt).Len())
	assert.Equal(t, 3, Stepped(math.MinInt, math.MaxInt, math.MaxInt).Len(), "MinInt, -1, MaxInt-1")
	assert.Equal(t, math.MaxInt, Bounded(1, math.MaxInt).Len())
	require.NoError(t, Bounded(1, math.MaxInt).Validate())
}

func TestRangeSpec_String(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "range(4)", Enumerated(4).String())
	assert.Equal(t, "2~5", Bounded(2, 5).String())
	assert.Equal(t, "range(0, 8, 2)", Stepped(0, 8, 2).String())
}
