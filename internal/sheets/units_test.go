package sheets

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeUnit(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{in: "3", want: "3"},
		{in: "3.0", want: "3"},
		{in: " 03 ", want: "3"},
		{in: "2.50", want: "2.5"},
		{in: "Unit 4", want: "Unit 4"},
		{in: "  Review ", want: "Review"},
		{in: "NaN", want: "NaN"},
		{in: "", want: ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, NormalizeUnit(tt.in), "NormalizeUnit(%q)", tt.in)
	}
}

func TestCompareUnits(t *testing.T) {
	units := []string{"Review", "10", "2", "Final", "1.5", "1"}
	sort.SliceStable(units, func(i, j int) bool {
		return CompareUnits(units[i], units[j]) < 0
	})
	assert.Equal(t, []string{"1", "1.5", "2", "10", "Final", "Review"}, units)
}
