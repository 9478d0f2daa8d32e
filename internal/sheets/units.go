package sheets

import (
	"math"
	"strconv"
	"strings"
)

// NormalizeUnit приводит обозначение раздела к единой строковой форме.
// Числовые значения записываются без лишних нулей: "3", "3.0" и " 03 " дают "3".
// Нечисловые значения только обрезаются.
func NormalizeUnit(unit string) string {
	unit = strings.TrimSpace(unit)
	if v, ok := parseUnit(unit); ok {
		return strconv.FormatFloat(v, 'f', -1, 64)
	}
	return unit
}

// CompareUnits сравнивает разделы: числовые по значению и раньше
// нечисловых, нечисловые лексикографически.
func CompareUnits(a, b string) int {
	av, aNum := parseUnit(a)
	bv, bNum := parseUnit(b)
	switch {
	case aNum && bNum:
		switch {
		case av < bv:
			return -1
		case av > bv:
			return 1
		}
		return strings.Compare(a, b)
	case aNum:
		return -1
	case bNum:
		return 1
	}
	return strings.Compare(a, b)
}

func parseUnit(s string) (float64, bool) {
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}
