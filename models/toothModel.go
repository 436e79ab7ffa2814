package models

import "fmt"

// Quadrants in chart display order: upper right, upper left, lower right,
// lower left. Each row runs from the patient's right to left.
var adultTeeth = [][]int{
	{18, 17, 16, 15, 14, 13, 12, 11},
	{21, 22, 23, 24, 25, 26, 27, 28},
	{48, 47, 46, 45, 44, 43, 42, 41},
	{31, 32, 33, 34, 35, 36, 37, 38},
}

var childTeeth = [][]int{
	{55, 54, 53, 52, 51},
	{61, 62, 63, 64, 65},
	{85, 84, 83, 82, 81},
	{71, 72, 73, 74, 75},
}

// ToothLayout returns a copy of the quadrant layout for the patient type.
func ToothLayout(t PatientType) ([][]int, error) {
	var src [][]int
	switch t {
	case PatientAdult:
		src = adultTeeth
	case PatientChild:
		src = childTeeth
	default:
		return nil, fmt.Errorf("unknown patient type %q", t)
	}
	out := make([][]int, len(src))
	for i, q := range src {
		out[i] = append([]int(nil), q...)
	}
	return out, nil
}

// ValidTooth reports whether tooth belongs to the layout of t.
func ValidTooth(t PatientType, tooth int) bool {
	quadrant, position := tooth/10, tooth%10
	switch t {
	case PatientAdult:
		return quadrant >= 1 && quadrant <= 4 && position >= 1 && position <= 8
	case PatientChild:
		return quadrant >= 5 && quadrant <= 8 && position >= 1 && position <= 5
	}
	return false
}
