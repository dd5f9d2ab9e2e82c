package services

import "strings"

type dimension int

const (
	mass dimension = iota
	length
	volume
)

type unitDef struct {
	dim dimension
	// factor to the dimension's base unit (kg, m, l)
	factor float64
}

var units = map[string]unitDef{
	"kg":  {mass, 1},
	"kgs": {mass, 1},
	"g":   {mass, 0.001},
	"lb":  {mass, 0.45359237},
	"lbs": {mass, 0.45359237},
	"oz":  {mass, 0.028349523125},
	"m":   {length, 1},
	"cm":  {length, 0.01},
	"yd":  {length, 0.9144},
	"yds": {length, 0.9144},
	"l":   {volume, 1},
	"ml":  {volume, 0.001},
}

// NormalizeUnit lower-cases and trims a unit label
func NormalizeUnit(unit string) string {
	return strings.ToLower(strings.TrimSpace(unit))
}

// Convert converts qty between units. Volume and mass convert through density in kg/l
// when density is positive. Unsupported pairs return false instead of failing, so
// callers decide whether to skip or flag the value.
func Convert(qty float64, from, to string, density float64) (float64, bool) {
	from, to = NormalizeUnit(from), NormalizeUnit(to)
	if from == to {
		return qty, true
	}

	src, ok := units[from]
	if !ok {
		return 0, false
	}
	dst, ok := units[to]
	if !ok {
		return 0, false
	}

	base := qty * src.factor
	if src.dim != dst.dim {
		switch {
		case density <= 0:
			return 0, false
		case src.dim == volume && dst.dim == mass:
			base *= density
		case src.dim == mass && dst.dim == volume:
			base /= density
		default:
			return 0, false
		}
	}

	return base / dst.factor, true
}
