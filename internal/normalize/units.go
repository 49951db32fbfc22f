package normalize

import (
	"cmp"
	"regexp"
	"slices"
	"strings"
)

// NumberPattern matches "12", "1.5", "1,5" and ".5" without capturing.
const NumberPattern = `(?:\d+(?:[.,]\d+)?|[.,]\d+)`

// weightUnits are the folded weight and volume units read in quantity text.
var weightUnits = []string{
	"mg", "g", "gr", "grs", "gram", "grams", "gramm", "gramme", "grammes",
	"kg", "kgs", "kilo", "kilos", "kilogram", "kilograms", "kilogramme", "kilogrammes",
	"oz", "fl oz", "lb", "lbs",
	"ml", "millilitre", "millilitres", "milliliter", "milliliters",
	"cl", "dl", "l", "litre", "litres", "liter", "liters",
}

// WeightUnits returns the weight and volume units recognized in quantity text.
func WeightUnits() []string {
	return slices.Clone(weightUnits)
}

// WeightUnitPattern returns a non-capturing alternation of WeightUnits.
func WeightUnitPattern() string {
	return unitAlternation(weightUnits)
}

// countWeightUnitPattern leaves out a bare "l": next to a number in count
// text it is a caliber ("6 L"), not litres.
func countWeightUnitPattern() string {
	return unitAlternation(slices.DeleteFunc(WeightUnits(), func(u string) bool { return u == "l" }))
}

// unitAlternation orders units longest first. The words of a multi-word unit
// may be joined by a dot, spaces or nothing ("fl oz", "fl.oz", "floz").
func unitAlternation(units []string) string {
	sorted := slices.Clone(units)
	slices.SortStableFunc(sorted, func(a, b string) int { return cmp.Compare(len(b), len(a)) })

	parts := make([]string, len(sorted))
	for i, u := range sorted {
		words := strings.Fields(u)
		for j, w := range words {
			words[j] = regexp.QuoteMeta(w)
		}
		parts[i] = strings.Join(words, `\.?\s*`)
	}
	return `(?:` + strings.Join(parts, "|") + `)`
}

// UnitKey canonicalizes a unit as written ("Fl. Oz", "g.") for table lookup.
func UnitKey(unit string) string {
	return strings.Map(func(r rune) rune {
		if r == '.' || r == ' ' || r == '\t' {
			return -1
		}
		return r
	}, Fold(strings.TrimSpace(unit)))
}
