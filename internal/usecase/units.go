package usecase

import (
	"strconv"
	"strings"

	"github.com/welfarelens/backend/internal/normalize"
)

// Egg density is taken as 1.03 g/ml for volume units.
const eggDensity = 1.03

// gramsPerUnit converts the units of normalize.WeightUnits to grams.
var gramsPerUnit = map[string]float64{
	"g":           1,
	"gr":          1,
	"grs":         1,
	"gram":        1,
	"grams":       1,
	"gramm":       1,
	"gramme":      1,
	"grammes":     1,
	"mg":          0.001,
	"kg":          1000,
	"kgs":         1000,
	"kilo":        1000,
	"kilos":       1000,
	"kilogram":    1000,
	"kilograms":   1000,
	"kilogramme":  1000,
	"kilogrammes": 1000,
	"oz":          28.35,
	"fl oz":       29.5735 * eggDensity,
	"lb":          453.59,
	"lbs":         453.59,
	"ml":          eggDensity,
	"millilitre":  eggDensity,
	"millilitres": eggDensity,
	"milliliter":  eggDensity,
	"milliliters": eggDensity,
	"cl":          10 * eggDensity,
	"dl":          100 * eggDensity,
	"l":           1000 * eggDensity,
	"litre":       1000 * eggDensity,
	"litres":      1000 * eggDensity,
	"liter":       1000 * eggDensity,
	"liters":      1000 * eggDensity,
}

var gramsByUnitKey = func() map[string]float64 {
	m := make(map[string]float64, len(gramsPerUnit))
	for unit, factor := range gramsPerUnit {
		m[normalize.UnitKey(unit)] = factor
	}
	return m
}()

// gramsFor returns the weight in grams of value units of unit.
func gramsFor(value float64, unit string) (float64, bool) {
	factor, ok := gramsByUnitKey[normalize.UnitKey(unit)]
	if !ok {
		return 0, false
	}
	return value * factor, true
}

// parseNumber parses "12", "1.5", "1,5" and ".5".
func parseNumber(s string) (float64, bool) {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", ".")
	if strings.HasPrefix(s, ".") {
		s = "0" + s
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}
