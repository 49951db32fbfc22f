package usecase

import (
	"math"
	"regexp"
	"strings"

	"github.com/welfarelens/backend/internal/domain"
	"github.com/welfarelens/backend/internal/infrastructure/patterns"
	"github.com/welfarelens/backend/internal/normalize"
)

// MaxEggCount bounds every egg count read from product data. Larger numbers
// are lot codes, weights or prices rather than counts.
const MaxEggCount = 250

// Quantity stages, reported in debug logs and metrics.
const (
	QuantityStageCount       = "quantity_count"
	QuantityStageUnit        = "quantity_unit"
	QuantityStageArithmetic  = "quantity_arithmetic"
	QuantityStageCountUnit   = "quantity_count_unit"
	QuantityStageDigits      = "quantity_digits"
	QuantityStageProductName = "product_name"
	QuantityStageGenericName = "generic_name"
	QuantityStageIngredients = "ingredients"
	QuantityStageStructured  = "structured_quantity"
	QuantityStageWeight      = "quantity_weight"
	QuantityStageNone        = "none"
)

const number = `(` + normalize.NumberPattern + `)`

var (
	pureCountPattern   = regexp.MustCompile(`^` + number + `$`)
	numberWordsPattern = regexp.MustCompile(`^` + number + `\s*(\p{L}[\p{L}'\s-]*)$`)

	additionPattern = regexp.MustCompile(`(?:^|[^\d.,])(\d{1,3})\s*\+\s*(\d{1,3})(?:[^\d.,]|$)`)
	multiplyPattern = regexp.MustCompile(`(?:^|[^\d.,])(\d{1,3})\s*[x×*]\s*(\d{1,3})(?:[^\d.,]|$)`)

	// "x6", "x 6" and "6x", but not "6 xl".
	xPrefixPattern = regexp.MustCompile(`(?:^|[^\p{L}\p{N}])x\s*(\d{1,3})(?:[^\d.,]|$)`)
	xSuffixPattern = regexp.MustCompile(`(?:^|[^\d.,])(\d{1,3})\s*x(?:$|[^\p{L}])`)

	digitRunPattern = regexp.MustCompile(`(?:^|[^\d.,])(\d{1,3})(?:[^\d.,]|$)`)

	weightUnits             = normalize.WeightUnitPattern()
	weightPattern           = regexp.MustCompile(number + `\s*(` + weightUnits + `)(?:\P{L}|$)`)
	multipliedWeightPattern = regexp.MustCompile(`(\d{1,3})\s*[x×*]\s*` + number + `\s*(` + weightUnits + `)(?:\P{L}|$)`)
)

// ExtractEggQuantity reads the egg caliber, count and total weight of a
// product. The first rule that yields a count or weight wins; when nothing
// matches the result is incomplete with every field unset.
func ExtractEggQuantity(repo *patterns.Repository, p *domain.ProductRecord) domain.EggQuantity {
	q, _ := extractEggQuantity(repo, p)
	return q
}

type eggCount struct {
	n       int
	caliber *domain.EggCaliber
}

func extractEggQuantity(repo *patterns.Repository, p *domain.ProductRecord) (domain.EggQuantity, string) {
	hen := repo.Animal(domain.LayingHen)
	r := quantityReader{calibers: hen.Calibers(), words: hen.Quantity()}

	var q domain.EggQuantity
	if c, ok := resolveCaliber(r.calibers, p); ok {
		q.Caliber = &c
	}

	quantity := normalize.Count(p.Quantity)
	stages := []struct {
		name string
		read func() (eggCount, bool)
	}{
		{QuantityStageCount, func() (eggCount, bool) { return r.pureCount(quantity) }},
		{QuantityStageUnit, func() (eggCount, bool) { return r.numberWithUnit(quantity) }},
		{QuantityStageArithmetic, func() (eggCount, bool) { return r.arithmetic(quantity) }},
		{QuantityStageCountUnit, func() (eggCount, bool) { return r.countUnit(quantity) }},
		{QuantityStageDigits, func() (eggCount, bool) { return r.digitRun(quantity) }},
		{QuantityStageProductName, func() (eggCount, bool) { return r.name(p.ProductName) }},
		{QuantityStageGenericName, func() (eggCount, bool) { return r.name(p.GenericName) }},
		{QuantityStageIngredients, func() (eggCount, bool) { return r.ingredients(p.IngredientsTags) }},
	}
	for _, s := range stages {
		if c, ok := s.read(); ok {
			q.SetCount(c.n, c.caliber)
			return q, s.name
		}
	}

	if c, grams, ok := r.structured(p); ok {
		if c != nil {
			q.SetCount(c.n, nil)
		} else {
			q.SetWeight(grams)
		}
		return q, QuantityStageStructured
	}

	if grams, ok := weightFromText(p.Quantity); ok {
		q.SetWeight(grams)
		return q, QuantityStageWeight
	}
	return domain.EggQuantity{}, QuantityStageNone
}

// resolveCaliber looks for a caliber in the category tags, then the product
// name, the generic name and the quantity field.
func resolveCaliber(calibers []*patterns.CaliberPattern, p *domain.ProductRecord) (domain.EggCaliber, bool) {
	for _, c := range calibers {
		if c.HasAnyTag(p.CategoriesTags) {
			return c.Caliber, true
		}
	}
	for _, text := range []string{p.ProductName, p.GenericName, p.Quantity} {
		if c, ok := matchCaliber(calibers, normalize.Caliber(text)); ok {
			return c, true
		}
	}
	return "", false
}

func matchCaliber(calibers []*patterns.CaliberPattern, text string) (domain.EggCaliber, bool) {
	if text == "" {
		return "", false
	}
	for _, c := range calibers {
		if c.Match(text) {
			return c.Caliber, true
		}
	}
	return "", false
}

// quantityReader holds the rules of each extraction stage. Text arguments
// are count-normalized unless stated otherwise.
type quantityReader struct {
	calibers []*patterns.CaliberPattern
	words    *patterns.QuantityPatterns
}

// count accepts whole counts in (0, MaxEggCount].
func (r quantityReader) count(v float64, caliber *domain.EggCaliber) (eggCount, bool) {
	if v <= 0 || v > MaxEggCount || v != math.Trunc(v) {
		return eggCount{}, false
	}
	return eggCount{n: int(v), caliber: caliber}, true
}

func (r quantityReader) parsed(s string, factor float64) (eggCount, bool) {
	v, ok := parseNumber(s)
	if !ok {
		return eggCount{}, false
	}
	return r.count(v*factor, nil)
}

func (r quantityReader) pureCount(text string) (eggCount, bool) {
	m := pureCountPattern.FindStringSubmatch(text)
	if m == nil {
		return eggCount{}, false
	}
	return r.parsed(m[1], 1)
}

// numberWithUnit reads "<number> <words>": a dozen word multiplies, a
// caliber word forces the caliber, and any other word is a count unit. A
// dozen word on its own counts as one dozen.
func (r quantityReader) numberWithUnit(text string) (eggCount, bool) {
	m := numberWordsPattern.FindStringSubmatch(text)
	if m == nil {
		switch {
		case r.words.IsHalfDozenUnit(text):
			return r.count(6, nil)
		case r.words.IsDozenUnit(text):
			return r.count(12, nil)
		}
		return eggCount{}, false
	}

	v, ok := parseNumber(m[1])
	if !ok {
		return eggCount{}, false
	}
	words := strings.TrimSpace(m[2])
	switch {
	case r.words.HasHalfDozen(words):
		return r.count(v*6, nil)
	case r.words.HasDozen(words):
		return r.count(v*12, nil)
	}
	if c, ok := matchCaliber(r.calibers, normalize.Caliber(words)); ok {
		return r.count(v, &c)
	}
	return r.count(v, nil)
}

// arithmetic reads "10 + 2" and "2 x 6".
func (r quantityReader) arithmetic(text string) (eggCount, bool) {
	if m := additionPattern.FindStringSubmatch(text); m != nil {
		a, okA := parseNumber(m[1])
		b, okB := parseNumber(m[2])
		if okA && okB {
			return r.count(a+b, nil)
		}
	}
	if m := multiplyPattern.FindStringSubmatch(text); m != nil {
		a, okA := parseNumber(m[1])
		b, okB := parseNumber(m[2])
		if okA && okB {
			return r.count(a*b, nil)
		}
	}
	return eggCount{}, false
}

// countUnit reads a number next to a dozen word or count unit, or an "x6" form.
func (r quantityReader) countUnit(text string) (eggCount, bool) {
	if n, ok := r.words.FindDozens(text); ok {
		if c, ok := r.parsed(n, 12); ok {
			return c, true
		}
	}
	if n, ok := r.words.FindCountUnit(text); ok {
		if c, ok := r.parsed(n, 1); ok {
			return c, true
		}
	}
	for _, re := range []*regexp.Regexp{xPrefixPattern, xSuffixPattern} {
		if m := re.FindStringSubmatch(text); m != nil {
			if c, ok := r.parsed(m[1], 1); ok {
				return c, true
			}
		}
	}
	return eggCount{}, false
}

// digitRun takes the first run of at most three digits. A run above
// MaxEggCount is rejected rather than skipped.
func (r quantityReader) digitRun(text string) (eggCount, bool) {
	m := digitRunPattern.FindStringSubmatch(text)
	if m == nil {
		return eggCount{}, false
	}
	return r.parsed(m[1], 1)
}

// name applies the quantity-field rules to a product name. The raw name is
// count-normalized here.
func (r quantityReader) name(raw string) (eggCount, bool) {
	text := normalize.Count(raw)
	if text == "" {
		return eggCount{}, false
	}
	if c, ok := r.numberWithUnit(text); ok {
		return c, true
	}
	if r.words.HasHalfDozen(text) {
		if _, numbered := r.words.FindDozens(text); !numbered {
			return r.count(6, nil)
		}
	}
	if c, ok := r.arithmetic(text); ok {
		return c, true
	}
	if c, ok := r.countUnit(text); ok {
		return c, true
	}
	if r.words.HasDozen(text) {
		return r.count(12, nil)
	}
	return eggCount{}, false
}

// ingredients reads "<N> eggs" from ingredient tags such as "en:2-eggs".
func (r quantityReader) ingredients(tags []string) (eggCount, bool) {
	for _, tag := range tags {
		text := normalize.Count(strings.ReplaceAll(normalize.StripTagPrefix(tag), "-", " "))
		if n, ok := r.words.FindEggNoun(text); ok {
			if c, ok := r.parsed(n, 1); ok {
				return c, true
			}
		}
	}
	return eggCount{}, false
}

// structured reads product_quantity and its unit: a count unit gives a
// count, a weight or volume unit gives grams. An empty unit is ignored.
func (r quantityReader) structured(p *domain.ProductRecord) (*eggCount, float64, bool) {
	if p.ProductQuantity == nil || *p.ProductQuantity <= 0 {
		return nil, 0, false
	}
	unit := strings.Join(strings.Fields(normalize.Fold(p.ProductQuantityUnit)), " ")
	if unit == "" {
		return nil, 0, false
	}
	value := *p.ProductQuantity
	if r.words.IsCountUnit(unit) {
		if c, ok := r.count(value, nil); ok {
			return &c, 0, true
		}
		return nil, 0, false
	}
	if grams, ok := gramsFor(value, unit); ok {
		return nil, grams, true
	}
	return nil, 0, false
}

// weightFromText converts a weight or volume expression ("500 g",
// "12 x 53 g") in the raw quantity field to grams.
func weightFromText(raw string) (float64, bool) {
	text := normalize.Weight(raw)
	if text == "" {
		return 0, false
	}
	if m := multipliedWeightPattern.FindStringSubmatch(text); m != nil {
		n, okN := parseNumber(m[1])
		v, okV := parseNumber(m[2])
		if okN && okV {
			if grams, ok := gramsFor(n*v, m[3]); ok && grams > 0 {
				return grams, true
			}
		}
	}
	if m := weightPattern.FindStringSubmatch(text); m != nil {
		v, ok := parseNumber(m[1])
		if ok {
			if grams, ok := gramsFor(v, m[2]); ok && grams > 0 {
				return grams, true
			}
		}
	}
	return 0, false
}
