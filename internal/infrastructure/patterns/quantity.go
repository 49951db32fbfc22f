package patterns

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/welfarelens/backend/internal/normalize"
)

const (
	number = `(` + normalize.NumberPattern + `)`

	// numberStart keeps a capture from starting in the middle of a decimal.
	numberStart = `(?:^|[^\p{L}\p{N}.,])`

	// An optional single word may sit between a number and its unit, as in
	// "6 gros oeufs" or "12 large eggs".
	adjective = `(?:\p{L}+\s+)?`
)

// QuantityPatterns reads egg counts out of count-normalized text. All
// methods are safe on a nil receiver and then never match.
type QuantityPatterns struct {
	dozenUnit     *regexp.Regexp
	halfDozenUnit *regexp.Regexp
	countUnit     *regexp.Regexp

	numberDozen     *regexp.Regexp
	halfDozen       *regexp.Regexp
	bareDozen       *regexp.Regexp
	numberCountUnit *regexp.Regexp
	numberEggNoun   *regexp.Regexp

	words int
}

func newQuantityPatterns(t *QuantityTable) (*QuantityPatterns, error) {
	dozenWords := collectWords(t.DozenWords, foldWord)
	halfWords := collectWords(t.HalfDozenWords, foldWord)
	unitWords := collectWords(t.CountUnits, foldWord)
	nounWords := collectWords(t.EggNouns, foldWord)

	dozen := alternation(dozenWords)
	half := alternation(halfWords)
	units := alternation(unitWords)
	nouns := alternation(nounWords)

	q := &QuantityPatterns{
		words: len(dozenWords) + len(halfWords) + len(unitWords) + len(nounWords),
	}
	compiled := []struct {
		target **regexp.Regexp
		expr   string
	}{
		{&q.dozenUnit, `^(?:` + dozen + `)$`},
		{&q.halfDozenUnit, `^(?:` + half + `)$`},
		{&q.countUnit, `^(?:` + units + `)$`},
		{&q.numberDozen, numberStart + number + `\s*` + adjective + `(?:` + dozen + `)` + wordEnd},
		{&q.halfDozen, wordStart + `(?:` + half + `)` + wordEnd},
		{&q.bareDozen, wordStart + `(?:` + dozen + `)` + wordEnd},
		{&q.numberCountUnit, numberStart + number + `\s*` + adjective + `(?:` + units + `)` + wordEnd},
		{&q.numberEggNoun, numberStart + number + `\s+` + adjective + `(?:` + nouns + `)` + wordEnd},
	}
	for _, c := range compiled {
		re, err := regexp.Compile(c.expr)
		if err != nil {
			return nil, fmt.Errorf("compile quantity pattern: %w", err)
		}
		*c.target = re
	}
	return q, nil
}

// IsDozenUnit reports whether words is exactly a dozen word ("douzaine").
func (q *QuantityPatterns) IsDozenUnit(words string) bool {
	return q != nil && q.dozenUnit.MatchString(words)
}

// IsHalfDozenUnit reports whether words is exactly a half-dozen phrase.
func (q *QuantityPatterns) IsHalfDozenUnit(words string) bool {
	return q != nil && q.halfDozenUnit.MatchString(words)
}

// IsCountUnit reports whether words is exactly a count unit ("pieces").
func (q *QuantityPatterns) IsCountUnit(words string) bool {
	return q != nil && q.countUnit.MatchString(words)
}

// FindDozens returns the number written before a dozen word ("2 dozen").
func (q *QuantityPatterns) FindDozens(text string) (string, bool) {
	if q == nil {
		return "", false
	}
	return firstGroup(q.numberDozen, text)
}

// HasHalfDozen reports whether text mentions half a dozen.
func (q *QuantityPatterns) HasHalfDozen(text string) bool {
	return q != nil && q.halfDozen.MatchString(text)
}

// HasDozen reports whether text mentions a dozen word on its own.
func (q *QuantityPatterns) HasDozen(text string) bool {
	return q != nil && q.bareDozen.MatchString(text)
}

// FindCountUnit returns the number written before a count unit ("6 oeufs").
func (q *QuantityPatterns) FindCountUnit(text string) (string, bool) {
	if q == nil {
		return "", false
	}
	return firstGroup(q.numberCountUnit, text)
}

// FindEggNoun returns the number written before an egg noun ("3 eggs").
func (q *QuantityPatterns) FindEggNoun(text string) (string, bool) {
	if q == nil {
		return "", false
	}
	return firstGroup(q.numberEggNoun, text)
}

func firstGroup(re *regexp.Regexp, text string) (string, bool) {
	m := re.FindStringSubmatch(text)
	if m == nil {
		return "", false
	}
	return m[1], true
}

// foldWord normalizes a quantity word the way count-normalized text is
// folded: punctuation such as the hyphen of "demi-douzaine" is kept.
func foldWord(w string) string {
	return strings.Join(strings.Fields(normalize.Fold(w)), " ")
}
