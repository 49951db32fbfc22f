// Package normalize canonicalizes product text for pattern matching. The
// output is only ever compared against patterns, never shown to users.
//
// Three profiles exist: Count keeps digits and rewrites numeric noise so egg
// counts can be read, Caliber drops digits and punctuation so keywords can be
// matched, and Weight keeps numbers intact for unit conversion. All of them
// are pure and idempotent.
package normalize

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// stripAccents returns a fresh transformer; chained transformers keep state
// and must not be shared between goroutines.
func stripAccents() transform.Transformer {
	return transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
}

// ligatures covers letters that carry no combining mark under NFD, plus the
// typographic apostrophes and spaces seen in catalog data.
var ligatures = strings.NewReplacer(
	"œ", "oe", "æ", "ae", "ß", "ss", "ł", "l", "ø", "o", "đ", "d", "ı", "i",
	"ﬁ", "fi", "ﬂ", "fl",
	"’", "'", "‘", "'", "ʼ", "'", "`", "'",
	"\u00a0", " ", "\u202f", " ", "\u2009", " ", "\u2007", " ",
	"½", "1/2",
)

var (
	multiSpace = regexp.MustCompile(`\s+`)

	percentPattern = regexp.MustCompile(NumberPattern + `(?:\s*%)+`)
	omegaPattern   = regexp.MustCompile(`omega\s*-?\s*3`)
	sizePattern    = regexp.MustCompile(`\b(?:size|taille)\s*\d+`)
	onePattern     = regexp.MustCompile(`\b(?:one|une)\b`)
	halfPattern    = regexp.MustCompile(`(^|[^\d/])1/2([^\d/]|$)`)

	// "1 200" -> "1200", "1 000 000" -> "1000000". Only space separators
	// are merged; "1.200" and "1,5" stay decimals.
	thousandsPattern = regexp.MustCompile(`(^|[^\d.,])([1-9]\d{0,2}(?: +\d{3})+)(\D|$)`)

	// "53-63" -> "63". Chains collapse to their last bound.
	rangePattern = regexp.MustCompile(`(?:\d+(?:[.,]\d+)?)(?:[-–](\d+(?:[.,]\d+)?))+`)

	// Numbers that are weights or volumes are not counts. A bare "l" is left
	// alone: on egg boxes "6 L" is a caliber, not six litres.
	weightNumberPattern = regexp.MustCompile(NumberPattern + `\s*` + countWeightUnitPattern() + `(\P{L}|$)`)

	digitsPattern      = regexp.MustCompile(`\p{N}+`)
	punctuationPattern = regexp.MustCompile(`[^\p{L}\s']+`)
	tagPrefixPattern   = regexp.MustCompile(`^[a-z]{2,3}:`)
)

// Fold lowercases s and strips accents and ligatures ("Œufs élevés" -> "oeufs eleves").
func Fold(s string) string {
	if s == "" {
		return ""
	}
	folded := ligatures.Replace(strings.ToLower(s))
	result, _, err := transform.String(stripAccents(), folded)
	if err != nil {
		return folded
	}
	return result
}

// Count normalizes a quantity or name string for count extraction.
func Count(s string) string {
	return fixpoint(Fold(s), countPass)
}

func countPass(s string) string {
	s = percentPattern.ReplaceAllString(s, " ")
	s = omegaPattern.ReplaceAllString(s, " ")
	s = sizePattern.ReplaceAllString(s, " ")
	s = onePattern.ReplaceAllString(s, "1")
	s = halfPattern.ReplaceAllString(s, "${1}.5${2}")
	s = mergeThousands(s)
	s = rangePattern.ReplaceAllString(s, "${1}")
	s = weightNumberPattern.ReplaceAllString(s, " ${1}")
	return collapse(s)
}

// Caliber normalizes text for keyword matching: digits are dropped and all
// punctuation except apostrophes becomes a space.
func Caliber(s string) string {
	s = Fold(s)
	if s == "" {
		return ""
	}
	s = digitsPattern.ReplaceAllString(s, "")
	s = punctuationPattern.ReplaceAllString(s, " ")
	return collapse(s)
}

// Weight normalizes a quantity string for weight extraction.
func Weight(s string) string {
	return fixpoint(Fold(s), weightPass)
}

func weightPass(s string) string {
	return collapse(mergeThousands(s))
}

// Tag turns a taxonomy tag such as "en:free-range-chicken-eggs" into keyword
// text ("free range chicken eggs").
func Tag(tag string) string {
	return Caliber(StripTagPrefix(tag))
}

// StripTagPrefix removes the language prefix of a lowercased taxonomy tag.
func StripTagPrefix(tag string) string {
	return tagPrefixPattern.ReplaceAllString(strings.ToLower(strings.TrimSpace(tag)), "")
}

func mergeThousands(s string) string {
	return thousandsPattern.ReplaceAllStringFunc(s, func(match string) string {
		m := thousandsPattern.FindStringSubmatch(match)
		return m[1] + strings.ReplaceAll(m[2], " ", "") + m[3]
	})
}

// fixpoint applies pass until the text stops changing. Removing one token can
// bring two numbers next to each other, so a single pass is not idempotent.
func fixpoint(s string, pass func(string) string) string {
	for i := 0; i < 8 && s != ""; i++ {
		next := pass(s)
		if next == s {
			break
		}
		s = next
	}
	return s
}

func collapse(s string) string {
	return strings.TrimSpace(multiSpace.ReplaceAllString(s, " "))
}
