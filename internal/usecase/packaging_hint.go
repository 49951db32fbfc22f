package usecase

import (
	"strings"
	"unicode/utf8"

	"github.com/welfarelens/backend/internal/domain"
	"github.com/welfarelens/backend/internal/infrastructure/patterns"
	"github.com/welfarelens/backend/internal/normalize"
)

// Fuzzy matching only applies to single-word keywords and tokens of at least
// this many runes, so OCR noise on short words does not produce hints.
const (
	minFuzzyRunes   = 5
	maxEditDistance = 1
)

// HintBreeding suggests breeding types from OCR text of the packaging. The
// keyword patterns are tried first; when none matches, single-word keywords
// are compared to the text tokens within one edit. Hints are informative
// and never replace the classifier decision.
func HintBreeding(repo *patterns.Repository, p *domain.ProductRecord, animal domain.AnimalType) []domain.BreedingType {
	text := normalize.Caliber(p.PackagingText)
	if text == "" {
		return nil
	}
	breeding := repo.Animal(animal).Breeding()

	found := matchBreeding(breeding, []string{text})
	if len(found) == 0 {
		found = fuzzyBreeding(breeding, text)
	}
	if len(found) == 0 {
		return nil
	}
	return refineCage(repo, found, p.CountriesTags)
}

func fuzzyBreeding(breeding []*patterns.BreedingPattern, text string) []domain.BreedingType {
	tokens := tokenize(text)
	var found []domain.BreedingType
	for _, b := range breeding {
		if b.Excluded(text) {
			continue
		}
		if anyFuzzyKeyword(b.Keywords(), tokens) {
			found = append(found, b.Type)
		}
	}
	return found
}

func anyFuzzyKeyword(keywords, tokens []string) bool {
	for _, kw := range keywords {
		if strings.Contains(kw, " ") || utf8.RuneCountInString(kw) < minFuzzyRunes {
			continue
		}
		for _, token := range tokens {
			if fuzzyTokenMatch(token, kw, maxEditDistance) {
				return true
			}
		}
	}
	return false
}

// tokenize splits normalized text into tokens long enough for fuzzy matching.
func tokenize(s string) []string {
	var tokens []string
	for _, word := range strings.Fields(s) {
		if utf8.RuneCountInString(word) >= minFuzzyRunes {
			tokens = append(tokens, word)
		}
	}
	return tokens
}

// fuzzyTokenMatch checks if two tokens are within threshold edits.
func fuzzyTokenMatch(token1, token2 string, threshold int) bool {
	if token1 == token2 {
		return true
	}

	// Quick length check - if lengths differ by more than threshold, can't match
	lenDiff := utf8.RuneCountInString(token1) - utf8.RuneCountInString(token2)
	if lenDiff < 0 {
		lenDiff = -lenDiff
	}
	if lenDiff > threshold {
		return false
	}

	return levenshteinDistance(token1, token2) <= threshold
}

// levenshteinDistance calculates the edit distance between two strings
func levenshteinDistance(s1, s2 string) int {
	r1 := []rune(s1)
	r2 := []rune(s2)
	m := len(r1)
	n := len(r2)
	if m == 0 {
		return n
	}
	if n == 0 {
		return m
	}

	// Use two rows instead of full matrix for space efficiency
	prev := make([]int, n+1)
	curr := make([]int, n+1)
	for j := 0; j <= n; j++ {
		prev[j] = j
	}

	for i := 1; i <= m; i++ {
		curr[0] = i
		for j := 1; j <= n; j++ {
			cost := 0
			if r1[i-1] != r2[j-1] {
				cost = 1
			}
			curr[j] = min(
				prev[j]+1,      // deletion
				curr[j-1]+1,    // insertion
				prev[j-1]+cost, // substitution
			)
		}
		prev, curr = curr, prev
	}

	return prev[n]
}
