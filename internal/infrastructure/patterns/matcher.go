package patterns

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
)

// Keyword boundaries. RE2 has no lookaround, so boundaries consume the
// neighbouring rune; patterns are only used for existence tests or for a
// single capture, where that does not matter.
const (
	wordStart = `(?:^|[^\p{L}\p{N}])`
	wordEnd   = `(?:$|[^\p{L}\p{N}])`

	// Strict boundaries also treat an apostrophe as part of the word, so a
	// one-letter caliber code never matches the "l" of "l'oeuf".
	strictStart = `(?:^|[^\p{L}\p{N}'])`
	strictEnd   = `(?:$|[^\p{L}\p{N}'])`

	neverMatch = `\b\B`
)

// Matcher tests normalized text against a keyword alternation. A text
// matches when it contains a keyword and no exclusion phrase.
type Matcher struct {
	include  *regexp.Regexp
	exclude  *regexp.Regexp
	keywords []string
}

func newMatcher(keywords, exclusions []string, start, end string) (*Matcher, error) {
	m := &Matcher{keywords: keywords}
	if len(keywords) > 0 {
		re, err := regexp.Compile(start + "(?:" + alternation(keywords) + ")" + end)
		if err != nil {
			return nil, fmt.Errorf("compile keywords: %w", err)
		}
		m.include = re
	}
	if len(exclusions) > 0 {
		re, err := regexp.Compile(wordStart + "(?:" + alternation(exclusions) + ")" + wordEnd)
		if err != nil {
			return nil, fmt.Errorf("compile exclusions: %w", err)
		}
		m.exclude = re
	}
	return m, nil
}

// newCodeMatcher matches a code that is the whole text, or that directly
// follows a cue word. It returns nil when there are no codes.
func newCodeMatcher(codes, cues []string) (*regexp.Regexp, error) {
	if len(codes) == 0 {
		return nil, nil
	}
	expr := `^(?:` + alternation(codes) + `)$`
	if len(cues) > 0 {
		expr += `|` + strictStart + `(?:` + alternation(cues) + `)\s+(?:` + alternation(codes) + `)` + strictEnd
	}
	re, err := regexp.Compile(expr)
	if err != nil {
		return nil, fmt.Errorf("compile codes: %w", err)
	}
	return re, nil
}

// Match reports whether text contains a keyword and no exclusion.
func (m *Matcher) Match(text string) bool {
	if m == nil || m.include == nil || text == "" {
		return false
	}
	if !m.include.MatchString(text) {
		return false
	}
	return !m.Excluded(text)
}

// Excluded reports whether text contains an exclusion phrase.
func (m *Matcher) Excluded(text string) bool {
	return m != nil && m.exclude != nil && m.exclude.MatchString(text)
}

// Keywords returns the normalized keywords, longest first.
func (m *Matcher) Keywords() []string {
	if m == nil {
		return nil
	}
	out := make([]string, len(m.keywords))
	copy(out, m.keywords)
	return out
}

// alternation joins words into a regex alternation. Longer words come first
// so "battery cages" is preferred over "battery" when capturing, and inner
// spaces match any run of whitespace.
func alternation(words []string) string {
	if len(words) == 0 {
		return neverMatch
	}
	sorted := sortWords(words)
	parts := make([]string, len(sorted))
	for i, w := range sorted {
		parts[i] = strings.ReplaceAll(regexp.QuoteMeta(w), " ", `\s+`)
	}
	return strings.Join(parts, "|")
}

// collectWords flattens a per-language word table into a deduplicated list.
// Languages are visited in sorted order so the result is deterministic.
func collectWords(byLanguage map[string][]string, normalize func(string) string) []string {
	languages := make([]string, 0, len(byLanguage))
	for lang := range byLanguage {
		languages = append(languages, lang)
	}
	sort.Strings(languages)

	seen := make(map[string]bool)
	var words []string
	for _, lang := range languages {
		for _, w := range byLanguage[lang] {
			n := normalize(w)
			if n == "" || seen[n] {
				continue
			}
			seen[n] = true
			words = append(words, n)
		}
	}
	return sortWords(words)
}

func sortWords(words []string) []string {
	sorted := make([]string, len(words))
	copy(sorted, words)
	sort.Slice(sorted, func(i, j int) bool {
		if len(sorted[i]) != len(sorted[j]) {
			return len(sorted[i]) > len(sorted[j])
		}
		return sorted[i] < sorted[j]
	})
	return sorted
}

func tagSet(tags []string) map[string]struct{} {
	set := make(map[string]struct{}, len(tags))
	for _, t := range tags {
		t = normalizeTag(t)
		if t != "" {
			set[t] = struct{}{}
		}
	}
	return set
}

func normalizeTag(tag string) string {
	return strings.ToLower(strings.TrimSpace(tag))
}
