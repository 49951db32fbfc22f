// Package patterns builds the immutable keyword repository used by the
// breeding classifier and the quantity extractor.
package patterns

import (
	"regexp"
	"slices"

	"github.com/welfarelens/backend/internal/domain"
)

// Repository is a compiled keyword table. It is never modified after Load
// returns and is safe for concurrent use.
type Repository struct {
	version       string
	furnishedCage map[string]struct{}
	animals       map[domain.AnimalType]*AnimalPatterns
}

// Version identifies the table content the repository was built from.
func (r *Repository) Version() string {
	return r.version
}

// Animal returns the patterns of an animal type. Unknown or absent animal
// types get an empty pattern set that never matches.
func (r *Repository) Animal(a domain.AnimalType) *AnimalPatterns {
	if p, ok := r.animals[a]; ok {
		return p
	}
	return &AnimalPatterns{}
}

// BansConventionalCages reports whether any country tag belongs to a
// jurisdiction that bans or phases out conventional cages.
func (r *Repository) BansConventionalCages(countries []string) bool {
	for _, c := range countries {
		if _, ok := r.furnishedCage[normalizeTag(c)]; ok {
			return true
		}
	}
	return false
}

// Stats summarizes the repository content per animal type.
func (r *Repository) Stats() []AnimalStats {
	var stats []AnimalStats
	for _, a := range domain.AnimalTypes() {
		p, ok := r.animals[a]
		if !ok {
			continue
		}
		s := AnimalStats{AnimalType: a}
		for _, b := range p.breeding {
			s.BreedingTypes++
			s.Tags += len(b.tags)
			s.Keywords += len(b.matcher.keywords)
		}
		for _, c := range p.calibers {
			s.Calibers++
			s.Tags += len(c.tags)
			s.Keywords += len(c.matcher.keywords) + len(c.codes)
		}
		if p.quantity != nil {
			s.QuantityWords = p.quantity.words
		}
		s.FreshEggRules = p.freshEggs != nil
		stats = append(stats, s)
	}
	return stats
}

// AnimalStats counts the patterns of one animal type.
type AnimalStats struct {
	AnimalType    domain.AnimalType `json:"animal_type"`
	BreedingTypes int               `json:"breeding_types"`
	Calibers      int               `json:"calibers"`
	Tags          int               `json:"tags"`
	Keywords      int               `json:"keywords"`
	QuantityWords int               `json:"quantity_words"`
	FreshEggRules bool              `json:"fresh_egg_rules"`
}

// AnimalPatterns groups the patterns of one animal type.
type AnimalPatterns struct {
	breeding  []*BreedingPattern
	calibers  []*CaliberPattern
	freshEggs *FreshEggRules
	quantity  *QuantityPatterns
}

// Breeding returns the breeding patterns in candidate order.
func (p *AnimalPatterns) Breeding() []*BreedingPattern {
	return p.breeding
}

// Calibers returns the caliber patterns, most specific caliber first.
func (p *AnimalPatterns) Calibers() []*CaliberPattern {
	return p.calibers
}

// FreshEggs returns the fresh-egg rules, or nil.
func (p *AnimalPatterns) FreshEggs() *FreshEggRules {
	return p.freshEggs
}

// Quantity returns the quantity word patterns, or nil.
func (p *AnimalPatterns) Quantity() *QuantityPatterns {
	return p.quantity
}

// Pattern is a set of exact tags plus a keyword matcher.
type Pattern struct {
	tags    map[string]struct{}
	matcher *Matcher
}

// HasTag reports whether tag is one of the exact tags.
func (p *Pattern) HasTag(tag string) bool {
	_, ok := p.tags[normalizeTag(tag)]
	return ok
}

// HasAnyTag reports whether any of tags is one of the exact tags.
func (p *Pattern) HasAnyTag(tags []string) bool {
	for _, t := range tags {
		if p.HasTag(t) {
			return true
		}
	}
	return false
}

// Match tests caliber-normalized text against the keywords.
func (p *Pattern) Match(text string) bool {
	return p.matcher.Match(text)
}

// Excluded reports whether caliber-normalized text contains an exclusion.
func (p *Pattern) Excluded(text string) bool {
	return p.matcher.Excluded(text)
}

// Keywords returns the normalized keywords.
func (p *Pattern) Keywords() []string {
	return p.matcher.Keywords()
}

// BreedingPattern matches one unrefined breeding type.
type BreedingPattern struct {
	Type domain.BreedingType
	Pattern
}

// CaliberPattern matches one egg caliber.
type CaliberPattern struct {
	Caliber domain.EggCaliber
	Pattern

	codes       []string
	codeMatcher *regexp.Regexp
}

// Match tests caliber-normalized text against the keywords, then against
// the size codes.
func (c *CaliberPattern) Match(text string) bool {
	if c.Pattern.Match(text) {
		return true
	}
	return c.codeMatcher != nil && text != "" && c.codeMatcher.MatchString(text) && !c.Excluded(text)
}

// Codes returns the normalized size codes.
func (c *CaliberPattern) Codes() []string {
	return slices.Clone(c.codes)
}
