package patterns

import (
	"bytes"
	"crypto/sha256"
	_ "embed"
	"encoding/hex"
	"fmt"
	"os"
	"slices"
	"sort"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/welfarelens/backend/internal/domain"
	"github.com/welfarelens/backend/internal/normalize"
)

//go:embed data/patterns.yaml
var defaultTable []byte

var defaultRepository = sync.OnceValue(func() *Repository {
	repo, err := Load(defaultTable)
	if err != nil {
		panic(fmt.Sprintf("patterns: embedded table: %v", err))
	}
	return repo
})

// Default returns the repository built from the embedded keyword table.
func Default() *Repository {
	return defaultRepository()
}

// DefaultTable returns a copy of the embedded keyword table.
func DefaultTable() []byte {
	return bytes.Clone(defaultTable)
}

// LoadFile builds a repository from a YAML table on disk.
func LoadFile(path string) (*Repository, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %v", domain.ErrPatternTable, path, err)
	}
	return Load(data)
}

// Load builds a repository from a YAML table. Unknown fields, animal types,
// breeding types and calibers are rejected.
func Load(data []byte) (*Repository, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var table Table
	if err := dec.Decode(&table); err != nil {
		return nil, fmt.Errorf("%w: decode: %v", domain.ErrPatternTable, err)
	}

	repo, err := build(&table)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrPatternTable, err)
	}
	sum := sha256.Sum256(data)
	repo.version = hex.EncodeToString(sum[:])[:12]
	return repo, nil
}

func build(t *Table) (*Repository, error) {
	repo := &Repository{
		furnishedCage: tagSet(t.FurnishedCageCountries),
		animals:       make(map[domain.AnimalType]*AnimalPatterns, len(t.Animals)),
	}

	names := make([]string, 0, len(t.Animals))
	for name := range t.Animals {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		animal, ok := parseAnimalType(name)
		if !ok {
			return nil, fmt.Errorf("unknown animal type %q", name)
		}
		at := t.Animals[name]
		p, err := buildAnimal(animal, &at)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		repo.animals[animal] = p
	}
	return repo, nil
}

func buildAnimal(animal domain.AnimalType, t *AnimalTable) (*AnimalPatterns, error) {
	p := &AnimalPatterns{}

	candidates := animal.CandidateBreedingTypes()
	for key := range t.BreedingTypes {
		if !slices.Contains(candidates, domain.BreedingType(key)) {
			return nil, fmt.Errorf("unknown breeding type %q", key)
		}
	}
	for _, bt := range candidates {
		set, ok := t.BreedingTypes[string(bt)]
		if !ok {
			continue
		}
		pattern, err := buildPattern(&set, wordStart, wordEnd)
		if err != nil {
			return nil, fmt.Errorf("breeding type %s: %w", bt, err)
		}
		p.breeding = append(p.breeding, &BreedingPattern{Type: bt, Pattern: pattern})
	}

	calibers := domain.Calibers()
	for key := range t.Calibers {
		if !slices.Contains(calibers, domain.EggCaliber(key)) {
			return nil, fmt.Errorf("unknown caliber %q", key)
		}
	}
	cues := collectWords(t.CaliberCues, normalize.Caliber)
	for _, c := range calibers {
		set, ok := t.Calibers[string(c)]
		if !ok {
			continue
		}
		pattern, err := buildPattern(&set, strictStart, strictEnd)
		if err != nil {
			return nil, fmt.Errorf("caliber %s: %w", c, err)
		}
		codes := collectWords(map[string][]string{"": set.Codes}, normalize.Caliber)
		codeMatcher, err := newCodeMatcher(codes, cues)
		if err != nil {
			return nil, fmt.Errorf("caliber %s: %w", c, err)
		}
		p.calibers = append(p.calibers, &CaliberPattern{Caliber: c, Pattern: pattern, codes: codes, codeMatcher: codeMatcher})
	}

	var err error
	if t.FreshEggs != nil {
		if p.freshEggs, err = newFreshEggRules(t.FreshEggs); err != nil {
			return nil, fmt.Errorf("fresh eggs: %w", err)
		}
	}
	if t.Quantity != nil {
		if p.quantity, err = newQuantityPatterns(t.Quantity); err != nil {
			return nil, fmt.Errorf("quantity: %w", err)
		}
	}
	return p, nil
}

func buildPattern(set *KeywordSet, start, end string) (Pattern, error) {
	keywords := collectWords(set.Keywords, normalize.Caliber)
	exclusions := collectWords(set.Exclusions, normalize.Caliber)
	m, err := newMatcher(keywords, exclusions, start, end)
	if err != nil {
		return Pattern{}, err
	}
	return Pattern{tags: tagSet(set.Tags), matcher: m}, nil
}

func parseAnimalType(name string) (domain.AnimalType, bool) {
	for _, a := range domain.AnimalTypes() {
		if string(a) == name {
			return a, true
		}
	}
	return "", false
}
