package patterns

// Table is the YAML layout of a keyword table file.
type Table struct {
	FurnishedCageCountries []string               `yaml:"furnished_cage_countries"`
	Animals                map[string]AnimalTable `yaml:"animals"`
}

// AnimalTable holds the keyword sets of one animal type.
type AnimalTable struct {
	BreedingTypes map[string]KeywordSet `yaml:"breeding_types"`
	Calibers      map[string]KeywordSet `yaml:"calibers"`
	CaliberCues   map[string][]string   `yaml:"caliber_cues"`
	FreshEggs     *FreshEggTable        `yaml:"fresh_eggs"`
	Quantity      *QuantityTable        `yaml:"quantity"`
}

// KeywordSet is the exact tags and per-language keywords of one breeding
// type or caliber. Exclusions suppress a keyword match in the same text.
// Codes are short caliber codes ("L") matched only alone or after a cue.
type KeywordSet struct {
	Tags       []string            `yaml:"tags"`
	Keywords   map[string][]string `yaml:"keywords"`
	Exclusions map[string][]string `yaml:"exclusions"`
	Codes      []string            `yaml:"codes"`
}

// FreshEggTable drives the fresh-egg heuristic.
type FreshEggTable struct {
	AllowedCategories  []string            `yaml:"allowed_categories"`
	ExcludedCategories []string            `yaml:"excluded_categories"`
	EggTerms           map[string][]string `yaml:"egg_terms"`
	FreshTerms         map[string][]string `yaml:"fresh_terms"`
	ExcludedProducts   map[string][]string `yaml:"excluded_products"`
}

// QuantityTable lists the words used when reading egg counts.
type QuantityTable struct {
	DozenWords     map[string][]string `yaml:"dozen_words"`
	HalfDozenWords map[string][]string `yaml:"half_dozen_words"`
	CountUnits     map[string][]string `yaml:"count_units"`
	EggNouns       map[string][]string `yaml:"egg_nouns"`
}
