package domain

import "time"

// AnimalAnalysis pairs the breeding type and quantity computed for one animal type.
type AnimalAnalysis struct {
	AnimalType AnimalType `json:"animal_type"`
	Supported  bool       `json:"supported"`

	// BreedingTypes holds every candidate found; BreedingType is set only
	// when exactly one candidate remains.
	BreedingTypes []BreedingType `json:"breeding_types"`
	BreedingType  *BreedingType  `json:"breeding_type,omitempty"`
	BreedingStage string         `json:"breeding_stage,omitempty"`

	Quantity *EggQuantity `json:"quantity,omitempty"`

	// SuggestedBreedingTypes comes from packaging text and is informative only.
	SuggestedBreedingTypes []BreedingType `json:"suggested_breeding_types,omitempty"`
}

// Analysis sources.
const (
	SourceEngine = "engine"
	SourceCache  = "cache"
)

// WelfareAnalysis is the per-product output handed to report generation.
type WelfareAnalysis struct {
	Code           string           `json:"code,omitempty"`
	IsMixed        bool             `json:"is_mixed"`
	Animals        []AnimalAnalysis `json:"animals"`
	PatternVersion string           `json:"pattern_version"`
	Source         string           `json:"source"`
	CachedAt       *time.Time       `json:"cached_at,omitempty"`
}

// Animal returns the analysis for the animal type, or nil.
func (w *WelfareAnalysis) Animal(a AnimalType) *AnimalAnalysis {
	for i := range w.Animals {
		if w.Animals[i].AnimalType == a {
			return &w.Animals[i]
		}
	}
	return nil
}

// BatchResult is one entry of a batch analysis, in input order.
type BatchResult struct {
	Index         int              `json:"index"`
	Analysis      *WelfareAnalysis `json:"analysis,omitempty"`
	NotApplicable bool             `json:"not_applicable,omitempty"`
	Error         string           `json:"error,omitempty"`
}
