package domain

// AnimalType identifies the animal behind a product's animal-derived ingredient.
type AnimalType string

const (
	LayingHen      AnimalType = "laying_hen"
	BroilerChicken AnimalType = "broiler_chicken"
)

// AnimalTypes lists every known animal type in classification order.
func AnimalTypes() []AnimalType {
	return []AnimalType{LayingHen, BroilerChicken}
}

// Tag returns the category tag that identifies the animal type.
func (a AnimalType) Tag() string {
	switch a {
	case LayingHen:
		return "en:chicken-eggs"
	case BroilerChicken:
		return "en:chickens"
	default:
		return ""
	}
}

// Supported reports whether breeding type and quantity are computed for the
// animal type. Unsupported types are identified but not analysed further.
func (a AnimalType) Supported() bool {
	return a == LayingHen
}

// CandidateBreedingTypes returns the breeding types the pattern tables may
// produce for the animal type, before country refinement.
func (a AnimalType) CandidateBreedingTypes() []BreedingType {
	switch a {
	case LayingHen:
		return []BreedingType{BreedingCage, BreedingBarn, BreedingFreeRange}
	case BroilerChicken:
		return []BreedingType{BreedingFreeRange}
	default:
		return nil
	}
}

// BreedingTypes returns the breeding types a classification may report.
func (a AnimalType) BreedingTypes() []BreedingType {
	switch a {
	case LayingHen:
		return []BreedingType{BreedingConventionalCage, BreedingFurnishedCage, BreedingBarn, BreedingFreeRange}
	case BroilerChicken:
		return []BreedingType{BreedingFreeRange}
	default:
		return nil
	}
}

// BreedingType is the husbandry system that produced an ingredient.
type BreedingType string

const (
	BreedingConventionalCage BreedingType = "conventional_cage"
	BreedingFurnishedCage    BreedingType = "furnished_cage"
	BreedingBarn             BreedingType = "barn"
	BreedingFreeRange        BreedingType = "free_range"

	// BreedingCage is the unrefined cage candidate produced by the pattern
	// tables. It is always resolved by country before being reported.
	BreedingCage BreedingType = "cage"
)

// EggCaliber is a standard egg size class.
type EggCaliber string

const (
	CaliberSmall      EggCaliber = "small"
	CaliberMedium     EggCaliber = "medium"
	CaliberLarge      EggCaliber = "large"
	CaliberExtraLarge EggCaliber = "extra_large"

	// CaliberAverage is the fallback weight used when no caliber is known.
	CaliberAverage EggCaliber = "average"
)

// Calibers lists the real calibers, most specific first. Pattern matching
// walks them in this order so "extra large" wins over "large".
func Calibers() []EggCaliber {
	return []EggCaliber{CaliberExtraLarge, CaliberLarge, CaliberMedium, CaliberSmall}
}

// Weight returns the canonical weight of one egg of the caliber, in grams.
func (c EggCaliber) Weight() float64 {
	switch c {
	case CaliberSmall:
		return 48
	case CaliberMedium:
		return 58
	case CaliberLarge:
		return 68
	case CaliberExtraLarge:
		return 78
	default:
		return 60
	}
}
