package domain

// EggQuantity is the egg count, caliber and total weight extracted for a
// product. Count and TotalWeight are written by the first extraction rule
// that succeeds; once Complete is set every later write is ignored.
type EggQuantity struct {
	Count       *int        `json:"count,omitempty"`
	Caliber     *EggCaliber `json:"caliber,omitempty"`
	TotalWeight *float64    `json:"total_weight,omitempty"` // grams
	Complete    bool        `json:"complete"`
}

// SetCount records an egg count. A non-nil caliber overrides the resolved
// caliber. The total weight is derived from the caliber in effect, or from
// the average caliber when none is known. Returns false if already complete.
func (q *EggQuantity) SetCount(n int, caliber *EggCaliber) bool {
	if q.Complete {
		return false
	}
	if caliber != nil {
		c := *caliber
		q.Caliber = &c
	}
	weightCaliber := CaliberAverage
	if q.Caliber != nil {
		weightCaliber = *q.Caliber
	}
	count := n
	weight := float64(n) * weightCaliber.Weight()
	q.Count = &count
	q.TotalWeight = &weight
	q.Complete = true
	return true
}

// SetWeight records a total weight in grams without inferring a count.
// Returns false if already complete.
func (q *EggQuantity) SetWeight(grams float64) bool {
	if q.Complete {
		return false
	}
	w := grams
	q.TotalWeight = &w
	q.Complete = true
	return true
}

// ProductType lists the animal types present in a product.
type ProductType struct {
	IsMixed     bool         `json:"is_mixed"`
	AnimalTypes []AnimalType `json:"animal_types"`
}

// Has reports whether the animal type is present.
func (t *ProductType) Has(a AnimalType) bool {
	for _, at := range t.AnimalTypes {
		if at == a {
			return true
		}
	}
	return false
}
