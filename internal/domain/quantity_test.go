package domain

import "testing"

func TestEggQuantity_SetCount(t *testing.T) {
	t.Run("uses average weight without caliber", func(t *testing.T) {
		var q EggQuantity
		if !q.SetCount(6, nil) {
			t.Fatal("SetCount() = false, want true")
		}
		if *q.Count != 6 {
			t.Errorf("Count = %d, want 6", *q.Count)
		}
		if *q.TotalWeight != 360 {
			t.Errorf("TotalWeight = %v, want 360", *q.TotalWeight)
		}
		if q.Caliber != nil {
			t.Errorf("Caliber = %v, want nil", *q.Caliber)
		}
		if !q.Complete {
			t.Error("Complete = false, want true")
		}
	})

	t.Run("uses resolved caliber", func(t *testing.T) {
		medium := CaliberMedium
		q := EggQuantity{Caliber: &medium}
		q.SetCount(10, nil)
		if *q.TotalWeight != 580 {
			t.Errorf("TotalWeight = %v, want 580", *q.TotalWeight)
		}
	})

	t.Run("explicit caliber overrides resolved caliber", func(t *testing.T) {
		medium, large := CaliberMedium, CaliberLarge
		q := EggQuantity{Caliber: &medium}
		q.SetCount(12, &large)
		if *q.Caliber != CaliberLarge {
			t.Errorf("Caliber = %v, want large", *q.Caliber)
		}
		if *q.TotalWeight != 816 {
			t.Errorf("TotalWeight = %v, want 816", *q.TotalWeight)
		}
	})

	t.Run("first match wins", func(t *testing.T) {
		var q EggQuantity
		q.SetCount(6, nil)
		if q.SetCount(12, nil) {
			t.Error("second SetCount() = true, want false")
		}
		if q.SetWeight(500) {
			t.Error("SetWeight() after count = true, want false")
		}
		if *q.Count != 6 || *q.TotalWeight != 360 {
			t.Errorf("quantity overwritten: count %d weight %v", *q.Count, *q.TotalWeight)
		}
	})
}

func TestEggQuantity_SetWeight(t *testing.T) {
	var q EggQuantity
	if !q.SetWeight(500) {
		t.Fatal("SetWeight() = false, want true")
	}
	if q.Count != nil {
		t.Errorf("Count = %d, want nil", *q.Count)
	}
	if *q.TotalWeight != 500 {
		t.Errorf("TotalWeight = %v, want 500", *q.TotalWeight)
	}
	if q.SetCount(6, nil) {
		t.Error("SetCount() after weight = true, want false")
	}
}

func TestCaliberWeightsAreOrdered(t *testing.T) {
	calibers := []EggCaliber{CaliberSmall, CaliberMedium, CaliberLarge, CaliberExtraLarge}
	for i := 1; i < len(calibers); i++ {
		if calibers[i-1].Weight() >= calibers[i].Weight() {
			t.Errorf("%s weight %v >= %s weight %v", calibers[i-1], calibers[i-1].Weight(), calibers[i], calibers[i].Weight())
		}
	}
}

func TestProductType_Has(t *testing.T) {
	pt := ProductType{AnimalTypes: []AnimalType{LayingHen}}
	if !pt.Has(LayingHen) {
		t.Error("Has(LayingHen) = false, want true")
	}
	if pt.Has(BroilerChicken) {
		t.Error("Has(BroilerChicken) = true, want false")
	}
}

func TestProductRecord_Names(t *testing.T) {
	p := ProductRecord{ProductName: "  ", GenericName: "Oeufs frais"}
	names := p.Names()
	if len(names) != 1 || names[0] != "Oeufs frais" {
		t.Errorf("Names() = %v, want [Oeufs frais]", names)
	}
	if !(&ProductRecord{CategoriesTags: []string{"EN:Chicken-Eggs"}}).HasCategory("en:chicken-eggs") {
		t.Error("HasCategory() should ignore case")
	}
}
