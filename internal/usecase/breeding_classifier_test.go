package usecase

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/welfarelens/backend/internal/domain"
	"github.com/welfarelens/backend/internal/infrastructure/patterns"
)

func TestClassifyBreeding(t *testing.T) {
	repo := patterns.Default()

	testCases := []struct {
		name      string
		record    domain.ProductRecord
		want      []domain.BreedingType
		wantStage string
	}{
		{
			name: "cage tag in a furnished cage country",
			record: domain.ProductRecord{
				CategoriesTags: []string{"en:chicken-eggs", "en:cage-chicken-eggs"},
				CountriesTags:  []string{"en:france"},
			},
			want:      []domain.BreedingType{domain.BreedingFurnishedCage},
			wantStage: BreedingStageExactTag,
		},
		{
			name: "cage tag elsewhere",
			record: domain.ProductRecord{
				CategoriesTags: []string{"en:chicken-eggs", "en:cage-chicken-eggs"},
				CountriesTags:  []string{"en:united-states"},
			},
			want:      []domain.BreedingType{domain.BreedingConventionalCage},
			wantStage: BreedingStageExactTag,
		},
		{
			name: "cage tag without countries",
			record: domain.ProductRecord{
				CategoriesTags: []string{"en:cage-chicken-eggs"},
			},
			want:      []domain.BreedingType{domain.BreedingConventionalCage},
			wantStage: BreedingStageExactTag,
		},
		{
			name: "exact tag wins over name",
			record: domain.ProductRecord{
				CategoriesTags: []string{"en:barn-eggs"},
				ProductName:    "Free range eggs",
			},
			want:      []domain.BreedingType{domain.BreedingBarn},
			wantStage: BreedingStageExactTag,
		},
		{
			name: "ambiguous exact tags defer to the name",
			record: domain.ProductRecord{
				CategoriesTags: []string{"en:cage-chicken-eggs", "en:free-range-chicken-eggs"},
				ProductName:    "Oeufs de plein air",
			},
			want:      []domain.BreedingType{domain.BreedingFreeRange},
			wantStage: BreedingStageName,
		},
		{
			name:      "free range name",
			record:    domain.ProductRecord{ProductName: "Free range eggs"},
			want:      []domain.BreedingType{domain.BreedingFreeRange},
			wantStage: BreedingStageName,
		},
		{
			name:      "negated free range name",
			record:    domain.ProductRecord{CategoriesTags: []string{"en:chicken-eggs"}, ProductName: "Not free range eggs"},
			want:      []domain.BreedingType{},
			wantStage: BreedingStageNone,
		},
		{
			name:      "generic name",
			record:    domain.ProductRecord{ProductName: "Oeufs", GenericName: "Eier aus Bodenhaltung"},
			want:      []domain.BreedingType{domain.BreedingBarn},
			wantStage: BreedingStageName,
		},
		{
			name: "cage name refined by country",
			record: domain.ProductRecord{
				ProductName:   "Oeufs de poules élevées en cage",
				CountriesTags: []string{"en:belgium"},
			},
			want:      []domain.BreedingType{domain.BreedingFurnishedCage},
			wantStage: BreedingStageName,
		},
		{
			name:      "ambiguous name is returned as is",
			record:    domain.ProductRecord{ProductName: "Barn and free range eggs"},
			want:      []domain.BreedingType{domain.BreedingBarn, domain.BreedingFreeRange},
			wantStage: BreedingStageName,
		},
		{
			name: "label tags",
			record: domain.ProductRecord{
				CategoriesTags: []string{"en:chicken-eggs"},
				LabelsTags:     []string{"en:organic", "en:eu-organic"},
			},
			want:      []domain.BreedingType{domain.BreedingFreeRange},
			wantStage: BreedingStageTags,
		},
		{
			name: "categories win over labels",
			record: domain.ProductRecord{
				CategoriesTags: []string{"en:chicken-eggs", "en:barn-laid-eggs"},
				LabelsTags:     []string{"en:organic"},
			},
			want:      []domain.BreedingType{domain.BreedingBarn},
			wantStage: BreedingStageTags,
		},
		{
			name: "ingredient tags",
			record: domain.ProductRecord{
				CategoriesTags:  []string{"en:chicken-eggs"},
				IngredientsTags: []string{"en:free-range-egg"},
			},
			want:      []domain.BreedingType{domain.BreedingFreeRange},
			wantStage: BreedingStageTags,
		},
		{
			name:      "nothing to go on",
			record:    domain.ProductRecord{},
			want:      []domain.BreedingType{},
			wantStage: BreedingStageNone,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, stage := classifyBreeding(repo, &tc.record, domain.LayingHen)
			assert.Equal(t, tc.want, got)
			assert.Equal(t, tc.wantStage, stage)
		})
	}
}

func TestClassifyBreeding_ExclusionSuppressesCage(t *testing.T) {
	p := &domain.ProductRecord{ProductName: "Cage eggs? No: cage-free eggs"}
	got := ClassifyBreeding(patterns.Default(), p, domain.LayingHen)
	assert.NotContains(t, got, domain.BreedingConventionalCage)
	assert.NotContains(t, got, domain.BreedingFurnishedCage)
	assert.NotContains(t, got, domain.BreedingCage)
}

func TestClassifyBreeding_Broiler(t *testing.T) {
	repo := patterns.Default()
	p := &domain.ProductRecord{CategoriesTags: []string{"en:chickens"}, ProductName: "Poulet fermier"}
	assert.Equal(t, []domain.BreedingType{domain.BreedingFreeRange}, ClassifyBreeding(repo, p, domain.BroilerChicken))

	p = &domain.ProductRecord{CategoriesTags: []string{"en:chickens"}, ProductName: "Filet de poulet"}
	assert.Empty(t, ClassifyBreeding(repo, p, domain.BroilerChicken))
}

func TestClassifyBreeding_UnknownAnimal(t *testing.T) {
	p := &domain.ProductRecord{CategoriesTags: []string{"en:cage-chicken-eggs"}, ProductName: "free range"}
	assert.Empty(t, ClassifyBreeding(patterns.Default(), p, domain.AnimalType("goat")))
}

func TestClassifyBreeding_IsPure(t *testing.T) {
	repo := patterns.Default()
	p := &domain.ProductRecord{
		CategoriesTags: []string{"en:chicken-eggs"},
		ProductName:    "Oeufs de poules élevées en cage",
		CountriesTags:  []string{"en:france"},
	}
	assert.Equal(t, ClassifyBreeding(repo, p, domain.LayingHen), ClassifyBreeding(repo, p, domain.LayingHen))
}

func TestRefineCage(t *testing.T) {
	repo := patterns.Default()
	got := refineCage(repo, []domain.BreedingType{domain.BreedingCage, domain.BreedingBarn, domain.BreedingCage}, []string{"en:germany"})
	assert.Equal(t, []domain.BreedingType{domain.BreedingFurnishedCage, domain.BreedingBarn}, got)
}
