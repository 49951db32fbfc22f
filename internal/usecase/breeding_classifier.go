package usecase

import (
	"slices"

	"github.com/welfarelens/backend/internal/domain"
	"github.com/welfarelens/backend/internal/infrastructure/patterns"
	"github.com/welfarelens/backend/internal/normalize"
)

// Breeding stages, in cascade order.
const (
	BreedingStageExactTag = "exact_tag"
	BreedingStageName     = "name"
	BreedingStageTags     = "tags"
	BreedingStageNone     = "none"
)

// ClassifyBreeding returns the candidate breeding types of the product for
// an animal type. An empty result means undetermined; more than one
// candidate means the product data is ambiguous.
func ClassifyBreeding(repo *patterns.Repository, p *domain.ProductRecord, animal domain.AnimalType) []domain.BreedingType {
	types, _ := classifyBreeding(repo, p, animal)
	return types
}

func classifyBreeding(repo *patterns.Repository, p *domain.ProductRecord, animal domain.AnimalType) ([]domain.BreedingType, string) {
	breeding := repo.Animal(animal).Breeding()

	// A unique exact tag decides immediately; none or several defer to the
	// keyword stages.
	var exact []domain.BreedingType
	for _, b := range breeding {
		if b.HasAnyTag(p.CategoriesTags) {
			exact = append(exact, b.Type)
		}
	}
	if len(exact) == 1 {
		return refineCage(repo, exact, p.CountriesTags), BreedingStageExactTag
	}

	names := make([]string, 0, 2)
	for _, n := range p.Names() {
		names = append(names, normalize.Caliber(n))
	}
	if found := matchBreeding(breeding, names); len(found) > 0 {
		return refineCage(repo, found, p.CountriesTags), BreedingStageName
	}

	// The first tag field with any match decides.
	for _, tags := range [][]string{p.CategoriesTags, p.LabelsTags, p.IngredientsTags} {
		texts := make([]string, 0, len(tags))
		for _, t := range tags {
			texts = append(texts, normalize.Tag(t))
		}
		if found := matchBreeding(breeding, texts); len(found) > 0 {
			return refineCage(repo, found, p.CountriesTags), BreedingStageTags
		}
	}
	return []domain.BreedingType{}, BreedingStageNone
}

// matchBreeding collects, in pattern order, every breeding type matched by
// at least one of the normalized texts.
func matchBreeding(breeding []*patterns.BreedingPattern, texts []string) []domain.BreedingType {
	var found []domain.BreedingType
	for _, b := range breeding {
		for _, text := range texts {
			if b.Match(text) {
				found = append(found, b.Type)
				break
			}
		}
	}
	return found
}

// refineCage resolves the generic cage candidate by country: furnished where
// conventional cages are banned, conventional elsewhere.
func refineCage(repo *patterns.Repository, types []domain.BreedingType, countries []string) []domain.BreedingType {
	cage := domain.BreedingConventionalCage
	if repo.BansConventionalCages(countries) {
		cage = domain.BreedingFurnishedCage
	}
	refined := make([]domain.BreedingType, 0, len(types))
	for _, t := range types {
		if t == domain.BreedingCage {
			t = cage
		}
		if !slices.Contains(refined, t) {
			refined = append(refined, t)
		}
	}
	return refined
}
