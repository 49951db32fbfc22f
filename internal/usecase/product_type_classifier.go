package usecase

import (
	"fmt"

	"github.com/welfarelens/backend/internal/domain"
	"github.com/welfarelens/backend/internal/infrastructure/patterns"
	"github.com/welfarelens/backend/internal/normalize"
)

// ClassifyProductType returns the animal types present in the product. It
// fails with domain.ErrAnimalTypeNotFound when no category tag identifies
// an animal type.
func ClassifyProductType(repo *patterns.Repository, p *domain.ProductRecord) (*domain.ProductType, error) {
	var animals []domain.AnimalType
	for _, a := range domain.AnimalTypes() {
		if !p.HasCategory(a.Tag()) {
			continue
		}
		if a == domain.LayingHen && !IsFreshEgg(repo, p) {
			continue
		}
		animals = append(animals, a)
	}
	if len(animals) == 0 {
		return nil, fmt.Errorf("%w: %s", domain.ErrAnimalTypeNotFound, productLabel(p))
	}
	return &domain.ProductType{
		IsMixed:     len(animals) > 1,
		AnimalTypes: animals,
	}, nil
}

// IsFreshEgg tells shell eggs apart from egg-based foods. A product is a
// fresh egg when all its categories are fresh-egg categories, or when a
// name mentions both eggs and freshness. An excluded category or product
// name always rejects it.
func IsFreshEgg(repo *patterns.Repository, p *domain.ProductRecord) bool {
	rules := repo.Animal(domain.LayingHen).FreshEggs()
	if rules == nil {
		return true
	}
	if rules.ExcludesAnyCategory(p.CategoriesTags) {
		return false
	}

	names := p.Names()
	normalized := make([]string, len(names))
	for i, n := range names {
		normalized[i] = normalize.Caliber(n)
		if rules.NamesExcludedProduct(normalized[i]) {
			return false
		}
	}

	if rules.AllowsAllCategories(p.CategoriesTags) {
		return true
	}
	for _, n := range normalized {
		if rules.NamesFreshEgg(n) {
			return true
		}
	}
	return false
}

func productLabel(p *domain.ProductRecord) string {
	switch {
	case p.Code != "":
		return "product " + p.Code
	case p.ProductName != "":
		return fmt.Sprintf("product %q", p.ProductName)
	default:
		return "product"
	}
}
