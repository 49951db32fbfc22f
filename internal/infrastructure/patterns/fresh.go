package patterns

import "github.com/welfarelens/backend/internal/normalize"

// FreshEggRules tell shell eggs apart from egg-based prepared foods. Text
// arguments must be caliber-normalized. Methods are safe on a nil receiver.
type FreshEggRules struct {
	allowedCategories  map[string]struct{}
	excludedCategories map[string]struct{}
	eggTerms           *Matcher
	freshTerms         *Matcher
	excludedProducts   *Matcher
}

func newFreshEggRules(t *FreshEggTable) (*FreshEggRules, error) {
	r := &FreshEggRules{
		allowedCategories:  tagSet(t.AllowedCategories),
		excludedCategories: tagSet(t.ExcludedCategories),
	}
	var err error
	if r.eggTerms, err = newMatcher(collectWords(t.EggTerms, normalize.Caliber), nil, wordStart, wordEnd); err != nil {
		return nil, err
	}
	if r.freshTerms, err = newMatcher(collectWords(t.FreshTerms, normalize.Caliber), nil, wordStart, wordEnd); err != nil {
		return nil, err
	}
	if r.excludedProducts, err = newMatcher(collectWords(t.ExcludedProducts, normalize.Caliber), nil, wordStart, wordEnd); err != nil {
		return nil, err
	}
	return r, nil
}

// AllowsAllCategories reports whether every tag is on the fresh-egg
// allow-list. An empty tag list is never allowed.
func (r *FreshEggRules) AllowsAllCategories(tags []string) bool {
	if r == nil || len(tags) == 0 {
		return false
	}
	for _, t := range tags {
		if _, ok := r.allowedCategories[normalizeTag(t)]; !ok {
			return false
		}
	}
	return true
}

// ExcludesAnyCategory reports whether a tag marks an egg-derived product.
func (r *FreshEggRules) ExcludesAnyCategory(tags []string) bool {
	if r == nil {
		return false
	}
	for _, t := range tags {
		if _, ok := r.excludedCategories[normalizeTag(t)]; ok {
			return true
		}
	}
	return false
}

// NamesFreshEgg reports whether a name mentions both an egg term and a
// freshness term.
func (r *FreshEggRules) NamesFreshEgg(name string) bool {
	return r != nil && r.eggTerms.Match(name) && r.freshTerms.Match(name)
}

// NamesExcludedProduct reports whether a name describes a prepared food.
func (r *FreshEggRules) NamesExcludedProduct(name string) bool {
	return r != nil && r.excludedProducts.Match(name)
}
