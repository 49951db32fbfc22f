package domain

import "strings"

// ProductRecord is the product-data record handed to the engine by a product
// provider. Every list field may be nil; nil and empty are treated the same.
type ProductRecord struct {
	Code                string   `json:"code,omitempty"`
	ProductName         string   `json:"product_name,omitempty"`
	GenericName         string   `json:"generic_name,omitempty"`
	CategoriesTags      []string `json:"categories_tags,omitempty"`
	LabelsTags          []string `json:"labels_tags,omitempty"`
	IngredientsTags     []string `json:"ingredients_tags,omitempty"`
	CountriesTags       []string `json:"countries_tags,omitempty"`
	Quantity            string   `json:"quantity,omitempty"`
	ProductQuantity     *float64 `json:"product_quantity,omitempty"`
	ProductQuantityUnit string   `json:"product_quantity_unit,omitempty"`

	// PackagingText is optional OCR output from scanned packaging. It only
	// feeds the suggested breeding types and never the classifier decision.
	PackagingText string `json:"packaging_text,omitempty"`
}

// Names returns the non-blank product name and generic name, in that order.
func (p *ProductRecord) Names() []string {
	names := make([]string, 0, 2)
	for _, n := range []string{p.ProductName, p.GenericName} {
		if strings.TrimSpace(n) != "" {
			names = append(names, n)
		}
	}
	return names
}

// HasCategory reports whether tag is one of the product's category tags.
func (p *ProductRecord) HasCategory(tag string) bool {
	for _, t := range p.CategoriesTags {
		if strings.EqualFold(strings.TrimSpace(t), tag) {
			return true
		}
	}
	return false
}
