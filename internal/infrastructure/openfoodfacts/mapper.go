package openfoodfacts

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/welfarelens/backend/internal/domain"
)

// productResponse is the envelope of GET /api/v2/product/{code}.json
type productResponse struct {
	Code          string   `json:"code"`
	Status        int      `json:"status"`
	StatusVerbose string   `json:"status_verbose"`
	Product       *product `json:"product"`
}

type product struct {
	Code                string    `json:"code"`
	ProductName         string    `json:"product_name"`
	GenericName         string    `json:"generic_name"`
	CategoriesTags      []string  `json:"categories_tags"`
	LabelsTags          []string  `json:"labels_tags"`
	IngredientsTags     []string  `json:"ingredients_tags"`
	CountriesTags       []string  `json:"countries_tags"`
	Quantity            string    `json:"quantity"`
	ProductQuantity     flexFloat `json:"product_quantity"`
	ProductQuantityUnit string    `json:"product_quantity_unit"`
}

// flexFloat accepts a JSON number, a numeric string, an empty string or null.
// Open Food Facts returns product_quantity in all of these shapes.
type flexFloat struct {
	Value *float64
}

func (f *flexFloat) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		f.Value = nil
		return nil
	}

	raw := string(data)
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		raw = strings.ReplaceAll(strings.TrimSpace(s), ",", ".")
		if raw == "" {
			f.Value = nil
			return nil
		}
	}

	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return fmt.Errorf("invalid product quantity %s: %w", data, err)
	}
	f.Value = &v
	return nil
}

// MapToProductRecord converts an Open Food Facts product into our domain ProductRecord
func MapToProductRecord(code string, resp *productResponse) *domain.ProductRecord {
	p := resp.Product
	record := &domain.ProductRecord{
		Code:                firstNonEmpty(p.Code, resp.Code, code),
		ProductName:         p.ProductName,
		GenericName:         p.GenericName,
		CategoriesTags:      p.CategoriesTags,
		LabelsTags:          p.LabelsTags,
		IngredientsTags:     p.IngredientsTags,
		CountriesTags:       p.CountriesTags,
		Quantity:            p.Quantity,
		ProductQuantity:     p.ProductQuantity.Value,
		ProductQuantityUnit: p.ProductQuantityUnit,
	}
	return record
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
