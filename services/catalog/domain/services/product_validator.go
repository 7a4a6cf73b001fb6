// Package services contains stateless domain services for the catalog bounded context.
// Domain services enforce business rules that operate purely on domain types
// and have zero external dependencies beyond the domain layer.
package services

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/boreksan/trayorders/services/catalog/domain/models"
)

const (
	maxDescriptionLength = 500
	// priceScale matches the NUMERIC(12,2) price columns.
	priceScale = 2
)

var maxPrice = decimal.New(1, 10) // 10^10, the NUMERIC(12,2) ceiling

// ValidateName enforces business rules for ProductName beyond the structural
// constraints enforced by the ProductName constructor.
//
// Business rules:
//   - No leading or trailing whitespace
//   - No control characters (Unicode category Cc)
//   - No consecutive spaces
//   - Must not be only whitespace characters
func ValidateName(name models.ProductName) error {
	s := name.String()

	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("product name must not be only whitespace")
	}

	if s != strings.TrimSpace(s) {
		return fmt.Errorf("product name must not have leading or trailing whitespace")
	}

	for _, r := range s {
		if unicode.IsControl(r) {
			return fmt.Errorf("product name must not contain control characters")
		}
	}

	if strings.Contains(s, "  ") {
		return fmt.Errorf("product name must not contain consecutive spaces")
	}

	return nil
}

// ValidatePrice rejects negative prices, prices with more than two decimal
// places, and prices the price columns cannot hold.
func ValidatePrice(field string, p decimal.Decimal) error {
	if p.IsNegative() {
		return fmt.Errorf("%s must not be negative", field)
	}
	if !p.Equal(p.Truncate(priceScale)) {
		return fmt.Errorf("%s must have at most %d decimal places", field, priceScale)
	}
	if p.GreaterThanOrEqual(maxPrice) {
		return fmt.Errorf("%s must be less than %s", field, maxPrice)
	}
	return nil
}

// ValidateProduct performs the full set of business checks on a Product
// before it is inserted or updated.
func ValidateProduct(p *models.Product) error {
	if p == nil {
		return fmt.Errorf("product cannot be nil")
	}
	if p.ID == uuid.Nil {
		return fmt.Errorf("id must be set")
	}
	if err := ValidateName(p.Name); err != nil {
		return fmt.Errorf("invalid name: %w", err)
	}
	if utf8.RuneCountInString(p.Description) > maxDescriptionLength {
		return fmt.Errorf("description must not exceed %d characters", maxDescriptionLength)
	}
	if err := ValidatePrice("price_portion", p.PricePortion); err != nil {
		return err
	}
	if err := ValidatePrice("price_tray", p.PriceTray); err != nil {
		return err
	}
	return nil
}
