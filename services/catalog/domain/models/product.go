package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Product is the core aggregate for the catalog bounded context.
// PriceTray is the price snapshotted onto order items; PricePortion is the
// retail price shown in the catalog only.
type Product struct {
	ID           uuid.UUID
	Name         ProductName
	Description  string
	PricePortion decimal.Decimal
	PriceTray    decimal.Decimal
	CreatedAt    time.Time
}

// NewProduct constructs a Product with a generated ID created at now.
func NewProduct(name ProductName, description string, pricePortion, priceTray decimal.Decimal, now time.Time) *Product {
	return &Product{
		ID:           uuid.New(),
		Name:         name,
		Description:  description,
		PricePortion: pricePortion,
		PriceTray:    priceTray,
		CreatedAt:    now.UTC(),
	}
}

// ProductChanges carries a partial update. Nil fields are left untouched.
type ProductChanges struct {
	Name         *string
	Description  *string
	PricePortion *decimal.Decimal
	PriceTray    *decimal.Decimal
}

// Empty reports whether no field is set.
func (c ProductChanges) Empty() bool {
	return c.Name == nil && c.Description == nil && c.PricePortion == nil && c.PriceTray == nil
}

// Apply copies every supplied field onto p. The name is re-validated
// structurally; business rules are checked by the domain validator afterwards.
func (p *Product) Apply(c ProductChanges) error {
	if c.Name != nil {
		name, err := NewProductName(*c.Name)
		if err != nil {
			return err
		}
		p.Name = name
	}
	if c.Description != nil {
		p.Description = *c.Description
	}
	if c.PricePortion != nil {
		p.PricePortion = *c.PricePortion
	}
	if c.PriceTray != nil {
		p.PriceTray = *c.PriceTray
	}
	return nil
}
