package services

import (
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/boreksan/trayorders/services/catalog/domain/models"
)

func TestValidateName(t *testing.T) {
	tests := []struct {
		name    string
		input   models.ProductName
		wantErr bool
	}{
		{"valid name", "Su Böreği", false},
		{"valid with punctuation", "Börek (Tray-40)", false},
		{"leading whitespace", " Börek", true},
		{"trailing whitespace", "Börek ", true},
		{"only whitespace", "   ", true},
		{"tab character", "Su\tBöreği", true},
		{"newline", "Su\nBöreği", true},
		{"consecutive spaces", "Su  Böreği", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateName(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ValidateName(%q) error = %v, wantErr = %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestValidatePrice(t *testing.T) {
	tests := []struct {
		in      string
		wantErr bool
	}{
		{"0", false},
		{"12.5", false},
		{"1200.00", false},
		{"9999999999.99", false},
		{"-0.01", true},
		{"1.005", true},
		{"10000000000", true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			err := ValidatePrice("price_tray", decimal.RequireFromString(tt.in))
			if (err != nil) != tt.wantErr {
				t.Fatalf("ValidatePrice(%s) error = %v, wantErr = %v", tt.in, err, tt.wantErr)
			}
		})
	}
}

func TestValidateProduct(t *testing.T) {
	valid := func() *models.Product {
		return &models.Product{
			ID:           uuid.New(),
			Name:         "Kıymalı",
			Description:  "minced meat",
			PricePortion: decimal.RequireFromString("70"),
			PriceTray:    decimal.RequireFromString("1000"),
		}
	}

	tests := []struct {
		name    string
		mutate  func(p *models.Product)
		wantErr bool
	}{
		{"valid", func(p *models.Product) {}, false},
		{"zero id", func(p *models.Product) { p.ID = uuid.Nil }, true},
		{"bad name", func(p *models.Product) { p.Name = " Kıymalı" }, true},
		{"long description", func(p *models.Product) { p.Description = strings.Repeat("d", 501) }, true},
		{"negative portion price", func(p *models.Product) { p.PricePortion = decimal.RequireFromString("-1") }, true},
		{"fractional cent tray price", func(p *models.Product) { p.PriceTray = decimal.RequireFromString("10.001") }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := valid()
			tt.mutate(p)
			err := ValidateProduct(p)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ValidateProduct error = %v, wantErr = %v", err, tt.wantErr)
			}
		})
	}

	t.Run("nil product", func(t *testing.T) {
		if err := ValidateProduct(nil); err == nil {
			t.Fatal("expected error for nil product")
		}
	})
}
