// internal/core/domain/product.go
package domain

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Product is a stocked part.
type Product struct {
	ID           int64           `json:"id"`
	PartNumber   string          `json:"partNumber" validate:"required"`
	Name         string          `json:"name" validate:"required"`
	Supplier     string          `json:"supplier"`
	Cost         decimal.Decimal `json:"cost" validate:"gte=0"`
	Price        decimal.Decimal `json:"price" validate:"gte=0"`
	Stock        int             `json:"stock" validate:"gte=0"`
	LowThreshold *int            `json:"lowThreshold,omitempty" validate:"omitempty,gte=0"`
	Notes        string          `json:"notes"`
}

// Normalize trims free-text fields before validation and storage.
func (p *Product) Normalize() {
	p.PartNumber = strings.TrimSpace(p.PartNumber)
	p.Name = strings.TrimSpace(p.Name)
	p.Supplier = strings.TrimSpace(p.Supplier)
	p.Notes = strings.TrimSpace(p.Notes)
}

// Validate performs domain validation on the product
func (p *Product) Validate() error {
	p.Normalize()
	return validateStruct(p)
}

// Threshold returns the product's own low-stock threshold, or global when unset.
func (p *Product) Threshold(global int) int {
	if p.LowThreshold != nil {
		return *p.LowThreshold
	}
	return global
}

// IsLowStock reports whether stock is at or below the effective threshold.
func (p *Product) IsLowStock(global int) bool {
	return p.Stock <= p.Threshold(global)
}

// SamePartNumber compares part numbers the way the unique index does.
func SamePartNumber(a, b string) bool {
	return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}
