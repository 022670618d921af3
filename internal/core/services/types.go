// internal/core/services/types.go
package services

import (
	"fmt"
	"strings"
)

// ListParams filters and orders a product listing
type ListParams struct {
	Search       string `json:"search,omitempty"`
	Supplier     string `json:"supplier,omitempty"`
	LowStockOnly bool   `json:"low_stock_only,omitempty"`
	SortBy       string `json:"sort_by"` // partNumber, name, stock, price
	SortDesc     bool   `json:"sort_desc"`
}

// Kind names one transferable collection
type Kind string

const (
	KindProducts     Kind = "products"
	KindCustomers    Kind = "customers"
	KindSuppliers    Kind = "suppliers"
	KindInvoices     Kind = "invoices"
	KindInvoiceItems Kind = "invoiceItems"
)

// Kinds lists every kind in restore order
func Kinds() []Kind {
	return []Kind{KindSuppliers, KindCustomers, KindProducts, KindInvoices, KindInvoiceItems}
}

// ParseKind accepts a kind name in any case
func ParseKind(s string) (Kind, error) {
	for _, k := range Kinds() {
		if strings.EqualFold(string(k), strings.TrimSpace(s)) {
			return k, nil
		}
	}
	return "", fmt.Errorf("unknown kind %q", s)
}

// ImportReport summarises one import
type ImportReport struct {
	Kind    Kind            `json:"kind"`
	Created int             `json:"created"`
	Updated int             `json:"updated"`
	Skipped int             `json:"skipped"`
	IDMap   map[int64]int64 `json:"-"` // source id -> stored id
}

func newImportReport(kind Kind) *ImportReport {
	return &ImportReport{Kind: kind, IDMap: make(map[int64]int64)}
}
