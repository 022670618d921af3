// internal/adapters/db/party_repository.go
package db

import (
	"context"
	"log/slog"

	"github.com/ammerola/partsdesk/internal/core/domain"
	"github.com/ammerola/partsdesk/internal/core/ports"
)

// FieldName is the soft lookup key for customers and suppliers.
const FieldName = "name"

var customerSchema = schema[domain.Customer]{
	table:   "customers",
	columns: []string{"name", "phone", "email", "address", "tax_id", "notes"},
	values: func(c *domain.Customer) []interface{} {
		return []interface{}{c.Name, c.Phone, c.Email, c.Address, c.TaxID, c.Notes}
	},
	scan: func(s scanner) (*domain.Customer, error) {
		var c domain.Customer
		if err := s.Scan(&c.ID, &c.Name, &c.Phone, &c.Email, &c.Address, &c.TaxID, &c.Notes); err != nil {
			return nil, err
		}
		return &c, nil
	},
	id:    func(c *domain.Customer) int64 { return c.ID },
	setID: func(c *domain.Customer, id int64) { c.ID = id },
	lookups: map[string]lookupField[domain.Customer]{
		FieldName: {
			column: "name",
			index:  "idx_customers_name",
			value:  func(c *domain.Customer) string { return c.Name },
		},
	},
}

var supplierSchema = schema[domain.Supplier]{
	table:   "suppliers",
	columns: []string{"name", "phone", "email", "address", "notes"},
	values: func(s *domain.Supplier) []interface{} {
		return []interface{}{s.Name, s.Phone, s.Email, s.Address, s.Notes}
	},
	scan: func(sc scanner) (*domain.Supplier, error) {
		var s domain.Supplier
		if err := sc.Scan(&s.ID, &s.Name, &s.Phone, &s.Email, &s.Address, &s.Notes); err != nil {
			return nil, err
		}
		return &s, nil
	},
	id:    func(s *domain.Supplier) int64 { return s.ID },
	setID: func(s *domain.Supplier, id int64) { s.ID = id },
	lookups: map[string]lookupField[domain.Supplier]{
		FieldName: {
			column: "name",
			index:  "idx_suppliers_name",
			value:  func(s *domain.Supplier) string { return s.Name },
		},
	},
}

type customerRepository struct {
	*Collection[domain.Customer]
}

var _ ports.CustomerRepository = (*customerRepository)(nil)

func newCustomerRepository(q querier, logger *slog.Logger) *customerRepository {
	return &customerRepository{
		Collection: newCollection(q, customerSchema, logger.With(slog.String("repository", "customers"))),
	}
}

// FindByName returns the first customer with the given name, ignoring case
func (r *customerRepository) FindByName(ctx context.Context, name string) (*domain.Customer, error) {
	return r.FindByUniqueField(ctx, FieldName, name)
}

type supplierRepository struct {
	*Collection[domain.Supplier]
}

var _ ports.SupplierRepository = (*supplierRepository)(nil)

func newSupplierRepository(q querier, logger *slog.Logger) *supplierRepository {
	return &supplierRepository{
		Collection: newCollection(q, supplierSchema, logger.With(slog.String("repository", "suppliers"))),
	}
}

// FindByName returns the first supplier with the given name, ignoring case
func (r *supplierRepository) FindByName(ctx context.Context, name string) (*domain.Supplier, error) {
	return r.FindByUniqueField(ctx, FieldName, name)
}
