// internal/core/domain/party.go
package domain

import "strings"

// Customer is a buyer. Names are not unique.
type Customer struct {
	ID      int64  `json:"id"`
	Name    string `json:"name" validate:"required"`
	Phone   string `json:"phone"`
	Email   string `json:"email"`
	Address string `json:"address"`
	TaxID   string `json:"taxId"`
	Notes   string `json:"notes"`
}

func (c *Customer) Normalize() {
	c.Name = strings.TrimSpace(c.Name)
	c.Phone = strings.TrimSpace(c.Phone)
	c.Email = strings.TrimSpace(c.Email)
	c.Address = strings.TrimSpace(c.Address)
	c.TaxID = strings.TrimSpace(c.TaxID)
	c.Notes = strings.TrimSpace(c.Notes)
}

func (c *Customer) Validate() error {
	c.Normalize()
	return validateStruct(c)
}

// Supplier is a vendor. Products point at it by name.
type Supplier struct {
	ID      int64  `json:"id"`
	Name    string `json:"name" validate:"required"`
	Phone   string `json:"phone"`
	Email   string `json:"email"`
	Address string `json:"address"`
	Notes   string `json:"notes"`
}

func (s *Supplier) Normalize() {
	s.Name = strings.TrimSpace(s.Name)
	s.Phone = strings.TrimSpace(s.Phone)
	s.Email = strings.TrimSpace(s.Email)
	s.Address = strings.TrimSpace(s.Address)
	s.Notes = strings.TrimSpace(s.Notes)
}

func (s *Supplier) Validate() error {
	s.Normalize()
	return validateStruct(s)
}

// SameName is the soft match used to resolve customers and suppliers by name.
func SameName(a, b string) bool {
	return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}
