package entity

import (
	"context"

	"github.com/medtraie/Gaztesto-sub001/internal/core/apperror"
)

// Catalog is the base type for reference data (bottle types, drivers).
type Catalog struct {
	BaseEntity

	// Code is a short human-readable identifier
	Code string `db:"code" json:"code"`

	// Name is the display name
	Name string `db:"name" json:"name"`
}

// NewCatalog creates a new Catalog with generated ID.
func NewCatalog(code, name string) Catalog {
	return Catalog{
		BaseEntity: NewBaseEntity(),
		Code:       code,
		Name:       name,
	}
}

// Validate implements Validatable interface.
func (c *Catalog) Validate(ctx context.Context) error {
	if c.Name == "" {
		return apperror.NewValidation("name is required").
			WithDetail("field", "name")
	}
	return nil
}
