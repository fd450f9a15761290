// Package article holds the catalog entity managed by the articles service.
package article

import (
	"context"
	"fmt"
	"time"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
)

// Sentinel errors for article lookups and writes.
var (
	// ErrNotFound is returned when a requested article does not exist.
	ErrNotFound = errors.New("article not found")
	// ErrDuplicateReference is returned when an article with the same
	// reference already exists.
	ErrDuplicateReference = errors.New("article reference already exists")
)

// ValidationError indicates a field with a missing or out-of-range value.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// Article represents a catalog item. Prices use decimal arithmetic and are
// persisted with scale NUMERIC(10,2); the tax rate is a percentage stored
// with scale NUMERIC(5,2).
type Article struct {
	ID                 int64
	Referencia         string
	Nombre             string
	Descripcion        string
	PrecioSinImpuestos decimal.Decimal
	ImpuestoAplicable  decimal.Decimal
	FechaCreacion      time.Time
}

var oneHundred = decimal.NewFromInt(100)

// PrecioConImpuestos returns the tax-inclusive price, rounded to 2 decimal
// places: precio + precio * impuesto / 100.
func (a Article) PrecioConImpuestos() decimal.Decimal {
	return a.PrecioSinImpuestos.
		Add(a.PrecioSinImpuestos.Mul(a.ImpuestoAplicable).Div(oneHundred)).
		Round(2)
}

// Params holds the editable fields of an article for create and update.
type Params struct {
	Referencia         string
	Nombre             string
	Descripcion        string
	PrecioSinImpuestos decimal.Decimal
	ImpuestoAplicable  decimal.Decimal
}

// Validate checks required fields and value ranges. The price and tax rate
// must both be strictly greater than zero.
func (p Params) Validate() error {
	switch {
	case p.Referencia == "":
		return &ValidationError{Field: "referencia", Reason: "must not be empty"}
	case p.Nombre == "":
		return &ValidationError{Field: "nombre", Reason: "must not be empty"}
	case p.Descripcion == "":
		return &ValidationError{Field: "descripcion", Reason: "must not be empty"}
	case p.PrecioSinImpuestos.LessThanOrEqual(decimal.Zero):
		return &ValidationError{Field: "precio_sin_impuestos", Reason: "must be greater than 0"}
	case p.ImpuestoAplicable.LessThanOrEqual(decimal.Zero):
		return &ValidationError{Field: "impuesto_aplicable", Reason: "must be greater than 0"}
	}
	return nil
}

// New validates params and returns an unsaved Article.
func New(p Params) (*Article, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return &Article{
		Referencia:         p.Referencia,
		Nombre:             p.Nombre,
		Descripcion:        p.Descripcion,
		PrecioSinImpuestos: p.PrecioSinImpuestos,
		ImpuestoAplicable:  p.ImpuestoAplicable,
		FechaCreacion:      time.Now().UTC(),
	}, nil
}

// Repository defines persistence operations for articles.
type Repository interface {
	Create(ctx context.Context, a *Article) error
	GetByID(ctx context.Context, id int64) (*Article, error)
	Update(ctx context.Context, id int64, p Params) (*Article, error)
	List(ctx context.Context) ([]Article, error)
}
