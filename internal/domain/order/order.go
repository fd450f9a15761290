// Package order holds the order aggregate and the orchestration service that
// builds orders from article data fetched from the articles service.
package order

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// Line is an immutable point-in-time snapshot of an article inside an order.
// It does not change when the source article is later updated; the article id
// is a remote reference, not a foreign key.
type Line struct {
	OrderID            int64
	ArticleID          int64
	Referencia         string
	Nombre             string
	PrecioSinImpuestos decimal.Decimal
	ImpuestoAplicable  decimal.Decimal
	Cantidad           int
}

var oneHundred = decimal.NewFromInt(100)

// PrecioConImpuestos returns the tax-inclusive unit price of the snapshot,
// rounded to 2 decimal places.
func (l Line) PrecioConImpuestos() decimal.Decimal {
	return l.PrecioSinImpuestos.
		Add(l.PrecioSinImpuestos.Mul(l.ImpuestoAplicable).Div(oneHundred)).
		Round(2)
}

// Order aggregates line snapshots with pre- and post-tax totals. Totals are
// derived from the current line set; Recompute must run after any change to
// the lines before the order is considered consistent.
type Order struct {
	ID                int64
	Lines             []Line
	TotalSinImpuestos decimal.Decimal
	TotalConImpuestos decimal.Decimal
	FechaCreacion     time.Time
}

// Recompute recalculates both totals from the line snapshots. The sums are
// commutative over lines and the result is rounded to 2 decimal places, so
// recomputing an unchanged order is a no-op.
func (o *Order) Recompute() {
	totalSin := decimal.Zero
	totalCon := decimal.Zero
	for _, l := range o.Lines {
		qty := decimal.NewFromInt(int64(l.Cantidad))
		totalSin = totalSin.Add(l.PrecioSinImpuestos.Mul(qty))

		conImpuestos := l.PrecioSinImpuestos.
			Add(l.PrecioSinImpuestos.Mul(l.ImpuestoAplicable).Div(oneHundred))
		totalCon = totalCon.Add(conImpuestos.Mul(qty))
	}
	o.TotalSinImpuestos = totalSin.Round(2)
	o.TotalConImpuestos = totalCon.Round(2)
}

// Repository defines persistence operations for orders and their lines.
// Deleting an order cascades to its lines.
type Repository interface {
	Create(ctx context.Context, o *Order) error
	GetByID(ctx context.Context, id int64) (*Order, error)
	List(ctx context.Context) ([]Order, error)
	AddLine(ctx context.Context, l *Line) error
	DeleteLines(ctx context.Context, orderID int64) error
	UpdateTotals(ctx context.Context, orderID int64, totalSin, totalCon decimal.Decimal) error
}
