package article

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validParams() Params {
	return Params{
		Referencia:         "REF-001",
		Nombre:             "Teclado",
		Descripcion:        "Teclado mecánico",
		PrecioSinImpuestos: decimal.RequireFromString("100.00"),
		ImpuestoAplicable:  decimal.RequireFromString("21.00"),
	}
}

func TestPrecioConImpuestos(t *testing.T) {
	tests := []struct {
		name   string
		precio string
		tax    string
		want   string
	}{
		{"standard vat", "100.00", "21.00", "121.00"},
		{"reduced vat", "50.00", "10.00", "55.00"},
		{"rounding half up", "9.99", "21.00", "12.09"},
		{"small price", "0.01", "21.00", "0.01"},
		{"fractional tax", "200.00", "10.50", "221.00"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := Article{
				PrecioSinImpuestos: decimal.RequireFromString(tt.precio),
				ImpuestoAplicable:  decimal.RequireFromString(tt.tax),
			}
			got := a.PrecioConImpuestos()
			assert.True(t, decimal.RequireFromString(tt.want).Equal(got),
				"want %s, got %s", tt.want, got)
		})
	}
}

func TestPrecioConImpuestosDeterministic(t *testing.T) {
	a := Article{
		PrecioSinImpuestos: decimal.RequireFromString("33.33"),
		ImpuestoAplicable:  decimal.RequireFromString("7.77"),
	}
	first := a.PrecioConImpuestos()
	second := a.PrecioConImpuestos()
	assert.True(t, first.Equal(second))
}

func TestNewValid(t *testing.T) {
	a, err := New(validParams())
	require.NoError(t, err)
	assert.Equal(t, "REF-001", a.Referencia)
	assert.False(t, a.FechaCreacion.IsZero())
}

func TestNewValidation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Params)
		field  string
	}{
		{"empty reference", func(p *Params) { p.Referencia = "" }, "referencia"},
		{"empty name", func(p *Params) { p.Nombre = "" }, "nombre"},
		{"empty description", func(p *Params) { p.Descripcion = "" }, "descripcion"},
		{"zero price", func(p *Params) { p.PrecioSinImpuestos = decimal.Zero }, "precio_sin_impuestos"},
		{"negative price", func(p *Params) { p.PrecioSinImpuestos = decimal.NewFromInt(-1) }, "precio_sin_impuestos"},
		{"zero tax", func(p *Params) { p.ImpuestoAplicable = decimal.Zero }, "impuesto_aplicable"},
		{"negative tax", func(p *Params) { p.ImpuestoAplicable = decimal.NewFromInt(-5) }, "impuesto_aplicable"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := validParams()
			tt.mutate(&p)

			_, err := New(p)

			var vErr *ValidationError
			require.ErrorAs(t, err, &vErr)
			assert.Equal(t, tt.field, vErr.Field)
		})
	}
}
