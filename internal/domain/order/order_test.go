package order

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func snapshotLine(precio, tax string, qty int) Line {
	return Line{
		PrecioSinImpuestos: decimal.RequireFromString(precio),
		ImpuestoAplicable:  decimal.RequireFromString(tax),
		Cantidad:           qty,
	}
}

func TestRecompute(t *testing.T) {
	o := &Order{Lines: []Line{snapshotLine("100.00", "21.00", 2)}}

	o.Recompute()

	assert.Equal(t, "200.00", o.TotalSinImpuestos.StringFixed(2))
	assert.Equal(t, "242.00", o.TotalConImpuestos.StringFixed(2))
}

func TestRecomputeMultipleLines(t *testing.T) {
	o := &Order{Lines: []Line{
		snapshotLine("10.00", "21.00", 3),
		snapshotLine("5.50", "10.00", 2),
	}}

	o.Recompute()

	// 30.00 + 11.00 = 41.00; 36.30 + 12.10 = 48.40.
	assert.Equal(t, "41.00", o.TotalSinImpuestos.StringFixed(2))
	assert.Equal(t, "48.40", o.TotalConImpuestos.StringFixed(2))
}

func TestRecomputeEmptyLines(t *testing.T) {
	o := &Order{}

	o.Recompute()

	assert.True(t, o.TotalSinImpuestos.IsZero())
	assert.True(t, o.TotalConImpuestos.IsZero())
}

func TestRecomputeIdempotent(t *testing.T) {
	o := &Order{Lines: []Line{
		snapshotLine("9.99", "21.00", 7),
		snapshotLine("0.01", "4.00", 13),
	}}

	o.Recompute()
	firstSin, firstCon := o.TotalSinImpuestos, o.TotalConImpuestos
	o.Recompute()

	assert.True(t, firstSin.Equal(o.TotalSinImpuestos))
	assert.True(t, firstCon.Equal(o.TotalConImpuestos))
}

func TestRecomputeOrderIndependent(t *testing.T) {
	lines := []Line{
		snapshotLine("12.34", "21.00", 1),
		snapshotLine("56.78", "10.00", 4),
		snapshotLine("0.99", "4.00", 9),
	}
	forward := &Order{Lines: lines}
	reversed := &Order{Lines: []Line{lines[2], lines[1], lines[0]}}

	forward.Recompute()
	reversed.Recompute()

	assert.True(t, forward.TotalSinImpuestos.Equal(reversed.TotalSinImpuestos))
	assert.True(t, forward.TotalConImpuestos.Equal(reversed.TotalConImpuestos))
}

func TestLinePrecioConImpuestos(t *testing.T) {
	l := snapshotLine("100.00", "21.00", 1)
	assert.Equal(t, "121.00", l.PrecioConImpuestos().StringFixed(2))
}
