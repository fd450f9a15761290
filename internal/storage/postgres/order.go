package postgres

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/arturoguardor/centribal/internal/domain/order"
)

var _ order.Repository = (*OrderRepository)(nil)

// OrderRepository implements order.Repository backed by PostgreSQL. Line
// snapshots live in pedido_lineas and are removed with their order via
// ON DELETE CASCADE.
type OrderRepository struct {
	pool *pgxpool.Pool
}

// NewOrderRepository returns an OrderRepository that uses the given pool.
func NewOrderRepository(pool *pgxpool.Pool) *OrderRepository {
	return &OrderRepository{pool: pool}
}

// Create inserts an empty order row and assigns its generated id.
func (r *OrderRepository) Create(ctx context.Context, o *order.Order) error {
	const q = `INSERT INTO pedidos (fecha_creacion) VALUES ($1) RETURNING id`

	if err := r.pool.QueryRow(ctx, q, o.FechaCreacion).Scan(&o.ID); err != nil {
		return errors.Wrap(err, "insert order")
	}
	return nil
}

// GetByID returns an order with its line snapshots in insertion order.
func (r *OrderRepository) GetByID(ctx context.Context, id int64) (*order.Order, error) {
	const q = `
		SELECT id, precio_total_sin_impuestos, precio_total_con_impuestos, fecha_creacion
		FROM pedidos WHERE id = $1`

	var o order.Order
	err := r.pool.QueryRow(ctx, q, id).Scan(
		&o.ID, &o.TotalSinImpuestos, &o.TotalConImpuestos, &o.FechaCreacion,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, order.ErrNotFound
		}
		return nil, errors.Wrapf(err, "get order %d", id)
	}

	lines, err := r.linesFor(ctx, id)
	if err != nil {
		return nil, err
	}
	o.Lines = lines
	return &o, nil
}

// List returns all orders with their line snapshots.
func (r *OrderRepository) List(ctx context.Context) ([]order.Order, error) {
	const q = `
		SELECT id, precio_total_sin_impuestos, precio_total_con_impuestos, fecha_creacion
		FROM pedidos ORDER BY id`

	rows, err := r.pool.Query(ctx, q)
	if err != nil {
		return nil, errors.Wrap(err, "list orders")
	}
	defer rows.Close()

	var out []order.Order
	for rows.Next() {
		var o order.Order
		if err := rows.Scan(&o.ID, &o.TotalSinImpuestos, &o.TotalConImpuestos, &o.FechaCreacion); err != nil {
			return nil, errors.Wrap(err, "scan order")
		}
		out = append(out, o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range out {
		lines, err := r.linesFor(ctx, out[i].ID)
		if err != nil {
			return nil, err
		}
		out[i].Lines = lines
	}
	return out, nil
}

// AddLine persists a single line snapshot under its order.
func (r *OrderRepository) AddLine(ctx context.Context, l *order.Line) error {
	const q = `
		INSERT INTO pedido_lineas
			(pedido_id, articulo_id, articulo_referencia, articulo_nombre,
			 articulo_precio_sin_impuestos, articulo_impuesto_aplicable, cantidad)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err := r.pool.Exec(ctx, q,
		l.OrderID, l.ArticleID, l.Referencia, l.Nombre,
		l.PrecioSinImpuestos, l.ImpuestoAplicable, l.Cantidad,
	)
	if err != nil {
		return errors.Wrapf(err, "insert line for order %d", l.OrderID)
	}
	return nil
}

// DeleteLines removes all line snapshots of an order.
func (r *OrderRepository) DeleteLines(ctx context.Context, orderID int64) error {
	const q = `DELETE FROM pedido_lineas WHERE pedido_id = $1`

	if _, err := r.pool.Exec(ctx, q, orderID); err != nil {
		return errors.Wrapf(err, "delete lines for order %d", orderID)
	}
	return nil
}

// UpdateTotals persists recomputed totals for an order.
func (r *OrderRepository) UpdateTotals(ctx context.Context, orderID int64, totalSin, totalCon decimal.Decimal) error {
	const q = `
		UPDATE pedidos
		SET precio_total_sin_impuestos = $2, precio_total_con_impuestos = $3
		WHERE id = $1`

	if _, err := r.pool.Exec(ctx, q, orderID, totalSin, totalCon); err != nil {
		return errors.Wrapf(err, "update totals for order %d", orderID)
	}
	return nil
}

func (r *OrderRepository) linesFor(ctx context.Context, orderID int64) ([]order.Line, error) {
	const q = `
		SELECT pedido_id, articulo_id, articulo_referencia, articulo_nombre,
		       articulo_precio_sin_impuestos, articulo_impuesto_aplicable, cantidad
		FROM pedido_lineas WHERE pedido_id = $1 ORDER BY id`

	rows, err := r.pool.Query(ctx, q, orderID)
	if err != nil {
		return nil, errors.Wrapf(err, "list lines for order %d", orderID)
	}
	defer rows.Close()

	var lines []order.Line
	for rows.Next() {
		var l order.Line
		if err := rows.Scan(
			&l.OrderID, &l.ArticleID, &l.Referencia, &l.Nombre,
			&l.PrecioSinImpuestos, &l.ImpuestoAplicable, &l.Cantidad,
		); err != nil {
			return nil, errors.Wrap(err, "scan line")
		}
		lines = append(lines, l)
	}
	return lines, rows.Err()
}
