package postgres

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/arturoguardor/centribal/internal/domain/article"
)

// uniqueViolation is the postgres error code for unique constraint violations.
const uniqueViolation = "23505"

var _ article.Repository = (*ArticleRepository)(nil)

// ArticleRepository implements article.Repository backed by PostgreSQL.
type ArticleRepository struct {
	pool *pgxpool.Pool
}

// NewArticleRepository returns an ArticleRepository that uses the given pool.
func NewArticleRepository(pool *pgxpool.Pool) *ArticleRepository {
	return &ArticleRepository{pool: pool}
}

const articleColumns = `id, referencia, nombre, descripcion, precio_sin_impuestos, impuesto_aplicable, fecha_creacion`

// Create inserts a new article and assigns its generated id.
func (r *ArticleRepository) Create(ctx context.Context, a *article.Article) error {
	const q = `
		INSERT INTO articulos (referencia, nombre, descripcion, precio_sin_impuestos, impuesto_aplicable, fecha_creacion)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id`

	err := r.pool.QueryRow(ctx, q,
		a.Referencia, a.Nombre, a.Descripcion,
		a.PrecioSinImpuestos, a.ImpuestoAplicable, a.FechaCreacion,
	).Scan(&a.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return article.ErrDuplicateReference
		}
		return errors.Wrapf(err, "insert article %q", a.Referencia)
	}
	return nil
}

// GetByID returns a single article by its identifier.
func (r *ArticleRepository) GetByID(ctx context.Context, id int64) (*article.Article, error) {
	const q = `SELECT ` + articleColumns + ` FROM articulos WHERE id = $1`

	var a article.Article
	err := r.pool.QueryRow(ctx, q, id).Scan(
		&a.ID, &a.Referencia, &a.Nombre, &a.Descripcion,
		&a.PrecioSinImpuestos, &a.ImpuestoAplicable, &a.FechaCreacion,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, article.ErrNotFound
		}
		return nil, errors.Wrapf(err, "get article %d", id)
	}
	return &a, nil
}

// Update replaces all editable fields of an article.
func (r *ArticleRepository) Update(ctx context.Context, id int64, p article.Params) (*article.Article, error) {
	const q = `
		UPDATE articulos
		SET referencia = $2, nombre = $3, descripcion = $4, precio_sin_impuestos = $5, impuesto_aplicable = $6
		WHERE id = $1
		RETURNING ` + articleColumns

	var a article.Article
	err := r.pool.QueryRow(ctx, q, id,
		p.Referencia, p.Nombre, p.Descripcion, p.PrecioSinImpuestos, p.ImpuestoAplicable,
	).Scan(
		&a.ID, &a.Referencia, &a.Nombre, &a.Descripcion,
		&a.PrecioSinImpuestos, &a.ImpuestoAplicable, &a.FechaCreacion,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, article.ErrNotFound
		}
		if isUniqueViolation(err) {
			return nil, article.ErrDuplicateReference
		}
		return nil, errors.Wrapf(err, "update article %d", id)
	}
	return &a, nil
}

// List returns all current articles.
func (r *ArticleRepository) List(ctx context.Context) ([]article.Article, error) {
	const q = `SELECT ` + articleColumns + ` FROM articulos ORDER BY id`

	rows, err := r.pool.Query(ctx, q)
	if err != nil {
		return nil, errors.Wrap(err, "list articles")
	}
	defer rows.Close()

	var out []article.Article
	for rows.Next() {
		var a article.Article
		if err := rows.Scan(
			&a.ID, &a.Referencia, &a.Nombre, &a.Descripcion,
			&a.PrecioSinImpuestos, &a.ImpuestoAplicable, &a.FechaCreacion,
		); err != nil {
			return nil, errors.Wrap(err, "scan article")
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}
