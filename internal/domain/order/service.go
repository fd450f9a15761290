package order

import (
	"context"
	"fmt"
	"time"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
)

// Sentinel errors for order operations.
var (
	// ErrNotFound is returned when a requested order does not exist.
	ErrNotFound = errors.New("order not found")
	// ErrEmptyOrder is returned when an order is created or edited with no items.
	ErrEmptyOrder = errors.New("order must include at least one article")
)

// InvalidQuantityError indicates a requested line has a non-positive quantity.
type InvalidQuantityError struct {
	ArticleID int64
}

func (e *InvalidQuantityError) Error() string {
	return fmt.Sprintf("quantity for article %d must be greater than 0", e.ArticleID)
}

// UpstreamAuthError indicates the articles service refused to issue a token.
// StatusCode carries the upstream response code unchanged.
type UpstreamAuthError struct {
	StatusCode int
}

func (e *UpstreamAuthError) Error() string {
	return fmt.Sprintf("articles service token request failed with status %d", e.StatusCode)
}

// ArticleNotFoundError indicates the articles service did not return the
// requested article.
type ArticleNotFoundError struct {
	ArticleID int64
}

func (e *ArticleNotFoundError) Error() string {
	return fmt.Sprintf("article %d not found", e.ArticleID)
}

// UpstreamUpdateError indicates the echo-back PUT of an article to the
// articles service failed during an order edit. StatusCode carries the
// upstream response code unchanged.
type UpstreamUpdateError struct {
	ArticleID  int64
	StatusCode int
}

func (e *UpstreamUpdateError) Error() string {
	return fmt.Sprintf("updating article %d failed with status %d", e.ArticleID, e.StatusCode)
}

// RemoteArticle holds the article fields returned by the articles service.
type RemoteArticle struct {
	ID                 int64
	Referencia         string
	Nombre             string
	Descripcion        string
	PrecioSinImpuestos decimal.Decimal
	ImpuestoAplicable  decimal.Decimal
}

// ArticleClient talks to the articles service. Implementations return
// *UpstreamAuthError from Token, *ArticleNotFoundError from Get, and
// *UpstreamUpdateError from Update when the upstream responds non-2xx.
type ArticleClient interface {
	Token(ctx context.Context) (string, error)
	Get(ctx context.Context, token string, id int64) (*RemoteArticle, error)
	Update(ctx context.Context, token string, id int64, a RemoteArticle) error
}

// ItemRequest is one requested (article id, quantity) pair.
type ItemRequest struct {
	ArticleID int64
	Cantidad  int
}

// Service orchestrates order creation and editing against the remote
// articles service.
type Service struct {
	orders   Repository
	articles ArticleClient
}

// NewService creates an order Service with the required dependencies.
func NewService(orders Repository, articles ArticleClient) *Service {
	return &Service{
		orders:   orders,
		articles: articles,
	}
}

// CreateOrder builds a new order from the requested items. The empty order
// row is persisted before the item loop, so a mid-loop failure leaves a
// zero-line order behind; the caller still receives the error. Items are
// processed strictly in input order and the loop aborts on the first failure.
func (s *Service) CreateOrder(ctx context.Context, items []ItemRequest) (*Order, error) {
	if len(items) == 0 {
		return nil, ErrEmptyOrder
	}

	o := &Order{FechaCreacion: time.Now().UTC()}
	if err := s.orders.Create(ctx, o); err != nil {
		return nil, errors.Wrap(err, "create order")
	}

	if err := s.appendLines(ctx, o, items, false); err != nil {
		return nil, err
	}
	return o, nil
}

// EditOrder replaces the lines of an existing order wholesale: all prior
// lines are deleted before the new items are fetched, so a failure mid-loop
// leaves the order with fewer lines than before and stale totals. Each
// fetched article is additionally written back to the articles service.
func (s *Service) EditOrder(ctx context.Context, id int64, items []ItemRequest) (*Order, error) {
	existing, err := s.orders.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, ErrEmptyOrder
	}

	if err := s.orders.DeleteLines(ctx, id); err != nil {
		return nil, errors.Wrap(err, "delete lines")
	}

	o := &Order{ID: id, FechaCreacion: existing.FechaCreacion}
	if err := s.appendLines(ctx, o, items, true); err != nil {
		return nil, err
	}
	return o, nil
}

// GetOrder returns a single order with its line snapshots.
func (s *Service) GetOrder(ctx context.Context, id int64) (*Order, error) {
	return s.orders.GetByID(ctx, id)
}

// ListOrders returns all persisted orders.
func (s *Service) ListOrders(ctx context.Context) ([]Order, error) {
	return s.orders.List(ctx)
}

// appendLines runs the per-item handshake loop: validate quantity, obtain a
// fresh token, fetch the article, optionally echo it back upstream, persist
// the snapshot line. Afterwards it recomputes and persists the totals.
// A fresh token is requested for every item, matching the upstream contract.
func (s *Service) appendLines(ctx context.Context, o *Order, items []ItemRequest, echoUpdate bool) error {
	for _, item := range items {
		if item.Cantidad <= 0 {
			return &InvalidQuantityError{ArticleID: item.ArticleID}
		}

		token, err := s.articles.Token(ctx)
		if err != nil {
			return err
		}

		remote, err := s.articles.Get(ctx, token, item.ArticleID)
		if err != nil {
			return err
		}

		if echoUpdate {
			if err := s.articles.Update(ctx, token, item.ArticleID, *remote); err != nil {
				return err
			}
		}

		line := Line{
			OrderID:            o.ID,
			ArticleID:          item.ArticleID,
			Referencia:         remote.Referencia,
			Nombre:             remote.Nombre,
			PrecioSinImpuestos: remote.PrecioSinImpuestos,
			ImpuestoAplicable:  remote.ImpuestoAplicable,
			Cantidad:           item.Cantidad,
		}
		if err := s.orders.AddLine(ctx, &line); err != nil {
			return errors.Wrap(err, "add line")
		}
		o.Lines = append(o.Lines, line)
	}

	o.Recompute()
	if err := s.orders.UpdateTotals(ctx, o.ID, o.TotalSinImpuestos, o.TotalConImpuestos); err != nil {
		return errors.Wrap(err, "update totals")
	}
	return nil
}
