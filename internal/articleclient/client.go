// Package articleclient implements the HTTP client the orders service uses to
// talk to the articles service.
package articleclient

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-faster/errors"
	"github.com/go-resty/resty/v2"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/arturoguardor/centribal/internal/domain/order"
)

// Config holds the upstream endpoint and the service credentials used for the
// per-item token handshake.
type Config struct {
	// BaseURL is the root of the articles service, e.g. http://articles:8080.
	BaseURL string
	// TokenURL is the token issuance endpoint. When empty it defaults to
	// BaseURL + "/api/token/".
	TokenURL string
	Username string
	Password string
	// Timeout bounds each upstream call. Zero means no timeout, matching the
	// reference behavior where a hung upstream call hangs the order operation.
	Timeout time.Duration
}

var _ order.ArticleClient = (*Client)(nil)

// Client is a resty-backed implementation of order.ArticleClient.
// It performs no retries and caches nothing across calls.
type Client struct {
	http     *resty.Client
	tokenURL string
	username string
	password string
}

// New creates a Client for the configured articles service.
func New(cfg Config) *Client {
	tokenURL := cfg.TokenURL
	if tokenURL == "" {
		tokenURL = cfg.BaseURL + "/api/token/"
	}

	rc := resty.New().
		SetBaseURL(cfg.BaseURL).
		SetTimeout(cfg.Timeout).
		SetTransport(otelhttp.NewTransport(http.DefaultTransport))

	return &Client{
		http:     rc,
		tokenURL: tokenURL,
		username: cfg.Username,
		password: cfg.Password,
	}
}

type tokenResponse struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}

// wireArticle mirrors the articles service JSON representation. Decimal
// fields accept both quoted and bare numbers.
type wireArticle struct {
	ID                 int64           `json:"id"`
	Referencia         string          `json:"referencia"`
	Nombre             string          `json:"nombre"`
	Descripcion        string          `json:"descripcion"`
	PrecioSinImpuestos decimal.Decimal `json:"precio_sin_impuestos"`
	ImpuestoAplicable  decimal.Decimal `json:"impuesto_aplicable"`
}

// Token requests an access token using the configured service credentials.
// A non-200 upstream response becomes an *order.UpstreamAuthError carrying
// the upstream status code.
func (c *Client) Token(ctx context.Context) (string, error) {
	var body tokenResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetFormData(map[string]string{
			"username": c.username,
			"password": c.password,
		}).
		SetResult(&body).
		Post(c.tokenURL)
	if err != nil {
		return "", errors.Wrap(err, "token request")
	}
	if resp.StatusCode() != http.StatusOK {
		return "", &order.UpstreamAuthError{StatusCode: resp.StatusCode()}
	}
	return body.Access, nil
}

// Get fetches an article by id using the bearer token. A non-200 upstream
// response becomes an *order.ArticleNotFoundError.
func (c *Client) Get(ctx context.Context, token string, id int64) (*order.RemoteArticle, error) {
	var body wireArticle
	resp, err := c.http.R().
		SetContext(ctx).
		SetAuthToken(token).
		SetResult(&body).
		Get(fmt.Sprintf("/articulos/%d", id))
	if err != nil {
		return nil, errors.Wrapf(err, "get article %d", id)
	}
	if resp.StatusCode() != http.StatusOK {
		return nil, &order.ArticleNotFoundError{ArticleID: id}
	}

	return &order.RemoteArticle{
		ID:                 body.ID,
		Referencia:         body.Referencia,
		Nombre:             body.Nombre,
		Descripcion:        body.Descripcion,
		PrecioSinImpuestos: body.PrecioSinImpuestos,
		ImpuestoAplicable:  body.ImpuestoAplicable,
	}, nil
}

// Update writes an article back to the articles service with a full-replace
// PUT. A non-200 upstream response becomes an *order.UpstreamUpdateError
// carrying the upstream status code.
func (c *Client) Update(ctx context.Context, token string, id int64, a order.RemoteArticle) error {
	resp, err := c.http.R().
		SetContext(ctx).
		SetAuthToken(token).
		SetBody(wireArticle{
			Referencia:         a.Referencia,
			Nombre:             a.Nombre,
			Descripcion:        a.Descripcion,
			PrecioSinImpuestos: a.PrecioSinImpuestos,
			ImpuestoAplicable:  a.ImpuestoAplicable,
		}).
		Put(fmt.Sprintf("/articulos/%d", id))
	if err != nil {
		return errors.Wrapf(err, "update article %d", id)
	}
	if resp.StatusCode() != http.StatusOK {
		return &order.UpstreamUpdateError{ArticleID: id, StatusCode: resp.StatusCode()}
	}
	return nil
}
