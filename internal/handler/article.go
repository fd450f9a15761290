// Package handler exposes the HTTP surface of both services over gin,
// mapping domain errors to response status codes.
package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"

	"github.com/arturoguardor/centribal/internal/domain/article"
)

// ArticleHandler serves the articles service CRUD endpoints.
type ArticleHandler struct {
	articles article.Repository
}

// NewArticleHandler constructs an ArticleHandler over the given repository.
func NewArticleHandler(articles article.Repository) *ArticleHandler {
	return &ArticleHandler{articles: articles}
}

// Register mounts the article routes on the given router group.
func (h *ArticleHandler) Register(r gin.IRoutes) {
	r.POST("/articulos", h.Create)
	r.GET("/articulos/list/", h.List)
	r.GET("/articulos/:id", h.Get)
	r.PUT("/articulos/:id", h.Update)
}

type articleRequest struct {
	Referencia         string          `json:"referencia"`
	Nombre             string          `json:"nombre"`
	Descripcion        string          `json:"descripcion"`
	PrecioSinImpuestos decimal.Decimal `json:"precio_sin_impuestos"`
	ImpuestoAplicable  decimal.Decimal `json:"impuesto_aplicable"`
}

func (r articleRequest) params() article.Params {
	return article.Params{
		Referencia:         r.Referencia,
		Nombre:             r.Nombre,
		Descripcion:        r.Descripcion,
		PrecioSinImpuestos: r.PrecioSinImpuestos,
		ImpuestoAplicable:  r.ImpuestoAplicable,
	}
}

// articleResponse renders monetary fields as fixed 2-decimal strings to keep
// the wire format exact.
type articleResponse struct {
	ID                 int64     `json:"id"`
	Referencia         string    `json:"referencia"`
	Nombre             string    `json:"nombre"`
	Descripcion        string    `json:"descripcion"`
	PrecioSinImpuestos string    `json:"precio_sin_impuestos"`
	ImpuestoAplicable  string    `json:"impuesto_aplicable"`
	PrecioConImpuestos string    `json:"precio_con_impuestos"`
	FechaCreacion      time.Time `json:"fecha_creacion"`
}

func toArticleResponse(a *article.Article) articleResponse {
	return articleResponse{
		ID:                 a.ID,
		Referencia:         a.Referencia,
		Nombre:             a.Nombre,
		Descripcion:        a.Descripcion,
		PrecioSinImpuestos: a.PrecioSinImpuestos.StringFixed(2),
		ImpuestoAplicable:  a.ImpuestoAplicable.StringFixed(2),
		PrecioConImpuestos: a.PrecioConImpuestos().StringFixed(2),
		FechaCreacion:      a.FechaCreacion,
	}
}

// Create handles POST /articulos.
func (h *ArticleHandler) Create(c *gin.Context) {
	var req articleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	a, err := article.New(req.params())
	if err != nil {
		mapArticleError(c, err)
		return
	}

	if err := h.articles.Create(c.Request.Context(), a); err != nil {
		mapArticleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toArticleResponse(a))
}

// Get handles GET /articulos/:id.
func (h *ArticleHandler) Get(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	a, err := h.articles.GetByID(c.Request.Context(), id)
	if err != nil {
		mapArticleError(c, err)
		return
	}
	c.JSON(http.StatusOK, toArticleResponse(a))
}

// Update handles PUT /articulos/:id with a full field replace.
func (h *ArticleHandler) Update(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	var req articleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	p := req.params()
	if err := p.Validate(); err != nil {
		mapArticleError(c, err)
		return
	}

	a, err := h.articles.Update(c.Request.Context(), id, p)
	if err != nil {
		mapArticleError(c, err)
		return
	}
	c.JSON(http.StatusOK, toArticleResponse(a))
}

// List handles GET /articulos/list/.
func (h *ArticleHandler) List(c *gin.Context) {
	all, err := h.articles.List(c.Request.Context())
	if err != nil {
		mapArticleError(c, err)
		return
	}

	out := make([]articleResponse, len(all))
	for i := range all {
		out[i] = toArticleResponse(&all[i])
	}
	c.JSON(http.StatusOK, out)
}

// pathID parses the :id path parameter, responding 404 on garbage since no
// article can live at a non-numeric id.
func pathID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return 0, false
	}
	return id, true
}

// mapArticleError converts domain errors to HTTP responses.
func mapArticleError(c *gin.Context, err error) {
	var vErr *article.ValidationError
	switch {
	case errors.As(err, &vErr):
		c.JSON(http.StatusBadRequest, gin.H{"error": vErr.Error()})
	case errors.Is(err, article.ErrDuplicateReference):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, article.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
