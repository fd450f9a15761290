package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-faster/errors"

	"github.com/arturoguardor/centribal/internal/domain/order"
)

// OrderHandler serves the orders service endpoints, delegating orchestration
// to the order service.
type OrderHandler struct {
	orders *order.Service
}

// NewOrderHandler constructs an OrderHandler over the given service.
func NewOrderHandler(orders *order.Service) *OrderHandler {
	return &OrderHandler{orders: orders}
}

// Register mounts the order routes on the given router group.
func (h *OrderHandler) Register(r gin.IRoutes) {
	r.POST("/pedidos", h.Create)
	r.GET("/pedidos/", h.List)
	r.GET("/pedidos/:id", h.Get)
	r.PUT("/pedidos/:id", h.Edit)
}

type orderRequest struct {
	Articulos []orderItemRequest `json:"articulos"`
}

type orderItemRequest struct {
	ID       int64 `json:"id"`
	Cantidad int   `json:"cantidad"`
}

func (r orderRequest) items() []order.ItemRequest {
	items := make([]order.ItemRequest, len(r.Articulos))
	for i, a := range r.Articulos {
		items[i] = order.ItemRequest{ArticleID: a.ID, Cantidad: a.Cantidad}
	}
	return items
}

type orderLineResponse struct {
	Referencia         string `json:"referencia"`
	Nombre             string `json:"nombre"`
	Cantidad           int    `json:"cantidad"`
	PrecioSinImpuestos string `json:"precio_sin_impuestos"`
	PrecioConImpuestos string `json:"precio_con_impuestos"`
}

type orderResponse struct {
	ID                      int64               `json:"id"`
	Articulos               []orderLineResponse `json:"articulos"`
	PrecioTotalSinImpuestos string              `json:"precio_total_sin_impuestos"`
	PrecioTotalConImpuestos string              `json:"precio_total_con_impuestos"`
	FechaCreacion           time.Time           `json:"fecha_creacion"`
}

func toOrderResponse(o *order.Order) orderResponse {
	lines := make([]orderLineResponse, len(o.Lines))
	for i, l := range o.Lines {
		lines[i] = orderLineResponse{
			Referencia:         l.Referencia,
			Nombre:             l.Nombre,
			Cantidad:           l.Cantidad,
			PrecioSinImpuestos: l.PrecioSinImpuestos.StringFixed(2),
			PrecioConImpuestos: l.PrecioConImpuestos().StringFixed(2),
		}
	}
	return orderResponse{
		ID:                      o.ID,
		Articulos:               lines,
		PrecioTotalSinImpuestos: o.TotalSinImpuestos.StringFixed(2),
		PrecioTotalConImpuestos: o.TotalConImpuestos.StringFixed(2),
		FechaCreacion:           o.FechaCreacion,
	}
}

// Create handles POST /pedidos.
func (h *OrderHandler) Create(c *gin.Context) {
	var req orderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	o, err := h.orders.CreateOrder(c.Request.Context(), req.items())
	if err != nil {
		mapOrderError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toOrderResponse(o))
}

// Edit handles PUT /pedidos/:id with a wholesale line replace.
func (h *OrderHandler) Edit(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	var req orderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	o, err := h.orders.EditOrder(c.Request.Context(), id, req.items())
	if err != nil {
		mapOrderError(c, err)
		return
	}
	c.JSON(http.StatusOK, toOrderResponse(o))
}

// Get handles GET /pedidos/:id.
func (h *OrderHandler) Get(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	o, err := h.orders.GetOrder(c.Request.Context(), id)
	if err != nil {
		mapOrderError(c, err)
		return
	}
	c.JSON(http.StatusOK, toOrderResponse(o))
}

// List handles GET /pedidos/.
func (h *OrderHandler) List(c *gin.Context) {
	all, err := h.orders.ListOrders(c.Request.Context())
	if err != nil {
		mapOrderError(c, err)
		return
	}

	out := make([]orderResponse, len(all))
	for i := range all {
		out[i] = toOrderResponse(&all[i])
	}
	c.JSON(http.StatusOK, out)
}

// mapOrderError converts domain and upstream errors to HTTP responses.
// Upstream auth and update failures pass the upstream status code through
// unchanged rather than translating it.
func mapOrderError(c *gin.Context, err error) {
	var (
		iqErr   *order.InvalidQuantityError
		nfErr   *order.ArticleNotFoundError
		authErr *order.UpstreamAuthError
		updErr  *order.UpstreamUpdateError
	)
	switch {
	case errors.Is(err, order.ErrEmptyOrder):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.As(err, &iqErr):
		c.JSON(http.StatusBadRequest, gin.H{"error": iqErr.Error()})
	case errors.Is(err, order.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.As(err, &nfErr):
		c.JSON(http.StatusNotFound, gin.H{"error": nfErr.Error()})
	case errors.As(err, &authErr):
		c.JSON(authErr.StatusCode, gin.H{"error": authErr.Error()})
	case errors.As(err, &updErr):
		c.JSON(updErr.StatusCode, gin.H{"error": updErr.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
