package quote

import (
	"github.com/gin-gonic/gin"
	"github.com/richxcame/limo-booking/pkg/common"
)

// Handler handles HTTP requests for fares and quotes
type Handler struct {
	service *Service
}

// NewHandler creates a new quote handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers fare and quote routes
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/fares/compute", h.Compute)

	quotes := rg.Group("/quotes")
	{
		quotes.POST("", h.CreateQuote)
		quotes.GET("/:id", h.GetQuote)
		quotes.POST("/:id/confirm", h.ConfirmQuote)
	}
}

// Compute returns a price breakdown without storing a quote
func (h *Handler) Compute(c *gin.Context) {
	var req ComputeRequest
	if !common.BindJSON(c, &req) {
		return
	}

	breakdown, err := h.service.Compute(c.Request.Context(), req)
	if common.HandleServiceError(c, err, "failed to compute fare") {
		return
	}
	common.SuccessResponse(c, breakdown)
}

// CreateQuote prices a booking and stores the quote
func (h *Handler) CreateQuote(c *gin.Context) {
	var req QuoteRequest
	if !common.BindJSON(c, &req) {
		return
	}

	q, err := h.service.CreateQuote(c.Request.Context(), req)
	if common.HandleServiceError(c, err, "failed to create quote") {
		return
	}
	common.CreatedResponse(c, q)
}

// GetQuote returns a stored quote
func (h *Handler) GetQuote(c *gin.Context) {
	id, ok := common.ParseUUIDParam(c, "id", "quote ID")
	if !ok {
		return
	}

	q, err := h.service.GetQuote(c.Request.Context(), id)
	if common.HandleServiceError(c, err, "failed to get quote") {
		return
	}
	common.SuccessResponse(c, q)
}

// ConfirmQuote re-prices a stored quote for checkout
func (h *Handler) ConfirmQuote(c *gin.Context) {
	id, ok := common.ParseUUIDParam(c, "id", "quote ID")
	if !ok {
		return
	}

	resp, err := h.service.ConfirmQuote(c.Request.Context(), id)
	if common.HandleServiceError(c, err, "failed to confirm quote") {
		return
	}
	common.SuccessResponse(c, resp)
}
