package settings

import (
	"github.com/gin-gonic/gin"
	"github.com/richxcame/limo-booking/internal/fare"
	"github.com/richxcame/limo-booking/pkg/common"
	"github.com/richxcame/limo-booking/pkg/pagination"
)

// UpdatedByHeader names the admin user saving the document
const UpdatedByHeader = "X-Admin-User"

// Handler handles HTTP requests for pricing settings
type Handler struct {
	service *Service
}

// NewHandler creates a new settings handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers public and admin settings routes
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/settings/public", h.GetPublic)

	admin := rg.Group("/admin/settings")
	{
		admin.GET("", h.GetAdmin)
		admin.PUT("", h.Update)
		admin.GET("/history", h.History)
	}
}

// GetPublic returns the settings currently used for pricing
func (h *Handler) GetPublic(c *gin.Context) {
	common.SuccessResponse(c, h.service.Public(c.Request.Context()))
}

// GetAdmin returns the stored document with version metadata
func (h *Handler) GetAdmin(c *gin.Context) {
	resp, err := h.service.Get(c.Request.Context())
	if common.HandleServiceError(c, err, "failed to load pricing settings") {
		return
	}
	common.SuccessResponse(c, resp)
}

// Update validates and saves the settings document
func (h *Handler) Update(c *gin.Context) {
	var doc fare.SettingsDocument
	if !common.BindJSON(c, &doc) {
		return
	}

	resp, err := h.service.Update(c.Request.Context(), doc, c.GetHeader(UpdatedByHeader))
	if common.HandleServiceError(c, err, "failed to save pricing settings") {
		return
	}
	common.SuccessResponse(c, resp)
}

// History lists saved revisions
func (h *Handler) History(c *gin.Context) {
	entries, meta, err := h.service.History(c.Request.Context(), pagination.ParseParams(c))
	if common.HandleServiceError(c, err, "failed to load settings history") {
		return
	}
	common.SuccessResponseWithMeta(c, entries, meta)
}
