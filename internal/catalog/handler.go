package catalog

import (
	"github.com/gin-gonic/gin"
	"github.com/richxcame/limo-booking/pkg/common"
)

// Handler exposes the read-only catalog used by the booking wizard
type Handler struct {
	service *Service
}

// NewHandler creates a new catalog handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers catalog routes
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	c := rg.Group("/catalog")
	{
		c.GET("/packages", h.ListPackages)
		c.GET("/packages/:id", h.GetPackage)
		c.GET("/vehicles", h.ListVehicles)
		c.GET("/vehicles/:id", h.GetVehicle)
	}
}

// ListPackages returns active packages
func (h *Handler) ListPackages(c *gin.Context) {
	packages, err := h.service.ListPackages(c.Request.Context())
	if common.HandleServiceError(c, err, "failed to list packages") {
		return
	}
	common.SuccessResponse(c, packages)
}

// GetPackage returns one package
func (h *Handler) GetPackage(c *gin.Context) {
	id, ok := common.ParseUUIDParam(c, "id", "package ID")
	if !ok {
		return
	}
	p, err := h.service.GetPackage(c.Request.Context(), id)
	if common.HandleServiceError(c, err, "failed to get package") {
		return
	}
	common.SuccessResponse(c, p)
}

// ListVehicles returns active vehicles
func (h *Handler) ListVehicles(c *gin.Context) {
	vehicles, err := h.service.ListVehicles(c.Request.Context())
	if common.HandleServiceError(c, err, "failed to list vehicles") {
		return
	}
	common.SuccessResponse(c, vehicles)
}

// GetVehicle returns one vehicle
func (h *Handler) GetVehicle(c *gin.Context) {
	id, ok := common.ParseUUIDParam(c, "id", "vehicle ID")
	if !ok {
		return
	}
	v, err := h.service.GetVehicle(c.Request.Context(), id)
	if common.HandleServiceError(c, err, "failed to get vehicle") {
		return
	}
	common.SuccessResponse(c, v)
}
