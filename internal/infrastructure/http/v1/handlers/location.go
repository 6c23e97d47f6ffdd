package handlers

import (
	"github.com/gin-gonic/gin"

	"meditrack/internal/core/apperror"
	appctx "meditrack/internal/core/context"
	"meditrack/internal/core/id"
	"meditrack/internal/domain/location"
	"meditrack/internal/domain/stock"
	"meditrack/internal/infrastructure/http/v1/dto"
)

// LocationHandler handles the dispensing location directory.
type LocationHandler struct {
	base      *BaseHandler
	locations *location.Service
	stock     *stock.Service
}

// NewLocationHandler creates a new location handler.
func NewLocationHandler(base *BaseHandler, locations *location.Service, stockSvc *stock.Service) *LocationHandler {
	return &LocationHandler{base: base, locations: locations, stock: stockSvc}
}

// List returns every dispensing location.
// GET /api/v1/locations
func (h *LocationHandler) List(c *gin.Context) {
	locations, err := h.locations.List(c.Request.Context())
	if err != nil {
		h.base.Error(c, err)
		return
	}

	h.base.OK(c, dto.FromLocations(locations))
}

// Search returns locations whose name contains the query.
// GET /api/v1/locations/search?name=
func (h *LocationHandler) Search(c *gin.Context) {
	name := c.Query("name")

	locations, err := h.locations.SearchByName(c.Request.Context(), name)
	if err != nil {
		h.base.Error(c, err)
		return
	}

	h.base.OK(c, dto.FromLocations(locations))
}

// GetByID returns the full location view with stocked medications.
// GET /api/v1/locations/:id
func (h *LocationHandler) GetByID(c *gin.Context) {
	locationID, ok := h.base.ParseIDParam(c, "id")
	if !ok {
		return
	}

	detail, err := h.locations.GetByID(c.Request.Context(), locationID)
	if err != nil {
		h.base.Error(c, err)
		return
	}

	h.base.OK(c, dto.FromLocationDetail(detail))
}

// Nearby returns locations within a radius of a point, nearest first.
// GET /api/v1/locations/nearby?lat=&lon=&radiusKm=
func (h *LocationHandler) Nearby(c *gin.Context) {
	var req dto.NearbyRequest
	if !h.base.BindQuery(c, &req) {
		return
	}

	results, err := h.locations.FindNearby(c.Request.Context(), req.Latitude, req.Longitude, req.RadiusKm)
	if err != nil {
		h.base.Error(c, err)
		return
	}

	h.base.OK(c, dto.FromNearby(results))
}

// StockHistory returns the upload audit trail for the employee's own
// location, taken from the authenticated user context.
// GET /api/v1/locations/stock-history
func (h *LocationHandler) StockHistory(c *gin.Context) {
	locationID, err := id.Parse(appctx.GetLocationID(c.Request.Context()))
	if err != nil {
		h.base.Error(c, apperror.NewForbidden("no location assigned"))
		return
	}

	views, err := h.stock.ListAuditByLocation(c.Request.Context(), locationID)
	if err != nil {
		h.base.Error(c, err)
		return
	}

	h.base.OK(c, dto.FromAuditViews(views))
}
