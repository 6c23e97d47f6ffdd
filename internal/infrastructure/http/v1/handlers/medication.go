package handlers

import (
	"github.com/gin-gonic/gin"

	"meditrack/internal/core/apperror"
	appctx "meditrack/internal/core/context"
	"meditrack/internal/core/id"
	"meditrack/internal/domain/medication"
	"meditrack/internal/domain/stock"
	"meditrack/internal/infrastructure/http/v1/dto"
)

// MedicationHandler handles catalog search, detail, favorites and uploads.
type MedicationHandler struct {
	base        *BaseHandler
	medications *medication.Service
	stock       *stock.Service
}

// NewMedicationHandler creates a new medication handler.
func NewMedicationHandler(base *BaseHandler, medications *medication.Service, stockSvc *stock.Service) *MedicationHandler {
	return &MedicationHandler{base: base, medications: medications, stock: stockSvc}
}

// Search returns medications whose name contains the query.
// GET /api/v1/medications/search?name=
func (h *MedicationHandler) Search(c *gin.Context) {
	name := c.Query("name")

	summaries, err := h.medications.SearchByName(c.Request.Context(), name)
	if err != nil {
		h.base.Error(c, err)
		return
	}

	h.base.OK(c, dto.FromSummaries(summaries))
}

// GetByID returns the full medication view with its availability.
// GET /api/v1/medications/:id
func (h *MedicationHandler) GetByID(c *gin.Context) {
	medicationID, ok := h.base.ParseIDParam(c, "id")
	if !ok {
		return
	}

	detail, err := h.medications.GetByID(c.Request.Context(), medicationID)
	if err != nil {
		h.base.Error(c, err)
		return
	}

	h.base.OK(c, dto.FromDetail(detail))
}

// ListByLocation returns the medications stocked at the employee's own
// location, taken from the authenticated user context.
// GET /api/v1/medications/by-location
func (h *MedicationHandler) ListByLocation(c *gin.Context) {
	locationID, err := id.Parse(appctx.GetLocationID(c.Request.Context()))
	if err != nil {
		h.base.Error(c, apperror.NewForbidden("no location assigned"))
		return
	}

	cards, err := h.medications.ListByLocation(c.Request.Context(), locationID)
	if err != nil {
		h.base.Error(c, err)
		return
	}

	h.base.OK(c, dto.FromCards(cards))
}

// ListFavorites returns the authenticated user's favorited medications.
// GET /api/v1/medications/favorites
func (h *MedicationHandler) ListFavorites(c *gin.Context) {
	userID, ok := h.base.GetUserID(c)
	if !ok {
		return
	}

	cards, err := h.medications.ListFavorites(c.Request.Context(), userID)
	if err != nil {
		h.base.Error(c, err)
		return
	}

	h.base.OK(c, dto.FromCards(cards))
}

// AddFavorite marks a medication as favorite for the authenticated user.
// POST /api/v1/medications/:id/favorite
func (h *MedicationHandler) AddFavorite(c *gin.Context) {
	userID, ok := h.base.GetUserID(c)
	if !ok {
		return
	}
	medicationID, ok := h.base.ParseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.medications.AddFavorite(c.Request.Context(), userID, medicationID); err != nil {
		h.base.Error(c, err)
		return
	}

	h.base.NoContent(c)
}

// UploadCatalog ingests a medication catalog file. Admin only.
// POST /api/v1/medications/upload
func (h *MedicationHandler) UploadCatalog(c *gin.Context) {
	file, ok := h.base.OpenUpload(c, "file")
	if !ok {
		return
	}
	defer file.Close()

	created, err := h.stock.IngestCatalog(c.Request.Context(), file)
	if err != nil {
		h.base.Error(c, err)
		return
	}

	h.base.OK(c, dto.UploadResponse{Processed: created})
}

// UploadStock ingests a stock count file for the employee's location.
// POST /api/v1/medications/stock-upload
func (h *MedicationHandler) UploadStock(c *gin.Context) {
	employeeID, ok := h.base.GetUserID(c)
	if !ok {
		return
	}

	locationID, err := id.Parse(appctx.GetLocationID(c.Request.Context()))
	if err != nil {
		h.base.Error(c, apperror.NewForbidden("no location assigned"))
		return
	}

	file, ok := h.base.OpenUpload(c, "file")
	if !ok {
		return
	}
	defer file.Close()

	applied, err := h.stock.ApplyStockUpdate(c.Request.Context(), locationID, employeeID, file)
	if err != nil {
		h.base.Error(c, err)
		return
	}

	h.base.OK(c, dto.UploadResponse{Processed: applied})
}
