package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"consignment-reconciliation-backend/internal/domain"
	"consignment-reconciliation-backend/internal/export"
	service "consignment-reconciliation-backend/internal/services/analysis"
)

type ExportHandler struct {
	service *service.Service
}

func NewExportHandler(s *service.Service) *ExportHandler {
	return &ExportHandler{service: s}
}

func (h *ExportHandler) ExportCSV(c *gin.Context) {
	a, ok := h.load(c)
	if !ok {
		return
	}
	c.Header("Content-Disposition", `attachment; filename="analysis-`+a.ID.String()+`.csv"`)
	c.Data(http.StatusOK, "text/csv", export.ToCSV(a))
}

func (h *ExportHandler) ExportJSON(c *gin.Context) {
	a, ok := h.load(c)
	if !ok {
		return
	}
	data, err := export.ToJSON(a)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.Header("Content-Disposition", `attachment; filename="analysis-`+a.ID.String()+`.json"`)
	c.Data(http.StatusOK, "application/json", data)
}

func (h *ExportHandler) ExportXLSX(c *gin.Context) {
	a, ok := h.load(c)
	if !ok {
		return
	}
	data, err := export.ToXLSX(a)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.Header("Content-Disposition", `attachment; filename="analysis-`+a.ID.String()+`.xlsx"`)
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", data)
}

func (h *ExportHandler) ExportPDF(c *gin.Context) {
	a, ok := h.load(c)
	if !ok {
		return
	}
	data, err := export.ToPDF(a)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.Header("Content-Disposition", `attachment; filename="analysis-`+a.ID.String()+`.pdf"`)
	c.Data(http.StatusOK, "application/pdf", data)
}

func (h *ExportHandler) load(c *gin.Context) (domain.Analysis, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid analysis ID"})
		return domain.Analysis{}, false
	}
	a, err := h.service.Get(id)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "analysis not found"})
		return domain.Analysis{}, false
	}
	return a, true
}
