package handler

import (
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"consignment-reconciliation-backend/internal/domain"
	"consignment-reconciliation-backend/internal/export"
	service "consignment-reconciliation-backend/internal/services/analysis"
	"consignment-reconciliation-backend/internal/services/merge"
)

type AnalysisHandler struct {
	service *service.Service
}

func NewAnalysisHandler(s *service.Service) *AnalysisHandler {
	return &AnalysisHandler{service: s}
}

// Upload accepts a multipart batch of runsheet/invoice documents and starts
// the reconciliation pipeline in the background.
func (h *AnalysisHandler) Upload(c *gin.Context) {
	form, err := c.MultipartForm()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "multipart form required"})
		return
	}
	fileHeaders := form.File["files"]
	if len(fileHeaders) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "at least one file required"})
		return
	}

	ownerID := c.PostForm("owner_id")
	if ownerID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "owner_id required"})
		return
	}

	strategy, err := merge.ParseStrategy(c.PostForm("merge_strategy"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	req := service.SubmissionRequest{
		OwnerID:  ownerID,
		Strategy: strategy,
	}

	if idStr := c.PostForm("analysis_id"); idStr != "" {
		id, err := uuid.Parse(idStr)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid analysis ID"})
			return
		}
		req.AnalysisID = &id
	} else {
		period, err := parsePeriod(c.PostForm("period_start"), c.PostForm("period_end"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid period, expected period_start/period_end as yyyy-mm-dd"})
			return
		}
		req.Period = period
	}

	for _, fh := range fileHeaders {
		f, err := fh.Open()
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "cannot read file " + fh.Filename})
			return
		}
		content, err := io.ReadAll(f)
		f.Close()
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "cannot read file " + fh.Filename})
			return
		}

		lastModified := time.Time{}
		if v := fh.Header.Get("Last-Modified"); v != "" {
			if t, err := http.ParseTime(v); err == nil {
				lastModified = t
			}
		}
		req.Files = append(req.Files, service.UploadedFile{
			Name:         fh.Filename,
			Size:         fh.Size,
			LastModified: lastModified,
			Content:      content,
		})
	}

	result, err := h.service.Submit(req)
	if err != nil {
		var dup *service.DuplicateError
		if errors.As(err, &dup) {
			c.JSON(http.StatusConflict, gin.H{
				"error":               "duplicate submission",
				"existing_analysis":   dup.AnalysisID.String(),
				"originally_uploaded": dup.CreatedAt.Format("2006-01-02"),
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusAccepted, gin.H{
		"submission_id": result.SubmissionID.String(),
		"analysis_id":   result.AnalysisID.String(),
		"status":        "processing",
	})
}

// GetAnalysis returns one serialized analysis.
func (h *AnalysisHandler) GetAnalysis(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid analysis ID"})
		return
	}
	a, err := h.service.Get(id)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "analysis not found"})
		return
	}
	c.JSON(http.StatusOK, export.Serialize(a))
}

// ListAnalyses returns all analyses for an owner.
func (h *AnalysisHandler) ListAnalyses(c *gin.Context) {
	ownerID := c.Query("owner_id")
	if ownerID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "owner_id required"})
		return
	}
	analyses, err := h.service.ListByOwner(ownerID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	items := make([]export.SerializedAnalysis, 0, len(analyses))
	for _, a := range analyses {
		items = append(items, export.Serialize(a))
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}

// DeleteAnalysis removes an analysis and all of its entries.
func (h *AnalysisHandler) DeleteAnalysis(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid analysis ID"})
		return
	}
	if err := h.service.Delete(id); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "analysis deleted"})
}

// CreateManualAnalysis creates an empty analysis for hand-keyed entries.
func (h *AnalysisHandler) CreateManualAnalysis(c *gin.Context) {
	var payload struct {
		OwnerID     string `json:"owner_id"`
		PeriodStart string `json:"period_start"`
		PeriodEnd   string `json:"period_end"`
	}
	if err := c.BindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}
	if payload.OwnerID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "owner_id required"})
		return
	}
	period, err := parsePeriod(payload.PeriodStart, payload.PeriodEnd)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid period, expected yyyy-mm-dd"})
		return
	}

	a, err := h.service.CreateManual(payload.OwnerID, period)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, export.Serialize(a))
}

// AddEntry keys one day's figures into an analysis by hand.
func (h *AnalysisHandler) AddEntry(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid analysis ID"})
		return
	}

	var payload struct {
		Date         string `json:"date"`
		Consignments int    `json:"consignments"`
		PaidAmount   string `json:"paid_amount"`
		Pickups      int    `json:"pickups"`
	}
	if err := c.BindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}

	date, err := time.Parse("2006-01-02", payload.Date)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid date, expected yyyy-mm-dd"})
		return
	}
	paid := domain.Zero()
	if payload.PaidAmount != "" {
		paid, err = domain.MoneyFromString(payload.PaidAmount)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid paid_amount"})
			return
		}
	}

	a, err := h.service.AddManualEntry(id, date, payload.Consignments, paid, payload.Pickups)
	if err != nil {
		if errors.Is(err, domain.ErrDateOutsidePeriod) || errors.Is(err, domain.ErrNegativeCount) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, export.Serialize(a))
}

// GetProgress returns the tracker snapshot for a submission.
func (h *AnalysisHandler) GetProgress(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid submission ID"})
		return
	}
	snap, ok := h.service.Progress(id)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "submission not found"})
		return
	}
	c.JSON(http.StatusOK, snap)
}

func parsePeriod(startStr, endStr string) (domain.DateRange, error) {
	start, err := time.Parse("2006-01-02", startStr)
	if err != nil {
		return domain.DateRange{}, err
	}
	end, err := time.Parse("2006-01-02", endStr)
	if err != nil {
		return domain.DateRange{}, err
	}
	return domain.NewDateRange(start, end)
}
