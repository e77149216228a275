package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"consignment-reconciliation-backend/internal/domain"
	"consignment-reconciliation-backend/internal/repository"
)

type RulesHandler struct {
	repo *repository.PaymentRulesRepository
}

func NewRulesHandler(repo *repository.PaymentRulesRepository) *RulesHandler {
	return &RulesHandler{repo: repo}
}

type rulesPayload struct {
	Version         string `json:"version"`
	WeekdayRate     string `json:"weekday_rate"`
	SaturdayRate    string `json:"saturday_rate"`
	UnloadingBonus  string `json:"unloading_bonus"`
	AttendanceBonus string `json:"attendance_bonus"`
	EarlyBonus      string `json:"early_bonus"`
	PickupRate      string `json:"pickup_rate"`
	ValidFrom       string `json:"valid_from"`
	ValidTo         string `json:"valid_to"`
}

// CreateRules stores a new payment rule version.
func (h *RulesHandler) CreateRules(c *gin.Context) {
	var payload rulesPayload
	if err := c.BindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}
	if payload.Version == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "version required"})
		return
	}

	rules := domain.PaymentRules{Version: payload.Version, CreatedAt: time.Now().UTC()}
	var err error
	amounts := []struct {
		value string
		dst   *domain.Money
	}{
		{payload.WeekdayRate, &rules.WeekdayRate},
		{payload.SaturdayRate, &rules.SaturdayRate},
		{payload.UnloadingBonus, &rules.UnloadingBonus},
		{payload.AttendanceBonus, &rules.AttendanceBonus},
		{payload.EarlyBonus, &rules.EarlyBonus},
		{payload.PickupRate, &rules.PickupRate},
	}
	for _, a := range amounts {
		if a.value == "" {
			continue
		}
		if *a.dst, err = domain.MoneyFromString(a.value); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid amount " + a.value})
			return
		}
		if a.dst.IsNegative() {
			c.JSON(http.StatusBadRequest, gin.H{"error": "negative amount " + a.value})
			return
		}
	}

	if rules.ValidFrom, err = time.Parse("2006-01-02", payload.ValidFrom); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid valid_from, expected yyyy-mm-dd"})
		return
	}
	if rules.ValidTo, err = time.Parse("2006-01-02", payload.ValidTo); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid valid_to, expected yyyy-mm-dd"})
		return
	}

	if err := h.repo.Create(rules); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "rules version created", "version": rules.Version})
}

// GetActiveRules returns the rule version covering a date.
func (h *RulesHandler) GetActiveRules(c *gin.Context) {
	dateStr := c.Query("date")
	date := time.Now().UTC()
	if dateStr != "" {
		var err error
		if date, err = time.Parse("2006-01-02", dateStr); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid date, expected yyyy-mm-dd"})
			return
		}
	}

	rules, err := h.repo.ActiveForDate(date)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "no active rules for date"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"version":          rules.Version,
		"weekday_rate":     rules.WeekdayRate.String(),
		"saturday_rate":    rules.SaturdayRate.String(),
		"unloading_bonus":  rules.UnloadingBonus.String(),
		"attendance_bonus": rules.AttendanceBonus.String(),
		"early_bonus":      rules.EarlyBonus.String(),
		"pickup_rate":      rules.PickupRate.String(),
		"valid_from":       rules.ValidFrom.Format("2006-01-02"),
		"valid_to":         rules.ValidTo.Format("2006-01-02"),
	})
}
