package repository

import (
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"consignment-reconciliation-backend/internal/domain"
	"consignment-reconciliation-backend/internal/models"
)

type PaymentRulesRepository struct {
	db *gorm.DB
}

func NewPaymentRulesRepository(db *gorm.DB) *PaymentRulesRepository {
	return &PaymentRulesRepository{db: db}
}

// Create stores a new rule version. Duplicate version names are ignored.
func (r *PaymentRulesRepository) Create(rules domain.PaymentRules) error {
	row := models.RulesFromDomain(rules)
	return r.db.Clauses(clause.OnConflict{DoNothing: true}).Create(&row).Error
}

// All returns every stored rule version.
func (r *PaymentRulesRepository) All() ([]domain.PaymentRules, error) {
	var rows []models.PaymentRules
	if err := r.db.Order("created_at ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]domain.PaymentRules, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.ToDomain())
	}
	return out, nil
}

// ActiveForDate selects the version covering a date, most recently created
// winning on overlap.
func (r *PaymentRulesRepository) ActiveForDate(date time.Time) (domain.PaymentRules, error) {
	versions, err := r.All()
	if err != nil {
		return domain.PaymentRules{}, err
	}
	return domain.ActiveVersion(versions, date)
}
