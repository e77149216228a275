package analysis

import (
	"time"

	"github.com/google/uuid"

	"consignment-reconciliation-backend/internal/domain"
)

// AnalysisStore is the persistence boundary the pipeline needs.
type AnalysisStore interface {
	Save(a domain.Analysis) error
	GetByID(id uuid.UUID) (domain.Analysis, error)
	ListByOwner(ownerID string) ([]domain.Analysis, error)
	FindByFingerprint(ownerID, fp string) (domain.Analysis, bool, error)
	Delete(id uuid.UUID) error
}

// RulesStore resolves the active payment rule version for a date.
type RulesStore interface {
	ActiveForDate(date time.Time) (domain.PaymentRules, error)
}
