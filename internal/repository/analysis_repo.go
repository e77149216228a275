package repository

import (
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"consignment-reconciliation-backend/internal/domain"
	"consignment-reconciliation-backend/internal/models"
)

type AnalysisRepository struct {
	db *gorm.DB
}

func NewAnalysisRepository(db *gorm.DB) *AnalysisRepository {
	return &AnalysisRepository{db: db}
}

// Save persists an analysis snapshot and its full entry set in one
// transaction. Entries are replaced wholesale so stored rows can never
// disagree with the snapshot that produced them.
func (r *AnalysisRepository) Save(a domain.Analysis) error {
	row, entries := models.AnalysisFromDomain(a)

	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.OnConflict{UpdateAll: true}).Create(&row).Error; err != nil {
			return err
		}
		if err := tx.Where("analysis_id = ?", a.ID).Delete(&models.DailyEntry{}).Error; err != nil {
			return err
		}
		if len(entries) == 0 {
			return nil
		}
		return tx.Create(&entries).Error
	})
}

// GetByID loads a snapshot with its entries.
func (r *AnalysisRepository) GetByID(id uuid.UUID) (domain.Analysis, error) {
	var row models.Analysis
	if err := r.db.First(&row, "id = ?", id).Error; err != nil {
		return domain.Analysis{}, err
	}

	var entries []models.DailyEntry
	if err := r.db.Where("analysis_id = ?", id).Order("date ASC").Find(&entries).Error; err != nil {
		return domain.Analysis{}, err
	}
	return row.ToDomain(entries)
}

// ListByOwner returns all of an owner's analyses, newest first, entries
// included.
func (r *AnalysisRepository) ListByOwner(ownerID string) ([]domain.Analysis, error) {
	var rows []models.Analysis
	if err := r.db.Where("owner_id = ?", ownerID).Order("created_at DESC").Find(&rows).Error; err != nil {
		return nil, err
	}

	out := make([]domain.Analysis, 0, len(rows))
	for _, row := range rows {
		var entries []models.DailyEntry
		if err := r.db.Where("analysis_id = ?", row.ID).Order("date ASC").Find(&entries).Error; err != nil {
			return nil, err
		}
		a, err := row.ToDomain(entries)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, nil
}

// FindByFingerprint looks up an owner's analysis with the given file-set
// fingerprint.
func (r *AnalysisRepository) FindByFingerprint(ownerID, fp string) (domain.Analysis, bool, error) {
	var row models.Analysis
	err := r.db.First(&row, "owner_id = ? AND fingerprint = ?", ownerID, fp).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.Analysis{}, false, nil
	}
	if err != nil {
		return domain.Analysis{}, false, err
	}
	a, err := row.ToDomain(nil)
	if err != nil {
		return domain.Analysis{}, false, err
	}
	return a, true, nil
}

// Delete removes an analysis and cascades to its entries.
func (r *AnalysisRepository) Delete(id uuid.UUID) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("analysis_id = ?", id).Delete(&models.DailyEntry{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Analysis{}, "id = ?", id).Error
	})
}
