package implementation

import (
	"context"

	"leadgen-suite-be/internal/model"
	"leadgen-suite-be/internal/repository/contract"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type LeadRepositoryImpl struct {
	db *gorm.DB
}

func NewLeadRepository(db *gorm.DB) contract.LeadRepository {
	return &LeadRepositoryImpl{db: db}
}

func (r *LeadRepositoryImpl) CreateBulk(ctx context.Context, leads []*model.Lead) error {
	if len(leads) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).CreateInBatches(leads, 100).Error
}

func (r *LeadRepositoryImpl) ListBySearch(ctx context.Context, searchID uuid.UUID) ([]model.Lead, error) {
	var leads []model.Lead
	err := r.db.WithContext(ctx).
		Where("search_id = ?", searchID).
		Order("created_at ASC").
		Find(&leads).Error
	return leads, err
}
