package implementation

import (
	"context"

	"leadgen-suite-be/internal/model"
	"leadgen-suite-be/internal/repository/contract"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type EmailHistoryRepositoryImpl struct {
	db *gorm.DB
}

func NewEmailHistoryRepository(db *gorm.DB) contract.EmailHistoryRepository {
	return &EmailHistoryRepositoryImpl{db: db}
}

func (r *EmailHistoryRepositoryImpl) Create(ctx context.Context, row *model.EmailHistory) error {
	return r.db.WithContext(ctx).Create(row).Error
}

func (r *EmailHistoryRepositoryImpl) ListRecentByUser(ctx context.Context, userID uuid.UUID, limit int) ([]model.EmailHistory, error) {
	var rows []model.EmailHistory
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("timestamp DESC").
		Limit(limit).
		Find(&rows).Error
	return rows, err
}
