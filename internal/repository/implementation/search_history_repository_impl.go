package implementation

import (
	"context"

	"leadgen-suite-be/internal/model"
	"leadgen-suite-be/internal/repository/contract"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type SearchHistoryRepositoryImpl struct {
	db *gorm.DB
}

func NewSearchHistoryRepository(db *gorm.DB) contract.SearchHistoryRepository {
	return &SearchHistoryRepositoryImpl{db: db}
}

func (r *SearchHistoryRepositoryImpl) Create(ctx context.Context, row *model.SearchHistory) error {
	return r.db.WithContext(ctx).Create(row).Error
}

func (r *SearchHistoryRepositoryImpl) ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]model.SearchHistory, int64, error) {
	var rows []model.SearchHistory
	var total int64

	db := r.db.WithContext(ctx).Model(&model.SearchHistory{}).Where("user_id = ?", userID)

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := db.Order("timestamp DESC").
		Limit(limit).
		Offset(offset).
		Find(&rows).Error

	return rows, total, err
}
