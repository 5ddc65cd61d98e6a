package implementation

import (
	"context"

	"leadgen-suite-be/internal/model"
	"leadgen-suite-be/internal/repository/contract"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ExportRepositoryImpl struct {
	db *gorm.DB
}

func NewExportRepository(db *gorm.DB) contract.ExportRepository {
	return &ExportRepositoryImpl{db: db}
}

func (r *ExportRepositoryImpl) Create(ctx context.Context, row *model.Export) error {
	return r.db.WithContext(ctx).Create(row).Error
}

func (r *ExportRepositoryImpl) ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]model.Export, int64, error) {
	var rows []model.Export
	var total int64

	db := r.db.WithContext(ctx).Model(&model.Export{}).Where("user_id = ?", userID)

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := db.Order("timestamp DESC").
		Limit(limit).
		Offset(offset).
		Find(&rows).Error

	return rows, total, err
}
