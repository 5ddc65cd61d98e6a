package model

import (
	"time"

	"github.com/google/uuid"
)

// Export is the metadata row for one produced CSV artifact. The CSV text
// itself is never stored; it only exists for the download.
type Export struct {
	ID          uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	UserID      uuid.UUID `gorm:"type:uuid;not null;index:idx_exports_user_ts,priority:1" json:"user_id"`
	Query       string    `gorm:"type:text;not null" json:"query"`
	Filename    string    `gorm:"type:varchar(300);not null" json:"filename"`
	RecordCount int       `gorm:"not null" json:"record_count"`
	Timestamp   time.Time `gorm:"default:CURRENT_TIMESTAMP;index:idx_exports_user_ts,priority:2" json:"timestamp"`
}

func (Export) TableName() string { return "exports" }
