package model

import (
	"time"

	"github.com/google/uuid"
)

const (
	EmailStatusDelivered = "delivered"
	EmailStatusFailed    = "failed"
)

// EmailHistory records one report-delivery attempt, success or failure.
// The notification feed merges the most recent of these rows.
type EmailHistory struct {
	ID        uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;index:idx_email_history_user_ts,priority:1" json:"user_id"`
	Recipient string    `gorm:"type:varchar(200);not null" json:"recipient"`
	Subject   string    `gorm:"type:varchar(300)" json:"subject"`
	Query     string    `gorm:"type:text" json:"query"`
	Status    string    `gorm:"type:varchar(20);not null" json:"status"`
	Detail    string    `gorm:"type:text" json:"detail,omitempty"`
	Timestamp time.Time `gorm:"default:CURRENT_TIMESTAMP;index:idx_email_history_user_ts,priority:2" json:"timestamp"`
}

func (EmailHistory) TableName() string { return "email_history" }
