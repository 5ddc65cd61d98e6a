package model

import (
	"time"

	"github.com/google/uuid"
)

const (
	SearchStatusCompleted = "completed"
	SearchStatusFailed    = "failed"
)

// SearchHistory is one append-only row per finished search. Failed runs
// are recorded too, with a zero result count.
type SearchHistory struct {
	ID          uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	UserID      uuid.UUID `gorm:"type:uuid;not null;index:idx_search_history_user_ts,priority:1" json:"user_id"`
	Query       string    `gorm:"type:text;not null" json:"query"`
	Location    string    `gorm:"type:varchar(200)" json:"location,omitempty"`
	Source      string    `gorm:"type:varchar(50)" json:"source"`
	ResultCount int       `gorm:"not null;default:0" json:"result_count"`
	Status      string    `gorm:"type:varchar(20);not null;default:completed" json:"status"`
	Timestamp   time.Time `gorm:"default:CURRENT_TIMESTAMP;index:idx_search_history_user_ts,priority:2" json:"timestamp"`
}

func (SearchHistory) TableName() string { return "search_history" }
