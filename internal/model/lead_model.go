package model

import (
	"time"

	"github.com/google/uuid"
)

// Lead persists one normalized result record for later retrieval. Both
// record shapes land in this table; the Kind column mirrors the in-memory
// discriminator and the place-only columns stay NULL for contact rows.
type Lead struct {
	ID       uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	UserID   uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`
	SearchID uuid.UUID `gorm:"type:uuid;index" json:"search_id"`
	Kind     string    `gorm:"type:varchar(10);not null" json:"kind"`

	Name     string `gorm:"type:varchar(200)" json:"name"`
	Title    string `gorm:"type:varchar(200)" json:"title"`
	Company  string `gorm:"type:varchar(200)" json:"company"`
	Email    string `gorm:"type:varchar(200)" json:"email"`
	Phone    string `gorm:"type:varchar(50)" json:"phone"`
	Source   string `gorm:"type:varchar(100)" json:"source"`
	Location string `gorm:"type:varchar(200)" json:"location"`

	Address     string   `gorm:"type:text" json:"address,omitempty"`
	Website     string   `gorm:"type:text" json:"website,omitempty"`
	Rating      *float64 `json:"rating,omitempty"`
	RatingCount *int     `json:"rating_count,omitempty"`
	Category    string   `gorm:"type:varchar(200)" json:"category,omitempty"`

	CreatedAt time.Time `gorm:"default:CURRENT_TIMESTAMP" json:"created_at"`
}

func (Lead) TableName() string { return "leads" }
