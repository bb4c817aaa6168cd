package entities

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// PublishLog keeps one row per destination outcome of a batch.
type PublishLog struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey"`
	BatchKey      string    `gorm:"type:varchar(255);index;not null"`
	OwnerID       string    `gorm:"type:varchar(64);not null"`
	DestinationID string    `gorm:"type:varchar(128);not null"`
	Kind          string    `gorm:"type:varchar(20);not null"`
	Success       bool      `gorm:"not null"`
	PostID        string    `gorm:"type:varchar(128)"`
	ErrorCode     string    `gorm:"type:varchar(64)"`
	ErrorMessage  string    `gorm:"type:text"`
	CreatedAt     time.Time
}

func (l *PublishLog) BeforeCreate(tx *gorm.DB) (err error) {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	return
}
