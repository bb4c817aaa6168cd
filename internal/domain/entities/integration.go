package entities

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Integration binds an internal integration id to a Meta account and token.
type Integration struct {
	ID                 uuid.UUID `gorm:"type:uuid;primaryKey"`
	OwnerID            string    `gorm:"type:varchar(64);index;not null"`
	Provider           string    `gorm:"type:varchar(32);not null"`
	InstagramAccountID string    `gorm:"type:varchar(64)"`
	FacebookPageID     string    `gorm:"type:varchar(64)"`
	AccessToken        string    `gorm:"type:text;not null"`
	Active             bool      `gorm:"not null;default:true"`
	CreatedAt          time.Time
	UpdatedAt          time.Time
	DeletedAt          gorm.DeletedAt `gorm:"index"`
}

func (i *Integration) BeforeCreate(tx *gorm.DB) (err error) {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return
}
