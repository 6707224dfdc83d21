package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Request is a free-text feedback submission: a city to cover, a name
// suggestion, or a general idea.
type Request struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Type      string    `gorm:"size:10;not null" json:"type"`
	Message   string    `gorm:"size:500;not null" json:"message"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (r *Request) BeforeCreate(tx *gorm.DB) (err error) {
	if r.ID == uuid.Nil {
		r.ID, err = uuid.NewV7()
	}
	return
}
