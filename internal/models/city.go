package models

import (
	"time"

	"github.com/google/uuid"
)

type City struct {
	ID      uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name    string    `gorm:"size:100;not null;uniqueIndex:uk_city_name" json:"name"`
	ZIPCode string    `gorm:"size:10;not null" json:"zip_code"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
