package models

import (
	"time"

	"github.com/google/uuid"
)

// Consultation is one slot in the therapist's book. Date and times are kept
// in their canonical text forms (2006-01-02, 15:04) so they sort and compare
// lexically in any SQL dialect.
type Consultation struct {
	ID uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`

	Date      string `gorm:"type:char(10);not null;uniqueIndex:uk_consultation_slot,priority:1,where:state = 'active'" json:"date"`
	StartTime string `gorm:"type:char(5);not null;uniqueIndex:uk_consultation_slot,priority:2" json:"start_time"`
	EndTime   string `gorm:"type:char(5);not null" json:"end_time"`

	Amount float64 `gorm:"type:decimal(10,2);not null" json:"amount"`
	Status string  `gorm:"size:20;not null;default:'SCHEDULED'" json:"status"`
	State  State   `gorm:"size:10;not null;default:'active';index" json:"-"`

	Patients []ConsultationPatient `gorm:"foreignKey:ConsultationID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT;" json:"patients,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
