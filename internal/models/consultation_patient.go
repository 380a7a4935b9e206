package models

import (
	"time"

	"github.com/google/uuid"
)

// ConsultationPatient links one consultation to one patient. The pair is the
// identity of the row and survives any number of remove / re-add cycles.
type ConsultationPatient struct {
	ConsultationID uuid.UUID `gorm:"type:uuid;primaryKey" json:"consultation_id"`
	PatientID      uuid.UUID `gorm:"type:uuid;primaryKey;index" json:"patient_id"`

	Patient Patient `gorm:"foreignKey:PatientID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT;" json:"-"`

	IsPaid bool  `gorm:"not null;default:false" json:"is_paid"`
	State  State `gorm:"size:10;not null;default:'active'" json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (ConsultationPatient) TableName() string {
	return "consultation_patients"
}

// Activate brings the association back with an explicit paid flag; the value
// held before removal is never carried over.
func (cp *ConsultationPatient) Activate(isPaid bool) {
	cp.State = StateActive
	cp.IsPaid = isPaid
}

func (cp *ConsultationPatient) Deactivate() {
	cp.State = StateInactive
}

// MarkPaid only moves the flag forward.
func (cp *ConsultationPatient) MarkPaid() {
	cp.IsPaid = true
}
