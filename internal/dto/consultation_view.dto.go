package dto

import (
	"github.com/google/uuid"

	"github.com/wandyflor/TheraKairos-MartinoAndrea/internal/models"
)

type ConsultationPatientView struct {
	PatientID uuid.UUID `json:"patient_id"`
	IsPaid    bool      `json:"is_paid"`
}

// ConsultationView is what readers of a consultation get back. Patients
// lists only active associations.
type ConsultationView struct {
	ID        uuid.UUID                 `json:"id"`
	Date      string                    `json:"date"`
	StartTime string                    `json:"start_time"`
	EndTime   string                    `json:"end_time"`
	Amount    float64                   `json:"amount"`
	Status    string                    `json:"status"`
	Patients  []ConsultationPatientView `json:"patients"`
}

func NewConsultationView(c *models.Consultation) ConsultationView {
	v := ConsultationView{
		ID:        c.ID,
		Date:      c.Date,
		StartTime: c.StartTime,
		EndTime:   c.EndTime,
		Amount:    c.Amount,
		Status:    c.Status,
		Patients:  make([]ConsultationPatientView, 0, len(c.Patients)),
	}

	for _, cp := range c.Patients {
		if !cp.State.IsActive() {
			continue
		}
		v.Patients = append(v.Patients, ConsultationPatientView{
			PatientID: cp.PatientID,
			IsPaid:    cp.IsPaid,
		})
	}
	return v
}

func NewConsultationViews(list []models.Consultation) []ConsultationView {
	out := make([]ConsultationView, 0, len(list))
	for i := range list {
		out = append(out, NewConsultationView(&list[i]))
	}
	return out
}
