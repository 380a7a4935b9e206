package handlers

import (
	"encoding/json"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	domain "github.com/wandyflor/TheraKairos-MartinoAndrea/internal/domain/consultation"
	"github.com/wandyflor/TheraKairos-MartinoAndrea/internal/httperr"
	"github.com/wandyflor/TheraKairos-MartinoAndrea/internal/httpresp"
	ucConsultation "github.com/wandyflor/TheraKairos-MartinoAndrea/internal/usecase/consultation"
)

// ======================================================
// HANDLER
// ======================================================

type ConsultationHandler struct {
	insertUC *ucConsultation.InsertConsultation
	updateUC *ucConsultation.UpdateConsultation
	deleteUC *ucConsultation.DeleteConsultation
	getUC    *ucConsultation.GetConsultation
	byDateUC *ucConsultation.ListConsultationsByDate
	notesUC  *ucConsultation.OpenNotes
}

func NewConsultationHandler(
	insertUC *ucConsultation.InsertConsultation,
	updateUC *ucConsultation.UpdateConsultation,
	deleteUC *ucConsultation.DeleteConsultation,
	getUC *ucConsultation.GetConsultation,
	byDateUC *ucConsultation.ListConsultationsByDate,
	notesUC *ucConsultation.OpenNotes,
) *ConsultationHandler {
	return &ConsultationHandler{
		insertUC: insertUC,
		updateUC: updateUC,
		deleteUC: deleteUC,
		getUC:    getUC,
		byDateUC: byDateUC,
		notesUC:  notesUC,
	}
}

// ======================================================
// REQUESTS
// ======================================================

type ConsultationPatientRequest struct {
	PatientID string `json:"patient_id"`
	IsPaid    bool   `json:"is_paid"`
}

// Amount accepts a JSON number or a numeric string; its textual form is
// what the validator checks.
type ConsultationRequest struct {
	Date      string                       `json:"date"`
	StartTime string                       `json:"start_time"`
	EndTime   string                       `json:"end_time"`
	Amount    json.Number                  `json:"amount"`
	Status    string                       `json:"status"`
	Patients  []ConsultationPatientRequest `json:"patients"`
}

func (r ConsultationRequest) toInput() (ucConsultation.ConsultationInput, error) {
	in := ucConsultation.ConsultationInput{
		Input: domain.Input{
			Date:      r.Date,
			StartTime: r.StartTime,
			EndTime:   r.EndTime,
			Amount:    r.Amount.String(),
			Status:    r.Status,
		},
		Patients: make([]domain.DesiredPatient, 0, len(r.Patients)),
	}

	for _, p := range r.Patients {
		id, err := uuid.Parse(p.PatientID)
		if err != nil {
			return in, httperr.Validation("invalid_patient_id", "Every patient must have a valid identifier.")
		}
		in.Patients = append(in.Patients, domain.DesiredPatient{
			PatientID: id,
			IsPaid:    p.IsPaid,
		})
	}
	return in, nil
}

func consultationLocation(id uuid.UUID) string {
	return "/api/consultations/" + id.String()
}

// ======================================================
// CREATE
// ======================================================

func (h *ConsultationHandler) Create(c *gin.Context) {
	var req ConsultationRequest
	if !bindJSON(c, &req) {
		return
	}

	in, err := req.toInput()
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	view, err := h.insertUC.Execute(c.Request.Context(), in)
	if err != nil {
		// the record exists when only the notes failed
		if view != nil {
			c.Header("Location", consultationLocation(view.ID))
		}
		httperr.Respond(c, err)
		return
	}

	httpresp.Created(c, consultationLocation(view.ID), view)
}

// ======================================================
// UPDATE
// ======================================================

func (h *ConsultationHandler) Update(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	var req ConsultationRequest
	if !bindJSON(c, &req) {
		return
	}

	in, err := req.toInput()
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	view, err := h.updateUC.Execute(c.Request.Context(), id, in)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.OK(c, view)
}

// ======================================================
// DELETE
// ======================================================

func (h *ConsultationHandler) Delete(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	if err := h.deleteUC.Execute(c.Request.Context(), id); err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.NoContent(c)
}

// ======================================================
// READ
// ======================================================

func (h *ConsultationHandler) Get(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	view, err := h.getUC.Execute(c.Request.Context(), id)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.OK(c, view)
}

func (h *ConsultationHandler) ListByDate(c *gin.Context) {
	date := c.Query("date")
	if date == "" {
		httperr.BadRequest(c, "date_required", "The date query parameter is required.")
		return
	}

	views, err := h.byDateUC.Execute(c.Request.Context(), date)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.List(c, views)
}

func (h *ConsultationHandler) OpenNotes(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	location, err := h.notesUC.Execute(c.Request.Context(), id)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.OK(c, gin.H{"location": location})
}
