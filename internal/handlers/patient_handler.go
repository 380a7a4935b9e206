package handlers

import (
	"encoding/json"

	"github.com/gin-gonic/gin"

	domain "github.com/wandyflor/TheraKairos-MartinoAndrea/internal/domain/patient"
	"github.com/wandyflor/TheraKairos-MartinoAndrea/internal/httperr"
	"github.com/wandyflor/TheraKairos-MartinoAndrea/internal/httpresp"
	ucPatient "github.com/wandyflor/TheraKairos-MartinoAndrea/internal/usecase/patient"
)

type PatientHandler struct {
	createUC      *ucPatient.CreatePatient
	updateUC      *ucPatient.UpdatePatient
	deleteUC      *ucPatient.DeletePatient
	getUC         *ucPatient.GetPatient
	listUC        *ucPatient.ListPatients
	setPhotoUC    *ucPatient.SetPatientPhoto
	removePhotoUC *ucPatient.RemovePatientPhoto
}

func NewPatientHandler(
	createUC *ucPatient.CreatePatient,
	updateUC *ucPatient.UpdatePatient,
	deleteUC *ucPatient.DeletePatient,
	getUC *ucPatient.GetPatient,
	listUC *ucPatient.ListPatients,
	setPhotoUC *ucPatient.SetPatientPhoto,
	removePhotoUC *ucPatient.RemovePatientPhoto,
) *PatientHandler {
	return &PatientHandler{
		createUC:      createUC,
		updateUC:      updateUC,
		deleteUC:      deleteUC,
		getUC:         getUC,
		listUC:        listUC,
		setPhotoUC:    setPhotoUC,
		removePhotoUC: removePhotoUC,
	}
}

type PatientRequest struct {
	DNI               string      `json:"dni"`
	Name              string      `json:"name"`
	LastName          string      `json:"last_name"`
	BirthDate         string      `json:"birth_date"`
	Occupation        string      `json:"occupation"`
	Phone             string      `json:"phone"`
	Email             string      `json:"email"`
	CityID            string      `json:"city_id"`
	Address           string      `json:"address"`
	AddressNumber     json.Number `json:"address_number"`
	AddressFloor      json.Number `json:"address_floor"`
	AddressDepartment string      `json:"address_department"`
}

func (r PatientRequest) toInput() domain.Input {
	return domain.Input{
		DNI:               r.DNI,
		Name:              r.Name,
		LastName:          r.LastName,
		BirthDate:         r.BirthDate,
		Occupation:        r.Occupation,
		Phone:             r.Phone,
		Email:             r.Email,
		CityID:            r.CityID,
		Address:           r.Address,
		AddressNumber:     r.AddressNumber.String(),
		AddressFloor:      r.AddressFloor.String(),
		AddressDepartment: r.AddressDepartment,
	}
}

func (h *PatientHandler) Create(c *gin.Context) {
	var req PatientRequest
	if !bindJSON(c, &req) {
		return
	}

	view, err := h.createUC.Execute(c.Request.Context(), req.toInput())
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.Created(c, "/api/patients/"+view.ID.String(), view)
}

func (h *PatientHandler) Update(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	var req PatientRequest
	if !bindJSON(c, &req) {
		return
	}

	view, err := h.updateUC.Execute(c.Request.Context(), id, req.toInput())
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.OK(c, view)
}

func (h *PatientHandler) Delete(c *gin.Context) {
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

func (h *PatientHandler) Get(c *gin.Context) {
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

func (h *PatientHandler) List(c *gin.Context) {
	views, err := h.listUC.Execute(c.Request.Context())
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.List(c, views)
}

// ======================================================
// PHOTO (multipart field "photo")
// ======================================================

func (h *PatientHandler) SetPhoto(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	fh, err := c.FormFile("photo")
	if err != nil {
		httperr.BadRequest(c, "photo_required", "A photo file is required.")
		return
	}

	f, err := fh.Open()
	if err != nil {
		httperr.Respond(c, httperr.IO("photo_read_failed", "The photo could not be read.", err))
		return
	}
	defer f.Close()

	view, err := h.setPhotoUC.Execute(c.Request.Context(), id, f)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.OK(c, view)
}

func (h *PatientHandler) RemovePhoto(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	if err := h.removePhotoUC.Execute(c.Request.Context(), id); err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.NoContent(c)
}
