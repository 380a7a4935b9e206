package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"sort"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wandyflor/TheraKairos-MartinoAndrea/internal/httperr"
	"github.com/wandyflor/TheraKairos-MartinoAndrea/internal/models"
	ucCity "github.com/wandyflor/TheraKairos-MartinoAndrea/internal/usecase/city"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// ======================================================
// FAKES
// ======================================================

type memCities struct {
	rows map[uuid.UUID]models.City
}

func cityNotFound() error { return httperr.NotFoundErr("city_not_found", "City not found.") }

func (r *memCities) CreateCity(_ context.Context, c *models.City) error {
	r.rows[c.ID] = *c
	return nil
}

func (r *memCities) UpdateCity(_ context.Context, c *models.City) error {
	if _, ok := r.rows[c.ID]; !ok {
		return cityNotFound()
	}
	r.rows[c.ID] = *c
	return nil
}

func (r *memCities) DeleteCity(_ context.Context, id uuid.UUID) error {
	if _, ok := r.rows[id]; !ok {
		return cityNotFound()
	}
	delete(r.rows, id)
	return nil
}

func (r *memCities) GetCity(_ context.Context, id uuid.UUID) (*models.City, error) {
	c, ok := r.rows[id]
	if !ok {
		return nil, cityNotFound()
	}
	return &c, nil
}

func (r *memCities) ListCities(_ context.Context) ([]models.City, error) {
	out := make([]models.City, 0, len(r.rows))
	for _, c := range r.rows {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *memCities) NameTaken(_ context.Context, name string, excludeID *uuid.UUID) (bool, error) {
	for _, c := range r.rows {
		if c.Name == name && (excludeID == nil || c.ID != *excludeID) {
			return true, nil
		}
	}
	return false, nil
}

func cityRouter() *gin.Engine {
	repo := &memCities{rows: map[uuid.UUID]models.City{}}
	h := NewCityHandler(
		ucCity.NewCreateCity(repo, nil),
		ucCity.NewUpdateCity(repo, nil),
		ucCity.NewDeleteCity(repo, nil),
		ucCity.NewGetCity(repo),
		ucCity.NewListCities(repo),
	)

	r := gin.New()
	r.POST("/api/cities", h.Create)
	r.GET("/api/cities", h.List)
	r.GET("/api/cities/:id", h.Get)
	r.PUT("/api/cities/:id", h.Update)
	r.DELETE("/api/cities/:id", h.Delete)
	return r
}

func do(r http.Handler, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func errorCode(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var body httperr.HTTPError
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body.Code
}

// ======================================================
// CITIES
// ======================================================

func TestCityHandlerLifecycle(t *testing.T) {
	r := cityRouter()

	w := do(r, http.MethodPost, "/api/cities", `{"name":"Rosario","zip_code":"2000"}`)
	require.Equal(t, http.StatusCreated, w.Code)

	var created models.City
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	assert.Equal(t, "rosario", created.Name)
	assert.Equal(t, "/api/cities/"+created.ID.String(), w.Header().Get("Location"))

	w = do(r, http.MethodPost, "/api/cities", `{"name":" ROSARIO ","zip_code":"2000"}`)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "city_name_taken", errorCode(t, w))

	w = do(r, http.MethodPut, "/api/cities/"+created.ID.String(), `{"name":"Rosario","zip_code":"2001"}`)
	assert.Equal(t, http.StatusOK, w.Code)

	w = do(r, http.MethodGet, "/api/cities", "")
	require.Equal(t, http.StatusOK, w.Code)
	var list struct {
		Data  []models.City `json:"data"`
		Total int           `json:"total"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	require.Equal(t, 1, list.Total)
	assert.Equal(t, "2001", list.Data[0].ZIPCode)

	w = do(r, http.MethodDelete, "/api/cities/"+created.ID.String(), "")
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = do(r, http.MethodGet, "/api/cities/"+created.ID.String(), "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "city_not_found", errorCode(t, w))
}

func TestCityHandlerRejectsBadInput(t *testing.T) {
	r := cityRouter()

	tests := []struct {
		name   string
		method string
		path   string
		body   string
		status int
		code   string
	}{
		{"malformed body", http.MethodPost, "/api/cities", `{"name":`, http.StatusBadRequest, "invalid_request"},
		{"invalid zip", http.MethodPost, "/api/cities", `{"name":"x","zip_code":"12"}`, http.StatusBadRequest, "invalid_zip_code"},
		{"invalid id", http.MethodGet, "/api/cities/nope", "", http.StatusBadRequest, "invalid_id"},
		{"unknown id", http.MethodDelete, "/api/cities/" + uuid.NewString(), "", http.StatusNotFound, "city_not_found"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(r, tt.method, tt.path, tt.body)
			assert.Equal(t, tt.status, w.Code)
			assert.Equal(t, tt.code, errorCode(t, w))
		})
	}
}

// ======================================================
// CONSULTATIONS (request parsing only)
// ======================================================

func TestConsultationRequestToInput(t *testing.T) {
	pid := uuid.New()
	var req ConsultationRequest
	require.NoError(t, json.Unmarshal([]byte(`{
		"date": "2025-10-06",
		"start_time": "09:00",
		"end_time": "10:00",
		"amount": 15000.50,
		"status": "SCHEDULED",
		"patients": [{"patient_id": "`+pid.String()+`", "is_paid": true}]
	}`), &req))

	in, err := req.toInput()
	require.NoError(t, err)
	assert.Equal(t, "15000.50", in.Amount)
	require.Len(t, in.Patients, 1)
	assert.Equal(t, pid, in.Patients[0].PatientID)
	assert.True(t, in.Patients[0].IsPaid)

	req.Patients[0].PatientID = "not-a-uuid"
	_, err = req.toInput()
	assert.True(t, httperr.IsBusiness(err, "invalid_patient_id"))
}

func TestConsultationHandlerRejectsBeforeUseCase(t *testing.T) {
	// use cases are nil: every case here must be answered by the handler itself
	h := NewConsultationHandler(nil, nil, nil, nil, nil, nil)

	r := gin.New()
	r.POST("/api/consultations", h.Create)
	r.GET("/api/consultations", h.ListByDate)
	r.GET("/api/consultations/:id", h.Get)
	r.PUT("/api/consultations/:id", h.Update)

	tests := []struct {
		name   string
		method string
		path   string
		body   string
		code   string
	}{
		{"malformed body", http.MethodPost, "/api/consultations", `[]`, "invalid_request"},
		{"bad patient id", http.MethodPost, "/api/consultations", `{"patients":[{"patient_id":"x"}]}`, "invalid_patient_id"},
		{"missing date", http.MethodGet, "/api/consultations", "", "date_required"},
		{"bad path id", http.MethodGet, "/api/consultations/42", "", "invalid_id"},
		{"bad path id on update", http.MethodPut, "/api/consultations/42", `{}`, "invalid_id"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(r, tt.method, tt.path, tt.body)
			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Equal(t, tt.code, errorCode(t, w))
		})
	}
}

// ======================================================
// PATIENTS (request parsing only)
// ======================================================

func TestPatientRequestKeepsNumericText(t *testing.T) {
	var req PatientRequest
	require.NoError(t, json.Unmarshal([]byte(`{"address_number": 1234, "address_floor": "3"}`), &req))

	in := req.toInput()
	assert.Equal(t, "1234", in.AddressNumber)
	assert.Equal(t, "3", in.AddressFloor)
	assert.Equal(t, "", PatientRequest{}.toInput().AddressFloor)
}

func TestPatientPhotoRequiresFile(t *testing.T) {
	h := NewPatientHandler(nil, nil, nil, nil, nil, nil, nil)
	r := gin.New()
	r.PUT("/api/patients/:id/photo", h.SetPhoto)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	require.NoError(t, mw.WriteField("other", "value"))
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPut, "/api/patients/"+uuid.NewString()+"/photo", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "photo_required", errorCode(t, w))
}
