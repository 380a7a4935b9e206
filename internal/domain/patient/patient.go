package patient

import (
	"context"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/wandyflor/TheraKairos-MartinoAndrea/internal/httperr"
	"github.com/wandyflor/TheraKairos-MartinoAndrea/internal/models"
)

var (
	dniPattern    = regexp.MustCompile(`^\d{8}$`)
	phonePattern  = regexp.MustCompile(`^\+?\d{7,15}$`)
	emailPattern  = regexp.MustCompile(`^[\w.-]+@[\w.-]+\.[a-zA-Z]{2,}$`)
	numberPattern = regexp.MustCompile(`^\d+$`)
)

type Repository interface {
	CreatePatient(ctx context.Context, p *models.Patient) error

	// UpdatePatient fails with a not-found error when no active row matches.
	UpdatePatient(ctx context.Context, p *models.Patient) error
	SoftDeletePatient(ctx context.Context, id uuid.UUID) error
	GetActivePatient(ctx context.Context, id uuid.UUID) (*models.Patient, error)
	ListActivePatients(ctx context.Context) ([]models.Patient, error)

	DNITaken(ctx context.Context, dni string, excludeID *uuid.UUID) (bool, error)
	EmailTaken(ctx context.Context, email string, excludeID *uuid.UUID) (bool, error)
	CityExists(ctx context.Context, id uuid.UUID) (bool, error)

	// DeactivatePatientAssociations flags every association of the patient
	// inactive and returns the dates of the active consultations it touched.
	DeactivatePatientAssociations(ctx context.Context, patientID uuid.UUID) ([]string, error)
	SetPhotoPath(ctx context.Context, id uuid.UUID, path string) error

	Transaction(ctx context.Context, fn func(tx Repository) error) error
}

// Input is a patient as submitted by the caller; every field is text.
type Input struct {
	DNI               string
	Name              string
	LastName          string
	BirthDate         string
	Occupation        string
	Phone             string
	Email             string
	CityID            string
	Address           string
	AddressNumber     string
	AddressFloor      string
	AddressDepartment string
}

// ===============================
// Validation
// ===============================

// Parse checks the fields that need no store and returns a row ready to be
// persisted, without an identifier. today is the clinic's current date.
func Parse(in Input, today string) (*models.Patient, error) {
	dni := strings.TrimSpace(in.DNI)
	if !dniPattern.MatchString(dni) {
		return nil, httperr.Validation("invalid_dni", "The DNI must contain 8 digits.")
	}

	name := clean(in.Name)
	if name == "" {
		return nil, httperr.Validation("name_required", "The name is required.")
	}

	lastName := clean(in.LastName)
	if lastName == "" {
		return nil, httperr.Validation("last_name_required", "The last name is required.")
	}

	birth := strings.TrimSpace(in.BirthDate)
	if birth == "" {
		return nil, httperr.Validation("birth_date_required", "The birth date is required.")
	}
	bd, err := time.Parse("2006-01-02", birth)
	if err != nil {
		return nil, httperr.Validation("invalid_birth_date", "The birth date must use the format YYYY-MM-DD.")
	}
	birth = bd.Format("2006-01-02")
	if birth > today {
		return nil, httperr.Validation("birth_date_in_future", "The birth date cannot be in the future.")
	}

	occupation := clean(in.Occupation)
	if occupation == "" {
		return nil, httperr.Validation("occupation_required", "The occupation is required.")
	}

	phone := strings.TrimSpace(in.Phone)
	if !phonePattern.MatchString(phone) {
		return nil, httperr.Validation("invalid_phone", "The phone number is not valid.")
	}

	email := clean(in.Email)
	if !emailPattern.MatchString(email) {
		return nil, httperr.Validation("invalid_email", "The email address is not valid.")
	}

	cityID, err := uuid.Parse(strings.TrimSpace(in.CityID))
	if err != nil || cityID == uuid.Nil {
		return nil, httperr.Validation("city_required", "The city is required.")
	}

	address := clean(in.Address)
	if address == "" {
		return nil, httperr.Validation("address_required", "The address is required.")
	}

	number := strings.TrimSpace(in.AddressNumber)
	if !numberPattern.MatchString(number) {
		return nil, httperr.Validation("invalid_address_number", "The address number must be numeric.")
	}
	addressNumber, err := strconv.Atoi(number)
	if err != nil {
		return nil, httperr.Validation("invalid_address_number", "The address number must be numeric.")
	}

	var floor *int
	if f := strings.TrimSpace(in.AddressFloor); f != "" {
		if !numberPattern.MatchString(f) {
			return nil, httperr.Validation("invalid_address_floor", "The floor must be numeric.")
		}
		n, err := strconv.Atoi(f)
		if err != nil {
			return nil, httperr.Validation("invalid_address_floor", "The floor must be numeric.")
		}
		floor = &n
	}

	return &models.Patient{
		DNI:               dni,
		Name:              name,
		LastName:          lastName,
		BirthDate:         birth,
		Occupation:        occupation,
		Phone:             phone,
		Email:             email,
		CityID:            cityID,
		Address:           address,
		AddressNumber:     addressNumber,
		AddressFloor:      floor,
		AddressDepartment: clean(in.AddressDepartment),
		State:             models.StateActive,
	}, nil
}

// Validate runs Parse and then the checks that need the store.
func Validate(
	ctx context.Context,
	repo Repository,
	in Input,
	today string,
	excludeID *uuid.UUID,
) (*models.Patient, error) {

	p, err := Parse(in, today)
	if err != nil {
		return nil, err
	}

	ok, err := repo.CityExists(ctx, p.CityID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, httperr.NotFoundErr("city_not_found", "City not found.")
	}

	taken, err := repo.DNITaken(ctx, p.DNI, excludeID)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, httperr.Conflict("dni_taken", "A patient with this DNI already exists.")
	}

	taken, err = repo.EmailTaken(ctx, p.Email, excludeID)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, httperr.Conflict("email_taken", "A patient with this email already exists.")
	}

	return p, nil
}

func clean(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
