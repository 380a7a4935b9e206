package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	domain "github.com/wandyflor/TheraKairos-MartinoAndrea/internal/domain/patient"
	"github.com/wandyflor/TheraKairos-MartinoAndrea/internal/httperr"
	"github.com/wandyflor/TheraKairos-MartinoAndrea/internal/models"
)

type PatientGormRepository struct {
	db *gorm.DB
}

func NewPatientGormRepository(db *gorm.DB) *PatientGormRepository {
	return &PatientGormRepository{db: db}
}

func errPatientNotFound() error {
	return httperr.NotFoundErr("patient_not_found", "Patient not found.")
}

func (r *PatientGormRepository) Transaction(
	ctx context.Context,
	fn func(tx domain.Repository) error,
) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&PatientGormRepository{db: tx})
	})
}

// --------------------------------------------------
// Patient
// --------------------------------------------------

func (r *PatientGormRepository) CreatePatient(
	ctx context.Context,
	p *models.Patient,
) error {

	err := r.db.WithContext(ctx).
		Omit(clause.Associations).
		Create(p).Error

	if isForeignKeyViolation(err) {
		return httperr.NotFoundErr("city_not_found", "City not found.")
	}
	return translate(err, "patient", "Patient")
}

func (r *PatientGormRepository) UpdatePatient(
	ctx context.Context,
	p *models.Patient,
) error {

	res := r.db.WithContext(ctx).
		Model(&models.Patient{}).
		Where("id = ? AND state = ?", p.ID, models.StateActive).
		Updates(map[string]any{
			"dni":                p.DNI,
			"name":               p.Name,
			"last_name":          p.LastName,
			"birth_date":         p.BirthDate,
			"occupation":         p.Occupation,
			"phone":              p.Phone,
			"email":              p.Email,
			"city_id":            p.CityID,
			"address":            p.Address,
			"address_number":     p.AddressNumber,
			"address_floor":      p.AddressFloor,
			"address_department": p.AddressDepartment,
		})

	if isForeignKeyViolation(res.Error) {
		return httperr.NotFoundErr("city_not_found", "City not found.")
	}
	if res.Error != nil {
		return translate(res.Error, "patient", "Patient")
	}
	if res.RowsAffected == 0 {
		return errPatientNotFound()
	}
	return nil
}

func (r *PatientGormRepository) SoftDeletePatient(
	ctx context.Context,
	id uuid.UUID,
) error {

	res := r.db.WithContext(ctx).
		Model(&models.Patient{}).
		Where("id = ? AND state = ?", id, models.StateActive).
		Update("state", models.StateInactive)

	if res.Error != nil {
		return translate(res.Error, "patient", "Patient")
	}
	if res.RowsAffected == 0 {
		return errPatientNotFound()
	}
	return nil
}

func (r *PatientGormRepository) GetActivePatient(
	ctx context.Context,
	id uuid.UUID,
) (*models.Patient, error) {

	var p models.Patient
	if err := r.db.WithContext(ctx).
		Preload("City").
		Where("id = ? AND state = ?", id, models.StateActive).
		First(&p).Error; err != nil {
		return nil, translate(err, "patient", "Patient")
	}

	return &p, nil
}

func (r *PatientGormRepository) ListActivePatients(
	ctx context.Context,
) ([]models.Patient, error) {

	var list []models.Patient
	if err := r.db.WithContext(ctx).
		Preload("City").
		Where("state = ?", models.StateActive).
		Order("last_name ASC, name ASC").
		Find(&list).Error; err != nil {
		return nil, translate(err, "patient", "Patient")
	}

	return list, nil
}

func (r *PatientGormRepository) SetPhotoPath(
	ctx context.Context,
	id uuid.UUID,
	path string,
) error {

	res := r.db.WithContext(ctx).
		Model(&models.Patient{}).
		Where("id = ? AND state = ?", id, models.StateActive).
		Update("photo_path", path)

	if res.Error != nil {
		return translate(res.Error, "patient", "Patient")
	}
	if res.RowsAffected == 0 {
		return errPatientNotFound()
	}
	return nil
}

// --------------------------------------------------
// Lookups
// --------------------------------------------------

func (r *PatientGormRepository) DNITaken(
	ctx context.Context,
	dni string,
	excludeID *uuid.UUID,
) (bool, error) {
	return r.activeFieldTaken(ctx, "dni", dni, excludeID)
}

func (r *PatientGormRepository) EmailTaken(
	ctx context.Context,
	email string,
	excludeID *uuid.UUID,
) (bool, error) {
	return r.activeFieldTaken(ctx, "email", email, excludeID)
}

func (r *PatientGormRepository) activeFieldTaken(
	ctx context.Context,
	column string,
	value string,
	excludeID *uuid.UUID,
) (bool, error) {

	q := r.db.WithContext(ctx).
		Model(&models.Patient{}).
		Where(clause.Eq{Column: clause.Column{Name: column}, Value: value}).
		Where("state = ?", models.StateActive)

	if excludeID != nil {
		q = q.Where("id <> ?", *excludeID)
	}

	var count int64
	if err := q.Count(&count).Error; err != nil {
		return false, translate(err, "patient", "Patient")
	}
	return count > 0, nil
}

func (r *PatientGormRepository) CityExists(
	ctx context.Context,
	id uuid.UUID,
) (bool, error) {

	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.City{}).
		Where("id = ?", id).
		Count(&count).Error; err != nil {
		return false, translate(err, "city", "City")
	}
	return count > 0, nil
}

// --------------------------------------------------
// Association
// --------------------------------------------------

func (r *PatientGormRepository) DeactivatePatientAssociations(
	ctx context.Context,
	patientID uuid.UUID,
) ([]string, error) {

	var dates []string
	err := r.db.WithContext(ctx).
		Model(&models.Consultation{}).
		Joins("JOIN consultation_patients cp ON cp.consultation_id = consultations.id").
		Where("cp.patient_id = ? AND cp.state = ? AND consultations.state = ?",
			patientID, models.StateActive, models.StateActive).
		Distinct().
		Pluck("consultations.date", &dates).Error
	if err != nil {
		return nil, translate(err, "association", "Association")
	}

	err = r.db.WithContext(ctx).
		Model(&models.ConsultationPatient{}).
		Where("patient_id = ?", patientID).
		Update("state", models.StateInactive).Error
	if err != nil {
		return nil, translate(err, "association", "Association")
	}

	return dates, nil
}

// Compile-time check
var _ domain.Repository = (*PatientGormRepository)(nil)
