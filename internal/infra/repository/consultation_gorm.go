package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	domain "github.com/wandyflor/TheraKairos-MartinoAndrea/internal/domain/consultation"
	"github.com/wandyflor/TheraKairos-MartinoAndrea/internal/httperr"
	"github.com/wandyflor/TheraKairos-MartinoAndrea/internal/models"
)

type ConsultationGormRepository struct {
	db *gorm.DB
}

func NewConsultationGormRepository(db *gorm.DB) *ConsultationGormRepository {
	return &ConsultationGormRepository{db: db}
}

func errConsultationNotFound() error {
	return httperr.NotFoundErr("consultation_not_found", "Consultation not found.")
}

// activePatients preloads only the associations that are currently active.
func activePatients(db *gorm.DB) *gorm.DB {
	return db.Where("state = ?", models.StateActive).
		Order("created_at ASC, patient_id ASC")
}

// --------------------------------------------------
// Transaction
// --------------------------------------------------

func (r *ConsultationGormRepository) Transaction(
	ctx context.Context,
	fn func(tx domain.Repository) error,
) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&ConsultationGormRepository{db: tx})
	})
}

// --------------------------------------------------
// Slot
// --------------------------------------------------

func (r *ConsultationGormRepository) SlotTaken(
	ctx context.Context,
	date string,
	startTime string,
	excludeID *uuid.UUID,
) (bool, error) {

	q := r.db.WithContext(ctx).
		Model(&models.Consultation{}).
		Where(
			"date = ? AND start_time = ? AND state = ?",
			date,
			startTime,
			models.StateActive,
		)

	if excludeID != nil {
		q = q.Where("id <> ?", *excludeID)
	}

	var count int64
	if err := q.Count(&count).Error; err != nil {
		return false, translate(err, "consultation", "Consultation")
	}

	return count > 0, nil
}

// --------------------------------------------------
// Consultation
// --------------------------------------------------

func (r *ConsultationGormRepository) CreateConsultation(
	ctx context.Context,
	c *models.Consultation,
) error {

	err := r.db.WithContext(ctx).
		Omit(clause.Associations).
		Create(c).Error

	if isUniqueViolation(err, constraintConsultationSlot) {
		return domain.ErrSlotTaken(c.Date, c.StartTime)
	}
	return translate(err, "consultation", "Consultation")
}

func (r *ConsultationGormRepository) UpdateConsultation(
	ctx context.Context,
	c *models.Consultation,
) error {

	res := r.db.WithContext(ctx).
		Model(&models.Consultation{}).
		Where("id = ? AND state = ?", c.ID, models.StateActive).
		Updates(map[string]any{
			"date":       c.Date,
			"start_time": c.StartTime,
			"end_time":   c.EndTime,
			"amount":     c.Amount,
			"status":     c.Status,
		})

	if isUniqueViolation(res.Error, constraintConsultationSlot) {
		return domain.ErrSlotTaken(c.Date, c.StartTime)
	}
	if res.Error != nil {
		return translate(res.Error, "consultation", "Consultation")
	}
	if res.RowsAffected == 0 {
		return errConsultationNotFound()
	}
	return nil
}

func (r *ConsultationGormRepository) SoftDeleteConsultation(
	ctx context.Context,
	id uuid.UUID,
) error {

	res := r.db.WithContext(ctx).
		Model(&models.Consultation{}).
		Where("id = ? AND state = ?", id, models.StateActive).
		Update("state", models.StateInactive)

	if res.Error != nil {
		return translate(res.Error, "consultation", "Consultation")
	}
	if res.RowsAffected == 0 {
		return errConsultationNotFound()
	}
	return nil
}

func (r *ConsultationGormRepository) GetActiveConsultation(
	ctx context.Context,
	id uuid.UUID,
) (*models.Consultation, error) {

	var c models.Consultation
	if err := r.db.WithContext(ctx).
		Preload("Patients", activePatients).
		Where("id = ? AND state = ?", id, models.StateActive).
		First(&c).Error; err != nil {
		return nil, translate(err, "consultation", "Consultation")
	}

	return &c, nil
}

func (r *ConsultationGormRepository) ListActiveConsultationsByDate(
	ctx context.Context,
	date string,
) ([]models.Consultation, error) {

	var list []models.Consultation
	if err := r.db.WithContext(ctx).
		Preload("Patients", activePatients).
		Where("date = ? AND state = ?", date, models.StateActive).
		Order("start_time ASC").
		Find(&list).Error; err != nil {
		return nil, translate(err, "consultation", "Consultation")
	}

	return list, nil
}

// --------------------------------------------------
// Patient lookup
// --------------------------------------------------

func (r *ConsultationGormRepository) PatientExists(
	ctx context.Context,
	id uuid.UUID,
) (bool, error) {

	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.Patient{}).
		Where("id = ? AND state = ?", id, models.StateActive).
		Count(&count).Error; err != nil {
		return false, translate(err, "patient", "Patient")
	}

	return count > 0, nil
}

// --------------------------------------------------
// Association
// --------------------------------------------------

func (r *ConsultationGormRepository) ListAssociations(
	ctx context.Context,
	consultationID uuid.UUID,
) ([]models.ConsultationPatient, error) {

	var rows []models.ConsultationPatient
	if err := r.db.WithContext(ctx).
		Where("consultation_id = ?", consultationID).
		Order("patient_id ASC").
		Find(&rows).Error; err != nil {
		return nil, translate(err, "association", "Association")
	}

	return rows, nil
}

func (r *ConsultationGormRepository) InsertAssociation(
	ctx context.Context,
	cp *models.ConsultationPatient,
) error {

	err := r.db.WithContext(ctx).
		Omit(clause.Associations).
		Create(cp).Error

	if isForeignKeyViolation(err) {
		return httperr.NotFoundErr("patient_not_found", "Patient not found.")
	}
	return translate(err, "association", "Association")
}

func (r *ConsultationGormRepository) ReactivateAssociation(
	ctx context.Context,
	consultationID uuid.UUID,
	patientID uuid.UUID,
	isPaid bool,
) error {
	return r.updateAssociation(ctx, consultationID, patientID, map[string]any{
		"state":   models.StateActive,
		"is_paid": isPaid,
	})
}

func (r *ConsultationGormRepository) MarkAssociationPaid(
	ctx context.Context,
	consultationID uuid.UUID,
	patientID uuid.UUID,
) error {
	return r.updateAssociation(ctx, consultationID, patientID, map[string]any{
		"is_paid": true,
	})
}

func (r *ConsultationGormRepository) DeactivateAssociation(
	ctx context.Context,
	consultationID uuid.UUID,
	patientID uuid.UUID,
) error {
	return r.updateAssociation(ctx, consultationID, patientID, map[string]any{
		"state": models.StateInactive,
	})
}

func (r *ConsultationGormRepository) updateAssociation(
	ctx context.Context,
	consultationID uuid.UUID,
	patientID uuid.UUID,
	fields map[string]any,
) error {

	res := r.db.WithContext(ctx).
		Model(&models.ConsultationPatient{}).
		Where("consultation_id = ? AND patient_id = ?", consultationID, patientID).
		Updates(fields)

	if res.Error != nil {
		return translate(res.Error, "association", "Association")
	}
	if res.RowsAffected == 0 {
		return httperr.NotFoundErr("association_not_found", "Association not found.")
	}
	return nil
}

func (r *ConsultationGormRepository) DeactivateAllAssociations(
	ctx context.Context,
	consultationID uuid.UUID,
) error {

	err := r.db.WithContext(ctx).
		Model(&models.ConsultationPatient{}).
		Where("consultation_id = ?", consultationID).
		Update("state", models.StateInactive).Error

	return translate(err, "association", "Association")
}

// Compile-time check
var _ domain.Repository = (*ConsultationGormRepository)(nil)
