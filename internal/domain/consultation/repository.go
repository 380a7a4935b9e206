package consultation

import (
	"context"

	"github.com/google/uuid"

	"github.com/wandyflor/TheraKairos-MartinoAndrea/internal/models"
)

// SlotChecker answers whether an active consultation already occupies a slot.
type SlotChecker interface {
	SlotTaken(
		ctx context.Context,
		date string,
		startTime string,
		excludeID *uuid.UUID,
	) (bool, error)
}

// AssociationStore is the persistence surface the reconciler drives.
type AssociationStore interface {
	// ListAssociations returns every row for the consultation, active or not.
	ListAssociations(
		ctx context.Context,
		consultationID uuid.UUID,
	) ([]models.ConsultationPatient, error)

	InsertAssociation(
		ctx context.Context,
		cp *models.ConsultationPatient,
	) error

	ReactivateAssociation(
		ctx context.Context,
		consultationID uuid.UUID,
		patientID uuid.UUID,
		isPaid bool,
	) error

	MarkAssociationPaid(
		ctx context.Context,
		consultationID uuid.UUID,
		patientID uuid.UUID,
	) error

	DeactivateAssociation(
		ctx context.Context,
		consultationID uuid.UUID,
		patientID uuid.UUID,
	) error
}

type Repository interface {
	SlotChecker
	AssociationStore

	// -------- Consultation --------
	CreateConsultation(
		ctx context.Context,
		c *models.Consultation,
	) error

	// UpdateConsultation fails with a not-found error when no active row matches.
	UpdateConsultation(
		ctx context.Context,
		c *models.Consultation,
	) error

	SoftDeleteConsultation(
		ctx context.Context,
		id uuid.UUID,
	) error

	// GetActiveConsultation preloads the active associations.
	GetActiveConsultation(
		ctx context.Context,
		id uuid.UUID,
	) (*models.Consultation, error)

	ListActiveConsultationsByDate(
		ctx context.Context,
		date string,
	) ([]models.Consultation, error)

	// -------- Patient lookup --------
	PatientExists(
		ctx context.Context,
		id uuid.UUID,
	) (bool, error)

	// -------- Association (bulk) --------
	DeactivateAllAssociations(
		ctx context.Context,
		consultationID uuid.UUID,
	) error

	// -------- Transaction --------
	Transaction(
		ctx context.Context,
		fn func(tx Repository) error,
	) error
}
