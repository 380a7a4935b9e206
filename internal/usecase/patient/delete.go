package patient

import (
	"context"

	"github.com/google/uuid"

	"github.com/wandyflor/TheraKairos-MartinoAndrea/internal/audit"
	domain "github.com/wandyflor/TheraKairos-MartinoAndrea/internal/domain/patient"
)

type DeletePatient struct {
	repo  domain.Repository
	days  DayInvalidator
	audit *audit.Dispatcher
}

func NewDeletePatient(
	repo domain.Repository,
	days DayInvalidator,
	audit *audit.Dispatcher,
) *DeletePatient {
	return &DeletePatient{
		repo:  repo,
		days:  days,
		audit: audit,
	}
}

// Execute soft-deletes the patient and every consultation association it has.
// The photo is kept, matching the recoverable database side.
func (uc *DeletePatient) Execute(
	ctx context.Context,
	id uuid.UUID,
) error {

	var dates []string
	err := uc.repo.Transaction(ctx, func(tx domain.Repository) error {
		if err := tx.SoftDeletePatient(ctx, id); err != nil {
			return err
		}
		var err error
		dates, err = tx.DeactivatePatientAssociations(ctx, id)
		return err
	})
	if err != nil {
		return storeFailure(err)
	}

	// the day listings embed the association list
	if len(dates) > 0 {
		uc.days.Invalidate(ctx, dates...)
	}

	dispatch(uc.audit, "patient_deleted", id)
	return nil
}
