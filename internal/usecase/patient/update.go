package patient

import (
	"context"

	"github.com/google/uuid"

	"github.com/wandyflor/TheraKairos-MartinoAndrea/internal/audit"
	domain "github.com/wandyflor/TheraKairos-MartinoAndrea/internal/domain/patient"
	"github.com/wandyflor/TheraKairos-MartinoAndrea/internal/dto"
)

type UpdatePatient struct {
	repo  domain.Repository
	clock Today
	audit *audit.Dispatcher
}

func NewUpdatePatient(
	repo domain.Repository,
	clock Today,
	audit *audit.Dispatcher,
) *UpdatePatient {
	return &UpdatePatient{
		repo:  repo,
		clock: clock,
		audit: audit,
	}
}

func (uc *UpdatePatient) Execute(
	ctx context.Context,
	id uuid.UUID,
	in domain.Input,
) (*dto.PatientView, error) {

	if _, err := uc.repo.GetActivePatient(ctx, id); err != nil {
		return nil, storeFailure(err)
	}

	p, err := domain.Validate(ctx, uc.repo, in, uc.clock.Today(), &id)
	if err != nil {
		return nil, storeFailure(err)
	}

	p.ID = id
	if err := uc.repo.UpdatePatient(ctx, p); err != nil {
		return nil, storeFailure(err)
	}

	saved, err := uc.repo.GetActivePatient(ctx, id)
	if err != nil {
		return nil, storeFailure(err)
	}

	dispatch(uc.audit, "patient_updated", id)

	view := dto.NewPatientView(saved)
	return &view, nil
}
