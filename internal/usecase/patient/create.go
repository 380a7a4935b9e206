package patient

import (
	"context"

	"github.com/google/uuid"

	"github.com/wandyflor/TheraKairos-MartinoAndrea/internal/audit"
	domain "github.com/wandyflor/TheraKairos-MartinoAndrea/internal/domain/patient"
	"github.com/wandyflor/TheraKairos-MartinoAndrea/internal/dto"
)

type CreatePatient struct {
	repo  domain.Repository
	clock Today
	audit *audit.Dispatcher
}

func NewCreatePatient(
	repo domain.Repository,
	clock Today,
	audit *audit.Dispatcher,
) *CreatePatient {
	return &CreatePatient{
		repo:  repo,
		clock: clock,
		audit: audit,
	}
}

func (uc *CreatePatient) Execute(
	ctx context.Context,
	in domain.Input,
) (*dto.PatientView, error) {

	p, err := domain.Validate(ctx, uc.repo, in, uc.clock.Today(), nil)
	if err != nil {
		return nil, storeFailure(err)
	}

	p.ID = uuid.New()
	if err := uc.repo.CreatePatient(ctx, p); err != nil {
		return nil, storeFailure(err)
	}

	saved, err := uc.repo.GetActivePatient(ctx, p.ID)
	if err != nil {
		return nil, storeFailure(err)
	}

	dispatch(uc.audit, "patient_created", p.ID)

	view := dto.NewPatientView(saved)
	return &view, nil
}
