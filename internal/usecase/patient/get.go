package patient

import (
	"context"

	"github.com/google/uuid"

	domain "github.com/wandyflor/TheraKairos-MartinoAndrea/internal/domain/patient"
	"github.com/wandyflor/TheraKairos-MartinoAndrea/internal/dto"
)

type GetPatient struct {
	repo domain.Repository
}

func NewGetPatient(repo domain.Repository) *GetPatient {
	return &GetPatient{repo: repo}
}

func (uc *GetPatient) Execute(
	ctx context.Context,
	id uuid.UUID,
) (*dto.PatientView, error) {

	p, err := uc.repo.GetActivePatient(ctx, id)
	if err != nil {
		return nil, storeFailure(err)
	}

	view := dto.NewPatientView(p)
	return &view, nil
}

type ListPatients struct {
	repo domain.Repository
}

func NewListPatients(repo domain.Repository) *ListPatients {
	return &ListPatients{repo: repo}
}

// Execute returns active patients ordered by last name.
func (uc *ListPatients) Execute(ctx context.Context) ([]dto.PatientView, error) {
	list, err := uc.repo.ListActivePatients(ctx)
	if err != nil {
		return nil, storeFailure(err)
	}
	return dto.NewPatientViews(list), nil
}
