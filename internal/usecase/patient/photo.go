package patient

import (
	"context"
	"io"

	"github.com/google/uuid"

	"github.com/wandyflor/TheraKairos-MartinoAndrea/internal/audit"
	domain "github.com/wandyflor/TheraKairos-MartinoAndrea/internal/domain/patient"
	"github.com/wandyflor/TheraKairos-MartinoAndrea/internal/dto"
)

type SetPatientPhoto struct {
	repo   domain.Repository
	photos PhotoStore
	audit  *audit.Dispatcher
}

func NewSetPatientPhoto(
	repo domain.Repository,
	photos PhotoStore,
	audit *audit.Dispatcher,
) *SetPatientPhoto {
	return &SetPatientPhoto{
		repo:   repo,
		photos: photos,
		audit:  audit,
	}
}

// Execute replaces the patient's photo with the uploaded image.
func (uc *SetPatientPhoto) Execute(
	ctx context.Context,
	id uuid.UUID,
	r io.Reader,
) (*dto.PatientView, error) {

	if _, err := uc.repo.GetActivePatient(ctx, id); err != nil {
		return nil, storeFailure(err)
	}

	path, err := uc.photos.Save(ctx, id, r)
	if err != nil {
		return nil, storeFailure(err)
	}

	if err := uc.repo.SetPhotoPath(ctx, id, path); err != nil {
		return nil, storeFailure(err)
	}

	saved, err := uc.repo.GetActivePatient(ctx, id)
	if err != nil {
		return nil, storeFailure(err)
	}

	dispatch(uc.audit, "patient_photo_updated", id)

	view := dto.NewPatientView(saved)
	return &view, nil
}

type RemovePatientPhoto struct {
	repo   domain.Repository
	photos PhotoStore
	audit  *audit.Dispatcher
}

func NewRemovePatientPhoto(
	repo domain.Repository,
	photos PhotoStore,
	audit *audit.Dispatcher,
) *RemovePatientPhoto {
	return &RemovePatientPhoto{
		repo:   repo,
		photos: photos,
		audit:  audit,
	}
}

func (uc *RemovePatientPhoto) Execute(
	ctx context.Context,
	id uuid.UUID,
) error {

	if err := uc.repo.SetPhotoPath(ctx, id, ""); err != nil {
		return storeFailure(err)
	}

	if err := uc.photos.Remove(ctx, id); err != nil {
		return storeFailure(err)
	}

	dispatch(uc.audit, "patient_photo_removed", id)
	return nil
}
