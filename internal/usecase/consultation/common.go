package consultation

import (
	"context"

	"github.com/google/uuid"

	"github.com/wandyflor/TheraKairos-MartinoAndrea/internal/audit"
	domain "github.com/wandyflor/TheraKairos-MartinoAndrea/internal/domain/consultation"
	"github.com/wandyflor/TheraKairos-MartinoAndrea/internal/dto"
	"github.com/wandyflor/TheraKairos-MartinoAndrea/internal/httperr"
)

// DayCache holds the by-date listing. It is best effort: misses and write
// failures never reach the caller.
//
// Every Invalidate bumps the day's version. A listing read from the store is
// written back only if the version taken before the read is still current,
// so a read that raced a commit never outlives it.
type DayCache interface {
	Get(ctx context.Context, date string) ([]dto.ConsultationView, bool)
	Version(ctx context.Context, date string) int64
	SetIfUnchanged(ctx context.Context, date string, version int64, views []dto.ConsultationView)
	Invalidate(ctx context.Context, dates ...string)
}

// ConsultationInput is the body shared by insert and update.
type ConsultationInput struct {
	domain.Input
	Patients []domain.DesiredPatient
}

// prepare runs every check that needs no store, before anything is written.
func prepare(in ConsultationInput) (*domain.Draft, error) {
	draft, err := domain.Parse(in.Input)
	if err != nil {
		return nil, err
	}
	if err := domain.ValidateDesired(in.Patients); err != nil {
		return nil, err
	}
	return draft, nil
}

// ensurePatients rejects references to patients that are missing or deleted.
func ensurePatients(
	ctx context.Context,
	repo domain.Repository,
	patients []domain.DesiredPatient,
) error {
	for _, p := range patients {
		ok, err := repo.PatientExists(ctx, p.PatientID)
		if err != nil {
			return err
		}
		if !ok {
			return httperr.NotFoundErr("patient_not_found", "Patient "+p.PatientID.String()+" not found.")
		}
	}
	return nil
}

func dispatch(d *audit.Dispatcher, action string, id uuid.UUID, meta any) {
	d.Dispatch(audit.Event{
		Action:   action,
		Entity:   "consultation",
		EntityID: &id,
		Metadata: meta,
	})
}

func storeFailure(err error) error {
	return httperr.Wrap(err, "store_failure", "The operation could not be completed.")
}
