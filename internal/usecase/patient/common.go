package patient

import (
	"context"
	"io"

	"github.com/google/uuid"

	"github.com/wandyflor/TheraKairos-MartinoAndrea/internal/audit"
	"github.com/wandyflor/TheraKairos-MartinoAndrea/internal/httperr"
)

// PhotoStore keeps the processed portrait of a patient.
type PhotoStore interface {
	Save(ctx context.Context, id uuid.UUID, r io.Reader) (string, error)
	Remove(ctx context.Context, id uuid.UUID) error
}

// DayInvalidator drops cached consultation listings for the given dates.
type DayInvalidator interface {
	Invalidate(ctx context.Context, dates ...string)
}

// Today yields the clinic's current date as 2006-01-02.
type Today interface {
	Today() string
}

func dispatch(d *audit.Dispatcher, action string, id uuid.UUID) {
	d.Dispatch(audit.Event{
		Action:   action,
		Entity:   "patient",
		EntityID: &id,
	})
}

func storeFailure(err error) error {
	return httperr.Wrap(err, "store_failure", "The operation could not be completed.")
}
