package consultation

import (
	"context"

	"github.com/google/uuid"

	"github.com/wandyflor/TheraKairos-MartinoAndrea/internal/audit"
	domain "github.com/wandyflor/TheraKairos-MartinoAndrea/internal/domain/consultation"
	"github.com/wandyflor/TheraKairos-MartinoAndrea/internal/httperr"
	"github.com/wandyflor/TheraKairos-MartinoAndrea/internal/logger"
)

type DeleteConsultation struct {
	repo  domain.Repository
	notes domain.NotesStore
	cache DayCache
	audit *audit.Dispatcher
}

func NewDeleteConsultation(
	repo domain.Repository,
	notes domain.NotesStore,
	cache DayCache,
	audit *audit.Dispatcher,
) *DeleteConsultation {
	return &DeleteConsultation{
		repo:  repo,
		notes: notes,
		cache: cache,
		audit: audit,
	}
}

// Execute soft-deletes the row and every association, then removes the notes
// for good. The row could in principle be restored; the notes cannot.
func (uc *DeleteConsultation) Execute(
	ctx context.Context,
	id uuid.UUID,
) error {

	var date string

	err := uc.repo.Transaction(ctx, func(tx domain.Repository) error {
		current, err := tx.GetActiveConsultation(ctx, id)
		if err != nil {
			return err
		}
		date = current.Date

		if err := tx.SoftDeleteConsultation(ctx, id); err != nil {
			return err
		}

		return tx.DeactivateAllAssociations(ctx, id)
	})
	if err != nil {
		return storeFailure(err)
	}

	uc.cache.Invalidate(ctx, date)
	dispatch(uc.audit, "consultation_deleted", id, map[string]string{"date": date})

	if err := uc.notes.Remove(ctx, id); err != nil {
		logger.WithField("consultation_id", id).
			WithError(err).
			Error("consultation deleted but notes remain")
		return httperr.IO(
			"notes_remove_failed",
			"The consultation was deleted but its notes could not be removed.",
			err,
		)
	}

	return nil
}
