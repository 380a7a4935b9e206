package consultation

import (
	"context"

	"github.com/wandyflor/TheraKairos-MartinoAndrea/internal/audit"
	domain "github.com/wandyflor/TheraKairos-MartinoAndrea/internal/domain/consultation"
	"github.com/wandyflor/TheraKairos-MartinoAndrea/internal/dto"
	"github.com/wandyflor/TheraKairos-MartinoAndrea/internal/httperr"
	"github.com/wandyflor/TheraKairos-MartinoAndrea/internal/logger"
	"github.com/wandyflor/TheraKairos-MartinoAndrea/internal/models"
)

type InsertConsultation struct {
	repo  domain.Repository
	notes domain.NotesStore
	cache DayCache
	audit *audit.Dispatcher
}

func NewInsertConsultation(
	repo domain.Repository,
	notes domain.NotesStore,
	cache DayCache,
	audit *audit.Dispatcher,
) *InsertConsultation {
	return &InsertConsultation{
		repo:  repo,
		notes: notes,
		cache: cache,
		audit: audit,
	}
}

// Execute persists the consultation and its patients in one transaction and
// provisions the notes afterwards. When provisioning fails the consultation
// stays saved: the view is returned together with the IO error.
func (uc *InsertConsultation) Execute(
	ctx context.Context,
	in ConsultationInput,
) (*dto.ConsultationView, error) {

	draft, err := prepare(in)
	if err != nil {
		return nil, err
	}

	var created *models.Consultation

	err = uc.repo.Transaction(ctx, func(tx domain.Repository) error {
		if err := domain.CheckSlot(ctx, tx, draft, nil); err != nil {
			return err
		}

		if err := ensurePatients(ctx, tx, in.Patients); err != nil {
			return err
		}

		c := domain.NewConsultation(draft)
		if err := tx.CreateConsultation(ctx, c); err != nil {
			return err
		}

		plan := domain.PlanReconciliation(nil, in.Patients)
		if err := domain.Apply(ctx, tx, c.ID, plan); err != nil {
			return err
		}

		created, err = tx.GetActiveConsultation(ctx, c.ID)
		return err
	})
	if err != nil {
		if httperr.IsBusiness(err, "slot_taken") {
			uc.audit.Dispatch(audit.Event{
				Action:   "consultation_slot_conflict",
				Entity:   "consultation",
				Metadata: map[string]string{"date": draft.Date, "start_time": draft.StartTime},
			})
		}
		return nil, storeFailure(err)
	}

	uc.cache.Invalidate(ctx, created.Date)
	dispatch(uc.audit, "consultation_created", created.ID, map[string]any{
		"date":       created.Date,
		"start_time": created.StartTime,
		"patients":   len(in.Patients),
	})

	view := dto.NewConsultationView(created)

	if err := uc.notes.Provision(ctx, created.ID); err != nil {
		logger.WithField("consultation_id", created.ID).
			WithError(err).
			Error("consultation saved without notes")
		return &view, httperr.IO(
			"notes_provision_failed",
			"The consultation was saved but its notes could not be created.",
			err,
		)
	}

	return &view, nil
}
