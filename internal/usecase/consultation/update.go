package consultation

import (
	"context"

	"github.com/google/uuid"

	"github.com/wandyflor/TheraKairos-MartinoAndrea/internal/audit"
	domain "github.com/wandyflor/TheraKairos-MartinoAndrea/internal/domain/consultation"
	"github.com/wandyflor/TheraKairos-MartinoAndrea/internal/dto"
	"github.com/wandyflor/TheraKairos-MartinoAndrea/internal/models"
)

type UpdateConsultation struct {
	repo  domain.Repository
	cache DayCache
	audit *audit.Dispatcher
}

func NewUpdateConsultation(
	repo domain.Repository,
	cache DayCache,
	audit *audit.Dispatcher,
) *UpdateConsultation {
	return &UpdateConsultation{
		repo:  repo,
		cache: cache,
		audit: audit,
	}
}

func (uc *UpdateConsultation) Execute(
	ctx context.Context,
	id uuid.UUID,
	in ConsultationInput,
) (*dto.ConsultationView, error) {

	draft, err := prepare(in)
	if err != nil {
		return nil, err
	}

	var (
		previousDate string
		updated      *models.Consultation
		plan         domain.Plan
	)

	err = uc.repo.Transaction(ctx, func(tx domain.Repository) error {
		current, err := tx.GetActiveConsultation(ctx, id)
		if err != nil {
			return err
		}
		previousDate = current.Date

		if err := domain.CheckSlot(ctx, tx, draft, &id); err != nil {
			return err
		}

		if err := ensurePatients(ctx, tx, in.Patients); err != nil {
			return err
		}

		draft.ApplyTo(current)
		if err := tx.UpdateConsultation(ctx, current); err != nil {
			return err
		}

		plan, err = domain.Reconcile(ctx, tx, id, in.Patients)
		if err != nil {
			return err
		}

		updated, err = tx.GetActiveConsultation(ctx, id)
		return err
	})
	if err != nil {
		return nil, storeFailure(err)
	}

	uc.cache.Invalidate(ctx, previousDate, updated.Date)
	dispatch(uc.audit, "consultation_updated", id, map[string]any{
		"date":        updated.Date,
		"start_time":  updated.StartTime,
		"inserted":    plan.Count(domain.OpInsert),
		"reactivated": plan.Count(domain.OpReactivate),
		"paid":        plan.Count(domain.OpMarkPaid),
		"removed":     plan.Count(domain.OpDeactivate),
	})

	view := dto.NewConsultationView(updated)
	return &view, nil
}
