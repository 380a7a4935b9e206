package consultation

import (
	"context"
	"time"

	"github.com/google/uuid"

	domain "github.com/wandyflor/TheraKairos-MartinoAndrea/internal/domain/consultation"
	"github.com/wandyflor/TheraKairos-MartinoAndrea/internal/dto"
	"github.com/wandyflor/TheraKairos-MartinoAndrea/internal/httperr"
)

type GetConsultation struct {
	repo domain.Repository
}

func NewGetConsultation(repo domain.Repository) *GetConsultation {
	return &GetConsultation{repo: repo}
}

func (uc *GetConsultation) Execute(
	ctx context.Context,
	id uuid.UUID,
) (*dto.ConsultationView, error) {

	c, err := uc.repo.GetActiveConsultation(ctx, id)
	if err != nil {
		return nil, storeFailure(err)
	}

	view := dto.NewConsultationView(c)
	return &view, nil
}

// ListConsultationsByDate serves a day of the book, ordered by start time,
// from the cache when it can.
type ListConsultationsByDate struct {
	repo  domain.Repository
	cache DayCache
}

func NewListConsultationsByDate(
	repo domain.Repository,
	cache DayCache,
) *ListConsultationsByDate {
	return &ListConsultationsByDate{
		repo:  repo,
		cache: cache,
	}
}

func (uc *ListConsultationsByDate) Execute(
	ctx context.Context,
	date string,
) ([]dto.ConsultationView, error) {

	d, err := time.Parse(domain.DateLayout, date)
	if err != nil {
		return nil, httperr.Validation("invalid_date", "The date must use the format YYYY-MM-DD.")
	}
	date = d.Format(domain.DateLayout)

	if views, ok := uc.cache.Get(ctx, date); ok {
		return views, nil
	}
	version := uc.cache.Version(ctx, date)

	list, err := uc.repo.ListActiveConsultationsByDate(ctx, date)
	if err != nil {
		return nil, storeFailure(err)
	}

	views := dto.NewConsultationViews(list)
	uc.cache.SetIfUnchanged(ctx, date, version, views)

	return views, nil
}

type OpenNotes struct {
	repo  domain.Repository
	notes domain.NotesStore
}

func NewOpenNotes(
	repo domain.Repository,
	notes domain.NotesStore,
) *OpenNotes {
	return &OpenNotes{
		repo:  repo,
		notes: notes,
	}
}

// Execute returns where the notes can be opened: a local path or a URL,
// depending on the store.
func (uc *OpenNotes) Execute(
	ctx context.Context,
	id uuid.UUID,
) (string, error) {

	if _, err := uc.repo.GetActiveConsultation(ctx, id); err != nil {
		return "", storeFailure(err)
	}

	location, err := uc.notes.Open(ctx, id)
	if err != nil {
		return "", httperr.Wrap(err, "notes_open_failed", "The notes could not be opened.")
	}
	return location, nil
}
