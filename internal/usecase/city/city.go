package city

import (
	"context"

	"github.com/google/uuid"

	"github.com/wandyflor/TheraKairos-MartinoAndrea/internal/audit"
	domain "github.com/wandyflor/TheraKairos-MartinoAndrea/internal/domain/city"
	"github.com/wandyflor/TheraKairos-MartinoAndrea/internal/httperr"
	"github.com/wandyflor/TheraKairos-MartinoAndrea/internal/models"
)

func dispatch(d *audit.Dispatcher, action string, id uuid.UUID) {
	d.Dispatch(audit.Event{
		Action:   action,
		Entity:   "city",
		EntityID: &id,
	})
}

func storeFailure(err error) error {
	return httperr.Wrap(err, "store_failure", "The operation could not be completed.")
}

// ======================================================
// CREATE
// ======================================================

type CreateCity struct {
	repo  domain.Repository
	audit *audit.Dispatcher
}

func NewCreateCity(repo domain.Repository, audit *audit.Dispatcher) *CreateCity {
	return &CreateCity{repo: repo, audit: audit}
}

func (uc *CreateCity) Execute(ctx context.Context, in domain.Input) (*models.City, error) {
	in, err := domain.Validate(ctx, uc.repo, in, nil)
	if err != nil {
		return nil, storeFailure(err)
	}

	c := &models.City{
		ID:      uuid.New(),
		Name:    in.Name,
		ZIPCode: in.ZIPCode,
	}
	if err := uc.repo.CreateCity(ctx, c); err != nil {
		return nil, storeFailure(err)
	}

	dispatch(uc.audit, "city_created", c.ID)
	return c, nil
}

// ======================================================
// UPDATE
// ======================================================

type UpdateCity struct {
	repo  domain.Repository
	audit *audit.Dispatcher
}

func NewUpdateCity(repo domain.Repository, audit *audit.Dispatcher) *UpdateCity {
	return &UpdateCity{repo: repo, audit: audit}
}

func (uc *UpdateCity) Execute(ctx context.Context, id uuid.UUID, in domain.Input) (*models.City, error) {
	in, err := domain.Validate(ctx, uc.repo, in, &id)
	if err != nil {
		return nil, storeFailure(err)
	}

	c := &models.City{
		ID:      id,
		Name:    in.Name,
		ZIPCode: in.ZIPCode,
	}
	if err := uc.repo.UpdateCity(ctx, c); err != nil {
		return nil, storeFailure(err)
	}

	dispatch(uc.audit, "city_updated", id)
	return uc.repo.GetCity(ctx, id)
}

// ======================================================
// DELETE
// ======================================================

type DeleteCity struct {
	repo  domain.Repository
	audit *audit.Dispatcher
}

func NewDeleteCity(repo domain.Repository, audit *audit.Dispatcher) *DeleteCity {
	return &DeleteCity{repo: repo, audit: audit}
}

// Execute fails with a conflict while any patient still points at the city.
func (uc *DeleteCity) Execute(ctx context.Context, id uuid.UUID) error {
	if err := uc.repo.DeleteCity(ctx, id); err != nil {
		return storeFailure(err)
	}

	dispatch(uc.audit, "city_deleted", id)
	return nil
}

// ======================================================
// READ
// ======================================================

type GetCity struct {
	repo domain.Repository
}

func NewGetCity(repo domain.Repository) *GetCity {
	return &GetCity{repo: repo}
}

func (uc *GetCity) Execute(ctx context.Context, id uuid.UUID) (*models.City, error) {
	c, err := uc.repo.GetCity(ctx, id)
	if err != nil {
		return nil, storeFailure(err)
	}
	return c, nil
}

type ListCities struct {
	repo domain.Repository
}

func NewListCities(repo domain.Repository) *ListCities {
	return &ListCities{repo: repo}
}

func (uc *ListCities) Execute(ctx context.Context) ([]models.City, error) {
	list, err := uc.repo.ListCities(ctx)
	if err != nil {
		return nil, storeFailure(err)
	}
	return list, nil
}
