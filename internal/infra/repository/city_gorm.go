package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	domain "github.com/wandyflor/TheraKairos-MartinoAndrea/internal/domain/city"
	"github.com/wandyflor/TheraKairos-MartinoAndrea/internal/httperr"
	"github.com/wandyflor/TheraKairos-MartinoAndrea/internal/models"
)

type CityGormRepository struct {
	db *gorm.DB
}

func NewCityGormRepository(db *gorm.DB) *CityGormRepository {
	return &CityGormRepository{db: db}
}

func errCityNotFound() error {
	return httperr.NotFoundErr("city_not_found", "City not found.")
}

func (r *CityGormRepository) CreateCity(
	ctx context.Context,
	c *models.City,
) error {
	return translate(r.db.WithContext(ctx).Create(c).Error, "city", "City")
}

func (r *CityGormRepository) UpdateCity(
	ctx context.Context,
	c *models.City,
) error {

	res := r.db.WithContext(ctx).
		Model(&models.City{}).
		Where("id = ?", c.ID).
		Updates(map[string]any{
			"name":     c.Name,
			"zip_code": c.ZIPCode,
		})

	if res.Error != nil {
		return translate(res.Error, "city", "City")
	}
	if res.RowsAffected == 0 {
		return errCityNotFound()
	}
	return nil
}

// DeleteCity removes the row. A city still referenced by a patient is a conflict.
func (r *CityGormRepository) DeleteCity(
	ctx context.Context,
	id uuid.UUID,
) error {

	res := r.db.WithContext(ctx).Delete(&models.City{}, "id = ?", id)

	if isForeignKeyViolation(res.Error) {
		return httperr.Conflict("city_in_use", "The city is referenced by at least one patient.")
	}
	if res.Error != nil {
		return translate(res.Error, "city", "City")
	}
	if res.RowsAffected == 0 {
		return errCityNotFound()
	}
	return nil
}

func (r *CityGormRepository) GetCity(
	ctx context.Context,
	id uuid.UUID,
) (*models.City, error) {

	var c models.City
	if err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&c).Error; err != nil {
		return nil, translate(err, "city", "City")
	}
	return &c, nil
}

func (r *CityGormRepository) ListCities(
	ctx context.Context,
) ([]models.City, error) {

	var list []models.City
	if err := r.db.WithContext(ctx).
		Order("name ASC").
		Find(&list).Error; err != nil {
		return nil, translate(err, "city", "City")
	}
	return list, nil
}

func (r *CityGormRepository) NameTaken(
	ctx context.Context,
	name string,
	excludeID *uuid.UUID,
) (bool, error) {

	q := r.db.WithContext(ctx).
		Model(&models.City{}).
		Where("name = ?", name)

	if excludeID != nil {
		q = q.Where("id <> ?", *excludeID)
	}

	var count int64
	if err := q.Count(&count).Error; err != nil {
		return false, translate(err, "city", "City")
	}
	return count > 0, nil
}

// Compile-time check
var _ domain.Repository = (*CityGormRepository)(nil)
