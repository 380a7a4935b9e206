package city

import (
	"context"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/wandyflor/TheraKairos-MartinoAndrea/internal/httperr"
	"github.com/wandyflor/TheraKairos-MartinoAndrea/internal/models"
)

var zipPattern = regexp.MustCompile(`^\d{4,10}$`)

const maxNameLength = 100

type Repository interface {
	CreateCity(ctx context.Context, c *models.City) error
	UpdateCity(ctx context.Context, c *models.City) error
	DeleteCity(ctx context.Context, id uuid.UUID) error
	GetCity(ctx context.Context, id uuid.UUID) (*models.City, error)
	ListCities(ctx context.Context) ([]models.City, error)

	// NameTaken ignores excludeID so a city can keep its own name on update.
	NameTaken(ctx context.Context, name string, excludeID *uuid.UUID) (bool, error)
}

type Input struct {
	Name    string
	ZIPCode string
}

// Normalize trims and lower-cases the name so uniqueness is case-insensitive.
func Normalize(in Input) Input {
	return Input{
		Name:    strings.ToLower(strings.TrimSpace(in.Name)),
		ZIPCode: strings.TrimSpace(in.ZIPCode),
	}
}

func Validate(
	ctx context.Context,
	repo Repository,
	in Input,
	excludeID *uuid.UUID,
) (Input, error) {

	in = Normalize(in)

	if in.Name == "" {
		return in, httperr.Validation("city_name_required", "The city name is required.")
	}
	if utf8.RuneCountInString(in.Name) > maxNameLength {
		return in, httperr.Validation("city_name_too_long", "The city name cannot exceed 100 characters.")
	}
	if in.ZIPCode == "" {
		return in, httperr.Validation("zip_code_required", "The postal code is required.")
	}
	if !zipPattern.MatchString(in.ZIPCode) {
		return in, httperr.Validation("invalid_zip_code", "The postal code must have 4 to 10 digits.")
	}

	taken, err := repo.NameTaken(ctx, in.Name, excludeID)
	if err != nil {
		return in, err
	}
	if taken {
		return in, httperr.Conflict("city_name_taken", "A city with this name already exists.")
	}

	return in, nil
}
