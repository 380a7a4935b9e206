package repository

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	"github.com/wandyflor/TheraKairos-MartinoAndrea/internal/httperr"
)

const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
)

// Constraint names declared in the models' gorm tags.
const (
	constraintConsultationSlot = "uk_consultation_slot"
	constraintPatientDNI       = "uk_patient_dni"
	constraintPatientEmail     = "uk_patient_email"
	constraintCityName         = "uk_city_name"
)

// pgError unwraps the driver error when there is one.
func pgError(err error) (*pgconn.PgError, bool) {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr, true
	}
	return nil, false
}

func isUniqueViolation(err error, constraint string) bool {
	pgErr, ok := pgError(err)
	return ok && pgErr.Code == pgUniqueViolation && pgErr.ConstraintName == constraint
}

func isForeignKeyViolation(err error) bool {
	pgErr, ok := pgError(err)
	return ok && pgErr.Code == pgForeignKeyViolation
}

// translate maps a store error into the business taxonomy. Constraint
// violations that no caller anticipated, and everything else, become IO.
func translate(err error, code, message string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return httperr.NotFoundErr(code+"_not_found", message+" not found.")
	case isUniqueViolation(err, constraintPatientDNI):
		return httperr.Conflict("dni_taken", "A patient with this DNI already exists.")
	case isUniqueViolation(err, constraintPatientEmail):
		return httperr.Conflict("email_taken", "A patient with this email already exists.")
	case isUniqueViolation(err, constraintCityName):
		return httperr.Conflict("city_name_taken", "A city with this name already exists.")
	}
	return httperr.Wrap(err, "store_failure", "The operation could not be completed.")
}
