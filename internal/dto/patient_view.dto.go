package dto

import (
	"github.com/google/uuid"

	"github.com/wandyflor/TheraKairos-MartinoAndrea/internal/models"
)

type PatientView struct {
	ID                uuid.UUID `json:"id"`
	DNI               string    `json:"dni"`
	Name              string    `json:"name"`
	LastName          string    `json:"last_name"`
	BirthDate         string    `json:"birth_date"`
	Occupation        string    `json:"occupation"`
	Phone             string    `json:"phone"`
	Email             string    `json:"email"`
	CityID            uuid.UUID `json:"city_id"`
	CityName          string    `json:"city_name,omitempty"`
	Address           string    `json:"address"`
	AddressNumber     int       `json:"address_number"`
	AddressFloor      *int      `json:"address_floor,omitempty"`
	AddressDepartment string    `json:"address_department,omitempty"`
	PhotoPath         string    `json:"photo_path,omitempty"`
}

func NewPatientView(p *models.Patient) PatientView {
	return PatientView{
		ID:                p.ID,
		DNI:               p.DNI,
		Name:              p.Name,
		LastName:          p.LastName,
		BirthDate:         p.BirthDate,
		Occupation:        p.Occupation,
		Phone:             p.Phone,
		Email:             p.Email,
		CityID:            p.CityID,
		CityName:          p.City.Name,
		Address:           p.Address,
		AddressNumber:     p.AddressNumber,
		AddressFloor:      p.AddressFloor,
		AddressDepartment: p.AddressDepartment,
		PhotoPath:         p.PhotoPath,
	}
}

func NewPatientViews(list []models.Patient) []PatientView {
	out := make([]PatientView, 0, len(list))
	for i := range list {
		out = append(out, NewPatientView(&list[i]))
	}
	return out
}
