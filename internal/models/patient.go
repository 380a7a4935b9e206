package models

import (
	"time"

	"github.com/google/uuid"
)

type Patient struct {
	ID uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`

	DNI        string `gorm:"size:8;not null;uniqueIndex:uk_patient_dni,where:state = 'active'" json:"dni"`
	Name       string `gorm:"size:100;not null" json:"name"`
	LastName   string `gorm:"size:100;not null;index" json:"last_name"`
	BirthDate  string `gorm:"type:char(10);not null" json:"birth_date"`
	Occupation string `gorm:"size:100" json:"occupation"`
	Phone      string `gorm:"size:20" json:"phone"`
	Email      string `gorm:"size:100;not null;uniqueIndex:uk_patient_email,where:state = 'active'" json:"email"`

	CityID uuid.UUID `gorm:"type:uuid;not null;index" json:"city_id"`
	City   City      `gorm:"constraint:OnUpdate:CASCADE,OnDelete:RESTRICT;" json:"-"`

	Address           string `gorm:"size:255" json:"address"`
	AddressNumber     int    `json:"address_number"`
	AddressFloor      *int   `json:"address_floor,omitempty"`
	AddressDepartment string `gorm:"size:10" json:"address_department,omitempty"`

	PhotoPath string `gorm:"size:255" json:"photo_path,omitempty"`
	State     State  `gorm:"size:10;not null;default:'active';index" json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
