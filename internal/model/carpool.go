package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Gender is the passenger gender preference of an offer.
type Gender string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
	GenderAny    Gender = "any"
)

// Valid reports whether g is one of the known preferences.
func (g Gender) Valid() bool {
	switch g {
	case GenderMale, GenderFemale, GenderAny:
		return true
	}
	return false
}

// Carpool represents a ride offered by a user.
type Carpool struct {
	ID            uuid.UUID       `json:"id" gorm:"type:char(36);primaryKey"`
	UserID        uuid.UUID       `json:"user_id" gorm:"type:char(36);not null;index;<-:create"` // Owner never changes
	CarName       string          `json:"car_name" gorm:"size:255;not null"`
	Location      string          `json:"location" gorm:"size:255;not null;index"`
	DepartureTime time.Time       `json:"departure_time" gorm:"not null;index"`
	Price         decimal.Decimal `json:"price" gorm:"type:decimal(10,2);not null;default:0"`
	Gender        Gender          `json:"gender" gorm:"type:varchar(10);not null;default:'any'"`
	TotalSeats    int             `json:"total_seats" gorm:"not null"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`

	// Relations
	User User `json:"driver,omitempty" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
}

// BeforeCreate sets UUID before creating the record.
func (c *Carpool) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}
