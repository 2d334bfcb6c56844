package models

import (
	"time"

	"gorm.io/gorm"
)

type TripStatus string

const (
	TripStatusCreated   TripStatus = "Created"
	TripStatusOngoing   TripStatus = "Ongoing"
	TripStatusCompleted TripStatus = "Completed"
	TripStatusCanceled  TripStatus = "Canceled"
	TripStatusPending   TripStatus = "Pending"
)

// SeatConsumingStatuses are the trip states that count against a listing's
// capacity. Canceled and Completed trips release their seats.
var SeatConsumingStatuses = []TripStatus{TripStatusCreated, TripStatusOngoing}

// Trip is a booking of seats on a QuickCar listing for a given date.
type Trip struct {
	gorm.Model
	QuickCarID uint      `json:"quickCarId" gorm:"not null;index"`
	QuickCar   *QuickCar `json:"quickCar,omitempty" gorm:"foreignKey:QuickCarID"`

	PassengerID uint  `json:"passengerId" gorm:"not null"`
	Passenger   *User `json:"passenger,omitempty" gorm:"foreignKey:PassengerID"`

	// TripDate is the calendar day of the trip, normalized to midnight UTC.
	TripDate time.Time `json:"tripDate" gorm:"not null;index"`

	Status                 TripStatus `json:"status" gorm:"not null;default:'Created'"`
	NumberOfSeatsRequested int        `json:"numberOfSeatsRequested" gorm:"not null"`
	TotalRate              float64    `json:"totalRate"`
	PaymentType            string     `json:"paymentType"`
}

// TableName specifies the table name
func (Trip) TableName() string {
	return "trips"
}

// NormalizeDate truncates a timestamp to its calendar day in UTC so that
// same-day trips compare equal regardless of the time component.
func NormalizeDate(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
