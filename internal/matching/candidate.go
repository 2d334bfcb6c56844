package matching

import (
	"fmt"
	"time"

	"github.com/quickcar/quickcar-backend/internal/models"
)

// Candidate is a per-query snapshot of a listing that passed the proximity
// check. It is never persisted; each lookup builds a fresh list.
type Candidate struct {
	QuickCarID        uint            `json:"quickCarId"`
	DriverID          uint            `json:"driverId"`
	DriverName        string          `json:"driverName,omitempty"`
	DriverImage       string          `json:"driverImage,omitempty"`
	VehicleType       string          `json:"vehicleType"`
	VehicleModel      string          `json:"vehicleModel"`
	StartLocationName string          `json:"startLocationName"`
	EndLocationName   string          `json:"endLocationName"`
	StartTime         TimeOfDay       `json:"startTime"`
	EndTime           TimeOfDay       `json:"endTime"`
	CurrentLocation   models.GeoPoint `json:"currentLocation"`
	AvailableSeats    int             `json:"availableSeats"`
	PricePerSeat      float64         `json:"pricePerSeat"`
	DistanceKm        float64         `json:"distanceKm"`
	EstimatedMinutes  int             `json:"estimatedMinutes"`

	// RemainingSeats is only populated on the trip-aware path, after seat
	// reconciliation.
	RemainingSeats int `json:"remainingSeats,omitempty"`
}

// TimeOfDay is an hour/minute pair as stored on a listing's schedule.
type TimeOfDay struct {
	Hour   int `json:"hour"`
	Minute int `json:"minute"`
}

// TripIntent describes a passenger's planned trip: where it starts and ends,
// when it should depart, how many seats it needs and on which day.
type TripIntent struct {
	Start          models.GeoPoint
	End            models.GeoPoint
	StartHour      int
	StartMinute    int
	SeatsRequested int
	TripDate       time.Time
}

// Validate rejects intents the matcher cannot act on before any storage
// access happens.
func (t TripIntent) Validate() error {
	if err := t.Start.Validate(); err != nil {
		return fmt.Errorf("start location: %w", err)
	}
	if err := t.End.Validate(); err != nil {
		return fmt.Errorf("end location: %w", err)
	}
	if t.StartHour < 0 || t.StartHour > 23 {
		return fmt.Errorf("start hour must be between 0 and 23")
	}
	if t.StartMinute < 0 || t.StartMinute > 59 {
		return fmt.Errorf("start minute must be between 0 and 59")
	}
	if t.SeatsRequested < 1 {
		return fmt.Errorf("at least one seat must be requested")
	}
	if t.TripDate.IsZero() {
		return fmt.Errorf("trip date is required")
	}
	return nil
}

// Midpoint returns the approximate center of the intended trip.
func (t TripIntent) Midpoint() models.GeoPoint {
	return models.GeoPoint{
		Latitude:  (t.Start.Latitude + t.End.Latitude) / 2,
		Longitude: (t.Start.Longitude + t.End.Longitude) / 2,
	}
}
