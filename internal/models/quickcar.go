package models

import (
	"gorm.io/gorm"
)

// VehicleType constants
const (
	VehicleTypeCar  = "car"
	VehicleTypeMoto = "moto"
)

// QuickCar represents a driver's active vehicle-sharing listing: a vehicle,
// a regular route with fixed endpoints and a scheduled departure time, and a
// seat capacity. Capacity is never decremented here; seats consumed by trips
// are computed on demand against the trips table.
type QuickCar struct {
	gorm.Model
	DriverID uint  `json:"driverId" gorm:"not null;uniqueIndex"`
	Driver   *User `json:"driver,omitempty" gorm:"foreignKey:DriverID"`

	IsActive bool `json:"isActive" gorm:"not null;default:false;index"`

	// CurrentLocation is the driver's live position, updated by the driver's
	// device through the location endpoint.
	CurrentLocation GeoPoint `json:"currentLocation" gorm:"embedded;embeddedPrefix:current_"`

	// RouteStart and RouteEnd are the fixed endpoints of the listing's
	// regular schedule.
	RouteStart        GeoPoint `json:"routeStart" gorm:"embedded;embeddedPrefix:start_"`
	RouteEnd          GeoPoint `json:"routeEnd" gorm:"embedded;embeddedPrefix:end_"`
	StartLocationName string   `json:"startLocationName"`
	EndLocationName   string   `json:"endLocationName"`

	StartHour   int `json:"startHour" gorm:"not null"`
	StartMinute int `json:"startMinute" gorm:"not null"`
	EndHour     int `json:"endHour"`
	EndMinute   int `json:"endMinute"`

	AvailableSeats    int     `json:"availableSeats" gorm:"not null"`
	PricePerSeat      float64 `json:"pricePerSeat" gorm:"not null"`
	PricePerKilometer float64 `json:"pricePerKilometer"`

	VehicleType  string `json:"vehicleType" gorm:"not null"`
	VehicleModel string `json:"vehicleModel"`
}

// TableName specifies the table name
func (QuickCar) TableName() string {
	return "quickcars"
}

// RouteMidpoint returns the arithmetic midpoint of the listing's route
// endpoints. This is an approximation, not a geodesic midpoint.
func (q *QuickCar) RouteMidpoint() GeoPoint {
	return GeoPoint{
		Latitude:  (q.RouteStart.Latitude + q.RouteEnd.Latitude) / 2,
		Longitude: (q.RouteStart.Longitude + q.RouteEnd.Longitude) / 2,
	}
}

// DepartsBy reports whether the listing's scheduled start time is at or
// before the given hour and minute. Hours are compared first, minutes break
// ties.
func (q *QuickCar) DepartsBy(hour, minute int) bool {
	if q.StartHour != hour {
		return q.StartHour < hour
	}
	return q.StartMinute <= minute
}
