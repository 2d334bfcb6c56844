package database

import (
	"context"
	"time"

	"github.com/quickcar/quickcar-backend/internal/models"
	"gorm.io/gorm"
)

// TripStore reads bookings for seat reconciliation.
type TripStore struct {
	db *gorm.DB
}

func NewTripStore(db *gorm.DB) *TripStore {
	return &TripStore{db: db}
}

// FindSeatConsuming returns the trips booked against the given listings on
// the given date whose status still holds seats.
func (s *TripStore) FindSeatConsuming(ctx context.Context, quickCarIDs []uint, tripDate time.Time) ([]models.Trip, error) {
	if len(quickCarIDs) == 0 {
		return nil, nil
	}

	var trips []models.Trip
	err := s.db.WithContext(ctx).
		Where("quick_car_id IN ?", quickCarIDs).
		Where("trip_date = ?", models.NormalizeDate(tripDate)).
		Where("status IN ?", models.SeatConsumingStatuses).
		Find(&trips).Error
	if err != nil {
		return nil, err
	}
	return trips, nil
}
