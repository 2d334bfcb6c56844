package database

import (
	"context"

	"github.com/quickcar/quickcar-backend/internal/models"
	"github.com/quickcar/quickcar-backend/pkg/utils"
	"gorm.io/gorm"
)

// QuickCarStore reads listings for the matcher. The bounding-box queries are
// pre-filters: they use inclusive BETWEEN bounds so a listing sitting exactly
// on a box edge is still a candidate.
type QuickCarStore struct {
	db *gorm.DB
}

func NewQuickCarStore(db *gorm.DB) *QuickCarStore {
	return &QuickCarStore{db: db}
}

// FindActiveInBox returns active listings whose current position lies inside
// the box, with the driver profile preloaded for response formatting.
func (s *QuickCarStore) FindActiveInBox(ctx context.Context, box utils.BoundingBox) ([]models.QuickCar, error) {
	var listings []models.QuickCar
	err := s.db.WithContext(ctx).
		Preload("Driver").
		Where("is_active = ?", true).
		Where("current_latitude BETWEEN ? AND ?", box.SouthWest.Lat, box.NorthEast.Lat).
		Where("current_longitude BETWEEN ? AND ?", box.SouthWest.Lng, box.NorthEast.Lng).
		Find(&listings).Error
	if err != nil {
		return nil, err
	}
	return listings, nil
}

// FindBookableInBox narrows FindActiveInBox to listings with at least
// minSeats total capacity whose scheduled departure is at or before the
// given time of day (hour compared first, minute breaks ties).
func (s *QuickCarStore) FindBookableInBox(ctx context.Context, box utils.BoundingBox, minSeats, hour, minute int) ([]models.QuickCar, error) {
	var listings []models.QuickCar
	err := s.db.WithContext(ctx).
		Preload("Driver").
		Where("is_active = ?", true).
		Where("current_latitude BETWEEN ? AND ?", box.SouthWest.Lat, box.NorthEast.Lat).
		Where("current_longitude BETWEEN ? AND ?", box.SouthWest.Lng, box.NorthEast.Lng).
		Where("available_seats >= ?", minSeats).
		Where("(start_hour < ? OR (start_hour = ? AND start_minute <= ?))", hour, hour, minute).
		Find(&listings).Error
	if err != nil {
		return nil, err
	}
	return listings, nil
}
