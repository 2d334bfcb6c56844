package database

import (
	"github.com/quickcar/quickcar-backend/internal/models"
	"gorm.io/gorm"
)

func RunMigrations(db *gorm.DB) error {
	// Create tables if they don't exist
	err := db.AutoMigrate(
		&models.User{},
		&models.QuickCar{},
		&models.Trip{},
	)
	if err != nil {
		return err
	}

	// Composite index backing the bounding-box pre-filter
	if err := db.Exec(`CREATE INDEX IF NOT EXISTS idx_quickcars_active_position
		ON quickcars (is_active, current_latitude, current_longitude)`).Error; err != nil {
		return err
	}

	// Constrain trip status to the known lifecycle states
	db.Exec(`ALTER TABLE trips DROP CONSTRAINT IF EXISTS trips_status_check`)
	if err := db.Exec(`ALTER TABLE trips ADD CONSTRAINT trips_status_check
		CHECK (status IN ('Created', 'Ongoing', 'Completed', 'Canceled', 'Pending'))`).Error; err != nil {
		return err
	}

	return nil
}
