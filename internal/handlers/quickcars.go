package handlers

import (
	"log"

	"github.com/gin-gonic/gin"
	"github.com/quickcar/quickcar-backend/internal/models"
	"github.com/quickcar/quickcar-backend/internal/services"
	"gorm.io/gorm"
)

// CreateQuickCar registers a driver's vehicle-sharing listing
func CreateQuickCar(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input struct {
			DriverID          uint            `json:"driverId" binding:"required"`
			VehicleType       string          `json:"vehicleType" binding:"required,oneof=car moto"`
			VehicleModel      string          `json:"vehicleModel"`
			RouteStart        models.GeoPoint `json:"routeStart" binding:"required"`
			RouteEnd          models.GeoPoint `json:"routeEnd" binding:"required"`
			StartLocationName string          `json:"startLocationName" binding:"required"`
			EndLocationName   string          `json:"endLocationName" binding:"required"`
			StartHour         int             `json:"startHour" binding:"min=0,max=23"`
			StartMinute       int             `json:"startMinute" binding:"min=0,max=59"`
			EndHour           int             `json:"endHour" binding:"min=0,max=23"`
			EndMinute         int             `json:"endMinute" binding:"min=0,max=59"`
			AvailableSeats    int             `json:"availableSeats" binding:"required,min=1"`
			PricePerSeat      float64         `json:"pricePerSeat" binding:"required"`
			PricePerKilometer float64         `json:"pricePerKilometer"`
		}

		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}

		if err := input.RouteStart.Validate(); err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}
		if err := input.RouteEnd.Validate(); err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}

		var existing models.QuickCar
		if err := db.Where("driver_id = ?", input.DriverID).First(&existing).Error; err == nil {
			c.JSON(409, gin.H{"error": "Driver already has a listing"})
			return
		}

		quickCar := models.QuickCar{
			DriverID:          input.DriverID,
			IsActive:          true,
			CurrentLocation:   input.RouteStart,
			RouteStart:        input.RouteStart,
			RouteEnd:          input.RouteEnd,
			StartLocationName: input.StartLocationName,
			EndLocationName:   input.EndLocationName,
			StartHour:         input.StartHour,
			StartMinute:       input.StartMinute,
			EndHour:           input.EndHour,
			EndMinute:         input.EndMinute,
			AvailableSeats:    input.AvailableSeats,
			PricePerSeat:      input.PricePerSeat,
			PricePerKilometer: input.PricePerKilometer,
			VehicleType:       input.VehicleType,
			VehicleModel:      input.VehicleModel,
		}

		if err := db.Create(&quickCar).Error; err != nil {
			c.JSON(500, gin.H{"error": "Failed to create listing"})
			return
		}

		c.JSON(201, quickCar)
	}
}

// GetQuickCar retrieves a single listing with its driver profile
func GetQuickCar(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.Param("id")

		var quickCar models.QuickCar
		if err := db.Preload("Driver").First(&quickCar, id).Error; err != nil {
			c.JSON(404, gin.H{"error": "Listing not found"})
			return
		}

		c.JSON(200, quickCar)
	}
}

// GetActiveQuickCars lists all listings currently offering rides
func GetActiveQuickCars(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var quickCars []models.QuickCar
		if err := db.Preload("Driver").
			Where("is_active = ?", true).
			Find(&quickCars).Error; err != nil {
			c.JSON(500, gin.H{"error": "Failed to fetch listings"})
			return
		}

		c.JSON(200, quickCars)
	}
}

// UpdateQuickCar edits a listing's schedule, capacity and pricing
func UpdateQuickCar(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.Param("id")

		var quickCar models.QuickCar
		if err := db.First(&quickCar, id).Error; err != nil {
			c.JSON(404, gin.H{"error": "Listing not found"})
			return
		}

		var input struct {
			IsActive       *bool    `json:"isActive"`
			StartHour      *int     `json:"startHour"`
			StartMinute    *int     `json:"startMinute"`
			EndHour        *int     `json:"endHour"`
			EndMinute      *int     `json:"endMinute"`
			AvailableSeats *int     `json:"availableSeats"`
			PricePerSeat   *float64 `json:"pricePerSeat"`
			VehicleModel   *string  `json:"vehicleModel"`
		}

		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}

		if input.IsActive != nil {
			quickCar.IsActive = *input.IsActive
		}
		if input.StartHour != nil {
			quickCar.StartHour = *input.StartHour
		}
		if input.StartMinute != nil {
			quickCar.StartMinute = *input.StartMinute
		}
		if input.EndHour != nil {
			quickCar.EndHour = *input.EndHour
		}
		if input.EndMinute != nil {
			quickCar.EndMinute = *input.EndMinute
		}
		if input.AvailableSeats != nil {
			if *input.AvailableSeats < 1 {
				c.JSON(400, gin.H{"error": "availableSeats must be at least 1"})
				return
			}
			quickCar.AvailableSeats = *input.AvailableSeats
		}
		if input.PricePerSeat != nil {
			quickCar.PricePerSeat = *input.PricePerSeat
		}
		if input.VehicleModel != nil {
			quickCar.VehicleModel = *input.VehicleModel
		}

		if err := db.Save(&quickCar).Error; err != nil {
			c.JSON(500, gin.H{"error": "Failed to update listing"})
			return
		}

		c.JSON(200, quickCar)
	}
}

// DeleteQuickCar soft deletes a listing
func DeleteQuickCar(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.Param("id")

		var quickCar models.QuickCar
		if err := db.First(&quickCar, id).Error; err != nil {
			c.JSON(404, gin.H{"error": "Listing not found"})
			return
		}

		if err := db.Delete(&quickCar).Error; err != nil {
			c.JSON(500, gin.H{"error": "Failed to delete listing"})
			return
		}

		c.JSON(200, gin.H{"message": "Listing deleted"})
	}
}

// UpdateQuickCarLocation handles driver live-position updates
func UpdateQuickCarLocation(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.Param("id")

		var input struct {
			Latitude  *float64 `json:"latitude" binding:"required"`
			Longitude *float64 `json:"longitude" binding:"required"`
		}

		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}

		point := models.GeoPoint{Latitude: *input.Latitude, Longitude: *input.Longitude}
		if err := point.Validate(); err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}

		var quickCar models.QuickCar
		if err := db.First(&quickCar, id).Error; err != nil {
			c.JSON(404, gin.H{"error": "Listing not found"})
			return
		}

		quickCar.CurrentLocation = point
		if err := db.Save(&quickCar).Error; err != nil {
			c.JSON(500, gin.H{"error": "Failed to update location"})
			return
		}

		// Mirror the position into Redis for cheap status reads
		if services.RedisClient != nil {
			if err := services.SetListingLocation(c.Request.Context(), quickCar.ID, point.Latitude, point.Longitude); err != nil {
				log.Printf("failed to cache listing location: %v", err)
			}
		}

		c.JSON(200, gin.H{
			"message":  "Location updated successfully",
			"location": point,
		})
	}
}

// GetQuickCarLocation reads a listing's live position, preferring the Redis
// mirror and falling back to the database record.
func GetQuickCarLocation(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.Param("id")

		var quickCar models.QuickCar
		if err := db.First(&quickCar, id).Error; err != nil {
			c.JSON(404, gin.H{"error": "Listing not found"})
			return
		}

		lat := quickCar.CurrentLocation.Latitude
		lng := quickCar.CurrentLocation.Longitude

		if services.RedisClient != nil {
			if cachedLat, cachedLng, err := services.GetListingLocation(c.Request.Context(), quickCar.ID); err == nil {
				lat, lng = cachedLat, cachedLng
			}
		}

		c.JSON(200, gin.H{
			"quickCarId": quickCar.ID,
			"isActive":   quickCar.IsActive,
			"location":   gin.H{"latitude": lat, "longitude": lng},
		})
	}
}
