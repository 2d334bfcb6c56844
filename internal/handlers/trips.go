package handlers

import (
	"errors"
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/quickcar/quickcar-backend/internal/models"
	"github.com/quickcar/quickcar-backend/internal/observability"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var errNotEnoughSeats = errors.New("not enough seats available")

// CreateTrip books seats on a listing for a given date. Capacity is
// re-checked inside a transaction with the listing row locked, so two
// simultaneous bookings cannot both pass the check and overbook the vehicle.
// The lookup path stays lock-free; only the write pays for serialization.
func CreateTrip(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input struct {
			QuickCarID             uint   `json:"quickCarId" binding:"required"`
			PassengerID            uint   `json:"passengerId" binding:"required"`
			TripDate               string `json:"tripDate" binding:"required"`
			NumberOfSeatsRequested int    `json:"numberOfSeatsRequested" binding:"required,min=1"`
			PaymentType            string `json:"paymentType"`
		}

		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}

		tripDate, err := time.Parse("2006-01-02", input.TripDate)
		if err != nil {
			c.JSON(400, gin.H{"error": "tripDate must be in YYYY-MM-DD format"})
			return
		}

		var trip models.Trip
		err = db.Transaction(func(tx *gorm.DB) error {
			var quickCar models.QuickCar
			if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
				First(&quickCar, input.QuickCarID).Error; err != nil {
				return err
			}

			if !quickCar.IsActive {
				return fmt.Errorf("listing is not active")
			}

			var booked int64
			if err := tx.Model(&models.Trip{}).
				Select("COALESCE(SUM(number_of_seats_requested), 0)").
				Where("quick_car_id = ?", quickCar.ID).
				Where("trip_date = ?", models.NormalizeDate(tripDate)).
				Where("status IN ?", models.SeatConsumingStatuses).
				Scan(&booked).Error; err != nil {
				return err
			}

			remaining := quickCar.AvailableSeats - int(booked)
			if remaining < input.NumberOfSeatsRequested {
				return errNotEnoughSeats
			}

			trip = models.Trip{
				QuickCarID:             quickCar.ID,
				PassengerID:            input.PassengerID,
				TripDate:               models.NormalizeDate(tripDate),
				Status:                 models.TripStatusCreated,
				NumberOfSeatsRequested: input.NumberOfSeatsRequested,
				TotalRate:              quickCar.PricePerSeat * float64(input.NumberOfSeatsRequested),
				PaymentType:            input.PaymentType,
			}

			return tx.Create(&trip).Error
		})

		if errors.Is(err, errNotEnoughSeats) {
			c.JSON(409, gin.H{"error": "Not enough seats available on the requested date"})
			return
		}
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(404, gin.H{"error": "Listing not found"})
			return
		}
		if err != nil {
			c.JSON(500, gin.H{"error": "Failed to create trip"})
			return
		}

		observability.TripsCreatedTotal.Inc()
		c.JSON(201, trip)
	}
}

// UpdateTripStatus moves a trip through its lifecycle. Canceling a trip that
// is still pending removes it entirely; any other transition just updates
// the status.
func UpdateTripStatus(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		tripID := c.Param("id")

		var input struct {
			Status string `json:"status" binding:"required,oneof=Created Ongoing Completed Canceled Pending"`
		}

		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}

		var trip models.Trip
		if err := db.First(&trip, tripID).Error; err != nil {
			c.JSON(404, gin.H{"error": "Trip not found"})
			return
		}

		newStatus := models.TripStatus(input.Status)

		if newStatus == models.TripStatusCanceled && trip.Status == models.TripStatusPending {
			if err := db.Delete(&trip).Error; err != nil {
				c.JSON(500, gin.H{"error": "Failed to cancel trip"})
				return
			}
			c.JSON(204, nil)
			return
		}

		trip.Status = newStatus
		if err := db.Save(&trip).Error; err != nil {
			c.JSON(500, gin.H{"error": "Failed to update trip status"})
			return
		}

		c.JSON(200, trip)
	}
}

// GetTrip retrieves a single trip with its listing and passenger
func GetTrip(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		tripID := c.Param("id")

		var trip models.Trip
		if err := db.Preload("QuickCar").
			Preload("QuickCar.Driver").
			Preload("Passenger").
			First(&trip, tripID).Error; err != nil {
			c.JSON(404, gin.H{"error": "Trip not found"})
			return
		}

		c.JSON(200, trip)
	}
}

// GetPassengerTrips retrieves all trips booked by a passenger
func GetPassengerTrips(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		passengerID := c.Param("passengerId")

		var trips []models.Trip
		if err := db.Where("passenger_id = ?", passengerID).
			Preload("QuickCar").
			Preload("QuickCar.Driver").
			Order("trip_date DESC").
			Find(&trips).Error; err != nil {
			c.JSON(500, gin.H{"error": "Failed to fetch trips"})
			return
		}

		c.JSON(200, trips)
	}
}

// GetDriverTrips retrieves all trips booked against a driver's listing
func GetDriverTrips(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		driverID := c.Param("driverId")

		var trips []models.Trip
		if err := db.Joins("QuickCar").
			Where("\"QuickCar\".driver_id = ?", driverID).
			Preload("Passenger").
			Order("trip_date DESC").
			Find(&trips).Error; err != nil {
			c.JSON(500, gin.H{"error": "Failed to fetch trips"})
			return
		}

		c.JSON(200, trips)
	}
}
