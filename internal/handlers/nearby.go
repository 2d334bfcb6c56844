package handlers

import (
	"errors"
	"log"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/quickcar/quickcar-backend/internal/matching"
	"github.com/quickcar/quickcar-backend/internal/models"
	"github.com/quickcar/quickcar-backend/internal/services"
)

// GetNearbyQuickCars returns the active drivers within range of the user's
// position. Responds 400 on missing or malformed coordinates, 404 when no
// drivers are in range, 500 on storage failures.
func GetNearbyQuickCars(matcher *matching.Matcher) gin.HandlerFunc {
	return func(c *gin.Context) {
		latStr := c.Query("userLatitude")
		lngStr := c.Query("userLongitude")

		if latStr == "" || lngStr == "" {
			c.JSON(400, gin.H{"message": "User coordinates are required"})
			return
		}

		lat, err := strconv.ParseFloat(latStr, 64)
		if err != nil {
			c.JSON(400, gin.H{"message": "Invalid latitude"})
			return
		}

		lng, err := strconv.ParseFloat(lngStr, 64)
		if err != nil {
			c.JSON(400, gin.H{"message": "Invalid longitude"})
			return
		}

		user := models.GeoPoint{Latitude: lat, Longitude: lng}
		if err := user.Validate(); err != nil {
			c.JSON(400, gin.H{"message": err.Error()})
			return
		}

		ctx := c.Request.Context()

		// Serve a recent result for the same query point when one is
		// cached; cache misses and errors fall through to a fresh lookup
		if services.RedisClient != nil {
			if cached, err := services.GetCachedNearbyCandidates(ctx, lat, lng); err == nil && len(cached) > 0 {
				c.JSON(200, gin.H{
					"message":     "Drivers within the 10 kilometer range",
					"conductores": cached,
				})
				return
			}
		}

		candidates, err := matcher.NearbyToPoint(ctx, user)
		if errors.Is(err, matching.ErrNoDriversFound) {
			c.JSON(404, gin.H{"message": "No drivers found within the 10 kilometer range"})
			return
		}
		if err != nil {
			log.Printf("nearby lookup failed: %v", err)
			c.JSON(500, gin.H{"message": "Failed to look up nearby drivers"})
			return
		}

		// Best-effort cache of the result; lookups never fail on cache errors
		if services.RedisClient != nil {
			if err := services.CacheNearbyCandidates(ctx, lat, lng, candidates); err != nil {
				log.Printf("failed to cache nearby result: %v", err)
			}
		}

		c.JSON(200, gin.H{
			"message":     "Drivers within the 10 kilometer range",
			"conductores": candidates,
		})
	}
}

// FindDriversForTrip returns drivers near the midpoint of an intended trip
// that can depart in time and still have enough seats free on the trip date.
func FindDriversForTrip(matcher *matching.Matcher) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input struct {
			StartLatitude  *float64 `json:"startLatitude" binding:"required"`
			StartLongitude *float64 `json:"startLongitude" binding:"required"`
			EndLatitude    *float64 `json:"endLatitude" binding:"required"`
			EndLongitude   *float64 `json:"endLongitude" binding:"required"`
			StartHour      *int     `json:"startHour" binding:"required"`
			StartMinute    *int     `json:"startMinute" binding:"required"`
			SeatsRequested int      `json:"seatsRequested" binding:"required,min=1"`
			TripDate       string   `json:"tripDate" binding:"required"`
		}

		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(400, gin.H{"message": err.Error()})
			return
		}

		tripDate, err := time.Parse("2006-01-02", input.TripDate)
		if err != nil {
			c.JSON(400, gin.H{"message": "tripDate must be in YYYY-MM-DD format"})
			return
		}

		intent := matching.TripIntent{
			Start:          models.GeoPoint{Latitude: *input.StartLatitude, Longitude: *input.StartLongitude},
			End:            models.GeoPoint{Latitude: *input.EndLatitude, Longitude: *input.EndLongitude},
			StartHour:      *input.StartHour,
			StartMinute:    *input.StartMinute,
			SeatsRequested: input.SeatsRequested,
			TripDate:       tripDate,
		}
		if err := intent.Validate(); err != nil {
			c.JSON(400, gin.H{"message": err.Error()})
			return
		}

		candidates, err := matcher.NearbyToTrip(c.Request.Context(), intent)
		if errors.Is(err, matching.ErrNoDriversFound) {
			c.JSON(404, gin.H{"message": "No drivers found within the 10 kilometer range"})
			return
		}
		if err != nil {
			log.Printf("trip lookup failed: %v", err)
			c.JSON(500, gin.H{"message": "Failed to look up drivers for trip"})
			return
		}

		c.JSON(200, gin.H{
			"message":     "Drivers within the 10 kilometer range",
			"conductores": candidates,
		})
	}
}
