package utils

import (
	"math"
)

const (
	// PrefilterRadiusKm sizes the bounding box used to narrow candidates
	// before exact distance checks. It is deliberately larger than
	// MatchRadiusKm so the box is always a superset of the exact-radius
	// result and never drops a valid match at the box edges.
	PrefilterRadiusKm = 15.0

	// MatchRadiusKm is the acceptance radius applied after exact distance
	// computation.
	MatchRadiusKm = 10.0

	// kmPerDegreeLat is the empirical length of one degree of latitude.
	kmPerDegreeLat = 111.0
)

// HaversineDistance calculates the distance between two points on Earth
// using the Haversine formula. Returns distance in kilometers.
func HaversineDistance(lat1, lng1, lat2, lng2 float64) float64 {
	const earthRadius = 6371 // Earth's radius in kilometers

	// Convert degrees to radians
	lat1Rad := lat1 * math.Pi / 180
	lat2Rad := lat2 * math.Pi / 180

	dlat := (lat2 - lat1) * math.Pi / 180
	dlng := (lng2 - lng1) * math.Pi / 180

	a := math.Sin(dlat/2)*math.Sin(dlat/2) +
		math.Cos(lat1Rad)*math.Cos(lat2Rad)*
			math.Sin(dlng/2)*math.Sin(dlng/2)

	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return earthRadius * c
}

// Midpoint returns the arithmetic mean of two coordinate pairs. This is an
// approximation of the route center, not a true geodesic midpoint.
func Midpoint(lat1, lng1, lat2, lng2 float64) (float64, float64) {
	return (lat1 + lat2) / 2, (lng1 + lng2) / 2
}

// IsWithinRadius checks if a point is within a specified radius of another point
func IsWithinRadius(centerLat, centerLng, pointLat, pointLng, radiusKm float64) bool {
	distance := HaversineDistance(centerLat, centerLng, pointLat, pointLng)
	return distance <= radiusKm
}

// CalculateETA estimates the time to arrival based on distance and average speed
// distance in kilometers, averageSpeed in km/h
func CalculateETA(distanceKm, averageSpeedKmh float64) int {
	if averageSpeedKmh <= 0 {
		averageSpeedKmh = 30 // Default average speed in city traffic
	}

	etaHours := distanceKm / averageSpeedKmh
	etaMinutes := int(etaHours * 60)

	// Minimum 1 minute
	if etaMinutes < 1 {
		etaMinutes = 1
	}

	return etaMinutes
}

// Point represents a geographical point
type Point struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// BoundingBox represents a rectangular area
type BoundingBox struct {
	NorthEast Point `json:"northEast"`
	SouthWest Point `json:"southWest"`
}

// GetBoundingBox creates a bounding box around a center point. Latitude
// bounds use the ~111 km-per-degree approximation; longitude bounds are
// widened by 1/cos(lat) to account for meridian convergence.
func GetBoundingBox(centerLat, centerLng, radiusKm float64) BoundingBox {
	latDelta := radiusKm / kmPerDegreeLat

	latMin := math.Max(centerLat-latDelta, -90)
	latMax := math.Min(centerLat+latDelta, 90)

	// cos(lat) goes to zero at the poles, which would make the longitude
	// delta infinite. Anything that close to a pole spans all longitudes.
	cosLat := math.Cos(centerLat * math.Pi / 180)
	if cosLat <= 1e-9 {
		return BoundingBox{
			NorthEast: Point{Lat: latMax, Lng: 180},
			SouthWest: Point{Lat: latMin, Lng: -180},
		}
	}

	lngDelta := radiusKm / (kmPerDegreeLat * cosLat)
	lngMin := centerLng - lngDelta
	lngMax := centerLng + lngDelta

	// A box crossing the antimeridian cannot be expressed as a single
	// longitude range, and a clipped range would drop drivers on the far
	// side of the +/-180 seam. Widen to all longitudes so the pre-filter
	// stays a superset of the exact-radius result.
	if lngMin < -180 || lngMax > 180 {
		lngMin, lngMax = -180, 180
	}

	return BoundingBox{
		NorthEast: Point{Lat: latMax, Lng: lngMax},
		SouthWest: Point{Lat: latMin, Lng: lngMin},
	}
}

// IsPointInBoundingBox checks if a point is within a bounding box
func IsPointInBoundingBox(point Point, bbox BoundingBox) bool {
	return point.Lat >= bbox.SouthWest.Lat &&
		point.Lat <= bbox.NorthEast.Lat &&
		point.Lng >= bbox.SouthWest.Lng &&
		point.Lng <= bbox.NorthEast.Lng
}
