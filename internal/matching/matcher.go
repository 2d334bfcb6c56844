package matching

import (
	"context"
	"fmt"

	"github.com/quickcar/quickcar-backend/internal/models"
	"github.com/quickcar/quickcar-backend/internal/observability"
	"github.com/quickcar/quickcar-backend/pkg/utils"
)

// ListingStore supplies candidate listings from storage. The bounding box is
// a pre-filter only: implementations must return every active listing whose
// current location falls inside the box (inclusive bounds), and may return
// more. Exact distance acceptance happens here, not in the store.
type ListingStore interface {
	FindActiveInBox(ctx context.Context, box utils.BoundingBox) ([]models.QuickCar, error)

	// FindBookableInBox additionally filters on seat capacity and on the
	// listing's scheduled departure being at or before the given time of day.
	FindBookableInBox(ctx context.Context, box utils.BoundingBox, minSeats, hour, minute int) ([]models.QuickCar, error)
}

// Matcher finds active drivers near a point or a planned trip. It is
// stateless; every call fetches fresh data and runs independently, so a
// single Matcher can serve concurrent requests.
type Matcher struct {
	listings   ListingStore
	reconciler *Reconciler
}

func NewMatcher(listings ListingStore, reconciler *Reconciler) *Matcher {
	return &Matcher{listings: listings, reconciler: reconciler}
}

// NearbyToPoint returns the active drivers within the match radius of the
// user's position. Returns ErrNoDriversFound when the result is legitimately
// empty; storage errors propagate unchanged.
func (m *Matcher) NearbyToPoint(ctx context.Context, user models.GeoPoint) ([]Candidate, error) {
	if err := user.Validate(); err != nil {
		return nil, err
	}

	observability.MatchRequestsTotal.WithLabelValues("point").Inc()

	box := utils.GetBoundingBox(user.Latitude, user.Longitude, utils.PrefilterRadiusKm)
	listings, err := m.listings.FindActiveInBox(ctx, box)
	if err != nil {
		return nil, fmt.Errorf("querying active listings: %w", err)
	}

	candidates := make([]Candidate, 0, len(listings))
	seen := make(map[uint]bool, len(listings))

	for i := range listings {
		q := &listings[i]

		distance := utils.HaversineDistance(
			user.Latitude, user.Longitude,
			q.CurrentLocation.Latitude, q.CurrentLocation.Longitude,
		)

		// The half-way point check is kept from the original matcher. It
		// can admit a driver slightly past the direct radius (the half-way
		// point is in range whenever the driver is within twice the
		// radius); the 15 km pre-filter box bounds how far that reaches.
		midLat, midLng := utils.Midpoint(
			user.Latitude, user.Longitude,
			q.CurrentLocation.Latitude, q.CurrentLocation.Longitude,
		)
		midDistance := utils.HaversineDistance(user.Latitude, user.Longitude, midLat, midLng)

		if distance > utils.MatchRadiusKm && midDistance > utils.MatchRadiusKm {
			continue
		}

		if seen[q.ID] {
			continue
		}
		seen[q.ID] = true

		candidates = append(candidates, newCandidate(q, distance))
	}

	if len(candidates) == 0 {
		observability.NoDriversTotal.WithLabelValues("point").Inc()
		return nil, ErrNoDriversFound
	}

	observability.MatchesTotal.WithLabelValues("point").Add(float64(len(candidates)))
	return candidates, nil
}

// NearbyToTrip returns drivers whose position or route passes near the
// midpoint of the intended trip, can depart early enough, and still have
// enough seats free on the trip date once existing bookings are subtracted.
func (m *Matcher) NearbyToTrip(ctx context.Context, intent TripIntent) ([]Candidate, error) {
	if err := intent.Validate(); err != nil {
		return nil, err
	}

	observability.MatchRequestsTotal.WithLabelValues("trip").Inc()

	center := intent.Midpoint()
	box := utils.GetBoundingBox(center.Latitude, center.Longitude, utils.PrefilterRadiusKm)

	listings, err := m.listings.FindBookableInBox(ctx, box, intent.SeatsRequested, intent.StartHour, intent.StartMinute)
	if err != nil {
		return nil, fmt.Errorf("querying bookable listings: %w", err)
	}

	candidates := make([]Candidate, 0, len(listings))
	seen := make(map[uint]bool, len(listings))

	for i := range listings {
		q := &listings[i]

		distance := utils.HaversineDistance(
			center.Latitude, center.Longitude,
			q.CurrentLocation.Latitude, q.CurrentLocation.Longitude,
		)

		routeMid := q.RouteMidpoint()
		routeDistance := utils.HaversineDistance(
			center.Latitude, center.Longitude,
			routeMid.Latitude, routeMid.Longitude,
		)

		if distance > utils.MatchRadiusKm && routeDistance > utils.MatchRadiusKm {
			continue
		}

		if seen[q.ID] {
			continue
		}
		seen[q.ID] = true

		candidates = append(candidates, newCandidate(q, distance))
	}

	if len(candidates) == 0 {
		observability.NoDriversTotal.WithLabelValues("trip").Inc()
		return nil, ErrNoDriversFound
	}

	candidates, err = m.reconciler.Reconcile(ctx, candidates, intent.TripDate, intent.SeatsRequested)
	if err != nil {
		return nil, err
	}
	if len(candidates) == 0 {
		observability.NoDriversTotal.WithLabelValues("trip").Inc()
		return nil, ErrNoDriversFound
	}

	observability.MatchesTotal.WithLabelValues("trip").Add(float64(len(candidates)))
	return candidates, nil
}

func newCandidate(q *models.QuickCar, distanceKm float64) Candidate {
	c := Candidate{
		QuickCarID:        q.ID,
		DriverID:          q.DriverID,
		VehicleType:       q.VehicleType,
		VehicleModel:      q.VehicleModel,
		StartLocationName: q.StartLocationName,
		EndLocationName:   q.EndLocationName,
		StartTime:         TimeOfDay{Hour: q.StartHour, Minute: q.StartMinute},
		EndTime:           TimeOfDay{Hour: q.EndHour, Minute: q.EndMinute},
		CurrentLocation:   q.CurrentLocation,
		AvailableSeats:    q.AvailableSeats,
		PricePerSeat:      q.PricePerSeat,
		DistanceKm:        distanceKm,
		EstimatedMinutes:  utils.CalculateETA(distanceKm, 30),
	}
	if q.Driver != nil {
		c.DriverName = q.Driver.FirstName + " " + q.Driver.LastName
		c.DriverImage = q.Driver.ProfileImageURL
	}
	return c
}
