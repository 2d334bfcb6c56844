package matching

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/quickcar/quickcar-backend/internal/models"
	"github.com/quickcar/quickcar-backend/pkg/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeListingStore struct {
	listings []models.QuickCar
	err      error
	calls    int

	gotMinSeats int
	gotHour     int
	gotMinute   int
}

func (f *fakeListingStore) FindActiveInBox(ctx context.Context, box utils.BoundingBox) ([]models.QuickCar, error) {
	f.calls++
	return f.listings, f.err
}

func (f *fakeListingStore) FindBookableInBox(ctx context.Context, box utils.BoundingBox, minSeats, hour, minute int) ([]models.QuickCar, error) {
	f.calls++
	f.gotMinSeats = minSeats
	f.gotHour = hour
	f.gotMinute = minute

	out := make([]models.QuickCar, 0, len(f.listings))
	for _, q := range f.listings {
		if q.AvailableSeats >= minSeats && q.DepartsBy(hour, minute) {
			out = append(out, q)
		}
	}
	return out, f.err
}

type fakeBookingStore struct {
	trips []models.Trip
	err   error
}

func (f *fakeBookingStore) FindSeatConsuming(ctx context.Context, quickCarIDs []uint, tripDate time.Time) ([]models.Trip, error) {
	if f.err != nil {
		return nil, f.err
	}

	ids := make(map[uint]bool, len(quickCarIDs))
	for _, id := range quickCarIDs {
		ids[id] = true
	}

	consuming := map[models.TripStatus]bool{}
	for _, s := range models.SeatConsumingStatuses {
		consuming[s] = true
	}

	var out []models.Trip
	for _, t := range f.trips {
		if ids[t.QuickCarID] && t.TripDate.Equal(models.NormalizeDate(tripDate)) && consuming[t.Status] {
			out = append(out, t)
		}
	}
	return out, nil
}

func listing(id, driverID uint, lat, lng float64) models.QuickCar {
	q := models.QuickCar{
		DriverID:        driverID,
		IsActive:        true,
		CurrentLocation: models.GeoPoint{Latitude: lat, Longitude: lng},
		AvailableSeats:  4,
		PricePerSeat:    3.5,
		VehicleType:     models.VehicleTypeCar,
	}
	q.ID = id
	return q
}

func newTestMatcher(listings *fakeListingStore, bookings *fakeBookingStore) *Matcher {
	if bookings == nil {
		bookings = &fakeBookingStore{}
	}
	return NewMatcher(listings, NewReconciler(bookings))
}

func TestNearbyToPointAcceptsWithinRadius(t *testing.T) {
	// ~5 km north of the origin
	store := &fakeListingStore{listings: []models.QuickCar{listing(1, 10, 0.045, 0)}}
	m := newTestMatcher(store, nil)

	candidates, err := m.NearbyToPoint(context.Background(), models.GeoPoint{})
	require.NoError(t, err)
	require.Len(t, candidates, 1)

	assert.Equal(t, uint(1), candidates[0].QuickCarID)
	assert.Equal(t, uint(10), candidates[0].DriverID)
	assert.InDelta(t, 5.0, candidates[0].DistanceKm, 0.1)
}

func TestNearbyToPointRejectsBeyondRadius(t *testing.T) {
	// ~25 km away: both the direct distance and the half-way point are
	// outside the acceptance radius
	store := &fakeListingStore{listings: []models.QuickCar{listing(1, 10, 0.225, 0)}}
	m := newTestMatcher(store, nil)

	_, err := m.NearbyToPoint(context.Background(), models.GeoPoint{})
	assert.ErrorIs(t, err, ErrNoDriversFound)
}

func TestNearbyToPointHalfwayCheckWidensAcceptance(t *testing.T) {
	// ~12 km away: past the direct radius, but the half-way point sits at
	// ~6 km, and the accept condition ORs the two checks.
	store := &fakeListingStore{listings: []models.QuickCar{listing(1, 10, 0.108, 0)}}
	m := newTestMatcher(store, nil)

	candidates, err := m.NearbyToPoint(context.Background(), models.GeoPoint{})
	require.NoError(t, err)
	assert.Len(t, candidates, 1)
}

func TestNearbyToPointDeduplicatesByListing(t *testing.T) {
	q := listing(7, 10, 0.01, 0.01)
	store := &fakeListingStore{listings: []models.QuickCar{q, q}}
	m := newTestMatcher(store, nil)

	candidates, err := m.NearbyToPoint(context.Background(), models.GeoPoint{})
	require.NoError(t, err)
	assert.Len(t, candidates, 1)
}

func TestNearbyToPointPreservesStoreOrder(t *testing.T) {
	store := &fakeListingStore{listings: []models.QuickCar{
		listing(3, 30, 0.05, 0),
		listing(1, 10, 0.01, 0),
		listing(2, 20, 0.03, 0),
	}}
	m := newTestMatcher(store, nil)

	candidates, err := m.NearbyToPoint(context.Background(), models.GeoPoint{})
	require.NoError(t, err)
	require.Len(t, candidates, 3)

	// No sorting: insertion order of the storage query
	assert.Equal(t, uint(3), candidates[0].QuickCarID)
	assert.Equal(t, uint(1), candidates[1].QuickCarID)
	assert.Equal(t, uint(2), candidates[2].QuickCarID)
}

func TestNearbyToPointEmptyIsNoDriversFound(t *testing.T) {
	store := &fakeListingStore{}
	m := newTestMatcher(store, nil)

	candidates, err := m.NearbyToPoint(context.Background(), models.GeoPoint{Latitude: 50, Longitude: 8})
	assert.ErrorIs(t, err, ErrNoDriversFound)
	assert.Nil(t, candidates)
}

func TestNearbyToPointStorageErrorIsNotNoDrivers(t *testing.T) {
	storeErr := errors.New("connection refused")
	store := &fakeListingStore{err: storeErr}
	m := newTestMatcher(store, nil)

	_, err := m.NearbyToPoint(context.Background(), models.GeoPoint{})
	require.Error(t, err)
	assert.ErrorIs(t, err, storeErr)
	assert.NotErrorIs(t, err, ErrNoDriversFound)
}

func TestNearbyToPointInvalidInputSkipsStorage(t *testing.T) {
	store := &fakeListingStore{}
	m := newTestMatcher(store, nil)

	_, err := m.NearbyToPoint(context.Background(), models.GeoPoint{Latitude: 91})
	assert.ErrorIs(t, err, models.ErrInvalidLatitude)
	assert.Zero(t, store.calls)
}

func tripIntent(seats int) TripIntent {
	return TripIntent{
		Start:          models.GeoPoint{Latitude: 0, Longitude: 0},
		End:            models.GeoPoint{Latitude: 0.2, Longitude: 0},
		StartHour:      8,
		StartMinute:    30,
		SeatsRequested: seats,
		TripDate:       time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC),
	}
}

func TestNearbyToTripAcceptsByRouteMidpoint(t *testing.T) {
	// Driver is far from the trip midpoint (0.1, 0) but the route's own
	// midpoint sits right on it.
	q := listing(1, 10, 0.1, 0.3)
	q.RouteStart = models.GeoPoint{Latitude: 0.05, Longitude: 0}
	q.RouteEnd = models.GeoPoint{Latitude: 0.15, Longitude: 0}
	q.StartHour = 7

	store := &fakeListingStore{listings: []models.QuickCar{q}}
	m := newTestMatcher(store, nil)

	candidates, err := m.NearbyToTrip(context.Background(), tripIntent(2))
	require.NoError(t, err)
	require.Len(t, candidates, 1)
	assert.Equal(t, 4, candidates[0].RemainingSeats)
}

func TestNearbyToTripFiltersLateDepartures(t *testing.T) {
	q := listing(1, 10, 0.1, 0)
	q.StartHour = 8
	q.StartMinute = 31 // one minute after the requested departure

	store := &fakeListingStore{listings: []models.QuickCar{q}}
	m := newTestMatcher(store, nil)

	_, err := m.NearbyToTrip(context.Background(), tripIntent(1))
	assert.ErrorIs(t, err, ErrNoDriversFound)
	assert.Equal(t, 8, store.gotHour)
	assert.Equal(t, 30, store.gotMinute)
}

func TestNearbyToTripPrunesFullyBookedDrivers(t *testing.T) {
	q := listing(1, 10, 0.1, 0)
	q.StartHour = 7
	q.AvailableSeats = 2

	intent := tripIntent(2)
	bookings := &fakeBookingStore{trips: []models.Trip{{
		QuickCarID:             1,
		TripDate:               models.NormalizeDate(intent.TripDate),
		Status:                 models.TripStatusCreated,
		NumberOfSeatsRequested: 1,
	}}}

	store := &fakeListingStore{listings: []models.QuickCar{q}}
	m := newTestMatcher(store, bookings)

	// Only one of two seats left; a two-seat request finds nobody
	_, err := m.NearbyToTrip(context.Background(), intent)
	assert.ErrorIs(t, err, ErrNoDriversFound)
}

func TestNearbyToTripReportsRemainingSeats(t *testing.T) {
	q := listing(1, 10, 0.1, 0)
	q.StartHour = 7
	q.AvailableSeats = 4

	intent := tripIntent(1)
	bookings := &fakeBookingStore{trips: []models.Trip{{
		QuickCarID:             1,
		TripDate:               models.NormalizeDate(intent.TripDate),
		Status:                 models.TripStatusOngoing,
		NumberOfSeatsRequested: 3,
	}}}

	store := &fakeListingStore{listings: []models.QuickCar{q}}
	m := newTestMatcher(store, bookings)

	candidates, err := m.NearbyToTrip(context.Background(), intent)
	require.NoError(t, err)
	require.Len(t, candidates, 1)
	assert.Equal(t, 1, candidates[0].RemainingSeats)
}

func TestNearbyToTripInvalidIntent(t *testing.T) {
	store := &fakeListingStore{}
	m := newTestMatcher(store, nil)

	bad := tripIntent(0)
	_, err := m.NearbyToTrip(context.Background(), bad)
	require.Error(t, err)
	assert.Zero(t, store.calls)
}
