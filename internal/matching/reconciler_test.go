package matching

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/quickcar/quickcar-backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var tripDate = time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)

func candidate(quickCarID uint, seats int) Candidate {
	return Candidate{QuickCarID: quickCarID, AvailableSeats: seats}
}

func booking(quickCarID uint, seats int, status models.TripStatus) models.Trip {
	return models.Trip{
		QuickCarID:             quickCarID,
		TripDate:               tripDate,
		Status:                 status,
		NumberOfSeatsRequested: seats,
	}
}

func TestReconcileCapacityExhaustion(t *testing.T) {
	// Driver has 4 seats; 3 already held by a Created booking.
	bookings := &fakeBookingStore{trips: []models.Trip{
		booking(1, 3, models.TripStatusCreated),
	}}
	r := NewReconciler(bookings)

	// A two-seat request is rejected: only one seat remains.
	kept, err := r.Reconcile(context.Background(), []Candidate{candidate(1, 4)}, tripDate, 2)
	require.NoError(t, err)
	assert.Empty(t, kept)

	// A one-seat request fits.
	kept, err = r.Reconcile(context.Background(), []Candidate{candidate(1, 4)}, tripDate, 1)
	require.NoError(t, err)
	require.Len(t, kept, 1)
	assert.Equal(t, 1, kept[0].RemainingSeats)
}

func TestReconcileIgnoresCanceledAndCompleted(t *testing.T) {
	bookings := &fakeBookingStore{trips: []models.Trip{
		booking(1, 4, models.TripStatusCanceled),
		booking(1, 4, models.TripStatusCompleted),
	}}
	r := NewReconciler(bookings)

	kept, err := r.Reconcile(context.Background(), []Candidate{candidate(1, 4)}, tripDate, 4)
	require.NoError(t, err)
	require.Len(t, kept, 1)

	// Full capacity remains available
	assert.Equal(t, 4, kept[0].RemainingSeats)
}

func TestReconcileNoBookingsPassesThrough(t *testing.T) {
	r := NewReconciler(&fakeBookingStore{})

	kept, err := r.Reconcile(context.Background(), []Candidate{candidate(1, 3), candidate(2, 5)}, tripDate, 1)
	require.NoError(t, err)
	require.Len(t, kept, 2)
	assert.Equal(t, 3, kept[0].RemainingSeats)
	assert.Equal(t, 5, kept[1].RemainingSeats)
}

func TestReconcileIgnoresOtherDates(t *testing.T) {
	dayBefore := booking(1, 4, models.TripStatusCreated)
	dayBefore.TripDate = tripDate.AddDate(0, 0, -1)

	r := NewReconciler(&fakeBookingStore{trips: []models.Trip{dayBefore}})

	kept, err := r.Reconcile(context.Background(), []Candidate{candidate(1, 4)}, tripDate, 4)
	require.NoError(t, err)
	require.Len(t, kept, 1)
	assert.Equal(t, 4, kept[0].RemainingSeats)
}

func TestReconcileSumsAcrossBookings(t *testing.T) {
	bookings := &fakeBookingStore{trips: []models.Trip{
		booking(1, 1, models.TripStatusCreated),
		booking(1, 2, models.TripStatusOngoing),
		booking(2, 1, models.TripStatusCreated),
	}}
	r := NewReconciler(bookings)

	kept, err := r.Reconcile(context.Background(), []Candidate{candidate(1, 4), candidate(2, 4)}, tripDate, 2)
	require.NoError(t, err)

	// Driver 1 has 1 seat left and is pruned; driver 2 keeps 3.
	require.Len(t, kept, 1)
	assert.Equal(t, uint(2), kept[0].QuickCarID)
	assert.Equal(t, 3, kept[0].RemainingSeats)
}

func TestReconcileIsIdempotent(t *testing.T) {
	bookings := &fakeBookingStore{trips: []models.Trip{
		booking(1, 2, models.TripStatusCreated),
	}}
	r := NewReconciler(bookings)

	in := []Candidate{candidate(1, 4)}

	first, err := r.Reconcile(context.Background(), in, tripDate, 1)
	require.NoError(t, err)
	second, err := r.Reconcile(context.Background(), in, tripDate, 1)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestReconcileStorageErrorPropagates(t *testing.T) {
	storeErr := errors.New("bookings unavailable")
	r := NewReconciler(&fakeBookingStore{err: storeErr})

	_, err := r.Reconcile(context.Background(), []Candidate{candidate(1, 4)}, tripDate, 1)
	assert.ErrorIs(t, err, storeErr)
}

func TestReconcileEmptyCandidates(t *testing.T) {
	r := NewReconciler(&fakeBookingStore{})

	kept, err := r.Reconcile(context.Background(), nil, tripDate, 1)
	require.NoError(t, err)
	assert.Empty(t, kept)
}
