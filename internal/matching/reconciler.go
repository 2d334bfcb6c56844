package matching

import (
	"context"
	"fmt"
	"time"

	"github.com/quickcar/quickcar-backend/internal/models"
)

// BookingStore supplies the trips already booked against a set of listings.
type BookingStore interface {
	// FindSeatConsuming returns the trips on the given date, for the given
	// listings, whose status still consumes seats (Created or Ongoing).
	FindSeatConsuming(ctx context.Context, quickCarIDs []uint, tripDate time.Time) ([]models.Trip, error)
}

// Reconciler computes true remaining capacity per candidate by subtracting
// seats held by same-day bookings, and drops candidates that can no longer
// fit the request.
//
// This is a read-then-decide check with no reservation lock: a booking
// created between this read and the caller's own write can still overbook a
// vehicle. The trip-creation path re-checks capacity inside a transaction at
// write time; this pass stays lock-free on purpose so lookups never contend
// with bookings.
type Reconciler struct {
	bookings BookingStore
}

func NewReconciler(bookings BookingStore) *Reconciler {
	return &Reconciler{bookings: bookings}
}

// Reconcile returns the candidates that still have at least seatsRequested
// seats free on tripDate, with RemainingSeats populated. Candidates with no
// bookings pass through at full capacity. Reconciling twice against an
// unchanged booking set yields identical results.
func (r *Reconciler) Reconcile(ctx context.Context, candidates []Candidate, tripDate time.Time, seatsRequested int) ([]Candidate, error) {
	if len(candidates) == 0 {
		return candidates, nil
	}

	ids := make([]uint, 0, len(candidates))
	for _, c := range candidates {
		ids = append(ids, c.QuickCarID)
	}

	trips, err := r.bookings.FindSeatConsuming(ctx, ids, models.NormalizeDate(tripDate))
	if err != nil {
		return nil, fmt.Errorf("querying existing bookings: %w", err)
	}

	booked := make(map[uint]int, len(trips))
	for _, t := range trips {
		booked[t.QuickCarID] += t.NumberOfSeatsRequested
	}

	kept := make([]Candidate, 0, len(candidates))
	for _, c := range candidates {
		remaining := c.AvailableSeats - booked[c.QuickCarID]
		if remaining < seatsRequested {
			continue
		}
		c.RemainingSeats = remaining
		kept = append(kept, c)
	}

	return kept, nil
}
