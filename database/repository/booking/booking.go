package bookingRepo

import (
	"context"
	"errors"

	"admissions/models"
)

// ErrSlotTaken is returned by Create when another confirmed booking already
// holds the same (date, time) pair. It is an expected, recoverable outcome;
// the storage-level unique index is what raises it, never a pre-check.
var ErrSlotTaken = errors.New("slot already taken")

// Repository defines the interface for booking data access.
type Repository interface {
	// Create inserts a confirmed booking. The uniqueness check and the
	// insert are a single indivisible operation; on a (date, time) clash it
	// returns ErrSlotTaken and writes nothing.
	Create(ctx context.Context, booking *models.Booking) error
	// TakenTimes lists the slot times with a confirmed booking on a date.
	TakenTimes(ctx context.Context, date string) ([]string, error)
	// CancelByOwner flips the owner's confirmed booking for the slot to
	// cancelled. Returns false when nothing matched.
	CancelByOwner(ctx context.Context, userID, date, slot string) (bool, error)
	// CancelAny is the privileged variant: it cancels regardless of owner.
	CancelAny(ctx context.Context, date, slot string) (bool, error)
	// ListByUser returns the user's bookings in chronological order.
	ListByUser(ctx context.Context, userID string) ([]models.Booking, error)
	// ListByDate returns all bookings for a date ordered by slot time.
	ListByDate(ctx context.Context, date string) ([]models.Booking, error)
}
