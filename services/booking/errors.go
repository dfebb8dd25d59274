package booking

import (
	"errors"

	bookingRepo "admissions/database/repository/booking"
)

// ErrSlotTaken signals that another confirmed booking won the slot. Callers
// are expected to recover by re-offering availability.
var ErrSlotTaken = bookingRepo.ErrSlotTaken

// ErrUnknownDate is returned when a booking targets a date outside the
// bookable horizon or with a malformed format.
var ErrUnknownDate = errors.New("date is not bookable")

// ErrUnknownSlot is returned when a booking targets a time that is not on
// the slot grid at all (as opposed to taken, which is ErrSlotTaken).
var ErrUnknownSlot = errors.New("time is not a valid slot")
