package models

import "time"

// Booking statuses. Only a confirmed booking holds a claim to its slot; the
// (date, time) pair is unique among confirmed records.
const (
	BookingStatusConfirmed = "confirmed"
	BookingStatusCancelled = "cancelled"
)

// Booking represents a confirmed consultation reservation.
type Booking struct {
	ID        string    `bson:"id" json:"id"`                 // Unique booking identifier (UUID)
	UserID    string    `bson:"user_id" json:"user_id"`       // User who made the booking
	FullName  string    `bson:"full_name" json:"full_name"`   // Visitor's full name
	Phone     string    `bson:"phone" json:"phone"`           // Normalized phone number
	Date      string    `bson:"date" json:"date"`             // Booking date in "YYYY-MM-DD" format
	Time      string    `bson:"time" json:"time"`             // Slot start in "HH:MM" format
	Topic     string    `bson:"topic" json:"topic"`           // Free-text consultation topic
	Status    string    `bson:"status" json:"status"`         // confirmed | cancelled
	CreatedAt time.Time `bson:"created_at" json:"created_at"` // Timestamp when booking was created
}
