package models

// IntakeState tags the current step of the booking conversation. The set is
// closed: every transition in the intake machine switches over it
// exhaustively, so an unhandled state is a construction-time bug, not a
// silent no-op.
type IntakeState string

const (
	StateChoosingDate  IntakeState = "choosing_date"
	StateChoosingTime  IntakeState = "choosing_time"
	StateEnteringName  IntakeState = "entering_name"
	StateEnteringPhone IntakeState = "entering_phone"
	StateEnteringTopic IntakeState = "entering_topic"
	StateConfirm       IntakeState = "confirm"
)

// IntakeSession holds the per-user booking conversation state between events.
// Exactly one live session exists per user; it is written only by the intake
// machine while holding that user's lock, and is deleted on booking,
// cancellation, or TTL expiry (abandonment).
type IntakeSession struct {
	State    IntakeState `json:"state"`
	Date     string      `json:"date,omitempty"`
	Time     string      `json:"time,omitempty"`
	FullName string      `json:"fullName,omitempty"`
	Phone    string      `json:"phone,omitempty"`
	Topic    string      `json:"topic,omitempty"`
}

// OnboardingState tags the profile-collection flow for first-time users.
type OnboardingState string

const (
	OnboardingName  OnboardingState = "enter_name"
	OnboardingPhone OnboardingState = "enter_phone"
)

// OnboardingSession collects a visitor profile before the main menu.
type OnboardingSession struct {
	State    OnboardingState `json:"state"`
	FullName string          `json:"fullName,omitempty"`
}
