package booking

import (
	"context"
	"time"

	bookingRepo "admissions/database/repository/booking"
	"admissions/models"
	"admissions/services/calendar"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Service exposes the reservation operations built on top of the slot
// calendar and the booking repository.
type Service interface {
	// AvailableSlots returns the calendar grid minus slots with a confirmed
	// booking, reflecting the last committed state.
	AvailableSlots(ctx context.Context, date string) ([]string, error)
	// CreateBooking persists a confirmed booking or fails with ErrSlotTaken.
	// It never retries and never substitutes another slot.
	CreateBooking(ctx context.Context, userID, fullName, phone, date, slot, topic string) (*models.Booking, error)
	// CancelBooking cancels the user's own booking; false means no-op.
	CancelBooking(ctx context.Context, userID, date, slot string) (bool, error)
	// CancelAnyBooking is the privileged cancel used by admin callers.
	CancelAnyBooking(ctx context.Context, date, slot string) (bool, error)
	BookingsForUser(ctx context.Context, userID string) ([]models.Booking, error)
	BookingsForDate(ctx context.Context, date string) ([]models.Booking, error)
}

// DefaultService implements Service.
type DefaultService struct {
	Repo     bookingRepo.Repository
	Calendar *calendar.Calendar
	Logger   *zap.Logger
}

func NewDefaultService(repo bookingRepo.Repository, cal *calendar.Calendar, logger *zap.Logger) *DefaultService {
	return &DefaultService{Repo: repo, Calendar: cal, Logger: logger}
}

func (s *DefaultService) AvailableSlots(ctx context.Context, date string) ([]string, error) {
	grid, err := s.Calendar.SlotsForDate(date)
	if err != nil {
		return nil, ErrUnknownDate
	}

	taken, err := s.Repo.TakenTimes(ctx, date)
	if err != nil {
		return nil, err
	}

	takenSet := make(map[string]struct{}, len(taken))
	for _, t := range taken {
		takenSet[t] = struct{}{}
	}

	free := make([]string, 0, len(grid))
	for _, slot := range grid {
		if _, ok := takenSet[slot]; !ok {
			free = append(free, slot)
		}
	}
	return free, nil
}

func (s *DefaultService) CreateBooking(ctx context.Context, userID, fullName, phone, date, slot, topic string) (*models.Booking, error) {
	grid, err := s.Calendar.SlotsForDate(date)
	if err != nil {
		return nil, ErrUnknownDate
	}
	if !contains(grid, slot) {
		return nil, ErrUnknownSlot
	}

	b := &models.Booking{
		ID:        uuid.NewString(),
		UserID:    userID,
		FullName:  fullName,
		Phone:     phone,
		Date:      date,
		Time:      slot,
		Topic:     topic,
		Status:    models.BookingStatusConfirmed,
		CreatedAt: time.Now(),
	}

	// The repository's unique index decides the race; a lost race surfaces
	// here as ErrSlotTaken and nothing is written.
	if err := s.Repo.Create(ctx, b); err != nil {
		if err == ErrSlotTaken {
			s.Logger.Info("booking conflict",
				zap.String("userId", userID),
				zap.String("date", date),
				zap.String("time", slot))
			return nil, ErrSlotTaken
		}
		s.Logger.Error("booking create failed",
			zap.String("userId", userID),
			zap.Error(err))
		return nil, err
	}
	return b, nil
}

func (s *DefaultService) CancelBooking(ctx context.Context, userID, date, slot string) (bool, error) {
	return s.Repo.CancelByOwner(ctx, userID, date, slot)
}

func (s *DefaultService) CancelAnyBooking(ctx context.Context, date, slot string) (bool, error) {
	return s.Repo.CancelAny(ctx, date, slot)
}

func (s *DefaultService) BookingsForUser(ctx context.Context, userID string) ([]models.Booking, error) {
	return s.Repo.ListByUser(ctx, userID)
}

func (s *DefaultService) BookingsForDate(ctx context.Context, date string) ([]models.Booking, error) {
	return s.Repo.ListByDate(ctx, date)
}

func contains(ss []string, v string) bool {
	for _, s := range ss {
		if s == v {
			return true
		}
	}
	return false
}
