package booking

import (
	"context"
	"sync"
	"testing"

	"admissions/config"
	bookingRepo "admissions/database/repository/booking"
	"admissions/models"
	"admissions/services/calendar"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// memoryRepo mimics the Mongo repository: the mutex plays the role of the
// storage engine making the unique-index check and the insert indivisible.
type memoryRepo struct {
	mu       sync.Mutex
	bookings []models.Booking
}

func (m *memoryRepo) Create(_ context.Context, b *models.Booking) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, ex := range m.bookings {
		if ex.Status == models.BookingStatusConfirmed && ex.Date == b.Date && ex.Time == b.Time {
			return bookingRepo.ErrSlotTaken
		}
	}
	m.bookings = append(m.bookings, *b)
	return nil
}

func (m *memoryRepo) TakenTimes(_ context.Context, date string) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var times []string
	for _, b := range m.bookings {
		if b.Date == date && b.Status == models.BookingStatusConfirmed {
			times = append(times, b.Time)
		}
	}
	return times, nil
}

func (m *memoryRepo) CancelByOwner(_ context.Context, userID, date, slot string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, b := range m.bookings {
		if b.UserID == userID && b.Date == date && b.Time == slot && b.Status == models.BookingStatusConfirmed {
			m.bookings[i].Status = models.BookingStatusCancelled
			return true, nil
		}
	}
	return false, nil
}

func (m *memoryRepo) CancelAny(_ context.Context, date, slot string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, b := range m.bookings {
		if b.Date == date && b.Time == slot && b.Status == models.BookingStatusConfirmed {
			m.bookings[i].Status = models.BookingStatusCancelled
			return true, nil
		}
	}
	return false, nil
}

func (m *memoryRepo) ListByUser(_ context.Context, userID string) ([]models.Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.Booking
	for _, b := range m.bookings {
		if b.UserID == userID {
			out = append(out, b)
		}
	}
	return out, nil
}

func (m *memoryRepo) ListByDate(_ context.Context, date string) ([]models.Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.Booking
	for _, b := range m.bookings {
		if b.Date == date {
			out = append(out, b)
		}
	}
	return out, nil
}

func newTestService(t *testing.T) (*DefaultService, *memoryRepo) {
	t.Helper()
	cal, err := calendar.New(config.Config{
		Timezone:      "Asia/Almaty",
		DayStart:      "10:00",
		DayEnd:        "18:00",
		LunchStart:    "13:00",
		LunchEnd:      "14:00",
		SlotStepMin:   30,
		WorkDaysAhead: 14,
	})
	require.NoError(t, err)
	repo := &memoryRepo{}
	return NewDefaultService(repo, cal, zap.NewNop()), repo
}

func TestAvailableSlotsSubtractsConfirmed(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.CreateBooking(ctx, "u1", "Иванов Иван", "+77001234567", "2025-10-30", "10:30", "Поступление")
	require.NoError(t, err)

	free, err := svc.AvailableSlots(ctx, "2025-10-30")
	require.NoError(t, err)
	assert.NotContains(t, free, "10:30")
	assert.Contains(t, free, "10:00")
	assert.NotContains(t, free, "13:00")
	assert.NotContains(t, free, "18:00")
}

func TestCreateBookingRejectsOffGridSlot(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.CreateBooking(ctx, "u1", "Иванов Иван", "+77001234567", "2025-10-30", "13:00", "Поступление")
	assert.ErrorIs(t, err, ErrUnknownSlot)

	_, err = svc.CreateBooking(ctx, "u1", "Иванов Иван", "+77001234567", "bad-date", "10:00", "Поступление")
	assert.ErrorIs(t, err, ErrUnknownDate)
}

func TestConcurrentCreateBookingSameSlot(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	const workers = 16
	var wg sync.WaitGroup
	results := make(chan error, workers)

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			_, err := svc.CreateBooking(ctx, "user", "Иванов Иван", "+77001234567", "2025-10-30", "11:00", "Консультация")
			results <- err
		}(i)
	}
	wg.Wait()
	close(results)

	var successes, conflicts int
	for err := range results {
		switch err {
		case nil:
			successes++
		case ErrSlotTaken:
			conflicts++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	assert.Equal(t, 1, successes)
	assert.Equal(t, workers-1, conflicts)
}

func TestCancelBookingIdempotent(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.CreateBooking(ctx, "u1", "Иванов Иван", "+77001234567", "2025-10-30", "14:00", "Гранты")
	require.NoError(t, err)

	ok, err := svc.CancelBooking(ctx, "u1", "2025-10-30", "14:00")
	require.NoError(t, err)
	assert.True(t, ok)

	// Second cancel is a no-op, not an error.
	ok, err = svc.CancelBooking(ctx, "u1", "2025-10-30", "14:00")
	require.NoError(t, err)
	assert.False(t, ok)

	// Slot is free again after cancellation.
	free, err := svc.AvailableSlots(ctx, "2025-10-30")
	require.NoError(t, err)
	assert.Contains(t, free, "14:00")
}

func TestCancelBookingOwnerScoped(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.CreateBooking(ctx, "u1", "Иванов Иван", "+77001234567", "2025-10-30", "15:00", "Документы")
	require.NoError(t, err)

	ok, err := svc.CancelBooking(ctx, "u2", "2025-10-30", "15:00")
	require.NoError(t, err)
	assert.False(t, ok)

	// Privileged cancel ignores ownership.
	ok, err = svc.CancelAnyBooking(ctx, "2025-10-30", "15:00")
	require.NoError(t, err)
	assert.True(t, ok)
}
