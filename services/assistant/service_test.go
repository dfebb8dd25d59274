package assistant

import (
	"context"
	"sync"
	"testing"
	"time"

	"admissions/config"
	"admissions/models"
	"admissions/services/booking"
	"admissions/services/calendar"
	"admissions/services/intake"
	"admissions/services/retrieval"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeBookings struct {
	mu    sync.Mutex
	cal   *calendar.Calendar
	saved []models.Booking
}

func (f *fakeBookings) AvailableSlots(_ context.Context, date string) ([]string, error) {
	grid, err := f.cal.SlotsForDate(date)
	if err != nil {
		return nil, booking.ErrUnknownDate
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	var free []string
	for _, s := range grid {
		taken := false
		for _, b := range f.saved {
			if b.Status == models.BookingStatusConfirmed && b.Date == date && b.Time == s {
				taken = true
				break
			}
		}
		if !taken {
			free = append(free, s)
		}
	}
	return free, nil
}

func (f *fakeBookings) CreateBooking(_ context.Context, userID, fullName, phone, date, slot, topic string) (*models.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, b := range f.saved {
		if b.Status == models.BookingStatusConfirmed && b.Date == date && b.Time == slot {
			return nil, booking.ErrSlotTaken
		}
	}
	b := models.Booking{
		ID: uuid.NewString(), UserID: userID, FullName: fullName, Phone: phone,
		Date: date, Time: slot, Topic: topic, Status: models.BookingStatusConfirmed,
	}
	f.saved = append(f.saved, b)
	return &b, nil
}

func (f *fakeBookings) CancelBooking(_ context.Context, userID, date, slot string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, b := range f.saved {
		if b.UserID == userID && b.Date == date && b.Time == slot && b.Status == models.BookingStatusConfirmed {
			f.saved[i].Status = models.BookingStatusCancelled
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeBookings) CancelAnyBooking(_ context.Context, date, slot string) (bool, error) {
	return false, nil
}

func (f *fakeBookings) BookingsForUser(_ context.Context, userID string) ([]models.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Booking
	for _, b := range f.saved {
		if b.UserID == userID && b.Status == models.BookingStatusConfirmed {
			out = append(out, b)
		}
	}
	return out, nil
}

func (f *fakeBookings) BookingsForDate(_ context.Context, _ string) ([]models.Booking, error) {
	return nil, nil
}

type fakeProfiles struct {
	mu       sync.Mutex
	profiles map[string]models.Profile
}

func (f *fakeProfiles) Get(_ context.Context, userID string) (*models.Profile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if p, ok := f.profiles[userID]; ok {
		cp := p
		return &cp, nil
	}
	return nil, nil
}

func (f *fakeProfiles) Upsert(_ context.Context, userID, fullName, phone string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.profiles[userID] = models.Profile{UserID: userID, FullName: fullName, Phone: phone}
	return nil
}

type fakeDialog struct {
	mu    sync.Mutex
	turns []models.DialogTurn
}

func (f *fakeDialog) Append(_ context.Context, userID, userText, botReply string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.turns = append(f.turns, models.DialogTurn{
		UserID: userID, UserText: userText, BotReply: botReply, CreatedAt: time.Now(),
	})
	return nil
}

func (f *fakeDialog) RecentTurns(_ context.Context, userID string, limit int) ([]models.DialogTurn, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.DialogTurn
	for i := len(f.turns) - 1; i >= 0 && len(out) < limit; i-- {
		if f.turns[i].UserID == userID {
			out = append(out, f.turns[i])
		}
	}
	return out, nil
}

type fakeAI struct {
	answer string
	asked  []string
}

func (f *fakeAI) Answer(_ context.Context, _ string, query string) string {
	f.asked = append(f.asked, query)
	return f.answer
}

func newTestAssistant(t *testing.T) (*DefaultService, *fakeBookings, *fakeProfiles, *fakeDialog, *fakeAI) {
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

	bookings := &fakeBookings{cal: cal}
	profiles := &fakeProfiles{profiles: make(map[string]models.Profile)}
	dialog := &fakeDialog{}
	ai := &fakeAI{answer: "сгенерированный ответ"}
	sessions := intake.NewMemorySessionStore()

	ranker := retrieval.NewRanker(config.Config{
		FAQThreshold:   0.9,
		FAQTagWeight:   2.0,
		KBTokenWeight:  1.5,
		KBTextLimit:    1500,
		KBSimilarLimit: 1000,
	}, nil, []models.FAQEntry{
		{ID: "faq-01", Answer: "Адрес: Алматы, Басенова 25.", Tags: "адрес где находится колледж"},
	})

	machine := intake.NewMachine(sessions, bookings, cal, profiles, nil, zap.NewNop())
	svc := &DefaultService{
		Machine:  machine,
		Sessions: sessions,
		Bookings: bookings,
		Profiles: profiles,
		Dialog:   dialog,
		Ranker:   ranker,
		AI:       ai,
		Logger:   zap.NewNop(),
	}
	return svc, bookings, profiles, dialog, ai
}

func TestStartOnboardsNewVisitor(t *testing.T) {
	svc, _, profiles, _, _ := newTestAssistant(t)
	ctx := context.Background()
	const user = "u1"

	reply, err := svc.Respond(ctx, user, intake.Event{Text: "/start"})
	require.NoError(t, err)
	assert.Contains(t, reply.Text, "ФИО")

	reply, err = svc.Respond(ctx, user, intake.Event{Text: "Иванов Иван"})
	require.NoError(t, err)
	assert.Contains(t, reply.Text, "телефон")

	reply, err = svc.Respond(ctx, user, intake.Event{Text: "8 700 123 45 67"})
	require.NoError(t, err)
	assert.Contains(t, reply.Text, "Иван")
	assert.Contains(t, reply.Text, "/book")

	p, err := profiles.Get(ctx, user)
	require.NoError(t, err)
	assert.True(t, p.Complete())
}

func TestStartGreetsReturningVisitor(t *testing.T) {
	svc, _, profiles, _, _ := newTestAssistant(t)
	ctx := context.Background()
	const user = "u1"

	require.NoError(t, profiles.Upsert(ctx, user, "Петров Пётр", "+77001112233"))

	reply, err := svc.Respond(ctx, user, intake.Event{Text: "/start"})
	require.NoError(t, err)
	assert.Contains(t, reply.Text, "Пётр")
	assert.Contains(t, reply.Text, "/book")
}

func TestBookCommandOpensDatePicker(t *testing.T) {
	svc, _, _, _, _ := newTestAssistant(t)
	ctx := context.Background()

	reply, err := svc.Respond(ctx, "u1", intake.Event{Text: "/book"})
	require.NoError(t, err)
	assert.Contains(t, reply.Text, "дату")
	assert.NotEmpty(t, reply.Choices)
}

func TestActiveIntakeSessionTakesTextPriority(t *testing.T) {
	svc, _, profiles, _, ai := newTestAssistant(t)
	ctx := context.Background()
	const user = "u1"

	require.NoError(t, profiles.Upsert(ctx, user, "Петров Пётр", "+77001112233"))

	reply, err := svc.Respond(ctx, user, intake.Event{Text: "/book"})
	require.NoError(t, err)
	require.NotEmpty(t, reply.Choices)

	reply, err = svc.Respond(ctx, user, intake.Event{Callback: reply.Choices[0].Token})
	require.NoError(t, err)
	require.NotEmpty(t, reply.Choices)
	timeToken := reply.Choices[0].Token

	reply, err = svc.Respond(ctx, user, intake.Event{Callback: timeToken})
	require.NoError(t, err)
	assert.Contains(t, reply.Text, "тему")

	// Free text that would otherwise match the FAQ feeds the live session.
	reply, err = svc.Respond(ctx, user, intake.Event{Text: "где находится колледж"})
	require.NoError(t, err)
	assert.Contains(t, reply.Text, "Подтвердите")
	assert.Empty(t, ai.asked)
}

func TestFAQAnswerAndDialogLog(t *testing.T) {
	svc, _, _, dialog, ai := newTestAssistant(t)
	ctx := context.Background()

	reply, err := svc.Respond(ctx, "u1", intake.Event{Text: "где находится колледж"})
	require.NoError(t, err)
	assert.Contains(t, reply.Text, "Басенова")
	assert.Empty(t, ai.asked)

	require.Len(t, dialog.turns, 1)
	assert.Equal(t, "где находится колледж", dialog.turns[0].UserText)
	assert.Equal(t, reply.Text, dialog.turns[0].BotReply)
}

func TestGenerativeFallbackWhenFAQMisses(t *testing.T) {
	svc, _, _, dialog, ai := newTestAssistant(t)
	ctx := context.Background()

	reply, err := svc.Respond(ctx, "u1", intake.Event{Text: "расскажите про студенческие клубы"})
	require.NoError(t, err)
	assert.Equal(t, "сгенерированный ответ", reply.Text)
	require.Len(t, ai.asked, 1)
	require.Len(t, dialog.turns, 1)
}

func TestMyBookingsAndCancelCallback(t *testing.T) {
	svc, bookings, _, _, _ := newTestAssistant(t)
	ctx := context.Background()
	const user = "u1"

	reply, err := svc.Respond(ctx, user, intake.Event{Text: "/mybookings"})
	require.NoError(t, err)
	assert.Contains(t, reply.Text, "нет активных")

	_, err = bookings.CreateBooking(ctx, user, "Иванов Иван", "+77001234567", "2026-09-01", "10:00", "Гранты")
	require.NoError(t, err)

	reply, err = svc.Respond(ctx, user, intake.Event{Text: "/mybookings"})
	require.NoError(t, err)
	assert.Contains(t, reply.Text, "2026-09-01 10:00")
	require.Len(t, reply.Choices, 1)
	assert.Equal(t, "cancel:2026-09-01:10:00", reply.Choices[0].Token)

	reply, err = svc.Respond(ctx, user, intake.Event{Callback: reply.Choices[0].Token})
	require.NoError(t, err)
	assert.Contains(t, reply.Text, "отменена")

	// Repeated cancel is reported, not errored.
	reply, err = svc.Respond(ctx, user, intake.Event{Callback: "cancel:2026-09-01:10:00"})
	require.NoError(t, err)
	assert.Contains(t, reply.Text, "уже отменена")
}

func TestStaleCallbackOffersRestart(t *testing.T) {
	svc, _, _, _, _ := newTestAssistant(t)
	ctx := context.Background()

	reply, err := svc.Respond(ctx, "u1", intake.Event{Callback: "pick_date:2026-09-01"})
	require.NoError(t, err)
	assert.Contains(t, reply.Text, "/book")
}

func TestCancelCommandAbortsIntake(t *testing.T) {
	svc, _, _, _, _ := newTestAssistant(t)
	ctx := context.Background()
	const user = "u1"

	_, err := svc.Respond(ctx, user, intake.Event{Text: "/book"})
	require.NoError(t, err)

	reply, err := svc.Respond(ctx, user, intake.Event{Text: "/cancel"})
	require.NoError(t, err)
	assert.Contains(t, reply.Text, "прервал")

	active, err := svc.Machine.Active(ctx, user)
	require.NoError(t, err)
	assert.False(t, active)
}
