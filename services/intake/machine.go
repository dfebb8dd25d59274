package intake

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	profileRepo "admissions/database/repository/profile"
	"admissions/models"
	"admissions/services/booking"
	"admissions/services/calendar"
	"admissions/services/tasks"

	"go.uber.org/zap"
)

// Callback token prefixes understood by the machine. The transport renders
// choices however it likes and feeds the token back verbatim.
const (
	tokenPickDate    = "pick_date:"
	tokenPickTime    = "pick_time:"
	tokenBackToDates = "back_to_dates"
	tokenCancel      = "cancel:"
)

// Event is one inbound user action: free text or a structured callback
// token. Exactly one of the two drives a transition.
type Event struct {
	Text     string
	Callback string
}

// Machine runs the booking intake conversation. Each user's events are
// serialized through the lock registry; validation failures re-prompt in
// place and never advance the state or drop collected fields.
type Machine struct {
	Sessions  SessionStore
	Bookings  booking.Service
	Calendar  *calendar.Calendar
	Profiles  profileRepo.Repository
	Reminders tasks.Scheduler // optional; nil disables reminders
	Logger    *zap.Logger

	locks *userLocks
	now   func() time.Time
}

func NewMachine(
	sessions SessionStore,
	bookings booking.Service,
	cal *calendar.Calendar,
	profiles profileRepo.Repository,
	reminders tasks.Scheduler,
	logger *zap.Logger,
) *Machine {
	return &Machine{
		Sessions:  sessions,
		Bookings:  bookings,
		Calendar:  cal,
		Profiles:  profiles,
		Reminders: reminders,
		Logger:    logger,
		locks:     newUserLocks(),
		now:       time.Now,
	}
}

// Active reports whether the user has a live intake session.
func (m *Machine) Active(ctx context.Context, userID string) (bool, error) {
	sess, err := m.Sessions.Get(ctx, userID)
	return sess != nil, err
}

// Start discards any previous session and begins a new intake at the date
// selection step.
func (m *Machine) Start(ctx context.Context, userID string) (*models.Reply, error) {
	unlock := m.locks.lock(userID)
	defer unlock()

	sess := &models.IntakeSession{State: models.StateChoosingDate}
	if err := m.Sessions.Set(ctx, userID, sess); err != nil {
		return nil, err
	}
	return m.datesReply(), nil
}

// Abort drops the user's session, if any.
func (m *Machine) Abort(ctx context.Context, userID string) error {
	unlock := m.locks.lock(userID)
	defer unlock()
	return m.Sessions.Clear(ctx, userID)
}

// Handle advances the session with one event. It returns (nil, nil) when the
// user has no active session.
func (m *Machine) Handle(ctx context.Context, userID string, ev Event) (*models.Reply, error) {
	unlock := m.locks.lock(userID)
	defer unlock()

	sess, err := m.Sessions.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	if sess == nil {
		return nil, nil
	}

	switch sess.State {
	case models.StateChoosingDate:
		return m.handleChoosingDate(ctx, userID, sess, ev)
	case models.StateChoosingTime:
		return m.handleChoosingTime(ctx, userID, sess, ev)
	case models.StateEnteringName:
		return m.handleEnteringName(ctx, userID, sess, ev)
	case models.StateEnteringPhone:
		return m.handleEnteringPhone(ctx, userID, sess, ev)
	case models.StateEnteringTopic:
		return m.handleEnteringTopic(ctx, userID, sess, ev)
	case models.StateConfirm:
		return m.handleConfirm(ctx, userID, sess, ev)
	default:
		// A session with an unknown tag is corrupt; drop it rather than
		// loop forever.
		_ = m.Sessions.Clear(ctx, userID)
		return nil, fmt.Errorf("unknown intake state %q", sess.State)
	}
}

func (m *Machine) handleChoosingDate(ctx context.Context, userID string, sess *models.IntakeSession, ev Event) (*models.Reply, error) {
	date, ok := strings.CutPrefix(ev.Callback, tokenPickDate)
	if !ok || !m.isBookableDate(date) {
		// Invalid pick: same state, fresh date list.
		return m.datesReply(), nil
	}

	sess.Date = date
	sess.State = models.StateChoosingTime
	if err := m.Sessions.Set(ctx, userID, sess); err != nil {
		return nil, err
	}
	return m.timesReply(ctx, date)
}

func (m *Machine) handleChoosingTime(ctx context.Context, userID string, sess *models.IntakeSession, ev Event) (*models.Reply, error) {
	if ev.Callback == tokenBackToDates {
		sess.State = models.StateChoosingDate
		sess.Date = ""
		if err := m.Sessions.Set(ctx, userID, sess); err != nil {
			return nil, err
		}
		return m.datesReply(), nil
	}

	rest, ok := strings.CutPrefix(ev.Callback, tokenPickTime)
	if !ok {
		return m.timesReply(ctx, sess.Date)
	}
	parts := strings.SplitN(rest, ":", 2)
	if len(parts) != 2 {
		return m.timesReply(ctx, sess.Date)
	}
	date, slot := parts[0], parts[1]

	free, err := m.Bookings.AvailableSlots(ctx, date)
	if err != nil {
		return nil, err
	}
	if !containsString(free, slot) {
		reply, rerr := m.timesReply(ctx, sess.Date)
		if rerr != nil {
			return nil, rerr
		}
		reply.Text = "Этот слот недоступен. " + reply.Text
		return reply, nil
	}

	sess.Date = date
	sess.Time = slot

	// Fields collected earlier (e.g. before a conflict rewind) are not asked
	// again: jump to the first step still missing.
	if sess.FullName != "" && sess.Phone != "" && sess.Topic != "" {
		sess.State = models.StateConfirm
		if err := m.Sessions.Set(ctx, userID, sess); err != nil {
			return nil, err
		}
		return m.confirmPrompt(sess), nil
	}
	if sess.FullName != "" && sess.Phone != "" {
		sess.State = models.StateEnteringTopic
		if err := m.Sessions.Set(ctx, userID, sess); err != nil {
			return nil, err
		}
		return models.TextReply(fmt.Sprintf(
			"Дата: %s\nВремя: %s\n\nКратко опишите тему консультации:",
			fmtUserDate(date), slot)), nil
	}

	// Identity skip: a complete saved profile pre-fills name and phone.
	profile, err := m.Profiles.Get(ctx, userID)
	if err != nil {
		m.Logger.Warn("profile lookup failed, collecting identity inline",
			zap.String("userId", userID), zap.Error(err))
	}
	if profile.Complete() {
		sess.FullName = profile.FullName
		sess.Phone = profile.Phone
		sess.State = models.StateEnteringTopic
		if err := m.Sessions.Set(ctx, userID, sess); err != nil {
			return nil, err
		}
		return models.TextReply(fmt.Sprintf(
			"Дата: %s\nВремя: %s\n\nКратко опишите тему консультации:",
			fmtUserDate(date), slot)), nil
	}

	sess.State = models.StateEnteringName
	if err := m.Sessions.Set(ctx, userID, sess); err != nil {
		return nil, err
	}
	return models.TextReply(fmt.Sprintf(
		"Дата: %s\nВремя: %s\n\nВведите Ваши ФИО сообщением:",
		fmtUserDate(date), slot)), nil
}

func (m *Machine) handleEnteringName(ctx context.Context, userID string, sess *models.IntakeSession, ev Event) (*models.Reply, error) {
	name := strings.TrimSpace(ev.Text)
	if !ValidFullName(name) {
		return models.TextReply("Пожалуйста, укажите ФИО полностью (например: Иванов Иван Иванович)."), nil
	}

	sess.FullName = name
	sess.State = models.StateEnteringPhone
	if err := m.Sessions.Set(ctx, userID, sess); err != nil {
		return nil, err
	}
	return models.TextReply("Укажите Ваш телефон (например: +77001234567):"), nil
}

func (m *Machine) handleEnteringPhone(ctx context.Context, userID string, sess *models.IntakeSession, ev Event) (*models.Reply, error) {
	phone := NormalizePhone(ev.Text)
	if !ValidPhone(phone) {
		return models.TextReply("Похоже на некорректный номер. Пример: +77001234567"), nil
	}

	sess.Phone = phone
	sess.State = models.StateEnteringTopic
	if err := m.Sessions.Set(ctx, userID, sess); err != nil {
		return nil, err
	}
	return models.TextReply("Кратко опишите тему консультации:"), nil
}

func (m *Machine) handleEnteringTopic(ctx context.Context, userID string, sess *models.IntakeSession, ev Event) (*models.Reply, error) {
	topic := strings.TrimSpace(ev.Text)
	if !ValidTopic(topic) {
		return models.TextReply("Нужно хотя бы 3 символа. Уточните тему:"), nil
	}

	sess.Topic = topic
	sess.State = models.StateConfirm
	if err := m.Sessions.Set(ctx, userID, sess); err != nil {
		return nil, err
	}
	return m.confirmPrompt(sess), nil
}

func (m *Machine) confirmPrompt(sess *models.IntakeSession) *models.Reply {
	return models.TextReply(fmt.Sprintf(
		"Подтвердите запись\n\nДата: %s\nВремя: %s\nФИО: %s\nТелефон: %s\nТема: %s\n\nНапишите Да или Нет.",
		fmtUserDate(sess.Date), sess.Time, sess.FullName, sess.Phone, sess.Topic))
}

func (m *Machine) handleConfirm(ctx context.Context, userID string, sess *models.IntakeSession, ev Event) (*models.Reply, error) {
	switch {
	case isYes(ev.Text):
		return m.confirmBooking(ctx, userID, sess)
	case isNo(ev.Text):
		if err := m.Sessions.Clear(ctx, userID); err != nil {
			return nil, err
		}
		return models.TextReply("Запись отменена. При необходимости начните заново: /book"), nil
	default:
		return models.TextReply("Пожалуйста, ответьте «Да» или «Нет»."), nil
	}
}

func (m *Machine) confirmBooking(ctx context.Context, userID string, sess *models.IntakeSession) (*models.Reply, error) {
	b, err := m.Bookings.CreateBooking(ctx, userID, sess.FullName, sess.Phone, sess.Date, sess.Time, sess.Topic)
	if errors.Is(err, booking.ErrSlotTaken) {
		// Lost the race for the slot: rewind to time selection with fresh
		// availability. Name, phone and topic stay collected.
		sess.Time = ""
		sess.State = models.StateChoosingTime
		if serr := m.Sessions.Set(ctx, userID, sess); serr != nil {
			return nil, serr
		}
		reply, rerr := m.timesReply(ctx, sess.Date)
		if rerr != nil {
			return nil, rerr
		}
		reply.Text = "Этот слот уже занят. Выберите другое время:"
		return reply, nil
	}
	if err != nil {
		return nil, err
	}

	if err := m.Sessions.Clear(ctx, userID); err != nil {
		return nil, err
	}

	// Remember the identity for the next intake; failure only loses the
	// skip, not the booking.
	if err := m.Profiles.Upsert(ctx, userID, b.FullName, b.Phone); err != nil {
		m.Logger.Warn("profile save failed", zap.String("userId", userID), zap.Error(err))
	}
	if m.Reminders != nil {
		if err := m.Reminders.ScheduleConsultationReminder(ctx, b); err != nil {
			m.Logger.Warn("reminder enqueue failed", zap.String("bookingId", b.ID), zap.Error(err))
		}
	}

	return &models.Reply{
		Text: fmt.Sprintf("Ваша запись подтверждена: %s %s.\nЕсли планы изменятся — отмените запись кнопкой ниже.",
			fmtUserDate(b.Date), b.Time),
		Choices: []models.Choice{
			{Label: "Отменить запись", Token: tokenCancel + b.Date + ":" + b.Time},
		},
	}, nil
}

func (m *Machine) isBookableDate(date string) bool {
	return containsString(m.Calendar.BookableDates(m.now()), date)
}

func (m *Machine) datesReply() *models.Reply {
	dates := m.Calendar.BookableDates(m.now())
	choices := make([]models.Choice, 0, len(dates))
	for _, d := range dates {
		choices = append(choices, models.Choice{
			Label: fmtDateLabel(d),
			Token: tokenPickDate + d,
		})
	}
	return &models.Reply{
		Text:    "Выберите дату консультации (ближайшие 2 недели):",
		Choices: choices,
	}
}

func (m *Machine) timesReply(ctx context.Context, date string) (*models.Reply, error) {
	free, err := m.Bookings.AvailableSlots(ctx, date)
	if err != nil {
		return nil, err
	}

	back := models.Choice{Label: "Назад к датам", Token: tokenBackToDates}
	if len(free) == 0 {
		return &models.Reply{
			Text:    fmt.Sprintf("На %s свободных слотов нет.", fmtUserDate(date)),
			Choices: []models.Choice{back},
		}, nil
	}

	choices := make([]models.Choice, 0, len(free)+1)
	for _, slot := range free {
		choices = append(choices, models.Choice{
			Label: slot,
			Token: tokenPickTime + date + ":" + slot,
		})
	}
	choices = append(choices, back)
	return &models.Reply{
		Text:    fmt.Sprintf("Дата: %s\nВыберите время:", fmtUserDate(date)),
		Choices: choices,
	}, nil
}

// fmtUserDate renders an ISO date as дд–мм–гг for user-facing text.
func fmtUserDate(date string) string {
	d, err := time.Parse(calendar.DateLayout, date)
	if err != nil {
		return date
	}
	return d.Format("02–01–06")
}

func fmtDateLabel(date string) string {
	d, err := time.Parse(calendar.DateLayout, date)
	if err != nil {
		return date
	}
	return d.Format("Mon 02.01")
}

func containsString(ss []string, v string) bool {
	for _, s := range ss {
		if s == v {
			return true
		}
	}
	return false
}
