package assistant

import (
	"context"
	"fmt"
	"strings"

	dialogRepo "admissions/database/repository/dialog"
	knowledgeRepo "admissions/database/repository/knowledge"
	profileRepo "admissions/database/repository/profile"
	"admissions/models"
	"admissions/services/booking"
	"admissions/services/intake"
	"admissions/services/intelligence"
	"admissions/services/retrieval"

	"go.uber.org/zap"
)

// cancelToken prefixes the self-service cancel callback attached to booking
// confirmations and /mybookings rows. Payload: "cancel:<date>:<time>".
const cancelToken = "cancel:"

const greetingText = "Здравствуйте! Я ассистент приёмной комиссии.\n\n" +
	"/book — записаться на консультацию\n" +
	"/mybookings — мои записи\n" +
	"/contacts — контакты колледжа\n\n" +
	"Или просто задайте вопрос текстом."

// Service is the conversation front door: it routes every inbound event to
// commands, the intake machine, onboarding, FAQ matching, or the generative
// fallback, in that order.
type Service interface {
	Respond(ctx context.Context, userID string, ev intake.Event) (*models.Reply, error)
}

// DefaultService implements Service.
type DefaultService struct {
	Machine  *intake.Machine
	Sessions intake.SessionStore
	Bookings booking.Service
	Profiles profileRepo.Repository
	Dialog   dialogRepo.Repository
	Ranker   *retrieval.Ranker
	AI       intelligence.Service
	Logger   *zap.Logger
}

func (s *DefaultService) Respond(ctx context.Context, userID string, ev intake.Event) (*models.Reply, error) {
	if ev.Callback != "" {
		return s.respondCallback(ctx, userID, ev)
	}
	return s.respondText(ctx, userID, strings.TrimSpace(ev.Text))
}

func (s *DefaultService) respondCallback(ctx context.Context, userID string, ev intake.Event) (*models.Reply, error) {
	if rest, ok := strings.CutPrefix(ev.Callback, cancelToken); ok {
		return s.cancelOwnBooking(ctx, userID, rest)
	}

	reply, err := s.Machine.Handle(ctx, userID, ev)
	if err != nil {
		return nil, err
	}
	if reply != nil {
		return reply, nil
	}
	// Callback without a live session: the session expired or the booking
	// already went through. Offer a restart instead of guessing.
	return models.TextReply("Сессия записи истекла. Начните заново: /book"), nil
}

func (s *DefaultService) respondText(ctx context.Context, userID, text string) (*models.Reply, error) {
	switch strings.ToLower(text) {
	case "/start":
		return s.startConversation(ctx, userID)
	case "/book":
		return s.Machine.Start(ctx, userID)
	case "/mybookings":
		return s.listBookings(ctx, userID)
	case "/cancel":
		if err := s.Machine.Abort(ctx, userID); err != nil {
			return nil, err
		}
		return models.TextReply("Хорошо, прервал. Начать заново: /book"), nil
	case "/contacts":
		return models.TextReply(knowledgeRepo.ContactsText), nil
	}

	ob, err := s.Sessions.GetOnboarding(ctx, userID)
	if err != nil {
		return nil, err
	}
	if ob != nil {
		return s.handleOnboarding(ctx, userID, ob, text)
	}

	reply, err := s.Machine.Handle(ctx, userID, intake.Event{Text: text})
	if err != nil {
		return nil, err
	}
	if reply != nil {
		return reply, nil
	}

	return s.answerQuestion(ctx, userID, text)
}

// answerQuestion tries the canned FAQ first and falls back to the generative
// service. Both outcomes are logged to the dialog history.
func (s *DefaultService) answerQuestion(ctx context.Context, userID, query string) (*models.Reply, error) {
	if query == "" {
		return models.TextReply(greetingText), nil
	}

	answer, ok := s.Ranker.MatchFAQ(query)
	if !ok {
		answer = s.AI.Answer(ctx, userID, query)
	}

	if err := s.Dialog.Append(ctx, userID, query, answer); err != nil {
		s.Logger.Warn("dialog log append failed",
			zap.String("userId", userID), zap.Error(err))
	}
	return models.TextReply(answer), nil
}

// startConversation greets returning visitors and begins onboarding for
// first-timers, collecting name and phone before the main menu.
func (s *DefaultService) startConversation(ctx context.Context, userID string) (*models.Reply, error) {
	profile, err := s.Profiles.Get(ctx, userID)
	if err != nil {
		s.Logger.Warn("profile lookup failed on /start",
			zap.String("userId", userID), zap.Error(err))
	}
	if profile.Complete() {
		first := firstName(profile.FullName)
		return models.TextReply("С возвращением, " + first + "!\n\n" + greetingText), nil
	}

	ob := &models.OnboardingSession{State: models.OnboardingName}
	if err := s.Sessions.SetOnboarding(ctx, userID, ob); err != nil {
		return nil, err
	}
	return models.TextReply("Здравствуйте! Давайте познакомимся.\nВведите Ваши ФИО сообщением:"), nil
}

func (s *DefaultService) handleOnboarding(ctx context.Context, userID string, ob *models.OnboardingSession, text string) (*models.Reply, error) {
	switch ob.State {
	case models.OnboardingName:
		if !intake.ValidFullName(text) {
			return models.TextReply("Пожалуйста, укажите ФИО полностью (например: Иванов Иван Иванович)."), nil
		}
		ob.FullName = text
		ob.State = models.OnboardingPhone
		if err := s.Sessions.SetOnboarding(ctx, userID, ob); err != nil {
			return nil, err
		}
		return models.TextReply("Укажите Ваш телефон (например: +77001234567):"), nil

	case models.OnboardingPhone:
		phone := intake.NormalizePhone(text)
		if !intake.ValidPhone(phone) {
			return models.TextReply("Похоже на некорректный номер. Пример: +77001234567"), nil
		}
		if err := s.Profiles.Upsert(ctx, userID, ob.FullName, phone); err != nil {
			return nil, err
		}
		if err := s.Sessions.ClearOnboarding(ctx, userID); err != nil {
			return nil, err
		}
		return models.TextReply("Приятно познакомиться, " + firstName(ob.FullName) + "!\n\n" + greetingText), nil

	default:
		_ = s.Sessions.ClearOnboarding(ctx, userID)
		return models.TextReply(greetingText), nil
	}
}

func (s *DefaultService) listBookings(ctx context.Context, userID string) (*models.Reply, error) {
	bookings, err := s.Bookings.BookingsForUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(bookings) == 0 {
		return models.TextReply("У Вас нет активных записей. Записаться: /book"), nil
	}

	var sb strings.Builder
	sb.WriteString("Ваши записи:\n")
	choices := make([]models.Choice, 0, len(bookings))
	for _, b := range bookings {
		sb.WriteString(fmt.Sprintf("\n• %s %s — %s", b.Date, b.Time, b.Topic))
		choices = append(choices, models.Choice{
			Label: "Отменить " + b.Date + " " + b.Time,
			Token: cancelToken + b.Date + ":" + b.Time,
		})
	}
	return &models.Reply{Text: sb.String(), Choices: choices}, nil
}

// cancelOwnBooking handles the "cancel:<date>:<time>" callback. Only the
// caller's own booking can be cancelled this way.
func (s *DefaultService) cancelOwnBooking(ctx context.Context, userID, rest string) (*models.Reply, error) {
	parts := strings.SplitN(rest, ":", 2)
	if len(parts) != 2 {
		return models.TextReply("Не удалось разобрать запись для отмены."), nil
	}
	date, slot := parts[0], parts[1]

	ok, err := s.Bookings.CancelBooking(ctx, userID, date, slot)
	if err != nil {
		return nil, err
	}
	if !ok {
		return models.TextReply("Эта запись уже отменена или не найдена."), nil
	}
	return models.TextReply("Запись отменена. Записаться снова: /book"), nil
}

func firstName(fullName string) string {
	fields := strings.Fields(fullName)
	if len(fields) >= 2 {
		// Stored as Surname Name [Patronymic].
		return fields[1]
	}
	if len(fields) == 1 {
		return fields[0]
	}
	return "друг"
}
