package intelligence

import (
	"context"
	"strings"
	"time"

	dialogRepo "admissions/database/repository/dialog"
	knowledgeRepo "admissions/database/repository/knowledge"
	"admissions/services/retrieval"

	"go.uber.org/zap"
)

// Knowledge context modes.
const (
	ContextModeAll  = "all"
	ContextModeTopK = "topk"
	ContextModeNone = "none"
)

// Canned replies when the generator is unavailable. Failures upstream are
// never surfaced as errors to the conversation.
const (
	unavailableRu = "Не удалось получить ответ от ИИ. Попробуйте ещё раз или воспользуйтесь /book."
	unavailableKk = "Сұрағыңыз бойынша көмектесемін. Толық ақпарат үшін /book арқылы жазылыңыз немесе байланысқа шығыңыз."
)

// Service answers free-text questions with the generative fallback,
// supplying ranked knowledge context and recent dialogue history.
type Service interface {
	// Answer never fails: on generator error or timeout it returns a fixed
	// unavailability message.
	Answer(ctx context.Context, userID, query string) string
}

// DefaultService implements Service.
type DefaultService struct {
	Generator   Generator
	Ranker      *retrieval.Ranker
	Dialog      dialogRepo.Repository
	Logger      *zap.Logger
	ContextMode string
	TopK        int
	HistoryLen  int
	Timeout     time.Duration
}

func (s *DefaultService) Answer(ctx context.Context, userID, query string) string {
	if s.Generator == nil {
		return s.unavailable(query)
	}

	prompt := s.buildPrompt(ctx, userID, query)

	// The generator call is a suspension point: bound it so a slow
	// collaborator cannot stall the conversation. On timeout the in-flight
	// result is abandoned.
	ctx, cancel := context.WithTimeout(ctx, s.Timeout)
	defer cancel()

	answer, err := s.Generator.GenerateContent(ctx, prompt)
	if err != nil {
		s.Logger.Warn("generative fallback unavailable",
			zap.String("userId", userID), zap.Error(err))
		return s.unavailable(query)
	}
	answer = strings.TrimSpace(answer)
	if answer == "" {
		return s.unavailable(query)
	}
	return answer
}

func (s *DefaultService) unavailable(query string) string {
	if retrieval.IsKazakhText(query) {
		return unavailableKk
	}
	return unavailableRu
}

func (s *DefaultService) buildPrompt(ctx context.Context, userID, query string) string {
	var sb strings.Builder
	sb.WriteString(systemPreamble(retrieval.IsKazakhText(query)))

	switch s.ContextMode {
	case ContextModeAll:
		sb.WriteString("\n\n— Контекст знаний —\n")
		sb.WriteString(retrieval.ContextBlocks(s.Ranker.AllKnowledge()))
	case ContextModeTopK:
		sb.WriteString("\n\n— Контекст знаний —\n")
		sb.WriteString(retrieval.ContextBlocks(s.Ranker.RankKnowledge(query, s.TopK)))
	case ContextModeNone:
		// No knowledge context.
	}

	// History arrives most-recent-first; replay it chronologically.
	turns, err := s.Dialog.RecentTurns(ctx, userID, s.HistoryLen)
	if err != nil {
		s.Logger.Warn("dialog history unavailable",
			zap.String("userId", userID), zap.Error(err))
		turns = nil
	}
	for i := len(turns) - 1; i >= 0; i-- {
		sb.WriteString("\n\nПользователь: ")
		sb.WriteString(turns[i].UserText)
		sb.WriteString("\nАссистент: ")
		sb.WriteString(turns[i].BotReply)
	}

	sb.WriteString("\n\nПользователь: ")
	sb.WriteString(query)
	sb.WriteString("\nАссистент:")
	return sb.String()
}

func systemPreamble(kazakh bool) string {
	base := "Ты — дружелюбный ассистент приёмной комиссии " + knowledgeRepo.CollegeName + " (Алматы, Казахстан).\n" +
		"Отвечай свободно и понятно, опираясь только на предоставленный контекст знаний.\n" +
		"Если в контексте нет точных данных по вопросу — так и скажи, предложи консультацию (/book) и укажи контакты.\n" +
		"Не выдумывай даты или цифры, которых нет в контексте.\n" +
		"Контакты: адрес " + knowledgeRepo.CollegeAddress + ", телефоны " + knowledgeRepo.CollegePhones +
		", e-mail " + knowledgeRepo.CollegeEmail + ", сайт " + knowledgeRepo.CollegeSite + ".\n" +
		"Если пользователя интересует запись — предложи /book."
	if kazakh {
		base += "\nТіл саясаты: пайдаланушы қазақша жазса — жауапты қазақ тілінде бер."
	}
	return base
}
