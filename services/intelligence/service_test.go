package intelligence

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"admissions/config"
	"admissions/models"
	"admissions/services/retrieval"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeGenerator struct {
	mu      sync.Mutex
	prompt  string
	reply   string
	err     error
	blockOn bool
}

func (f *fakeGenerator) GenerateContent(ctx context.Context, prompt string) (string, error) {
	f.mu.Lock()
	f.prompt = prompt
	f.mu.Unlock()
	if f.blockOn {
		<-ctx.Done()
		return "", ctx.Err()
	}
	return f.reply, f.err
}

func (f *fakeGenerator) lastPrompt() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.prompt
}

type memoryDialog struct {
	turns []models.DialogTurn
}

func (m *memoryDialog) Append(_ context.Context, userID, userText, botReply string) error {
	m.turns = append(m.turns, models.DialogTurn{UserID: userID, UserText: userText, BotReply: botReply})
	return nil
}

func (m *memoryDialog) RecentTurns(_ context.Context, userID string, limit int) ([]models.DialogTurn, error) {
	var out []models.DialogTurn
	for i := len(m.turns) - 1; i >= 0 && len(out) < limit; i-- {
		if m.turns[i].UserID == userID {
			out = append(out, m.turns[i])
		}
	}
	return out, nil
}

func testRanker() *retrieval.Ranker {
	return retrieval.NewRanker(config.Config{
		FAQThreshold:   0.9,
		FAQTagWeight:   2.0,
		KBTokenWeight:  1.5,
		KBTextLimit:    1500,
		KBSimilarLimit: 1000,
	}, []models.KnowledgeEntry{
		{ID: "kb-1", Title: "Гранты", Tags: "гранты скидки", Content: "Гранты по пяти программам."},
		{ID: "kb-2", Title: "Общежитие", Tags: "общежитие жильё", Content: "Стоимость 36 000 тенге."},
	}, nil)
}

func newTestService(gen Generator) (*DefaultService, *memoryDialog) {
	dialog := &memoryDialog{}
	return &DefaultService{
		Generator:   gen,
		Ranker:      testRanker(),
		Dialog:      dialog,
		Logger:      zap.NewNop(),
		ContextMode: ContextModeTopK,
		TopK:        2,
		HistoryLen:  6,
		Timeout:     time.Second,
	}, dialog
}

func TestAnswerReturnsGeneratedText(t *testing.T) {
	gen := &fakeGenerator{reply: "  Ответ по грантам.  "}
	svc, _ := newTestService(gen)

	got := svc.Answer(context.Background(), "u1", "какие есть гранты")
	assert.Equal(t, "Ответ по грантам.", got)
}

func TestPromptCarriesContextAndHistory(t *testing.T) {
	gen := &fakeGenerator{reply: "ок"}
	svc, dialog := newTestService(gen)

	require.NoError(t, dialog.Append(context.Background(), "u1", "первый вопрос", "первый ответ"))
	require.NoError(t, dialog.Append(context.Background(), "u1", "второй вопрос", "второй ответ"))

	svc.Answer(context.Background(), "u1", "какие есть гранты")
	prompt := gen.lastPrompt()

	assert.Contains(t, prompt, "### Гранты")
	assert.Contains(t, prompt, "Гранты по пяти программам.")

	// History replays oldest first.
	first := strings.Index(prompt, "первый вопрос")
	second := strings.Index(prompt, "второй вопрос")
	current := strings.Index(prompt, "какие есть гранты")
	require.True(t, first >= 0 && second >= 0 && current >= 0)
	assert.Less(t, first, second)
	assert.Less(t, second, current)
}

func TestContextModeNoneOmitsKnowledge(t *testing.T) {
	gen := &fakeGenerator{reply: "ок"}
	svc, _ := newTestService(gen)
	svc.ContextMode = ContextModeNone

	svc.Answer(context.Background(), "u1", "какие есть гранты")
	assert.NotContains(t, gen.lastPrompt(), "### Гранты")
}

func TestGeneratorFailureYieldsFixedMessage(t *testing.T) {
	gen := &fakeGenerator{err: errors.New("quota exceeded")}
	svc, _ := newTestService(gen)

	got := svc.Answer(context.Background(), "u1", "какие есть гранты")
	assert.Equal(t, unavailableRu, got)

	got = svc.Answer(context.Background(), "u1", "қандай гранттар бар")
	assert.Equal(t, unavailableKk, got)
}

func TestGeneratorTimeoutYieldsFixedMessage(t *testing.T) {
	gen := &fakeGenerator{blockOn: true}
	svc, _ := newTestService(gen)
	svc.Timeout = 10 * time.Millisecond

	got := svc.Answer(context.Background(), "u1", "какие есть гранты")
	assert.Equal(t, unavailableRu, got)
}

func TestNilGeneratorYieldsFixedMessage(t *testing.T) {
	svc, _ := newTestService(nil)
	svc.Generator = nil

	got := svc.Answer(context.Background(), "u1", "вопрос")
	assert.Equal(t, unavailableRu, got)
}
