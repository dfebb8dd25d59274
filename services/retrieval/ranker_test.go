package retrieval

import (
	"testing"

	"admissions/config"
	"admissions/models"

	"github.com/stretchr/testify/assert"
)

func rankerConfig() config.Config {
	return config.Config{
		FAQThreshold:   0.9,
		FAQTagWeight:   2.0,
		KBTokenWeight:  1.5,
		KBTextLimit:    1500,
		KBSimilarLimit: 1000,
	}
}

func testRanker() *Ranker {
	kb := []models.KnowledgeEntry{
		{ID: "kb-1", Title: "Маркетинг", Tags: "обучение маркетинг сроки", Content: "Квалификация: маркетолог. Сроки обучения два года."},
		{ID: "kb-2", Title: "Туризм", Tags: "обучение туризм менеджер", Content: "Квалификация: менеджер по туризму."},
		{ID: "kb-3", Title: "Контакты", Tags: "контакты адрес телефоны", Content: "Адрес, телефоны и часы работы приёмной комиссии."},
	}
	faq := []models.FAQEntry{
		{ID: "faq-1", Tags: "адрес", Answer: "Наш адрес: проспект Сейфуллина, 521"},
		{ID: "faq-2", Tags: "документы поступление список", Answer: "Полный перечень документов: /docs"},
		{ID: "faq-3", Tags: "график работа часы режим", Answer: "Часы работы: Пн–Пт 09:00–17:00"},
	}
	return NewRanker(rankerConfig(), kb, faq)
}

func TestNormalize(t *testing.T) {
	assert.Equal(t, "привет мир", Normalize("  Привет,   МИР!!! "))
	// ё folds to е.
	assert.Equal(t, "прием и еще", Normalize("приём и ЕЩЁ"))
	// Kazakh letters survive the whitelist.
	assert.Equal(t, "қазақша сұрақ", Normalize("Қазақша сұрақ?"))
	// Punctuation and symbols become separators.
	assert.Equal(t, "цена 950 000", Normalize("цена: 950 000₸"))
}

func TestSimilarityRatio(t *testing.T) {
	assert.InDelta(t, 1.0, SimilarityRatio("абв", "абв"), 1e-9)
	assert.InDelta(t, 0.0, SimilarityRatio("абв", "где"), 1e-9)
	assert.InDelta(t, 1.0, SimilarityRatio("", ""), 1e-9)
	// difflib reference: ratio("abcd", "bcde") == 0.75.
	assert.InDelta(t, 0.75, SimilarityRatio("abcd", "bcde"), 1e-9)
	// Symmetric lengths, deterministic across calls.
	first := SimilarityRatio("запись на консультацию", "консультация запись")
	second := SimilarityRatio("запись на консультацию", "консультация запись")
	assert.Equal(t, first, second)
}

func TestHardRoutesWinOverScoring(t *testing.T) {
	r := testRanker()

	ans, ok := r.MatchFAQ("Есть ли у вас общежитие?")
	assert.True(t, ok)
	assert.Contains(t, ans, "Общежитие")

	ans, ok = r.MatchFAQ("какая стоимость обучения")
	assert.True(t, ok)
	assert.Contains(t, ans, "950 000")

	ans, ok = r.MatchFAQ("можно про гранты узнать")
	assert.True(t, ok)
	assert.Contains(t, ans, "Гранты")
}

func TestMatchFAQThreshold(t *testing.T) {
	r := testRanker()

	// Direct tag overlap: intersection >= 1 gives score >= 2.0 > 0.9.
	ans, ok := r.MatchFAQ("какие документы нужны для поступления")
	assert.True(t, ok)
	assert.Equal(t, "Полный перечень документов: /docs", ans)

	// Gibberish with no overlap stays below the threshold.
	_, ok = r.MatchFAQ("фыва олдж зxcv")
	assert.False(t, ok)
}

func TestMatchFAQDeterministic(t *testing.T) {
	r := testRanker()
	first, ok1 := r.MatchFAQ("график работы приемной комиссии")
	second, ok2 := r.MatchFAQ("график работы приемной комиссии")
	assert.Equal(t, ok1, ok2)
	assert.Equal(t, first, second)
}

func TestRankKnowledgeOrderAndBound(t *testing.T) {
	r := testRanker()

	top := r.RankKnowledge("сроки обучения маркетинг", 2)
	assert.Len(t, top, 2)
	assert.Equal(t, "kb-1", top[0].ID)

	// k larger than the corpus returns everything, never panics.
	all := r.RankKnowledge("адрес", 10)
	assert.Len(t, all, 3)
	assert.Equal(t, "kb-3", all[0].ID)
}

func TestRankKnowledgeStableTieBreak(t *testing.T) {
	r := testRanker()

	// A query matching nothing scores ~0 everywhere; corpus order must hold.
	out := r.RankKnowledge("xyz", 3)
	assert.Equal(t, []string{out[0].ID, out[1].ID, out[2].ID},
		[]string{"kb-1", "kb-2", "kb-3"})
}

func TestIsKazakhText(t *testing.T) {
	assert.True(t, IsKazakhText("сұрағым бар"))
	assert.False(t, IsKazakhText("обычный русский текст"))
}
