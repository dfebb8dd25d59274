package retrieval

import (
	"regexp"
	"sort"
	"strings"

	"admissions/config"
	"admissions/models"
)

// hardRoute is a high-priority regexp shortcut. These intents are too common
// to risk on fuzzy scoring, so they are tested first against the normalized
// query and win over everything else.
type hardRoute struct {
	pattern *regexp.Regexp
	answer  string
}

var hardRoutes = []hardRoute{
	{
		regexp.MustCompile(`общежит`),
		"Общежитие: условия, порядок заселения и стоимость — в разделе «Общежитие». " +
			"Кратко: стоимость 36 000 ₸/мес; адрес — г. Алматы, Суюнбая 66–68; карта: https://go.2gis.com/z3c8o",
	},
	{
		regexp.MustCompile(`(скидк|грант)`),
		"Гранты и скидки: гранты по ОП (Гостиничный бизнес, Маркетинг, Менеджмент, Программное обеспечение, Туризм); " +
			"скидки — индивидуально по Положению. Подробнее — раздел «Гранты и скидки» или /book.",
	},
	{
		regexp.MustCompile(`(стоим|цена|оплат)`),
		"Стоимость обучения: 950 000 ₸ за учебный год.",
	},
	{
		regexp.MustCompile(`(дод|день открытых двер|открытых дверей)`),
		"Дни открытых дверей: график — https://ccu.edu.kz/den-otkrytyx-dverej/",
	},
	{
		regexp.MustCompile(`(сроки|прием)`),
		"Сроки приёма документов: с 25 июня по 25 августа.",
	},
}

// Ranker scores FAQ entries and knowledge fragments against free-text
// queries. The corpus is loaded once at construction; after that the ranker
// is read-only and safe for any number of concurrent callers.
type Ranker struct {
	faqThreshold  float64
	faqTagWeight  float64
	kbTokenWeight float64
	kbTextLimit   int
	kbSimLimit    int

	faq []scoredFAQ
	kb  []scoredEntry
}

// scoredFAQ caches an FAQ entry's normalized tags and token set.
type scoredFAQ struct {
	entry    models.FAQEntry
	normTags string
	tags     map[string]struct{}
}

// scoredEntry caches a knowledge entry's normalized searchable text.
type scoredEntry struct {
	entry    models.KnowledgeEntry
	normText string
	simText  string
	tokens   map[string]struct{}
}

// NewRanker precomputes the normalized corpus.
func NewRanker(cfg config.Config, kb []models.KnowledgeEntry, faq []models.FAQEntry) *Ranker {
	r := &Ranker{
		faqThreshold:  cfg.FAQThreshold,
		faqTagWeight:  cfg.FAQTagWeight,
		kbTokenWeight: cfg.KBTokenWeight,
		kbTextLimit:   cfg.KBTextLimit,
		kbSimLimit:    cfg.KBSimilarLimit,
	}

	r.faq = make([]scoredFAQ, 0, len(faq))
	for _, e := range faq {
		norm := Normalize(e.Tags)
		r.faq = append(r.faq, scoredFAQ{entry: e, normTags: norm, tags: Tokens(norm)})
	}

	r.kb = make([]scoredEntry, 0, len(kb))
	for _, e := range kb {
		text := e.Title + " " + e.Tags + " " + truncateRunes(e.Content, r.kbTextLimit)
		norm := Normalize(text)
		r.kb = append(r.kb, scoredEntry{
			entry:    e,
			normText: norm,
			simText:  truncateRunes(norm, r.kbSimLimit),
			tokens:   Tokens(norm),
		})
	}
	return r
}

// MatchFAQ returns a deterministic canned answer for the query, or ok=false
// when nothing clears the confidence threshold and the caller should fall
// back to generative answering. Hard routes are checked before scoring.
func (r *Ranker) MatchFAQ(query string) (string, bool) {
	q := Normalize(query)
	if q == "" {
		return "", false
	}

	for _, route := range hardRoutes {
		if route.pattern.MatchString(q) {
			return route.answer, true
		}
	}

	qTokens := Tokens(q)
	bestScore := -1.0
	bestAnswer := ""
	for _, f := range r.faq {
		score := r.faqTagWeight*float64(intersectionSize(qTokens, f.tags)) +
			SimilarityRatio(q, f.normTags)
		// Strictly greater keeps the first entry on ties.
		if score > bestScore {
			bestScore = score
			bestAnswer = f.entry.Answer
		}
	}

	if bestScore >= r.faqThreshold {
		return bestAnswer, true
	}
	return "", false
}

// RankKnowledge returns the k best-scoring knowledge entries for the query.
// No threshold applies: the entries only feed a downstream generator, so the
// best available context is always returned even when scores are low.
func (r *Ranker) RankKnowledge(query string, k int) []models.KnowledgeEntry {
	q := Normalize(query)
	qTokens := Tokens(q)

	type ranked struct {
		idx   int
		score float64
	}
	scores := make([]ranked, 0, len(r.kb))
	for i, e := range r.kb {
		score := r.kbTokenWeight*float64(intersectionSize(qTokens, e.tokens)) +
			SimilarityRatio(q, e.simText)
		scores = append(scores, ranked{idx: i, score: score})
	}

	// Stable sort: corpus order breaks ties.
	sort.SliceStable(scores, func(i, j int) bool {
		return scores[i].score > scores[j].score
	})

	if k > len(scores) {
		k = len(scores)
	}
	out := make([]models.KnowledgeEntry, 0, k)
	for _, s := range scores[:k] {
		out = append(out, r.kb[s.idx].entry)
	}
	return out
}

// AllKnowledge exposes the full corpus in seed order, for the full-context
// generative mode.
func (r *Ranker) AllKnowledge() []models.KnowledgeEntry {
	out := make([]models.KnowledgeEntry, 0, len(r.kb))
	for _, e := range r.kb {
		out = append(out, e.entry)
	}
	return out
}

// ContextBlocks renders knowledge entries as titled blocks for prompt
// assembly.
func ContextBlocks(entries []models.KnowledgeEntry) string {
	var sb strings.Builder
	for i, e := range entries {
		if i > 0 {
			sb.WriteString("\n\n")
		}
		sb.WriteString("### ")
		sb.WriteString(e.Title)
		sb.WriteString("\n")
		sb.WriteString(e.Content)
	}
	return sb.String()
}
