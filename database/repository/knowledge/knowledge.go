package knowledgeRepo

import (
	"context"

	"admissions/models"
)

// Repository exposes the read side of the knowledge base and FAQ corpus.
// Both collections are seeded once at startup and never mutated at runtime.
type Repository interface {
	AllKnowledge(ctx context.Context) ([]models.KnowledgeEntry, error)
	AllFAQ(ctx context.Context) ([]models.FAQEntry, error)
}
