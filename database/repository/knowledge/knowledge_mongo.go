package knowledgeRepo

import (
	"context"
	"fmt"
	"time"

	"admissions/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoKnowledgeRepo implements Repository using MongoDB.
type MongoKnowledgeRepo struct {
	kbColl  *mongo.Collection
	faqColl *mongo.Collection
}

// NewMongoKnowledgeRepo creates the repository and seeds both collections if
// they are empty.
func NewMongoKnowledgeRepo(db *mongo.Database) (Repository, error) {
	repo := &MongoKnowledgeRepo{
		kbColl:  db.Collection("kb"),
		faqColl: db.Collection("faq"),
	}
	if err := repo.seed(); err != nil {
		return nil, err
	}
	return repo, nil
}

func newContext(parent context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(parent, timeout)
}

// seed inserts the embedded corpus on first start only.
func (r *MongoKnowledgeRepo) seed() error {
	ctx, cancel := newContext(context.Background(), 15*time.Second)
	defer cancel()

	n, err := r.kbColl.CountDocuments(ctx, bson.M{})
	if err != nil {
		return fmt.Errorf("failed to count kb entries: %w", err)
	}
	if n == 0 {
		docs := make([]interface{}, 0, len(seedKnowledge))
		for _, e := range seedKnowledge {
			docs = append(docs, e)
		}
		if _, err := r.kbColl.InsertMany(ctx, docs); err != nil {
			return fmt.Errorf("failed to seed kb: %w", err)
		}
	}

	n, err = r.faqColl.CountDocuments(ctx, bson.M{})
	if err != nil {
		return fmt.Errorf("failed to count faq entries: %w", err)
	}
	if n == 0 {
		docs := make([]interface{}, 0, len(seedFAQ))
		for _, e := range seedFAQ {
			docs = append(docs, e)
		}
		if _, err := r.faqColl.InsertMany(ctx, docs); err != nil {
			return fmt.Errorf("failed to seed faq: %w", err)
		}
	}
	return nil
}

func (r *MongoKnowledgeRepo) AllKnowledge(ctx context.Context) ([]models.KnowledgeEntry, error) {
	ctx, cancel := newContext(ctx, 10*time.Second)
	defer cancel()

	// Seed order is the tie-break order for ranking, so the sort matters.
	cur, err := r.kbColl.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "id", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("failed to list kb entries: %w", err)
	}
	defer cur.Close(ctx)

	var entries []models.KnowledgeEntry
	if err := cur.All(ctx, &entries); err != nil {
		return nil, fmt.Errorf("failed to decode kb entries: %w", err)
	}
	return entries, nil
}

func (r *MongoKnowledgeRepo) AllFAQ(ctx context.Context) ([]models.FAQEntry, error) {
	ctx, cancel := newContext(ctx, 10*time.Second)
	defer cancel()

	cur, err := r.faqColl.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "id", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("failed to list faq entries: %w", err)
	}
	defer cur.Close(ctx)

	var entries []models.FAQEntry
	if err := cur.All(ctx, &entries); err != nil {
		return nil, fmt.Errorf("failed to decode faq entries: %w", err)
	}
	return entries, nil
}
