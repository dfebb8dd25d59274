package dialogRepo

import (
	"context"
	"fmt"
	"time"

	"admissions/models"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Repository is the append-only dialog log. The generative fallback replays
// a bounded slice of it as conversation history.
type Repository interface {
	Append(ctx context.Context, userID, userText, botReply string) error
	// RecentTurns returns up to limit turns, most recent first.
	RecentTurns(ctx context.Context, userID string, limit int) ([]models.DialogTurn, error)
}

// MongoDialogRepo implements Repository using MongoDB.
type MongoDialogRepo struct {
	coll *mongo.Collection
}

func NewMongoDialogRepo(db *mongo.Database) (Repository, error) {
	repo := &MongoDialogRepo{coll: db.Collection("dialog_log")}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_, err := repo.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "created_at", Value: -1}},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create dialog index: %w", err)
	}
	return repo, nil
}

func (r *MongoDialogRepo) Append(ctx context.Context, userID, userText, botReply string) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	turn := models.DialogTurn{
		ID:        uuid.NewString(),
		UserID:    userID,
		UserText:  userText,
		BotReply:  botReply,
		CreatedAt: time.Now(),
	}
	if _, err := r.coll.InsertOne(ctx, turn); err != nil {
		return fmt.Errorf("failed to append dialog turn: %w", err)
	}
	return nil
}

func (r *MongoDialogRepo) RecentTurns(ctx context.Context, userID string, limit int) ([]models.DialogTurn, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetLimit(int64(limit))
	cur, err := r.coll.Find(ctx, bson.M{"user_id": userID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch dialog history for %s: %w", userID, err)
	}
	defer cur.Close(ctx)

	var turns []models.DialogTurn
	if err := cur.All(ctx, &turns); err != nil {
		return nil, fmt.Errorf("failed to decode dialog history: %w", err)
	}
	return turns, nil
}
