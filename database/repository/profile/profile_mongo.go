package profileRepo

import (
	"context"
	"fmt"
	"time"

	"admissions/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Repository stores saved visitor identities.
type Repository interface {
	// Get returns the profile or nil when the user has none.
	Get(ctx context.Context, userID string) (*models.Profile, error)
	// Upsert saves or replaces the profile's name and phone.
	Upsert(ctx context.Context, userID, fullName, phone string) error
}

// MongoProfileRepo implements Repository using MongoDB.
type MongoProfileRepo struct {
	coll *mongo.Collection
}

func NewMongoProfileRepo(db *mongo.Database) (Repository, error) {
	repo := &MongoProfileRepo{coll: db.Collection("profiles")}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_, err := repo.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "user_id", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create profile index: %w", err)
	}
	return repo, nil
}

func (r *MongoProfileRepo) Get(ctx context.Context, userID string) (*models.Profile, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var p models.Profile
	err := r.coll.FindOne(ctx, bson.M{"user_id": userID}).Decode(&p)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch profile for %s: %w", userID, err)
	}
	return &p, nil
}

func (r *MongoProfileRepo) Upsert(ctx context.Context, userID, fullName, phone string) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	now := time.Now()
	_, err := r.coll.UpdateOne(ctx,
		bson.M{"user_id": userID},
		bson.M{
			"$set":         bson.M{"full_name": fullName, "phone": phone, "updated_at": now},
			"$setOnInsert": bson.M{"user_id": userID, "created_at": now},
		},
		options.Update().SetUpsert(true),
	)
	if err != nil {
		return fmt.Errorf("failed to upsert profile for %s: %w", userID, err)
	}
	return nil
}
