package bookingRepo

import (
	"context"
	"fmt"
	"time"

	"admissions/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoBookingRepo implements Repository using MongoDB.
type MongoBookingRepo struct {
	coll *mongo.Collection
}

// NewMongoBookingRepo creates a booking repository bound to the given
// database handle.
func NewMongoBookingRepo(db *mongo.Database) (Repository, error) {
	repo := &MongoBookingRepo{coll: db.Collection("bookings")}
	if err := repo.ensureIndexes(); err != nil {
		return nil, err
	}
	return repo, nil
}

// newContext creates a context with the given timeout.
func newContext(parent context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(parent, timeout)
}

// ensureIndexes creates the indexes the repository relies on. The partial
// unique index over (date, time) for confirmed records is the storage-level
// guarantee that no slot is ever double-booked.
func (r *MongoBookingRepo) ensureIndexes() error {
	ctx, cancel := newContext(context.Background(), 10*time.Second)
	defer cancel()

	indexModels := []mongo.IndexModel{
		{Keys: bson.D{{Key: "id", Value: 1}}, Options: options.Index().SetUnique(true)},
		{
			Keys: bson.D{{Key: "date", Value: 1}, {Key: "time", Value: 1}},
			Options: options.Index().
				SetUnique(true).
				SetPartialFilterExpression(bson.M{"status": models.BookingStatusConfirmed}),
		},
		{Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "date", Value: 1}}},
	}

	if _, err := r.coll.Indexes().CreateMany(ctx, indexModels); err != nil {
		return fmt.Errorf("failed to create booking indexes: %w", err)
	}
	return nil
}

func (r *MongoBookingRepo) Create(ctx context.Context, booking *models.Booking) error {
	ctx, cancel := newContext(ctx, 5*time.Second)
	defer cancel()

	if _, err := r.coll.InsertOne(ctx, booking); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrSlotTaken
		}
		return fmt.Errorf("failed to insert booking: %w", err)
	}
	return nil
}

func (r *MongoBookingRepo) TakenTimes(ctx context.Context, date string) ([]string, error) {
	ctx, cancel := newContext(ctx, 5*time.Second)
	defer cancel()

	raw, err := r.coll.Distinct(ctx, "time", bson.M{
		"date":   date,
		"status": models.BookingStatusConfirmed,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch taken times for %s: %w", date, err)
	}

	times := make([]string, 0, len(raw))
	for _, v := range raw {
		if s, ok := v.(string); ok {
			times = append(times, s)
		}
	}
	return times, nil
}

func (r *MongoBookingRepo) CancelByOwner(ctx context.Context, userID, date, slot string) (bool, error) {
	return r.cancel(ctx, bson.M{
		"user_id": userID,
		"date":    date,
		"time":    slot,
		"status":  models.BookingStatusConfirmed,
	})
}

func (r *MongoBookingRepo) CancelAny(ctx context.Context, date, slot string) (bool, error) {
	return r.cancel(ctx, bson.M{
		"date":   date,
		"time":   slot,
		"status": models.BookingStatusConfirmed,
	})
}

func (r *MongoBookingRepo) cancel(ctx context.Context, filter bson.M) (bool, error) {
	ctx, cancel := newContext(ctx, 5*time.Second)
	defer cancel()

	res, err := r.coll.UpdateOne(ctx, filter, bson.M{
		"$set": bson.M{"status": models.BookingStatusCancelled},
	})
	if err != nil {
		return false, fmt.Errorf("failed to cancel booking: %w", err)
	}
	return res.ModifiedCount > 0, nil
}

func (r *MongoBookingRepo) ListByUser(ctx context.Context, userID string) ([]models.Booking, error) {
	return r.list(ctx,
		bson.M{"user_id": userID},
		bson.D{{Key: "date", Value: 1}, {Key: "time", Value: 1}},
	)
}

func (r *MongoBookingRepo) ListByDate(ctx context.Context, date string) ([]models.Booking, error) {
	return r.list(ctx,
		bson.M{"date": date},
		bson.D{{Key: "time", Value: 1}},
	)
}

func (r *MongoBookingRepo) list(ctx context.Context, filter bson.M, sort bson.D) ([]models.Booking, error) {
	ctx, cancel := newContext(ctx, 5*time.Second)
	defer cancel()

	cur, err := r.coll.Find(ctx, filter, options.Find().SetSort(sort))
	if err != nil {
		return nil, fmt.Errorf("failed to list bookings: %w", err)
	}
	defer cur.Close(ctx)

	var bookings []models.Booking
	if err := cur.All(ctx, &bookings); err != nil {
		return nil, fmt.Errorf("failed to decode bookings: %w", err)
	}
	return bookings, nil
}
