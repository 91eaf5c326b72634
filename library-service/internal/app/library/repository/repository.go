package repository

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"nowherelibrary/library-service/internal/app/library/entity"
	"nowherelibrary/pkg/logger"
	"nowherelibrary/pkg/metrics"
)

const serviceName = "library-service"

var (
	ErrNotFound       = errors.New("document not found")
	ErrInvalidID      = errors.New("invalid document id")
	ErrDuplicateEmail = errors.New("email already registered")
)

type BookRepository interface {
	GetAll(ctx context.Context) ([]entity.Book, error)
	GetByID(ctx context.Context, id string) (*entity.Book, error)
	Create(ctx context.Context, book *entity.Book) error
	Delete(ctx context.Context, id string) (int64, error)
}

type ReviewRepository interface {
	GetAll(ctx context.Context) ([]entity.Review, error)
	Create(ctx context.Context, review *entity.Review) error
}

type OrderRepository interface {
	GetAll(ctx context.Context) ([]entity.Order, error)
	GetByEmail(ctx context.Context, email string) ([]entity.Order, error)
	GetByID(ctx context.Context, id string) (*entity.Order, error)
	Create(ctx context.Context, order *entity.Order) error
	Delete(ctx context.Context, id string) (int64, error)
	Upsert(ctx context.Context, id string, fields entity.OrderFields) (*entity.UpdateResult, error)
}

type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	Replace(ctx context.Context, id primitive.ObjectID, user *entity.User) (*entity.UpdateResult, error)
	SetRole(ctx context.Context, email, role string) (*entity.UpdateResult, error)
}

// StatsRepository reports collection sizes for the stats scheduler.
type StatsRepository interface {
	EstimatedCount(ctx context.Context, collection string) (int64, error)
}

// EnsureIndexes creates the lookup indexes the service relies on.
// Failures are logged and skipped: a missing index only costs speed, and a
// failed unique index usually means duplicates already exist in the data.
func EnsureIndexes(ctx context.Context, db *mongo.Database) {
	indexes := []struct {
		collection string
		model      mongo.IndexModel
	}{
		{
			collection: entity.UsersCollection,
			model: mongo.IndexModel{
				Keys:    bson.D{{Key: "email", Value: 1}},
				Options: options.Index().SetName("email_unique_idx").SetUnique(true),
			},
		},
		{
			collection: entity.OrdersCollection,
			model: mongo.IndexModel{
				Keys:    bson.D{{Key: "email", Value: 1}},
				Options: options.Index().SetName("email_idx"),
			},
		},
	}

	for _, idx := range indexes {
		name, err := db.Collection(idx.collection).Indexes().CreateOne(ctx, idx.model)
		if err != nil {
			logger.Warn().
				Err(err).
				Str("collection", idx.collection).
				Msg("Failed to create index")
			continue
		}
		logger.Debug().
			Str("collection", idx.collection).
			Str("index", name).
			Msg("Index ready")
	}
}

type statsRepository struct {
	db *mongo.Database
}

// NewStatsRepository creates a repository for collection statistics.
func NewStatsRepository(db *mongo.Database) StatsRepository {
	return &statsRepository{db: db}
}

// EstimatedCount returns the collection size from metadata.
func (r *statsRepository) EstimatedCount(ctx context.Context, collection string) (int64, error) {
	done := instrument(metrics.DbOpCount, collection)

	n, err := r.db.Collection(collection).EstimatedDocumentCount(ctx)
	if done(err) != nil {
		return 0, fmt.Errorf("failed to count %s: %w", collection, err)
	}

	return n, nil
}

// instrument starts a DbTimer and returns a func that stops it and counts
// failures. mongo.ErrNoDocuments is a lookup miss, not a failure.
func instrument(op metrics.DbOperation, collection string) func(error) error {
	timer := metrics.NewDbTimer(serviceName, op, collection)
	return func(err error) error {
		timer.ObserveDuration()
		if err != nil && !errors.Is(err, mongo.ErrNoDocuments) {
			metrics.RecordDbError(serviceName, op, collection)
		}
		return err
	}
}

func parseObjectID(id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("%w: %q", ErrInvalidID, id)
	}
	return oid, nil
}

// findAll decodes every document matching filter into out, which must point
// to a non-nil slice so that an empty result stays an empty slice.
func findAll(ctx context.Context, coll *mongo.Collection, filter interface{}, out interface{}) error {
	cursor, err := coll.Find(ctx, filter)
	if err != nil {
		return err
	}
	defer cursor.Close(ctx)

	return cursor.All(ctx, out)
}

func insertedObjectID(res *mongo.InsertOneResult) primitive.ObjectID {
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		return oid
	}
	return primitive.NilObjectID
}

func toUpdateResult(res *mongo.UpdateResult) *entity.UpdateResult {
	out := &entity.UpdateResult{
		MatchedCount:  res.MatchedCount,
		ModifiedCount: res.ModifiedCount,
		UpsertedCount: res.UpsertedCount,
	}
	if oid, ok := res.UpsertedID.(primitive.ObjectID); ok {
		out.UpsertedID = &oid
	}
	return out
}
