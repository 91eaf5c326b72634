package repository

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"nowherelibrary/library-service/internal/app/library/entity"
	"nowherelibrary/pkg/metrics"
)

type userRepository struct {
	collection *mongo.Collection
}

// NewUserRepository creates a repository over the users collection.
func NewUserRepository(db *mongo.Database) UserRepository {
	return &userRepository{
		collection: db.Collection(entity.UsersCollection),
	}
}

// Create returns ErrDuplicateEmail when the unique email index rejects the insert.
func (r *userRepository) Create(ctx context.Context, user *entity.User) error {
	done := instrument(metrics.DbOpInsert, entity.UsersCollection)

	result, err := r.collection.InsertOne(ctx, user)
	if done(err) != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrDuplicateEmail
		}
		return fmt.Errorf("failed to create user: %w", err)
	}

	user.ID = insertedObjectID(result)
	return nil
}

// GetByEmail finds a user by email, returning ErrNotFound when absent.
func (r *userRepository) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	done := instrument(metrics.DbOpFind, entity.UsersCollection)

	var user entity.User
	err := r.collection.FindOne(ctx, bson.M{"email": email}).Decode(&user)
	if done(err) != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	return &user, nil
}

// Replace swaps the whole document stored under id for user. The _id is kept.
func (r *userRepository) Replace(ctx context.Context, id primitive.ObjectID, user *entity.User) (*entity.UpdateResult, error) {
	done := instrument(metrics.DbOpReplace, entity.UsersCollection)

	replacement := *user
	replacement.ID = primitive.NilObjectID

	result, err := r.collection.ReplaceOne(ctx, bson.M{"_id": id}, &replacement)
	if done(err) != nil {
		return nil, fmt.Errorf("failed to replace user: %w", err)
	}

	return toUpdateResult(result), nil
}

// SetRole never creates a user: an unknown email yields MatchedCount 0.
func (r *userRepository) SetRole(ctx context.Context, email, role string) (*entity.UpdateResult, error) {
	done := instrument(metrics.DbOpUpdate, entity.UsersCollection)

	result, err := r.collection.UpdateOne(
		ctx,
		bson.M{"email": email},
		bson.M{"$set": bson.M{"role": role}},
	)
	if done(err) != nil {
		return nil, fmt.Errorf("failed to set user role: %w", err)
	}

	return toUpdateResult(result), nil
}
