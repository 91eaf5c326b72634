package repository

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"nowherelibrary/library-service/internal/app/library/entity"
	"nowherelibrary/pkg/metrics"
)

type reviewRepository struct {
	collection *mongo.Collection
}

// NewReviewRepository creates a repository over the reviews collection.
func NewReviewRepository(db *mongo.Database) ReviewRepository {
	return &reviewRepository{
		collection: db.Collection(entity.ReviewsCollection),
	}
}

// GetAll returns every review.
func (r *reviewRepository) GetAll(ctx context.Context) ([]entity.Review, error) {
	done := instrument(metrics.DbOpFind, entity.ReviewsCollection)

	reviews := make([]entity.Review, 0)
	if err := done(findAll(ctx, r.collection, bson.M{}, &reviews)); err != nil {
		return nil, fmt.Errorf("failed to find reviews: %w", err)
	}

	return reviews, nil
}

// Create inserts a review into MongoDB.
func (r *reviewRepository) Create(ctx context.Context, review *entity.Review) error {
	done := instrument(metrics.DbOpInsert, entity.ReviewsCollection)

	result, err := r.collection.InsertOne(ctx, review)
	if done(err) != nil {
		return fmt.Errorf("failed to create review: %w", err)
	}

	review.ID = insertedObjectID(result)
	return nil
}
