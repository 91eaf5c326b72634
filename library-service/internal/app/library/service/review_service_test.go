package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"nowherelibrary/library-service/internal/app/library/entity"
	"nowherelibrary/library-service/internal/app/library/repository/mocks"
)

func TestReviewService_ListReviews(t *testing.T) {
	ctx := context.Background()
	reviewRepo := new(mocks.MockReviewRepository)

	stored := []entity.Review{
		{ID: primitive.NewObjectID(), Name: "Ada", Text: "Loved it", Rating: 5},
	}
	reviewRepo.On("GetAll", ctx).Return(stored, nil)

	service := NewReviewService(reviewRepo, new(mocks.MockMessagePublisher))

	reviews, err := service.ListReviews(ctx)

	require.NoError(t, err)
	assert.Equal(t, stored, reviews)
}

func TestReviewService_ListReviews_RepoError(t *testing.T) {
	ctx := context.Background()
	reviewRepo := new(mocks.MockReviewRepository)
	reviewRepo.On("GetAll", ctx).Return(nil, errors.New("db error"))

	service := NewReviewService(reviewRepo, new(mocks.MockMessagePublisher))

	reviews, err := service.ListReviews(ctx)

	assert.Nil(t, reviews)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to list reviews")
}

func TestReviewService_AddReview_Success(t *testing.T) {
	// Arrange
	ctx := context.Background()
	reviewRepo := new(mocks.MockReviewRepository)
	publisher := newAcceptingPublisher()

	insertedID := primitive.NewObjectID()
	reviewRepo.On("Create", ctx, mock.AnythingOfType("*entity.Review")).
		Run(func(args mock.Arguments) {
			args.Get(1).(*entity.Review).ID = insertedID
		}).
		Return(nil)

	service := NewReviewService(reviewRepo, publisher)

	req := &entity.CreateReviewRequest{
		Name:   "Ada",
		Email:  "ada@example.com",
		Text:   "A quiet, brilliant book",
		Rating: 4.5,
	}

	// Act
	review, err := service.AddReview(ctx, req)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, insertedID, review.ID)
	assert.Equal(t, "A quiet, brilliant book", review.Text)
	assert.Equal(t, 4.5, review.Rating)

	require.Len(t, publisher.Messages, 1)
	event := decodeEvent(t, publisher.Messages[0])
	assert.Equal(t, entity.EventReviewAdded, event.EventType)
	assert.Equal(t, entity.ReviewsCollection, event.Collection)
}

func TestReviewService_AddReview_RepoError(t *testing.T) {
	ctx := context.Background()
	reviewRepo := new(mocks.MockReviewRepository)
	publisher := new(mocks.MockMessagePublisher)

	reviewRepo.On("Create", ctx, mock.AnythingOfType("*entity.Review")).Return(errors.New("db error"))

	service := NewReviewService(reviewRepo, publisher)

	review, err := service.AddReview(ctx, &entity.CreateReviewRequest{Name: "Ada", Text: "ok"})

	assert.Nil(t, review)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to add review")
	assert.Empty(t, publisher.Messages)
}
