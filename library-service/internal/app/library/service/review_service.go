package service

import (
	"context"
	"fmt"

	"nowherelibrary/library-service/internal/app/library/entity"
	"nowherelibrary/library-service/internal/app/library/infrastructure"
	"nowherelibrary/library-service/internal/app/library/repository"
	"nowherelibrary/pkg/metrics"
)

type ReviewService struct {
	reviewRepo repository.ReviewRepository
	publisher  infrastructure.MessagePublisher
}

// NewReviewService creates the review service.
func NewReviewService(reviewRepo repository.ReviewRepository, publisher infrastructure.MessagePublisher) *ReviewService {
	return &ReviewService{
		reviewRepo: reviewRepo,
		publisher:  publisher,
	}
}

// ListReviews returns all reviews.
func (s *ReviewService) ListReviews(ctx context.Context) ([]entity.Review, error) {
	reviews, err := s.reviewRepo.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list reviews: %w", err)
	}

	return reviews, nil
}

// AddReview stores a review and sends REVIEW_ADDED.
func (s *ReviewService) AddReview(ctx context.Context, req *entity.CreateReviewRequest) (*entity.Review, error) {
	review := &entity.Review{
		Name:   req.Name,
		Email:  req.Email,
		Text:   req.Text,
		Rating: req.Rating,
		Image:  req.Image,
	}

	if err := s.reviewRepo.Create(ctx, review); err != nil {
		return nil, fmt.Errorf("failed to add review: %w", err)
	}

	metrics.ReviewsAdded.Inc()
	publishEvent(ctx, s.publisher, entity.LibraryEvent{
		EventType:  entity.EventReviewAdded,
		Collection: entity.ReviewsCollection,
		DocumentID: review.ID.Hex(),
	})

	return review, nil
}
