package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"nowherelibrary/library-service/internal/app/library/entity"
)

type ReviewService interface {
	ListReviews(ctx context.Context) ([]entity.Review, error)
	AddReview(ctx context.Context, req *entity.CreateReviewRequest) (*entity.Review, error)
}

type ReviewHandler struct {
	reviewService ReviewService
	validator     *validator.Validate
}

func NewReviewHandler(reviewService ReviewService) *ReviewHandler {
	return &ReviewHandler{
		reviewService: reviewService,
		validator:     validator.New(),
	}
}

// ListReviews handles GET /reviews
func (h *ReviewHandler) ListReviews(c *gin.Context) {
	reviews, err := h.reviewService.ListReviews(c.Request.Context())
	if err != nil {
		respondInternal(c, err, "Failed to list reviews")
		return
	}

	c.JSON(http.StatusOK, reviews)
}

// AddReview handles POST /reviews/add
func (h *ReviewHandler) AddReview(c *gin.Context) {
	var req entity.CreateReviewRequest
	if !bindAndValidate(c, h.validator, &req) {
		return
	}

	review, err := h.reviewService.AddReview(c.Request.Context(), &req)
	if err != nil {
		respondInternal(c, err, "Failed to add review")
		return
	}

	c.JSON(http.StatusCreated, entity.InsertResponse{Acknowledged: true, InsertedID: review.ID})
}
