package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"nowherelibrary/library-service/internal/app/library/entity"
	"nowherelibrary/library-service/internal/app/library/service"
)

type UserService interface {
	AddUser(ctx context.Context, req *entity.UserRequest) (*entity.User, error)
	UpsertUser(ctx context.Context, req *entity.UserRequest) (*entity.UpdateResult, error)
	IsAdmin(ctx context.Context, email string) (bool, error)
	PromoteToAdmin(ctx context.Context, requesterEmail string, req *entity.PromoteAdminRequest) (*entity.UpdateResult, error)
}

type UserHandler struct {
	userService UserService
	validator   *validator.Validate
}

func NewUserHandler(userService UserService) *UserHandler {
	return &UserHandler{
		userService: userService,
		validator:   validator.New(),
	}
}

// AddUser handles POST /users
func (h *UserHandler) AddUser(c *gin.Context) {
	var req entity.UserRequest
	if !bindAndValidate(c, h.validator, &req) {
		return
	}

	user, err := h.userService.AddUser(c.Request.Context(), &req)
	if err != nil {
		if errors.Is(err, service.ErrUserExists) {
			respondError(c, http.StatusConflict, "User with this email already exists")
			return
		}
		respondInternal(c, err, "Failed to add user")
		return
	}

	c.JSON(http.StatusCreated, entity.InsertResponse{Acknowledged: true, InsertedID: user.ID})
}

// UpsertUser handles PUT /users: create when the email is new, replace otherwise.
func (h *UserHandler) UpsertUser(c *gin.Context) {
	var req entity.UserRequest
	if !bindAndValidate(c, h.validator, &req) {
		return
	}

	result, err := h.userService.UpsertUser(c.Request.Context(), &req)
	if err != nil {
		respondInternal(c, err, "Failed to save user")
		return
	}

	c.JSON(http.StatusOK, entity.NewUpdateResponse(result))
}

// GetAdminStatus handles GET /users/:email
func (h *UserHandler) GetAdminStatus(c *gin.Context) {
	isAdmin, err := h.userService.IsAdmin(c.Request.Context(), c.Param("email"))
	if err != nil {
		respondInternal(c, err, "Failed to check admin status")
		return
	}

	c.JSON(http.StatusOK, entity.AdminStatusResponse{Admin: isAdmin})
}

// PromoteToAdmin handles PUT /users/admin/:email, where :email is the
// requester and the body names the user to promote.
func (h *UserHandler) PromoteToAdmin(c *gin.Context) {
	var req entity.PromoteAdminRequest
	if !bindAndValidate(c, h.validator, &req) {
		return
	}

	result, err := h.userService.PromoteToAdmin(c.Request.Context(), c.Param("email"), &req)
	if err != nil {
		if errors.Is(err, service.ErrForbidden) {
			respondError(c, http.StatusForbidden, "Requester is not an admin")
			return
		}
		respondInternal(c, err, "Failed to promote user")
		return
	}

	c.JSON(http.StatusOK, entity.NewUpdateResponse(result))
}
