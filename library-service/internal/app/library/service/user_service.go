package service

import (
	"context"
	"errors"
	"fmt"

	"nowherelibrary/library-service/internal/app/library/entity"
	"nowherelibrary/library-service/internal/app/library/infrastructure"
	"nowherelibrary/library-service/internal/app/library/repository"
	"nowherelibrary/pkg/logger"
	"nowherelibrary/pkg/metrics"
)

// UserService keys users by email. The store id is internal.
type UserService struct {
	userRepo  repository.UserRepository
	publisher infrastructure.MessagePublisher
}

// NewUserService creates the user service.
func NewUserService(userRepo repository.UserRepository, publisher infrastructure.MessagePublisher) *UserService {
	return &UserService{
		userRepo:  userRepo,
		publisher: publisher,
	}
}

// AddUser inserts a new user. A taken email yields ErrUserExists.
func (s *UserService) AddUser(ctx context.Context, req *entity.UserRequest) (*entity.User, error) {
	user := newUser(req)

	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return nil, ErrUserExists
		}
		return nil, fmt.Errorf("failed to add user: %w", err)
	}

	logger.Info().
		Str("user_id", user.ID.Hex()).
		Str("email", user.Email).
		Msg("User created")

	publishEvent(ctx, s.publisher, entity.LibraryEvent{
		EventType:  entity.EventUserCreated,
		Collection: entity.UsersCollection,
		DocumentID: user.ID.Hex(),
		Email:      user.Email,
	})

	return user, nil
}

// UpsertUser creates the user when the email is new and otherwise replaces
// the stored document wholesale. Email is the natural key: if a concurrent
// request creates the same email between lookup and insert, the insert's
// duplicate-key failure turns into a replace and the later write wins.
func (s *UserService) UpsertUser(ctx context.Context, req *entity.UserRequest) (*entity.UpdateResult, error) {
	user := newUser(req)

	existing, err := s.userRepo.GetByEmail(ctx, user.Email)
	switch {
	case errors.Is(err, repository.ErrNotFound):
		result, createErr := s.createForUpsert(ctx, user)
		if !errors.Is(createErr, repository.ErrDuplicateEmail) {
			return result, createErr
		}
		existing, err = s.userRepo.GetByEmail(ctx, user.Email)
		if err != nil {
			return nil, fmt.Errorf("failed to reload user after concurrent create: %w", err)
		}
	case err != nil:
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}

	result, err := s.userRepo.Replace(ctx, existing.ID, user)
	if err != nil {
		return nil, fmt.Errorf("failed to replace user: %w", err)
	}

	publishEvent(ctx, s.publisher, entity.LibraryEvent{
		EventType:  entity.EventUserUpserted,
		Collection: entity.UsersCollection,
		DocumentID: existing.ID.Hex(),
		Email:      user.Email,
	})

	return result, nil
}

func (s *UserService) createForUpsert(ctx context.Context, user *entity.User) (*entity.UpdateResult, error) {
	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	publishEvent(ctx, s.publisher, entity.LibraryEvent{
		EventType:  entity.EventUserCreated,
		Collection: entity.UsersCollection,
		DocumentID: user.ID.Hex(),
		Email:      user.Email,
	})

	id := user.ID
	return &entity.UpdateResult{UpsertedCount: 1, UpsertedID: &id}, nil
}

// IsAdmin reports false for unknown emails.
func (s *UserService) IsAdmin(ctx context.Context, email string) (bool, error) {
	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("failed to look up user: %w", err)
	}

	return user.IsAdmin(), nil
}

// PromoteToAdmin grants the admin role to target on behalf of requester.
// Unknown or non-admin requesters get ErrForbidden and nothing is written.
// An unknown target is not created; the result then reports MatchedCount 0.
func (s *UserService) PromoteToAdmin(ctx context.Context, requesterEmail string, req *entity.PromoteAdminRequest) (*entity.UpdateResult, error) {
	isAdmin, err := s.IsAdmin(ctx, requesterEmail)
	if err != nil {
		return nil, err
	}
	if !isAdmin {
		metrics.AdminPromotions.WithLabelValues("denied").Inc()
		logger.Warn().
			Str("requester", requesterEmail).
			Str("target", req.Email).
			Msg("Admin promotion denied")
		return nil, ErrForbidden
	}

	result, err := s.userRepo.SetRole(ctx, req.Email, entity.RoleAdmin)
	if err != nil {
		return nil, fmt.Errorf("failed to promote user: %w", err)
	}

	metrics.AdminPromotions.WithLabelValues("granted").Inc()
	publishEvent(ctx, s.publisher, entity.LibraryEvent{
		EventType:  entity.EventUserPromoted,
		Collection: entity.UsersCollection,
		Email:      req.Email,
	})

	return result, nil
}

func newUser(req *entity.UserRequest) *entity.User {
	return &entity.User{
		Email:       req.Email,
		DisplayName: req.DisplayName,
		Role:        req.Role,
	}
}
