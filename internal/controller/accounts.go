// Package controller implements the business logic for accounts,
// organizations and messaging, orchestrating repository operations, the
// pure authorization predicates, and event production. Every operation
// takes the acting user's id explicitly; nothing is read from ambient
// state.
package controller

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/pymenet/pymenet/internal/auth"
	e "github.com/pymenet/pymenet/internal/errors"
	"github.com/pymenet/pymenet/internal/events"
	"github.com/pymenet/pymenet/internal/models"
	"github.com/pymenet/pymenet/internal/sanitize"
	"go.uber.org/zap"
)

// EventProducer publishes domain events without blocking the request.
type EventProducer interface {
	Produce(eventType events.EventType, key string, payload interface{})
}

// AccountRepository defines the storage operations the account service
// needs.
type AccountRepository interface {
	CreateUserWithProfile(ctx context.Context, user *models.User, profile *models.Profile) error
	GetUser(ctx context.Context, id uuid.UUID) (*models.User, error)
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
	UserExistsByUsername(ctx context.Context, username string) (bool, error)
	ListUsers(ctx context.Context) ([]models.User, error)
	GetProfile(ctx context.Context, userID uuid.UUID) (*models.Profile, error)
	UpdateProfile(ctx context.Context, update *models.ProfileUpdate) error
	CountCompanies(ctx context.Context) (int64, error)
	CountCooperatives(ctx context.Context) (int64, error)
	CountUserChats(ctx context.Context, userID uuid.UUID) (int64, error)
}

// AccountService manages registration, credentials and profiles.
type AccountService struct {
	repo     AccountRepository
	producer EventProducer
	logger   *zap.Logger
}

func NewAccountService(repo AccountRepository, producer EventProducer, logger *zap.Logger) *AccountService {
	return &AccountService{
		repo:     repo,
		producer: producer,
		logger:   logger.Named("account_service"),
	}
}

// Register creates a user and its profile atomically. The profile exists
// from the instant the user does; there is no window where an account has
// no profile.
func (s *AccountService) Register(ctx context.Context, username, email, password string) (*models.User, *models.Profile, error) {
	if username == "" || len(username) > 150 {
		return nil, nil, fmt.Errorf("%w: invalid username", e.ErrInvalidInput)
	}
	if len(password) < 8 {
		return nil, nil, fmt.Errorf("%w: password must be at least 8 characters", e.ErrInvalidInput)
	}
	if len(email) > 254 {
		return nil, nil, fmt.Errorf("%w: invalid email", e.ErrInvalidInput)
	}

	exists, err := s.repo.UserExistsByUsername(ctx, username)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to check username existence: %w", err)
	}
	if exists {
		return nil, nil, fmt.Errorf("%w: username taken", e.ErrDuplicateName)
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		ID:           uuid.New(),
		Username:     username,
		Email:        email,
		PasswordHash: hash,
	}
	profile := &models.Profile{ID: uuid.New()}

	if err := s.repo.CreateUserWithProfile(ctx, user, profile); err != nil {
		return nil, nil, fmt.Errorf("failed to create user: %w", err)
	}

	go func() {
		s.producer.Produce(events.UserRegistered, user.ID.String(), map[string]string{
			"username": user.Username,
		})
	}()
	return user, profile, nil
}

// Authenticate verifies a username/password pair and returns the user.
// Unknown usernames and wrong passwords are indistinguishable to the
// caller.
func (s *AccountService) Authenticate(ctx context.Context, username, password string) (*models.User, error) {
	user, err := s.repo.GetUserByUsername(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("%w: bad credentials", e.ErrUnauthorized)
	}
	if !auth.CheckPassword(user.PasswordHash, password) {
		return nil, fmt.Errorf("%w: bad credentials", e.ErrUnauthorized)
	}
	return user, nil
}

// GetProfile returns the user's profile with its company preloaded.
func (s *AccountService) GetProfile(ctx context.Context, userID uuid.UUID) (*models.Profile, error) {
	return s.repo.GetProfile(ctx, userID)
}

// UpdateProfile applies a partial update to the acting user's own profile.
// The bio is sanitized before it is stored.
func (s *AccountService) UpdateProfile(ctx context.Context, update *models.ProfileUpdate) (*models.Profile, error) {
	if update.Bio != nil {
		clean := sanitize.Text(*update.Bio)
		if len(clean) > 500 {
			return nil, fmt.Errorf("%w: bio too long", e.ErrInvalidInput)
		}
		update.Bio = &clean
	}

	if err := s.repo.UpdateProfile(ctx, update); err != nil {
		return nil, err
	}
	return s.repo.GetProfile(ctx, update.UserID)
}

// ListUsers returns all users, for picking a direct chat partner.
func (s *AccountService) ListUsers(ctx context.Context) ([]models.User, error) {
	return s.repo.ListUsers(ctx)
}

// Dashboard collects the landing-page counters for the user.
func (s *AccountService) Dashboard(ctx context.Context, userID uuid.UUID) (*models.DashboardStats, error) {
	companies, err := s.repo.CountCompanies(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count companies: %w", err)
	}
	cooperatives, err := s.repo.CountCooperatives(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count cooperatives: %w", err)
	}
	chats, err := s.repo.CountUserChats(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to count chats: %w", err)
	}
	return &models.DashboardStats{
		Companies:    companies,
		Cooperatives: cooperatives,
		UserChats:    chats,
	}, nil
}
