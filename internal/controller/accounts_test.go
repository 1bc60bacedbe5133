package controller

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/pymenet/pymenet/internal/auth"
	e "github.com/pymenet/pymenet/internal/errors"
	"github.com/pymenet/pymenet/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func TestAccountService_Register(t *testing.T) {
	tests := []struct {
		name          string
		username      string
		password      string
		mockSetup     func(*MockAccountRepository)
		expectedError error
	}{
		{
			name:     "successful registration",
			username: "alice",
			password: "corr3ct-horse",
			mockSetup: func(mr *MockAccountRepository) {
				mr.userExistsByUsername = func(_ context.Context, _ string) (bool, error) {
					return false, nil
				}
				mr.createUserWithProfile = func(_ context.Context, u *models.User, p *models.Profile) error {
					p.UserID = u.ID
					return nil
				}
			},
		},
		{
			name:          "empty username",
			username:      "",
			password:      "corr3ct-horse",
			mockSetup:     func(_ *MockAccountRepository) {},
			expectedError: e.ErrInvalidInput,
		},
		{
			name:          "short password",
			username:      "alice",
			password:      "short",
			mockSetup:     func(_ *MockAccountRepository) {},
			expectedError: e.ErrInvalidInput,
		},
		{
			name:     "duplicate username",
			username: "alice",
			password: "corr3ct-horse",
			mockSetup: func(mr *MockAccountRepository) {
				mr.userExistsByUsername = func(_ context.Context, _ string) (bool, error) {
					return true, nil
				}
			},
			expectedError: e.ErrDuplicateName,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := &MockAccountRepository{}
			tt.mockSetup(mockRepo)
			service := NewAccountService(mockRepo, &MockProducer{}, zaptest.NewLogger(t))

			user, profile, err := service.Register(context.Background(), tt.username, "a@example.com", tt.password)

			if tt.expectedError != nil {
				assert.ErrorIs(t, err, tt.expectedError)
				return
			}
			require.NoError(t, err)
			assert.NotEqual(t, uuid.Nil, user.ID)
			assert.Equal(t, user.ID, profile.UserID, "profile must be bound to the new user")
			assert.Nil(t, profile.CompanyID, "fresh profile has no company")
			assert.NotEqual(t, tt.password, user.PasswordHash)
		})
	}
}

func TestAccountService_Authenticate(t *testing.T) {
	hash, err := auth.HashPassword("corr3ct-horse")
	require.NoError(t, err)

	user := &models.User{ID: uuid.New(), Username: "alice", PasswordHash: hash}

	mockRepo := &MockAccountRepository{
		getUserByUsername: func(_ context.Context, username string) (*models.User, error) {
			if username == "alice" {
				return user, nil
			}
			return nil, e.ErrNotFound
		},
	}
	service := NewAccountService(mockRepo, &MockProducer{}, zaptest.NewLogger(t))

	got, err := service.Authenticate(context.Background(), "alice", "corr3ct-horse")
	require.NoError(t, err)
	assert.Equal(t, user.ID, got.ID)

	_, err = service.Authenticate(context.Background(), "alice", "wrong")
	assert.ErrorIs(t, err, e.ErrUnauthorized)

	_, err = service.Authenticate(context.Background(), "nobody", "corr3ct-horse")
	assert.ErrorIs(t, err, e.ErrUnauthorized, "unknown user looks like bad credentials")
}

func TestAccountService_UpdateProfileSanitizesBio(t *testing.T) {
	userID := uuid.New()
	var stored string

	mockRepo := &MockAccountRepository{
		updateProfile: func(_ context.Context, u *models.ProfileUpdate) error {
			stored = *u.Bio
			return nil
		},
		getProfile: func(_ context.Context, _ uuid.UUID) (*models.Profile, error) {
			return &models.Profile{UserID: userID, Bio: stored}, nil
		},
	}
	service := NewAccountService(mockRepo, &MockProducer{}, zaptest.NewLogger(t))

	bio := "<script>alert(1)</script>pyme veterana"
	profile, err := service.UpdateProfile(context.Background(), &models.ProfileUpdate{UserID: userID, Bio: &bio})
	require.NoError(t, err)
	assert.Equal(t, "pyme veterana", profile.Bio)
}

func TestAccountService_Dashboard(t *testing.T) {
	userID := uuid.New()
	mockRepo := &MockAccountRepository{
		countCompanies:    func(_ context.Context) (int64, error) { return 4, nil },
		countCooperatives: func(_ context.Context) (int64, error) { return 2, nil },
		countUserChats: func(_ context.Context, id uuid.UUID) (int64, error) {
			assert.Equal(t, userID, id)
			return 7, nil
		},
	}
	service := NewAccountService(mockRepo, &MockProducer{}, zaptest.NewLogger(t))

	stats, err := service.Dashboard(context.Background(), userID)
	require.NoError(t, err)
	assert.Equal(t, int64(4), stats.Companies)
	assert.Equal(t, int64(2), stats.Cooperatives)
	assert.Equal(t, int64(7), stats.UserChats)
}
