package handlers

import (
	"context"
	"fmt"
	"net/http"

	"github.com/google/uuid"
	"github.com/pymenet/pymenet/internal/auth"
	e "github.com/pymenet/pymenet/internal/errors"
	"github.com/pymenet/pymenet/internal/models"
	"go.uber.org/zap"
)

// AccountController defines the account business logic the HTTP handlers
// invoke.
type AccountController interface {
	Register(ctx context.Context, username, email, password string) (*models.User, *models.Profile, error)
	Authenticate(ctx context.Context, username, password string) (*models.User, error)
	GetProfile(ctx context.Context, userID uuid.UUID) (*models.Profile, error)
	UpdateProfile(ctx context.Context, update *models.ProfileUpdate) (*models.Profile, error)
	ListUsers(ctx context.Context) ([]models.User, error)
	Dashboard(ctx context.Context, userID uuid.UUID) (*models.DashboardStats, error)
}

// AccountHandler serves registration, login, profiles and the dashboard.
// Token issuance lives here rather than in the controller, keeping the JWT
// secret a transport concern.
type AccountHandler struct {
	controller AccountController
	jwtSecret  string
	logger     *zap.Logger
}

// NewAccountHandler constructs an AccountHandler.
func NewAccountHandler(controller AccountController, jwtSecret string, logger *zap.Logger) *AccountHandler {
	return &AccountHandler{
		controller: controller,
		jwtSecret:  jwtSecret,
		logger:     logger,
	}
}

type registerRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type authResponse struct {
	Token string   `json:"token"`
	User  userView `json:"user"`
}

// Register handles POST /v1/auth/register. A successful registration also
// logs the user in.
func (h *AccountHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, h.logger, err)
		return
	}

	user, _, err := h.controller.Register(r.Context(), req.Username, req.Email, req.Password)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	token, err := auth.GenerateToken(user.ID, h.jwtSecret)
	if err != nil {
		writeError(w, h.logger, fmt.Errorf("failed to issue token: %w", err))
		return
	}
	writeJSON(w, h.logger, http.StatusCreated, authResponse{Token: token, User: toUserView(user)})
}

// Login handles POST /v1/auth/login.
func (h *AccountHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, h.logger, err)
		return
	}

	user, err := h.controller.Authenticate(r.Context(), req.Username, req.Password)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	token, err := auth.GenerateToken(user.ID, h.jwtSecret)
	if err != nil {
		writeError(w, h.logger, fmt.Errorf("failed to issue token: %w", err))
		return
	}
	writeJSON(w, h.logger, http.StatusOK, authResponse{Token: token, User: toUserView(user)})
}

// GetProfile handles GET /v1/profile for the authenticated user.
func (h *AccountHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	actorID, ok := auth.UserID(r.Context())
	if !ok {
		writeError(w, h.logger, e.ErrUnauthorized)
		return
	}

	profile, err := h.controller.GetProfile(r.Context(), actorID)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, h.logger, http.StatusOK, toProfileView(profile))
}

type profileUpdateRequest struct {
	Bio       *string `json:"bio"`
	AvatarURL *string `json:"avatar_url"`
}

// UpdateProfile handles PATCH /v1/profile. Absent fields stay unchanged.
func (h *AccountHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	actorID, ok := auth.UserID(r.Context())
	if !ok {
		writeError(w, h.logger, e.ErrUnauthorized)
		return
	}

	var req profileUpdateRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, h.logger, err)
		return
	}

	profile, err := h.controller.UpdateProfile(r.Context(), &models.ProfileUpdate{
		UserID:    actorID,
		Bio:       req.Bio,
		AvatarURL: req.AvatarURL,
	})
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, h.logger, http.StatusOK, toProfileView(profile))
}

// ListUsers handles GET /v1/users.
func (h *AccountHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.controller.ListUsers(r.Context())
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, h.logger, http.StatusOK, toUserViews(users))
}

// Dashboard handles GET /v1/dashboard.
func (h *AccountHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	actorID, ok := auth.UserID(r.Context())
	if !ok {
		writeError(w, h.logger, e.ErrUnauthorized)
		return
	}

	stats, err := h.controller.Dashboard(r.Context(), actorID)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, h.logger, http.StatusOK, dashboardView{
		Companies:    stats.Companies,
		Cooperatives: stats.Cooperatives,
		UserChats:    stats.UserChats,
	})
}
