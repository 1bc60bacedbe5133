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

// MessagingController defines the chat business logic the HTTP handlers
// invoke.
type MessagingController interface {
	ListChats(ctx context.Context, actorID uuid.UUID) ([]models.ChatSummary, error)
	GetChat(ctx context.Context, actorID, chatID uuid.UUID) (*models.ChatDetail, error)
	ListMessages(ctx context.Context, actorID, chatID uuid.UUID) ([]models.Message, error)
	PostMessage(ctx context.Context, actorID, chatID uuid.UUID, content string) (*models.Message, error)
	ResolveDirectChat(ctx context.Context, actorID, otherID uuid.UUID) (*models.Chat, error)
	ResolveCompanyChat(ctx context.Context, actorID, companyID uuid.UUID) (*models.Chat, error)
	ResolveCooperativeChat(ctx context.Context, actorID, cooperativeID uuid.UUID) (*models.Chat, error)
}

// MessagingHandler serves the chat and message endpoints.
type MessagingHandler struct {
	controller MessagingController
	logger     *zap.Logger
}

// NewMessagingHandler constructs a MessagingHandler.
func NewMessagingHandler(controller MessagingController, logger *zap.Logger) *MessagingHandler {
	return &MessagingHandler{controller: controller, logger: logger}
}

func (h *MessagingHandler) actor(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	actorID, ok := auth.UserID(r.Context())
	if !ok {
		writeError(w, h.logger, e.ErrUnauthorized)
	}
	return actorID, ok
}

// ListChats handles GET /v1/chats, newest activity first.
func (h *MessagingHandler) ListChats(w http.ResponseWriter, r *http.Request) {
	actorID, ok := h.actor(w, r)
	if !ok {
		return
	}

	summaries, err := h.controller.ListChats(r.Context(), actorID)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	views := make([]chatSummaryView, 0, len(summaries))
	for i := range summaries {
		views = append(views, chatSummaryView{
			chatView:       toChatView(&summaries[i].Chat),
			LastActivityAt: summaries[i].LastActivityAt,
		})
	}
	writeJSON(w, h.logger, http.StatusOK, views)
}

// GetChat handles GET /v1/chats/{id}: the chat and its messages.
func (h *MessagingHandler) GetChat(w http.ResponseWriter, r *http.Request) {
	actorID, ok := h.actor(w, r)
	if !ok {
		return
	}
	chatID, err := urlID(r, "id")
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	detail, err := h.controller.GetChat(r.Context(), actorID, chatID)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, h.logger, http.StatusOK, chatDetailView{
		chatView: toChatView(&detail.Chat),
		Messages: toMessageViews(detail.Messages),
	})
}

// ListMessages handles GET /v1/chats/{id}/messages, the polling endpoint.
func (h *MessagingHandler) ListMessages(w http.ResponseWriter, r *http.Request) {
	actorID, ok := h.actor(w, r)
	if !ok {
		return
	}
	chatID, err := urlID(r, "id")
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	messages, err := h.controller.ListMessages(r.Context(), actorID, chatID)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, h.logger, http.StatusOK, toMessageViews(messages))
}

type postMessageRequest struct {
	Content string `json:"content"`
}

// PostMessage handles POST /v1/chats/{id}/messages.
func (h *MessagingHandler) PostMessage(w http.ResponseWriter, r *http.Request) {
	actorID, ok := h.actor(w, r)
	if !ok {
		return
	}
	chatID, err := urlID(r, "id")
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	var req postMessageRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, h.logger, err)
		return
	}

	message, err := h.controller.PostMessage(r.Context(), actorID, chatID, req.Content)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, h.logger, http.StatusCreated, toMessageView(message))
}

// redirectToChat answers a resolve endpoint: the canonical chat's location,
// whether it already existed or was just created.
func (h *MessagingHandler) redirectToChat(w http.ResponseWriter, chat *models.Chat) {
	w.Header().Set("Location", fmt.Sprintf("/v1/chats/%s", chat.ID))
	writeJSON(w, h.logger, http.StatusSeeOther, toChatView(chat))
}

// ResolveDirectChat handles POST /v1/users/{id}/chat.
func (h *MessagingHandler) ResolveDirectChat(w http.ResponseWriter, r *http.Request) {
	actorID, ok := h.actor(w, r)
	if !ok {
		return
	}
	otherID, err := urlID(r, "id")
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	chat, err := h.controller.ResolveDirectChat(r.Context(), actorID, otherID)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	h.redirectToChat(w, chat)
}

// ResolveCompanyChat handles POST /v1/companies/{id}/chat.
func (h *MessagingHandler) ResolveCompanyChat(w http.ResponseWriter, r *http.Request) {
	actorID, ok := h.actor(w, r)
	if !ok {
		return
	}
	companyID, err := urlID(r, "id")
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	chat, err := h.controller.ResolveCompanyChat(r.Context(), actorID, companyID)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	h.redirectToChat(w, chat)
}

// ResolveCooperativeChat handles POST /v1/cooperatives/{id}/chat.
func (h *MessagingHandler) ResolveCooperativeChat(w http.ResponseWriter, r *http.Request) {
	actorID, ok := h.actor(w, r)
	if !ok {
		return
	}
	cooperativeID, err := urlID(r, "id")
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	chat, err := h.controller.ResolveCooperativeChat(r.Context(), actorID, cooperativeID)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	h.redirectToChat(w, chat)
}
