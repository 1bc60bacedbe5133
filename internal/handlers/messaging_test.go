package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/google/uuid"
	e "github.com/pymenet/pymenet/internal/errors"
	"github.com/pymenet/pymenet/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveDirectChatHandler(t *testing.T) {
	actorID := uuid.New()
	otherID := uuid.New()
	chat := &models.Chat{ID: uuid.New(), Type: models.ChatDirect}

	mockController := &mockMessagingController{
		resolveDirectChat: func(_ context.Context, actor, other uuid.UUID) (*models.Chat, error) {
			assert.Equal(t, actorID, actor)
			assert.Equal(t, otherID, other)
			return chat, nil
		},
	}
	router := newTestRouter(t, nil, nil, mockController)

	rec := doRequest(t, router, http.MethodPost,
		fmt.Sprintf("/v1/users/%s/chat", otherID), &actorID, nil)

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, fmt.Sprintf("/v1/chats/%s", chat.ID), rec.Header().Get("Location"))
}

func TestResolveDirectChatHandlerSelf(t *testing.T) {
	actorID := uuid.New()
	mockController := &mockMessagingController{
		resolveDirectChat: func(_ context.Context, _, _ uuid.UUID) (*models.Chat, error) {
			return nil, fmt.Errorf("%w: cannot chat with yourself", e.ErrInvalidInput)
		},
	}
	router := newTestRouter(t, nil, nil, mockController)

	rec := doRequest(t, router, http.MethodPost,
		fmt.Sprintf("/v1/users/%s/chat", actorID), &actorID, nil)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestResolveCompanyChatHandlerForbidden(t *testing.T) {
	actorID := uuid.New()
	companyID := uuid.New()
	mockController := &mockMessagingController{
		resolveCompanyChat: func(_ context.Context, _, _ uuid.UUID) (*models.Chat, error) {
			return nil, fmt.Errorf("%w: must be a member of the company", e.ErrForbidden)
		},
	}
	router := newTestRouter(t, nil, nil, mockController)

	rec := doRequest(t, router, http.MethodPost,
		fmt.Sprintf("/v1/companies/%s/chat", companyID), &actorID, nil)

	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestGetChatHandlerStatuses(t *testing.T) {
	actorID := uuid.New()
	chatID := uuid.New()

	tests := []struct {
		name           string
		getError       error
		expectedStatus int
	}{
		{"accessible", nil, http.StatusOK},
		{"forbidden", fmt.Errorf("%w: no access to this chat", e.ErrForbidden), http.StatusForbidden},
		{"not found", e.ErrNotFound, http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockController := &mockMessagingController{
				getChat: func(_ context.Context, _, _ uuid.UUID) (*models.ChatDetail, error) {
					if tt.getError != nil {
						return nil, tt.getError
					}
					return &models.ChatDetail{
						Chat: models.Chat{ID: chatID, Type: models.ChatDirect},
					}, nil
				},
			}
			router := newTestRouter(t, nil, nil, mockController)

			rec := doRequest(t, router, http.MethodGet,
				fmt.Sprintf("/v1/chats/%s", chatID), &actorID, nil)

			assert.Equal(t, tt.expectedStatus, rec.Code)
		})
	}
}

func TestPostMessageHandler(t *testing.T) {
	actorID := uuid.New()
	chatID := uuid.New()
	mockController := &mockMessagingController{
		postMessage: func(_ context.Context, actor, chat uuid.UUID, content string) (*models.Message, error) {
			assert.Equal(t, "hola equipo", content)
			return &models.Message{
				ID:        uuid.New(),
				ChatID:    chat,
				SenderID:  actor,
				Content:   content,
				CreatedAt: time.Now(),
			}, nil
		},
	}
	router := newTestRouter(t, nil, nil, mockController)

	rec := doRequest(t, router, http.MethodPost,
		fmt.Sprintf("/v1/chats/%s/messages", chatID), &actorID,
		postMessageRequest{Content: "hola equipo"})

	require.Equal(t, http.StatusCreated, rec.Code)
	var resp messageView
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "hola equipo", resp.Content)
	assert.Equal(t, actorID, resp.SenderID)
}

func TestListChatsHandler(t *testing.T) {
	actorID := uuid.New()
	now := time.Now()
	mockController := &mockMessagingController{
		listChats: func(_ context.Context, _ uuid.UUID) ([]models.ChatSummary, error) {
			return []models.ChatSummary{
				{Chat: models.Chat{ID: uuid.New(), Type: models.ChatCompany}, LastActivityAt: now},
				{Chat: models.Chat{ID: uuid.New(), Type: models.ChatDirect}, LastActivityAt: now.Add(-time.Hour)},
			}, nil
		},
	}
	router := newTestRouter(t, nil, nil, mockController)

	rec := doRequest(t, router, http.MethodGet, "/v1/chats", &actorID, nil)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp []chatSummaryView
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp, 2)
	assert.Equal(t, "company", resp[0].Type)
}
