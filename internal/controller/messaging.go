package controller

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/pymenet/pymenet/internal/authz"
	e "github.com/pymenet/pymenet/internal/errors"
	"github.com/pymenet/pymenet/internal/events"
	"github.com/pymenet/pymenet/internal/models"
	"github.com/pymenet/pymenet/internal/sanitize"
	"go.uber.org/zap"
)

// MessagingRepository defines the storage operations the messaging service
// needs.
type MessagingRepository interface {
	CreateChat(ctx context.Context, chat *models.Chat) error
	GetChat(ctx context.Context, id uuid.UUID) (*models.Chat, error)
	FindDirectChat(ctx context.Context, userA, userB uuid.UUID) (*models.Chat, error)
	FindCompanyChat(ctx context.Context, companyID uuid.UUID) (*models.Chat, error)
	FindCooperativeChat(ctx context.Context, cooperativeID uuid.UUID) (*models.Chat, error)
	ListVisibleChats(ctx context.Context, userID uuid.UUID, companyID *uuid.UUID) ([]models.ChatSummary, error)
	CreateMessage(ctx context.Context, message *models.Message) error
	ListMessages(ctx context.Context, chatID uuid.UUID) ([]models.Message, error)

	GetUser(ctx context.Context, id uuid.UUID) (*models.User, error)
	GetProfile(ctx context.Context, userID uuid.UUID) (*models.Profile, error)
	GetCompany(ctx context.Context, id uuid.UUID) (*models.Company, error)
	GetCooperative(ctx context.Context, id uuid.UUID) (*models.Cooperative, error)
	CooperativeHasCompany(ctx context.Context, cooperativeID, companyID uuid.UUID) (bool, error)
	UsersInCompany(ctx context.Context, companyID uuid.UUID) ([]models.User, error)
	UsersInCooperative(ctx context.Context, cooperativeID uuid.UUID) ([]models.User, error)
}

// MessagingService resolves canonical chats, gates every read and write on
// the live access predicate, and appends messages.
type MessagingService struct {
	repo     MessagingRepository
	producer EventProducer
	logger   *zap.Logger
}

func NewMessagingService(repo MessagingRepository, producer EventProducer, logger *zap.Logger) *MessagingService {
	return &MessagingService{
		repo:     repo,
		producer: producer,
		logger:   logger.Named("messaging_service"),
	}
}

// gate loads the chat and the actor's current affiliation and applies the
// access predicate. Access is recomputed here on every call; nothing is
// cached between requests.
func (s *MessagingService) gate(ctx context.Context, actorID, chatID uuid.UUID) (*models.Chat, error) {
	chat, err := s.repo.GetChat(ctx, chatID)
	if err != nil {
		return nil, err
	}
	profile, err := s.repo.GetProfile(ctx, actorID)
	if err != nil {
		return nil, err
	}
	if !authz.CanAccessChat(actorID, profile.CompanyID, chat) {
		return nil, fmt.Errorf("%w: no access to this chat", e.ErrForbidden)
	}
	return chat, nil
}

// ListChats returns the chats the actor may currently access, newest
// activity first.
func (s *MessagingService) ListChats(ctx context.Context, actorID uuid.UUID) ([]models.ChatSummary, error) {
	profile, err := s.repo.GetProfile(ctx, actorID)
	if err != nil {
		return nil, err
	}
	return s.repo.ListVisibleChats(ctx, actorID, profile.CompanyID)
}

// GetChat returns a chat and its messages after the access gate.
func (s *MessagingService) GetChat(ctx context.Context, actorID, chatID uuid.UUID) (*models.ChatDetail, error) {
	chat, err := s.gate(ctx, actorID, chatID)
	if err != nil {
		return nil, err
	}
	messages, err := s.repo.ListMessages(ctx, chatID)
	if err != nil {
		return nil, fmt.Errorf("failed to list messages: %w", err)
	}
	return &models.ChatDetail{Chat: *chat, Messages: messages}, nil
}

// ListMessages serves the polling endpoint: the same gate as GetChat, the
// messages only.
func (s *MessagingService) ListMessages(ctx context.Context, actorID, chatID uuid.UUID) ([]models.Message, error) {
	if _, err := s.gate(ctx, actorID, chatID); err != nil {
		return nil, err
	}
	return s.repo.ListMessages(ctx, chatID)
}

// PostMessage appends an immutable message to the chat after the access
// gate. Content is sanitized and bounded.
func (s *MessagingService) PostMessage(ctx context.Context, actorID, chatID uuid.UUID, content string) (*models.Message, error) {
	if _, err := s.gate(ctx, actorID, chatID); err != nil {
		return nil, err
	}

	clean := sanitize.Text(content)
	if clean == "" {
		return nil, fmt.Errorf("%w: empty message", e.ErrInvalidInput)
	}
	if len(clean) > models.MaxMessageLength {
		return nil, fmt.Errorf("%w: message too long", e.ErrInvalidInput)
	}

	message := &models.Message{
		ID:       uuid.New(),
		ChatID:   chatID,
		SenderID: actorID,
		Content:  clean,
	}
	if err := s.repo.CreateMessage(ctx, message); err != nil {
		return nil, fmt.Errorf("failed to create message: %w", err)
	}

	go func() {
		s.producer.Produce(events.MessagePosted, chatID.String(), map[string]string{
			"message_id": message.ID.String(),
			"sender_id":  actorID.String(),
		})
	}()
	return message, nil
}

// ResolveDirectChat finds or creates the single direct chat between the
// actor and the other user. Repeated calls, in either order, return the
// same chat.
func (s *MessagingService) ResolveDirectChat(ctx context.Context, actorID, otherID uuid.UUID) (*models.Chat, error) {
	if actorID == otherID {
		return nil, fmt.Errorf("%w: cannot chat with yourself", e.ErrInvalidInput)
	}

	other, err := s.repo.GetUser(ctx, otherID)
	if err != nil {
		return nil, err
	}

	existing, err := s.repo.FindDirectChat(ctx, actorID, otherID)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, e.ErrNotFound) {
		return nil, fmt.Errorf("failed to look up direct chat: %w", err)
	}

	actor, err := s.repo.GetUser(ctx, actorID)
	if err != nil {
		return nil, err
	}

	chat := &models.Chat{
		ID:           uuid.New(),
		Type:         models.ChatDirect,
		Participants: []models.User{*actor, *other},
	}
	if err := s.repo.CreateChat(ctx, chat); err != nil {
		return nil, fmt.Errorf("failed to create direct chat: %w", err)
	}

	go func() {
		s.producer.Produce(events.ChatCreated, chat.ID.String(), chat)
	}()
	return chat, nil
}

// ResolveCompanyChat finds or creates the canonical chat of a company. The
// requester must currently be a member. On creation the participant set is
// a snapshot of the company's members; an existing chat's snapshot is
// deliberately left as it was.
func (s *MessagingService) ResolveCompanyChat(ctx context.Context, actorID, companyID uuid.UUID) (*models.Chat, error) {
	company, err := s.repo.GetCompany(ctx, companyID)
	if err != nil {
		return nil, err
	}

	profile, err := s.repo.GetProfile(ctx, actorID)
	if err != nil {
		return nil, err
	}
	if profile.CompanyID == nil || *profile.CompanyID != company.ID {
		return nil, fmt.Errorf("%w: must be a member of the company", e.ErrForbidden)
	}

	existing, err := s.repo.FindCompanyChat(ctx, companyID)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, e.ErrNotFound) {
		return nil, fmt.Errorf("failed to look up company chat: %w", err)
	}

	participants, err := s.repo.UsersInCompany(ctx, companyID)
	if err != nil {
		return nil, fmt.Errorf("failed to snapshot members: %w", err)
	}

	chat := &models.Chat{
		ID:           uuid.New(),
		Type:         models.ChatCompany,
		CompanyID:    &company.ID,
		Participants: participants,
	}
	if err := s.repo.CreateChat(ctx, chat); err != nil {
		return nil, fmt.Errorf("failed to create company chat: %w", err)
	}

	go func() {
		s.producer.Produce(events.ChatCreated, chat.ID.String(), chat)
	}()
	return chat, nil
}

// ResolveCooperativeChat finds or creates the canonical chat of a
// cooperative. The requester's company must currently be a member. On
// creation the participant set snapshots the distinct users of all member
// companies.
func (s *MessagingService) ResolveCooperativeChat(ctx context.Context, actorID, cooperativeID uuid.UUID) (*models.Chat, error) {
	cooperative, err := s.repo.GetCooperative(ctx, cooperativeID)
	if err != nil {
		return nil, err
	}

	profile, err := s.repo.GetProfile(ctx, actorID)
	if err != nil {
		return nil, err
	}
	if profile.CompanyID == nil {
		return nil, fmt.Errorf("%w: must belong to a member company", e.ErrForbidden)
	}
	member, err := s.repo.CooperativeHasCompany(ctx, cooperativeID, *profile.CompanyID)
	if err != nil {
		return nil, fmt.Errorf("failed to check membership: %w", err)
	}
	if !member {
		return nil, fmt.Errorf("%w: must belong to a member company", e.ErrForbidden)
	}

	existing, err := s.repo.FindCooperativeChat(ctx, cooperativeID)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, e.ErrNotFound) {
		return nil, fmt.Errorf("failed to look up cooperative chat: %w", err)
	}

	participants, err := s.repo.UsersInCooperative(ctx, cooperativeID)
	if err != nil {
		return nil, fmt.Errorf("failed to snapshot members: %w", err)
	}

	chat := &models.Chat{
		ID:            uuid.New(),
		Type:          models.ChatCooperative,
		CooperativeID: &cooperative.ID,
		Participants:  participants,
	}
	if err := s.repo.CreateChat(ctx, chat); err != nil {
		return nil, fmt.Errorf("failed to create cooperative chat: %w", err)
	}

	go func() {
		s.producer.Produce(events.ChatCreated, chat.ID.String(), chat)
	}()
	return chat, nil
}
