package db

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/pymenet/pymenet/internal/models"
)

// CreateChat persists a chat and its participant rows. The user records
// themselves are referenced, never upserted.
func (r *Repository) CreateChat(ctx context.Context, chat *models.Chat) error {
	return r.db.WithContext(ctx).Omit("Participants.*").Create(chat).Error
}

// GetChat loads a chat with everything an access decision needs: the
// participant set, the organization reference, and for cooperative chats
// the cooperative's current member companies.
func (r *Repository) GetChat(ctx context.Context, id uuid.UUID) (*models.Chat, error) {
	var chat models.Chat
	result := r.db.WithContext(ctx).
		Preload("Participants").
		Preload("Company").
		Preload("Cooperative.Companies").
		First(&chat, "id = ?", id)
	if result.Error != nil {
		return nil, notFound(result.Error)
	}
	return &chat, nil
}

// FindDirectChat returns the direct chat both users participate in,
// regardless of argument order, or ErrNotFound.
func (r *Repository) FindDirectChat(ctx context.Context, userA, userB uuid.UUID) (*models.Chat, error) {
	var chat models.Chat
	result := r.db.WithContext(ctx).Model(&models.Chat{}).
		Joins("JOIN chat_participants pa ON pa.chat_id = chats.id AND pa.user_id = ?", userA).
		Joins("JOIN chat_participants pb ON pb.chat_id = chats.id AND pb.user_id = ?", userB).
		Where("chats.type = ?", models.ChatDirect).
		First(&chat)
	if result.Error != nil {
		return nil, notFound(result.Error)
	}
	return &chat, nil
}

func (r *Repository) FindCompanyChat(ctx context.Context, companyID uuid.UUID) (*models.Chat, error) {
	var chat models.Chat
	result := r.db.WithContext(ctx).
		Where("type = ? AND company_id = ?", models.ChatCompany, companyID).
		First(&chat)
	if result.Error != nil {
		return nil, notFound(result.Error)
	}
	return &chat, nil
}

func (r *Repository) FindCooperativeChat(ctx context.Context, cooperativeID uuid.UUID) (*models.Chat, error) {
	var chat models.Chat
	result := r.db.WithContext(ctx).
		Where("type = ? AND cooperative_id = ?", models.ChatCooperative, cooperativeID).
		First(&chat)
	if result.Error != nil {
		return nil, notFound(result.Error)
	}
	return &chat, nil
}

// ListVisibleChats returns the chats the user may currently access under
// the live-membership rules, annotated with their latest activity and
// ordered newest-activity first. Chats without messages fall back to their
// creation time.
func (r *Repository) ListVisibleChats(ctx context.Context, userID uuid.UUID, companyID *uuid.UUID) ([]models.ChatSummary, error) {
	type row struct {
		ID             uuid.UUID
		LastActivityAt time.Time
	}

	q := r.db.WithContext(ctx).Model(&models.Chat{}).
		Select("chats.id, COALESCE(MAX(messages.created_at), chats.created_at) AS last_activity_at").
		Joins("LEFT JOIN messages ON messages.chat_id = chats.id").
		Joins("LEFT JOIN chat_participants cp ON cp.chat_id = chats.id")

	if companyID != nil {
		q = q.Where(
			"(chats.type = ? AND cp.user_id = ?) OR (chats.type = ? AND chats.company_id = ?) OR (chats.type = ? AND chats.cooperative_id IN (SELECT cooperative_id FROM cooperative_companies WHERE company_id = ?))",
			models.ChatDirect, userID,
			models.ChatCompany, *companyID,
			models.ChatCooperative, *companyID,
		)
	} else {
		q = q.Where("chats.type = ? AND cp.user_id = ?", models.ChatDirect, userID)
	}

	var rows []row
	if err := q.Group("chats.id").Order("last_activity_at DESC").Scan(&rows).Error; err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}

	ids := make([]uuid.UUID, 0, len(rows))
	for _, rw := range rows {
		ids = append(ids, rw.ID)
	}

	var chats []models.Chat
	if err := r.db.WithContext(ctx).
		Preload("Participants").
		Preload("Company").
		Preload("Cooperative").
		Where("id IN ?", ids).
		Find(&chats).Error; err != nil {
		return nil, err
	}

	byID := make(map[uuid.UUID]models.Chat, len(chats))
	for _, c := range chats {
		byID[c.ID] = c
	}

	summaries := make([]models.ChatSummary, 0, len(rows))
	for _, rw := range rows {
		chat, ok := byID[rw.ID]
		if !ok {
			continue
		}
		summaries = append(summaries, models.ChatSummary{
			Chat:           chat,
			LastActivityAt: rw.LastActivityAt,
		})
	}
	return summaries, nil
}

// CountUserChats counts the chats whose stored participant set includes the
// user, for the dashboard counter.
func (r *Repository) CountUserChats(ctx context.Context, userID uuid.UUID) (int64, error) {
	var count int64
	result := r.db.WithContext(ctx).Table("chat_participants").
		Where("user_id = ?", userID).
		Count(&count)
	return count, result.Error
}

// UsersInCompany returns the users affiliated with the company, used for
// the participant snapshot of a new company chat.
func (r *Repository) UsersInCompany(ctx context.Context, companyID uuid.UUID) ([]models.User, error) {
	return r.CompanyMembers(ctx, companyID)
}

// UsersInCooperative returns the distinct users affiliated with any member
// company of the cooperative.
func (r *Repository) UsersInCooperative(ctx context.Context, cooperativeID uuid.UUID) ([]models.User, error) {
	var users []models.User
	result := r.db.WithContext(ctx).Model(&models.User{}).
		Distinct("users.*").
		Joins("JOIN profiles ON profiles.user_id = users.id").
		Where("profiles.company_id IN (SELECT company_id FROM cooperative_companies WHERE cooperative_id = ?)", cooperativeID).
		Find(&users)
	return users, result.Error
}

func (r *Repository) CreateMessage(ctx context.Context, message *models.Message) error {
	return r.db.WithContext(ctx).Create(message).Error
}

// ListMessages returns a chat's messages in ascending creation order, the
// only order the system ever exposes.
func (r *Repository) ListMessages(ctx context.Context, chatID uuid.UUID) ([]models.Message, error) {
	var messages []models.Message
	result := r.db.WithContext(ctx).
		Preload("Sender").
		Where("chat_id = ?", chatID).
		Order("created_at ASC").
		Find(&messages)
	return messages, result.Error
}

// deleteChatsWhere removes chats matching the condition together with their
// messages and participant rows. Used when a company or cooperative is
// deleted.
func (r *Repository) deleteChatsWhere(ctx context.Context, query string, arg interface{}) error {
	tx := r.db.WithContext(ctx)

	var ids []uuid.UUID
	if err := tx.Model(&models.Chat{}).Where(query, arg).Pluck("id", &ids).Error; err != nil {
		return err
	}
	if len(ids) == 0 {
		return nil
	}

	if err := tx.Where("chat_id IN ?", ids).Delete(&models.Message{}).Error; err != nil {
		return err
	}
	if err := tx.Exec("DELETE FROM chat_participants WHERE chat_id IN ?", ids).Error; err != nil {
		return err
	}
	return tx.Delete(&models.Chat{}, "id IN ?", ids).Error
}
