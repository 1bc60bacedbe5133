package handlers

import (
	"time"

	"github.com/google/uuid"
	"github.com/pymenet/pymenet/internal/models"
)

// View types are the JSON shapes of the API. They exist so that responses
// never leak persistence-only fields such as password hashes or other
// companies' access codes.

type userView struct {
	ID        uuid.UUID `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

type profileView struct {
	UserID    uuid.UUID    `json:"user_id"`
	Bio       string       `json:"bio"`
	AvatarURL string       `json:"avatar_url"`
	Company   *companyView `json:"company,omitempty"`
	CreatedAt time.Time    `json:"created_at"`
}

type companyView struct {
	ID          uuid.UUID  `json:"id"`
	Name        string     `json:"name"`
	Sector      string     `json:"sector"`
	Description string     `json:"description"`
	AccessCode  string     `json:"access_code,omitempty"`
	CreatedByID *uuid.UUID `json:"created_by_id,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}

type companyDetailView struct {
	Company      companyView       `json:"company"`
	Members      []userView        `json:"members"`
	Cooperatives []cooperativeView `json:"cooperatives"`
	IsMember     bool              `json:"is_member"`
	CanJoin      bool              `json:"can_join"`
}

type cooperativeView struct {
	ID          uuid.UUID  `json:"id"`
	Name        string     `json:"name"`
	Sector      string     `json:"sector"`
	Description string     `json:"description"`
	CreatedByID *uuid.UUID `json:"created_by_id,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}

type cooperativeDetailView struct {
	Cooperative cooperativeView `json:"cooperative"`
	Companies   []companyView   `json:"companies"`
	IsMember    bool            `json:"is_member"`
	CanJoin     bool            `json:"can_join"`
}

type chatView struct {
	ID            uuid.UUID  `json:"id"`
	Type          string     `json:"type"`
	CompanyID     *uuid.UUID `json:"company_id,omitempty"`
	CooperativeID *uuid.UUID `json:"cooperative_id,omitempty"`
	Participants  []userView `json:"participants"`
	CreatedAt     time.Time  `json:"created_at"`
}

type chatSummaryView struct {
	chatView
	LastActivityAt time.Time `json:"last_activity_at"`
}

type chatDetailView struct {
	chatView
	Messages []messageView `json:"messages"`
}

type messageView struct {
	ID             uuid.UUID `json:"id"`
	ChatID         uuid.UUID `json:"chat_id"`
	SenderID       uuid.UUID `json:"sender_id"`
	SenderUsername string    `json:"sender_username,omitempty"`
	Content        string    `json:"content"`
	CreatedAt      time.Time `json:"created_at"`
}

type dashboardView struct {
	Companies    int64 `json:"companies"`
	Cooperatives int64 `json:"cooperatives"`
	UserChats    int64 `json:"user_chats"`
}

func toUserView(u *models.User) userView {
	return userView{
		ID:        u.ID,
		Username:  u.Username,
		Email:     u.Email,
		CreatedAt: u.CreatedAt,
	}
}

func toUserViews(users []models.User) []userView {
	views := make([]userView, 0, len(users))
	for i := range users {
		views = append(views, toUserView(&users[i]))
	}
	return views
}

func toProfileView(p *models.Profile) profileView {
	view := profileView{
		UserID:    p.UserID,
		Bio:       p.Bio,
		AvatarURL: p.AvatarURL,
		CreatedAt: p.CreatedAt,
	}
	if p.Company != nil {
		company := toCompanyView(p.Company, false)
		view.Company = &company
	}
	return view
}

// toCompanyView renders a company. The access code is included only when
// the viewer is entitled to it (the company's creator).
func toCompanyView(c *models.Company, includeCode bool) companyView {
	view := companyView{
		ID:          c.ID,
		Name:        c.Name,
		Sector:      string(c.Sector),
		Description: c.Description,
		CreatedByID: c.CreatedByID,
		CreatedAt:   c.CreatedAt,
	}
	if includeCode {
		view.AccessCode = c.AccessCode
	}
	return view
}

func toCompanyViews(companies []models.Company) []companyView {
	views := make([]companyView, 0, len(companies))
	for i := range companies {
		views = append(views, toCompanyView(&companies[i], false))
	}
	return views
}

func toCooperativeView(c *models.Cooperative) cooperativeView {
	return cooperativeView{
		ID:          c.ID,
		Name:        c.Name,
		Sector:      string(c.Sector),
		Description: c.Description,
		CreatedByID: c.CreatedByID,
		CreatedAt:   c.CreatedAt,
	}
}

func toCooperativeViews(cooperatives []models.Cooperative) []cooperativeView {
	views := make([]cooperativeView, 0, len(cooperatives))
	for i := range cooperatives {
		views = append(views, toCooperativeView(&cooperatives[i]))
	}
	return views
}

func toChatView(c *models.Chat) chatView {
	return chatView{
		ID:            c.ID,
		Type:          string(c.Type),
		CompanyID:     c.CompanyID,
		CooperativeID: c.CooperativeID,
		Participants:  toUserViews(c.Participants),
		CreatedAt:     c.CreatedAt,
	}
}

func toMessageView(m *models.Message) messageView {
	view := messageView{
		ID:        m.ID,
		ChatID:    m.ChatID,
		SenderID:  m.SenderID,
		Content:   m.Content,
		CreatedAt: m.CreatedAt,
	}
	if m.Sender != nil {
		view.SenderUsername = m.Sender.Username
	}
	return view
}

func toMessageViews(messages []models.Message) []messageView {
	views := make([]messageView, 0, len(messages))
	for i := range messages {
		views = append(views, toMessageView(&messages[i]))
	}
	return views
}
