package models

import (
	"time"

	"github.com/google/uuid"
)

// ChatType distinguishes the three kinds of conversation.
type ChatType string

const (
	ChatDirect      ChatType = "direct"
	ChatCompany     ChatType = "company"
	ChatCooperative ChatType = "cooperative"
)

// Chat is a conversation. Exactly one of the organization references is set
// for company/cooperative chats; direct chats reference no organization.
//
// Participants is authoritative for direct chats only. For company and
// cooperative chats it is a snapshot taken at creation, kept for
// enumeration; access is always decided against current membership, never
// against this set.
type Chat struct {
	ID            uuid.UUID  `gorm:"type:uuid;primaryKey"`
	Type          ChatType   `gorm:"size:20;index"`
	CompanyID     *uuid.UUID `gorm:"type:uuid;index"`
	Company       *Company
	CooperativeID *uuid.UUID `gorm:"type:uuid;index"`
	Cooperative   *Cooperative
	Participants  []User `gorm:"many2many:chat_participants"`
	CreatedAt     time.Time
}

// ChatSummary is a Chat annotated with its most recent activity for the
// chat list. LastActivityAt falls back to the chat's creation time when no
// message has been posted yet.
type ChatSummary struct {
	Chat           Chat
	LastActivityAt time.Time
}

// ChatDetail is a Chat with its messages in ascending creation order.
type ChatDetail struct {
	Chat     Chat
	Messages []Message
}

// MaxMessageLength bounds message content, matching the column size.
const MaxMessageLength = 1000

// Message is a single chat entry. Messages are immutable: there is no edit
// or delete operation anywhere in the system.
type Message struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	ChatID    uuid.UUID `gorm:"type:uuid;index"`
	SenderID  uuid.UUID `gorm:"type:uuid"`
	Sender    *User
	Content   string `gorm:"size:1000"`
	CreatedAt time.Time
}
