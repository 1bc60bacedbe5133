// Package models defines the persisted domain entities: users and their
// profiles, companies, cooperatives, chats and messages. The structs double
// as GORM models; relation tables (chat participants, cooperative member
// companies) are declared through many2many tags.
package models

import (
	"time"

	"github.com/google/uuid"
)

// User is an account identity. Credentials live here; everything else about
// the person is on the Profile.
type User struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey"`
	Username     string    `gorm:"size:150;uniqueIndex"`
	Email        string    `gorm:"size:254"`
	PasswordHash string    `gorm:"size:128"`
	CreatedAt    time.Time
}

// Profile is the 1:1 extension of a User. CompanyID is the user's single
// current company affiliation; nil means no affiliation. A Profile is
// created together with its User and never outlives it.
type Profile struct {
	ID        uuid.UUID  `gorm:"type:uuid;primaryKey"`
	UserID    uuid.UUID  `gorm:"type:uuid;uniqueIndex"`
	CompanyID *uuid.UUID `gorm:"type:uuid;index"`
	Company   *Company
	Bio       string `gorm:"size:500"`
	AvatarURL string `gorm:"size:500"`
	CreatedAt time.Time
}

// ProfileUpdate carries the fields a user may change on their own profile.
// Pointer types allow partial updates.
type ProfileUpdate struct {
	UserID    uuid.UUID
	Bio       *string
	AvatarURL *string
}

// DashboardStats summarizes the landing page counters for a user.
type DashboardStats struct {
	Companies    int64
	Cooperatives int64
	UserChats    int64
}
