package models

import (
	"time"

	"github.com/google/uuid"
)

// DefaultAccessCode is assigned to a company at creation when the creator
// does not choose one. It is deliberately non-secret; the creator is
// expected to change it.
const DefaultAccessCode = "123456"

// Company is a member organization. Users join it by submitting its access
// code; membership is recorded on the joining user's Profile.
type Company struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name        string    `gorm:"size:200;uniqueIndex"`
	Sector      Sector    `gorm:"size:50"`
	Description string    `gorm:"size:3000"`
	AccessCode  string    `gorm:"size:20"`
	CreatedByID *uuid.UUID `gorm:"type:uuid"`
	CreatedAt   time.Time
}

// CompanyUpdate represents the fields that can be updated for a Company.
// Pointer types are used to allow partial updates.
type CompanyUpdate struct {
	ID          uuid.UUID
	Name        *string
	Sector      *Sector
	Description *string
	AccessCode  *string
}

// CompanyDetail is a Company plus the viewer-dependent context the detail
// page needs.
type CompanyDetail struct {
	Company      Company
	Members      []User
	Cooperatives []Cooperative
	IsMember     bool
	CanJoin      bool
}

// Cooperative groups companies of a single sector. Membership is a
// many-to-many set; the sector-equality rule is enforced at join time only,
// so a later sector change on a member company is not corrected.
type Cooperative struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name        string    `gorm:"size:200;uniqueIndex"`
	Sector      Sector    `gorm:"size:50"`
	Description string    `gorm:"size:3000"`
	CreatedByID *uuid.UUID `gorm:"type:uuid"`
	Companies   []Company  `gorm:"many2many:cooperative_companies"`
	CreatedAt   time.Time
}

// CooperativeUpdate represents the fields that can be updated for a
// Cooperative.
type CooperativeUpdate struct {
	ID          uuid.UUID
	Name        *string
	Sector      *Sector
	Description *string
}

// CooperativeDetail is a Cooperative plus viewer-dependent membership and
// eligibility flags.
type CooperativeDetail struct {
	Cooperative Cooperative
	Companies   []Company
	IsMember    bool
	CanJoin     bool
}
