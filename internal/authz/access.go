package authz

import (
	"github.com/google/uuid"
	"github.com/pymenet/pymenet/internal/models"
)

// CanAccessChat decides whether the acting user may read or write a chat.
// companyID is the user's current company affiliation (nil when none);
// chat must be loaded with Participants and, for cooperative chats, with
// Cooperative.Companies.
//
// Direct chats are gated on the stored participant pair, which is fixed at
// creation. Company and cooperative chats are gated on current membership
// only: the stored participant snapshot is never consulted, so a user who
// leaves a company loses access on the next check even though the snapshot
// still lists them.
func CanAccessChat(userID uuid.UUID, companyID *uuid.UUID, chat *models.Chat) bool {
	if chat == nil {
		return false
	}
	switch chat.Type {
	case models.ChatDirect:
		for _, p := range chat.Participants {
			if p.ID == userID {
				return true
			}
		}
		return false
	case models.ChatCompany:
		return companyID != nil && chat.CompanyID != nil && *companyID == *chat.CompanyID
	case models.ChatCooperative:
		if companyID == nil || chat.Cooperative == nil {
			return false
		}
		for _, c := range chat.Cooperative.Companies {
			if c.ID == *companyID {
				return true
			}
		}
		return false
	}
	return false
}
