// Package authz holds the pure membership and access predicates. Every
// function takes the acting user's state explicitly and reads nothing
// ambient; callers load current rows from the repository and apply the
// predicate per request.
package authz

import (
	"github.com/pymenet/pymenet/internal/models"
)

// CanJoinCompany reports whether the submitted access code admits a user
// into the company. The comparison is an exact, case-sensitive string
// match; there is no attempt limit.
func CanJoinCompany(company *models.Company, submittedCode string) bool {
	if company == nil {
		return false
	}
	return submittedCode == company.AccessCode
}

// CanJoinCooperative reports whether a company is eligible to join the
// cooperative: the sectors must be equal.
func CanJoinCooperative(cooperative *models.Cooperative, company *models.Company) bool {
	if cooperative == nil || company == nil {
		return false
	}
	return company.Sector == cooperative.Sector
}
