package handlers

import (
	"context"
	"net/http"

	"github.com/google/uuid"
	"github.com/pymenet/pymenet/internal/auth"
	e "github.com/pymenet/pymenet/internal/errors"
	"github.com/pymenet/pymenet/internal/models"
	"github.com/pymenet/pymenet/internal/pkg/utils"
	"go.uber.org/zap"
)

// OrganizationController defines the company and cooperative business logic
// the HTTP handlers invoke.
type OrganizationController interface {
	CreateCompany(ctx context.Context, actorID uuid.UUID, company *models.Company) (*models.Company, error)
	ListCompanies(ctx context.Context) ([]models.Company, error)
	GetCompany(ctx context.Context, actorID, companyID uuid.UUID) (*models.CompanyDetail, error)
	UpdateCompany(ctx context.Context, actorID uuid.UUID, update *models.CompanyUpdate) (*models.Company, error)
	DeleteCompany(ctx context.Context, actorID, companyID uuid.UUID) error
	JoinCompany(ctx context.Context, actorID, companyID uuid.UUID, accessCode string) error
	LeaveCompany(ctx context.Context, actorID, companyID uuid.UUID) error

	CreateCooperative(ctx context.Context, actorID uuid.UUID, cooperative *models.Cooperative) (*models.Cooperative, error)
	ListCooperatives(ctx context.Context) ([]models.Cooperative, error)
	GetCooperative(ctx context.Context, actorID, cooperativeID uuid.UUID) (*models.CooperativeDetail, error)
	UpdateCooperative(ctx context.Context, actorID uuid.UUID, update *models.CooperativeUpdate) (*models.Cooperative, error)
	DeleteCooperative(ctx context.Context, actorID, cooperativeID uuid.UUID) error
	JoinCooperative(ctx context.Context, actorID, cooperativeID uuid.UUID) error
	LeaveCooperative(ctx context.Context, actorID, cooperativeID uuid.UUID) error
}

// OrganizationHandler serves the company and cooperative endpoints.
type OrganizationHandler struct {
	controller OrganizationController
	logger     *zap.Logger
}

// NewOrganizationHandler constructs an OrganizationHandler.
func NewOrganizationHandler(controller OrganizationController, logger *zap.Logger) *OrganizationHandler {
	return &OrganizationHandler{controller: controller, logger: logger}
}

func (h *OrganizationHandler) actor(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	actorID, ok := auth.UserID(r.Context())
	if !ok {
		writeError(w, h.logger, e.ErrUnauthorized)
	}
	return actorID, ok
}

type companyCreateRequest struct {
	Name        string `json:"name"`
	Sector      string `json:"sector"`
	Description string `json:"description"`
	AccessCode  string `json:"access_code"`
}

type companyUpdateRequest struct {
	Name        *string `json:"name"`
	Sector      *string `json:"sector"`
	Description *string `json:"description"`
	AccessCode  *string `json:"access_code"`
}

// CreateCompany handles POST /v1/companies. The creator's profile is pointed
// at the new company.
func (h *OrganizationHandler) CreateCompany(w http.ResponseWriter, r *http.Request) {
	actorID, ok := h.actor(w, r)
	if !ok {
		return
	}

	var req companyCreateRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, h.logger, err)
		return
	}

	company, err := h.controller.CreateCompany(r.Context(), actorID, &models.Company{
		Name:        req.Name,
		Sector:      models.Sector(req.Sector),
		Description: req.Description,
		AccessCode:  req.AccessCode,
	})
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, h.logger, http.StatusCreated, toCompanyView(company, true))
}

// ListCompanies handles GET /v1/companies.
func (h *OrganizationHandler) ListCompanies(w http.ResponseWriter, r *http.Request) {
	companies, err := h.controller.ListCompanies(r.Context())
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, h.logger, http.StatusOK, toCompanyViews(companies))
}

// GetCompany handles GET /v1/companies/{id}.
func (h *OrganizationHandler) GetCompany(w http.ResponseWriter, r *http.Request) {
	actorID, ok := h.actor(w, r)
	if !ok {
		return
	}
	companyID, err := urlID(r, "id")
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	detail, err := h.controller.GetCompany(r.Context(), actorID, companyID)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	isCreator := detail.Company.CreatedByID != nil && *detail.Company.CreatedByID == actorID
	writeJSON(w, h.logger, http.StatusOK, companyDetailView{
		Company:      toCompanyView(&detail.Company, isCreator),
		Members:      toUserViews(detail.Members),
		Cooperatives: toCooperativeViews(detail.Cooperatives),
		IsMember:     detail.IsMember,
		CanJoin:      detail.CanJoin,
	})
}

// UpdateCompany handles PATCH /v1/companies/{id}. Creator only.
func (h *OrganizationHandler) UpdateCompany(w http.ResponseWriter, r *http.Request) {
	actorID, ok := h.actor(w, r)
	if !ok {
		return
	}
	companyID, err := urlID(r, "id")
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	var req companyUpdateRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, h.logger, err)
		return
	}

	update := &models.CompanyUpdate{
		ID:          companyID,
		Name:        req.Name,
		Description: req.Description,
		AccessCode:  req.AccessCode,
	}
	if req.Sector != nil {
		update.Sector = utils.Ptr(models.Sector(*req.Sector))
	}

	company, err := h.controller.UpdateCompany(r.Context(), actorID, update)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, h.logger, http.StatusOK, toCompanyView(company, true))
}

// DeleteCompany handles DELETE /v1/companies/{id}. Creator only.
func (h *OrganizationHandler) DeleteCompany(w http.ResponseWriter, r *http.Request) {
	actorID, ok := h.actor(w, r)
	if !ok {
		return
	}
	companyID, err := urlID(r, "id")
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	if err := h.controller.DeleteCompany(r.Context(), actorID, companyID); err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, h.logger, http.StatusNoContent, nil)
}

type joinCompanyRequest struct {
	AccessCode string `json:"access_code"`
}

// JoinCompany handles POST /v1/companies/{id}/join.
func (h *OrganizationHandler) JoinCompany(w http.ResponseWriter, r *http.Request) {
	actorID, ok := h.actor(w, r)
	if !ok {
		return
	}
	companyID, err := urlID(r, "id")
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	var req joinCompanyRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, h.logger, err)
		return
	}

	if err := h.controller.JoinCompany(r.Context(), actorID, companyID, req.AccessCode); err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, h.logger, http.StatusNoContent, nil)
}

// LeaveCompany handles POST /v1/companies/{id}/leave.
func (h *OrganizationHandler) LeaveCompany(w http.ResponseWriter, r *http.Request) {
	actorID, ok := h.actor(w, r)
	if !ok {
		return
	}
	companyID, err := urlID(r, "id")
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	if err := h.controller.LeaveCompany(r.Context(), actorID, companyID); err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, h.logger, http.StatusNoContent, nil)
}

type cooperativeCreateRequest struct {
	Name        string `json:"name"`
	Sector      string `json:"sector"`
	Description string `json:"description"`
}

type cooperativeUpdateRequest struct {
	Name        *string `json:"name"`
	Sector      *string `json:"sector"`
	Description *string `json:"description"`
}

// CreateCooperative handles POST /v1/cooperatives.
func (h *OrganizationHandler) CreateCooperative(w http.ResponseWriter, r *http.Request) {
	actorID, ok := h.actor(w, r)
	if !ok {
		return
	}

	var req cooperativeCreateRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, h.logger, err)
		return
	}

	cooperative, err := h.controller.CreateCooperative(r.Context(), actorID, &models.Cooperative{
		Name:        req.Name,
		Sector:      models.Sector(req.Sector),
		Description: req.Description,
	})
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, h.logger, http.StatusCreated, toCooperativeView(cooperative))
}

// ListCooperatives handles GET /v1/cooperatives.
func (h *OrganizationHandler) ListCooperatives(w http.ResponseWriter, r *http.Request) {
	cooperatives, err := h.controller.ListCooperatives(r.Context())
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, h.logger, http.StatusOK, toCooperativeViews(cooperatives))
}

// GetCooperative handles GET /v1/cooperatives/{id}.
func (h *OrganizationHandler) GetCooperative(w http.ResponseWriter, r *http.Request) {
	actorID, ok := h.actor(w, r)
	if !ok {
		return
	}
	cooperativeID, err := urlID(r, "id")
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	detail, err := h.controller.GetCooperative(r.Context(), actorID, cooperativeID)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, h.logger, http.StatusOK, cooperativeDetailView{
		Cooperative: toCooperativeView(&detail.Cooperative),
		Companies:   toCompanyViews(detail.Companies),
		IsMember:    detail.IsMember,
		CanJoin:     detail.CanJoin,
	})
}

// UpdateCooperative handles PATCH /v1/cooperatives/{id}. Creator only.
func (h *OrganizationHandler) UpdateCooperative(w http.ResponseWriter, r *http.Request) {
	actorID, ok := h.actor(w, r)
	if !ok {
		return
	}
	cooperativeID, err := urlID(r, "id")
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	var req cooperativeUpdateRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, h.logger, err)
		return
	}

	update := &models.CooperativeUpdate{
		ID:          cooperativeID,
		Name:        req.Name,
		Description: req.Description,
	}
	if req.Sector != nil {
		update.Sector = utils.Ptr(models.Sector(*req.Sector))
	}

	cooperative, err := h.controller.UpdateCooperative(r.Context(), actorID, update)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, h.logger, http.StatusOK, toCooperativeView(cooperative))
}

// DeleteCooperative handles DELETE /v1/cooperatives/{id}. Creator only.
func (h *OrganizationHandler) DeleteCooperative(w http.ResponseWriter, r *http.Request) {
	actorID, ok := h.actor(w, r)
	if !ok {
		return
	}
	cooperativeID, err := urlID(r, "id")
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	if err := h.controller.DeleteCooperative(r.Context(), actorID, cooperativeID); err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, h.logger, http.StatusNoContent, nil)
}

// JoinCooperative handles POST /v1/cooperatives/{id}/join. The actor's
// current company joins; sector mismatch is a conflict.
func (h *OrganizationHandler) JoinCooperative(w http.ResponseWriter, r *http.Request) {
	actorID, ok := h.actor(w, r)
	if !ok {
		return
	}
	cooperativeID, err := urlID(r, "id")
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	if err := h.controller.JoinCooperative(r.Context(), actorID, cooperativeID); err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, h.logger, http.StatusNoContent, nil)
}

// LeaveCooperative handles POST /v1/cooperatives/{id}/leave.
func (h *OrganizationHandler) LeaveCooperative(w http.ResponseWriter, r *http.Request) {
	actorID, ok := h.actor(w, r)
	if !ok {
		return
	}
	cooperativeID, err := urlID(r, "id")
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	if err := h.controller.LeaveCooperative(r.Context(), actorID, cooperativeID); err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, h.logger, http.StatusNoContent, nil)
}
