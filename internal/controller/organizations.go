package controller

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/pymenet/pymenet/internal/authz"
	e "github.com/pymenet/pymenet/internal/errors"
	"github.com/pymenet/pymenet/internal/events"
	"github.com/pymenet/pymenet/internal/models"
	"go.uber.org/zap"
)

// OrganizationRepository defines the storage operations the organization
// service needs.
type OrganizationRepository interface {
	CreateCompany(ctx context.Context, company *models.Company) error
	GetCompany(ctx context.Context, id uuid.UUID) (*models.Company, error)
	UpdateCompany(ctx context.Context, update *models.CompanyUpdate) error
	DeleteCompany(ctx context.Context, id uuid.UUID) error
	ListCompanies(ctx context.Context) ([]models.Company, error)
	CompanyExistsByName(ctx context.Context, name string) (bool, error)
	CompanyMembers(ctx context.Context, companyID uuid.UUID) ([]models.User, error)

	CreateCooperative(ctx context.Context, cooperative *models.Cooperative) error
	GetCooperative(ctx context.Context, id uuid.UUID) (*models.Cooperative, error)
	UpdateCooperative(ctx context.Context, update *models.CooperativeUpdate) error
	DeleteCooperative(ctx context.Context, id uuid.UUID) error
	ListCooperatives(ctx context.Context) ([]models.Cooperative, error)
	CooperativeExistsByName(ctx context.Context, name string) (bool, error)
	AddCompanyToCooperative(ctx context.Context, cooperativeID, companyID uuid.UUID) error
	RemoveCompanyFromCooperative(ctx context.Context, cooperativeID, companyID uuid.UUID) error
	CooperativeHasCompany(ctx context.Context, cooperativeID, companyID uuid.UUID) (bool, error)
	CooperativesForCompany(ctx context.Context, companyID uuid.UUID) ([]models.Cooperative, error)

	GetProfile(ctx context.Context, userID uuid.UUID) (*models.Profile, error)
	SetProfileCompany(ctx context.Context, userID uuid.UUID, companyID *uuid.UUID) error
}

// OrganizationService manages companies and cooperatives: CRUD with
// creator-only mutation, and the join/leave flows built on the eligibility
// predicates.
type OrganizationService struct {
	repo     OrganizationRepository
	producer EventProducer
	logger   *zap.Logger
}

func NewOrganizationService(repo OrganizationRepository, producer EventProducer, logger *zap.Logger) *OrganizationService {
	return &OrganizationService{
		repo:     repo,
		producer: producer,
		logger:   logger.Named("organization_service"),
	}
}

func validateOrgFields(name string, sector models.Sector, description string) error {
	if name == "" || len(name) > 200 {
		return fmt.Errorf("%w: invalid name", e.ErrInvalidInput)
	}
	if !models.ValidSector(sector) {
		return fmt.Errorf("%w: unknown sector %q", e.ErrInvalidInput, sector)
	}
	if len(description) > 3000 {
		return fmt.Errorf("%w: description too long", e.ErrInvalidInput)
	}
	return nil
}

// CreateCompany validates and persists a new company and points the
// creator's profile at it. The creator becomes a member immediately, even
// if they belonged to another company before.
func (s *OrganizationService) CreateCompany(ctx context.Context, actorID uuid.UUID, company *models.Company) (*models.Company, error) {
	if err := validateOrgFields(company.Name, company.Sector, company.Description); err != nil {
		return nil, err
	}
	if len(company.AccessCode) > 20 {
		return nil, fmt.Errorf("%w: access code too long", e.ErrInvalidInput)
	}
	if company.AccessCode == "" {
		company.AccessCode = models.DefaultAccessCode
	}

	exists, err := s.repo.CompanyExistsByName(ctx, company.Name)
	if err != nil {
		return nil, fmt.Errorf("failed to check name existence: %w", err)
	}
	if exists {
		return nil, e.ErrDuplicateName
	}

	company.ID = uuid.New()
	company.CreatedByID = &actorID
	if err := s.repo.CreateCompany(ctx, company); err != nil {
		return nil, fmt.Errorf("failed to create company: %w", err)
	}

	if err := s.repo.SetProfileCompany(ctx, actorID, &company.ID); err != nil {
		s.logger.Error("failed to assign creator to company",
			zap.Error(err),
			zap.String("company_id", company.ID.String()),
		)
		return nil, err
	}

	go func() {
		s.producer.Produce(events.CompanyCreated, company.ID.String(), company)
	}()
	return company, nil
}

func (s *OrganizationService) ListCompanies(ctx context.Context) ([]models.Company, error) {
	return s.repo.ListCompanies(ctx)
}

// GetCompany returns the company with the membership context the detail
// view needs: current members, cooperatives, and the viewer's own flags.
func (s *OrganizationService) GetCompany(ctx context.Context, actorID, companyID uuid.UUID) (*models.CompanyDetail, error) {
	company, err := s.repo.GetCompany(ctx, companyID)
	if err != nil {
		return nil, err
	}
	members, err := s.repo.CompanyMembers(ctx, companyID)
	if err != nil {
		return nil, fmt.Errorf("failed to list members: %w", err)
	}
	cooperatives, err := s.repo.CooperativesForCompany(ctx, companyID)
	if err != nil {
		return nil, fmt.Errorf("failed to list cooperatives: %w", err)
	}

	profile, err := s.repo.GetProfile(ctx, actorID)
	if err != nil {
		return nil, err
	}

	isMember := profile.CompanyID != nil && *profile.CompanyID == companyID
	return &models.CompanyDetail{
		Company:      *company,
		Members:      members,
		Cooperatives: cooperatives,
		IsMember:     isMember,
		CanJoin:      profile.CompanyID == nil,
	}, nil
}

// requireCreator loads the company and rejects actors other than its
// creator.
func (s *OrganizationService) requireCreator(ctx context.Context, actorID, companyID uuid.UUID) (*models.Company, error) {
	company, err := s.repo.GetCompany(ctx, companyID)
	if err != nil {
		return nil, err
	}
	if company.CreatedByID == nil || *company.CreatedByID != actorID {
		return nil, fmt.Errorf("%w: only the creator may modify a company", e.ErrForbidden)
	}
	return company, nil
}

func (s *OrganizationService) UpdateCompany(ctx context.Context, actorID uuid.UUID, update *models.CompanyUpdate) (*models.Company, error) {
	company, err := s.requireCreator(ctx, actorID, update.ID)
	if err != nil {
		return nil, err
	}

	if update.Name != nil && *update.Name != company.Name {
		if *update.Name == "" || len(*update.Name) > 200 {
			return nil, fmt.Errorf("%w: invalid name", e.ErrInvalidInput)
		}
		exists, err := s.repo.CompanyExistsByName(ctx, *update.Name)
		if err != nil {
			return nil, fmt.Errorf("failed to check name existence: %w", err)
		}
		if exists {
			return nil, e.ErrDuplicateName
		}
	}
	if update.Sector != nil && !models.ValidSector(*update.Sector) {
		return nil, fmt.Errorf("%w: unknown sector %q", e.ErrInvalidInput, *update.Sector)
	}
	if update.AccessCode != nil && len(*update.AccessCode) > 20 {
		return nil, fmt.Errorf("%w: access code too long", e.ErrInvalidInput)
	}

	if err := s.repo.UpdateCompany(ctx, update); err != nil {
		return nil, err
	}

	updated, err := s.repo.GetCompany(ctx, update.ID)
	if err != nil {
		s.logger.Error("failed to get company for event",
			zap.Error(err),
			zap.String("company_id", update.ID.String()),
		)
		return nil, err
	}
	go func() {
		s.producer.Produce(events.CompanyUpdated, updated.ID.String(), updated)
	}()
	return updated, nil
}

func (s *OrganizationService) DeleteCompany(ctx context.Context, actorID, companyID uuid.UUID) error {
	company, err := s.requireCreator(ctx, actorID, companyID)
	if err != nil {
		return err
	}

	if err := s.repo.DeleteCompany(ctx, companyID); err != nil {
		return fmt.Errorf("failed to delete company: %w", err)
	}

	go func() {
		s.producer.Produce(events.CompanyDeleted, company.ID.String(), company)
	}()
	return nil
}

// JoinCompany admits the actor into the company when the submitted access
// code matches. A user already affiliated with any company is rejected
// without state change.
func (s *OrganizationService) JoinCompany(ctx context.Context, actorID, companyID uuid.UUID, accessCode string) error {
	profile, err := s.repo.GetProfile(ctx, actorID)
	if err != nil {
		return err
	}
	if profile.CompanyID != nil {
		return fmt.Errorf("%w: already a member of a company", e.ErrConflict)
	}

	company, err := s.repo.GetCompany(ctx, companyID)
	if err != nil {
		return err
	}
	if !authz.CanJoinCompany(company, accessCode) {
		return fmt.Errorf("%w: incorrect access code", e.ErrInvalidInput)
	}

	if err := s.repo.SetProfileCompany(ctx, actorID, &companyID); err != nil {
		return fmt.Errorf("failed to join company: %w", err)
	}

	go func() {
		s.producer.Produce(events.CompanyJoined, companyID.String(), map[string]string{
			"user_id": actorID.String(),
		})
	}()
	return nil
}

// LeaveCompany clears the actor's affiliation if it currently points at
// this company; otherwise it is a no-op.
func (s *OrganizationService) LeaveCompany(ctx context.Context, actorID, companyID uuid.UUID) error {
	profile, err := s.repo.GetProfile(ctx, actorID)
	if err != nil {
		return err
	}
	if profile.CompanyID == nil || *profile.CompanyID != companyID {
		return nil
	}

	if err := s.repo.SetProfileCompany(ctx, actorID, nil); err != nil {
		return fmt.Errorf("failed to leave company: %w", err)
	}

	go func() {
		s.producer.Produce(events.CompanyLeft, companyID.String(), map[string]string{
			"user_id": actorID.String(),
		})
	}()
	return nil
}

// CreateCooperative validates and persists a new cooperative. Unlike
// company creation it does not affiliate anyone; companies join
// explicitly.
func (s *OrganizationService) CreateCooperative(ctx context.Context, actorID uuid.UUID, cooperative *models.Cooperative) (*models.Cooperative, error) {
	if err := validateOrgFields(cooperative.Name, cooperative.Sector, cooperative.Description); err != nil {
		return nil, err
	}

	exists, err := s.repo.CooperativeExistsByName(ctx, cooperative.Name)
	if err != nil {
		return nil, fmt.Errorf("failed to check name existence: %w", err)
	}
	if exists {
		return nil, e.ErrDuplicateName
	}

	cooperative.ID = uuid.New()
	cooperative.CreatedByID = &actorID
	if err := s.repo.CreateCooperative(ctx, cooperative); err != nil {
		return nil, fmt.Errorf("failed to create cooperative: %w", err)
	}

	go func() {
		s.producer.Produce(events.CooperativeCreated, cooperative.ID.String(), cooperative)
	}()
	return cooperative, nil
}

func (s *OrganizationService) ListCooperatives(ctx context.Context) ([]models.Cooperative, error) {
	return s.repo.ListCooperatives(ctx)
}

// GetCooperative returns the cooperative with its member companies and the
// viewer's membership/eligibility flags.
func (s *OrganizationService) GetCooperative(ctx context.Context, actorID, cooperativeID uuid.UUID) (*models.CooperativeDetail, error) {
	cooperative, err := s.repo.GetCooperative(ctx, cooperativeID)
	if err != nil {
		return nil, err
	}

	profile, err := s.repo.GetProfile(ctx, actorID)
	if err != nil {
		return nil, err
	}

	isMember := false
	canJoin := false
	if profile.CompanyID != nil {
		for _, c := range cooperative.Companies {
			if c.ID == *profile.CompanyID {
				isMember = true
				break
			}
		}
		canJoin = !isMember && profile.Company != nil &&
			authz.CanJoinCooperative(cooperative, profile.Company)
	}

	return &models.CooperativeDetail{
		Cooperative: *cooperative,
		Companies:   cooperative.Companies,
		IsMember:    isMember,
		CanJoin:     canJoin,
	}, nil
}

func (s *OrganizationService) requireCooperativeCreator(ctx context.Context, actorID, cooperativeID uuid.UUID) (*models.Cooperative, error) {
	cooperative, err := s.repo.GetCooperative(ctx, cooperativeID)
	if err != nil {
		return nil, err
	}
	if cooperative.CreatedByID == nil || *cooperative.CreatedByID != actorID {
		return nil, fmt.Errorf("%w: only the creator may modify a cooperative", e.ErrForbidden)
	}
	return cooperative, nil
}

func (s *OrganizationService) UpdateCooperative(ctx context.Context, actorID uuid.UUID, update *models.CooperativeUpdate) (*models.Cooperative, error) {
	cooperative, err := s.requireCooperativeCreator(ctx, actorID, update.ID)
	if err != nil {
		return nil, err
	}

	if update.Name != nil && *update.Name != cooperative.Name {
		if *update.Name == "" || len(*update.Name) > 200 {
			return nil, fmt.Errorf("%w: invalid name", e.ErrInvalidInput)
		}
		exists, err := s.repo.CooperativeExistsByName(ctx, *update.Name)
		if err != nil {
			return nil, fmt.Errorf("failed to check name existence: %w", err)
		}
		if exists {
			return nil, e.ErrDuplicateName
		}
	}
	if update.Sector != nil && !models.ValidSector(*update.Sector) {
		return nil, fmt.Errorf("%w: unknown sector %q", e.ErrInvalidInput, *update.Sector)
	}

	if err := s.repo.UpdateCooperative(ctx, update); err != nil {
		return nil, err
	}

	updated, err := s.repo.GetCooperative(ctx, update.ID)
	if err != nil {
		return nil, err
	}
	go func() {
		s.producer.Produce(events.CooperativeUpdated, updated.ID.String(), updated)
	}()
	return updated, nil
}

func (s *OrganizationService) DeleteCooperative(ctx context.Context, actorID, cooperativeID uuid.UUID) error {
	cooperative, err := s.requireCooperativeCreator(ctx, actorID, cooperativeID)
	if err != nil {
		return err
	}

	if err := s.repo.DeleteCooperative(ctx, cooperativeID); err != nil {
		return fmt.Errorf("failed to delete cooperative: %w", err)
	}

	go func() {
		s.producer.Produce(events.CooperativeDeleted, cooperative.ID.String(), cooperative)
	}()
	return nil
}

// JoinCooperative adds the actor's company to the cooperative. The sector
// rule is enforced here, at join time only; nothing is mutated on
// rejection.
func (s *OrganizationService) JoinCooperative(ctx context.Context, actorID, cooperativeID uuid.UUID) error {
	profile, err := s.repo.GetProfile(ctx, actorID)
	if err != nil {
		return err
	}
	if profile.CompanyID == nil || profile.Company == nil {
		return fmt.Errorf("%w: must belong to a company to join a cooperative", e.ErrConflict)
	}

	cooperative, err := s.repo.GetCooperative(ctx, cooperativeID)
	if err != nil {
		return err
	}

	member, err := s.repo.CooperativeHasCompany(ctx, cooperativeID, *profile.CompanyID)
	if err != nil {
		return fmt.Errorf("failed to check membership: %w", err)
	}
	if member {
		return fmt.Errorf("%w: company already a member", e.ErrConflict)
	}

	if !authz.CanJoinCooperative(cooperative, profile.Company) {
		return fmt.Errorf("%w: company sector does not match cooperative sector", e.ErrConflict)
	}

	if err := s.repo.AddCompanyToCooperative(ctx, cooperativeID, *profile.CompanyID); err != nil {
		return fmt.Errorf("failed to join cooperative: %w", err)
	}

	go func() {
		s.producer.Produce(events.CooperativeJoined, cooperativeID.String(), map[string]string{
			"company_id": profile.CompanyID.String(),
		})
	}()
	return nil
}

// LeaveCooperative removes the actor's company from the cooperative if it
// is currently a member; otherwise it is a no-op.
func (s *OrganizationService) LeaveCooperative(ctx context.Context, actorID, cooperativeID uuid.UUID) error {
	profile, err := s.repo.GetProfile(ctx, actorID)
	if err != nil {
		return err
	}
	if profile.CompanyID == nil {
		return nil
	}

	member, err := s.repo.CooperativeHasCompany(ctx, cooperativeID, *profile.CompanyID)
	if err != nil {
		return fmt.Errorf("failed to check membership: %w", err)
	}
	if !member {
		return nil
	}

	if err := s.repo.RemoveCompanyFromCooperative(ctx, cooperativeID, *profile.CompanyID); err != nil {
		return fmt.Errorf("failed to leave cooperative: %w", err)
	}

	go func() {
		s.producer.Produce(events.CooperativeLeft, cooperativeID.String(), map[string]string{
			"company_id": profile.CompanyID.String(),
		})
	}()
	return nil
}
