package controller

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/pymenet/pymenet/internal/events"
	"github.com/pymenet/pymenet/internal/models"
)

// MockProducer is a test double for the Kafka producer.
type MockProducer struct {
	mu       sync.Mutex
	produced []events.EventType
}

func (m *MockProducer) Produce(eventType events.EventType, _ string, _ interface{}) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.produced = append(m.produced, eventType)
}

// MockAccountRepository implements AccountRepository with function fields.
type MockAccountRepository struct {
	createUserWithProfile func(context.Context, *models.User, *models.Profile) error
	getUser               func(context.Context, uuid.UUID) (*models.User, error)
	getUserByUsername     func(context.Context, string) (*models.User, error)
	userExistsByUsername  func(context.Context, string) (bool, error)
	listUsers             func(context.Context) ([]models.User, error)
	getProfile            func(context.Context, uuid.UUID) (*models.Profile, error)
	updateProfile         func(context.Context, *models.ProfileUpdate) error
	countCompanies        func(context.Context) (int64, error)
	countCooperatives     func(context.Context) (int64, error)
	countUserChats        func(context.Context, uuid.UUID) (int64, error)
}

func (m *MockAccountRepository) CreateUserWithProfile(ctx context.Context, u *models.User, p *models.Profile) error {
	return m.createUserWithProfile(ctx, u, p)
}

func (m *MockAccountRepository) GetUser(ctx context.Context, id uuid.UUID) (*models.User, error) {
	return m.getUser(ctx, id)
}

func (m *MockAccountRepository) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	return m.getUserByUsername(ctx, username)
}

func (m *MockAccountRepository) UserExistsByUsername(ctx context.Context, username string) (bool, error) {
	return m.userExistsByUsername(ctx, username)
}

func (m *MockAccountRepository) ListUsers(ctx context.Context) ([]models.User, error) {
	return m.listUsers(ctx)
}

func (m *MockAccountRepository) GetProfile(ctx context.Context, userID uuid.UUID) (*models.Profile, error) {
	return m.getProfile(ctx, userID)
}

func (m *MockAccountRepository) UpdateProfile(ctx context.Context, u *models.ProfileUpdate) error {
	return m.updateProfile(ctx, u)
}

func (m *MockAccountRepository) CountCompanies(ctx context.Context) (int64, error) {
	return m.countCompanies(ctx)
}

func (m *MockAccountRepository) CountCooperatives(ctx context.Context) (int64, error) {
	return m.countCooperatives(ctx)
}

func (m *MockAccountRepository) CountUserChats(ctx context.Context, userID uuid.UUID) (int64, error) {
	return m.countUserChats(ctx, userID)
}

// MockOrgRepository implements OrganizationRepository with function fields.
type MockOrgRepository struct {
	createCompany       func(context.Context, *models.Company) error
	getCompany          func(context.Context, uuid.UUID) (*models.Company, error)
	updateCompany       func(context.Context, *models.CompanyUpdate) error
	deleteCompany       func(context.Context, uuid.UUID) error
	listCompanies       func(context.Context) ([]models.Company, error)
	companyExistsByName func(context.Context, string) (bool, error)
	companyMembers      func(context.Context, uuid.UUID) ([]models.User, error)

	createCooperative            func(context.Context, *models.Cooperative) error
	getCooperative               func(context.Context, uuid.UUID) (*models.Cooperative, error)
	updateCooperative            func(context.Context, *models.CooperativeUpdate) error
	deleteCooperative            func(context.Context, uuid.UUID) error
	listCooperatives             func(context.Context) ([]models.Cooperative, error)
	cooperativeExistsByName      func(context.Context, string) (bool, error)
	addCompanyToCooperative      func(context.Context, uuid.UUID, uuid.UUID) error
	removeCompanyFromCooperative func(context.Context, uuid.UUID, uuid.UUID) error
	cooperativeHasCompany        func(context.Context, uuid.UUID, uuid.UUID) (bool, error)
	cooperativesForCompany       func(context.Context, uuid.UUID) ([]models.Cooperative, error)

	getProfile        func(context.Context, uuid.UUID) (*models.Profile, error)
	setProfileCompany func(context.Context, uuid.UUID, *uuid.UUID) error
}

func (m *MockOrgRepository) CreateCompany(ctx context.Context, c *models.Company) error {
	return m.createCompany(ctx, c)
}

func (m *MockOrgRepository) GetCompany(ctx context.Context, id uuid.UUID) (*models.Company, error) {
	return m.getCompany(ctx, id)
}

func (m *MockOrgRepository) UpdateCompany(ctx context.Context, u *models.CompanyUpdate) error {
	return m.updateCompany(ctx, u)
}

func (m *MockOrgRepository) DeleteCompany(ctx context.Context, id uuid.UUID) error {
	return m.deleteCompany(ctx, id)
}

func (m *MockOrgRepository) ListCompanies(ctx context.Context) ([]models.Company, error) {
	return m.listCompanies(ctx)
}

func (m *MockOrgRepository) CompanyExistsByName(ctx context.Context, name string) (bool, error) {
	return m.companyExistsByName(ctx, name)
}

func (m *MockOrgRepository) CompanyMembers(ctx context.Context, id uuid.UUID) ([]models.User, error) {
	return m.companyMembers(ctx, id)
}

func (m *MockOrgRepository) CreateCooperative(ctx context.Context, c *models.Cooperative) error {
	return m.createCooperative(ctx, c)
}

func (m *MockOrgRepository) GetCooperative(ctx context.Context, id uuid.UUID) (*models.Cooperative, error) {
	return m.getCooperative(ctx, id)
}

func (m *MockOrgRepository) UpdateCooperative(ctx context.Context, u *models.CooperativeUpdate) error {
	return m.updateCooperative(ctx, u)
}

func (m *MockOrgRepository) DeleteCooperative(ctx context.Context, id uuid.UUID) error {
	return m.deleteCooperative(ctx, id)
}

func (m *MockOrgRepository) ListCooperatives(ctx context.Context) ([]models.Cooperative, error) {
	return m.listCooperatives(ctx)
}

func (m *MockOrgRepository) CooperativeExistsByName(ctx context.Context, name string) (bool, error) {
	return m.cooperativeExistsByName(ctx, name)
}

func (m *MockOrgRepository) AddCompanyToCooperative(ctx context.Context, coopID, companyID uuid.UUID) error {
	return m.addCompanyToCooperative(ctx, coopID, companyID)
}

func (m *MockOrgRepository) RemoveCompanyFromCooperative(ctx context.Context, coopID, companyID uuid.UUID) error {
	return m.removeCompanyFromCooperative(ctx, coopID, companyID)
}

func (m *MockOrgRepository) CooperativeHasCompany(ctx context.Context, coopID, companyID uuid.UUID) (bool, error) {
	return m.cooperativeHasCompany(ctx, coopID, companyID)
}

func (m *MockOrgRepository) CooperativesForCompany(ctx context.Context, companyID uuid.UUID) ([]models.Cooperative, error) {
	return m.cooperativesForCompany(ctx, companyID)
}

func (m *MockOrgRepository) GetProfile(ctx context.Context, userID uuid.UUID) (*models.Profile, error) {
	return m.getProfile(ctx, userID)
}

func (m *MockOrgRepository) SetProfileCompany(ctx context.Context, userID uuid.UUID, companyID *uuid.UUID) error {
	return m.setProfileCompany(ctx, userID, companyID)
}

// MockMessagingRepository implements MessagingRepository with function
// fields.
type MockMessagingRepository struct {
	createChat            func(context.Context, *models.Chat) error
	getChat               func(context.Context, uuid.UUID) (*models.Chat, error)
	findDirectChat        func(context.Context, uuid.UUID, uuid.UUID) (*models.Chat, error)
	findCompanyChat       func(context.Context, uuid.UUID) (*models.Chat, error)
	findCooperativeChat   func(context.Context, uuid.UUID) (*models.Chat, error)
	listVisibleChats      func(context.Context, uuid.UUID, *uuid.UUID) ([]models.ChatSummary, error)
	createMessage         func(context.Context, *models.Message) error
	listMessages          func(context.Context, uuid.UUID) ([]models.Message, error)
	getUser               func(context.Context, uuid.UUID) (*models.User, error)
	getProfile            func(context.Context, uuid.UUID) (*models.Profile, error)
	getCompany            func(context.Context, uuid.UUID) (*models.Company, error)
	getCooperative        func(context.Context, uuid.UUID) (*models.Cooperative, error)
	cooperativeHasCompany func(context.Context, uuid.UUID, uuid.UUID) (bool, error)
	usersInCompany        func(context.Context, uuid.UUID) ([]models.User, error)
	usersInCooperative    func(context.Context, uuid.UUID) ([]models.User, error)
}

func (m *MockMessagingRepository) CreateChat(ctx context.Context, c *models.Chat) error {
	return m.createChat(ctx, c)
}

func (m *MockMessagingRepository) GetChat(ctx context.Context, id uuid.UUID) (*models.Chat, error) {
	return m.getChat(ctx, id)
}

func (m *MockMessagingRepository) FindDirectChat(ctx context.Context, a, b uuid.UUID) (*models.Chat, error) {
	return m.findDirectChat(ctx, a, b)
}

func (m *MockMessagingRepository) FindCompanyChat(ctx context.Context, id uuid.UUID) (*models.Chat, error) {
	return m.findCompanyChat(ctx, id)
}

func (m *MockMessagingRepository) FindCooperativeChat(ctx context.Context, id uuid.UUID) (*models.Chat, error) {
	return m.findCooperativeChat(ctx, id)
}

func (m *MockMessagingRepository) ListVisibleChats(ctx context.Context, userID uuid.UUID, companyID *uuid.UUID) ([]models.ChatSummary, error) {
	return m.listVisibleChats(ctx, userID, companyID)
}

func (m *MockMessagingRepository) CreateMessage(ctx context.Context, msg *models.Message) error {
	return m.createMessage(ctx, msg)
}

func (m *MockMessagingRepository) ListMessages(ctx context.Context, chatID uuid.UUID) ([]models.Message, error) {
	return m.listMessages(ctx, chatID)
}

func (m *MockMessagingRepository) GetUser(ctx context.Context, id uuid.UUID) (*models.User, error) {
	return m.getUser(ctx, id)
}

func (m *MockMessagingRepository) GetProfile(ctx context.Context, userID uuid.UUID) (*models.Profile, error) {
	return m.getProfile(ctx, userID)
}

func (m *MockMessagingRepository) GetCompany(ctx context.Context, id uuid.UUID) (*models.Company, error) {
	return m.getCompany(ctx, id)
}

func (m *MockMessagingRepository) GetCooperative(ctx context.Context, id uuid.UUID) (*models.Cooperative, error) {
	return m.getCooperative(ctx, id)
}

func (m *MockMessagingRepository) CooperativeHasCompany(ctx context.Context, coopID, companyID uuid.UUID) (bool, error) {
	return m.cooperativeHasCompany(ctx, coopID, companyID)
}

func (m *MockMessagingRepository) UsersInCompany(ctx context.Context, companyID uuid.UUID) ([]models.User, error) {
	return m.usersInCompany(ctx, companyID)
}

func (m *MockMessagingRepository) UsersInCooperative(ctx context.Context, cooperativeID uuid.UUID) ([]models.User, error) {
	return m.usersInCooperative(ctx, cooperativeID)
}
