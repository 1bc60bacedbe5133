package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/pymenet/pymenet/internal/auth"
	"github.com/pymenet/pymenet/internal/models"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

const testSecret = "test-secret"

type mockAccountController struct {
	register      func(context.Context, string, string, string) (*models.User, *models.Profile, error)
	authenticate  func(context.Context, string, string) (*models.User, error)
	getProfile    func(context.Context, uuid.UUID) (*models.Profile, error)
	updateProfile func(context.Context, *models.ProfileUpdate) (*models.Profile, error)
	listUsers     func(context.Context) ([]models.User, error)
	dashboard     func(context.Context, uuid.UUID) (*models.DashboardStats, error)
}

func (m *mockAccountController) Register(ctx context.Context, username, email, password string) (*models.User, *models.Profile, error) {
	return m.register(ctx, username, email, password)
}

func (m *mockAccountController) Authenticate(ctx context.Context, username, password string) (*models.User, error) {
	return m.authenticate(ctx, username, password)
}

func (m *mockAccountController) GetProfile(ctx context.Context, userID uuid.UUID) (*models.Profile, error) {
	return m.getProfile(ctx, userID)
}

func (m *mockAccountController) UpdateProfile(ctx context.Context, update *models.ProfileUpdate) (*models.Profile, error) {
	return m.updateProfile(ctx, update)
}

func (m *mockAccountController) ListUsers(ctx context.Context) ([]models.User, error) {
	return m.listUsers(ctx)
}

func (m *mockAccountController) Dashboard(ctx context.Context, userID uuid.UUID) (*models.DashboardStats, error) {
	return m.dashboard(ctx, userID)
}

type mockOrgController struct {
	createCompany func(context.Context, uuid.UUID, *models.Company) (*models.Company, error)
	listCompanies func(context.Context) ([]models.Company, error)
	getCompany    func(context.Context, uuid.UUID, uuid.UUID) (*models.CompanyDetail, error)
	updateCompany func(context.Context, uuid.UUID, *models.CompanyUpdate) (*models.Company, error)
	deleteCompany func(context.Context, uuid.UUID, uuid.UUID) error
	joinCompany   func(context.Context, uuid.UUID, uuid.UUID, string) error
	leaveCompany  func(context.Context, uuid.UUID, uuid.UUID) error

	createCooperative func(context.Context, uuid.UUID, *models.Cooperative) (*models.Cooperative, error)
	listCooperatives  func(context.Context) ([]models.Cooperative, error)
	getCooperative    func(context.Context, uuid.UUID, uuid.UUID) (*models.CooperativeDetail, error)
	updateCooperative func(context.Context, uuid.UUID, *models.CooperativeUpdate) (*models.Cooperative, error)
	deleteCooperative func(context.Context, uuid.UUID, uuid.UUID) error
	joinCooperative   func(context.Context, uuid.UUID, uuid.UUID) error
	leaveCooperative  func(context.Context, uuid.UUID, uuid.UUID) error
}

func (m *mockOrgController) CreateCompany(ctx context.Context, actorID uuid.UUID, c *models.Company) (*models.Company, error) {
	return m.createCompany(ctx, actorID, c)
}

func (m *mockOrgController) ListCompanies(ctx context.Context) ([]models.Company, error) {
	return m.listCompanies(ctx)
}

func (m *mockOrgController) GetCompany(ctx context.Context, actorID, companyID uuid.UUID) (*models.CompanyDetail, error) {
	return m.getCompany(ctx, actorID, companyID)
}

func (m *mockOrgController) UpdateCompany(ctx context.Context, actorID uuid.UUID, u *models.CompanyUpdate) (*models.Company, error) {
	return m.updateCompany(ctx, actorID, u)
}

func (m *mockOrgController) DeleteCompany(ctx context.Context, actorID, companyID uuid.UUID) error {
	return m.deleteCompany(ctx, actorID, companyID)
}

func (m *mockOrgController) JoinCompany(ctx context.Context, actorID, companyID uuid.UUID, accessCode string) error {
	return m.joinCompany(ctx, actorID, companyID, accessCode)
}

func (m *mockOrgController) LeaveCompany(ctx context.Context, actorID, companyID uuid.UUID) error {
	return m.leaveCompany(ctx, actorID, companyID)
}

func (m *mockOrgController) CreateCooperative(ctx context.Context, actorID uuid.UUID, c *models.Cooperative) (*models.Cooperative, error) {
	return m.createCooperative(ctx, actorID, c)
}

func (m *mockOrgController) ListCooperatives(ctx context.Context) ([]models.Cooperative, error) {
	return m.listCooperatives(ctx)
}

func (m *mockOrgController) GetCooperative(ctx context.Context, actorID, cooperativeID uuid.UUID) (*models.CooperativeDetail, error) {
	return m.getCooperative(ctx, actorID, cooperativeID)
}

func (m *mockOrgController) UpdateCooperative(ctx context.Context, actorID uuid.UUID, u *models.CooperativeUpdate) (*models.Cooperative, error) {
	return m.updateCooperative(ctx, actorID, u)
}

func (m *mockOrgController) DeleteCooperative(ctx context.Context, actorID, cooperativeID uuid.UUID) error {
	return m.deleteCooperative(ctx, actorID, cooperativeID)
}

func (m *mockOrgController) JoinCooperative(ctx context.Context, actorID, cooperativeID uuid.UUID) error {
	return m.joinCooperative(ctx, actorID, cooperativeID)
}

func (m *mockOrgController) LeaveCooperative(ctx context.Context, actorID, cooperativeID uuid.UUID) error {
	return m.leaveCooperative(ctx, actorID, cooperativeID)
}

type mockMessagingController struct {
	listChats              func(context.Context, uuid.UUID) ([]models.ChatSummary, error)
	getChat                func(context.Context, uuid.UUID, uuid.UUID) (*models.ChatDetail, error)
	listMessages           func(context.Context, uuid.UUID, uuid.UUID) ([]models.Message, error)
	postMessage            func(context.Context, uuid.UUID, uuid.UUID, string) (*models.Message, error)
	resolveDirectChat      func(context.Context, uuid.UUID, uuid.UUID) (*models.Chat, error)
	resolveCompanyChat     func(context.Context, uuid.UUID, uuid.UUID) (*models.Chat, error)
	resolveCooperativeChat func(context.Context, uuid.UUID, uuid.UUID) (*models.Chat, error)
}

func (m *mockMessagingController) ListChats(ctx context.Context, actorID uuid.UUID) ([]models.ChatSummary, error) {
	return m.listChats(ctx, actorID)
}

func (m *mockMessagingController) GetChat(ctx context.Context, actorID, chatID uuid.UUID) (*models.ChatDetail, error) {
	return m.getChat(ctx, actorID, chatID)
}

func (m *mockMessagingController) ListMessages(ctx context.Context, actorID, chatID uuid.UUID) ([]models.Message, error) {
	return m.listMessages(ctx, actorID, chatID)
}

func (m *mockMessagingController) PostMessage(ctx context.Context, actorID, chatID uuid.UUID, content string) (*models.Message, error) {
	return m.postMessage(ctx, actorID, chatID, content)
}

func (m *mockMessagingController) ResolveDirectChat(ctx context.Context, actorID, otherID uuid.UUID) (*models.Chat, error) {
	return m.resolveDirectChat(ctx, actorID, otherID)
}

func (m *mockMessagingController) ResolveCompanyChat(ctx context.Context, actorID, companyID uuid.UUID) (*models.Chat, error) {
	return m.resolveCompanyChat(ctx, actorID, companyID)
}

func (m *mockMessagingController) ResolveCooperativeChat(ctx context.Context, actorID, cooperativeID uuid.UUID) (*models.Chat, error) {
	return m.resolveCooperativeChat(ctx, actorID, cooperativeID)
}

// newTestRouter wires the mock controllers behind the real router and auth
// middleware.
func newTestRouter(t *testing.T, accounts AccountController, organizations OrganizationController, messaging MessagingController) http.Handler {
	t.Helper()
	logger := zaptest.NewLogger(t)
	if accounts == nil {
		accounts = &mockAccountController{}
	}
	if organizations == nil {
		organizations = &mockOrgController{}
	}
	if messaging == nil {
		messaging = &mockMessagingController{}
	}
	return NewRouter(
		NewAccountHandler(accounts, testSecret, logger),
		NewOrganizationHandler(organizations, logger),
		NewMessagingHandler(messaging, logger),
		testSecret,
		logger,
	)
}

// doRequest performs a request against the router, optionally authenticated
// as the given user.
func doRequest(t *testing.T, router http.Handler, method, path string, asUser *uuid.UUID, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, path, &buf)
	if asUser != nil {
		token, err := auth.GenerateToken(*asUser, testSecret)
		require.NoError(t, err)
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}
