package http

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/spec-kit/crowdfund-service/internal/api/http/handlers"
	"github.com/spec-kit/crowdfund-service/internal/auth"
	"github.com/spec-kit/crowdfund-service/internal/config"
	"github.com/spec-kit/crowdfund-service/internal/domain"
	"github.com/spec-kit/crowdfund-service/internal/observability"
	"github.com/spec-kit/crowdfund-service/internal/repository"
	"github.com/spec-kit/crowdfund-service/internal/service"
)

type fakeUserRepo struct {
	byEmail map[string]*domain.User
	byID    map[string]*domain.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{byEmail: map[string]*domain.User{}, byID: map[string]*domain.User{}}
}

func (r *fakeUserRepo) Create(_ context.Context, user *domain.User) error {
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt
	r.byEmail[user.Email] = user
	r.byID[user.ID] = user
	return nil
}

func (r *fakeUserRepo) Update(_ context.Context, user *domain.User) error {
	if _, ok := r.byID[user.ID]; !ok {
		return pgx.ErrNoRows
	}
	r.byEmail[user.Email] = user
	r.byID[user.ID] = user
	return nil
}

func (r *fakeUserRepo) GetByID(_ context.Context, id string) (*domain.User, error) {
	user, ok := r.byID[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return user, nil
}

func (r *fakeUserRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	user, ok := r.byEmail[email]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return user, nil
}

type fakeCampaignRepo struct {
	campaigns     map[string]*domain.Campaign
	contributions []*domain.Contribution
}

func newFakeCampaignRepo() *fakeCampaignRepo {
	return &fakeCampaignRepo{campaigns: map[string]*domain.Campaign{}}
}

func (r *fakeCampaignRepo) Create(_ context.Context, campaign *domain.Campaign) error {
	campaign.CreatedAt = time.Now()
	campaign.UpdatedAt = campaign.CreatedAt
	copied := *campaign
	r.campaigns[campaign.ID] = &copied
	return nil
}

func (r *fakeCampaignRepo) Update(_ context.Context, campaign *domain.Campaign) error {
	if _, ok := r.campaigns[campaign.ID]; !ok {
		return pgx.ErrNoRows
	}
	copied := *campaign
	r.campaigns[campaign.ID] = &copied
	return nil
}

func (r *fakeCampaignRepo) GetByID(_ context.Context, id string) (*domain.Campaign, error) {
	campaign, ok := r.campaigns[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := *campaign
	return &copied, nil
}

func (r *fakeCampaignRepo) List(_ context.Context) ([]*domain.Campaign, error) {
	out := make([]*domain.Campaign, 0, len(r.campaigns))
	for _, campaign := range r.campaigns {
		copied := *campaign
		out = append(out, &copied)
	}
	return out, nil
}

func (r *fakeCampaignRepo) AddContribution(_ context.Context, contribution *domain.Contribution) error {
	contribution.CreatedAt = time.Now()
	r.contributions = append(r.contributions, contribution)
	return nil
}

var (
	_ repository.UserRepository     = (*fakeUserRepo)(nil)
	_ repository.CampaignRepository = (*fakeCampaignRepo)(nil)
)

type testEnv struct {
	app   *fiber.App
	users *fakeUserRepo
}

func newTestApp(t *testing.T) *testEnv {
	t.Helper()

	store := auth.NewMemorySessionStore(time.Hour)
	t.Cleanup(store.Stop)
	tokenManager := auth.NewTokenManager("test-secret", time.Hour)
	sessionManager := auth.NewSessionManager(tokenManager, store, time.Minute)

	users := newFakeUserRepo()
	campaigns := newFakeCampaignRepo()
	authCfg := config.AuthConfig{BcryptCost: bcrypt.MinCost}
	authService := service.NewAuthService(authCfg, users, sessionManager, nil)
	campaignService := service.NewCampaignService(campaigns, nil)

	logger := zap.NewNop()
	metrics := observability.NewMetrics()

	app := fiber.New()
	RegisterMiddlewares(app, logger, metrics, 0)
	RegisterRoutes(app, RouteConfig{
		Health:         handlers.NewHealthHandler("test", "dev", nil, nil),
		Auth:           handlers.NewAuthHandler(authService),
		Users:          handlers.NewUsersHandler(authService),
		Campaigns:      handlers.NewCampaignsHandler(campaignService),
		AuthMiddleware: auth.NewAuthMiddleware(sessionManager),
	})

	return &testEnv{app: app, users: users}
}

func (e *testEnv) seedAdmin(t *testing.T, email, password string) *domain.User {
	t.Helper()
	hash, err := auth.HashPassword(password, bcrypt.MinCost)
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	admin := &domain.User{
		ID:           uuid.NewString(),
		Name:         "Admin",
		Email:        email,
		PasswordHash: hash,
		Role:         domain.RoleAdmin,
	}
	if err := e.users.Create(context.Background(), admin); err != nil {
		t.Fatalf("seed admin: %v", err)
	}
	return admin
}

func (e *testEnv) do(t *testing.T, method, path, token string, body any) *http.Response {
	t.Helper()

	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(encoded)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := e.app.Test(req, 5000)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	return resp
}

func decodeBody(t *testing.T, resp *http.Response, out any) {
	t.Helper()
	defer resp.Body.Close()
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		t.Fatalf("decode body: %v", err)
	}
}

func errorCode(t *testing.T, resp *http.Response) string {
	t.Helper()
	var body struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	decodeBody(t, resp, &body)
	return body.Error.Code
}

func (e *testEnv) register(t *testing.T, name, email, password string) string {
	t.Helper()
	resp := e.do(t, http.MethodPost, "/auth/register", "", fiber.Map{
		"name": name, "email": email, "password": password,
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("register status = %d, want 201", resp.StatusCode)
	}
	var body struct {
		Data struct {
			User struct {
				ID string `json:"id"`
			} `json:"user"`
		} `json:"data"`
	}
	decodeBody(t, resp, &body)
	return body.Data.User.ID
}

func (e *testEnv) login(t *testing.T, email, password string) string {
	t.Helper()
	resp := e.do(t, http.MethodPost, "/auth/login", "", fiber.Map{
		"email": email, "password": password,
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("login status = %d, want 200", resp.StatusCode)
	}
	var body struct {
		AccessToken string `json:"accessToken"`
		User        struct {
			ID    string `json:"id"`
			Email string `json:"email"`
			Role  string `json:"role"`
		} `json:"user"`
	}
	decodeBody(t, resp, &body)
	if body.AccessToken == "" {
		t.Fatal("login returned empty access token")
	}
	if body.User.Email != email {
		t.Fatalf("login user email = %q, want %q", body.User.Email, email)
	}
	return body.AccessToken
}

func TestLoginAndRoleGates(t *testing.T) {
	env := newTestApp(t)
	userID := env.register(t, "Ada", "a@x.com", "secret1")
	token := env.login(t, "a@x.com", "secret1")

	// protected USER route with a valid token passes
	resp := env.do(t, http.MethodPost, "/campaigns", token, fiber.Map{
		"title": "Clean water", "goalAmount": 100, "type": "DONATION", "category": "HEALTH",
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create campaign status = %d, want 201", resp.StatusCode)
	}

	// ADMIN-only route with a USER token is forbidden
	resp = env.do(t, http.MethodGet, "/admin/users/"+userID, token, nil)
	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("admin route status = %d, want 403", resp.StatusCode)
	}
	if code := errorCode(t, resp); code != "FORBIDDEN" {
		t.Fatalf("code = %q, want FORBIDDEN", code)
	}

	// garbage bearer token
	resp = env.do(t, http.MethodPost, "/campaigns", "garbage", fiber.Map{"title": "x"})
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("garbage token status = %d, want 401", resp.StatusCode)
	}
	if code := errorCode(t, resp); code != "TOKEN_MALFORMED" {
		t.Fatalf("code = %q, want TOKEN_MALFORMED", code)
	}

	// no header at all
	resp = env.do(t, http.MethodPost, "/campaigns", "", fiber.Map{"title": "x"})
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("missing token status = %d, want 401", resp.StatusCode)
	}
	if code := errorCode(t, resp); code != "TOKEN_MISSING" {
		t.Fatalf("code = %q, want TOKEN_MISSING", code)
	}

	// an admin token passes the ADMIN gate
	env.seedAdmin(t, "root@x.com", "admin123")
	adminToken := env.login(t, "root@x.com", "admin123")
	resp = env.do(t, http.MethodGet, "/admin/users/"+userID, adminToken, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("admin lookup status = %d, want 200", resp.StatusCode)
	}
}

func TestLoginInvalidCredentialsHTTP(t *testing.T) {
	env := newTestApp(t)
	env.register(t, "Ada", "a@x.com", "secret1")

	for _, creds := range []fiber.Map{
		{"email": "a@x.com", "password": "wrong"},
		{"email": "nobody@x.com", "password": "secret1"},
	} {
		resp := env.do(t, http.MethodPost, "/auth/login", "", creds)
		if resp.StatusCode != http.StatusUnauthorized {
			t.Fatalf("login status = %d, want 401", resp.StatusCode)
		}
		if code := errorCode(t, resp); code != "INVALID_CREDENTIALS" {
			t.Fatalf("code = %q, want INVALID_CREDENTIALS", code)
		}
	}
}

func TestSingleActiveSessionHTTP(t *testing.T) {
	env := newTestApp(t)
	env.register(t, "Ada", "a@x.com", "secret1")

	first := env.login(t, "a@x.com", "secret1")
	second := env.login(t, "a@x.com", "secret1")
	if first == second {
		t.Fatal("expected distinct tokens per login")
	}

	resp := env.do(t, http.MethodPost, "/campaigns", first, fiber.Map{
		"title": "x", "goalAmount": 1, "type": "DONATION",
	})
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("superseded token status = %d, want 401", resp.StatusCode)
	}
	if code := errorCode(t, resp); code != "TOKEN_REVOKED" {
		t.Fatalf("code = %q, want TOKEN_REVOKED", code)
	}

	resp = env.do(t, http.MethodPost, "/campaigns", second, fiber.Map{
		"title": "x", "goalAmount": 1, "type": "DONATION",
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("latest token status = %d, want 201", resp.StatusCode)
	}
}

func TestLogoutHTTP(t *testing.T) {
	env := newTestApp(t)
	env.register(t, "Ada", "a@x.com", "secret1")
	token := env.login(t, "a@x.com", "secret1")

	resp := env.do(t, http.MethodPost, "/auth/logout", token, nil)
	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("logout status = %d, want 204", resp.StatusCode)
	}

	resp = env.do(t, http.MethodPost, "/campaigns", token, fiber.Map{
		"title": "x", "goalAmount": 1, "type": "DONATION",
	})
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("post-logout status = %d, want 401", resp.StatusCode)
	}
	if code := errorCode(t, resp); code != "TOKEN_REVOKED" {
		t.Fatalf("code = %q, want TOKEN_REVOKED", code)
	}
}

func TestCampaignLifecycleHTTP(t *testing.T) {
	env := newTestApp(t)
	env.register(t, "Ada", "a@x.com", "secret1")
	token := env.login(t, "a@x.com", "secret1")

	resp := env.do(t, http.MethodPost, "/campaigns", token, fiber.Map{
		"title": "Clean water", "goalAmount": 100, "type": "DONATION", "category": "HEALTH",
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create status = %d, want 201", resp.StatusCode)
	}
	var created struct {
		Data struct {
			ID string `json:"id"`
		} `json:"data"`
	}
	decodeBody(t, resp, &created)

	// reaching the goal closes a donation campaign
	resp = env.do(t, http.MethodPost, "/campaigns/"+created.Data.ID+"/contributions", token, fiber.Map{"amount": 100})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("contribute status = %d, want 201", resp.StatusCode)
	}
	var contributed struct {
		Data struct {
			Status string `json:"status"`
		} `json:"data"`
	}
	decodeBody(t, resp, &contributed)
	if contributed.Data.Status != "CLOSED" {
		t.Fatalf("status after funding = %q, want CLOSED", contributed.Data.Status)
	}

	resp = env.do(t, http.MethodPost, "/campaigns/"+created.Data.ID+"/contributions", token, fiber.Map{"amount": 10})
	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("contribute to closed status = %d, want 409", resp.StatusCode)
	}

	// public reads require no token
	resp = env.do(t, http.MethodGet, "/campaigns", "", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("list status = %d, want 200", resp.StatusCode)
	}
	resp = env.do(t, http.MethodGet, "/campaigns/"+created.Data.ID, "", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("get status = %d, want 200", resp.StatusCode)
	}
}
