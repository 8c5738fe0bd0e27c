package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/spec-kit/crowdfund-service/internal/auth"
	"github.com/spec-kit/crowdfund-service/internal/config"
	"github.com/spec-kit/crowdfund-service/internal/domain"
	"github.com/spec-kit/crowdfund-service/internal/events"
	apperrors "github.com/spec-kit/crowdfund-service/pkg/util"
)

type fakeUserRepo struct {
	byEmail map[string]*domain.User
	byID    map[string]*domain.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{
		byEmail: make(map[string]*domain.User),
		byID:    make(map[string]*domain.User),
	}
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

type fakeDispatcher struct {
	published []events.Event
}

func (d *fakeDispatcher) Publish(_ context.Context, event events.Event) error {
	d.published = append(d.published, event)
	return nil
}

func (d *fakeDispatcher) Subscribe(events.EventType, events.EventHandler) {}

func (d *fakeDispatcher) eventsOfType(eventType events.EventType) []events.Event {
	var out []events.Event
	for _, event := range d.published {
		if event.Type == eventType {
			out = append(out, event)
		}
	}
	return out
}

func newTestAuthService(t *testing.T) (*AuthService, *fakeUserRepo, *auth.SessionManager, *fakeDispatcher) {
	t.Helper()
	store := auth.NewMemorySessionStore(time.Hour)
	t.Cleanup(store.Stop)
	sessions := auth.NewSessionManager(auth.NewTokenManager("test-secret", time.Hour), store, time.Minute)

	users := newFakeUserRepo()
	dispatcher := &fakeDispatcher{}
	cfg := config.AuthConfig{BcryptCost: bcrypt.MinCost}
	return NewAuthService(cfg, users, sessions, dispatcher), users, sessions, dispatcher
}

func domainErrCode(t *testing.T, err error) string {
	t.Helper()
	var de *apperrors.DomainError
	if !errors.As(err, &de) {
		t.Fatalf("error %v is not a DomainError", err)
	}
	return de.Code
}

func TestRegister(t *testing.T) {
	ctx := context.Background()
	svc, _, _, dispatcher := newTestAuthService(t)

	user, err := svc.Register(ctx, " Ada ", "Ada@X.com", "secret1")
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if user.Email != "ada@x.com" {
		t.Errorf("email = %q, want normalized ada@x.com", user.Email)
	}
	if user.Name != "Ada" {
		t.Errorf("name = %q, want trimmed Ada", user.Name)
	}
	if user.Role != domain.RoleUser {
		t.Errorf("role = %q, want USER", user.Role)
	}
	if user.PasswordHash == "secret1" || user.PasswordHash == "" {
		t.Error("password stored unhashed")
	}
	if err := auth.ComparePassword(user.PasswordHash, "secret1"); err != nil {
		t.Errorf("stored hash does not verify: %v", err)
	}
	if got := dispatcher.eventsOfType(events.EventUserRegistered); len(got) != 1 {
		t.Errorf("user_registered events = %d, want 1", len(got))
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	ctx := context.Background()
	svc, _, _, _ := newTestAuthService(t)

	if _, err := svc.Register(ctx, "Ada", "a@x.com", "secret1"); err != nil {
		t.Fatalf("Register: %v", err)
	}
	_, err := svc.Register(ctx, "Eve", "a@x.com", "secret2")
	if code := domainErrCode(t, err); code != "CONFLICT" {
		t.Fatalf("duplicate register code = %q, want CONFLICT", code)
	}
}

func TestLogin(t *testing.T) {
	ctx := context.Background()
	svc, _, sessions, _ := newTestAuthService(t)

	if _, err := svc.Register(ctx, "Ada", "a@x.com", "secret1"); err != nil {
		t.Fatalf("Register: %v", err)
	}

	user, token, expiresAt, err := svc.Login(ctx, "a@x.com", "secret1")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if token == "" || !expiresAt.After(time.Now()) {
		t.Fatalf("token = %q, expiresAt = %v", token, expiresAt)
	}

	claims, err := sessions.VerifyToken(ctx, token)
	if err != nil {
		t.Fatalf("issued token does not verify: %v", err)
	}
	if claims.Subject != user.ID || claims.Email != user.Email || claims.Role != user.Role {
		t.Fatalf("claims = %+v do not match user %+v", claims, user)
	}
}

func TestLoginInvalidCredentials(t *testing.T) {
	ctx := context.Background()
	svc, _, _, _ := newTestAuthService(t)

	if _, err := svc.Register(ctx, "Ada", "a@x.com", "secret1"); err != nil {
		t.Fatalf("Register: %v", err)
	}

	// unknown email and wrong password must be indistinguishable
	_, _, _, unknownErr := svc.Login(ctx, "nobody@x.com", "secret1")
	_, _, _, wrongErr := svc.Login(ctx, "a@x.com", "wrong")

	if !errors.Is(unknownErr, auth.ErrInvalidCredentials) {
		t.Fatalf("unknown email error = %v, want ErrInvalidCredentials", unknownErr)
	}
	if !errors.Is(wrongErr, auth.ErrInvalidCredentials) {
		t.Fatalf("wrong password error = %v, want ErrInvalidCredentials", wrongErr)
	}
	if unknownErr.Error() != wrongErr.Error() {
		t.Fatalf("login failures leak account existence: %q vs %q", unknownErr, wrongErr)
	}
}

func TestLoginSupersedesPreviousSession(t *testing.T) {
	ctx := context.Background()
	svc, _, sessions, _ := newTestAuthService(t)

	if _, err := svc.Register(ctx, "Ada", "a@x.com", "secret1"); err != nil {
		t.Fatalf("Register: %v", err)
	}

	_, first, _, err := svc.Login(ctx, "a@x.com", "secret1")
	if err != nil {
		t.Fatalf("first Login: %v", err)
	}
	_, second, _, err := svc.Login(ctx, "a@x.com", "secret1")
	if err != nil {
		t.Fatalf("second Login: %v", err)
	}
	if first == second {
		t.Fatal("expected distinct tokens")
	}

	if _, err := sessions.VerifyToken(ctx, first); !errors.Is(err, auth.ErrTokenRevoked) {
		t.Fatalf("first token error = %v, want ErrTokenRevoked", err)
	}
	if _, err := sessions.VerifyToken(ctx, second); err != nil {
		t.Fatalf("second token should verify, got %v", err)
	}
}

func TestLogout(t *testing.T) {
	ctx := context.Background()
	svc, _, sessions, _ := newTestAuthService(t)

	user, err := svc.Register(ctx, "Ada", "a@x.com", "secret1")
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	_, token, _, err := svc.Login(ctx, "a@x.com", "secret1")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}

	if err := svc.Logout(ctx, user.ID); err != nil {
		t.Fatalf("Logout: %v", err)
	}
	if _, err := sessions.VerifyToken(ctx, token); !errors.Is(err, auth.ErrTokenRevoked) {
		t.Fatalf("verify after logout = %v, want ErrTokenRevoked", err)
	}
	// idempotent
	if err := svc.Logout(ctx, user.ID); err != nil {
		t.Fatalf("second Logout: %v", err)
	}
}
