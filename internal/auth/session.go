package auth

import (
	"context"
	"time"

	"github.com/spec-kit/crowdfund-service/internal/domain"
)

// SessionManager pairs the token codec with the session store to provide
// issue/verify/invalidate with single-active-session semantics: the store
// holds the latest token per subject, and only that token verifies.
type SessionManager struct {
	tokens     *TokenManager
	store      SessionStore
	sessionTTL time.Duration
}

// NewSessionManager builds the manager. A non-positive sessionTTL falls back
// to five minutes.
func NewSessionManager(tokens *TokenManager, store SessionStore, sessionTTL time.Duration) *SessionManager {
	if sessionTTL <= 0 {
		sessionTTL = 300 * time.Second
	}
	return &SessionManager{tokens: tokens, store: store, sessionTTL: sessionTTL}
}

// IssueToken signs a token for the subject and records it as the subject's
// only live session, superseding any previously issued token.
func (m *SessionManager) IssueToken(ctx context.Context, subjectID, email string, role domain.Role) (string, time.Time, error) {
	token, expiresAt, err := m.tokens.GenerateToken(subjectID, email, role)
	if err != nil {
		return "", time.Time{}, err
	}
	if err := m.store.Put(ctx, subjectID, token, m.sessionTTL); err != nil {
		return "", time.Time{}, err
	}
	return token, expiresAt, nil
}

// VerifyToken parses the token and then requires it to be the subject's
// current session. A valid signature is not enough: a superseded, logged-out,
// or cache-expired token fails with ErrTokenRevoked.
func (m *SessionManager) VerifyToken(ctx context.Context, tokenStr string) (*Claims, error) {
	if tokenStr == "" {
		return nil, ErrTokenMissing
	}

	claims, err := m.tokens.ParseToken(tokenStr)
	if err != nil {
		return nil, err
	}

	current, ok, err := m.store.Get(ctx, claims.Subject)
	if err != nil {
		return nil, err
	}
	if !ok || current != tokenStr {
		return nil, ErrTokenRevoked
	}
	return claims, nil
}

// InvalidateToken drops the subject's session. Idempotent; used for logout.
func (m *SessionManager) InvalidateToken(ctx context.Context, subjectID string) error {
	return m.store.Delete(ctx, subjectID)
}
