package ports

import (
	"context"
	"time"

	"github.com/vedaclinic/booking-api/internal/core/domain"
)

// AuthRepository persists identity-provider accounts.
type AuthRepository interface {
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
}

// ProfileRepository persists public profiles.
type ProfileRepository interface {
	Create(ctx context.Context, p *domain.Profile) error
	FindByEmail(ctx context.Context, email string) (*domain.Profile, error)
	List(ctx context.Context) ([]*domain.Profile, error)
}

// PromotionRepository is the append-only admin promotion log.
type PromotionRepository interface {
	Append(ctx context.Context, p *domain.AdminPromotionRequest) error
	FindByEmail(ctx context.Context, email string) ([]domain.AdminPromotionRequest, error)
}

// SessionStore holds the identity resolved at session establishment.
type SessionStore interface {
	Save(ctx context.Context, sessionID string, id domain.Identity, ttl time.Duration) error
	Load(ctx context.Context, sessionID string) (domain.Identity, error)
	Touch(ctx context.Context, sessionID string, ttl time.Duration) error
	Delete(ctx context.Context, sessionID string) error
}

// AuthEventType names an authentication state change.
type AuthEventType string

const (
	AuthSignedIn       AuthEventType = "signed_in"
	AuthSignedOut      AuthEventType = "signed_out"
	AuthTokenRefreshed AuthEventType = "token_refreshed"
)

// AuthEvent is delivered to subscribers on every authentication change.
type AuthEvent struct {
	Type      AuthEventType
	Claims    domain.IdentityClaims
	ExpiresAt time.Time
}

// AuthListener handles authentication events. A listener error fails sign-in,
// sign-up and refresh (no handle is returned); on sign-out it is only logged.
type AuthListener func(ctx context.Context, ev AuthEvent) error

// Session is an issued session handle and what it asserts.
type Session struct {
	Token     string
	Claims    domain.IdentityClaims
	ExpiresAt time.Time
}

// IdentityProvider issues and revokes sessions.
type IdentityProvider interface {
	SignUp(ctx context.Context, email, password string, metadata map[string]string) (*Session, *domain.User, error)
	SignIn(ctx context.Context, email, password string) (*Session, *domain.User, error)
	SignOut(ctx context.Context, token string) error
	Refresh(ctx context.Context, token string) (*Session, error)
	GetCurrentSession(ctx context.Context, token string) (*Session, error)
	Subscribe(l AuthListener) (unsubscribe func())
}

// TokenVerifier checks a session handle's signature and expiry and returns
// what it asserts.
type TokenVerifier interface {
	Verify(token string) (domain.IdentityClaims, time.Time, error)
}

// IdentityGate resolves the caller behind a session handle.
type IdentityGate interface {
	Resolve(ctx context.Context, token string) domain.Identity
}
