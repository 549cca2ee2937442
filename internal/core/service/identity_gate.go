package service

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/vedaclinic/booking-api/internal/core/domain"
	"github.com/vedaclinic/booking-api/internal/core/ports"
)

// IdentityGate caches the caller's effective role per session. The role is
// derived once when the session is established and reused until sign-out;
// it is never recomputed while handling a request.
type IdentityGate struct {
	verifier   ports.TokenVerifier
	sessions   ports.SessionStore
	promotions ports.PromotionRepository
	logger     zerolog.Logger
	now        func() time.Time
}

func NewIdentityGate(verifier ports.TokenVerifier, sessions ports.SessionStore, promotions ports.PromotionRepository, logger zerolog.Logger) *IdentityGate {
	return &IdentityGate{
		verifier:   verifier,
		sessions:   sessions,
		promotions: promotions,
		logger:     logger,
		now:        time.Now,
	}
}

// HandleAuthEvent is the gate's provider subscription. It must be the only
// listener that writes to the session store.
func (g *IdentityGate) HandleAuthEvent(ctx context.Context, ev ports.AuthEvent) error {
	switch ev.Type {
	case ports.AuthSignedIn:
		identity := g.derive(ctx, ev.Claims)
		if err := g.sessions.Save(ctx, ev.Claims.SessionID, identity, g.ttl(ev.ExpiresAt)); err != nil {
			return err
		}
		g.logger.Info().
			Str("user_id", identity.UserID).
			Bool("is_admin", identity.IsAdmin).
			Msg("session established")
		return nil

	case ports.AuthTokenRefreshed:
		// A missing session was signed out; refreshing must not revive it.
		return g.sessions.Touch(ctx, ev.Claims.SessionID, g.ttl(ev.ExpiresAt))

	case ports.AuthSignedOut:
		return g.sessions.Delete(ctx, ev.Claims.SessionID)
	}
	return nil
}

// Resolve maps a session handle to the caller's identity. Missing, invalid,
// expired or signed-out handles resolve to anonymous. When the session store
// cannot be read the caller stays authenticated without admin rights.
func (g *IdentityGate) Resolve(ctx context.Context, token string) domain.Identity {
	if token == "" {
		return domain.Anonymous()
	}

	claims, _, err := g.verifier.Verify(token)
	if err != nil {
		return domain.Anonymous()
	}

	identity, err := g.sessions.Load(ctx, claims.SessionID)
	switch {
	case err == nil:
		if identity.UserID != claims.UserID {
			g.logger.Warn().Str("session_id", claims.SessionID).Msg("session owner mismatch")
			return domain.Anonymous()
		}
		return identity
	case errors.Is(err, domain.ErrSessionNotFound):
		return domain.Anonymous()
	default:
		g.logger.Warn().Err(err).Str("session_id", claims.SessionID).Msg("session lookup failed, resolving without admin rights")
		return domain.Identity{
			Authenticated: true,
			UserID:        claims.UserID,
			Email:         claims.Email,
			SessionID:     claims.SessionID,
		}
	}
}

// derive computes the effective role. A failed promotion lookup yields a
// non-admin identity.
func (g *IdentityGate) derive(ctx context.Context, claims domain.IdentityClaims) domain.Identity {
	var promotions []domain.AdminPromotionRequest
	if domain.Role(claims.Role) != domain.RoleAdmin && claims.Email != "" {
		found, err := g.promotions.FindByEmail(ctx, domain.NormalizeEmail(claims.Email))
		if err != nil {
			g.logger.Warn().Err(err).Str("user_id", claims.UserID).Msg("promotion lookup failed, defaulting to non-admin")
		} else {
			promotions = found
		}
	}

	return domain.Identity{
		Authenticated: true,
		UserID:        claims.UserID,
		Email:         claims.Email,
		IsAdmin:       domain.DeriveRole(claims, promotions) == domain.RoleAdmin,
		SessionID:     claims.SessionID,
	}
}

func (g *IdentityGate) ttl(expiresAt time.Time) time.Duration {
	if expiresAt.IsZero() {
		return 0
	}
	ttl := expiresAt.Sub(g.now())
	if ttl < time.Second {
		ttl = time.Second
	}
	return ttl
}
