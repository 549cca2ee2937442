package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/vedaclinic/booking-api/internal/core/domain"
	"github.com/vedaclinic/booking-api/internal/core/ports"
)

const minPasswordLength = 6

// AuthService is the identity provider: it registers accounts, issues signed
// session handles and notifies subscribers of every authentication change.
type AuthService struct {
	repo      ports.AuthRepository
	profiles  ports.ProfileRepository
	jwtSecret string
	tokenTTL  time.Duration
	logger    zerolog.Logger
	now       func() time.Time

	mu        sync.RWMutex
	listeners map[int]ports.AuthListener
	nextID    int
}

func NewAuthService(repo ports.AuthRepository, profiles ports.ProfileRepository, jwtSecret string, tokenTTL time.Duration, logger zerolog.Logger) *AuthService {
	if tokenTTL <= 0 {
		tokenTTL = 24 * time.Hour
	}
	return &AuthService{
		repo:      repo,
		profiles:  profiles,
		jwtSecret: jwtSecret,
		tokenTTL:  tokenTTL,
		logger:    logger,
		now:       time.Now,
		listeners: make(map[int]ports.AuthListener),
	}
}

// Subscribe registers l for every subsequent auth event. The returned func
// removes it.
func (s *AuthService) Subscribe(l ports.AuthListener) func() {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.listeners[id] = l
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.listeners, id)
		s.mu.Unlock()
	}
}

// SignUp creates an account plus its public profile and signs it in.
// A "role" key in metadata is ignored; roles are never self-assigned.
func (s *AuthService) SignUp(ctx context.Context, email, password string, metadata map[string]string) (*ports.Session, *domain.User, error) {
	email = domain.NormalizeEmail(email)
	if err := validateEmail(email); err != nil {
		return nil, nil, err
	}
	if len(password) < minPasswordLength {
		return nil, nil, fmt.Errorf("%w: password must be at least %d characters", domain.ErrValidation, minPasswordLength)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, nil, err
	}

	meta := make(map[string]string, len(metadata))
	for k, v := range metadata {
		if k == "role" {
			continue
		}
		meta[k] = strings.TrimSpace(v)
	}

	now := s.now().UTC()
	user, err := s.repo.Create(ctx, &domain.User{
		Email:        email,
		PasswordHash: string(hash),
		Metadata:     meta,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		return nil, nil, err
	}

	profile := &domain.Profile{
		UserID:    user.ID,
		Email:     user.Email,
		FullName:  meta["full_name"],
		Phone:     meta["phone"],
		CreatedAt: now,
	}
	if err := s.profiles.Create(ctx, profile); err != nil {
		s.logger.Error().Err(err).Str("user_id", user.ID).Msg("failed to create profile for new account")
	}

	session, err := s.establish(ctx, user)
	if err != nil {
		return nil, nil, err
	}
	s.logger.Info().Str("user_id", user.ID).Msg("account registered")
	return session, user, nil
}

func (s *AuthService) SignIn(ctx context.Context, email, password string) (*ports.Session, *domain.User, error) {
	email = domain.NormalizeEmail(email)
	if email == "" || password == "" {
		return nil, nil, domain.ErrInvalidCredentials
	}

	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, nil, domain.ErrInvalidCredentials
		}
		return nil, nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, nil, domain.ErrInvalidCredentials
	}

	session, err := s.establish(ctx, user)
	if err != nil {
		return nil, nil, err
	}
	return session, user, nil
}

// SignOut ends the session behind token.
func (s *AuthService) SignOut(ctx context.Context, token string) error {
	claims, exp, err := s.Verify(token)
	if err != nil {
		return err
	}
	// The handle is revoked once the listeners ran; a failed cleanup is only logged.
	_ = s.emit(ctx, ports.AuthEvent{Type: ports.AuthSignedOut, Claims: claims, ExpiresAt: exp})
	s.logger.Info().Str("user_id", claims.UserID).Str("session_id", claims.SessionID).Msg("signed out")
	return nil
}

// Refresh re-issues a still-valid handle with a fresh expiry and the same
// session id.
func (s *AuthService) Refresh(ctx context.Context, token string) (*ports.Session, error) {
	claims, _, err := s.Verify(token)
	if err != nil {
		return nil, err
	}
	session, err := s.issue(claims)
	if err != nil {
		return nil, err
	}
	if err := s.emit(ctx, ports.AuthEvent{Type: ports.AuthTokenRefreshed, Claims: claims, ExpiresAt: session.ExpiresAt}); err != nil {
		if errors.Is(err, domain.ErrSessionNotFound) {
			return nil, fmt.Errorf("%w: session has ended", domain.ErrUnauthenticated)
		}
		return nil, fmt.Errorf("refresh session: %w", err)
	}
	return session, nil
}

func (s *AuthService) GetCurrentSession(_ context.Context, token string) (*ports.Session, error) {
	claims, exp, err := s.Verify(token)
	if err != nil {
		return nil, err
	}
	return &ports.Session{Token: token, Claims: claims, ExpiresAt: exp}, nil
}

// Verify checks the handle's signature and expiry.
func (s *AuthService) Verify(token string) (domain.IdentityClaims, time.Time, error) {
	if token == "" {
		return domain.IdentityClaims{}, time.Time{}, domain.ErrUnauthenticated
	}

	parsed, err := jwt.Parse(token, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(s.jwtSecret), nil
	}, jwt.WithTimeFunc(s.now))
	if err != nil || !parsed.Valid {
		return domain.IdentityClaims{}, time.Time{}, fmt.Errorf("%w: invalid session token", domain.ErrUnauthenticated)
	}

	mc, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return domain.IdentityClaims{}, time.Time{}, fmt.Errorf("%w: invalid token claims", domain.ErrUnauthenticated)
	}

	claims := domain.IdentityClaims{
		SessionID: stringClaim(mc, "sid"),
		UserID:    stringClaim(mc, "sub"),
		Email:     stringClaim(mc, "email"),
		Role:      stringClaim(mc, "role"),
	}
	if claims.SessionID == "" || claims.UserID == "" {
		return domain.IdentityClaims{}, time.Time{}, fmt.Errorf("%w: incomplete token claims", domain.ErrUnauthenticated)
	}

	var exp time.Time
	if e, err := mc.GetExpirationTime(); err == nil && e != nil {
		exp = e.Time
	}
	return claims, exp, nil
}

func (s *AuthService) establish(ctx context.Context, user *domain.User) (*ports.Session, error) {
	session, err := s.issue(domain.IdentityClaims{
		SessionID: uuid.NewString(),
		UserID:    user.ID,
		Email:     user.Email,
		Role:      user.Role,
	})
	if err != nil {
		return nil, err
	}
	if err := s.emit(ctx, ports.AuthEvent{Type: ports.AuthSignedIn, Claims: session.Claims, ExpiresAt: session.ExpiresAt}); err != nil {
		return nil, fmt.Errorf("establish session: %w", err)
	}
	return session, nil
}

func (s *AuthService) issue(claims domain.IdentityClaims) (*ports.Session, error) {
	now := s.now()
	exp := now.Add(s.tokenTTL)
	mc := jwt.MapClaims{
		"sid":   claims.SessionID,
		"sub":   claims.UserID,
		"email": claims.Email,
		"iat":   now.Unix(),
		"exp":   exp.Unix(),
	}
	if claims.Role != "" {
		mc["role"] = claims.Role
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, mc).SignedString([]byte(s.jwtSecret))
	if err != nil {
		return nil, err
	}
	return &ports.Session{Token: signed, Claims: claims, ExpiresAt: time.Unix(exp.Unix(), 0)}, nil
}

// emit delivers ev to every subscriber in turn, logs each failure and returns
// the first one.
func (s *AuthService) emit(ctx context.Context, ev ports.AuthEvent) error {
	s.mu.RLock()
	listeners := make([]ports.AuthListener, 0, len(s.listeners))
	for _, l := range s.listeners {
		listeners = append(listeners, l)
	}
	s.mu.RUnlock()

	var first error
	for _, l := range listeners {
		if err := l(ctx, ev); err != nil {
			s.logger.Warn().Err(err).
				Str("event", string(ev.Type)).
				Str("session_id", ev.Claims.SessionID).
				Msg("auth listener failed")
			if first == nil {
				first = err
			}
		}
	}
	return first
}

func stringClaim(mc jwt.MapClaims, key string) string {
	v, _ := mc[key].(string)
	return v
}
