package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/vedaclinic/booking-api/internal/core/domain"
	"github.com/vedaclinic/booking-api/internal/core/ports"
)

func decode(t *testing.T, body []byte) map[string]any {
	t.Helper()
	var resp map[string]any
	if err := json.Unmarshal(body, &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	return resp
}

func TestAuthHandler_SignUp_Success(t *testing.T) {
	exp := time.Date(2026, 3, 11, 8, 0, 0, 0, time.UTC)
	stub := &stubIdentityProvider{
		signUpFn: func(ctx context.Context, email, password string, metadata map[string]string) (*ports.Session, *domain.User, error) {
			if email != "alice@example.com" || password != "secret1" {
				t.Fatalf("unexpected args: %s %s", email, password)
			}
			if metadata["full_name"] != "Alice" {
				t.Fatalf("full_name not forwarded: %+v", metadata)
			}
			return &ports.Session{Token: "tok", ExpiresAt: exp}, &domain.User{ID: "u1", Email: email}, nil
		},
	}
	c, rec := newRequest(http.MethodPost, "/v1/auth/signup",
		`{"email":"alice@example.com","password":"secret1","full_name":"Alice","role":"admin"}`, nil)

	if err := NewAuthHandler(stub).SignUp(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}

	resp := decode(t, rec.Body.Bytes())
	if resp["success"] != true {
		t.Fatalf("expected success envelope: %+v", resp)
	}
	data := resp["data"].(map[string]any)
	if data["token"] != "tok" {
		t.Fatalf("unexpected payload: %+v", data)
	}
}

func TestAuthHandler_SignUp_InvalidPayload(t *testing.T) {
	stub := &stubIdentityProvider{
		signUpFn: func(ctx context.Context, email, password string, metadata map[string]string) (*ports.Session, *domain.User, error) {
			t.Fatalf("should not be called")
			return nil, nil, nil
		},
	}
	h := NewAuthHandler(stub)

	c, _ := newRequest(http.MethodPost, "/v1/auth/signup", "not-json", nil)
	if err := h.SignUp(c); err == nil {
		t.Fatal("expected bind error")
	}

	c, _ = newRequest(http.MethodPost, "/v1/auth/signup", `{"email":"nope","password":"123"}`, nil)
	err := h.SignUp(c)
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestAuthHandler_SignUp_UserExists(t *testing.T) {
	stub := &stubIdentityProvider{
		signUpFn: func(ctx context.Context, email, password string, metadata map[string]string) (*ports.Session, *domain.User, error) {
			return nil, nil, domain.ErrUserExists
		},
	}
	c, _ := newRequest(http.MethodPost, "/v1/auth/signup", `{"email":"bob@example.com","password":"secret1"}`, nil)

	if err := NewAuthHandler(stub).SignUp(c); !errors.Is(err, domain.ErrUserExists) {
		t.Fatalf("expected ErrUserExists, got %v", err)
	}
}

func TestAuthHandler_SignIn(t *testing.T) {
	stub := &stubIdentityProvider{
		signInFn: func(ctx context.Context, email, password string) (*ports.Session, *domain.User, error) {
			if password != "secret1" {
				return nil, nil, domain.ErrInvalidCredentials
			}
			return &ports.Session{Token: "tok"}, &domain.User{ID: "u1", Email: email}, nil
		},
	}
	h := NewAuthHandler(stub)

	c, rec := newRequest(http.MethodPost, "/v1/auth/signin", `{"email":"alice@example.com","password":"secret1"}`, nil)
	if err := h.SignIn(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	c, _ = newRequest(http.MethodPost, "/v1/auth/signin", `{"email":"alice@example.com","password":"bad"}`, nil)
	if err := h.SignIn(c); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestAuthHandler_SignOut_RequiresToken(t *testing.T) {
	stub := &stubIdentityProvider{
		signOutFn: func(ctx context.Context, token string) error {
			t.Fatalf("should not be called")
			return nil
		},
	}
	c, _ := newRequest(http.MethodPost, "/v1/auth/signout", "", nil)

	if err := NewAuthHandler(stub).SignOut(c); !errors.Is(err, domain.ErrUnauthenticated) {
		t.Fatalf("expected ErrUnauthenticated, got %v", err)
	}
}

func TestAuthHandler_Session_Anonymous(t *testing.T) {
	c, rec := newRequest(http.MethodGet, "/v1/auth/session", "", nil)

	if err := NewAuthHandler(&stubIdentityProvider{}).Session(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	data := decode(t, rec.Body.Bytes())["data"].(map[string]any)
	if data["is_authenticated"] != false || data["is_admin"] != false {
		t.Fatalf("unexpected identity: %+v", data)
	}
}
