package services

import (
	"testing"
	"time"

	"github.com/LiamFranKi/sistemas-encuestas-cursor/internal/store"
)

func testSigner(uid, email, role string, ttl time.Duration) (string, error) {
	return "token-" + uid + "-" + role, nil
}

func TestRegisterAndLogin(t *testing.T) {
	ms := store.NewMemoryStore()
	svc := NewAuthService(ms, testSigner)

	reg, err := svc.Register("Admin@Colegio.edu ", "supersecreta")
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if reg.Email != "admin@colegio.edu" {
		t.Fatalf("email not normalized: %q", reg.Email)
	}
	if reg.Role != RoleAdmin {
		t.Fatalf("role = %q", reg.Role)
	}
	if reg.Token == "" {
		t.Fatalf("empty token")
	}

	in, err := svc.Login("admin@colegio.edu", "supersecreta")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if in.UserID != reg.UserID {
		t.Fatalf("login user = %q, want %q", in.UserID, reg.UserID)
	}
}

func TestRegisterClosedAfterFirstAdmin(t *testing.T) {
	ms := store.NewMemoryStore()
	svc := NewAuthService(ms, testSigner)

	if _, err := svc.Register("admin@colegio.edu", "supersecreta"); err != nil {
		t.Fatalf("Register: %v", err)
	}
	// Any further registration is rejected, same email or not;
	// otherwise anyone could mint themselves an admin token.
	for _, email := range []string{"admin@colegio.edu", "intruso@colegio.edu"} {
		_, err := svc.Register(email, "otraclave123")
		se, ok := AsServiceError(err)
		if !ok || se.Code != ErrorForbidden {
			t.Fatalf("register %s: expected forbidden, got %v", email, err)
		}
	}
}

func TestRegisterShortPassword(t *testing.T) {
	svc := NewAuthService(store.NewMemoryStore(), testSigner)
	_, err := svc.Register("admin@colegio.edu", "corta")
	se, ok := AsServiceError(err)
	if !ok || se.Code != ErrorInvalid {
		t.Fatalf("expected invalid, got %v", err)
	}
}

func TestLoginWrongPassword(t *testing.T) {
	ms := store.NewMemoryStore()
	svc := NewAuthService(ms, testSigner)
	if _, err := svc.Register("admin@colegio.edu", "supersecreta"); err != nil {
		t.Fatalf("Register: %v", err)
	}

	_, err := svc.Login("admin@colegio.edu", "equivocada")
	se, ok := AsServiceError(err)
	if !ok || se.Code != ErrorUnauthorized {
		t.Fatalf("expected unauthorized, got %v", err)
	}
}

func TestLoginUnknownUser(t *testing.T) {
	svc := NewAuthService(store.NewMemoryStore(), testSigner)
	_, err := svc.Login("nadie@colegio.edu", "loquesea1")
	se, ok := AsServiceError(err)
	if !ok || se.Code != ErrorUnauthorized {
		t.Fatalf("expected unauthorized, got %v", err)
	}
}
