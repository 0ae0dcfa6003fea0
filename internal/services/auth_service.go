package services

import (
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/LiamFranKi/sistemas-encuestas-cursor/internal/models"
)

type AuthStore interface {
	FindUserByEmail(email string) (*models.User, error)
	AddUser(u *models.User) error
	CountUsers() (int, error)
}

// RoleAdmin is the only role; survey respondents are anonymous and
// never authenticate.
const RoleAdmin = "admin"

type TokenSigner func(uid, email, role string, ttl time.Duration) (string, error)

type AuthService struct {
	store     AuthStore
	now       func() time.Time
	newID     func() string
	signToken TokenSigner
	tokenTTL  time.Duration
}

type AuthResult struct {
	Token  string
	UserID string
	Email  string
	Role   string
}

func NewAuthService(store AuthStore, signer TokenSigner) *AuthService {
	return &AuthService{
		store:     store,
		now:       func() time.Time { return time.Now().UTC() },
		newID:     NewID,
		signToken: signer,
		tokenTTL:  24 * time.Hour,
	}
}

// Register creates the first administrator account and returns a
// signed token. Every account holds the admin role, so registration
// closes as soon as one user exists; later accounts come from the
// operator re-seeding, never from anonymous callers.
func (s *AuthService) Register(email, password string) (*AuthResult, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || strings.TrimSpace(password) == "" {
		return nil, NewInvalidError("email y password requeridos")
	}
	if len(password) < 8 {
		return nil, NewInvalidError("password demasiado corto")
	}
	n, err := s.store.CountUsers()
	if err != nil {
		return nil, err
	}
	if n > 0 {
		return nil, NewForbiddenError("el registro está deshabilitado")
	}
	existing, err := s.store.FindUserByEmail(email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, NewConflictError("el email ya está registrado")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	u := &models.User{
		ID:        s.newID(),
		Email:     email,
		PassHash:  hash,
		Role:      RoleAdmin,
		CreatedAt: s.now(),
	}
	if err := s.store.AddUser(u); err != nil {
		return nil, err
	}
	return s.issue(u)
}

// Login verifies credentials and returns a signed token.
func (s *AuthService) Login(email, password string) (*AuthResult, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || strings.TrimSpace(password) == "" {
		return nil, NewInvalidError("email y password requeridos")
	}
	u, err := s.store.FindUserByEmail(email)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, NewUnauthorizedError("credenciales inválidas")
	}
	if err := bcrypt.CompareHashAndPassword(u.PassHash, []byte(password)); err != nil {
		return nil, NewUnauthorizedError("credenciales inválidas")
	}
	return s.issue(u)
}

func (s *AuthService) issue(u *models.User) (*AuthResult, error) {
	if s.signToken == nil {
		return nil, NewInvalidError("token signer not configured")
	}
	token, err := s.signToken(u.ID, u.Email, u.Role, s.tokenTTL)
	if err != nil {
		return nil, err
	}
	return &AuthResult{Token: token, UserID: u.ID, Email: u.Email, Role: u.Role}, nil
}

func (s *AuthService) TokenTTL() time.Duration {
	return s.tokenTTL
}
