package service

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/docqa/docqa/internal/config"
	"github.com/docqa/docqa/internal/domain"
	"github.com/docqa/docqa/internal/store"
)

// AuthService handles registration, login and token validation
type AuthService struct {
	store *store.Store
	cfg   config.AuthConfig
}

// NewAuthService creates a new auth service
func NewAuthService(st *store.Store, cfg config.AuthConfig) *AuthService {
	return &AuthService{store: st, cfg: cfg}
}

// Register creates a new user account with a bcrypt-hashed password
func (s *AuthService) Register(req *domain.RegisterRequest) (*domain.User, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &domain.User{
		Username:       req.Username,
		Email:          req.Email,
		FullName:       req.FullName,
		HashedPassword: string(hashed),
	}
	if err := s.store.CreateUser(user); err != nil {
		return nil, err
	}

	return user, nil
}

// Login verifies credentials and issues a signed access token
func (s *AuthService) Login(username, password string) (*domain.TokenResponse, error) {
	user, err := s.store.Users.GetByUsername(username)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrUnauthorized
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.HashedPassword), []byte(password)); err != nil {
		return nil, domain.ErrUnauthorized
	}

	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   user.Username,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.cfg.TokenTTL)),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.cfg.SecretKey))
	if err != nil {
		return nil, fmt.Errorf("failed to sign token: %w", err)
	}

	return &domain.TokenResponse{AccessToken: signed, TokenType: "bearer"}, nil
}

// Authenticate validates a bearer token and resolves it to a user
func (s *AuthService) Authenticate(tokenString string) (*domain.User, error) {
	token, err := jwt.ParseWithClaims(tokenString, &jwt.RegisteredClaims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(s.cfg.SecretKey), nil
	})
	if err != nil || !token.Valid {
		return nil, domain.ErrUnauthorized
	}

	claims, ok := token.Claims.(*jwt.RegisteredClaims)
	if !ok || claims.Subject == "" {
		return nil, domain.ErrUnauthorized
	}

	user, err := s.store.Users.GetByUsername(claims.Subject)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrUnauthorized
	}

	return user, nil
}
