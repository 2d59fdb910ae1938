package service

import (
	"context"
	"crypto/subtle"
	"log/slog"
	"sync"
	"time"

	"github.com/lionbidapp/lionbid-server/internal/auth"
	"github.com/lionbidapp/lionbid-server/internal/config"
	apperrors "github.com/lionbidapp/lionbid-server/internal/errors"
)

// AuthService authenticates the single admin account and manages
// session tokens. Tokens are stateless PASETO v4.local; logout is
// implemented with an in-memory revocation set keyed by token ID, so a
// revoked token stays dead until it would have expired anyway.
type AuthService struct {
	admin        config.AdminConfig
	tokenService *auth.TokenService
	logger       *slog.Logger

	mu      sync.Mutex
	revoked map[string]time.Time // token ID -> expiry
}

// NewAuthService creates a new authentication service.
func NewAuthService(admin config.AdminConfig, tokenService *auth.TokenService, logger *slog.Logger) *AuthService {
	return &AuthService{
		admin:        admin,
		tokenService: tokenService,
		logger:       logger,
		revoked:      make(map[string]time.Time),
	}
}

// LoginRequest contains the admin credentials.
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse contains the issued session token.
type LoginResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Login checks the credentials against the configured admin account
// and issues a session token. Both fields are compared in constant
// time so response timing does not reveal which one was wrong.
func (s *AuthService) Login(ctx context.Context, req LoginRequest) (*LoginResponse, error) {
	if err := validate.Validate(req); err != nil {
		return nil, err
	}

	usernameMatch := subtle.ConstantTimeCompare([]byte(req.Username), []byte(s.admin.Username))
	passwordMatch := subtle.ConstantTimeCompare([]byte(req.Password), []byte(s.admin.Password))
	if usernameMatch&passwordMatch != 1 {
		s.logger.Warn("failed admin login attempt", "username", req.Username)
		return nil, apperrors.InvalidCredentials("invalid username or password")
	}

	token, err := s.tokenService.GenerateSessionToken(req.Username)
	if err != nil {
		return nil, apperrors.Internal("failed to issue session token").WithCause(err)
	}

	s.logger.Info("admin logged in", "username", req.Username)

	return &LoginResponse{
		Token:     token,
		ExpiresAt: time.Now().UTC().Add(s.tokenService.SessionDuration()),
	}, nil
}

// VerifyToken validates a session token and checks it has not been
// revoked by a logout.
func (s *AuthService) VerifyToken(ctx context.Context, token string) (*auth.SessionClaims, error) {
	claims, err := s.tokenService.VerifySessionToken(token)
	if err != nil {
		return nil, apperrors.Unauthorized("invalid or expired session").WithCause(err)
	}

	s.mu.Lock()
	_, revoked := s.revoked[claims.TokenID]
	s.mu.Unlock()
	if revoked {
		return nil, apperrors.Unauthorized("session has been logged out")
	}

	return claims, nil
}

// Logout revokes the session token. Revoking an already invalid token
// is not an error; logout is idempotent from the client's view.
func (s *AuthService) Logout(ctx context.Context, token string) {
	claims, err := s.tokenService.VerifySessionToken(token)
	if err != nil {
		return
	}

	s.mu.Lock()
	s.revoked[claims.TokenID] = claims.Expiration

	// Drop entries for tokens that have expired on their own.
	now := time.Now()
	for id, exp := range s.revoked {
		if now.After(exp) {
			delete(s.revoked, id)
		}
	}
	s.mu.Unlock()

	s.logger.Info("admin logged out", "username", claims.Username)
}
