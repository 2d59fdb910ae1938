package api

import (
	"context"
	"strings"

	"github.com/danielgtaylor/huma/v2"

	"github.com/lionbidapp/lionbid-server/internal/auth"
)

// authenticateAdmin validates the Authorization header and returns the
// session claims. Every admin operation goes through here.
func (s *Server) authenticateAdmin(ctx context.Context, authHeader string) (*auth.SessionClaims, error) {
	if authHeader == "" {
		return nil, huma.Error401Unauthorized("Missing authorization header")
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" {
		return nil, huma.Error401Unauthorized("Invalid authorization header format")
	}

	claims, err := s.services.Auth.VerifyToken(ctx, parts[1])
	if err != nil {
		return nil, huma.Error401Unauthorized("Invalid or expired session", err)
	}

	return claims, nil
}
