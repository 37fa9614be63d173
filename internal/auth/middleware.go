package auth

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/estatehub/estate-service/internal/domain"
	"github.com/estatehub/estate-service/internal/observability"
	apperrors "github.com/estatehub/estate-service/pkg/util"
)

const identityKey = "auth_identity"

const (
	msgNoToken      = "No token provided"
	msgInvalidToken = "Invalid or expired token"
)

// Gate validates bearer tokens and attaches the verified identity to the request.
type Gate struct {
	tokens  *TokenManager
	metrics *observability.Metrics
}

// NewGate constructs the gate. metrics may be nil.
func NewGate(tokens *TokenManager, metrics *observability.Metrics) *Gate {
	return &Gate{tokens: tokens, metrics: metrics}
}

// Check resolves an Authorization header value. A header without a second
// token yields Unauthorized; a present but unusable token yields Forbidden.
func (g *Gate) Check(authorization string) (*domain.Identity, error) {
	parts := strings.Fields(authorization)
	// a lone word carries no token, whatever it is
	if len(parts) < 2 {
		g.metrics.RecordAuthRejection("missing")
		return nil, apperrors.NewUnauthorized(msgNoToken)
	}
	if !strings.EqualFold(parts[0], "Bearer") || len(parts) > 2 {
		g.metrics.RecordAuthRejection("scheme")
		return nil, apperrors.NewForbidden(msgInvalidToken)
	}

	identity, err := g.tokens.Verify(parts[1])
	if err != nil {
		g.metrics.RecordAuthRejection(rejectionReason(err))
		return nil, apperrors.NewForbidden(msgInvalidToken)
	}
	return identity, nil
}

// Authenticate enforces authentication for protected routes.
func (g *Gate) Authenticate(c *fiber.Ctx) error {
	identity, err := g.Check(c.Get(fiber.HeaderAuthorization))
	if err != nil {
		return err
	}
	c.Locals(identityKey, identity)
	return c.Next()
}

// IdentityFromContext retrieves the authenticated identity.
func IdentityFromContext(c *fiber.Ctx) (*domain.Identity, bool) {
	val := c.Locals(identityKey)
	if val == nil {
		return nil, false
	}
	identity, ok := val.(*domain.Identity)
	return identity, ok && identity != nil
}

func rejectionReason(err error) string {
	switch {
	case errors.Is(err, ErrTokenExpired):
		return "expired"
	case errors.Is(err, ErrTokenInvalidSignature):
		return "signature"
	default:
		return "malformed"
	}
}
