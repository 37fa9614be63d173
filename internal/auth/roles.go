package auth

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/estatehub/estate-service/internal/domain"
	apperrors "github.com/estatehub/estate-service/pkg/util"
)

// RequireRoles ensures the authenticated identity has one of the allowed roles.
// It must be mounted after Gate.Authenticate.
func RequireRoles(allowed ...domain.Role) fiber.Handler {
	allowedSet := make(map[domain.Role]struct{}, len(allowed))
	names := make([]string, 0, len(allowed))
	for _, role := range allowed {
		allowedSet[role] = struct{}{}
		names = append(names, string(role))
	}
	denied := "Access denied. Required role: " + strings.Join(names, " or ")

	return func(c *fiber.Ctx) error {
		identity, _ := IdentityFromContext(c)
		if err := checkRole(identity, allowedSet, denied); err != nil {
			return err
		}
		return c.Next()
	}
}

// RequireAgent admits agents and admins.
func RequireAgent() fiber.Handler {
	return RequireRoles(domain.RoleAgent, domain.RoleAdmin)
}

func checkRole(identity *domain.Identity, allowed map[domain.Role]struct{}, denied string) error {
	if identity == nil {
		return apperrors.NewUnauthorized("User not authenticated")
	}
	if len(allowed) == 0 {
		return nil
	}
	if _, ok := allowed[identity.Role]; !ok {
		return apperrors.NewForbidden(denied)
	}
	return nil
}
