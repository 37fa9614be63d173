package handlers

import (
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/estatehub/estate-service/internal/auth"
	"github.com/estatehub/estate-service/internal/domain"
	apperrors "github.com/estatehub/estate-service/pkg/util"
)

// identity returns the verified caller or nil; services turn nil into 401.
func identity(c *fiber.Ctx) *domain.Identity {
	id, ok := auth.IdentityFromContext(c)
	if !ok {
		return nil
	}
	return id
}

func parseBody(c *fiber.Ctx, out any) error {
	if err := c.BodyParser(out); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	return nil
}

func queryString(c *fiber.Ctx, key string) *string {
	val := strings.TrimSpace(c.Query(key))
	if val == "" {
		return nil
	}
	return &val
}

func queryInt(c *fiber.Ctx, key string) (*int, error) {
	val := queryString(c, key)
	if val == nil {
		return nil, nil
	}
	parsed, err := strconv.Atoi(*val)
	if err != nil {
		return nil, invalidQuery(key, "must be an integer")
	}
	return &parsed, nil
}

func queryFloat(c *fiber.Ctx, key string) (*float64, error) {
	val := queryString(c, key)
	if val == nil {
		return nil, nil
	}
	parsed, err := strconv.ParseFloat(*val, 64)
	if err != nil {
		return nil, invalidQuery(key, "must be a number")
	}
	return &parsed, nil
}

func queryBool(c *fiber.Ctx, key string) (*bool, error) {
	val := queryString(c, key)
	if val == nil {
		return nil, nil
	}
	parsed, err := strconv.ParseBool(*val)
	if err != nil {
		return nil, invalidQuery(key, "must be true or false")
	}
	return &parsed, nil
}

func invalidQuery(key, problem string) error {
	msg := key + " " + problem
	return apperrors.NewValidationError(msg, map[string]any{"fields": map[string]string{key: msg}})
}
