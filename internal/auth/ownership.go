package auth

import (
	"context"

	"github.com/estatehub/estate-service/internal/domain"
	apperrors "github.com/estatehub/estate-service/pkg/util"
)

// Decision is the outcome of an ownership check.
type Decision int

const (
	Deny Decision = iota
	Permit
)

func (d Decision) String() string {
	if d == Permit {
		return "permit"
	}
	return "deny"
}

// Authorize permits admins and the agent that owns the resource.
func Authorize(identity *domain.Identity, ownerAgentID string) Decision {
	if identity == nil {
		return Deny
	}
	if identity.IsAdmin() {
		return Permit
	}
	if ownerAgentID != "" && identity.UserID == ownerAgentID {
		return Permit
	}
	return Deny
}

// OwnerLookup resolves the agent that controls a resource. found is false when
// the resource or any link of its chain back to a property is missing.
type OwnerLookup interface {
	OwnerOf(ctx context.Context, resourceID string) (ownerAgentID string, found bool, err error)
}

// OwnerLookupFunc adapts a function to OwnerLookup.
type OwnerLookupFunc func(ctx context.Context, resourceID string) (string, bool, error)

func (f OwnerLookupFunc) OwnerOf(ctx context.Context, resourceID string) (string, bool, error) {
	return f(ctx, resourceID)
}

// EnforceOwnership runs the existence check before the ownership decision so
// a missing resource reports NotFound and a foreign one reports Forbidden.
func EnforceOwnership(ctx context.Context, identity *domain.Identity, lookup OwnerLookup, resource, resourceID string) error {
	if identity == nil {
		return apperrors.NewUnauthorized("User not authenticated")
	}
	owner, found, err := lookup.OwnerOf(ctx, resourceID)
	if err != nil {
		return apperrors.MapError(err)
	}
	if !found {
		return apperrors.NewNotFound(resource, nil)
	}
	if Authorize(identity, owner) == Deny {
		return apperrors.NewForbidden("Access denied")
	}
	return nil
}
