package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/estatehub/estate-service/internal/domain"
	"github.com/estatehub/estate-service/internal/events"
	apperrors "github.com/estatehub/estate-service/pkg/util"
)

// Clock returns the current time; tests replace it.
type Clock func() time.Time

func publishEvent(ctx context.Context, dispatcher events.Dispatcher, event events.Event) {
	if dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	_ = dispatcher.Publish(ctx, event)
}

// notFoundAs maps a missing row to NotFound for resource and anything else to
// the generic domain mapping.
func notFoundAs(err error, resource string) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return apperrors.NewNotFound(resource, nil)
	}
	return apperrors.MapError(err)
}

func requireIdentity(identity *domain.Identity) error {
	if identity == nil {
		return apperrors.NewUnauthorized("User not authenticated")
	}
	return nil
}

func actorID(identity *domain.Identity) *string {
	if identity == nil {
		return nil
	}
	id := identity.UserID
	return &id
}
