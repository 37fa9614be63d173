package service

import (
	"context"
	"strings"
	"time"

	"github.com/estatehub/estate-service/internal/auth"
	"github.com/estatehub/estate-service/internal/domain"
	"github.com/estatehub/estate-service/internal/events"
	"github.com/estatehub/estate-service/internal/repository"
	"github.com/estatehub/estate-service/internal/validation"
	apperrors "github.com/estatehub/estate-service/pkg/util"
)

const (
	resourceAppointment = "Appointment"
	dateLayout          = "2006-01-02"
)

// AppointmentService handles viewing requests.
type AppointmentService struct {
	appointments repository.AppointmentRepository
	properties   repository.PropertyRepository
	dispatcher   events.Dispatcher
	now          Clock
}

// NewAppointmentService constructs the service. now may be nil.
func NewAppointmentService(appointments repository.AppointmentRepository, properties repository.PropertyRepository, dispatcher events.Dispatcher, now Clock) *AppointmentService {
	if now == nil {
		now = time.Now
	}
	return &AppointmentService{
		appointments: appointments,
		properties:   properties,
		dispatcher:   dispatcher,
		now:          now,
	}
}

// CreateAppointmentInput payload.
type CreateAppointmentInput struct {
	PropertyID    string  `validate:"required,uuid"`
	Name          string  `validate:"required,min=2,max=255"`
	Email         string  `validate:"required,email,max=255"`
	Phone         *string `validate:"omitnil,max=50"`
	PreferredDate string  `json:"preferred_date" validate:"required,datetime=2006-01-02"`
	PreferredTime string  `json:"preferred_time" validate:"required,datetime=15:04"`
	Message       *string `validate:"omitnil,max=2000"`
}

// AppointmentListInput filters an agent's appointments.
type AppointmentListInput struct {
	Status     *string `validate:"omitnil,oneof=pending confirmed cancelled completed"`
	PropertyID *string `validate:"omitnil,uuid"`
}

// UpdateAppointmentStatusInput payload.
type UpdateAppointmentStatusInput struct {
	Status string `validate:"required,oneof=pending confirmed cancelled completed"`
}

// Create records a viewing request. The date may be today or later; only
// the calendar date is compared, never the time of day.
func (s *AppointmentService) Create(ctx context.Context, input CreateAppointmentInput) (*domain.Appointment, error) {
	input.Name = strings.TrimSpace(input.Name)
	input.Email = strings.TrimSpace(input.Email)
	if err := validation.Struct(input); err != nil {
		return nil, err
	}

	property, err := s.properties.GetByID(ctx, input.PropertyID)
	if err != nil {
		return nil, notFoundAs(err, resourceProperty)
	}

	now := s.now()
	date, err := time.ParseInLocation(dateLayout, input.PreferredDate, now.Location())
	if err != nil {
		return nil, apperrors.NewValidationError("preferred_date must match the format YYYY-MM-DD", nil)
	}
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	if date.Before(today) {
		return nil, apperrors.NewInvalidDate("Appointment date must be in the future")
	}

	appointment := &domain.Appointment{
		PropertyID:    property.ID,
		Name:          input.Name,
		Email:         input.Email,
		Phone:         input.Phone,
		PreferredDate: date,
		PreferredTime: input.PreferredTime,
		Message:       input.Message,
		Status:        domain.AppointmentStatusPending,
	}
	if err := s.appointments.Create(ctx, appointment); err != nil {
		return nil, apperrors.MapError(err)
	}
	appointment.Property = propertyRef(property)

	publishEvent(ctx, s.dispatcher, events.Event{
		Type:       events.EventAppointmentCreated,
		ResourceID: appointment.ID,
		AgentID:    property.AgentID,
		Payload: events.AppointmentCreatedPayload{
			PropertyID:    property.ID,
			PropertyTitle: property.Title,
			Name:          appointment.Name,
			Email:         appointment.Email,
			PreferredDate: input.PreferredDate,
			PreferredTime: input.PreferredTime,
		},
	})
	return appointment, nil
}

// List returns appointments for the caller's properties, soonest first.
func (s *AppointmentService) List(ctx context.Context, identity *domain.Identity, input AppointmentListInput) ([]domain.Appointment, error) {
	if err := requireIdentity(identity); err != nil {
		return nil, err
	}
	if err := validation.Struct(input); err != nil {
		return nil, err
	}
	filter := repository.AppointmentFilter{AgentID: identity.UserID, PropertyID: input.PropertyID}
	if input.Status != nil {
		status := domain.AppointmentStatus(*input.Status)
		filter.Status = &status
	}
	appointments, err := s.appointments.ListForAgent(ctx, filter)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return appointments, nil
}

// Get returns one appointment to its owning agent or an admin.
func (s *AppointmentService) Get(ctx context.Context, identity *domain.Identity, id string) (*domain.Appointment, error) {
	if err := auth.EnforceOwnership(ctx, identity, s.appointments, resourceAppointment, id); err != nil {
		return nil, err
	}
	appointment, err := s.appointments.GetByID(ctx, id)
	if err != nil {
		return nil, notFoundAs(err, resourceAppointment)
	}
	return appointment, nil
}

// UpdateStatus confirms, cancels or completes an appointment.
func (s *AppointmentService) UpdateStatus(ctx context.Context, identity *domain.Identity, id string, input UpdateAppointmentStatusInput) (*domain.Appointment, error) {
	if err := auth.EnforceOwnership(ctx, identity, s.appointments, resourceAppointment, id); err != nil {
		return nil, err
	}
	if err := validation.Struct(input); err != nil {
		return nil, err
	}
	current, err := s.appointments.GetByID(ctx, id)
	if err != nil {
		return nil, notFoundAs(err, resourceAppointment)
	}

	next := domain.AppointmentStatus(input.Status)
	updated, err := s.appointments.UpdateStatus(ctx, id, next)
	if err != nil {
		return nil, notFoundAs(err, resourceAppointment)
	}

	if current.Status != next {
		publishEvent(ctx, s.dispatcher, events.Event{
			Type:       events.EventAppointmentStatusChanged,
			ResourceID: id,
			AgentID:    ownerOf(updated.Property),
			ActorID:    actorID(identity),
			Payload: events.StatusChangedPayload{
				OldStatus: string(current.Status),
				NewStatus: string(next),
			},
		})
	}
	return updated, nil
}

// Delete removes an appointment.
func (s *AppointmentService) Delete(ctx context.Context, identity *domain.Identity, id string) error {
	if err := auth.EnforceOwnership(ctx, identity, s.appointments, resourceAppointment, id); err != nil {
		return err
	}
	if err := s.appointments.Delete(ctx, id); err != nil {
		return notFoundAs(err, resourceAppointment)
	}
	return nil
}

// Stats summarizes appointments across the caller's properties.
func (s *AppointmentService) Stats(ctx context.Context, identity *domain.Identity) (domain.AppointmentStats, error) {
	if err := requireIdentity(identity); err != nil {
		return domain.AppointmentStats{}, err
	}
	stats, err := s.appointments.StatsForAgent(ctx, identity.UserID)
	if err != nil {
		return domain.AppointmentStats{}, apperrors.MapError(err)
	}
	return stats, nil
}
