package service

import (
	"context"
	"strings"

	"github.com/estatehub/estate-service/internal/auth"
	"github.com/estatehub/estate-service/internal/domain"
	"github.com/estatehub/estate-service/internal/events"
	"github.com/estatehub/estate-service/internal/repository"
	"github.com/estatehub/estate-service/internal/validation"
	apperrors "github.com/estatehub/estate-service/pkg/util"
)

const resourceInquiry = "Inquiry"

// InquiryService handles buyer inquiries and the agent follow-up workflow.
type InquiryService struct {
	inquiries  repository.InquiryRepository
	properties repository.PropertyRepository
	dispatcher events.Dispatcher
}

// NewInquiryService constructs the service.
func NewInquiryService(inquiries repository.InquiryRepository, properties repository.PropertyRepository, dispatcher events.Dispatcher) *InquiryService {
	return &InquiryService{inquiries: inquiries, properties: properties, dispatcher: dispatcher}
}

// CreateInquiryInput payload.
type CreateInquiryInput struct {
	PropertyID string  `validate:"required,uuid"`
	Name       string  `validate:"required,min=2,max=255"`
	Email      string  `validate:"required,email,max=255"`
	Phone      *string `validate:"omitnil,max=50"`
	Message    string  `validate:"required,min=10,max=2000"`
}

// InquiryListInput filters an agent's inquiries.
type InquiryListInput struct {
	Status     *string `validate:"omitnil,oneof=new contacted scheduled closed"`
	PropertyID *string `validate:"omitnil,uuid"`
}

// UpdateInquiryStatusInput payload.
type UpdateInquiryStatusInput struct {
	Status string `validate:"required,oneof=new contacted scheduled closed"`
}

// Create records an inquiry from an anonymous visitor.
func (s *InquiryService) Create(ctx context.Context, input CreateInquiryInput) (*domain.Inquiry, error) {
	input.Name = strings.TrimSpace(input.Name)
	input.Email = strings.TrimSpace(input.Email)
	input.Message = strings.TrimSpace(input.Message)
	if err := validation.Struct(input); err != nil {
		return nil, err
	}

	property, err := s.properties.GetByID(ctx, input.PropertyID)
	if err != nil {
		return nil, notFoundAs(err, resourceProperty)
	}

	inquiry := &domain.Inquiry{
		PropertyID: property.ID,
		Name:       input.Name,
		Email:      input.Email,
		Phone:      input.Phone,
		Message:    input.Message,
		Status:     domain.InquiryStatusNew,
	}
	if err := s.inquiries.Create(ctx, inquiry); err != nil {
		return nil, apperrors.MapError(err)
	}
	inquiry.Property = propertyRef(property)

	publishEvent(ctx, s.dispatcher, events.Event{
		Type:       events.EventInquiryCreated,
		ResourceID: inquiry.ID,
		AgentID:    property.AgentID,
		Payload: events.InquiryCreatedPayload{
			PropertyID:    property.ID,
			PropertyTitle: property.Title,
			Name:          inquiry.Name,
			Email:         inquiry.Email,
		},
	})
	return inquiry, nil
}

// List returns inquiries for the caller's properties.
func (s *InquiryService) List(ctx context.Context, identity *domain.Identity, input InquiryListInput) ([]domain.Inquiry, error) {
	if err := requireIdentity(identity); err != nil {
		return nil, err
	}
	if err := validation.Struct(input); err != nil {
		return nil, err
	}
	filter := repository.InquiryFilter{AgentID: identity.UserID, PropertyID: input.PropertyID}
	if input.Status != nil {
		status := domain.InquiryStatus(*input.Status)
		filter.Status = &status
	}
	inquiries, err := s.inquiries.ListForAgent(ctx, filter)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return inquiries, nil
}

// Get returns one inquiry to its owning agent or an admin.
func (s *InquiryService) Get(ctx context.Context, identity *domain.Identity, id string) (*domain.Inquiry, error) {
	if err := auth.EnforceOwnership(ctx, identity, s.inquiries, resourceInquiry, id); err != nil {
		return nil, err
	}
	inquiry, err := s.inquiries.GetByID(ctx, id)
	if err != nil {
		return nil, notFoundAs(err, resourceInquiry)
	}
	return inquiry, nil
}

// UpdateStatus moves an inquiry through its follow-up states.
func (s *InquiryService) UpdateStatus(ctx context.Context, identity *domain.Identity, id string, input UpdateInquiryStatusInput) (*domain.Inquiry, error) {
	if err := auth.EnforceOwnership(ctx, identity, s.inquiries, resourceInquiry, id); err != nil {
		return nil, err
	}
	if err := validation.Struct(input); err != nil {
		return nil, err
	}
	current, err := s.inquiries.GetByID(ctx, id)
	if err != nil {
		return nil, notFoundAs(err, resourceInquiry)
	}

	next := domain.InquiryStatus(input.Status)
	updated, err := s.inquiries.UpdateStatus(ctx, id, next)
	if err != nil {
		return nil, notFoundAs(err, resourceInquiry)
	}

	if current.Status != next {
		publishEvent(ctx, s.dispatcher, events.Event{
			Type:       events.EventInquiryStatusChanged,
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

// Delete removes an inquiry.
func (s *InquiryService) Delete(ctx context.Context, identity *domain.Identity, id string) error {
	if err := auth.EnforceOwnership(ctx, identity, s.inquiries, resourceInquiry, id); err != nil {
		return err
	}
	if err := s.inquiries.Delete(ctx, id); err != nil {
		return notFoundAs(err, resourceInquiry)
	}
	return nil
}

// Stats summarizes inquiries across the caller's properties.
func (s *InquiryService) Stats(ctx context.Context, identity *domain.Identity) (domain.InquiryStats, error) {
	if err := requireIdentity(identity); err != nil {
		return domain.InquiryStats{}, err
	}
	stats, err := s.inquiries.StatsForAgent(ctx, identity.UserID)
	if err != nil {
		return domain.InquiryStats{}, apperrors.MapError(err)
	}
	return stats, nil
}

func propertyRef(p *domain.Property) *domain.PropertyRef {
	return &domain.PropertyRef{
		Title:    p.Title,
		City:     p.City,
		State:    p.State,
		Location: p.Location,
		AgentID:  p.AgentID,
	}
}

func ownerOf(ref *domain.PropertyRef) string {
	if ref == nil {
		return ""
	}
	return ref.AgentID
}
