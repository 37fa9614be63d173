package service

import (
	"context"
	"errors"
	"mime/multipart"
	"strings"

	"go.uber.org/zap"

	"github.com/estatehub/estate-service/internal/auth"
	"github.com/estatehub/estate-service/internal/domain"
	"github.com/estatehub/estate-service/internal/events"
	"github.com/estatehub/estate-service/internal/repository"
	"github.com/estatehub/estate-service/internal/validation"
	apperrors "github.com/estatehub/estate-service/pkg/util"
)

const (
	defaultPropertyLimit = 50
	resourceProperty     = "Property"
)

// ImageStore persists uploaded listing photos.
type ImageStore interface {
	SaveAll(files []*multipart.FileHeader) ([]string, error)
	Discard(urls []string)
	Remove(url string) error
}

// PropertyService coordinates listing workflows.
type PropertyService struct {
	properties repository.PropertyRepository
	images     ImageStore
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// PropertyDependencies bundles collaborators for the property service.
type PropertyDependencies struct {
	PropertyRepo repository.PropertyRepository
	Images       ImageStore
	Dispatcher   events.Dispatcher
	Logger       *zap.Logger
}

// NewPropertyService constructs the service.
func NewPropertyService(deps PropertyDependencies) *PropertyService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PropertyService{
		properties: deps.PropertyRepo,
		images:     deps.Images,
		dispatcher: deps.Dispatcher,
		logger:     logger,
	}
}

// PropertyListInput describes public search filters.
type PropertyListInput struct {
	City         *string
	State        *string
	PropertyType *string  `validate:"omitnil,oneof=house penthouse villa estate loft"`
	MinPrice     *float64 `validate:"omitnil,gte=0"`
	MaxPrice     *float64 `validate:"omitnil,gte=0"`
	MinBeds      *int     `validate:"omitnil,gte=0"`
	Status       *string  `validate:"omitnil,oneof=draft active pending sold"`
	Featured     *bool
	Limit        *int `validate:"omitnil,min=1,max=100"`
	Offset       *int `validate:"omitnil,gte=0"`
}

// PropertyPage is one page of search results.
type PropertyPage struct {
	Properties []domain.Property
	Limit      int
	Offset     int
}

// CreatePropertyInput payload.
type CreatePropertyInput struct {
	Title        string   `validate:"required,max=255"`
	Description  *string  `validate:"omitnil,max=10000"`
	Location     string   `validate:"required,max=255"`
	City         string   `validate:"required,max=100"`
	State        string   `validate:"required,max=100"`
	Price        float64  `validate:"gt=0"`
	Beds         int      `validate:"gt=0"`
	Baths        int      `validate:"gt=0"`
	Sqft         int      `validate:"gt=0"`
	PropertyType string   `validate:"required,oneof=house penthouse villa estate loft"`
	YearBuilt    int      `validate:"min=1800,pastyear"`
	Status       string   `validate:"omitempty,oneof=draft active pending sold"`
	Featured     bool
	Amenities    []string `validate:"omitempty,dive,min=1"`
	Latitude     *float64 `validate:"omitnil,gte=-90,lte=90"`
	Longitude    *float64 `validate:"omitnil,gte=-180,lte=180"`
	Address      *string  `validate:"omitnil,max=255"`
	ZipCode      *string  `validate:"omitnil,max=20"`
}

// UpdatePropertyInput carries a partial update; nil fields are not touched.
type UpdatePropertyInput struct {
	Title        *string   `validate:"omitnil,min=1,max=255"`
	Description  *string   `validate:"omitnil,max=10000"`
	Location     *string   `validate:"omitnil,min=1,max=255"`
	City         *string   `validate:"omitnil,min=1,max=100"`
	State        *string   `validate:"omitnil,min=1,max=100"`
	Price        *float64  `validate:"omitnil,gt=0"`
	Beds         *int      `validate:"omitnil,gt=0"`
	Baths        *int      `validate:"omitnil,gt=0"`
	Sqft         *int      `validate:"omitnil,gt=0"`
	PropertyType *string   `validate:"omitnil,oneof=house penthouse villa estate loft"`
	YearBuilt    *int      `validate:"omitnil,min=1800,pastyear"`
	Status       *string   `validate:"omitnil,oneof=draft active pending sold"`
	Featured     *bool
	Amenities    *[]string `validate:"omitnil"`
	Latitude     *float64  `validate:"omitnil,gte=-90,lte=90"`
	Longitude    *float64  `validate:"omitnil,gte=-180,lte=180"`
	Address      *string   `validate:"omitnil,max=255"`
	ZipCode      *string   `validate:"omitnil,max=20"`
}

func (in UpdatePropertyInput) patch() domain.PropertyPatch {
	patch := domain.PropertyPatch{
		Title:       in.Title,
		Description: in.Description,
		Location:    in.Location,
		City:        in.City,
		State:       in.State,
		Price:       in.Price,
		Beds:        in.Beds,
		Baths:       in.Baths,
		Sqft:        in.Sqft,
		YearBuilt:   in.YearBuilt,
		Featured:    in.Featured,
		Amenities:   in.Amenities,
		Latitude:    in.Latitude,
		Longitude:   in.Longitude,
		Address:     in.Address,
		ZipCode:     in.ZipCode,
	}
	if in.PropertyType != nil {
		pt := domain.PropertyType(*in.PropertyType)
		patch.PropertyType = &pt
	}
	if in.Status != nil {
		st := domain.PropertyStatus(*in.Status)
		patch.Status = &st
	}
	return patch
}

// List returns public listings. Status defaults to active.
func (s *PropertyService) List(ctx context.Context, input PropertyListInput) (*PropertyPage, error) {
	if err := validation.Struct(input); err != nil {
		return nil, err
	}

	filter := repository.PropertyFilter{
		City:     trimmed(input.City),
		State:    trimmed(input.State),
		MinPrice: input.MinPrice,
		MaxPrice: input.MaxPrice,
		MinBeds:  input.MinBeds,
		Featured: input.Featured,
		Limit:    defaultPropertyLimit,
	}
	status := domain.PropertyStatusActive
	if input.Status != nil {
		status = domain.PropertyStatus(*input.Status)
	}
	filter.Status = &status
	if input.PropertyType != nil {
		pt := domain.PropertyType(*input.PropertyType)
		filter.PropertyType = &pt
	}
	if input.Limit != nil {
		filter.Limit = *input.Limit
	}
	if input.Offset != nil {
		filter.Offset = *input.Offset
	}

	properties, err := s.properties.List(ctx, filter)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return &PropertyPage{Properties: properties, Limit: filter.Limit, Offset: filter.Offset}, nil
}

// Get returns a single listing; reads are public.
func (s *PropertyService) Get(ctx context.Context, id string) (*domain.Property, error) {
	property, err := s.properties.GetByID(ctx, id)
	if err != nil {
		return nil, notFoundAs(err, resourceProperty)
	}
	return property, nil
}

// ListMine returns the caller's own listings regardless of status.
func (s *PropertyService) ListMine(ctx context.Context, identity *domain.Identity) ([]domain.Property, error) {
	if err := requireIdentity(identity); err != nil {
		return nil, err
	}
	properties, err := s.properties.ListByAgent(ctx, identity.UserID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return properties, nil
}

// Create stores a listing owned by the caller.
func (s *PropertyService) Create(ctx context.Context, identity *domain.Identity, input CreatePropertyInput) (*domain.Property, error) {
	if err := requireIdentity(identity); err != nil {
		return nil, err
	}
	if err := validation.Struct(input); err != nil {
		return nil, err
	}

	status := domain.PropertyStatusDraft
	if input.Status != "" {
		status = domain.PropertyStatus(input.Status)
	}
	property := &domain.Property{
		AgentID:      identity.UserID,
		Title:        strings.TrimSpace(input.Title),
		Description:  input.Description,
		Location:     strings.TrimSpace(input.Location),
		City:         strings.TrimSpace(input.City),
		State:        strings.TrimSpace(input.State),
		Price:        input.Price,
		Beds:         input.Beds,
		Baths:        input.Baths,
		Sqft:         input.Sqft,
		PropertyType: domain.PropertyType(input.PropertyType),
		YearBuilt:    input.YearBuilt,
		Status:       status,
		Featured:     input.Featured,
		Images:       []string{},
		Amenities:    input.Amenities,
		Latitude:     input.Latitude,
		Longitude:    input.Longitude,
		Address:      input.Address,
		ZipCode:      input.ZipCode,
	}
	if property.Amenities == nil {
		property.Amenities = []string{}
	}

	if err := s.properties.Create(ctx, property); err != nil {
		return nil, apperrors.MapError(err)
	}

	publishEvent(ctx, s.dispatcher, events.Event{
		Type:       events.EventPropertyCreated,
		ResourceID: property.ID,
		AgentID:    property.AgentID,
		ActorID:    actorID(identity),
		Payload: events.PropertyPayload{
			Title:  property.Title,
			City:   property.City,
			Status: string(property.Status),
		},
	})
	return property, nil
}

// Update applies a partial update. Existence and ownership are checked before
// the payload is validated.
func (s *PropertyService) Update(ctx context.Context, identity *domain.Identity, id string, input UpdatePropertyInput) (*domain.Property, error) {
	if err := auth.EnforceOwnership(ctx, identity, s.properties, resourceProperty, id); err != nil {
		return nil, err
	}
	if err := validation.Struct(input); err != nil {
		return nil, err
	}
	patch := input.patch()
	if patch.Empty() {
		return nil, apperrors.NewNoOp("No valid fields to update")
	}

	property, err := s.properties.Update(ctx, id, patch)
	if err != nil {
		return nil, notFoundAs(err, resourceProperty)
	}
	return property, nil
}

// Delete removes a listing together with its stored images.
func (s *PropertyService) Delete(ctx context.Context, identity *domain.Identity, id string) error {
	if err := auth.EnforceOwnership(ctx, identity, s.properties, resourceProperty, id); err != nil {
		return err
	}
	property, err := s.properties.GetByID(ctx, id)
	if err != nil {
		return notFoundAs(err, resourceProperty)
	}
	if err := s.properties.Delete(ctx, id); err != nil {
		return notFoundAs(err, resourceProperty)
	}
	if s.images != nil {
		s.images.Discard(property.Images)
	}

	publishEvent(ctx, s.dispatcher, events.Event{
		Type:       events.EventPropertyDeleted,
		ResourceID: property.ID,
		AgentID:    property.AgentID,
		ActorID:    actorID(identity),
		Payload: events.PropertyPayload{
			Title:  property.Title,
			City:   property.City,
			Status: string(property.Status),
		},
	})
	return nil
}

// UploadImages stores every file before appending their URLs to the listing.
// Files are discarded again when the row update fails.
func (s *PropertyService) UploadImages(ctx context.Context, identity *domain.Identity, id string, files []*multipart.FileHeader) (*domain.Property, int, error) {
	if err := auth.EnforceOwnership(ctx, identity, s.properties, resourceProperty, id); err != nil {
		return nil, 0, err
	}
	property, err := s.properties.GetByID(ctx, id)
	if err != nil {
		return nil, 0, notFoundAs(err, resourceProperty)
	}

	if s.images == nil {
		return nil, 0, apperrors.NewInternalError(errors.New("image store not configured"))
	}
	urls, err := s.images.SaveAll(files)
	if err != nil {
		return nil, 0, apperrors.MapError(err)
	}

	all := append(append([]string{}, property.Images...), urls...)
	updated, err := s.properties.UpdateImages(ctx, id, all)
	if err != nil {
		s.images.Discard(urls)
		return nil, 0, notFoundAs(err, resourceProperty)
	}
	return updated, len(urls), nil
}

// RemoveImageInput payload.
type RemoveImageInput struct {
	ImageURL string `validate:"required"`
}

// RemoveImage detaches an image URL from the listing and deletes the stored file.
func (s *PropertyService) RemoveImage(ctx context.Context, identity *domain.Identity, id string, input RemoveImageInput) (*domain.Property, error) {
	if err := auth.EnforceOwnership(ctx, identity, s.properties, resourceProperty, id); err != nil {
		return nil, err
	}
	if err := validation.Struct(input); err != nil {
		return nil, err
	}
	property, err := s.properties.GetByID(ctx, id)
	if err != nil {
		return nil, notFoundAs(err, resourceProperty)
	}

	remaining := make([]string, 0, len(property.Images))
	removed := false
	for _, url := range property.Images {
		if url == input.ImageURL {
			removed = true
			continue
		}
		remaining = append(remaining, url)
	}
	if !removed {
		return property, nil
	}

	updated, err := s.properties.UpdateImages(ctx, id, remaining)
	if err != nil {
		return nil, notFoundAs(err, resourceProperty)
	}
	if s.images != nil {
		if err := s.images.Remove(input.ImageURL); err != nil {
			s.logger.Warn("remove image file", zap.String("url", input.ImageURL), zap.Error(err))
		}
	}
	return updated, nil
}

func trimmed(value *string) *string {
	if value == nil {
		return nil
	}
	v := strings.TrimSpace(*value)
	if v == "" {
		return nil
	}
	return &v
}
