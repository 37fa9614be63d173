package dto

import (
	"time"

	"github.com/estatehub/estate-service/internal/domain"
)

// CreatePropertyRequest payload.
type CreatePropertyRequest struct {
	Title        string   `json:"title"`
	Description  *string  `json:"description"`
	Location     string   `json:"location"`
	City         string   `json:"city"`
	State        string   `json:"state"`
	Price        float64  `json:"price"`
	Beds         int      `json:"beds"`
	Baths        int      `json:"baths"`
	Sqft         int      `json:"sqft"`
	PropertyType string   `json:"propertyType"`
	YearBuilt    int      `json:"yearBuilt"`
	Status       string   `json:"status"`
	Featured     bool     `json:"featured"`
	Amenities    []string `json:"amenities"`
	Latitude     *float64 `json:"latitude"`
	Longitude    *float64 `json:"longitude"`
	Address      *string  `json:"address"`
	ZipCode      *string  `json:"zipCode"`
}

// UpdatePropertyRequest payload; absent fields stay nil.
type UpdatePropertyRequest struct {
	Title        *string   `json:"title"`
	Description  *string   `json:"description"`
	Location     *string   `json:"location"`
	City         *string   `json:"city"`
	State        *string   `json:"state"`
	Price        *float64  `json:"price"`
	Beds         *int      `json:"beds"`
	Baths        *int      `json:"baths"`
	Sqft         *int      `json:"sqft"`
	PropertyType *string   `json:"propertyType"`
	YearBuilt    *int      `json:"yearBuilt"`
	Status       *string   `json:"status"`
	Featured     *bool     `json:"featured"`
	Amenities    *[]string `json:"amenities"`
	Latitude     *float64  `json:"latitude"`
	Longitude    *float64  `json:"longitude"`
	Address      *string   `json:"address"`
	ZipCode      *string   `json:"zipCode"`
}

// RemoveImageRequest payload.
type RemoveImageRequest struct {
	ImageURL string `json:"imageUrl"`
}

// AgentResponse is the contact card embedded in a listing.
type AgentResponse struct {
	ID        string  `json:"id"`
	FirstName string  `json:"firstName"`
	LastName  string  `json:"lastName"`
	Email     string  `json:"email"`
	Phone     *string `json:"phone"`
	Avatar    *string `json:"avatar"`
}

// PropertyResponse is the public listing representation.
type PropertyResponse struct {
	ID           string                `json:"id"`
	AgentID      string                `json:"agentId"`
	Title        string                `json:"title"`
	Description  *string               `json:"description"`
	Location     string                `json:"location"`
	City         string                `json:"city"`
	State        string                `json:"state"`
	Price        float64               `json:"price"`
	Beds         int                   `json:"beds"`
	Baths        int                   `json:"baths"`
	Sqft         int                   `json:"sqft"`
	PropertyType domain.PropertyType   `json:"propertyType"`
	YearBuilt    int                   `json:"yearBuilt"`
	Status       domain.PropertyStatus `json:"status"`
	Featured     bool                  `json:"featured"`
	Images       []string              `json:"images"`
	Amenities    []string              `json:"amenities"`
	Latitude     *float64              `json:"latitude"`
	Longitude    *float64              `json:"longitude"`
	Address      *string               `json:"address"`
	ZipCode      *string               `json:"zipCode"`
	Agent        *AgentResponse        `json:"agent,omitempty"`
	CreatedAt    time.Time             `json:"createdAt"`
	UpdatedAt    time.Time             `json:"updatedAt"`
}

// PropertyListResponse is one page of public listings.
type PropertyListResponse struct {
	Properties []PropertyResponse `json:"properties"`
	Count      int                `json:"count"`
	Limit      int                `json:"limit"`
	Offset     int                `json:"offset"`
}

// ImagesResponse is returned after images are added or removed.
type ImagesResponse struct {
	Message       string   `json:"message"`
	Images        []string `json:"images"`
	UploadedCount *int     `json:"uploadedCount,omitempty"`
}

// NewPropertyResponse maps a domain listing.
func NewPropertyResponse(p *domain.Property) PropertyResponse {
	resp := PropertyResponse{
		ID:           p.ID,
		AgentID:      p.AgentID,
		Title:        p.Title,
		Description:  p.Description,
		Location:     p.Location,
		City:         p.City,
		State:        p.State,
		Price:        p.Price,
		Beds:         p.Beds,
		Baths:        p.Baths,
		Sqft:         p.Sqft,
		PropertyType: p.PropertyType,
		YearBuilt:    p.YearBuilt,
		Status:       p.Status,
		Featured:     p.Featured,
		Images:       nonNil(p.Images),
		Amenities:    nonNil(p.Amenities),
		Latitude:     p.Latitude,
		Longitude:    p.Longitude,
		Address:      p.Address,
		ZipCode:      p.ZipCode,
		CreatedAt:    p.CreatedAt,
		UpdatedAt:    p.UpdatedAt,
	}
	if p.Agent != nil {
		resp.Agent = &AgentResponse{
			ID:        p.Agent.ID,
			FirstName: p.Agent.FirstName,
			LastName:  p.Agent.LastName,
			Email:     p.Agent.Email,
			Phone:     p.Agent.Phone,
			Avatar:    p.Agent.AvatarURL,
		}
	}
	return resp
}

// NewPropertyResponses maps a slice of listings.
func NewPropertyResponses(items []domain.Property) []PropertyResponse {
	out := make([]PropertyResponse, 0, len(items))
	for i := range items {
		out = append(out, NewPropertyResponse(&items[i]))
	}
	return out
}

func nonNil(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}
