package dto

import (
	"time"

	"github.com/estatehub/estate-service/internal/domain"
)

// CreateInquiryRequest payload.
type CreateInquiryRequest struct {
	PropertyID string  `json:"propertyId"`
	Name       string  `json:"name"`
	Email      string  `json:"email"`
	Phone      *string `json:"phone"`
	Message    string  `json:"message"`
}

// UpdateStatusRequest is shared by inquiries and appointments.
type UpdateStatusRequest struct {
	Status string `json:"status"`
}

// InquiryResponse mirrors the stored row plus the parent listing summary.
type InquiryResponse struct {
	ID               string               `json:"id"`
	PropertyID       string               `json:"property_id"`
	Name             string               `json:"name"`
	Email            string               `json:"email"`
	Phone            *string              `json:"phone"`
	Message          string               `json:"message"`
	Status           domain.InquiryStatus `json:"status"`
	PropertyTitle    string               `json:"property_title,omitempty"`
	PropertyCity     string               `json:"property_city,omitempty"`
	PropertyState    string               `json:"property_state,omitempty"`
	PropertyLocation string               `json:"property_location,omitempty"`
	AgentID          string               `json:"agent_id,omitempty"`
	CreatedAt        time.Time            `json:"created_at"`
	UpdatedAt        time.Time            `json:"updated_at"`
}

// InquiryListResponse wraps an agent's inquiries.
type InquiryListResponse struct {
	Inquiries []InquiryResponse `json:"inquiries"`
	Total     int               `json:"total"`
}

// InquiryStatsResponse summarizes inquiries by status.
type InquiryStatsResponse struct {
	Total     int64 `json:"total_inquiries"`
	New       int64 `json:"new_inquiries"`
	Contacted int64 `json:"contacted_inquiries"`
	Scheduled int64 `json:"scheduled_inquiries"`
	Closed    int64 `json:"closed_inquiries"`
}

// NewInquiryResponse maps a domain inquiry.
func NewInquiryResponse(in *domain.Inquiry) InquiryResponse {
	resp := InquiryResponse{
		ID:         in.ID,
		PropertyID: in.PropertyID,
		Name:       in.Name,
		Email:      in.Email,
		Phone:      in.Phone,
		Message:    in.Message,
		Status:     in.Status,
		CreatedAt:  in.CreatedAt,
		UpdatedAt:  in.UpdatedAt,
	}
	if ref := in.Property; ref != nil {
		resp.PropertyTitle = ref.Title
		resp.PropertyCity = ref.City
		resp.PropertyState = ref.State
		resp.PropertyLocation = ref.Location
		resp.AgentID = ref.AgentID
	}
	return resp
}

// NewInquiryList maps an agent's inquiries.
func NewInquiryList(items []domain.Inquiry) InquiryListResponse {
	out := make([]InquiryResponse, 0, len(items))
	for i := range items {
		out = append(out, NewInquiryResponse(&items[i]))
	}
	return InquiryListResponse{Inquiries: out, Total: len(out)}
}

// NewInquiryStats maps inquiry counters.
func NewInquiryStats(s domain.InquiryStats) InquiryStatsResponse {
	return InquiryStatsResponse{
		Total:     s.Total,
		New:       s.New,
		Contacted: s.Contacted,
		Scheduled: s.Scheduled,
		Closed:    s.Closed,
	}
}
