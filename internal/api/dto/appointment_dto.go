package dto

import (
	"time"

	"github.com/estatehub/estate-service/internal/domain"
)

// CreateAppointmentRequest payload.
type CreateAppointmentRequest struct {
	PropertyID    string  `json:"propertyId"`
	Name          string  `json:"name"`
	Email         string  `json:"email"`
	Phone         *string `json:"phone"`
	PreferredDate string  `json:"preferred_date"`
	PreferredTime string  `json:"preferred_time"`
	Message       *string `json:"message"`
}

// AppointmentResponse mirrors the stored row plus the parent listing summary.
type AppointmentResponse struct {
	ID               string                   `json:"id"`
	PropertyID       string                   `json:"property_id"`
	Name             string                   `json:"name"`
	Email            string                   `json:"email"`
	Phone            *string                  `json:"phone"`
	PreferredDate    string                   `json:"preferred_date"`
	PreferredTime    string                   `json:"preferred_time"`
	Message          *string                  `json:"message"`
	Status           domain.AppointmentStatus `json:"status"`
	PropertyTitle    string                   `json:"property_title,omitempty"`
	PropertyCity     string                   `json:"property_city,omitempty"`
	PropertyState    string                   `json:"property_state,omitempty"`
	PropertyLocation string                   `json:"property_location,omitempty"`
	AgentID          string                   `json:"agent_id,omitempty"`
	CreatedAt        time.Time                `json:"created_at"`
	UpdatedAt        time.Time                `json:"updated_at"`
}

// AppointmentListResponse wraps an agent's appointments.
type AppointmentListResponse struct {
	Appointments []AppointmentResponse `json:"appointments"`
	Total        int                   `json:"total"`
}

// AppointmentStatsResponse summarizes appointments by status.
type AppointmentStatsResponse struct {
	Total     int64 `json:"total_appointments"`
	Pending   int64 `json:"pending_appointments"`
	Confirmed int64 `json:"confirmed_appointments"`
	Cancelled int64 `json:"cancelled_appointments"`
	Completed int64 `json:"completed_appointments"`
	Upcoming  int64 `json:"upcoming_appointments"`
}

// NewAppointmentResponse maps a domain appointment.
func NewAppointmentResponse(a *domain.Appointment) AppointmentResponse {
	resp := AppointmentResponse{
		ID:            a.ID,
		PropertyID:    a.PropertyID,
		Name:          a.Name,
		Email:         a.Email,
		Phone:         a.Phone,
		PreferredDate: a.PreferredDate.Format("2006-01-02"),
		PreferredTime: a.PreferredTime,
		Message:       a.Message,
		Status:        a.Status,
		CreatedAt:     a.CreatedAt,
		UpdatedAt:     a.UpdatedAt,
	}
	if ref := a.Property; ref != nil {
		resp.PropertyTitle = ref.Title
		resp.PropertyCity = ref.City
		resp.PropertyState = ref.State
		resp.PropertyLocation = ref.Location
		resp.AgentID = ref.AgentID
	}
	return resp
}

// NewAppointmentList maps an agent's appointments.
func NewAppointmentList(items []domain.Appointment) AppointmentListResponse {
	out := make([]AppointmentResponse, 0, len(items))
	for i := range items {
		out = append(out, NewAppointmentResponse(&items[i]))
	}
	return AppointmentListResponse{Appointments: out, Total: len(out)}
}

// NewAppointmentStats maps appointment counters.
func NewAppointmentStats(s domain.AppointmentStats) AppointmentStatsResponse {
	return AppointmentStatsResponse{
		Total:     s.Total,
		Pending:   s.Pending,
		Confirmed: s.Confirmed,
		Cancelled: s.Cancelled,
		Completed: s.Completed,
		Upcoming:  s.Upcoming,
	}
}
