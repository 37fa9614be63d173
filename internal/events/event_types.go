package events

import "time"

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventPropertyCreated          EventType = "property_created"
	EventPropertyDeleted          EventType = "property_deleted"
	EventInquiryCreated           EventType = "inquiry_created"
	EventInquiryStatusChanged     EventType = "inquiry_status_changed"
	EventAppointmentCreated       EventType = "appointment_created"
	EventAppointmentStatusChanged EventType = "appointment_status_changed"
)

// Event represents a domain event emitted by services. AgentID is the agent
// that owns the affected resource and receives the notification.
type Event struct {
	ID         string      `json:"id"`
	Type       EventType   `json:"type"`
	ResourceID string      `json:"resource_id"`
	AgentID    string      `json:"agent_id"`
	ActorID    *string     `json:"actor_id,omitempty"`
	Timestamp  time.Time   `json:"timestamp"`
	Payload    interface{} `json:"payload"`
}

// PropertyPayload payload.
type PropertyPayload struct {
	Title  string `json:"title"`
	City   string `json:"city"`
	Status string `json:"status"`
}

// InquiryCreatedPayload payload.
type InquiryCreatedPayload struct {
	PropertyID    string `json:"property_id"`
	PropertyTitle string `json:"property_title"`
	Name          string `json:"name"`
	Email         string `json:"email"`
}

// AppointmentCreatedPayload payload.
type AppointmentCreatedPayload struct {
	PropertyID    string `json:"property_id"`
	PropertyTitle string `json:"property_title"`
	Name          string `json:"name"`
	Email         string `json:"email"`
	PreferredDate string `json:"preferred_date"`
	PreferredTime string `json:"preferred_time"`
}

// StatusChangedPayload payload.
type StatusChangedPayload struct {
	OldStatus string `json:"old_status"`
	NewStatus string `json:"new_status"`
}
