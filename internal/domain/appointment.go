package domain

import "time"

// AppointmentStatus enumerates viewing request states.
type AppointmentStatus string

const (
	AppointmentStatusPending   AppointmentStatus = "pending"
	AppointmentStatusConfirmed AppointmentStatus = "confirmed"
	AppointmentStatusCancelled AppointmentStatus = "cancelled"
	AppointmentStatusCompleted AppointmentStatus = "completed"
)

func (s AppointmentStatus) Valid() bool {
	switch s {
	case AppointmentStatusPending, AppointmentStatusConfirmed, AppointmentStatusCancelled, AppointmentStatusCompleted:
		return true
	default:
		return false
	}
}

// Appointment is a viewing request for a property.
type Appointment struct {
	ID            string
	PropertyID    string
	Name          string
	Email         string
	Phone         *string
	PreferredDate time.Time
	PreferredTime string
	Message       *string
	Status        AppointmentStatus
	Property      *PropertyRef
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// AppointmentStats summarizes an agent's appointments by status.
type AppointmentStats struct {
	Total     int64
	Pending   int64
	Confirmed int64
	Cancelled int64
	Completed int64
	Upcoming  int64
}
