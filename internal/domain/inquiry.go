package domain

import "time"

// InquiryStatus enumerates the follow-up states of a buyer inquiry.
type InquiryStatus string

const (
	InquiryStatusNew       InquiryStatus = "new"
	InquiryStatusContacted InquiryStatus = "contacted"
	InquiryStatusScheduled InquiryStatus = "scheduled"
	InquiryStatusClosed    InquiryStatus = "closed"
)

func (s InquiryStatus) Valid() bool {
	switch s {
	case InquiryStatusNew, InquiryStatusContacted, InquiryStatusScheduled, InquiryStatusClosed:
		return true
	default:
		return false
	}
}

// PropertyRef is the slice of the parent listing shown alongside inquiries and appointments.
type PropertyRef struct {
	Title    string
	City     string
	State    string
	Location string
	AgentID  string
}

// Inquiry is a message from a prospective buyer about a property.
type Inquiry struct {
	ID         string
	PropertyID string
	Name       string
	Email      string
	Phone      *string
	Message    string
	Status     InquiryStatus
	Property   *PropertyRef
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// InquiryStats summarizes an agent's inquiries by status.
type InquiryStats struct {
	Total     int64
	New       int64
	Contacted int64
	Scheduled int64
	Closed    int64
}
