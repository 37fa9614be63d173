package domain

import "time"

// PropertyStatus enumerates listing lifecycle states.
type PropertyStatus string

const (
	PropertyStatusDraft   PropertyStatus = "draft"
	PropertyStatusActive  PropertyStatus = "active"
	PropertyStatusPending PropertyStatus = "pending"
	PropertyStatusSold    PropertyStatus = "sold"
)

func (s PropertyStatus) Valid() bool {
	switch s {
	case PropertyStatusDraft, PropertyStatusActive, PropertyStatusPending, PropertyStatusSold:
		return true
	default:
		return false
	}
}

// PropertyType enumerates the kinds of listings.
type PropertyType string

const (
	PropertyTypeHouse     PropertyType = "house"
	PropertyTypePenthouse PropertyType = "penthouse"
	PropertyTypeVilla     PropertyType = "villa"
	PropertyTypeEstate    PropertyType = "estate"
	PropertyTypeLoft      PropertyType = "loft"
)

func (t PropertyType) Valid() bool {
	switch t {
	case PropertyTypeHouse, PropertyTypePenthouse, PropertyTypeVilla, PropertyTypeEstate, PropertyTypeLoft:
		return true
	default:
		return false
	}
}

// AgentSummary is the public contact card attached to a listing.
type AgentSummary struct {
	ID        string
	FirstName string
	LastName  string
	Email     string
	Phone     *string
	AvatarURL *string
}

// Property is a listing owned by exactly one agent.
type Property struct {
	ID           string
	AgentID      string
	Title        string
	Description  *string
	Location     string
	City         string
	State        string
	Price        float64
	Beds         int
	Baths        int
	Sqft         int
	PropertyType PropertyType
	YearBuilt    int
	Status       PropertyStatus
	Featured     bool
	Images       []string
	Amenities    []string
	Latitude     *float64
	Longitude    *float64
	Address      *string
	ZipCode      *string
	Agent        *AgentSummary
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// PropertyPatch carries the subset of fields supplied to a partial update.
// Nil fields are left untouched.
type PropertyPatch struct {
	Title        *string
	Description  *string
	Location     *string
	City         *string
	State        *string
	Price        *float64
	Beds         *int
	Baths        *int
	Sqft         *int
	PropertyType *PropertyType
	YearBuilt    *int
	Status       *PropertyStatus
	Featured     *bool
	Amenities    *[]string
	Latitude     *float64
	Longitude    *float64
	Address      *string
	ZipCode      *string
}

// Empty reports whether no field was supplied.
func (p PropertyPatch) Empty() bool {
	return p.Title == nil && p.Description == nil && p.Location == nil && p.City == nil &&
		p.State == nil && p.Price == nil && p.Beds == nil && p.Baths == nil && p.Sqft == nil &&
		p.PropertyType == nil && p.YearBuilt == nil && p.Status == nil && p.Featured == nil &&
		p.Amenities == nil && p.Latitude == nil && p.Longitude == nil && p.Address == nil &&
		p.ZipCode == nil
}

// Apply returns a copy of prop with the supplied fields overwritten.
func (p PropertyPatch) Apply(prop Property) Property {
	if p.Title != nil {
		prop.Title = *p.Title
	}
	if p.Description != nil {
		prop.Description = p.Description
	}
	if p.Location != nil {
		prop.Location = *p.Location
	}
	if p.City != nil {
		prop.City = *p.City
	}
	if p.State != nil {
		prop.State = *p.State
	}
	if p.Price != nil {
		prop.Price = *p.Price
	}
	if p.Beds != nil {
		prop.Beds = *p.Beds
	}
	if p.Baths != nil {
		prop.Baths = *p.Baths
	}
	if p.Sqft != nil {
		prop.Sqft = *p.Sqft
	}
	if p.PropertyType != nil {
		prop.PropertyType = *p.PropertyType
	}
	if p.YearBuilt != nil {
		prop.YearBuilt = *p.YearBuilt
	}
	if p.Status != nil {
		prop.Status = *p.Status
	}
	if p.Featured != nil {
		prop.Featured = *p.Featured
	}
	if p.Amenities != nil {
		prop.Amenities = append([]string(nil), (*p.Amenities)...)
	}
	if p.Latitude != nil {
		prop.Latitude = p.Latitude
	}
	if p.Longitude != nil {
		prop.Longitude = p.Longitude
	}
	if p.Address != nil {
		prop.Address = p.Address
	}
	if p.ZipCode != nil {
		prop.ZipCode = p.ZipCode
	}
	return prop
}
