package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/estatehub/estate-service/internal/domain"
	"github.com/estatehub/estate-service/internal/events"
	"github.com/estatehub/estate-service/internal/repository"
	apperrors "github.com/estatehub/estate-service/pkg/util"
)

type fakeUsers struct {
	mu    sync.Mutex
	users map[string]*domain.User
}

func newFakeUsers() *fakeUsers {
	return &fakeUsers{users: map[string]*domain.User{}}
}

func (f *fakeUsers) Create(_ context.Context, user *domain.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.Email == user.Email {
			return repository.ErrDuplicateEmail
		}
	}
	user.ID = uuid.NewString()
	user.CreatedAt = time.Now()
	cp := *user
	f.users[user.ID] = &cp
	return nil
}

func (f *fakeUsers) GetByID(_ context.Context, id string) (*domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	cp := *u
	return &cp, nil
}

func (f *fakeUsers) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (f *fakeUsers) UpdateRole(_ context.Context, id string, role domain.Role) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[id]
	if !ok {
		return pgx.ErrNoRows
	}
	u.Role = role
	return nil
}

type fakeProperties struct {
	mu    sync.Mutex
	props map[string]*domain.Property
	// updates counts successful Update calls.
	updates int
}

func newFakeProperties() *fakeProperties {
	return &fakeProperties{props: map[string]*domain.Property{}}
}

func (f *fakeProperties) Create(_ context.Context, p *domain.Property) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	p.ID = uuid.NewString()
	cp := *p
	f.props[p.ID] = &cp
	return nil
}

func (f *fakeProperties) GetByID(_ context.Context, id string) (*domain.Property, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.props[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	cp := *p
	return &cp, nil
}

func (f *fakeProperties) List(_ context.Context, filter repository.PropertyFilter) ([]domain.Property, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []domain.Property{}
	for _, p := range f.props {
		if filter.Status != nil && p.Status != *filter.Status {
			continue
		}
		if filter.City != nil && p.City != *filter.City {
			continue
		}
		out = append(out, *p)
	}
	return out, nil
}

func (f *fakeProperties) ListByAgent(_ context.Context, agentID string) ([]domain.Property, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []domain.Property{}
	for _, p := range f.props {
		if p.AgentID == agentID {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (f *fakeProperties) Update(_ context.Context, id string, patch domain.PropertyPatch) (*domain.Property, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.props[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	updated := patch.Apply(*p)
	f.props[id] = &updated
	f.updates++
	cp := updated
	return &cp, nil
}

func (f *fakeProperties) UpdateImages(_ context.Context, id string, images []string) (*domain.Property, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.props[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	p.Images = append([]string{}, images...)
	cp := *p
	return &cp, nil
}

func (f *fakeProperties) Delete(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.props[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(f.props, id)
	return nil
}

func (f *fakeProperties) OwnerOf(_ context.Context, id string) (string, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.props[id]
	if !ok {
		return "", false, nil
	}
	return p.AgentID, true, nil
}

func (f *fakeProperties) ref(id string) *domain.PropertyRef {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.props[id]
	if !ok {
		return nil
	}
	return &domain.PropertyRef{Title: p.Title, City: p.City, State: p.State, Location: p.Location, AgentID: p.AgentID}
}

type fakeInquiries struct {
	mu         sync.Mutex
	properties *fakeProperties
	items      map[string]*domain.Inquiry
}

func newFakeInquiries(properties *fakeProperties) *fakeInquiries {
	return &fakeInquiries{properties: properties, items: map[string]*domain.Inquiry{}}
}

func (f *fakeInquiries) Create(_ context.Context, in *domain.Inquiry) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	in.ID = uuid.NewString()
	cp := *in
	f.items[in.ID] = &cp
	return nil
}

func (f *fakeInquiries) GetByID(_ context.Context, id string) (*domain.Inquiry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	in, ok := f.items[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	cp := *in
	cp.Property = f.properties.ref(in.PropertyID)
	return &cp, nil
}

func (f *fakeInquiries) ListForAgent(_ context.Context, filter repository.InquiryFilter) ([]domain.Inquiry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []domain.Inquiry{}
	for _, in := range f.items {
		ref := f.properties.ref(in.PropertyID)
		if ref == nil || ref.AgentID != filter.AgentID {
			continue
		}
		if filter.Status != nil && in.Status != *filter.Status {
			continue
		}
		cp := *in
		cp.Property = ref
		out = append(out, cp)
	}
	return out, nil
}

func (f *fakeInquiries) UpdateStatus(_ context.Context, id string, status domain.InquiryStatus) (*domain.Inquiry, error) {
	f.mu.Lock()
	in, ok := f.items[id]
	if ok {
		in.Status = status
	}
	f.mu.Unlock()
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return f.GetByID(context.Background(), id)
}

func (f *fakeInquiries) Delete(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.items[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(f.items, id)
	return nil
}

func (f *fakeInquiries) StatsForAgent(ctx context.Context, agentID string) (domain.InquiryStats, error) {
	list, _ := f.ListForAgent(ctx, repository.InquiryFilter{AgentID: agentID})
	var stats domain.InquiryStats
	for _, in := range list {
		stats.Total++
		switch in.Status {
		case domain.InquiryStatusNew:
			stats.New++
		case domain.InquiryStatusContacted:
			stats.Contacted++
		case domain.InquiryStatusScheduled:
			stats.Scheduled++
		case domain.InquiryStatusClosed:
			stats.Closed++
		}
	}
	return stats, nil
}

func (f *fakeInquiries) OwnerOf(_ context.Context, id string) (string, bool, error) {
	f.mu.Lock()
	in, ok := f.items[id]
	f.mu.Unlock()
	if !ok {
		return "", false, nil
	}
	ref := f.properties.ref(in.PropertyID)
	if ref == nil {
		return "", false, nil
	}
	return ref.AgentID, true, nil
}

type fakeAppointments struct {
	mu         sync.Mutex
	properties *fakeProperties
	items      map[string]*domain.Appointment
}

func newFakeAppointments(properties *fakeProperties) *fakeAppointments {
	return &fakeAppointments{properties: properties, items: map[string]*domain.Appointment{}}
}

func (f *fakeAppointments) Create(_ context.Context, a *domain.Appointment) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	a.ID = uuid.NewString()
	cp := *a
	f.items[a.ID] = &cp
	return nil
}

func (f *fakeAppointments) GetByID(_ context.Context, id string) (*domain.Appointment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	a, ok := f.items[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	cp := *a
	cp.Property = f.properties.ref(a.PropertyID)
	return &cp, nil
}

func (f *fakeAppointments) ListForAgent(_ context.Context, filter repository.AppointmentFilter) ([]domain.Appointment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []domain.Appointment{}
	for _, a := range f.items {
		ref := f.properties.ref(a.PropertyID)
		if ref == nil || ref.AgentID != filter.AgentID {
			continue
		}
		if filter.Status != nil && a.Status != *filter.Status {
			continue
		}
		cp := *a
		cp.Property = ref
		out = append(out, cp)
	}
	return out, nil
}

func (f *fakeAppointments) UpdateStatus(_ context.Context, id string, status domain.AppointmentStatus) (*domain.Appointment, error) {
	f.mu.Lock()
	a, ok := f.items[id]
	if ok {
		a.Status = status
	}
	f.mu.Unlock()
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return f.GetByID(context.Background(), id)
}

func (f *fakeAppointments) Delete(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.items[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(f.items, id)
	return nil
}

func (f *fakeAppointments) StatsForAgent(ctx context.Context, agentID string) (domain.AppointmentStats, error) {
	list, _ := f.ListForAgent(ctx, repository.AppointmentFilter{AgentID: agentID})
	var stats domain.AppointmentStats
	for _, a := range list {
		stats.Total++
		switch a.Status {
		case domain.AppointmentStatusPending:
			stats.Pending++
		case domain.AppointmentStatusConfirmed:
			stats.Confirmed++
		case domain.AppointmentStatusCancelled:
			stats.Cancelled++
		case domain.AppointmentStatusCompleted:
			stats.Completed++
		}
	}
	return stats, nil
}

func (f *fakeAppointments) OwnerOf(_ context.Context, id string) (string, bool, error) {
	f.mu.Lock()
	a, ok := f.items[id]
	f.mu.Unlock()
	if !ok {
		return "", false, nil
	}
	ref := f.properties.ref(a.PropertyID)
	if ref == nil {
		return "", false, nil
	}
	return ref.AgentID, true, nil
}

// recorder captures every event published through a dispatcher.
type recorder struct {
	mu     sync.Mutex
	events []events.Event
}

func newRecorder() (*recorder, events.Dispatcher) {
	rec := &recorder{}
	dispatcher := events.NewInMemoryDispatcher()
	for _, t := range []events.EventType{
		events.EventPropertyCreated,
		events.EventPropertyDeleted,
		events.EventInquiryCreated,
		events.EventInquiryStatusChanged,
		events.EventAppointmentCreated,
		events.EventAppointmentStatusChanged,
	} {
		dispatcher.Subscribe(t, func(_ context.Context, e events.Event) error {
			rec.mu.Lock()
			defer rec.mu.Unlock()
			rec.events = append(rec.events, e)
			return nil
		})
	}
	return rec, dispatcher
}

func (r *recorder) ofType(t events.EventType) []events.Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []events.Event
	for _, e := range r.events {
		if e.Type == t {
			out = append(out, e)
		}
	}
	return out
}

func agent(id string) *domain.Identity {
	return &domain.Identity{UserID: id, Email: id + "@example.com", Role: domain.RoleAgent}
}

func seedProperty(t *testing.T, repo *fakeProperties, agentID string) *domain.Property {
	t.Helper()
	p := &domain.Property{
		AgentID:      agentID,
		Title:        "Villa",
		Location:     "1 Ocean Dr",
		City:         "Miami",
		State:        "FL",
		Price:        1500000,
		Beds:         4,
		Baths:        3,
		Sqft:         3200,
		PropertyType: domain.PropertyTypeVilla,
		YearBuilt:    2001,
		Status:       domain.PropertyStatusActive,
		Images:       []string{},
		Amenities:    []string{},
	}
	if err := repo.Create(context.Background(), p); err != nil {
		t.Fatalf("seed property: %v", err)
	}
	return p
}

func statusOf(err error) int {
	de := apperrors.ToDomainError(err)
	if de == nil {
		return 0
	}
	return de.HTTPStatus
}
