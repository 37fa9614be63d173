package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	nethttp "net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/estatehub/estate-service/internal/api/http/handlers"
	"github.com/estatehub/estate-service/internal/auth"
	"github.com/estatehub/estate-service/internal/domain"
	"github.com/estatehub/estate-service/internal/observability"
	"github.com/estatehub/estate-service/internal/repository"
	"github.com/estatehub/estate-service/internal/service"
)

type memProperties struct {
	mu    sync.Mutex
	items map[string]domain.Property
}

func (m *memProperties) Create(_ context.Context, p *domain.Property) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	p.ID = uuid.NewString()
	p.CreatedAt = time.Now()
	p.UpdatedAt = p.CreatedAt
	m.items[p.ID] = *p
	return nil
}

func (m *memProperties) GetByID(_ context.Context, id string) (*domain.Property, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.items[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return &p, nil
}

func (m *memProperties) List(_ context.Context, _ repository.PropertyFilter) ([]domain.Property, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []domain.Property{}
	for _, p := range m.items {
		out = append(out, p)
	}
	return out, nil
}

func (m *memProperties) ListByAgent(ctx context.Context, agentID string) ([]domain.Property, error) {
	all, _ := m.List(ctx, repository.PropertyFilter{})
	out := []domain.Property{}
	for _, p := range all {
		if p.AgentID == agentID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (m *memProperties) Update(_ context.Context, id string, patch domain.PropertyPatch) (*domain.Property, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.items[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	p = patch.Apply(p)
	m.items[id] = p
	return &p, nil
}

func (m *memProperties) UpdateImages(_ context.Context, id string, images []string) (*domain.Property, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.items[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	p.Images = images
	m.items[id] = p
	return &p, nil
}

func (m *memProperties) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.items[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(m.items, id)
	return nil
}

func (m *memProperties) OwnerOf(_ context.Context, id string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.items[id]
	return p.AgentID, ok, nil
}

type pingerFunc func(context.Context) error

func (f pingerFunc) Ping(ctx context.Context) error { return f(ctx) }

type testServer struct {
	app    *fiber.App
	tokens *auth.TokenManager
}

func newTestServer(t *testing.T, deps map[string]handlers.Pinger) *testServer {
	t.Helper()
	tokens := auth.NewTokenManager("router-test-secret", time.Hour)
	metrics := observability.NewMetrics(prometheus.NewRegistry())
	properties := &memProperties{items: map[string]domain.Property{}}

	app := NewApp(AppConfig{Name: "estate-test", BodyLimit: 1 << 20, Metrics: metrics})
	RegisterRoutes(app, RouteConfig{
		Health:       handlers.NewHealthHandler("estate-test", "test", deps),
		Users:        handlers.NewUsersHandler(nil),
		Properties:   handlers.NewPropertiesHandler(service.NewPropertyService(service.PropertyDependencies{PropertyRepo: properties})),
		Inquiries:    handlers.NewInquiriesHandler(service.NewInquiryService(nil, properties, nil)),
		Appointments: handlers.NewAppointmentsHandler(service.NewAppointmentService(nil, properties, nil, nil)),
		Gate:         auth.NewGate(tokens, metrics),
	})
	return &testServer{app: app, tokens: tokens}
}

func (s *testServer) token(t *testing.T, userID string, role domain.Role) string {
	t.Helper()
	tok, _, err := s.tokens.Issue(userID, userID+"@example.com", role)
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}
	return tok
}

func (s *testServer) do(t *testing.T, method, path, token string, body any) (int, map[string]any) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal: %v", err)
		}
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := s.app.Test(req, -1)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	defer resp.Body.Close()
	out := map[string]any{}
	_ = json.NewDecoder(resp.Body).Decode(&out)
	return resp.StatusCode, out
}

func newListing() map[string]any {
	return map[string]any{
		"title":        "Harbor Penthouse",
		"location":     "9 Pier Rd",
		"city":         "Seattle",
		"state":        "WA",
		"price":        2100000,
		"beds":         3,
		"baths":        2,
		"sqft":         2400,
		"propertyType": "penthouse",
		"yearBuilt":    2019,
		"status":       "active",
	}
}

func TestGateStatusCodes(t *testing.T) {
	srv := newTestServer(t, nil)

	status, body := srv.do(t, nethttp.MethodGet, "/api/properties/agent/my-properties", "", nil)
	if status != nethttp.StatusUnauthorized || body["message"] != "No token provided" {
		t.Fatalf("missing token: got %d %v", status, body)
	}
	if body["error"] != "Unauthorized" || body["code"] != "UNAUTHORIZED" {
		t.Fatalf("unexpected envelope %v", body)
	}

	status, body = srv.do(t, nethttp.MethodGet, "/api/properties/agent/my-properties", "not.a.jwt", nil)
	if status != nethttp.StatusForbidden || body["message"] != "Invalid or expired token" {
		t.Fatalf("bad token: got %d %v", status, body)
	}

	buyer := srv.token(t, "buyer-1", domain.RoleUser)
	status, body = srv.do(t, nethttp.MethodGet, "/api/properties/agent/my-properties", buyer, nil)
	if status != nethttp.StatusForbidden || body["message"] != "Access denied. Required role: agent or admin" {
		t.Fatalf("wrong role: got %d %v", status, body)
	}

	agentTok := srv.token(t, "agent-a", domain.RoleAgent)
	status, body = srv.do(t, nethttp.MethodGet, "/api/properties/agent/my-properties", agentTok, nil)
	if status != nethttp.StatusOK {
		t.Fatalf("agent: got %d %v", status, body)
	}
	if body["count"] != float64(0) {
		t.Fatalf("expected empty list, got %v", body)
	}
}

func TestPropertyOwnershipOverHTTP(t *testing.T) {
	srv := newTestServer(t, nil)
	ownerTok := srv.token(t, "agent-a", domain.RoleAgent)
	otherTok := srv.token(t, "agent-b", domain.RoleAgent)

	status, body := srv.do(t, nethttp.MethodPost, "/api/properties", ownerTok, newListing())
	if status != nethttp.StatusCreated {
		t.Fatalf("create: got %d %v", status, body)
	}
	created := body["property"].(map[string]any)
	id := created["id"].(string)
	path := "/api/properties/" + id

	status, body = srv.do(t, nethttp.MethodPut, path, otherTok, map[string]any{"title": "Mine now"})
	if status != nethttp.StatusForbidden {
		t.Fatalf("non-owner update: got %d %v", status, body)
	}

	status, body = srv.do(t, nethttp.MethodGet, path, "", nil)
	if status != nethttp.StatusOK {
		t.Fatalf("public get: got %d %v", status, body)
	}
	if title := body["property"].(map[string]any)["title"]; title != "Harbor Penthouse" {
		t.Fatalf("property changed by non-owner: %v", title)
	}

	status, body = srv.do(t, nethttp.MethodPut, path, ownerTok, map[string]any{})
	if status != nethttp.StatusBadRequest || body["code"] != "NO_UPDATES" {
		t.Fatalf("empty update: got %d %v", status, body)
	}

	status, body = srv.do(t, nethttp.MethodPut, path, ownerTok, map[string]any{"beds": 4})
	if status != nethttp.StatusOK {
		t.Fatalf("owner update: got %d %v", status, body)
	}
	updated := body["property"].(map[string]any)
	if updated["beds"] != float64(4) || updated["title"] != "Harbor Penthouse" {
		t.Fatalf("unexpected partial update %v", updated)
	}

	status, _ = srv.do(t, nethttp.MethodDelete, path, otherTok, nil)
	if status != nethttp.StatusForbidden {
		t.Fatalf("non-owner delete: got %d", status)
	}
	status, _ = srv.do(t, nethttp.MethodDelete, path, ownerTok, nil)
	if status != nethttp.StatusOK {
		t.Fatalf("owner delete: got %d", status)
	}
	status, body = srv.do(t, nethttp.MethodGet, path, "", nil)
	if status != nethttp.StatusNotFound || body["message"] != "Property not found" {
		t.Fatalf("after delete: got %d %v", status, body)
	}
}

func TestValidationEnvelope(t *testing.T) {
	srv := newTestServer(t, nil)
	ownerTok := srv.token(t, "agent-a", domain.RoleAgent)
	listing := newListing()
	listing["propertyType"] = "castle"

	status, body := srv.do(t, nethttp.MethodPost, "/api/properties", ownerTok, listing)
	if status != nethttp.StatusBadRequest || body["code"] != "VALIDATION_FAILED" {
		t.Fatalf("got %d %v", status, body)
	}
	details := body["details"].(map[string]any)
	fields := details["fields"].(map[string]any)
	if _, ok := fields["propertyType"]; !ok {
		t.Fatalf("expected propertyType field error, got %v", fields)
	}

	status, body = srv.do(t, nethttp.MethodGet, "/api/properties?minPrice=cheap", "", nil)
	if status != nethttp.StatusBadRequest {
		t.Fatalf("bad query: got %d %v", status, body)
	}
}

func TestUnknownRoute(t *testing.T) {
	srv := newTestServer(t, nil)
	status, body := srv.do(t, nethttp.MethodGet, "/api/nothing-here", "", nil)
	if status != nethttp.StatusNotFound {
		t.Fatalf("got %d", status)
	}
	if body["message"] != "Route GET /api/nothing-here not found" {
		t.Fatalf("unexpected message %v", body["message"])
	}
}

func TestHealthEndpoints(t *testing.T) {
	srv := newTestServer(t, map[string]handlers.Pinger{
		"postgres": pingerFunc(func(context.Context) error { return nil }),
		"redis":    pingerFunc(func(context.Context) error { return errors.New("connection refused") }),
	})

	status, body := srv.do(t, nethttp.MethodGet, "/api/health", "", nil)
	if status != nethttp.StatusOK || body["status"] != "ok" {
		t.Fatalf("api health: got %d %v", status, body)
	}

	status, body = srv.do(t, nethttp.MethodGet, "/health/ready", "", nil)
	if status != nethttp.StatusServiceUnavailable {
		t.Fatalf("ready: got %d %v", status, body)
	}
	details := body["details"].(map[string]any)
	if details["postgres"] != "ok" || details["redis"] != "connection refused" {
		t.Fatalf("unexpected dependency status %v", details)
	}
}
