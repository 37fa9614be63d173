package service

import (
	"context"
	"mime/multipart"
	"net/http"
	"testing"

	"github.com/google/uuid"

	"github.com/estatehub/estate-service/internal/domain"
	"github.com/estatehub/estate-service/internal/events"
	apperrors "github.com/estatehub/estate-service/pkg/util"
)

func newPropertyServiceForTest() (*PropertyService, *fakeProperties, *recorder) {
	repo := newFakeProperties()
	rec, dispatcher := newRecorder()
	svc := NewPropertyService(PropertyDependencies{PropertyRepo: repo, Dispatcher: dispatcher})
	return svc, repo, rec
}

func validCreateInput() CreatePropertyInput {
	return CreatePropertyInput{
		Title:        "Modern Loft",
		Location:     "200 Main St",
		City:         "Austin",
		State:        "TX",
		Price:        650000,
		Beds:         2,
		Baths:        2,
		Sqft:         1400,
		PropertyType: "loft",
		YearBuilt:    2015,
	}
}

func TestPropertyCreate_DefaultsToDraftAndPublishes(t *testing.T) {
	svc, _, rec := newPropertyServiceForTest()
	caller := agent("agent-a")

	p, err := svc.Create(context.Background(), caller, validCreateInput())
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if p.Status != domain.PropertyStatusDraft {
		t.Fatalf("expected draft status, got %s", p.Status)
	}
	if p.AgentID != "agent-a" {
		t.Fatalf("expected owner agent-a, got %s", p.AgentID)
	}
	if p.Images == nil || p.Amenities == nil {
		t.Fatalf("expected empty image and amenity lists")
	}
	created := rec.ofType(events.EventPropertyCreated)
	if len(created) != 1 || created[0].AgentID != "agent-a" {
		t.Fatalf("expected one property_created event for agent-a, got %+v", created)
	}
}

func TestPropertyCreate_RejectsInvalidPayload(t *testing.T) {
	svc, _, _ := newPropertyServiceForTest()
	input := validCreateInput()
	input.Price = 0
	input.PropertyType = "castle"

	_, err := svc.Create(context.Background(), agent("agent-a"), input)
	if !apperrors.HasCode(err, "VALIDATION_FAILED") {
		t.Fatalf("expected validation failure, got %v", err)
	}
	fields := apperrors.ToDomainError(err).Details["fields"].(map[string]string)
	if _, ok := fields["price"]; !ok {
		t.Fatalf("expected price in failing fields, got %v", fields)
	}
	if _, ok := fields["propertyType"]; !ok {
		t.Fatalf("expected propertyType in failing fields, got %v", fields)
	}
}

func TestPropertyUpdate_NonOwnerIsForbiddenAndNothingChanges(t *testing.T) {
	svc, repo, _ := newPropertyServiceForTest()
	p := seedProperty(t, repo, "agent-a")
	title := "Hijacked"

	_, err := svc.Update(context.Background(), agent("agent-b"), p.ID, UpdatePropertyInput{Title: &title})
	if statusOf(err) != http.StatusForbidden {
		t.Fatalf("expected 403, got %v", err)
	}
	stored, _ := repo.GetByID(context.Background(), p.ID)
	if stored.Title != "Villa" || repo.updates != 0 {
		t.Fatalf("property changed by non-owner: %+v", stored)
	}
}

func TestPropertyUpdate_OwnershipCheckedBeforeValidation(t *testing.T) {
	svc, repo, _ := newPropertyServiceForTest()
	p := seedProperty(t, repo, "agent-a")
	bad := -5

	_, err := svc.Update(context.Background(), agent("agent-b"), p.ID, UpdatePropertyInput{Beds: &bad})
	if statusOf(err) != http.StatusForbidden {
		t.Fatalf("expected 403 before validation, got %v", err)
	}
	_, err = svc.Update(context.Background(), agent("agent-a"), p.ID, UpdatePropertyInput{Beds: &bad})
	if !apperrors.HasCode(err, "VALIDATION_FAILED") {
		t.Fatalf("expected validation failure for owner, got %v", err)
	}
}

func TestPropertyUpdate_PartialAndEmpty(t *testing.T) {
	svc, repo, _ := newPropertyServiceForTest()
	p := seedProperty(t, repo, "agent-a")
	price := 1250000.0

	updated, err := svc.Update(context.Background(), agent("agent-a"), p.ID, UpdatePropertyInput{Price: &price})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Price != price || updated.Title != "Villa" || updated.Beds != 4 {
		t.Fatalf("unexpected partial update result: %+v", updated)
	}

	_, err = svc.Update(context.Background(), agent("agent-a"), p.ID, UpdatePropertyInput{})
	if !apperrors.HasCode(err, "NO_UPDATES") {
		t.Fatalf("expected NO_UPDATES, got %v", err)
	}
}

func TestPropertyUpdate_AdminMayEditAnyListing(t *testing.T) {
	svc, repo, _ := newPropertyServiceForTest()
	p := seedProperty(t, repo, "agent-a")
	featured := true
	admin := &domain.Identity{UserID: "root", Role: domain.RoleAdmin}

	updated, err := svc.Update(context.Background(), admin, p.ID, UpdatePropertyInput{Featured: &featured})
	if err != nil {
		t.Fatalf("admin update: %v", err)
	}
	if !updated.Featured {
		t.Fatalf("expected featured flag set")
	}
}

func TestPropertyMissingIDIsNotFound(t *testing.T) {
	svc, _, _ := newPropertyServiceForTest()
	missing := uuid.NewString()
	title := "x"
	ctx := context.Background()

	if _, err := svc.Get(ctx, missing); statusOf(err) != http.StatusNotFound {
		t.Fatalf("get: expected 404, got %v", err)
	}
	if _, err := svc.Update(ctx, agent("agent-a"), missing, UpdatePropertyInput{Title: &title}); statusOf(err) != http.StatusNotFound {
		t.Fatalf("update: expected 404, got %v", err)
	}
	if err := svc.Delete(ctx, agent("agent-a"), missing); statusOf(err) != http.StatusNotFound {
		t.Fatalf("delete: expected 404, got %v", err)
	}
	if _, err := svc.Get(ctx, "not-a-uuid"); statusOf(err) != http.StatusNotFound {
		t.Fatalf("malformed id: expected 404, got %v", err)
	}
}

func TestPropertyList_DefaultsToActive(t *testing.T) {
	svc, repo, _ := newPropertyServiceForTest()
	seedProperty(t, repo, "agent-a")
	draft := &domain.Property{AgentID: "agent-a", Title: "Draft", Status: domain.PropertyStatusDraft}
	_ = repo.Create(context.Background(), draft)

	page, err := svc.List(context.Background(), PropertyListInput{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(page.Properties) != 1 || page.Properties[0].Status != domain.PropertyStatusActive {
		t.Fatalf("expected only the active listing, got %+v", page.Properties)
	}
	if page.Limit != defaultPropertyLimit || page.Offset != 0 {
		t.Fatalf("unexpected paging: %d/%d", page.Limit, page.Offset)
	}

	mine, err := svc.ListMine(context.Background(), agent("agent-a"))
	if err != nil {
		t.Fatalf("list mine: %v", err)
	}
	if len(mine) != 2 {
		t.Fatalf("expected both listings for owner, got %d", len(mine))
	}
}

func TestPropertyList_LimitBounds(t *testing.T) {
	svc, repo, _ := newPropertyServiceForTest()
	seedProperty(t, repo, "agent-a")

	for _, limit := range []int{0, 101, 200} {
		limit := limit
		if _, err := svc.List(context.Background(), PropertyListInput{Limit: &limit}); statusOf(err) != http.StatusBadRequest {
			t.Fatalf("limit %d: expected 400, got %v", limit, err)
		}
	}

	limit := 100
	page, err := svc.List(context.Background(), PropertyListInput{Limit: &limit})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if page.Limit != 100 {
		t.Fatalf("expected limit 100, got %d", page.Limit)
	}
}

type fakeImages struct {
	discarded []string
	removed   []string
}

func (f *fakeImages) SaveAll(files []*multipart.FileHeader) ([]string, error) {
	urls := make([]string, 0, len(files))
	for _, fh := range files {
		urls = append(urls, "/uploads/properties/"+fh.Filename)
	}
	return urls, nil
}

func (f *fakeImages) Discard(urls []string) { f.discarded = append(f.discarded, urls...) }

func (f *fakeImages) Remove(url string) error {
	f.removed = append(f.removed, url)
	return nil
}

func TestPropertyImages_UploadRemoveDelete(t *testing.T) {
	repo := newFakeProperties()
	images := &fakeImages{}
	rec, dispatcher := newRecorder()
	svc := NewPropertyService(PropertyDependencies{PropertyRepo: repo, Images: images, Dispatcher: dispatcher})
	p := seedProperty(t, repo, "agent-a")
	owner := agent("agent-a")
	ctx := context.Background()

	files := []*multipart.FileHeader{{Filename: "front.jpg"}, {Filename: "pool.png"}}
	if _, _, err := svc.UploadImages(ctx, agent("agent-b"), p.ID, files); statusOf(err) != http.StatusForbidden {
		t.Fatalf("expected 403 for non-owner upload, got %v", err)
	}
	updated, count, err := svc.UploadImages(ctx, owner, p.ID, files)
	if err != nil {
		t.Fatalf("upload: %v", err)
	}
	if count != 2 || len(updated.Images) != 2 {
		t.Fatalf("expected 2 images, got count=%d images=%v", count, updated.Images)
	}

	updated, err = svc.RemoveImage(ctx, owner, p.ID, RemoveImageInput{ImageURL: "/uploads/properties/front.jpg"})
	if err != nil {
		t.Fatalf("remove: %v", err)
	}
	if len(updated.Images) != 1 || len(images.removed) != 1 {
		t.Fatalf("expected one image left and one file removed, got %v / %v", updated.Images, images.removed)
	}

	unchanged, err := svc.RemoveImage(ctx, owner, p.ID, RemoveImageInput{ImageURL: "/uploads/properties/unknown.jpg"})
	if err != nil || len(unchanged.Images) != 1 {
		t.Fatalf("unknown url should be a no-op, got %v / %v", unchanged, err)
	}

	if err := svc.Delete(ctx, owner, p.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if len(images.discarded) != 1 || images.discarded[0] != "/uploads/properties/pool.png" {
		t.Fatalf("expected remaining image discarded, got %v", images.discarded)
	}
	if len(rec.ofType(events.EventPropertyDeleted)) != 1 {
		t.Fatalf("expected property_deleted event")
	}
}
