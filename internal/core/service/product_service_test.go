package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/templhaven/marketplace-api/internal/core/domain"
	"github.com/templhaven/marketplace-api/internal/core/ports"
)

// ---------------------------------------------------------------------------
// In-memory stub repositories
// ---------------------------------------------------------------------------

type stubProductRepo struct {
	byID         map[string]*domain.Product
	nextID       int
	createErr    error                   // if set, Create returns this error
	findOverride func(p *domain.Product) // mutates the copy returned by FindByIDOrSlug
}

func newStubProductRepo() *stubProductRepo {
	return &stubProductRepo{byID: make(map[string]*domain.Product)}
}

func (r *stubProductRepo) Create(_ context.Context, p *domain.Product) error {
	if r.createErr != nil {
		return r.createErr
	}
	r.nextID++
	p.ID = fmt.Sprintf("prod_%d", r.nextID)
	clone := *p
	r.byID[p.ID] = &clone
	return nil
}

func (r *stubProductRepo) FindByIDOrSlug(_ context.Context, idOrSlug string) (*domain.Product, error) {
	if p, ok := r.byID[idOrSlug]; ok {
		return r.cloneFound(p), nil
	}
	for _, p := range r.byID {
		if p.Slug == idOrSlug {
			return r.cloneFound(p), nil
		}
	}
	return nil, domain.ErrProductNotFound
}

func (r *stubProductRepo) cloneFound(p *domain.Product) *domain.Product {
	clone := *p
	if r.findOverride != nil {
		r.findOverride(&clone)
	}
	return &clone
}

// UpdateModeration mirrors the real Mongo implementation: the update applies
// only while the stored status still equals from.
func (r *stubProductRepo) UpdateModeration(_ context.Context, id string, from domain.ProductStatus, u ports.ModerationUpdate) (*domain.Product, error) {
	p, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrProductNotFound
	}
	if p.Status != from {
		return nil, domain.ErrInvalidTransition
	}
	p.Status = u.Status
	p.RejectionReason = u.RejectionReason
	if !u.SubmittedAt.IsZero() {
		p.SubmittedAt = u.SubmittedAt
	}
	if !u.PublishedAt.IsZero() {
		p.PublishedAt = u.PublishedAt
	}
	p.UpdatedAt = u.UpdatedAt
	clone := *p
	return &clone, nil
}

func (r *stubProductRepo) Delete(_ context.Context, id string) error {
	p, ok := r.byID[id]
	if !ok {
		return domain.ErrProductNotFound
	}
	if p.SalesCount > 0 {
		return domain.ErrProductHasSales
	}
	delete(r.byID, id)
	return nil
}

// List applies the same filters the real Mongo repo would use.
func (r *stubProductRepo) List(_ context.Context, f ports.ListProductsFilter) ([]*domain.Product, int64, error) {
	var matched []*domain.Product
	for _, p := range r.byID {
		if f.VendorID != "" && p.VendorID != f.VendorID {
			continue
		}
		if f.Status != "" && string(p.Status) != f.Status {
			continue
		}
		if f.CategoryID != "" && p.CategoryID != f.CategoryID {
			continue
		}
		if f.Search != "" {
			titleMatch := strings.Contains(strings.ToLower(p.Title), strings.ToLower(f.Search))
			slugMatch := strings.Contains(strings.ToLower(p.Slug), strings.ToLower(f.Search))
			if !titleMatch && !slugMatch {
				continue
			}
		}
		clone := *p
		matched = append(matched, &clone)
	}

	total := int64(len(matched))

	skip := (f.Page - 1) * f.Limit
	if skip < 0 {
		skip = 0
	}
	if skip > len(matched) {
		return []*domain.Product{}, total, nil
	}
	end := skip + f.Limit
	if end > len(matched) {
		end = len(matched)
	}
	return matched[skip:end], total, nil
}

type stubModerationLog struct {
	entries   []*domain.ModerationEntry
	insertErr error
}

func (l *stubModerationLog) Insert(_ context.Context, e *domain.ModerationEntry) error {
	if l.insertErr != nil {
		return l.insertErr
	}
	clone := *e
	l.entries = append(l.entries, &clone)
	return nil
}

func (l *stubModerationLog) ListByProduct(_ context.Context, productID string) ([]*domain.ModerationEntry, error) {
	var out []*domain.ModerationEntry
	for _, e := range l.entries {
		if e.ProductID == productID {
			clone := *e
			out = append(out, &clone)
		}
	}
	return out, nil
}

type stubCache struct {
	store       map[string]*domain.Product
	getErr      error
	invalidated []string
}

func newStubCache() *stubCache {
	return &stubCache{store: make(map[string]*domain.Product)}
}

func (c *stubCache) Get(_ context.Context, key string) (*domain.Product, error) {
	if c.getErr != nil {
		return nil, c.getErr
	}
	if p, ok := c.store[key]; ok {
		clone := *p
		return &clone, nil
	}
	return nil, nil
}

func (c *stubCache) Set(_ context.Context, p *domain.Product) error {
	clone := *p
	c.store[p.ID] = &clone
	c.store[p.Slug] = &clone
	return nil
}

func (c *stubCache) Invalidate(_ context.Context, id, slug string) error {
	delete(c.store, id)
	delete(c.store, slug)
	c.invalidated = append(c.invalidated, id)
	return nil
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

var discardLogger = zerolog.Nop()

func newProductService() (*ProductService, *stubProductRepo, *stubModerationLog, *stubCache) {
	repo := newStubProductRepo()
	modLog := &stubModerationLog{}
	cache := newStubCache()
	return NewProductService(repo, modLog, cache, discardLogger), repo, modLog, cache
}

func minimalCreateInput(vendorID string) ports.CreateProductInput {
	return ports.CreateProductInput{
		Title:            "Admin Dashboard Kit",
		ShortDescription: "A clean admin dashboard template",
		Description:      "Full description",
		Price:            49,
		CategoryID:       "cat_dashboards",
		VendorID:         vendorID,
	}
}

func seedProduct(repo *stubProductRepo, status domain.ProductStatus, vendorID string) *domain.Product {
	repo.nextID++
	id := fmt.Sprintf("prod_%d", repo.nextID)
	now := time.Now().UTC()
	p := &domain.Product{
		ID:         id,
		Slug:       id + "-slug",
		Title:      "Seeded " + id,
		Price:      30,
		VendorID:   vendorID,
		CategoryID: "cat_dashboards",
		Status:     status,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	repo.byID[id] = p
	return p
}

// ---------------------------------------------------------------------------
// CreateProduct tests
// ---------------------------------------------------------------------------

func TestProductService_Create_Draft(t *testing.T) {
	svc, repo, _, _ := newProductService()

	result, err := svc.CreateProduct(context.Background(), minimalCreateInput("vendor_1"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if result.Status != string(domain.StatusDraft) {
		t.Errorf("expected status %q, got %q", domain.StatusDraft, result.Status)
	}
	if !strings.HasPrefix(result.Slug, "admin-dashboard-kit-") {
		t.Errorf("slug format wrong: %s", result.Slug)
	}
	stored := repo.byID[result.ID]
	if stored == nil {
		t.Fatal("product not stored")
	}
	if !stored.SubmittedAt.IsZero() {
		t.Error("draft must not carry a SubmittedAt timestamp")
	}
}

func TestProductService_Create_SubmitDirectly(t *testing.T) {
	svc, repo, _, _ := newProductService()

	input := minimalCreateInput("vendor_1")
	input.Submit = true

	result, err := svc.CreateProduct(context.Background(), input)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Status != string(domain.StatusPending) {
		t.Errorf("expected status %q, got %q", domain.StatusPending, result.Status)
	}
	if repo.byID[result.ID].SubmittedAt.IsZero() {
		t.Error("direct submission must stamp SubmittedAt")
	}
}

func TestProductService_Create_SalePriceAbovePrice(t *testing.T) {
	svc, _, _, _ := newProductService()

	input := minimalCreateInput("vendor_1")
	input.Price = 40
	input.SalePrice = 50

	if _, err := svc.CreateProduct(context.Background(), input); !errors.Is(err, domain.ErrSalePriceTooHigh) {
		t.Fatalf("expected ErrSalePriceTooHigh, got %v", err)
	}
}

func TestProductService_Create_RepoError(t *testing.T) {
	svc, repo, _, _ := newProductService()
	repo.createErr = errors.New("db unavailable")

	if _, err := svc.CreateProduct(context.Background(), minimalCreateInput("vendor_1")); err == nil {
		t.Fatal("expected error when repo fails, got nil")
	}
}

func TestGenerateSlug(t *testing.T) {
	cases := []struct {
		title  string
		prefix string
	}{
		{"Admin Dashboard Kit", "admin-dashboard-kit-"},
		{"  SaaS Landing!! Page  ", "saas-landing-page-"},
		{"日本語のみ", "listing-"}, // nothing latin survives
	}
	for _, tc := range cases {
		slug := generateSlug(tc.title)
		if !strings.HasPrefix(slug, tc.prefix) {
			t.Errorf("generateSlug(%q) = %q, want prefix %q", tc.title, slug, tc.prefix)
		}
		suffix := strings.TrimPrefix(slug, tc.prefix)
		if len(suffix) != 4 {
			t.Errorf("generateSlug(%q): suffix %q should be 4 hex chars", tc.title, suffix)
		}
	}
}

// ---------------------------------------------------------------------------
// GetProduct visibility tests
// ---------------------------------------------------------------------------

func TestProductService_Get_ActiveIsPublic(t *testing.T) {
	svc, repo, _, cache := newProductService()
	p := seedProduct(repo, domain.StatusActive, "vendor_1")

	detail, err := svc.GetProduct(context.Background(), ports.GetProductInput{IDOrSlug: p.Slug})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if detail.ID != p.ID {
		t.Errorf("wrong product returned: %s", detail.ID)
	}
	// Active reads populate the catalog cache.
	if _, ok := cache.store[p.Slug]; !ok {
		t.Error("active product should have been cached")
	}
}

func TestProductService_Get_PendingHiddenFromOutsiders(t *testing.T) {
	svc, repo, _, _ := newProductService()
	p := seedProduct(repo, domain.StatusPending, "vendor_1")

	cases := []ports.GetProductInput{
		{IDOrSlug: p.ID}, // anonymous
		{IDOrSlug: p.ID, Role: domain.RoleClient, UserID: "client_1"},
		{IDOrSlug: p.ID, Role: domain.RoleVendor, UserID: "vendor_2"},
	}
	for _, input := range cases {
		if _, err := svc.GetProduct(context.Background(), input); !errors.Is(err, domain.ErrProductNotFound) {
			t.Errorf("role=%q user=%q: expected not-found, got %v", input.Role, input.UserID, err)
		}
	}
}

func TestProductService_Get_PendingVisibleToOwnerAndAdmin(t *testing.T) {
	svc, repo, _, cache := newProductService()
	p := seedProduct(repo, domain.StatusPending, "vendor_1")

	for _, input := range []ports.GetProductInput{
		{IDOrSlug: p.ID, Role: domain.RoleVendor, UserID: "vendor_1"},
		{IDOrSlug: p.ID, Role: domain.RoleAdmin, UserID: "admin_1"},
	} {
		if _, err := svc.GetProduct(context.Background(), input); err != nil {
			t.Errorf("role=%q: unexpected error %v", input.Role, err)
		}
	}
	// Non-active products never enter the cache.
	if len(cache.store) != 0 {
		t.Error("pending product must not be cached")
	}
}

func TestProductService_Get_CacheHitSkipsRepo(t *testing.T) {
	svc, repo, _, cache := newProductService()
	p := seedProduct(repo, domain.StatusActive, "vendor_1")
	_ = cache.Set(context.Background(), p)

	// Remove the product from the repo; a cache hit must still serve it.
	delete(repo.byID, p.ID)

	detail, err := svc.GetProduct(context.Background(), ports.GetProductInput{IDOrSlug: p.Slug})
	if err != nil {
		t.Fatalf("expected cache hit, got error: %v", err)
	}
	if detail.ID != p.ID {
		t.Errorf("wrong product from cache: %s", detail.ID)
	}
}

func TestProductService_Get_CacheErrorFallsThrough(t *testing.T) {
	svc, repo, _, cache := newProductService()
	p := seedProduct(repo, domain.StatusActive, "vendor_1")
	cache.getErr = errors.New("redis down")

	if _, err := svc.GetProduct(context.Background(), ports.GetProductInput{IDOrSlug: p.ID}); err != nil {
		t.Fatalf("cache failure must not fail the read: %v", err)
	}
}

// ---------------------------------------------------------------------------
// Transition tests
// ---------------------------------------------------------------------------

func TestProductService_Transition_FullModerationCycle(t *testing.T) {
	svc, repo, modLog, _ := newProductService()
	p := seedProduct(repo, domain.StatusDraft, "vendor_1")

	owner := ports.TransitionInput{IDOrSlug: p.ID, Role: domain.RoleVendor, UserID: "vendor_1"}
	admin := ports.TransitionInput{IDOrSlug: p.ID, Role: domain.RoleAdmin, UserID: "admin_1"}

	steps := []struct {
		input ports.TransitionInput
		want  domain.ProductStatus
	}{
		{withAction(owner, "submit", ""), domain.StatusPending},
		{withAction(admin, "reject", "previews missing"), domain.StatusRejected},
		{withAction(owner, "resubmit", ""), domain.StatusPending},
		{withAction(admin, "approve", ""), domain.StatusActive},
		{withAction(owner, "suspend", ""), domain.StatusSuspended},
		{withAction(owner, "reactivate", ""), domain.StatusActive},
	}

	for _, step := range steps {
		detail, err := svc.Transition(context.Background(), step.input)
		if err != nil {
			t.Fatalf("%s: unexpected error: %v", step.input.Action, err)
		}
		if detail.Status != string(step.want) {
			t.Fatalf("%s: expected status %q, got %q", step.input.Action, step.want, detail.Status)
		}
	}

	entries, _ := modLog.ListByProduct(context.Background(), p.ID)
	if len(entries) != len(steps) {
		t.Errorf("expected %d audit entries, got %d", len(steps), len(entries))
	}
	if repo.byID[p.ID].RejectionReason != "" {
		t.Error("rejection reason must be cleared after leaving rejected")
	}
	if repo.byID[p.ID].PublishedAt.IsZero() {
		t.Error("PublishedAt must survive suspend/reactivate")
	}
}

func withAction(in ports.TransitionInput, action, reason string) ports.TransitionInput {
	in.Action = action
	in.Reason = reason
	return in
}

func TestProductService_Transition_UnknownAction(t *testing.T) {
	svc, repo, _, _ := newProductService()
	p := seedProduct(repo, domain.StatusDraft, "vendor_1")

	_, err := svc.Transition(context.Background(), ports.TransitionInput{
		IDOrSlug: p.ID, Action: "publish", Role: domain.RoleVendor, UserID: "vendor_1",
	})
	if !errors.Is(err, domain.ErrInvalidTransition) {
		t.Fatalf("expected ErrInvalidTransition, got %v", err)
	}
}

func TestProductService_Transition_OtherVendorUnauthorized(t *testing.T) {
	svc, repo, modLog, _ := newProductService()
	p := seedProduct(repo, domain.StatusDraft, "vendor_1")

	_, err := svc.Transition(context.Background(), ports.TransitionInput{
		IDOrSlug: p.ID, Action: "submit", Role: domain.RoleVendor, UserID: "vendor_2",
	})
	if !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
	if repo.byID[p.ID].Status != domain.StatusDraft {
		t.Error("failed transition must not change the stored status")
	}
	if len(modLog.entries) != 0 {
		t.Error("failed transition must not be logged")
	}
}

func TestProductService_Transition_RejectWithoutReason(t *testing.T) {
	svc, repo, _, _ := newProductService()
	p := seedProduct(repo, domain.StatusPending, "vendor_1")

	_, err := svc.Transition(context.Background(), ports.TransitionInput{
		IDOrSlug: p.ID, Action: "reject", Role: domain.RoleAdmin, UserID: "admin_1",
	})
	if !errors.Is(err, domain.ErrReasonRequired) {
		t.Fatalf("expected ErrReasonRequired, got %v", err)
	}
}

func TestProductService_Transition_ConcurrentConflict(t *testing.T) {
	svc, repo, _, _ := newProductService()
	p := seedProduct(repo, domain.StatusRejected, "vendor_1")

	// Another moderator got there first: this request read the product while
	// it was still pending, but the stored status has moved on to rejected.
	repo.findOverride = func(stale *domain.Product) {
		stale.Status = domain.StatusPending
	}

	_, err := svc.Transition(context.Background(), ports.TransitionInput{
		IDOrSlug: p.ID, Action: "approve", Role: domain.RoleAdmin, UserID: "admin_1",
	})
	if !errors.Is(err, domain.ErrInvalidTransition) {
		t.Fatalf("expected ErrInvalidTransition on conflict, got %v", err)
	}
}

func TestProductService_Transition_InvalidatesCache(t *testing.T) {
	svc, repo, _, cache := newProductService()
	p := seedProduct(repo, domain.StatusActive, "vendor_1")
	_ = cache.Set(context.Background(), p)

	_, err := svc.Transition(context.Background(), ports.TransitionInput{
		IDOrSlug: p.ID, Action: "suspend", Role: domain.RoleAdmin, UserID: "admin_1",
	})
	if err != nil {
		t.Fatalf("suspend failed: %v", err)
	}
	if _, ok := cache.store[p.Slug]; ok {
		t.Error("suspended product must be evicted from the catalog cache")
	}
}

func TestProductService_Transition_AuditFailureIsNonFatal(t *testing.T) {
	svc, repo, modLog, _ := newProductService()
	p := seedProduct(repo, domain.StatusDraft, "vendor_1")
	modLog.insertErr = errors.New("log collection unavailable")

	detail, err := svc.Transition(context.Background(), ports.TransitionInput{
		IDOrSlug: p.ID, Action: "submit", Role: domain.RoleVendor, UserID: "vendor_1",
	})
	if err != nil {
		t.Fatalf("audit failure must not fail the transition: %v", err)
	}
	if detail.Status != string(domain.StatusPending) {
		t.Errorf("expected pending, got %s", detail.Status)
	}
}

// ---------------------------------------------------------------------------
// ModerationHistory tests
// ---------------------------------------------------------------------------

func TestProductService_History_AccessControl(t *testing.T) {
	svc, repo, modLog, _ := newProductService()
	p := seedProduct(repo, domain.StatusPending, "vendor_1")
	_ = modLog.Insert(context.Background(), &domain.ModerationEntry{
		ProductID: p.ID, Event: domain.EventSubmit,
		FromStatus: domain.StatusDraft, ToStatus: domain.StatusPending,
		ActorID: "vendor_1", ActorRole: domain.RoleVendor, Timestamp: time.Now().UTC(),
	})

	if _, err := svc.ModerationHistory(context.Background(), ports.GetProductInput{
		IDOrSlug: p.ID, Role: domain.RoleVendor, UserID: "vendor_2",
	}); !errors.Is(err, domain.ErrProductNotFound) {
		t.Errorf("other vendor: expected not-found, got %v", err)
	}

	items, err := svc.ModerationHistory(context.Background(), ports.GetProductInput{
		IDOrSlug: p.ID, Role: domain.RoleAdmin, UserID: "admin_1",
	})
	if err != nil {
		t.Fatalf("admin history failed: %v", err)
	}
	if len(items) != 1 || items[0].Event != "submit" {
		t.Errorf("unexpected history: %+v", items)
	}
}

// ---------------------------------------------------------------------------
// DeleteProduct tests
// ---------------------------------------------------------------------------

func TestProductService_Delete_OwnerDeletesDraft(t *testing.T) {
	svc, repo, _, _ := newProductService()
	p := seedProduct(repo, domain.StatusDraft, "vendor_1")

	err := svc.DeleteProduct(context.Background(), ports.DeleteProductInput{
		IDOrSlug: p.ID, Role: domain.RoleVendor, UserID: "vendor_1",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := repo.byID[p.ID]; ok {
		t.Error("product should be gone")
	}
}

func TestProductService_Delete_RefusedWithSales(t *testing.T) {
	svc, repo, _, _ := newProductService()
	p := seedProduct(repo, domain.StatusActive, "vendor_1")
	repo.byID[p.ID].SalesCount = 12

	err := svc.DeleteProduct(context.Background(), ports.DeleteProductInput{
		IDOrSlug: p.ID, Role: domain.RoleAdmin, UserID: "admin_1",
	})
	if !errors.Is(err, domain.ErrProductHasSales) {
		t.Fatalf("expected ErrProductHasSales, got %v", err)
	}
}

func TestProductService_Delete_OutsiderGetsNotFound(t *testing.T) {
	svc, repo, _, _ := newProductService()
	p := seedProduct(repo, domain.StatusPending, "vendor_1")

	err := svc.DeleteProduct(context.Background(), ports.DeleteProductInput{
		IDOrSlug: p.ID, Role: domain.RoleVendor, UserID: "vendor_2",
	})
	if !errors.Is(err, domain.ErrProductNotFound) {
		t.Fatalf("outsider must get not-found, got %v", err)
	}
}

func TestProductService_Delete_NonOwnerOnActiveUnauthorized(t *testing.T) {
	svc, repo, _, _ := newProductService()
	p := seedProduct(repo, domain.StatusActive, "vendor_1")

	// The product is public, so the caller may know it exists; the honest
	// answer is forbidden rather than not-found.
	err := svc.DeleteProduct(context.Background(), ports.DeleteProductInput{
		IDOrSlug: p.ID, Role: domain.RoleVendor, UserID: "vendor_2",
	})
	if !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
}

// ---------------------------------------------------------------------------
// ListProducts tests
// ---------------------------------------------------------------------------

func TestProductService_List_PublicSeesOnlyActive(t *testing.T) {
	svc, repo, _, _ := newProductService()
	seedProduct(repo, domain.StatusActive, "vendor_1")
	seedProduct(repo, domain.StatusPending, "vendor_1")
	seedProduct(repo, domain.StatusDraft, "vendor_2")

	result, err := svc.ListProducts(context.Background(), ports.ListProductsInput{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Total != 1 {
		t.Errorf("public list must only contain active products, got %d", result.Total)
	}
	for _, item := range result.Items {
		if item.Status != string(domain.StatusActive) {
			t.Errorf("non-active product leaked into public list: %s", item.Status)
		}
	}
}

func TestProductService_List_VendorScopedToOwnListings(t *testing.T) {
	svc, repo, _, _ := newProductService()
	seedProduct(repo, domain.StatusDraft, "vendor_1")
	seedProduct(repo, domain.StatusActive, "vendor_1")
	seedProduct(repo, domain.StatusActive, "vendor_2")

	result, err := svc.ListProducts(context.Background(), ports.ListProductsInput{
		Role: domain.RoleVendor, UserID: "vendor_1",
		// A vendor cannot widen the scope by passing another vendor's id.
		VendorID: "vendor_2",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Total != 2 {
		t.Errorf("vendor must see exactly their own listings, got %d", result.Total)
	}
	for _, item := range result.Items {
		if item.VendorID != "vendor_1" {
			t.Errorf("foreign listing leaked: %s", item.VendorID)
		}
	}
}

func TestProductService_List_AdminFiltersByStatusAlias(t *testing.T) {
	svc, repo, _, _ := newProductService()
	seedProduct(repo, domain.StatusPending, "vendor_1")
	seedProduct(repo, domain.StatusActive, "vendor_1")

	// "pending-review" is the legacy alias for pending.
	result, err := svc.ListProducts(context.Background(), ports.ListProductsInput{
		Role: domain.RoleAdmin, UserID: "admin_1", Status: "pending-review",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Total != 1 {
		t.Errorf("expected 1 pending product, got %d", result.Total)
	}
}

func TestProductService_List_Pagination(t *testing.T) {
	svc, repo, _, _ := newProductService()
	for i := 0; i < 45; i++ {
		seedProduct(repo, domain.StatusActive, "vendor_1")
	}

	result, err := svc.ListProducts(context.Background(), ports.ListProductsInput{Page: 2})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Limit != defaultPageLimit {
		t.Errorf("expected default limit %d, got %d", defaultPageLimit, result.Limit)
	}
	if result.Total != 45 {
		t.Errorf("expected total 45, got %d", result.Total)
	}
	if result.TotalPages != 3 {
		t.Errorf("expected 3 pages, got %d", result.TotalPages)
	}
	if len(result.Items) != defaultPageLimit {
		t.Errorf("expected %d items on page 2, got %d", defaultPageLimit, len(result.Items))
	}
}

func TestProductService_List_LimitCapped(t *testing.T) {
	svc, repo, _, _ := newProductService()
	seedProduct(repo, domain.StatusActive, "vendor_1")

	result, err := svc.ListProducts(context.Background(), ports.ListProductsInput{Limit: 10000})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Limit != maxPageLimit {
		t.Errorf("limit must be capped at %d, got %d", maxPageLimit, result.Limit)
	}
}
