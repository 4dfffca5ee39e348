package ports

import (
	"context"
	"time"

	"github.com/templhaven/marketplace-api/internal/core/domain"
)

// ModerationUpdate carries the fields a transition writes together with the
// new status. Zero-valued timestamps are left untouched; an empty
// RejectionReason unsets the field.
type ModerationUpdate struct {
	Status          domain.ProductStatus
	RejectionReason string
	SubmittedAt     time.Time
	PublishedAt     time.Time
	UpdatedAt       time.Time
}

// ListProductsFilter carries all query parameters for listing products.
type ListProductsFilter struct {
	VendorID   string // non-empty = scoped to one vendor's listings
	Status     string // optional: filter by canonical status
	CategoryID string // optional
	Search     string // optional: partial match on title or slug
	Page       int    // 1-based
	Limit      int    // max rows per page (capped by the service)
}

// ProductRepository defines persistence operations for products.
type ProductRepository interface {
	Create(ctx context.Context, p *domain.Product) error

	// FindByIDOrSlug retrieves a product by its id or by its slug.
	FindByIDOrSlug(ctx context.Context, idOrSlug string) (*domain.Product, error)

	// UpdateModeration atomically applies a moderation update, but only while
	// the stored status still equals from. A concurrent transition that
	// changed the status first makes this call fail with ErrInvalidTransition,
	// so stale decisions never clobber fresher ones.
	UpdateModeration(ctx context.Context, id string, from domain.ProductStatus, u ModerationUpdate) (*domain.Product, error)

	// Delete removes a product. Implementations must refuse the delete while
	// the product has a nonzero sales count (existing buyers keep access).
	Delete(ctx context.Context, id string) error

	// List returns a page of products matching filter and the total count.
	List(ctx context.Context, filter ListProductsFilter) ([]*domain.Product, int64, error)
}

// ModerationLogRepository persists the moderation audit trail.
type ModerationLogRepository interface {
	Insert(ctx context.Context, entry *domain.ModerationEntry) error
	ListByProduct(ctx context.Context, productID string) ([]*domain.ModerationEntry, error)
}
