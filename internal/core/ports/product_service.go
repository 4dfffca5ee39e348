package ports

import (
	"context"
	"time"
)

// CreateProductInput carries all data needed to create a new listing.
type CreateProductInput struct {
	Title            string
	ShortDescription string
	Description      string
	Images           []string
	Features         []string
	Tags             []string
	FileTypes        []string
	Version          string
	Price            float64
	SalePrice        float64
	CategoryID       string
	VendorID         string
	// Submit places the product directly into the review queue instead of
	// leaving it as a draft.
	Submit bool
}

// ProductResult is returned by the service after creating a product.
type ProductResult struct {
	ID        string
	Slug      string
	Status    string
	CreatedAt time.Time
}

// GetProductInput carries the parameters to retrieve a single product.
// Role and UserID enforce the visibility rule: non-active products are
// only shown to admins and the owning vendor.
type GetProductInput struct {
	IDOrSlug string
	Role     string
	UserID   string
}

// ProductDetail is the full product view returned by GetProduct.
type ProductDetail struct {
	ID               string
	Slug             string
	Title            string
	ShortDescription string
	Description      string
	Images           []string
	Features         []string
	Tags             []string
	FileTypes        []string
	Version          string
	Price            float64
	SalePrice        float64
	SalesCount       int64
	VendorID         string
	CategoryID       string
	Status           string
	RejectionReason  string
	SubmittedAt      time.Time
	PublishedAt      time.Time
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// TransitionInput carries a moderation action request.
type TransitionInput struct {
	IDOrSlug string
	Action   string
	Reason   string
	Role     string
	UserID   string
}

// DeleteProductInput carries a delete request.
type DeleteProductInput struct {
	IDOrSlug string
	Role     string
	UserID   string
}

// ListProductsInput carries all parameters for the list endpoints.
// Public callers have Role == "" and only ever see active products.
type ListProductsInput struct {
	Role       string
	UserID     string
	VendorID   string
	Status     string
	CategoryID string
	Search     string
	Page       int
	Limit      int
}

// ProductSummary is the lightweight view used in list responses.
type ProductSummary struct {
	ID         string
	Slug       string
	Title      string
	Price      float64
	SalePrice  float64
	Status     string
	VendorID   string
	CategoryID string
	Tags       []string
	CreatedAt  time.Time
}

// ListProductsResult is returned by ListProducts.
type ListProductsResult struct {
	Items      []ProductSummary
	Total      int64
	Page       int
	Limit      int
	TotalPages int
}

// ModerationHistoryItem is a single audit-trail entry.
type ModerationHistoryItem struct {
	Event      string
	FromStatus string
	ToStatus   string
	ActorID    string
	ActorRole  string
	Reason     string
	Timestamp  time.Time
}

// ProductService defines use-case operations for marketplace listings.
type ProductService interface {
	CreateProduct(ctx context.Context, input CreateProductInput) (*ProductResult, error)
	GetProduct(ctx context.Context, input GetProductInput) (*ProductDetail, error)
	ListProducts(ctx context.Context, input ListProductsInput) (*ListProductsResult, error)
	Transition(ctx context.Context, input TransitionInput) (*ProductDetail, error)
	ModerationHistory(ctx context.Context, input GetProductInput) ([]ModerationHistoryItem, error)
	DeleteProduct(ctx context.Context, input DeleteProductInput) error
}
