package handler

import "time"

// errorResponse is the standard error envelope returned on all 4xx/5xx responses.
type errorResponse struct {
	Error string `json:"error"`
}

// --- Request types ---

type createProductRequest struct {
	Title            string   `json:"title"             validate:"required,min=3"`
	ShortDescription string   `json:"short_description" validate:"required"`
	Description      string   `json:"description"`
	Images           []string `json:"images"`
	Features         []string `json:"features"`
	Tags             []string `json:"tags"`
	FileTypes        []string `json:"file_types"`
	Version          string   `json:"version"`
	Price            float64  `json:"price"             validate:"required,gt=0"`
	SalePrice        float64  `json:"sale_price"        validate:"omitempty,gt=0"`
	CategoryID       string   `json:"category_id"       validate:"required"`
	Submit           bool     `json:"submit"`
}

type transitionRequest struct {
	Action string `json:"action" validate:"required,oneof=submit approve reject resubmit suspend reactivate request_review"`
	Reason string `json:"reason"`
}

// --- Response types ---
// Response-only types owned by the transport layer, intentionally separate
// from ports/domain types so the JSON contract is not coupled to internal
// service changes.

type productLinks struct {
	Self    string `json:"self"`
	History string `json:"history"`
}

type createProductResponse struct {
	ID        string       `json:"id"`
	Slug      string       `json:"slug"`
	Status    string       `json:"status"`
	CreatedAt time.Time    `json:"created_at"`
	Links     productLinks `json:"_links"`
}

type productDetailResponse struct {
	ID               string       `json:"id"`
	Slug             string       `json:"slug"`
	Title            string       `json:"title"`
	ShortDescription string       `json:"short_description"`
	Description      string       `json:"description,omitempty"`
	Images           []string     `json:"images,omitempty"`
	Features         []string     `json:"features,omitempty"`
	Tags             []string     `json:"tags,omitempty"`
	FileTypes        []string     `json:"file_types,omitempty"`
	Version          string       `json:"version,omitempty"`
	Price            float64      `json:"price"`
	SalePrice        float64      `json:"sale_price,omitempty"`
	SalesCount       int64        `json:"sales_count"`
	VendorID         string       `json:"vendor_id"`
	CategoryID       string       `json:"category_id"`
	Status           string       `json:"status"`
	RejectionReason  string       `json:"rejection_reason,omitempty"`
	SubmittedAt      *time.Time   `json:"submitted_at,omitempty"`
	PublishedAt      *time.Time   `json:"published_at,omitempty"`
	CreatedAt        time.Time    `json:"created_at"`
	UpdatedAt        time.Time    `json:"updated_at"`
	Links            productLinks `json:"_links"`
}

// productSummaryResponse is the lightweight item used in list responses.
type productSummaryResponse struct {
	ID         string       `json:"id"`
	Slug       string       `json:"slug"`
	Title      string       `json:"title"`
	Price      float64      `json:"price"`
	SalePrice  float64      `json:"sale_price,omitempty"`
	Status     string       `json:"status"`
	VendorID   string       `json:"vendor_id"`
	CategoryID string       `json:"category_id"`
	Tags       []string     `json:"tags,omitempty"`
	CreatedAt  time.Time    `json:"created_at"`
	Links      productLinks `json:"_links"`
}

type paginationResponse struct {
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	TotalPages int   `json:"total_pages"`
}

type listProductsResponse struct {
	Data       []productSummaryResponse `json:"data"`
	Pagination paginationResponse       `json:"pagination"`
}

type moderationHistoryItemResponse struct {
	Event      string    `json:"event"`
	FromStatus string    `json:"from_status"`
	ToStatus   string    `json:"to_status"`
	ActorID    string    `json:"actor_id"`
	ActorRole  string    `json:"actor_role"`
	Reason     string    `json:"reason,omitempty"`
	Timestamp  time.Time `json:"timestamp"`
}

type moderationHistoryResponse struct {
	Data []moderationHistoryItemResponse `json:"data"`
}
