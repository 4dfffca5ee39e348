package domain

import (
	"errors"
	"time"
)

// ProductStatus represents the moderation state of a marketplace listing.
type ProductStatus string

const (
	StatusDraft     ProductStatus = "draft"
	StatusPending   ProductStatus = "pending"
	StatusActive    ProductStatus = "active"
	StatusRejected  ProductStatus = "rejected"
	StatusSuspended ProductStatus = "suspended"
)

// ModerationEvent identifies a requested transition on a product.
type ModerationEvent string

const (
	EventSubmit        ModerationEvent = "submit"
	EventApprove       ModerationEvent = "approve"
	EventReject        ModerationEvent = "reject"
	EventResubmit      ModerationEvent = "resubmit"
	EventSuspend       ModerationEvent = "suspend"
	EventReactivate    ModerationEvent = "reactivate"
	EventRequestReview ModerationEvent = "request_review"
)

var ErrProductNotFound = errors.New("product not found")
var ErrUnauthorized = errors.New("actor not authorized for this product")
var ErrInvalidTransition = errors.New("invalid status transition")
var ErrReasonRequired = errors.New("a rejection reason is required")
var ErrSalePriceTooHigh = errors.New("sale price must not exceed price")
var ErrProductHasSales = errors.New("product with recorded sales cannot be deleted")

// ParseStatus maps an external status string to a canonical ProductStatus.
// "pending-review" and "archived" survive in older data and client payloads;
// they are aliases, not states of their own.
func ParseStatus(s string) (ProductStatus, bool) {
	switch s {
	case "draft":
		return StatusDraft, true
	case "pending", "pending-review":
		return StatusPending, true
	case "active":
		return StatusActive, true
	case "rejected":
		return StatusRejected, true
	case "suspended", "archived":
		return StatusSuspended, true
	}
	return "", false
}

// ParseEvent maps an action string from the transition endpoint to an event.
func ParseEvent(s string) (ModerationEvent, bool) {
	switch ModerationEvent(s) {
	case EventSubmit, EventApprove, EventReject, EventResubmit,
		EventSuspend, EventReactivate, EventRequestReview:
		return ModerationEvent(s), true
	}
	return "", false
}

// transitionRule is one row of the moderation table: which state the event
// applies to, where it leads, and who may trigger it.
type transitionRule struct {
	from        ProductStatus
	to          ProductStatus
	admin       bool // an admin may trigger it
	owner       bool // the owning vendor may trigger it
	needsReason bool
}

var moderationRules = map[ModerationEvent]transitionRule{
	EventSubmit:        {from: StatusDraft, to: StatusPending, owner: true},
	EventApprove:       {from: StatusPending, to: StatusActive, admin: true},
	EventReject:        {from: StatusPending, to: StatusRejected, admin: true, needsReason: true},
	EventResubmit:      {from: StatusRejected, to: StatusPending, owner: true},
	EventSuspend:       {from: StatusActive, to: StatusSuspended, admin: true, owner: true},
	EventReactivate:    {from: StatusSuspended, to: StatusActive, admin: true, owner: true},
	EventRequestReview: {from: StatusActive, to: StatusPending, owner: true},
}

// Product is the moderated marketplace listing.
type Product struct {
	ID               string        `json:"id" bson:"_id,omitempty"`
	Slug             string        `json:"slug" bson:"slug"`
	Title            string        `json:"title" bson:"title"`
	ShortDescription string        `json:"short_description" bson:"short_description"`
	Description      string        `json:"description" bson:"description"`
	Images           []string      `json:"images" bson:"images"`
	Features         []string      `json:"features" bson:"features"`
	Tags             []string      `json:"tags" bson:"tags"`
	FileTypes        []string      `json:"file_types" bson:"file_types"`
	Version          string        `json:"version" bson:"version"`
	Price            float64       `json:"price" bson:"price"`
	SalePrice        float64       `json:"sale_price,omitempty" bson:"sale_price,omitempty"`
	SalesCount       int64         `json:"sales_count" bson:"sales_count"`
	Revenue          float64       `json:"revenue" bson:"revenue"`
	VendorID         string        `json:"vendor_id" bson:"vendor_id"`
	CategoryID       string        `json:"category_id" bson:"category_id"`
	Status           ProductStatus `json:"status" bson:"status"`
	RejectionReason  string        `json:"rejection_reason,omitempty" bson:"rejection_reason,omitempty"`
	SubmittedAt      time.Time     `json:"submitted_at,omitempty" bson:"submitted_at,omitempty"`
	PublishedAt      time.Time     `json:"published_at,omitempty" bson:"published_at,omitempty"`
	CreatedAt        time.Time     `json:"created_at" bson:"created_at"`
	UpdatedAt        time.Time     `json:"updated_at" bson:"updated_at"`
}

// Actor is the authenticated user attempting an operation. Role is fixed for
// the duration of a request and is the only authorization input.
type Actor struct {
	UserID string
	Role   string
}

// OwnedBy reports whether the product belongs to the given vendor user.
func (p Product) OwnedBy(a Actor) bool {
	return a.Role == RoleVendor && a.UserID != "" && a.UserID == p.VendorID
}

// VisibleTo reports whether the actor may see this product at all.
// Only active products are public; everything else is restricted to the
// admin role and the owning vendor.
func (p Product) VisibleTo(a Actor) bool {
	if p.Status == StatusActive {
		return true
	}
	return a.Role == RoleAdmin || p.OwnedBy(a)
}

// Transition applies a moderation event to the product and returns the
// updated copy. It is a pure function of (current state, event, actor,
// reason): no clock other than now, no hidden state.
//
// Authorization is checked before state so that an outsider probing a
// product learns nothing about its current status.
func (p Product) Transition(event ModerationEvent, actor Actor, reason string, now time.Time) (Product, error) {
	rule, ok := moderationRules[event]
	if !ok {
		return p, ErrInvalidTransition
	}

	allowed := (rule.admin && actor.Role == RoleAdmin) || (rule.owner && p.OwnedBy(actor))
	if !allowed {
		return p, ErrUnauthorized
	}

	if p.Status != rule.from {
		return p, ErrInvalidTransition
	}

	if rule.needsReason && reason == "" {
		return p, ErrReasonRequired
	}

	updated := p
	updated.Status = rule.to
	updated.UpdatedAt = now

	// RejectionReason exists only while the product sits in rejected.
	if rule.to == StatusRejected {
		updated.RejectionReason = reason
	} else {
		updated.RejectionReason = ""
	}

	switch event {
	case EventSubmit, EventResubmit, EventRequestReview:
		updated.SubmittedAt = now
	case EventApprove:
		if updated.PublishedAt.IsZero() {
			updated.PublishedAt = now
		}
	}

	return updated, nil
}
