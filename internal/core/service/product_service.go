package service

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/templhaven/marketplace-api/internal/api/metrics"
	"github.com/templhaven/marketplace-api/internal/core/domain"
	"github.com/templhaven/marketplace-api/internal/core/ports"
)

const (
	defaultPageLimit = 20
	maxPageLimit     = 100
)

// CatalogCache abstracts the public-catalog read cache (Redis). Only active
// products are ever cached; a miss returns (nil, nil).
type CatalogCache interface {
	Get(ctx context.Context, key string) (*domain.Product, error)
	Set(ctx context.Context, p *domain.Product) error
	Invalidate(ctx context.Context, id, slug string) error
}

type ProductService struct {
	repo   ports.ProductRepository
	modLog ports.ModerationLogRepository
	cache  CatalogCache
	logger zerolog.Logger
}

func NewProductService(repo ports.ProductRepository, modLog ports.ModerationLogRepository, cache CatalogCache, logger zerolog.Logger) *ProductService {
	return &ProductService{repo: repo, modLog: modLog, cache: cache, logger: logger}
}

// CreateProduct creates a new listing owned by the calling vendor. With
// input.Submit set, the product skips draft and enters the review queue
// directly.
func (s *ProductService) CreateProduct(ctx context.Context, input ports.CreateProductInput) (*ports.ProductResult, error) {
	if input.SalePrice > 0 && input.SalePrice > input.Price {
		return nil, domain.ErrSalePriceTooHigh
	}

	now := time.Now().UTC()
	product := &domain.Product{
		Slug:             generateSlug(input.Title),
		Title:            input.Title,
		ShortDescription: input.ShortDescription,
		Description:      input.Description,
		Images:           input.Images,
		Features:         input.Features,
		Tags:             input.Tags,
		FileTypes:        input.FileTypes,
		Version:          input.Version,
		Price:            input.Price,
		SalePrice:        input.SalePrice,
		CategoryID:       input.CategoryID,
		VendorID:         input.VendorID,
		Status:           domain.StatusDraft,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if input.Submit {
		product.Status = domain.StatusPending
		product.SubmittedAt = now
	}

	if err := s.repo.Create(ctx, product); err != nil {
		s.logger.Error().Err(err).Str("vendor_id", input.VendorID).Msg("failed to create product")
		return nil, err
	}

	metrics.ProductsCreatedTotal.WithLabelValues(string(product.Status)).Inc()
	s.logger.Info().
		Str("product_id", product.ID).
		Str("slug", product.Slug).
		Str("vendor_id", input.VendorID).
		Str("status", string(product.Status)).
		Msg("product created")

	return &ports.ProductResult{
		ID:        product.ID,
		Slug:      product.Slug,
		Status:    string(product.Status),
		CreatedAt: product.CreatedAt,
	}, nil
}

// GetProduct retrieves a single product, enforcing the visibility rule:
// active products are public, everything else is admin/owner only. Outsiders
// get a not-found result, never the underlying status.
func (s *ProductService) GetProduct(ctx context.Context, input ports.GetProductInput) (*ports.ProductDetail, error) {
	actor := domain.Actor{UserID: input.UserID, Role: input.Role}

	if cached, err := s.cache.Get(ctx, input.IDOrSlug); err != nil {
		s.logger.Warn().Err(err).Str("key", input.IDOrSlug).Msg("catalog cache read failed")
	} else if cached != nil {
		metrics.CatalogCacheTotal.WithLabelValues("hit").Inc()
		return toDetail(cached), nil
	} else {
		metrics.CatalogCacheTotal.WithLabelValues("miss").Inc()
	}

	product, err := s.repo.FindByIDOrSlug(ctx, input.IDOrSlug)
	if err != nil {
		return nil, err
	}
	if !product.VisibleTo(actor) {
		return nil, domain.ErrProductNotFound
	}

	if product.Status == domain.StatusActive {
		if err := s.cache.Set(ctx, product); err != nil {
			s.logger.Warn().Err(err).Str("slug", product.Slug).Msg("catalog cache write failed")
		}
	}

	return toDetail(product), nil
}

// Transition applies a moderation action to a product. The domain machine
// decides; this method persists the outcome with a status precondition so a
// concurrent transition cannot be overwritten, then appends the audit entry.
func (s *ProductService) Transition(ctx context.Context, input ports.TransitionInput) (*ports.ProductDetail, error) {
	event, ok := domain.ParseEvent(input.Action)
	if !ok {
		return nil, fmt.Errorf("%w: unknown action %q", domain.ErrInvalidTransition, input.Action)
	}

	product, err := s.repo.FindByIDOrSlug(ctx, input.IDOrSlug)
	if err != nil {
		return nil, err
	}

	actor := domain.Actor{UserID: input.UserID, Role: input.Role}
	now := time.Now().UTC()

	updated, err := product.Transition(event, actor, input.Reason, now)
	if err != nil {
		metrics.ModerationTransitionsTotal.WithLabelValues(string(event), transitionOutcome(err)).Inc()
		return nil, fmt.Errorf("transition %s: %w", event, err)
	}

	persisted, err := s.repo.UpdateModeration(ctx, product.ID, product.Status, ports.ModerationUpdate{
		Status:          updated.Status,
		RejectionReason: updated.RejectionReason,
		SubmittedAt:     updated.SubmittedAt,
		PublishedAt:     updated.PublishedAt,
		UpdatedAt:       updated.UpdatedAt,
	})
	if err != nil {
		metrics.ModerationTransitionsTotal.WithLabelValues(string(event), transitionOutcome(err)).Inc()
		s.logger.Error().Err(err).Str("product_id", product.ID).Str("event", string(event)).Msg("moderation update failed")
		return nil, err
	}

	// Audit trail is best-effort; the transition itself already committed.
	entry := &domain.ModerationEntry{
		ProductID:  product.ID,
		Event:      event,
		FromStatus: product.Status,
		ToStatus:   persisted.Status,
		ActorID:    input.UserID,
		ActorRole:  input.Role,
		Reason:     input.Reason,
		Timestamp:  now,
	}
	if err := s.modLog.Insert(ctx, entry); err != nil {
		s.logger.Warn().Err(err).Str("product_id", product.ID).Msg("failed to insert moderation log entry")
	}

	if err := s.cache.Invalidate(ctx, product.ID, product.Slug); err != nil {
		s.logger.Warn().Err(err).Str("slug", product.Slug).Msg("catalog cache invalidation failed")
	}

	metrics.ModerationTransitionsTotal.WithLabelValues(string(event), "applied").Inc()
	s.logger.Info().
		Str("product_id", product.ID).
		Str("event", string(event)).
		Str("from", string(product.Status)).
		Str("to", string(persisted.Status)).
		Str("actor_role", input.Role).
		Msg("moderation transition applied")

	return toDetail(persisted), nil
}

// ModerationHistory returns the audit trail for a product. Restricted to the
// admin role and the owning vendor; everyone else gets not-found.
func (s *ProductService) ModerationHistory(ctx context.Context, input ports.GetProductInput) ([]ports.ModerationHistoryItem, error) {
	product, err := s.repo.FindByIDOrSlug(ctx, input.IDOrSlug)
	if err != nil {
		return nil, err
	}

	actor := domain.Actor{UserID: input.UserID, Role: input.Role}
	if input.Role != domain.RoleAdmin && !product.OwnedBy(actor) {
		return nil, domain.ErrProductNotFound
	}

	entries, err := s.modLog.ListByProduct(ctx, product.ID)
	if err != nil {
		return nil, err
	}

	items := make([]ports.ModerationHistoryItem, len(entries))
	for i, e := range entries {
		items[i] = ports.ModerationHistoryItem{
			Event:      string(e.Event),
			FromStatus: string(e.FromStatus),
			ToStatus:   string(e.ToStatus),
			ActorID:    e.ActorID,
			ActorRole:  e.ActorRole,
			Reason:     e.Reason,
			Timestamp:  e.Timestamp,
		}
	}
	return items, nil
}

// DeleteProduct removes a listing. Admin or owning vendor only, and refused
// while the product has recorded sales.
func (s *ProductService) DeleteProduct(ctx context.Context, input ports.DeleteProductInput) error {
	product, err := s.repo.FindByIDOrSlug(ctx, input.IDOrSlug)
	if err != nil {
		return err
	}

	actor := domain.Actor{UserID: input.UserID, Role: input.Role}
	if input.Role != domain.RoleAdmin && !product.OwnedBy(actor) {
		if !product.VisibleTo(actor) {
			return domain.ErrProductNotFound
		}
		return domain.ErrUnauthorized
	}
	if product.SalesCount > 0 {
		return domain.ErrProductHasSales
	}

	if err := s.repo.Delete(ctx, product.ID); err != nil {
		return err
	}
	if err := s.cache.Invalidate(ctx, product.ID, product.Slug); err != nil {
		s.logger.Warn().Err(err).Str("slug", product.Slug).Msg("catalog cache invalidation failed")
	}

	s.logger.Info().Str("product_id", product.ID).Str("actor_role", input.Role).Msg("product deleted")
	return nil
}

// ListProducts returns a page of products. Unauthenticated and client callers
// only ever see active listings; vendors are scoped to their own listings
// unless they are admins.
func (s *ProductService) ListProducts(ctx context.Context, input ports.ListProductsInput) (*ports.ListProductsResult, error) {
	filter := ports.ListProductsFilter{
		CategoryID: input.CategoryID,
		Search:     input.Search,
		Page:       input.Page,
		Limit:      input.Limit,
	}

	switch input.Role {
	case domain.RoleAdmin:
		filter.VendorID = input.VendorID
		filter.Status = canonicalStatus(input.Status)
	case domain.RoleVendor:
		filter.VendorID = input.UserID
		filter.Status = canonicalStatus(input.Status)
	default:
		// Public catalog: active only, no vendor scoping beyond an explicit
		// storefront filter.
		filter.VendorID = input.VendorID
		filter.Status = string(domain.StatusActive)
	}

	if filter.Limit <= 0 {
		filter.Limit = defaultPageLimit
	}
	if filter.Limit > maxPageLimit {
		filter.Limit = maxPageLimit
	}
	if filter.Page <= 0 {
		filter.Page = 1
	}

	products, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	items := make([]ports.ProductSummary, len(products))
	for i, p := range products {
		items[i] = ports.ProductSummary{
			ID:         p.ID,
			Slug:       p.Slug,
			Title:      p.Title,
			Price:      p.Price,
			SalePrice:  p.SalePrice,
			Status:     string(p.Status),
			VendorID:   p.VendorID,
			CategoryID: p.CategoryID,
			Tags:       p.Tags,
			CreatedAt:  p.CreatedAt,
		}
	}

	totalPages := int((total + int64(filter.Limit) - 1) / int64(filter.Limit))
	return &ports.ListProductsResult{
		Items:      items,
		Total:      total,
		Page:       filter.Page,
		Limit:      filter.Limit,
		TotalPages: totalPages,
	}, nil
}

// canonicalStatus folds legacy aliases before they reach the repository.
func canonicalStatus(s string) string {
	if s == "" {
		return ""
	}
	if parsed, ok := domain.ParseStatus(s); ok {
		return string(parsed)
	}
	return s
}

func transitionOutcome(err error) string {
	switch {
	case errors.Is(err, domain.ErrUnauthorized):
		return "unauthorized"
	case errors.Is(err, domain.ErrInvalidTransition):
		return "invalid_transition"
	case errors.Is(err, domain.ErrReasonRequired):
		return "invalid_transition"
	default:
		return "error"
	}
}

// generateSlug derives a URL-safe slug from the title plus a short random
// suffix to keep slugs unique across vendors reusing the same title.
func generateSlug(title string) string {
	var b strings.Builder
	prevDash := true
	for _, r := range strings.ToLower(title) {
		switch {
		case r >= 'a' && r <= 'z' || r >= '0' && r <= '9':
			b.WriteRune(r)
			prevDash = false
		default:
			if !prevDash {
				b.WriteByte('-')
				prevDash = true
			}
		}
	}
	slug := strings.Trim(b.String(), "-")
	if slug == "" {
		slug = "listing"
	}
	return slug + "-" + randomSuffix()
}

func randomSuffix() string {
	buf := make([]byte, 2)
	if _, err := rand.Read(buf); err != nil {
		return fmt.Sprintf("%04x", time.Now().UnixNano()&0xFFFF)
	}
	return fmt.Sprintf("%02x%02x", buf[0], buf[1])
}

func toDetail(p *domain.Product) *ports.ProductDetail {
	return &ports.ProductDetail{
		ID:               p.ID,
		Slug:             p.Slug,
		Title:            p.Title,
		ShortDescription: p.ShortDescription,
		Description:      p.Description,
		Images:           p.Images,
		Features:         p.Features,
		Tags:             p.Tags,
		FileTypes:        p.FileTypes,
		Version:          p.Version,
		Price:            p.Price,
		SalePrice:        p.SalePrice,
		SalesCount:       p.SalesCount,
		VendorID:         p.VendorID,
		CategoryID:       p.CategoryID,
		Status:           string(p.Status),
		RejectionReason:  p.RejectionReason,
		SubmittedAt:      p.SubmittedAt,
		PublishedAt:      p.PublishedAt,
		CreatedAt:        p.CreatedAt,
		UpdatedAt:        p.UpdatedAt,
	}
}
