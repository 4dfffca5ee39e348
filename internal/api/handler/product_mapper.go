package handler

import (
	"time"

	"github.com/templhaven/marketplace-api/internal/core/ports"
)

// --- Request → Service input ---

func toCreateInput(req createProductRequest, vendorID string) ports.CreateProductInput {
	return ports.CreateProductInput{
		Title:            req.Title,
		ShortDescription: req.ShortDescription,
		Description:      req.Description,
		Images:           req.Images,
		Features:         req.Features,
		Tags:             req.Tags,
		FileTypes:        req.FileTypes,
		Version:          req.Version,
		Price:            req.Price,
		SalePrice:        req.SalePrice,
		CategoryID:       req.CategoryID,
		VendorID:         vendorID,
		Submit:           req.Submit,
	}
}

// --- Service result → HTTP response ---

func toCreateResponse(r *ports.ProductResult) createProductResponse {
	return createProductResponse{
		ID:        r.ID,
		Slug:      r.Slug,
		Status:    r.Status,
		CreatedAt: r.CreatedAt.UTC(),
		Links:     linksFor(r.Slug),
	}
}

func toDetailResponse(d *ports.ProductDetail) productDetailResponse {
	return productDetailResponse{
		ID:               d.ID,
		Slug:             d.Slug,
		Title:            d.Title,
		ShortDescription: d.ShortDescription,
		Description:      d.Description,
		Images:           d.Images,
		Features:         d.Features,
		Tags:             d.Tags,
		FileTypes:        d.FileTypes,
		Version:          d.Version,
		Price:            d.Price,
		SalePrice:        d.SalePrice,
		SalesCount:       d.SalesCount,
		VendorID:         d.VendorID,
		CategoryID:       d.CategoryID,
		Status:           d.Status,
		RejectionReason:  d.RejectionReason,
		SubmittedAt:      optionalTime(d.SubmittedAt),
		PublishedAt:      optionalTime(d.PublishedAt),
		CreatedAt:        d.CreatedAt.UTC(),
		UpdatedAt:        d.UpdatedAt.UTC(),
		Links:            linksFor(d.Slug),
	}
}

func toListResponse(r *ports.ListProductsResult) listProductsResponse {
	items := make([]productSummaryResponse, len(r.Items))
	for i, s := range r.Items {
		items[i] = productSummaryResponse{
			ID:         s.ID,
			Slug:       s.Slug,
			Title:      s.Title,
			Price:      s.Price,
			SalePrice:  s.SalePrice,
			Status:     s.Status,
			VendorID:   s.VendorID,
			CategoryID: s.CategoryID,
			Tags:       s.Tags,
			CreatedAt:  s.CreatedAt.UTC(),
			Links:      linksFor(s.Slug),
		}
	}
	return listProductsResponse{
		Data: items,
		Pagination: paginationResponse{
			Total:      r.Total,
			Page:       r.Page,
			Limit:      r.Limit,
			TotalPages: r.TotalPages,
		},
	}
}

func toHistoryResponse(items []ports.ModerationHistoryItem) moderationHistoryResponse {
	out := make([]moderationHistoryItemResponse, len(items))
	for i, item := range items {
		out[i] = moderationHistoryItemResponse{
			Event:      item.Event,
			FromStatus: item.FromStatus,
			ToStatus:   item.ToStatus,
			ActorID:    item.ActorID,
			ActorRole:  item.ActorRole,
			Reason:     item.Reason,
			Timestamp:  item.Timestamp.UTC(),
		}
	}
	return moderationHistoryResponse{Data: out}
}

func linksFor(slug string) productLinks {
	return productLinks{
		Self:    "/v1/products/" + slug,
		History: "/v1/products/" + slug + "/history",
	}
}

func optionalTime(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	utc := t.UTC()
	return &utc
}
