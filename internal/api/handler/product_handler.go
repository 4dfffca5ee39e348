package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/templhaven/marketplace-api/internal/core/ports"
)

// ProductHandler handles HTTP requests for marketplace listings.
type ProductHandler struct {
	service ports.ProductService
}

func NewProductHandler(service ports.ProductService) *ProductHandler {
	return &ProductHandler{service: service}
}

// Create handles POST /v1/products.
//
// @Summary      Create a new product listing
// @Tags         products
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createProductRequest  true  "Product details"
// @Success      201   {object}  createProductResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /v1/products [post]
func (h *ProductHandler) Create(c echo.Context) error {
	var req createProductRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	_, userID, err := ctxClaims(c)
	if err != nil {
		return err
	}

	result, err := h.service.CreateProduct(c.Request().Context(), toCreateInput(req, userID))
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, toCreateResponse(result))
}

// Get handles GET /v1/products/:id_or_slug (authenticated view).
//
// @Summary      Get a product by id or slug
// @Tags         products
// @Produce      json
// @Security     BearerAuth
// @Param        id_or_slug  path      string  true  "Product id or slug"
// @Success      200         {object}  productDetailResponse
// @Failure      404         {object}  errorResponse
// @Router       /v1/products/{id_or_slug} [get]
func (h *ProductHandler) Get(c echo.Context) error {
	role, userID, err := ctxClaims(c)
	if err != nil {
		return err
	}

	detail, err := h.service.GetProduct(c.Request().Context(), ports.GetProductInput{
		IDOrSlug: c.Param("id_or_slug"),
		Role:     role,
		UserID:   userID,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, toDetailResponse(detail))
}

// GetPublic handles GET /v1/catalog/:id_or_slug — the anonymous storefront
// view. Only active products resolve; everything else is a 404.
//
// @Summary      Get a public catalog product
// @Tags         catalog
// @Produce      json
// @Param        id_or_slug  path      string  true  "Product id or slug"
// @Success      200         {object}  productDetailResponse
// @Failure      404         {object}  errorResponse
// @Router       /v1/catalog/{id_or_slug} [get]
func (h *ProductHandler) GetPublic(c echo.Context) error {
	detail, err := h.service.GetProduct(c.Request().Context(), ports.GetProductInput{
		IDOrSlug: c.Param("id_or_slug"),
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toDetailResponse(detail))
}

// List handles GET /v1/products — the authenticated listing for vendors
// (own products, any status) and admins (all products).
//
// @Summary      List products
// @Tags         products
// @Produce      json
// @Security     BearerAuth
// @Param        status       query     string  false  "Filter by status"
// @Param        category_id  query     string  false  "Filter by category"
// @Param        search       query     string  false  "Partial match on title or slug"
// @Param        page         query     int     false  "Page (1-based)"
// @Param        limit        query     int     false  "Page size (max 100)"
// @Success      200          {object}  listProductsResponse
// @Router       /v1/products [get]
func (h *ProductHandler) List(c echo.Context) error {
	role, userID, err := ctxClaims(c)
	if err != nil {
		return err
	}

	result, err := h.service.ListProducts(c.Request().Context(), ports.ListProductsInput{
		Role:       role,
		UserID:     userID,
		VendorID:   c.QueryParam("vendor_id"),
		Status:     c.QueryParam("status"),
		CategoryID: c.QueryParam("category_id"),
		Search:     c.QueryParam("search"),
		Page:       intQuery(c, "page"),
		Limit:      intQuery(c, "limit"),
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, toListResponse(result))
}

// ListPublic handles GET /v1/catalog — the anonymous storefront listing,
// active products only.
//
// @Summary      List public catalog products
// @Tags         catalog
// @Produce      json
// @Param        vendor_id    query     string  false  "Filter by vendor storefront"
// @Param        category_id  query     string  false  "Filter by category"
// @Param        search       query     string  false  "Partial match on title or slug"
// @Param        page         query     int     false  "Page (1-based)"
// @Param        limit        query     int     false  "Page size (max 100)"
// @Success      200          {object}  listProductsResponse
// @Router       /v1/catalog [get]
func (h *ProductHandler) ListPublic(c echo.Context) error {
	result, err := h.service.ListProducts(c.Request().Context(), ports.ListProductsInput{
		VendorID:   c.QueryParam("vendor_id"),
		CategoryID: c.QueryParam("category_id"),
		Search:     c.QueryParam("search"),
		Page:       intQuery(c, "page"),
		Limit:      intQuery(c, "limit"),
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toListResponse(result))
}

// Transition handles POST /v1/products/:id_or_slug/transition.
//
// @Summary      Apply a moderation action to a product
// @Tags         products
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id_or_slug  path      string             true  "Product id or slug"
// @Param        body        body      transitionRequest  true  "Moderation action"
// @Success      200         {object}  productDetailResponse
// @Failure      400         {object}  errorResponse
// @Failure      403         {object}  errorResponse
// @Failure      404         {object}  errorResponse
// @Failure      422         {object}  errorResponse
// @Router       /v1/products/{id_or_slug}/transition [post]
func (h *ProductHandler) Transition(c echo.Context) error {
	var req transitionRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	role, userID, err := ctxClaims(c)
	if err != nil {
		return err
	}

	detail, err := h.service.Transition(c.Request().Context(), ports.TransitionInput{
		IDOrSlug: c.Param("id_or_slug"),
		Action:   req.Action,
		Reason:   req.Reason,
		Role:     role,
		UserID:   userID,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, toDetailResponse(detail))
}

// History handles GET /v1/products/:id_or_slug/history.
//
// @Summary      Get the moderation history of a product
// @Tags         products
// @Produce      json
// @Security     BearerAuth
// @Param        id_or_slug  path      string  true  "Product id or slug"
// @Success      200         {object}  moderationHistoryResponse
// @Failure      404         {object}  errorResponse
// @Router       /v1/products/{id_or_slug}/history [get]
func (h *ProductHandler) History(c echo.Context) error {
	role, userID, err := ctxClaims(c)
	if err != nil {
		return err
	}

	items, err := h.service.ModerationHistory(c.Request().Context(), ports.GetProductInput{
		IDOrSlug: c.Param("id_or_slug"),
		Role:     role,
		UserID:   userID,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, toHistoryResponse(items))
}

// Delete handles DELETE /v1/products/:id_or_slug.
//
// @Summary      Delete a product
// @Tags         products
// @Produce      json
// @Security     BearerAuth
// @Param        id_or_slug  path  string  true  "Product id or slug"
// @Success      204
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Failure      409  {object}  errorResponse
// @Router       /v1/products/{id_or_slug} [delete]
func (h *ProductHandler) Delete(c echo.Context) error {
	role, userID, err := ctxClaims(c)
	if err != nil {
		return err
	}

	if err := h.service.DeleteProduct(c.Request().Context(), ports.DeleteProductInput{
		IDOrSlug: c.Param("id_or_slug"),
		Role:     role,
		UserID:   userID,
	}); err != nil {
		return err
	}

	return c.NoContent(http.StatusNoContent)
}

func intQuery(c echo.Context, name string) int {
	v, err := strconv.Atoi(c.QueryParam(name))
	if err != nil {
		return 0
	}
	return v
}
