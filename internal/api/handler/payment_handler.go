package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/templhaven/marketplace-api/internal/core/ports"
)

// PaymentHandler drives the mobile-money checkout flow: it initiates charges
// and exposes the poller's state for the UI to read.
type PaymentHandler struct {
	service ports.PaymentService
}

func NewPaymentHandler(service ports.PaymentService) *PaymentHandler {
	return &PaymentHandler{service: service}
}

// Initiate handles POST /v1/payments.
//
// @Summary      Initiate a mobile-money payment
// @Tags         payments
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      initiatePaymentRequest  true  "Charge details"
// @Success      202   {object}  initiatePaymentResponse
// @Failure      400   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Failure      502   {object}  errorResponse
// @Router       /v1/payments [post]
func (h *PaymentHandler) Initiate(c echo.Context) error {
	var req initiatePaymentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	txID, err := h.service.Initiate(c.Request().Context(), ports.InitiatePaymentInput{
		Amount:   req.Amount,
		Currency: req.Currency,
		Phone:    req.Phone,
		Provider: req.Provider,
	})
	if err != nil {
		return err
	}

	// 202: the charge is in flight; confirmation arrives asynchronously.
	return c.JSON(http.StatusAccepted, initiatePaymentResponse{
		TransactionID: txID,
		State:         "pending",
	})
}

// Status handles GET /v1/payments/:transaction_id.
//
// @Summary      Get the current state of a payment attempt
// @Tags         payments
// @Produce      json
// @Security     BearerAuth
// @Param        transaction_id  path      string  true  "Provider transaction id"
// @Success      200             {object}  paymentStatusResponse
// @Failure      404             {object}  errorResponse
// @Router       /v1/payments/{transaction_id} [get]
func (h *PaymentHandler) Status(c echo.Context) error {
	status, err := h.service.Status(c.Param("transaction_id"))
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, paymentStatusResponse{
		TransactionID: status.TransactionID,
		State:         status.State,
		Message:       status.Message,
	})
}

// Cancel handles DELETE /v1/payments/:transaction_id. It stops the poll loop
// only; a charge already confirmed on the operator side may still complete.
//
// @Summary      Cancel a payment attempt
// @Tags         payments
// @Produce      json
// @Security     BearerAuth
// @Param        transaction_id  path  string  true  "Provider transaction id"
// @Success      204
// @Failure      404  {object}  errorResponse
// @Router       /v1/payments/{transaction_id} [delete]
func (h *PaymentHandler) Cancel(c echo.Context) error {
	if err := h.service.Cancel(c.Param("transaction_id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
