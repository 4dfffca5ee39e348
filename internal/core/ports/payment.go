package ports

import (
	"context"

	"github.com/templhaven/marketplace-api/internal/core/domain"
)

// ChargeRequest is the payload sent to the payment provider to create a
// charge against a mobile-money account.
type ChargeRequest struct {
	Amount   float64
	Currency string
	Phone    string
	Provider domain.Provider
}

// PaymentProvider is the external mobile-money aggregator contract.
type PaymentProvider interface {
	// CreateCharge submits a charge and returns the provider-issued
	// transaction id.
	CreateCharge(ctx context.Context, req ChargeRequest) (string, error)

	// GetStatus looks up the current status of a transaction. The returned
	// string uses the provider vocabulary
	// (successful|completed|failed|cancelled|pending).
	GetStatus(ctx context.Context, transactionID string) (string, error)
}

// InitiatePaymentInput carries a charge submission from the checkout form.
type InitiatePaymentInput struct {
	Amount   float64
	Currency string
	Phone    string
	Provider string
}

// PaymentStatus is the poller's externally visible view of an attempt.
type PaymentStatus struct {
	TransactionID string
	State         string
	Message       string
}

// PaymentService drives an asynchronous provider-confirmed payment to
// completion.
type PaymentService interface {
	// Initiate validates the input, creates a charge, and starts polling the
	// provider for confirmation. Returns the transaction id.
	Initiate(ctx context.Context, input InitiatePaymentInput) (string, error)

	// PollOnce performs a single status lookup and applies the result.
	// Invoking it on an attempt that already reached a terminal state is a
	// no-op; callbacks fire at most once per attempt.
	PollOnce(ctx context.Context, transactionID string) (PaymentStatus, error)

	// Status reports the current state of an attempt.
	Status(transactionID string) (PaymentStatus, error)

	// Cancel stops the poll loop for an attempt. No provider-side void call
	// is issued; a charge already in flight may still complete out-of-band.
	Cancel(transactionID string) error
}
