package domain

import (
	"errors"
	"strings"
	"time"
)

// AttemptState is the lifecycle state of a single payment attempt as seen by
// the confirmation poller. Charge creation is synchronous, so an attempt is
// only registered once the provider has accepted it and starts directly in
// pending; the earlier idle/processing phases exist only inside Initiate and
// are never observable.
type AttemptState string

const (
	AttemptPending AttemptState = "pending" // awaiting end-user PIN confirmation
	AttemptSuccess AttemptState = "success"
	AttemptError   AttemptState = "error"
)

// Terminal reports whether the poller has finished with this attempt.
func (s AttemptState) Terminal() bool {
	return s == AttemptSuccess || s == AttemptError
}

// Provider is a mobile-money operator the platform can charge through.
type Provider string

const (
	ProviderOrangeMoney Provider = "orange_money"
	ProviderMTNMoMo     Provider = "mtn_momo"
	ProviderMoovMoney   Provider = "moov_money"
	ProviderWave        Provider = "wave"
)

var ErrInvalidAmount = errors.New("amount must be greater than zero")
var ErrInvalidPhone = errors.New("phone number must contain exactly 10 digits")
var ErrUnknownProvider = errors.New("unknown payment provider")
var ErrProviderUnavailable = errors.New("payment provider request failed")
var ErrProviderStatus = errors.New("payment provider returned an unrecognized status")
var ErrPollTimeout = errors.New("payment confirmation timed out")
var ErrAttemptNotFound = errors.New("payment attempt not found")

// ParseProvider validates a provider string from a charge request.
func ParseProvider(s string) (Provider, bool) {
	switch Provider(s) {
	case ProviderOrangeMoney, ProviderMTNMoMo, ProviderMoovMoney, ProviderWave:
		return Provider(s), true
	}
	return "", false
}

// ProviderOutcome classifies a status string returned by the provider's
// status-lookup endpoint.
type ProviderOutcome int

const (
	OutcomePending ProviderOutcome = iota
	OutcomeSuccess
	OutcomeFailure
)

// ClassifyProviderStatus normalizes the provider's status vocabulary.
// Operators report success as either "successful" or "completed" depending
// on the integration generation.
func ClassifyProviderStatus(status string) (ProviderOutcome, error) {
	switch strings.ToLower(strings.TrimSpace(status)) {
	case "successful", "completed":
		return OutcomeSuccess, nil
	case "failed", "cancelled":
		return OutcomeFailure, nil
	case "pending":
		return OutcomePending, nil
	}
	return OutcomePending, ErrProviderStatus
}

// NormalizePhone strips common separators and validates that the result is
// exactly 10 digits.
func NormalizePhone(raw string) (string, error) {
	var b strings.Builder
	for _, r := range raw {
		switch {
		case r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == ' ' || r == '-' || r == '.' || r == '(' || r == ')' || r == '+':
			// separator, skip
		default:
			return "", ErrInvalidPhone
		}
	}
	digits := b.String()
	if len(digits) != 10 {
		return "", ErrInvalidPhone
	}
	return digits, nil
}

// PaymentAttempt is the poller's view of one provider-tracked charge.
// Attempts are never persisted by this service; durable payment records
// belong to the order system downstream.
type PaymentAttempt struct {
	TransactionID string
	Amount        float64
	Currency      string
	Phone         string
	Provider      Provider
	State         AttemptState
	Message       string
	StartedAt     time.Time
}
