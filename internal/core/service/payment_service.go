package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/templhaven/marketplace-api/internal/api/metrics"
	"github.com/templhaven/marketplace-api/internal/core/domain"
	"github.com/templhaven/marketplace-api/internal/core/ports"
)

const (
	defaultPollInterval     = 5 * time.Second
	defaultPollTimeout      = 2 * time.Minute
	defaultAttemptRetention = 5 * time.Minute
)

// PollerConfig tunes the confirmation poller. Callbacks are invoked at most
// once per attempt, from the poll goroutine, after the attempt reaches a
// terminal state.
type PollerConfig struct {
	Interval time.Duration
	Timeout  time.Duration
	// Retention is how long a terminal attempt stays readable via Status
	// before it is evicted from the registry.
	Retention time.Duration
	OnSuccess func(transactionID string)
	OnError   func(transactionID string, cause error)
}

// attempt is the in-memory record of one in-flight payment. Attempts are
// never persisted; durable payment records belong to the order system.
type attempt struct {
	domain.PaymentAttempt
	cancel context.CancelFunc
	done   chan struct{}
}

// PaymentService implements ports.PaymentService: it submits charges to the
// mobile-money provider and polls the status endpoint until the payment
// succeeds, fails, or the confirmation budget runs out.
type PaymentService struct {
	provider ports.PaymentProvider
	cfg      PollerConfig
	logger   zerolog.Logger

	mu       sync.Mutex
	attempts map[string]*attempt // transaction id -> attempt
	byPhone  map[string]string   // normalized phone -> live transaction id
}

func NewPaymentService(provider ports.PaymentProvider, cfg PollerConfig, logger zerolog.Logger) *PaymentService {
	if cfg.Interval <= 0 {
		cfg.Interval = defaultPollInterval
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultPollTimeout
	}
	if cfg.Retention <= 0 {
		cfg.Retention = defaultAttemptRetention
	}
	return &PaymentService{
		provider: provider,
		cfg:      cfg,
		logger:   logger,
		attempts: make(map[string]*attempt),
		byPhone:  make(map[string]string),
	}
}

// Initiate validates the charge request, submits it to the provider, and
// starts the confirmation poll loop. A still-running attempt for the same
// payer phone is cancelled first so no two timers ever poll for one payer.
func (s *PaymentService) Initiate(ctx context.Context, input ports.InitiatePaymentInput) (string, error) {
	if input.Amount <= 0 {
		return "", domain.ErrInvalidAmount
	}
	phone, err := domain.NormalizePhone(input.Phone)
	if err != nil {
		return "", err
	}
	provider, ok := domain.ParseProvider(input.Provider)
	if !ok {
		return "", domain.ErrUnknownProvider
	}

	if prior := s.liveAttemptFor(phone); prior != "" {
		s.logger.Warn().Str("transaction_id", prior).Str("phone", phone).Msg("cancelling prior payment attempt for payer")
		_ = s.Cancel(prior)
	}

	txID, err := s.provider.CreateCharge(ctx, ports.ChargeRequest{
		Amount:   input.Amount,
		Currency: input.Currency,
		Phone:    phone,
		Provider: provider,
	})
	if err != nil {
		s.logger.Error().Err(err).Str("provider", input.Provider).Msg("charge creation failed")
		return "", errors.Join(domain.ErrProviderUnavailable, err)
	}

	metrics.PaymentsInitiatedTotal.WithLabelValues(string(provider)).Inc()

	pollCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	a := &attempt{
		PaymentAttempt: domain.PaymentAttempt{
			TransactionID: txID,
			Amount:        input.Amount,
			Currency:      input.Currency,
			Phone:         phone,
			Provider:      provider,
			State:         domain.AttemptPending,
			StartedAt:     time.Now().UTC(),
		},
		cancel: cancel,
		done:   make(chan struct{}),
	}

	s.mu.Lock()
	s.attempts[txID] = a
	s.byPhone[phone] = txID
	s.mu.Unlock()

	go s.pollLoop(pollCtx, a)

	s.logger.Info().
		Str("transaction_id", txID).
		Str("provider", string(provider)).
		Float64("amount", input.Amount).
		Msg("payment initiated, awaiting confirmation")

	return txID, nil
}

// pollLoop queries the provider on a fixed interval until the attempt reaches
// a terminal state or the wall-clock budget is spent. The loop owns the only
// timer for its attempt and always stops it on exit.
func (s *PaymentService) pollLoop(ctx context.Context, a *attempt) {
	defer close(a.done)
	defer a.cancel()

	ticker := time.NewTicker(s.cfg.Interval)
	defer ticker.Stop()

	deadline := time.NewTimer(s.cfg.Timeout)
	defer deadline.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-deadline.C:
			s.finish(a, domain.AttemptError, "payment confirmation timed out; it may still complete on the operator side", "timeout", domain.ErrPollTimeout)
			return
		case <-ticker.C:
			status, err := s.PollOnce(ctx, a.TransactionID)
			if err != nil || domain.AttemptState(status.State).Terminal() {
				return
			}
		}
	}
}

// PollOnce performs a single provider status lookup for the attempt and
// applies the outcome. Calling it on an attempt that already finished is a
// no-op, so a stray timer can never re-fire the callbacks.
func (s *PaymentService) PollOnce(ctx context.Context, transactionID string) (ports.PaymentStatus, error) {
	s.mu.Lock()
	a, ok := s.attempts[transactionID]
	if !ok {
		s.mu.Unlock()
		return ports.PaymentStatus{}, domain.ErrAttemptNotFound
	}
	if a.State.Terminal() {
		status := snapshot(a)
		s.mu.Unlock()
		return status, nil
	}
	s.mu.Unlock()

	raw, err := s.provider.GetStatus(ctx, transactionID)
	if err != nil {
		if ctx.Err() != nil {
			// Poll loop was cancelled mid-request; not a provider failure.
			return snapshotLocked(s, transactionID), ctx.Err()
		}
		s.finish(a, domain.AttemptError, "provider status lookup failed", "provider_error", errors.Join(domain.ErrProviderUnavailable, err))
		return snapshotLocked(s, transactionID), nil
	}

	outcome, err := domain.ClassifyProviderStatus(raw)
	if err != nil {
		s.finish(a, domain.AttemptError, "provider returned unrecognized status "+raw, "provider_error", err)
		return snapshotLocked(s, transactionID), nil
	}

	switch outcome {
	case domain.OutcomeSuccess:
		s.finish(a, domain.AttemptSuccess, "payment confirmed", "success", nil)
	case domain.OutcomeFailure:
		s.finish(a, domain.AttemptError, "payment was declined or cancelled by the operator", "failed", errors.New("payment "+raw))
	default:
		// Still pending on the operator side; keep polling.
	}

	return snapshotLocked(s, transactionID), nil
}

// Status reports the current state of an attempt.
func (s *PaymentService) Status(transactionID string) (ports.PaymentStatus, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.attempts[transactionID]
	if !ok {
		return ports.PaymentStatus{}, domain.ErrAttemptNotFound
	}
	return snapshot(a), nil
}

// Cancel stops the poll loop for an attempt. The charge itself is not voided
// at the provider (the aggregator exposes no cancel call), so a confirmed PIN
// entry may still complete the payment out-of-band.
func (s *PaymentService) Cancel(transactionID string) error {
	s.mu.Lock()
	a, ok := s.attempts[transactionID]
	s.mu.Unlock()
	if !ok {
		return domain.ErrAttemptNotFound
	}

	s.finishSilent(a, "cancelled by user", "cancelled")
	a.cancel()
	<-a.done
	return nil
}

// finish moves the attempt to a terminal state and fires the matching
// callback. The state check under the lock guarantees at-most-once delivery.
func (s *PaymentService) finish(a *attempt, state domain.AttemptState, message, outcome string, cause error) {
	s.mu.Lock()
	if a.State.Terminal() {
		s.mu.Unlock()
		return
	}
	a.State = state
	a.Message = message
	if s.byPhone[a.Phone] == a.TransactionID {
		delete(s.byPhone, a.Phone)
	}
	s.mu.Unlock()

	metrics.PaymentsCompletedTotal.WithLabelValues(string(a.Provider), outcome).Inc()
	metrics.PaymentConfirmationDuration.WithLabelValues(outcome).Observe(time.Since(a.StartedAt).Seconds())

	a.cancel()
	s.scheduleEviction(a.TransactionID)

	if state == domain.AttemptSuccess {
		s.logger.Info().Str("transaction_id", a.TransactionID).Msg("payment confirmed")
		if s.cfg.OnSuccess != nil {
			s.cfg.OnSuccess(a.TransactionID)
		}
		return
	}

	s.logger.Warn().Err(cause).Str("transaction_id", a.TransactionID).Str("outcome", outcome).Msg("payment attempt failed")
	if s.cfg.OnError != nil {
		s.cfg.OnError(a.TransactionID, cause)
	}
}

// finishSilent terminates an attempt without firing callbacks; used for
// user-driven cancellation where no one is waiting on the result.
func (s *PaymentService) finishSilent(a *attempt, message, outcome string) {
	s.mu.Lock()
	if a.State.Terminal() {
		s.mu.Unlock()
		return
	}
	a.State = domain.AttemptError
	a.Message = message
	if s.byPhone[a.Phone] == a.TransactionID {
		delete(s.byPhone, a.Phone)
	}
	s.mu.Unlock()

	metrics.PaymentsCompletedTotal.WithLabelValues(string(a.Provider), outcome).Inc()
	metrics.PaymentConfirmationDuration.WithLabelValues(outcome).Observe(time.Since(a.StartedAt).Seconds())

	s.scheduleEviction(a.TransactionID)
}

// scheduleEviction removes the terminal attempt from the registry once the
// retention window has passed, so completed payments do not accumulate for
// the lifetime of the process. The window keeps Status readable for the
// client's final poll.
func (s *PaymentService) scheduleEviction(transactionID string) {
	time.AfterFunc(s.cfg.Retention, func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if a, ok := s.attempts[transactionID]; ok && a.State.Terminal() {
			delete(s.attempts, transactionID)
		}
	})
}

// Wait blocks until the attempt's poll loop has exited. Test helper.
func (s *PaymentService) Wait(transactionID string) {
	s.mu.Lock()
	a, ok := s.attempts[transactionID]
	s.mu.Unlock()
	if ok {
		<-a.done
	}
}

func (s *PaymentService) liveAttemptFor(phone string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.byPhone[phone]
}

func snapshot(a *attempt) ports.PaymentStatus {
	return ports.PaymentStatus{
		TransactionID: a.TransactionID,
		State:         string(a.State),
		Message:       a.Message,
	}
}

func snapshotLocked(s *PaymentService, transactionID string) ports.PaymentStatus {
	s.mu.Lock()
	defer s.mu.Unlock()
	if a, ok := s.attempts[transactionID]; ok {
		return snapshot(a)
	}
	return ports.PaymentStatus{TransactionID: transactionID}
}
