package checkout

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/Ramya-993/mcartify-theme-sub000/internal/checkout/repository"
	"github.com/Ramya-993/mcartify-theme-sub000/internal/session"
	"github.com/Ramya-993/mcartify-theme-sub000/internal/storeapi"
)

const (
	ModeCOD    = "cod"
	ModeOnline = "online"
)

var (
	ErrUnknownMode       = errors.New("unknown payment mode")
	ErrDuplicateAttempt  = errors.New("checkout already submitted")
	ErrIllegalTransition = errors.New("illegal transition of checkout status")
)

// API is the slice of the store client the checkout service uses.
type API interface {
	PaymentIntegrations(ctx context.Context, token string) ([]storeapi.PaymentIntegration, error)
	CreatePayment(ctx context.Context, token string) (*storeapi.PaymentSession, error)
	CreateOrder(ctx context.Context, token string, req storeapi.CreateOrderRequest) (*storeapi.Order, error)
	CreateOrderV2(ctx context.Context, token, paymentOrderID string) (*storeapi.Order, error)
	CustomerDetails(ctx context.Context, token string) (*storeapi.Customer, error)
}

// Records persists checkout attempts and outbox events.
type Records interface {
	CreateAttempt(ctx context.Context, a *repository.Attempt) error
	GetAttempt(ctx context.Context, id string) (*repository.Attempt, error)
	GetAttemptByIdempotencyKey(ctx context.Context, key string) (*repository.Attempt, error)
	UpdateStatus(ctx context.Context, id, status, paymentOrderID, reason string) error
	SetOrder(ctx context.Context, id, orderID, status string) error
	AddEvent(ctx context.Context, id, eventType, aggregateID string, payload []byte) error
}

// IntegrationsView is what the checkout page renders: the gateway options
// plus the auto-selected default mode (first entry).
type IntegrationsView struct {
	Integrations []storeapi.PaymentIntegration `json:"integrations"`
	DefaultMode  string                        `json:"default_mode,omitempty"`
}

// Result is the outcome of a submit or completion call.
type Result struct {
	AttemptID      string      `json:"attempt_id"`
	Status         Status      `json:"status"`
	OrderID        string      `json:"order_id,omitempty"`
	Invocation     *Invocation `json:"invocation,omitempty"`
	PaymentOrderID string      `json:"payment_order_id,omitempty"`
	Reason         string      `json:"reason,omitempty"`
}

type Service struct {
	api      API
	sessions session.Store
	gateways *Registry
	records  Records
}

func NewService(api API, sessions session.Store, gateways *Registry, records Records) *Service {
	return &Service{
		api:      api,
		sessions: sessions,
		gateways: gateways,
		records:  records,
	}
}

// Integrations fetches the gateway options for this checkout session. A
// fetch failure is logged and returns an empty view with no default mode
// selected; the page simply renders without payment options.
func (s *Service) Integrations(ctx context.Context, sessionID string) *IntegrationsView {
	rec, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		log.Printf("failed to load session for integrations: %v", err)
		return &IntegrationsView{}
	}

	integrations, err := s.api.PaymentIntegrations(ctx, rec.Bearer())
	if err != nil {
		log.Printf("failed to fetch payment integrations: %v", err)
		return &IntegrationsView{}
	}

	view := &IntegrationsView{Integrations: integrations}
	if len(integrations) > 0 {
		view.DefaultMode = integrations[0].Mode
	}
	return view
}

// Submit dispatches one checkout attempt by payment mode. COD places the
// order directly and never opens a payment session; online always creates
// the payment session before any gateway invocation.
func (s *Service) Submit(ctx context.Context, sessionID, mode, gatewayName, idempotencyKey string) (*Result, error) {
	if idempotencyKey == "" {
		idempotencyKey = uuid.NewString()
	}

	if existing, err := s.records.GetAttemptByIdempotencyKey(ctx, idempotencyKey); err == nil {
		return &Result{
			AttemptID:      existing.ID,
			Status:         Status(existing.Status),
			OrderID:        existing.OrderID,
			PaymentOrderID: existing.PaymentOrderID,
			Reason:         existing.FailureReason,
		}, ErrDuplicateAttempt
	} else if !errors.Is(err, repository.ErrAttemptNotFound) {
		return nil, err
	}

	if mode != ModeCOD && mode != ModeOnline {
		return nil, fmt.Errorf("%w: %q", ErrUnknownMode, mode)
	}

	rec, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	token := rec.Bearer()

	attempt := &repository.Attempt{
		ID:             uuid.NewString(),
		SessionID:      sessionID,
		IdempotencyKey: idempotencyKey,
		PaymentMode:    mode,
		Gateway:        gatewayName,
		Status:         string(StatusModeSelected),
	}
	if err := s.records.CreateAttempt(ctx, attempt); err != nil {
		return nil, err
	}

	if mode == ModeCOD {
		return s.submitCOD(ctx, token, attempt)
	}
	return s.submitOnline(ctx, token, rec, attempt)
}

func (s *Service) submitCOD(ctx context.Context, token string, attempt *repository.Attempt) (*Result, error) {
	order, err := s.api.CreateOrder(ctx, token, storeapi.CreateOrderRequest{PaymentMode: ModeCOD})
	if err != nil {
		// Stays in PAYMENT_MODE_SELECTED; the user may re-submit.
		return nil, err
	}

	if errSet := s.records.SetOrder(ctx, attempt.ID, order.ID, string(StatusOrderPlaced)); errSet != nil {
		log.Printf("failed to record placed order: %v", errSet)
	}
	s.emitEvent(ctx, "order_placed", attempt.ID, orderEvent{
		AttemptID:   attempt.ID,
		OrderID:     order.ID,
		PaymentMode: ModeCOD,
		TotalAmount: order.TotalAmount,
		Currency:    order.Currency,
		PlacedAt:    time.Now().UTC(),
	})

	return &Result{
		AttemptID: attempt.ID,
		Status:    StatusOrderPlaced,
		OrderID:   order.ID,
	}, nil
}

func (s *Service) submitOnline(ctx context.Context, token string, rec session.Record, attempt *repository.Attempt) (*Result, error) {
	sess, err := s.api.CreatePayment(ctx, token)
	if err != nil {
		// Session creation failed: stays in PAYMENT_MODE_SELECTED.
		return nil, err
	}

	if errUp := s.records.UpdateStatus(ctx, attempt.ID, string(StatusSessionCreated), sess.PaymentOrderID, ""); errUp != nil {
		log.Printf("failed to record payment session: %v", errUp)
	}

	gateway, err := s.gateways.Lookup(sess.Gateway)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedGateway, sess.Gateway)
	}

	invocation, err := gateway.Invoke(sess, s.prefill(ctx, rec))
	if err != nil {
		reason := err.Error()
		if errUp := s.records.UpdateStatus(ctx, attempt.ID, string(StatusFailed), sess.PaymentOrderID, reason); errUp != nil {
			log.Printf("failed to record invocation failure: %v", errUp)
		}
		return &Result{
			AttemptID:      attempt.ID,
			Status:         StatusFailed,
			PaymentOrderID: sess.PaymentOrderID,
			Reason:         reason,
		}, err
	}

	return &Result{
		AttemptID:      attempt.ID,
		Status:         StatusSessionCreated,
		PaymentOrderID: sess.PaymentOrderID,
		Invocation:     invocation,
	}, nil
}

// Complete is the gateway success callback: the payment went through, so
// place the order keyed by the gateway's payment order id.
func (s *Service) Complete(ctx context.Context, sessionID, attemptID, paymentOrderID string) (*Result, error) {
	attempt, err := s.records.GetAttempt(ctx, attemptID)
	if err != nil {
		return nil, err
	}
	if !CanTransitionTo(Status(attempt.Status), StatusSucceeded) {
		return nil, fmt.Errorf("%w: %s -> %s", ErrIllegalTransition, attempt.Status, StatusSucceeded)
	}

	rec, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	if errUp := s.records.UpdateStatus(ctx, attemptID, string(StatusSucceeded), paymentOrderID, ""); errUp != nil {
		log.Printf("failed to record payment success: %v", errUp)
	}

	order, err := s.api.CreateOrderV2(ctx, rec.Bearer(), paymentOrderID)
	if err != nil {
		// Payment captured but order creation failed; the reason string
		// distinguishes this from a gateway failure.
		reason := fmt.Sprintf("order creation failed after payment: %v", err)
		if errUp := s.records.UpdateStatus(ctx, attemptID, string(StatusFailed), paymentOrderID, reason); errUp != nil {
			log.Printf("failed to record post-payment failure: %v", errUp)
		}
		s.emitEvent(ctx, "payment_failed", attemptID, failureEvent{
			AttemptID:      attemptID,
			PaymentOrderID: paymentOrderID,
			Reason:         reason,
			FailedAt:       time.Now().UTC(),
		})
		return &Result{
			AttemptID:      attemptID,
			Status:         StatusFailed,
			PaymentOrderID: paymentOrderID,
			Reason:         reason,
		}, err
	}

	if errSet := s.records.SetOrder(ctx, attemptID, order.ID, string(StatusOrderPlaced)); errSet != nil {
		log.Printf("failed to record placed order: %v", errSet)
	}
	s.emitEvent(ctx, "order_placed", attemptID, orderEvent{
		AttemptID:   attemptID,
		OrderID:     order.ID,
		PaymentMode: ModeOnline,
		TotalAmount: order.TotalAmount,
		Currency:    order.Currency,
		PlacedAt:    time.Now().UTC(),
	})

	return &Result{
		AttemptID:      attemptID,
		Status:         StatusOrderPlaced,
		OrderID:        order.ID,
		PaymentOrderID: paymentOrderID,
	}, nil
}

// Fail is the gateway failure/dismiss callback. The reason and payment
// order id are kept for support correlation; no automatic retry happens.
func (s *Service) Fail(ctx context.Context, attemptID, paymentOrderID, reason string, dismissed bool) (*Result, error) {
	status := StatusFailed
	if dismissed {
		status = StatusDismissed
	}

	attempt, err := s.records.GetAttempt(ctx, attemptID)
	if err != nil {
		return nil, err
	}
	if !CanTransitionTo(Status(attempt.Status), status) {
		return nil, fmt.Errorf("%w: %s -> %s", ErrIllegalTransition, attempt.Status, status)
	}

	if err := s.records.UpdateStatus(ctx, attemptID, string(status), paymentOrderID, reason); err != nil {
		return nil, err
	}
	s.emitEvent(ctx, "payment_failed", attemptID, failureEvent{
		AttemptID:      attemptID,
		PaymentOrderID: paymentOrderID,
		Reason:         reason,
		Dismissed:      dismissed,
		FailedAt:       time.Now().UTC(),
	})

	return &Result{
		AttemptID:      attemptID,
		Status:         status,
		PaymentOrderID: paymentOrderID,
		Reason:         reason,
	}, nil
}

func (s *Service) prefill(ctx context.Context, rec session.Record) Prefill {
	if rec.Identity() != session.NonGuest {
		return Prefill{}
	}
	cust, err := s.api.CustomerDetails(ctx, rec.CustomerToken)
	if err != nil {
		log.Printf("failed to fetch customer details for prefill: %v", err)
		return Prefill{}
	}
	return Prefill{Name: cust.Name, Email: cust.Email, Contact: cust.Phone}
}

type orderEvent struct {
	AttemptID   string    `json:"attempt_id"`
	OrderID     string    `json:"order_id"`
	PaymentMode string    `json:"payment_mode"`
	TotalAmount float64   `json:"total_amount"`
	Currency    string    `json:"currency"`
	PlacedAt    time.Time `json:"placed_at"`
}

type failureEvent struct {
	AttemptID      string    `json:"attempt_id"`
	PaymentOrderID string    `json:"payment_order_id"`
	Reason         string    `json:"reason"`
	Dismissed      bool      `json:"dismissed,omitempty"`
	FailedAt       time.Time `json:"failed_at"`
}

func (s *Service) emitEvent(ctx context.Context, eventType, aggregateID string, payload any) {
	data, err := json.Marshal(payload)
	if err != nil {
		log.Printf("failed to marshal %s event: %v", eventType, err)
		return
	}
	if err := s.records.AddEvent(ctx, uuid.NewString(), eventType, aggregateID, data); err != nil {
		log.Printf("failed to enqueue %s event: %v", eventType, err)
	}
}
