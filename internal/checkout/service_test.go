package checkout

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Ramya-993/mcartify-theme-sub000/internal/checkout/repository"
	"github.com/Ramya-993/mcartify-theme-sub000/internal/session"
	"github.com/Ramya-993/mcartify-theme-sub000/internal/storeapi"
)

type mockAPI struct {
	integrations []storeapi.PaymentIntegration
	paymentSess  *storeapi.PaymentSession
	order        *storeapi.Order

	integrationsErr error
	createPayErr    error
	createOrderErr  error
	orderV2Err      error

	createPayCalls   int
	createOrderCalls int
	orderV2Calls     int
}

func (a *mockAPI) PaymentIntegrations(ctx context.Context, token string) ([]storeapi.PaymentIntegration, error) {
	return a.integrations, a.integrationsErr
}

func (a *mockAPI) CreatePayment(ctx context.Context, token string) (*storeapi.PaymentSession, error) {
	a.createPayCalls++
	if a.createPayErr != nil {
		return nil, a.createPayErr
	}
	return a.paymentSess, nil
}

func (a *mockAPI) CreateOrder(ctx context.Context, token string, req storeapi.CreateOrderRequest) (*storeapi.Order, error) {
	a.createOrderCalls++
	if a.createOrderErr != nil {
		return nil, a.createOrderErr
	}
	return a.order, nil
}

func (a *mockAPI) CreateOrderV2(ctx context.Context, token, paymentOrderID string) (*storeapi.Order, error) {
	a.orderV2Calls++
	if a.orderV2Err != nil {
		return nil, a.orderV2Err
	}
	return a.order, nil
}

func (a *mockAPI) CustomerDetails(ctx context.Context, token string) (*storeapi.Customer, error) {
	return &storeapi.Customer{Name: "A", Email: "a@example.com", Phone: "+911234567890"}, nil
}

type mockRecords struct {
	attempts map[string]*repository.Attempt // by idempotency key
	byID     map[string]*repository.Attempt
	events   []string
}

func newMockRecords() *mockRecords {
	return &mockRecords{
		attempts: make(map[string]*repository.Attempt),
		byID:     make(map[string]*repository.Attempt),
	}
}

func (r *mockRecords) CreateAttempt(ctx context.Context, a *repository.Attempt) error {
	if _, ok := r.attempts[a.IdempotencyKey]; ok {
		return repository.ErrDuplicateKey
	}
	r.attempts[a.IdempotencyKey] = a
	r.byID[a.ID] = a
	return nil
}

func (r *mockRecords) GetAttempt(ctx context.Context, id string) (*repository.Attempt, error) {
	a, ok := r.byID[id]
	if !ok {
		return nil, repository.ErrAttemptNotFound
	}
	return a, nil
}

func (r *mockRecords) GetAttemptByIdempotencyKey(ctx context.Context, key string) (*repository.Attempt, error) {
	a, ok := r.attempts[key]
	if !ok {
		return nil, repository.ErrAttemptNotFound
	}
	return a, nil
}

func (r *mockRecords) UpdateStatus(ctx context.Context, id, status, paymentOrderID, reason string) error {
	a, ok := r.byID[id]
	if !ok {
		return repository.ErrAttemptNotFound
	}
	a.Status = status
	if paymentOrderID != "" {
		a.PaymentOrderID = paymentOrderID
	}
	a.FailureReason = reason
	return nil
}

func (r *mockRecords) SetOrder(ctx context.Context, id, orderID, status string) error {
	a, ok := r.byID[id]
	if !ok {
		return repository.ErrAttemptNotFound
	}
	a.OrderID = orderID
	a.Status = status
	return nil
}

func (r *mockRecords) AddEvent(ctx context.Context, id, eventType, aggregateID string, payload []byte) error {
	r.events = append(r.events, eventType)
	return nil
}

type mockSessions struct {
	record session.Record
}

func (s *mockSessions) Get(ctx context.Context, sessionID string) (session.Record, error) {
	return s.record, nil
}

func (s *mockSessions) SetCustomerToken(ctx context.Context, sessionID, token string) error {
	s.record.CustomerToken = token
	return nil
}

func (s *mockSessions) SetGuestToken(ctx context.Context, sessionID, token string) error {
	s.record.GuestToken = token
	return nil
}

func (s *mockSessions) SetAddressIndex(ctx context.Context, sessionID string, index int) error {
	s.record.AddressIndex = index
	return nil
}

func (s *mockSessions) Clear(ctx context.Context, sessionID string) error {
	s.record = session.Record{AddressIndex: -1}
	return nil
}

func newTestService(api *mockAPI, records *mockRecords) *Service {
	sessions := &mockSessions{record: session.Record{CustomerToken: "t1"}}
	registry := NewRegistry(&RazorpayGateway{}, &CashfreeGateway{})
	return NewService(api, sessions, registry, records)
}

func TestIntegrations_AutoSelectsFirstMode(t *testing.T) {
	api := &mockAPI{integrations: []storeapi.PaymentIntegration{
		{Mode: "online", Gateway: "razorpay"},
		{Mode: "cod"},
	}}
	svc := newTestService(api, newMockRecords())

	view := svc.Integrations(context.Background(), "s1")

	assert.Equal(t, "online", view.DefaultMode)
	assert.Len(t, view.Integrations, 2)
}

func TestIntegrations_FetchFailureLeavesModeUnselected(t *testing.T) {
	api := &mockAPI{integrationsErr: errors.New("boom")}
	svc := newTestService(api, newMockRecords())

	view := svc.Integrations(context.Background(), "s1")

	assert.Empty(t, view.DefaultMode)
	assert.Empty(t, view.Integrations)
}

func TestSubmit_CODNeverCreatesPaymentSession(t *testing.T) {
	api := &mockAPI{order: &storeapi.Order{ID: "order-1", TotalAmount: 75, Currency: "INR"}}
	records := newMockRecords()
	svc := newTestService(api, records)

	res, err := svc.Submit(context.Background(), "s1", ModeCOD, "", "key-1")

	require.NoError(t, err)
	assert.Equal(t, 0, api.createPayCalls)
	assert.Equal(t, 1, api.createOrderCalls)
	assert.Equal(t, StatusOrderPlaced, res.Status)
	assert.Equal(t, "order-1", res.OrderID)
	assert.Equal(t, []string{"order_placed"}, records.events)
}

func TestSubmit_CODFailureStaysInModeSelected(t *testing.T) {
	api := &mockAPI{createOrderErr: errors.New("below minimum order")}
	records := newMockRecords()
	svc := newTestService(api, records)

	_, err := svc.Submit(context.Background(), "s1", ModeCOD, "", "key-1")

	assert.Error(t, err)
	a, getErr := records.GetAttemptByIdempotencyKey(context.Background(), "key-1")
	require.NoError(t, getErr)
	assert.Equal(t, string(StatusModeSelected), a.Status)
	assert.Empty(t, records.events)
}

func TestSubmit_OnlineCreatesSessionBeforeGatewayInvocation(t *testing.T) {
	api := &mockAPI{paymentSess: &storeapi.PaymentSession{
		Gateway:        GatewayRazorpay,
		PaymentOrderID: "pay_1",
		APIKey:         "rzp_key",
		Amount:         75,
		Currency:       "INR",
	}}
	records := newMockRecords()
	svc := newTestService(api, records)

	res, err := svc.Submit(context.Background(), "s1", ModeOnline, GatewayRazorpay, "key-1")

	require.NoError(t, err)
	assert.Equal(t, 1, api.createPayCalls)
	assert.Equal(t, StatusSessionCreated, res.Status)
	require.NotNil(t, res.Invocation)
	assert.Equal(t, GatewayRazorpay, res.Invocation.Gateway)
	assert.Equal(t, "pay_1", res.PaymentOrderID)
}

func TestSubmit_UnsupportedGateway(t *testing.T) {
	api := &mockAPI{paymentSess: &storeapi.PaymentSession{
		Gateway:        "paytm",
		PaymentOrderID: "pay_1",
	}}
	svc := newTestService(api, newMockRecords())

	_, err := svc.Submit(context.Background(), "s1", ModeOnline, "paytm", "key-1")

	assert.ErrorIs(t, err, ErrUnsupportedGateway)
}

func TestSubmit_CashfreeShortSessionAbortsBeforeInvocation(t *testing.T) {
	api := &mockAPI{paymentSess: &storeapi.PaymentSession{
		Gateway:        GatewayCashfree,
		PaymentOrderID: "pay_1",
		SessionID:      "short",
	}}
	records := newMockRecords()
	svc := newTestService(api, records)

	res, err := svc.Submit(context.Background(), "s1", ModeOnline, GatewayCashfree, "key-1")

	assert.ErrorIs(t, err, ErrInvalidSession)
	require.NotNil(t, res)
	assert.Equal(t, StatusFailed, res.Status)
	assert.Nil(t, res.Invocation)
	assert.Equal(t, "pay_1", res.PaymentOrderID)
}

func TestSubmit_UnknownMode(t *testing.T) {
	svc := newTestService(&mockAPI{}, newMockRecords())

	_, err := svc.Submit(context.Background(), "s1", "barter", "", "key-1")

	assert.ErrorIs(t, err, ErrUnknownMode)
}

func TestSubmit_DuplicateIdempotencyKeyReturnsCachedResult(t *testing.T) {
	api := &mockAPI{order: &storeapi.Order{ID: "order-1"}}
	records := newMockRecords()
	svc := newTestService(api, records)

	_, err := svc.Submit(context.Background(), "s1", ModeCOD, "", "key-1")
	require.NoError(t, err)

	res, err := svc.Submit(context.Background(), "s1", ModeCOD, "", "key-1")

	assert.ErrorIs(t, err, ErrDuplicateAttempt)
	assert.Equal(t, "order-1", res.OrderID)
	assert.Equal(t, 1, api.createOrderCalls)
}

// seedSessionCreatedAttempt submits an online checkout so the attempt sits
// in PAYMENT_SESSION_CREATED, the state gateway callbacks arrive from.
func seedSessionCreatedAttempt(t *testing.T, records *mockRecords, key string) string {
	t.Helper()
	api := &mockAPI{paymentSess: &storeapi.PaymentSession{
		Gateway:        GatewayCashfree,
		PaymentOrderID: "pay_1",
		SessionID:      "session_1234567890",
	}}
	svc := newTestService(api, records)
	res, err := svc.Submit(context.Background(), "s1", ModeOnline, GatewayCashfree, key)
	require.NoError(t, err)
	return res.AttemptID
}

func TestComplete_PlacesOrderViaV2Endpoint(t *testing.T) {
	api := &mockAPI{order: &storeapi.Order{ID: "order-9", TotalAmount: 75, Currency: "INR"}}
	records := newMockRecords()
	svc := newTestService(api, records)

	attemptID := seedSessionCreatedAttempt(t, records, "seed")

	res, err := svc.Complete(context.Background(), "s1", attemptID, "pay_1")

	require.NoError(t, err)
	assert.Equal(t, 1, api.orderV2Calls)
	assert.Equal(t, StatusOrderPlaced, res.Status)
	assert.Equal(t, "order-9", res.OrderID)
}

func TestComplete_SecondCallOnPlacedAttemptRejected(t *testing.T) {
	api := &mockAPI{order: &storeapi.Order{ID: "order-9"}}
	records := newMockRecords()
	svc := newTestService(api, records)

	attemptID := seedSessionCreatedAttempt(t, records, "seed")

	_, err := svc.Complete(context.Background(), "s1", attemptID, "pay_1")
	require.NoError(t, err)

	res, err := svc.Complete(context.Background(), "s1", attemptID, "pay_1")

	assert.ErrorIs(t, err, ErrIllegalTransition)
	assert.Nil(t, res)
	assert.Equal(t, 1, api.orderV2Calls)
}

func TestComplete_UnknownAttemptRejected(t *testing.T) {
	svc := newTestService(&mockAPI{}, newMockRecords())

	_, err := svc.Complete(context.Background(), "s1", "no-such-attempt", "pay_1")

	assert.ErrorIs(t, err, repository.ErrAttemptNotFound)
}

func TestComplete_OrderCreationFailureDistinguishedReason(t *testing.T) {
	api := &mockAPI{orderV2Err: errors.New("store rejected order")}
	records := newMockRecords()
	svc := newTestService(api, records)

	attemptID := seedSessionCreatedAttempt(t, records, "seed")

	res, err := svc.Complete(context.Background(), "s1", attemptID, "pay_1")

	assert.Error(t, err)
	assert.Equal(t, StatusFailed, res.Status)
	assert.Contains(t, res.Reason, "order creation failed after payment")
	assert.Equal(t, "pay_1", res.PaymentOrderID)
	assert.Contains(t, records.events, "payment_failed")
}

func TestFail_DismissedVsFailed(t *testing.T) {
	records := newMockRecords()
	svc := newTestService(&mockAPI{}, records)

	dismissedID := seedSessionCreatedAttempt(t, records, "seed-1")
	failedID := seedSessionCreatedAttempt(t, records, "seed-2")

	res, err := svc.Fail(context.Background(), dismissedID, "pay_1", "window closed", true)
	require.NoError(t, err)
	assert.Equal(t, StatusDismissed, res.Status)

	res, err = svc.Fail(context.Background(), failedID, "pay_1", "card declined", false)
	require.NoError(t, err)
	assert.Equal(t, StatusFailed, res.Status)
	assert.Equal(t, "card declined", res.Reason)
}

func TestFail_OnPlacedAttemptRejected(t *testing.T) {
	api := &mockAPI{order: &storeapi.Order{ID: "order-9"}}
	records := newMockRecords()
	svc := newTestService(api, records)

	attemptID := seedSessionCreatedAttempt(t, records, "seed")
	_, err := svc.Complete(context.Background(), "s1", attemptID, "pay_1")
	require.NoError(t, err)

	_, err = svc.Fail(context.Background(), attemptID, "pay_1", "late callback", false)

	assert.ErrorIs(t, err, ErrIllegalTransition)
}
