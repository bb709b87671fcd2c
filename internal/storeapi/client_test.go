package storeapi

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	client, err := New(Config{BaseURL: srv.URL, Timeout: 5 * time.Second})
	require.NoError(t, err)
	return client
}

func TestGetCart_SendsBearerToken(t *testing.T) {
	var gotAuth string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Write([]byte(`{"status": true, "data": {"original_price": 100, "currency": "INR"}}`))
	})

	cart, err := client.GetCart(context.Background(), "guest-token-1")

	require.NoError(t, err)
	assert.Equal(t, "Bearer guest-token-1", gotAuth)
	assert.Equal(t, 100.0, cart.OriginalPrice)
	assert.Equal(t, "INR", cart.Currency)
}

func TestGetCart_NoAuthHeaderWithoutToken(t *testing.T) {
	var hasAuth bool
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, hasAuth = r.Header["Authorization"]
		w.Write([]byte(`{"status": true, "data": {"guest_token": "fresh-guest"}}`))
	})

	cart, err := client.GetCart(context.Background(), "")

	require.NoError(t, err)
	assert.False(t, hasAuth)
	assert.Equal(t, "fresh-guest", cart.GuestToken)
}

func TestDo_FalsyStatusFlagIsBusinessFailure(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status": false, "message": "coupon expired"}`))
	})

	err := client.ApplyPromo(context.Background(), "t1", "SAVE10")

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "coupon expired", apiErr.Message)
	assert.Equal(t, http.StatusOK, apiErr.StatusCode)
}

func TestDo_ExtractsNestedErrorMessage(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error": {"message": "cart below minimum order amount"}}`))
	})

	_, err := client.CreatePayment(context.Background(), "t1")

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "cart below minimum order amount", apiErr.Message)
	assert.Equal(t, http.StatusBadRequest, apiErr.StatusCode)
}

func TestDo_FallsBackToRawBody(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte("no such store"))
	})

	err := client.ClearCart(context.Background(), "t1")

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "no such store", apiErr.Message)
}

func TestSendOTP_RejectsUnknownChannel(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("request should not reach the server")
	})

	err := client.SendOTP(context.Background(), "carrier-pigeon", "someone@example.com")

	assert.Error(t, err)
}

func TestVerifyOTP_ReturnsToken(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/customer/verify-otp/phone", r.URL.Path)
		w.Write([]byte(`{"status": true, "data": {"token": "customer-token-9"}}`))
	})

	token, err := client.VerifyOTP(context.Background(), ChannelPhone, "+911234567890", "123456")

	require.NoError(t, err)
	assert.Equal(t, "customer-token-9", token)
}
