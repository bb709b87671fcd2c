package storeapi

import (
	"context"
	"net/http"
)

func (c *Client) PaymentIntegrations(ctx context.Context, token string) ([]PaymentIntegration, error) {
	var integrations []PaymentIntegration
	if err := c.do(ctx, http.MethodGet, "/stores/payment-integrations", token, nil, &integrations); err != nil {
		return nil, err
	}
	return integrations, nil
}

// CreatePayment opens a gateway payment session for the current cart.
func (c *Client) CreatePayment(ctx context.Context, token string) (*PaymentSession, error) {
	var sess PaymentSession
	if err := c.do(ctx, http.MethodPost, "/stores/payment/create", token, nil, &sess); err != nil {
		return nil, err
	}
	return &sess, nil
}

type CreateOrderRequest struct {
	PaymentMode string `json:"payment_mode"`
}

// CreateOrder places an order without an online payment session (COD).
func (c *Client) CreateOrder(ctx context.Context, token string, req CreateOrderRequest) (*Order, error) {
	var order Order
	if err := c.do(ctx, http.MethodPost, "/stores/order/create", token, req, &order); err != nil {
		return nil, err
	}
	return &order, nil
}

type CreateOrderV2Request struct {
	PaymentOrderID string `json:"payment_order_id"`
}

// CreateOrderV2 places an order after an online payment succeeded, keyed by
// the gateway's payment order id.
func (c *Client) CreateOrderV2(ctx context.Context, token, paymentOrderID string) (*Order, error) {
	var order Order
	err := c.do(ctx, http.MethodPost, "/stores/v2/order/create", token,
		CreateOrderV2Request{PaymentOrderID: paymentOrderID}, &order)
	if err != nil {
		return nil, err
	}
	return &order, nil
}
