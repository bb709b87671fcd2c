package storeapi

import (
	"context"
	"fmt"
	"net/http"
)

func (c *Client) GetCart(ctx context.Context, token string) (*Cart, error) {
	var cart Cart
	if err := c.do(ctx, http.MethodGet, "/stores/cart", token, nil, &cart); err != nil {
		return nil, err
	}
	return &cart, nil
}

type AddItemRequest struct {
	ProductID int64 `json:"product_id"`
	Quantity  int   `json:"quantity"`
}

func (c *Client) AddItem(ctx context.Context, token string, productID int64, quantity int) error {
	return c.do(ctx, http.MethodPost, "/stores/cart/add", token,
		AddItemRequest{ProductID: productID, Quantity: quantity}, nil)
}

func (c *Client) RemoveItem(ctx context.Context, token string, productID int64) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/stores/cart/delete/%d", productID), token, nil, nil)
}

func (c *Client) ClearCart(ctx context.Context, token string) error {
	return c.do(ctx, http.MethodPost, "/stores/cart/clear", token, nil, nil)
}

// AttachAddress persists the delivery address on the server-side cart so
// shipping and tax stay current before order placement.
func (c *Client) AttachAddress(ctx context.Context, token, addressID string) error {
	return c.do(ctx, http.MethodPost, "/stores/cart/address", token,
		map[string]string{"address_id": addressID}, nil)
}

func (c *Client) ListPromoCodes(ctx context.Context, token string) ([]PromoCode, error) {
	var codes []PromoCode
	if err := c.do(ctx, http.MethodGet, "/stores/promocodes", token, nil, &codes); err != nil {
		return nil, err
	}
	return codes, nil
}

func (c *Client) ApplyPromo(ctx context.Context, token, code string) error {
	return c.do(ctx, http.MethodPost, "/stores/promocode/apply", token,
		map[string]string{"code": code}, nil)
}

func (c *Client) RemovePromo(ctx context.Context, token string) error {
	return c.do(ctx, http.MethodDelete, "/stores/promocode/remove", token, nil, nil)
}
