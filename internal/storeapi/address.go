package storeapi

import (
	"context"
	"fmt"
	"net/http"
)

func (c *Client) ListAddresses(ctx context.Context, token string) ([]Address, error) {
	var addrs []Address
	if err := c.do(ctx, http.MethodGet, "/stores/addresses", token, nil, &addrs); err != nil {
		return nil, err
	}
	return addrs, nil
}

func (c *Client) AddAddress(ctx context.Context, token string, addr Address) (*Address, error) {
	var created Address
	if err := c.do(ctx, http.MethodPost, "/stores/address/add", token, addr, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

func (c *Client) UpdateAddress(ctx context.Context, token string, addr Address) error {
	if addr.ID == "" {
		return fmt.Errorf("address id is required for update")
	}
	return c.do(ctx, http.MethodPost, "/stores/address/update", token, addr, nil)
}

func (c *Client) DeleteAddress(ctx context.Context, token, addressID string) error {
	return c.do(ctx, http.MethodDelete, "/stores/address/delete", token,
		map[string]string{"address_id": addressID}, nil)
}

// LocationQuery carries one pre-flight validation probe. Exactly one of
// Phone or Pincode is set per call.
type LocationQuery struct {
	Phone   string `json:"phone,omitempty"`
	Pincode string `json:"pincode,omitempty"`
	Country string `json:"country"`
}

func (c *Client) CheckLocation(ctx context.Context, token string, q LocationQuery) (*LocationCheck, error) {
	var check LocationCheck
	if err := c.do(ctx, http.MethodPost, "/stores/check-location", token, q, &check); err != nil {
		return nil, err
	}
	return &check, nil
}
