package storeapi

import (
	"context"
	"fmt"
	"net/http"
)

// OTPChannel selects the customer endpoint family: email or phone.
type OTPChannel string

const (
	ChannelEmail OTPChannel = "email"
	ChannelPhone OTPChannel = "phone"
)

func (ch OTPChannel) valid() bool {
	return ch == ChannelEmail || ch == ChannelPhone
}

func (c *Client) SendOTP(ctx context.Context, channel OTPChannel, destination string) error {
	if !channel.valid() {
		return fmt.Errorf("unknown OTP channel %q", channel)
	}
	return c.do(ctx, http.MethodPost, fmt.Sprintf("/customer/send-otp/%s", channel), "",
		map[string]string{string(channel): destination}, nil)
}

type tokenResponse struct {
	Token string `json:"token"`
}

// VerifyOTP exchanges a one-time code for a customer token.
func (c *Client) VerifyOTP(ctx context.Context, channel OTPChannel, destination, code string) (string, error) {
	if !channel.valid() {
		return "", fmt.Errorf("unknown OTP channel %q", channel)
	}
	var resp tokenResponse
	err := c.do(ctx, http.MethodPost, fmt.Sprintf("/customer/verify-otp/%s", channel), "",
		map[string]string{string(channel): destination, "otp": code}, &resp)
	if err != nil {
		return "", err
	}
	return resp.Token, nil
}

// Login authenticates with email and password and returns a customer token.
func (c *Client) Login(ctx context.Context, email, password string) (string, error) {
	var resp tokenResponse
	err := c.do(ctx, http.MethodPost, "/customer/login/email", "",
		map[string]string{"email": email, "password": password}, &resp)
	if err != nil {
		return "", err
	}
	return resp.Token, nil
}

func (c *Client) CustomerDetails(ctx context.Context, token string) (*Customer, error) {
	var cust Customer
	if err := c.do(ctx, http.MethodGet, "/customer/details", token, nil, &cust); err != nil {
		return nil, err
	}
	return &cust, nil
}
