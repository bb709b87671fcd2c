package checkout

import (
	"fmt"
	"math"

	"github.com/Ramya-993/mcartify-theme-sub000/internal/storeapi"
)

const GatewayRazorpay = "razorpay"

// RazorpayGateway builds the options object the Razorpay checkout widget
// expects. Amounts are converted to the smallest currency unit.
type RazorpayGateway struct {
	ThemeColor string
}

func (g *RazorpayGateway) Name() string {
	return GatewayRazorpay
}

func (g *RazorpayGateway) Invoke(sess *storeapi.PaymentSession, prefill Prefill) (*Invocation, error) {
	if sess.PaymentOrderID == "" {
		return nil, fmt.Errorf("%w: missing payment order id", ErrInvalidSession)
	}
	if sess.APIKey == "" {
		return nil, fmt.Errorf("%w: missing api key", ErrInvalidSession)
	}

	theme := g.ThemeColor
	if theme == "" {
		theme = "#3399cc"
	}

	options := map[string]any{
		"key":      sess.APIKey,
		"amount":   int64(math.Round(sess.Amount * 100)),
		"currency": sess.Currency,
		"order_id": sess.PaymentOrderID,
		"prefill": map[string]any{
			"name":    prefill.Name,
			"email":   prefill.Email,
			"contact": prefill.Contact,
		},
		"theme": map[string]any{"color": theme},
	}

	return &Invocation{
		Gateway:        GatewayRazorpay,
		PaymentOrderID: sess.PaymentOrderID,
		Options:        options,
	}, nil
}
