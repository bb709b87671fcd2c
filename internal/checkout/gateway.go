package checkout

import (
	"errors"

	"github.com/Ramya-993/mcartify-theme-sub000/internal/storeapi"
)

var (
	ErrUnsupportedGateway = errors.New("unsupported payment gateway")
	ErrInvalidSession     = errors.New("invalid payment session format")
)

// Prefill carries customer contact fields into the gateway checkout form.
type Prefill struct {
	Name    string `json:"name,omitempty"`
	Email   string `json:"email,omitempty"`
	Contact string `json:"contact,omitempty"`
}

// Invocation is the gateway-specific payload the web client needs to open
// the hosted checkout. Exactly one of Options or RedirectTarget semantics
// applies, keyed by Gateway.
type Invocation struct {
	Gateway          string         `json:"gateway"`
	PaymentOrderID   string         `json:"payment_order_id"`
	Options          map[string]any `json:"options,omitempty"`
	PaymentSessionID string         `json:"payment_session_id,omitempty"`
	RedirectTarget   string         `json:"redirect_target,omitempty"`
}

// Gateway prepares the client-side invocation for one payment processor.
// Adding a processor means adding an implementation and registering it;
// the dispatch path stays untouched.
type Gateway interface {
	Name() string
	Invoke(sess *storeapi.PaymentSession, prefill Prefill) (*Invocation, error)
}

// Registry maps the server-declared gateway identifier to its handler.
type Registry struct {
	gateways map[string]Gateway
}

func NewRegistry(gateways ...Gateway) *Registry {
	r := &Registry{gateways: make(map[string]Gateway, len(gateways))}
	for _, g := range gateways {
		r.gateways[g.Name()] = g
	}
	return r
}

func (r *Registry) Lookup(name string) (Gateway, error) {
	g, ok := r.gateways[name]
	if !ok {
		return nil, ErrUnsupportedGateway
	}
	return g, nil
}
