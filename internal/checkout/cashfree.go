package checkout

import "github.com/Ramya-993/mcartify-theme-sub000/internal/storeapi"

const GatewayCashfree = "cashfree"

// minSessionIDLength guards against malformed server responses: anything
// shorter cannot be a real Cashfree payment session id.
const minSessionIDLength = 10

// CashfreeGateway hands the client a payment session id; the Cashfree
// widget performs the redirect itself, so there is no success callback and
// failures are only observable at invocation time.
type CashfreeGateway struct{}

func (g *CashfreeGateway) Name() string {
	return GatewayCashfree
}

func (g *CashfreeGateway) Invoke(sess *storeapi.PaymentSession, _ Prefill) (*Invocation, error) {
	if len(sess.SessionID) < minSessionIDLength {
		return nil, ErrInvalidSession
	}

	return &Invocation{
		Gateway:          GatewayCashfree,
		PaymentOrderID:   sess.PaymentOrderID,
		PaymentSessionID: sess.SessionID,
		RedirectTarget:   "_self",
	}, nil
}
