package session

// Identity is the effective identity derived from the two mutually
// exclusive tokens a session may hold.
type Identity int

const (
	// Unauthenticated means neither token is present. Callers fall back
	// silently: a cart fetch obtains a fresh guest token from the server.
	Unauthenticated Identity = iota
	Guest
	NonGuest
)

func (i Identity) String() string {
	switch i {
	case Guest:
		return "guest"
	case NonGuest:
		return "customer"
	default:
		return "unauthenticated"
	}
}

// Resolve decides effective identity. The customer token wins when both are
// present; the guest token is deliberately left in place in that case.
func Resolve(customerToken, guestToken string) Identity {
	switch {
	case customerToken != "":
		return NonGuest
	case guestToken != "":
		return Guest
	default:
		return Unauthenticated
	}
}

// Record is the server-side replacement for the browser's localStorage:
// the two tokens plus the positional index of the selected address.
type Record struct {
	CustomerToken string `json:"customer_token,omitempty"`
	GuestToken    string `json:"guest_token,omitempty"`

	// AddressIndex selects into the address list by position; -1 means no
	// selection. Index-based selection is fragile under list mutation, see
	// DESIGN.md.
	AddressIndex int `json:"address_index"`
}

func (r Record) Identity() Identity {
	return Resolve(r.CustomerToken, r.GuestToken)
}

// Bearer returns the token to send upstream, or "" when unauthenticated.
func (r Record) Bearer() string {
	if r.CustomerToken != "" {
		return r.CustomerToken
	}
	return r.GuestToken
}
