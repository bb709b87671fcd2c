package cart

import (
	"context"
	"log"

	"golang.org/x/sync/singleflight"

	"github.com/Ramya-993/mcartify-theme-sub000/internal/session"
	"github.com/Ramya-993/mcartify-theme-sub000/internal/storeapi"
)

// API is the slice of the store client the cart service uses.
type API interface {
	GetCart(ctx context.Context, token string) (*storeapi.Cart, error)
	AddItem(ctx context.Context, token string, productID int64, quantity int) error
	RemoveItem(ctx context.Context, token string, productID int64) error
	ClearCart(ctx context.Context, token string) error
	ApplyPromo(ctx context.Context, token, code string) error
	RemovePromo(ctx context.Context, token string) error
	AttachAddress(ctx context.Context, token, addressID string) error
	ListPromoCodes(ctx context.Context, token string) ([]storeapi.PromoCode, error)
}

// View is what mutation calls hand back: the refetched cart plus derived
// totals. The cart always reflects server truth, never the local mutation.
type View struct {
	Cart   *storeapi.Cart `json:"cart"`
	Totals Totals         `json:"totals"`
}

type Service struct {
	api      API
	sessions session.Store
	sfg      singleflight.Group // collapses concurrent refetches per session
}

func NewService(api API, sessions session.Store) *Service {
	return &Service{api: api, sessions: sessions}
}

// Fetch returns the current server-side cart, adopting any fresh guest
// token the server minted for an unauthenticated session.
func (s *Service) Fetch(ctx context.Context, sessionID string) (*View, error) {
	cart, err := s.refresh(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	return &View{Cart: cart, Totals: Derive(cart)}, nil
}

func (s *Service) AddItem(ctx context.Context, sessionID string, productID int64, quantity int) (*View, error) {
	return s.mutate(ctx, sessionID, func(token string) error {
		return s.api.AddItem(ctx, token, productID, quantity)
	})
}

func (s *Service) RemoveItem(ctx context.Context, sessionID string, productID int64) (*View, error) {
	return s.mutate(ctx, sessionID, func(token string) error {
		return s.api.RemoveItem(ctx, token, productID)
	})
}

func (s *Service) Clear(ctx context.Context, sessionID string) (*View, error) {
	return s.mutate(ctx, sessionID, func(token string) error {
		return s.api.ClearCart(ctx, token)
	})
}

func (s *Service) ApplyPromo(ctx context.Context, sessionID, code string) (*View, error) {
	return s.mutate(ctx, sessionID, func(token string) error {
		return s.api.ApplyPromo(ctx, token, code)
	})
}

func (s *Service) RemovePromo(ctx context.Context, sessionID string) (*View, error) {
	return s.mutate(ctx, sessionID, func(token string) error {
		return s.api.RemovePromo(ctx, token)
	})
}

// AttachAddress syncs the delivery address onto the server-side cart; the
// refetch picks up recalculated shipping and tax.
func (s *Service) AttachAddress(ctx context.Context, sessionID, addressID string) (*View, error) {
	return s.mutate(ctx, sessionID, func(token string) error {
		return s.api.AttachAddress(ctx, token, addressID)
	})
}

func (s *Service) PromoCodes(ctx context.Context, sessionID string) ([]storeapi.PromoCode, error) {
	token, err := s.bearer(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	return s.api.ListPromoCodes(ctx, token)
}

// mutate runs one cart mutation and then refetches the full cart in a
// deferred block, so the refetch happens on the failure path too. The
// returned view carries server truth even when the mutation itself failed;
// the mutation error is returned alongside it.
func (s *Service) mutate(ctx context.Context, sessionID string, fn func(token string) error) (view *View, err error) {
	token, err := s.bearer(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	defer func() {
		fresh, refreshErr := s.refresh(ctx, sessionID)
		if refreshErr != nil {
			log.Printf("cart refresh after mutation failed: %v", refreshErr)
			if err == nil {
				err = refreshErr
			}
			return
		}
		view = &View{Cart: fresh, Totals: Derive(fresh)}
	}()

	err = fn(token)
	return
}

// bearer resolves the session's upstream credential. An unauthenticated
// session silently falls back to fetching the cart once, which makes the
// server mint a guest token we store as the login credential.
func (s *Service) bearer(ctx context.Context, sessionID string) (string, error) {
	rec, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		return "", err
	}
	if rec.Identity() != session.Unauthenticated {
		return rec.Bearer(), nil
	}

	if _, err := s.refresh(ctx, sessionID); err != nil {
		return "", err
	}
	rec, err = s.sessions.Get(ctx, sessionID)
	if err != nil {
		return "", err
	}
	return rec.Bearer(), nil
}

func (s *Service) refresh(ctx context.Context, sessionID string) (*storeapi.Cart, error) {
	v, err, _ := s.sfg.Do(sessionID, func() (interface{}, error) {
		rec, err := s.sessions.Get(ctx, sessionID)
		if err != nil {
			return nil, err
		}

		cart, err := s.api.GetCart(ctx, rec.Bearer())
		if err != nil {
			return nil, err
		}

		// Guest-token adoption: a returned token that differs from the
		// stored one replaces it.
		if cart.GuestToken != "" && cart.GuestToken != rec.GuestToken {
			if errSet := s.sessions.SetGuestToken(ctx, sessionID, cart.GuestToken); errSet != nil {
				log.Printf("failed to store guest token: %v", errSet)
			}
		}
		return cart, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*storeapi.Cart), nil
}
