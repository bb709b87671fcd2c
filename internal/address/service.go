package address

import (
	"context"
	"errors"
	"fmt"

	"github.com/Ramya-993/mcartify-theme-sub000/internal/cart"
	"github.com/Ramya-993/mcartify-theme-sub000/internal/session"
	"github.com/Ramya-993/mcartify-theme-sub000/internal/storeapi"
)

var (
	ErrPhoneMismatch   = errors.New("phone number does not match country format")
	ErrPincodeMismatch = errors.New("postal code does not match country")
	ErrIndexOutOfRange = errors.New("selected address index out of range")
)

// API is the slice of the store client the address service uses.
type API interface {
	ListAddresses(ctx context.Context, token string) ([]storeapi.Address, error)
	AddAddress(ctx context.Context, token string, addr storeapi.Address) (*storeapi.Address, error)
	UpdateAddress(ctx context.Context, token string, addr storeapi.Address) error
	DeleteAddress(ctx context.Context, token, addressID string) error
	CheckLocation(ctx context.Context, token string, q storeapi.LocationQuery) (*storeapi.LocationCheck, error)
}

// Carts is the piece of the cart service used for the eager address sync.
type Carts interface {
	AttachAddress(ctx context.Context, sessionID, addressID string) (*cart.View, error)
}

type Service struct {
	api      API
	carts    Carts
	sessions session.Store
}

func NewService(api API, carts Carts, sessions session.Store) *Service {
	return &Service{api: api, carts: carts, sessions: sessions}
}

// List returns the customer's addresses plus the session's selected index
// (-1 when nothing is selected or the selection no longer fits the list).
func (s *Service) List(ctx context.Context, sessionID string) ([]storeapi.Address, int, error) {
	rec, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, -1, err
	}

	addrs, err := s.api.ListAddresses(ctx, rec.Bearer())
	if err != nil {
		return nil, -1, err
	}

	selected := rec.AddressIndex
	if selected < 0 || selected >= len(addrs) {
		selected = -1
	}
	return addrs, selected, nil
}

// Select picks an address by list index and eagerly attaches it to the
// server-side cart so shipping and tax recalculate before order placement.
func (s *Service) Select(ctx context.Context, sessionID string, index int) (*cart.View, error) {
	rec, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	addrs, err := s.api.ListAddresses(ctx, rec.Bearer())
	if err != nil {
		return nil, err
	}
	if index < 0 || index >= len(addrs) {
		return nil, fmt.Errorf("%w: %d of %d", ErrIndexOutOfRange, index, len(addrs))
	}

	view, err := s.carts.AttachAddress(ctx, sessionID, addrs[index].ID)
	if err != nil {
		return view, err
	}

	if err := s.sessions.SetAddressIndex(ctx, sessionID, index); err != nil {
		return view, err
	}
	return view, nil
}

// Save creates or updates an address. Both pre-flight validations must pass
// before anything is submitted; a failed check aborts with no partial write.
func (s *Service) Save(ctx context.Context, sessionID string, addr storeapi.Address) (*storeapi.Address, error) {
	rec, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	token := rec.Bearer()

	if err := s.validate(ctx, token, addr); err != nil {
		return nil, err
	}

	if addr.ID != "" {
		if err := s.api.UpdateAddress(ctx, token, addr); err != nil {
			return nil, err
		}
		return &addr, nil
	}
	return s.api.AddAddress(ctx, token, addr)
}

func (s *Service) Delete(ctx context.Context, sessionID, addressID string) error {
	rec, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		return err
	}
	return s.api.DeleteAddress(ctx, rec.Bearer(), addressID)
}

func (s *Service) validate(ctx context.Context, token string, addr storeapi.Address) error {
	phoneCheck, err := s.api.CheckLocation(ctx, token, storeapi.LocationQuery{
		Phone:   addr.Phone,
		Country: addr.Country,
	})
	if err != nil {
		return fmt.Errorf("phone validation failed: %w", err)
	}
	if !phoneCheck.Valid {
		return ErrPhoneMismatch
	}

	pinCheck, err := s.api.CheckLocation(ctx, token, storeapi.LocationQuery{
		Pincode: addr.PostalCode,
		Country: addr.Country,
	})
	if err != nil {
		return fmt.Errorf("pincode validation failed: %w", err)
	}
	if !pinCheck.Valid {
		return ErrPincodeMismatch
	}
	return nil
}
