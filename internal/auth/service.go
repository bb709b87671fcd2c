package auth

import (
	"context"
	"errors"
	"net/mail"
	"regexp"

	"github.com/Ramya-993/mcartify-theme-sub000/internal/session"
	"github.com/Ramya-993/mcartify-theme-sub000/internal/storeapi"
)

var (
	ErrInvalidEmail    = errors.New("malformed email address")
	ErrInvalidPhone    = errors.New("malformed phone number")
	ErrNotLoggedIn     = errors.New("customer login required")
	ErrMissingPassword = errors.New("password is required")
)

var phonePattern = regexp.MustCompile(`^\+?[0-9]{8,15}$`)

// API is the slice of the store client the auth service uses.
type API interface {
	SendOTP(ctx context.Context, channel storeapi.OTPChannel, destination string) error
	VerifyOTP(ctx context.Context, channel storeapi.OTPChannel, destination, code string) (string, error)
	Login(ctx context.Context, email, password string) (string, error)
	CustomerDetails(ctx context.Context, token string) (*storeapi.Customer, error)
}

type Service struct {
	api      API
	sessions session.Store
}

func NewService(api API, sessions session.Store) *Service {
	return &Service{api: api, sessions: sessions}
}

func (s *Service) SendOTP(ctx context.Context, channel storeapi.OTPChannel, destination string) error {
	if err := validateDestination(channel, destination); err != nil {
		return err
	}
	return s.api.SendOTP(ctx, channel, destination)
}

// VerifyOTP exchanges the code for a customer token and stores it. The
// guest token stays in place; the customer token simply wins from now on.
func (s *Service) VerifyOTP(ctx context.Context, sessionID string, channel storeapi.OTPChannel, destination, code string) error {
	if err := validateDestination(channel, destination); err != nil {
		return err
	}

	token, err := s.api.VerifyOTP(ctx, channel, destination, code)
	if err != nil {
		return err
	}
	return s.sessions.SetCustomerToken(ctx, sessionID, token)
}

func (s *Service) Login(ctx context.Context, sessionID, email, password string) error {
	if err := validateDestination(storeapi.ChannelEmail, email); err != nil {
		return err
	}
	if password == "" {
		return ErrMissingPassword
	}

	token, err := s.api.Login(ctx, email, password)
	if err != nil {
		return err
	}
	return s.sessions.SetCustomerToken(ctx, sessionID, token)
}

// Logout clears the whole session record, guest token included.
func (s *Service) Logout(ctx context.Context, sessionID string) error {
	return s.sessions.Clear(ctx, sessionID)
}

func (s *Service) Details(ctx context.Context, sessionID string) (*storeapi.Customer, error) {
	rec, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if rec.Identity() != session.NonGuest {
		return nil, ErrNotLoggedIn
	}
	return s.api.CustomerDetails(ctx, rec.CustomerToken)
}

func validateDestination(channel storeapi.OTPChannel, destination string) error {
	switch channel {
	case storeapi.ChannelEmail:
		if _, err := mail.ParseAddress(destination); err != nil {
			return ErrInvalidEmail
		}
	case storeapi.ChannelPhone:
		if !phonePattern.MatchString(destination) {
			return ErrInvalidPhone
		}
	}
	return nil
}
