package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Ramya-993/mcartify-theme-sub000/internal/auth"
	"github.com/Ramya-993/mcartify-theme-sub000/internal/storeapi"
)

type authServiceMock struct {
	customer *storeapi.Customer
	err      error

	sentChannel     storeapi.OTPChannel
	sentDestination string
	loggedOut       bool
}

func (m *authServiceMock) SendOTP(ctx context.Context, channel storeapi.OTPChannel, destination string) error {
	m.sentChannel = channel
	m.sentDestination = destination
	return m.err
}

func (m *authServiceMock) VerifyOTP(ctx context.Context, sessionID string, channel storeapi.OTPChannel, destination, code string) error {
	return m.err
}

func (m *authServiceMock) Login(ctx context.Context, sessionID, email, password string) error {
	return m.err
}

func (m *authServiceMock) Logout(ctx context.Context, sessionID string) error {
	m.loggedOut = true
	return m.err
}

func (m *authServiceMock) Details(ctx context.Context, sessionID string) (*storeapi.Customer, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.customer, nil
}

func TestSendOTP_Success(t *testing.T) {
	mock := &authServiceMock{}
	handler := NewAuthHandler(mock, 5*time.Second)

	body, _ := json.Marshal(SendOTPRequestDTO{Channel: "email", Destination: "user@example.com"})
	recorder := httptest.NewRecorder()
	handler.SendOTP(recorder, sessionRequest("POST", "/otp/send", body))

	if recorder.Code != http.StatusOK {
		t.Errorf("Expected status code %d, got %d", http.StatusOK, recorder.Code)
	}
	if mock.sentChannel != storeapi.ChannelEmail {
		t.Errorf("Expected email channel, got '%s'", mock.sentChannel)
	}
}

func TestSendOTP_InvalidEmail(t *testing.T) {
	mock := &authServiceMock{err: auth.ErrInvalidEmail}
	handler := NewAuthHandler(mock, 5*time.Second)

	body, _ := json.Marshal(SendOTPRequestDTO{Channel: "email", Destination: "not-an-email"})
	recorder := httptest.NewRecorder()
	handler.SendOTP(recorder, sessionRequest("POST", "/otp/send", body))

	if recorder.Code != http.StatusBadRequest {
		t.Errorf("Expected status code %d, got %d", http.StatusBadRequest, recorder.Code)
	}

	var response ErrorResponse
	json.NewDecoder(recorder.Body).Decode(&response)
	if response.Code != "validation_error" {
		t.Errorf("Expected error code 'validation_error', got '%s'", response.Code)
	}
}

func TestVerifyOTP_MissingCode(t *testing.T) {
	mock := &authServiceMock{}
	handler := NewAuthHandler(mock, 5*time.Second)

	body, _ := json.Marshal(VerifyOTPRequestDTO{Channel: "phone", Destination: "+919876543210"})
	recorder := httptest.NewRecorder()
	handler.VerifyOTP(recorder, sessionRequest("POST", "/otp/verify", body))

	if recorder.Code != http.StatusBadRequest {
		t.Errorf("Expected status code %d, got %d", http.StatusBadRequest, recorder.Code)
	}
}

func TestLogin_Success(t *testing.T) {
	mock := &authServiceMock{}
	handler := NewAuthHandler(mock, 5*time.Second)

	body, _ := json.Marshal(LoginRequestDTO{Email: "user@example.com", Password: "secret"})
	recorder := httptest.NewRecorder()
	handler.Login(recorder, sessionRequest("POST", "/login", body))

	if recorder.Code != http.StatusOK {
		t.Errorf("Expected status code %d, got %d", http.StatusOK, recorder.Code)
	}

	var response StatusResponseDTO
	json.NewDecoder(recorder.Body).Decode(&response)
	if response.Status != "logged_in" {
		t.Errorf("Expected status 'logged_in', got '%s'", response.Status)
	}
}

func TestMe_NotLoggedIn(t *testing.T) {
	mock := &authServiceMock{err: auth.ErrNotLoggedIn}
	handler := NewAuthHandler(mock, 5*time.Second)

	recorder := httptest.NewRecorder()
	handler.Me(recorder, sessionRequest("GET", "/me", nil))

	if recorder.Code != http.StatusUnauthorized {
		t.Errorf("Expected status code %d, got %d", http.StatusUnauthorized, recorder.Code)
	}
}

func TestMe_Success(t *testing.T) {
	mock := &authServiceMock{customer: &storeapi.Customer{Email: "user@example.com"}}
	handler := NewAuthHandler(mock, 5*time.Second)

	recorder := httptest.NewRecorder()
	handler.Me(recorder, sessionRequest("GET", "/me", nil))

	if recorder.Code != http.StatusOK {
		t.Errorf("Expected status code %d, got %d", http.StatusOK, recorder.Code)
	}

	var response storeapi.Customer
	if err := json.NewDecoder(recorder.Body).Decode(&response); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if response.Email != "user@example.com" {
		t.Errorf("Expected email 'user@example.com', got '%s'", response.Email)
	}
}

func TestLogout_Success(t *testing.T) {
	mock := &authServiceMock{}
	handler := NewAuthHandler(mock, 5*time.Second)

	recorder := httptest.NewRecorder()
	handler.Logout(recorder, sessionRequest("POST", "/logout", nil))

	if recorder.Code != http.StatusOK {
		t.Errorf("Expected status code %d, got %d", http.StatusOK, recorder.Code)
	}
	if !mock.loggedOut {
		t.Error("Expected logout call to reach service")
	}
}
