package sms

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"
)

func TestNewHTTPAPI(t *testing.T) {
	t.Run("MissingEndpoint", func(t *testing.T) {
		_, err := NewHTTPAPI(HTTPAPIConfig{Token: "tok", Sender: "Refundly"})
		if err != ErrEndpointRequired {
			t.Fatalf("expected ErrEndpointRequired, got %v", err)
		}
	})

	t.Run("MissingCredentials", func(t *testing.T) {
		_, err := NewHTTPAPI(HTTPAPIConfig{Endpoint: "http://gw.local/send"})
		if err != ErrCredentialsRequired {
			t.Fatalf("expected ErrCredentialsRequired, got %v", err)
		}
	})

	t.Run("Valid", func(t *testing.T) {
		s, err := NewHTTPAPI(HTTPAPIConfig{Endpoint: "http://gw.local/send", Token: "tok", Sender: "Refundly"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		defer s.Close()

		if s.maxRetries != 2 {
			t.Fatalf("expected default retry count 2, got %d", s.maxRetries)
		}
	})
}

func TestHTTPAPISend(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		// Arrange
		var gotAuth string
		var gotReq sendRequest
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotAuth = r.Header.Get("Authorization")
			_ = json.NewDecoder(r.Body).Decode(&gotReq)
			_ = json.NewEncoder(w).Encode(sendResponse{Success: true})
		}))
		defer srv.Close()

		s, _ := NewHTTPAPI(HTTPAPIConfig{Endpoint: srv.URL, Token: "tok", Sender: "Refundly"})
		defer s.Close()

		// Act
		err := s.Send(context.Background(), Message{To: "0501234567", Body: "code 123456"})

		// Assert
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if gotAuth != "Bearer tok" {
			t.Fatalf("expected bearer token header, got %q", gotAuth)
		}
		if gotReq.Sender != "Refundly" || gotReq.To != "0501234567" || gotReq.Message != "code 123456" {
			t.Fatalf("unexpected request payload: %+v", gotReq)
		}
	})

	t.Run("RetriesTransientFailure", func(t *testing.T) {
		// Arrange
		var calls atomic.Int32
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if calls.Add(1) == 1 {
				w.WriteHeader(http.StatusServiceUnavailable)
				return
			}
			_ = json.NewEncoder(w).Encode(sendResponse{Success: true})
		}))
		defer srv.Close()

		s, _ := NewHTTPAPI(HTTPAPIConfig{Endpoint: srv.URL, Token: "tok", Sender: "Refundly", Timeout: time.Second})
		defer s.Close()

		// Act
		err := s.Send(context.Background(), Message{To: "0501234567", Body: "code"})

		// Assert
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if calls.Load() != 2 {
			t.Fatalf("expected 2 attempts, got %d", calls.Load())
		}
	})

	t.Run("DoesNotRetryClientError", func(t *testing.T) {
		// Arrange
		var calls atomic.Int32
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			calls.Add(1)
			w.WriteHeader(http.StatusUnauthorized)
		}))
		defer srv.Close()

		s, _ := NewHTTPAPI(HTTPAPIConfig{Endpoint: srv.URL, Token: "bad", Sender: "Refundly"})
		defer s.Close()

		// Act
		err := s.Send(context.Background(), Message{To: "0501234567", Body: "code"})

		// Assert
		if err == nil {
			t.Fatal("expected error for 401 response")
		}
		if calls.Load() != 1 {
			t.Fatalf("expected single attempt, got %d", calls.Load())
		}
	})

	t.Run("GatewayReportedFailure", func(t *testing.T) {
		// Arrange
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_ = json.NewEncoder(w).Encode(sendResponse{Success: false, Error: "invalid recipient"})
		}))
		defer srv.Close()

		s, _ := NewHTTPAPI(HTTPAPIConfig{Endpoint: srv.URL, Token: "tok", Sender: "Refundly"})
		defer s.Close()

		// Act
		err := s.Send(context.Background(), Message{To: "0501234567", Body: "code"})

		// Assert
		if err == nil {
			t.Fatal("expected error for unsuccessful gateway response")
		}
	})

	t.Run("EmptyMessage", func(t *testing.T) {
		s, _ := NewHTTPAPI(HTTPAPIConfig{Endpoint: "http://gw.local/send", Token: "tok", Sender: "Refundly"})
		defer s.Close()

		if err := s.Send(context.Background(), Message{}); err == nil {
			t.Fatal("expected error for empty message")
		}
	})
}
