package tests

import (
	"net/http"
	"strings"
	"testing"
)

func TestRefreshSession(t *testing.T) {

	t.Run("UnknownToken", func(t *testing.T) {

		// Arrange
		token := strings.Repeat("f", 64)

		// Act
		status, _ := doJSON(t, http.MethodPost, "/api/v1/auth/refresh", map[string]string{"refresh_token": token}, "")

		// Assert
		if status != http.StatusUnauthorized {
			t.Fatalf("expected status 401, got %d", status)
		}
	})

	t.Run("MissingToken", func(t *testing.T) {

		// Act
		status, _ := doJSON(t, http.MethodPost, "/api/v1/auth/refresh", map[string]string{}, "")

		// Assert
		if status != http.StatusBadRequest {
			t.Fatalf("expected status 400, got %d", status)
		}
	})
}

func TestLogout(t *testing.T) {

	t.Run("WithoutAuthentication", func(t *testing.T) {

		// Arrange
		token := strings.Repeat("f", 64)

		// Act
		status, _ := doJSON(t, http.MethodPost, "/api/v1/auth/logout", map[string]string{"refresh_token": token}, "")

		// Assert
		if status != http.StatusUnauthorized {
			t.Fatalf("expected status 401, got %d", status)
		}
	})
}

func TestListSignInEvents(t *testing.T) {

	t.Run("WithoutAuthentication", func(t *testing.T) {

		// Act
		status, _ := doJSON(t, http.MethodGet, "/api/v1/audit/events", nil, "")

		// Assert
		if status != http.StatusUnauthorized {
			t.Fatalf("expected status 401, got %d", status)
		}
	})
}
