package tests

import (
	"net/http"
	"os"
	"strings"
	"testing"
)

// testPhone returns the sandbox phone number for flows that dispatch a real
// SMS, or skips the test when none is configured.
func testPhone(t *testing.T) string {
	t.Helper()

	phone := strings.TrimSpace(os.Getenv("PHONEGATE_TEST_PHONE"))
	if phone == "" {
		t.Skip("set PHONEGATE_TEST_PHONE to run flows that dispatch a real SMS")
	}

	return phone
}

func sendCode(t *testing.T, phone string) (int, []byte) {
	t.Helper()

	return doJSON(t, http.MethodPost, "/api/v1/auth/otp/send", map[string]string{"phone": phone}, "")
}

func verifyCode(t *testing.T, phone, code string) (int, []byte) {
	t.Helper()

	return doJSON(t, http.MethodPost, "/api/v1/auth/otp/verify", map[string]string{"phone": phone, "code": code}, "")
}
