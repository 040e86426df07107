package helpers

import (
	"encoding/json"
	"io"
	"net/http"
	"testing"
)

// AssertStatus fails the test when the response status differs from want.
func AssertStatus(t *testing.T, resp *http.Response, want int) {
	t.Helper()
	if resp.StatusCode != want {
		t.Errorf("Expected status %d, got %d", want, resp.StatusCode)
	}
}

// ParseJSON reads and decodes the response body into target, closing the
// body. On a decode failure the raw body is included so the envelope shape
// is visible in the failure message.
func ParseJSON(t *testing.T, resp *http.Response, target interface{}) {
	t.Helper()
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("Failed to read response body: %v", err)
	}
	if err := json.Unmarshal(raw, target); err != nil {
		t.Fatalf("Failed to decode JSON (%v) from body: %s", err, raw)
	}
}
