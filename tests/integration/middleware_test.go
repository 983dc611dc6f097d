//go:build integration

package integration

import (
	"context"
	"net/http"
	"testing"
)

func TestRequestID_Generated(t *testing.T) {
	forEachBackend(t, func(t *testing.T, baseURL string) {
		resp := doGet(t, baseURL, "/livez")
		defer resp.Body.Close()

		if resp.Header.Get("X-Request-ID") == "" {
			t.Fatal("X-Request-ID header not present")
		}
	})
}

func TestRequestID_Echoed(t *testing.T) {
	forEachBackend(t, func(t *testing.T, baseURL string) {
		req, err := http.NewRequestWithContext(context.Background(), http.MethodGet, baseURL+"/livez", nil)
		if err != nil {
			t.Fatalf("create request: %v", err)
		}
		req.Header.Set("X-Request-ID", "custom-request-id-12345")

		resp, err := httpClient.Do(req)
		if err != nil {
			t.Fatalf("do request: %v", err)
		}
		defer resp.Body.Close()

		if got := resp.Header.Get("X-Request-ID"); got != "custom-request-id-12345" {
			t.Errorf("X-Request-ID: got %q, want %q", got, "custom-request-id-12345")
		}
	})
}

func TestRateLimit_Headers(t *testing.T) {
	forEachBackend(t, func(t *testing.T, baseURL string) {
		resp := doGet(t, baseURL, "/livez")
		defer resp.Body.Close()

		if resp.Header.Get("X-RateLimit-Limit") == "" {
			t.Error("X-RateLimit-Limit header not present")
		}
		if resp.Header.Get("X-RateLimit-Remaining") == "" {
			t.Error("X-RateLimit-Remaining header not present")
		}
	})
}

func TestMethodNotAllowed(t *testing.T) {
	forEachBackend(t, func(t *testing.T, baseURL string) {
		req, err := http.NewRequestWithContext(context.Background(), http.MethodDelete, baseURL+"/api/orders", nil)
		if err != nil {
			t.Fatalf("create request: %v", err)
		}

		resp, err := httpClient.Do(req)
		if err != nil {
			t.Fatalf("do request: %v", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusMethodNotAllowed {
			t.Fatalf("expected 405, got %d", resp.StatusCode)
		}
	})
}
