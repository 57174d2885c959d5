package riot

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func statusClient(t *testing.T, status int, body string) *Client {
	t.Helper()
	return newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != statusPath {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if r.Header.Get("X-Riot-Token") == "" {
			t.Error("Expected X-Riot-Token header to be set")
		}
		w.WriteHeader(status)
		fmt.Fprint(w, body)
	})
}

func TestCheckKey_ValidKey(t *testing.T) {
	client := statusClient(t, http.StatusOK, `{"id":"LA1","name":"Latin America North","maintenances":[],"incidents":[{"id":7}]}`)

	status, valid, err := client.CheckKey(context.Background())
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if !valid {
		t.Error("Expected key to be valid")
	}
	if status.Name != "Latin America North" || len(status.Incidents) != 1 {
		t.Errorf("status not decoded: %+v", status)
	}
}

func TestCheckKey_RejectedKey(t *testing.T) {
	for _, code := range []int{http.StatusUnauthorized, http.StatusForbidden} {
		client := statusClient(t, code, `{"status":{"message":"Forbidden"}}`)

		_, valid, err := client.CheckKey(context.Background())
		if err != nil {
			t.Errorf("status %d: expected no error for rejected key, got: %v", code, err)
		}
		if valid {
			t.Errorf("status %d: expected key to be invalid", code)
		}
	}
}

// Server errors leave validity unknown, so they surface as errors
func TestCheckKey_ServerError(t *testing.T) {
	client := statusClient(t, http.StatusInternalServerError, `{}`)

	_, valid, err := client.CheckKey(context.Background())
	if err == nil {
		t.Error("Expected server error to be returned")
	}
	if valid {
		t.Error("Expected key to not be valid on server error")
	}
}

func TestCheckKey_Timeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(500 * time.Millisecond)
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client, err := NewClient("RGAPI-test-key-0000",
		WithPlatformURL(server.URL),
		WithHTTPClient(&http.Client{Timeout: 50 * time.Millisecond}),
	)
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}

	_, valid, err := client.CheckKey(context.Background())
	if err == nil {
		t.Error("Expected timeout error to be returned")
	}
	if valid {
		t.Error("Expected key to not be valid on timeout")
	}
}
