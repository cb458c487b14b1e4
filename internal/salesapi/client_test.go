package salesapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/salesway/gateway/internal/types"
)

func TestRangeSendsBearerAndQuery(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer tok-123" {
			t.Errorf("expected bearer header, got %q", got)
		}
		if r.URL.Path != "/reports/daily" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if r.URL.Query().Get("from") != "2024-06-01" || r.URL.Query().Get("to") != "2024-06-30" {
			t.Errorf("unexpected query %s", r.URL.RawQuery)
		}
		json.NewEncoder(w).Encode([]types.ReportRecord{
			{ReportDate: "2024-06-01", Status: types.StatusSubmitted, OutboundDials: 12},
		})
	}))
	defer srv.Close()

	client := NewClient(srv.URL)
	from := time.Date(2024, time.June, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2024, time.June, 30, 0, 0, 0, 0, time.UTC)

	records, err := client.Range(context.Background(), "tok-123", from, to)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(records) != 1 || records[0].OutboundDials != 12 {
		t.Errorf("unexpected records: %+v", records)
	}
}

func TestNonOKBecomesAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "duplicate email", http.StatusConflict)
	}))
	defer srv.Close()

	client := NewClient(srv.URL)
	_, err := client.Signup(context.Background(), SignupRequest{Email: "dup@salesway.io"})
	if err == nil {
		t.Fatal("expected error")
	}
	if StatusOf(err) != http.StatusConflict {
		t.Errorf("expected status 409, got %d", StatusOf(err))
	}
}

func TestLogin(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/auth/login" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		var body map[string]string
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Fatalf("failed to decode body: %v", err)
		}
		if body["email"] != "a@b.c" || body["password"] != "secret" {
			t.Errorf("unexpected body: %v", body)
		}
		json.NewEncoder(w).Encode(map[string]string{"token": "tok-456"})
	}))
	defer srv.Close()

	token, err := NewClient(srv.URL).Login(context.Background(), "a@b.c", "secret")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if token != "tok-456" {
		t.Errorf("expected token tok-456, got %s", token)
	}
}

func TestUserMessage(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		expect string
	}{
		{"validation", &APIError{StatusCode: 400}, "Please check your input and try again."},
		{"expired session", &APIError{StatusCode: 401}, "Your session has expired or your credentials are invalid. Please sign in again."},
		{"forbidden", &APIError{StatusCode: 403}, "You don't have access to this yet. Finish onboarding or contact your manager."},
		{"conflict", &APIError{StatusCode: 409}, "An account with this identity already exists. Contact support if this is unexpected."},
		{"server error", &APIError{StatusCode: 500}, "Something went wrong. Please try again."},
		{"network failure", context.DeadlineExceeded, "Something went wrong. Please try again."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := UserMessage(tt.err); got != tt.expect {
				t.Errorf("expected %q, got %q", tt.expect, got)
			}
		})
	}
}
