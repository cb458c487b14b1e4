package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/salesway/gateway/internal/auth"
	"github.com/salesway/gateway/internal/salesapi"
)

type fakeProfileSource struct {
	profile   salesapi.Profile
	getErr    error
	gotFields map[string]string
}

func (f *fakeProfileSource) GetMe(ctx context.Context, token string) (salesapi.Profile, error) {
	return f.profile, f.getErr
}

func (f *fakeProfileSource) PatchMe(ctx context.Context, token string, fields map[string]string) error {
	f.gotFields = fields
	return nil
}

func TestGetMeReturnsProfile(t *testing.T) {
	source := &fakeProfileSource{profile: salesapi.Profile{Email: "ada@example.com", FirstName: "Ada"}}
	h := NewProfileHandler(source, zerolog.Nop())

	req := httptest.NewRequest("GET", "/api/me", nil)
	req.Header.Set("Authorization", "Bearer t")
	rec := httptest.NewRecorder()
	auth.Middleware(http.HandlerFunc(h.GetMe)).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var profile salesapi.Profile
	if err := json.Unmarshal(rec.Body.Bytes(), &profile); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if profile.Email != "ada@example.com" {
		t.Errorf("unexpected profile: %+v", profile)
	}
}

func TestPatchMeForwardsOnlyNameFields(t *testing.T) {
	source := &fakeProfileSource{}
	h := NewProfileHandler(source, zerolog.Nop())

	req := httptest.NewRequest("PATCH", "/api/me", strings.NewReader(`{"firstName":"Grace","lastName":"Hopper"}`))
	req.Header.Set("Authorization", "Bearer t")
	rec := httptest.NewRecorder()
	auth.Middleware(http.HandlerFunc(h.PatchMe)).ServeHTTP(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rec.Code)
	}
	if source.gotFields["first_name"] != "Grace" || source.gotFields["last_name"] != "Hopper" {
		t.Errorf("unexpected forwarded fields: %+v", source.gotFields)
	}
}

func TestPatchMeRejectsEmptyUpdate(t *testing.T) {
	h := NewProfileHandler(&fakeProfileSource{}, zerolog.Nop())

	req := httptest.NewRequest("PATCH", "/api/me", strings.NewReader(`{}`))
	req.Header.Set("Authorization", "Bearer t")
	rec := httptest.NewRecorder()
	auth.Middleware(http.HandlerFunc(h.PatchMe)).ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", rec.Code)
	}
}
