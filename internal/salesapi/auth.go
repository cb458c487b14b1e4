package salesapi

import (
	"context"
	"net/http"

	"github.com/salesway/gateway/internal/types"
)

// tokenResponse is the body shared by all authentication endpoints
type tokenResponse struct {
	Token string `json:"token"`
}

// Login exchanges email/password credentials for a bearer token.
// POST /auth/login
func (c *Client) Login(ctx context.Context, email, password string) (string, error) {
	payload := map[string]string{"email": email, "password": password}
	var resp tokenResponse
	if err := c.do(ctx, http.MethodPost, "/auth/login", "", payload, &resp); err != nil {
		return "", err
	}
	return resp.Token, nil
}

// GoogleAuthRequest is the body for the Google credential exchange.
// Either InviteToken is set (invite acceptance) or the signup fields
// are (manager onboarding); a plain sign-in sends neither.
type GoogleAuthRequest struct {
	IDToken      string         `json:"idToken"`
	InviteToken  string         `json:"inviteToken,omitempty"`
	SignupIntent string         `json:"signupIntent,omitempty"`
	PlanCode     types.PlanCode `json:"planCode,omitempty"`
	CompanyName  string         `json:"companyName,omitempty"`
}

// GoogleAuth exchanges a Google ID token for a bearer token.
// POST /auth/google
func (c *Client) GoogleAuth(ctx context.Context, req GoogleAuthRequest) (string, error) {
	var resp tokenResponse
	if err := c.do(ctx, http.MethodPost, "/auth/google", "", req, &resp); err != nil {
		return "", err
	}
	return resp.Token, nil
}

// SignupRequest is the body for the internal signup endpoint
type SignupRequest struct {
	FirstName      string         `json:"firstName"`
	LastName       string         `json:"lastName"`
	Email          string         `json:"email"`
	Password       string         `json:"password"`
	RetypePassword string         `json:"retypePassword"`
	SignupIntent   string         `json:"signupIntent"`
	PlanCode       types.PlanCode `json:"planCode"`
	CompanyName    string         `json:"companyName"`
}

// Signup creates an account on the internal path.
// POST /auth/signup
func (c *Client) Signup(ctx context.Context, req SignupRequest) (string, error) {
	var resp tokenResponse
	if err := c.do(ctx, http.MethodPost, "/auth/signup", "", req, &resp); err != nil {
		return "", err
	}
	return resp.Token, nil
}

// Profile is the authenticated user's own profile
type Profile struct {
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

// GetMe fetches the caller's profile.
// GET /auth/me
func (c *Client) GetMe(ctx context.Context, token string) (Profile, error) {
	var p Profile
	if err := c.do(ctx, http.MethodGet, "/auth/me", token, nil, &p); err != nil {
		return Profile{}, err
	}
	return p, nil
}

// PatchMe updates profile fields.
// PATCH /auth/me
func (c *Client) PatchMe(ctx context.Context, token string, fields map[string]string) error {
	return c.do(ctx, http.MethodPatch, "/auth/me", token, fields, nil)
}
