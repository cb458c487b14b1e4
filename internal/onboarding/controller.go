package onboarding

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"github.com/salesway/gateway/internal/auth"
	"github.com/salesway/gateway/internal/salesapi"
	"github.com/salesway/gateway/internal/storage"
	"github.com/salesway/gateway/internal/types"
)

// signupIntentManager marks the fresh-signup path on the core API;
// invite acceptance carries no intent.
const signupIntentManager = "MANAGER"

// CoreAPI is what the controller needs from the core API client
type CoreAPI interface {
	Login(ctx context.Context, email, password string) (string, error)
	GoogleAuth(ctx context.Context, req salesapi.GoogleAuthRequest) (string, error)
	Signup(ctx context.Context, req salesapi.SignupRequest) (string, error)
	PatchMe(ctx context.Context, token string, fields map[string]string) error
}

// TokenVerifier checks a Google ID credential before it is forwarded
type TokenVerifier interface {
	Verify(idToken string) (*auth.GoogleIdentity, error)
}

// RoleResolver resolves the post-auth landing role
type RoleResolver interface {
	Resolve(ctx context.Context, token string) types.Role
}

// Controller sequences the multi-step signup flow. Partial progress
// lives behind two injected stores: durable state survives page
// navigations, session state (the pending Google credential and the
// internal signup draft) lives only as long as the attempt.
type Controller struct {
	api      CoreAPI
	verifier TokenVerifier
	roles    RoleResolver
	store    storage.StateStore
	session  storage.StateStore
	logger   zerolog.Logger
}

// NewController creates an onboarding controller
func NewController(api CoreAPI, verifier TokenVerifier, roles RoleResolver, store, session storage.StateStore, logger zerolog.Logger) *Controller {
	return &Controller{
		api:      api,
		verifier: verifier,
		roles:    roles,
		store:    store,
		session:  session,
		logger:   logger.With().Str("component", "onboarding").Logger(),
	}
}

func stateKey(attemptID string) string  { return "onboarding:" + attemptID + ":state" }
func googleKey(attemptID string) string { return "onboarding:" + attemptID + ":google_token" }
func draftKey(attemptID string) string  { return "onboarding:" + attemptID + ":draft" }

// loadState reads the persisted onboarding state for an attempt.
// A missing or unreadable blob yields the zero state.
func (c *Controller) loadState(ctx context.Context, attemptID string) types.OnboardingState {
	var state types.OnboardingState
	raw, ok, err := c.store.Get(ctx, stateKey(attemptID))
	if err != nil || !ok {
		return state
	}
	if err := json.Unmarshal([]byte(raw), &state); err != nil {
		c.logger.Warn().Err(err).Str("attempt_id", attemptID).Msg("corrupt onboarding state, starting over")
		return types.OnboardingState{}
	}
	return state
}

func (c *Controller) saveState(ctx context.Context, attemptID string, state types.OnboardingState) error {
	data, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("marshal onboarding state: %w", err)
	}
	if err := c.store.Set(ctx, stateKey(attemptID), string(data)); err != nil {
		return fmt.Errorf("persist onboarding state: %w", err)
	}
	return nil
}

// Step reports where the attempt currently stands. Arriving at the
// company step without a signup method, or with the Google method but
// no stored credential, falls back to plan selection.
func (c *Controller) Step(ctx context.Context, attemptID string) Step {
	state := c.loadState(ctx, attemptID)
	if state.SelectedPlanCode == "" {
		return StepChoosingPlan
	}
	if state.SignupMethod == "" {
		return StepCreatingAccount
	}
	if err := c.guardCompanyStep(ctx, attemptID, state); err != nil {
		return StepChoosingPlan
	}
	return StepOnboardingCompany
}

// guardCompanyStep verifies the method-specific transient credential
// is still present before the company step is reachable.
func (c *Controller) guardCompanyStep(ctx context.Context, attemptID string, state types.OnboardingState) error {
	switch state.SignupMethod {
	case types.MethodGoogle:
		if _, ok, _ := c.session.Get(ctx, googleKey(attemptID)); !ok {
			return ErrRestart
		}
	case types.MethodInternal:
		if _, ok, _ := c.session.Get(ctx, draftKey(attemptID)); !ok {
			return ErrRestart
		}
	default:
		return ErrRestart
	}
	return nil
}

// SelectPlan records the chosen plan and unlocks account creation
func (c *Controller) SelectPlan(ctx context.Context, attemptID, planCode string) error {
	plan, ok := types.ParsePlanCode(planCode)
	if !ok {
		return &ValidationError{Field: "planCode", Message: "unknown plan"}
	}

	state := c.loadState(ctx, attemptID)
	state.SelectedPlanCode = plan
	return c.saveState(ctx, attemptID, state)
}

// SubmitAccount stores a validated internal-path signup draft. The
// account is not created yet; that happens at the company step.
func (c *Controller) SubmitAccount(ctx context.Context, attemptID string, draft types.SignupDraft) error {
	state := c.loadState(ctx, attemptID)
	if state.SelectedPlanCode == "" {
		return ErrRestart
	}
	if err := validateDraft(draft); err != nil {
		return err
	}

	data, err := json.Marshal(draft)
	if err != nil {
		return fmt.Errorf("marshal signup draft: %w", err)
	}
	if err := c.session.Set(ctx, draftKey(attemptID), string(data)); err != nil {
		return fmt.Errorf("persist signup draft: %w", err)
	}

	state.SignupMethod = types.MethodInternal
	state.FirstName = draft.FirstName
	state.LastName = draft.LastName
	return c.saveState(ctx, attemptID, state)
}

// SubmitGoogleAccount verifies a Google ID credential and stores it
// for the company step.
func (c *Controller) SubmitGoogleAccount(ctx context.Context, attemptID, idToken string) error {
	state := c.loadState(ctx, attemptID)
	if state.SelectedPlanCode == "" {
		return ErrRestart
	}

	identity, err := c.verifier.Verify(idToken)
	if err != nil {
		return &ValidationError{Field: "credential", Message: "invalid Google credential"}
	}

	if err := c.session.Set(ctx, googleKey(attemptID), idToken); err != nil {
		return fmt.Errorf("persist google credential: %w", err)
	}

	state.SignupMethod = types.MethodGoogle
	// Google does not guarantee profile name fields; whatever is
	// present prefills the company step form.
	state.FirstName = identity.GivenName
	state.LastName = identity.FamilyName
	return c.saveState(ctx, attemptID, state)
}

// CompleteCompany finishes the signup: it submits the account with the
// company name and plan, persists the session, and clears all
// transient onboarding state.
func (c *Controller) CompleteCompany(ctx context.Context, attemptID, companyName, firstName, lastName string) (types.AuthSession, error) {
	state := c.loadState(ctx, attemptID)
	if state.SelectedPlanCode == "" || state.SignupMethod == "" {
		return types.AuthSession{}, ErrRestart
	}
	if err := c.guardCompanyStep(ctx, attemptID, state); err != nil {
		return types.AuthSession{}, err
	}
	if strings.TrimSpace(companyName) == "" {
		return types.AuthSession{}, &ValidationError{Field: "companyName", Message: "company name is required"}
	}

	var token string
	switch state.SignupMethod {
	case types.MethodGoogle:
		// Google does not guarantee name fields, so they are collected here
		if strings.TrimSpace(firstName) == "" || strings.TrimSpace(lastName) == "" {
			return types.AuthSession{}, &ValidationError{Field: "name", Message: "first and last name are required"}
		}
		idToken, _, _ := c.session.Get(ctx, googleKey(attemptID))
		var err error
		token, err = c.api.GoogleAuth(ctx, salesapi.GoogleAuthRequest{
			IDToken:      idToken,
			SignupIntent: signupIntentManager,
			PlanCode:     state.SelectedPlanCode,
			CompanyName:  companyName,
		})
		if err != nil {
			return types.AuthSession{}, err
		}

		// Best-effort name enrichment: authentication already
		// succeeded, so a failure here must not block completion.
		if err := c.api.PatchMe(ctx, token, map[string]string{
			"first_name": firstName,
			"last_name":  lastName,
		}); err != nil {
			c.logger.Warn().Err(err).Msg("profile name patch failed after google signup")
		}

	case types.MethodInternal:
		raw, ok, _ := c.session.Get(ctx, draftKey(attemptID))
		if !ok {
			return types.AuthSession{}, ErrRestart
		}
		var draft types.SignupDraft
		if err := json.Unmarshal([]byte(raw), &draft); err != nil {
			return types.AuthSession{}, ErrRestart
		}

		var err error
		token, err = c.api.Signup(ctx, salesapi.SignupRequest{
			FirstName:      draft.FirstName,
			LastName:       draft.LastName,
			Email:          draft.Email,
			Password:       draft.Password,
			RetypePassword: draft.RetypePassword,
			SignupIntent:   signupIntentManager,
			PlanCode:       state.SelectedPlanCode,
			CompanyName:    companyName,
		})
		if err != nil {
			return types.AuthSession{}, err
		}
	}

	session := types.AuthSession{Token: token, Role: c.roles.Resolve(ctx, token)}
	c.clearAttempt(ctx, attemptID)

	c.logger.Info().
		Str("attempt_id", attemptID).
		Str("method", string(state.SignupMethod)).
		Str("role", string(session.Role)).
		Msg("signup completed")

	return session, nil
}

// AcceptInvite is the alternate entry: a Google credential plus an
// invite token, no plan or company data.
func (c *Controller) AcceptInvite(ctx context.Context, idToken, inviteToken string) (types.AuthSession, error) {
	if _, err := c.verifier.Verify(idToken); err != nil {
		return types.AuthSession{}, &ValidationError{Field: "credential", Message: "invalid Google credential"}
	}

	token, err := c.api.GoogleAuth(ctx, salesapi.GoogleAuthRequest{
		IDToken:     idToken,
		InviteToken: inviteToken,
	})
	if err != nil {
		return types.AuthSession{}, err
	}

	return types.AuthSession{Token: token, Role: c.roles.Resolve(ctx, token)}, nil
}

// Login authenticates with email/password and resolves the landing role
func (c *Controller) Login(ctx context.Context, email, password string) (types.AuthSession, error) {
	token, err := c.api.Login(ctx, email, password)
	if err != nil {
		return types.AuthSession{}, err
	}
	return types.AuthSession{Token: token, Role: c.roles.Resolve(ctx, token)}, nil
}

// Abandon discards an attempt's stored progress
func (c *Controller) Abandon(ctx context.Context, attemptID string) {
	c.clearAttempt(ctx, attemptID)
}

func (c *Controller) clearAttempt(ctx context.Context, attemptID string) {
	prefix := "onboarding:" + attemptID + ":"
	if err := c.store.ClearPrefix(ctx, prefix); err != nil {
		c.logger.Warn().Err(err).Str("attempt_id", attemptID).Msg("failed to clear onboarding state")
	}
	if err := c.session.ClearPrefix(ctx, prefix); err != nil {
		c.logger.Warn().Err(err).Str("attempt_id", attemptID).Msg("failed to clear session state")
	}
}

// validateDraft checks the internal account form before anything is
// stored or sent.
func validateDraft(draft types.SignupDraft) error {
	if strings.TrimSpace(draft.FirstName) == "" {
		return &ValidationError{Field: "firstName", Message: "first name is required"}
	}
	if strings.TrimSpace(draft.LastName) == "" {
		return &ValidationError{Field: "lastName", Message: "last name is required"}
	}
	if !strings.Contains(draft.Email, "@") {
		return &ValidationError{Field: "email", Message: "a valid email is required"}
	}
	if len(draft.Password) < 8 {
		return &ValidationError{Field: "password", Message: "password must be at least 8 characters"}
	}
	if draft.Password != draft.RetypePassword {
		return &ValidationError{Field: "retypePassword", Message: "passwords do not match"}
	}
	return nil
}
