package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/salesway/gateway/internal/metrics"
	"github.com/salesway/gateway/internal/onboarding"
	"github.com/salesway/gateway/internal/salesapi"
	"github.com/salesway/gateway/internal/types"
)

// OnboardingHandler exposes the signup flow controller over HTTP. The
// attempt ID comes from the URL so a browser can resume an attempt
// after navigation or reload.
type OnboardingHandler struct {
	ctrl   *onboarding.Controller
	logger zerolog.Logger
}

func NewOnboardingHandler(ctrl *onboarding.Controller, logger zerolog.Logger) *OnboardingHandler {
	return &OnboardingHandler{
		ctrl:   ctrl,
		logger: logger.With().Str("component", "onboarding_handler").Logger(),
	}
}

// sessionResponse is the terminal payload of every auth path
type sessionResponse struct {
	Token string     `json:"token"`
	Role  types.Role `json:"role"`
}

// writeFlowError maps flow failures onto the HTTP surface: validation
// problems are 400s with the offending field, a tripped guard is a
// 409 telling the client which step to restart from, and core API
// rejections pass their status through.
func (o *OnboardingHandler) writeFlowError(w http.ResponseWriter, err error) {
	var verr *onboarding.ValidationError
	if errors.As(err, &verr) {
		writeJSON(w, http.StatusBadRequest, map[string]string{
			"error": verr.Message,
			"field": verr.Field,
		})
		return
	}
	if errors.Is(err, onboarding.ErrRestart) {
		writeJSON(w, http.StatusConflict, map[string]string{
			"error":      "Your signup session expired. Please start again.",
			"redirectTo": string(onboarding.StepChoosingPlan),
		})
		return
	}
	writeError(w, o.logger, err)
}

// GetStep handles GET /api/onboarding/{attemptID}/step
func (o *OnboardingHandler) GetStep(w http.ResponseWriter, r *http.Request) {
	attemptID := chi.URLParam(r, "attemptID")
	step := o.ctrl.Step(r.Context(), attemptID)
	writeJSON(w, http.StatusOK, map[string]string{"step": string(step)})
}

// SelectPlan handles POST /api/onboarding/{attemptID}/plan
func (o *OnboardingHandler) SelectPlan(w http.ResponseWriter, r *http.Request) {
	var body struct {
		PlanCode string `json:"planCode"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid request body."})
		return
	}

	attemptID := chi.URLParam(r, "attemptID")
	if err := o.ctrl.SelectPlan(r.Context(), attemptID, body.PlanCode); err != nil {
		o.writeFlowError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"step": string(onboarding.StepCreatingAccount)})
}

// SubmitAccount handles POST /api/onboarding/{attemptID}/account
func (o *OnboardingHandler) SubmitAccount(w http.ResponseWriter, r *http.Request) {
	var draft types.SignupDraft
	if err := json.NewDecoder(r.Body).Decode(&draft); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid request body."})
		return
	}

	attemptID := chi.URLParam(r, "attemptID")
	if err := o.ctrl.SubmitAccount(r.Context(), attemptID, draft); err != nil {
		o.writeFlowError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"step": string(onboarding.StepOnboardingCompany)})
}

// SubmitGoogleAccount handles POST /api/onboarding/{attemptID}/account/google
func (o *OnboardingHandler) SubmitGoogleAccount(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Credential string `json:"credential"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid request body."})
		return
	}

	attemptID := chi.URLParam(r, "attemptID")
	if err := o.ctrl.SubmitGoogleAccount(r.Context(), attemptID, body.Credential); err != nil {
		metrics.Get().RecordAuthFailure()
		o.writeFlowError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"step": string(onboarding.StepOnboardingCompany)})
}

// CompleteCompany handles POST /api/onboarding/{attemptID}/company
func (o *OnboardingHandler) CompleteCompany(w http.ResponseWriter, r *http.Request) {
	var body struct {
		CompanyName string `json:"companyName"`
		FirstName   string `json:"firstName"`
		LastName    string `json:"lastName"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid request body."})
		return
	}

	attemptID := chi.URLParam(r, "attemptID")
	session, err := o.ctrl.CompleteCompany(r.Context(), attemptID, body.CompanyName, body.FirstName, body.LastName)
	if err != nil {
		o.writeFlowError(w, err)
		return
	}
	metrics.Get().RecordSignup()
	writeJSON(w, http.StatusOK, sessionResponse{Token: session.Token, Role: session.Role})
}

// Abandon handles DELETE /api/onboarding/{attemptID}
func (o *OnboardingHandler) Abandon(w http.ResponseWriter, r *http.Request) {
	o.ctrl.Abandon(r.Context(), chi.URLParam(r, "attemptID"))
	w.WriteHeader(http.StatusNoContent)
}

// Login handles POST /api/auth/login
func (o *OnboardingHandler) Login(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid request body."})
		return
	}

	session, err := o.ctrl.Login(r.Context(), body.Email, body.Password)
	if err != nil {
		metrics.Get().RecordAuthFailure()
		status := salesapi.StatusOf(err)
		if status == 0 {
			status = http.StatusBadGateway
		}
		writeJSON(w, status, map[string]string{"error": salesapi.UserMessage(err)})
		return
	}
	metrics.Get().RecordLogin()
	writeJSON(w, http.StatusOK, sessionResponse{Token: session.Token, Role: session.Role})
}

// AcceptInvite handles POST /api/auth/invite
func (o *OnboardingHandler) AcceptInvite(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Credential  string `json:"credential"`
		InviteToken string `json:"inviteToken"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid request body."})
		return
	}
	if body.InviteToken == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invite token is required.", "field": "inviteToken"})
		return
	}

	session, err := o.ctrl.AcceptInvite(r.Context(), body.Credential, body.InviteToken)
	if err != nil {
		metrics.Get().RecordAuthFailure()
		o.writeFlowError(w, err)
		return
	}
	metrics.Get().RecordLogin()
	writeJSON(w, http.StatusOK, sessionResponse{Token: session.Token, Role: session.Role})
}
