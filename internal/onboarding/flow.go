package onboarding

import (
	"errors"
	"fmt"
)

// Step is one named state of the signup flow
type Step string

const (
	StepChoosingPlan      Step = "choosing_plan"
	StepCreatingAccount   Step = "creating_account"
	StepOnboardingCompany Step = "onboarding_company"
	StepAuthenticated     Step = "authenticated"
)

// ErrRestart signals that a step was reached without its prerequisite
// state (stale or partial progress, e.g. back-button navigation or an
// expired session). The caller must send the user back to plan
// selection; the flow self-heals from there.
var ErrRestart = errors.New("onboarding state incomplete, restart at plan selection")

// ValidationError is a form-level failure caught before any network
// call, surfaced inline per field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}
