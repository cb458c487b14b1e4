package types

// PlanCode identifies the subscription plan chosen at signup
type PlanCode string

const (
	PlanStarter    PlanCode = "STARTER"
	PlanPro        PlanCode = "PRO"
	PlanEnterprise PlanCode = "ENTERPRISE"
)

// ParsePlanCode validates a plan code from a query parameter or stored state
func ParsePlanCode(s string) (PlanCode, bool) {
	switch PlanCode(s) {
	case PlanStarter, PlanPro, PlanEnterprise:
		return PlanCode(s), true
	}
	return "", false
}

// SignupMethod is the authentication mechanism chosen at account creation
type SignupMethod string

const (
	MethodInternal SignupMethod = "INTERNAL"
	MethodGoogle   SignupMethod = "GOOGLE"
)

// OnboardingState is the transient progress of one pending signup
// attempt, persisted across page navigations. It is cleared on
// successful authentication or explicit abandonment.
type OnboardingState struct {
	SelectedPlanCode PlanCode     `json:"selectedPlanCode,omitempty"`
	SignupMethod     SignupMethod `json:"signupMethod,omitempty"`
	CompanyName      string       `json:"companyName,omitempty"`
	FirstName        string       `json:"firstName,omitempty"`
	LastName         string       `json:"lastName,omitempty"`
}

// SignupDraft is the validated internal-path account form, held in
// session-scoped storage until the company step submits it.
type SignupDraft struct {
	FirstName      string `json:"firstName"`
	LastName       string `json:"lastName"`
	Email          string `json:"email"`
	Password       string `json:"password"`
	RetypePassword string `json:"retypePassword"`
}
