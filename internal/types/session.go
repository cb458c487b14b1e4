package types

import "time"

// Role is the privilege level of an authenticated user. Login does not
// return a role; it is resolved by probing a manager-only endpoint.
type Role string

const (
	RoleAgent   Role = "AGENT"
	RoleManager Role = "MANAGER"
)

// AuthSession is the outcome of a successful authentication
type AuthSession struct {
	Token string `json:"token"`
	Role  Role   `json:"role"`
}

// AgentProfile is one roster entry from the manager overview endpoint
type AgentProfile struct {
	MembershipID string `json:"membership_id"`
	Email        string `json:"email"`
	FirstName    string `json:"first_name"`
	LastName     string `json:"last_name"`
}

// SnapshotMessage is the websocket frame pushed to connected dashboards
// whenever the live team snapshot is rebuilt.
type SnapshotMessage struct {
	Type        string    `json:"type"`
	Timestamp   time.Time `json:"timestamp"`
	ManagerOnly bool      `json:"managerOnly"`
	Daily       []Bucket  `json:"daily,omitempty"`
	Weekly      []Bucket  `json:"weekly,omitempty"`
	Monthly     []Bucket  `json:"monthly,omitempty"`
	TopStats    *TopStats `json:"topStats,omitempty"`
	AgentCount  int       `json:"agentCount"`
}
