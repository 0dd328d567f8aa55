// Package audit records state-changing actions to an append-only trail.
package audit

import (
	"time"

	id "covira/pkg/domain"
)

// Action identifies a state-changing operation worth auditing.
type Action string

const (
	ActionApplicationStep Action = "APPLICATION_STEP"
	ActionApplicationSign Action = "APPLICATION_SIGN"
	ActionPlanUpload      Action = "PLAN_UPLOAD"
	ActionOverride        Action = "OVERRIDE"
	ActionRoleEscalation  Action = "ROLE_ESCALATION"
)

// Entry is one audit record. Entries are append-only: application code
// never mutates or deletes them.
type Entry struct {
	ActorUserID id.UserID         `json:"actor_user_id"`
	Action      Action            `json:"action"`
	EntityType  string            `json:"entity_type"`
	EntityID    string            `json:"entity_id"`
	Details     map[string]string `json:"details,omitempty"`
	Timestamp   time.Time         `json:"timestamp"`
	IPAddress   string            `json:"ip_address,omitempty"`
	UserAgent   string            `json:"user_agent,omitempty"`
}
