// Package notify delivers onboarding and credential notifications to field
// staff. Dispatch happens after commit; a delivery failure never rolls back
// the mutation that produced it.
package notify

import "context"

// Kind distinguishes notification templates downstream.
type Kind string

const (
	KindWelcome           Kind = "welcome"
	KindCredentialRotated Kind = "credential_rotated"
	KindRoleRestored      Kind = "role_restored"
	KindDoubleJobUpgraded Kind = "double_job_upgraded"
	KindDependentRemoved  Kind = "dependent_removed"
)

// Notification carries everything a delivery channel needs. Plaintext
// passwords ride here exactly once, straight from issuance.
type Notification struct {
	Kind      Kind
	Recipient string
	Phone     string
	Email     string
	Password  string
	Meta      map[string]string
}

// Dispatcher is the delivery port.
type Dispatcher interface {
	Dispatch(ctx context.Context, n Notification) error
}
