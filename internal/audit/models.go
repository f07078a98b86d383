// Package audit captures structured audit events emitted from domain logic.
// The core treats the sink as fire-and-forget; persistence uses a
// transactional outbox so an audit row commits with the mutation it records.
package audit

import "time"

// EventCategory classifies audit events by their primary purpose. This
// enables different retention policies and routing downstream.
type EventCategory string

const (
	// CategoryCompliance covers events with legal/regulatory significance:
	// person registration, deletion, restore.
	CategoryCompliance EventCategory = "compliance"

	// CategorySecurity covers events relevant to security monitoring:
	// credential rotations, quota rejections.
	CategorySecurity EventCategory = "security"

	// CategoryOperations covers events useful for operational visibility.
	CategoryOperations EventCategory = "operations"
)

// FieldDiff records one changed field on an update event.
type FieldDiff struct {
	Field string `json:"field"`
	Old   string `json:"old"`
	New   string `json:"new"`
}

// Event is emitted from domain logic to capture key actions. Keep it
// transport-agnostic so stores and sinks can fan out.
type Event struct {
	Timestamp  time.Time
	Action     string
	TargetKind string
	TargetName string
	FieldDiffs []FieldDiff
	// ActorID tracks the operator account performing the action.
	ActorID string
	// RequestID is the correlation ID from the request context.
	RequestID string
	// Meta carries action-specific key/value detail (campaign, village, ...).
	Meta map[string]string
}

// AuditEvent names every action the roster core emits.
type AuditEvent string

const (
	EventCoordinatorRegistered AuditEvent = "coordinator_registered"
	EventVolunteerRegistered   AuditEvent = "volunteer_registered"
	EventPersonUpdated         AuditEvent = "person_updated"
	EventCredentialRotated     AuditEvent = "credential_rotated"
	EventRoleSoftDeleted       AuditEvent = "role_soft_deleted"
	EventRoleRestored          AuditEvent = "role_restored"
	EventDoubleJobUpgraded     AuditEvent = "double_job_upgraded"
	EventQuotaRejected         AuditEvent = "quota_rejected"

	EventCampaignCreated     AuditEvent = "campaign_created"
	EventCampaignDeactivated AuditEvent = "campaign_deactivated"
	EventCampaignReactivated AuditEvent = "campaign_reactivated"
)

var eventCategories = map[AuditEvent]EventCategory{
	EventCoordinatorRegistered: CategoryCompliance,
	EventVolunteerRegistered:   CategoryCompliance,
	EventRoleSoftDeleted:       CategoryCompliance,
	EventRoleRestored:          CategoryCompliance,

	EventCredentialRotated:   CategorySecurity,
	EventQuotaRejected:       CategorySecurity,
	EventCampaignDeactivated: CategorySecurity,

	EventPersonUpdated:       CategoryOperations,
	EventDoubleJobUpgraded:   CategoryOperations,
	EventCampaignCreated:     CategoryOperations,
	EventCampaignReactivated: CategoryOperations,
}

// Category returns the EventCategory for this audit event. Unknown events
// default to CategoryOperations.
func (e AuditEvent) Category() EventCategory {
	if cat, ok := eventCategories[e]; ok {
		return cat
	}
	return CategoryOperations
}
