package model

import "time"

// EventType names one kind of audit event. One event is emitted per
// successful state-changing call; the stream is consumed by an external
// indexing collaborator.
type EventType string

const (
	EventContractActivated   EventType = "contract_activated"
	EventContractDeactivated EventType = "contract_deactivated"

	EventDoctorAuthorized     EventType = "doctor_authorized"
	EventDoctorDeauthorized   EventType = "doctor_deauthorized"
	EventActivationGranted    EventType = "activation_privilege_granted"
	EventActivationRevoked    EventType = "activation_privilege_revoked"

	EventCheckRequested EventType = "check_requested"
	EventCheckFulfilled EventType = "check_fulfilled"

	EventRecordAdded       EventType = "record_added"
	EventRecordUpdated     EventType = "record_updated"
	EventRecordActivated   EventType = "record_activated"
	EventRecordDeactivated EventType = "record_deactivated"

	EventConsentRevoked  EventType = "consent_revoked"
	EventConsentRestored EventType = "consent_restored"

	EventFundsDeposited EventType = "funds_deposited"
	EventFundsWithdrawn EventType = "funds_withdrawn"
)

// Event carries the identities relevant to a successful state change and,
// for record mutations, the changed field (name on add, diagnosis on update).
type Event struct {
	Type  EventType
	At    time.Time
	Actor Identity

	Patient Identity
	Doctor  Identity

	RequestID string
	Allowed   bool

	Field string
	Value string

	Amount uint64
}
