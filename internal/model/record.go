package model

import "time"

// Record is a single patient record. Records are keyed by the patient
// identity and are never deleted; deactivation only flips IsActive.
type Record struct {
	PatientID   Identity
	PatientName string
	DateAdded   time.Time
	Diagnosis   string
	IsActive    bool
}

type ContractState int

const (
	StateCreated ContractState = iota
	StateActive
	StateInactive
)

func (s ContractState) String() string {
	switch s {
	case StateCreated:
		return "created"
	case StateActive:
		return "active"
	case StateInactive:
		return "inactive"
	}
	return "unknown"
}
