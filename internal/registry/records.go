package registry

import (
	"context"

	"go.uber.org/zap"

	"medrecord-registry/internal/model"
)

// AddRecord stores a record for the patient, overwriting any prior one.
// Requires an authorized doctor, an active contract and a consumed
// verification grant.
func (r *Registry) AddRecord(ctx context.Context, caller model.Identity, patient model.Identity, name string, diagnosis string) error {
	const op = "add record"

	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.requireActive(op); err != nil {
		return err
	}
	if err := r.requireAuthorized(op, caller); err != nil {
		return err
	}
	if err := r.consumeGrant(op, caller, patient); err != nil {
		return err
	}

	r.records[patient] = &model.Record{
		PatientID:   patient,
		PatientName: name,
		DateAdded:   r.now(),
		Diagnosis:   diagnosis,
		IsActive:    true,
	}

	r.logger.Info("record added", zap.String("patient", patient.String()), zap.String("doctor", caller.String()))
	r.emit(ctx, model.Event{
		Type: model.EventRecordAdded, Actor: caller, Doctor: caller, Patient: patient,
		Field: "name", Value: name,
	})

	return nil
}

// UpdateRecord changes the diagnosis of an existing active record. On top
// of the AddRecord gates the doctor must not be consent-revoked by the
// patient.
func (r *Registry) UpdateRecord(ctx context.Context, caller model.Identity, patient model.Identity, diagnosis string) error {
	const op = "update record"

	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.requireActive(op); err != nil {
		return err
	}
	if err := r.requireAuthorized(op, caller); err != nil {
		return err
	}
	if err := r.consumeGrant(op, caller, patient); err != nil {
		return err
	}

	record, ok := r.records[patient]
	if !ok {
		r.logger.Debug("update of a missing record", zap.String("patient", patient.String()))
		return model.StateConflict(op, "no record for the patient")
	}
	if !record.IsActive {
		r.logger.Debug("update of an inactive record", zap.String("patient", patient.String()))
		return model.StateConflict(op, "record is not active")
	}

	if r.isConsentRevoked(patient, caller) {
		return model.Unauthorized(op, "consent revoked by the patient")
	}

	record.Diagnosis = diagnosis

	r.logger.Info("record updated", zap.String("patient", patient.String()), zap.String("doctor", caller.String()))
	r.emit(ctx, model.Event{
		Type: model.EventRecordUpdated, Actor: caller, Doctor: caller, Patient: patient,
		Field: "diagnosis", Value: diagnosis,
	})

	return nil
}

// ActivateRecord flips an inactive record back to active. Requires the
// activation privilege and a consumed verification grant.
func (r *Registry) ActivateRecord(ctx context.Context, caller model.Identity, patient model.Identity) error {
	const op = "activate record"

	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.requireActive(op); err != nil {
		return err
	}
	if err := r.requirePrivileged(op, caller); err != nil {
		return err
	}
	if err := r.consumeGrant(op, caller, patient); err != nil {
		return err
	}

	record, ok := r.records[patient]
	if !ok {
		r.logger.Debug("activation of a missing record", zap.String("patient", patient.String()))
		return model.StateConflict(op, "no record for the patient")
	}
	if record.IsActive {
		r.logger.Debug("activation of an already active record", zap.String("patient", patient.String()))
		return model.StateConflict(op, "record is already active")
	}

	record.IsActive = true

	r.logger.Info("record activated", zap.String("patient", patient.String()), zap.String("doctor", caller.String()))
	r.emit(ctx, model.Event{Type: model.EventRecordActivated, Actor: caller, Doctor: caller, Patient: patient})

	return nil
}

func (r *Registry) DeactivateRecord(ctx context.Context, caller model.Identity, patient model.Identity) error {
	const op = "deactivate record"

	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.requireActive(op); err != nil {
		return err
	}
	if err := r.requirePrivileged(op, caller); err != nil {
		return err
	}
	if err := r.consumeGrant(op, caller, patient); err != nil {
		return err
	}

	record, ok := r.records[patient]
	if !ok {
		r.logger.Debug("deactivation of a missing record", zap.String("patient", patient.String()))
		return model.StateConflict(op, "no record for the patient")
	}
	if !record.IsActive {
		r.logger.Debug("deactivation of an already inactive record", zap.String("patient", patient.String()))
		return model.StateConflict(op, "record is already inactive")
	}

	record.IsActive = false

	r.logger.Info("record deactivated", zap.String("patient", patient.String()), zap.String("doctor", caller.String()))
	r.emit(ctx, model.Event{Type: model.EventRecordDeactivated, Actor: caller, Doctor: caller, Patient: patient})

	return nil
}

// ViewRecord is read-only and consumes no grant. Permitted to the patient
// themself, to the administrator, and to an authorized doctor the patient
// has not revoked.
func (r *Registry) ViewRecord(caller model.Identity, patient model.Identity) (model.Record, error) {
	const op = "view record"

	r.mu.Lock()
	defer r.mu.Unlock()

	permitted := caller == patient || caller == r.admin
	if !permitted {
		_, authorized := r.authorized[caller]
		permitted = authorized && !r.isConsentRevoked(patient, caller)
	}
	if !permitted {
		return model.Record{}, model.Unauthorized(op, "caller may not view this record")
	}

	record, ok := r.records[patient]
	if !ok {
		return model.Record{}, model.StateConflict(op, "no record for the patient")
	}

	return *record, nil
}
