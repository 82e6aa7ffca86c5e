package registry

import (
	"context"

	"go.uber.org/zap"

	"medrecord-registry/internal/model"
)

// RevokeConsent blocks the given doctor from updating the caller's record,
// independent of the doctor's role and verification state. Only a patient
// with an active record can revoke.
func (r *Registry) RevokeConsent(ctx context.Context, caller model.Identity, doctor model.Identity) error {
	const op = "revoke consent"

	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.requireActiveRecord(op, caller); err != nil {
		return err
	}

	if r.consentRevoked[caller] == nil {
		r.consentRevoked[caller] = make(map[model.Identity]bool)
	}
	r.consentRevoked[caller][doctor] = true

	r.logger.Info("consent revoked", zap.String("patient", caller.String()), zap.String("doctor", doctor.String()))
	r.emit(ctx, model.Event{Type: model.EventConsentRevoked, Actor: caller, Patient: caller, Doctor: doctor})

	return nil
}

// RestoreConsent reverses a prior revocation for the given doctor.
func (r *Registry) RestoreConsent(ctx context.Context, caller model.Identity, doctor model.Identity) error {
	const op = "restore consent"

	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.requireActiveRecord(op, caller); err != nil {
		return err
	}

	if r.consentRevoked[caller] != nil {
		delete(r.consentRevoked[caller], doctor)
	}

	r.logger.Info("consent restored", zap.String("patient", caller.String()), zap.String("doctor", doctor.String()))
	r.emit(ctx, model.Event{Type: model.EventConsentRestored, Actor: caller, Patient: caller, Doctor: doctor})

	return nil
}

func (r *Registry) requireActiveRecord(op string, patient model.Identity) error {
	record, ok := r.records[patient]
	if !ok || !record.IsActive {
		return model.Precondition(op, "caller has no active record")
	}
	return nil
}

func (r *Registry) isConsentRevoked(patient model.Identity, doctor model.Identity) bool {
	return r.consentRevoked[patient][doctor]
}
