package registry

import (
	"context"

	"go.uber.org/zap"

	"medrecord-registry/internal/model"
)

// AuthorizeDoctor lets the doctor add and update records, subject to the
// verification gate and per-patient consent.
func (r *Registry) AuthorizeDoctor(ctx context.Context, caller model.Identity, doctor model.Identity) error {
	const op = "authorize doctor"

	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.requireAdmin(op, caller); err != nil {
		return err
	}
	if err := r.requireActive(op); err != nil {
		return err
	}

	r.authorized[doctor] = struct{}{}

	r.logger.Info("doctor authorized", zap.String("doctor", doctor.String()))
	r.emit(ctx, model.Event{Type: model.EventDoctorAuthorized, Actor: caller, Doctor: doctor})

	return nil
}

// DeauthorizeDoctor removes the doctor from both role sets, so the
// privilege set stays a subset of the authorized set.
func (r *Registry) DeauthorizeDoctor(ctx context.Context, caller model.Identity, doctor model.Identity) error {
	const op = "deauthorize doctor"

	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.requireAdmin(op, caller); err != nil {
		return err
	}
	if err := r.requireActive(op); err != nil {
		return err
	}

	delete(r.authorized, doctor)
	delete(r.privileged, doctor)

	r.logger.Info("doctor deauthorized", zap.String("doctor", doctor.String()))
	r.emit(ctx, model.Event{Type: model.EventDoctorDeauthorized, Actor: caller, Doctor: doctor})

	return nil
}

// GrantActivationPrivilege elevates an already authorized doctor to toggle
// record active status.
func (r *Registry) GrantActivationPrivilege(ctx context.Context, caller model.Identity, doctor model.Identity) error {
	const op = "grant activation privilege"

	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.requireAdmin(op, caller); err != nil {
		return err
	}
	if err := r.requireActive(op); err != nil {
		return err
	}
	if _, ok := r.authorized[doctor]; !ok {
		return model.Precondition(op, "doctor is not authorized")
	}

	r.privileged[doctor] = struct{}{}

	r.logger.Info("activation privilege granted", zap.String("doctor", doctor.String()))
	r.emit(ctx, model.Event{Type: model.EventActivationGranted, Actor: caller, Doctor: doctor})

	return nil
}

func (r *Registry) RevokeActivationPrivilege(ctx context.Context, caller model.Identity, doctor model.Identity) error {
	const op = "revoke activation privilege"

	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.requireAdmin(op, caller); err != nil {
		return err
	}
	if err := r.requireActive(op); err != nil {
		return err
	}

	delete(r.privileged, doctor)

	r.logger.Info("activation privilege revoked", zap.String("doctor", doctor.String()))
	r.emit(ctx, model.Event{Type: model.EventActivationRevoked, Actor: caller, Doctor: doctor})

	return nil
}

// IsAuthorized reports whether the doctor may add and update records.
func (r *Registry) IsAuthorized(doctor model.Identity) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, ok := r.authorized[doctor]
	return ok
}

// HasActivationPrivilege reports whether the doctor may toggle record
// active status.
func (r *Registry) HasActivationPrivilege(doctor model.Identity) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, ok := r.privileged[doctor]
	return ok
}
