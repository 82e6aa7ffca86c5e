package app

import (
	"context"

	"go.uber.org/zap"

	"medrecord-registry/internal/model"
)

func (a App) AddRecord(ctx context.Context, caller model.Identity, patient model.Identity, name string, diagnosis string) error {
	a.logger.Info("adding record", zap.String("patient", patient.String()), zap.String("doctor", caller.String()))
	return a.registry.AddRecord(ctx, caller, patient, name, diagnosis)
}

func (a App) UpdateRecord(ctx context.Context, caller model.Identity, patient model.Identity, diagnosis string) error {
	a.logger.Info("updating record", zap.String("patient", patient.String()), zap.String("doctor", caller.String()))
	return a.registry.UpdateRecord(ctx, caller, patient, diagnosis)
}

func (a App) ActivateRecord(ctx context.Context, caller model.Identity, patient model.Identity) error {
	return a.registry.ActivateRecord(ctx, caller, patient)
}

func (a App) DeactivateRecord(ctx context.Context, caller model.Identity, patient model.Identity) error {
	return a.registry.DeactivateRecord(ctx, caller, patient)
}

func (a App) ViewRecord(caller model.Identity, patient model.Identity) (model.Record, error) {
	return a.registry.ViewRecord(caller, patient)
}

func (a App) RevokeConsent(ctx context.Context, caller model.Identity, doctor model.Identity) error {
	return a.registry.RevokeConsent(ctx, caller, doctor)
}

func (a App) RestoreConsent(ctx context.Context, caller model.Identity, doctor model.Identity) error {
	return a.registry.RestoreConsent(ctx, caller, doctor)
}

// RequestCheck forwards a verification check to the oracle on behalf of
// the calling doctor.
func (a App) RequestCheck(ctx context.Context, caller model.Identity, patient model.Identity, customerID string, hashedPin string) (string, error) {
	requestID, err := a.registry.RequestCheck(ctx, caller, patient, customerID, hashedPin)
	if err != nil {
		return "", err
	}

	a.logger.Info("check requested", zap.String("requestID", requestID), zap.String("doctor", caller.String()))
	return requestID, nil
}

// FulfillCheck accepts the oracle callback. The port has already
// authenticated the caller as the configured oracle identity.
func (a App) FulfillCheck(ctx context.Context, caller model.Identity, requestID string, allowed bool) error {
	return a.registry.Gate().Fulfill(ctx, caller, requestID, allowed)
}
