package app

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"medrecord-registry/internal/model"
	"medrecord-registry/internal/registry"
)

var ErrSearchTooBroad = errors.New("missing params to GET query")

// AuditReader serves the audit-trail queries; the mongodb repository
// implements it.
type AuditReader interface {
	GetPatientEvents(ctx context.Context, patient string) ([]model.Event, error)
	GetActorEvents(ctx context.Context, actor string) ([]model.Event, error)
}

type App struct {
	logger   *zap.Logger
	registry *registry.Registry
	auditLog AuditReader
}

func NewApp(logger *zap.Logger, reg *registry.Registry, auditLog AuditReader) App {
	return App{
		logger:   logger,
		registry: reg,
		auditLog: auditLog,
	}
}

// GetAuditTrail returns the audit events of a patient or of an acting
// identity. At least one of the params needs to be given.
func (a App) GetAuditTrail(ctx context.Context, patient string, actor string) ([]model.Event, error) {

	if patient != "" {
		// if the patient is defined, ignore the actor param
		return a.auditLog.GetPatientEvents(ctx, patient)
	}

	if actor == "" {
		return nil, ErrSearchTooBroad
	}

	return a.auditLog.GetActorEvents(ctx, actor)
}

// administrative surface

func (a App) ActivateContract(ctx context.Context, caller model.Identity) error {
	return a.registry.ActivateContract(ctx, caller)
}

func (a App) DeactivateContract(ctx context.Context, caller model.Identity) error {
	return a.registry.DeactivateContract(ctx, caller)
}

func (a App) AuthorizeDoctor(ctx context.Context, caller model.Identity, doctor model.Identity) error {
	a.logger.Info("authorizing doctor", zap.String("doctor", doctor.String()))
	return a.registry.AuthorizeDoctor(ctx, caller, doctor)
}

func (a App) DeauthorizeDoctor(ctx context.Context, caller model.Identity, doctor model.Identity) error {
	a.logger.Info("deauthorizing doctor", zap.String("doctor", doctor.String()))
	return a.registry.DeauthorizeDoctor(ctx, caller, doctor)
}

func (a App) GrantActivationPrivilege(ctx context.Context, caller model.Identity, doctor model.Identity) error {
	return a.registry.GrantActivationPrivilege(ctx, caller, doctor)
}

func (a App) RevokeActivationPrivilege(ctx context.Context, caller model.Identity, doctor model.Identity) error {
	return a.registry.RevokeActivationPrivilege(ctx, caller, doctor)
}

// funding surface

func (a App) Deposit(ctx context.Context, caller model.Identity, amount uint64) error {
	return a.registry.Deposit(ctx, caller, amount)
}

func (a App) Withdraw(ctx context.Context, caller model.Identity) (uint64, error) {
	return a.registry.Withdraw(ctx, caller)
}
