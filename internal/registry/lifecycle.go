package registry

import (
	"context"

	"medrecord-registry/internal/model"
)

// The contract moves strictly Created -> Active -> Inactive. There is no
// way out of Inactive and no transition skips Active.

func (r *Registry) ActivateContract(ctx context.Context, caller model.Identity) error {
	const op = "activate contract"

	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.requireAdmin(op, caller); err != nil {
		return err
	}
	if r.state != model.StateCreated {
		return model.InvalidState(op, r.state, model.StateCreated)
	}

	r.state = model.StateActive

	r.logger.Info("contract activated")
	r.emit(ctx, model.Event{Type: model.EventContractActivated, Actor: caller})

	return nil
}

func (r *Registry) DeactivateContract(ctx context.Context, caller model.Identity) error {
	const op = "deactivate contract"

	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.requireAdmin(op, caller); err != nil {
		return err
	}
	if err := r.requireActive(op); err != nil {
		return err
	}

	r.state = model.StateInactive

	r.logger.Info("contract deactivated")
	r.emit(ctx, model.Event{Type: model.EventContractDeactivated, Actor: caller})

	return nil
}
