package registry

import (
	"context"

	"go.uber.org/zap"

	"medrecord-registry/internal/model"
)

// Deposit credits the funding balance used to pay the oracle fee.
func (r *Registry) Deposit(ctx context.Context, caller model.Identity, amount uint64) error {
	const op = "deposit"

	r.mu.Lock()
	defer r.mu.Unlock()

	if amount == 0 {
		return model.Precondition(op, "amount must be positive")
	}

	r.balance += amount

	r.logger.Info("funds deposited", zap.Uint64("amount", amount))
	r.emit(ctx, model.Event{Type: model.EventFundsDeposited, Actor: caller, Amount: amount})

	return nil
}

// Withdraw drains the whole funding balance to the platform owner. The
// owner is distinct from the administrator.
func (r *Registry) Withdraw(ctx context.Context, caller model.Identity) (uint64, error) {
	const op = "withdraw"

	r.mu.Lock()
	defer r.mu.Unlock()

	if caller != r.owner {
		return 0, model.Unauthorized(op, "caller is not the platform owner")
	}

	amount := r.balance
	r.balance = 0

	r.logger.Info("funds withdrawn", zap.Uint64("amount", amount))
	r.emit(ctx, model.Event{Type: model.EventFundsWithdrawn, Actor: caller, Amount: amount})

	return amount, nil
}

func (r *Registry) Balance() uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.balance
}
