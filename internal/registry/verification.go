package registry

import (
	"context"

	"go.uber.org/zap"

	"medrecord-registry/internal/model"
)

// RequestCheck forwards a verification check for (caller, patient) to the
// oracle and debits the oracle fee from the funding balance. Restricted to
// authorized doctors; the grant produced by the fulfillment is scoped to
// this doctor and patient.
//
// The outbound oracle call runs outside the registry lock. Only the fee
// reservation and its refund are serialized, so a slow oracle cannot stall
// the other operations.
func (r *Registry) RequestCheck(ctx context.Context, caller model.Identity, patient model.Identity, customerID string, hashedPin string) (string, error) {
	const op = "request check"

	if err := r.reserveFee(op, caller); err != nil {
		return "", err
	}

	requestID, err := r.gate.Request(ctx, caller, patient, customerID, hashedPin)
	if err != nil {
		// refund on failure, the call must leave no partial mutation
		r.refundFee()
		r.logger.Error("check request failed: "+err.Error(), zap.String("doctor", caller.String()))
		return "", err
	}

	return requestID, nil
}

func (r *Registry) reserveFee(op string, caller model.Identity) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.requireActive(op); err != nil {
		return err
	}
	if err := r.requireAuthorized(op, caller); err != nil {
		return err
	}
	if r.balance < r.oracleFee {
		return model.Precondition(op, "funding balance does not cover the oracle fee")
	}

	r.balance -= r.oracleFee
	return nil
}

func (r *Registry) refundFee() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.balance += r.oracleFee
}
