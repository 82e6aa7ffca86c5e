// Package registry implements the access-controlled medical-record core:
// role management, the contract lifecycle, patient consent overrides, the
// funding treasury and the record store, all gated by the twofactor
// verification gate. Every mutating operation runs as a single serialized
// transaction and either applies fully or not at all.
package registry

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"medrecord-registry/internal/audit"
	"medrecord-registry/internal/model"
	"medrecord-registry/internal/twofactor"
)

// Params seeds the registry at startup. The admin and owner identities are
// fixed for the lifetime of the process.
type Params struct {
	Admin model.Identity
	Owner model.Identity

	// OracleFee is debited from the funding balance per check request.
	OracleFee uint64

	// Doctors are authorized from the identity seed file before the
	// contract is activated.
	Doctors []model.Identity
}

type Registry struct {
	mu      sync.Mutex
	logger  *zap.Logger
	emitter audit.Emitter
	gate    *twofactor.Gate
	now     func() time.Time

	admin model.Identity
	owner model.Identity

	state      model.ContractState
	authorized map[model.Identity]struct{}
	privileged map[model.Identity]struct{}

	// consentRevoked[patient][doctor] == true blocks the doctor from
	// updating that patient's record, independent of role authorization
	consentRevoked map[model.Identity]map[model.Identity]bool

	records map[model.Identity]*model.Record

	balance   uint64
	oracleFee uint64
}

func New(logger *zap.Logger, emitter audit.Emitter, gate *twofactor.Gate, params Params) *Registry {
	r := &Registry{
		logger:  logger,
		emitter: emitter,
		gate:    gate,
		now:     time.Now,

		admin: params.Admin,
		owner: params.Owner,

		state:          model.StateCreated,
		authorized:     make(map[model.Identity]struct{}),
		privileged:     make(map[model.Identity]struct{}),
		consentRevoked: make(map[model.Identity]map[model.Identity]bool),
		records:        make(map[model.Identity]*model.Record),

		oracleFee: params.OracleFee,
	}

	for _, doctor := range params.Doctors {
		r.authorized[doctor] = struct{}{}
	}

	return r
}

// Gate exposes the verification gate for the fulfillment port.
func (r *Registry) Gate() *twofactor.Gate {
	return r.gate
}

func (r *Registry) State() model.ContractState {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state
}

func (r *Registry) requireAdmin(op string, caller model.Identity) error {
	if caller != r.admin {
		return model.Unauthorized(op, "caller is not the administrator")
	}
	return nil
}

func (r *Registry) requireActive(op string) error {
	if r.state != model.StateActive {
		return model.InvalidState(op, r.state, model.StateActive)
	}
	return nil
}

func (r *Registry) requireAuthorized(op string, caller model.Identity) error {
	if _, ok := r.authorized[caller]; !ok {
		return model.Unauthorized(op, "caller is not an authorized doctor")
	}
	return nil
}

func (r *Registry) requirePrivileged(op string, caller model.Identity) error {
	if _, ok := r.privileged[caller]; !ok {
		return model.Unauthorized(op, "caller has no activation privilege")
	}
	return nil
}

// consumeGrant takes the single-use verification grant for (doctor,
// patient). The grant is gone even when a later business check fails.
func (r *Registry) consumeGrant(op string, doctor model.Identity, patient model.Identity) error {
	if !r.gate.Consume(doctor, patient) {
		return model.Unauthorized(op, "no verification grant for this doctor and patient")
	}
	return nil
}

func (r *Registry) emit(ctx context.Context, event model.Event) {
	event.At = r.now()
	r.emitter.Emit(ctx, event)
}
