// Package twofactor holds the verification gate between the registry and
// the external oracle. Every check request creates a pending entry keyed
// by the oracle's correlation identifier; a fulfillment with allowed=true
// turns it into a single-use grant scoped to the requesting doctor and the
// target patient. Grants expire instead of lingering, so a stale
// fulfillment cannot be picked up by an unrelated later call.
package twofactor

import (
	"context"
	"time"

	"github.com/google/uuid"
	cache "github.com/patrickmn/go-cache"
	"go.uber.org/zap"

	"medrecord-registry/internal/audit"
	"medrecord-registry/internal/model"
	"medrecord-registry/internal/oracle"
)

// resultPath selects the boolean result field of the oracle's report.
const resultPath = "result"

type pendingCheck struct {
	doctor  model.Identity
	patient model.Identity
}

type grant struct {
	doctor  model.Identity
	patient model.Identity
}

type Gate struct {
	logger   *zap.Logger
	emitter  audit.Emitter
	client   oracle.Client
	oracleID model.Identity

	pending *cache.Cache
	grants  *cache.Cache
	now     func() time.Time
}

func NewGate(logger *zap.Logger, emitter audit.Emitter, client oracle.Client, oracleID model.Identity, ttl time.Duration) *Gate {
	return &Gate{
		logger:   logger,
		emitter:  emitter,
		client:   client,
		oracleID: oracleID,
		pending:  cache.New(ttl, ttl),
		grants:   cache.New(ttl, ttl),
		now:      time.Now,
	}
}

func (g *Gate) OracleIdentity() model.Identity {
	return g.oracleID
}

// Request forwards a check to the oracle and registers the pending entry.
// The caller-supplied PIN value must already be hashed.
func (g *Gate) Request(ctx context.Context, doctor model.Identity, patient model.Identity, customerID string, hashedPin string) (string, error) {

	requestID, err := g.client.RequestCheck(ctx, oracle.JobSpec{
		CustomerID: customerID,
		HashedPin:  hashedPin,
		Path:       resultPath,
	})
	if err != nil {
		return "", err
	}
	if requestID == "" {
		// oracles that respond asynchronously may not assign one
		requestID = uuid.NewString()
	}

	g.pending.SetDefault(requestID, pendingCheck{doctor: doctor, patient: patient})

	g.logger.Info("verification check requested",
		zap.String("requestID", requestID), zap.String("doctor", doctor.String()), zap.String("patient", patient.String()))

	g.emitter.Emit(ctx, model.Event{
		Type:      model.EventCheckRequested,
		At:        g.now(),
		Actor:     doctor,
		Doctor:    doctor,
		Patient:   patient,
		RequestID: requestID,
	})

	return requestID, nil
}

// Fulfill accepts the oracle's one-shot callback, exactly once per
// outstanding requestID.
func (g *Gate) Fulfill(ctx context.Context, caller model.Identity, requestID string, allowed bool) error {
	const op = "fulfill"

	if caller != g.oracleID {
		return model.Unauthorized(op, "caller is not the configured oracle")
	}

	entry, ok := g.pending.Get(requestID)
	if !ok {
		return model.Precondition(op, "unknown, expired or already fulfilled request: "+requestID)
	}
	g.pending.Delete(requestID)

	check := entry.(pendingCheck)
	if allowed {
		g.grants.SetDefault(requestID, grant{doctor: check.doctor, patient: check.patient})
	}

	g.logger.Info("verification check fulfilled",
		zap.String("requestID", requestID), zap.Bool("allowed", allowed))

	g.emitter.Emit(ctx, model.Event{
		Type:      model.EventCheckFulfilled,
		At:        g.now(),
		Actor:     caller,
		Doctor:    check.doctor,
		Patient:   check.patient,
		RequestID: requestID,
		Allowed:   allowed,
	})

	return nil
}

// Consume takes the grant matching the calling doctor and the target
// patient. At most one gated mutation rides a single fulfillment; the
// grant is gone even when the mutation fails a later business check.
func (g *Gate) Consume(doctor model.Identity, patient model.Identity) bool {
	for requestID, item := range g.grants.Items() {
		if item.Expired() {
			continue
		}

		granted := item.Object.(grant)
		if granted.doctor == doctor && granted.patient == patient {
			g.grants.Delete(requestID)
			return true
		}
	}

	return false
}
