package registry_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"medrecord-registry/internal/audit"
	"medrecord-registry/internal/model"
	"medrecord-registry/internal/oracle"
	"medrecord-registry/internal/registry"
	"medrecord-registry/internal/twofactor"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const (
	admin    = model.Identity("admin")
	owner    = model.Identity("owner")
	oracleID = model.Identity("oracle")

	doctorD  = model.Identity("doctor-d")
	doctorE  = model.Identity("doctor-e")
	patientP = model.Identity("patient-p")
	stranger = model.Identity("stranger")
)

type fakeOracle struct {
	calls int
	err   error
}

func (f *fakeOracle) RequestCheck(context.Context, oracle.JobSpec) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	f.calls++
	return fmt.Sprintf("req-%d", f.calls), nil
}

func newRegistry(t *testing.T, fee uint64) (*registry.Registry, *audit.Memory) {
	t.Helper()
	return newRegistryWithOracle(t, fee, &fakeOracle{})
}

func newRegistryWithOracle(t *testing.T, fee uint64, client oracle.Client) (*registry.Registry, *audit.Memory) {
	t.Helper()

	emitter := audit.NewMemory()
	gate := twofactor.NewGate(zap.NewNop(), emitter, client, oracleID, time.Minute)

	reg := registry.New(zap.NewNop(), emitter, gate, registry.Params{
		Admin:     admin,
		Owner:     owner,
		OracleFee: fee,
	})

	return reg, emitter
}

// activated returns a registry with an active contract and doctorD
// authorized, the common starting point of the scenarios.
func activated(t *testing.T) (*registry.Registry, *audit.Memory) {
	t.Helper()

	reg, emitter := newRegistry(t, 0)
	ctx := context.Background()

	require.NoError(t, reg.ActivateContract(ctx, admin))
	require.NoError(t, reg.AuthorizeDoctor(ctx, admin, doctorD))

	return reg, emitter
}

// grantFor runs a full check round trip so the doctor holds a consumable
// grant for the patient.
func grantFor(t *testing.T, reg *registry.Registry, doctor model.Identity, patient model.Identity) {
	t.Helper()
	ctx := context.Background()

	requestID, err := reg.RequestCheck(ctx, doctor, patient, "customer-7", "hashedpin")
	require.NoError(t, err)
	require.NoError(t, reg.Gate().Fulfill(ctx, oracleID, requestID, true))
}

// addRecordFor adds an active record through the full gated path.
func addRecordFor(t *testing.T, reg *registry.Registry, doctor model.Identity, patient model.Identity, name string, diagnosis string) {
	t.Helper()

	grantFor(t, reg, doctor, patient)
	require.NoError(t, reg.AddRecord(context.Background(), doctor, patient, name, diagnosis))
}
