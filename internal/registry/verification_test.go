package registry_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"medrecord-registry/internal/model"
	"medrecord-registry/internal/oracle"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stalledOracle hangs in RequestCheck until released, signalling entry.
type stalledOracle struct {
	entered chan struct{}
	release chan struct{}
}

func (o *stalledOracle) RequestCheck(context.Context, oracle.JobSpec) (string, error) {
	close(o.entered)
	<-o.release
	return "req-1", nil
}

func TestRequestCheckRestrictedToDoctors(t *testing.T) {
	reg, _ := activated(t)

	_, err := reg.RequestCheck(context.Background(), stranger, patientP, "customer-7", "hashedpin")
	require.Error(t, err)
	assert.True(t, model.IsKind(err, model.KindUnauthorizedRole))
}

func TestRequestCheckRequiresActiveContract(t *testing.T) {
	reg, _ := newRegistry(t, 0)

	_, err := reg.RequestCheck(context.Background(), doctorD, patientP, "customer-7", "hashedpin")
	require.Error(t, err)
	assert.True(t, model.IsKind(err, model.KindInvalidLifecycleState))
}

func TestRequestCheckDebitsOracleFee(t *testing.T) {
	reg, _ := newRegistry(t, 2)
	ctx := context.Background()

	require.NoError(t, reg.ActivateContract(ctx, admin))
	require.NoError(t, reg.AuthorizeDoctor(ctx, admin, doctorD))
	require.NoError(t, reg.Deposit(ctx, stranger, 3))

	_, err := reg.RequestCheck(ctx, doctorD, patientP, "customer-7", "hashedpin")
	require.NoError(t, err)
	assert.Equal(t, uint64(1), reg.Balance())

	// the remaining balance does not cover a second request
	_, err = reg.RequestCheck(ctx, doctorD, patientP, "customer-7", "hashedpin")
	require.Error(t, err)
	assert.True(t, model.IsKind(err, model.KindPreconditionFailed))
	assert.Equal(t, uint64(1), reg.Balance())
}

func TestRequestCheckRefundsFeeOnOracleError(t *testing.T) {
	reg, _ := newRegistryWithOracle(t, 2, &fakeOracle{err: errors.New("oracle unreachable")})
	ctx := context.Background()

	require.NoError(t, reg.ActivateContract(ctx, admin))
	require.NoError(t, reg.AuthorizeDoctor(ctx, admin, doctorD))
	require.NoError(t, reg.Deposit(ctx, stranger, 2))

	_, err := reg.RequestCheck(ctx, doctorD, patientP, "customer-7", "hashedpin")
	require.Error(t, err)
	assert.Equal(t, uint64(2), reg.Balance())
}

func TestRequestCheckDoesNotStallOtherOperations(t *testing.T) {
	stalled := &stalledOracle{entered: make(chan struct{}), release: make(chan struct{})}
	reg, _ := newRegistryWithOracle(t, 1, stalled)
	ctx := context.Background()

	require.NoError(t, reg.ActivateContract(ctx, admin))
	require.NoError(t, reg.AuthorizeDoctor(ctx, admin, doctorD))
	require.NoError(t, reg.Deposit(ctx, stranger, 1))

	done := make(chan struct{})
	go func() {
		defer close(done)
		_, err := reg.RequestCheck(ctx, doctorD, patientP, "customer-7", "hashedpin")
		assert.NoError(t, err)
	}()

	// the fee is reserved before the oracle is called
	<-stalled.entered

	// other operations must proceed while the oracle call is in flight
	balanceRead := make(chan uint64, 1)
	go func() { balanceRead <- reg.Balance() }()

	select {
	case balance := <-balanceRead:
		assert.Equal(t, uint64(0), balance)
	case <-time.After(time.Second):
		t.Fatal("a registry operation waited for the oracle call")
	}

	close(stalled.release)
	<-done
}

func TestWithdrawOwnerOnly(t *testing.T) {
	reg, emitter := newRegistry(t, 0)
	ctx := context.Background()

	require.NoError(t, reg.Deposit(ctx, stranger, 5))

	_, err := reg.Withdraw(ctx, admin)
	require.Error(t, err)
	assert.True(t, model.IsKind(err, model.KindUnauthorizedRole))

	amount, err := reg.Withdraw(ctx, owner)
	require.NoError(t, err)
	assert.Equal(t, uint64(5), amount)
	assert.Equal(t, uint64(0), reg.Balance())

	last, ok := emitter.Last()
	require.True(t, ok)
	assert.Equal(t, model.EventFundsWithdrawn, last.Type)
	assert.Equal(t, uint64(5), last.Amount)
}

func TestDepositRejectsZero(t *testing.T) {
	reg, _ := newRegistry(t, 0)

	err := reg.Deposit(context.Background(), stranger, 0)
	require.Error(t, err)
	assert.True(t, model.IsKind(err, model.KindPreconditionFailed))
}
