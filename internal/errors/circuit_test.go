package errors

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCircuitBreaker_DefaultsToClosed(t *testing.T) {
	cb := NewCircuitBreaker("brave")

	assert.Equal(t, "brave", cb.Name())
	assert.Equal(t, StateClosed, cb.State())
	assert.True(t, cb.Allow())
}

func TestCircuitBreaker_OpensAfterMaxFailures(t *testing.T) {
	cb := NewCircuitBreaker("brave", WithMaxFailures(3), WithResetTimeout(time.Minute))

	cb.RecordFailure()
	cb.RecordFailure()
	assert.True(t, cb.Allow(), "should still be closed below the failure threshold")

	cb.RecordFailure()
	assert.Equal(t, StateOpen, cb.State())
	assert.False(t, cb.Allow(), "should deny calls once the circuit trips")
}

func TestCircuitBreaker_RecordSuccessResetsFailureCount(t *testing.T) {
	cb := NewCircuitBreaker("brave", WithMaxFailures(2))

	cb.RecordFailure()
	require.Equal(t, 1, cb.Failures())

	cb.RecordSuccess()
	assert.Equal(t, 0, cb.Failures())
	assert.Equal(t, StateClosed, cb.State())
}

func TestCircuitBreaker_HalfOpenAfterResetTimeout(t *testing.T) {
	cb := NewCircuitBreaker("brave", WithMaxFailures(1), WithResetTimeout(10*time.Millisecond))

	cb.RecordFailure()
	require.Equal(t, StateOpen, cb.State())
	require.False(t, cb.Allow())

	time.Sleep(20 * time.Millisecond)

	assert.Equal(t, StateHalfOpen, cb.State())
	assert.True(t, cb.Allow(), "half-open state allows one probe request through")
}

func TestCircuitBreaker_HalfOpenFailureReopensCircuit(t *testing.T) {
	cb := NewCircuitBreaker("brave", WithMaxFailures(1), WithResetTimeout(10*time.Millisecond))

	cb.RecordFailure()
	time.Sleep(20 * time.Millisecond)
	require.Equal(t, StateHalfOpen, cb.State())

	cb.RecordFailure()
	assert.Equal(t, StateOpen, cb.State())
	assert.False(t, cb.Allow())
}

func TestState_String(t *testing.T) {
	assert.Equal(t, "closed", StateClosed.String())
	assert.Equal(t, "open", StateOpen.String())
	assert.Equal(t, "half-open", StateHalfOpen.String())
	assert.Equal(t, "unknown", State(99).String())
}
