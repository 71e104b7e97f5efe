package simulator

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAllocateQubitDoublesStateSize(t *testing.T) {
	s := New(true, rand.New(rand.NewSource(1)))
	q0 := s.AllocateQubit()
	assert.Equal(t, 0, q0)
	assert.Len(t, s.amps, 2)
	s.AllocateQubit()
	assert.Len(t, s.amps, 4)
}

func TestXThenMeasureIsDeterministic(t *testing.T) {
	s := New(true, rand.New(rand.NewSource(1)))
	q := s.AllocateQubit()
	s.X(q)
	outcome := s.Measure(q)
	require.Equal(t, uint8(1), outcome)
	assert.True(t, s.Measured(q))
}

func TestResetClearsMeasuredFlag(t *testing.T) {
	s := New(true, rand.New(rand.NewSource(1)))
	q := s.AllocateQubit()
	s.X(q)
	s.Measure(q)
	require.True(t, s.Measured(q))
	s.Reset(q)
	assert.False(t, s.Measured(q))
}

func TestQASMLogContainsOneLinePerGate(t *testing.T) {
	s := New(true, rand.New(rand.NewSource(1)))
	q := s.AllocateQubit()
	s.H(q)
	s.X(q)
	s.Measure(q)
	qasm := s.QASM()
	assert.Contains(t, qasm, "OPENQASM 2.0;")
	assert.Contains(t, qasm, "qreg q[1];")
	assert.Contains(t, qasm, "creg c[1];")
	assert.Contains(t, qasm, "h q[0];")
	assert.Contains(t, qasm, "x q[0];")
	assert.Contains(t, qasm, "measure q[0] -> c[0];")
}

func TestLogSuppressionKeepsRegistersOnly(t *testing.T) {
	s := New(false, rand.New(rand.NewSource(1)))
	q := s.AllocateQubit()
	s.H(q)
	qasm := s.QASM()
	assert.Contains(t, qasm, "qreg q[1];")
	assert.NotContains(t, qasm, "h q[0];")
}

func TestCXSwapsOnlyWhenControlSet(t *testing.T) {
	s := New(true, rand.New(rand.NewSource(1)))
	c := s.AllocateQubit()
	tq := s.AllocateQubit()
	s.X(c)
	s.CX(c, tq)
	outcome := s.Measure(tq)
	assert.Equal(t, uint8(1), outcome)
}
