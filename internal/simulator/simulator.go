// Package simulator implements Bloch's ideal statevector quantum
// simulator and OpenQASM 2.0 log emission (spec §4.6).
package simulator

import (
	"fmt"
	"math"
	"math/cmplx"
	"math/rand"
)

// Simulator owns one program run's qubit state and QASM transcript. It
// is per-evaluator, never a process-wide singleton (spec §9 "Global
// state"): a fresh Simulator is constructed for every shot.
type Simulator struct {
	amps     []complex128
	measured []bool
	log      []string
	logQASM  bool
	rng      *rand.Rand
}

// New constructs a Simulator with zero allocated qubits. logQASM
// controls whether gate/measure/reset lines are appended to the log;
// the preamble and register declarations are emitted regardless (spec
// §4.6 "log suppression is per-instance").
func New(logQASM bool, rng *rand.Rand) *Simulator {
	if rng == nil {
		rng = rand.New(rand.NewSource(1))
	}
	return &Simulator{amps: []complex128{1}, logQASM: logQASM, rng: rng}
}

// NumQubits reports how many qubits have been allocated.
func (s *Simulator) NumQubits() int { return len(s.measured) }

// AllocateQubit extends the state by tensoring with |0⟩ and returns the
// new qubit's index.
func (s *Simulator) AllocateQubit() int {
	n := len(s.amps)
	next := make([]complex128, n*2)
	copy(next, s.amps)
	s.amps = next
	idx := len(s.measured)
	s.measured = append(s.measured, false)
	return idx
}

// Measured reports whether qubit q has been measured since its last
// reset (spec §4.5.5's evaluator-enforced rule reads this).
func (s *Simulator) Measured(q int) bool { return s.measured[q] }

func bitSet(state, q int) bool { return state&(1<<uint(q)) != 0 }

func (s *Simulator) apply1(q int, u [2][2]complex128) {
	n := len(s.amps)
	for state := 0; state < n; state++ {
		if bitSet(state, q) {
			continue
		}
		j := state | (1 << uint(q))
		a0, a1 := s.amps[state], s.amps[j]
		s.amps[state] = u[0][0]*a0 + u[0][1]*a1
		s.amps[j] = u[1][0]*a0 + u[1][1]*a1
	}
}

func (s *Simulator) logLine(format string, args ...any) {
	if s.logQASM {
		s.log = append(s.log, fmt.Sprintf(format, args...))
	}
}

// H applies the Hadamard gate.
func (s *Simulator) H(q int) {
	r := complex(1/math.Sqrt2, 0)
	s.apply1(q, [2][2]complex128{{r, r}, {r, -r}})
	s.logLine("h q[%d];", q)
}

// X applies the Pauli-X gate.
func (s *Simulator) X(q int) {
	s.apply1(q, [2][2]complex128{{0, 1}, {1, 0}})
	s.logLine("x q[%d];", q)
}

// Y applies the Pauli-Y gate.
func (s *Simulator) Y(q int) {
	s.apply1(q, [2][2]complex128{{0, -1i}, {1i, 0}})
	s.logLine("y q[%d];", q)
}

// Z applies the Pauli-Z gate.
func (s *Simulator) Z(q int) {
	s.apply1(q, [2][2]complex128{{1, 0}, {0, -1}})
	s.logLine("z q[%d];", q)
}

// RX applies an X-axis rotation by theta radians.
func (s *Simulator) RX(q int, theta float64) {
	c := complex(math.Cos(theta/2), 0)
	isin := complex(0, -math.Sin(theta/2))
	s.apply1(q, [2][2]complex128{{c, isin}, {isin, c}})
	s.logLine("rx(%s) q[%d];", formatAngle(theta), q)
}

// RY applies a Y-axis rotation by theta radians.
func (s *Simulator) RY(q int, theta float64) {
	c := complex(math.Cos(theta/2), 0)
	sn := complex(math.Sin(theta/2), 0)
	s.apply1(q, [2][2]complex128{{c, -sn}, {sn, c}})
	s.logLine("ry(%s) q[%d];", formatAngle(theta), q)
}

// RZ applies a Z-axis rotation by theta radians.
func (s *Simulator) RZ(q int, theta float64) {
	neg := cmplx.Exp(complex(0, -theta/2))
	pos := cmplx.Exp(complex(0, theta/2))
	s.apply1(q, [2][2]complex128{{neg, 0}, {0, pos}})
	s.logLine("rz(%s) q[%d];", formatAngle(theta), q)
}

func formatAngle(theta float64) string {
	return fmt.Sprintf("%g", theta)
}

// CX applies a controlled-X gate: swaps amplitudes of basis states that
// differ in the target bit only when the control bit is 1.
func (s *Simulator) CX(control, target int) {
	n := len(s.amps)
	for state := 0; state < n; state++ {
		if !bitSet(state, control) || bitSet(state, target) {
			continue
		}
		other := state | (1 << uint(target))
		s.amps[state], s.amps[other] = s.amps[other], s.amps[state]
	}
	s.logLine("cx q[%d],q[%d];", control, target)
}

// Measure collapses qubit q and returns the sampled classical bit (0 or 1).
func (s *Simulator) Measure(q int) uint8 {
	n := len(s.amps)
	p1 := 0.0
	for state := 0; state < n; state++ {
		if bitSet(state, q) {
			p1 += real(s.amps[state])*real(s.amps[state]) + imag(s.amps[state])*imag(s.amps[state])
		}
	}
	outcome := uint8(0)
	if s.rng.Float64() < p1 {
		outcome = 1
	}

	norm := 0.0
	for state := 0; state < n; state++ {
		keep := bitSet(state, q) == (outcome == 1)
		if !keep {
			s.amps[state] = 0
			continue
		}
		norm += real(s.amps[state])*real(s.amps[state]) + imag(s.amps[state])*imag(s.amps[state])
	}
	if norm > 0 {
		scale := complex(1/math.Sqrt(norm), 0)
		for state := 0; state < n; state++ {
			s.amps[state] *= scale
		}
	}

	s.measured[q] = true
	s.logLine("measure q[%d] -> c[%d];", q, q)
	return outcome
}

// Reset forces qubit q back to |0⟩ without logging a measurement, by
// summing probability mass from |1⟩ states into |0⟩ states.
func (s *Simulator) Reset(q int) {
	n := len(s.amps)
	next := make([]complex128, n)
	for state := 0; state < n; state++ {
		if bitSet(state, q) {
			next[state^(1<<uint(q))] += s.amps[state]
		} else {
			next[state] += s.amps[state]
		}
	}
	norm := 0.0
	for _, a := range next {
		norm += real(a)*real(a) + imag(a)*imag(a)
	}
	if norm > 0 {
		scale := complex(1/math.Sqrt(norm), 0)
		for i := range next {
			next[i] *= scale
		}
	}
	s.amps = next
	s.measured[q] = false
	s.logLine("reset q[%d];", q)
}
