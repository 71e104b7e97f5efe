package simulator

import (
	"strconv"
	"strings"
)

// QASM renders the full OpenQASM 2.0 transcript for the run: preamble,
// register declarations sized to the number of allocated qubits, then
// the per-operation log lines in execution order (spec §6 "QASM
// format"). Register declarations are always emitted, even with log
// suppression enabled, so the log stays well-formed.
func (s *Simulator) QASM() string {
	var b strings.Builder
	b.WriteString("OPENQASM 2.0;\n")
	b.WriteString("include \"qelib1.inc\";\n")
	n := s.NumQubits()
	b.WriteString(qregLine(n))
	b.WriteString(cregLine(n))
	for _, line := range s.log {
		b.WriteString(line)
		b.WriteString("\n")
	}
	return b.String()
}

func qregLine(n int) string {
	return "qreg q[" + strconv.Itoa(n) + "];\n"
}

func cregLine(n int) string {
	return "creg c[" + strconv.Itoa(n) + "];\n"
}
