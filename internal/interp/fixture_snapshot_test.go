package interp

import (
	"math/rand"
	"testing"

	"github.com/bloch-lang/bloch/internal/parser"
	"github.com/bloch-lang/bloch/internal/semantic"
	"github.com/bloch-lang/bloch/internal/simulator"
	"github.com/gkampitakis/go-snaps/snaps"
)

// TestQASMTranscriptSnapshot runs a small deterministic quantum program
// (an x gate has no amplitude-dependent branching) and snapshots the
// resulting OpenQASM 2.0 transcript with go-snaps, the same way the
// teacher snapshots fixture output.
func TestQASMTranscriptSnapshot(t *testing.T) {
	src := `
function main() -> void {
	qubit q;
	x(q);
	bit b = measure q;
}
`
	p, err := parser.New(src, "fixture.bloch")
	if err != nil {
		t.Fatalf("parser.New: %v", err)
	}
	prog, err := p.ParseProgram()
	if err != nil {
		t.Fatalf("ParseProgram: %v", err)
	}
	reg, err := semantic.Analyze(prog)
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}

	sim := simulator.New(true, rand.New(rand.NewSource(1)))
	it := New(prog, reg, sim)
	if err := it.Run(prog); err != nil {
		t.Fatalf("Run: %v", err)
	}

	snaps.MatchSnapshot(t, sim.QASM())
}
