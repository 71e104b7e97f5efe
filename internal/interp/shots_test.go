package interp

import (
	"testing"

	"github.com/bloch-lang/bloch/internal/parser"
	"github.com/bloch-lang/bloch/internal/semantic"
	"github.com/stretchr/testify/require"
)

func TestRunShotsAggregatesTrackedOutcomes(t *testing.T) {
	src := `
function main() -> void {
	@tracked qubit q;
}
`
	p, err := parser.New(src, "test.bloch")
	require.NoError(t, err)
	prog, err := p.ParseProgram()
	require.NoError(t, err)
	reg, err := semantic.Analyze(prog)
	require.NoError(t, err)

	result, err := RunShots(prog, reg, 3, false, nil, false)
	require.NoError(t, err)
	require.Equal(t, 3, result.Shots)
	require.Equal(t, map[string]int{"?": 3}, result.Tracked["q"])
}

func TestFormatAggregateMatchesAggregateTableShape(t *testing.T) {
	r := &ShotsResult{
		Shots: 3,
		Tracked: map[string]map[string]int{
			"q": {"?": 3},
		},
	}
	out := FormatAggregate(r)
	require.Contains(t, out, "Shots: 3\n")
	require.Contains(t, out, "Backend: Bloch Ideal Simulator\n")
	require.Contains(t, out, "q\n")
	require.Contains(t, out, "outcome | count |  prob\n")
	require.Contains(t, out, "      ? |     3 | 1.000\n")
}

func TestRunShotsDeterministicCountingAcrossShots(t *testing.T) {
	src := `
function main() -> void {
	@tracked qubit q;
	x(q);
	bit b = measure q;
}
`
	p, err := parser.New(src, "test.bloch")
	require.NoError(t, err)
	prog, err := p.ParseProgram()
	require.NoError(t, err)
	reg, err := semantic.Analyze(prog)
	require.NoError(t, err)

	result, err := RunShots(prog, reg, 5, false, nil, false)
	require.NoError(t, err)
	require.Equal(t, map[string]int{"1": 5}, result.Tracked["q"])
}
