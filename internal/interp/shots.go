package interp

import (
	"fmt"
	"math/rand"
	"sort"
	"strings"
	"time"

	"github.com/bloch-lang/bloch/internal/ast"
	"github.com/bloch-lang/bloch/internal/semantic"
	"github.com/bloch-lang/bloch/internal/simulator"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// ShotsResult is the aggregate of one or more runs of the merged
// program (spec §4.5.6, §6's "Multi-shot aggregate output").
type ShotsResult struct {
	Shots   int
	Elapsed time.Duration
	Tracked map[string]map[string]int
	QASM    string // the last shot's QASM transcript
}

// RunShots runs prog shots times, each with a fresh Interp and
// Simulator, summing tracked outcomes across runs (spec §4.5.6). echo is
// called for each echo(...) when shots == 1 or forceEcho is set;
// otherwise multi-shot runs suppress per-shot echoes in favour of the
// final aggregate table, matching the CLI's `--echo=auto` default (spec §6).
func RunShots(prog *ast.Program, reg *semantic.Registry, shots int, logQASM bool, echo func(string), forceEcho bool) (*ShotsResult, error) {
	if shots < 1 {
		shots = 1
	}
	combined := make(map[string]map[string]int)
	var lastQASM string

	start := time.Now()
	for i := 0; i < shots; i++ {
		sim := simulator.New(logQASM, rand.New(rand.NewSource(int64(i)+1)))
		it := New(prog, reg, sim)
		if shots == 1 || forceEcho {
			it.Echo = echo
		}
		if err := it.Run(prog); err != nil {
			return nil, err
		}
		for name, outcomes := range it.Tracked() {
			dst, ok := combined[name]
			if !ok {
				dst = make(map[string]int)
				combined[name] = dst
			}
			for outcome, count := range outcomes {
				dst[outcome] += count
			}
		}
		lastQASM = sim.QASM()
	}

	return &ShotsResult{
		Shots:   shots,
		Elapsed: time.Since(start),
		Tracked: combined,
		QASM:    lastQASM,
	}, nil
}

// sortedNames returns m's keys in a locale-stable order (spec §6's
// aggregate table is rendered deterministically across platforms).
func sortedNames(m map[string]map[string]int) []string {
	col := collate.New(language.Und)
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool { return col.CompareString(names[i], names[j]) < 0 })
	return names
}

func sortedOutcomes(m map[string]int) []string {
	col := collate.New(language.Und)
	outcomes := make([]string, 0, len(m))
	for o := range m {
		outcomes = append(outcomes, o)
	}
	sort.Slice(outcomes, func(i, j int) bool { return col.CompareString(outcomes[i], outcomes[j]) < 0 })
	return outcomes
}

// FormatAggregate renders spec §6's multi-shot aggregate table.
func FormatAggregate(r *ShotsResult) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Shots: %d\n", r.Shots)
	sb.WriteString("Backend: Bloch Ideal Simulator\n")
	fmt.Fprintf(&sb, "Elapsed: %.3fs\n", r.Elapsed.Seconds())

	for _, name := range sortedNames(r.Tracked) {
		outcomes := r.Tracked[name]
		total := 0
		for _, c := range outcomes {
			total += c
		}
		sb.WriteString("\n")
		sb.WriteString(name)
		sb.WriteString("\n")
		sb.WriteString("outcome | count |  prob\n")
		sb.WriteString("--------+-------+-----\n")
		for _, outcome := range sortedOutcomes(outcomes) {
			count := outcomes[outcome]
			prob := 0.0
			if total > 0 {
				prob = float64(count) / float64(total)
			}
			fmt.Fprintf(&sb, "%7s | %5d | %.3f\n", outcome, count, prob)
		}
	}
	return sb.String()
}
