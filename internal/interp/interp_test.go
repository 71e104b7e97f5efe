package interp

import (
	"math/rand"
	"testing"

	"github.com/bloch-lang/bloch/internal/ast"
	"github.com/bloch-lang/bloch/internal/parser"
	"github.com/bloch-lang/bloch/internal/semantic"
	"github.com/bloch-lang/bloch/internal/simulator"
	"github.com/stretchr/testify/require"
)

// runProgram parses, analyses, and runs src, collecting every echo(...)
// line in order. Tests that need to inspect post-run state (heap counts,
// tracked outcomes) build their own *Interp with newInterp instead.
func runProgram(t *testing.T, src string) []string {
	t.Helper()
	it, prog, err := newInterp(t, src)
	require.NoError(t, err)
	var lines []string
	it.Echo = func(s string) { lines = append(lines, s) }
	require.NoError(t, it.Run(prog))
	return lines
}

func newInterp(t *testing.T, src string) (*Interp, *ast.Program, error) {
	t.Helper()
	p, err := parser.New(src, "test.bloch")
	require.NoError(t, err)
	prog, err := p.ParseProgram()
	require.NoError(t, err)
	reg, err := semantic.Analyze(prog)
	require.NoError(t, err)
	sim := simulator.New(false, rand.New(rand.NewSource(1)))
	it := New(prog, reg, sim)
	return it, prog, nil
}

func TestClassicalIntegerEcho(t *testing.T) {
	src := `
function main() -> void {
	int x = 2;
	int y = 3;
	echo(x + y);
}
`
	lines := runProgram(t, src)
	require.Equal(t, []string{"5"}, lines)
}

func TestDeterministicCoinFlipCounting(t *testing.T) {
	src := `
function main() -> void {
	int heads = 0;
	for (int i = 0; i < 10; i = i + 1) {
		qubit q;
		x(q);
		bit b = measure q;
		if (b == 1) { heads = heads + 1; }
	}
	echo(heads);
}
`
	lines := runProgram(t, src)
	require.Equal(t, []string{"10"}, lines)
}

func TestEchoConcatenation(t *testing.T) {
	src := `
function main() -> void {
	qubit q;
	x(q);
	bit b = measure q;
	echo("Measured: " + b);
	echo(10);
}
`
	lines := runProgram(t, src)
	require.Equal(t, []string{"Measured: 1", "10"}, lines)
}

func TestGateAfterMeasureWithoutResetIsRuntimeError(t *testing.T) {
	src := `
function main() -> void {
	qubit q;
	x(q);
	bit b = measure q;
	x(q);
}
`
	it, prog, err := newInterp(t, src)
	require.NoError(t, err)
	err = it.Run(prog)
	require.Error(t, err)
	require.Contains(t, err.Error(), "Runtime error at 6:")
}

func TestGenericBoxInstantiation(t *testing.T) {
	src := `
class Box<T> {
	T value;
	constructor(T value) { this.value = value; }
	public T get() { return this.value; }
}
function main() -> void {
	Box<int> b = new Box<int>(1);
	echo(b.get());
}
`
	lines := runProgram(t, src)
	require.Equal(t, []string{"1"}, lines)
}

func TestHeapObjectCountDropsToZeroWithNoCycles(t *testing.T) {
	src := `
class Leaf {
	int v;
	constructor(int v) { this.v = v; }
}
function main() -> void {
	Leaf a = new Leaf(1);
	Leaf b = new Leaf(2);
}
`
	it, prog, err := newInterp(t, src)
	require.NoError(t, err)
	require.NoError(t, it.Run(prog))
	require.Equal(t, 0, it.HeapObjectCount())
}

func TestCycleReclamation(t *testing.T) {
	src := `
class Node {
	Node next;
}
function main() -> void {
	Node a = new Node();
	Node b = new Node();
	a.next = b;
	b.next = a;
}
`
	it, prog, err := newInterp(t, src)
	require.NoError(t, err)
	require.NoError(t, it.Run(prog))
	require.Equal(t, 0, it.HeapObjectCount())
}

func TestOverrideDispatchesToMostDerived(t *testing.T) {
	src := `
class Animal {
	public virtual string speak() { return "..."; }
}
class Dog : Animal {
	override public string speak() { return "Woof"; }
}
function main() -> void {
	Animal a = new Dog();
	echo(a.speak());
}
`
	lines := runProgram(t, src)
	require.Equal(t, []string{"Woof"}, lines)
}

func TestNonVirtualMethodUsesStaticDispatch(t *testing.T) {
	src := `
class Animal {
	public string speak() { return "..."; }
}
class Dog : Animal {
	public string speak() { return "Woof"; }
}
function main() -> void {
	Animal a = new Dog();
	echo(a.speak());
}
`
	lines := runProgram(t, src)
	require.Equal(t, []string{"..."}, lines)
}

func TestTrackedOutcomesRecordedOnScopeExit(t *testing.T) {
	it, prog, err := newInterp(t, `
function main() -> void {
	@tracked qubit q;
	x(q);
	bit b = measure q;
}
`)
	require.NoError(t, err)
	require.NoError(t, it.Run(prog))
	outcomes := it.Tracked()["q"]
	require.Equal(t, map[string]int{"1": 1}, outcomes)
}

func TestTrackedQubitNeverMeasuredRecordsSentinel(t *testing.T) {
	it, prog, err := newInterp(t, `
function main() -> void {
	@tracked qubit q;
}
`)
	require.NoError(t, err)
	require.NoError(t, it.Run(prog))
	outcomes := it.Tracked()["q"]
	require.Equal(t, map[string]int{"?": 1}, outcomes)
}

func TestNegativeArrayIndexIsRuntimeError(t *testing.T) {
	it, prog, err := newInterp(t, `
function main() -> void {
	int[3] xs;
	int i = -1;
	echo(xs[i]);
}
`)
	require.NoError(t, err)
	err = it.Run(prog)
	require.Error(t, err)
}

func TestOutOfBoundsArrayIndexIsRuntimeError(t *testing.T) {
	it, prog, err := newInterp(t, `
function main() -> void {
	int[3] xs;
	echo(xs[5]);
}
`)
	require.NoError(t, err)
	err = it.Run(prog)
	require.Error(t, err)
}

func TestDestroyIsNoopOnNull(t *testing.T) {
	src := `
class Leaf {}
function main() -> void {
	Leaf a = null;
	destroy a;
	echo(1);
}
`
	lines := runProgram(t, src)
	require.Equal(t, []string{"1"}, lines)
}

func TestDoubleDestroyIsRuntimeError(t *testing.T) {
	it, prog, err := newInterp(t, `
class Leaf {}
function main() -> void {
	Leaf a = new Leaf();
	destroy a;
	destroy a;
}
`)
	require.NoError(t, err)
	err = it.Run(prog)
	require.Error(t, err)
}
