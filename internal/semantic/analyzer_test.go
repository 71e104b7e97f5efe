package semantic

import (
	"testing"

	"github.com/bloch-lang/bloch/internal/parser"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustAnalyze(t *testing.T, src string) (*Registry, error) {
	t.Helper()
	p, err := parser.New(src, "test.bloch")
	require.NoError(t, err)
	prog, err := p.ParseProgram()
	require.NoError(t, err)
	return Analyze(prog)
}

func TestAnalyzeRequiresMain(t *testing.T) {
	_, err := mustAnalyze(t, "function helper() -> void { echo(1); }")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "main")
}

func TestAnalyzeSimpleMain(t *testing.T) {
	reg, err := mustAnalyze(t, "function main() -> void { int x = 1; echo(x); }")
	require.NoError(t, err)
	assert.NotNil(t, reg)
}

func TestAnalyzeUndeclaredIdentifier(t *testing.T) {
	_, err := mustAnalyze(t, "function main() -> void { echo(y); }")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "undeclared")
}

func TestAnalyzeFinalReassignmentRejected(t *testing.T) {
	_, err := mustAnalyze(t, "function main() -> void { final int x = 1; x = 2; }")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "final")
}

func TestAnalyzeDuplicateDeclarationInScope(t *testing.T) {
	_, err := mustAnalyze(t, "function main() -> void { int x = 1; int x = 2; }")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already declared")
}

func TestAnalyzeShadowAcrossFunctionBoundaryAllowed(t *testing.T) {
	src := `
class Box {
	int x;
	constructor(int x) { this.x = x; }
}
function main() -> void { int x = 1; echo(x); }
`
	_, err := mustAnalyze(t, src)
	require.NoError(t, err)
}

func TestAnalyzeShadowWithinFunctionRejected(t *testing.T) {
	src := "function main() -> void { int x = 1; { int x = 2; } }"
	_, err := mustAnalyze(t, src)
	require.Error(t, err)
}

func TestAnalyzeOverrideRequiresVirtualBase(t *testing.T) {
	src := `
class Base {
	public void greet() { echo(1); }
}
class Derived : Base {
	override public void greet() { echo(2); }
}
function main() -> void {}
`
	_, err := mustAnalyze(t, src)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not virtual")
}

func TestAnalyzeOverrideOfVirtualAccepted(t *testing.T) {
	src := `
class Base {
	virtual public void greet() { echo(1); }
}
class Derived : Base {
	override public void greet() { echo(2); }
}
function main() -> void {}
`
	_, err := mustAnalyze(t, src)
	require.NoError(t, err)
}

func TestAnalyzeAbstractClassMustStayAbstract(t *testing.T) {
	src := `
abstract class Shape {
	virtual public float area();
}
class Circle : Shape {
}
function main() -> void {}
`
	_, err := mustAnalyze(t, src)
	require.Error(t, err)
}

func TestAnalyzeFinalInstanceFieldMustBeAssignedInEveryConstructor(t *testing.T) {
	src := `
class Box {
	final int x;
	constructor() {}
}
function main() -> void {}
`
	_, err := mustAnalyze(t, src)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "does not assign")
}

func TestAnalyzeFinalStaticFieldRequiresInitializer(t *testing.T) {
	src := `
class Constants {
	static final int max;
}
function main() -> void {}
`
	_, err := mustAnalyze(t, src)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "requires a declaration initialiser")
}

func TestAnalyzeQuantumAnnotationRejectsBadReturnType(t *testing.T) {
	_, err := mustAnalyze(t, "@quantum function flip() -> int { return 1; }\nfunction main() -> void {}")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "@quantum")
}

func TestAnalyzeShotsOnlyOnMain(t *testing.T) {
	_, err := mustAnalyze(t, "@shots(10) function helper() -> void {}\nfunction main() -> void {}")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "@shots")
}

func TestAnalyzeTrackedRequiresQubitType(t *testing.T) {
	_, err := mustAnalyze(t, "function main() -> void { @tracked int x = 1; }")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "@tracked")
}

func TestAnalyzeResetRequiresQubit(t *testing.T) {
	_, err := mustAnalyze(t, "function main() -> void { int x = 1; reset x; }")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "reset")
}

func TestAnalyzeStaticMemberAccess(t *testing.T) {
	src := `
static class MathUtil {
	public static int square(int n) { return n * n; }
}
function main() -> void { int y = MathUtil.square(3); echo(y); }
`
	reg, err := mustAnalyze(t, src)
	require.NoError(t, err)
	_, ok := reg.Classes["MathUtil"]
	assert.True(t, ok)
}

func TestAnalyzeArithmeticTypeMismatch(t *testing.T) {
	_, err := mustAnalyze(t, `function main() -> void { string s = "a"; int x = 1; boolean b = x > s; }`)
	require.Error(t, err)
}
