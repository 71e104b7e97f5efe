package parser

import (
	"testing"

	"github.com/bloch-lang/bloch/internal/ast"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustParse(t *testing.T, src string) *ast.Program {
	t.Helper()
	p, err := New(src, "test.bloch")
	require.NoError(t, err)
	prog, err := p.ParseProgram()
	require.NoError(t, err)
	return prog
}

func TestParseSimpleVarDecl(t *testing.T) {
	prog := mustParse(t, "int x = 1;")
	require.Len(t, prog.Statements, 1)
	decl, ok := prog.Statements[0].(*ast.VarDecl)
	require.True(t, ok)
	assert.Equal(t, "x", decl.Name)
	assert.False(t, decl.IsFinal)
}

func TestParseFinalTrackedDecl(t *testing.T) {
	prog := mustParse(t, "@tracked final int x = 1;")
	decl := prog.Statements[0].(*ast.VarDecl)
	assert.True(t, decl.IsFinal)
	require.Len(t, decl.Annotations, 1)
	assert.Equal(t, "tracked", decl.Annotations[0].Name)
}

func TestParseQubitMultiDecl(t *testing.T) {
	prog := mustParse(t, "qubit a, b, c;")
	require.Len(t, prog.Statements, 3)
	for i, name := range []string{"a", "b", "c"} {
		decl, ok := prog.Statements[i].(*ast.VarDecl)
		require.True(t, ok)
		assert.Equal(t, name, decl.Name)
	}
}

func TestMultiDeclRejectedForNonQubit(t *testing.T) {
	_, err := New("int a, b;", "t.bloch")
	require.NoError(t, err)
	p, _ := New("int a, b;", "t.bloch")
	_, err = p.ParseProgram()
	require.Error(t, err)
}

func TestParseIfElse(t *testing.T) {
	prog := mustParse(t, "if (x > 0) { echo(x); } else { echo(0); }")
	stmt, ok := prog.Statements[0].(*ast.IfStmt)
	require.True(t, ok)
	require.NotNil(t, stmt.Else)
}

func TestParseWhileLoop(t *testing.T) {
	prog := mustParse(t, "while (i < 10) { i = i + 1; }")
	_, ok := prog.Statements[0].(*ast.WhileStmt)
	require.True(t, ok)
}

func TestParseForLoop(t *testing.T) {
	prog := mustParse(t, "for (int i = 0; i < 10; i = i + 1) { echo(i); }")
	forStmt, ok := prog.Statements[0].(*ast.ForStmt)
	require.True(t, ok)
	require.NotNil(t, forStmt.Init)
	require.NotNil(t, forStmt.Cond)
	require.NotNil(t, forStmt.Post)
}

func TestParseAssignment(t *testing.T) {
	prog := mustParse(t, "int x = 0; x = 5;")
	stmt, ok := prog.Statements[1].(*ast.AssignStmt)
	require.True(t, ok)
	target, ok := stmt.Target.(*ast.VarExpr)
	require.True(t, ok)
	assert.Equal(t, "x", target.Name)
}

func TestParseCastExpression(t *testing.T) {
	prog := mustParse(t, "float f = (float) 3;")
	decl := prog.Statements[0].(*ast.VarDecl)
	cast, ok := decl.Init.(*ast.CastExpr)
	require.True(t, ok)
	target, ok := cast.Target.(*ast.PrimitiveType)
	require.True(t, ok)
	assert.Equal(t, "float", target.Name)
}

func TestParseParenthesizedExpression(t *testing.T) {
	prog := mustParse(t, "int x = (1 + 2) * 3;")
	decl := prog.Statements[0].(*ast.VarDecl)
	bin, ok := decl.Init.(*ast.BinaryExpr)
	require.True(t, ok)
	assert.Equal(t, "*", bin.Op)
	_, ok = bin.Left.(*ast.ParenExpr)
	require.True(t, ok)
}

func TestParseTernaryExpression(t *testing.T) {
	prog := mustParse(t, "int x = a > b ? a : b;")
	decl := prog.Statements[0].(*ast.VarDecl)
	_, ok := decl.Init.(*ast.TernaryExpr)
	require.True(t, ok)
}

func TestParseTernaryStatement(t *testing.T) {
	prog := mustParse(t, "cond ? echo(1); : echo(2);")
	_, ok := prog.Statements[0].(*ast.TernaryStmt)
	require.True(t, ok)
}

func TestParseMeasureExpressionInDecl(t *testing.T) {
	prog := mustParse(t, "bit r = measure q;")
	decl := prog.Statements[0].(*ast.VarDecl)
	_, ok := decl.Init.(*ast.MeasureExpr)
	require.True(t, ok)
}

func TestParseMeasureStatement(t *testing.T) {
	prog := mustParse(t, "measure q;")
	_, ok := prog.Statements[0].(*ast.MeasureStmt)
	require.True(t, ok)
}

func TestParseResetAndDestroy(t *testing.T) {
	prog := mustParse(t, "reset q; destroy obj;")
	_, ok := prog.Statements[0].(*ast.ResetStmt)
	require.True(t, ok)
	_, ok = prog.Statements[1].(*ast.DestroyStmt)
	require.True(t, ok)
}

func TestParseImport(t *testing.T) {
	p, err := New("import bloch.quantum.gates;\n", "t.bloch")
	require.NoError(t, err)
	prog, err := p.ParseProgram()
	require.NoError(t, err)
	require.Len(t, prog.Imports, 1)
	assert.Equal(t, []string{"bloch", "quantum", "gates"}, prog.Imports[0].Path)
	assert.False(t, prog.Imports[0].Wildcard)
}

func TestParseWildcardImport(t *testing.T) {
	p, _ := New("import bloch.quantum.*;\n", "t.bloch")
	prog, err := p.ParseProgram()
	require.NoError(t, err)
	assert.True(t, prog.Imports[0].Wildcard)
}

func TestParseFunctionWithShots(t *testing.T) {
	prog := mustParse(t, `
@quantum
@shots(100)
function flip() -> bit {
	qubit q;
	return measure q;
}
`)
	require.Len(t, prog.Functions, 1)
	fn := prog.Functions[0]
	assert.True(t, fn.HasAnnotation("quantum"))
	n, ok := fn.Shots()
	require.True(t, ok)
	assert.Equal(t, 100, n)
}

func TestParseTopLevelTrackedVarNotMistakenForFunction(t *testing.T) {
	prog := mustParse(t, "@tracked int counter = 0;")
	require.Len(t, prog.Statements, 1)
	_, ok := prog.Statements[0].(*ast.VarDecl)
	require.True(t, ok)
}

func TestParseClassWithFieldsAndMethods(t *testing.T) {
	prog := mustParse(t, `
class Counter {
	private int value;

	constructor(int start) {
		this.value = start;
	}

	public int get() {
		return value;
	}

	destructor() {
	}
}
`)
	require.Len(t, prog.Classes, 1)
	cls := prog.Classes[0]
	assert.Equal(t, "Counter", cls.Name)
	require.Len(t, cls.Fields, 1)
	require.Len(t, cls.Methods, 1)
	require.Len(t, cls.Constructors, 1)
	require.NotNil(t, cls.Destructor)
}

func TestParseAbstractClassWithBase(t *testing.T) {
	prog := mustParse(t, `
abstract class Shape {
	public float area();
}

class Circle : Shape {
	private float radius;

	public float area() {
		return radius;
	}
}
`)
	require.Len(t, prog.Classes, 2)
	shape := prog.Classes[0]
	assert.True(t, shape.IsAbstract)
	require.Len(t, shape.Methods, 1)
	assert.True(t, shape.Methods[0].IsAbstract())

	circle := prog.Classes[1]
	require.NotNil(t, circle.Base)
	assert.Equal(t, "Shape", circle.Base.Name)
}

func TestParseGenericClass(t *testing.T) {
	prog := mustParse(t, `
class Box<T> {
	private T contents;

	public T get() {
		return contents;
	}
}
`)
	cls := prog.Classes[0]
	require.Len(t, cls.TypeParams, 1)
	assert.Equal(t, "T", cls.TypeParams[0].Name)
}

func TestParseFunctionStyleGenericClass(t *testing.T) {
	// spec.md §8 scenario 6, verbatim dialect: `function`-keyword methods
	// and a constructor with a `-> ClassName` return clause.
	prog := mustParse(t, `
class Box<T> {
	public T v;
	public constructor(T v) -> Box<T> { this.v = v; return this; }
	public function get() -> T { return this.v; }
}
function main() -> void {
	Box<int> b = new Box<int>(1);
	echo(b.get());
}
`)
	require.Len(t, prog.Classes, 1)
	cls := prog.Classes[0]
	require.Len(t, cls.Constructors, 1)
	require.Len(t, cls.Methods, 1)
	assert.Equal(t, "get", cls.Methods[0].Name)
	named, ok := cls.Methods[0].ReturnType.(*ast.NamedType)
	require.True(t, ok)
	assert.Equal(t, "T", named.Name)

	require.Len(t, prog.Functions, 1)
	assert.Equal(t, "main", prog.Functions[0].Name)
}

func TestParseArrayType(t *testing.T) {
	prog := mustParse(t, "int[] xs = {1, 2, 3};")
	decl := prog.Statements[0].(*ast.VarDecl)
	_, ok := decl.Type.(*ast.ArrayType)
	require.True(t, ok)
	lit, ok := decl.Init.(*ast.ArrayLiteral)
	require.True(t, ok)
	assert.Len(t, lit.Elements, 3)
}

func TestParseIndexAndMemberAccess(t *testing.T) {
	prog := mustParse(t, "int y = xs[0].length;")
	decl := prog.Statements[0].(*ast.VarDecl)
	member, ok := decl.Init.(*ast.MemberExpr)
	require.True(t, ok)
	assert.Equal(t, "length", member.Name)
	_, ok = member.Object.(*ast.IndexExpr)
	require.True(t, ok)
}

func TestParseNewExpression(t *testing.T) {
	prog := mustParse(t, "Counter c = new Counter(1);")
	decl := prog.Statements[0].(*ast.VarDecl)
	newExpr, ok := decl.Init.(*ast.NewExpr)
	require.True(t, ok)
	assert.Equal(t, "Counter", newExpr.Type.Name)
	require.Len(t, newExpr.Args, 1)
}

func TestParseNegativeArraySizeRejected(t *testing.T) {
	p, _ := New("int[-1] xs;", "t.bloch")
	_, err := p.ParseProgram()
	require.Error(t, err)
}
