package semantic

import (
	"testing"

	"github.com/bloch-lang/bloch/internal/parser"
	"github.com/google/go-cmp/cmp"
)

// classShape is a flat, exported-only projection of a ClassInfo used to
// diff two registry builds without walking the full AST (whose Type/Expr
// interfaces carry node kinds go-cmp can't compare structurally).
type classShape struct {
	Name    string
	Base    string
	Fields  []string
	Methods []string
}

func shapeOf(reg *Registry) map[string]classShape {
	out := make(map[string]classShape, len(reg.Classes))
	for name, info := range reg.Classes {
		shape := classShape{Name: name}
		if info.Base != nil {
			shape.Base = info.Base.Decl.Name
		}
		for fieldName := range info.Fields {
			shape.Fields = append(shape.Fields, fieldName)
		}
		for methodName := range info.Methods {
			shape.Methods = append(shape.Methods, methodName)
		}
		out[name] = shape
	}
	return out
}

// TestBuildRegistryIsStructurallyDeterministic rebuilds the registry for
// the same source twice and diffs the resulting class shapes with go-cmp:
// two independent BuildRegistry runs over identical input must agree on
// every class's base, fields, and method set.
func TestBuildRegistryIsStructurallyDeterministic(t *testing.T) {
	src := `
class Animal {
	string name;
	public virtual string speak() { return "..."; }
}
class Dog : Animal {
	override public string speak() { return "Woof"; }
}
function main() -> void {}
`
	first := buildRegistryOrFail(t, src)
	second := buildRegistryOrFail(t, src)

	if diff := cmp.Diff(shapeOf(first), shapeOf(second), cmp.Comparer(sameStringSet)); diff != "" {
		t.Fatalf("registry shape diverged across identical builds (-first +second):\n%s", diff)
	}

	dog := second.Classes["Dog"]
	if dog == nil || dog.Base == nil || dog.Base.Decl.Name != "Animal" {
		t.Fatalf("expected Dog's base to resolve to Animal, got %+v", dog)
	}
}

func sameStringSet(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	seen := make(map[string]int, len(a))
	for _, s := range a {
		seen[s]++
	}
	for _, s := range b {
		seen[s]--
	}
	for _, n := range seen {
		if n != 0 {
			return false
		}
	}
	return true
}

func buildRegistryOrFail(t *testing.T, src string) *Registry {
	t.Helper()
	p, err := parser.New(src, "test.bloch")
	if err != nil {
		t.Fatalf("parser.New: %v", err)
	}
	prog, err := p.ParseProgram()
	if err != nil {
		t.Fatalf("ParseProgram: %v", err)
	}
	reg, err := BuildRegistry(prog)
	if err != nil {
		t.Fatalf("BuildRegistry: %v", err)
	}
	return reg
}
