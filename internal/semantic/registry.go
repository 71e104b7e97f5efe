// Package semantic implements Bloch's semantic analyser (spec §4.4):
// class registry, override/implementation checks, final-field
// discipline, scope/type checking, overload resolution, and annotation
// rules.
package semantic

import (
	"github.com/bloch-lang/bloch/internal/ast"
	"github.com/bloch-lang/bloch/internal/errors"
	"github.com/bloch-lang/bloch/internal/lexer"
)

// MethodInfo is one overload of a method declared directly on a class.
type MethodInfo struct {
	Decl           *ast.MethodDecl
	DeclaringClass string
}

// ClassInfo is the registry's per-class record (spec §3 "Class registry").
type ClassInfo struct {
	Decl         *ast.ClassDecl
	Base         *ClassInfo
	Fields       map[string]*ast.FieldDecl
	Methods      map[string][]*MethodInfo // overloads declared directly on this class
	Constructors []*ast.ConstructorDecl
	IsAbstract   bool
	Unimplemented map[string]*MethodInfo // abstract methods not yet given a body
}

// Registry is the fully validated set of class records.
type Registry struct {
	Classes map[string]*ClassInfo
	Order   []string
}

// AllMethods returns every overload of name visible on c, walking from c
// up through its base chain, most-derived first.
func (c *ClassInfo) AllMethods(name string) []*MethodInfo {
	var out []*MethodInfo
	for cls := c; cls != nil; cls = cls.Base {
		out = append(out, cls.Methods[name]...)
	}
	return out
}

// FindField looks up a field by name, walking the base chain.
func (c *ClassInfo) FindField(name string) (*ast.FieldDecl, *ClassInfo) {
	for cls := c; cls != nil; cls = cls.Base {
		if f, ok := cls.Fields[name]; ok {
			return f, cls
		}
	}
	return nil, nil
}

// IsSubclassOf reports whether c is base or a descendant of base.
func (c *ClassInfo) IsSubclassOf(base *ClassInfo) bool {
	for cls := c; cls != nil; cls = cls.Base {
		if cls == base {
			return true
		}
	}
	return false
}

// BuildRegistry runs the class registry pass (spec §4.4.1).
func BuildRegistry(prog *ast.Program) (*Registry, error) {
	reg := &Registry{Classes: make(map[string]*ClassInfo)}

	for _, cls := range prog.Classes {
		if _, dup := reg.Classes[cls.Name]; dup {
			return nil, semErr(cls.Position, "duplicate class %q", cls.Name)
		}
		info := &ClassInfo{Decl: cls, Fields: make(map[string]*ast.FieldDecl), Methods: make(map[string][]*MethodInfo)}
		reg.Classes[cls.Name] = info
		reg.Order = append(reg.Order, cls.Name)
	}

	for _, cls := range prog.Classes {
		info := reg.Classes[cls.Name]
		if cls.Base != nil {
			base, ok := reg.Classes[cls.Base.Name]
			if !ok {
				return nil, semErr(cls.Position, "class %q extends unknown base class %q", cls.Name, cls.Base.Name)
			}
			info.Base = base
		}
	}

	if err := checkInheritanceAcyclic(reg); err != nil {
		return nil, err
	}

	for _, cls := range prog.Classes {
		info := reg.Classes[cls.Name]

		if cls.IsStatic && cls.Destructor != nil {
			return nil, semErr(cls.Position, "static class %q may not declare a destructor", cls.Name)
		}

		seenField := make(map[string]bool)
		for _, f := range cls.Fields {
			if seenField[f.Name] {
				return nil, semErr(f.Position, "duplicate field %q in class %q", f.Name, cls.Name)
			}
			seenField[f.Name] = true
			if cls.IsStatic && !f.IsStatic {
				return nil, semErr(f.Position, "static class %q may not declare instance field %q", cls.Name, f.Name)
			}
			if isVoid(f.Type) {
				return nil, semErr(f.Position, "field %q may not have type void", f.Name)
			}
			info.Fields[f.Name] = f
		}

		destructors := 0
		if cls.Destructor != nil {
			destructors++
		}
		if destructors > 1 {
			return nil, semErr(cls.Position, "class %q declares more than one destructor", cls.Name)
		}

		methodNames := make(map[string]bool)
		for _, m := range cls.Methods {
			if cls.IsStatic && !m.IsStatic {
				return nil, semErr(m.Position, "static class %q may not declare instance method %q", cls.Name, m.Name)
			}
			if m.IsVirtual && m.IsStatic {
				return nil, semErr(m.Position, "method %q may not be both virtual and static", m.Name)
			}
			for _, p := range m.Params {
				if isVoid(p.Type) {
					return nil, semErr(p.Position, "parameter %q of method %q may not have type void", p.Name, m.Name)
				}
			}
			info.Methods[m.Name] = append(info.Methods[m.Name], &MethodInfo{Decl: m, DeclaringClass: cls.Name})
			methodNames[m.Name] = true
		}
		info.Constructors = cls.Constructors
	}

	for _, name := range reg.Order {
		computeAbstract(reg.Classes[name])
	}

	return reg, nil
}

func checkInheritanceAcyclic(reg *Registry) error {
	for _, name := range reg.Order {
		seen := map[string]bool{name: true}
		for c := reg.Classes[name].Base; c != nil; c = c.Base {
			if seen[c.Decl.Name] {
				return semErr(reg.Classes[name].Decl.Position, "inheritance cycle detected involving class %q", name)
			}
			seen[c.Decl.Name] = true
		}
	}
	return nil
}

// computeAbstract records, for info, the abstract methods inherited from
// its base that this class's own methods do not implement with a
// signature-compatible body (spec §4.4.1's last paragraph).
func computeAbstract(info *ClassInfo) {
	info.Unimplemented = make(map[string]*MethodInfo)
	if info.Base != nil {
		for name, m := range info.Base.Unimplemented {
			if !implementedHere(info, name, m) {
				info.Unimplemented[name] = m
			}
		}
	}
	for _, m := range info.Decl.Methods {
		if m.IsAbstract() {
			info.Unimplemented[m.Name] = &MethodInfo{Decl: m, DeclaringClass: info.Decl.Name}
		}
	}
	info.IsAbstract = info.Decl.IsAbstract || len(info.Unimplemented) > 0
}

func implementedHere(info *ClassInfo, name string, abstract *MethodInfo) bool {
	for _, m := range info.Decl.Methods {
		if m.Name == name && !m.IsAbstract() && sameParamTypes(m.Params, abstract.Decl.Params) {
			return true
		}
	}
	return false
}

func isVoid(t ast.Type) bool {
	prim, ok := t.(*ast.PrimitiveType)
	return ok && prim.Name == "void"
}

func semErr(pos lexer.Position, format string, args ...any) error {
	return errors.New(errors.Semantic, errors.Position(pos), format, args...)
}
