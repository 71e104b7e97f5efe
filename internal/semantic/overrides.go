package semantic

import "github.com/bloch-lang/bloch/internal/ast"

// checkOverrides enforces spec §4.4.2: `override` requires a virtual (or
// itself overridden) method of the same name and parameter list on a
// base class; a method matching a virtual (or overriding) base method
// but declared without `override` is an error, while one matching a
// non-virtual base method just hides it; a concrete class must leave no
// abstract method unimplemented.
func checkOverrides(reg *Registry, info *ClassInfo) error {
	for _, m := range info.Decl.Methods {
		if info.Base == nil {
			if m.IsOverride {
				return semErr(m.Position, "method %q marked override but class %q has no base class", m.Name, info.Decl.Name)
			}
			continue
		}
		base := findOverridable(info.Base, m.Name, m.Params)
		if m.IsOverride {
			if base == nil {
				return semErr(m.Position, "method %q marked override but no matching virtual method exists on a base class", m.Name)
			}
			if !base.Decl.IsVirtual && !base.Decl.IsOverride {
				return semErr(m.Position, "method %q overrides %q, which is not virtual", m.Name, base.DeclaringClass)
			}
		} else if base != nil && (base.Decl.IsVirtual || base.Decl.IsOverride) {
			return semErr(m.Position, "method %q hides virtual method %q.%s; did you mean to add override?", m.Name, base.DeclaringClass, m.Name)
		}
	}

	if !info.Decl.IsAbstract && info.IsAbstract {
		for name := range info.Unimplemented {
			return semErr(info.Decl.Position, "class %q must be abstract or implement method %q", info.Decl.Name, name)
		}
	}
	return nil
}

func findOverridable(base *ClassInfo, name string, params []*ast.Param) *MethodInfo {
	for cls := base; cls != nil; cls = cls.Base {
		for _, m := range cls.Methods[name] {
			if sameParamTypes(m.Decl.Params, params) {
				return m
			}
		}
	}
	return nil
}
