package interp

import (
	"github.com/bloch-lang/bloch/internal/ast"
	"github.com/bloch-lang/bloch/internal/lexer"
	"github.com/bloch-lang/bloch/internal/semantic"
	"github.com/bloch-lang/bloch/internal/value"
)

func kindOfPrimitive(name string) value.Kind {
	switch name {
	case "int":
		return value.IntKind
	case "long":
		return value.LongKind
	case "float":
		return value.FloatKind
	case "boolean":
		return value.BoolKind
	case "bit":
		return value.BitKind
	case "char":
		return value.CharKind
	case "string":
		return value.StringKind
	case "qubit":
		return value.QubitKind
	}
	return value.IntKind
}

// zeroValue computes t's declared-type zero value (spec §4.5.2 step 1).
func (it *Interp) zeroValue(t ast.Type) value.Value {
	switch x := t.(type) {
	case *ast.PrimitiveType:
		return value.Zero(kindOfPrimitive(x.Name))
	case *ast.NamedType:
		return value.Null()
	case *ast.ArrayType:
		n := 0
		if x.Size != nil {
			n = x.ResolvedSize
		}
		elemKind, classRef := elemKindOf(x.Elem)
		elems := make([]value.Value, n)
		for i := range elems {
			elems[i] = it.zeroValue(x.Elem)
		}
		return &value.Array{Elem: elemKind, ClassRef: classRef, Elements: elems}
	}
	return value.Null()
}

func elemKindOf(t ast.Type) (value.Kind, string) {
	switch x := t.(type) {
	case *ast.PrimitiveType:
		return kindOfPrimitive(x.Name), ""
	case *ast.NamedType:
		return value.ObjectKind, x.Name
	}
	return value.IntKind, ""
}

// instantiate implements `new C(args)` (spec §4.5.2).
func (it *Interp) instantiate(info *semantic.ClassInfo, args []value.Value, pos lexer.Position) (value.ObjectRef, error) {
	obj := it.heap.Alloc(info.Decl.Name)
	it.ensureCollectorStarted()

	for c := info; c != nil; c = c.Base {
		for name, f := range c.Fields {
			if _, exists := obj.Fields[name]; !exists {
				obj.Fields[name] = it.zeroValue(f.Type)
			}
			if f.IsTracked {
				obj.Tracked = true
			}
		}
	}

	ref := value.ObjectRef{ID: obj.ID, Class: info.Decl.Name}
	it.heap.Retain(obj.ID)

	if err := it.runConstructorChain(info, ref, args, pos); err != nil {
		return ref, err
	}
	return ref, nil
}

// runConstructorChain selects and runs info's constructor, handling an
// explicit `super(...)` first statement, an implicit zero-argument base
// call, field declaration initialisers, and `= default` expansion
// (spec §4.5.2).
func (it *Interp) runConstructorChain(info *semantic.ClassInfo, ref value.ObjectRef, args []value.Value, pos lexer.Position) error {
	ctor := selectConstructor(info.Decl.Constructors, args)
	if ctor == nil {
		if len(info.Decl.Constructors) == 0 {
			if info.Base != nil {
				if err := it.runConstructorChain(info.Base, ref, nil, pos); err != nil {
					return err
				}
			}
			return it.initFieldsAndReturn(info, ref, pos)
		}
		return runtimeErr(pos, "no applicable constructor for class %q", info.Decl.Name)
	}

	e := newEnv(nil)
	e.this = ref
	e.thisClass = info.Decl.Name
	for i, p := range ctor.Params {
		e.declareTyped(p.Name, args[i], p.Type, false, false)
		it.retainValue(args[i])
	}

	if ctor.IsDefault {
		if err := it.expandDefaultConstructor(info, ctor, ref, e, pos); err != nil {
			return err
		}
	} else {
		stmts := ctor.Body.Stmts
		if len(stmts) > 0 {
			if superArgs, ok := asSuperCall(stmts[0]); ok {
				if info.Base == nil {
					return runtimeErr(pos, "super() called with no base class")
				}
				vals, err := it.evalArgs(superArgs, e)
				if err != nil {
					return err
				}
				if err := it.runConstructorChain(info.Base, ref, vals, pos); err != nil {
					return err
				}
				stmts = stmts[1:]
			} else if info.Base != nil {
				if zeroCtor := selectConstructor(info.Base.Decl.Constructors, nil); zeroCtor != nil {
					if err := it.runConstructorChain(info.Base, ref, nil, pos); err != nil {
						return err
					}
				}
			}
		} else if info.Base != nil {
			if zeroCtor := selectConstructor(info.Base.Decl.Constructors, nil); zeroCtor != nil {
				if err := it.runConstructorChain(info.Base, ref, nil, pos); err != nil {
					return err
				}
			}
		}

		if err := it.runFieldInits(info, ref, e); err != nil {
			return err
		}
		for _, s := range stmts {
			if _, err := it.exec(s, e); err != nil {
				return err
			}
		}
	}

	return it.popScope(e, pos)
}

func (it *Interp) initFieldsAndReturn(info *semantic.ClassInfo, ref value.ObjectRef, pos lexer.Position) error {
	e := newEnv(nil)
	e.this = ref
	e.thisClass = info.Decl.Name
	if err := it.runFieldInits(info, ref, e); err != nil {
		return err
	}
	return it.popScope(e, pos)
}

// runFieldInits runs info's own declaration initialisers, in source
// order, for fields not already meaningfully set (spec §4.5.2 step 3).
func (it *Interp) runFieldInits(info *semantic.ClassInfo, ref value.ObjectRef, e *env) error {
	obj, ok := it.heap.Get(ref.ID)
	if !ok {
		return nil
	}
	for _, f := range info.Decl.Fields {
		if f.Init == nil {
			continue
		}
		v, err := it.eval(f.Init, e)
		if err != nil {
			return err
		}
		it.retainValue(v)
		obj.Fields[f.Name] = v
	}
	return nil
}

// expandDefaultConstructor implements `= default` (spec §4.5.2's second
// paragraph): assign each field whose name and declared type match a
// parameter.
func (it *Interp) expandDefaultConstructor(info *semantic.ClassInfo, ctor *ast.ConstructorDecl, ref value.ObjectRef, e *env, pos lexer.Position) error {
	obj, ok := it.heap.Get(ref.ID)
	if !ok {
		return nil
	}
	for _, p := range ctor.Params {
		if f, ok := info.Fields[p.Name]; ok && typesMatch(f.Type, p.Type) {
			b, _ := e.lookup(p.Name)
			obj.Fields[p.Name] = b.val
		}
	}
	return it.runFieldInits(info, ref, e)
}

func typesMatch(a, b ast.Type) bool {
	ap, aok := a.(*ast.PrimitiveType)
	bp, bok := b.(*ast.PrimitiveType)
	if aok && bok {
		return ap.Name == bp.Name
	}
	an, aok2 := a.(*ast.NamedType)
	bn, bok2 := b.(*ast.NamedType)
	if aok2 && bok2 {
		return an.Name == bn.Name
	}
	return false
}

func asSuperCall(s ast.Stmt) ([]ast.Expr, bool) {
	es, ok := s.(*ast.ExprStmt)
	if !ok {
		return nil, false
	}
	call, ok := es.Expr.(*ast.CallExpr)
	if !ok {
		return nil, false
	}
	if _, ok := call.Callee.(*ast.SuperExpr); !ok {
		return nil, false
	}
	return call.Args, true
}

// selectConstructor picks the constructor whose arity matches len(args),
// preferring one whose parameter kinds match the arguments' runtime
// kinds when more than one arity-compatible candidate exists.
func selectConstructor(ctors []*ast.ConstructorDecl, args []value.Value) *ast.ConstructorDecl {
	var best *ast.ConstructorDecl
	for _, c := range ctors {
		if len(c.Params) != len(args) {
			continue
		}
		if best == nil {
			best = c
		}
		if paramsMatchArgs(c.Params, args) {
			return c
		}
	}
	return best
}

func paramsMatchArgs(params []*ast.Param, args []value.Value) bool {
	for i, p := range params {
		if !valueMatchesType(args[i], p.Type) {
			return false
		}
	}
	return true
}

func valueMatchesType(v value.Value, t ast.Type) bool {
	switch x := t.(type) {
	case *ast.PrimitiveType:
		return v.Kind() == kindOfPrimitive(x.Name)
	case *ast.NamedType:
		ref, ok := v.(value.ObjectRef)
		return ok && (ref.Null || ref.Class == x.Name)
	case *ast.ArrayType:
		_, ok := v.(*value.Array)
		return ok
	}
	return true
}

// selectMethod picks the overload of name declared on info matching
// args' arity, preferring a kind match. It does not walk info's base
// chain; callers that need inherited methods call it against the right
// ClassInfo in the chain.
func selectMethod(info *semantic.ClassInfo, name string, args []value.Value) *semantic.MethodInfo {
	var best *semantic.MethodInfo
	for _, m := range info.Methods[name] {
		if len(m.Decl.Params) != len(args) {
			continue
		}
		if best == nil {
			best = m
		}
		if paramsMatchArgs(m.Decl.Params, args) {
			return m
		}
	}
	return best
}

// resolveStaticMethod finds the method overload that a call against a
// value statically typed as className would resolve to (spec §4.5.3's
// "the call site resolved to" statically), searching className and its
// base chain.
func (it *Interp) resolveStaticMethod(className, methodName string, args []value.Value) *semantic.MethodInfo {
	for c := it.reg.Classes[className]; c != nil; c = c.Base {
		if m := selectMethod(c, methodName, args); m != nil {
			return m
		}
	}
	return nil
}

// dispatchMethod implements spec §4.5.3: if the statically-resolved
// method is virtual or an override, search for the nearest override
// starting at obj's runtime class and walking up to (and including) the
// original virtual declarer; a non-virtual method invokes exactly the
// statically resolved one.
func (it *Interp) dispatchMethod(runtimeClass string, resolved *semantic.MethodInfo, args []value.Value) *semantic.MethodInfo {
	if resolved == nil || (!resolved.Decl.IsVirtual && !resolved.Decl.IsOverride) {
		return resolved
	}

	declarer := it.originalVirtualDeclarer(resolved.DeclaringClass, resolved.Decl)

	var chain []*semantic.ClassInfo
	for c := it.reg.Classes[runtimeClass]; c != nil; c = c.Base {
		chain = append(chain, c)
		if c.Decl.Name == declarer {
			break
		}
	}
	for _, c := range chain {
		for _, m := range c.Methods[resolved.Decl.Name] {
			if m.Decl.IsOverride && sameParamTypesPublic(m.Decl.Params, resolved.Decl.Params) {
				return m
			}
		}
	}
	return resolved
}

func (it *Interp) originalVirtualDeclarer(startClass string, decl *ast.MethodDecl) string {
	declarer := startClass
	for c := it.reg.Classes[startClass]; c != nil; c = c.Base {
		for _, m := range c.Methods[decl.Name] {
			if m.Decl.IsVirtual && sameParamTypesPublic(m.Decl.Params, decl.Params) {
				declarer = c.Decl.Name
			}
		}
	}
	return declarer
}

// sameParamTypesPublic mirrors the unexported semantic.sameParamTypes
// comparison (package-private there), reimplemented here since the
// evaluator works over the same *ast.Param shape but lives in a
// different package.
func sameParamTypesPublic(a, b []*ast.Param) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !typeEqualsPublic(a[i].Type, b[i].Type) {
			return false
		}
	}
	return true
}

func typeEqualsPublic(a, b ast.Type) bool {
	switch x := a.(type) {
	case *ast.PrimitiveType:
		y, ok := b.(*ast.PrimitiveType)
		return ok && x.Name == y.Name
	case *ast.NamedType:
		y, ok := b.(*ast.NamedType)
		return ok && x.Name == y.Name
	case *ast.ArrayType:
		y, ok := b.(*ast.ArrayType)
		return ok && typeEqualsPublic(x.Elem, y.Elem)
	}
	return false
}

// callMethod evaluates obj.methodName(args) against the given static
// receiver class (spec §4.5.3).
func (it *Interp) callMethod(ref value.ObjectRef, staticClass, methodName string, args []value.Value, pos lexer.Position) (value.Value, error) {
	if ref.Null {
		return nil, runtimeErr(pos, "null member access: cannot call %q on null", methodName)
	}
	obj, ok := it.heap.Get(ref.ID)
	if !ok {
		return nil, runtimeErr(pos, "null member access: object has already been destroyed")
	}

	resolved := it.resolveStaticMethod(staticClass, methodName, args)
	if resolved == nil {
		return nil, runtimeErr(pos, "no applicable method %q for the given arguments", methodName)
	}
	target := it.dispatchMethod(obj.Class, resolved, args)

	e := newEnv(nil)
	e.this = ref
	e.thisClass = target.DeclaringClass
	for i, p := range target.Decl.Params {
		e.declareTyped(p.Name, args[i], p.Type, false, false)
		it.retainValue(args[i])
	}
	sig, err := it.execBlock(target.Decl.Body, e)
	if popErr := it.popScope(e, pos); err == nil {
		err = popErr
	}
	if err != nil {
		return nil, err
	}
	if sig.kind == sigReturn {
		return sig.val, nil
	}
	return nil, nil
}

// ensureStaticInit lazily zero-initialises className's static fields
// and then runs their declaration initialisers, in source order, the
// first time any of its static members is touched.
func (it *Interp) ensureStaticInit(className string) error {
	if it.staticsInit[className] {
		return nil
	}
	it.staticsInit[className] = true
	info, ok := it.reg.Classes[className]
	if !ok {
		return nil
	}
	fields := make(map[string]value.Value)
	it.statics[className] = fields
	e := newEnv(nil)
	e.thisClass = className
	for _, f := range info.Decl.Fields {
		if !f.IsStatic {
			continue
		}
		fields[f.Name] = it.zeroValue(f.Type)
		if f.Init != nil {
			v, err := it.eval(f.Init, e)
			if err != nil {
				return err
			}
			it.retainValue(v)
			fields[f.Name] = v
		}
	}
	return nil
}

func (it *Interp) getStaticField(className, fieldName string, pos lexer.Position) (value.Value, error) {
	if err := it.ensureStaticInit(className); err != nil {
		return nil, err
	}
	return it.statics[className][fieldName], nil
}

func (it *Interp) setStaticField(className, fieldName string, v value.Value, pos lexer.Position) error {
	if err := it.ensureStaticInit(className); err != nil {
		return err
	}
	old := it.statics[className][fieldName]
	it.statics[className][fieldName] = v
	it.retainValue(v)
	return it.releaseValue(old, pos)
}

// callStaticMethod evaluates ClassName.methodName(args) for a static
// method (no `this`).
func (it *Interp) callStaticMethod(className, methodName string, args []value.Value, pos lexer.Position) (value.Value, error) {
	info, ok := it.reg.Classes[className]
	if !ok {
		return nil, runtimeErr(pos, "unknown class %q", className)
	}
	m := selectMethod(info, methodName, args)
	if m == nil {
		return nil, runtimeErr(pos, "no applicable static method %q on %q", methodName, className)
	}
	e := newEnv(nil)
	e.thisClass = className
	for i, p := range m.Decl.Params {
		e.declareTyped(p.Name, args[i], p.Type, false, false)
		it.retainValue(args[i])
	}
	sig, err := it.execBlock(m.Decl.Body, e)
	if popErr := it.popScope(e, pos); err == nil {
		err = popErr
	}
	if err != nil {
		return nil, err
	}
	if sig.kind == sigReturn {
		return sig.val, nil
	}
	return nil, nil
}
