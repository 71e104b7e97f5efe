package interp

import (
	"strconv"

	"github.com/bloch-lang/bloch/internal/ast"
	"github.com/bloch-lang/bloch/internal/lexer"
	"github.com/bloch-lang/bloch/internal/value"
)

// gateArity maps each quantum gate built-in to its arity; this mirrors
// semantic's type-checking table (unexported there, since it lives in a
// different package) and is the evaluator's dispatch table into the
// simulator (spec §4.6).
var gateArity = map[string]int{
	"h": 1, "x": 1, "y": 1, "z": 1,
	"rx": 2, "ry": 2, "rz": 2,
	"cx": 2,
}

func (it *Interp) eval(expr ast.Expr, e *env) (value.Value, error) {
	switch x := expr.(type) {
	case *ast.Literal:
		return evalLiteral(x)
	case *ast.NullLiteral:
		return value.Null(), nil
	case *ast.VarExpr:
		return it.evalVar(x, e)
	case *ast.ThisExpr:
		return e.this, nil
	case *ast.SuperExpr:
		return nil, runtimeErr(x.Position, "super is only valid as a constructor call target")
	case *ast.BinaryExpr:
		return it.evalBinary(x, e)
	case *ast.UnaryExpr:
		return it.evalUnary(x, e)
	case *ast.PostfixExpr:
		return it.evalPostfix(x, e)
	case *ast.CastExpr:
		return it.evalCast(x, e)
	case *ast.CallExpr:
		return it.evalCall(x, e)
	case *ast.IndexExpr:
		return it.evalIndex(x, e)
	case *ast.MemberExpr:
		return it.evalMember(x, e)
	case *ast.AssignExpr:
		v, err := it.eval(x.Value, e)
		if err != nil {
			return nil, err
		}
		if err := it.assignTo(x.Target, v, e, x.Position); err != nil {
			return nil, err
		}
		return v, nil
	case *ast.ArrayLiteral:
		return it.evalArrayLiteral(x, e)
	case *ast.ParenExpr:
		return it.eval(x.Inner, e)
	case *ast.MeasureExpr:
		return it.doMeasure(x.Target, e, x.Position)
	case *ast.NewExpr:
		return it.evalNew(x, e)
	case *ast.TernaryExpr:
		return it.evalTernary(x, e)
	}
	return nil, runtimeErr(expr.Pos(), "internal: unhandled expression kind")
}

func evalLiteral(l *ast.Literal) (value.Value, error) {
	switch l.Kind {
	case ast.IntLit:
		n, _ := strconv.ParseInt(l.Raw, 10, 64)
		return value.Int(n), nil
	case ast.LongLit:
		n, _ := strconv.ParseInt(l.Raw, 10, 64)
		return value.Long(n), nil
	case ast.FloatLit:
		f, _ := strconv.ParseFloat(l.Raw, 64)
		return value.Float(f), nil
	case ast.BitLit:
		if l.Raw == "1" {
			return value.Bit(1), nil
		}
		return value.Bit(0), nil
	case ast.BooleanLit:
		return value.Bool(l.Raw == "true"), nil
	case ast.CharLit:
		r := []rune(l.Raw)
		if len(r) == 0 {
			return value.Char(0), nil
		}
		return value.Char(r[0]), nil
	case ast.StringLit:
		return value.String(l.Raw), nil
	}
	return value.Null(), nil
}

func (it *Interp) evalVar(v *ast.VarExpr, e *env) (value.Value, error) {
	if b, ok := e.lookup(v.Name); ok {
		return b.val, nil
	}
	if this, ok := e.this.(value.ObjectRef); ok && !this.Null {
		if obj, ok := it.heap.Get(this.ID); ok {
			if fv, exists := obj.Fields[v.Name]; exists {
				return fv, nil
			}
		}
	}
	if e.thisClass != "" {
		if info, ok := it.reg.Classes[e.thisClass]; ok {
			if f, owner := info.FindField(v.Name); f != nil && f.IsStatic {
				return it.getStaticField(owner.Decl.Name, v.Name, v.Position)
			}
		}
	}
	return nil, runtimeErr(v.Position, "undefined variable %q", v.Name)
}

func (it *Interp) evalArgs(exprs []ast.Expr, e *env) ([]value.Value, error) {
	out := make([]value.Value, len(exprs))
	for i, a := range exprs {
		v, err := it.eval(a, e)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

func (it *Interp) evalArrayLiteral(a *ast.ArrayLiteral, e *env) (value.Value, error) {
	elems, err := it.evalArgs(a.Elements, e)
	if err != nil {
		return nil, err
	}
	kind, classRef := value.IntKind, ""
	if len(elems) > 0 {
		kind = elems[0].Kind()
		if ref, ok := elems[0].(value.ObjectRef); ok {
			classRef = ref.Class
		}
	}
	return &value.Array{Elem: kind, ClassRef: classRef, Elements: elems}, nil
}

func (it *Interp) evalNew(n *ast.NewExpr, e *env) (value.Value, error) {
	info, ok := it.reg.Classes[n.Type.Name]
	if !ok {
		return nil, runtimeErr(n.Position, "unknown class %q", n.Type.Name)
	}
	args, err := it.evalArgs(n.Args, e)
	if err != nil {
		return nil, err
	}
	return it.instantiate(info, args, n.Position)
}

func (it *Interp) evalTernary(t *ast.TernaryExpr, e *env) (value.Value, error) {
	c, err := it.eval(t.Cond, e)
	if err != nil {
		return nil, err
	}
	if bool(c.(value.Bool)) {
		return it.eval(t.Then, e)
	}
	return it.eval(t.Else, e)
}

func (it *Interp) evalIndex(ix *ast.IndexExpr, e *env) (value.Value, error) {
	arrV, err := it.eval(ix.Array, e)
	if err != nil {
		return nil, err
	}
	arr, ok := arrV.(*value.Array)
	if !ok {
		return nil, runtimeErr(ix.Position, "index target is not an array")
	}
	idxV, err := it.eval(ix.Index, e)
	if err != nil {
		return nil, err
	}
	idx, err := it.toInt(idxV, ix.Position)
	if err != nil {
		return nil, err
	}
	if idx < 0 {
		return nil, runtimeErr(ix.Position, "negative array index %d", idx)
	}
	if idx >= len(arr.Elements) {
		return nil, runtimeErr(ix.Position, "array index %d out of bounds (length %d)", idx, len(arr.Elements))
	}
	return arr.Elements[idx], nil
}

func (it *Interp) toInt(v value.Value, pos lexer.Position) (int, error) {
	switch x := v.(type) {
	case value.Int:
		return int(x), nil
	case value.Long:
		return int(x), nil
	case value.Bit:
		return int(x), nil
	case value.Float:
		return int(x), nil
	}
	return 0, runtimeErr(pos, "expected a numeric index")
}

func numericToFloat(v value.Value) float64 {
	switch x := v.(type) {
	case value.Int:
		return float64(x)
	case value.Long:
		return float64(x)
	case value.Float:
		return float64(x)
	}
	return 0
}

// classForVarExpr reports whether v names a declared class (a static
// member access receiver) rather than a variable/field.
func (it *Interp) classForVarExpr(v *ast.VarExpr, e *env) (string, bool) {
	if _, shadowed := e.lookup(v.Name); shadowed {
		return "", false
	}
	if _, ok := it.reg.Classes[v.Name]; ok {
		return v.Name, true
	}
	return "", false
}

func (it *Interp) evalMember(m *ast.MemberExpr, e *env) (value.Value, error) {
	if vx, ok := m.Object.(*ast.VarExpr); ok {
		if className, ok := it.classForVarExpr(vx, e); ok {
			return it.getStaticField(className, m.Name, m.Position)
		}
	}
	objV, err := it.eval(m.Object, e)
	if err != nil {
		return nil, err
	}
	ref, ok := objV.(value.ObjectRef)
	if !ok {
		return nil, runtimeErr(m.Position, "member access on a non-object value")
	}
	if ref.Null {
		return nil, runtimeErr(m.Position, "null member access: cannot read field %q", m.Name)
	}
	obj, ok := it.heap.Get(ref.ID)
	if !ok {
		return nil, runtimeErr(m.Position, "null member access: object has already been destroyed")
	}
	return obj.Fields[m.Name], nil
}

// staticTypeOf best-effort infers the declared class of expr, used to
// pick the statically-resolved method overload at a call site
// (spec §4.5.3). It is a pragmatic approximation: VarExpr/ThisExpr/
// field-typed MemberExpr chains resolve precisely; anything else falls
// back to the runtime class of the evaluated receiver, which the caller
// supplies when this returns false.
func (it *Interp) staticTypeOf(expr ast.Expr, e *env) (string, bool) {
	switch x := expr.(type) {
	case *ast.ThisExpr:
		return e.thisClass, e.thisClass != ""
	case *ast.VarExpr:
		if b, ok := e.lookup(x.Name); ok {
			if nt, ok := b.declTyp.(*ast.NamedType); ok {
				return nt.Name, true
			}
			return "", false
		}
		if e.thisClass != "" {
			if info, ok := it.reg.Classes[e.thisClass]; ok {
				if f, _ := info.FindField(x.Name); f != nil {
					if nt, ok := f.Type.(*ast.NamedType); ok {
						return nt.Name, true
					}
				}
			}
		}
		return "", false
	case *ast.MemberExpr:
		ownerClass, ok := it.staticTypeOf(x.Object, e)
		if !ok {
			return "", false
		}
		info, ok := it.reg.Classes[ownerClass]
		if !ok {
			return "", false
		}
		if f, _ := info.FindField(x.Name); f != nil {
			if nt, ok := f.Type.(*ast.NamedType); ok {
				return nt.Name, true
			}
		}
		return "", false
	case *ast.NewExpr:
		return x.Type.Name, true
	case *ast.ParenExpr:
		return it.staticTypeOf(x.Inner, e)
	}
	return "", false
}

func (it *Interp) evalCall(c *ast.CallExpr, e *env) (value.Value, error) {
	switch callee := c.Callee.(type) {
	case *ast.VarExpr:
		if arity, ok := gateArity[callee.Name]; ok && len(c.Args) == arity {
			if _, shadowed := e.lookup(callee.Name); !shadowed {
				return it.callGate(callee.Name, c.Args, e, c.Position)
			}
		}
		if fn, ok := it.functions[callee.Name]; ok {
			args, err := it.evalArgs(c.Args, e)
			if err != nil {
				return nil, err
			}
			return it.callFunction(fn, args)
		}
		if this, ok := e.this.(value.ObjectRef); ok && !this.Null {
			args, err := it.evalArgs(c.Args, e)
			if err != nil {
				return nil, err
			}
			return it.callMethod(this, e.thisClass, callee.Name, args, c.Position)
		}
		return nil, runtimeErr(c.Position, "undefined function %q", callee.Name)

	case *ast.MemberExpr:
		if vx, ok := callee.Object.(*ast.VarExpr); ok {
			if className, ok := it.classForVarExpr(vx, e); ok {
				args, err := it.evalArgs(c.Args, e)
				if err != nil {
					return nil, err
				}
				return it.callStaticMethod(className, callee.Name, args, c.Position)
			}
		}
		objV, err := it.eval(callee.Object, e)
		if err != nil {
			return nil, err
		}
		ref, ok := objV.(value.ObjectRef)
		if !ok {
			return nil, runtimeErr(c.Position, "method call target is not an object")
		}
		args, err := it.evalArgs(c.Args, e)
		if err != nil {
			return nil, err
		}
		staticClass, ok := it.staticTypeOf(callee.Object, e)
		if !ok {
			if ref.Null {
				return nil, runtimeErr(c.Position, "null member access: cannot call %q on null", callee.Name)
			}
			staticClass = ref.Class
		}
		return it.callMethod(ref, staticClass, callee.Name, args, c.Position)
	}
	return nil, runtimeErr(c.Position, "call target is not callable")
}

func (it *Interp) callGate(name string, argExprs []ast.Expr, e *env, pos lexer.Position) (value.Value, error) {
	args, err := it.evalArgs(argExprs, e)
	if err != nil {
		return nil, err
	}
	q0, ok := args[0].(value.Qubit)
	if !ok {
		return nil, runtimeErr(pos, "gate %q requires a qubit argument", name)
	}
	if it.sim.Measured(q0.Index) {
		return nil, runtimeErr(pos, "gate %q: qubit has been measured without an intervening reset", name)
	}
	switch name {
	case "h":
		it.sim.H(q0.Index)
	case "x":
		it.sim.X(q0.Index)
	case "y":
		it.sim.Y(q0.Index)
	case "z":
		it.sim.Z(q0.Index)
	case "rx":
		it.sim.RX(q0.Index, numericToFloat(args[1]))
	case "ry":
		it.sim.RY(q0.Index, numericToFloat(args[1]))
	case "rz":
		it.sim.RZ(q0.Index, numericToFloat(args[1]))
	case "cx":
		q1, ok := args[1].(value.Qubit)
		if !ok {
			return nil, runtimeErr(pos, "gate %q requires two qubit arguments", name)
		}
		if it.sim.Measured(q1.Index) {
			return nil, runtimeErr(pos, "gate %q: qubit has been measured without an intervening reset", name)
		}
		it.sim.CX(q0.Index, q1.Index)
	}
	return nil, nil
}

func (it *Interp) doMeasure(target ast.Expr, e *env, pos lexer.Position) (value.Value, error) {
	v, err := it.eval(target, e)
	if err != nil {
		return nil, err
	}
	switch x := v.(type) {
	case value.Qubit:
		return it.measureQubit(x.Index, pos)
	case *value.Array:
		bits := make([]value.Value, len(x.Elements))
		for i, el := range x.Elements {
			q, ok := el.(value.Qubit)
			if !ok {
				return nil, runtimeErr(pos, "measure requires a qubit or qubit array")
			}
			b, err := it.measureQubit(q.Index, pos)
			if err != nil {
				return nil, err
			}
			bits[i] = b
		}
		return &value.Array{Elem: value.BitKind, Elements: bits}, nil
	}
	return nil, runtimeErr(pos, "measure requires a qubit or qubit array")
}

func (it *Interp) measureQubit(idx int, pos lexer.Position) (value.Value, error) {
	if it.sim.Measured(idx) {
		return nil, runtimeErr(pos, "cannot measure qubit: already measured since the last reset")
	}
	bit := it.sim.Measure(idx)
	it.qubitBits[idx] = bit
	return value.Bit(bit), nil
}

func (it *Interp) doReset(target ast.Expr, e *env, pos lexer.Position) error {
	v, err := it.eval(target, e)
	if err != nil {
		return err
	}
	switch x := v.(type) {
	case value.Qubit:
		it.sim.Reset(x.Index)
		delete(it.qubitBits, x.Index)
		return nil
	case *value.Array:
		for _, el := range x.Elements {
			q, ok := el.(value.Qubit)
			if !ok {
				return runtimeErr(pos, "reset requires a qubit or qubit array")
			}
			it.sim.Reset(q.Index)
			delete(it.qubitBits, q.Index)
		}
		return nil
	}
	return runtimeErr(pos, "reset requires a qubit or qubit array")
}

func (it *Interp) evalCast(c *ast.CastExpr, e *env) (value.Value, error) {
	v, err := it.eval(c.Operand, e)
	if err != nil {
		return nil, err
	}
	prim, ok := c.Target.(*ast.PrimitiveType)
	if !ok {
		return nil, runtimeErr(c.Position, "invalid cast target")
	}
	f := numericToFloat(v)
	switch prim.Name {
	case "int":
		return value.Int(int64(f)), nil
	case "long":
		return value.Long(int64(f)), nil
	case "float":
		return value.Float(f), nil
	case "bit":
		if int64(f) != 0 {
			return value.Bit(1), nil
		}
		return value.Bit(0), nil
	}
	return nil, runtimeErr(c.Position, "cannot cast to %s", prim.Name)
}

func (it *Interp) evalUnary(u *ast.UnaryExpr, e *env) (value.Value, error) {
	v, err := it.eval(u.Operand, e)
	if err != nil {
		return nil, err
	}
	switch u.Op {
	case "-":
		switch x := v.(type) {
		case value.Int:
			return -x, nil
		case value.Long:
			return -x, nil
		case value.Float:
			return -x, nil
		}
	case "!":
		if b, ok := v.(value.Bool); ok {
			return !b, nil
		}
	case "~":
		switch x := v.(type) {
		case value.Bit:
			return value.Bit(1 - x), nil
		case *value.Array:
			out := make([]value.Value, len(x.Elements))
			for i, el := range x.Elements {
				b, _ := el.(value.Bit)
				out[i] = value.Bit(1 - b)
			}
			return &value.Array{Elem: value.BitKind, Elements: out}, nil
		}
	}
	return nil, runtimeErr(u.Position, "invalid operand for unary %q", u.Op)
}

func (it *Interp) evalPostfix(p *ast.PostfixExpr, e *env) (value.Value, error) {
	old, err := it.eval(p.Operand, e)
	if err != nil {
		return nil, err
	}
	var next value.Value
	delta := int64(1)
	if p.Op == "--" || p.Op == "pre--" {
		delta = -1
	}
	switch x := old.(type) {
	case value.Int:
		next = value.Int(int64(x) + delta)
	case value.Long:
		next = value.Long(int64(x) + delta)
	case value.Float:
		next = value.Float(float64(x) + float64(delta))
	default:
		return nil, runtimeErr(p.Position, "invalid operand for postfix %q", p.Op)
	}
	if err := it.assignTo(p.Operand, next, e, p.Position); err != nil {
		return nil, err
	}
	if p.Op == "pre++" || p.Op == "pre--" {
		return next, nil
	}
	return old, nil
}

// assignTo writes v into the lvalue expr target.
func (it *Interp) assignTo(target ast.Expr, v value.Value, e *env, pos lexer.Position) error {
	switch t := target.(type) {
	case *ast.VarExpr:
		if b, ok := e.lookup(t.Name); ok {
			old := b.val
			b.val = v
			it.retainValue(v)
			return it.releaseValue(old, pos)
		}
		if this, ok := e.this.(value.ObjectRef); ok && !this.Null {
			if obj, ok := it.heap.Get(this.ID); ok {
				if _, exists := obj.Fields[t.Name]; exists {
					old := obj.Fields[t.Name]
					obj.Fields[t.Name] = v
					it.retainValue(v)
					return it.releaseValue(old, pos)
				}
			}
		}
		if e.thisClass != "" {
			if info, ok := it.reg.Classes[e.thisClass]; ok {
				if f, owner := info.FindField(t.Name); f != nil && f.IsStatic {
					return it.setStaticField(owner.Decl.Name, t.Name, v, pos)
				}
			}
		}
		return runtimeErr(pos, "undefined variable %q", t.Name)

	case *ast.MemberExpr:
		if vx, ok := t.Object.(*ast.VarExpr); ok {
			if className, ok := it.classForVarExpr(vx, e); ok {
				return it.setStaticField(className, t.Name, v, pos)
			}
		}
		objV, err := it.eval(t.Object, e)
		if err != nil {
			return err
		}
		ref, ok := objV.(value.ObjectRef)
		if !ok || ref.Null {
			return runtimeErr(pos, "null member access: cannot assign field %q", t.Name)
		}
		obj, ok := it.heap.Get(ref.ID)
		if !ok {
			return runtimeErr(pos, "null member access: object has already been destroyed")
		}
		old := obj.Fields[t.Name]
		obj.Fields[t.Name] = v
		it.retainValue(v)
		return it.releaseValue(old, pos)

	case *ast.IndexExpr:
		arrV, err := it.eval(t.Array, e)
		if err != nil {
			return err
		}
		arr, ok := arrV.(*value.Array)
		if !ok {
			return runtimeErr(pos, "index target is not an array")
		}
		idxV, err := it.eval(t.Index, e)
		if err != nil {
			return err
		}
		idx, err := it.toInt(idxV, pos)
		if err != nil {
			return err
		}
		if idx < 0 {
			return runtimeErr(pos, "negative array index %d", idx)
		}
		if idx >= len(arr.Elements) {
			return runtimeErr(pos, "array index %d out of bounds (length %d)", idx, len(arr.Elements))
		}
		old := arr.Elements[idx]
		arr.Elements[idx] = v
		it.retainValue(v)
		return it.releaseValue(old, pos)
	}
	return runtimeErr(pos, "invalid assignment target")
}

func (it *Interp) evalBinary(b *ast.BinaryExpr, e *env) (value.Value, error) {
	if b.Op == "&&" {
		l, err := it.eval(b.Left, e)
		if err != nil {
			return nil, err
		}
		if !bool(l.(value.Bool)) {
			return value.Bool(false), nil
		}
		r, err := it.eval(b.Right, e)
		if err != nil {
			return nil, err
		}
		return r, nil
	}
	if b.Op == "||" {
		l, err := it.eval(b.Left, e)
		if err != nil {
			return nil, err
		}
		if bool(l.(value.Bool)) {
			return value.Bool(true), nil
		}
		r, err := it.eval(b.Right, e)
		if err != nil {
			return nil, err
		}
		return r, nil
	}

	l, err := it.eval(b.Left, e)
	if err != nil {
		return nil, err
	}
	r, err := it.eval(b.Right, e)
	if err != nil {
		return nil, err
	}

	if b.Op == "+" {
		if ls, ok := l.(value.String); ok {
			return ls + value.String(value.Echo(r)), nil
		}
		if rs, ok := r.(value.String); ok {
			return value.String(value.Echo(l)) + rs, nil
		}
	}

	switch b.Op {
	case "==":
		return value.Bool(valuesEqual(l, r)), nil
	case "!=":
		return value.Bool(!valuesEqual(l, r)), nil
	case "&", "|", "^":
		return evalBitwise(b.Op, l, r), nil
	}

	if _, lf := l.(value.Float); lf {
		return evalFloatOp(b.Op, float64From(l), float64From(r), b.Position)
	}
	if _, rf := r.(value.Float); rf {
		return evalFloatOp(b.Op, float64From(l), float64From(r), b.Position)
	}
	if _, ll := l.(value.Long); ll {
		return evalIntOp(b.Op, int64From(l), int64From(r), true, b.Position)
	}
	if _, rl := r.(value.Long); rl {
		return evalIntOp(b.Op, int64From(l), int64From(r), true, b.Position)
	}
	return evalIntOp(b.Op, int64From(l), int64From(r), false, b.Position)
}

func float64From(v value.Value) float64 { return numericToFloat(v) }
func int64From(v value.Value) int64 {
	switch x := v.(type) {
	case value.Int:
		return int64(x)
	case value.Long:
		return int64(x)
	case value.Bit:
		return int64(x)
	}
	return 0
}

func evalBitwise(op string, l, r value.Value) value.Value {
	lb, lok := l.(value.Bit)
	rb, rok := r.(value.Bit)
	if lok && rok {
		switch op {
		case "&":
			return value.Bit(lb & rb)
		case "|":
			return value.Bit(lb | rb)
		case "^":
			return value.Bit(lb ^ rb)
		}
	}
	la, laok := l.(*value.Array)
	ra, raok := r.(*value.Array)
	if laok && raok {
		n := len(la.Elements)
		out := make([]value.Value, n)
		for i := 0; i < n; i++ {
			out[i] = evalBitwise(op, la.Elements[i], ra.Elements[i])
		}
		return &value.Array{Elem: value.BitKind, Elements: out}
	}
	return value.Bit(0)
}

func evalFloatOp(op string, l, r float64, pos lexer.Position) (value.Value, error) {
	switch op {
	case "+":
		return value.Float(l + r), nil
	case "-":
		return value.Float(l - r), nil
	case "*":
		return value.Float(l * r), nil
	case "/":
		if r == 0 {
			return nil, runtimeErr(pos, "division by zero")
		}
		return value.Float(l / r), nil
	case "<":
		return value.Bool(l < r), nil
	case ">":
		return value.Bool(l > r), nil
	case "<=":
		return value.Bool(l <= r), nil
	case ">=":
		return value.Bool(l >= r), nil
	}
	return nil, runtimeErr(pos, "invalid operator %q", op)
}

func evalIntOp(op string, l, r int64, long bool, pos lexer.Position) (value.Value, error) {
	wrap := func(n int64) value.Value {
		if long {
			return value.Long(n)
		}
		return value.Int(n)
	}
	switch op {
	case "+":
		return wrap(l + r), nil
	case "-":
		return wrap(l - r), nil
	case "*":
		return wrap(l * r), nil
	case "/":
		if r == 0 {
			return nil, runtimeErr(pos, "division by zero")
		}
		return wrap(l / r), nil
	case "%":
		if r == 0 {
			return nil, runtimeErr(pos, "modulo by zero")
		}
		return wrap(l % r), nil
	case "<":
		return value.Bool(l < r), nil
	case ">":
		return value.Bool(l > r), nil
	case "<=":
		return value.Bool(l <= r), nil
	case ">=":
		return value.Bool(l >= r), nil
	}
	return nil, runtimeErr(pos, "invalid operator %q", op)
}

func valuesEqual(l, r value.Value) bool {
	if lr, ok := l.(value.ObjectRef); ok {
		if lr.Null {
			if rr, ok := r.(value.ObjectRef); ok {
				return rr.Null
			}
			_, isNull := r.(value.ObjectRef)
			return isNull
		}
		if rr, ok := r.(value.ObjectRef); ok {
			return lr.ID == rr.ID
		}
		return false
	}
	if _, ok := r.(value.ObjectRef); ok {
		return valuesEqual(r, l)
	}
	if ls, ok := l.(value.String); ok {
		rs, ok := r.(value.String)
		return ok && ls == rs
	}
	return numericEqual(l, r)
}

func numericEqual(l, r value.Value) bool {
	switch l.(type) {
	case value.Bool:
		lb, _ := l.(value.Bool)
		rb, ok := r.(value.Bool)
		return ok && lb == rb
	case value.Bit:
		return int64From(l) == int64From(r)
	}
	if lf, ok := l.(value.Float); ok {
		return float64(lf) == numericToFloat(r)
	}
	if rf, ok := r.(value.Float); ok {
		return numericToFloat(l) == float64(rf)
	}
	return int64From(l) == int64From(r)
}
