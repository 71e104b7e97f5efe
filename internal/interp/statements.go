package interp

import (
	"github.com/bloch-lang/bloch/internal/ast"
	"github.com/bloch-lang/bloch/internal/value"
)

type signalKind int

const (
	sigNone signalKind = iota
	sigReturn
)

type signal struct {
	kind signalKind
	val  value.Value
}

// execBlock runs body in a fresh child scope of parent, popping that
// scope (running destructors/tracked recordings for anything it owns)
// whether body completes normally, returns, or errors (spec §4.5.1:
// "scope entry and exit are paired... even when an evaluation aborts by
// error").
func (it *Interp) execBlock(body *ast.BlockStmt, parent *env) (signal, error) {
	sc := newEnv(parent)
	var sig signal
	var err error
	for _, s := range body.Stmts {
		sig, err = it.exec(s, sc)
		if err != nil || sig.kind != sigNone {
			break
		}
	}
	if popErr := it.popScope(sc, body.Position); err == nil {
		err = popErr
	}
	return sig, err
}

func (it *Interp) exec(s ast.Stmt, e *env) (signal, error) {
	switch st := s.(type) {
	case *ast.VarDecl:
		return signal{}, it.execVarDecl(st, e)
	case *ast.BlockStmt:
		return it.execBlock(st, e)
	case *ast.ExprStmt:
		_, err := it.eval(st.Expr, e)
		return signal{}, err
	case *ast.ReturnStmt:
		if st.Value == nil {
			return signal{kind: sigReturn}, nil
		}
		v, err := it.eval(st.Value, e)
		if err != nil {
			return signal{}, err
		}
		return signal{kind: sigReturn, val: v}, nil
	case *ast.IfStmt:
		c, err := it.eval(st.Cond, e)
		if err != nil {
			return signal{}, err
		}
		if bool(c.(value.Bool)) {
			return it.exec(st.Then, e)
		}
		if st.Else != nil {
			return it.exec(st.Else, e)
		}
		return signal{}, nil
	case *ast.WhileStmt:
		for {
			c, err := it.eval(st.Cond, e)
			if err != nil {
				return signal{}, err
			}
			if !bool(c.(value.Bool)) {
				return signal{}, nil
			}
			sig, err := it.exec(st.Body, e)
			if err != nil || sig.kind != sigNone {
				return sig, err
			}
		}
	case *ast.ForStmt:
		sc := newEnv(e)
		if st.Init != nil {
			if _, err := it.exec(st.Init, sc); err != nil {
				it.popScope(sc, st.Position)
				return signal{}, err
			}
		}
		for {
			if st.Cond != nil {
				c, err := it.eval(st.Cond, sc)
				if err != nil {
					it.popScope(sc, st.Position)
					return signal{}, err
				}
				if !bool(c.(value.Bool)) {
					break
				}
			}
			sig, err := it.exec(st.Body, sc)
			if err != nil || sig.kind != sigNone {
				popErr := it.popScope(sc, st.Position)
				if err == nil {
					err = popErr
				}
				return sig, err
			}
			if st.Post != nil {
				if _, err := it.exec(st.Post, sc); err != nil {
					it.popScope(sc, st.Position)
					return signal{}, err
				}
			}
		}
		return signal{}, it.popScope(sc, st.Position)
	case *ast.EchoStmt:
		v, err := it.eval(st.Value, e)
		if err != nil {
			return signal{}, err
		}
		it.echo(value.Echo(v))
		return signal{}, nil
	case *ast.ResetStmt:
		return signal{}, it.doReset(st.Target, e, st.Position)
	case *ast.MeasureStmt:
		_, err := it.doMeasure(st.Target, e, st.Position)
		return signal{}, err
	case *ast.DestroyStmt:
		return signal{}, it.execDestroy(st, e)
	case *ast.AssignStmt:
		v, err := it.eval(st.Value, e)
		if err != nil {
			return signal{}, err
		}
		return signal{}, it.assignTo(st.Target, v, e, st.Position)
	case *ast.TernaryStmt:
		c, err := it.eval(st.Cond, e)
		if err != nil {
			return signal{}, err
		}
		if bool(c.(value.Bool)) {
			return it.exec(st.Then, e)
		}
		if st.Else != nil {
			return it.exec(st.Else, e)
		}
		return signal{}, nil
	}
	return signal{}, runtimeErr(s.Pos(), "internal: unhandled statement kind")
}

// execVarDecl declares a local variable. A qubit (or qubit array)
// declaration with no initialiser allocates fresh simulator slot(s)
// rather than using the context-free zero value (spec §4.5.5:
// "declaring a qubit allocates a simulator slot").
func (it *Interp) execVarDecl(d *ast.VarDecl, e *env) error {
	tracked := false
	for _, a := range d.Annotations {
		if a.Name == "tracked" {
			tracked = true
		}
	}

	var v value.Value
	if d.Init != nil {
		val, err := it.eval(d.Init, e)
		if err != nil {
			return err
		}
		v = val
	} else {
		v = it.allocDeclZero(d.Type)
	}
	// A fresh `new` result already holds the reference instantiate
	// retained for it; the binding adopts that reference.
	if _, fresh := d.Init.(*ast.NewExpr); !fresh {
		it.retainValue(v)
	}
	e.declareTyped(d.Name, v, d.Type, d.IsFinal, tracked)
	return nil
}

// allocDeclZero is zeroValue plus qubit-slot allocation, used for
// uninitialised local/parameter declarations.
func (it *Interp) allocDeclZero(t ast.Type) value.Value {
	switch x := t.(type) {
	case *ast.PrimitiveType:
		if x.Name == "qubit" {
			return value.Qubit{Index: it.sim.AllocateQubit()}
		}
	case *ast.ArrayType:
		if p, ok := x.Elem.(*ast.PrimitiveType); ok && p.Name == "qubit" {
			n := x.ResolvedSize
			elems := make([]value.Value, n)
			for i := range elems {
				elems[i] = value.Qubit{Index: it.sim.AllocateQubit()}
			}
			return &value.Array{Elem: value.QubitKind, Elements: elems}
		}
	}
	return it.zeroValue(t)
}

func (it *Interp) execDestroy(d *ast.DestroyStmt, e *env) error {
	v, err := it.eval(d.Target, e)
	if err != nil {
		return err
	}
	ref, ok := v.(value.ObjectRef)
	if !ok {
		return runtimeErr(d.Position, "destroy requires a class reference or null")
	}
	if ref.Null {
		return nil
	}
	if _, ok := it.heap.Get(ref.ID); !ok {
		return runtimeErr(d.Position, "destroy on an already-destroyed object")
	}
	return it.destroyObject(ref.ID, d.Position)
}
