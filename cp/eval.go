// Package cp implements intra-procedural constant propagation: the
// three-point integer lattice's expression evaluator and a forward
// worklist solver over a single method's CFG.
package cp

import (
	"github.com/aclements/staticauditor/ir"
	"github.com/aclements/staticauditor/lattice"
)

// Evaluate computes the lattice value of e under fact in. Variable
// reads and integer literals are handled
// directly; binary operations on integer operands follow the
// divide/remainder-by-constant-zero and NAC-absorption rules; any
// other expression kind (object creation, casts, unaliased field or
// array access) falls through to NAC.
func Evaluate(e ir.Expr, in *lattice.CPFact) lattice.Value {
	switch e := e.(type) {
	case ir.VarRef:
		return in.Get(e.Var)
	case ir.IntLit:
		return lattice.Const(e.Value)
	case ir.BinExpr:
		return evalBin(e, in)
	default:
		return lattice.NAC
	}
}

func operand(e ir.Expr, in *lattice.CPFact) lattice.Value {
	switch e := e.(type) {
	case ir.VarRef:
		return in.Get(e.Var)
	case ir.IntLit:
		return lattice.Const(e.Value)
	default:
		return lattice.NAC
	}
}

func evalBin(e ir.BinExpr, in *lattice.CPFact) lattice.Value {
	x := operand(e.X, in)
	y := operand(e.Y, in)

	if e.Op == ir.OpDiv || e.Op == ir.OpRem {
		if c, ok := y.Int(); ok && c == 0 {
			// Constant-zero divisor: UNDEF regardless of the
			// dividend, even when the dividend is NAC.
			return lattice.Undef
		}
	}

	if x.IsNAC() || y.IsNAC() {
		return lattice.NAC
	}

	xc, xok := x.Int()
	yc, yok := y.Int()
	if xok && yok {
		return foldConst(e.Op, xc, yc)
	}

	// At least one operand is UNDEF and neither is NAC.
	return lattice.Undef
}

func foldConst(op ir.BinOp, x, y int32) lattice.Value {
	switch op {
	case ir.OpAdd:
		return lattice.Const(x + y)
	case ir.OpSub:
		return lattice.Const(x - y)
	case ir.OpMul:
		return lattice.Const(x * y)
	case ir.OpDiv:
		if y == 0 {
			return lattice.Undef
		}
		return lattice.Const(x / y)
	case ir.OpRem:
		if y == 0 {
			return lattice.Undef
		}
		return lattice.Const(x % y)
	case ir.OpEq:
		return boolConst(x == y)
	case ir.OpNe:
		return boolConst(x != y)
	case ir.OpLt:
		return boolConst(x < y)
	case ir.OpGt:
		return boolConst(x > y)
	case ir.OpLe:
		return boolConst(x <= y)
	case ir.OpGe:
		return boolConst(x >= y)
	case ir.OpShl:
		return lattice.Const(x << (uint32(y) & 31))
	case ir.OpShr:
		return lattice.Const(x >> (uint32(y) & 31))
	case ir.OpUshr:
		return lattice.Const(int32(uint32(x) >> (uint32(y) & 31)))
	case ir.OpOr:
		return lattice.Const(x | y)
	case ir.OpAnd:
		return lattice.Const(x & y)
	case ir.OpXor:
		return lattice.Const(x ^ y)
	}
	// Unknown operator family: treat like any other unrecognized
	// expression kind.
	return lattice.NAC
}

func boolConst(b bool) lattice.Value {
	if b {
		return lattice.Const(1)
	}
	return lattice.Const(0)
}
