package gobasic

import (
	"strings"
)

//
// Expression trees.  One closed set of node variants per the grammar;
// evaluation is a single exhaustive type switch rather than per-node
// dispatch, so a missing case is a compile-time complaint from the
// default arm of the switch
//

type expression interface {
	exprNode()
}

type binaryOp int

const (
	opAdd binaryOp = iota
	opSubtract
	opMultiply
	opDivide
	opMod
	opPower
	opAnd
	opOr
	opEq
	opNe
	opLt
	opLe
	opGt
	opGe
)

type unaryOp int

const (
	opNegate unaryOp = iota
	opNot
)

type eLiteral struct {
	val value
}

type eBinary struct {
	op   binaryOp
	a, b expression
}

type eUnary struct {
	op unaryOp
	a  expression
}

type eParen struct {
	inner expression
}

//
// lvalueRef is a plain or subscripted variable reference, usable both
// as an expression and as an assignment target.  The kind comes from
// the trailing sigil.  subs is nil for a scalar
//

type lvalueRef struct {
	name string
	kind tokenKind
	subs []expression
}

type eCall struct {
	name string
	args []expression
}

type eFnCall struct {
	ref  lvalueRef
	args []expression
}

func (eLiteral) exprNode()  {}
func (eBinary) exprNode()   {}
func (eUnary) exprNode()    {}
func (eParen) exprNode()    {}
func (lvalueRef) exprNode() {}
func (eCall) exprNode()     {}
func (eFnCall) exprNode()   {}

//
// evalExpr evaluates an expression tree against an environment.  The
// session is threaded through for the state some builtins touch: the
// PRINT column for POS/TAB and the random number generator for RND
//

func (s *Session) evalExpr(e expression, env *environment) (value, error) {

	switch e := e.(type) {
	default:
		return value{}, internalError("unknown expression node %T", e)

	case eLiteral:
		return e.val, nil

	case eParen:
		return s.evalExpr(e.inner, env)

	case eUnary:
		v, err := s.evalExpr(e.a, env)
		if err != nil {
			return value{}, err
		}
		if e.op == opNegate {
			return negateValue(v)
		}
		return notValue(v)

	case eBinary:

		//
		// Both operands always evaluate; AND and OR do not short
		// circuit
		//

		a, err := s.evalExpr(e.a, env)
		if err != nil {
			return value{}, err
		}

		b, err := s.evalExpr(e.b, env)
		if err != nil {
			return value{}, err
		}

		switch e.op {
		default:
			return value{}, internalError("unknown binary op %d", e.op)

		case opAdd:
			return addValues(a, b)

		case opSubtract:
			return subtractValues(a, b)

		case opMultiply:
			return multiplyValues(a, b)

		case opDivide:
			return divideValues(a, b)

		case opMod:
			return modValues(a, b)

		case opPower:
			return powerValues(a, b)

		case opAnd:
			return andValues(a, b)

		case opOr:
			return orValues(a, b)

		case opEq, opNe, opLt, opLe, opGt, opGe:
			c, err := compareValues(a, b)
			if err != nil {
				return value{}, err
			}

			switch e.op {
			default:
				return boolValue(c == 0), nil
			case opNe:
				return boolValue(c != 0), nil
			case opLt:
				return boolValue(c < 0), nil
			case opLe:
				return boolValue(c <= 0), nil
			case opGt:
				return boolValue(c > 0), nil
			case opGe:
				return boolValue(c >= 0), nil
			}
		}

	case lvalueRef:
		return s.evalLValue(e, env)

	case eCall:
		return s.evalBuiltin(e, env)

	case eFnCall:
		return s.evalUserFunction(e, env)
	}
}

//
// evalNumeric and evalString evaluate and demand a kind
//

func (s *Session) evalNumeric(e expression, env *environment) (value, error) {

	v, err := s.evalExpr(e, env)
	if err != nil {
		return value{}, err
	}

	if !v.isNumeric() {
		return value{}, typeError(ETYPEMISMATCH)
	}

	return v, nil
}

func (s *Session) evalInt(e expression, env *environment) (int64, error) {

	v, err := s.evalNumeric(e, env)
	if err != nil {
		return 0, err
	}

	return v.asInt()
}

func (s *Session) evalString(e expression, env *environment) (string, error) {

	v, err := s.evalExpr(e, env)
	if err != nil {
		return "", err
	}

	if !v.isString() {
		return "", typeError(ETYPEMISMATCH)
	}

	return v.asString()
}

//
// An unset scalar reads as the zero value of its kind.  Arrays must be
// dimensioned before use
//

func (s *Session) evalLValue(ref lvalueRef, env *environment) (value, error) {

	if ref.subs == nil {
		if v, ok := env.get(ref.name); ok {
			return v, nil
		}
		return zeroFor(ref.kind), nil
	}

	indices, err := s.evalSubscripts(ref.subs, env)
	if err != nil {
		return value{}, err
	}

	return env.getArray(ref.name, indices)
}

//
// assign stores a value through an lvalue, coercing to the kind fixed
// by the target's sigil
//

func (s *Session) assign(ref lvalueRef, env *environment, v value) error {

	if ref.subs == nil {
		cv, err := coerceTo(ref.kind, v)
		if err != nil {
			return err
		}
		env.set(ref.name, cv)
		return nil
	}

	indices, err := s.evalSubscripts(ref.subs, env)
	if err != nil {
		return err
	}

	return env.setArray(ref.name, indices, v)
}

func (s *Session) evalSubscripts(subs []expression,
	env *environment) ([]int64, error) {

	indices := make([]int64, len(subs))

	for i, sub := range subs {
		idx, err := s.evalInt(sub, env)
		if err != nil {
			return nil, err
		}
		indices[i] = idx
	}

	return indices, nil
}

//
// User defined functions are a single expression over bound formals.
// A user function may not call another user function, and may not
// recurse: any fn call made while one is active is rejected
//

func (s *Session) evalUserFunction(e eFnCall, env *environment) (value, error) {

	fn, ok := env.getFunction(e.ref.name)
	if !ok {
		return value{}, undefinedError(e.ref.name)
	}

	if len(e.args) != len(fn.formals) {
		return value{}, typeError("wrong argument count for " + fn.name)
	}

	if s.fnActive {
		return value{}, runtimeErrorf(
			"user function call while one is active")
	}

	scope := newCallScope(env)

	for i, formal := range fn.formals {
		v, err := s.evalExpr(e.args[i], env)
		if err != nil {
			return value{}, err
		}

		cv, err := coerceTo(formal.kind, v)
		if err != nil {
			return value{}, err
		}

		scope.set(formal.name, cv)
	}

	s.fnActive = true
	v, err := s.evalExpr(fn.body, scope)
	s.fnActive = false

	if err != nil {
		return value{}, err
	}

	return coerceTo(e.ref.kind, v)
}

func zeroFor(kind tokenKind) value {

	switch kind {
	default:
		return floatValue(0)

	case tokIDInt:
		return intValue(0)

	case tokIDString:
		return stringValue("")
	}
}

//
// Renderers.  render(parse(x)) must re-parse to an equivalent tree,
// which is why eParen survives as its own node
//

func renderExpr(e expression) string {

	switch e := e.(type) {
	default:
		return ""

	case eLiteral:
		if e.val.kind == kindString {
			return "\"" + e.val.s + "\""
		}
		return e.val.String()

	case eParen:
		return "(" + renderExpr(e.inner) + ")"

	case eUnary:
		if e.op == opNegate {
			return "-" + renderExpr(e.a)
		}
		return "NOT " + renderExpr(e.a)

	case eBinary:
		return renderExpr(e.a) + " " + binaryOpString(e.op) + " " +
			renderExpr(e.b)

	case lvalueRef:
		return renderLValue(e)

	case eCall:
		if len(e.args) == 0 {
			return e.name
		}
		return e.name + "(" + renderExprList(e.args) + ")"

	case eFnCall:
		return e.ref.name + "(" + renderExprList(e.args) + ")"
	}
}

func renderLValue(ref lvalueRef) string {

	if ref.subs == nil {
		return ref.name
	}

	return ref.name + "(" + renderExprList(ref.subs) + ")"
}

func renderExprList(exps []expression) string {

	parts := make([]string, len(exps))

	for i, e := range exps {
		parts[i] = renderExpr(e)
	}

	return strings.Join(parts, ", ")
}

func binaryOpString(op binaryOp) string {

	switch op {
	default:
		return "?"

	case opAdd:
		return "+"

	case opSubtract:
		return "-"

	case opMultiply:
		return "*"

	case opDivide:
		return "/"

	case opMod:
		return "MOD"

	case opPower:
		return "^"

	case opAnd:
		return "AND"

	case opOr:
		return "OR"

	case opEq:
		return "="

	case opNe:
		return "<>"

	case opLt:
		return "<"

	case opLe:
		return "<="

	case opGt:
		return ">"

	case opGe:
		return ">="
	}
}
