package gobasic

import (
	"math"
	"strconv"
	"strings"
)

//
// The runtime value representation: a tagged union over Int, Float,
// String and Null.  Null is produced only for empty DATA items; for
// the convenience of the user it is simultaneously numeric and string,
// coercing to 0, 0.0 or "" as the context demands
//

type valueKind int

const (
	kindNull valueKind = iota
	kindInt
	kindFloat
	kindString
)

type value struct {
	kind valueKind
	i    int64
	f    float64
	s    string
}

func intValue(i int64) value {
	return value{kind: kindInt, i: i}
}

func floatValue(f float64) value {
	return value{kind: kindFloat, f: f}
}

func stringValue(s string) value {
	return value{kind: kindString, s: s}
}

func nullValue() value {
	return value{kind: kindNull}
}

func boolValue(b bool) value {

	// Comparisons yield the classic all-ones true, so NOT and the
	// bitwise connectives behave as boolean operators as well

	if b {
		return intValue(-1)
	}

	return intValue(0)
}

func (v value) isInt() bool {
	return v.kind == kindInt || v.kind == kindNull
}

func (v value) isFloat() bool {
	return v.kind == kindFloat || v.kind == kindNull
}

func (v value) isNumeric() bool {
	return v.kind == kindInt || v.kind == kindFloat || v.kind == kindNull
}

func (v value) isString() bool {
	return v.kind == kindString || v.kind == kindNull
}

func (v value) isNull() bool {
	return v.kind == kindNull
}

//
// Fallible conversions.  A failed string parse is a format error;
// asking a number for its string form is a type error.  Null converts
// to anything
//

func (v value) asInt() (int64, error) {

	switch v.kind {
	default:
		return 0, typeError(ETYPEMISMATCH)

	case kindNull:
		return 0, nil

	case kindInt:
		return v.i, nil

	case kindFloat:
		return int64(v.f), nil

	case kindString:
		i, err := strconv.ParseInt(strings.TrimSpace(v.s), 10, 64)
		if err != nil {
			return 0, formatError(EFORMAT + " " + strconv.Quote(v.s))
		}
		return i, nil
	}
}

func (v value) asFloat() (float64, error) {

	switch v.kind {
	default:
		return 0, typeError(ETYPEMISMATCH)

	case kindNull:
		return 0, nil

	case kindInt:
		return float64(v.i), nil

	case kindFloat:
		return v.f, nil

	case kindString:
		f, err := strconv.ParseFloat(strings.TrimSpace(v.s), 64)
		if err != nil {
			return 0, formatError(EFORMAT + " " + strconv.Quote(v.s))
		}
		return f, nil
	}
}

func (v value) asString() (string, error) {

	switch v.kind {
	default:
		return "", typeError(ETYPEMISMATCH)

	case kindNull:
		return "", nil

	case kindString:
		return v.s, nil
	}
}

//
// String renders a value in its plain form, with no print padding.
// Used by STR$, DATA listing and the tests
//

func (v value) String() string {

	switch v.kind {
	default:
		return ""

	case kindInt:
		return strconv.FormatInt(v.i, 10)

	case kindFloat:
		return strconv.FormatFloat(v.f, 'g', -1, 64)

	case kindString:
		return v.s
	}
}

//
// Arithmetic.  Int with Int stays Int, any other numeric pairing goes
// to Float.  '+' doubles as string concatenation when both sides are
// strings; a mixed string/numeric '+' is a type error
//

func addValues(a, b value) (value, error) {

	switch {
	case a.isInt() && b.isInt():
		x, _ := a.asInt()
		y, _ := b.asInt()
		return intValue(x + y), nil

	case a.isNumeric() && b.isNumeric():
		x, _ := a.asFloat()
		y, _ := b.asFloat()
		return floatValue(x + y), nil

	case a.isString() && b.isString():
		x, _ := a.asString()
		y, _ := b.asString()
		return stringValue(x + y), nil

	default:
		return value{}, typeError(ETYPEMISMATCH)
	}
}

func subtractValues(a, b value) (value, error) {

	switch {
	case a.isInt() && b.isInt():
		x, _ := a.asInt()
		y, _ := b.asInt()
		return intValue(x - y), nil

	case a.isNumeric() && b.isNumeric():
		x, _ := a.asFloat()
		y, _ := b.asFloat()
		return floatValue(x - y), nil

	default:
		return value{}, typeError(ETYPEMISMATCH)
	}
}

func multiplyValues(a, b value) (value, error) {

	switch {
	case a.isInt() && b.isInt():
		x, _ := a.asInt()
		y, _ := b.asInt()
		return intValue(x * y), nil

	case a.isNumeric() && b.isNumeric():
		x, _ := a.asFloat()
		y, _ := b.asFloat()
		return floatValue(x * y), nil

	default:
		return value{}, typeError(ETYPEMISMATCH)
	}
}

func divideValues(a, b value) (value, error) {

	switch {
	case a.isInt() && b.isInt():
		x, _ := a.asInt()
		y, _ := b.asInt()
		if y == 0 {
			return value{}, runtimeErrorf(EZERODIVIDE)
		}
		return intValue(x / y), nil

	case a.isNumeric() && b.isNumeric():
		x, _ := a.asFloat()
		y, _ := b.asFloat()
		if y == 0 {
			return value{}, runtimeErrorf(EZERODIVIDE)
		}
		return floatValue(x / y), nil

	default:
		return value{}, typeError(ETYPEMISMATCH)
	}
}

func modValues(a, b value) (value, error) {

	switch {
	case a.isInt() && b.isInt():
		x, _ := a.asInt()
		y, _ := b.asInt()
		if y == 0 {
			return value{}, runtimeErrorf(EZERODIVIDE)
		}
		return intValue(x % y), nil

	case a.isNumeric() && b.isNumeric():
		x, _ := a.asFloat()
		y, _ := b.asFloat()
		if y == 0 {
			return value{}, runtimeErrorf(EZERODIVIDE)
		}
		return floatValue(math.Mod(x, y)), nil

	default:
		return value{}, typeError(ETYPEMISMATCH)
	}
}

//
// Exponentiation always computes in double precision
//

func powerValues(a, b value) (value, error) {

	if !a.isNumeric() || !b.isNumeric() {
		return value{}, typeError(ETYPEMISMATCH)
	}

	x, _ := a.asFloat()
	y, _ := b.asFloat()

	return floatValue(math.Pow(x, y)), nil
}

func negateValue(a value) (value, error) {

	switch {
	case a.isInt():
		x, _ := a.asInt()
		return intValue(-x), nil

	case a.isNumeric():
		x, _ := a.asFloat()
		return floatValue(-x), nil

	default:
		return value{}, typeError(ETYPEMISMATCH)
	}
}

//
// The connectives make no distinction between logical and bitwise:
// both operands are coerced to integers and combined bit by bit.
// There is no short circuit, both sides always evaluate
//

func andValues(a, b value) (value, error) {

	x, err := a.asInt()
	if err != nil {
		return value{}, err
	}

	y, err := b.asInt()
	if err != nil {
		return value{}, err
	}

	return intValue(x & y), nil
}

func orValues(a, b value) (value, error) {

	x, err := a.asInt()
	if err != nil {
		return value{}, err
	}

	y, err := b.asInt()
	if err != nil {
		return value{}, err
	}

	return intValue(x | y), nil
}

func notValue(a value) (value, error) {

	x, err := a.asInt()
	if err != nil {
		return value{}, err
	}

	return intValue(^x), nil
}

//
// Relational comparisons require both operands numeric or both string;
// strings compare lexicographically.  The result is the comparison of
// a to b as -1, 0 or 1
//

func compareValues(a, b value) (int, error) {

	switch {
	case a.isNumeric() && b.isNumeric():
		x, _ := a.asFloat()
		y, _ := b.asFloat()
		switch {
		case x < y:
			return -1, nil
		case x > y:
			return 1, nil
		default:
			return 0, nil
		}

	case a.isString() && b.isString():
		x, _ := a.asString()
		y, _ := b.asString()
		return strings.Compare(x, y), nil

	default:
		return 0, typeError(ETYPEMISMATCH)
	}
}

//
// Truth for IF and WHILE: any nonzero numeric value
//

func (v value) isTrue() (bool, error) {

	f, err := v.asFloat()
	if err != nil {
		return false, err
	}

	return f != 0, nil
}

//
// coerceTo converts a value to the kind demanded by an assignment
// target, identified by the target's sigil
//

func coerceTo(kind tokenKind, v value) (value, error) {

	switch kind {
	default:
		return value{}, internalError("bad lvalue kind %d", kind)

	case tokIDInt:
		i, err := v.asInt()
		if err != nil {
			return value{}, err
		}
		return intValue(i), nil

	case tokIDFloat:
		f, err := v.asFloat()
		if err != nil {
			return value{}, err
		}
		return floatValue(f), nil

	case tokIDString:
		s, err := v.asString()
		if err != nil {
			return value{}, err
		}
		return stringValue(s), nil
	}
}
