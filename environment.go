package gobasic

import (
	"math"
)

//
// An environment is three independent name-to-value maps: one for
// scalars, one for arrays, and one for user defined functions.
// Lookups that miss delegate to the parent scope; writes always land
// in the local scope.  The only child scopes ever created are the
// per-call scopes for user function parameters
//

type environment struct {
	parent    *environment
	scalars   map[string]value
	arrays    map[string]*array
	functions map[string]*userFunction
}

//
// A user defined function is a single expression with named formals,
// bound by DEF FN
//

type userFunction struct {
	name    string
	formals []lvalueRef
	body    expression
}

func newEnvironment(folder string) *environment {

	env := &environment{
		scalars:   make(map[string]value),
		arrays:    make(map[string]*array),
		functions: make(map[string]*userFunction),
	}

	// Builtin variables

	env.set("pi", floatValue(math.Pi))
	env.set("folder$", stringValue(folder))

	return env
}

func newCallScope(parent *environment) *environment {

	return &environment{
		parent:    parent,
		scalars:   make(map[string]value),
		arrays:    make(map[string]*array),
		functions: make(map[string]*userFunction),
	}
}

func (env *environment) get(id string) (value, bool) {

	if v, ok := env.scalars[id]; ok {
		return v, true
	}

	if env.parent != nil {
		return env.parent.get(id)
	}

	return value{}, false
}

func (env *environment) set(id string, v value) {
	env.scalars[id] = v
}

func (env *environment) getArray(id string, indices []int64) (value, error) {

	if a, ok := env.arrays[id]; ok {
		return a.get(indices)
	}

	if env.parent != nil {
		return env.parent.getArray(id, indices)
	}

	return value{}, undefinedError(id)
}

func (env *environment) setArray(id string, indices []int64, v value) error {

	if a, ok := env.arrays[id]; ok {
		return a.set(indices, v)
	}

	if env.parent != nil {
		return env.parent.setArray(id, indices, v)
	}

	return undefinedError(id)
}

//
// makeArray declares an array with the given per-dimension inclusive
// bounds.  DIM A(2) gets you three elements; this is "OPTION BASE 0"
// with the bound itself still addressable
//

func (env *environment) makeArray(id string, kind tokenKind,
	dims []int64) error {

	if _, ok := env.arrays[id]; ok {
		return runtimeErrorf("%s %s", EDUPLICATEDIM, id)
	}

	a, err := newArray(kind, dims)
	if err != nil {
		return err
	}

	env.arrays[id] = a

	return nil
}

func (env *environment) getFunction(id string) (*userFunction, bool) {

	if fn, ok := env.functions[id]; ok {
		return fn, true
	}

	if env.parent != nil {
		return env.parent.getFunction(id)
	}

	return nil, false
}

func (env *environment) setFunction(id string, fn *userFunction) {
	env.functions[id] = fn
}

//
// Dense N-dimensional array storage.  Elements hold the zero value of
// the element kind until assigned
//

type array struct {
	kind tokenKind
	dims []int64
	data []value
}

//
// Total element cap.  A DIM past it reports a subscript error rather
// than exhausting memory, and the running product below cannot
// overflow while every factor stays under the cap
//

const maxArrayElements = 1 << 24

func newArray(kind tokenKind, dims []int64) (*array, error) {

	size := int64(1)

	for _, d := range dims {
		if d < 0 || d >= maxArrayElements {
			return nil, subscriptError()
		}
		size *= d + 1
		if size > maxArrayElements {
			return nil, subscriptError()
		}
	}

	a := &array{kind: kind, dims: dims, data: make([]value, size)}

	var zero value

	switch kind {
	default:
		return nil, internalError("bad array kind %d", kind)

	case tokIDInt:
		zero = intValue(0)

	case tokIDFloat:
		zero = floatValue(0)

	case tokIDString:
		zero = stringValue("")
	}

	for i := range a.data {
		a.data[i] = zero
	}

	return a, nil
}

//
// offset flattens a subscript list, row-major.  Any index outside
// 0..bound, or a subscript count that does not match the declared
// dimensionality, is an error
//

func (a *array) offset(indices []int64) (int64, error) {

	if len(indices) != len(a.dims) {
		return 0, subscriptError()
	}

	off := int64(0)

	for i, idx := range indices {
		if idx < 0 || idx > a.dims[i] {
			return 0, subscriptError()
		}
		off = off*(a.dims[i]+1) + idx
	}

	return off, nil
}

func (a *array) get(indices []int64) (value, error) {

	off, err := a.offset(indices)
	if err != nil {
		return value{}, err
	}

	return a.data[off], nil
}

func (a *array) set(indices []int64, v value) error {

	off, err := a.offset(indices)
	if err != nil {
		return err
	}

	cv, err := coerceTo(a.kind, v)
	if err != nil {
		return err
	}

	a.data[off] = cv

	return nil
}
