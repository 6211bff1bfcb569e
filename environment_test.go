package gobasic

import (
	"math"
	"testing"
)

func TestEnvironmentSeeds(t *testing.T) {

	env := newEnvironment("games")

	pi, ok := env.get("pi")
	if !ok || pi != floatValue(math.Pi) {
		t.Errorf("pi = %v, %v", pi, ok)
	}

	folder, ok := env.get("folder$")
	if !ok || folder != stringValue("games") {
		t.Errorf("folder$ = %v, %v", folder, ok)
	}
}

func TestCallScopeDelegation(t *testing.T) {

	parent := newEnvironment("p")
	parent.set("x", intValue(1))

	scope := newCallScope(parent)

	if v, ok := scope.get("x"); !ok || v != intValue(1) {
		t.Errorf("scope.get(x) = %v, %v; want parent value", v, ok)
	}

	scope.set("x", intValue(2))

	if v, _ := scope.get("x"); v != intValue(2) {
		t.Error("local write not visible locally")
	}

	if v, _ := parent.get("x"); v != intValue(1) {
		t.Error("local write leaked to parent")
	}
}

func TestArrayLifecycle(t *testing.T) {

	env := newEnvironment("p")

	if err := env.makeArray("a", tokIDInt, []int64{2, 3}); err != nil {
		t.Fatal(err)
	}

	// Inclusive bounds: index 2 and 3 are addressable

	if err := env.setArray("a", []int64{2, 3}, intValue(7)); err != nil {
		t.Fatal(err)
	}

	v, err := env.getArray("a", []int64{2, 3})
	if err != nil || v != intValue(7) {
		t.Errorf("a(2,3) = %v (%v), want 7", v, err)
	}

	// Unset elements read as the element kind's zero

	v, err = env.getArray("a", []int64{0, 0})
	if err != nil || v != intValue(0) {
		t.Errorf("a(0,0) = %v (%v), want 0", v, err)
	}
}

func TestArrayErrors(t *testing.T) {

	env := newEnvironment("p")

	if _, err := env.getArray("missing", []int64{0}); err == nil {
		t.Error("undeclared array read: want error")
	}

	if err := env.makeArray("a", tokIDFloat, []int64{2}); err != nil {
		t.Fatal(err)
	}

	if err := env.makeArray("a", tokIDFloat, []int64{5}); err == nil {
		t.Error("redeclaring array: want error")
	}

	if _, err := env.getArray("a", []int64{3}); err == nil {
		t.Error("index past bound: want error")
	}

	if _, err := env.getArray("a", []int64{-1}); err == nil {
		t.Error("negative index: want error")
	}

	if _, err := env.getArray("a", []int64{0, 0}); err == nil {
		t.Error("wrong subscript count: want error")
	}
}

//
// Huge bounds report a subscript error instead of trying to allocate
//

func TestArraySizeBounded(t *testing.T) {

	env := newEnvironment("p")

	if err := env.makeArray("a", tokIDInt,
		[]int64{4000000000, 4000000000}); err == nil {
		t.Error("oversized array: want error")
	}

	if err := env.makeArray("b", tokIDInt,
		[]int64{maxArrayElements}); err == nil {
		t.Error("dimension at the cap: want error")
	}
}

func TestArrayElementCoercion(t *testing.T) {

	env := newEnvironment("p")

	if err := env.makeArray("n%", tokIDInt, []int64{1}); err != nil {
		t.Fatal(err)
	}

	if err := env.setArray("n%", []int64{0}, floatValue(2.9)); err != nil {
		t.Fatal(err)
	}

	v, _ := env.getArray("n%", []int64{0})
	if v != intValue(2) {
		t.Errorf("n%%(0) = %v, want truncated 2", v)
	}

	if err := env.setArray("n%", []int64{0},
		stringValue("oops")); err == nil {
		t.Error("storing junk string in int array: want error")
	}
}
