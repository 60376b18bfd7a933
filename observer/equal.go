package observer

import (
	"math"
	"reflect"
)

// StrictEqual compares primitives by value (numbers across numeric types)
// and structures, maps, slices and pointers by identity. It never panics on
// uncomparable values; functions are never equal.
func StrictEqual(a, b any) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	if na, ok := numberOf(a); ok {
		nb, ok := numberOf(b)
		return ok && na.equal(nb)
	}

	va, vb := reflect.ValueOf(a), reflect.ValueOf(b)
	if va.Type() != vb.Type() {
		return false
	}
	switch va.Kind() {
	case reflect.Map, reflect.Pointer, reflect.Chan, reflect.UnsafePointer:
		return va.Pointer() == vb.Pointer()
	case reflect.Slice:
		return va.Pointer() == vb.Pointer() && va.Len() == vb.Len()
	case reflect.Func:
		return false
	}
	if va.Comparable() && vb.Comparable() {
		return va.Equal(vb)
	}
	return false
}

type numKind uint8

const (
	signedNum numKind = iota
	unsignedNum
	floatNum
)

// number holds a numeric value without loss: integers never go through
// float64.
type number struct {
	kind numKind
	i    int64
	u    uint64
	f    float64
}

func numberOf(v any) (number, bool) {
	switch n := v.(type) {
	case int:
		return number{kind: signedNum, i: int64(n)}, true
	case int8:
		return number{kind: signedNum, i: int64(n)}, true
	case int16:
		return number{kind: signedNum, i: int64(n)}, true
	case int32:
		return number{kind: signedNum, i: int64(n)}, true
	case int64:
		return number{kind: signedNum, i: n}, true
	case uint:
		return number{kind: unsignedNum, u: uint64(n)}, true
	case uint8:
		return number{kind: unsignedNum, u: uint64(n)}, true
	case uint16:
		return number{kind: unsignedNum, u: uint64(n)}, true
	case uint32:
		return number{kind: unsignedNum, u: uint64(n)}, true
	case uint64:
		return number{kind: unsignedNum, u: n}, true
	case float32:
		return number{kind: floatNum, f: float64(n)}, true
	case float64:
		return number{kind: floatNum, f: n}, true
	}
	return number{}, false
}

func (a number) equal(b number) bool {
	if a.kind > b.kind {
		a, b = b, a
	}
	switch {
	case a.kind == signedNum && b.kind == signedNum:
		return a.i == b.i
	case a.kind == unsignedNum && b.kind == unsignedNum:
		return a.u == b.u
	case a.kind == signedNum && b.kind == unsignedNum:
		return a.i >= 0 && uint64(a.i) == b.u
	case a.kind == floatNum:
		return a.f == b.f
	case a.kind == signedNum:
		return integral(b.f, -(1<<63), 1<<63) && int64(b.f) == a.i
	default:
		return integral(b.f, 0, 1<<64) && uint64(b.f) == a.u
	}
}

// integral reports whether f is a whole number in [lo, hi).
func integral(f, lo, hi float64) bool {
	return f == math.Trunc(f) && f >= lo && f < hi
}

func isNaN(v any) bool {
	n, ok := numberOf(v)
	return ok && n.kind == floatNum && math.IsNaN(n.f)
}

// IsStructure reports whether v is a reference structure whose contents can
// change without its identity changing.
func IsStructure(v any) bool {
	if v == nil {
		return false
	}
	switch reflect.ValueOf(v).Kind() {
	case reflect.Map, reflect.Slice, reflect.Pointer:
		return true
	}
	return false
}
