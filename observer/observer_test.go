package observer_test

import (
	"math"
	"testing"

	"github.com/delaneyj/depwatch/observer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recorder struct {
	id      uint64
	updates int
}

func (r *recorder) ID() uint64 { return r.id }

func (r *recorder) AddDep(d *observer.Dep) {}

func (r *recorder) Update() { r.updates++ }

func (r *recorder) subscribe(d *observer.Dep) { d.AddSub(r) }

func newState(t *testing.T, sys *observer.System, m map[string]any) *observer.Object {
	t.Helper()
	state := observer.NewObject(m)
	require.NotNil(t, sys.Observe(state, false))
	return state
}

func TestObserveIsIdempotent(t *testing.T) {
	sys := observer.NewSystem()
	state := observer.NewObject(map[string]any{"a": 1})

	first := sys.Observe(state, false)
	dep := state.Dep("a")
	second := sys.Observe(state, false)

	assert.Same(t, first, second)
	assert.Same(t, dep, state.Dep("a"))
	assert.Same(t, first, state.Observer())
}

func TestObserveSkipsValues(t *testing.T) {
	sys := observer.NewSystem()

	assert.Nil(t, sys.Observe(1, false))
	assert.Nil(t, sys.Observe("x", false))
	assert.Nil(t, sys.Observe(map[string]any{"a": 1}, false))

	frozen := observer.NewObject(map[string]any{"a": 1})
	frozen.PreventExtensions()
	assert.Nil(t, sys.Observe(frozen, false))
	assert.Nil(t, frozen.Dep("a"))

	var unconverted *observer.Observer
	sys.WithoutConversion(func() {
		unconverted = sys.Observe(observer.NewObject(nil), false)
	})
	assert.Nil(t, unconverted)
}

func TestObserveRootCount(t *testing.T) {
	sys := observer.NewSystem()
	state := observer.NewObject(nil)

	ob := sys.Observe(state, true)
	sys.Observe(state, true)
	assert.Equal(t, 2, ob.RootCount())
	ob.ReleaseRoot()
	assert.Equal(t, 1, ob.RootCount())
}

func TestNestedValuesAreConverted(t *testing.T) {
	sys := observer.NewSystem()
	state := newState(t, sys, map[string]any{
		"user":  map[string]any{"name": "ada"},
		"items": []any{map[string]any{"id": 1}},
	})

	user, ok := state.Get("user").(*observer.Object)
	require.True(t, ok)
	assert.NotNil(t, user.Observer())
	assert.NotNil(t, user.Dep("name"))

	items, ok := state.Get("items").(*observer.List)
	require.True(t, ok)
	assert.NotNil(t, items.Observer())
	first, ok := items.At(0).(*observer.Object)
	require.True(t, ok)
	assert.NotNil(t, first.Observer())

	state.Set("user", map[string]any{"name": "grace"})
	replaced, ok := state.Get("user").(*observer.Object)
	require.True(t, ok)
	assert.NotNil(t, replaced.Observer())
}

func TestUnchangedWritesDoNotNotify(t *testing.T) {
	sys := observer.NewSystem()
	state := newState(t, sys, map[string]any{"n": 1, "f": 0.0})

	r := &recorder{id: 1 << 40}
	r.subscribe(state.Dep("n"))
	r.subscribe(state.Dep("f"))

	state.Set("n", 1)
	state.Set("n", 1.0)
	assert.Equal(t, 0, r.updates)

	state.Set("n", 2)
	assert.Equal(t, 1, r.updates)

	state.Set("f", math.NaN())
	assert.Equal(t, 2, r.updates)
	state.Set("f", math.NaN())
	assert.Equal(t, 2, r.updates)
}

// should store and notify writes of large integers float64 cannot tell apart
func TestLargeIntegerWritesNotify(t *testing.T) {
	sys := observer.NewSystem()
	state := newState(t, sys, map[string]any{"n": int64(1 << 53), "u": uint64(math.MaxUint64 - 1)})

	var changes []change
	sys.NewWatcher(func() any {
		return state.Get("n")
	}, recordChanges(&changes), observer.WatcherOptions{Sync: true})

	state.Set("n", int64(1<<53+1))
	assert.Equal(t, int64(1<<53+1), state.Get("n"))
	assert.Equal(t, []change{{int64(1<<53 + 1), int64(1 << 53)}}, changes)

	r := &recorder{id: 1 << 40}
	r.subscribe(state.Dep("u"))
	state.Set("u", uint64(math.MaxUint64))
	assert.Equal(t, uint64(math.MaxUint64), state.Get("u"))
	assert.Equal(t, 1, r.updates)
}

func TestStructuresCompareByIdentity(t *testing.T) {
	sys := observer.NewSystem()
	nested := observer.NewObject(map[string]any{"x": 1})
	state := newState(t, sys, map[string]any{"o": nested})

	r := &recorder{id: 1 << 40}
	r.subscribe(state.Dep("o"))

	state.Set("o", nested)
	assert.Equal(t, 0, r.updates)
	state.Set("o", observer.NewObject(map[string]any{"x": 1}))
	assert.Equal(t, 1, r.updates)
}

func TestCustomSetterRunsBeforeStore(t *testing.T) {
	sys := observer.NewSystem()
	obj := observer.NewObject(nil)

	var seen []any
	sys.DefineReactive(obj, "p", 1, func() {
		seen = append(seen, obj.Get("p"))
	}, false)

	obj.Set("p", 1)
	obj.Set("p", 2)
	assert.Equal(t, []any{1}, seen)
	assert.Equal(t, 2, obj.Get("p"))
}

func TestShallowFieldIsNotObserved(t *testing.T) {
	sys := observer.NewSystem()
	obj := observer.NewObject(nil)
	nested := observer.NewObject(map[string]any{"x": 1})

	sys.DefineReactive(obj, "p", nested, nil, true)
	assert.Nil(t, nested.Observer())
}

func TestWithoutConversionStoresRawValues(t *testing.T) {
	sys := observer.NewSystem()
	obj := observer.NewObject(nil)

	sys.WithoutConversion(func() {
		sys.DefineReactive(obj, "p", map[string]any{"x": 1}, nil, false)
	})
	_, raw := obj.Get("p").(map[string]any)
	assert.True(t, raw)
	assert.NotNil(t, obj.Dep("p"))
}

func TestSealedFieldsAreNotTracked(t *testing.T) {
	sys := observer.NewSystem()
	obj := observer.NewObject(nil)
	require.NoError(t, obj.DefineProperty("fixed", observer.Descriptor{Value: 1, Sealed: true}))
	obj.Set("other", 2)
	sys.Observe(obj, false)

	assert.Nil(t, obj.Dep("fixed"))
	assert.NotNil(t, obj.Dep("other"))
	assert.ErrorIs(t, obj.DefineProperty("fixed", observer.Descriptor{Value: 3}), observer.ErrSealedField)

	obj.Set("fixed", 5)
	assert.Equal(t, 5, obj.Get("fixed"))
}

func TestAccessorPairIsPreserved(t *testing.T) {
	sys := observer.NewSystem()
	backing := 1
	obj := observer.NewObject(nil)
	require.NoError(t, obj.DefineProperty("v", observer.Descriptor{
		Get: func() any { return backing },
		Set: func(v any) { backing = v.(int) },
	}))
	sys.Observe(obj, false)

	runs := 0
	sys.NewWatcher(func() any {
		runs++
		return obj.Get("v")
	}, nil, observer.WatcherOptions{})

	obj.Set("v", 7)
	assert.Equal(t, 7, backing)
	assert.Equal(t, 7, obj.Get("v"))
	assert.Equal(t, 2, runs)
}

func TestReadOnlyAccessorIgnoresWrites(t *testing.T) {
	sys := observer.NewSystem()
	obj := observer.NewObject(nil)
	require.NoError(t, obj.DefineProperty("v", observer.Descriptor{
		Get: func() any { return 1 },
	}))
	sys.Observe(obj, false)

	r := &recorder{id: 1 << 40}
	r.subscribe(obj.Dep("v"))
	obj.Set("v", 2)
	assert.Equal(t, 1, obj.Get("v"))
	assert.Equal(t, 0, r.updates)
}

func TestSetAddsTrackedKeys(t *testing.T) {
	sys := observer.NewSystem()
	state := newState(t, sys, map[string]any{"nested": map[string]any{}})

	var keys []int
	sys.NewWatcher(func() any {
		return state.Get("nested").(*observer.Object).Len()
	}, func(value, old any) error {
		keys = append(keys, value.(int))
		return nil
	}, observer.WatcherOptions{})

	nested := state.Get("nested").(*observer.Object)
	sys.Set(nested, "a", 1)
	assert.NotNil(t, nested.Dep("a"))
	sys.Set(nested, "a", 2)
	assert.Equal(t, 2, nested.Get("a"))
	sys.Del(nested, "a")
	sys.Del(nested, "missing")

	assert.Equal(t, []int{1, 0}, keys)
}

func TestSetRefusesRootKeys(t *testing.T) {
	var warnings []string
	sys := observer.NewSystem(observer.WithWarnHandler(func(msg string, args ...any) {
		warnings = append(warnings, msg)
	}))
	root := observer.NewObject(map[string]any{"a": 1})
	sys.Observe(root, true)

	sys.Set(root, "b", 2)
	sys.Del(root, "a")
	assert.False(t, root.Has("b"))
	assert.True(t, root.Has("a"))
	assert.Len(t, warnings, 2)

	sys.Set(root, "a", 3)
	assert.Equal(t, 3, root.Get("a"))
}

func TestSetOnPlainObject(t *testing.T) {
	sys := observer.NewSystem()
	plain := observer.NewObject(nil)
	sys.Set(plain, "a", 1)
	assert.Equal(t, 1, plain.Get("a"))
	assert.Nil(t, plain.Dep("a"))
}

func TestSetAndDelOnLists(t *testing.T) {
	sys := observer.NewSystem()
	state := newState(t, sys, map[string]any{"items": []any{"a"}})
	items := state.Get("items").(*observer.List)

	sys.Set(items, 2, "c")
	assert.Equal(t, []any{"a", nil, "c"}, items.Items())
	sys.Del(items, 1)
	assert.Equal(t, []any{"a", "c"}, items.Items())
}

func TestPathGetter(t *testing.T) {
	sys := observer.NewSystem()
	state := newState(t, sys, map[string]any{
		"a": map[string]any{"b": map[string]any{"c": 3}},
	})

	get, err := sys.PathGetter(state, "a.b.c")
	require.NoError(t, err)
	assert.Equal(t, 3, get())

	missing, err := sys.PathGetter(state, "a.x.c")
	require.NoError(t, err)
	assert.Nil(t, missing())

	_, err = sys.PathGetter(state, "a[0]")
	assert.ErrorIs(t, err, observer.ErrInvalidPath)
	_, err = sys.PathGetter(state, "")
	assert.ErrorIs(t, err, observer.ErrInvalidPath)
}

func TestStrictEqual(t *testing.T) {
	m := map[string]any{}
	s := []any{1}
	o := observer.NewObject(nil)

	assert.True(t, observer.StrictEqual(nil, nil))
	assert.True(t, observer.StrictEqual(1, 1.0))
	assert.True(t, observer.StrictEqual("a", "a"))
	assert.True(t, observer.StrictEqual(m, m))
	assert.True(t, observer.StrictEqual(s, s))
	assert.True(t, observer.StrictEqual(o, o))
	assert.False(t, observer.StrictEqual(1, "1"))
	assert.False(t, observer.StrictEqual(nil, 0))
	assert.False(t, observer.StrictEqual(map[string]any{}, map[string]any{}))
	assert.False(t, observer.StrictEqual(o, observer.NewObject(nil)))
	assert.False(t, observer.StrictEqual(math.NaN(), math.NaN()))

	assert.True(t, observer.StrictEqual(int64(1<<53+1), int64(1<<53+1)))
	assert.False(t, observer.StrictEqual(int64(1<<53), int64(1<<53+1)))
	assert.False(t, observer.StrictEqual(uint64(math.MaxUint64), uint64(math.MaxUint64-1)))
	assert.True(t, observer.StrictEqual(int8(3), uint(3)))
	assert.False(t, observer.StrictEqual(int64(-1), uint64(math.MaxUint64)))
	assert.True(t, observer.StrictEqual(uint8(2), 2.0))
	assert.False(t, observer.StrictEqual(int64(1<<53+1), float64(1<<53)))
	assert.False(t, observer.StrictEqual(1, 1.5))
	assert.False(t, observer.StrictEqual(uint64(0), -0.5))
	assert.False(t, observer.StrictEqual(int64(math.MaxInt64), float64(1<<63)))
	assert.True(t, observer.StrictEqual(float32(0.5), 0.5))
}

func TestIsStructure(t *testing.T) {
	assert.True(t, observer.IsStructure(map[string]any{}))
	assert.True(t, observer.IsStructure([]any{}))
	assert.True(t, observer.IsStructure(observer.NewObject(nil)))
	assert.True(t, observer.IsStructure(observer.NewList()))
	assert.False(t, observer.IsStructure(nil))
	assert.False(t, observer.IsStructure(1))
	assert.False(t, observer.IsStructure(struct{ A int }{1}))
	assert.False(t, observer.IsStructure([2]int{1, 2}))
}
