// Package instance wires declared component state onto an observer.System:
// props, methods, data, computed fields, watchers and an optional render
// unit, all reachable through one Instance.
package instance

import (
	"fmt"
	"sort"
	"strings"

	"github.com/delaneyj/depwatch/observer"
)

type fieldKind uint8

const (
	kindProp fieldKind = iota + 1
	kindMethod
	kindData
	kindComputed
)

func (k fieldKind) String() string {
	switch k {
	case kindProp:
		return "prop"
	case kindMethod:
		return "method"
	case kindData:
		return "data"
	case kindComputed:
		return "computed"
	default:
		return "unknown"
	}
}

// Instance is a set of tracked fields declared by Options. Reads and writes
// made through Get and Set are proxied to the backing props and data
// objects, or to the computed field or method of that name.
type Instance struct {
	sys    *observer.System
	opts   Options
	name   string
	parent *Instance

	props   *observer.Object
	data    *observer.Object
	methods map[string]Method

	computed     map[string]*observer.Watcher
	computedDefs map[string]ComputedDef

	// shape is the declared field table used for proxying.
	shape map[string]fieldKind

	watchers      []*observer.Watcher
	render        *observer.Watcher
	updatingProps bool
	destroyed     bool
}

// New builds an instance on sys, initializing props, methods, data,
// computed fields and watchers in that order.
func New(sys *observer.System, opts Options) *Instance {
	in := &Instance{
		sys:          sys,
		opts:         opts,
		name:         opts.Name,
		parent:       opts.Parent,
		methods:      map[string]Method{},
		computed:     map[string]*observer.Watcher{},
		computedDefs: map[string]ComputedDef{},
		shape:        map[string]fieldKind{},
	}
	if in.name == "" {
		in.name = "anonymous"
	}

	in.initProps()
	in.initMethods()
	in.initData()
	in.initComputed()
	in.initWatch()
	return in
}

func (in *Instance) IsInstanceRoot() bool {
	return true
}

func (in *Instance) System() *observer.System {
	return in.sys
}

func (in *Instance) Name() string {
	return in.name
}

func (in *Instance) Parent() *Instance {
	return in.parent
}

// Data returns the root data object.
func (in *Instance) Data() *observer.Object {
	return in.data
}

func (in *Instance) Props() *observer.Object {
	return in.props
}

// Keys returns the proxied field names in sorted order.
func (in *Instance) Keys() []string {
	keys := make([]string, 0, len(in.shape))
	for k := range in.shape {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Get reads a declared field. Computed fields are re-evaluated only when
// dirty; methods read as nil.
func (in *Instance) Get(key string) any {
	v, _ := in.Lookup(key)
	return v
}

func (in *Instance) Lookup(key string) (any, bool) {
	switch in.shape[key] {
	case kindProp:
		return in.props.Get(key), true
	case kindData:
		return in.data.Get(key), true
	case kindComputed:
		return in.computedValue(key), true
	case kindMethod:
		return nil, true
	default:
		return nil, false
	}
}

// Set assigns a declared field. Writing a computed field without a setter,
// a method or an undeclared key only warns.
func (in *Instance) Set(key string, value any) {
	switch in.shape[key] {
	case kindProp:
		in.props.Set(key, value)
	case kindData:
		in.data.Set(key, value)
	case kindComputed:
		def := in.computedDefs[key]
		if def.Set == nil {
			in.warn(fmt.Sprintf("computed property %q was assigned to but it has no setter", key), "key", key)
			return
		}
		def.Set(in, value)
	case kindMethod:
		in.warn(fmt.Sprintf("method %q cannot be assigned", key), "key", key)
	default:
		in.warn(observer.ErrRootMutation.Error()+"; declare it upfront in data", "key", key)
	}
}

// Call invokes a method with the instance bound.
func (in *Instance) Call(name string, args ...any) (any, error) {
	m, ok := in.methods[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownMethod, name)
	}
	return m(in, args...)
}

// SetKey adds or assigns key on a nested object or list of this instance's
// state, making a new key tracked.
func (in *Instance) SetKey(target any, key any, value any) any {
	return in.sys.Set(target, key, value)
}

// DeleteKey removes key from a nested object or list and notifies its
// watchers.
func (in *Instance) DeleteKey(target any, key any) {
	in.sys.Del(target, key)
}

// CaptureError offers err to this instance's ErrorHandler and then to each
// ancestor's in turn.
func (in *Instance) CaptureError(err error) bool {
	for cur := in; cur != nil; cur = cur.parent {
		if h := cur.opts.ErrorHandler; h != nil && h(in, err) {
			return true
		}
	}
	return false
}

// Watchers returns every watcher the instance owns, render watcher first.
func (in *Instance) Watchers() []*observer.Watcher {
	out := make([]*observer.Watcher, 0, len(in.watchers)+1)
	if in.render != nil {
		out = append(out, in.render)
	}
	return append(out, in.watchers...)
}

// Computed returns the watcher backing a cached computed field.
func (in *Instance) Computed(name string) (*observer.Watcher, bool) {
	w, ok := in.computed[name]
	return w, ok
}

// Mount creates the render watcher. Render runs immediately and again,
// once per tick, whenever anything it read changes. BeforeUpdate runs
// ahead of every re-render.
func (in *Instance) Mount() error {
	if in.destroyed {
		return ErrDestroyed
	}
	if in.opts.Render == nil {
		return ErrNoRender
	}
	if in.render != nil {
		return nil
	}
	var before func()
	if in.opts.BeforeUpdate != nil {
		before = func() {
			in.opts.BeforeUpdate(in)
		}
	}
	in.render = in.sys.NewWatcher(func() any {
		return in.opts.Render(in)
	}, nil, observer.WatcherOptions{
		Before:     before,
		Owner:      in,
		Expression: in.name + ".render",
	})
	return nil
}

// Rendered is the output of the last render, or nil before Mount.
func (in *Instance) Rendered() any {
	if in.render == nil {
		return nil
	}
	return in.render.Value()
}

// Destroy tears down the render watcher and then every other watcher, and
// releases the instance's claim on its data object. It is idempotent.
func (in *Instance) Destroy() {
	if in.destroyed {
		return
	}
	if in.render != nil {
		in.render.Teardown()
	}
	for i := len(in.watchers) - 1; i >= 0; i-- {
		in.watchers[i].Teardown()
	}
	if ob := in.data.Observer(); ob != nil {
		ob.ReleaseRoot()
	}
	in.destroyed = true
}

func (in *Instance) Destroyed() bool {
	return in.destroyed
}

func (in *Instance) warn(msg string, args ...any) {
	in.sys.Warn(msg, append(args, "instance", in.name)...)
}

func isReserved(key string) bool {
	return strings.HasPrefix(key, "$") || strings.HasPrefix(key, "_")
}
