package observer

import (
	"fmt"

	mapset "github.com/deckarep/golang-set/v2"
)

// Callback is invoked with the new and previous value when a watcher's
// value changes.
type Callback func(value, oldValue any) error

type WatcherOptions struct {
	// Lazy watchers only mark themselves dirty on change and recompute when
	// pulled with Evaluate.
	Lazy bool
	// User watchers recover panics and report errors instead of
	// propagating them.
	User bool
	// Deep watchers depend on every nested field of their value.
	Deep bool
	// Sync watchers run inline instead of being queued.
	Sync bool
	// Before runs ahead of each scheduled run.
	Before func()
	// Owner receives errors first when it implements ErrorCapturer.
	Owner any
	// Expression describes the watcher in errors and reports.
	Expression string
}

// Watcher re-runs an expression whenever a location it read during its
// last evaluation changes.
type Watcher struct {
	sys        *System
	id         uint64
	getter     func() any
	cb         Callback
	owner      any
	expression string
	before     func()

	lazy, user, deep, sync bool

	active bool
	dirty  bool
	value  any

	deps      []*Dep
	newDeps   []*Dep
	depIDs    mapset.Set[uint64]
	newDepIDs mapset.Set[uint64]

	// self is notified when a lazy watcher turns dirty, for outer watchers
	// that pulled it before it had dependencies of its own.
	self *Dep
}

// NewWatcher creates a watcher for getter. Unless opts.Lazy is set the
// getter is evaluated immediately to collect the initial dependencies.
func (sys *System) NewWatcher(getter func() any, cb Callback, opts WatcherOptions) *Watcher {
	sys.watcherSeq++
	w := &Watcher{
		sys:        sys,
		id:         sys.watcherSeq,
		getter:     getter,
		cb:         cb,
		owner:      opts.Owner,
		expression: opts.Expression,
		before:     opts.Before,
		lazy:       opts.Lazy,
		user:       opts.User,
		deep:       opts.Deep,
		sync:       opts.Sync,
		active:     true,
		dirty:      opts.Lazy,
		depIDs:     mapset.NewThreadUnsafeSet[uint64](),
		newDepIDs:  mapset.NewThreadUnsafeSet[uint64](),
	}
	if w.getter == nil {
		w.getter = func() any { return nil }
	}
	if w.expression == "" {
		w.expression = fmt.Sprintf("watcher#%d", w.id)
	}
	if !w.lazy {
		w.value, _ = w.get()
	}
	return w
}

func (w *Watcher) ID() uint64 {
	return w.id
}

func (w *Watcher) Expression() string {
	return w.expression
}

func (w *Watcher) Owner() any {
	return w.owner
}

func (w *Watcher) Value() any {
	return w.value
}

func (w *Watcher) Dirty() bool {
	return w.dirty
}

func (w *Watcher) Lazy() bool {
	return w.lazy
}

func (w *Watcher) User() bool {
	return w.user
}

func (w *Watcher) Active() bool {
	return w.active
}

// Deps returns the registries read during the last evaluation.
func (w *Watcher) Deps() []*Dep {
	return append([]*Dep(nil), w.deps...)
}

// get evaluates the getter with w as the active watcher and rebuilds the
// dependency set from the reads it made. When a user getter fails the
// error is reported and get returns the cached value and false.
func (w *Watcher) get() (any, bool) {
	sys := w.sys
	sys.pushTarget(w)
	defer func() {
		sys.popTarget()
		w.cleanupDeps()
	}()

	value, err := w.call()
	ok := err == nil
	if !ok {
		sys.HandleError(err, w.owner, fmt.Sprintf("getter for watcher %q", w.expression))
		value = w.value
	}
	if w.deep {
		sys.traverse(value)
	}
	return value, ok
}

func (w *Watcher) call() (value any, err error) {
	if !w.user {
		return w.getter(), nil
	}
	defer func() {
		if r := recover(); r != nil {
			err = &PanicError{Value: r}
		}
	}()
	return w.getter(), nil
}

// AddDep records d as read during the current evaluation.
func (w *Watcher) AddDep(d *Dep) {
	id := d.id
	if !w.newDepIDs.Add(id) {
		return
	}
	w.newDeps = append(w.newDeps, d)
	if !w.depIDs.Contains(id) {
		d.AddSub(w)
	}
}

// cleanupDeps drops subscriptions that were not read again and promotes the
// new dependency set.
func (w *Watcher) cleanupDeps() {
	for _, d := range w.deps {
		if !w.newDepIDs.Contains(d.id) {
			d.RemoveSub(w)
		}
	}
	w.depIDs, w.newDepIDs = w.newDepIDs, w.depIDs
	w.newDepIDs.Clear()
	w.deps, w.newDeps = w.newDeps, w.deps[:0]
}

// Update is called by a registry when a dependency changed.
func (w *Watcher) Update() {
	switch {
	case w.lazy:
		w.dirty = true
		if w.self != nil && w.self.Len() > 0 {
			w.self.Notify()
		}
	case w.sync:
		w.Run()
	default:
		w.sys.queue(w)
	}
}

// Before runs the before hook, if any. The scheduler calls it ahead of Run.
func (w *Watcher) Before() {
	if w.before != nil && w.active {
		w.before()
	}
}

// Run re-evaluates and fires the callback when the value changed. Structure
// values and deep watchers always fire since their contents may have
// changed in place.
func (w *Watcher) Run() {
	if !w.active {
		return
	}
	value, ok := w.get()
	if !ok {
		return
	}
	if StrictEqual(value, w.value) && !IsStructure(value) && !w.deep {
		return
	}
	old := w.value
	w.value = value
	if w.cb == nil {
		return
	}
	if err := w.callback(value, old); err != nil {
		w.sys.HandleError(err, w.owner, fmt.Sprintf("callback for watcher %q", w.expression))
	}
}

func (w *Watcher) callback(value, old any) (err error) {
	if w.user {
		defer func() {
			if r := recover(); r != nil {
				err = &PanicError{Value: r}
			}
		}()
	}
	return w.cb(value, old)
}

// Evaluate recomputes a lazy watcher's value and marks it clean.
func (w *Watcher) Evaluate() {
	w.value, _ = w.get()
	w.dirty = false
}

// Depend makes the active watcher depend on everything w depends on.
func (w *Watcher) Depend() {
	if w.sys.target == nil || w.sys.target == w {
		return
	}
	if len(w.deps) == 0 {
		if w.self == nil {
			w.self = w.sys.NewDep()
		}
		w.self.Depend()
		return
	}
	for _, d := range w.deps {
		d.Depend()
	}
}

// Teardown unsubscribes w from every registry. It is idempotent.
func (w *Watcher) Teardown() {
	if !w.active {
		return
	}
	for _, d := range w.deps {
		d.RemoveSub(w)
	}
	if w.self != nil {
		for _, sub := range w.self.Subscribers() {
			w.self.RemoveSub(sub)
		}
	}
	w.deps = nil
	w.depIDs.Clear()
	w.active = false
}
