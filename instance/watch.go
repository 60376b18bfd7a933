package instance

import (
	"fmt"

	"github.com/delaneyj/depwatch/observer"
)

// Watch calls handler whenever the value at the dotted path expr changes,
// and returns a function that stops watching. An invalid path warns and
// watches nothing.
func (in *Instance) Watch(expr string, handler Handler, opts WatchOptions) func() {
	getter, err := in.sys.PathGetter(in, expr)
	if err != nil {
		in.warn(fmt.Sprintf("%v; watcher only accepts simple dot-delimited paths, use WatchFunc for full control", err), "key", expr)
		getter = func() any { return nil }
	}
	return in.watch(getter, expr, handler, opts)
}

// WatchFunc is like Watch but re-runs fn to produce the watched value.
func (in *Instance) WatchFunc(fn func(in *Instance) any, handler Handler, opts WatchOptions) func() {
	return in.watch(func() any {
		return fn(in)
	}, "", handler, opts)
}

func (in *Instance) watch(getter func() any, expr string, handler Handler, opts WatchOptions) func() {
	w := in.sys.NewWatcher(getter, func(value, old any) error {
		return handler(in, value, old)
	}, observer.WatcherOptions{
		User:       true,
		Deep:       opts.Deep,
		Sync:       opts.Sync,
		Owner:      in,
		Expression: expr,
	})
	in.watchers = append(in.watchers, w)

	if opts.Immediate {
		if err := in.invoke(func() error { return handler(in, w.Value(), nil) }); err != nil {
			in.sys.HandleError(err, in, fmt.Sprintf("callback for immediate watcher %q", w.Expression()))
		}
	}
	return w.Teardown
}

func (in *Instance) invoke(fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &observer.PanicError{Value: r}
		}
	}()
	return fn()
}
