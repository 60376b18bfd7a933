package instance

import (
	"fmt"
	"sort"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/delaneyj/depwatch/observer"
)

func (in *Instance) initProps() {
	in.props = observer.NewObject(nil)
	isRoot := in.parent == nil
	seen := mapset.NewThreadUnsafeSet[string]()

	for _, def := range in.opts.Props {
		key := def.Name
		if !seen.Add(key) {
			in.warn(fmt.Sprintf("prop %q is declared more than once", key), "key", key)
			continue
		}
		value := in.validateProp(def, in.opts.PropsData)
		mutated := func() {
			if in.parent != nil && !in.updatingProps {
				in.warn(fmt.Sprintf("avoid mutating a prop directly since the value will be overwritten whenever the parent re-renders; prop being mutated: %q", key), "key", key)
			}
		}
		define := func() {
			in.sys.DefineReactive(in.props, key, value, mutated, false)
		}
		// props of child instances are owned by the parent, so they are not
		// converted here
		if isRoot {
			define()
		} else {
			in.sys.WithoutConversion(define)
		}

		if isReserved(key) {
			in.warn(fmt.Sprintf("%q is a reserved attribute and cannot be used as a prop", key), "key", key)
			continue
		}
		in.shape[key] = kindProp
	}
}

func (in *Instance) initMethods() {
	names := make([]string, 0, len(in.opts.Methods))
	for name := range in.opts.Methods {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		m := in.opts.Methods[name]
		if m == nil {
			in.warn(fmt.Sprintf("method %q has a nil value in the instance definition", name), "key", name)
			m = func(*Instance, ...any) (any, error) { return nil, nil }
		}
		in.methods[name] = m

		switch {
		case in.shape[name] == kindProp:
			in.warn(fmt.Sprintf("method %q has already been defined as a prop", name), "key", name)
		case isReserved(name):
			in.warn(fmt.Sprintf("method %q conflicts with a reserved name; avoid names starting with _ or $", name), "key", name)
		default:
			in.shape[name] = kindMethod
		}
	}
}

func (in *Instance) initData() {
	var raw map[string]any
	if in.opts.Data != nil {
		raw = in.getData()
		if raw == nil {
			in.warn("data functions should return a map", "key", "data")
		}
	}
	in.data = observer.NewObject(raw)

	for _, key := range in.data.Keys() {
		if in.shape[key] == kindMethod {
			in.warn(fmt.Sprintf("method %q has already been defined as a data property", key), "key", key)
		}
		switch {
		case in.shape[key] == kindProp:
			in.warn(fmt.Sprintf("data property %q is already declared as a prop; use the prop default instead", key), "key", key)
		case isReserved(key):
			in.warn(fmt.Sprintf("data property %q is reserved and will not be proxied; avoid names starting with _ or $", key), "key", key)
		default:
			in.shape[key] = kindData
		}
	}
	in.sys.Observe(in.data, true)
}

func (in *Instance) getData() (data map[string]any) {
	defer func() {
		if r := recover(); r != nil {
			in.sys.HandleError(&observer.PanicError{Value: r}, in, "data()")
			data = map[string]any{}
		}
	}()
	in.sys.Untracked(func() {
		data = in.opts.Data(in)
	})
	return data
}

func (in *Instance) initComputed() {
	for _, def := range in.opts.Computed {
		key := def.Name
		if def.Get == nil {
			in.warn(fmt.Sprintf("getter is missing for computed property %q", key), "key", key)
		}
		if isReserved(key) {
			in.warn(fmt.Sprintf("computed property %q is reserved; avoid names starting with _ or $", key), "key", key)
			continue
		}
		if prev, ok := in.shape[key]; ok {
			in.warn(fmt.Sprintf("computed property %q is already defined as a %s", key, prev), "key", key)
		}
		in.shape[key] = kindComputed
		in.computedDefs[key] = def
		delete(in.computed, key)
		if def.NoCache {
			continue
		}

		get := def.Get
		w := in.sys.NewWatcher(func() any {
			if get == nil {
				return nil
			}
			return get(in)
		}, nil, observer.WatcherOptions{
			Lazy:       true,
			Owner:      in,
			Expression: key,
		})
		in.computed[key] = w
		in.watchers = append(in.watchers, w)
	}
}

// computedValue pulls a computed field, re-evaluating it when dirty and
// handing its dependencies to the watcher currently evaluating, if any.
func (in *Instance) computedValue(key string) any {
	w, ok := in.computed[key]
	if !ok {
		def := in.computedDefs[key]
		if def.Get == nil {
			return nil
		}
		return def.Get(in)
	}
	if w.Dirty() {
		w.Evaluate()
	}
	if in.sys.Target() != nil {
		w.Depend()
	}
	return w.Value()
}

func (in *Instance) initWatch() {
	for _, def := range in.opts.Watch {
		handler := def.Handler
		if handler == nil && def.HandlerName != "" {
			name := def.HandlerName
			if _, ok := in.methods[name]; !ok {
				in.warn(fmt.Sprintf("%v: %q used as handler for watcher %q", ErrUnknownMethod, name, def.Expr), "key", def.Expr)
				continue
			}
			handler = func(in *Instance, value, old any) error {
				_, err := in.Call(name, value, old)
				return err
			}
		}
		if handler == nil {
			in.warn(fmt.Sprintf("watcher %q has no handler", def.Expr), "key", def.Expr)
			continue
		}
		in.Watch(def.Expr, handler, WatchOptions{
			Deep:      def.Deep,
			Immediate: def.Immediate,
			Sync:      def.Sync,
		})
	}
}

// UpdateProps replaces the instance's props data as a parent re-render
// would: every declared prop is re-validated against propsData, without
// mutation warnings, in one batch.
func (in *Instance) UpdateProps(propsData map[string]any) {
	in.updatingProps = true
	defer func() {
		in.updatingProps = false
	}()

	in.sys.Batch(func() {
		in.sys.WithoutConversion(func() {
			for _, def := range in.opts.Props {
				if !in.props.Has(def.Name) {
					continue
				}
				in.props.Set(def.Name, in.validateProp(def, propsData))
			}
		})
		in.opts.PropsData = propsData
	})
}
