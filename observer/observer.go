package observer

// Observer is attached to every observed Object or List. Its Dep is the
// structural registry: it is notified when keys are added or removed, or
// when a list's membership changes.
type Observer struct {
	sys       *System
	value     any
	dep       *Dep
	rootCount int
}

func (ob *Observer) Value() any {
	return ob.value
}

func (ob *Observer) Dep() *Dep {
	return ob.dep
}

// RootCount is the number of instances using the value as their root data.
func (ob *Observer) RootCount() int {
	return ob.rootCount
}

// ReleaseRoot drops one root owner.
func (ob *Observer) ReleaseRoot() {
	if ob.rootCount > 0 {
		ob.rootCount--
	}
}

// InstanceRoot is implemented by instance types. Such values are never
// observed.
type InstanceRoot interface {
	IsInstanceRoot() bool
}

// Observe attaches an Observer to value and returns it. Values that are not
// an *Object or *List return nil, as do non extensible objects and any value
// while conversion is disabled. Observing an already observed value returns
// its existing Observer. asRoot counts the value as an instance root.
func (sys *System) Observe(value any, asRoot bool) *Observer {
	if r, ok := value.(InstanceRoot); ok && r.IsInstanceRoot() {
		return nil
	}

	var ob *Observer
	switch v := value.(type) {
	case *Object:
		if v == nil {
			return nil
		}
		if v.ob != nil {
			ob = v.ob
		} else if sys.shouldConvert && !v.frozen {
			ob = &Observer{sys: sys, value: v, dep: sys.NewDep()}
			v.ob = ob
			sys.walk(v)
		}
	case *List:
		if v == nil {
			return nil
		}
		if v.ob != nil {
			ob = v.ob
		} else if sys.shouldConvert {
			ob = &Observer{sys: sys, value: v, dep: sys.NewDep()}
			v.ob = ob
			for i, item := range v.items {
				v.items[i], _ = sys.observeValue(item)
			}
		}
	default:
		return nil
	}

	if asRoot && ob != nil {
		ob.rootCount++
	}
	return ob
}

// Reactive converts raw maps and slices in value into structures, observes
// them and returns the result.
func (sys *System) Reactive(value any) any {
	value, _ = sys.observeValue(value)
	return value
}

func (sys *System) walk(o *Object) {
	for _, key := range o.Keys() {
		f := o.fields[key]
		var val any
		sys.Untracked(func() {
			val = f.read()
		})
		sys.DefineReactive(o, key, val, nil, false)
	}
}

// observeValue converts raw maps and slices when conversion is enabled and
// observes the result.
func (sys *System) observeValue(v any) (any, *Observer) {
	if sys.shouldConvert {
		v = convert(v)
	}
	return v, sys.Observe(v, false)
}

func convert(v any) any {
	switch x := v.(type) {
	case map[string]any:
		return NewObject(x)
	case []any:
		return NewList(x...)
	default:
		return v
	}
}

// DefineReactive replaces key on obj with a tracked field. Reads register
// the active watcher with the field's registry and with the registries of
// any nested observed structure. Writes of a different value store it,
// observe it and notify. customSetter runs before a write is stored; shallow
// skips observing the value.
func (sys *System) DefineReactive(obj *Object, key string, val any, customSetter func(), shallow bool) {
	dep := sys.NewDep()

	prop, exists := obj.fields[key]
	if exists && prop.sealed {
		return
	}

	var getter func() any
	var setter func(any)
	if exists {
		getter, setter = prop.get, prop.set
	}

	var childOb *Observer
	if !shallow {
		if getter == nil {
			val, childOb = sys.observeValue(val)
		} else {
			childOb = sys.Observe(val, false)
		}
	}

	reactiveGetter := func() any {
		value := val
		if getter != nil {
			value = getter()
		}
		if sys.target != nil {
			dep.Depend()
			if childOb != nil {
				childOb.dep.Depend()
			}
			if l, ok := value.(*List); ok {
				dependList(l)
			}
		}
		return value
	}

	reactiveSetter := func(newVal any) {
		value := val
		if getter != nil {
			value = getter()
		}
		if StrictEqual(newVal, value) || (isNaN(newVal) && isNaN(value)) {
			return
		}
		if customSetter != nil {
			customSetter()
		}
		if getter != nil && setter == nil {
			return
		}
		if !shallow && getter == nil {
			newVal, childOb = sys.observeValue(newVal)
		} else if !shallow {
			childOb = sys.Observe(newVal, false)
		}
		if setter != nil {
			setter(newVal)
		} else {
			val = newVal
		}
		dep.Notify()
	}

	if !exists {
		obj.keys = append(obj.keys, key)
	}
	obj.fields[key] = &field{
		get: reactiveGetter,
		set: reactiveSetter,
		dep: dep,
	}
}

// dependList registers the active watcher with every observed element of
// l, recursively, since element access cannot be intercepted.
func dependList(l *List) {
	for _, item := range l.items {
		switch e := item.(type) {
		case *Object:
			if e.ob != nil {
				e.ob.dep.Depend()
			}
		case *List:
			if e.ob != nil {
				e.ob.dep.Depend()
			}
			dependList(e)
		}
	}
}

// Set assigns key on target, adding it as a tracked field and notifying the
// structural registry when it did not exist. For a *List key must be an int
// index. Root data of an instance cannot gain keys this way.
func (sys *System) Set(target any, key any, val any) any {
	switch t := target.(type) {
	case *List:
		i, ok := key.(int)
		if !ok || i < 0 {
			sys.Warn("invalid list index", "key", key)
			return val
		}
		t.SetAt(i, val)
		return val
	case *Object:
		k, ok := key.(string)
		if !ok {
			sys.Warn("object keys must be strings", "key", key)
			return val
		}
		if t.Has(k) {
			t.Set(k, val)
			return val
		}
		ob := t.ob
		if ob != nil && ob.rootCount > 0 {
			sys.Warn(ErrRootMutation.Error()+"; declare it upfront in data", "key", k)
			return val
		}
		if ob == nil {
			t.Set(k, val)
			return val
		}
		if t.frozen {
			return val
		}
		sys.DefineReactive(t, k, val, nil, false)
		ob.dep.Notify()
		return val
	case InstanceRoot:
		sys.Warn(ErrRootMutation.Error()+"; declare it upfront in data", "key", key)
		return val
	default:
		sys.Warn("cannot set a key on a value that is not an object or list", "key", key)
		return val
	}
}

// Del removes key from target and notifies its structural registry.
func (sys *System) Del(target any, key any) {
	switch t := target.(type) {
	case *List:
		if i, ok := key.(int); ok {
			t.RemoveAt(i)
		}
	case *Object:
		k, ok := key.(string)
		if !ok {
			return
		}
		if t.ob != nil && t.ob.rootCount > 0 {
			sys.Warn(ErrRootMutation.Error()+"; set it to nil instead", "key", k)
			return
		}
		if !t.remove(k) {
			return
		}
		if t.ob != nil {
			t.ob.dep.Notify()
		}
	case InstanceRoot:
		sys.Warn(ErrRootMutation.Error()+"; set it to nil instead", "key", key)
	}
}
