package observer

import (
	"fmt"
	"sort"
)

// Descriptor describes how a field of an Object stores its value. When Get
// is set the field is an accessor and Value is ignored; an accessor without
// Set is read only. Sealed fields can never be redefined, so they are never
// tracked.
type Descriptor struct {
	Value  any
	Get    func() any
	Set    func(any)
	Sealed bool
}

type field struct {
	value  any
	get    func() any
	set    func(any)
	sealed bool
	dep    *Dep
}

func (f *field) read() any {
	if f.get != nil {
		return f.get()
	}
	return f.value
}

// Object is a plain keyed structure with a per field descriptor table.
// Fields keep insertion order. An Object is inert until it is observed,
// after which every field read and write goes through its registry.
type Object struct {
	keys   []string
	fields map[string]*field
	ob     *Observer
	frozen bool
}

// NewObject builds an unobserved object from m. Keys are added in sorted
// order so walks are deterministic.
func NewObject(m map[string]any) *Object {
	o := &Object{fields: make(map[string]*field, len(m))}
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		o.keys = append(o.keys, k)
		o.fields[k] = &field{value: m[k]}
	}
	return o
}

// Get reads key. Missing keys read as nil.
func (o *Object) Get(key string) any {
	if o == nil {
		return nil
	}
	f, ok := o.fields[key]
	if !ok {
		return nil
	}
	return f.read()
}

func (o *Object) Lookup(key string) (any, bool) {
	f, ok := o.fields[key]
	if !ok {
		return nil, false
	}
	return f.read(), true
}

// Set assigns key. Assigning an existing key goes through its accessor. A
// new key is added as an untracked field unless the object is not
// extensible, in which case the write is dropped; use System.Set to add a
// tracked key.
func (o *Object) Set(key string, value any) {
	f, ok := o.fields[key]
	if !ok {
		if o.frozen {
			return
		}
		o.keys = append(o.keys, key)
		o.fields[key] = &field{value: value}
		return
	}
	switch {
	case f.set != nil:
		f.set(value)
	case f.get != nil:
		// read only accessor
	default:
		f.value = value
	}
}

func (o *Object) Has(key string) bool {
	_, ok := o.fields[key]
	return ok
}

func (o *Object) Keys() []string {
	return append([]string(nil), o.keys...)
}

func (o *Object) Len() int {
	return len(o.keys)
}

// DefineProperty installs a descriptor for key, replacing any previous one.
func (o *Object) DefineProperty(key string, d Descriptor) error {
	if f, ok := o.fields[key]; ok {
		if f.sealed {
			return fmt.Errorf("%w: %q", ErrSealedField, key)
		}
	} else {
		if o.frozen {
			return fmt.Errorf("depwatch: object is not extensible, cannot define %q", key)
		}
		o.keys = append(o.keys, key)
	}
	o.fields[key] = &field{
		value:  d.Value,
		get:    d.Get,
		set:    d.Set,
		sealed: d.Sealed,
	}
	return nil
}

func (o *Object) remove(key string) bool {
	f, ok := o.fields[key]
	if !ok || f.sealed {
		return false
	}
	delete(o.fields, key)
	for i, k := range o.keys {
		if k == key {
			o.keys = append(o.keys[:i], o.keys[i+1:]...)
			break
		}
	}
	return true
}

// PreventExtensions stops new keys from being added. Non extensible objects
// are never observed.
func (o *Object) PreventExtensions() {
	o.frozen = true
}

func (o *Object) Extensible() bool {
	return !o.frozen
}

// Observer returns the wrapper attached by observation, or nil.
func (o *Object) Observer() *Observer {
	return o.ob
}

// Dep returns the registry guarding key, or nil when key is not tracked.
func (o *Object) Dep(key string) *Dep {
	if f, ok := o.fields[key]; ok {
		return f.dep
	}
	return nil
}
