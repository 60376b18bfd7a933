package instance

import (
	"fmt"
	"reflect"

	"github.com/delaneyj/depwatch/observer"
)

// validateProp resolves the value of def from propsData, falling back to
// its default, and warns when the result does not satisfy the declaration.
func (in *Instance) validateProp(def PropDef, propsData map[string]any) any {
	value, present := propsData[def.Name]
	if def.Type&Bool != 0 {
		if !present && def.Default == nil {
			value = false
		} else if s, ok := value.(string); ok && def.Type&String == 0 && (s == "" || s == def.Name) {
			value = true
		}
	}
	if value == nil {
		value = in.defaultValue(def)
		// a fresh default is owned by this instance, so it is always observed
		in.sys.WithConversion(func() {
			value = in.sys.Reactive(value)
		})
	}
	in.assertProp(def, value, present)
	return value
}

func (in *Instance) defaultValue(def PropDef) any {
	if def.Default == nil {
		return nil
	}
	// keep the previous default so watchers are not triggered by a new
	// but identical structure
	if _, had := in.opts.PropsData[def.Name]; !had && in.props != nil {
		var prev any
		in.sys.Untracked(func() {
			prev = in.props.Get(def.Name)
		})
		if prev != nil {
			return prev
		}
	}

	switch d := def.Default.(type) {
	case func() any:
		if def.Type == Func {
			return d
		}
		return d()
	case map[string]any, []any, *observer.Object, *observer.List:
		in.warn(fmt.Sprintf("invalid default value for prop %q: Object and List props must use a factory function for their default", def.Name), "key", def.Name)
		return d
	default:
		return d
	}
}

func (in *Instance) assertProp(def PropDef, value any, present bool) {
	fail := func(reason string) {
		in.warn(fmt.Sprintf("%v %q: %s", ErrInvalidProp, def.Name, reason), "key", def.Name)
	}
	if def.Required && !present {
		fail("missing required prop")
		return
	}
	if value == nil && !def.Required {
		return
	}
	if !def.Type.accepts(value) {
		fail(fmt.Sprintf("expected %s, got %T", def.Type, value))
		return
	}
	if def.Validator != nil && !def.Validator(value) {
		fail("custom validator check failed")
	}
}

func (t PropType) accepts(v any) bool {
	if t == Any {
		return true
	}
	switch v.(type) {
	case nil:
		return false
	case string:
		return t&String != 0
	case bool:
		return t&Bool != 0
	case *observer.Object, map[string]any:
		return t&Object != 0
	case *observer.List, []any:
		return t&List != 0
	}
	switch reflect.TypeOf(v).Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return t&Number != 0
	case reflect.Func:
		return t&Func != 0
	}
	return false
}
