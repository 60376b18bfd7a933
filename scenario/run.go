package scenario

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/delaneyj/depwatch/instance"
	"github.com/delaneyj/depwatch/observer"
)

var ErrInvalidStep = errors.New("scenario: invalid step")

// Entry is one watch callback. Step is 0 for immediate callbacks fired
// while the instance was built. Values are formatted when the callback
// fires, since structures change in place.
type Entry struct {
	Step int
	Path string
	Old  string
	New  string
}

func (e Entry) String() string {
	return fmt.Sprintf("%s: %s -> %s", e.Path, e.Old, e.New)
}

type Result struct {
	Instance *instance.Instance
	Log      []Entry
	Warnings []string
	Errors   []error
}

// Run builds the instance s describes and applies its steps, one batch per
// step. opts are passed to the System after the handlers that fill the
// result's warnings and errors.
func Run(s *Scenario, opts ...observer.Option) (*Result, error) {
	res := &Result{}
	step := 0
	sys := observer.NewSystem(append([]observer.Option{
		observer.WithWarnHandler(func(msg string, args ...any) {
			res.Warnings = append(res.Warnings, msg)
		}),
		observer.WithErrorHandler(func(from any, err error) {
			res.Errors = append(res.Errors, err)
		}),
	}, opts...)...)

	var props []instance.PropDef
	for _, p := range s.Props {
		t, err := ParsePropType(p.Type)
		if err != nil {
			return nil, err
		}
		def := p.Default
		if d := def; isStructure(d) {
			def = func() any { return d }
		}
		props = append(props, instance.PropDef{
			Name:     p.Name,
			Type:     t,
			Default:  def,
			Required: p.Required,
		})
	}

	var computed []instance.ComputedDef
	for _, c := range s.Computed {
		if _, err := sys.PathGetter(nil, c.Path); err != nil {
			return nil, fmt.Errorf("scenario: computed %q: %w", c.Name, err)
		}
		computed = append(computed, instance.ComputedDef{
			Name: c.Name,
			Get: func(in *instance.Instance) any {
				get, _ := in.System().PathGetter(in, c.Path)
				return scale(get(), c.Scale)
			},
		})
	}

	var watches []instance.WatchDef
	for _, w := range s.Watch {
		path := w.Path
		watches = append(watches, instance.WatchDef{
			Expr:      path,
			Deep:      w.Deep,
			Immediate: w.Immediate,
			Handler: func(in *instance.Instance, value, old any) error {
				res.Log = append(res.Log, Entry{
					Step: step,
					Path: path,
					Old:  Format(old),
					New:  Format(value),
				})
				return nil
			},
		})
	}

	opt := instance.Options{
		Name:      s.Name,
		Props:     props,
		PropsData: s.PropsData,
		Computed:  computed,
		Watch:     watches,
	}
	if s.Data != nil {
		opt.Data = func(*instance.Instance) map[string]any {
			return s.Data
		}
	}
	res.Instance = instance.New(sys, opt)

	for i, st := range s.Steps {
		step = i + 1
		var err error
		sys.Batch(func() {
			err = apply(res.Instance, st)
		})
		if err != nil {
			return res, fmt.Errorf("scenario: step %d: %w", step, err)
		}
	}
	return res, nil
}

// Lines renders the log one callback per line.
func (r *Result) Lines() []string {
	lines := make([]string, len(r.Log))
	for i, e := range r.Log {
		lines[i] = e.String()
	}
	return lines
}

func apply(in *instance.Instance, st Step) error {
	for _, path := range sortedKeys(st.Set) {
		if err := assign(in, path, st.Set[path]); err != nil {
			return err
		}
	}
	for _, path := range sortedKeys(st.Push) {
		l, ok := resolve(in, path).(*observer.List)
		if !ok {
			return fmt.Errorf("%w: %q is not a list", ErrInvalidStep, path)
		}
		l.Push(st.Push[path]...)
	}
	for _, path := range st.Delete {
		target, key, err := parentOf(in, path)
		if err != nil {
			return err
		}
		in.DeleteKey(target, key)
	}
	if st.Props != nil {
		in.UpdateProps(st.Props)
	}
	return nil
}

func assign(in *instance.Instance, path string, value any) error {
	if !strings.Contains(path, ".") {
		in.Set(path, value)
		return nil
	}
	target, key, err := parentOf(in, path)
	if err != nil {
		return err
	}
	in.SetKey(target, key, value)
	return nil
}

// parentOf resolves everything but the last segment of path and returns it
// with the last segment as a key: an int for lists, a string otherwise.
func parentOf(in *instance.Instance, path string) (any, any, error) {
	i := strings.LastIndex(path, ".")
	if i < 0 {
		return in, path, nil
	}
	parentPath, last := path[:i], path[i+1:]
	switch parent := resolve(in, parentPath).(type) {
	case *observer.Object:
		return parent, last, nil
	case *observer.List:
		idx, err := strconv.Atoi(last)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: %q is not a list index", ErrInvalidStep, last)
		}
		return parent, idx, nil
	default:
		return nil, nil, fmt.Errorf("%w: %q is not an object or list", ErrInvalidStep, parentPath)
	}
}

func resolve(in *instance.Instance, path string) any {
	var cur any = in
	for _, seg := range strings.Split(path, ".") {
		switch c := cur.(type) {
		case observer.KeyGetter:
			cur = c.Get(seg)
		case *observer.List:
			idx, err := strconv.Atoi(seg)
			if err != nil {
				return nil
			}
			cur = c.At(idx)
		default:
			return nil
		}
	}
	return cur
}

func scale(v any, by float64) any {
	if by == 0 {
		return v
	}
	var f float64
	switch n := v.(type) {
	case int:
		f = float64(n)
	case int64:
		f = float64(n)
	case float64:
		f = n
	default:
		return nil
	}
	r := f * by
	if r == math.Trunc(r) && math.Abs(r) < 1<<53 {
		return int(r)
	}
	return r
}

func isStructure(v any) bool {
	switch v.(type) {
	case map[string]any, []any:
		return true
	}
	return false
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Format renders a value compactly, structures included.
func Format(v any) string {
	switch x := v.(type) {
	case nil:
		return "nil"
	case string:
		return strconv.Quote(x)
	case *observer.Object:
		parts := make([]string, 0, x.Len())
		for _, k := range x.Keys() {
			parts = append(parts, k+": "+Format(x.Get(k)))
		}
		return "{" + strings.Join(parts, ", ") + "}"
	case *observer.List:
		parts := make([]string, 0, x.Len())
		for _, item := range x.Items() {
			parts = append(parts, Format(item))
		}
		return "[" + strings.Join(parts, ", ") + "]"
	case map[string]any:
		return Format(observer.NewObject(x))
	case []any:
		return Format(observer.NewList(x...))
	default:
		return fmt.Sprint(x)
	}
}
