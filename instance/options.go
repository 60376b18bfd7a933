package instance

// PropType is a bit set of the kinds a prop accepts. Zero accepts anything.
type PropType uint8

const (
	String PropType = 1 << iota
	Number
	Bool
	Object
	List
	Func

	Any PropType = 0
)

func (t PropType) String() string {
	if t == Any {
		return "Any"
	}
	names := []string{"String", "Number", "Bool", "Object", "List", "Func"}
	s := ""
	for i, name := range names {
		if t&(1<<i) == 0 {
			continue
		}
		if s != "" {
			s += "|"
		}
		s += name
	}
	return s
}

// PropDef declares an external input. Default is either a value or a
// func() any factory; Object and List props must use a factory so
// instances never share one default structure.
type PropDef struct {
	Name      string
	Type      PropType
	Default   any
	Required  bool
	Validator func(value any) bool
}

// Method is bound to its instance when called.
type Method func(in *Instance, args ...any) (any, error)

// ComputedDef declares a derived field. Without NoCache, Get is wrapped in a
// lazy watcher and only re-run when something it read has changed.
type ComputedDef struct {
	Name    string
	Get     func(in *Instance) any
	Set     func(in *Instance, value any)
	NoCache bool
}

// Handler is called with the new and previous value of a watched
// expression.
type Handler func(in *Instance, value, old any) error

// WatchDef declares a watcher on a dotted path. Handler takes precedence
// over HandlerName, which names one of the instance's methods; the method
// is called with the new and old value.
type WatchDef struct {
	Expr        string
	Handler     Handler
	HandlerName string
	Deep        bool
	Immediate   bool
	Sync        bool
}

type WatchOptions struct {
	Deep      bool
	Immediate bool
	Sync      bool
}

// ErrorHandler sees errors raised by the instance's computations and by
// those of its descendants. Returning true stops propagation.
type ErrorHandler func(in *Instance, err error) bool

type Options struct {
	// Name identifies the instance in warnings.
	Name string

	Props     []PropDef
	PropsData map[string]any
	Methods   map[string]Method
	Data      func(in *Instance) map[string]any
	Computed  []ComputedDef
	Watch     []WatchDef

	Render       func(in *Instance) any
	BeforeUpdate func(in *Instance)
	ErrorHandler ErrorHandler

	Parent *Instance
}
