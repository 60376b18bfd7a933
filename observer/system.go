package observer

import (
	"log/slog"

	"github.com/delaneyj/depwatch/scheduler"
)

// WarnFunc receives non-fatal diagnostics. args are slog style key/value
// pairs.
type WarnFunc func(msg string, args ...any)

// OnErrorFunc receives errors raised by user computations that no owner
// captured.
type OnErrorFunc func(from any, err error)

// Scheduler coalesces watcher runs requested during one tick.
type Scheduler interface {
	Push(job scheduler.Job)
	Flush()
}

// System owns the dependency graph: the active computation stack, the id
// sequences for registries and watchers, and the scheduler watchers are
// queued on. It is not safe for concurrent use.
type System struct {
	target      *Watcher
	targetStack []*Watcher

	batchDepth    int
	shouldConvert bool

	depSeq     uint64
	watcherSeq uint64

	scheduler Scheduler
	logger    *slog.Logger
	warn      WarnFunc
	onError   OnErrorFunc
	paths     map[uint64][]string
}

type Option func(*System)

func WithScheduler(s Scheduler) Option {
	return func(sys *System) {
		sys.scheduler = s
	}
}

func WithLogger(l *slog.Logger) Option {
	return func(sys *System) {
		sys.logger = l
	}
}

func WithWarnHandler(fn WarnFunc) Option {
	return func(sys *System) {
		sys.warn = fn
	}
}

func WithErrorHandler(fn OnErrorFunc) Option {
	return func(sys *System) {
		sys.onError = fn
	}
}

func NewSystem(opts ...Option) *System {
	sys := &System{
		shouldConvert: true,
		paths:         map[uint64][]string{},
	}
	for _, opt := range opts {
		opt(sys)
	}
	if sys.logger == nil {
		sys.logger = slog.Default()
	}
	if sys.scheduler == nil {
		sys.scheduler = scheduler.New(scheduler.WithErrorHandler(func(err error) {
			sys.logger.Error("scheduler", "error", err)
		}))
	}
	return sys
}

// Target returns the watcher currently collecting dependencies, or nil when
// reads are untracked.
func (sys *System) Target() *Watcher {
	return sys.target
}

func (sys *System) pushTarget(w *Watcher) {
	if sys.target != nil {
		sys.targetStack = append(sys.targetStack, sys.target)
	}
	sys.target = w
}

func (sys *System) popTarget() {
	lastIdx := len(sys.targetStack) - 1
	if lastIdx < 0 {
		sys.target = nil
		return
	}
	sys.target = sys.targetStack[lastIdx]
	sys.targetStack = sys.targetStack[:lastIdx]
}

// Untracked runs fn with dependency collection paused.
func (sys *System) Untracked(fn func()) {
	prev, prevStack := sys.target, sys.targetStack
	sys.target, sys.targetStack = nil, nil
	defer func() {
		sys.target, sys.targetStack = prev, prevStack
	}()
	fn()
}

// WithoutConversion runs fn with structure conversion disabled, so values
// assigned inside fn are stored as given and not observed.
func (sys *System) WithoutConversion(fn func()) {
	prev := sys.shouldConvert
	sys.shouldConvert = false
	defer func() {
		sys.shouldConvert = prev
	}()
	fn()
}

// WithConversion runs fn with structure conversion enabled.
func (sys *System) WithConversion(fn func()) {
	prev := sys.shouldConvert
	sys.shouldConvert = true
	defer func() {
		sys.shouldConvert = prev
	}()
	fn()
}

func (sys *System) StartBatch() {
	sys.batchDepth++
}

func (sys *System) EndBatch() {
	sys.batchDepth--
	if sys.batchDepth == 0 {
		sys.scheduler.Flush()
	}
}

// Batch runs fn as one tick: watchers notified inside it run once, after fn
// returns.
func (sys *System) Batch(fn func()) {
	sys.StartBatch()
	defer sys.EndBatch()
	fn()
}

// Flush runs every queued watcher now.
func (sys *System) Flush() {
	sys.scheduler.Flush()
}

func (sys *System) queue(w *Watcher) {
	sys.scheduler.Push(w)
}

func (sys *System) Warn(msg string, args ...any) {
	if sys.warn != nil {
		sys.warn(msg, args...)
		return
	}
	sys.logger.Warn(msg, args...)
}

// ErrorCapturer is implemented by owners that want first look at errors
// raised by their computations. Returning true stops propagation.
type ErrorCapturer interface {
	CaptureError(err error) bool
}

// HandleError reports err raised during info on behalf of from.
func (sys *System) HandleError(err error, from any, info string) {
	if err == nil {
		return
	}
	err = &EvalError{Info: info, Err: err}
	if c, ok := from.(ErrorCapturer); ok && c.CaptureError(err) {
		return
	}
	if sys.onError != nil {
		sys.onError(from, err)
		return
	}
	sys.logger.Error("unhandled error", "info", info, "error", err)
}
