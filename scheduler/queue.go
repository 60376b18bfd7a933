package scheduler

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const DefaultMaxUpdateCount = 100

var ErrInfiniteUpdate = errors.New("scheduler: possible infinite update loop")

// Job is a unit of work that can be queued at most once per flush. Jobs run
// in ascending ID order.
type Job interface {
	ID() uint64
	Run()
}

// Beforer is implemented by jobs that need a hook ahead of each run.
type Beforer interface {
	Before()
}

type Queue struct {
	jobs     []Job
	has      map[uint64]bool
	circular map[uint64]int
	flushing bool
	index    int

	maxUpdateCount int
	onError        func(error)
	metrics        *metrics
}

type Option func(*Queue)

// WithMaxUpdateCount sets how many times one job may be re-queued during a
// single flush before the flush is aborted.
func WithMaxUpdateCount(n int) Option {
	return func(q *Queue) {
		q.maxUpdateCount = n
	}
}

func WithErrorHandler(fn func(error)) Option {
	return func(q *Queue) {
		q.onError = fn
	}
}

// WithRegisterer registers the queue's metrics with reg.
func WithRegisterer(reg prometheus.Registerer) Option {
	return func(q *Queue) {
		q.metrics = newMetrics(reg)
	}
}

func New(opts ...Option) *Queue {
	q := &Queue{
		has:            map[uint64]bool{},
		circular:       map[uint64]int{},
		maxUpdateCount: DefaultMaxUpdateCount,
	}
	for _, opt := range opts {
		opt(q)
	}
	return q
}

// Push queues job unless it is already waiting. While flushing, the job is
// spliced in by ID after the job currently running so it runs in this
// flush.
func (q *Queue) Push(job Job) {
	id := job.ID()
	if q.has[id] {
		return
	}
	q.has[id] = true
	q.metrics.queued()

	if !q.flushing {
		q.jobs = append(q.jobs, job)
		return
	}
	i := len(q.jobs) - 1
	for i > q.index && q.jobs[i].ID() > id {
		i--
	}
	q.jobs = append(q.jobs, nil)
	copy(q.jobs[i+2:], q.jobs[i+1:])
	q.jobs[i+1] = job
}

// Flush runs every queued job. Calls made while a flush is in progress
// return immediately; jobs queued meanwhile run in the current flush.
func (q *Queue) Flush() {
	if q.flushing || len(q.jobs) == 0 {
		return
	}
	q.flushing = true
	start := time.Now()
	defer func() {
		q.reset()
		q.metrics.flushed(time.Since(start))
	}()

	sort.SliceStable(q.jobs, func(i, j int) bool {
		return q.jobs[i].ID() < q.jobs[j].ID()
	})

	for q.index = 0; q.index < len(q.jobs); q.index++ {
		job := q.jobs[q.index]
		id := job.ID()
		delete(q.has, id)
		if b, ok := job.(Beforer); ok {
			b.Before()
		}
		job.Run()
		q.metrics.ran()

		if q.has[id] {
			q.circular[id]++
			if q.circular[id] > q.maxUpdateCount {
				q.metrics.circular()
				if q.onError != nil {
					q.onError(fmt.Errorf("%w: job %d re-queued %d times in one flush", ErrInfiniteUpdate, id, q.circular[id]))
				}
				return
			}
		}
	}
}

func (q *Queue) reset() {
	clear(q.jobs)
	q.jobs = q.jobs[:0]
	clear(q.has)
	clear(q.circular)
	q.index = 0
	q.flushing = false
}

// Len is the number of jobs waiting.
func (q *Queue) Len() int {
	return len(q.jobs)
}

func (q *Queue) Flushing() bool {
	return q.flushing
}
