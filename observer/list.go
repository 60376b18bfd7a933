package observer

import "sort"

// List is an ordered sequence whose membership changes only through its
// mutating methods. Element reads are not tracked individually; reading the
// field that holds the list tracks the list as a whole.
type List struct {
	items []any
	ob    *Observer
}

func NewList(items ...any) *List {
	return &List{items: append([]any(nil), items...)}
}

func (l *List) Len() int {
	return len(l.items)
}

// At returns the element at i, or nil when i is out of range.
func (l *List) At(i int) any {
	if i < 0 || i >= len(l.items) {
		return nil
	}
	return l.items[i]
}

// Items returns a copy of the elements.
func (l *List) Items() []any {
	return append([]any(nil), l.items...)
}

func (l *List) Observer() *Observer {
	return l.ob
}

// Push appends items and returns the new length.
func (l *List) Push(items ...any) int {
	l.items = append(l.items, l.observeInserted(items)...)
	l.changed()
	return len(l.items)
}

func (l *List) Pop() any {
	var v any
	if n := len(l.items); n > 0 {
		v = l.items[n-1]
		l.items[n-1] = nil
		l.items = l.items[:n-1]
	}
	l.changed()
	return v
}

func (l *List) Shift() any {
	var v any
	if len(l.items) > 0 {
		v = l.items[0]
		l.items = append(l.items[:0], l.items[1:]...)
	}
	l.changed()
	return v
}

// Unshift prepends items and returns the new length.
func (l *List) Unshift(items ...any) int {
	items = l.observeInserted(items)
	l.items = append(append(make([]any, 0, len(items)+len(l.items)), items...), l.items...)
	l.changed()
	return len(l.items)
}

// InsertAt inserts item before index i. Out of range indexes clamp to the
// ends of the list.
func (l *List) InsertAt(i int, item any) {
	l.Splice(i, 0, item)
}

// RemoveAt removes and returns the element at i, or nil when i is out of
// range.
func (l *List) RemoveAt(i int) any {
	if i < 0 || i >= len(l.items) {
		return nil
	}
	return l.Splice(i, 1)[0]
}

// SetAt replaces the element at i, growing the list with nils when i is
// past the end.
func (l *List) SetAt(i int, item any) {
	if i < 0 {
		return
	}
	for len(l.items) < i {
		l.items = append(l.items, nil)
	}
	l.Splice(i, 1, item)
}

// Splice removes deleteCount elements starting at start, inserts items in
// their place and returns the removed elements. A negative start counts
// back from the end.
func (l *List) Splice(start, deleteCount int, items ...any) []any {
	n := len(l.items)
	switch {
	case start < 0:
		start = max(n+start, 0)
	case start > n:
		start = n
	}
	deleteCount = min(max(deleteCount, 0), n-start)

	removed := append([]any(nil), l.items[start:start+deleteCount]...)
	items = l.observeInserted(items)

	next := make([]any, 0, n-deleteCount+len(items))
	next = append(next, l.items[:start]...)
	next = append(next, items...)
	next = append(next, l.items[start+deleteCount:]...)
	l.items = next

	l.changed()
	return removed
}

// Sort orders the list in place with a stable sort.
func (l *List) Sort(less func(a, b any) bool) {
	sort.SliceStable(l.items, func(i, j int) bool {
		return less(l.items[i], l.items[j])
	})
	l.changed()
}

func (l *List) Reverse() {
	for i, j := 0, len(l.items)-1; i < j; i, j = i+1, j-1 {
		l.items[i], l.items[j] = l.items[j], l.items[i]
	}
	l.changed()
}

func (l *List) observeInserted(items []any) []any {
	if l.ob == nil || len(items) == 0 {
		return items
	}
	out := make([]any, len(items))
	for i, item := range items {
		out[i], _ = l.ob.sys.observeValue(item)
	}
	return out
}

func (l *List) changed() {
	if l.ob != nil {
		l.ob.dep.Notify()
	}
}
