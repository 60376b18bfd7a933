package observer

import "slices"

// Subscriber is notified by a Dep when the location it guards changes.
type Subscriber interface {
	ID() uint64
	AddDep(d *Dep)
	Update()
}

// Dep is the subscriber list for one mutable location: a field, or the
// membership of an observed structure.
type Dep struct {
	sys  *System
	id   uint64
	subs []Subscriber
}

func (sys *System) NewDep() *Dep {
	sys.depSeq++
	return &Dep{sys: sys, id: sys.depSeq}
}

func (d *Dep) ID() uint64 {
	return d.id
}

// AddSub subscribes sub. Subscribing twice is a no-op.
func (d *Dep) AddSub(sub Subscriber) {
	for _, s := range d.subs {
		if s == sub {
			return
		}
	}
	d.subs = append(d.subs, sub)
}

func (d *Dep) RemoveSub(sub Subscriber) {
	for i, s := range d.subs {
		if s == sub {
			d.subs = append(d.subs[:i], d.subs[i+1:]...)
			return
		}
	}
}

// Depend links the active watcher, if any, with d in both directions.
func (d *Dep) Depend() {
	if t := d.sys.target; t != nil {
		t.AddDep(d)
	}
}

// Notify asks every subscriber to update, oldest subscriber first. The
// subscriber list is snapshotted so subscriptions made while notifying only
// take effect on the next change.
func (d *Dep) Notify() {
	subs := slices.Clone(d.subs)
	slices.SortStableFunc(subs, func(a, b Subscriber) int {
		switch {
		case a.ID() < b.ID():
			return -1
		case a.ID() > b.ID():
			return 1
		default:
			return 0
		}
	})

	d.sys.StartBatch()
	defer d.sys.EndBatch()
	for _, sub := range subs {
		sub.Update()
	}
}

// Subscribers returns a snapshot of the current subscribers.
func (d *Dep) Subscribers() []Subscriber {
	return slices.Clone(d.subs)
}

func (d *Dep) Len() int {
	return len(d.subs)
}
