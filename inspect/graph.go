// Package inspect reports the dependency graph of an instance: every
// watcher it owns and the registries each one is subscribed to.
package inspect

//go:generate qtc -file=graph.qtpl

import (
	"fmt"
	"sort"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/delaneyj/depwatch/instance"
	"github.com/delaneyj/depwatch/observer"
)

type Graph struct {
	Name     string
	Watchers []WatcherNode
}

type WatcherNode struct {
	ID         uint64
	Kind       string
	Expression string
	Dirty      bool
	Active     bool
	Value      string
	Deps       []DepNode
}

type DepNode struct {
	ID          uint64
	Label       string
	Subscribers int
}

// FromInstance snapshots the watchers of in. Registries are labelled with
// the field path they guard where one can be found in the instance's props
// or data, reading nothing as tracked.
func FromInstance(in *instance.Instance) *Graph {
	sys := in.System()
	labels := map[uint64]string{}
	sys.Untracked(func() {
		seen := mapset.NewThreadUnsafeSet[uint64]()
		labelObject(labels, seen, "", in.Props())
		labelObject(labels, seen, "", in.Data())
	})

	g := &Graph{Name: in.Name()}
	for _, w := range in.Watchers() {
		node := WatcherNode{
			ID:         w.ID(),
			Kind:       kindOf(w),
			Expression: w.Expression(),
			Dirty:      w.Dirty(),
			Active:     w.Active(),
			Value:      describe(w.Value()),
		}
		for _, d := range w.Deps() {
			label, ok := labels[d.ID()]
			if !ok {
				label = fmt.Sprintf("dep#%d", d.ID())
			}
			node.Deps = append(node.Deps, DepNode{
				ID:          d.ID(),
				Label:       label,
				Subscribers: d.Len(),
			})
		}
		sort.Slice(node.Deps, func(i, j int) bool {
			return node.Deps[i].ID < node.Deps[j].ID
		})
		g.Watchers = append(g.Watchers, node)
	}
	return g
}

func kindOf(w *observer.Watcher) string {
	switch {
	case w.Lazy():
		return "computed"
	case w.User():
		return "watch"
	default:
		return "render"
	}
}

func labelObject(labels map[uint64]string, seen mapset.Set[uint64], prefix string, o *observer.Object) {
	if o == nil {
		return
	}
	if ob := o.Observer(); ob != nil {
		if !seen.Add(ob.Dep().ID()) {
			return
		}
		if prefix != "" {
			labels[ob.Dep().ID()] = prefix + ".*"
		}
	}
	for _, key := range o.Keys() {
		path := key
		if prefix != "" {
			path = prefix + "." + key
		}
		if d := o.Dep(key); d != nil {
			labels[d.ID()] = path
		}
		labelValue(labels, seen, path, o.Get(key))
	}
}

func labelValue(labels map[uint64]string, seen mapset.Set[uint64], path string, v any) {
	switch x := v.(type) {
	case *observer.Object:
		labelObject(labels, seen, path, x)
	case *observer.List:
		if ob := x.Observer(); ob != nil {
			if !seen.Add(ob.Dep().ID()) {
				return
			}
			labels[ob.Dep().ID()] = path + ".*"
		}
		for i, item := range x.Items() {
			labelValue(labels, seen, fmt.Sprintf("%s.%d", path, i), item)
		}
	}
}

func describe(v any) string {
	switch x := v.(type) {
	case nil:
		return "nil"
	case *observer.Object:
		return fmt.Sprintf("object(%d keys)", x.Len())
	case *observer.List:
		return fmt.Sprintf("list(%d items)", x.Len())
	case string:
		return fmt.Sprintf("%q", x)
	default:
		return fmt.Sprint(x)
	}
}
