package observer

import mapset "github.com/deckarep/golang-set/v2"

// traverse reads every nested field of v so the active watcher depends on
// all of them.
func (sys *System) traverse(v any) {
	seen := mapset.NewThreadUnsafeSet[uint64]()
	traverseInto(v, seen)
}

func traverseInto(v any, seen mapset.Set[uint64]) {
	switch x := v.(type) {
	case *Object:
		if x.frozen {
			return
		}
		if x.ob != nil {
			if !seen.Add(x.ob.dep.id) {
				return
			}
		}
		for _, key := range x.Keys() {
			traverseInto(x.Get(key), seen)
		}
	case *List:
		if x.ob != nil {
			if !seen.Add(x.ob.dep.id) {
				return
			}
		}
		for _, item := range x.items {
			traverseInto(item, seen)
		}
	}
}
