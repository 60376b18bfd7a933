// Package observer is a fine grained dependency tracking engine.
//
// Structures (Object and List) are observed by a System. Every read of an
// observed field made while a Watcher evaluates subscribes that watcher to
// the field's Dep; every write of a different value notifies it. Watchers
// are either eager, queueing a re-run on the System's scheduler, or lazy,
// only marking themselves dirty until pulled.
//
//	sys := observer.NewSystem()
//	state := observer.NewObject(map[string]any{"count": 0})
//	sys.Observe(state, false)
//
//	sys.NewWatcher(func() any {
//		return state.Get("count").(int) * 2
//	}, func(value, old any) error {
//		log.Printf("%v -> %v", old, value)
//		return nil
//	}, observer.WatcherOptions{})
//
//	state.Set("count", 5) // logs 0 -> 10
package observer
