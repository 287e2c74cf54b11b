// Package watch recompiles description documents when they change on disk.
//
// A FileWatcher wraps fsnotify, filters events by extension and optionally by
// an explicit set of tracked files, and debounces bursts into one callback:
//
//	w, err := watch.NewFileWatcher(&watch.Config{
//		Paths:    []string{"robot.xml"},
//		Debounce: 200 * time.Millisecond,
//		Extensions: []string{".xml", ".yaml"},
//	}, logger)
//	...
//	err = w.Watch(ctx, func(path string) error {
//		res, err := compiler.Compile(ctx, entry)
//		...
//		return w.Track(res.Sources)
//	})
package watch
