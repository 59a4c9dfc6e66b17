// Package observable provides the single-slot reactive cell that every piece
// of editor state is published through.
//
// A [Value] holds the last known value of something and synchronously
// notifies its subscribers, in subscription order, whenever [Value.Set]
// stores a different value. Owners keep the *Value; everybody else only
// receives the [Readable] view.
//
// # Example
//
//	seats := observable.Comparable(0)
//	stop := seats.Subscribe(func(v int) { fmt.Println("seats:", v) })
//	seats.Set(12)
//	stop()
//
// # Thread Safety
//
// Values are NOT thread-safe. They are meant to be driven from a single host
// loop, the same way the simulation drives its update callbacks.
package observable
