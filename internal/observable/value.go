package observable

// Readable is the read and subscribe half of a [Value].
type Readable[T any] interface {
	Get() T
	HasValue() bool
	Subscribe(fn func(T)) (unsubscribe func())
}

// PanicHandler receives whatever a subscriber panicked with.
type PanicHandler func(recovered any)

type subscription[T any] struct {
	id int
	fn func(T)
}

// Value is a reactive cell. The zero value is not usable, create one with
// [New], [Empty] or [Comparable].
type Value[T any] struct {
	value    T
	hasValue bool
	equal    func(a, b T) bool
	subs     []subscription[T]
	nextID   int
	gen      int
	onPanic  PanicHandler
}

// New returns a cell holding initial. Every Set notifies, even when the new
// value equals the old one.
func New[T any](initial T) *Value[T] {
	return &Value[T]{value: initial, hasValue: true}
}

// Empty returns a cell without a value. Subscribers are not called on
// subscription until the first Set.
func Empty[T any]() *Value[T] {
	return &Value[T]{}
}

// Comparable returns a cell that skips notification when Set receives a
// value equal to the stored one.
func Comparable[T comparable](initial T) *Value[T] {
	return &Value[T]{
		value:    initial,
		hasValue: true,
		equal:    func(a, b T) bool { return a == b },
	}
}

// WithEqual installs a custom equality used to suppress redundant
// notifications. It returns v for chaining.
func (v *Value[T]) WithEqual(eq func(a, b T) bool) *Value[T] {
	v.equal = eq
	return v
}

// OnPanic installs the handler for panicking subscribers. Without one the
// panic is swallowed so the remaining subscribers still run.
func (v *Value[T]) OnPanic(h PanicHandler) *Value[T] {
	v.onPanic = h
	return v
}

// Get returns the current value.
func (v *Value[T]) Get() T {
	return v.value
}

// HasValue reports whether the cell was ever given a value.
func (v *Value[T]) HasValue() bool {
	return v.hasValue
}

// Set stores val and notifies every subscriber with it, unless the cell
// already held an equal value. A Set from inside a subscriber notifies
// everyone with the newer value and ends the pass that was running, so no
// subscriber is left holding a value the cell no longer has.
func (v *Value[T]) Set(val T) {
	if v.hasValue && v.equal != nil && v.equal(v.value, val) {
		return
	}
	v.value = val
	v.hasValue = true
	v.gen++
	gen := v.gen

	// Iterate over a snapshot; subscribers may subscribe or unsubscribe
	// while being notified.
	subs := make([]subscription[T], len(v.subs))
	copy(subs, v.subs)
	for _, s := range subs {
		if v.gen != gen {
			return
		}
		v.call(s.fn, v.value)
	}
}

// Subscribe registers fn and, if the cell already holds a value, calls it
// immediately with that value. The returned function removes the
// subscription.
func (v *Value[T]) Subscribe(fn func(T)) func() {
	v.nextID++
	id := v.nextID
	v.subs = append(v.subs, subscription[T]{id: id, fn: fn})

	if v.hasValue {
		v.call(fn, v.value)
	}
	return func() { v.unsubscribe(id) }
}

// Subscribers returns the number of live subscriptions.
func (v *Value[T]) Subscribers() int {
	return len(v.subs)
}

// Clear drops every subscription, used when the owner is torn down.
func (v *Value[T]) Clear() {
	v.subs = nil
}

func (v *Value[T]) unsubscribe(id int) {
	for i, s := range v.subs {
		if s.id == id {
			v.subs = append(v.subs[:i:i], v.subs[i+1:]...)
			return
		}
	}
}

func (v *Value[T]) call(fn func(T), val T) {
	defer func() {
		if r := recover(); r != nil && v.onPanic != nil {
			v.onPanic(r)
		}
	}()
	fn(val)
}
