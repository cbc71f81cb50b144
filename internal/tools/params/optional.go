package params

// Optional holds a parameter value that may have been omitted by the caller.
// The zero value is absent.
type Optional[T any] struct {
	v   T
	set bool
}

// Some returns a present Optional holding v.
func Some[T any](v T) Optional[T] {
	return Optional[T]{v: v, set: true}
}

// None returns an absent Optional.
func None[T any]() Optional[T] {
	return Optional[T]{}
}

// Get returns the value and whether it is present.
func (o Optional[T]) Get() (T, bool) {
	return o.v, o.set
}

// IsSet reports whether a value is present.
func (o Optional[T]) IsSet() bool {
	return o.set
}

// OrElse returns the value if present, otherwise def.
func (o Optional[T]) OrElse(def T) T {
	if o.set {
		return o.v
	}
	return def
}

func (o Optional[T]) unwrap() (any, bool) {
	return o.v, o.set
}

// maybe is implemented by every Optional instantiation.
type maybe interface {
	unwrap() (any, bool)
}
