package atom

// Always returns a predicate that holds for every state.
func Always[T any]() Predicate[T] {
	return func(T) bool { return true }
}

// Never returns a predicate that holds for no state. Operations gated on it
// stay queued until their context ends.
func Never[T any]() Predicate[T] {
	return func(T) bool { return false }
}

// Equal returns a predicate that holds when the state equals v.
func Equal[T comparable](v T) Predicate[T] {
	return func(s T) bool { return s == v }
}

// Not negates p.
func Not[T any](p Predicate[T]) Predicate[T] {
	return func(s T) bool { return !p(s) }
}

// And holds when every predicate holds. And() holds for every state.
func And[T any](ps ...Predicate[T]) Predicate[T] {
	return func(s T) bool {
		for _, p := range ps {
			if !p(s) {
				return false
			}
		}
		return true
	}
}

// Or holds when any predicate holds. Or() holds for no state.
func Or[T any](ps ...Predicate[T]) Predicate[T] {
	return func(s T) bool {
		for _, p := range ps {
			if p(s) {
				return true
			}
		}
		return false
	}
}
