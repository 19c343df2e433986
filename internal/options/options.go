// Package options implements the functional-options pattern used to build
// *codec.DecodeOptions and *codec.EncodeOptions from a caller's WithXxx
// calls. It knows nothing about ETF; it only threads a *T through a chain
// of configuration steps and stops at the first one that returns an error.
// None of codec's current WithXxx steps ever returns one.
package options

// Option configures a *T, built via New or NoError rather than
// constructed directly: the concrete type behind it is deliberately
// unexported, since codec's WithXxx functions only ever need to return and
// compose the interface, never inspect it.
type Option[T any] interface {
	apply(T) error
}

// funcOption adapts a plain function into an Option.
type funcOption[T any] struct {
	fn func(T) error
}

func (f *funcOption[T]) apply(target T) error {
	return f.fn(target)
}

// New wraps fn, an option step that returns an error, as an Option.
// codec's WithDecodeHook and WithEncodeHook are built this way, though
// their steps always return nil.
func New[T any](fn func(T) error) Option[T] {
	return &funcOption[T]{fn: fn}
}

// NoError wraps fn, an option step that cannot fail (a plain field
// assignment, as most of codec's WithXxx constructors are), as an Option.
func NoError[T any](fn func(T)) Option[T] {
	return &funcOption[T]{
		fn: func(target T) error {
			fn(target)

			return nil
		},
	}
}

// Apply runs opts against target in order, stopping at the first error.
// codec.NewDecodeOptions and codec.NewEncodeOptions call this once each,
// over a freshly zeroed options struct.
func Apply[T any](target T, opts ...Option[T]) error {
	for _, opt := range opts {
		if err := opt.apply(target); err != nil {
			return err
		}
	}

	return nil
}
