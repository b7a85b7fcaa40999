package pac

import "errors"

var (
	// ErrNilBuilder is returned by TryNew (and panicked by New) when the
	// builder function is nil.
	ErrNilBuilder = errors.New("pac: nil builder")

	// ErrNilFunc is panicked when a nil function is passed to WithMut or Mut.
	ErrNilFunc = errors.New("pac: nil function")
)

// ReentrantAccessError is the panic value raised when a cell operation is
// invoked while a WithMut call on the same cell is still running.
//
// Overlapping access would hand out a second live pointer to the dependent,
// so it is rejected outright instead of being tolerated.
type ReentrantAccessError struct{}

// Error implements the error interface.
func (ReentrantAccessError) Error() string {
	return "pac: reentrant access to cell during WithMut"
}

// ConsumedCellError is the panic value raised when a cell is used after it
// was consumed by Unwrap or Close.
type ConsumedCellError struct {
	// Op is the operation that was attempted, e.g. "WithMut".
	Op string
}

// Error implements the error interface.
func (e ConsumedCellError) Error() string {
	return "pac: " + e.Op + " on consumed cell"
}

// Disposable hooks a value's teardown. Owners and dependents may implement
// it to run cleanup when the cell disposes them; values that don't are
// simply released to the garbage collector.
type Disposable interface {
	Dispose()
}

// Pac is a cell of an owner and a dependent, where the dependent is
// constructed from a pointer to the owner.
//
// While the owner is in the cell it cannot be accessed in any way; the cell
// only exposes the dependent, via WithMut or Mut. Consuming the cell with
// Unwrap disposes the dependent and hands the owner back.
//
// This is useful in the rare case when you need to store and move an owner
// and a value borrowing from it together.
//
// Basic usage:
//
//	type hello struct{ world int64 }
//
//	cell := pac.New(hello{world: 10}, func(h *hello) *int64 {
//		return &h.world
//	})
//
//	initial := pac.WithMut(cell, func(w **int64) int64 {
//		i := **w
//		**w = 12
//		return i
//	})
//	// initial == 10
//
//	again := cell.Unwrap()
//	// again.world == 12
//
// A Pac is a single-goroutine value and must not be copied after first use;
// pass it by pointer.
type Pac[P, C any] struct {
	inner *inner[P, C]
}

// inner is the cell's backing storage. The owner lives here, behind the
// cell, for the cell's whole lifetime; the builder's *P and any pointers the
// dependent derived from it alias this allocation and stay valid until the
// cell is consumed.
type inner[P, C any] struct {
	owner P
	dep   C

	// inWith guards against overlapping access to dep.
	inWith bool

	// consumed flips exactly once, on Unwrap or Close.
	consumed bool
}

// New creates a cell by moving owner into cell-private storage and calling
// build exactly once with a pointer to the stored owner. The returned value
// becomes the dependent.
//
// build must not retain the owner pointer (or pointers derived from it)
// anywhere outside the dependent it returns.
//
// New panics on a nil builder; use TryNew for a fallible builder.
func New[P, C any](owner P, build func(owner *P) C) *Pac[P, C] {
	if build == nil {
		panic(ErrNilBuilder)
	}
	cell, err := TryNew(owner, func(p *P) (C, error) {
		return build(p), nil
	})
	if err != nil {
		// Unreachable: the adapted builder never fails.
		panic(err)
	}
	return cell
}

// TryNew is New with a fallible builder.
//
// If build fails, the owner's teardown hook runs exactly once, no cell is
// produced, and the builder's error is returned as-is. The same holds if
// build panics: the owner is disposed before the panic propagates.
func TryNew[P, C any](owner P, build func(owner *P) (C, error)) (*Pac[P, C], error) {
	in := &inner[P, C]{owner: owner}
	if build == nil {
		dispose(&in.owner)
		return nil, ErrNilBuilder
	}

	built := false
	defer func() {
		if !built {
			dispose(&in.owner)
		}
	}()

	dep, err := build(&in.owner)
	if err != nil {
		return nil, err
	}
	in.dep = dep
	built = true

	return &Pac[P, C]{inner: in}, nil
}

// WithMut executes fn with a mutable pointer to the dependent and returns
// fn's result. It can be called any number of times, but calls must not
// overlap: re-entering the same cell from inside fn panics with
// ReentrantAccessError.
//
// fn must not retain the dependent pointer beyond the call.
//
// WithMut is package-level rather than a method because the result type R
// cannot be introduced by a method. For mutation without a result, Mut is
// the more convenient form.
func WithMut[P, C, R any](c *Pac[P, C], fn func(dep *C) R) R {
	if fn == nil {
		panic(ErrNilFunc)
	}
	in := c.enter("WithMut")
	defer func() { in.inWith = false }()
	return fn(&in.dep)
}

// Mut executes fn with a mutable pointer to the dependent. It is WithMut
// without a result.
func (c *Pac[P, C]) Mut(fn func(dep *C)) {
	if fn == nil {
		panic(ErrNilFunc)
	}
	WithMut(c, func(dep *C) struct{} {
		fn(dep)
		return struct{}{}
	})
}

// Unwrap consumes the cell: it disposes the dependent, then moves the owner
// out and returns it. Any further use of the cell panics with
// ConsumedCellError.
func (c *Pac[P, C]) Unwrap() P {
	in := c.enter("Unwrap")
	in.consumed = true
	dispose(&in.dep)
	owner := in.owner
	c.inner = nil
	return owner
}

// Close disposes the cell without recovering the owner: dependent teardown
// first, then owner teardown, then the backing storage is released.
//
// Close is idempotent and is a no-op after Unwrap, so it is safe to defer
// unconditionally. It always returns nil; the error result exists so a Pac
// satisfies io.Closer.
func (c *Pac[P, C]) Close() error {
	if c == nil {
		return nil
	}
	in := c.inner
	if in == nil || in.consumed {
		return nil
	}
	if in.inWith {
		panic(ReentrantAccessError{})
	}
	in.consumed = true
	dispose(&in.dep)
	dispose(&in.owner)
	c.inner = nil
	return nil
}

// enter validates that the cell is live and not mid-WithMut, then marks it
// entered. Callers that only need the validation reset inWith themselves.
func (c *Pac[P, C]) enter(op string) *inner[P, C] {
	if c == nil {
		panic(ConsumedCellError{Op: op})
	}
	in := c.inner
	if in == nil || in.consumed {
		panic(ConsumedCellError{Op: op})
	}
	if in.inWith {
		panic(ReentrantAccessError{})
	}
	in.inWith = true
	return in
}

// dispose runs v's teardown hook if it has one. v is always a pointer, so
// hooks with either value or pointer receivers are honored.
func dispose(v any) {
	if d, ok := v.(Disposable); ok {
		d.Dispose()
	}
}
