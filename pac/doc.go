// Package pac provides a generic cell that owns a value (the owner) together
// with a second value constructed from a pointer into it (the dependent).
//
// A Pac is built by moving the owner into cell-private storage and running a
// builder exactly once against a pointer to that storage. From then on the
// owner is unreachable from the outside: callers only ever see the dependent,
// one scoped mutable access at a time, until the cell is consumed.
//
// Design goals:
//   - Structural safety: exclusive access to the owner is guaranteed by never
//     handing out a second pointer, not by runtime locking.
//   - Deterministic teardown: the dependent is always disposed strictly
//     before the owner, on every exit path (Unwrap, Close, failed TryNew).
//   - Small surface: four operations plus Close; no reflection, no unsafe,
//     standard library only.
//   - Test-friendly: teardown is observable through the Disposable hook.
//
// Notes on the API shape:
//   - WithMut is a package-level function because Go methods cannot introduce
//     the result type parameter R. The Mut method covers the common case of
//     mutation without a result.
//   - The cell is a single-goroutine value. It provides no cross-goroutine
//     synchronization; share it between goroutines only with external
//     coordination, the same as any other non-synchronized container.
//
// Misuse (re-entering WithMut on the same cell, or touching a cell after it
// was consumed) is rejected with a typed panic rather than silently
// corrupting state; see ReentrantAccessError and ConsumedCellError.
package pac
