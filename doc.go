// Package paccell bundles an owner value and a dependent value that borrows
// from it into a single movable cell.
//
// The problem this repository solves: you construct a value (the dependent)
// out of a pointer into another value (the owner), and you want to store and
// move both together without ever re-exposing the owner while the dependent
// is alive, and without ever tearing the owner down before the dependent.
//
// The repository is intentionally small:
//
//   - a generic core with four operations (New, TryNew, WithMut, Unwrap)
//     plus deterministic teardown (Close)
//   - a code generator that emits a concrete named wrapper per (owner,
//     dependent) pair, for call sites that prefer plain names over generics
//   - runnable examples exercising both
//
// The core enforces its contract structurally: after construction the owner
// is never handed out again, mutable access goes through one scoped function
// at a time, and disposal always runs dependent teardown strictly before
// owner teardown.
//
// See subpackages:
//   - pac: the generic cell
//   - cmd/pacgen: the wrapper generator
//   - examples/*: runnable examples (hello, vehicle)
package paccell
