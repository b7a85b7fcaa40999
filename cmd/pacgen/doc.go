// Command pacgen — generates concrete named wrappers over the generic cell.
//
// The generic core (package pac) is fully usable on its own; some call sites
// simply read better with a dedicated type: NewEngineFuel(...) instead of
// pac.New[Engine, Fuel](...). pacgen emits exactly that naming layer. The
// generated code forwards every operation to the core and adds no behavior,
// so a wrapper is always interchangeable with the generic cell it wraps.
//
// Usage
//
// Put a spec file next to the package that should receive the wrapper, add a
// go:generate directive to any Go file in it, and run go generate:
//
//	//go:generate go run github.com/pacgo/paccell/cmd/pacgen -spec ./specs/engine_fuel.pac.json -out ./engine_fuel.gen.go
//
// Spec format
//
// Specs are JSON (*.pac.json) or TOML (*.pac.toml); the decoder is chosen by
// file extension. Fields:
//
//	{
//	  "package": "vehicle",          // target package name (required)
//	  "name": "EngineFuel",          // wrapper type name (required)
//	  "owner": "Engine",             // owner type expression (required)
//	  "dependent": "Fuel",           // dependent type expression (required)
//	  "imports": [                   // extra imports the type expressions need
//	    { "alias": "", "path": "example.com/some/pkg" }
//	  ],
//	  "core": ""                     // core import path override, rarely needed
//	}
//
// Owner and dependent may be any Go type expression valid in the target
// package, including qualified names; list the packages they mention under
// imports.
//
// Generated API
//
// For a spec with name X over (P, C), pacgen emits:
//
//	type X struct{ ... }
//	func NewX(owner P, build func(owner *P) C) *X
//	func TryNewX(owner P, build func(owner *P) (C, error)) (*X, error)
//	func (c *X) WithMut(fn func(dep *C))
//	func XWith[R any](c *X, fn func(dep *C) R) R
//	func (c *X) Unwrap() P
//	func (c *X) Close() error
//
// XWith is package-level because Go methods cannot introduce the result type
// parameter.
//
// Behaviors
//
//   - The spec is validated up front; missing fields are reported together.
//   - The output goes through go/format before it is written, so generation
//     fails loudly on a malformed type expression instead of producing a
//     file that breaks the build.
//   - Output is written atomically (temp file + rename), so readers never
//     observe a partial file.
//   - When the output directory contains a Go file with a go:generate
//     directive invoking pacgen, its package clause is checked against the
//     spec's package to catch copy-paste mistakes across packages.
package main
