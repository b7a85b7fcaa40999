// test_helpers.go
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

//
// -----------------------------------------------------------------------------
// Shared fixtures
// -----------------------------------------------------------------------------

// minimalSpecJSON returns a minimal wrapper spec JSON that passes
// validateSpec and allows run() to generate output.
func minimalSpecJSON() []byte {
	return []byte(`{
  "package": "vehicle",
  "name": "EngineFuel",
  "owner": "Engine",
  "dependent": "Fuel"
}`)
}

// minimalSpecTOML is the same spec in TOML form.
func minimalSpecTOML() []byte {
	return []byte(`package = "vehicle"
name = "EngineFuel"
owner = "Engine"
dependent = "Fuel"
`)
}

// writeSpecFile writes data as a spec file under dir and returns its path.
func writeSpecFile(t *testing.T, dir, name string, data []byte) string {
	t.Helper()

	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path
}

//
// -----------------------------------------------------------------------------
// Panic helpers
// -----------------------------------------------------------------------------

// requirePanicContains asserts fn panics and the panic message contains wantSub.
func requirePanicContains(t *testing.T, wantSub string, fn func()) {
	t.Helper()

	defer func() {
		recovered := recover()
		require.NotNil(t, recovered)

		var message string
		switch v := recovered.(type) {
		case error:
			message = v.Error()
		case string:
			message = v
		default:
			message = fmt.Sprintf("%v", v)
		}
		require.Contains(t, message, wantSub)
	}()

	fn()
}

//
// -----------------------------------------------------------------------------
// writeFileAtomic() seam helpers
// -----------------------------------------------------------------------------

// fakeTempFile is a controllable file-like object for writeFileAtomic tests.
// It lets us force errors on Write and Close without using a real file.
type fakeTempFile struct {
	fileName string
	writeErr error
	closeErr error
}

func (f *fakeTempFile) Name() string { return f.fileName }

func (f *fakeTempFile) Write(p []byte) (int, error) {
	if f.writeErr != nil {
		return 0, f.writeErr
	}
	return len(p), nil
}

func (f *fakeTempFile) Close() error {
	return f.closeErr
}

// setWriteFileSeams overrides the global seams used by writeFileAtomic and
// restores the originals on test cleanup. Pass nil for any seam you don't
// want to override.
func setWriteFileSeams(
	t *testing.T,
	createFn func(string, string) (tempFile, error),
	removeFn func(path string) error,
	chmodFn func(path string, mode os.FileMode) error,
	renameFn func(oldpath, newpath string) error,
) {
	t.Helper()

	origCreate, origRemove, origChmod, origRename := createTempFile, removeFile, chmodFile, renameFile
	t.Cleanup(func() {
		createTempFile, removeFile, chmodFile, renameFile = origCreate, origRemove, origChmod, origRename
	})

	if createFn != nil {
		createTempFile = createFn
	}
	if removeFn != nil {
		removeFile = removeFn
	}
	if chmodFn != nil {
		chmodFile = chmodFn
	}
	if renameFn != nil {
		renameFile = renameFn
	}
}
