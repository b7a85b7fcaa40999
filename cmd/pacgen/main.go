// cmd/pacgen/main.go
package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"go/format"
	"go/parser"
	"go/token"
	"io"
	"os"
	"path/filepath"
	"strings"
	"text/template"

	"github.com/BurntSushi/toml"
)

// defaultCoreImport is the import path of the generic cell the generated
// wrappers forward to.
const defaultCoreImport = "github.com/pacgo/paccell/pac"

// ImportSpec models one Go import needed by the owner/dependent type
// expressions: optional alias and full import path.
type ImportSpec struct {
	Alias string `json:"alias" toml:"alias"`
	Path  string `json:"path" toml:"path"`
}

// Spec is the full input schema consumed by the generator.
type Spec struct {
	// Package is the target package name of the generated file.
	Package string `json:"package" toml:"package"`

	// Name is the wrapper type name, e.g. EngineFuel.
	Name string `json:"name" toml:"name"`

	// Owner and Dependent are Go type expressions valid in the target
	// package (imports below included).
	Owner     string `json:"owner" toml:"owner"`
	Dependent string `json:"dependent" toml:"dependent"`

	// Imports lists extra packages the type expressions mention.
	Imports []ImportSpec `json:"imports" toml:"imports"`

	// Core overrides the cell core import path. Empty means the default;
	// the override exists for forks and vendoring setups.
	Core string `json:"core" toml:"core"`
}

// run executes the generator logic and returns an exit code.
// It exists separately from main to allow unit testing without os.Exit.
func run(args []string, stderr io.Writer) int {
	flags := flag.NewFlagSet("pacgen", flag.ContinueOnError)
	flags.SetOutput(stderr)

	specPath := flags.String("spec", "", "path to wrapper spec (*.pac.json or *.pac.toml)")
	outPath := flags.String("out", "", "output .gen.go file path")

	if err := flags.Parse(args); err != nil {
		return 2
	}

	if strings.TrimSpace(*specPath) == "" || strings.TrimSpace(*outPath) == "" {
		_, _ = fmt.Fprintln(stderr, "usage: pacgen -spec <file.pac.json|file.pac.toml> -out <file.gen.go>")
		return 2
	}

	spec, err := loadSpec(*specPath)
	must(err)

	validateSpec(&spec)

	if strings.TrimSpace(spec.Core) == "" {
		spec.Core = defaultCoreImport
	}

	generatedFilePath := filepath.Clean(*outPath)
	packageDir := filepath.Dir(generatedFilePath)

	// Cross-check the spec's package against the owner file, when one is
	// discoverable. Generation proceeds without an owner file: pacgen can
	// also run standalone against an empty directory.
	if ownerGoFilePath, err := findOwnerGoGenerateFile(packageDir); err == nil {
		must(checkOwnerPackage(ownerGoFilePath, spec.Package))
	}

	code, err := render(spec)
	must(err)

	must(writeFileAtomic(generatedFilePath, code, 0o644))

	fmt.Printf("generated %s from %s\n", generatedFilePath, *specPath)
	return 0
}

func main() {
	os.Exit(run(os.Args[1:], os.Stderr))
}

// loadSpec reads and decodes a spec file, selecting the decoder by
// extension: .toml is TOML, everything else is JSON.
func loadSpec(path string) (Spec, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Spec{}, fmt.Errorf("read spec: %w", err)
	}

	var spec Spec
	if strings.EqualFold(filepath.Ext(path), ".toml") {
		if err := toml.Unmarshal(raw, &spec); err != nil {
			return Spec{}, fmt.Errorf("parse spec: %w", err)
		}
		return spec, nil
	}
	if err := json.Unmarshal(raw, &spec); err != nil {
		return Spec{}, fmt.Errorf("parse spec: %w", err)
	}
	return spec, nil
}

// validateSpec validates semantic correctness of the input specification.
func validateSpec(spec *Spec) {
	var missingFields []string

	requireNonEmpty := func(fieldName, value string) {
		if strings.TrimSpace(value) == "" {
			missingFields = append(missingFields, fieldName)
		}
	}

	requireNonEmpty("package", spec.Package)
	requireNonEmpty("name", spec.Name)
	requireNonEmpty("owner", spec.Owner)
	requireNonEmpty("dependent", spec.Dependent)

	if len(missingFields) > 0 {
		panic(fmt.Errorf("spec missing required fields: %v", missingFields))
	}

	seenPaths := make(map[string]struct{}, len(spec.Imports))
	for _, imp := range spec.Imports {
		if strings.TrimSpace(imp.Path) == "" {
			panic(fmt.Errorf("each import must have a path; got: %+v", imp))
		}
		if _, ok := seenPaths[imp.Path]; ok {
			panic(fmt.Errorf("duplicate import path: %s", imp.Path))
		}
		seenPaths[imp.Path] = struct{}{}
	}
}

// findOwnerGoGenerateFile finds the Go source file in packageDir that
// contains a go:generate directive invoking pacgen.
func findOwnerGoGenerateFile(packageDir string) (string, error) {
	dirEntries, err := os.ReadDir(packageDir)
	if err != nil {
		return "", err
	}

	for _, entry := range dirEntries {
		if entry.IsDir() {
			continue
		}

		fileName := entry.Name()
		if !strings.HasSuffix(fileName, ".go") ||
			strings.HasSuffix(fileName, "_test.go") ||
			strings.HasSuffix(fileName, ".gen.go") {
			continue
		}

		filePath := filepath.Join(packageDir, fileName)
		fileBytes, err := os.ReadFile(filePath)
		if err != nil {
			// Best-effort: unreadable file shouldn’t break generation.
			continue
		}

		if bytes.Contains(fileBytes, []byte("go:generate")) && bytes.Contains(fileBytes, []byte("pacgen")) {
			return filePath, nil
		}
	}

	return "", fmt.Errorf("could not find owner file with go:generate invoking pacgen in %s", packageDir)
}

// checkOwnerPackage verifies the owner file's package clause matches the
// spec's target package.
func checkOwnerPackage(ownerGoFilePath, wantPackage string) error {
	fileSet := token.NewFileSet()
	parsedFile, err := parser.ParseFile(fileSet, ownerGoFilePath, nil, parser.PackageClauseOnly)
	if err != nil {
		return fmt.Errorf("parse owner file: %w", err)
	}

	if got := parsedFile.Name.Name; got != wantPackage {
		return fmt.Errorf("spec package %q does not match owner file package %q (%s)",
			wantPackage, got, ownerGoFilePath)
	}
	return nil
}

// render executes the wrapper template and formats the result. Formatting
// doubles as a syntax check on the spec's type expressions: a bad owner or
// dependent expression fails here instead of producing an uncompilable file.
func render(spec Spec) ([]byte, error) {
	var out strings.Builder
	if err := genTemplate.Execute(&out, spec); err != nil {
		return nil, err
	}

	formatted, err := format.Source([]byte(out.String()))
	if err != nil {
		return nil, fmt.Errorf("format generated code: %w", err)
	}
	return formatted, nil
}

// genTemplate is the Go source template used to generate the wrapper code.
var genTemplate = template.Must(
	template.New("pacgen").Parse(`// Code generated by pacgen; DO NOT EDIT.

package {{.Package}}

import (
	pac "{{.Core}}"
{{- range .Imports}}
	{{if .Alias}}{{.Alias}} {{end}}"{{.Path}}"
{{- end}}
)

// {{.Name}} is a cell of {{.Owner}} (owner) and {{.Dependent}} (dependent).
// It forwards every operation to the generic cell and adds no behavior.
type {{.Name}} struct {
	cell *pac.Pac[{{.Owner}}, {{.Dependent}}]
}

// New{{.Name}} moves owner into the cell and calls build exactly once with a
// pointer to the stored owner. It panics on a nil builder.
func New{{.Name}}(owner {{.Owner}}, build func(owner *{{.Owner}}) {{.Dependent}}) *{{.Name}} {
	return &{{.Name}}{cell: pac.New(owner, build)}
}

// TryNew{{.Name}} is New{{.Name}} with a fallible builder. On failure the
// owner's teardown hook runs exactly once and no wrapper is produced.
func TryNew{{.Name}}(owner {{.Owner}}, build func(owner *{{.Owner}}) ({{.Dependent}}, error)) (*{{.Name}}, error) {
	cell, err := pac.TryNew(owner, build)
	if err != nil {
		return nil, err
	}
	return &{{.Name}}{cell: cell}, nil
}

// WithMut executes fn with a mutable pointer to the dependent.
func (c *{{.Name}}) WithMut(fn func(dep *{{.Dependent}})) {
	c.cell.Mut(fn)
}

// {{.Name}}With executes fn with a mutable pointer to the dependent and
// returns fn's result.
func {{.Name}}With[R any](c *{{.Name}}, fn func(dep *{{.Dependent}}) R) R {
	return pac.WithMut(c.cell, fn)
}

// Unwrap consumes the cell: it disposes the dependent, then returns the owner.
func (c *{{.Name}}) Unwrap() {{.Owner}} {
	return c.cell.Unwrap()
}

// Close disposes the dependent, then the owner. It is idempotent and safe to
// defer unconditionally.
func (c *{{.Name}}) Close() error {
	return c.cell.Close()
}
`),
)

// tempFile abstracts an os.File for testability.
type tempFile interface {
	Name() string
	Write([]byte) (int, error)
	Close() error
}

// File operation hooks, overridden in tests.
var (
	createTempFile = func(dir, pattern string) (tempFile, error) { return os.CreateTemp(dir, pattern) }
	chmodFile      = os.Chmod
	renameFile     = os.Rename
	removeFile     = os.Remove
)

// writeFileAtomic writes a file atomically.
//
// It writes to a temporary file in the same directory and then renames it
// over the target path, ensuring readers never observe partial writes.
func writeFileAtomic(targetPath string, data []byte, perm os.FileMode) (err error) {
	targetDir := filepath.Dir(targetPath)

	tmpFile, err := createTempFile(targetDir, filepath.Base(targetPath)+".tmp-*")
	if err != nil {
		return err
	}
	tmpPath := tmpFile.Name()

	defer func() {
		if err != nil {
			_ = removeFile(tmpPath)
		}
	}()

	if _, err = tmpFile.Write(data); err != nil {
		_ = tmpFile.Close()
		return err
	}
	if err = tmpFile.Close(); err != nil {
		return err
	}
	if err = chmodFile(tmpPath, perm); err != nil {
		return err
	}
	if err = renameFile(tmpPath, targetPath); err != nil {
		return err
	}
	return nil
}

// must panics if err is non-nil.
func must(err error) {
	if err != nil {
		panic(err)
	}
}
