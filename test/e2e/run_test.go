package e2e

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/weft-lang/weft/internal/compiler"
)

// TestE2E compiles every .wf file in testdata/ and compares the reported
// diagnostics, one per line, against the matching .golden file.
func TestE2E(t *testing.T) {
	testFiles, err := filepath.Glob("testdata/*.wf")
	if err != nil {
		t.Fatal(err)
	}
	if len(testFiles) == 0 {
		t.Fatal("no .wf test files found in testdata/")
	}

	for _, testFile := range testFiles {
		name := strings.TrimSuffix(filepath.Base(testFile), ".wf")
		t.Run(name, func(t *testing.T) {
			runE2ETest(t, testFile)
		})
	}
}

func runE2ETest(t *testing.T, weftFile string) {
	t.Helper()

	goldenFile := strings.TrimSuffix(weftFile, ".wf") + ".golden"
	expected, err := os.ReadFile(goldenFile)
	if err != nil {
		t.Fatalf("reading golden file: %v", err)
	}

	r, err := compiler.CompileFile(weftFile, compiler.DefaultOptions())
	if err != nil {
		t.Fatalf("compile: %v", err)
	}

	got := diagnostics(r)
	want := string(expected)
	if got != want {
		t.Errorf("diagnostics mismatch:\ngot:\n%s\nwant:\n%s", got, want)
	}
	if r.Success != (r.Errors == 0) {
		t.Errorf("Success = %t with %d errors", r.Success, r.Errors)
	}
}

func diagnostics(r *compiler.Result) string {
	var b strings.Builder
	for _, d := range r.Diagnostics {
		b.WriteString(d.String())
		b.WriteByte('\n')
	}
	return b.String()
}

// TestE2EParallel compiles the whole testdata directory at once and checks
// that every unit matches its sequential compilation.
func TestE2EParallel(t *testing.T) {
	testFiles, err := filepath.Glob("testdata/*.wf")
	if err != nil {
		t.Fatal(err)
	}
	// Compile each file several times to exercise concurrent contexts.
	var paths []string
	for i := 0; i < 4; i++ {
		paths = append(paths, testFiles...)
	}

	results, err := compiler.CompileFiles(context.Background(), paths, compiler.DefaultOptions(), 4)
	if err != nil {
		t.Fatalf("CompileFiles: %v", err)
	}
	for i, r := range results {
		seq, err := compiler.CompileFile(paths[i], compiler.DefaultOptions())
		if err != nil {
			t.Fatal(err)
		}
		if got, want := diagnostics(r), diagnostics(seq); got != want {
			t.Errorf("%s: parallel diagnostics differ:\n%s\nwant:\n%s", paths[i], got, want)
		}
	}
}
