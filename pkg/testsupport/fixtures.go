// Package testsupport holds sample object graphs and fixture helpers for
// tests.
package testsupport

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

var update = flag.Bool("update", false, "rewrite golden files with the current output")

// Fixture decodes the JSON file testdata/name of the calling package into
// dest.
func Fixture(t testing.TB, name string, dest any) {
	t.Helper()

	path := FixturePath(name)
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("fixture %s: %v", path, err)
		return
	}
	if err := json.Unmarshal(data, dest); err != nil {
		t.Fatalf("fixture %s: %v", path, err)
	}
}

// Golden compares actual with testdata/golden/name. Running the tests with
// -update rewrites the file instead.
func Golden(t testing.TB, name, actual string) {
	t.Helper()

	path := GoldenPath(name)
	if *update {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatalf("golden %s: %v", path, err)
			return
		}
		if err := os.WriteFile(path, []byte(actual), 0o644); err != nil {
			t.Fatalf("golden %s: %v", path, err)
		}
		return
	}

	expected, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("golden %s: %v (run with -update to create it)", path, err)
		return
	}
	if string(expected) != actual {
		t.Errorf("golden %s mismatch:\n%s", path, lineDiff(string(expected), actual))
	}
}

// lineDiff lists the lines where want and got differ.
func lineDiff(want, got string) string {
	w := strings.Split(want, "\n")
	g := strings.Split(got, "\n")

	var b strings.Builder
	for i := 0; i < len(w) || i < len(g); i++ {
		var wl, gl string
		if i < len(w) {
			wl = w[i]
		}
		if i < len(g) {
			gl = g[i]
		}
		if wl != gl {
			fmt.Fprintf(&b, "line %d: want %q, got %q\n", i+1, wl, gl)
		}
	}
	return b.String()
}

// WriteTemp writes content to a file named name in a directory removed when
// the test ends, and returns its path.
func WriteTemp(t testing.TB, name string, content []byte) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, content, 0o600); err != nil {
		t.Fatalf("temp file %s: %v", path, err)
	}
	return path
}

// FixturePath returns the path of a fixture in the testdata directory.
func FixturePath(name string) string {
	return filepath.Join("testdata", name)
}

// GoldenPath returns the path of a golden file in testdata/golden.
func GoldenPath(name string) string {
	return filepath.Join("testdata", "golden", name)
}
