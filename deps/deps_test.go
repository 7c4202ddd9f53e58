package deps

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func testEnv() StaticEnvironment {
	return StaticEnvironment{
		"scikit-learn": {Name: "scikit-learn", Version: "0.20.3", Requires: []string{"numpy", "scipy"}},
		"numpy":        {Name: "numpy", Version: "1.16.2"},
		"scipy":        {Name: "scipy", Version: "1.2.1", Requires: []string{"numpy"}},
		"torch":        {Name: "torch", Version: "1.0.1", Requires: []string{"torch"}}, // self-cycle
	}
}

func TestResolve(t *testing.T) {
	got, err := Resolve(testEnv(), []string{"scikit-learn"})
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}

	want := map[string]string{
		"scikit-learn": "0.20.3",
		"numpy":        "1.16.2",
		"scipy":        "1.2.1",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("closure mismatch (-want +got):\n%s", diff)
	}
}

func TestResolveIdempotent(t *testing.T) {
	env := testEnv()

	first, err := Resolve(env, []string{"scikit-learn"})
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}

	// Resolving the already-transitive closure yields the same closure.
	closure := make([]string, 0, len(first))
	for name := range first {
		closure = append(closure, name)
	}

	second, err := Resolve(env, closure)
	if err != nil {
		t.Fatalf("Resolve(closure): %v", err)
	}
	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("closure not idempotent (-first +second):\n%s", diff)
	}
}

func TestResolveCycle(t *testing.T) {
	got, err := Resolve(testEnv(), []string{"torch"})
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if got["torch"] != "1.0.1" {
		t.Errorf("got %v, want torch 1.0.1", got)
	}
}

func TestResolveMissingPackage(t *testing.T) {
	_, err := Resolve(testEnv(), []string{"scikit-learn", "notinstalled"})
	var notFound PackageNotFoundError
	if !errors.As(err, &notFound) {
		t.Fatalf("got %v, want PackageNotFoundError", err)
	}
	if notFound.Package != "notinstalled" {
		t.Errorf("got package %q, want notinstalled", notFound.Package)
	}
}

func TestNormalize(t *testing.T) {
	tests := []struct{ in, want string }{
		{"scikit_learn", "scikit-learn"},
		{"Scikit-Learn", "scikit-learn"},
		{"zope.interface", "zope-interface"},
		{"a--b__c", "a-b-c"},
	}
	for _, tt := range tests {
		if got := Normalize(tt.in); got != tt.want {
			t.Errorf("Normalize(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestLoadSitePackages(t *testing.T) {
	dir := t.TempDir()
	writeMetadata(t, dir, "scikit_learn-0.20.3.dist-info", `Metadata-Version: 2.1
Name: scikit-learn
Version: 0.20.3
Requires-Dist: numpy (>=1.11.0)
Requires-Dist: scipy (>=0.17.0)
Requires-Dist: pytest ; extra == 'tests'

The long description starts here and must not be parsed.
Requires-Dist: bogus
`)
	writeMetadata(t, dir, "numpy-1.16.2.dist-info", "Name: numpy\nVersion: 1.16.2\n")
	writeMetadata(t, dir, "scipy-1.2.1.dist-info", "Name: scipy\nVersion: 1.2.1\nRequires-Dist: numpy>=1.8.2\n")

	env, err := LoadSitePackages(dir)
	if err != nil {
		t.Fatalf("LoadSitePackages: %v", err)
	}

	pkg, ok := env.Lookup("scikit-learn")
	if !ok {
		t.Fatal("scikit-learn not indexed")
	}
	if diff := cmp.Diff([]string{"numpy", "scipy"}, pkg.Requires); diff != "" {
		t.Errorf("requires mismatch (-want +got):\n%s", diff)
	}

	got, err := Resolve(env, []string{"scikit-learn"})
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	want := map[string]string{"scikit-learn": "0.20.3", "numpy": "1.16.2", "scipy": "1.2.1"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("closure mismatch (-want +got):\n%s", diff)
	}
}

func writeMetadata(t *testing.T, dir, distInfo, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Join(dir, distInfo), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, distInfo, "METADATA"), []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestScanImports(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "helper.py")
	src := `import numpy
import nonexistent
from scipy.sparse import csr_matrix
from . import sibling
from .relative import thing
import mymodule.submodule
`
	if err := os.WriteFile(path, []byte(src), 0o644); err != nil {
		t.Fatal(err)
	}

	got, err := ScanImports(testEnv(), []string{path})
	if err != nil {
		t.Fatalf("ScanImports: %v", err)
	}

	// nonexistent and mymodule are not installed, relative imports are
	// skipped; both silently.
	want := []string{"numpy", "scipy"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("imports mismatch (-want +got):\n%s", diff)
	}
}

func TestScanImportsMissingFile(t *testing.T) {
	_, err := ScanImports(testEnv(), []string{filepath.Join(t.TempDir(), "missing.py")})
	if err == nil {
		t.Fatal("expected error for unreadable include file")
	}
}
