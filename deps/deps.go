// Package deps computes the library versions a serialized model depends
// on. The resulting mapping is embedded in the deployment metadata so the
// service can reconstruct a compatible runtime for the model.
package deps

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

// Package is one installed package: its canonical name, version, and the
// names of the packages it declares as dependencies.
type Package struct {
	Name     string
	Version  string
	Requires []string
}

// Environment answers lookups against a set of installed packages.
type Environment interface {
	// Lookup returns the package with the given (not necessarily
	// normalized) name, and whether it is installed.
	Lookup(name string) (Package, bool)
}

// PackageNotFoundError reports a package that a model depends on but that
// is not installed locally. It is never silently skipped: omitting it from
// the metadata would produce an incomplete runtime on the service side.
type PackageNotFoundError struct {
	Package string
}

func (e PackageNotFoundError) Error() string {
	return fmt.Sprintf("package %q is not installed", e.Package)
}

// Normalize canonicalizes a package name: lowercase, with runs of dots,
// dashes and underscores collapsed to a single dash.
func Normalize(name string) string {
	return nameSeparators.ReplaceAllString(strings.ToLower(name), "-")
}

var nameSeparators = regexp.MustCompile(`[-_.]+`)

// Resolve computes the transitive version mapping for the given top-level
// package names. Traversal uses an explicit worklist with a visited set, so
// dependency cycles terminate and already-transitive inputs resolve to the
// same closure.
func Resolve(env Environment, packages []string) (map[string]string, error) {
	versions := make(map[string]string)
	visited := make(map[string]bool)

	work := make([]string, 0, len(packages))
	for _, name := range packages {
		work = append(work, Normalize(name))
	}

	for len(work) > 0 {
		name := work[len(work)-1]
		work = work[:len(work)-1]

		if visited[name] {
			continue
		}
		visited[name] = true

		pkg, ok := env.Lookup(name)
		if !ok {
			return nil, PackageNotFoundError{Package: name}
		}

		versions[pkg.Name] = pkg.Version
		for _, req := range pkg.Requires {
			work = append(work, Normalize(req))
		}
	}

	return versions, nil
}

// StaticEnvironment is an in-memory [Environment], keyed by normalized
// package name.
type StaticEnvironment map[string]Package

func (e StaticEnvironment) Lookup(name string) (Package, bool) {
	pkg, ok := e[Normalize(name)]
	return pkg, ok
}

// SitePackages is an [Environment] backed by the dist-info metadata of an
// installed Python environment.
type SitePackages struct {
	packages map[string]Package
}

// LoadSitePackages scans dir for *.dist-info/METADATA files and indexes
// the packages they describe.
func LoadSitePackages(dir string) (*SitePackages, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	packages := make(map[string]Package)
	for _, entry := range entries {
		if !entry.IsDir() || !strings.HasSuffix(entry.Name(), ".dist-info") {
			continue
		}

		pkg, err := parseMetadata(filepath.Join(dir, entry.Name(), "METADATA"))
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return nil, err
		}

		packages[Normalize(pkg.Name)] = pkg
	}

	return &SitePackages{packages: packages}, nil
}

func (s *SitePackages) Lookup(name string) (Package, bool) {
	pkg, ok := s.packages[Normalize(name)]
	return pkg, ok
}

// parseMetadata reads the Name, Version and Requires-Dist headers of one
// dist-info METADATA file. Requirements guarded by an environment marker
// (extras, python version) are not part of the installed closure and are
// skipped.
func parseMetadata(path string) (Package, error) {
	f, err := os.Open(path)
	if err != nil {
		return Package{}, err
	}
	defer f.Close()

	var pkg Package
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := scanner.Text()
		if line == "" {
			// End of headers; the long description follows.
			break
		}

		key, value, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}
		value = strings.TrimSpace(value)

		switch key {
		case "Name":
			pkg.Name = Normalize(value)
		case "Version":
			pkg.Version = value
		case "Requires-Dist":
			if strings.Contains(value, ";") {
				continue
			}
			if name := requirementName(value); name != "" {
				pkg.Requires = append(pkg.Requires, name)
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return Package{}, err
	}

	if pkg.Name == "" {
		return Package{}, fmt.Errorf("%s: missing Name header", path)
	}
	return pkg, nil
}

// requirementName extracts the bare package name from a requirement
// specifier such as "numpy (>=1.11.0)" or "scipy>=1.0".
func requirementName(spec string) string {
	spec = strings.TrimSpace(spec)
	for i, r := range spec {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9',
			r == '-', r == '_', r == '.':
			continue
		default:
			return spec[:i]
		}
	}
	return spec
}
