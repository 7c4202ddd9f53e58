package deps

import (
	"bufio"
	"os"
	"regexp"
	"slices"
	"strings"
)

var (
	importPattern = regexp.MustCompile(`^\s*import\s+(.+)`)
	fromPattern   = regexp.MustCompile(`^\s*from\s+(\S+)\s+import\s`)
)

// ScanImports statically scans Python source files for import statements
// and returns the names of the installed third-party packages they
// reference. The scan is textual; nothing is executed.
//
// Relative imports are skipped, as are imports that do not resolve to an
// installed package. This is a best-effort heuristic: a module shipped via
// include files rather than installed will not be reported, and that is
// accepted.
func ScanImports(env Environment, paths []string) ([]string, error) {
	found := make(map[string]bool)
	for _, path := range paths {
		if err := scanFile(env, path, found); err != nil {
			return nil, err
		}
	}

	packages := make([]string, 0, len(found))
	for name := range found {
		packages = append(packages, name)
	}
	slices.Sort(packages)
	return packages, nil
}

func scanFile(env Environment, path string, found map[string]bool) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := scanner.Text()

		var target string
		if m := fromPattern.FindStringSubmatch(line); m != nil {
			target = m[1]
		} else if m := importPattern.FindStringSubmatch(line); m != nil {
			target = m[1]
		} else {
			continue
		}

		for _, imp := range strings.Split(target, ",") {
			if name := importedPackage(env, imp); name != "" {
				found[name] = true
			}
		}
	}
	return scanner.Err()
}

// importedPackage maps one import target to an installed package name, or
// "" when the import is relative or does not resolve.
func importedPackage(env Environment, imp string) string {
	imp = strings.TrimSpace(imp)
	if imp == "" || strings.HasPrefix(imp, ".") {
		return ""
	}

	root, _, _ := strings.Cut(imp, ".")
	root, _, _ = strings.Cut(root, " ")

	if pkg, ok := env.Lookup(root); ok {
		return pkg.Name
	}
	return ""
}
