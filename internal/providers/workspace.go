package providers

import (
	"context"
	"os"
	"path/filepath"
	"sort"
)

// DefaultManifest is the package manifest file that marks a directory
// as a workspace package.
const DefaultManifest = "package.xml"

// NewWorkspacePackages returns a provider enumerating the packages of
// the workspace at the request directory: every directory under the
// source space (or directly under the workspace root) containing a
// manifest file counts as one package. Results are sorted by name.
func NewWorkspacePackages(manifest string) Func {
	if manifest == "" {
		manifest = DefaultManifest
	}

	return func(ctx context.Context, req Request) ([]string, error) {
		roots := []string{
			filepath.Join(req.Dir, "src"),
			req.Dir,
		}

		seen := map[string]bool{}
		var packages []string
		for _, root := range roots {
			entries, err := os.ReadDir(root)
			if err != nil {
				// Not every workspace layout has both roots.
				continue
			}
			for _, entry := range entries {
				if err := ctx.Err(); err != nil {
					return nil, err
				}
				if !entry.IsDir() || seen[entry.Name()] {
					continue
				}
				manifestPath := filepath.Join(root, entry.Name(), manifest)
				if _, err := os.Stat(manifestPath); err != nil {
					continue
				}
				seen[entry.Name()] = true
				packages = append(packages, entry.Name())
			}
		}

		sort.Strings(packages)
		return packages, nil
	}
}
