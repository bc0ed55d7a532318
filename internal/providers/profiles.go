package providers

import (
	"context"
	"os"
	"path/filepath"
	"sort"
)

// NewProfiles returns a provider enumerating the named configuration
// profiles of the workspace at the request directory. metaDir is the
// hidden metadata directory relative to the workspace root (for example
// ".catkin_tools/profiles"); each subdirectory is one profile.
func NewProfiles(metaDir string) Func {
	return func(ctx context.Context, req Request) ([]string, error) {
		entries, err := os.ReadDir(filepath.Join(req.Dir, metaDir))
		if err != nil {
			if os.IsNotExist(err) {
				// No metadata dir means no profiles, not a failure.
				return nil, nil
			}
			return nil, err
		}

		var profiles []string
		for _, entry := range entries {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			if entry.IsDir() {
				profiles = append(profiles, entry.Name())
			}
		}

		sort.Strings(profiles)
		return profiles, nil
	}
}
