//go:build integration

package itest

import (
	"errors"
	"os"
	"path/filepath"
)

const maxRootAscent = 10

// findRepoRoot walks up from the test's working directory to the reelcut
// module root, where `go run ./cmd/reelcut` resolves.
func findRepoRoot() (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", err
	}
	for range [maxRootAscent]struct{}{} {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", errors.New("no go.mod above the itest working directory")
}
