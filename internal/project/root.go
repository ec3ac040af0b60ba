package project

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// FindUp walks up from startDir and returns the first directory for which
// match reports true.
func FindUp(startDir string, match func(dir string) (bool, error)) (dir string, ok bool, err error) {
	if startDir == "" {
		startDir = "."
	}
	dir, err = filepath.Abs(startDir)
	if err != nil {
		return "", false, fmt.Errorf("failed to resolve start directory: %w", err)
	}
	for {
		found, err := match(dir)
		if err != nil {
			return "", false, err
		}
		if found {
			return dir, true, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", false, nil
}

// FindFileUp walks up from startDir to locate the first of names.
func FindFileUp(startDir string, names ...string) (path string, ok bool, err error) {
	var hit string
	_, ok, err = FindUp(startDir, func(dir string) (bool, error) {
		for _, name := range names {
			candidate := filepath.Join(dir, name)
			if _, err := os.Stat(candidate); err == nil {
				hit = candidate
				return true, nil
			} else if !errors.Is(err, os.ErrNotExist) {
				return false, fmt.Errorf("failed to stat %q: %w", candidate, err)
			}
		}
		return false, nil
	})
	return hit, ok, err
}

// FindWorkspaceRoot returns the nearest directory above startDir holding
// Anchor.toml or a Cargo.toml with a [workspace] table.
// Без манифеста корнем считается сам startDir.
func FindWorkspaceRoot(startDir string) (string, error) {
	root, ok, err := FindUp(startDir, isWorkspaceDir)
	if err != nil {
		return "", err
	}
	if ok {
		return root, nil
	}
	return filepath.Abs(startDir)
}

func isWorkspaceDir(dir string) (bool, error) {
	if _, err := os.Stat(filepath.Join(dir, AnchorManifest)); err == nil {
		return true, nil
	}
	cargo := filepath.Join(dir, CargoManifest)
	if _, err := os.Stat(cargo); err != nil {
		return false, nil
	}
	m, err := LoadCargo(cargo)
	if err != nil {
		// битый Cargo.toml не делает каталог корнем
		return false, nil
	}
	return m.Workspace, nil
}
