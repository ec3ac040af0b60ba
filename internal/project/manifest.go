package project

import (
	"fmt"
	"path/filepath"
	"sort"

	"github.com/BurntSushi/toml"
)

const (
	AnchorManifest = "Anchor.toml"
	CargoManifest  = "Cargo.toml"
)

// Manifest is an Anchor.toml or Cargo.toml found in the workspace.
type Manifest struct {
	Path string `json:"path"`
	Kind string `json:"kind"` // AnchorManifest или CargoManifest
	// Workspace is set for Anchor.toml and for a Cargo.toml with [workspace].
	Workspace bool `json:"workspace"`
	// Programs lists the program names from [programs.<cluster>] (Anchor.toml)
	// or the workspace members (Cargo.toml).
	Programs []string `json:"programs,omitempty"`
	Name     string   `json:"name,omitempty"` // [package].name у Cargo.toml
}

type anchorToml struct {
	Programs map[string]map[string]string `toml:"programs"`
}

type cargoToml struct {
	Package struct {
		Name string `toml:"name"`
	} `toml:"package"`
	Workspace struct {
		Members []string `toml:"members"`
	} `toml:"workspace"`
}

// LoadAnchor parses Anchor.toml.
func LoadAnchor(path string) (Manifest, error) {
	var cfg anchorToml
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return Manifest{}, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	seen := make(map[string]bool)
	m := Manifest{Path: path, Kind: AnchorManifest, Workspace: true}
	for _, cluster := range cfg.Programs {
		for name := range cluster {
			if !seen[name] {
				seen[name] = true
				m.Programs = append(m.Programs, name)
			}
		}
	}
	sort.Strings(m.Programs)
	return m, nil
}

// LoadCargo parses Cargo.toml.
func LoadCargo(path string) (Manifest, error) {
	var cfg cargoToml
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return Manifest{}, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	return Manifest{
		Path:      path,
		Kind:      CargoManifest,
		Workspace: meta.IsDefined("workspace"),
		Programs:  cfg.Workspace.Members,
		Name:      cfg.Package.Name,
	}, nil
}

// LoadManifest dispatches on the base name.
func LoadManifest(path string) (Manifest, error) {
	switch filepath.Base(path) {
	case AnchorManifest:
		return LoadAnchor(path)
	case CargoManifest:
		return LoadCargo(path)
	default:
		return Manifest{}, fmt.Errorf("%s: not a manifest", path)
	}
}
