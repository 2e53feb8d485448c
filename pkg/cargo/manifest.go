package cargo

import (
	"os"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/supplychain/pkg/errors"
)

// Manifest holds the parts of Cargo.toml used to label reports.
type Manifest struct {
	Package struct {
		Name    string `toml:"name"`
		Version string `toml:"version"`
	} `toml:"package"`
	Workspace struct {
		Members []string `toml:"members"`
	} `toml:"workspace"`
}

// ProjectName is the package name, or "workspace" for a virtual manifest.
func (m *Manifest) ProjectName() string {
	if m.Package.Name != "" {
		return m.Package.Name
	}
	return "workspace"
}

// ReadManifest parses the Cargo.toml at path. An empty path reads
// Cargo.toml in the current directory.
func ReadManifest(path string) (*Manifest, error) {
	if path == "" {
		path = "Cargo.toml"
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "manifest not found: %s", path)
		}
		return nil, err
	}

	var m Manifest
	if err := toml.Unmarshal(data, &m); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidManifest, err, "parse %s", path)
	}
	return &m, nil
}
