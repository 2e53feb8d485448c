package cargo

import (
	"encoding/json"
	"io"

	"github.com/matzehuels/supplychain/pkg/deps"
	"github.com/matzehuels/supplychain/pkg/errors"
)

type metadataDoc struct {
	Packages         []packageDoc `json:"packages"`
	WorkspaceMembers []string     `json:"workspace_members"`
	WorkspaceRoot    string       `json:"workspace_root"`
}

type packageDoc struct {
	ID           string          `json:"id"`
	Name         string          `json:"name"`
	Version      string          `json:"version"`
	Source       *string         `json:"source"`
	Dependencies []dependencyDoc `json:"dependencies"`
}

type dependencyDoc struct {
	Name string  `json:"name"`
	Req  string  `json:"req"`
	Kind *string `json:"kind"`
}

// Decode reads a cargo metadata document (format version 1) and builds the
// graph. Packages with an empty or repeated id, and workspace members missing
// from the package list, are rejected with [errors.ErrCodeInvalidMetadata].
func Decode(r io.Reader) (*deps.Graph, error) {
	var doc metadataDoc
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidMetadata, err, "decode cargo metadata")
	}

	pkgs := make([]*deps.Package, 0, len(doc.Packages))
	seen := make(map[deps.PackageID]bool, len(doc.Packages))
	for _, p := range doc.Packages {
		id := deps.PackageID(p.ID)
		if id == "" {
			return nil, errors.New(errors.ErrCodeInvalidMetadata, "package %q has no id", p.Name)
		}
		if seen[id] {
			return nil, errors.New(errors.ErrCodeInvalidMetadata, "duplicate package id %q", id)
		}
		seen[id] = true
		pkgs = append(pkgs, p.toPackage())
	}

	members := make([]deps.PackageID, 0, len(doc.WorkspaceMembers))
	for _, m := range doc.WorkspaceMembers {
		id := deps.PackageID(m)
		if !seen[id] {
			return nil, errors.New(errors.ErrCodeInvalidMetadata, "workspace member %q is not in the package list", m)
		}
		members = append(members, id)
	}

	g := deps.NewGraph(pkgs, members)
	g.Root = doc.WorkspaceRoot
	return g, nil
}

func (p packageDoc) toPackage() *deps.Package {
	pkg := &deps.Package{
		ID:      deps.PackageID(p.ID),
		Name:    p.Name,
		Version: p.Version,
	}
	if p.Source != nil {
		pkg.Source = *p.Source
	}
	if len(p.Dependencies) > 0 {
		pkg.Dependencies = make([]deps.Dependency, len(p.Dependencies))
		for i, d := range p.Dependencies {
			var kind string
			if d.Kind != nil {
				kind = *d.Kind
			}
			pkg.Dependencies[i] = deps.Dependency{Name: d.Name, Req: d.Req, Kind: deps.ParseKind(kind)}
		}
	}
	return pkg
}
