package deps

import (
	"maps"
	"path/filepath"
	"slices"
)

// PackageID identifies a package within a single resolved graph. The value is
// opaque: two graphs produced from different inputs may describe the same
// package with different IDs.
type PackageID string

// DependencyKind distinguishes runtime, build-script and development edges.
type DependencyKind int

const (
	// KindNormal is a regular runtime dependency.
	KindNormal DependencyKind = iota
	// KindBuild is a build-script dependency.
	KindBuild
	// KindDevelopment is a test/bench/example dependency. Consumers of a
	// package never need its development dependencies.
	KindDevelopment
)

var kindNames = map[DependencyKind]string{
	KindNormal:      "normal",
	KindBuild:       "build",
	KindDevelopment: "dev",
}

// String returns the Cargo spelling of the kind ("normal", "build", "dev").
func (k DependencyKind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return "unknown"
}

// ParseKind converts Cargo's dependency kind field to a DependencyKind.
// Cargo reports normal dependencies as null, which arrives here as "".
// Unknown values are treated as normal so they keep propagating reachability.
func ParseKind(s string) DependencyKind {
	switch s {
	case "build":
		return KindBuild
	case "dev":
		return KindDevelopment
	default:
		return KindNormal
	}
}

// Dependency is a declared edge: a target name plus a version requirement.
// It does not name a concrete package; see the provenance package for how
// requirements are matched against resolved packages.
type Dependency struct {
	Name string         // Target package name
	Req  string         // Version requirement (e.g. "^1.0", ">=0.3, <0.5")
	Kind DependencyKind // Normal, Build or Development
}

// Package is a resolved node of the build graph.
type Package struct {
	ID           PackageID    // Unique within the graph
	Name         string       // Package name
	Version      string       // Semantic version
	Source       string       // Origin locator; empty for local/path packages
	Dependencies []Dependency // Declared edges, in manifest order
}

// HasSource reports whether the package records an origin locator.
func (p *Package) HasSource() bool { return p.Source != "" }

// Graph is the flat package graph produced by a graph source.
//
// Packages maps every ID to its package; Workspace lists the IDs built
// directly from the local project. Root is the workspace directory when the
// source reports one. A Graph is a snapshot and is not modified after
// construction.
type Graph struct {
	Packages  map[PackageID]*Package
	Workspace []PackageID
	Root      string
}

// NewGraph builds a Graph from a package list and the workspace member IDs.
// A later package with a duplicate ID replaces the earlier one.
func NewGraph(pkgs []*Package, workspace []PackageID) *Graph {
	g := &Graph{
		Packages:  make(map[PackageID]*Package, len(pkgs)),
		Workspace: slices.Clone(workspace),
	}
	for _, p := range pkgs {
		g.Packages[p.ID] = p
	}
	return g
}

// Package returns the package with the given ID.
func (g *Graph) Package(id PackageID) (*Package, bool) {
	p, ok := g.Packages[id]
	return p, ok
}

// IDs returns every package ID in ascending order.
func (g *Graph) IDs() []PackageID {
	return slices.Sorted(maps.Keys(g.Packages))
}

// Len returns the number of packages in the graph.
func (g *Graph) Len() int { return len(g.Packages) }

// Name returns the base name of Root, or "" when Root is unknown.
func (g *Graph) Name() string {
	if g.Root == "" {
		return ""
	}
	return filepath.Base(filepath.Clean(g.Root))
}
