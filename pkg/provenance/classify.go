package provenance

import (
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/matzehuels/supplychain/pkg/deps"
)

// Source is where a package was obtained from.
type Source int

const (
	// Local packages are built from the workspace itself.
	Local Source = iota
	// Registry packages come from crates.io.
	Registry
	// Foreign packages come from anywhere else: git, alternate registries,
	// path dependencies outside the workspace.
	Foreign
)

var sourceNames = map[Source]string{
	Local:    "local",
	Registry: "crates.io",
	Foreign:  "foreign",
}

func (s Source) String() string {
	if n, ok := sourceNames[s]; ok {
		return n
	}
	return "unknown"
}

// Origin locators Cargo records for crates.io, in git-index and sparse form.
const (
	cratesIOGitIndex    = "registry+https://github.com/rust-lang/crates.io-index"
	cratesIOSparseIndex = "sparse+https://index.crates.io/"
)

// IsCratesIO reports whether an origin locator identifies crates.io.
func IsCratesIO(source string) bool {
	return source == cratesIOGitIndex || strings.TrimSuffix(source, "/")+"/" == cratesIOSparseIndex
}

// Classified pairs every package of a graph with its Source.
//
// Sources and Packages always have the same key set. Classified values are
// never modified after construction; [FilterNonDev] returns a new one.
type Classified struct {
	Sources  map[deps.PackageID]Source
	Packages map[deps.PackageID]*deps.Package
}

// SourcedPackage is a package together with its classification.
type SourcedPackage struct {
	Source  Source
	Package *deps.Package
}

// Classify assigns a Source to every package in g.
//
// Every package starts as Foreign, packages whose origin is crates.io become
// Registry, and finally every workspace member becomes Local regardless of
// its origin. A workspace member missing from g.Packages means the graph is
// malformed, and Classify panics.
func Classify(g *deps.Graph) *Classified {
	c := &Classified{
		Sources:  make(map[deps.PackageID]Source, len(g.Packages)),
		Packages: maps.Clone(g.Packages),
	}
	if c.Packages == nil {
		c.Packages = make(map[deps.PackageID]*deps.Package)
	}

	for id := range g.Packages {
		c.Sources[id] = Foreign
	}

	for id, pkg := range g.Packages {
		if IsCratesIO(pkg.Source) {
			c.Sources[id] = Registry
		}
	}

	for _, id := range g.Workspace {
		if _, ok := c.Sources[id]; !ok {
			panic(fmt.Sprintf("provenance: workspace member %q is not in the package graph", id))
		}
		c.Sources[id] = Local
	}

	return c
}

// Source returns the classification of id.
func (c *Classified) Source(id deps.PackageID) (Source, bool) {
	s, ok := c.Sources[id]
	return s, ok
}

// Len returns the number of classified packages.
func (c *Classified) Len() int { return len(c.Sources) }

// Count returns how many packages have the given Source.
func (c *Classified) Count(src Source) int {
	n := 0
	for _, s := range c.Sources {
		if s == src {
			n++
		}
	}
	return n
}

// List returns every package with its Source, ordered by package ID.
// It panics if a classified ID has no package data.
func (c *Classified) List() []SourcedPackage {
	ids := slices.Sorted(maps.Keys(c.Sources))
	out := make([]SourcedPackage, 0, len(ids))
	for _, id := range ids {
		out = append(out, SourcedPackage{Source: c.Sources[id], Package: c.mustPackage(id)})
	}
	return out
}

func (c *Classified) mustPackage(id deps.PackageID) *deps.Package {
	pkg, ok := c.Packages[id]
	if !ok {
		panic(fmt.Sprintf("provenance: classified package %q has no package data", id))
	}
	return pkg
}
