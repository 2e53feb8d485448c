package provenance

import (
	"fmt"
	"maps"
	"slices"

	"github.com/matzehuels/supplychain/pkg/deps"
)

// FilterNonDev returns the part of c reachable from its Local packages by
// following normal and build dependencies. Development dependencies never
// make a package reachable.
//
// Requirements are matched to packages by name and version only (see
// [RequirementKey.Matches]), so the result may include a package that Cargo
// did not actually select for a requirement, but it never leaves out one
// that it did.
//
// The walk proceeds in rounds. Each round collects the requirements of the
// current frontier, moves the frontier into the result, and takes every
// unvisited package matching a collected requirement as the next frontier.
// Visited packages leave the unvisited pool for good, so cycles terminate.
//
// FilterNonDev panics unless c passes [MustBeConsistent].
func FilterNonDev(c *Classified) *Classified {
	MustBeConsistent(c)

	out := &Classified{
		Sources:  make(map[deps.PackageID]Source),
		Packages: make(map[deps.PackageID]*deps.Package),
	}

	remaining := maps.Clone(c.Sources)
	frontier := make([]deps.PackageID, 0)
	for _, id := range slices.Sorted(maps.Keys(c.Sources)) {
		if c.Sources[id] == Local {
			frontier = append(frontier, id)
		}
	}

	for len(frontier) > 0 {
		reqs := make(map[RequirementKey]struct{})
		for _, id := range frontier {
			pkg := c.mustPackage(id)
			for _, d := range pkg.Dependencies {
				if d.Kind == deps.KindDevelopment {
					continue
				}
				reqs[KeyOf(d)] = struct{}{}
			}

			out.Sources[id] = c.Sources[id]
			out.Packages[id] = pkg
			delete(remaining, id)
		}

		frontier = nextFrontier(c, remaining, reqs)
	}

	return out
}

// nextFrontier returns the unvisited packages that match any requirement,
// ordered by ID.
func nextFrontier(c *Classified, remaining map[deps.PackageID]Source, reqs map[RequirementKey]struct{}) []deps.PackageID {
	if len(reqs) == 0 {
		return nil
	}

	byName := make(map[string][]requirement, len(reqs))
	for k := range reqs {
		byName[k.Name] = append(byName[k.Name], compile(k))
	}

	var next []deps.PackageID
	for _, id := range slices.Sorted(maps.Keys(remaining)) {
		pkg := c.mustPackage(id)
		for _, r := range byName[pkg.Name] {
			if r.matches(pkg) {
				next = append(next, id)
				break
			}
		}
	}
	return next
}

// MustBeConsistent panics unless Sources and Packages of c have the same
// key set.
func MustBeConsistent(c *Classified) {
	if len(c.Sources) != len(c.Packages) {
		panic(fmt.Sprintf("provenance: %d classified ids but %d packages", len(c.Sources), len(c.Packages)))
	}
	for id := range c.Sources {
		c.mustPackage(id)
	}
}
