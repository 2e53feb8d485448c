// Package provenance classifies build packages by origin and narrows a graph
// to what ships.
//
// # Classification
//
// [Classify] assigns every package in a [deps.Graph] exactly one [Source]:
//
//   - [Local]: a workspace member, built from the project itself
//   - [Registry]: downloaded from crates.io
//   - [Foreign]: anything else (git, other registries, outside paths)
//
// Workspace membership wins over everything else, so a workspace crate that
// also records a crates.io origin is still Local.
//
// # Non-dev Reachability
//
// [FilterNonDev] keeps the packages reachable from Local packages through
// normal and build dependencies:
//
//	c := provenance.Classify(g)
//	shipped := provenance.FilterNonDev(c)
//
// Dependency edges carry a name and a version requirement but not an origin,
// so requirements are matched against packages by name and version. The
// match errs towards inclusion: two crates named foo at 1.0.0 from different
// origins both satisfy "foo ^1.0". Origin is deliberately not used to break
// such ties.
//
// The filter is a fixpoint, so applying it twice gives the same result as
// applying it once.
//
// # Presentation Order
//
// Classified values are maps. [Classified.List] and [Names] impose a stable
// order so output is identical across runs with identical input.
//
// [deps.Graph]: github.com/matzehuels/supplychain/pkg/deps.Graph
package provenance
