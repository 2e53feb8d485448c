// Package deps defines the package graph that supplychain audits.
//
// # Overview
//
// A [Graph] is a flat mapping from [PackageID] to [Package], plus the list of
// IDs that are workspace members (built from the local project). Each package
// carries its declared [Dependency] edges: a target name, a version
// requirement and a [DependencyKind].
//
// Edges name requirements, not packages. A requirement such as
//
//	serde ^1.0 (normal)
//
// says nothing about where the matching serde comes from, so the graph cannot
// be walked by ID. The [provenance] package matches requirements against
// packages by name and version instead.
//
// # Producing Graphs
//
// Graphs are produced by a graph source such as [cargo.Load], which runs
// `cargo metadata` and decodes its output. Tests build them directly:
//
//	g := deps.NewGraph([]*deps.Package{
//	    {ID: "app 0.1.0", Name: "app", Version: "0.1.0",
//	        Dependencies: []deps.Dependency{{Name: "log", Req: "^0.4"}}},
//	    {ID: "log 0.4.20", Name: "log", Version: "0.4.20", Source: cratesIO},
//	}, []deps.PackageID{"app 0.1.0"})
//
// Graphs are immutable snapshots; every transformation returns a new value.
//
// [provenance]: github.com/matzehuels/supplychain/pkg/provenance
// [cargo.Load]: github.com/matzehuels/supplychain/pkg/cargo.Load
package deps
