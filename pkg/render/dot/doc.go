// Package dot renders a classified build graph as a Graphviz diagram.
//
// # Usage
//
//	src := dot.ToDOT(classified, dot.Options{})
//	svg, err := dot.RenderSVG(ctx, src)
//
// # Styling
//
// Nodes are filled by provenance so unaudited code stands out:
//
//   - local (workspace members): light blue
//   - crates.io: white
//   - foreign (git, path, other registries): salmon
//
// Normal dependency edges are solid, build edges dotted and dev edges dashed.
// Edges are resolved with the same best-effort name and version-range
// matching the non-dev filter uses, so a requirement may fan out to several
// packages of the same name.
//
// # Determinism
//
// Nodes and edges are emitted in sorted order; the same graph always yields
// the same DOT text.
package dot
