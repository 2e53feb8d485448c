// Package pkg holds the supplychain libraries.
//
// # Overview
//
// supplychain answers one question about a Rust build: who can publish the
// code that ends up in it? The answer starts from the resolved Cargo build
// graph, sorts every package by where it comes from and asks crates.io who
// owns the packages it serves.
//
// # Architecture
//
//	cargo metadata
//	      ↓
//	 [cargo] package (run the tool, decode the graph)
//	      ↓
//	 [provenance] package (classify, drop dev-only packages)
//	      ↓
//	 [publishers] package (crates.io owners per crate)
//	      ↓
//	 [report] and [render/dot] packages (JSON, DOT, SVG)
//
// [audit] ties the first two steps together and is what the CLI calls.
//
// # Main Packages
//
// [deps] - The build graph: packages, their declared dependencies and the
// workspace members.
//
// [provenance] - Classification into local, crates.io and foreign packages, and
// the non-dev reachability filter. Pure functions, no I/O.
//
// [semver] - Cargo version requirements over Masterminds/semver.
//
// [cargo] - Runs `cargo metadata` and decodes its output. Tool failures keep
// cargo's stderr so it can be shown to the user as-is.
//
// [integrations/crates] - crates.io API client, cached and retried through the
// shared [integrations] client.
//
// [cache] - File, Redis and no-op response caches.
//
// [errors] - Coded errors and input validation.
//
// [observability] - Hooks for load, filter, cache and HTTP events.
//
// [audit]: github.com/matzehuels/supplychain/pkg/audit
// [cargo]: github.com/matzehuels/supplychain/pkg/cargo
// [deps]: github.com/matzehuels/supplychain/pkg/deps
// [provenance]: github.com/matzehuels/supplychain/pkg/provenance
// [publishers]: github.com/matzehuels/supplychain/pkg/publishers
// [report]: github.com/matzehuels/supplychain/pkg/report
// [render/dot]: github.com/matzehuels/supplychain/pkg/render/dot
// [semver]: github.com/matzehuels/supplychain/pkg/semver
// [integrations]: github.com/matzehuels/supplychain/pkg/integrations
// [integrations/crates]: github.com/matzehuels/supplychain/pkg/integrations/crates
// [cache]: github.com/matzehuels/supplychain/pkg/cache
// [errors]: github.com/matzehuels/supplychain/pkg/errors
// [observability]: github.com/matzehuels/supplychain/pkg/observability
package pkg
