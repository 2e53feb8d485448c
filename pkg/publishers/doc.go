// Package publishers works out who can publish new versions of the crates.io
// packages in a build.
//
// # Overview
//
// Every crate on crates.io has a list of owners. Each owner, a user or a
// GitHub team, can push a new version that downstream builds pick up on the
// next update. [Fetch] collects the owners of every crates.io package in an
// audit concurrently:
//
//	client := crates.NewClient(backend, 24*time.Hour)
//	own, err := publishers.Fetch(ctx, client, pkgs, publishers.Options{})
//
// # Views
//
// [Ownership.Crates] lists crates with their publishers, riskiest first:
// crates owned by a team (whose membership cannot be inspected), then crates
// with more publishers. [Ownership.Publishers] inverts the mapping and lists
// each user or team with the crates they control, most crates first.
//
// # Failures
//
// A crate whose owners cannot be fetched is logged, recorded in
// [Ownership.Failed] and left out. Only context cancellation aborts a fetch.
package publishers
