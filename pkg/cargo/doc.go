// Package cargo loads the resolved build graph of a Cargo project.
//
// # Overview
//
// The graph comes from `cargo metadata --format-version 1`, which resolves the
// workspace and lists every package in the build together with its declared
// dependencies. [Load] runs the tool and decodes its output into a
// [deps.Graph]:
//
//	g, err := cargo.Load(ctx, cargo.MetadataArgs{ManifestPath: "Cargo.toml"})
//	if err != nil {
//	    fmt.Fprintln(os.Stderr, errors.UserMessage(err))
//	    os.Exit(1)
//	}
//
// # Errors
//
// When cargo itself fails (a broken manifest, an unknown target, no network
// for the index), the error carries cargo's stderr unmodified under
// [errors.ErrCodeSourceFetch]; printing [errors.UserMessage] shows the user
// exactly what cargo said. Any other failure is reported as
// "failed to fetch crate metadata" with the cause attached.
//
// # Testing
//
// The command goes through a [Runner]; tests substitute a fake that returns
// canned JSON.
//
// [deps.Graph]: github.com/matzehuels/supplychain/pkg/deps.Graph
// [errors.ErrCodeSourceFetch]: github.com/matzehuels/supplychain/pkg/errors.ErrCodeSourceFetch
// [errors.UserMessage]: github.com/matzehuels/supplychain/pkg/errors.UserMessage
package cargo
