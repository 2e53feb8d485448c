package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/matzehuels/supplychain/pkg/audit"
	"github.com/matzehuels/supplychain/pkg/cargo"
	"github.com/matzehuels/supplychain/pkg/provenance"
	"github.com/matzehuels/supplychain/pkg/publishers"
)

// auditFlags are shared by every command that loads the build graph.
type auditFlags struct {
	allFeatures       bool
	noDefaultFeatures bool
	manifestPath      string
	target            string
	features          string
	noDev             bool
	refresh           bool
	noCache           bool
}

func (f *auditFlags) register(root *cobra.Command) {
	pf := root.PersistentFlags()
	pf.BoolVar(&f.allFeatures, "all-features", false, "activate all available features")
	pf.BoolVar(&f.noDefaultFeatures, "no-default-features", false, "do not activate the `default` feature")
	pf.StringVar(&f.manifestPath, "manifest-path", "", "path to Cargo.toml")
	pf.StringVar(&f.target, "target", "", "only include dependencies matching the given target triple")
	pf.StringVar(&f.features, "features", "", "space or comma separated list of features to activate")
	pf.BoolVar(&f.noDev, "no-dev", false, "exclude dev-dependencies")
	pf.BoolVar(&f.refresh, "refresh", false, "bypass cached crates.io responses")
	pf.BoolVar(&f.noCache, "no-cache", false, "disable the crates.io response cache")
}

func (f *auditFlags) metadataArgs() cargo.MetadataArgs {
	return cargo.MetadataArgs{
		AllFeatures:       f.allFeatures,
		NoDefaultFeatures: f.noDefaultFeatures,
		ManifestPath:      f.manifestPath,
		Target:            f.target,
		Features:          f.features,
		NoDev:             f.noDev,
	}
}

// metadataContext bounds a graph load by metadata.timeout when it is set.
func (c *CLI) metadataContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if d := c.cfg.Metadata.Timeout; d > 0 {
		return context.WithTimeout(ctx, d)
	}
	return ctx, func() {}
}

// runAudit loads and classifies the build graph.
func (c *CLI) runAudit(ctx context.Context) (*audit.Result, error) {
	ctx, cancel := c.metadataContext(ctx)
	defer cancel()

	logger := loggerFromContext(ctx)
	prog := newProgress(logger)

	res, err := c.newAuditRunner().Execute(ctx, c.flags.metadataArgs())
	if err != nil {
		return nil, err
	}
	prog.done(fmt.Sprintf("Loaded %d packages", res.Stats.Kept))
	logger.Debug("classified packages",
		"local", res.Stats.Local,
		"crates.io", res.Stats.Registry,
		"foreign", res.Stats.Foreign)
	return res, nil
}

// sourcedDependencies loads the classified package list for commands that
// need nothing else from the audit.
func (c *CLI) sourcedDependencies(ctx context.Context) ([]provenance.SourcedPackage, error) {
	ctx, cancel := c.metadataContext(ctx)
	defer cancel()

	prog := newProgress(loggerFromContext(ctx))
	pkgs, err := c.newAuditRunner().SourcedDependencies(ctx, c.flags.metadataArgs())
	if err != nil {
		return nil, err
	}
	prog.done(fmt.Sprintf("Loaded %d packages", len(pkgs)))
	return pkgs, nil
}

// fetchOwnership looks up the publishers of every crates.io package.
func (c *CLI) fetchOwnership(ctx context.Context, pkgs []provenance.SourcedPackage) (*publishers.Ownership, error) {
	fetcher, closeFn, err := c.newOwnerFetcher(ctx)
	if err != nil {
		return nil, err
	}
	defer closeFn()

	n := len(provenance.Names(pkgs, provenance.Registry))
	var spin *Spinner
	if c.spinners && n > 0 {
		spin = newSpinnerWithContext(ctx, fmt.Sprintf("Fetching publisher info for %d crates from crates.io...", n))
		spin.Start()
	}

	prog := newProgress(loggerFromContext(ctx))
	own, err := publishers.Fetch(ctx, fetcher, pkgs, publishers.Options{
		Concurrency: c.cfg.Crates.Concurrency,
		Refresh:     c.flags.refresh,
		Logger:      loggerFromContext(ctx),
	})
	if spin != nil {
		spin.Stop()
	}
	if err != nil {
		return nil, err
	}
	prog.done(fmt.Sprintf("Fetched publishers for %d crates", len(own.ByCrate)))
	return own, nil
}

// complainAboutNonCratesIO lists crates that cannot be audited.
func complainAboutNonCratesIO(w io.Writer, pkgs []provenance.SourcedPackage) {
	if local := provenance.Names(pkgs, provenance.Local); len(local) > 0 {
		fmt.Fprintln(w, "\nThe following crates will be ignored because they come from a local directory:")
		for _, name := range local {
			fmt.Fprintf(w, " - %s\n", name)
		}
	}
	if foreign := provenance.Names(pkgs, provenance.Foreign); len(foreign) > 0 {
		fmt.Fprintln(w, "\nCannot audit the following crates because they are not from crates.io:")
		for _, name := range foreign {
			fmt.Fprintf(w, " - %s\n", name)
		}
	}
}

func printInvitationsNote(w io.Writer) {
	fmt.Fprintln(w, "\nNote: there may be outstanding publisher invitations. crates.io provides no way to list them.")
	fmt.Fprintln(w, "Invitations are also impossible to revoke, and they never expire.")
	fmt.Fprintln(w, "See https://github.com/rust-lang/crates.io/issues/2868 for more info.")
}
