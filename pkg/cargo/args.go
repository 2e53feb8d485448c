package cargo

// MetadataArgs selects what cargo resolves. The flags are passed through to
// cargo metadata without interpretation.
type MetadataArgs struct {
	AllFeatures       bool
	NoDefaultFeatures bool
	ManifestPath      string // path to Cargo.toml; empty means the current directory
	Target            string // only include dependencies for this target triple
	Features          string // space or comma separated list, passed verbatim
	NoDev             bool   // drop packages only reachable through dev-dependencies
}

// Command returns the arguments for cargo, starting with the subcommand.
func Command(args MetadataArgs) []string {
	argv := []string{"metadata", "--format-version", "1"}
	if args.AllFeatures {
		argv = append(argv, "--all-features")
	}
	if args.NoDefaultFeatures {
		argv = append(argv, "--no-default-features")
	}
	if args.ManifestPath != "" {
		argv = append(argv, "--manifest-path", args.ManifestPath)
	}
	if args.Target != "" {
		argv = append(argv, "--filter-platform="+args.Target)
	}
	if args.Features != "" {
		argv = append(argv, "--features="+args.Features)
	}
	return argv
}
