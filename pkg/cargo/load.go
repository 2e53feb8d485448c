package cargo

import (
	"bytes"
	"context"
	stderrors "errors"

	"github.com/matzehuels/supplychain/pkg/deps"
	"github.com/matzehuels/supplychain/pkg/errors"
)

// Loader runs cargo metadata and decodes the result.
type Loader struct {
	Binary string // cargo executable; empty uses DefaultBinary
	Runner Runner // nil uses ExecRunner
}

// Load runs cargo metadata with the default loader.
func Load(ctx context.Context, args MetadataArgs) (*deps.Graph, error) {
	return (&Loader{}).Load(ctx, args)
}

// Load runs cargo metadata for args and returns the resolved graph.
//
// args is passed to cargo without checks so every problem with it is
// reported in cargo's own words. A context that expires while cargo runs
// yields an [errors.ErrCodeTimeout] error; a cancelled one is returned as is.
func (l *Loader) Load(ctx context.Context, args MetadataArgs) (*deps.Graph, error) {
	bin := l.Binary
	if bin == "" {
		bin = DefaultBinary()
	}
	runner := l.Runner
	if runner == nil {
		runner = ExecRunner{}
	}

	out, err := runner.Run(ctx, bin, Command(args))
	if err != nil {
		var toolErr *ToolError
		if stderrors.As(err, &toolErr) {
			return nil, errors.Wrap(errors.ErrCodeSourceFetch, err, "%s", toolErr.Stderr)
		}
		switch ctxErr := ctx.Err(); {
		case stderrors.Is(ctxErr, context.DeadlineExceeded):
			return nil, errors.Wrap(errors.ErrCodeTimeout, ctxErr, "cargo metadata did not finish in time")
		case ctxErr != nil:
			return nil, ctxErr
		}
		return nil, errors.Wrap(errors.ErrCodeSourceFetch, err, "failed to fetch crate metadata: %v", err)
	}

	g, err := Decode(bytes.NewReader(out))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeSourceFetch, err, "failed to fetch crate metadata: %s", errors.UserMessage(err))
	}
	return g, nil
}
