package publishers

import (
	"cmp"
	"context"
	"slices"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/supplychain/pkg/integrations/crates"
	"github.com/matzehuels/supplychain/pkg/observability"
	"github.com/matzehuels/supplychain/pkg/provenance"
)

// DefaultConcurrency bounds parallel requests to crates.io.
const DefaultConcurrency = 4

// Kind is the type of a publisher. Teams sort before users.
type Kind int

const (
	Team Kind = iota
	User
)

func (k Kind) String() string {
	switch k {
	case Team:
		return "team"
	case User:
		return "user"
	default:
		return "unknown"
	}
}

// Publisher is a user or team allowed to publish a crate.
type Publisher struct {
	Login string `json:"login"`
	Kind  Kind   `json:"-"`
	Name  string `json:"name,omitempty"`
	URL   string `json:"url,omitempty"`
}

// Display renders the publisher the way crate listings show it:
// users by login, teams as team "login".
func (p Publisher) Display() string {
	if p.Kind == Team {
		return `team "` + p.Login + `"`
	}
	return p.Login
}

// OwnerFetcher retrieves the owners of a crate. [*crates.Client] implements it.
//
// FetchOwners must be safe for concurrent use.
type OwnerFetcher interface {
	FetchOwners(ctx context.Context, crate string, refresh bool) ([]crates.Owner, error)
}

// Options configures [Fetch].
type Options struct {
	Concurrency int  // parallel lookups; zero uses DefaultConcurrency
	Refresh     bool // bypass cached responses
	Logger      *log.Logger
}

// Ownership maps crate names to their publishers.
type Ownership struct {
	ByCrate map[string][]Publisher
	Failed  []string // crates whose owners could not be fetched, sorted
}

// Fetch looks up the owners of every crates.io package in pkgs. Packages with
// the same name are looked up once.
func Fetch(ctx context.Context, fetcher OwnerFetcher, pkgs []provenance.SourcedPackage, opts Options) (*Ownership, error) {
	names := provenance.Names(pkgs, provenance.Registry)
	limit := opts.Concurrency
	if limit <= 0 {
		limit = DefaultConcurrency
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}

	var (
		mu  sync.Mutex
		own = &Ownership{ByCrate: make(map[string][]Publisher, len(names))}
	)
	start := time.Now()

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)
	for _, name := range names {
		g.Go(func() error {
			owners, err := fetcher.FetchOwners(gctx, name, opts.Refresh)
			if err != nil {
				if ctxErr := gctx.Err(); ctxErr != nil {
					return ctxErr
				}
				logger.Warn("could not fetch owners", "crate", name, "err", err)
				mu.Lock()
				own.Failed = append(own.Failed, name)
				mu.Unlock()
				return nil
			}
			pubs := make([]Publisher, len(owners))
			for i, o := range owners {
				pubs[i] = fromOwner(o)
			}
			mu.Lock()
			own.ByCrate[name] = pubs
			mu.Unlock()
			return nil
		})
	}

	err := g.Wait()
	observability.Audit().OnOwnersComplete(ctx, len(names), time.Since(start), err)
	if err != nil {
		return nil, err
	}
	slices.Sort(own.Failed)
	return own, nil
}

func fromOwner(o crates.Owner) Publisher {
	p := Publisher{Login: o.Login, Kind: User, Name: o.Name, URL: o.URL}
	if o.IsTeam() {
		p.Kind = Team
	}
	return p
}

// CrateOwners is a crate with its publishers, teams first then by login.
type CrateOwners struct {
	Crate      string
	Publishers []Publisher
}

// HasTeam reports whether any publisher is a team.
func (c CrateOwners) HasTeam() bool {
	return slices.ContainsFunc(c.Publishers, func(p Publisher) bool { return p.Kind == Team })
}

// Crates returns every crate with its publishers. Crates owned by at least one
// team come first, then crates with more publishers, then by name.
func (o *Ownership) Crates() []CrateOwners {
	out := make([]CrateOwners, 0, len(o.ByCrate))
	for name, pubs := range o.ByCrate {
		sorted := slices.Clone(pubs)
		slices.SortFunc(sorted, comparePublishers)
		out = append(out, CrateOwners{Crate: name, Publishers: sorted})
	}
	slices.SortFunc(out, func(a, b CrateOwners) int {
		if a.HasTeam() != b.HasTeam() {
			if a.HasTeam() {
				return -1
			}
			return 1
		}
		if c := cmp.Compare(len(b.Publishers), len(a.Publishers)); c != 0 {
			return c
		}
		return cmp.Compare(a.Crate, b.Crate)
	})
	return out
}

func comparePublishers(a, b Publisher) int {
	if c := cmp.Compare(a.Kind, b.Kind); c != 0 {
		return c
	}
	return cmp.Compare(a.Login, b.Login)
}

// PublisherCrates is a publisher with the crates it can publish, sorted.
type PublisherCrates struct {
	Publisher Publisher
	Crates    []string
}

// Publishers returns the publishers of the given kind with their crates,
// ordered by number of crates (most first) then login.
func (o *Ownership) Publishers(kind Kind) []PublisherCrates {
	byLogin := make(map[string]*PublisherCrates)
	for name, pubs := range o.ByCrate {
		for _, p := range pubs {
			if p.Kind != kind {
				continue
			}
			pc, ok := byLogin[p.Login]
			if !ok {
				pc = &PublisherCrates{Publisher: p}
				byLogin[p.Login] = pc
			}
			pc.Crates = append(pc.Crates, name)
		}
	}

	out := make([]PublisherCrates, 0, len(byLogin))
	for _, pc := range byLogin {
		slices.Sort(pc.Crates)
		pc.Crates = slices.Compact(pc.Crates)
		out = append(out, *pc)
	}
	slices.SortFunc(out, func(a, b PublisherCrates) int {
		if c := cmp.Compare(len(b.Crates), len(a.Crates)); c != 0 {
			return c
		}
		return cmp.Compare(a.Publisher.Login, b.Publisher.Login)
	})
	return out
}
