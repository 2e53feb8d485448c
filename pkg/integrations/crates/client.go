package crates

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/matzehuels/supplychain/pkg/buildinfo"
	"github.com/matzehuels/supplychain/pkg/cache"
	apperrors "github.com/matzehuels/supplychain/pkg/errors"
	"github.com/matzehuels/supplychain/pkg/integrations"
)

// DefaultBaseURL is the crates.io API root.
const DefaultBaseURL = "https://crates.io/api/v1"

// OwnerKind distinguishes individual publishers from GitHub teams.
type OwnerKind string

const (
	KindUser OwnerKind = "user"
	KindTeam OwnerKind = "team"
)

// Owner is an account that can publish new versions of a crate.
//
// Login is "github:org:team" for teams. Name and URL may be empty.
type Owner struct {
	ID    int64     `json:"id"`
	Login string    `json:"login"`
	Kind  OwnerKind `json:"kind"`
	Name  string    `json:"name,omitempty"`
	URL   string    `json:"url,omitempty"`
}

// IsTeam reports whether the owner is a team.
func (o Owner) IsTeam() bool { return o.Kind == KindTeam }

// Client provides access to the crates.io API.
// It handles HTTP requests with caching and automatic retries.
//
// All methods are safe for concurrent use by multiple goroutines.
//
// Note: crates.io requires a User-Agent header; this client sets one automatically.
type Client struct {
	*integrations.Client
	baseURL string
}

// NewClient creates a crates.io client with the given cache backend.
//
// Parameters:
//   - backend: Cache backend for HTTP response caching (use cache.NewNullCache() for no caching)
//   - cacheTTL: How long responses are cached (typical: 1-24 hours)
func NewClient(backend cache.Cache, cacheTTL time.Duration) *Client {
	return &Client{
		Client:  integrations.NewClient(backend, "crates:", cacheTTL, userAgent()),
		baseURL: DefaultBaseURL,
	}
}

// WithBaseURL points the client at a different API root (a mirror or a test server).
func (c *Client) WithBaseURL(u string) *Client {
	if u != "" {
		c.baseURL = strings.TrimRight(u, "/")
	}
	return c
}

func userAgent() map[string]string {
	return map[string]string{"User-Agent": buildinfo.UserAgent()}
}

// FetchOwners returns the users and teams that can publish crate.
//
// If refresh is true, the cache is bypassed and a fresh API call is made.
//
// Returns:
//   - the owners in API order on success (possibly empty)
//   - an [apperrors.ErrCodeInvalidPackage] error if crate is not a valid crate name
//   - an [apperrors.ErrCodeNotFound] error wrapping [integrations.ErrNotFound] if the crate doesn't exist
//   - [integrations.ErrNetwork] for HTTP failures (timeout, 5xx, etc.)
func (c *Client) FetchOwners(ctx context.Context, crate string, refresh bool) ([]Owner, error) {
	if err := apperrors.ValidateCrateName(crate); err != nil {
		return nil, err
	}

	var owners []Owner
	err := c.Cached(ctx, crate+":owners", refresh, &owners, func() error {
		return c.fetchOwners(ctx, crate, &owners)
	})
	if err != nil {
		return nil, err
	}
	return owners, nil
}

func (c *Client) fetchOwners(ctx context.Context, crate string, out *[]Owner) error {
	url := fmt.Sprintf("%s/crates/%s/owners", c.baseURL, integrations.URLEncode(crate))

	var data ownersResponse
	if err := c.Get(ctx, url, &data); err != nil {
		if errors.Is(err, integrations.ErrNotFound) {
			return apperrors.Wrap(apperrors.ErrCodeNotFound, err, "crate %s does not exist on crates.io", crate)
		}
		return err
	}

	owners := make([]Owner, 0, len(data.Users))
	for _, u := range data.Users {
		kind := OwnerKind(u.Kind)
		if kind != KindTeam {
			kind = KindUser
		}
		owners = append(owners, Owner{ID: u.ID, Login: u.Login, Kind: kind, Name: u.Name, URL: u.URL})
	}
	*out = owners
	return nil
}

type ownersResponse struct {
	Users []struct {
		ID    int64  `json:"id"`
		Login string `json:"login"`
		Kind  string `json:"kind"`
		Name  string `json:"name"`
		URL   string `json:"url"`
	} `json:"users"`
}
