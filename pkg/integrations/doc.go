// Package integrations provides the shared HTTP client used by registry API
// clients.
//
// # Overview
//
// Registry-specific clients live in subpackages:
//
//   - [crates]: crates.io (crate owners)
//
// # Client Pattern
//
// Registry clients wrap a [Client] and expose typed fetch methods:
//
//	client := crates.NewClient(backend, 24*time.Hour)
//	owners, err := client.FetchOwners(ctx, "serde", false) // false = use cache
//
// The shared [Client] handles:
//   - HTTP requests with retry on 429 and 5xx responses
//   - Response caching through any [cache.Cache] backend with a configurable TTL
//   - Cache and HTTP observability hooks
//
// [crates]: github.com/matzehuels/supplychain/pkg/integrations/crates
// [cache.Cache]: github.com/matzehuels/supplychain/pkg/cache.Cache
package integrations
