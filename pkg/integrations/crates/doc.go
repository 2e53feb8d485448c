// Package crates provides an HTTP client for the crates.io API.
//
// # Usage
//
//	client := crates.NewClient(cache.NewNullCache(), 24*time.Hour)
//	owners, err := client.FetchOwners(ctx, "serde", false)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	for _, o := range owners {
//	    fmt.Println(o.Kind, o.Login)
//	}
//
// # Owners
//
// [Client.FetchOwners] queries /crates/{name}/owners. Owners are either
// individual users or GitHub teams; anyone on the list can publish a new
// version, so it is the list an audit needs. crates.io offers no way to list
// pending owner invitations.
//
// # Caching
//
// Responses are cached to reduce load on crates.io. The cache TTL is set
// when creating the client. Pass refresh=true to bypass the cache.
//
// # User-Agent
//
// The client includes a User-Agent header as requested by crates.io policy.
package crates
