// Package attio provides types, interfaces, and helpers for working with the
// Attio REST API.
//
// # Overview
//
// The attio package defines the domain types (e.g., Object, Record, List,
// Entry, Note, Task) and the interfaces for resource-oriented clients (e.g.,
// RecordsClient, ListsClient). A concrete implementation of these clients is
// provided by the attioclient package, which wires configuration, transport,
// authentication, and caching. Most consumers should import attioclient to
// construct a client and then interact with the resource client interfaces
// exposed here.
//
// # Getting a client
//
//	import (
//	  "context"
//	  "log"
//
//	  "github.com/fivetwenty-io/attio/pkg/attio"
//	  "github.com/fivetwenty-io/attio/pkg/attioclient"
//	)
//
//	func example() {
//	  ctx := context.Background()
//	  cli, err := attioclient.New(ctx, &attio.Config{APIKey: "your-api-key"})
//	  if err != nil { log.Fatal(err) }
//
//	  // Query the first page of people
//	  people, err := cli.People().Query(ctx, attio.NewQueryParams().WithLimit(50))
//	  if err != nil { log.Fatal(err) }
//	  _ = people
//	}
//
// # Queries and pagination
//
// Use QueryParams to express common list options (limit, offset, cursor,
// filters, sorts). Record queries send these in the request body; list
// endpoints send them as query parameters. The package also provides helpers
// for iterating or collecting paginated results; wrap a client's List method
// in ListFunc to drive them:
//
//	tasks := attio.ListFunc[attio.Task](cli.Tasks().List)
//	it := attio.NewPaginationIterator(ctx, tasks, "", attio.NewQueryParams())
//	for it.HasNext() {
//	  task, err := it.Next()
//	  if err != nil { break }
//	  _ = task
//	}
//
// or fetch all results at once:
//
//	all, err := attio.FetchAllPages(ctx, tasks, "", nil, attio.DefaultPaginationOptions())
//	if err != nil { /* handle error */ }
//	_ = all
//
// # Errors
//
// API errors are represented by Error, carrying a Kind that classifies the
// failure. Helpers such as IsNotFound, IsAuthentication, and IsRateLimit make
// it easy to branch on common cases without inspecting status codes.
//
// # Interceptors and caching
//
// The package includes generic building blocks such as request/response
// interceptors (for logging, auth headers, metrics, rate limiting, circuit
// breaking) and a pluggable Cache abstraction with in-memory and NATS
// JetStream backends. The attioclient package composes these pieces for a
// sensible default client; applications with advanced needs can also use
// these primitives directly.
//
// # Webhooks
//
// WebhookVerifier authenticates incoming webhook deliveries by checking the
// signature and timestamp headers Attio attaches to each request, using a
// constant-time comparison and a bounded timestamp tolerance. A client built
// with Config.WebhookSecret exposes a ready verifier through
// Client.WebhookVerifier.
//
// # Resources
//
// Resource clients follow a consistent pattern across Attio resources
// (Objects, Attributes, Records, Lists, Entries, Notes, Tasks, Comments,
// Threads, Webhooks, WorkspaceMembers, Meta), plus standard-object shortcuts
// for People, Companies, and Deals. See the individual interfaces in
// clients.go for the full surface area.
package attio
