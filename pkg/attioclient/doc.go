// Package attioclient provides the primary entry point for constructing an
// Attio API client that implements the attio.Client interface.
//
// It layers configuration, HTTP transport, and authentication on top of the
// resource interfaces and types defined in the attio package. Most
// applications should import attioclient to build a client, then use the
// returned attio.Client to access resource-specific clients, for example
// Records(), Lists(), Tasks(), etc.
//
// # Quick start
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
//
//	  // Minimal: a workspace API key against the public endpoint.
//	  cli, err := attioclient.NewWithAPIKey(ctx, "attio-api-key")
//	  if err != nil { log.Fatal(err) }
//
//	  // Or with full configuration:
//	  cli, err = attioclient.New(ctx, &attio.Config{
//	    APIKey: "attio-api-key",
//	    Debug:  true,
//	  })
//
//	  // Or with OAuth credentials from an app installation. When no token
//	  // URL is set, the public Attio OAuth endpoint is used.
//	  cli, err = attioclient.NewWithOAuth(ctx, "client-id", "client-secret",
//	    "workspace-access-token", "refresh-token")
//	  if err != nil { log.Fatal(err) }
//
//	  // Use resource clients via the attio.Client interface
//	  people, err := cli.People().Query(ctx, attio.NewQueryParams().WithLimit(10))
//	  if err != nil { log.Fatal(err) }
//	  _ = people
//	}
//
// # TLS and development mode
//
// For local development, you can set Config.SkipTLSVerify=true. This is gated
// by the environment variable ATTIO_DEV_MODE to avoid accidental insecure
// usage in production environments.
//
// # Helpers
//
// The package also provides convenience constructors NewWithAPIKey,
// NewWithAccessToken, and NewWithOAuth that wrap New with the appropriate
// configuration, and NewFromEnvironment, which reads ATTIO_* environment
// variables and an optional config file.
package attioclient
