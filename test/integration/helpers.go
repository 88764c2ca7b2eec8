//go:build integration

package integration

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/fivetwenty-io/attio/pkg/attio"
	"github.com/fivetwenty-io/attio/pkg/attioclient"
)

// TestConfig holds configuration for integration tests.
type TestConfig struct {
	APIKey      string
	APIEndpoint string
	Debug       bool
}

// LoadTestConfig loads configuration from environment variables.
func LoadTestConfig() *TestConfig {
	return &TestConfig{
		APIKey:      os.Getenv("ATTIO_TEST_API_KEY"),
		APIEndpoint: os.Getenv("ATTIO_TEST_API_ENDPOINT"),
		Debug:       os.Getenv("ATTIO_TEST_DEBUG") == "true",
	}
}

// SkipIfMissingConfig skips the test when no workspace credentials are set.
// Integration tests write real records; point ATTIO_TEST_API_KEY at a
// scratch workspace.
func (config *TestConfig) SkipIfMissingConfig(t *testing.T) {
	t.Helper()

	if config.APIKey == "" {
		t.Skip("ATTIO_TEST_API_KEY not set, skipping integration test")
	}
}

// NewClient builds a client against the configured workspace.
func (config *TestConfig) NewClient(t *testing.T) attio.Client {
	t.Helper()

	client, err := attioclient.New(context.Background(), &attio.Config{
		APIEndpoint: config.APIEndpoint,
		APIKey:      config.APIKey,
		Debug:       config.Debug,
	})
	if err != nil {
		t.Fatalf("creating integration client: %v", err)
	}

	return client
}

// GenerateTestName returns a unique name carrying the given prefix, so
// parallel runs never collide on asserted records.
func GenerateTestName(prefix string) string {
	return fmt.Sprintf("%s-%d", prefix, time.Now().UnixNano())
}

// GenerateTestEmail returns a unique address under the reserved example.com
// domain.
func GenerateTestEmail(prefix string) string {
	return GenerateTestName(prefix) + "@example.com"
}
