package attioclient

import (
	"context"
	"fmt"

	"github.com/spf13/viper"

	"github.com/fivetwenty-io/attio/pkg/attio"
)

// NewFromEnvironment creates a client from ATTIO_* environment variables,
// optionally merged with a config file. Environment variables take
// precedence over file values; pass an empty path to use the environment
// alone.
//
// Recognized keys (environment variable / config file key):
//
//	ATTIO_API_KEY        api_key
//	ATTIO_ACCESS_TOKEN   access_token
//	ATTIO_REFRESH_TOKEN  refresh_token
//	ATTIO_CLIENT_ID      client_id
//	ATTIO_CLIENT_SECRET  client_secret
//	ATTIO_TOKEN_URL      token_url
//	ATTIO_API_ENDPOINT   api_endpoint
//	ATTIO_USER_AGENT     user_agent
//	ATTIO_WEBHOOK_SECRET webhook_secret
//	ATTIO_DEBUG          debug
func NewFromEnvironment(ctx context.Context, configFile string) (attio.Client, error) {
	env := viper.New()
	env.SetEnvPrefix("ATTIO")
	env.AutomaticEnv()

	if configFile != "" {
		env.SetConfigFile(configFile)

		err := env.ReadInConfig()
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}

	config := &attio.Config{
		APIEndpoint:   env.GetString("api_endpoint"),
		APIKey:        env.GetString("api_key"),
		AccessToken:   env.GetString("access_token"),
		RefreshToken:  env.GetString("refresh_token"),
		ClientID:      env.GetString("client_id"),
		ClientSecret:  env.GetString("client_secret"),
		TokenURL:      env.GetString("token_url"),
		UserAgent:     env.GetString("user_agent"),
		WebhookSecret: env.GetString("webhook_secret"),
		Debug:         env.GetBool("debug"),
	}

	if !config.HasCredentials() {
		return nil, attio.ErrEnvConfigIncomplete
	}

	return New(ctx, config)
}
