// Package config loads the process configuration from the environment.
//
// Exactly two options are recognised, the backend base URL and the auth
// token. Both are required; a missing or malformed value is a
// ConfigurationError and aborts startup.
package config

import (
	"fmt"
	"net/url"
	"os"
	"strings"

	"github.com/joho/godotenv"

	"mcp-deployment-service/pkg/errors"
)

// Environment variable names
const (
	EnvAPIURL   = "DEPLOY_API_URL"
	EnvAPIToken = "DEPLOY_API_TOKEN"
)

// DefaultEnvFile is read from the working directory when present
const DefaultEnvFile = ".env"

// Config is the immutable startup configuration
type Config struct {
	APIURL   string
	APIToken string
	// EnvFile is the file values were loaded from, empty when none was read
	EnvFile string
}

// Load reads envFile into the process environment, without overriding
// variables that are already set, and then builds the configuration. A
// missing envFile is not an error.
func Load(envFile string) (*Config, error) {
	loaded := ""
	if envFile != "" {
		if _, err := os.Stat(envFile); err == nil {
			if err := godotenv.Load(envFile); err != nil {
				return nil, &errors.ConfigurationError{
					Option:  envFile,
					Message: "failed to parse environment file",
					Cause:   err,
				}
			}
			loaded = envFile
		} else if !os.IsNotExist(err) {
			return nil, &errors.ConfigurationError{
				Option:  envFile,
				Message: "failed to read environment file",
				Cause:   err,
			}
		}
	}

	cfg, err := FromLookup(os.LookupEnv)
	if err != nil {
		return nil, err
	}
	cfg.EnvFile = loaded
	return cfg, nil
}

// FromLookup builds the configuration from a variable lookup function
func FromLookup(lookup func(string) (string, bool)) (*Config, error) {
	apiURL, _ := lookup(EnvAPIURL)
	apiToken, _ := lookup(EnvAPIToken)

	cfg := &Config{
		APIURL:   strings.TrimSpace(apiURL),
		APIToken: strings.TrimSpace(apiToken),
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks that both options are present and well formed
func (c *Config) Validate() error {
	if c.APIURL == "" {
		return &errors.ConfigurationError{Option: EnvAPIURL, Message: "is required"}
	}
	u, err := url.Parse(c.APIURL)
	if err != nil {
		return &errors.ConfigurationError{Option: EnvAPIURL, Message: "is not a valid URL", Cause: err}
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return &errors.ConfigurationError{Option: EnvAPIURL, Message: "must be an absolute http or https URL"}
	}
	if c.APIToken == "" {
		return &errors.ConfigurationError{Option: EnvAPIToken, Message: "is required"}
	}
	return nil
}

// String renders the configuration with the token masked
func (c *Config) String() string {
	return fmt.Sprintf("%s=%s %s=%s", EnvAPIURL, c.APIURL, EnvAPIToken, MaskToken(c.APIToken))
}

// MaskToken keeps the last four characters of long tokens only
func MaskToken(token string) string {
	if len(token) <= 8 {
		return strings.Repeat("*", len(token))
	}
	return strings.Repeat("*", 8) + token[len(token)-4:]
}
