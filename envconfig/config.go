// Package envconfig resolves client configuration from well-known
// environment variables. It is a convenience layer only: callers wanting
// explicit configuration pass it to the client constructor directly and
// never touch this package.
package envconfig

import (
	"net/url"
	"os"
	"strings"
)

// Var returns an environment variable, stripped of whitespace and quotes.
func Var(key string) string {
	return strings.Trim(strings.TrimSpace(os.Getenv(key)), "\"'")
}

// Host returns the scheme and host of the blazee service.
// Configurable via BLAZEE_HOST. Default: https://api.blazee.io
func Host() *url.URL {
	s := Var("BLAZEE_HOST")
	if s == "" {
		s = "https://api.blazee.io"
	}

	scheme, hostport, ok := strings.Cut(s, "://")
	if !ok {
		scheme, hostport = "https", s
	}

	return &url.URL{
		Scheme: scheme,
		Host:   hostport,
	}
}

// APIKey returns the account API key.
// Configurable via BLAZEE_API_KEY. There is no default.
func APIKey() string {
	return Var("BLAZEE_API_KEY")
}

// SitePackages returns the directory scanned for installed package
// metadata when collecting model dependencies.
// Configurable via BLAZEE_SITE_PACKAGES. There is no default.
func SitePackages() string {
	return Var("BLAZEE_SITE_PACKAGES")
}

// EnvVar documents a single environment variable for CLI usage output.
type EnvVar struct {
	Name        string
	Value       any
	Description string
}

// AsMap returns the documented environment variables and their current
// values.
func AsMap() map[string]EnvVar {
	return map[string]EnvVar{
		"BLAZEE_HOST":          {"BLAZEE_HOST", Host(), "Host of the blazee service (default \"https://api.blazee.io\")"},
		"BLAZEE_API_KEY":       {"BLAZEE_API_KEY", APIKey(), "API key for your blazee account"},
		"BLAZEE_SITE_PACKAGES": {"BLAZEE_SITE_PACKAGES", SitePackages(), "Directory scanned for installed package metadata"},
	}
}
