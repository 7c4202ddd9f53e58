// Package blazee is the client SDK for the blazee model-hosting service.
// It deploys locally saved machine-learning models to the service and
// exposes the deployed models for prediction:
//
//	client, err := blazee.ClientFromEnvironment()
//	...
//	model, version, err := client.DeployModel(ctx, "model.pickle", nil)
//	...
//	pred, err := model.Predict(ctx, []float64{5.1, 3.5, 1.4, 0.2})
//
// The heavy lifting happens in the subpackages: serialize detects and
// packages the model artifact, deps collects its dependency metadata, and
// api speaks the service's REST protocol.
package blazee

import (
	"context"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/google/uuid"

	"github.com/blazee-io/blazee-go/api"
	"github.com/blazee-io/blazee-go/deps"
	"github.com/blazee-io/blazee-go/envconfig"
)

const (
	defaultPollInterval    = 5 * time.Second
	defaultMaxPollAttempts = 60
)

// Config configures a [Client]. APIKey is required; everything else has a
// working default. The configuration is copied at construction time and
// never mutated afterwards.
type Config struct {
	Host       *url.URL
	APIKey     string
	HTTPClient *http.Client

	// Environment answers installed-package lookups while collecting the
	// dependency metadata of a model. When nil, BLAZEE_SITE_PACKAGES is
	// consulted; if that is unset too, no dependency versions are
	// collected.
	Environment deps.Environment

	// PollInterval and MaxPollAttempts bound the deployment status loop.
	// Defaults: 5s and 60, giving deployments five minutes to resolve.
	PollInterval    time.Duration
	MaxPollAttempts int

	Logger *slog.Logger
}

// Client is the entry point of the SDK. It is safe for use from multiple
// goroutines; each call is independent and carries no state between calls
// beyond the immutable configuration.
type Client struct {
	api             *api.Client
	env             deps.Environment
	log             *slog.Logger
	pollInterval    time.Duration
	maxPollAttempts int
}

// NewClient creates a [Client] from an explicit configuration.
func NewClient(cfg Config) (*Client, error) {
	apiClient, err := api.NewClient(api.Config{
		Host:       cfg.Host,
		APIKey:     cfg.APIKey,
		HTTPClient: cfg.HTTPClient,
	})
	if err != nil {
		return nil, err
	}

	env := cfg.Environment
	if env == nil {
		if dir := envconfig.SitePackages(); dir != "" {
			env, err = deps.LoadSitePackages(dir)
			if err != nil {
				return nil, err
			}
		}
	}

	pollInterval := cfg.PollInterval
	if pollInterval <= 0 {
		pollInterval = defaultPollInterval
	}

	maxPollAttempts := cfg.MaxPollAttempts
	if maxPollAttempts <= 0 {
		maxPollAttempts = defaultMaxPollAttempts
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Client{
		api:             apiClient,
		env:             env,
		log:             logger,
		pollInterval:    pollInterval,
		maxPollAttempts: maxPollAttempts,
	}, nil
}

// ClientFromEnvironment creates a [Client] configured from the BLAZEE_HOST,
// BLAZEE_API_KEY and BLAZEE_SITE_PACKAGES environment variables.
func ClientFromEnvironment() (*Client, error) {
	return NewClient(Config{
		Host:   envconfig.Host(),
		APIKey: envconfig.APIKey(),
	})
}

// Models lists all models of the account.
func (c *Client) Models(ctx context.Context) ([]*Model, error) {
	summaries, err := c.api.ListModels(ctx)
	if err != nil {
		return nil, err
	}

	models := make([]*Model, 0, len(summaries))
	for i := range summaries {
		models = append(models, c.newModel(&summaries[i]))
	}
	return models, nil
}

// Model fetches one model by id.
func (c *Client) Model(ctx context.Context, modelID string) (*Model, error) {
	if uuid.Validate(modelID) != nil {
		return nil, &MalformedIDError{ID: modelID}
	}

	summary, err := c.api.GetModel(ctx, modelID)
	if err != nil {
		return nil, err
	}
	return c.newModel(summary), nil
}
