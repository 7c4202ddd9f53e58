package api

import (
	"context"
	"net/http"
)

// ListModels lists the models of the account.
func (c *Client) ListModels(ctx context.Context) ([]Model, error) {
	var models []Model
	if err := c.do(ctx, http.MethodGet, "/v1/models", nil, &models); err != nil {
		return nil, err
	}
	return models, nil
}

// GetModel fetches one model summary, including its default version.
func (c *Client) GetModel(ctx context.Context, modelID string) (*Model, error) {
	var m Model
	if err := c.do(ctx, http.MethodGet, "/v1/models/"+modelID, nil, &m); err != nil {
		return nil, err
	}
	return &m, nil
}

// CreateModel creates an empty model. Versions are deployed into it
// separately with [Client.CreateVersion].
func (c *Client) CreateModel(ctx context.Context, req *CreateModelRequest) (*Model, error) {
	var m Model
	if err := c.do(ctx, http.MethodPost, "/v1/models", req, &m); err != nil {
		return nil, err
	}
	return &m, nil
}

// UpdateModel patches a model's name or default version.
func (c *Client) UpdateModel(ctx context.Context, modelID string, req *UpdateModelRequest) (*Model, error) {
	var m Model
	if err := c.do(ctx, http.MethodPatch, "/v1/models/"+modelID, req, &m); err != nil {
		return nil, err
	}
	return &m, nil
}

// DeleteModel deletes a model and all of its versions.
func (c *Client) DeleteModel(ctx context.Context, modelID string) error {
	return c.do(ctx, http.MethodDelete, "/v1/models/"+modelID, nil, nil)
}

// ListVersions lists all versions of a model.
func (c *Client) ListVersions(ctx context.Context, modelID string) ([]Version, error) {
	var versions []Version
	if err := c.do(ctx, http.MethodGet, "/v1/models/"+modelID+"/versions", nil, &versions); err != nil {
		return nil, err
	}
	return versions, nil
}

// GetVersion fetches one version summary.
func (c *Client) GetVersion(ctx context.Context, modelID, versionID string) (*Version, error) {
	var v Version
	if err := c.do(ctx, http.MethodGet, "/v1/models/"+modelID+"/versions/"+versionID, nil, &v); err != nil {
		return nil, err
	}
	return &v, nil
}

// CreateVersion registers a new version of a model. The response carries
// the pre-signed upload target for the model archive.
func (c *Client) CreateVersion(ctx context.Context, modelID string, req *CreateVersionRequest) (*Version, error) {
	var v Version
	if err := c.do(ctx, http.MethodPost, "/v1/models/"+modelID+"/versions", req, &v); err != nil {
		return nil, err
	}
	return &v, nil
}

// DeployVersion signals the service to start deploying an uploaded version.
// Deployment is asynchronous; poll [Client.GetVersion] for the outcome.
func (c *Client) DeployVersion(ctx context.Context, modelID, versionID string) (*Version, error) {
	var v Version
	if err := c.do(ctx, http.MethodPatch, "/v1/models/"+modelID+"/versions/"+versionID+"/deploy", nil, &v); err != nil {
		return nil, err
	}
	return &v, nil
}

// Predict requests a single prediction from the default version of a model.
func (c *Client) Predict(ctx context.Context, modelID string, features any) (*Prediction, error) {
	var p Prediction
	if err := c.do(ctx, http.MethodPost, "/v1/models/"+modelID+"/predict", features, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// PredictBatch requests predictions for a batch of samples from the default
// version of a model. Results are positional: the i-th prediction answers
// the i-th sample.
func (c *Client) PredictBatch(ctx context.Context, modelID string, features any) ([]Prediction, error) {
	var preds []Prediction
	if err := c.do(ctx, http.MethodPost, "/v1/models/"+modelID+"/predict_batch", features, &preds); err != nil {
		return nil, err
	}
	return preds, nil
}

// PredictVersion requests a single prediction from a specific version.
func (c *Client) PredictVersion(ctx context.Context, modelID, versionID string, features any) (*Prediction, error) {
	var p Prediction
	if err := c.do(ctx, http.MethodPost, "/v1/models/"+modelID+"/versions/"+versionID+"/predict", features, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// PredictVersionBatch requests predictions for a batch of samples from a
// specific version.
func (c *Client) PredictVersionBatch(ctx context.Context, modelID, versionID string, features any) ([]Prediction, error) {
	var preds []Prediction
	if err := c.do(ctx, http.MethodPost, "/v1/models/"+modelID+"/versions/"+versionID+"/predict_batch", features, &preds); err != nil {
		return nil, err
	}
	return preds, nil
}
