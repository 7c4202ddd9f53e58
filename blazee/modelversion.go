package blazee

import (
	"context"
	"time"

	"github.com/blazee-io/blazee-go/api"
)

// ModelVersion is a handle to one immutable deployment attempt of a model.
// Like [Model] it is a snapshot; the deployed and deployment-error flags
// reflect the moment it was fetched. The model reference is a
// back-reference only.
type ModelVersion struct {
	ID              string
	Name            string
	Framework       string
	Meta            api.VersionMeta
	Deployed        bool
	DeploymentError bool
	CreatedAt       time.Time
	UpdatedAt       time.Time

	model *Model
}

func (m *Model) newVersion(summary *api.Version) *ModelVersion {
	return &ModelVersion{
		ID:              summary.ID,
		Name:            summary.Name,
		Framework:       summary.Type,
		Meta:            summary.Meta,
		Deployed:        summary.Deployed,
		DeploymentError: summary.DeploymentError,
		CreatedAt:       summary.CreatedAt,
		UpdatedAt:       summary.UpdatedAt,
		model:           m,
	}
}

// Model returns the model this version belongs to.
func (v *ModelVersion) Model() *Model { return v.model }

// Predict requests a single prediction from this specific version,
// regardless of which version is the model default.
func (v *ModelVersion) Predict(ctx context.Context, features any) (*api.Prediction, error) {
	if err := v.model.guard(); err != nil {
		return nil, err
	}
	return v.model.c.api.PredictVersion(ctx, v.model.ID, v.ID, features)
}

// PredictBatch requests predictions for a batch of samples from this
// specific version. Results are positional.
func (v *ModelVersion) PredictBatch(ctx context.Context, samples any) ([]api.Prediction, error) {
	if err := v.model.guard(); err != nil {
		return nil, err
	}
	return v.model.c.api.PredictVersionBatch(ctx, v.model.ID, v.ID, samples)
}

// MakeDefault promotes this version to the model default, so that
// model-level predictions are served by it. It returns a refreshed model
// handle reflecting the change.
func (v *ModelVersion) MakeDefault(ctx context.Context) (*Model, error) {
	if err := v.model.guard(); err != nil {
		return nil, err
	}

	updated, err := v.model.c.api.UpdateModel(ctx, v.model.ID, &api.UpdateModelRequest{DefaultVersionID: &v.ID})
	if err != nil {
		return nil, err
	}
	return v.model.c.newModel(updated), nil
}
