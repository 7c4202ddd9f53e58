package blazee

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/blazee-io/blazee-go/api"
	"github.com/blazee-io/blazee-go/serialize"
)

// HandleState tracks whether a [Model] handle is still usable.
type HandleState int

const (
	Active HandleState = iota
	Deleted
)

// Model is a handle to a model hosted on the service. It is a snapshot:
// server-side changes are only observed by refetching the model. The only
// local state it carries is the deleted flag set by [Model.Delete].
type Model struct {
	ID             string
	Name           string
	DefaultVersion *ModelVersion
	CreatedAt      time.Time
	UpdatedAt      time.Time

	c     *Client
	state HandleState
}

func (c *Client) newModel(summary *api.Model) *Model {
	m := &Model{
		ID:        summary.ID,
		Name:      summary.Name,
		CreatedAt: summary.CreatedAt,
		UpdatedAt: summary.UpdatedAt,
		c:         c,
	}
	if summary.DefaultVersion != nil {
		m.DefaultVersion = m.newVersion(summary.DefaultVersion)
	}
	return m
}

// guard rejects any use of a deleted handle before network I/O happens.
func (m *Model) guard() error {
	if m.state == Deleted {
		return ErrModelDeleted
	}
	return nil
}

// Predict requests a single prediction from the default version of the
// model. features must marshal to the same JSON the model would accept
// locally, such as a slice of feature values.
func (m *Model) Predict(ctx context.Context, features any) (*api.Prediction, error) {
	if err := m.guard(); err != nil {
		return nil, err
	}
	return m.c.api.Predict(ctx, m.ID, features)
}

// PredictBatch requests predictions for a batch of samples from the
// default version of the model. Results are positional and the batch size
// is unbounded on the client side.
func (m *Model) PredictBatch(ctx context.Context, samples any) ([]api.Prediction, error) {
	if err := m.guard(); err != nil {
		return nil, err
	}
	return m.c.api.PredictBatch(ctx, m.ID, samples)
}

// Rename renames the model on the service and updates the handle.
func (m *Model) Rename(ctx context.Context, name string) error {
	if err := m.guard(); err != nil {
		return err
	}

	updated, err := m.c.api.UpdateModel(ctx, m.ID, &api.UpdateModelRequest{Name: &name})
	if err != nil {
		return err
	}

	m.Name = updated.Name
	m.UpdatedAt = updated.UpdatedAt
	return nil
}

// Delete deletes the model and all of its versions from the service and
// marks the handle terminally unusable.
func (m *Model) Delete(ctx context.Context) error {
	if err := m.guard(); err != nil {
		return err
	}

	if err := m.c.api.DeleteModel(ctx, m.ID); err != nil {
		return err
	}

	m.state = Deleted
	return nil
}

// Update deploys the artifact at path as a new version of this model and
// blocks until the deployment resolves. The new version does not become
// the model default unless [DeployOptions.MakeDefault] is set. On upload
// failure only the new version is abandoned; the model and its deployed
// versions are unaffected.
func (m *Model) Update(ctx context.Context, path string, opts *DeployOptions) (*Model, *ModelVersion, error) {
	if err := m.guard(); err != nil {
		return nil, nil, err
	}
	if opts == nil {
		opts = &DeployOptions{}
	}

	sm, err := serialize.Serialize(path, opts.IncludeFiles, m.c.env)
	if err != nil {
		return nil, nil, err
	}

	version, err := m.c.deployVersion(ctx, m.ID, sm, false, opts)
	if err != nil {
		return nil, nil, err
	}

	if opts.MakeDefault {
		if _, err := m.c.api.UpdateModel(ctx, m.ID, &api.UpdateModelRequest{DefaultVersionID: &version.ID}); err != nil {
			return nil, nil, err
		}
	}

	return m.c.resolveDeployed(ctx, m.ID, version)
}

// Versions lists all versions of the model.
func (m *Model) Versions(ctx context.Context) ([]*ModelVersion, error) {
	if err := m.guard(); err != nil {
		return nil, err
	}

	summaries, err := m.c.api.ListVersions(ctx, m.ID)
	if err != nil {
		return nil, err
	}

	versions := make([]*ModelVersion, 0, len(summaries))
	for i := range summaries {
		versions = append(versions, m.newVersion(&summaries[i]))
	}
	return versions, nil
}

// Version finds a version of the model by id or name. Server-assigned ids
// are fetched directly; anything else is matched against version names.
func (m *Model) Version(ctx context.Context, idOrName string) (*ModelVersion, error) {
	if err := m.guard(); err != nil {
		return nil, err
	}

	if uuid.Validate(idOrName) == nil {
		summary, err := m.c.api.GetVersion(ctx, m.ID, idOrName)
		if err != nil {
			// Only the not-found outcome is ours to translate; any other
			// service error must reach the caller as reported.
			var apiErr api.APIError
			if errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound {
				return nil, &VersionNotFoundError{ModelID: m.ID, Version: idOrName}
			}
			return nil, err
		}
		return m.newVersion(summary), nil
	}

	versions, err := m.Versions(ctx)
	if err != nil {
		return nil, err
	}

	for _, v := range versions {
		if v.ID == idOrName || v.Name == idOrName {
			return v, nil
		}
	}
	return nil, &VersionNotFoundError{ModelID: m.ID, Version: idOrName}
}
