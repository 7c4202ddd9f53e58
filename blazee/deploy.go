package blazee

import (
	"context"
	"fmt"
	"time"

	"github.com/blazee-io/blazee-go/api"
	"github.com/blazee-io/blazee-go/archive"
	"github.com/blazee-io/blazee-go/format"
	"github.com/blazee-io/blazee-go/serialize"
)

// State is one step of the deployment lifecycle, reported through
// [DeployOptions.Progress]. A deployment moves through Created, Uploading,
// AwaitingDeploy and Polling, and resolves to exactly one of the three
// terminal states.
type State int

const (
	StateCreated State = iota
	StateUploading
	StateAwaitingDeploy
	StatePolling
	StateDeployed
	StateDeploymentError
	StateTimedOut
)

func (s State) String() string {
	switch s {
	case StateCreated:
		return "created"
	case StateUploading:
		return "uploading"
	case StateAwaitingDeploy:
		return "awaiting deploy"
	case StatePolling:
		return "polling"
	case StateDeployed:
		return "deployed"
	case StateDeploymentError:
		return "deployment error"
	case StateTimedOut:
		return "timed out"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// DeployOptions tunes a single deployment. The zero value is usable.
type DeployOptions struct {
	// Name names the model on first deployment. Defaults to the detected
	// model class followed by a timestamp.
	Name string

	// IncludeFiles are user source files the model depends on. They are
	// shipped with the model and their imports contribute to the
	// dependency metadata.
	IncludeFiles []string

	// MakeDefault promotes the new version to the model default once
	// deployed. Only meaningful for [Model.Update]; the first version of
	// a model is always its default.
	MakeDefault bool

	// Progress, when set, receives every state transition.
	Progress func(State)
}

func (o *DeployOptions) emit(s State) {
	if o.Progress != nil {
		o.Progress(s)
	}
}

// DeployModel serializes the model artifact at path, creates a model on
// the service and deploys the artifact as its first version. It blocks
// until the deployment resolves and returns the fully resolved model
// handle together with the deployed version.
//
// If the upload fails, the just-created model is deleted before the error
// is returned: a caller is never left holding a model with zero usable
// versions.
func (c *Client) DeployModel(ctx context.Context, path string, opts *DeployOptions) (*Model, *ModelVersion, error) {
	if opts == nil {
		opts = &DeployOptions{}
	}

	sm, err := serialize.Serialize(path, opts.IncludeFiles, c.env)
	if err != nil {
		return nil, nil, err
	}

	name := opts.Name
	if name == "" {
		name = fmt.Sprintf("%s %s", sm.ModelClass, time.Now().UTC().Format(time.RFC3339))
	}

	created, err := c.api.CreateModel(ctx, &api.CreateModelRequest{Name: name})
	if err != nil {
		return nil, nil, err
	}
	c.log.Info("created model", "id", created.ID, "name", name)

	version, err := c.deployVersion(ctx, created.ID, sm, true, opts)
	if err != nil {
		return nil, nil, err
	}

	return c.resolveDeployed(ctx, created.ID, version)
}

// deployVersion drives one version through create, upload, deploy trigger
// and the status poll. firstVersion selects the compensation policy: a
// failed upload of a brand-new model's only version deletes the model,
// while a failed update leaves the existing model and its deployed
// versions untouched, abandoning only the new version.
func (c *Client) deployVersion(ctx context.Context, modelID string, sm *serialize.SerializedModel, firstVersion bool, opts *DeployOptions) (*api.Version, error) {
	opts.emit(StateCreated)
	created, err := c.api.CreateVersion(ctx, modelID, &api.CreateVersionRequest{
		Type: string(sm.Framework),
		Meta: sm.Meta,
	})
	if err != nil {
		return nil, err
	}

	opts.emit(StateUploading)
	if err := c.uploadArchive(ctx, created, sm); err != nil {
		if firstVersion {
			if derr := c.api.DeleteModel(ctx, modelID); derr != nil {
				c.log.Warn("could not clean up model after failed upload", "model", modelID, "error", derr)
			}
		}
		return nil, err
	}

	opts.emit(StateAwaitingDeploy)
	if _, err := c.api.DeployVersion(ctx, modelID, created.ID); err != nil {
		return nil, err
	}
	c.log.Info("deploying model version, this takes a few moments", "model", modelID, "version", created.ID)

	opts.emit(StatePolling)
	return c.waitForDeploy(ctx, modelID, created.ID, opts)
}

func (c *Client) uploadArchive(ctx context.Context, version *api.Version, sm *serialize.SerializedModel) error {
	if version.UploadData == nil {
		return fmt.Errorf("blazee: service returned no upload target for version %s", version.ID)
	}

	bundle, err := archive.Build(sm.Files)
	if err != nil {
		return err
	}

	c.log.Info("uploading model to blazee", "version", version.ID, "size", format.HumanBytes(int64(len(bundle))))
	return c.api.Upload(ctx, version.UploadData, bundle)
}

// waitForDeploy polls the version status with a fixed delay between
// attempts until it reaches a terminal flag or the attempt budget runs
// out. Both flags are terminal: once observed, the version is never
// polled again.
func (c *Client) waitForDeploy(ctx context.Context, modelID, versionID string, opts *DeployOptions) (*api.Version, error) {
	for attempt := 1; attempt <= c.maxPollAttempts; attempt++ {
		version, err := c.api.GetVersion(ctx, modelID, versionID)
		if err != nil {
			return nil, err
		}

		switch {
		case version.Deployed:
			opts.emit(StateDeployed)
			c.log.Info("successfully deployed model version", "model", modelID, "version", versionID)
			return version, nil
		case version.DeploymentError:
			// The service gave a terminal verdict; retrying cannot help.
			opts.emit(StateDeploymentError)
			return nil, &DeploymentError{ModelID: modelID, VersionID: versionID}
		}

		if attempt == c.maxPollAttempts {
			break
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(c.pollInterval):
		}
	}

	// The outcome is unknown, not failed: the deployment may still
	// resolve on the service after we stop watching.
	opts.emit(StateTimedOut)
	return nil, &DeploymentTimeoutError{ModelID: modelID, VersionID: versionID, Attempts: c.maxPollAttempts}
}

// resolveDeployed refetches the model so the returned handle reflects the
// new deployment's default version and timestamps.
func (c *Client) resolveDeployed(ctx context.Context, modelID string, version *api.Version) (*Model, *ModelVersion, error) {
	fresh, err := c.api.GetModel(ctx, modelID)
	if err != nil {
		return nil, nil, err
	}

	model := c.newModel(fresh)
	return model, model.newVersion(version), nil
}
