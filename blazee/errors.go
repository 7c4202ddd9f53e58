package blazee

import (
	"errors"
	"fmt"
)

// ErrModelDeleted is returned by every operation on a handle whose model
// was deleted through it. The service may already know nothing about the
// model; the local handle is terminally unusable either way.
var ErrModelDeleted = errors.New("blazee: model has been deleted, this handle can no longer be used")

// DeploymentError reports that the service tried to deploy a version and
// failed. This is a terminal verdict: the version will never become
// deployable and is not retried.
type DeploymentError struct {
	ModelID   string
	VersionID string
}

func (e *DeploymentError) Error() string {
	return fmt.Sprintf("blazee: deployment of version %s failed on the service, contact support@blazee.io if the problem persists", e.VersionID)
}

// DeploymentTimeoutError reports that a deployment did not resolve within
// the polling budget. Unlike [DeploymentError] it is not a failure: the
// outcome is unknown and the deployment may still complete. Refetch the
// version to observe its final state.
type DeploymentTimeoutError struct {
	ModelID   string
	VersionID string
	Attempts  int
}

func (e *DeploymentTimeoutError) Error() string {
	return fmt.Sprintf("blazee: deployment of version %s still pending after %d status checks, it may yet complete", e.VersionID, e.Attempts)
}

// VersionNotFoundError reports that no version of a model matches a given
// id or name.
type VersionNotFoundError struct {
	ModelID string
	Version string
}

func (e *VersionNotFoundError) Error() string {
	return fmt.Sprintf("blazee: model %s has no version with id or name %q", e.ModelID, e.Version)
}

// MalformedIDError reports an identifier that cannot be a server-assigned
// id.
type MalformedIDError struct {
	ID string
}

func (e *MalformedIDError) Error() string {
	return fmt.Sprintf("blazee: malformed id %q", e.ID)
}
