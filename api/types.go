package api

import "time"

// Model is the service-side summary of a logical model.
type Model struct {
	ID             string    `json:"id"`
	Name           string    `json:"name"`
	DefaultVersion *Version  `json:"default_version"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// Version is the service-side summary of one deployment attempt of a model.
// UploadData is only present on the response that created the version.
type Version struct {
	ID              string      `json:"id"`
	Name            string      `json:"name"`
	Type            string      `json:"type"`
	Meta            VersionMeta `json:"meta"`
	Deployed        bool        `json:"deployed"`
	DeploymentError bool        `json:"deployment_error"`
	CreatedAt       time.Time   `json:"created_at"`
	UpdatedAt       time.Time   `json:"updated_at"`
	UploadData      *UploadData `json:"upload_data,omitempty"`
}

// VersionMeta describes the runtime the service must reconstruct to host a
// version: the exact library versions it was trained with and the names of
// any user source files shipped alongside the model.
type VersionMeta struct {
	LibVersions  map[string]string `json:"lib_versions,omitempty"`
	IncludeFiles []string          `json:"include_files,omitempty"`
}

// UploadData is a pre-signed upload descriptor. The archive is posted
// directly to URL as a multipart form carrying Fields plus the payload,
// bypassing the JSON API.
type UploadData struct {
	URL    string            `json:"url"`
	Fields map[string]string `json:"fields"`
}

// Prediction is a single inference result. Probas is nil for regression
// problems, or whenever the service omits it.
type Prediction struct {
	Prediction any                `json:"prediction"`
	Probas     map[string]float64 `json:"probas,omitempty"`
}

type CreateModelRequest struct {
	Name string `json:"name"`
}

// UpdateModelRequest carries a partial update; nil fields are left
// untouched by the service.
type UpdateModelRequest struct {
	Name             *string `json:"name,omitempty"`
	DefaultVersionID *string `json:"default_version_id,omitempty"`
}

type CreateVersionRequest struct {
	Type string      `json:"type"`
	Meta VersionMeta `json:"meta"`
}
