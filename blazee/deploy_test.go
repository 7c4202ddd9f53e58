package blazee

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blazee-io/blazee-go/api"
	"github.com/blazee-io/blazee-go/deps"
)

// fakeService scripts the service side of a deployment: model and version
// creation, the binary upload and a fixed sequence of poll responses.
type fakeService struct {
	t *testing.T

	mu          sync.Mutex
	pollFlags   [][2]bool // deployed, deployment_error per GetVersion call
	polls       int
	uploads     int
	uploaded    []byte
	failUpload  bool
	deploys     int
	deletes     []string
	createdName string
	onPoll      func()

	srv *httptest.Server
}

func newFakeService(t *testing.T) *fakeService {
	t.Helper()
	s := &fakeService{t: t}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /v1/models", func(w http.ResponseWriter, r *http.Request) {
		var req api.CreateModelRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		s.mu.Lock()
		s.createdName = req.Name
		s.mu.Unlock()
		io.WriteString(w, `{"id": "m1", "name": "`+req.Name+`"}`)
	})
	mux.HandleFunc("GET /v1/models/m1", func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"id": "m1", "name": "resolved", "default_version": {"id": "v1", "deployed": true}}`)
	})
	mux.HandleFunc("DELETE /v1/models/{id}", func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		s.deletes = append(s.deletes, r.PathValue("id"))
		s.mu.Unlock()
		w.WriteHeader(http.StatusNoContent)
	})
	mux.HandleFunc("POST /v1/models/m1/versions", func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"id": "v1", "upload_data": {"url": "`+s.srv.URL+`/upload", "fields": {"key": "abc"}}}`)
	})
	mux.HandleFunc("POST /upload", func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		s.uploads++
		fail := s.failUpload
		s.mu.Unlock()
		if fail {
			w.WriteHeader(http.StatusForbidden)
			return
		}

		require.NoError(t, r.ParseMultipartForm(1<<20))
		file, _, err := r.FormFile("file")
		require.NoError(t, err)
		defer file.Close()

		data, err := io.ReadAll(file)
		require.NoError(t, err)
		s.mu.Lock()
		s.uploaded = data
		s.mu.Unlock()
		w.WriteHeader(http.StatusNoContent)
	})
	mux.HandleFunc("PATCH /v1/models/m1/versions/v1/deploy", func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		s.deploys++
		s.mu.Unlock()
		io.WriteString(w, `{"id": "v1"}`)
	})
	mux.HandleFunc("GET /v1/models/m1/versions/v1", func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		flags := [2]bool{}
		if s.polls < len(s.pollFlags) {
			flags = s.pollFlags[s.polls]
		}
		s.polls++
		hook := s.onPoll
		s.mu.Unlock()
		if hook != nil {
			hook()
		}

		resp := map[string]any{"id": "v1", "deployed": flags[0], "deployment_error": flags[1]}
		require.NoError(t, json.NewEncoder(w).Encode(resp))
	})

	s.srv = httptest.NewServer(mux)
	t.Cleanup(s.srv.Close)
	return s
}

func (s *fakeService) client(t *testing.T) *Client {
	t.Helper()
	host, err := url.Parse(s.srv.URL)
	require.NoError(t, err)

	c, err := NewClient(Config{
		Host:   host,
		APIKey: "test-key",
		Environment: deps.StaticEnvironment{
			"lightgbm": {Name: "lightgbm", Version: "2.2.3"},
		},
		PollInterval:    time.Millisecond,
		MaxPollAttempts: 3,
		Logger:          slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
	require.NoError(t, err)
	return c
}

// boosterArtifact writes a trained booster dump so deployments exercise
// the real serialization path without framework-specific fixtures.
func boosterArtifact(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "model.txt")
	data := "tree\nversion=v2\n\nTree=0\nnum_leaves=3\n"
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))
	return path
}

func TestDeployModel(t *testing.T) {
	svc := newFakeService(t)
	svc.pollFlags = [][2]bool{{false, false}, {false, false}, {true, false}}
	c := svc.client(t)

	var states []State
	model, version, err := c.DeployModel(context.Background(), boosterArtifact(t), &DeployOptions{
		Progress: func(s State) { states = append(states, s) },
	})
	require.NoError(t, err)

	assert.Equal(t, "m1", model.ID)
	assert.Equal(t, "resolved", model.Name)
	require.NotNil(t, model.DefaultVersion)
	assert.True(t, model.DefaultVersion.Deployed)

	assert.Equal(t, "v1", version.ID)
	assert.Same(t, model, version.Model())

	assert.Equal(t, 3, svc.polls)
	assert.Equal(t, 1, svc.deploys)
	assert.Empty(t, svc.deletes)
	assert.Contains(t, svc.createdName, "Booster")

	assert.Equal(t, []State{
		StateCreated,
		StateUploading,
		StateAwaitingDeploy,
		StatePolling,
		StateDeployed,
	}, states)

	// The uploaded archive bundles the booster dump.
	zr, err := zip.NewReader(bytes.NewReader(svc.uploaded), int64(len(svc.uploaded)))
	require.NoError(t, err)
	require.Len(t, zr.File, 1)
	assert.Equal(t, "model.txt", zr.File[0].Name)
}

func TestDeployModelExplicitName(t *testing.T) {
	svc := newFakeService(t)
	svc.pollFlags = [][2]bool{{true, false}}
	c := svc.client(t)

	_, _, err := c.DeployModel(context.Background(), boosterArtifact(t), &DeployOptions{Name: "churn v3"})
	require.NoError(t, err)
	assert.Equal(t, "churn v3", svc.createdName)
}

func TestDeployModelDeploymentError(t *testing.T) {
	svc := newFakeService(t)
	svc.pollFlags = [][2]bool{{false, true}}
	c := svc.client(t)

	var states []State
	_, _, err := c.DeployModel(context.Background(), boosterArtifact(t), &DeployOptions{
		Progress: func(s State) { states = append(states, s) },
	})

	var deployErr *DeploymentError
	require.ErrorAs(t, err, &deployErr)
	assert.Equal(t, "v1", deployErr.VersionID)

	// The verdict is terminal: no further polls after the error flag.
	assert.Equal(t, 1, svc.polls)
	assert.Equal(t, StateDeploymentError, states[len(states)-1])

	// The model itself is not rolled back; only uploads compensate.
	assert.Empty(t, svc.deletes)
}

func TestDeployModelTimeout(t *testing.T) {
	svc := newFakeService(t)
	c := svc.client(t)

	var states []State
	_, _, err := c.DeployModel(context.Background(), boosterArtifact(t), &DeployOptions{
		Progress: func(s State) { states = append(states, s) },
	})

	var timeoutErr *DeploymentTimeoutError
	require.ErrorAs(t, err, &timeoutErr)
	assert.Equal(t, 3, timeoutErr.Attempts)

	var deployErr *DeploymentError
	assert.NotErrorAs(t, err, &deployErr)

	assert.Equal(t, 3, svc.polls)
	assert.Equal(t, StateTimedOut, states[len(states)-1])
}

func TestDeployModelUploadFailureDeletesModel(t *testing.T) {
	svc := newFakeService(t)
	svc.failUpload = true
	c := svc.client(t)

	_, _, err := c.DeployModel(context.Background(), boosterArtifact(t), nil)

	var uploadErr api.UploadError
	require.ErrorAs(t, err, &uploadErr)

	// The orphaned model is cleaned up before the error surfaces.
	assert.Equal(t, []string{"m1"}, svc.deletes)
	assert.Zero(t, svc.deploys)
	assert.Zero(t, svc.polls)
}

func TestUpdateUploadFailureKeepsModel(t *testing.T) {
	svc := newFakeService(t)
	svc.failUpload = true
	c := svc.client(t)

	model := c.newModel(&api.Model{ID: "m1", Name: "churn"})
	_, _, err := model.Update(context.Background(), boosterArtifact(t), nil)

	var uploadErr api.UploadError
	require.ErrorAs(t, err, &uploadErr)

	// Updating never compensates: the model and its deployed versions
	// stay; only the new version is abandoned.
	assert.Empty(t, svc.deletes)
}

func TestDeployModelContextCanceled(t *testing.T) {
	svc := newFakeService(t)
	c := svc.client(t)
	c.pollInterval = time.Hour

	ctx, cancel := context.WithCancel(context.Background())
	svc.onPoll = cancel

	_, _, err := c.DeployModel(ctx, boosterArtifact(t), nil)
	require.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, svc.polls)
}

func TestDeployModelUnsupportedArtifact(t *testing.T) {
	svc := newFakeService(t)
	c := svc.client(t)

	path := filepath.Join(t.TempDir(), "notes.txt")
	require.NoError(t, os.WriteFile(path, []byte("not a model"), 0o644))

	_, _, err := c.DeployModel(context.Background(), path, nil)
	require.Error(t, err)

	// Nothing was created on the service.
	assert.Empty(t, svc.createdName)
}
