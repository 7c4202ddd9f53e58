// Package serialize turns a locally saved model artifact into the payload
// the blazee service deploys: the model files, the framework tag and the
// dependency metadata the service needs to reconstruct a compatible
// runtime.
//
// The supported frameworks form a closed set. Each has one adapter that
// detects its artifacts by content, never by file name alone.
package serialize

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/blazee-io/blazee-go/api"
	"github.com/blazee-io/blazee-go/archive"
	"github.com/blazee-io/blazee-go/deps"
)

// Framework is the model framework tag of an artifact, as declared to the
// service.
type Framework string

const (
	SKLearn  Framework = "sklearn"
	Keras    Framework = "keras"
	PyTorch  Framework = "pytorch"
	LightGBM Framework = "lightgbm"
	XGBoost  Framework = "xgboost"
	Fastai   Framework = "fastai"
)

// SerializedModel is the transient product of an adapter: everything the
// deployment flow needs to archive and register one model version. It is
// never persisted locally.
type SerializedModel struct {
	Framework  Framework
	ModelClass string
	Meta       api.VersionMeta
	Files      []archive.File
}

// UnsupportedModelError reports an artifact no adapter claims.
type UnsupportedModelError struct {
	Path string
}

func (e UnsupportedModelError) Error() string {
	return fmt.Sprintf("model artifact %q is not supported: expected a model saved with sklearn, keras, pytorch, lightgbm, xgboost or fastai", e.Path)
}

// UntrainedModelError reports an artifact whose framework-specific fitted
// check found no trained state.
type UntrainedModelError struct {
	Framework Framework
}

func (e UntrainedModelError) Error() string {
	return fmt.Sprintf("this %s model has not been trained yet", e.Framework)
}

// MissingDependencyFilesError reports a model that cannot be reconstructed
// remotely without user source files that were not supplied.
type MissingDependencyFilesError struct {
	Framework Framework
}

func (e MissingDependencyFilesError) Error() string {
	return fmt.Sprintf("a %s model requires the source files defining your model class: pass them as include files", e.Framework)
}

type adapter interface {
	Framework() Framework
	// Detect reports whether this adapter claims the artifact.
	Detect(a *artifact) bool
	// Serialize produces the model files, the model class name used for
	// default naming, and the base package dependencies of the artifact.
	Serialize(a *artifact, includeFiles []string) ([]archive.File, string, []string, error)
}

// Adapters are probed in a fixed order and the first match wins.
// Content-specific formats come before the pickle-based ones so that a
// fastai export, which is also a plain pickle, is claimed by fastai;
// sklearn, the broadest pickle family, goes last.
var adapters = []adapter{
	pytorchAdapter{},
	kerasAdapter{},
	lightgbmAdapter{},
	xgboostAdapter{},
	fastaiAdapter{},
	sklearnAdapter{},
}

// Detect returns the framework tag of the artifact at path.
func Detect(path string) (Framework, error) {
	a, err := openArtifact(path)
	if err != nil {
		return "", err
	}

	for _, ad := range adapters {
		if ad.Detect(a) {
			return ad.Framework(), nil
		}
	}
	return "", UnsupportedModelError{Path: path}
}

// Serialize detects the framework of the artifact at path and produces a
// [SerializedModel] ready for archiving. includeFiles are user source
// files the model depends on; they are shipped under deps/ and their
// imports contribute to the dependency metadata. env answers package
// version lookups.
func Serialize(path string, includeFiles []string, env deps.Environment) (*SerializedModel, error) {
	a, err := openArtifact(path)
	if err != nil {
		return nil, err
	}

	var chosen adapter
	for _, ad := range adapters {
		if ad.Detect(a) {
			chosen = ad
			break
		}
	}
	if chosen == nil {
		return nil, UnsupportedModelError{Path: path}
	}

	files, class, packages, err := chosen.Serialize(a, includeFiles)
	if err != nil {
		return nil, err
	}

	var names []string
	seen := make(map[string]string, len(includeFiles))
	for _, include := range includeFiles {
		content, err := os.ReadFile(include)
		if err != nil {
			return nil, err
		}

		// Include files ship flat under deps/, so two paths sharing a
		// basename would silently overwrite each other.
		name := filepath.Base(include)
		if prev, ok := seen[name]; ok {
			return nil, fmt.Errorf("include files %q and %q would both ship as deps/%s, rename one", prev, include, name)
		}
		seen[name] = include

		files = append(files, archive.File{Name: "deps/" + name, Data: content})
		names = append(names, name)
	}

	// Without an environment to ask, no dependency versions can be
	// collected; the service then deploys against its current defaults.
	var versions map[string]string
	if env != nil {
		if len(includeFiles) > 0 {
			extra, err := deps.ScanImports(env, includeFiles)
			if err != nil {
				return nil, err
			}
			packages = append(packages, extra...)
		}

		versions, err = deps.Resolve(env, packages)
		if err != nil {
			return nil, err
		}
	}

	return &SerializedModel{
		Framework:  chosen.Framework(),
		ModelClass: class,
		Meta: api.VersionMeta{
			LibVersions:  versions,
			IncludeFiles: names,
		},
		Files: files,
	}, nil
}

// artifact is one model artifact on disk, with lazily cached content so
// that the adapter probe sequence reads the file at most once.
type artifact struct {
	path  string
	dir   bool
	head  []byte
	data  []byte
	probe *pickleProbe
}

const headSize = 512

func openArtifact(path string) (*artifact, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}

	a := &artifact{path: path, dir: info.IsDir()}
	if a.dir {
		return a, nil
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	head := make([]byte, headSize)
	n, err := f.Read(head)
	if err != nil && err != io.EOF {
		return nil, err
	}
	a.head = head[:n]
	return a, nil
}

func (a *artifact) IsDir() bool { return a.dir }

// Bytes returns the full artifact content, reading it once.
func (a *artifact) Bytes() ([]byte, error) {
	if a.data == nil {
		data, err := os.ReadFile(a.path)
		if err != nil {
			return nil, err
		}
		a.data = data
	}
	return a.data, nil
}

// Probe structurally unpickles the artifact, once.
func (a *artifact) Probe() (*pickleProbe, error) {
	if a.probe != nil {
		return a.probe, nil
	}

	data, err := a.Bytes()
	if err != nil {
		return nil, err
	}

	probe, err := probePickle(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	a.probe = probe
	return probe, nil
}

// looksLikePickle is a cheap pre-filter: every pickle written by a modern
// framework starts with the protocol-2 opcode.
func (a *artifact) looksLikePickle() bool {
	return !a.dir && len(a.head) > 0 && a.head[0] == 0x80
}

// stageArchive bundles a directory artifact into a single zip entry
// through a uniquely named temporary file. The temporary file is removed
// on every exit path.
func stageArchive(dir string) ([]byte, error) {
	tmp, err := os.CreateTemp("", "blazee-stage-*.zip")
	if err != nil {
		return nil, err
	}
	defer func() {
		tmp.Close()
		os.Remove(tmp.Name())
	}()

	zw := zip.NewWriter(tmp)
	err = filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}

		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return err
		}

		hdr := &zip.FileHeader{
			Name:   filepath.ToSlash(rel),
			Method: zip.Deflate,
		}
		hdr.SetMode(0o644)

		w, err := zw.CreateHeader(hdr)
		if err != nil {
			return err
		}

		content, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		_, err = w.Write(content)
		return err
	})
	if err != nil {
		zw.Close()
		return nil, err
	}
	if err := zw.Close(); err != nil {
		return nil, err
	}

	if _, err := tmp.Seek(0, io.SeekStart); err != nil {
		return nil, err
	}
	return io.ReadAll(tmp)
}
