package serialize

import (
	"bytes"
	"os"
	"path/filepath"

	"github.com/blazee-io/blazee-go/archive"
)

// hdf5Magic is the signature of an HDF5 container, the format Keras saves
// whole models to.
var hdf5Magic = []byte("\x89HDF\r\n\x1a\n")

// kerasAdapter handles Keras models saved either as a single HDF5 file or
// as a SavedModel directory.
type kerasAdapter struct{}

func (kerasAdapter) Framework() Framework { return Keras }

func (kerasAdapter) Detect(a *artifact) bool {
	if a.IsDir() {
		_, err := os.Stat(filepath.Join(a.path, "saved_model.pb"))
		return err == nil
	}
	return bytes.HasPrefix(a.head, hdf5Magic)
}

func (kerasAdapter) Serialize(a *artifact, includeFiles []string) ([]archive.File, string, []string, error) {
	packages := []string{"keras", "tensorflow"}

	if a.IsDir() {
		// SavedModel directories are bundled into one entry, staged
		// through a temporary file that is cleaned up on every path.
		data, err := stageArchive(a.path)
		if err != nil {
			return nil, "", nil, err
		}
		files := []archive.File{{Name: "saved_model.zip", Data: data}}
		return files, "Model", packages, nil
	}

	data, err := a.Bytes()
	if err != nil {
		return nil, "", nil, err
	}
	files := []archive.File{{Name: "model.h5", Data: data}}
	return files, "Model", packages, nil
}
