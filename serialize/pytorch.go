package serialize

import (
	"archive/zip"
	"bytes"
	"io"
	"log/slog"
	"strings"

	"github.com/blazee-io/blazee-go/archive"
)

// pytorchAdapter handles models saved with torch.save: a zip container
// holding the pickled module under data.pkl. Because the pickle references
// the user's own module class, deploying requires the source files that
// define it.
type pytorchAdapter struct{}

func (pytorchAdapter) Framework() Framework { return PyTorch }

func (pytorchAdapter) Detect(a *artifact) bool {
	if a.IsDir() || !bytes.HasPrefix(a.head, []byte("PK\x03\x04")) {
		return false
	}
	_, err := a.torchPickle()
	return err == nil
}

func (p pytorchAdapter) Serialize(a *artifact, includeFiles []string) ([]archive.File, string, []string, error) {
	if len(includeFiles) == 0 {
		return nil, "", nil, MissingDependencyFilesError{Framework: PyTorch}
	}

	data, err := a.Bytes()
	if err != nil {
		return nil, "", nil, err
	}

	class := "Module"
	if name := a.torchModuleClass(); name != "" {
		class = name
	}

	// numpy is pulled in by the runtime but not declared by torch.
	packages := []string{"torch", "numpy"}

	files := []archive.File{{Name: "model.pickle", Data: data}}
	return files, class, packages, nil
}

// torchPickle extracts the embedded data.pkl from a torch.save container.
func (a *artifact) torchPickle() ([]byte, error) {
	data, err := a.Bytes()
	if err != nil {
		return nil, err
	}

	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, err
	}

	for _, zf := range zr.File {
		if zf.Name == "data.pkl" || strings.HasSuffix(zf.Name, "/data.pkl") {
			r, err := zf.Open()
			if err != nil {
				return nil, err
			}
			defer r.Close()
			return io.ReadAll(r)
		}
	}
	return nil, zip.ErrFormat
}

// torchModuleClass probes the embedded pickle for the class name of the
// saved module. Naming is best effort; a probe failure falls back to the
// generic class name.
func (a *artifact) torchModuleClass() string {
	data, err := a.torchPickle()
	if err != nil {
		return ""
	}

	probe, err := probePickle(bytes.NewReader(data))
	if err != nil {
		slog.Debug("could not probe torch pickle for a class name", "path", a.path, "error", err)
		return ""
	}
	return probe.rootClassName()
}
