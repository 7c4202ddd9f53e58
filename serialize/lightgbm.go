package serialize

import (
	"bytes"

	"github.com/blazee-io/blazee-go/archive"
)

// lightgbmAdapter handles boosters saved with Booster.save_model: a text
// format whose first line names the submodel kind, "tree" in every
// supported configuration.
type lightgbmAdapter struct{}

func (lightgbmAdapter) Framework() Framework { return LightGBM }

func (lightgbmAdapter) Detect(a *artifact) bool {
	if a.IsDir() {
		return false
	}
	line, _, _ := bytes.Cut(a.head, []byte("\n"))
	return string(bytes.TrimRight(line, "\r")) == "tree"
}

func (lightgbmAdapter) Serialize(a *artifact, includeFiles []string) ([]archive.File, string, []string, error) {
	data, err := a.Bytes()
	if err != nil {
		return nil, "", nil, err
	}

	// A trained booster always serializes at least one Tree section.
	if !bytes.Contains(data, []byte("\nTree=")) {
		return nil, "", nil, UntrainedModelError{Framework: LightGBM}
	}

	files := []archive.File{{Name: "model.txt", Data: data}}
	return files, "Booster", []string{"lightgbm"}, nil
}
