package serialize

import (
	"github.com/blazee-io/blazee-go/archive"
)

// fastaiAdapter handles learners saved with Learner.export. The export is
// a plain pickle, so it must be probed before the sklearn adapter gets a
// chance to claim it.
type fastaiAdapter struct{}

func (fastaiAdapter) Framework() Framework { return Fastai }

func (fastaiAdapter) Detect(a *artifact) bool {
	if !a.looksLikePickle() {
		return false
	}

	probe, err := a.Probe()
	if err != nil {
		return false
	}
	return probe.hasModule("fastai")
}

func (fastaiAdapter) Serialize(a *artifact, includeFiles []string) ([]archive.File, string, []string, error) {
	data, err := a.Bytes()
	if err != nil {
		return nil, "", nil, err
	}

	probe, err := a.Probe()
	if err != nil {
		return nil, "", nil, err
	}

	class := probe.rootClassName()
	if class == "" {
		class = "Learner"
	}

	files := []archive.File{{Name: "export.pkl", Data: data}}
	return files, class, []string{"fastai"}, nil
}
