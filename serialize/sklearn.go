package serialize

import (
	"github.com/blazee-io/blazee-go/archive"
)

// sklearnAdapter handles estimators and pipelines pickled with the
// standard library pickle module or an equivalent. It also claims Keras
// scikit-learn wrappers, which pickle as estimators.
type sklearnAdapter struct{}

func (sklearnAdapter) Framework() Framework { return SKLearn }

func (sklearnAdapter) Detect(a *artifact) bool {
	if !a.looksLikePickle() {
		return false
	}

	probe, err := a.Probe()
	if err != nil {
		return false
	}
	return probe.hasModule("sklearn") || probe.hasModule("keras.wrappers")
}

func (sklearnAdapter) Serialize(a *artifact, includeFiles []string) ([]archive.File, string, []string, error) {
	probe, err := a.Probe()
	if err != nil {
		// Not the untrained signal; propagate unchanged.
		return nil, "", nil, err
	}

	if !probe.fitted() {
		return nil, "", nil, UntrainedModelError{Framework: SKLearn}
	}

	packages := []string{"scikit-learn"}

	// Pipelines and search wrappers may embed boosters from other
	// libraries; the service needs those installed too.
	if probe.hasModule("xgboost") {
		packages = append(packages, "xgboost")
	}
	if probe.hasModule("lightgbm") {
		packages = append(packages, "lightgbm")
	}
	if probe.hasModule("keras") {
		packages = append(packages, "keras", "tensorflow")
	}

	data, err := a.Bytes()
	if err != nil {
		return nil, "", nil, err
	}

	class := probe.rootClassName()
	if class == "" {
		class = "Estimator"
	}

	files := []archive.File{{Name: "model.pickle", Data: data}}
	return files, class, packages, nil
}
