package serialize

import (
	"bytes"

	"github.com/tidwall/gjson"

	"github.com/blazee-io/blazee-go/archive"
)

// xgboostAdapter handles boosters saved with Booster.save_model in the
// JSON format, recognized by the top-level learner document.
type xgboostAdapter struct{}

func (xgboostAdapter) Framework() Framework { return XGBoost }

func (xgboostAdapter) Detect(a *artifact) bool {
	if a.IsDir() {
		return false
	}
	head := bytes.TrimLeft(a.head, " \t\r\n")
	if len(head) == 0 || head[0] != '{' {
		return false
	}

	data, err := a.Bytes()
	if err != nil {
		return false
	}
	return gjson.ValidBytes(data) && gjson.GetBytes(data, "learner").Exists()
}

func (xgboostAdapter) Serialize(a *artifact, includeFiles []string) ([]archive.File, string, []string, error) {
	data, err := a.Bytes()
	if err != nil {
		return nil, "", nil, err
	}

	// Tree boosters serialize their trees under the gradient booster
	// model; an empty array means the booster was never trained. Linear
	// boosters have no tree array and are skipped.
	trees := gjson.GetBytes(data, "learner.gradient_booster.model.trees")
	if trees.Exists() && len(trees.Array()) == 0 {
		return nil, "", nil, UntrainedModelError{Framework: XGBoost}
	}

	files := []archive.File{{Name: "model.txt", Data: data}}
	return files, "Booster", []string{"xgboost"}, nil
}
