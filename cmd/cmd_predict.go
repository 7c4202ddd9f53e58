package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/blazee-io/blazee-go/api"
	"github.com/blazee-io/blazee-go/blazee"
)

func newPredictCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "predict MODEL_ID FEATURES_JSON",
		Short: "Request a prediction from a deployed model",
		Long: `Request a prediction from a deployed model.

FEATURES_JSON is the JSON feature payload the model expects, for example:
  blazee predict 4f6a... "[5.1, 3.5, 1.4, 0.2]"

With --batch, FEATURES_JSON is an array of samples and one prediction is
printed per sample, in input order.`,
		Args: cobra.ExactArgs(2),
		RunE: PredictHandler,
	}

	cmd.Flags().Bool("batch", false, "Treat the payload as a batch of samples")
	cmd.Flags().String("version", "", "Predict against a specific version instead of the default")
	return cmd
}

// PredictHandler requests one prediction or a batch from a deployed model.
func PredictHandler(cmd *cobra.Command, args []string) error {
	client, err := blazee.ClientFromEnvironment()
	if err != nil {
		return err
	}

	var features any
	if err := json.Unmarshal([]byte(args[1]), &features); err != nil {
		return fmt.Errorf("features must be valid JSON: %w", err)
	}

	model, err := client.Model(cmd.Context(), args[0])
	if err != nil {
		return err
	}

	versionName, _ := cmd.Flags().GetString("version")
	batch, _ := cmd.Flags().GetBool("batch")

	predict := model.Predict
	predictBatch := model.PredictBatch
	if versionName != "" {
		version, err := model.Version(cmd.Context(), versionName)
		if err != nil {
			return err
		}
		predict = version.Predict
		predictBatch = version.PredictBatch
	}

	if batch {
		preds, err := predictBatch(cmd.Context(), features)
		if err != nil {
			return err
		}
		for _, p := range preds {
			printPrediction(cmd, &p)
		}
		return nil
	}

	pred, err := predict(cmd.Context(), features)
	if err != nil {
		return err
	}
	printPrediction(cmd, pred)
	return nil
}

func printPrediction(cmd *cobra.Command, p *api.Prediction) {
	out, err := json.Marshal(p)
	if err != nil {
		out = []byte(fmt.Sprintf("%v", p.Prediction))
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(out))
}
