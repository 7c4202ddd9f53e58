package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/blazee-io/blazee-go/blazee"
)

func newDeployCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "deploy MODEL_FILE",
		Short: "Deploy a saved model as a prediction API",
		Args:  cobra.ExactArgs(1),
		RunE:  DeployHandler,
	}

	cmd.Flags().String("name", "", "Name for the model (default: model class and timestamp)")
	cmd.Flags().StringArray("include", nil, "Source file the model depends on (repeatable)")
	cmd.Flags().String("update", "", "Deploy as a new version of an existing model id instead of creating one")
	cmd.Flags().Bool("make-default", false, "Make the new version the model default (with --update)")
	return cmd
}

// DeployHandler deploys a model artifact, either as a new model or as a
// new version of an existing one.
func DeployHandler(cmd *cobra.Command, args []string) error {
	client, err := blazee.ClientFromEnvironment()
	if err != nil {
		return err
	}

	name, _ := cmd.Flags().GetString("name")
	include, _ := cmd.Flags().GetStringArray("include")
	update, _ := cmd.Flags().GetString("update")
	makeDefault, _ := cmd.Flags().GetBool("make-default")

	opts := &blazee.DeployOptions{
		Name:         name,
		IncludeFiles: include,
		MakeDefault:  makeDefault,
		Progress: func(s blazee.State) {
			switch s {
			case blazee.StateUploading:
				fmt.Fprintln(cmd.OutOrStdout(), "Uploading model to blazee...")
			case blazee.StatePolling:
				fmt.Fprintln(cmd.OutOrStdout(), "Deploying model... This will take a few moments")
			}
		},
	}

	var (
		model   *blazee.Model
		version *blazee.ModelVersion
	)
	if update != "" {
		existing, err := client.Model(cmd.Context(), update)
		if err != nil {
			return err
		}
		model, version, err = existing.Update(cmd.Context(), args[0], opts)
		if err != nil {
			return err
		}
	} else {
		model, version, err = client.DeployModel(cmd.Context(), args[0], opts)
		if err != nil {
			return err
		}
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Successfully deployed model %s (version %s)\n", model.ID, version.Name)
	return nil
}
