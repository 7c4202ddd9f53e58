// Package cmd implements the blazee command-line client on top of the SDK.
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/blazee-io/blazee-go/envconfig"
	"github.com/blazee-io/blazee-go/version"
)

// appendEnvDocs adds environment variable documentation to a command's
// usage output.
func appendEnvDocs(cmd *cobra.Command, envs []envconfig.EnvVar) {
	if len(envs) == 0 {
		return
	}

	envUsage := `
Environment Variables:
`
	for _, e := range envs {
		envUsage += fmt.Sprintf("      %-24s   %s\n", e.Name, e.Description)
	}

	cmd.SetUsageTemplate(cmd.UsageTemplate() + envUsage)
}

func versionHandler(cmd *cobra.Command, _ []string) {
	fmt.Fprintf(cmd.OutOrStdout(), "blazee version %s\n", version.Version)
}

// NewCLI builds the root command with all subcommands attached.
func NewCLI() *cobra.Command {
	cobra.EnableCommandSorting = false

	rootCmd := &cobra.Command{
		Use:           "blazee",
		Short:         "Deploy machine learning models as prediction APIs",
		SilenceUsage:  true,
		SilenceErrors: true,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		Run: func(cmd *cobra.Command, args []string) {
			if version, _ := cmd.Flags().GetBool("version"); version {
				versionHandler(cmd, args)
				return
			}

			cmd.Print(cmd.UsageString())
		},
	}

	rootCmd.Flags().BoolP("version", "v", false, "Show version information")

	deployCmd := newDeployCmd()
	listCmd := newListCmd()
	showCmd := newShowCmd()
	versionsCmd := newVersionsCmd()
	predictCmd := newPredictCmd()
	renameCmd := newRenameCmd()
	deleteCmd := newDeleteCmd()

	envVars := envconfig.AsMap()
	envs := []envconfig.EnvVar{envVars["BLAZEE_HOST"], envVars["BLAZEE_API_KEY"]}

	for _, cmd := range []*cobra.Command{
		deployCmd,
		listCmd,
		showCmd,
		versionsCmd,
		predictCmd,
		renameCmd,
		deleteCmd,
	} {
		appendEnvDocs(cmd, envs)
	}
	appendEnvDocs(deployCmd, []envconfig.EnvVar{envVars["BLAZEE_SITE_PACKAGES"]})

	rootCmd.AddCommand(
		deployCmd,
		listCmd,
		showCmd,
		versionsCmd,
		predictCmd,
		renameCmd,
		deleteCmd,
	)

	return rootCmd
}
