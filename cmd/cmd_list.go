package cmd

import (
	"os"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/blazee-io/blazee-go/blazee"
	"github.com/blazee-io/blazee-go/format"
)

func newListCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "list [NAME_PREFIX]",
		Aliases: []string{"ls"},
		Short:   "List your models",
		Args:    cobra.MaximumNArgs(1),
		RunE:    ListHandler,
	}
}

// ListHandler lists the account's models, optionally filtered by a name
// prefix.
func ListHandler(cmd *cobra.Command, args []string) error {
	client, err := blazee.ClientFromEnvironment()
	if err != nil {
		return err
	}

	models, err := client.Models(cmd.Context())
	if err != nil {
		return err
	}

	var data [][]string
	for _, m := range models {
		if len(args) > 0 && !strings.HasPrefix(strings.ToLower(m.Name), strings.ToLower(args[0])) {
			continue
		}

		defaultVersion := "-"
		if m.DefaultVersion != nil {
			defaultVersion = m.DefaultVersion.Name
		}

		data = append(data, []string{m.ID, m.Name, defaultVersion, format.HumanTime(m.UpdatedAt)})
	}

	renderTable([]string{"ID", "NAME", "DEFAULT", "UPDATED"}, data)
	return nil
}

func newVersionsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "versions MODEL_ID",
		Short: "List the versions of a model",
		Args:  cobra.ExactArgs(1),
		RunE:  VersionsHandler,
	}
}

// VersionsHandler lists all versions of one model.
func VersionsHandler(cmd *cobra.Command, args []string) error {
	client, err := blazee.ClientFromEnvironment()
	if err != nil {
		return err
	}

	model, err := client.Model(cmd.Context(), args[0])
	if err != nil {
		return err
	}

	versions, err := model.Versions(cmd.Context())
	if err != nil {
		return err
	}

	var data [][]string
	for _, v := range versions {
		status := "pending"
		switch {
		case v.Deployed:
			status = "deployed"
		case v.DeploymentError:
			status = "failed"
		}

		data = append(data, []string{v.ID, v.Name, v.Framework, status, format.HumanTime(v.CreatedAt)})
	}

	renderTable([]string{"ID", "NAME", "TYPE", "STATUS", "CREATED"}, data)
	return nil
}

func renderTable(header []string, data [][]string) {
	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader(header)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetHeaderLine(false)
	table.SetBorder(false)
	table.SetNoWhiteSpace(true)
	table.SetTablePadding("    ")
	table.AppendBulk(data)
	table.Render()
}
