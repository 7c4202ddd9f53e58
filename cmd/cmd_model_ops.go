package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/blazee-io/blazee-go/blazee"
	"github.com/blazee-io/blazee-go/format"
)

func newShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show MODEL_ID",
		Short: "Show information about a model",
		Args:  cobra.ExactArgs(1),
		RunE:  ShowHandler,
	}
}

// ShowHandler prints one model and its default version.
func ShowHandler(cmd *cobra.Command, args []string) error {
	client, err := blazee.ClientFromEnvironment()
	if err != nil {
		return err
	}

	model, err := client.Model(cmd.Context(), args[0])
	if err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	fmt.Fprintf(w, "  Id        %s\n", model.ID)
	fmt.Fprintf(w, "  Name      %s\n", model.Name)
	fmt.Fprintf(w, "  Created   %s\n", format.HumanTime(model.CreatedAt))
	fmt.Fprintf(w, "  Updated   %s\n", format.HumanTime(model.UpdatedAt))

	if v := model.DefaultVersion; v != nil {
		fmt.Fprintf(w, "\n  Default version\n")
		fmt.Fprintf(w, "    Id        %s\n", v.ID)
		fmt.Fprintf(w, "    Name      %s\n", v.Name)
		fmt.Fprintf(w, "    Type      %s\n", v.Framework)
		fmt.Fprintf(w, "    Deployed  %t\n", v.Deployed)
		for pkg, version := range v.Meta.LibVersions {
			fmt.Fprintf(w, "    Lib       %s %s\n", pkg, version)
		}
	}
	return nil
}

func newRenameCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rename MODEL_ID NAME",
		Short: "Rename a model",
		Args:  cobra.ExactArgs(2),
		RunE:  RenameHandler,
	}
}

// RenameHandler renames a model.
func RenameHandler(cmd *cobra.Command, args []string) error {
	client, err := blazee.ClientFromEnvironment()
	if err != nil {
		return err
	}

	model, err := client.Model(cmd.Context(), args[0])
	if err != nil {
		return err
	}

	if err := model.Rename(cmd.Context(), args[1]); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Renamed model %s to %q\n", model.ID, model.Name)
	return nil
}

func newDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "delete MODEL_ID",
		Aliases: []string{"rm"},
		Short:   "Delete a model and all its versions",
		Args:    cobra.ExactArgs(1),
		RunE:    DeleteHandler,
	}
}

// DeleteHandler deletes a model.
func DeleteHandler(cmd *cobra.Command, args []string) error {
	client, err := blazee.ClientFromEnvironment()
	if err != nil {
		return err
	}

	model, err := client.Model(cmd.Context(), args[0])
	if err != nil {
		return err
	}

	if err := model.Delete(cmd.Context()); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Deleted model %s\n", model.ID)
	return nil
}
