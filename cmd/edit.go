package cmd

import (
	"github.com/spf13/cobra"

	"github.com/papapumpkin/stencil/internal/output"
	"github.com/papapumpkin/stencil/internal/template"
	"github.com/papapumpkin/stencil/internal/templater"
)

var editCmd = &cobra.Command{
	Use:   "edit <name>",
	Short: "Edit a template's metadata in your editor",
	Args:  cobra.ExactArgs(1),
	RunE:  runEdit,
}

func init() {
	rootCmd.AddCommand(editCmd)
}

func runEdit(cmd *cobra.Command, args []string) error {
	m, err := newManager(cmd)
	if err != nil {
		return err
	}
	defer m.Close()

	rec, err := m.Edit(cmd.Context(), args[0])
	if err != nil {
		return err
	}

	// Show the saved state as confirmation.
	output.Println(templater.RenderTable([]template.Record{rec}))
	printCommands(rec.Commands)
	return nil
}
