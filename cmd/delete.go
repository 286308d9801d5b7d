package cmd

import (
	"github.com/spf13/cobra"

	"github.com/papapumpkin/stencil/internal/output"
)

var deleteCmd = &cobra.Command{
	Use:   "delete <name>",
	Short: "Remove a template and its archive",
	Args:  cobra.ExactArgs(1),
	RunE:  runDelete,
}

func init() {
	rootCmd.AddCommand(deleteCmd)
}

func runDelete(cmd *cobra.Command, args []string) error {
	m, err := newManager(cmd)
	if err != nil {
		return err
	}
	defer m.Close()

	if err := m.Delete(cmd.Context(), args[0]); err != nil {
		return err
	}

	output.Info("template deleted", "name", args[0])
	return nil
}
