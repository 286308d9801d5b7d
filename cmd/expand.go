package cmd

import (
	"github.com/spf13/cobra"

	"github.com/papapumpkin/stencil/internal/output"
)

var expandCmd = &cobra.Command{
	Use:   "expand <name>",
	Short: "Materialize a template into a new directory",
	Args:  cobra.ExactArgs(1),
	RunE:  runExpand,
}

func init() {
	expandCmd.Flags().StringP("path", "p", "", "parent directory for the expansion (default: current directory)")
	expandCmd.Flags().StringArrayP("env", "e", nil, "key=value environment override for the commands (repeatable)")
	expandCmd.Flags().StringP("as", "a", "", "directory name to expand into (default: the template name)")
	expandCmd.Flags().Bool("no-exec", false, "skip the template's post-expansion commands")

	rootCmd.AddCommand(expandCmd)
}

func runExpand(cmd *cobra.Command, args []string) error {
	m, err := newManager(cmd)
	if err != nil {
		return err
	}
	defer m.Close()

	parent, _ := cmd.Flags().GetString("path")
	envs, _ := cmd.Flags().GetStringArray("env")
	createAs, _ := cmd.Flags().GetString("as")
	noExec, _ := cmd.Flags().GetBool("no-exec")

	dest, err := m.Expand(cmd.Context(), args[0], parent, envs, createAs, noExec)
	if err != nil {
		return err
	}

	output.Info("template expanded", "name", args[0], "into", dest)
	return nil
}
