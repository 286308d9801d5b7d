package cmd

import (
	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/papapumpkin/stencil/internal/output"
	"github.com/papapumpkin/stencil/internal/template"
)

var createCmd = &cobra.Command{
	Use:   "create <path>",
	Short: "Capture a directory as a new template",
	Args:  cobra.ExactArgs(1),
	RunE:  runCreate,
}

func init() {
	createCmd.Flags().StringP("name", "n", "", "template name (default: the directory's name)")
	createCmd.Flags().StringP("description", "d", "", "template description")
	createCmd.Flags().StringArrayP("command", "c", nil, "command to run after expansion (repeatable)")
	createCmd.Flags().StringArrayP("ignore", "i", nil, "glob pattern to exclude from the capture (repeatable)")
	createCmd.Flags().StringP("definition", "r", "", "definition file supplying field defaults")
	createCmd.Flags().BoolP("force", "f", false, "overwrite an existing template of the same name")

	rootCmd.AddCommand(createCmd)
}

func runCreate(cmd *cobra.Command, args []string) error {
	m, err := newManager(cmd)
	if err != nil {
		return err
	}
	defer m.Close()

	name, _ := cmd.Flags().GetString("name")
	description, _ := cmd.Flags().GetString("description")
	commands, _ := cmd.Flags().GetStringArray("command")
	ignore, _ := cmd.Flags().GetStringArray("ignore")
	definition, _ := cmd.Flags().GetString("definition")
	force, _ := cmd.Flags().GetBool("force")

	fields := template.Fields{
		Name:        name,
		Description: description,
		Commands:    commands,
		Ignore:      ignore,
	}

	rec, err := m.Create(cmd.Context(), args[0], fields, definition, force)
	if err != nil {
		return err
	}

	output.Info("template created", "name", rec.Name, "size", humanize.Bytes(uint64(rec.CompressedSize)))
	return nil
}
