package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/papapumpkin/stencil/internal/output"
	"github.com/papapumpkin/stencil/internal/template"
	"github.com/papapumpkin/stencil/internal/templater"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored templates",
	Args:  cobra.NoArgs,
	RunE:  runList,
}

func init() {
	listCmd.Flags().StringP("name", "n", "", "filter templates whose name contains this string")
	listCmd.Flags().Bool("commands", false, "show the named template's post-expansion commands")
	listCmd.Flags().Bool("file-tree", false, "show the named template's captured file tree")

	rootCmd.AddCommand(listCmd)
}

// validateListFlags rejects detail views that have no template to
// describe.
func validateListFlags(name string, commands, fileTree bool) error {
	if name == "" && (commands || fileTree) {
		return fmt.Errorf("%w: --commands and --file-tree require --name", template.ErrInvalidArgument)
	}
	return nil
}

func runList(cmd *cobra.Command, args []string) error {
	name, _ := cmd.Flags().GetString("name")
	commands, _ := cmd.Flags().GetBool("commands")
	fileTree, _ := cmd.Flags().GetBool("file-tree")

	if err := validateListFlags(name, commands, fileTree); err != nil {
		return err
	}

	m, err := newManager(cmd)
	if err != nil {
		return err
	}
	defer m.Close()

	ctx := cmd.Context()

	if commands || fileTree {
		rec, err := m.Get(ctx, name)
		if err != nil {
			return err
		}
		output.Println(templater.RenderTable([]template.Record{rec}))

		if commands {
			printCommands(rec.Commands)
		}
		if fileTree {
			rendered, err := m.FileTree(ctx, name)
			if err != nil {
				return err
			}
			output.Println("File tree:")
			output.Print(rendered)
		}
		return nil
	}

	recs, err := m.List(ctx, name)
	if err != nil {
		return err
	}
	if len(recs) == 0 {
		output.Println("no templates found")
		return nil
	}
	output.Println(templater.RenderTable(recs))
	return nil
}

func printCommands(commands []string) {
	output.Println("Commands:")
	if len(commands) == 0 {
		output.Println("  (none)")
		return
	}
	for _, c := range commands {
		output.Println("  " + c)
	}
}
