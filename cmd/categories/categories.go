// Package categories lists and exports the category set
package categories

import (
	"context"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"fjacquet/expense-audit/cmd/root"
	"fjacquet/expense-audit/internal/container"

	"github.com/spf13/cobra"
)

var exportPath string

// Cmd represents the categories command
var Cmd = &cobra.Command{
	Use:   "categories",
	Short: "List the categories and their merchant keywords",
	Long: `List the category set in rule order, with the description sent to the
classifier and the keywords used by the rule matcher. With --export the set is
written to a YAML file that can be edited and passed back via categories.file.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}
		c, err := root.GetContainer(ctx)
		if err != nil {
			return err
		}
		if exportPath != "" {
			return Export(c, exportPath, cmd.OutOrStdout())
		}
		return List(c, cmd.OutOrStdout())
	},
}

func init() {
	Cmd.Flags().StringVar(&exportPath, "export", "", "Write the category set to this YAML file")
}

// List prints the category set.
func List(c *container.Container, out io.Writer) error {
	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "CATEGORY\tDESCRIPTION\tKEYWORDS")
	for _, cfg := range c.GetCategories().Configs() {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", cfg.Name, cfg.Description, strings.Join(cfg.Keywords, ", "))
	}
	return tw.Flush()
}

// Export writes the category set to path.
func Export(c *container.Container, path string, out io.Writer) error {
	if err := c.GetStore().SaveCategorySet(c.GetCategories(), path); err != nil {
		return fmt.Errorf("failed to export categories: %w", err)
	}
	_, err := fmt.Fprintf(out, "Exported %d categories to %s\n", c.GetCategories().Len(), path)
	return err
}
