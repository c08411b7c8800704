// Package categorize handles transaction categorization commands
package categorize

import (
	"context"
	"fmt"
	"io"

	"fjacquet/expense-audit/cmd/common"
	"fjacquet/expense-audit/cmd/root"
	"fjacquet/expense-audit/internal/container"

	"github.com/spf13/cobra"
)

var description string

// Cmd represents the categorize command
var Cmd = &cobra.Command{
	Use:   "categorize",
	Short: "Categorize transactions using keyword rules and an LLM classifier",
	Long: `Categorize transactions from a CSV file, or a single description.
Keyword rules are tried first; unmatched rows are sent to the configured
classifier in batches, and anything left over is categorized as Other.`,
	RunE: categorizeFunc,
}

func init() {
	Cmd.Flags().StringVarP(&description, "description", "d", "", "Single transaction description to categorize")
}

func categorizeFunc(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	c, err := root.GetContainer(ctx)
	if err != nil {
		return err
	}

	if description != "" {
		return Describe(ctx, c, description, cmd.OutOrStdout())
	}
	return Run(ctx, c, root.SharedFlags.Input, root.SharedFlags.Output, cmd.InOrStdin(), cmd.OutOrStdout())
}

// Describe categorizes one description and prints the outcome.
func Describe(ctx context.Context, c *container.Container, desc string, out io.Writer) error {
	tx := c.GetCategorizer().CategorizeDescription(ctx, desc)
	_, err := fmt.Fprintf(out, "Category: %s\nConfidence: %.2f\nSource: %s\n", tx.Category, tx.Confidence, tx.Source)
	return err
}

// Run categorizes every row of inputFile and writes the result as CSV.
func Run(ctx context.Context, c *container.Container, inputFile, outputFile string, in io.Reader, out io.Writer) error {
	result, err := common.Categorize(ctx, c, inputFile, in)
	if err != nil {
		return err
	}
	return common.WriteTransactions(c, result.Transactions, outputFile, out)
}
