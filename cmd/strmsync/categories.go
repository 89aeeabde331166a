package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var categoriesCmd = &cobra.Command{
	Use:   "categories [movies|series]",
	Short: "List provider categories",
	Long: `List the provider's VOD or series categories with their IDs, for use in
sync.movie_categories and sync.series_categories.

Examples:
  strmsync categories                 # Movie categories
  strmsync categories series          # Series categories
  strmsync categories --match "docu"  # Fuzzy match by name`,
	Args:      cobra.MaximumNArgs(1),
	ValidArgs: []string{"movies", "series"},
	RunE:      runCategoriesCmd,
}

func init() {
	rootCmd.AddCommand(categoriesCmd)
	categoriesCmd.Flags().String("match", "", "Only show categories similar to this name")
}

func runCategoriesCmd(cmd *cobra.Command, args []string) error {
	kind := "movies"
	if len(args) > 0 {
		kind = args[0]
	}
	if kind != "movies" && kind != "series" {
		return fmt.Errorf("unknown kind %q: want movies or series", kind)
	}
	match, _ := cmd.Flags().GetString("match")

	resp, err := NewClient(serverURL).Categories(kind, match)
	if err != nil {
		return fmt.Errorf("categories: %w", err)
	}
	out := cmd.OutOrStdout()
	if jsonOutput {
		return printJSON(out, resp)
	}
	if len(resp.Items) == 0 {
		fmt.Fprintln(out, "No matching categories.")
		return nil
	}

	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	if match != "" {
		fmt.Fprintln(tw, "ID\tNAME\tSCORE")
	} else {
		fmt.Fprintln(tw, "ID\tNAME")
	}
	for _, c := range resp.Items {
		if c.Score != nil {
			fmt.Fprintf(tw, "%d\t%s\t%.2f\n", c.ID, c.Name, *c.Score)
		} else {
			fmt.Fprintf(tw, "%d\t%s\n", c.ID, c.Name)
		}
	}
	return tw.Flush()
}
