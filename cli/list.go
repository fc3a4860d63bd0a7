package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func newListCmd(root *rootOptions) *cobra.Command {
	flags := &selectorFlags{}

	cmd := &cobra.Command{
		Use:   "list",
		Short: "Resolve a selector and list the matching configurations without running",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, tree, _, err := root.openTree()
			if err != nil {
				return err
			}

			leaves, err := tree.Resolve(cmd.Context(), flags.selector())
			if err != nil {
				return err
			}
			if len(leaves) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No configurations matched.")
				return nil
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 2, 0, 2, ' ', 0)
			fmt.Fprintln(w, "CATEGORY\tCASE\tMODEL\tCONFIGURATION\tOUTPUT")
			for _, leaf := range leaves {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
					leaf.Category, leaf.Case, leaf.TurbulenceModel, leaf.Configuration, leaf.OutputPath)
			}
			return w.Flush()
		},
	}

	flags.register(cmd)
	return cmd
}
