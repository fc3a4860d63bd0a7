package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/HarshM0210/Config-Workflow/cfgpatch"
)

func newConfigCmd(root *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect solver config documents",
	}
	cmd.AddCommand(newConfigExtractCmd(root))
	return cmd
}

func newConfigExtractCmd(root *rootOptions) *cobra.Command {
	var category string
	var caseCode string
	var output string

	cmd := &cobra.Command{
		Use:   "extract CFG_PATH",
		Short: "Extract a config document's options as YAML",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("reading config document: %w", err)
			}

			doc := cfgpatch.Parse(data)
			out, err := cfgpatch.ExtractYAML(doc, category, caseCode, args[0])
			if err != nil {
				return err
			}

			if output == "" {
				_, err = cmd.OutOrStdout().Write(out)
				return err
			}
			return os.WriteFile(output, out, 0o644)
		},
	}

	cmd.Flags().StringVar(&category, "category", "", "Category recorded in the extracted document")
	cmd.Flags().StringVar(&caseCode, "case", "", "Case code recorded in the extracted document")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Write the YAML to a file instead of stdout")

	return cmd
}
