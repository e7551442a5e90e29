package cmd

import (
	"context"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect [table-pattern]",
	Short: "Show what generate would produce, without reading any rows",
	Long: `Resolve the pattern, derive class names and dependencies, and print the plan
as YAML: the classes, their models, their $depends lists, the target paths and
an order in which the fixtures can be loaded.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		log := newLogger(cmd)
		ctx := context.Background()

		pattern := ""
		if len(args) > 0 {
			pattern = args[0]
		}

		gen, adapter, err := newGenerator(ctx, cmd, pattern, log)
		if err != nil {
			return err
		}
		defer adapter.Close()

		plan, err := gen.Plan(ctx)
		if err != nil {
			return reportError(log, err)
		}

		enc := yaml.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent(2)
		defer enc.Close()
		return enc.Encode(plan)
	},
}

func init() {
	rootCmd.AddCommand(inspectCmd)

	addFixtureFlags(inspectCmd)
}
