package cmd

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/Rana718/db2fixture/internal/codefile"
	"github.com/Rana718/db2fixture/internal/logger"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var generateCmd = &cobra.Command{
	Use:   "generate [table-pattern]",
	Short: "Generate fixture classes and data files",
	Long: `Generate one fixture class and one data file per table matched by the pattern.

The pattern is a table name, optionally prefixed with a schema and optionally
ending with an asterisk:

  db2fixture generate user
  db2fixture generate "tbl_*"
  db2fixture generate "archive.tbl_*"

Without a pattern the fixture.table_name setting is used. Existing files that
would change are only replaced with --overwrite.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runGenerate,
}

func init() {
	rootCmd.AddCommand(generateCmd)

	addGenerateFlags(generateCmd)
}

func addGenerateFlags(cmd *cobra.Command) {
	addFixtureFlags(cmd)
	cmd.Flags().Bool("dry-run", false, "Preview the files without writing them")
	cmd.Flags().Bool("overwrite", false, "Replace existing files that differ")
	cmd.Flags().Bool("diff", false, "Show a diff for files that would be overwritten")
}

func runGenerate(cmd *cobra.Command, args []string) error {
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

	log.Info("🔍 Resolving tables for %q...", gen.Options().TableName)
	files, err := gen.Generate(ctx)
	if err != nil {
		return reportError(log, err)
	}

	dryRun, _ := cmd.Flags().GetBool("dry-run")
	overwrite, _ := cmd.Flags().GetBool("overwrite")
	showDiff, _ := cmd.Flags().GetBool("diff")

	printPreview(cmd.OutOrStdout(), log, files, showDiff)

	if dryRun {
		log.Info("💡 Dry run, nothing was written")
		return nil
	}

	written, skipped, failed := 0, 0, 0
	for _, res := range codefile.SaveAll(files, overwrite) {
		switch {
		case res.Err != nil:
			failed++
			log.Error("%s: %v", res.File.Path, res.Err)
		case res.Saved:
			written++
		default:
			skipped++
		}
	}

	if failed > 0 {
		return fmt.Errorf("failed to write %d file(s)", failed)
	}
	log.Success("Wrote %d file(s), skipped %d", written, skipped)
	if !overwrite && hasOverwrites(files) {
		log.Warn("Some files differ from the generated code; rerun with --overwrite to replace them")
	}
	return nil
}

func printPreview(w io.Writer, log *logger.Logger, files []*codefile.CodeFile, showDiff bool) {
	for _, f := range files {
		switch f.Operation {
		case codefile.OpCreate:
			fmt.Fprintf(w, "  %s %s\n", color.GreenString("[new]      "), f.Path)
		case codefile.OpOverwrite:
			fmt.Fprintf(w, "  %s %s\n", color.YellowString("[overwrite]"), f.Path)
		default:
			fmt.Fprintf(w, "  %s %s\n", color.HiBlackString("[unchanged]"), f.Path)
		}

		if !showDiff || f.Operation != codefile.OpOverwrite {
			continue
		}
		diff, err := f.Diff()
		if err != nil {
			log.Warn("cannot diff %s: %v", f.Path, err)
			continue
		}
		printDiff(w, diff)
	}
}

func printDiff(w io.Writer, diff string) {
	for _, line := range strings.Split(strings.TrimSuffix(diff, "\n"), "\n") {
		if !codefile.Changed(line) {
			continue
		}
		if strings.HasPrefix(line, "-") {
			fmt.Fprintf(w, "      %s\n", color.RedString(line))
		} else {
			fmt.Fprintf(w, "      %s\n", color.GreenString(line))
		}
	}
}

func hasOverwrites(files []*codefile.CodeFile) bool {
	for _, f := range files {
		if f.Operation == codefile.OpOverwrite {
			return true
		}
	}
	return false
}
