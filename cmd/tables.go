package cmd

import (
	"context"
	"fmt"

	"github.com/Rana718/db2fixture/internal/config"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var tablesCmd = &cobra.Command{
	Use:   "tables [schema]",
	Short: "List the tables of a connection",
	Long:  `List the table names a pattern can match. Without a schema the connection's default schema is used.`,
	Args:  cobra.MaximumNArgs(1),
	RunE:  runTables,
}

func runTables(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	id, _ := cmd.Flags().GetString("db")
	if id == "" {
		id = cfg.Fixture.DB
	}

	schema := ""
	if len(args) > 0 {
		schema = args[0]
	}

	ctx := context.Background()
	adapter, err := openAdapter(ctx, cfg, id)
	if err != nil {
		return err
	}
	defer adapter.Close()

	tables, err := adapter.GetTableNames(ctx, schema)
	if err != nil {
		return err
	}

	log := newLogger(cmd)
	if len(tables) == 0 {
		log.Warn("No tables found")
		return nil
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, color.GreenString("📋 Tables (%d)", len(tables)))
	for _, table := range tables {
		fmt.Fprintf(out, "  • %s\n", table)
	}
	return nil
}

func init() {
	rootCmd.AddCommand(tablesCmd)

	tablesCmd.Flags().String("db", "", fmt.Sprintf("Connection id (default %q)", config.DefaultConnectionID))
}
