package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/Rana718/db2fixture/internal/config"
	"github.com/Rana718/db2fixture/template"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var (
	sqliteFlag     bool
	postgresqlFlag bool
	mysqlFlag      bool
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize a db2fixture config in the current directory",
	Long:  `Write db2fixture.config.json, create the default fixture and model directories and add DATABASE_URL to .env.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		dbType := template.PostgreSQL
		flagCount := 0

		if sqliteFlag {
			dbType = template.SQLite
			flagCount++
		}
		if postgresqlFlag {
			dbType = template.PostgreSQL
			flagCount++
		}
		if mysqlFlag {
			dbType = template.MySQL
			flagCount++
		}

		if flagCount > 1 {
			return fmt.Errorf("please specify only one database type (--sqlite, --postgresql, or --mysql)")
		}

		return initializeProject(cmd.OutOrStdout(), dbType)
	},
}

func init() {
	rootCmd.AddCommand(initCmd)

	initCmd.Flags().BoolVar(&sqliteFlag, "sqlite", false, "Initialize project for SQLite database")
	initCmd.Flags().BoolVar(&postgresqlFlag, "postgresql", false, "Initialize project for PostgreSQL database")
	initCmd.Flags().BoolVar(&mysqlFlag, "mysql", false, "Initialize project for MySQL database")
}

func initializeProject(w io.Writer, dbType template.DatabaseType) error {
	if config.IsInitialized() {
		return fmt.Errorf("%s already exists", config.FileName)
	}

	tmpl := template.NewProjectTemplate(dbType)

	directories := tmpl.GetDirectoryStructure()
	for _, dir := range directories {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}

	content, err := tmpl.GetConfig()
	if err != nil {
		return err
	}
	if err := os.WriteFile(config.FileName, []byte(content), 0644); err != nil {
		return fmt.Errorf("failed to create file %s: %w", config.FileName, err)
	}

	if err := handleEnvFile(tmpl.GetEnvTemplate()); err != nil {
		return fmt.Errorf("failed to handle .env file: %w", err)
	}

	fmt.Fprintln(w, color.GreenString("✅ Initialized db2fixture with %s database support", dbType))
	fmt.Fprintln(w)
	fmt.Fprintln(w, "📁 Directories created:")
	for _, dir := range directories {
		fmt.Fprintf(w, "   %s/\n", dir)
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, "📝 Configuration file created:")
	fmt.Fprintf(w, "   %s\n", config.FileName)

	if os.Getenv("DATABASE_URL") != "" {
		fmt.Fprintln(w)
		fmt.Fprintln(w, "ℹ️  Using existing DATABASE_URL from environment")
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, "🚀 Next steps:")
	fmt.Fprintln(w, "   db2fixture tables            # List tables")
	fmt.Fprintln(w, "   db2fixture inspect \"tbl_*\"   # Preview classes and dependencies")
	fmt.Fprintln(w, "   db2fixture generate \"tbl_*\"  # Write fixtures")

	return nil
}

func handleEnvFile(defaultEnvContent string) error {
	envPath := ".env"

	existingContent, err := os.ReadFile(envPath)
	if err != nil {
		if os.IsNotExist(err) {
			return os.WriteFile(envPath, []byte(defaultEnvContent), 0644)
		}
		return err
	}

	existingStr := string(existingContent)
	if strings.Contains(existingStr, "DATABASE_URL") {
		return nil
	}

	if len(existingStr) > 0 && !strings.HasSuffix(existingStr, "\n") {
		existingStr += "\n"
	}

	existingStr += "\n# Added by db2fixture\n" + defaultEnvContent

	return os.WriteFile(envPath, []byte(existingStr), 0644)
}
