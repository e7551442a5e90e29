package cmd

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	cfgFile string
	Version = "0.3.0"
)

var rootCmd = &cobra.Command{
	Use:   "db2fixture",
	Short: "Generate Yii2 test fixtures from a live database",
	Long: `
db2fixture reads table metadata and rows from a database and writes one
fixture class plus one data file per table, ready for the Yii2 fixture loader.

Table names may end with an asterisk to match several tables (tbl_*), and may
carry a schema (public.tbl_*). Foreign keys become the fixture's $depends list.

Database Support:
- PostgreSQL
- MySQL
- SQLite`,
	SilenceUsage: true,

	Run: func(cmd *cobra.Command, args []string) {
		showVersion, _ := cmd.Flags().GetBool("version")
		if showVersion {
			fmt.Printf("db2fixture version %s\n", Version)
			os.Exit(0)
		}

		color.New(color.FgGreen, color.Bold).Println("db2fixture")
		fmt.Println()
		cmd.Help()
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./db2fixture.config.json)")
	rootCmd.PersistentFlags().Bool("verbose", false, "Print debug output")
	rootCmd.PersistentFlags().String("base-path", "", "Directory namespaces are resolved against")

	viper.BindPFlag("base_path", rootCmd.PersistentFlags().Lookup("base-path"))

	rootCmd.Flags().BoolP("version", "v", false, "Show CLI version")
}

func initConfig() {
	if err := godotenv.Load(); err != nil {
		godotenv.Load(".env")
		godotenv.Load(".env.local")
	}

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigType("json")
		viper.SetConfigName("db2fixture.config")
	}

	viper.AutomaticEnv()

	viper.ReadInConfig()
}
