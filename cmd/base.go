package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/Rana718/db2fixture/internal/config"
	"github.com/Rana718/db2fixture/internal/database"
	"github.com/Rana718/db2fixture/internal/generator"
	"github.com/Rana718/db2fixture/internal/logger"
	"github.com/Rana718/db2fixture/internal/render"
	"github.com/spf13/cobra"
)

func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func newLogger(cmd *cobra.Command) *logger.Logger {
	verbose, _ := cmd.Flags().GetBool("verbose")
	return logger.New(cmd.OutOrStdout(), verbose)
}

// openAdapter connects to the connection registered under id.
func openAdapter(ctx context.Context, cfg *config.Config, id string) (database.DatabaseAdapter, error) {
	conn, ok := cfg.Connection(id)
	if !ok {
		return nil, fmt.Errorf("there is no connection named %q", id)
	}

	dbURL, err := cfg.GetDatabaseURL(id)
	if err != nil {
		return nil, err
	}

	adapter := database.NewAdapter(conn.Provider, conn.TablePrefix)
	if err := adapter.Connect(ctx, dbURL); err != nil {
		return nil, err
	}

	if err := adapter.Ping(ctx); err != nil {
		adapter.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return adapter, nil
}

// addFixtureFlags registers the overrides shared by generate and inspect.
func addFixtureFlags(cmd *cobra.Command) {
	cmd.Flags().String("db", "", "Connection id (default \"db\")")
	cmd.Flags().String("ns", "", "Namespace of the fixture classes")
	cmd.Flags().String("models-ns", "", "Namespace of the model classes")
	cmd.Flags().String("base-class", "", "Fixture base class")
}

// newGenerator applies the command line overrides, validates them, connects
// and builds a generator for pattern. Option errors are reported before any
// connection is opened. The caller closes the adapter.
func newGenerator(ctx context.Context, cmd *cobra.Command, pattern string, log *logger.Logger) (*generator.Generator, database.DatabaseAdapter, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, nil, err
	}

	opts := generator.NewOptions(cfg)
	if pattern != "" {
		opts.TableName = pattern
	}
	for flag, target := range map[string]*string{
		"db":         &opts.DB,
		"ns":         &opts.Namespace,
		"models-ns":  &opts.ModelsNamespace,
		"base-class": &opts.BaseClass,
	} {
		if v, _ := cmd.Flags().GetString(flag); v != "" {
			*target = v
		}
	}

	if err := generator.ValidateOptions(opts); err != nil {
		return nil, nil, reportError(log, err)
	}

	adapter, err := openAdapter(ctx, cfg, opts.DB)
	if err != nil {
		return nil, nil, err
	}

	renderer, err := render.New()
	if err != nil {
		adapter.Close()
		return nil, nil, err
	}

	return generator.New(opts, adapter, adapter, renderer, log), adapter, nil
}

// reportError prints validation errors field by field.
func reportError(log *logger.Logger, err error) error {
	var verrs generator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	for _, e := range verrs {
		log.Error("%s: %s", e.Field, e.Message)
	}
	return fmt.Errorf("validation failed")
}
