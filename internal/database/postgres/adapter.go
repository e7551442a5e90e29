package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Pool is the part of *pgxpool.Pool the adapter uses.
type Pool interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Ping(ctx context.Context) error
	Close()
}

type Adapter struct {
	pool        Pool
	qb          squirrel.StatementBuilderType
	tablePrefix string
}

func New(tablePrefix string) *Adapter {
	return &Adapter{
		qb:          squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
		tablePrefix: tablePrefix,
	}
}

// NewWithPool wraps an already opened pool.
func NewWithPool(pool Pool, tablePrefix string) *Adapter {
	a := New(tablePrefix)
	a.pool = pool
	return a
}

func (p *Adapter) Connect(ctx context.Context, url string) error {
	config, err := pgxpool.ParseConfig(url)
	if err != nil {
		return fmt.Errorf("failed to parse connection URL: %w", err)
	}

	config.ConnConfig.DefaultQueryExecMode = pgx.QueryExecModeExec

	config.MaxConns = 2
	config.MinConns = 0
	config.MaxConnLifetime = 15 * time.Minute
	config.MaxConnIdleTime = 3 * time.Minute
	config.HealthCheckPeriod = 30 * time.Second

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return fmt.Errorf("failed to create connection pool: %w", err)
	}

	p.pool = pool
	return nil
}

func (p *Adapter) Close() error {
	if p.pool != nil {
		p.pool.Close()
	}
	return nil
}

func (p *Adapter) Ping(ctx context.Context) error {
	return p.pool.Ping(ctx)
}

func (p *Adapter) TablePrefix() string {
	return p.tablePrefix
}

// resolveSchema maps the empty schema name to current_schema().
func (p *Adapter) resolveSchema(ctx context.Context, schema string) (string, error) {
	if schema != "" {
		return schema, nil
	}
	var current string
	if err := p.pool.QueryRow(ctx, "SELECT current_schema()").Scan(&current); err != nil {
		return "", fmt.Errorf("failed to get current schema: %w", err)
	}
	return current, nil
}
