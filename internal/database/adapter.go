package database

import (
	"context"

	"github.com/Rana718/db2fixture/internal/database/common"
	"github.com/Rana718/db2fixture/internal/types"
)

// SchemaIntrospector exposes the catalog queries the generator needs. An
// empty schema name means the connection's default schema.
type SchemaIntrospector interface {
	GetTableNames(ctx context.Context, schema string) ([]string, error)
	// GetTableSchema returns nil and no error when the table does not exist.
	GetTableSchema(ctx context.Context, name string) (*types.SchemaTable, error)
	GetTableSchemas(ctx context.Context, schema string) ([]types.SchemaTable, error)
	TablePrefix() string
}

type RowSource interface {
	GetTableData(ctx context.Context, tableName string) (*common.QueryResult, error)
}

type DatabaseAdapter interface {
	Connect(ctx context.Context, url string) error
	Close() error
	Ping(ctx context.Context) error

	SchemaIntrospector
	RowSource
}
