package postgres

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/Rana718/db2fixture/internal/database/common"
	"github.com/Rana718/db2fixture/internal/types"
)

func (p *Adapter) GetTableNames(ctx context.Context, schema string) ([]string, error) {
	schema, err := p.resolveSchema(ctx, schema)
	if err != nil {
		return nil, err
	}

	query, args, err := p.qb.Select("table_name").
		From("information_schema.tables").
		Where(squirrel.Eq{"table_schema": schema, "table_type": "BASE TABLE"}).
		OrderBy("table_name").
		ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := p.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list tables in schema %s: %w", schema, err)
	}
	defer rows.Close()

	tables := make([]string, 0, 32)
	for rows.Next() {
		var tableName string
		if err := rows.Scan(&tableName); err != nil {
			return nil, err
		}
		tables = append(tables, tableName)
	}
	return tables, rows.Err()
}

func (p *Adapter) GetTableSchema(ctx context.Context, name string) (*types.SchemaTable, error) {
	schema, table := common.SplitTableName(name)
	schema, err := p.resolveSchema(ctx, schema)
	if err != nil {
		return nil, err
	}

	var exists bool
	err = p.pool.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM information_schema.tables
			WHERE table_schema = $1 AND table_name = $2
		)
	`, schema, table).Scan(&exists)
	if err != nil {
		return nil, fmt.Errorf("failed to look up table %s: %w", name, err)
	}
	if !exists {
		return nil, nil
	}

	tables, err := p.loadTables(ctx, schema, []string{table})
	if err != nil {
		return nil, err
	}
	return &tables[0], nil
}

func (p *Adapter) GetTableSchemas(ctx context.Context, schema string) ([]types.SchemaTable, error) {
	schema, err := p.resolveSchema(ctx, schema)
	if err != nil {
		return nil, err
	}

	names, err := p.GetTableNames(ctx, schema)
	if err != nil {
		return nil, err
	}
	if len(names) == 0 {
		return []types.SchemaTable{}, nil
	}
	return p.loadTables(ctx, schema, names)
}

// loadTables batches column and foreign key lookups for every table in names
// and returns them in the same order.
func (p *Adapter) loadTables(ctx context.Context, schema string, names []string) ([]types.SchemaTable, error) {
	columns, err := p.getColumns(ctx, schema, names)
	if err != nil {
		return nil, err
	}

	foreignKeys, err := p.getForeignKeys(ctx, schema, names)
	if err != nil {
		return nil, err
	}

	tables := make([]types.SchemaTable, 0, len(names))
	for _, name := range names {
		tables = append(tables, types.SchemaTable{
			Schema:      schema,
			Name:        name,
			Columns:     columns[name],
			ForeignKeys: foreignKeys[name],
		})
	}
	return tables, nil
}

func (p *Adapter) getColumns(ctx context.Context, schema string, names []string) (map[string][]types.SchemaColumn, error) {
	query, args, err := p.qb.Select("table_name", "column_name", "udt_name", "is_nullable").
		From("information_schema.columns").
		Where(squirrel.Eq{"table_schema": schema}).
		Where(squirrel.Expr("table_name = ANY(?)", names)).
		OrderBy("table_name", "ordinal_position").
		ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := p.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query columns: %w", err)
	}
	defer rows.Close()

	result := make(map[string][]types.SchemaColumn, len(names))
	for rows.Next() {
		var tableName, isNullable string
		var column types.SchemaColumn
		if err := rows.Scan(&tableName, &column.Name, &column.Type, &isNullable); err != nil {
			return nil, err
		}
		column.Nullable = isNullable == "YES"
		result[tableName] = append(result[tableName], column)
	}
	return result, rows.Err()
}

// getForeignKeys reads pg_constraint directly so multi-column keys keep their
// column pairing, and orders constraints by creation (oid).
func (p *Adapter) getForeignKeys(ctx context.Context, schema string, names []string) (map[string][]types.ForeignKey, error) {
	rows, err := p.pool.Query(ctx, `
		SELECT
			src_table.relname AS table_name,
			con.conname AS constraint_name,
			src_attr.attname AS column_name,
			tgt_ns.nspname AS foreign_schema,
			tgt_table.relname AS foreign_table_name,
			tgt_attr.attname AS foreign_column_name
		FROM pg_constraint con
		JOIN pg_class src_table ON con.conrelid = src_table.oid
		JOIN pg_namespace ns ON src_table.relnamespace = ns.oid
		JOIN pg_class tgt_table ON con.confrelid = tgt_table.oid
		JOIN pg_namespace tgt_ns ON tgt_table.relnamespace = tgt_ns.oid
		CROSS JOIN LATERAL UNNEST(con.conkey, con.confkey) WITH ORDINALITY AS cols(src_col, tgt_col, ord)
		JOIN pg_attribute src_attr ON src_attr.attrelid = src_table.oid AND src_attr.attnum = cols.src_col
		JOIN pg_attribute tgt_attr ON tgt_attr.attrelid = tgt_table.oid AND tgt_attr.attnum = cols.tgt_col
		WHERE con.contype = 'f'
		  AND ns.nspname = $1
		  AND src_table.relname = ANY($2)
		ORDER BY src_table.relname, con.oid, cols.ord
	`, schema, names)
	if err != nil {
		return nil, fmt.Errorf("failed to query foreign keys: %w", err)
	}
	defer rows.Close()

	result := make(map[string][]types.ForeignKey, len(names))
	for rows.Next() {
		var tableName, constraintName, column, refSchema, refTable, refColumn string
		if err := rows.Scan(&tableName, &constraintName, &column, &refSchema, &refTable, &refColumn); err != nil {
			return nil, err
		}

		if refSchema != schema {
			refTable = refSchema + "." + refTable
		}

		fks := result[tableName]
		if n := len(fks); n > 0 && fks[n-1].Name == constraintName {
			fks[n-1].Columns = append(fks[n-1].Columns, column)
			fks[n-1].RefColumns = append(fks[n-1].RefColumns, refColumn)
			continue
		}
		result[tableName] = append(fks, types.ForeignKey{
			Name:       constraintName,
			Columns:    []string{column},
			RefTable:   refTable,
			RefColumns: []string{refColumn},
		})
	}
	return result, rows.Err()
}
