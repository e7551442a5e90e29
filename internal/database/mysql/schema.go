package mysql

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/Masterminds/squirrel"
	"github.com/Rana718/db2fixture/internal/database/common"
	"github.com/Rana718/db2fixture/internal/types"
)

func (m *Adapter) GetTableNames(ctx context.Context, schema string) ([]string, error) {
	schema, err := m.resolveSchema(ctx, schema)
	if err != nil {
		return nil, err
	}

	query, args, err := m.qb.Select("TABLE_NAME").
		From("information_schema.TABLES").
		Where(squirrel.Eq{"TABLE_SCHEMA": schema, "TABLE_TYPE": "BASE TABLE"}).
		OrderBy("TABLE_NAME").
		ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := m.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list tables in schema %s: %w", schema, err)
	}
	defer rows.Close()

	var tables []string
	for rows.Next() {
		var tableName string
		if err := rows.Scan(&tableName); err != nil {
			return nil, err
		}
		tables = append(tables, tableName)
	}
	return tables, rows.Err()
}

func (m *Adapter) GetTableSchema(ctx context.Context, name string) (*types.SchemaTable, error) {
	schema, table := common.SplitTableName(name)
	schema, err := m.resolveSchema(ctx, schema)
	if err != nil {
		return nil, err
	}

	query, args, err := m.qb.Select("COUNT(*)").
		From("information_schema.TABLES").
		Where(squirrel.Eq{"TABLE_SCHEMA": schema, "TABLE_NAME": table}).
		ToSql()
	if err != nil {
		return nil, err
	}

	var count int
	if err := m.db.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return nil, fmt.Errorf("failed to look up table %s: %w", name, err)
	}
	if count == 0 {
		return nil, nil
	}

	tables, err := m.loadTables(ctx, schema, []string{table})
	if err != nil {
		return nil, err
	}
	return &tables[0], nil
}

func (m *Adapter) GetTableSchemas(ctx context.Context, schema string) ([]types.SchemaTable, error) {
	schema, err := m.resolveSchema(ctx, schema)
	if err != nil {
		return nil, err
	}

	names, err := m.GetTableNames(ctx, schema)
	if err != nil {
		return nil, err
	}
	if len(names) == 0 {
		return []types.SchemaTable{}, nil
	}
	return m.loadTables(ctx, schema, names)
}

func (m *Adapter) loadTables(ctx context.Context, schema string, names []string) ([]types.SchemaTable, error) {
	columns, err := m.getColumns(ctx, schema, names)
	if err != nil {
		return nil, err
	}

	foreignKeys, err := m.getForeignKeys(ctx, schema, names)
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

func (m *Adapter) getColumns(ctx context.Context, schema string, names []string) (map[string][]types.SchemaColumn, error) {
	query, args, err := m.qb.Select("TABLE_NAME", "COLUMN_NAME", "COLUMN_TYPE", "IS_NULLABLE").
		From("information_schema.COLUMNS").
		Where(squirrel.Eq{"TABLE_SCHEMA": schema, "TABLE_NAME": names}).
		OrderBy("TABLE_NAME", "ORDINAL_POSITION").
		ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := m.db.QueryContext(ctx, query, args...)
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

var foreignKeyPattern = regexp.MustCompile("(?i)CONSTRAINT\\s+`((?:[^`]|``)+)`\\s+FOREIGN KEY\\s*\\(([^)]+)\\)\\s+REFERENCES\\s+([^(\\s]+)\\s*\\(([^)]+)\\)")

// getForeignKeys parses SHOW CREATE TABLE for each table. information_schema
// keeps no declaration order, the table definition does.
func (m *Adapter) getForeignKeys(ctx context.Context, schema string, names []string) (map[string][]types.ForeignKey, error) {
	result := make(map[string][]types.ForeignKey, len(names))
	for _, name := range names {
		var table, ddl string
		query := "SHOW CREATE TABLE " + quoteIdentifier(schema) + "." + quoteIdentifier(name)
		if err := m.db.QueryRowContext(ctx, query).Scan(&table, &ddl); err != nil {
			return nil, fmt.Errorf("failed to query foreign keys of %s: %w", name, err)
		}
		if fks := parseForeignKeys(ddl, schema); len(fks) > 0 {
			result[name] = fks
		}
	}
	return result, nil
}

// parseForeignKeys reads the CONSTRAINT ... FOREIGN KEY clauses of a CREATE
// TABLE statement in the order they appear. References into another
// database keep their qualified name.
func parseForeignKeys(ddl, schema string) []types.ForeignKey {
	var fks []types.ForeignKey
	for _, m := range foreignKeyPattern.FindAllStringSubmatch(ddl, -1) {
		ref := unquoteTableName(m[3])
		if refSchema, refTable := common.SplitTableName(ref); refSchema == schema {
			ref = refTable
		}
		fks = append(fks, types.ForeignKey{
			Name:       unquoteIdentifier(m[1]),
			Columns:    splitColumns(m[2]),
			RefTable:   ref,
			RefColumns: splitColumns(m[4]),
		})
	}
	return fks
}

func splitColumns(list string) []string {
	parts := strings.Split(list, ",")
	columns := make([]string, 0, len(parts))
	for _, part := range parts {
		columns = append(columns, unquoteIdentifier(part))
	}
	return columns
}

// unquoteTableName turns `db`.`table` into db.table.
func unquoteTableName(name string) string {
	parts := strings.Split(strings.TrimSpace(name), "`.`")
	for i, part := range parts {
		parts[i] = unquoteIdentifier(part)
	}
	return strings.Join(parts, ".")
}

func unquoteIdentifier(name string) string {
	return strings.ReplaceAll(strings.Trim(strings.TrimSpace(name), "`"), "``", "`")
}
