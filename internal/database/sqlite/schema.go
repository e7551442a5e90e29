package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"sort"

	"github.com/Masterminds/squirrel"
	"github.com/Rana718/db2fixture/internal/database/common"
	"github.com/Rana718/db2fixture/internal/types"
)

// resolveSchema maps the empty schema name to "main". Any other name must be
// an attached database and is validated before it is spliced into a PRAGMA.
func resolveSchema(schema string) (string, error) {
	if schema == "" {
		return defaultSchema, nil
	}
	if err := common.ValidateIdentifier(schema); err != nil {
		return "", err
	}
	return schema, nil
}

func (s *Adapter) GetTableNames(ctx context.Context, schema string) ([]string, error) {
	schema, err := resolveSchema(schema)
	if err != nil {
		return nil, err
	}

	query, args, err := s.qb.Select("name").
		From(quoteIdentifier(schema) + ".sqlite_master").
		Where(squirrel.Eq{"type": "table"}).
		Where(squirrel.NotLike{"name": "sqlite_%"}).
		OrderBy("name").
		ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
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

func (s *Adapter) GetTableSchema(ctx context.Context, name string) (*types.SchemaTable, error) {
	schema, table := common.SplitTableName(name)
	schema, err := resolveSchema(schema)
	if err != nil {
		return nil, err
	}

	query, args, err := s.qb.Select("COUNT(*)").
		From(quoteIdentifier(schema) + ".sqlite_master").
		Where(squirrel.Eq{"type": "table", "name": table}).
		ToSql()
	if err != nil {
		return nil, err
	}

	var count int
	if err := s.db.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return nil, fmt.Errorf("failed to look up table %s: %w", name, err)
	}
	if count == 0 {
		return nil, nil
	}

	result, err := s.loadTable(ctx, schema, table)
	if err != nil {
		return nil, err
	}
	return &result, nil
}

func (s *Adapter) GetTableSchemas(ctx context.Context, schema string) ([]types.SchemaTable, error) {
	schema, err := resolveSchema(schema)
	if err != nil {
		return nil, err
	}

	names, err := s.GetTableNames(ctx, schema)
	if err != nil {
		return nil, err
	}

	tables := make([]types.SchemaTable, 0, len(names))
	for _, name := range names {
		table, err := s.loadTable(ctx, schema, name)
		if err != nil {
			return nil, fmt.Errorf("failed to load table %s: %w", name, err)
		}
		tables = append(tables, table)
	}
	return tables, nil
}

func (s *Adapter) loadTable(ctx context.Context, schema, name string) (types.SchemaTable, error) {
	table := types.SchemaTable{Schema: schema, Name: name}

	columns, err := s.getColumns(ctx, schema, name)
	if err != nil {
		return table, err
	}
	table.Columns = columns

	foreignKeys, err := s.getForeignKeys(ctx, schema, name)
	if err != nil {
		return table, err
	}
	table.ForeignKeys = foreignKeys
	return table, nil
}

func (s *Adapter) getColumns(ctx context.Context, schema, table string) ([]types.SchemaColumn, error) {
	rows, err := s.db.QueryContext(ctx,
		fmt.Sprintf("PRAGMA %s.table_info(%s)", quoteIdentifier(schema), quoteIdentifier(table)))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var columns []types.SchemaColumn
	for rows.Next() {
		var cid, notNull, pk int
		var column types.SchemaColumn
		var defaultValue sql.NullString
		if err := rows.Scan(&cid, &column.Name, &column.Type, &notNull, &defaultValue, &pk); err != nil {
			return nil, err
		}
		column.Nullable = notNull == 0
		columns = append(columns, column)
	}
	return columns, rows.Err()
}

// getForeignKeys groups PRAGMA foreign_key_list rows by id. SQLite numbers
// constraints from the last declared one, so ids are walked in reverse.
func (s *Adapter) getForeignKeys(ctx context.Context, schema, table string) ([]types.ForeignKey, error) {
	rows, err := s.db.QueryContext(ctx,
		fmt.Sprintf("PRAGMA %s.foreign_key_list(%s)", quoteIdentifier(schema), quoteIdentifier(table)))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	byID := make(map[int]*types.ForeignKey)
	for rows.Next() {
		var id, seq int
		var refTable, from string
		var to sql.NullString
		var onUpdate, onDelete, match string
		if err := rows.Scan(&id, &seq, &refTable, &from, &to, &onUpdate, &onDelete, &match); err != nil {
			return nil, err
		}

		fk, ok := byID[id]
		if !ok {
			fk = &types.ForeignKey{
				Name:     fmt.Sprintf("%s_fk_%d", table, id),
				RefTable: refTable,
			}
			byID[id] = fk
		}
		fk.Columns = append(fk.Columns, from)
		fk.RefColumns = append(fk.RefColumns, to.String)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	ids := make([]int, 0, len(byID))
	for id := range byID {
		ids = append(ids, id)
	}
	sort.Sort(sort.Reverse(sort.IntSlice(ids)))

	foreignKeys := make([]types.ForeignKey, 0, len(ids))
	for _, id := range ids {
		foreignKeys = append(foreignKeys, *byID[id])
	}
	return foreignKeys, nil
}
