package postgres

import (
	"context"
	"fmt"

	"github.com/Rana718/db2fixture/internal/database/common"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/lib/pq"
)

func quoteTableName(name string) string {
	schema, table := common.SplitTableName(name)
	if schema == "" {
		return pq.QuoteIdentifier(table)
	}
	return pq.QuoteIdentifier(schema) + "." + pq.QuoteIdentifier(table)
}

// GetTableData runs one unfiltered SELECT * and returns every row. Rows come
// back in whatever order the server produces.
func (p *Adapter) GetTableData(ctx context.Context, tableName string) (*common.QueryResult, error) {
	query, args, err := p.qb.Select("*").From(quoteTableName(tableName)).ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := p.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query table %s: %w", tableName, err)
	}
	defer rows.Close()

	fieldDescriptions := rows.FieldDescriptions()
	columns := make([]string, len(fieldDescriptions))
	for i, fd := range fieldDescriptions {
		columns[i] = fd.Name
	}

	result := &common.QueryResult{
		Columns: columns,
		Rows:    make([]map[string]interface{}, 0),
	}
	for rows.Next() {
		values, err := rows.Values()
		if err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}

		row := make(map[string]interface{}, len(columns))
		for i, col := range columns {
			switch fieldDescriptions[i].DataTypeOID {
			case pgtype.JSONOID, pgtype.JSONBOID:
				row[col] = common.NormalizeJSON(values[i])
			default:
				row[col] = common.NormalizeValue(values[i])
			}
		}
		result.Rows = append(result.Rows, row)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}
	return result, nil
}
