package mysql

import (
	"context"
	"fmt"
	"strings"

	"github.com/Rana718/db2fixture/internal/database/common"
)

func quoteIdentifier(name string) string {
	return "`" + strings.ReplaceAll(name, "`", "``") + "`"
}

func quoteTableName(name string) string {
	schema, table := common.SplitTableName(name)
	if schema == "" {
		return quoteIdentifier(table)
	}
	return quoteIdentifier(schema) + "." + quoteIdentifier(table)
}

func (m *Adapter) GetTableData(ctx context.Context, tableName string) (*common.QueryResult, error) {
	query, args, err := m.qb.Select("*").From(quoteTableName(tableName)).ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := m.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query table %s: %w", tableName, err)
	}
	defer rows.Close()

	return common.ScanRows(rows)
}
