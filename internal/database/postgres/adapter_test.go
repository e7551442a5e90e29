package postgres

import (
	"context"
	"regexp"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockAdapter(t *testing.T) (*Adapter, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)
	return NewWithPool(mock, "tbl_"), mock
}

func TestQuoteTableName(t *testing.T) {
	assert.Equal(t, `"tbl_user"`, quoteTableName("tbl_user"))
	assert.Equal(t, `"archive"."tbl_log"`, quoteTableName("archive.tbl_log"))
}

func TestGetTableNamesCurrentSchema(t *testing.T) {
	a, mock := newMockAdapter(t)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT current_schema()")).
		WillReturnRows(pgxmock.NewRows([]string{"current_schema"}).AddRow("public"))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT table_name FROM information_schema.tables WHERE table_schema = $1 AND table_type = $2")).
		WithArgs("public", "BASE TABLE").
		WillReturnRows(pgxmock.NewRows([]string{"table_name"}).AddRow("tbl_post").AddRow("tbl_user"))

	tables, err := a.GetTableNames(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, []string{"tbl_post", "tbl_user"}, tables)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGetTableSchemaMissing(t *testing.T) {
	a, mock := newMockAdapter(t)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT EXISTS")).
		WithArgs("archive", "nope").
		WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(false))

	table, err := a.GetTableSchema(context.Background(), "archive.nope")
	require.NoError(t, err)
	assert.Nil(t, table)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGetTableSchemas(t *testing.T) {
	a, mock := newMockAdapter(t)
	names := []string{"tbl_order", "tbl_user"}

	mock.ExpectQuery(regexp.QuoteMeta("FROM information_schema.tables")).
		WithArgs("public", "BASE TABLE").
		WillReturnRows(pgxmock.NewRows([]string{"table_name"}).AddRow("tbl_order").AddRow("tbl_user"))
	mock.ExpectQuery(regexp.QuoteMeta("FROM information_schema.columns WHERE table_schema = $1 AND table_name = ANY($2)")).
		WithArgs("public", names).
		WillReturnRows(pgxmock.NewRows([]string{"table_name", "column_name", "udt_name", "is_nullable"}).
			AddRow("tbl_order", "id", "int4", "NO").
			AddRow("tbl_order", "user_id", "int4", "NO").
			AddRow("tbl_order", "shop_id", "int4", "YES").
			AddRow("tbl_order", "region", "text", "YES").
			AddRow("tbl_user", "id", "int4", "NO"))
	mock.ExpectQuery(regexp.QuoteMeta("FROM pg_constraint con")).
		WithArgs("public", names).
		WillReturnRows(pgxmock.NewRows([]string{
			"table_name", "constraint_name", "column_name",
			"foreign_schema", "foreign_table_name", "foreign_column_name",
		}).
			AddRow("tbl_order", "tbl_order_user_id_fkey", "user_id", "public", "tbl_user", "id").
			AddRow("tbl_order", "tbl_order_shop_fkey", "shop_id", "retail", "shop", "id").
			AddRow("tbl_order", "tbl_order_shop_fkey", "region", "retail", "shop", "region"))

	tables, err := a.GetTableSchemas(context.Background(), "public")
	require.NoError(t, err)
	require.Len(t, tables, 2)

	order := tables[0]
	assert.Equal(t, "public.tbl_order", order.FullName())
	require.Len(t, order.Columns, 4)
	assert.False(t, order.Columns[1].Nullable)
	assert.True(t, order.Columns[2].Nullable)

	require.Len(t, order.ForeignKeys, 2)
	assert.Equal(t, []string{"tbl_user", "retail.shop"}, order.ReferencedTables())
	assert.Equal(t, []string{"shop_id", "region"}, order.ForeignKeys[1].Columns)
	assert.Equal(t, []string{"id", "region"}, order.ForeignKeys[1].RefColumns)

	assert.Empty(t, tables[1].ForeignKeys)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGetTableSchemasEmpty(t *testing.T) {
	a, mock := newMockAdapter(t)

	mock.ExpectQuery(regexp.QuoteMeta("FROM information_schema.tables")).
		WithArgs("empty", "BASE TABLE").
		WillReturnRows(pgxmock.NewRows([]string{"table_name"}))

	tables, err := a.GetTableSchemas(context.Background(), "empty")
	require.NoError(t, err)
	assert.Empty(t, tables)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGetTableData(t *testing.T) {
	a, mock := newMockAdapter(t)
	id := uuid.MustParse("6ba7b810-9dad-11d1-80b4-00c04fd430c8")

	rows := pgxmock.NewRowsWithColumnDefinition(
		pgconn.FieldDescription{Name: "id", DataTypeOID: pgtype.UUIDOID},
		pgconn.FieldDescription{Name: "tags", DataTypeOID: pgtype.TextArrayOID},
		pgconn.FieldDescription{Name: "meta", DataTypeOID: pgtype.JSONBOID},
		pgconn.FieldDescription{Name: "avatar", DataTypeOID: pgtype.ByteaOID},
	).
		AddRow([16]byte(id), []interface{}{"a", "b c"}, []interface{}{"x", float64(1)}, []byte{0x00, 0xff})

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "tbl_user"`)).WillReturnRows(rows)

	data, err := a.GetTableData(context.Background(), "tbl_user")
	require.NoError(t, err)
	assert.Equal(t, []string{"id", "tags", "meta", "avatar"}, data.Columns)
	require.Len(t, data.Rows, 1)

	row := data.Rows[0]
	assert.Equal(t, id.String(), row["id"])
	assert.Equal(t, `{"a","b c"}`, row["tags"])
	assert.Equal(t, `["x",1]`, row["meta"])
	assert.Equal(t, []byte{0x00, 0xff}, row["avatar"])
	require.NoError(t, mock.ExpectationsWereMet())
}
