package sqlite

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSchema = `
CREATE TABLE tbl_user (
	id INTEGER PRIMARY KEY,
	name TEXT NOT NULL,
	bio TEXT
);
CREATE TABLE tbl_post (
	id INTEGER PRIMARY KEY,
	author_id INTEGER NOT NULL REFERENCES tbl_user(id),
	editor_id INTEGER,
	title TEXT NOT NULL,
	FOREIGN KEY (editor_id) REFERENCES tbl_user(id)
);
INSERT INTO tbl_user (id, name, bio) VALUES (1, 'alice', NULL), (2, 'bob', 'writer');
INSERT INTO tbl_post (id, author_id, editor_id, title) VALUES (1, 1, 2, 'hello');
`

func createTestDB(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")

	db, err := sql.Open("sqlite3", path)
	require.NoError(t, err)
	defer db.Close()

	_, err = db.Exec(testSchema)
	require.NoError(t, err)
	return path
}

func newTestAdapter(t *testing.T) *Adapter {
	t.Helper()
	ctx := context.Background()

	a := New("tbl_")
	require.NoError(t, a.Connect(ctx, "sqlite://"+createTestDB(t)))
	t.Cleanup(func() { a.Close() })

	require.NoError(t, a.Ping(ctx))
	return a
}

func TestReadOnlyDSN(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"sqlite://./data.sqlite", "file:./data.sqlite?mode=ro"},
		{"sqlite:///tmp/app.db?_busy_timeout=500", "file:/tmp/app.db?mode=ro&_busy_timeout=500"},
		{"sqlite://app.db?mode=rwc&cache=shared", "file:app.db?mode=ro&cache=shared"},
		{"file:app.db", "file:app.db?mode=ro"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, readOnlyDSN(tt.in), tt.in)
	}
}

func TestConnectIsReadOnly(t *testing.T) {
	a := newTestAdapter(t)
	ctx := context.Background()

	_, err := a.db.ExecContext(ctx, "INSERT INTO tbl_user (id, name) VALUES (3, 'carol')")
	assert.Error(t, err)

	var mode string
	require.NoError(t, a.db.QueryRowContext(ctx, "PRAGMA journal_mode").Scan(&mode))
	assert.Equal(t, "delete", mode)
}

func TestConnectMissingFile(t *testing.T) {
	a := New("")
	require.NoError(t, a.Connect(context.Background(), "sqlite://"+filepath.Join(t.TempDir(), "missing.db")))
	defer a.Close()

	assert.Error(t, a.Ping(context.Background()))
}

func TestGetTableNames(t *testing.T) {
	a := newTestAdapter(t)

	tables, err := a.GetTableNames(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, []string{"tbl_post", "tbl_user"}, tables)

	_, err = a.GetTableNames(context.Background(), "bad-schema")
	assert.Error(t, err)
}

func TestGetTableSchema(t *testing.T) {
	a := newTestAdapter(t)
	ctx := context.Background()

	table, err := a.GetTableSchema(ctx, "tbl_post")
	require.NoError(t, err)
	require.NotNil(t, table)

	assert.Equal(t, "main", table.Schema)
	assert.Equal(t, "tbl_post", table.Name)
	require.Len(t, table.Columns, 4)
	assert.Equal(t, "author_id", table.Columns[1].Name)
	assert.False(t, table.Columns[1].Nullable)
	assert.True(t, table.Columns[2].Nullable)

	require.Len(t, table.ForeignKeys, 2)
	assert.Equal(t, []string{"author_id"}, table.ForeignKeys[0].Columns)
	assert.Equal(t, []string{"editor_id"}, table.ForeignKeys[1].Columns)
	assert.Equal(t, []string{"tbl_user", "tbl_user"}, table.ReferencedTables())

	qualified, err := a.GetTableSchema(ctx, "main.tbl_user")
	require.NoError(t, err)
	require.NotNil(t, qualified)
	assert.Empty(t, qualified.ForeignKeys)

	missing, err := a.GetTableSchema(ctx, "no_such_table")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestGetTableSchemas(t *testing.T) {
	a := newTestAdapter(t)

	tables, err := a.GetTableSchemas(context.Background(), "")
	require.NoError(t, err)
	require.Len(t, tables, 2)
	assert.Equal(t, "tbl_post", tables[0].Name)
	assert.Len(t, tables[0].ForeignKeys, 2)
	assert.Equal(t, "tbl_user", tables[1].Name)
}

func TestGetTableData(t *testing.T) {
	a := newTestAdapter(t)

	data, err := a.GetTableData(context.Background(), "tbl_user")
	require.NoError(t, err)
	assert.Equal(t, []string{"id", "name", "bio"}, data.Columns)
	require.Len(t, data.Rows, 2)

	byID := map[int64]map[string]interface{}{}
	for _, row := range data.Rows {
		byID[row["id"].(int64)] = row
	}
	assert.Equal(t, "alice", byID[1]["name"])
	assert.Nil(t, byID[1]["bio"])
	assert.Equal(t, "writer", byID[2]["bio"])
}

func TestTablePrefix(t *testing.T) {
	assert.Equal(t, "tbl_", New("tbl_").TablePrefix())
}
