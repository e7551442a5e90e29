package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/Masterminds/squirrel"
	_ "github.com/mattn/go-sqlite3"
)

const defaultSchema = "main"

type Adapter struct {
	db          *sql.DB
	qb          squirrel.StatementBuilderType
	tablePrefix string
}

func New(tablePrefix string) *Adapter {
	return &Adapter{
		qb:          squirrel.StatementBuilder.PlaceholderFormat(squirrel.Question),
		tablePrefix: tablePrefix,
	}
}

// Connect opens the database file read-only. The file must already exist and
// its journal mode is left alone.
func (s *Adapter) Connect(ctx context.Context, url string) error {
	db, err := sql.Open("sqlite3", readOnlyDSN(url))
	if err != nil {
		return fmt.Errorf("failed to open SQLite connection: %w", err)
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(0)
	db.SetConnMaxIdleTime(5 * time.Minute)

	s.db = db
	return nil
}

// readOnlyDSN turns sqlite://path?params into a file: URI opened with
// mode=ro. An explicit mode parameter is replaced.
func readOnlyDSN(url string) string {
	dsn := strings.TrimPrefix(url, "sqlite://")
	if !strings.HasPrefix(dsn, "file:") {
		dsn = "file:" + dsn
	}

	path, query, _ := strings.Cut(dsn, "?")
	params := []string{"mode=ro"}
	for _, param := range strings.Split(query, "&") {
		if param == "" || strings.HasPrefix(param, "mode=") {
			continue
		}
		params = append(params, param)
	}
	return path + "?" + strings.Join(params, "&")
}

func (s *Adapter) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

func (s *Adapter) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *Adapter) TablePrefix() string {
	return s.tablePrefix
}
