package database

import (
	"github.com/Rana718/db2fixture/internal/database/mysql"
	"github.com/Rana718/db2fixture/internal/database/postgres"
	"github.com/Rana718/db2fixture/internal/database/sqlite"
)

func NewAdapter(provider, tablePrefix string) DatabaseAdapter {
	switch provider {
	case "postgresql", "postgres":
		return postgres.New(tablePrefix)
	case "mysql":
		return mysql.New(tablePrefix)
	case "sqlite", "sqlite3":
		return sqlite.New(tablePrefix)
	default:
		return postgres.New(tablePrefix)
	}
}
