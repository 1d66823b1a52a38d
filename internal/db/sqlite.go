package db

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

const sqliteScheme = "sqlite://"

func IsSQLite(dsn string) bool {
	return strings.HasPrefix(dsn, sqliteScheme) || dsn == ":memory:"
}

// OpenSQLite opens a single-connection sqlite database; ":memory:" databases
// live only as long as that connection.
func OpenSQLite(dsn string) (*gorm.DB, error) {
	path := strings.TrimPrefix(dsn, sqliteScheme)
	if path == "" {
		return nil, fmt.Errorf("sqlite path is empty")
	}

	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		TranslateError: true,
		NowFunc:        func() time.Time { return time.Now().UTC() },
	})
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("get sql.DB: %w", err)
	}
	sqlDB.SetMaxOpenConns(1)

	if err := db.Exec("PRAGMA foreign_keys = ON").Error; err != nil {
		return nil, fmt.Errorf("enable foreign keys: %w", err)
	}

	return db, nil
}

func OpenAny(ctx context.Context, dsn string) (*gorm.DB, error) {
	if IsSQLite(dsn) {
		return OpenSQLite(dsn)
	}
	return Open(ctx, dsn)
}
