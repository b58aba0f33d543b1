// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"

	"github.com/danielhkuo/carelink/cliparse"
)

// sqlitePragmas enables foreign keys on every connection and makes
// writers wait for the lock instead of failing with SQLITE_BUSY
const sqlitePragmas = "_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)&_txlock=immediate"

// Open connects to the configured storage engine, tunes the pool and
// verifies the connection. The caller owns the handle and must Close it.
func Open(ctx context.Context, cfg cliparse.Config) (*sql.DB, error) {
	driver, dsn, err := driverDSN(cfg)
	if err != nil {
		return nil, err
	}

	conn, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s database: %w", cfg.DatabaseType, err)
	}

	switch cfg.DatabaseType {
	case cliparse.DatabaseSQLite:
		// SQLite allows a single writer; one connection serializes
		// transactions instead of surfacing lock errors
		conn.SetMaxOpenConns(1)
	default:
		conn.SetMaxOpenConns(cfg.MaxOpenConns)
		conn.SetMaxIdleConns(cfg.MaxOpenConns)
		conn.SetConnMaxIdleTime(5 * time.Minute)
	}

	if err := conn.PingContext(ctx); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to ping %s database: %w", cfg.DatabaseType, err)
	}

	return conn, nil
}

func driverDSN(cfg cliparse.Config) (driver, dsn string, err error) {
	switch cfg.DatabaseType {
	case cliparse.DatabasePostgres:
		return "postgres", cfg.DatabaseURL, nil
	case cliparse.DatabaseSQLite:
		sep := "?"
		if strings.Contains(cfg.DatabaseURL, "?") {
			sep = "&"
		}
		return "sqlite", cfg.DatabaseURL + sep + sqlitePragmas, nil
	default:
		return "", "", fmt.Errorf("unsupported database type %q", cfg.DatabaseType)
	}
}
