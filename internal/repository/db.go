package repository

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-sql-driver/mysql"
)

// NewDB opens a MySQL connection pool. An invalid DSN is returned as an error;
// an unreachable server is only logged so the stateless endpoints can still be
// served.
//
// clientFoundRows is always enabled so RowsAffected counts matched rows rather
// than changed rows, which the vault's zero-row checks rely on.
func NewDB(dsn string) (*sql.DB, error) {
	dsn, err := withFoundRows(dsn)
	if err != nil {
		return nil, err
	}

	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, err
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		slog.Warn("database ping failed, account and vault requests will fail until it is reachable", "error", err)
	}

	return db, nil
}

func withFoundRows(dsn string) (string, error) {
	cfg, err := mysql.ParseDSN(dsn)
	if err != nil {
		return "", fmt.Errorf("parsing database dsn: %w", err)
	}
	cfg.ClientFoundRows = true
	return cfg.FormatDSN(), nil
}
