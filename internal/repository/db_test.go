package repository

import (
	"testing"

	"github.com/go-sql-driver/mysql"
)

func TestWithFoundRows(t *testing.T) {
	dsn, err := withFoundRows("root:password@tcp(127.0.0.1:3306)/passgen?parseTime=true")
	if err != nil {
		t.Fatalf("withFoundRows() unexpected error: %v", err)
	}

	cfg, err := mysql.ParseDSN(dsn)
	if err != nil {
		t.Fatalf("ParseDSN(%q): %v", dsn, err)
	}
	if !cfg.ClientFoundRows {
		t.Errorf("dsn %q does not enable clientFoundRows", dsn)
	}
	if !cfg.ParseTime || cfg.DBName != "passgen" || cfg.Addr != "127.0.0.1:3306" {
		t.Errorf("dsn %q lost settings: %+v", dsn, cfg)
	}
}

func TestNewDBRejectsInvalidDSN(t *testing.T) {
	if _, err := NewDB("not a dsn"); err == nil {
		t.Error("NewDB() expected an error for an invalid dsn")
	}
}
