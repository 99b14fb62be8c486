package database

import (
	"context"
	"testing"
	"time"

	"github.com/go-sql-driver/mysql"
)

func TestOptions_DSN(t *testing.T) {
	o := Options{Host: "db.internal", Port: "3307", User: "root", Password: "s3cret", Name: "healthdb"}

	cfg, err := mysql.ParseDSN(o.DSN())
	if err != nil {
		t.Fatalf("generated DSN does not parse: %v", err)
	}
	if cfg.User != "root" || cfg.Passwd != "s3cret" {
		t.Errorf("unexpected credentials %q/%q", cfg.User, cfg.Passwd)
	}
	if cfg.Net != "tcp" || cfg.Addr != "db.internal:3307" {
		t.Errorf("unexpected address %s(%s)", cfg.Net, cfg.Addr)
	}
	if cfg.DBName != "healthdb" {
		t.Errorf("expected schema healthdb, got %q", cfg.DBName)
	}
	if !cfg.ParseTime {
		t.Error("expected parseTime=true")
	}
	if cfg.Loc != time.Local {
		t.Errorf("expected loc=Local, got %v", cfg.Loc)
	}
}

func TestOptions_DSNWithoutPassword(t *testing.T) {
	o := Options{Host: "localhost", Port: "3306", User: "root", Name: "healthdb"}

	cfg, err := mysql.ParseDSN(o.DSN())
	if err != nil {
		t.Fatalf("generated DSN does not parse: %v", err)
	}
	if cfg.Passwd != "" {
		t.Errorf("expected empty password, got %q", cfg.Passwd)
	}
}

func TestOpen_DoesNotDial(t *testing.T) {
	db, err := Open(Options{Host: "127.0.0.1", Port: "1", User: "root", Name: "healthdb"})
	if err != nil {
		t.Fatalf("Open should not dial, got %v", err)
	}
	defer db.Close()

	if err := Ping(context.Background(), db, 500*time.Millisecond); err == nil {
		t.Error("expected ping against a closed port to fail")
	}
}
