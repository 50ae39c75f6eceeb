package postgres

import (
	"testing"
	"time"

	"github.com/ogurasousui/codex-records-api/internal/platform/config"
)

func TestBuildPoolConfig(t *testing.T) {
	t.Parallel()

	dbCfg := config.DatabaseConfig{
		Host:             "localhost",
		Port:             15432,
		User:             "user",
		Password:         "pass",
		Name:             "records",
		SSLMode:          "disable",
		MaxOpenConns:     20,
		MaxIdleConns:     5,
		ConnMaxLifetime:  30 * time.Minute,
		ConnMaxIdleTime:  10 * time.Minute,
		StatementTimeout: 5 * time.Second,
	}

	poolCfg, err := BuildPoolConfig(dbCfg)
	if err != nil {
		t.Fatalf("BuildPoolConfig returned error: %v", err)
	}

	if poolCfg.MaxConns != 20 {
		t.Errorf("expected MaxConns 20, got %d", poolCfg.MaxConns)
	}

	if poolCfg.MinConns != 5 {
		t.Errorf("expected MinConns 5, got %d", poolCfg.MinConns)
	}

	if poolCfg.MaxConnLifetime != 30*time.Minute {
		t.Errorf("unexpected MaxConnLifetime: %v", poolCfg.MaxConnLifetime)
	}

	if poolCfg.MaxConnIdleTime != 10*time.Minute {
		t.Errorf("unexpected MaxConnIdleTime: %v", poolCfg.MaxConnIdleTime)
	}

	if poolCfg.ConnConfig.Database != "records" {
		t.Errorf("expected database records, got %s", poolCfg.ConnConfig.Database)
	}

	if got := poolCfg.ConnConfig.RuntimeParams["statement_timeout"]; got != "5000" {
		t.Errorf("expected statement_timeout 5000, got %q", got)
	}
}

func TestBuildPoolConfig_EscapedCredentials(t *testing.T) {
	t.Parallel()

	poolCfg, err := BuildPoolConfig(config.DatabaseConfig{
		Host:     "db.local",
		Port:     5432,
		User:     "user@domain",
		Password: "p@ss:word",
		Name:     "records",
		SSLMode:  "disable",
	})
	if err != nil {
		t.Fatalf("BuildPoolConfig returned error: %v", err)
	}

	if poolCfg.ConnConfig.User != "user@domain" || poolCfg.ConnConfig.Password != "p@ss:word" {
		t.Fatalf("credentials were not round-tripped: %s / %s", poolCfg.ConnConfig.User, poolCfg.ConnConfig.Password)
	}
}

func TestBuildPoolConfig_ApplicationName(t *testing.T) {
	t.Parallel()

	poolCfg, err := BuildPoolConfig(config.DatabaseConfig{
		Host:    "localhost",
		Port:    5432,
		User:    "user",
		Name:    "records",
		SSLMode: "disable",
	})
	if err != nil {
		t.Fatalf("BuildPoolConfig returned error: %v", err)
	}

	if got := poolCfg.ConnConfig.RuntimeParams["application_name"]; got != ApplicationName {
		t.Errorf("expected application_name %q, got %q", ApplicationName, got)
	}

	if _, ok := poolCfg.ConnConfig.RuntimeParams["statement_timeout"]; ok {
		t.Errorf("statement_timeout should be unset when not configured")
	}
}
