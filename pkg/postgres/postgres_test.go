package postgres

import (
	"net/url"
	"strings"
	"testing"

	"github.com/DRSN-tech/aircon-backend/internal/cfg"
)

func TestDSNEscapesCredentials(t *testing.T) {
	dsn := DSN(&cfg.PGDBCfg{
		Host:     "db.local",
		Port:     "5433",
		User:     "shop",
		Password: "p@ss:w/rd",
		DBName:   "aircon",
		SSLMode:  "disable",
	})

	u, err := url.Parse(dsn)
	if err != nil {
		t.Fatalf("parse %q: %v", dsn, err)
	}
	if pw, _ := u.User.Password(); pw != "p@ss:w/rd" {
		t.Errorf("password = %q", pw)
	}
	if u.Host != "db.local:5433" || u.Path != "/aircon" {
		t.Errorf("host/path = %q %q", u.Host, u.Path)
	}
	if got := u.Query().Get("sslmode"); got != "disable" {
		t.Errorf("sslmode = %q", got)
	}
}

func TestMigrationsSource(t *testing.T) {
	src, err := MigrationsSource("db/migrations")
	if err != nil {
		t.Fatalf("MigrationsSource: %v", err)
	}
	if !strings.HasPrefix(src, "file://") || !strings.HasSuffix(src, "/db/migrations") {
		t.Fatalf("source = %q", src)
	}
}
