package db

import (
	"fmt"
	"path/filepath"
	"testing"

	"github.com/facio/facio/internal/models"
	"github.com/goccy/go-json"
)

func TestNormalizeDSN(t *testing.T) {
	tests := []struct{ in, want string }{
		{"", ""},
		{`  "postgres://u:p@h/db"  `, "postgres://u:p@h/db"},
		{"host=h   user=u dbname=d", "host=h user=u dbname=d sslmode=disable"},
		{"host=h user=u dbname=d sslmode=require", "host=h user=u dbname=d sslmode=require"},
		{"garbage", "garbage"},
	}
	for _, tt := range tests {
		if got := NormalizeDSN(tt.in); got != tt.want {
			t.Errorf("NormalizeDSN(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestToURLDSN(t *testing.T) {
	got := ToURLDSN("host=db port=5432 user=facio password=s3cret dbname=facio sslmode=disable")
	if got != "postgres://facio:s3cret@db:5432/facio?sslmode=disable" {
		t.Fatalf("got %s", got)
	}
	if ToURLDSN("host=db") != "host=db" {
		t.Fatal("incomplete dsn should pass through")
	}
}

func TestMaskDSN(t *testing.T) {
	if got := MaskDSN("host=h password=s3cret dbname=d"); got != "host=h password=*** dbname=d" {
		t.Fatalf("kv mask %s", got)
	}
	if got := MaskDSN("postgres://u:s3cret@h:5432/d"); got != "postgres://u:***@h:5432/d" {
		t.Fatalf("url mask %s", got)
	}
	if got := MaskDSN("postgres://u:p%40ss@h/d?sslmode=disable"); got != "postgres://u:***@h/d?sslmode=disable" {
		t.Fatalf("encoded password mask %s", got)
	}
	if got := MaskDSN("postgres://u@h/d"); got != "postgres://u@h/d" {
		t.Fatalf("no password %s", got)
	}
}

func TestOpenSQLiteMigratesAndSeeds(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "facio.db")
	conn, err := Open(Options{Driver: "sqlite", DSN: path})
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if !conn.Migrator().HasTable("kv_entries") {
		t.Fatal("kv_entries missing")
	}

	if err := Seed(conn); err != nil {
		t.Fatalf("seed: %v", err)
	}
	custom, _ := json.Marshal(models.BusinessConfig{BusinessName: "Mine"})
	if err := conn.Model(&models.KVEntry{}).Where("kv_key = ?", "businessConfig").Update("value", custom).Error; err != nil {
		t.Fatal(err)
	}
	if err := Seed(conn); err != nil {
		t.Fatalf("second seed: %v", err)
	}

	var entries []models.KVEntry
	conn.Find(&entries)
	if len(entries) != 1 {
		t.Fatalf("expected one entry, got %d", len(entries))
	}
	var biz models.BusinessConfig
	if err := json.Unmarshal(entries[0].Value, &biz); err != nil || biz.BusinessName != "Mine" {
		t.Fatalf("seed overwrote settings: %+v %v", biz, err)
	}
}

func TestOpenRejectsUnknownDriver(t *testing.T) {
	if _, err := Open(Options{Driver: "oracle", DSN: "x"}); err == nil {
		t.Fatal("expected error")
	}
	if _, err := Open(Options{Driver: "postgres"}); err == nil {
		t.Fatal("expected error for empty dsn")
	}
}

func TestMigrateInMemory(t *testing.T) {
	conn, err := Open(Options{Driver: "sqlite", DSN: fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())})
	if err != nil {
		t.Fatal(err)
	}
	if err := Migrate(conn); err != nil {
		t.Fatalf("migrate twice: %v", err)
	}
}
