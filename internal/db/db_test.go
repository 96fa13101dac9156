package db

import (
	"path/filepath"
	"testing"
)

func TestOpenMemory(t *testing.T) {
	d, err := OpenMemory()
	if err != nil {
		t.Fatalf("OpenMemory: %v", err)
	}
	defer d.Close()

	var count int
	err = d.QueryRow(`SELECT count(*) FROM sqlite_master WHERE type='table' AND name='run_log'`).Scan(&count)
	if err != nil {
		t.Fatalf("querying schema: %v", err)
	}
	if count != 1 {
		t.Errorf("run_log table missing")
	}
}

func TestOpenCreatesDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "orglens.db")
	d, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer d.Close()

	if _, err := d.Exec(`INSERT INTO run_log (id, action) VALUES ('x', 'resolve')`); err != nil {
		t.Errorf("insert: %v", err)
	}
}
