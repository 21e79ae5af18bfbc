package migration

import (
	"testing"

	"github.com/golang-migrate/migrate/v4/database"
)

func TestPreviousVersionIn(t *testing.T) {
	names := []string{
		"0003_add_index.up.sql",
		"0001_create_medias.up.sql",
		"0001_create_medias.down.sql",
		"0002_add_created_by.up.sql",
		"README.md",
	}

	tests := []struct {
		dirty   int
		want    int
		wantErr bool
	}{
		{dirty: 3, want: 2},
		{dirty: 2, want: 1},
		{dirty: 1, want: database.NilVersion},
		{dirty: 7, wantErr: true},
	}
	for _, tc := range tests {
		got, err := previousVersionIn(names, tc.dirty)
		if tc.wantErr {
			if err == nil {
				t.Errorf("dirty %d: expected error", tc.dirty)
			}
			continue
		}
		if err != nil {
			t.Fatalf("dirty %d: unexpected error: %v", tc.dirty, err)
		}
		if got != tc.want {
			t.Errorf("dirty %d: previous = %d; want %d", tc.dirty, got, tc.want)
		}
	}
}

func TestEmbeddedMigrations(t *testing.T) {
	entries, err := migrationsFS.ReadDir("migrations")
	if err != nil {
		t.Fatalf("read embedded migrations: %v", err)
	}
	names := entryNames(entries)
	if len(names) == 0 || len(names)%2 != 0 {
		t.Fatalf("expected up/down pairs, got %v", names)
	}
	if prev, err := previousVersionIn(names, 1); err != nil || prev != database.NilVersion {
		t.Errorf("first migration should roll back to nil version, got (%d, %v)", prev, err)
	}
}
