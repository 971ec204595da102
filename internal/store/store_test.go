package store

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/matheus3301/parley/internal/kv"
)

var _ kv.Store = (*DB)(nil)

func testDB(t *testing.T) *DB {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	db, err := OpenMigrated(path, nil)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestMigrateFreshDatabase(t *testing.T) {
	db, err := Open(filepath.Join(t.TempDir(), "fresh.db"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = db.Close() })

	result, err := db.Migrate(nil)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(MigrateResult{From: 0, To: 1}, result); diff != "" {
		t.Errorf("result mismatch (-want +got):\n%s", diff)
	}
	if !result.Changed() {
		t.Error("first Migrate() should report a change")
	}
}

func TestMigrateIsIdempotent(t *testing.T) {
	db := testDB(t)

	// testDB already ran Migrate.
	result, err := db.Migrate(nil)
	if err != nil {
		t.Fatal(err)
	}
	if result.Changed() {
		t.Errorf("second Migrate() = %+v, want no change", result)
	}
	if result.To != 1 {
		t.Errorf("version = %d, want 1", result.To)
	}
}

func TestMigrateRefusesDirtySchema(t *testing.T) {
	db := testDB(t)

	if _, err := db.Exec(`UPDATE schema_migrations SET dirty = 1`); err != nil {
		t.Fatal(err)
	}
	if _, err := db.Migrate(nil); !errors.Is(err, ErrDirty) {
		t.Errorf("Migrate() error = %v, want ErrDirty", err)
	}
}

func TestGetMissing(t *testing.T) {
	db := testDB(t)

	v, ok, err := db.Get(kv.KeyToken)
	if err != nil {
		t.Fatal(err)
	}
	if ok || v != "" {
		t.Errorf("Get(missing) = %q, %v; want \"\", false", v, ok)
	}
}

func TestSetGetRemove(t *testing.T) {
	db := testDB(t)

	if err := db.Set(kv.KeyToken, "t1"); err != nil {
		t.Fatal(err)
	}
	if err := db.Set(kv.KeyToken, "t2"); err != nil {
		t.Fatal(err)
	}
	v, ok, err := db.Get(kv.KeyToken)
	if err != nil || !ok || v != "t2" {
		t.Fatalf("Get() = %q, %v, %v; want t2, true, nil", v, ok, err)
	}

	if err := db.Remove(kv.KeyToken); err != nil {
		t.Fatal(err)
	}
	if _, ok, _ := db.Get(kv.KeyToken); ok {
		t.Error("token present after Remove")
	}
	if err := db.Remove(kv.KeyToken); err != nil {
		t.Errorf("Remove(missing) error = %v", err)
	}
}

func TestValuesSurviveReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.db")

	db, err := OpenMigrated(path, nil)
	if err != nil {
		t.Fatal(err)
	}
	if err := db.Set(kv.KeyFontScale, "large"); err != nil {
		t.Fatal(err)
	}
	_ = db.Close()

	db2, err := OpenMigrated(path, nil)
	if err != nil {
		t.Fatal(err)
	}
	defer func() { _ = db2.Close() }()

	if v, _, _ := db2.Get(kv.KeyFontScale); v != "large" {
		t.Errorf("fontSize = %q, want large", v)
	}
}

func TestKeys(t *testing.T) {
	db := testDB(t)

	for _, k := range []string{kv.KeyToken, kv.KeyAccentColor, kv.KeyFontScale} {
		if err := db.Set(k, "x"); err != nil {
			t.Fatal(err)
		}
	}
	keys, err := db.Keys()
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"fontSize", "themeColor", "token"}
	if diff := cmp.Diff(want, keys); diff != "" {
		t.Errorf("Keys() mismatch (-want +got):\n%s", diff)
	}
}
