package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	st, err := Open(filepath.Join(t.TempDir(), "nested", "skymetrics.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() {
		_ = st.Close()
	})
	return st
}

func TestGetMissingKey(t *testing.T) {
	st := openTestStore(t)
	_, ok, err := st.Get(context.Background(), "missing")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if ok {
		t.Fatalf("expected missing key")
	}
}

func TestSetOverwritesValue(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()
	if err := st.Set(ctx, "skymetrics_theme", "light"); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := st.Set(ctx, "skymetrics_theme", "dark"); err != nil {
		t.Fatalf("set: %v", err)
	}
	value, ok, err := st.Get(ctx, "skymetrics_theme")
	if err != nil || !ok {
		t.Fatalf("get: ok=%v err=%v", ok, err)
	}
	if value != "dark" {
		t.Fatalf("expected dark, got %q", value)
	}
}

func TestKeysByPrefix(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()
	for _, key := range []string{"a_data_HKG_2025", "a_data_HKG_2024", "a_theme", "b_data_TPE_2025"} {
		if err := st.Set(ctx, key, "{}"); err != nil {
			t.Fatalf("set %s: %v", key, err)
		}
	}
	keys, err := st.Keys(ctx, "a_data_")
	if err != nil {
		t.Fatalf("keys: %v", err)
	}
	if len(keys) != 2 || keys[0] != "a_data_HKG_2024" || keys[1] != "a_data_HKG_2025" {
		t.Fatalf("unexpected keys: %v", keys)
	}
}

func TestDeleteAndUpdatedAt(t *testing.T) {
	st := openTestStore(t)
	fixed := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	st.now = func() time.Time { return fixed }
	ctx := context.Background()
	if err := st.Set(ctx, "k", "v"); err != nil {
		t.Fatalf("set: %v", err)
	}
	at, ok, err := st.UpdatedAt(ctx, "k")
	if err != nil || !ok {
		t.Fatalf("updated at: ok=%v err=%v", ok, err)
	}
	if !at.Equal(fixed) {
		t.Fatalf("expected %v, got %v", fixed, at)
	}
	if err := st.Delete(ctx, "k"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := st.Delete(ctx, "k"); err != nil {
		t.Fatalf("delete missing: %v", err)
	}
	if _, ok, _ := st.Get(ctx, "k"); ok {
		t.Fatalf("expected key to be deleted")
	}
}
