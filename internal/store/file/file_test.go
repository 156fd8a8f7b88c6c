package file

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestBackend_RoundTrip(t *testing.T) {
	ctx := context.Background()
	dir := filepath.Join(t.TempDir(), "data")
	b, err := New(dir)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	if _, ok, err := b.Load(ctx, "accounts"); ok || err != nil {
		t.Fatalf("Load() on empty dir = %v, %v", ok, err)
	}

	if err := b.Save(ctx, "accounts", []byte(`[]`)); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	got, ok, err := b.Load(ctx, "accounts")
	if err != nil || !ok || string(got) != "[]" {
		t.Fatalf("Load() = %q, %v, %v", got, ok, err)
	}
	if _, err := os.Stat(filepath.Join(dir, "accounts.json")); err != nil {
		t.Errorf("expected accounts.json: %v", err)
	}

	if err := b.Remove(ctx, "accounts"); err != nil {
		t.Fatalf("Remove() error = %v", err)
	}
	if err := b.Remove(ctx, "accounts"); err != nil {
		t.Errorf("second Remove() error = %v", err)
	}
	if _, ok, _ := b.Load(ctx, "accounts"); ok {
		t.Error("key still present after Remove")
	}
}

func TestBackend_RejectsPathKeys(t *testing.T) {
	b, _ := New(t.TempDir())
	for _, key := range []string{"", "../x", "a/b", ".hidden"} {
		if err := b.Save(context.Background(), key, []byte("{}")); err == nil {
			t.Errorf("Save(%q) expected error", key)
		}
	}
}

func TestBackend_SaveBatch(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	b, err := New(dir)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if err := b.Save(ctx, "reminders", []byte(`[1]`)); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	err = b.SaveBatch(ctx, map[string][]byte{
		"accounts":     []byte(`[{"id":"a"}]`),
		"transactions": []byte(`[{"id":"t"}]`),
		"reminders":    nil,
	})
	if err != nil {
		t.Fatalf("SaveBatch() error = %v", err)
	}
	for key, want := range map[string]string{"accounts": `[{"id":"a"}]`, "transactions": `[{"id":"t"}]`} {
		got, ok, err := b.Load(ctx, key)
		if err != nil || !ok || string(got) != want {
			t.Errorf("Load(%q) = %q, %v, %v", key, got, ok, err)
		}
	}
	if _, ok, _ := b.Load(ctx, "reminders"); ok {
		t.Error("reminders still present after nil value in batch")
	}
}

func TestBackend_SaveBatchFailureLeavesDocuments(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	b, err := New(dir)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if err := b.Save(ctx, "accounts", []byte(`[{"balance":"100"}]`)); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	err = b.SaveBatch(ctx, map[string][]byte{
		"accounts": []byte(`[{"balance":"60"}]`),
		"bad/key":  []byte(`[]`),
	})
	if err == nil {
		t.Fatal("SaveBatch() expected error")
	}
	got, _, _ := b.Load(ctx, "accounts")
	if string(got) != `[{"balance":"100"}]` {
		t.Errorf("accounts = %s, want the value from before the failed batch", got)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("ReadDir() error = %v", err)
	}
	for _, e := range entries {
		if strings.HasPrefix(e.Name(), ".") {
			t.Errorf("temporary file %s left behind", e.Name())
		}
	}
}
