package backup_test

import (
	"bytes"
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/DCParty/senior-scheduler/internal/backup"
	"github.com/DCParty/senior-scheduler/internal/kv"
	"github.com/DCParty/senior-scheduler/internal/model"
	"github.com/DCParty/senior-scheduler/internal/store"
)

func newLocal(t *testing.T) *store.Local {
	t.Helper()
	db, err := kv.Open(filepath.Join(t.TempDir(), "slots.db"))
	if err != nil {
		t.Fatalf("open kv: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	s, err := store.NewLocal(db)
	if err != nil {
		t.Fatalf("new local: %v", err)
	}
	return s
}

func accept(string) bool  { return true }
func decline(string) bool { return false }

func TestExportImportRoundTrip(t *testing.T) {
	src := newLocal(t)
	dst := newLocal(t)
	ctx := context.Background()

	src.Create(ctx, model.Draft{Title: "心臟科回診", Date: "2030-06-10", Time: "09:00", Type: model.TypeMedical})
	src.Create(ctx, model.Draft{Title: "跟孫子視訊", Date: "2030-06-11", Time: "20:00", Type: model.TypeFamily})

	list, _ := src.List(ctx)
	blob, err := backup.Export(list)
	if err != nil {
		t.Fatalf("export: %v", err)
	}

	if err := backup.Restore(ctx, dst, blob, accept); err != nil {
		t.Fatalf("restore: %v", err)
	}
	got, _ := dst.List(ctx)
	if len(got) != 2 {
		t.Fatalf("expected 2 restored, got %d", len(got))
	}
	for i := range list {
		if got[i].ID != list[i].ID || got[i].Title != list[i].Title ||
			got[i].Date != list[i].Date || got[i].Time != list[i].Time ||
			got[i].Type != list[i].Type {
			t.Errorf("record %d changed in transit: %+v vs %+v", i, got[i], list[i])
		}
	}
}

func TestImportRejectsBadBlobs(t *testing.T) {
	for _, blob := range []string{"", "not json", `{}`, `{"title":"x"}`, `123`, `null`, `"[]"`, ` null `} {
		if _, err := backup.Import(blob); !errors.Is(err, store.ErrFormat) {
			t.Errorf("blob %q: expected ErrFormat, got %v", blob, err)
		}
	}
}

func TestImportNormalizesTypes(t *testing.T) {
	list, err := backup.Import(`[{"title":"x","date":"2030-06-10","time":"09:00","type":"karaoke"}]`)
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if list[0].Type != model.TypeOther {
		t.Errorf("expected other, got %s", list[0].Type)
	}
}

func TestRestoreDeclined(t *testing.T) {
	dst := newLocal(t)
	ctx := context.Background()
	dst.Create(ctx, model.Draft{Title: "原本的", Date: "2030-06-10", Time: "09:00"})

	err := backup.Restore(ctx, dst, `[]`, decline)
	if !errors.Is(err, backup.ErrDeclined) {
		t.Fatalf("expected ErrDeclined, got %v", err)
	}

	// declining must leave the collection untouched
	list, _ := dst.List(ctx)
	if len(list) != 1 || list[0].Title != "原本的" {
		t.Fatalf("collection changed after decline: %+v", list)
	}
}

func TestRestoreNullBlobKeepsCollection(t *testing.T) {
	dst := newLocal(t)
	ctx := context.Background()
	dst.Create(ctx, model.Draft{Title: "原本的", Date: "2030-06-10", Time: "09:00"})

	// null decodes into a nil slice, but it is not a sequence; even a
	// confirmed restore must fail without touching the collection
	err := backup.Restore(ctx, dst, `null`, accept)
	if !errors.Is(err, store.ErrFormat) {
		t.Fatalf("expected ErrFormat, got %v", err)
	}
	list, _ := dst.List(ctx)
	if len(list) != 1 {
		t.Fatalf("null blob changed the collection: %d records left", len(list))
	}
}

func TestRestoreBadBlobBeforePrompt(t *testing.T) {
	dst := newLocal(t)
	prompted := false
	err := backup.Restore(context.Background(), dst, "garbage", func(string) bool {
		prompted = true
		return true
	})
	if !errors.Is(err, store.ErrFormat) {
		t.Fatalf("expected ErrFormat, got %v", err)
	}
	if prompted {
		t.Error("bad blob should fail before the confirmation prompt")
	}
}

func TestCopyFallbackEscape(t *testing.T) {
	var buf bytes.Buffer
	if err := backup.Copy(&buf, "hello"); err != nil {
		t.Fatalf("copy: %v", err)
	}
	out := buf.String()
	if out == "" {
		// system clipboard took it; nothing to assert
		return
	}
	if !strings.HasPrefix(out, "\x1b]52;c;") || !strings.HasSuffix(out, "\x07") {
		t.Errorf("unexpected escape sequence: %q", out)
	}
}
