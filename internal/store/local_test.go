package store_test

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/DCParty/senior-scheduler/internal/kv"
	"github.com/DCParty/senior-scheduler/internal/model"
	"github.com/DCParty/senior-scheduler/internal/store"
)

func openKV(t *testing.T) *kv.DB {
	t.Helper()
	db, err := kv.Open(filepath.Join(t.TempDir(), "slots.db"))
	if err != nil {
		t.Fatalf("open kv: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func draft(title string) model.Draft {
	return model.Draft{Title: title, Date: "2030-06-10", Time: "09:00", Type: model.TypeMedical}
}

func TestLocalCreateAndList(t *testing.T) {
	s, err := store.NewLocal(openKV(t))
	if err != nil {
		t.Fatalf("new local: %v", err)
	}
	ctx := context.Background()

	a, err := s.Create(ctx, draft("心臟科回診"))
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if a.ID == "" {
		t.Fatal("empty id")
	}
	if a.Type != model.TypeMedical {
		t.Errorf("type: got %s", a.Type)
	}

	list, err := s.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 1 || list[0].Title != "心臟科回診" {
		t.Fatalf("unexpected list: %+v", list)
	}
}

func TestLocalCreateValidation(t *testing.T) {
	s, _ := store.NewLocal(openKV(t))
	ctx := context.Background()

	tests := []struct {
		name  string
		d     model.Draft
		field string
	}{
		{"empty title", model.Draft{Date: "2030-06-10", Time: "09:00"}, "title"},
		{"empty date", model.Draft{Title: "X", Time: "09:00"}, "date"},
		{"empty time", model.Draft{Title: "X", Date: "2030-06-10"}, "time"},
		{"bad date", model.Draft{Title: "X", Date: "10/06/2030", Time: "09:00"}, "date"},
		{"bad time", model.Draft{Title: "X", Date: "2030-06-10", Time: "9am"}, "time"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.Create(ctx, tt.d)
			var ve *store.ValidationError
			if !errors.As(err, &ve) {
				t.Fatalf("expected ValidationError, got %v", err)
			}
			if ve.Field != tt.field {
				t.Errorf("field: expected %s, got %s", tt.field, ve.Field)
			}
		})
	}

	// nothing persisted
	list, _ := s.List(ctx)
	if len(list) != 0 {
		t.Errorf("rejected drafts leaked into the collection: %d", len(list))
	}
}

func TestLocalCreateNormalizesUnknownType(t *testing.T) {
	s, _ := store.NewLocal(openKV(t))

	a, err := s.Create(context.Background(), model.Draft{
		Title: "X", Date: "2030-06-10", Time: "09:00", Type: "karaoke",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if a.Type != model.TypeOther {
		t.Errorf("expected other, got %s", a.Type)
	}
}

func TestLocalDelete(t *testing.T) {
	s, _ := store.NewLocal(openKV(t))
	ctx := context.Background()

	a, _ := s.Create(ctx, draft("回診"))
	b, _ := s.Create(ctx, draft("散步"))

	if err := s.Delete(ctx, a.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	list, _ := s.List(ctx)
	if len(list) != 1 || list[0].ID != b.ID {
		t.Fatalf("unexpected list after delete: %+v", list)
	}

	if err := s.Delete(ctx, a.ID); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("second delete: expected ErrNotFound, got %v", err)
	}
}

func TestLocalRehydrates(t *testing.T) {
	db := openKV(t)
	ctx := context.Background()

	s1, _ := store.NewLocal(db)
	a, _ := s1.Create(ctx, draft("回診"))

	// a new store over the same slot sees the same collection
	s2, err := store.NewLocal(db)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	list, _ := s2.List(ctx)
	if len(list) != 1 || list[0].ID != a.ID {
		t.Fatalf("rehydrated list: %+v", list)
	}
}

func TestLocalCorruptSlotStartsEmpty(t *testing.T) {
	db := openKV(t)
	if err := db.Put("senior_appointments_v9", "not json at all"); err != nil {
		t.Fatalf("put: %v", err)
	}

	s, err := store.NewLocal(db)
	if err != nil {
		t.Fatalf("new local: %v", err)
	}
	list, _ := s.List(context.Background())
	if len(list) != 0 {
		t.Fatalf("corrupt slot should rehydrate empty, got %d", len(list))
	}

	// and the store still works afterwards
	if _, err := s.Create(context.Background(), draft("回診")); err != nil {
		t.Fatalf("create after corrupt slot: %v", err)
	}
}

func TestLocalReplace(t *testing.T) {
	s, _ := store.NewLocal(openKV(t))
	ctx := context.Background()

	s.Create(ctx, draft("舊的"))

	err := s.Replace(ctx, []model.Appointment{
		{Title: "新的", Date: "2030-07-01", Time: "10:00", Type: "karaoke"},
	})
	if err != nil {
		t.Fatalf("replace: %v", err)
	}
	list, _ := s.List(ctx)
	if len(list) != 1 {
		t.Fatalf("expected 1 after replace, got %d", len(list))
	}
	if list[0].Title != "新的" {
		t.Errorf("old collection survived replace: %+v", list[0])
	}
	if list[0].ID == "" {
		t.Error("replace did not assign a missing id")
	}
	if list[0].Type != model.TypeOther {
		t.Errorf("replace did not normalize type: %s", list[0].Type)
	}
}

func TestLocalSubscribe(t *testing.T) {
	s, _ := store.NewLocal(openKV(t))
	ctx := context.Background()

	var snaps [][]model.Appointment
	unsubscribe, err := s.Subscribe(ctx, func(list []model.Appointment) {
		snaps = append(snaps, list)
	})
	if err != nil {
		t.Fatalf("subscribe: %v", err)
	}
	if len(snaps) != 1 || len(snaps[0]) != 0 {
		t.Fatalf("expected one empty initial snapshot, got %+v", snaps)
	}

	a, _ := s.Create(ctx, draft("回診"))
	if len(snaps) != 2 || len(snaps[1]) != 1 {
		t.Fatalf("expected snapshot after create, got %+v", snaps)
	}

	s.Delete(ctx, a.ID)
	if len(snaps) != 3 || len(snaps[2]) != 0 {
		t.Fatalf("expected snapshot after delete, got %+v", snaps)
	}

	unsubscribe()
	s.Create(ctx, draft("散步"))
	if len(snaps) != 3 {
		t.Error("snapshot delivered after unsubscribe")
	}
}

func TestLocalSubscriberMayReadBack(t *testing.T) {
	s, _ := store.NewLocal(openKV(t))
	ctx := context.Background()

	// a subscriber that re-reads the store must not deadlock when the
	// push comes from a mutation
	var seen int
	_, err := s.Subscribe(ctx, func([]model.Appointment) {
		list, lerr := s.List(ctx)
		if lerr != nil {
			t.Errorf("list inside callback: %v", lerr)
		}
		seen = len(list)
	})
	if err != nil {
		t.Fatalf("subscribe: %v", err)
	}

	a, err := s.Create(ctx, draft("回診"))
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if seen != 1 {
		t.Errorf("callback read %d records after create", seen)
	}

	if err := s.Delete(ctx, a.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if seen != 0 {
		t.Errorf("callback read %d records after delete", seen)
	}
}

func TestLocalListIsACopy(t *testing.T) {
	s, _ := store.NewLocal(openKV(t))
	ctx := context.Background()

	s.Create(ctx, draft("回診"))
	list, _ := s.List(ctx)
	list[0].Title = "mutated"

	again, _ := s.List(ctx)
	if again[0].Title != "回診" {
		t.Error("caller mutation leaked into the store")
	}
}
