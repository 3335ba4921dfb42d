package main

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/DCParty/senior-scheduler/internal/model"
)

func listDay(s string) time.Time {
	d, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return d
}

func TestRenderListCountsIgnoreWeekFilter(t *testing.T) {
	now := listDay("2030-06-10")
	list := []model.Appointment{
		{ID: "1", Title: "回診", Date: "2030-06-10", Time: "09:00", Type: model.TypeMedical},
		{ID: "2", Title: "遠的", Date: "2030-07-20", Time: "09:00", Type: model.TypeOther},
	}

	var buf bytes.Buffer
	renderList(&buf, list, now, false)
	out := buf.String()

	if !strings.Contains(out, "回診") {
		t.Errorf("today record missing from week view: %s", out)
	}
	if strings.Contains(out, "遠的") {
		t.Errorf("far-future record leaked into week view: %s", out)
	}
	if !strings.Contains(out, "今天 1 個行程，明天 0 個") {
		t.Errorf("wrong count line: %s", out)
	}
}

func TestRenderListEmptyWeekStillCounts(t *testing.T) {
	now := listDay("2030-06-10")
	// only a record outside the week window
	list := []model.Appointment{
		{ID: "1", Title: "遠的", Date: "2030-07-20", Time: "09:00", Type: model.TypeOther},
	}

	var buf bytes.Buffer
	renderList(&buf, list, now, false)
	out := buf.String()

	if !strings.Contains(out, "這週沒有行程") {
		t.Errorf("missing empty-week message: %s", out)
	}
	if !strings.Contains(out, "今天 0 個行程，明天 0 個") {
		t.Errorf("count line missing on empty week: %s", out)
	}
}

func TestRenderListAll(t *testing.T) {
	now := listDay("2030-06-10")
	list := []model.Appointment{
		{ID: "2", Title: "遠的", Date: "2030-07-20", Time: "09:00", Type: model.TypeOther},
		{ID: "1", Title: "回診", Date: "2030-06-10", Time: "09:00", Type: model.TypeMedical},
	}

	var buf bytes.Buffer
	renderList(&buf, list, now, true)
	out := buf.String()

	first := strings.Index(out, "回診")
	second := strings.Index(out, "遠的")
	if first < 0 || second < 0 {
		t.Fatalf("records missing from full view: %s", out)
	}
	if first > second {
		t.Errorf("full view not sorted by date: %s", out)
	}
}
