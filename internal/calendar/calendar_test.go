package calendar

import (
	"strings"
	"testing"

	"github.com/DCParty/senior-scheduler/internal/model"
)

func TestGoogleLink(t *testing.T) {
	a := model.Appointment{
		ID:    "1",
		Title: "台大回診",
		Date:  "2024-06-10",
		Time:  "09:00",
		Type:  model.TypeMedical,
	}
	got := GoogleLink(a)

	if !strings.HasPrefix(got, "https://calendar.google.com/calendar/render?action=TEMPLATE") {
		t.Fatalf("wrong base: %s", got)
	}
	if !strings.Contains(got, "&dates=20240610T090000/20240610T100000") {
		t.Errorf("wrong dates segment: %s", got)
	}
	if !strings.Contains(got, "&text="+"%E5%8F%B0%E5%A4%A7%E5%9B%9E%E8%A8%BA") {
		t.Errorf("title not url-encoded: %s", got)
	}
}

func TestGoogleLinkNoMidnightRollover(t *testing.T) {
	// 23:30 produces hour 24; the link keeps it that way on purpose
	a := model.Appointment{Title: "x", Date: "2024-06-10", Time: "23:30"}
	got := GoogleLink(a)
	if !strings.Contains(got, "/20240610T243000") {
		t.Errorf("expected uncorrected end hour 24, got: %s", got)
	}
}

func TestICS(t *testing.T) {
	a := model.Appointment{
		ID:    "abc",
		Title: "心臟科回診",
		Date:  "2024-06-10",
		Time:  "09:00",
	}
	got, err := ICS(a)
	if err != nil {
		t.Fatalf("ics: %v", err)
	}
	if !strings.Contains(got, "BEGIN:VEVENT") {
		t.Error("missing VEVENT")
	}
	if !strings.Contains(got, "心臟科回診") {
		t.Error("missing summary")
	}
	if !strings.Contains(got, "abc@senior-scheduler") {
		t.Error("missing uid")
	}
}

func TestICSRejectsBadInstant(t *testing.T) {
	if _, err := ICS(model.Appointment{Title: "x", Date: "junk", Time: "09:00"}); err == nil {
		t.Fatal("expected error for unparseable date")
	}
}
