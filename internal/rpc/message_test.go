package rpc

import (
	"testing"
	"time"

	"google.golang.org/protobuf/types/known/timestamppb"
)

func TestAppointmentRoundTrip(t *testing.T) {
	in := &Appointment{
		Id:        "a1b2c3",
		Title:     "心臟科回診",
		Date:      "2030-06-10",
		Time:      "09:00",
		Type:      "medical",
		OwnerId:   "owner-1",
		CreatedAt: timestamppb.New(time.Unix(1700000000, 123456789)),
	}

	var out Appointment
	if err := out.unmarshalWire(in.marshalWire()); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if out.Id != in.Id || out.Title != in.Title || out.Date != in.Date ||
		out.Time != in.Time || out.Type != in.Type || out.OwnerId != in.OwnerId {
		t.Errorf("round trip mismatch: %+v vs %+v", out, in)
	}
	if out.CreatedAt == nil || !out.CreatedAt.AsTime().Equal(in.CreatedAt.AsTime()) {
		t.Errorf("created_at mismatch: %v vs %v", out.CreatedAt, in.CreatedAt)
	}
}

func TestEmptyFieldsOmitted(t *testing.T) {
	// zero-valued messages carry no bytes on the wire
	empty := &Appointment{}
	if b := empty.marshalWire(); len(b) != 0 {
		t.Errorf("empty appointment produced %d bytes", len(b))
	}

	var out Appointment
	if err := out.unmarshalWire(nil); err != nil {
		t.Fatalf("unmarshal empty: %v", err)
	}
}

func TestSnapshotRoundTrip(t *testing.T) {
	in := &Snapshot{Appointments: []*Appointment{
		{Id: "1", Title: "回診", Date: "2030-06-10", Time: "09:00", Type: "medical"},
		{Id: "2", Title: "散步", Date: "2030-06-10", Time: "16:30", Type: "activity"},
	}}

	var out Snapshot
	if err := out.unmarshalWire(in.marshalWire()); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(out.Appointments) != 2 {
		t.Fatalf("expected 2 appointments, got %d", len(out.Appointments))
	}
	if out.Appointments[1].Title != "散步" {
		t.Errorf("order not preserved: %+v", out.Appointments)
	}
}

func TestCodecRejectsForeignTypes(t *testing.T) {
	var c wireCodec
	if _, err := c.Marshal(struct{}{}); err == nil {
		t.Error("expected error for a non-wire type")
	}
	if err := c.Unmarshal(nil, struct{}{}); err == nil {
		t.Error("expected error for a non-wire type")
	}
}

func TestUnmarshalGarbage(t *testing.T) {
	var out SignInResponse
	if err := out.unmarshalWire([]byte{0xff, 0xff, 0xff}); err == nil {
		t.Error("expected error for truncated wire data")
	}
}
