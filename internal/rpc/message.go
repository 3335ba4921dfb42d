package rpc

import (
	"google.golang.org/protobuf/encoding/protowire"
	"google.golang.org/protobuf/types/known/timestamppb"
)

// Appointment is the wire form of one reminder record.
//
// Field numbers: 1 id, 2 title, 3 date, 4 time, 5 type, 6 owner_id,
// 7 created_at.
type Appointment struct {
	Id        string
	Title     string
	Date      string
	Time      string
	Type      string
	OwnerId   string
	CreatedAt *timestamppb.Timestamp
}

type RegisterRequest struct {
	Email    string // 1
	Password string // 2
	Name     string // 3
}

type RegisterResponse struct {
	UserId string // 1
	Token  string // 2
}

type SignInRequest struct {
	Email    string // 1
	Password string // 2
}

type SignInResponse struct {
	Token       string // 1
	UserId      string // 2
	DisplayName string // 3
	Email       string // 4
	AvatarRef   string // 5
}

type CreateAppointmentRequest struct {
	Title string // 1
	Date  string // 2
	Time  string // 3
	Type  string // 4
}

type CreateAppointmentResponse struct {
	Appointment *Appointment // 1
}

type ListAppointmentsRequest struct{}

type ListAppointmentsResponse struct {
	Appointments []*Appointment // 1, repeated
}

type DeleteAppointmentRequest struct {
	Id string // 1
}

type DeleteAppointmentResponse struct{}

type SubscribeRequest struct{}

// Snapshot carries the full owner-scoped collection on every push.
type Snapshot struct {
	Appointments []*Appointment // 1, repeated
}

// --- low-level helpers ---

func appendStringField(out []byte, num protowire.Number, s string) []byte {
	if s == "" {
		return out
	}
	out = protowire.AppendTag(out, num, protowire.BytesType)
	return protowire.AppendString(out, s)
}

func appendTimestamp(out []byte, num protowire.Number, ts *timestamppb.Timestamp) []byte {
	if ts == nil {
		return out
	}
	var inner []byte
	if ts.Seconds != 0 {
		inner = protowire.AppendTag(inner, 1, protowire.VarintType)
		inner = protowire.AppendVarint(inner, uint64(ts.Seconds))
	}
	if ts.Nanos != 0 {
		inner = protowire.AppendTag(inner, 2, protowire.VarintType)
		inner = protowire.AppendVarint(inner, uint64(ts.Nanos))
	}
	out = protowire.AppendTag(out, num, protowire.BytesType)
	return protowire.AppendBytes(out, inner)
}

func parseTimestamp(b []byte) *timestamppb.Timestamp {
	ts := &timestamppb.Timestamp{}
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return ts
		}
		b = b[n:]
		if num == 1 && typ == protowire.VarintType {
			v, n := protowire.ConsumeVarint(b)
			if n < 0 {
				return ts
			}
			ts.Seconds = int64(v)
			b = b[n:]
		} else if num == 2 && typ == protowire.VarintType {
			v, n := protowire.ConsumeVarint(b)
			if n < 0 {
				return ts
			}
			ts.Nanos = int32(v)
			b = b[n:]
		} else {
			n := protowire.ConsumeFieldValue(num, typ, b)
			if n < 0 {
				return ts
			}
			b = b[n:]
		}
	}
	return ts
}

// fieldLoop drives a generic consume loop; set handles one recognized
// field and reports whether it consumed it.
func fieldLoop(b []byte, set func(num protowire.Number, typ protowire.Type, b []byte) (int, bool)) error {
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return protowire.ParseError(n)
		}
		b = b[n:]
		if used, ok := set(num, typ, b); ok {
			if used < 0 {
				return protowire.ParseError(used)
			}
			b = b[used:]
			continue
		}
		n = protowire.ConsumeFieldValue(num, typ, b)
		if n < 0 {
			return protowire.ParseError(n)
		}
		b = b[n:]
	}
	return nil
}

// --- Appointment ---

func (a *Appointment) appendTo(out []byte, num protowire.Number) []byte {
	if a == nil {
		return out
	}
	var inner []byte
	inner = appendStringField(inner, 1, a.Id)
	inner = appendStringField(inner, 2, a.Title)
	inner = appendStringField(inner, 3, a.Date)
	inner = appendStringField(inner, 4, a.Time)
	inner = appendStringField(inner, 5, a.Type)
	inner = appendStringField(inner, 6, a.OwnerId)
	inner = appendTimestamp(inner, 7, a.CreatedAt)
	out = protowire.AppendTag(out, num, protowire.BytesType)
	return protowire.AppendBytes(out, inner)
}

func (a *Appointment) marshalWire() []byte {
	var out []byte
	out = appendStringField(out, 1, a.Id)
	out = appendStringField(out, 2, a.Title)
	out = appendStringField(out, 3, a.Date)
	out = appendStringField(out, 4, a.Time)
	out = appendStringField(out, 5, a.Type)
	out = appendStringField(out, 6, a.OwnerId)
	out = appendTimestamp(out, 7, a.CreatedAt)
	return out
}

func (a *Appointment) unmarshalWire(b []byte) error {
	return fieldLoop(b, func(num protowire.Number, typ protowire.Type, b []byte) (int, bool) {
		if typ != protowire.BytesType {
			return 0, false
		}
		v, n := protowire.ConsumeBytes(b)
		switch num {
		case 1:
			a.Id = string(v)
		case 2:
			a.Title = string(v)
		case 3:
			a.Date = string(v)
		case 4:
			a.Time = string(v)
		case 5:
			a.Type = string(v)
		case 6:
			a.OwnerId = string(v)
		case 7:
			a.CreatedAt = parseTimestamp(v)
		default:
			return 0, false
		}
		return n, true
	})
}

// --- auth messages ---

func (m *RegisterRequest) marshalWire() []byte {
	var out []byte
	out = appendStringField(out, 1, m.Email)
	out = appendStringField(out, 2, m.Password)
	out = appendStringField(out, 3, m.Name)
	return out
}

func (m *RegisterRequest) unmarshalWire(b []byte) error {
	return fieldLoop(b, func(num protowire.Number, typ protowire.Type, b []byte) (int, bool) {
		if typ != protowire.BytesType {
			return 0, false
		}
		v, n := protowire.ConsumeBytes(b)
		switch num {
		case 1:
			m.Email = string(v)
		case 2:
			m.Password = string(v)
		case 3:
			m.Name = string(v)
		default:
			return 0, false
		}
		return n, true
	})
}

func (m *RegisterResponse) marshalWire() []byte {
	var out []byte
	out = appendStringField(out, 1, m.UserId)
	out = appendStringField(out, 2, m.Token)
	return out
}

func (m *RegisterResponse) unmarshalWire(b []byte) error {
	return fieldLoop(b, func(num protowire.Number, typ protowire.Type, b []byte) (int, bool) {
		if typ != protowire.BytesType {
			return 0, false
		}
		v, n := protowire.ConsumeBytes(b)
		switch num {
		case 1:
			m.UserId = string(v)
		case 2:
			m.Token = string(v)
		default:
			return 0, false
		}
		return n, true
	})
}

func (m *SignInRequest) marshalWire() []byte {
	var out []byte
	out = appendStringField(out, 1, m.Email)
	out = appendStringField(out, 2, m.Password)
	return out
}

func (m *SignInRequest) unmarshalWire(b []byte) error {
	return fieldLoop(b, func(num protowire.Number, typ protowire.Type, b []byte) (int, bool) {
		if typ != protowire.BytesType {
			return 0, false
		}
		v, n := protowire.ConsumeBytes(b)
		switch num {
		case 1:
			m.Email = string(v)
		case 2:
			m.Password = string(v)
		default:
			return 0, false
		}
		return n, true
	})
}

func (m *SignInResponse) marshalWire() []byte {
	var out []byte
	out = appendStringField(out, 1, m.Token)
	out = appendStringField(out, 2, m.UserId)
	out = appendStringField(out, 3, m.DisplayName)
	out = appendStringField(out, 4, m.Email)
	out = appendStringField(out, 5, m.AvatarRef)
	return out
}

func (m *SignInResponse) unmarshalWire(b []byte) error {
	return fieldLoop(b, func(num protowire.Number, typ protowire.Type, b []byte) (int, bool) {
		if typ != protowire.BytesType {
			return 0, false
		}
		v, n := protowire.ConsumeBytes(b)
		switch num {
		case 1:
			m.Token = string(v)
		case 2:
			m.UserId = string(v)
		case 3:
			m.DisplayName = string(v)
		case 4:
			m.Email = string(v)
		case 5:
			m.AvatarRef = string(v)
		default:
			return 0, false
		}
		return n, true
	})
}

// --- appointment messages ---

func (m *CreateAppointmentRequest) marshalWire() []byte {
	var out []byte
	out = appendStringField(out, 1, m.Title)
	out = appendStringField(out, 2, m.Date)
	out = appendStringField(out, 3, m.Time)
	out = appendStringField(out, 4, m.Type)
	return out
}

func (m *CreateAppointmentRequest) unmarshalWire(b []byte) error {
	return fieldLoop(b, func(num protowire.Number, typ protowire.Type, b []byte) (int, bool) {
		if typ != protowire.BytesType {
			return 0, false
		}
		v, n := protowire.ConsumeBytes(b)
		switch num {
		case 1:
			m.Title = string(v)
		case 2:
			m.Date = string(v)
		case 3:
			m.Time = string(v)
		case 4:
			m.Type = string(v)
		default:
			return 0, false
		}
		return n, true
	})
}

func (m *CreateAppointmentResponse) marshalWire() []byte {
	return m.Appointment.appendTo(nil, 1)
}

func (m *CreateAppointmentResponse) unmarshalWire(b []byte) error {
	return fieldLoop(b, func(num protowire.Number, typ protowire.Type, b []byte) (int, bool) {
		if num != 1 || typ != protowire.BytesType {
			return 0, false
		}
		v, n := protowire.ConsumeBytes(b)
		if n < 0 {
			return n, true
		}
		a := new(Appointment)
		if err := a.unmarshalWire(v); err != nil {
			return -1, true
		}
		m.Appointment = a
		return n, true
	})
}

func (m *ListAppointmentsRequest) marshalWire() []byte        { return nil }
func (m *ListAppointmentsRequest) unmarshalWire([]byte) error { return nil }

func (m *ListAppointmentsResponse) marshalWire() []byte {
	var out []byte
	for _, a := range m.Appointments {
		out = a.appendTo(out, 1)
	}
	return out
}

func (m *ListAppointmentsResponse) unmarshalWire(b []byte) error {
	m.Appointments = nil
	return fieldLoop(b, func(num protowire.Number, typ protowire.Type, b []byte) (int, bool) {
		if num != 1 || typ != protowire.BytesType {
			return 0, false
		}
		v, n := protowire.ConsumeBytes(b)
		if n < 0 {
			return n, true
		}
		a := new(Appointment)
		if err := a.unmarshalWire(v); err != nil {
			return -1, true
		}
		m.Appointments = append(m.Appointments, a)
		return n, true
	})
}

func (m *DeleteAppointmentRequest) marshalWire() []byte {
	return appendStringField(nil, 1, m.Id)
}

func (m *DeleteAppointmentRequest) unmarshalWire(b []byte) error {
	return fieldLoop(b, func(num protowire.Number, typ protowire.Type, b []byte) (int, bool) {
		if num != 1 || typ != protowire.BytesType {
			return 0, false
		}
		v, n := protowire.ConsumeBytes(b)
		m.Id = string(v)
		return n, true
	})
}

func (m *DeleteAppointmentResponse) marshalWire() []byte        { return nil }
func (m *DeleteAppointmentResponse) unmarshalWire([]byte) error { return nil }

func (m *SubscribeRequest) marshalWire() []byte        { return nil }
func (m *SubscribeRequest) unmarshalWire([]byte) error { return nil }

func (m *Snapshot) marshalWire() []byte {
	var out []byte
	for _, a := range m.Appointments {
		out = a.appendTo(out, 1)
	}
	return out
}

func (m *Snapshot) unmarshalWire(b []byte) error {
	m.Appointments = nil
	return fieldLoop(b, func(num protowire.Number, typ protowire.Type, b []byte) (int, bool) {
		if num != 1 || typ != protowire.BytesType {
			return 0, false
		}
		v, n := protowire.ConsumeBytes(b)
		if n < 0 {
			return n, true
		}
		a := new(Appointment)
		if err := a.unmarshalWire(v); err != nil {
			return -1, true
		}
		m.Appointments = append(m.Appointments, a)
		return n, true
	})
}
