// Package handler implements the sync service: validation, owner
// scoping, and the live-query fan-out that pushes a fresh collection
// snapshot to every subscriber after each mutation.
package handler

import (
	"context"
	"sync"

	"github.com/DCParty/senior-scheduler/internal/model"
	"github.com/DCParty/senior-scheduler/internal/pg"
	"github.com/DCParty/senior-scheduler/internal/rpc"
)

type Handler struct {
	store  *pg.Store
	secret string

	mu      sync.Mutex
	subs    map[string]map[int]chan []model.Appointment // owner -> subscriber channels
	nextSub int
}

func New(st *pg.Store, secret string) *Handler {
	return &Handler{
		store:  st,
		secret: secret,
		subs:   make(map[string]map[int]chan []model.Appointment),
	}
}

func (h *Handler) addSub(owner string) (int, chan []model.Appointment) {
	h.mu.Lock()
	defer h.mu.Unlock()
	id := h.nextSub
	h.nextSub++
	ch := make(chan []model.Appointment, 4)
	if h.subs[owner] == nil {
		h.subs[owner] = make(map[int]chan []model.Appointment)
	}
	h.subs[owner][id] = ch
	return id, ch
}

func (h *Handler) removeSub(owner string, id int) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if m := h.subs[owner]; m != nil {
		delete(m, id)
		if len(m) == 0 {
			delete(h.subs, owner)
		}
	}
}

// broadcast pushes the owner's latest committed collection to every
// live subscriber. A slow subscriber only misses intermediate
// snapshots, never the final state, because each push is complete.
func (h *Handler) broadcast(ctx context.Context, owner string) {
	h.mu.Lock()
	n := len(h.subs[owner])
	h.mu.Unlock()
	if n == 0 {
		return
	}

	list, err := h.store.ListAppointments(ctx, owner)
	if err != nil {
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	for _, ch := range h.subs[owner] {
		select {
		case ch <- list:
		default:
			// channel full: drain one stale snapshot and retry
			select {
			case <-ch:
			default:
			}
			select {
			case ch <- list:
			default:
			}
		}
	}
}

func toWire(a *model.Appointment) *rpc.Appointment {
	p := &rpc.Appointment{
		Id:      a.ID,
		Title:   a.Title,
		Date:    a.Date,
		Time:    a.Time,
		Type:    string(a.Type),
		OwnerId: a.OwnerID,
	}
	if !a.CreatedAt.IsZero() {
		p.CreatedAt = timestampOf(a.CreatedAt)
	}
	return p
}

func toWireList(list []model.Appointment) []*rpc.Appointment {
	out := make([]*rpc.Appointment, len(list))
	for i := range list {
		out[i] = toWire(&list[i])
	}
	return out
}
