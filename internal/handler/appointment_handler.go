package handler

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/timestamppb"

	"github.com/DCParty/senior-scheduler/internal/middleware"
	"github.com/DCParty/senior-scheduler/internal/model"
	"github.com/DCParty/senior-scheduler/internal/pg"
	"github.com/DCParty/senior-scheduler/internal/rpc"
)

func owner(ctx context.Context) string {
	o, _ := middleware.OwnerFromContext(ctx)
	return o
}

func timestampOf(t time.Time) *timestamppb.Timestamp {
	return timestamppb.New(t)
}

func (h *Handler) CreateAppointment(ctx context.Context, req *rpc.CreateAppointmentRequest) (*rpc.CreateAppointmentResponse, error) {
	ownerID := owner(ctx)

	if req.Title == "" {
		return nil, status.Error(codes.InvalidArgument, "title required")
	}
	if req.Date == "" {
		return nil, status.Error(codes.InvalidArgument, "date required")
	}
	if req.Time == "" {
		return nil, status.Error(codes.InvalidArgument, "time required")
	}
	if _, err := time.Parse("2006-01-02", req.Date); err != nil {
		return nil, status.Error(codes.InvalidArgument, "date must be YYYY-MM-DD")
	}
	if _, err := time.Parse("15:04", req.Time); err != nil {
		return nil, status.Error(codes.InvalidArgument, "time must be HH:MM")
	}

	apt := &model.Appointment{
		ID:        uuid.New().String(),
		Title:     req.Title,
		Date:      req.Date,
		Time:      req.Time,
		Type:      model.NormalizeType(model.ApptType(req.Type)),
		OwnerID:   ownerID,
		CreatedAt: time.Now(),
	}

	if err := h.store.CreateAppointment(ctx, apt); err != nil {
		return nil, status.Error(codes.Internal, "internal error")
	}

	h.broadcast(ctx, ownerID)
	return &rpc.CreateAppointmentResponse{Appointment: toWire(apt)}, nil
}

func (h *Handler) ListAppointments(ctx context.Context, req *rpc.ListAppointmentsRequest) (*rpc.ListAppointmentsResponse, error) {
	list, err := h.store.ListAppointments(ctx, owner(ctx))
	if err != nil {
		return nil, status.Error(codes.Internal, "internal error")
	}
	return &rpc.ListAppointmentsResponse{Appointments: toWireList(list)}, nil
}

func (h *Handler) DeleteAppointment(ctx context.Context, req *rpc.DeleteAppointmentRequest) (*rpc.DeleteAppointmentResponse, error) {
	if req.Id == "" {
		return nil, status.Error(codes.InvalidArgument, "id required")
	}

	ownerID := owner(ctx)
	if err := h.store.DeleteAppointment(ctx, req.Id, ownerID); err != nil {
		if errors.Is(err, pg.ErrNotFound) {
			// deleting a missing (or foreign) id never corrupts state
			return nil, status.Error(codes.NotFound, "not found")
		}
		return nil, status.Error(codes.Internal, "internal error")
	}

	h.broadcast(ctx, ownerID)
	return &rpc.DeleteAppointmentResponse{}, nil
}

// Subscribe streams the owner's full collection: once on open, then on
// every committed change, until the client goes away.
func (h *Handler) Subscribe(req *rpc.SubscribeRequest, stream rpc.SnapshotStream) error {
	ctx := stream.Context()
	ownerID := owner(ctx)

	id, ch := h.addSub(ownerID)
	defer h.removeSub(ownerID, id)

	list, err := h.store.ListAppointments(ctx, ownerID)
	if err != nil {
		return status.Error(codes.Internal, "internal error")
	}
	if err := stream.Send(&rpc.Snapshot{Appointments: toWireList(list)}); err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case list := <-ch:
			if err := stream.Send(&rpc.Snapshot{Appointments: toWireList(list)}); err != nil {
				return err
			}
		}
	}
}
