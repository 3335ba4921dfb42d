package rpc

import (
	"context"
	"fmt"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
)

// Client is the typed client of the sync service.
type Client struct {
	conn *grpc.ClientConn
}

// Dial connects to the sync server at addr (e.g. "localhost:50051").
func Dial(addr string) (*Client, error) {
	conn, err := grpc.NewClient(
		addr,
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithDefaultCallOptions(grpc.ForceCodec(wireCodec{})),
	)
	if err != nil {
		return nil, fmt.Errorf("rpc dial: %w", err)
	}
	return &Client{conn: conn}, nil
}

func (c *Client) Close() error { return c.conn.Close() }

func (c *Client) Register(ctx context.Context, req *RegisterRequest) (*RegisterResponse, error) {
	out := new(RegisterResponse)
	if err := c.conn.Invoke(ctx, MethodRegister, req, out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) SignIn(ctx context.Context, req *SignInRequest) (*SignInResponse, error) {
	out := new(SignInResponse)
	if err := c.conn.Invoke(ctx, MethodSignIn, req, out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) CreateAppointment(ctx context.Context, req *CreateAppointmentRequest) (*CreateAppointmentResponse, error) {
	out := new(CreateAppointmentResponse)
	if err := c.conn.Invoke(ctx, MethodCreateAppointment, req, out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) ListAppointments(ctx context.Context, req *ListAppointmentsRequest) (*ListAppointmentsResponse, error) {
	out := new(ListAppointmentsResponse)
	if err := c.conn.Invoke(ctx, MethodListAppointments, req, out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) DeleteAppointment(ctx context.Context, req *DeleteAppointmentRequest) (*DeleteAppointmentResponse, error) {
	out := new(DeleteAppointmentResponse)
	if err := c.conn.Invoke(ctx, MethodDeleteAppointment, req, out); err != nil {
		return nil, err
	}
	return out, nil
}

// Subscribe opens the live query. The returned reader yields one
// Snapshot per backend push until the context is canceled or the
// stream fails.
func (c *Client) Subscribe(ctx context.Context, req *SubscribeRequest) (*SnapshotReader, error) {
	desc := &grpc.StreamDesc{StreamName: "Subscribe", ServerStreams: true}
	s, err := c.conn.NewStream(ctx, desc, MethodSubscribe)
	if err != nil {
		return nil, err
	}
	if err := s.SendMsg(req); err != nil {
		return nil, err
	}
	if err := s.CloseSend(); err != nil {
		return nil, err
	}
	return &SnapshotReader{s: s}, nil
}

type SnapshotReader struct {
	s grpc.ClientStream
}

func (r *SnapshotReader) Recv() (*Snapshot, error) {
	m := new(Snapshot)
	if err := r.s.RecvMsg(m); err != nil {
		return nil, err
	}
	return m, nil
}
