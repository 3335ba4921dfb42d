package rpc

import (
	"context"

	"google.golang.org/grpc"
)

const ServiceName = "reminder.v1.ReminderSync"

// Full method names, shared with the interceptors.
const (
	MethodRegister          = "/" + ServiceName + "/Register"
	MethodSignIn            = "/" + ServiceName + "/SignIn"
	MethodCreateAppointment = "/" + ServiceName + "/CreateAppointment"
	MethodListAppointments  = "/" + ServiceName + "/ListAppointments"
	MethodDeleteAppointment = "/" + ServiceName + "/DeleteAppointment"
	MethodSubscribe         = "/" + ServiceName + "/Subscribe"
)

// SyncServer is the server-side contract of the reminder sync service.
type SyncServer interface {
	Register(ctx context.Context, req *RegisterRequest) (*RegisterResponse, error)
	SignIn(ctx context.Context, req *SignInRequest) (*SignInResponse, error)
	CreateAppointment(ctx context.Context, req *CreateAppointmentRequest) (*CreateAppointmentResponse, error)
	ListAppointments(ctx context.Context, req *ListAppointmentsRequest) (*ListAppointmentsResponse, error)
	DeleteAppointment(ctx context.Context, req *DeleteAppointmentRequest) (*DeleteAppointmentResponse, error)
	Subscribe(req *SubscribeRequest, stream SnapshotStream) error
}

// SnapshotStream sends collection snapshots to one live subscriber.
type SnapshotStream interface {
	Send(*Snapshot) error
	Context() context.Context
}

func RegisterSyncServer(s grpc.ServiceRegistrar, srv SyncServer) {
	s.RegisterService(&serviceDesc, srv)
}

var serviceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*SyncServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Register", Handler: registerHandler},
		{MethodName: "SignIn", Handler: signInHandler},
		{MethodName: "CreateAppointment", Handler: createHandler},
		{MethodName: "ListAppointments", Handler: listHandler},
		{MethodName: "DeleteAppointment", Handler: deleteHandler},
	},
	Streams: []grpc.StreamDesc{
		{StreamName: "Subscribe", Handler: subscribeHandler, ServerStreams: true},
	},
	Metadata: "reminder/v1/reminder.proto",
}

func registerHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(RegisterRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(SyncServer).Register(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: MethodRegister}
	return interceptor(ctx, in, info, func(ctx context.Context, req any) (any, error) {
		return srv.(SyncServer).Register(ctx, req.(*RegisterRequest))
	})
}

func signInHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(SignInRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(SyncServer).SignIn(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: MethodSignIn}
	return interceptor(ctx, in, info, func(ctx context.Context, req any) (any, error) {
		return srv.(SyncServer).SignIn(ctx, req.(*SignInRequest))
	})
}

func createHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(CreateAppointmentRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(SyncServer).CreateAppointment(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: MethodCreateAppointment}
	return interceptor(ctx, in, info, func(ctx context.Context, req any) (any, error) {
		return srv.(SyncServer).CreateAppointment(ctx, req.(*CreateAppointmentRequest))
	})
}

func listHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(ListAppointmentsRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(SyncServer).ListAppointments(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: MethodListAppointments}
	return interceptor(ctx, in, info, func(ctx context.Context, req any) (any, error) {
		return srv.(SyncServer).ListAppointments(ctx, req.(*ListAppointmentsRequest))
	})
}

func deleteHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(DeleteAppointmentRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(SyncServer).DeleteAppointment(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: MethodDeleteAppointment}
	return interceptor(ctx, in, info, func(ctx context.Context, req any) (any, error) {
		return srv.(SyncServer).DeleteAppointment(ctx, req.(*DeleteAppointmentRequest))
	})
}

func subscribeHandler(srv any, stream grpc.ServerStream) error {
	in := new(SubscribeRequest)
	if err := stream.RecvMsg(in); err != nil {
		return err
	}
	return srv.(SyncServer).Subscribe(in, &snapshotStream{stream})
}

type snapshotStream struct {
	grpc.ServerStream
}

func (s *snapshotStream) Send(snap *Snapshot) error {
	return s.ServerStream.SendMsg(snap)
}
