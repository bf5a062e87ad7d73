package grpcapi

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
)

const ServiceName = "moderation.v1.ModerationService"

// ModerationServiceServer is served over the standard proto codec. Requests and
// responses are google.protobuf.Struct documents with snake_case keys.
type ModerationServiceServer interface {
	CreatePost(context.Context, *structpb.Struct) (*structpb.Struct, error)
	ReportPost(context.Context, *structpb.Struct) (*structpb.Struct, error)
	GetPost(context.Context, *structpb.Struct) (*structpb.Struct, error)
	OpenDispute(context.Context, *structpb.Struct) (*structpb.Struct, error)
	Allocate(context.Context, *structpb.Struct) (*structpb.Struct, error)
	AllocateAny(context.Context, *structpb.Struct) (*structpb.Struct, error)
	GetAllocatedDispute(context.Context, *structpb.Struct) (*structpb.Struct, error)
	Vote(context.Context, *structpb.Struct) (*structpb.Struct, error)
	Resolve(context.Context, *structpb.Struct) (*structpb.Struct, error)
	GetDispute(context.Context, *structpb.Struct) (*structpb.Struct, error)
	GetBalance(context.Context, *structpb.Struct) (*structpb.Struct, error)
	Deposit(context.Context, *structpb.Struct) (*structpb.Struct, error)
	Withdraw(context.Context, *structpb.Struct) (*structpb.Struct, error)
}

type unaryCall func(srv ModerationServiceServer, ctx context.Context, in *structpb.Struct) (*structpb.Struct, error)

func unaryHandler(method string, call unaryCall) grpc.MethodDesc {
	return grpc.MethodDesc{
		MethodName: method,
		Handler: func(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
			in := new(structpb.Struct)
			if err := dec(in); err != nil {
				return nil, err
			}
			if interceptor == nil {
				return call(srv.(ModerationServiceServer), ctx, in)
			}
			info := &grpc.UnaryServerInfo{
				Server:     srv,
				FullMethod: FullMethod(method),
			}
			handler := func(ctx context.Context, req interface{}) (interface{}, error) {
				return call(srv.(ModerationServiceServer), ctx, req.(*structpb.Struct))
			}
			return interceptor(ctx, in, info, handler)
		},
	}
}

func FullMethod(method string) string {
	return "/" + ServiceName + "/" + method
}

var ModerationServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*ModerationServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		unaryHandler("CreatePost", ModerationServiceServer.CreatePost),
		unaryHandler("ReportPost", ModerationServiceServer.ReportPost),
		unaryHandler("GetPost", ModerationServiceServer.GetPost),
		unaryHandler("OpenDispute", ModerationServiceServer.OpenDispute),
		unaryHandler("Allocate", ModerationServiceServer.Allocate),
		unaryHandler("AllocateAny", ModerationServiceServer.AllocateAny),
		unaryHandler("GetAllocatedDispute", ModerationServiceServer.GetAllocatedDispute),
		unaryHandler("Vote", ModerationServiceServer.Vote),
		unaryHandler("Resolve", ModerationServiceServer.Resolve),
		unaryHandler("GetDispute", ModerationServiceServer.GetDispute),
		unaryHandler("GetBalance", ModerationServiceServer.GetBalance),
		unaryHandler("Deposit", ModerationServiceServer.Deposit),
		unaryHandler("Withdraw", ModerationServiceServer.Withdraw),
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "moderation/v1/moderation.proto",
}

func RegisterModerationServiceServer(s grpc.ServiceRegistrar, srv ModerationServiceServer) {
	s.RegisterService(&ModerationServiceDesc, srv)
}
