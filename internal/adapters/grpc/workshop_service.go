package grpc

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
)

// ServiceName is the fully qualified gRPC service name
const ServiceName = "groundworks.v1.WorkshopService"

// Method names of the workshop service. Every method takes and returns a
// google.protobuf.Struct carrying the JSON form of the request and response
// types in messages.go.
const (
	MethodListWorkshops     = "ListWorkshops"
	MethodGetWorkshopStatus = "GetWorkshopStatus"
	MethodGetNotices        = "GetNotices"
	MethodEnqueueJob        = "EnqueueJob"
	MethodDequeueJob        = "DequeueJob"
	MethodRemoveJob         = "RemoveJob"
	MethodMoveJobUp         = "MoveJobUp"
	MethodStartTask         = "StartTask"
	MethodStartWorkshop     = "StartWorkshop"
	MethodStopWorkshop      = "StopWorkshop"
	MethodDiscoverJobs      = "DiscoverJobs"
)

// WorkshopServiceServer is the server API for the workshop service
type WorkshopServiceServer interface {
	ListWorkshops(context.Context, *structpb.Struct) (*structpb.Struct, error)
	GetWorkshopStatus(context.Context, *structpb.Struct) (*structpb.Struct, error)
	GetNotices(context.Context, *structpb.Struct) (*structpb.Struct, error)
	EnqueueJob(context.Context, *structpb.Struct) (*structpb.Struct, error)
	DequeueJob(context.Context, *structpb.Struct) (*structpb.Struct, error)
	RemoveJob(context.Context, *structpb.Struct) (*structpb.Struct, error)
	MoveJobUp(context.Context, *structpb.Struct) (*structpb.Struct, error)
	StartTask(context.Context, *structpb.Struct) (*structpb.Struct, error)
	StartWorkshop(context.Context, *structpb.Struct) (*structpb.Struct, error)
	StopWorkshop(context.Context, *structpb.Struct) (*structpb.Struct, error)
	DiscoverJobs(context.Context, *structpb.Struct) (*structpb.Struct, error)
}

type unaryMethod func(WorkshopServiceServer, context.Context, *structpb.Struct) (*structpb.Struct, error)

func unaryHandler(method string, call unaryMethod) func(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	return func(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
		in := new(structpb.Struct)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(WorkshopServiceServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{
			Server:     srv,
			FullMethod: "/" + ServiceName + "/" + method,
		}
		handler := func(ctx context.Context, req interface{}) (interface{}, error) {
			return call(srv.(WorkshopServiceServer), ctx, req.(*structpb.Struct))
		}
		return interceptor(ctx, in, info, handler)
	}
}

// WorkshopServiceDesc is the grpc.ServiceDesc for the workshop service
var WorkshopServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*WorkshopServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: MethodListWorkshops, Handler: unaryHandler(MethodListWorkshops, WorkshopServiceServer.ListWorkshops)},
		{MethodName: MethodGetWorkshopStatus, Handler: unaryHandler(MethodGetWorkshopStatus, WorkshopServiceServer.GetWorkshopStatus)},
		{MethodName: MethodGetNotices, Handler: unaryHandler(MethodGetNotices, WorkshopServiceServer.GetNotices)},
		{MethodName: MethodEnqueueJob, Handler: unaryHandler(MethodEnqueueJob, WorkshopServiceServer.EnqueueJob)},
		{MethodName: MethodDequeueJob, Handler: unaryHandler(MethodDequeueJob, WorkshopServiceServer.DequeueJob)},
		{MethodName: MethodRemoveJob, Handler: unaryHandler(MethodRemoveJob, WorkshopServiceServer.RemoveJob)},
		{MethodName: MethodMoveJobUp, Handler: unaryHandler(MethodMoveJobUp, WorkshopServiceServer.MoveJobUp)},
		{MethodName: MethodStartTask, Handler: unaryHandler(MethodStartTask, WorkshopServiceServer.StartTask)},
		{MethodName: MethodStartWorkshop, Handler: unaryHandler(MethodStartWorkshop, WorkshopServiceServer.StartWorkshop)},
		{MethodName: MethodStopWorkshop, Handler: unaryHandler(MethodStopWorkshop, WorkshopServiceServer.StopWorkshop)},
		{MethodName: MethodDiscoverJobs, Handler: unaryHandler(MethodDiscoverJobs, WorkshopServiceServer.DiscoverJobs)},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "groundworks/v1/workshop.proto",
}

// RegisterWorkshopServiceServer registers the service implementation
func RegisterWorkshopServiceServer(s grpc.ServiceRegistrar, srv WorkshopServiceServer) {
	s.RegisterService(&WorkshopServiceDesc, srv)
}
