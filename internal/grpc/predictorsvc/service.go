// Package predictorsvc serves and consumes move predictors over gRPC.
//
// The service uses protobuf well-known types on the wire so no generated code is
// needed: the request is a google.protobuf.ListValue holding the board codes and
// the response a google.protobuf.Int32Value holding the chosen cell index.
package predictorsvc

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

const (
	ServiceName       = "planestrike.predictor.v1.MovePredictor"
	PredictFullMethod = "/" + ServiceName + "/Predict"
)

// MovePredictorServer is the server API for the MovePredictor service.
type MovePredictorServer interface {
	Predict(ctx context.Context, req *structpb.ListValue) (*wrapperspb.Int32Value, error)
}

// MovePredictor_ServiceDesc is the grpc.ServiceDesc for the MovePredictor service.
var MovePredictor_ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*MovePredictorServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "Predict",
			Handler:    movePredictorPredictHandler,
		},
	},
	Streams: []grpc.StreamDesc{},
}

// RegisterMovePredictorServer registers srv on s.
func RegisterMovePredictorServer(s grpc.ServiceRegistrar, srv MovePredictorServer) {
	s.RegisterService(&MovePredictor_ServiceDesc, srv)
}

func movePredictorPredictHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(structpb.ListValue)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(MovePredictorServer).Predict(ctx, in)
	}
	info := &grpc.UnaryServerInfo{
		Server:     srv,
		FullMethod: PredictFullMethod,
	}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(MovePredictorServer).Predict(ctx, req.(*structpb.ListValue))
	}
	return interceptor(ctx, in, info, handler)
}
