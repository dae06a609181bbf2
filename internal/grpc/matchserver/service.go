package matchserver

import (
	"context"

	"google.golang.org/grpc"
)

// ServiceName is the fully qualified name of the match service
const ServiceName = "zugzwang.v1.MatchService"

// MatchServiceServer is the server API for the match service
type MatchServiceServer interface {
	CreateMatch(context.Context, *CreateMatchRequest) (*CreateMatchResponse, error)
	JoinMatch(context.Context, *JoinMatchRequest) (*JoinMatchResponse, error)
	SubmitOrder(context.Context, *SubmitOrderRequest) (*SubmitOrderResponse, error)
	WithdrawOrder(context.Context, *WithdrawOrderRequest) (*WithdrawOrderResponse, error)
	EndPlanning(context.Context, *EndPlanningRequest) (*EndPlanningResponse, error)
	GetState(context.Context, *GetStateRequest) (*GetStateResponse, error)
}

// RegisterMatchServiceServer registers srv with s
func RegisterMatchServiceServer(s grpc.ServiceRegistrar, srv MatchServiceServer) {
	s.RegisterService(&MatchService_ServiceDesc, srv)
}

// unaryHandler adapts one typed service method to the grpc handler shape
func unaryHandler[Req any, Resp any](method string, call func(MatchServiceServer, context.Context, *Req) (*Resp, error)) grpc.MethodDesc {
	fullMethod := "/" + ServiceName + "/" + method
	return grpc.MethodDesc{
		MethodName: method,
		Handler: func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
			in := new(Req)
			if err := dec(in); err != nil {
				return nil, err
			}
			if interceptor == nil {
				return call(srv.(MatchServiceServer), ctx, in)
			}
			info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod}
			handler := func(ctx context.Context, req any) (any, error) {
				return call(srv.(MatchServiceServer), ctx, req.(*Req))
			}
			return interceptor(ctx, in, info, handler)
		},
	}
}

// MatchService_ServiceDesc describes the match service for grpc.Server
var MatchService_ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*MatchServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		unaryHandler("CreateMatch", MatchServiceServer.CreateMatch),
		unaryHandler("JoinMatch", MatchServiceServer.JoinMatch),
		unaryHandler("SubmitOrder", MatchServiceServer.SubmitOrder),
		unaryHandler("WithdrawOrder", MatchServiceServer.WithdrawOrder),
		unaryHandler("EndPlanning", MatchServiceServer.EndPlanning),
		unaryHandler("GetState", MatchServiceServer.GetState),
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "zugzwang/v1/match.json",
}

// MatchServiceClient is the client API for the match service
type MatchServiceClient interface {
	CreateMatch(ctx context.Context, in *CreateMatchRequest, opts ...grpc.CallOption) (*CreateMatchResponse, error)
	JoinMatch(ctx context.Context, in *JoinMatchRequest, opts ...grpc.CallOption) (*JoinMatchResponse, error)
	SubmitOrder(ctx context.Context, in *SubmitOrderRequest, opts ...grpc.CallOption) (*SubmitOrderResponse, error)
	WithdrawOrder(ctx context.Context, in *WithdrawOrderRequest, opts ...grpc.CallOption) (*WithdrawOrderResponse, error)
	EndPlanning(ctx context.Context, in *EndPlanningRequest, opts ...grpc.CallOption) (*EndPlanningResponse, error)
	GetState(ctx context.Context, in *GetStateRequest, opts ...grpc.CallOption) (*GetStateResponse, error)
}

type matchServiceClient struct {
	cc grpc.ClientConnInterface
}

// NewMatchServiceClient creates a client that speaks the JSON codec
func NewMatchServiceClient(cc grpc.ClientConnInterface) MatchServiceClient {
	return &matchServiceClient{cc: cc}
}

func invoke[Resp any](ctx context.Context, cc grpc.ClientConnInterface, method string, in any, opts []grpc.CallOption) (*Resp, error) {
	out := new(Resp)
	opts = append([]grpc.CallOption{grpc.CallContentSubtype(CodecName)}, opts...)
	if err := cc.Invoke(ctx, "/"+ServiceName+"/"+method, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *matchServiceClient) CreateMatch(ctx context.Context, in *CreateMatchRequest, opts ...grpc.CallOption) (*CreateMatchResponse, error) {
	return invoke[CreateMatchResponse](ctx, c.cc, "CreateMatch", in, opts)
}

func (c *matchServiceClient) JoinMatch(ctx context.Context, in *JoinMatchRequest, opts ...grpc.CallOption) (*JoinMatchResponse, error) {
	return invoke[JoinMatchResponse](ctx, c.cc, "JoinMatch", in, opts)
}

func (c *matchServiceClient) SubmitOrder(ctx context.Context, in *SubmitOrderRequest, opts ...grpc.CallOption) (*SubmitOrderResponse, error) {
	return invoke[SubmitOrderResponse](ctx, c.cc, "SubmitOrder", in, opts)
}

func (c *matchServiceClient) WithdrawOrder(ctx context.Context, in *WithdrawOrderRequest, opts ...grpc.CallOption) (*WithdrawOrderResponse, error) {
	return invoke[WithdrawOrderResponse](ctx, c.cc, "WithdrawOrder", in, opts)
}

func (c *matchServiceClient) EndPlanning(ctx context.Context, in *EndPlanningRequest, opts ...grpc.CallOption) (*EndPlanningResponse, error) {
	return invoke[EndPlanningResponse](ctx, c.cc, "EndPlanning", in, opts)
}

func (c *matchServiceClient) GetState(ctx context.Context, in *GetStateRequest, opts ...grpc.CallOption) (*GetStateResponse, error) {
	return invoke[GetStateResponse](ctx, c.cc, "GetState", in, opts)
}
