package grpc

// proto.go defines the gRPC service descriptor for bib.risk.v1.RiskService by
// hand. Messages travel through the JSON codec registered in json_codec.go.

import (
	"context"

	grpclib "google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const riskServiceName = "bib.risk.v1.RiskService"

// RiskServiceServer is the server API for RiskService.
type RiskServiceServer interface {
	AssessApplicant(context.Context, *AssessApplicantRequest) (*AssessApplicantResponse, error)
	QuoteInstallment(context.Context, *QuoteInstallmentRequest) (*QuoteInstallmentResponse, error)
	GetProduct(context.Context, *GetProductRequest) (*GetProductResponse, error)
	ListProducts(context.Context, *ListProductsRequest) (*ListProductsResponse, error)
	mustEmbedUnimplementedRiskServiceServer()
}

// UnimplementedRiskServiceServer provides forward-compatible default implementations.
type UnimplementedRiskServiceServer struct{}

func (UnimplementedRiskServiceServer) AssessApplicant(context.Context, *AssessApplicantRequest) (*AssessApplicantResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method AssessApplicant not implemented")
}
func (UnimplementedRiskServiceServer) QuoteInstallment(context.Context, *QuoteInstallmentRequest) (*QuoteInstallmentResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method QuoteInstallment not implemented")
}
func (UnimplementedRiskServiceServer) GetProduct(context.Context, *GetProductRequest) (*GetProductResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method GetProduct not implemented")
}
func (UnimplementedRiskServiceServer) ListProducts(context.Context, *ListProductsRequest) (*ListProductsResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method ListProducts not implemented")
}
func (UnimplementedRiskServiceServer) mustEmbedUnimplementedRiskServiceServer() {}

// RegisterRiskServiceServer registers srv with the gRPC server.
func RegisterRiskServiceServer(s grpclib.ServiceRegistrar, srv RiskServiceServer) {
	s.RegisterService(&riskServiceDesc, srv)
}

var riskServiceDesc = grpclib.ServiceDesc{
	ServiceName: riskServiceName,
	HandlerType: (*RiskServiceServer)(nil),
	Methods: []grpclib.MethodDesc{
		{MethodName: "AssessApplicant", Handler: unaryHandler("AssessApplicant", RiskServiceServer.AssessApplicant)},
		{MethodName: "QuoteInstallment", Handler: unaryHandler("QuoteInstallment", RiskServiceServer.QuoteInstallment)},
		{MethodName: "GetProduct", Handler: unaryHandler("GetProduct", RiskServiceServer.GetProduct)},
		{MethodName: "ListProducts", Handler: unaryHandler("ListProducts", RiskServiceServer.ListProducts)},
	},
	Streams:  []grpclib.StreamDesc{},
	Metadata: "bib/risk/v1/risk.proto",
}

// unaryHandler adapts a typed RiskServiceServer method to grpc.MethodHandler.
func unaryHandler[Req, Resp any](
	method string,
	call func(RiskServiceServer, context.Context, *Req) (*Resp, error),
) func(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpclib.UnaryServerInterceptor) (interface{}, error) {
	fullMethod := "/" + riskServiceName + "/" + method

	return func(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpclib.UnaryServerInterceptor) (interface{}, error) {
		in := new(Req)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(RiskServiceServer), ctx, in)
		}
		info := &grpclib.UnaryServerInfo{
			Server:     srv,
			FullMethod: fullMethod,
		}
		handler := func(ctx context.Context, req interface{}) (interface{}, error) {
			return call(srv.(RiskServiceServer), ctx, req.(*Req))
		}
		return interceptor(ctx, in, info, handler)
	}
}
