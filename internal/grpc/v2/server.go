// Package v2 реализует gRPC-сервис пакетной проверки URL.
//
// Сообщения передаются как google.protobuf.Struct, поэтому сервис не требует
// сгенерированного кода: запрос {"urls": [...]}, ответ совпадает с JSON-отчётом HTTP API.
package v2

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/Totarae/URLProbe/internal/model"
	"github.com/Totarae/URLProbe/internal/service"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
)

const (
	// ServiceName полное имя gRPC-сервиса.
	ServiceName = "urlprobe.v2.ProbeService"
	// CheckBatchMethod полное имя метода для grpc.ClientConn.Invoke.
	CheckBatchMethod = "/" + ServiceName + "/CheckBatch"
)

// Checker проверяет пакет URL.
type Checker interface {
	Check(ctx context.Context, urls []string) (*model.Report, error)
}

// ProbeServiceServer серверная часть сервиса.
type ProbeServiceServer interface {
	CheckBatch(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
}

// GRPCServer реализует ProbeServiceServer поверх Checker.
type GRPCServer struct {
	Checker Checker
}

// NewGRPCServer создаёт GRPCServer.
func NewGRPCServer(checker Checker) *GRPCServer {
	return &GRPCServer{Checker: checker}
}

// CheckBatch проверяет URL из поля urls запроса.
func (s *GRPCServer) CheckBatch(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	urls, err := urlsFromRequest(req)
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}

	report, err := s.Checker.Check(ctx, urls)
	switch {
	case errors.Is(err, service.ErrNoURLs):
		return nil, status.Error(codes.InvalidArgument, "no URLs provided")
	case errors.Is(err, context.Canceled):
		return nil, status.Error(codes.Canceled, err.Error())
	case errors.Is(err, context.DeadlineExceeded):
		return nil, status.Error(codes.DeadlineExceeded, err.Error())
	case err != nil:
		return nil, status.Errorf(codes.Internal, "check failed: %v", err)
	}

	resp, err := reportToStruct(report)
	if err != nil {
		return nil, status.Errorf(codes.Internal, "encode report: %v", err)
	}
	return resp, nil
}

func urlsFromRequest(req *structpb.Struct) ([]string, error) {
	field, ok := req.GetFields()["urls"]
	if !ok {
		return nil, nil
	}
	list := field.GetListValue()
	if list == nil {
		return nil, errors.New("urls must be a list of strings")
	}

	urls := make([]string, 0, len(list.GetValues()))
	for i, v := range list.GetValues() {
		s, ok := v.GetKind().(*structpb.Value_StringValue)
		if !ok {
			return nil, fmt.Errorf("urls[%d] is not a string", i)
		}
		urls = append(urls, s.StringValue)
	}
	return urls, nil
}

func reportToStruct(report *model.Report) (*structpb.Struct, error) {
	data, err := json.Marshal(report)
	if err != nil {
		return nil, err
	}
	var m map[string]any
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, err
	}
	return structpb.NewStruct(m)
}

func checkBatchHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(structpb.Struct)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(ProbeServiceServer).CheckBatch(ctx, in)
	}
	info := &grpc.UnaryServerInfo{
		Server:     srv,
		FullMethod: CheckBatchMethod,
	}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(ProbeServiceServer).CheckBatch(ctx, req.(*structpb.Struct))
	}
	return interceptor(ctx, in, info, handler)
}

// ServiceDesc описание сервиса для grpc.Server.RegisterService.
var ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*ProbeServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "CheckBatch",
			Handler:    checkBatchHandler,
		},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "urlprobe/v2/probe.proto",
}

// Register регистрирует сервис на gRPC-сервере.
func Register(s grpc.ServiceRegistrar, srv ProbeServiceServer) {
	s.RegisterService(&ServiceDesc, srv)
}

// CheckBatch вызывает метод CheckBatch на удалённом сервере.
func CheckBatch(ctx context.Context, cc grpc.ClientConnInterface, urls []string, opts ...grpc.CallOption) (*structpb.Struct, error) {
	values := make([]any, len(urls))
	for i, u := range urls {
		values[i] = u
	}
	req, err := structpb.NewStruct(map[string]any{"urls": values})
	if err != nil {
		return nil, err
	}

	out := new(structpb.Struct)
	if err := cc.Invoke(ctx, CheckBatchMethod, req, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}
