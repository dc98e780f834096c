// Package identity описывает gRPC-контракт провайдера идентификации:
// сообщения, дескриптор сервиса и JSON-кодек для них.
package identity

import (
	"context"
	"encoding/json"

	"google.golang.org/grpc"
	"google.golang.org/grpc/encoding"
	"google.golang.org/protobuf/types/known/timestamppb"
)

// CodecName content-subtype, с которым клиенты вызывают сервис (application/grpc+json).
const CodecName = "json"

// ServiceName полное имя gRPC-сервиса.
const ServiceName = "identity.IdentityService"

// Полные имена методов.
const (
	SignUpMethod   = "/" + ServiceName + "/SignUp"
	SignInMethod   = "/" + ServiceName + "/SignIn"
	SignOutMethod  = "/" + ServiceName + "/SignOut"
	ValidateMethod = "/" + ServiceName + "/Validate"
)

func init() {
	encoding.RegisterCodec(jsonCodec{})
}

type jsonCodec struct{}

func (jsonCodec) Marshal(v any) ([]byte, error) { return json.Marshal(v) }

func (jsonCodec) Unmarshal(data []byte, v any) error { return json.Unmarshal(data, v) }

func (jsonCodec) Name() string { return CodecName }

type SignUpRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type SignUpResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

type SignInRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// SignInResponse содержит выданную сессию. Срок действия передается как google.protobuf.Timestamp.
type SignInResponse struct {
	Token     string    `json:"token"`
	UserID    string    `json:"user_id"`
	Email     string    `json:"email"`
	ExpiresAt *timestamppb.Timestamp `json:"expires_at"`
}

type SignOutRequest struct {
	Token string `json:"token"`
}

type SignOutResponse struct {
	Success bool `json:"success"`
}

type ValidateRequest struct {
	Token string `json:"token"`
}

type ValidateResponse struct {
	UserID    string    `json:"user_id"`
	Email     string    `json:"email"`
	TokenID   string    `json:"token_id"`
	ExpiresAt *timestamppb.Timestamp `json:"expires_at"`
}

// IdentityServiceServer серверная часть сервиса.
type IdentityServiceServer interface {
	SignUp(context.Context, *SignUpRequest) (*SignUpResponse, error)
	SignIn(context.Context, *SignInRequest) (*SignInResponse, error)
	SignOut(context.Context, *SignOutRequest) (*SignOutResponse, error)
	Validate(context.Context, *ValidateRequest) (*ValidateResponse, error)
}

// RegisterIdentityServiceServer регистрирует реализацию сервиса на gRPC-сервере.
func RegisterIdentityServiceServer(s grpc.ServiceRegistrar, srv IdentityServiceServer) {
	s.RegisterService(&ServiceDesc, srv)
}

// ServiceDesc дескриптор сервиса для grpc.Server.
var ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*IdentityServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "SignUp", Handler: unary(SignUpMethod, IdentityServiceServer.SignUp)},
		{MethodName: "SignIn", Handler: unary(SignInMethod, IdentityServiceServer.SignIn)},
		{MethodName: "SignOut", Handler: unary(SignOutMethod, IdentityServiceServer.SignOut)},
		{MethodName: "Validate", Handler: unary(ValidateMethod, IdentityServiceServer.Validate)},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "identity",
}

// unary строит grpc.MethodHandler для метода сервера с запросом типа Req.
func unary[Req, Resp any](fullMethod string, call func(IdentityServiceServer, context.Context, *Req) (*Resp, error)) grpc.MethodHandler {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := new(Req)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(IdentityServiceServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod}
		handler := func(ctx context.Context, req any) (any, error) {
			return call(srv.(IdentityServiceServer), ctx, req.(*Req))
		}
		return interceptor(ctx, in, info, handler)
	}
}
