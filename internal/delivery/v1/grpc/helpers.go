package grpc

import (
	"errors"
	"strings"

	"github.com/DRSN-tech/aircon-backend/pkg/e"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
)

var errorCodes = []struct {
	err  error
	code codes.Code
}{
	{e.ErrNoProducts, codes.InvalidArgument},
	{e.ErrInvalidJSON, codes.InvalidArgument},
	{e.ErrStatusBadRequest, codes.InvalidArgument},

	{e.ErrStepIncomplete, codes.FailedPrecondition},
	{e.ErrWrongStep, codes.FailedPrecondition},
	{e.ErrInvalidStatusTransition, codes.FailedPrecondition},
	{e.ErrCancellationWindow, codes.FailedPrecondition},

	{e.ErrAvailabilityConflict, codes.Aborted},
	{e.ErrBookingInProgress, codes.Aborted},
	{e.ErrEmailTaken, codes.AlreadyExists},

	{e.ErrUnauthorized, codes.Unauthenticated},
	{e.ErrInvalidCredentials, codes.Unauthenticated},
	{e.ErrForbidden, codes.PermissionDenied},

	{e.ErrPaymentDeclined, codes.FailedPrecondition},
	{e.ErrPaymentFailed, codes.Unavailable},
	{e.ErrGatewayUnavailable, codes.Unavailable},
	{e.ErrPersistence, codes.Unavailable},

	{e.ErrNotFound, codes.NotFound},
}

// GRPCErrorResponse переводит ошибку сценария в gRPC-статус.
func GRPCErrorResponse(err error) error {
	if v, ok := e.AsValidation(err); ok {
		return status.Error(codes.InvalidArgument, v.Error())
	}

	for _, c := range errorCodes {
		if errors.Is(err, c.err) {
			return status.Error(c.code, strings.TrimSuffix(c.err.Error(), ": "+e.ErrNotFound.Error()))
		}
	}

	return status.Error(codes.Internal, e.ErrInternalServerError.Error())
}

func stringField(s *structpb.Struct, name string) string {
	if v, ok := s.GetFields()[name]; ok {
		return strings.TrimSpace(v.GetStringValue())
	}
	return ""
}

// intField принимает число; дробная часть отбрасывается.
func intField(s *structpb.Struct, name string, def int) int {
	v, ok := s.GetFields()[name]
	if !ok {
		return def
	}
	if _, isNum := v.GetKind().(*structpb.Value_NumberValue); !isNum {
		return def
	}
	return int(v.GetNumberValue())
}

func int64List(s *structpb.Struct, name string) ([]int64, error) {
	list := s.GetFields()[name].GetListValue()
	if list == nil {
		return nil, nil
	}

	ids := make([]int64, 0, len(list.GetValues()))
	for _, v := range list.GetValues() {
		n, ok := v.GetKind().(*structpb.Value_NumberValue)
		if !ok || n.NumberValue != float64(int64(n.NumberValue)) {
			return nil, e.Field(name, "must be a list of integers")
		}
		ids = append(ids, int64(n.NumberValue))
	}

	return ids, nil
}

func toAnyList[T any](items []T, fn func(*T) map[string]any) []any {
	res := make([]any, 0, len(items))
	for i := range items {
		res = append(res, fn(&items[i]))
	}
	return res
}
