package grpc

import (
	"errors"

	"github.com/DRSN-tech/vending-machine/pkg/e"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

func GRPCErrorResponse(err error) error {
	switch {
	case errors.Is(err, e.ErrProductNotFound):
		return status.Error(codes.NotFound, e.ErrProductNotFound.Error())
	case errors.Is(err, e.ErrInsufficientFunds):
		return status.Error(codes.FailedPrecondition, e.ErrInsufficientFunds.Error())
	case errors.Is(err, e.ErrRequestInProgress):
		return status.Error(codes.Aborted, e.ErrRequestInProgress.Error())
	case errors.Is(err, e.ErrInvalidInput):
		return status.Error(codes.InvalidArgument, invalidInputMessage(err))
	default:
		return status.Error(codes.Internal, e.ErrInternalServerError.Error())
	}
}

func invalidInputMessage(err error) string {
	for _, target := range []error{
		e.ErrUnknownDenomination,
		e.ErrInvalidAmount,
		e.ErrAmountPrecision,
		e.ErrProductUnavailable,
		e.ErrProductNotSelected,
		e.ErrProductAlreadyTaken,
	} {
		if errors.Is(err, target) {
			return target.Error()
		}
	}
	return e.ErrInvalidInput.Error()
}
