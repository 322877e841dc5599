package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/DRSN-tech/vending-machine/pkg/e"
)

type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func NewErrorResponse(code int, message string) *ErrorResponse {
	return &ErrorResponse{
		Code:    code,
		Message: message,
	}
}

// badRequestErrs — уточнения e.ErrInvalidInput, текст которых можно отдать клиенту.
var badRequestErrs = []error{
	e.ErrStatusBadRequest,
	e.ErrUnknownDenomination,
	e.ErrNegativeCount,
	e.ErrInvalidAmount,
	e.ErrAmountPrecision,
	e.ErrProductUnavailable,
	e.ErrProductNotSelected,
	e.ErrProductAlreadyTaken,
}

func ToHTTPResponse(err error) (int, string) {
	switch {
	case errors.Is(err, e.ErrProductNotFound):
		return http.StatusNotFound, e.ErrProductNotFound.Error()
	case errors.Is(err, e.ErrInsufficientFunds):
		return http.StatusPaymentRequired, e.ErrInsufficientFunds.Error()
	case errors.Is(err, e.ErrInsufficientChange):
		return http.StatusConflict, e.ErrInsufficientChange.Error()
	case errors.Is(err, e.ErrRequestInProgress):
		return http.StatusConflict, e.ErrRequestInProgress.Error()
	case errors.Is(err, e.ErrInvalidInput) || errors.Is(err, e.ErrStatusBadRequest):
		for _, target := range badRequestErrs {
			if errors.Is(err, target) {
				return http.StatusBadRequest, target.Error()
			}
		}
		return http.StatusBadRequest, e.ErrInvalidInput.Error()
	default:
		return http.StatusInternalServerError, e.ErrInternalServerError.Error()
	}
}

func WriteError(w http.ResponseWriter, err error) {
	code, msg := ToHTTPResponse(err)
	WriteSuccess(w, code, NewErrorResponse(code, msg))
}

func WriteSuccess(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// decodeJSON разбирает тело запроса, отклоняя неизвестные поля.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}) error {
	const maxBodySize = 1 << 20

	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodySize))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return e.Wrap(err.Error(), e.ErrStatusBadRequest)
	}

	return nil
}
