package response

import "errors"

type Response struct {
	ResponseError `json:"error,omitzero"`
}

type ResponseError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

//Error Codes
type ErrCode string

var (
	FAILED_REQUEST  ErrCode = "REQUEST_FAILED"
	BAD_REQUEST     ErrCode = "FAILED_TO_DECODE"
	NOT_FOUND       ErrCode = "NOT_FOUND"
	INVALID_INPUT   ErrCode = "INVALID_INPUT"
	NO_RESERVATIONS ErrCode = "NO_RESERVATIONS"
)

var (
	ErrBadRequest     = errors.New("bad request")
	ErrNotFound       = errors.New("resource not found")
	ErrNoRules        = errors.New("reservation rules table is empty")
	ErrMissingColumns = errors.New("required columns missing")
)

func Error(code, msg string) Response {
	return Response{
		ResponseError: ResponseError{
			Code:    code,
			Message: msg,
		},
	}
}
