package bizerror

import (
	"errors"
	"net/http"
	"sort"
	"strings"
)

var (
	ErrUnauthenticated   = errors.New("unauthenticated")
	ErrForbidden         = errors.New("forbidden")
	ErrNotFound          = errors.New("record not found")
	ErrInvalidTransition = errors.New("invalid order status transition")
)

const (
	CodeBadParam            = "common.bad_param"
	CodeValidationFailed    = "common.validation_failed"
	CodeInternalServerError = "common.internal_server_error"

	// MessageInternalServerError is the only text a caller sees for unexpected failures.
	MessageInternalServerError = "Terjadi kesalahan saat memproses permintaan"
)

type BizError interface {
	Respond() *BizErrorDetail
}

type BizErrorDetail struct {
	Status  int
	Code    string
	Message string

	Data  interface{}
	Cause error
}

type ErrBadParam struct {
	Cause error
}

func (e *ErrBadParam) Unwrap() error {
	return e.Cause
}
func (e *ErrBadParam) Error() string {
	if e.Cause != nil {
		return e.Cause.Error()
	}
	return CodeBadParam
}
func (e *ErrBadParam) Respond() *BizErrorDetail {
	message := CodeBadParam
	if e.Cause != nil {
		message = e.Cause.Error()
	}
	return &BizErrorDetail{Status: http.StatusBadRequest, Code: CodeBadParam, Message: message, Data: nil}
}

// ErrValidation carries field addressable messages, keyed by the json name of the field.
type ErrValidation struct {
	Fields map[string]string
}

func (e *ErrValidation) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	pairs := make([]string, 0, len(keys))
	for _, k := range keys {
		pairs = append(pairs, k+": "+e.Fields[k])
	}
	return "validation failed: " + strings.Join(pairs, "; ")
}

func (e *ErrValidation) Respond() *BizErrorDetail {
	return &BizErrorDetail{Status: http.StatusUnprocessableEntity, Code: CodeValidationFailed,
		Message: "validation failed", Data: e.Fields}
}
