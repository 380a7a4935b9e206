package httperr

import (
	"errors"
	"fmt"
)

type Kind string

const (
	KindValidation Kind = "validation"
	KindConflict   Kind = "conflict"
	KindNotFound   Kind = "not_found"
	KindIO         Kind = "io"
)

// BusinessError is the single error type crossing layer boundaries.
// Code is a stable machine-readable token, Message is safe to show the caller.
type BusinessError struct {
	Kind    Kind
	Code    string
	Message string
	Cause   error
}

func (e BusinessError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Code, e.Cause)
	}
	return e.Code
}

func (e BusinessError) Unwrap() error {
	return e.Cause
}

func ErrBusiness(code string) error {
	return BusinessError{Kind: KindValidation, Code: code, Message: code}
}

func Validation(code, message string) error {
	return BusinessError{Kind: KindValidation, Code: code, Message: message}
}

func Conflict(code, message string) error {
	return BusinessError{Kind: KindConflict, Code: code, Message: message}
}

func NotFoundErr(code, message string) error {
	return BusinessError{Kind: KindNotFound, Code: code, Message: message}
}

func IO(code, message string, cause error) error {
	return BusinessError{Kind: KindIO, Code: code, Message: message, Cause: cause}
}

func IsBusiness(err error, code string) bool {
	var be BusinessError
	if errors.As(err, &be) {
		return be.Code == code
	}
	return false
}

func IsKind(err error, kind Kind) bool {
	return KindOf(err) == kind
}

// KindOf reports the taxonomy bucket of err. Anything that is not a
// BusinessError is an IO failure.
func KindOf(err error) Kind {
	if err == nil {
		return ""
	}
	var be BusinessError
	if errors.As(err, &be) {
		return be.Kind
	}
	return KindIO
}

// Wrap turns an unclassified error into an IO error and leaves classified ones untouched.
func Wrap(err error, code, message string) error {
	if err == nil {
		return nil
	}
	var be BusinessError
	if errors.As(err, &be) {
		return err
	}
	return IO(code, message, err)
}
