package apperror

import (
	"errors"
	"fmt"
)

type Kind int

const (
	KindInternal Kind = iota
	KindNotFound
	KindBadRequest
	KindForbidden
	KindConflict
)

func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "NOT_FOUND"
	case KindBadRequest:
		return "BAD_REQUEST"
	case KindForbidden:
		return "FORBIDDEN"
	case KindConflict:
		return "CONFLICT"
	default:
		return "INTERNAL"
	}
}

// Error is a classified failure. MessageID keys into the locale files.
type Error struct {
	Kind      Kind
	MessageID string
	Data      map[string]interface{}
	Err       error
}

func (e *Error) Error() string {
	msg := e.Kind.String() + ": " + e.MessageID
	if len(e.Data) > 0 {
		msg += fmt.Sprintf(" %v", e.Data)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches another *Error of the same kind and message id.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind && (t.MessageID == "" || t.MessageID == e.MessageID)
}

func New(kind Kind, messageID string, data map[string]interface{}) *Error {
	return &Error{Kind: kind, MessageID: messageID, Data: data}
}

func NotFound(messageID string, data map[string]interface{}) *Error {
	return New(KindNotFound, messageID, data)
}

func BadRequest(messageID string, data map[string]interface{}) *Error {
	return New(KindBadRequest, messageID, data)
}

func Forbidden(messageID string, data map[string]interface{}) *Error {
	return New(KindForbidden, messageID, data)
}

func Conflict(messageID string, data map[string]interface{}) *Error {
	return New(KindConflict, messageID, data)
}

func Internal(err error) *Error {
	return &Error{Kind: KindInternal, MessageID: MsgInternal, Err: err}
}

// KindOf reports the kind of err, KindInternal for unclassified errors.
func KindOf(err error) Kind {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindInternal
}

// As extracts the *Error from err. Unclassified errors become Internal.
func As(err error) *Error {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr
	}
	return Internal(err)
}
