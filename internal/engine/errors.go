package engine

// ErrorKind classifies why a mutation was denied or failed. Handlers map each
// kind to an HTTP status; the engine itself never touches the transport.
type ErrorKind int

const (
	KindNotFound ErrorKind = iota
	KindForbidden
	KindLastAdmin
	KindSelfDelete
	KindAlreadyAdmin
	KindConflict
	KindValidation
	KindInternal
)

// Error is the typed result carried from an engine decision (or a service
// that enforces one) to the API boundary.
type Error struct {
	Kind    ErrorKind
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

// Code returns the machine-checkable code for kinds the client branches on,
// and "" for everything else.
func (e *Error) Code() string {
	switch e.Kind {
	case KindLastAdmin:
		return "LAST_ADMIN"
	case KindSelfDelete:
		return "SELF_DELETE"
	}
	return ""
}

func NotFound(message string) *Error {
	return &Error{Kind: KindNotFound, Message: message}
}

func Forbidden(message string) *Error {
	return &Error{Kind: KindForbidden, Message: message}
}

func LastAdmin(message string) *Error {
	return &Error{Kind: KindLastAdmin, Message: message}
}

func SelfDelete(message string) *Error {
	return &Error{Kind: KindSelfDelete, Message: message}
}

func AlreadyAdmin(message string) *Error {
	return &Error{Kind: KindAlreadyAdmin, Message: message}
}

func Conflict(message string) *Error {
	return &Error{Kind: KindConflict, Message: message}
}

func Validation(message string) *Error {
	return &Error{Kind: KindValidation, Message: message}
}

func Internal(message string) *Error {
	return &Error{Kind: KindInternal, Message: message}
}
