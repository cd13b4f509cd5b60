package api

import (
	"fmt"
	"net/http"
)

// ErrorKind is the category an HTTP failure is normalized into.
type ErrorKind int

const (
	KindUnknown ErrorKind = iota
	KindValidation
	KindNotFound
	KindServer
	KindNetwork
)

func (k ErrorKind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindNotFound:
		return "not-found"
	case KindServer:
		return "server"
	case KindNetwork:
		return "network"
	default:
		return "unknown"
	}
}

// Error is the only error type the resource clients return. Error() yields the
// normalized, user-facing message.
type Error struct {
	Kind      ErrorKind
	Status    int
	Operation string
	Message   string
	Err       error
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// resource describes the per-entity wording used when normalizing errors.
type resource struct {
	component string
	notFound  string
}

var (
	taskResource    = resource{component: "TaskApiService", notFound: "Task not found"}
	subtaskResource = resource{component: "SubtaskApiService", notFound: "Subtask not found"}
	tagResource     = resource{component: "TagApiService", notFound: "Tag not found"}
	channelResource = resource{component: "ChannelApiService", notFound: "Channel not found"}
)

const serverErrorMessage = "Server error. Please try again later."

// normalize maps a response status (0 when no response arrived) to the taxonomy.
func normalize(res resource, operation string, status int, detail string, cause error) *Error {
	e := &Error{Status: status, Operation: operation, Err: cause}
	switch {
	case status == 0:
		e.Kind = KindNetwork
		e.Message = fmt.Sprintf("Network error: %v", cause)
	case status == http.StatusBadRequest:
		e.Kind = KindValidation
		if detail != "" {
			e.Message = "Validation error: " + detail
		} else {
			e.Message = "Invalid request data"
		}
	case status == http.StatusNotFound:
		e.Kind = KindNotFound
		e.Message = res.notFound
	case status == http.StatusInternalServerError:
		e.Kind = KindServer
		e.Message = serverErrorMessage
	default:
		e.Kind = KindUnknown
		e.Message = fmt.Sprintf("Error %s: %s", operation, http.StatusText(status))
	}
	return e
}
