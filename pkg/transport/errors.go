package transport

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/goliatone/go-caseform/pkg/validation"
)

// HTTPError is implemented by errors that map to an HTTP status.
type HTTPError interface {
	error
	StatusCode() int
}

// APIError is a non-2xx answer from the case API. Validation failures carry
// the server's messages so a session can map them onto fields.
type APIError struct {
	Code     int
	Op       string
	Messages []validation.Message
	Body     string
}

func (e *APIError) Error() string {
	status := http.StatusText(e.StatusCode())
	if len(e.Messages) == 0 {
		return fmt.Sprintf("transport: %s: %d %s", e.Op, e.StatusCode(), status)
	}
	texts := make([]string, 0, len(e.Messages))
	for _, msg := range e.Messages {
		texts = append(texts, msg.ValidationMessage)
	}
	return fmt.Sprintf("transport: %s: %d %s: %s", e.Op, e.StatusCode(), status, strings.Join(texts, "; "))
}

func (e *APIError) StatusCode() int {
	if e.Code <= 0 {
		return http.StatusInternalServerError
	}
	return e.Code
}

// ValidationMessages returns the server validation messages, if any.
func (e *APIError) ValidationMessages() []validation.Message {
	return e.Messages
}
