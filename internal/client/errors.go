package client

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/tidwall/gjson"
)

// AppError is the error body the server returns for any non-2xx response.
type AppError struct {
	ID            string
	Message       string
	DetailedError string
	RequestID     string
	StatusCode    int
}

func (e *AppError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = http.StatusText(e.StatusCode)
	}
	if e.ID != "" {
		return fmt.Sprintf("%s (%s, status %d)", msg, e.ID, e.StatusCode)
	}
	return fmt.Sprintf("%s (status %d)", msg, e.StatusCode)
}

// ServerErrorID returns the server's machine-readable error id.
func (e *AppError) ServerErrorID() string {
	return e.ID
}

// parseAppError decodes an error body. Proxies in front of the server may
// answer with HTML or plain text, so a body that is not JSON still produces
// an AppError carrying the status code.
func parseAppError(status int, body []byte) *AppError {
	e := &AppError{StatusCode: status}
	if !gjson.ValidBytes(body) {
		e.Message = strings.TrimSpace(string(body))
		if len(e.Message) > 200 {
			e.Message = e.Message[:200]
		}
		return e
	}
	res := gjson.ParseBytes(body)
	e.ID = res.Get("id").String()
	e.Message = res.Get("message").String()
	e.DetailedError = res.Get("detailed_error").String()
	e.RequestID = res.Get("request_id").String()
	if sc := res.Get("status_code"); sc.Exists() && sc.Int() != 0 {
		e.StatusCode = int(sc.Int())
	}
	return e
}

func statusOf(err error) int {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.StatusCode
	}
	return 0
}

// IsUnauthorized reports a missing, expired or revoked token.
func IsUnauthorized(err error) bool { return statusOf(err) == http.StatusUnauthorized }

// IsForbidden reports a token lacking the permission for the operation.
func IsForbidden(err error) bool { return statusOf(err) == http.StatusForbidden }

// IsNotFound reports a missing resource.
func IsNotFound(err error) bool { return statusOf(err) == http.StatusNotFound }
