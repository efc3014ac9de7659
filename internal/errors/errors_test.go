package errors

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/chupakbra/mmgroups/internal/client"
	"github.com/chupakbra/mmgroups/internal/groupform"
)

func TestHandle(t *testing.T) {
	assert.NoError(t, Handle("", nil))

	tests := []struct {
		name string
		err  error
		want string
	}{
		{"unauthorized", &client.AppError{StatusCode: http.StatusUnauthorized}, "authentication failed"},
		{"forbidden", fmt.Errorf("x: %w", &client.AppError{StatusCode: http.StatusForbidden}), "permission denied"},
		{"not found", &client.AppError{StatusCode: http.StatusNotFound}, "not found"},
		{"duplicate", &client.AppError{StatusCode: http.StatusBadRequest, ID: groupform.UniqueNameErrorID}, "unique"},
		{"connection", &url.Error{Op: "Get", URL: "https://chat", Err: errors.New("connection refused")}, "could not connect to https://chat"},
		{"passthrough", errors.New("something else"), "something else"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorContains(t, Handle("https://chat", tt.err), tt.want)
		})
	}
}
