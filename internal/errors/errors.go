package errors

import (
	"errors"
	"fmt"
	"net"
	"net/url"

	"github.com/chupakbra/mmgroups/internal/client"
	"github.com/chupakbra/mmgroups/internal/groupform"
)

// Handle maps transport and form errors to friendly user-facing messages and
// returns a formatted error that Cobra will print before exiting with code 1.
func Handle(instanceURL string, err error) error {
	if err == nil {
		return nil
	}

	switch {
	case client.IsUnauthorized(err):
		return fmt.Errorf("authentication failed: the access token is invalid or expired")
	case client.IsForbidden(err):
		return fmt.Errorf("permission denied: your account cannot manage this group")
	case client.IsNotFound(err):
		return fmt.Errorf("not found: the requested group or user does not exist")
	case groupform.ServerErrorID(err) == groupform.UniqueNameErrorID:
		return groupform.ErrDuplicateMention
	case isConnectionError(err):
		if instanceURL != "" {
			return fmt.Errorf("could not connect to %s, check the instance URL and your network", instanceURL)
		}
		return fmt.Errorf("could not connect to the server, check the instance URL and your network")
	default:
		return err
	}
}

func isConnectionError(err error) bool {
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return true
	}
	var opErr *net.OpError
	return errors.As(err, &opErr)
}
