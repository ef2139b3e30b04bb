package remote

import (
	"errors"
	"fmt"
)

var ErrAuthenticationFailed = errors.New("authentication failed: invalid database, login or password")

// RPCError is an error payload returned by the remote server.
type RPCError struct {
	Code    int
	Message string
	Name    string // server exception class, e.g. odoo.exceptions.AccessError
	Detail  string
}

func (e *RPCError) Error() string {
	msg := e.Message
	if e.Detail != "" {
		msg = e.Detail
	}
	if e.Name != "" {
		return fmt.Sprintf("%s: %s", e.Name, msg)
	}
	return msg
}

// TransportError is returned when the server answered with a non-200 status.
type TransportError struct {
	StatusCode int
	Body       string
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("remote responded with status %d: %s", e.StatusCode, e.Body)
}
