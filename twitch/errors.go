package twitch

import "errors"

var (
	// ErrTransport wraps network-level failures (unreachable endpoint, timeout).
	ErrTransport = errors.New("transport failure")
	// ErrMalformedResponse wraps decode failures and structurally invalid payloads.
	ErrMalformedResponse = errors.New("malformed response")
)
