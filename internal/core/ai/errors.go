package ai

import "errors"

var (
	// ErrNoCredential means no API key is configured.
	ErrNoCredential = errors.New("ai: no API credential configured")
	// ErrMalformedResponse means the model answered with something that is
	// not a usable recipe document.
	ErrMalformedResponse = errors.New("ai: malformed response")
	// ErrUpstream wraps network and HTTP status failures.
	ErrUpstream = errors.New("ai: upstream request failed")
	// ErrRateLimited means the local call gate refused the request.
	ErrRateLimited = errors.New("ai: rate limited")
)
