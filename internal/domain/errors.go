package domain

import "errors"

// Sentinel errors for domain operations
var (
	// ErrListFetch indicates the media directory could not be listed
	ErrListFetch = errors.New("media list fetch failed")

	// ErrDownload indicates a full-size image could not be fetched
	ErrDownload = errors.New("image download failed")

	// ErrServerOffline indicates the Home Assistant server is unreachable
	ErrServerOffline = errors.New("home assistant is unreachable")

	// ErrAuthFailed indicates the access token was rejected
	ErrAuthFailed = errors.New("access token is invalid")

	// ErrUnknownShape indicates a browse response matched neither known shape
	ErrUnknownShape = errors.New("unrecognized browse response")

	// ErrDisposed indicates an operation on a card that has been torn down
	ErrDisposed = errors.New("card is disposed")
)
