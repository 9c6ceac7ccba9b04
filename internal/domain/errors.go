package domain

import "errors"

// Sentinel errors for domain operations
var (
	// ErrNotFound indicates the requested artist, album or song does not exist
	ErrNotFound = errors.New("catalog item not found")

	// ErrServerOffline indicates the catalog server is unreachable
	ErrServerOffline = errors.New("catalog server is unreachable")

	// ErrAuthFailed indicates the server rejected the credentials
	ErrAuthFailed = errors.New("wrong username or password")

	// ErrUnexpectedResult indicates a result did not match the request that produced it
	ErrUnexpectedResult = errors.New("result does not match request")
)
