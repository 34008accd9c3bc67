// Package errors provides unified error handling for vetta.
// It implements a single structured error type whose Code tags the failure
// kind, and groups codes into input, transport and service classes so
// callers never conflate the failure domains.
package errors
