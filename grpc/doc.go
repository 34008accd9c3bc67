// Package grpc provides gRPC client configuration, error mapping and
// interceptors for talking to local speech services over unix sockets.
//
// # Client
//
// The grpc/client sub-package dials a unix-socket endpoint lazily:
//
//	conn, err := client.NewClient(socketPath, cfg, log)
//
// # Errors
//
// FromStatus maps gRPC statuses onto vetta AppErrors. Unavailable and
// dial failures become CONNECTION_FAILED; every other status becomes
// SERVICE_ERROR with the status code in the status_code detail.
//
// # Interceptors
//
// The grpc/interceptor sub-package logs streaming calls with structured fields.
package grpc
