package httpserver

import "errors"

var (
	// ErrAlreadyRunning is returned by Run when the server was started twice.
	ErrAlreadyRunning = errors.New("http server already running")
	// ErrServe indicates the server failed while listening or serving.
	ErrServe = errors.New("http server failed")
	// ErrShutdown indicates graceful shutdown did not complete in time.
	ErrShutdown = errors.New("http server shutdown failed")
)
