// Package httpserver runs the dashboard gateway's HTTP server with graceful
// shutdown.
//
// The server stops on context cancellation or on SIGINT/SIGTERM, draining
// in-flight requests within the shutdown timeout. The write timeout defaults
// to zero because the dashboard keeps long-lived SSE streams open; set one
// explicitly when no streaming routes are mounted.
//
//	srv := httpserver.New(httpserver.WithAddr(":8080"))
//	if err := srv.Run(ctx, router); err != nil {
//		log.Error("server failed", logger.Error(err))
//	}
package httpserver
