// Package delivery defines the contract every transport surface implements.
package delivery

import "context"

// Delivery is a long-running transport (HTTP server, worker, ...) started by
// the application container. Serve blocks until the delivery stops.
type Delivery interface {
	Serve(ctx context.Context) error
}
