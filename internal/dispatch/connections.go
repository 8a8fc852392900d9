package dispatch

import (
	"context"

	"github.com/five82/flock/internal/state"
)

// FetchPostConnections loads the users a post can be shared with.
func (c *Coordinator) FetchPostConnections(ctx context.Context) error {
	c.store.Dispatch(state.ConnectionsFetchPending{})
	users, err := c.api.FetchPostConnections(ctx)
	if err != nil {
		return c.reject("fetch connections", "Failed to fetch connections", err, func(msg string) state.Action {
			return state.ConnectionsFetchRejected{Message: msg}
		})
	}
	c.store.Dispatch(state.ConnectionsFetchFulfilled{Connections: users})
	return nil
}

// FetchUserConnections loads the viewer's followers, following and pending
// requests.
func (c *Coordinator) FetchUserConnections(ctx context.Context) error {
	c.store.Dispatch(state.NetworkFetchPending{})
	network, err := c.api.FetchUserConnections(ctx)
	if err != nil {
		return c.reject("fetch user connections", "Failed to fetch user connections", err, func(msg string) state.Action {
			return state.NetworkFetchRejected{Message: msg}
		})
	}
	c.store.Dispatch(state.NetworkFetchFulfilled{Network: network})
	return nil
}
