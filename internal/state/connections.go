package state

import (
	"slices"

	"github.com/five82/flock/internal/api"
)

// ConnectionsState owns the users known to the viewer.
type ConnectionsState struct {
	Connections []api.User // share recipients
	Pending     []api.User
	Followers   []api.User
	Following   []api.User
	Loading     bool
	NetLoading  bool
	Error       string
}

// LikedByConnection returns the share-recipient connections whose id is in
// the post's like set, in connection order.
func (s ConnectionsState) LikedByConnection(post api.Post) []api.User {
	var out []api.User
	for _, u := range s.Connections {
		if post.Likes.Has(u.ID) {
			out = append(out, u)
		}
	}
	return out
}

// User looks up a known user by id across every list.
func (s ConnectionsState) User(id string) (api.User, bool) {
	for _, list := range [][]api.User{s.Connections, s.Following, s.Followers, s.Pending} {
		for _, u := range list {
			if u.ID == id {
				return u, true
			}
		}
	}
	return api.User{}, false
}

func (s ConnectionsState) clone() ConnectionsState {
	out := s
	out.Connections = slices.Clone(s.Connections)
	out.Pending = slices.Clone(s.Pending)
	out.Followers = slices.Clone(s.Followers)
	out.Following = slices.Clone(s.Following)
	return out
}

func reduceConnections(s ConnectionsState, a Action) ConnectionsState {
	switch a := a.(type) {
	case ConnectionsFetchPending:
		s.Loading = true
		s.Error = ""

	case ConnectionsFetchFulfilled:
		s.Loading = false
		s.Connections = slices.Clone(a.Connections)

	case ConnectionsFetchRejected:
		s.Loading = false
		s.Error = a.Message

	case NetworkFetchPending:
		s.NetLoading = true
		s.Error = ""

	case NetworkFetchFulfilled:
		s.NetLoading = false
		s.Pending = slices.Clone(a.Network.Pending)
		s.Followers = slices.Clone(a.Network.Followers)
		s.Following = slices.Clone(a.Network.Following)
		if len(s.Connections) == 0 {
			s.Connections = slices.Clone(a.Network.Connections)
		}

	case NetworkFetchRejected:
		s.NetLoading = false
		s.Error = a.Message
	}
	return s
}
