package state

import (
	"sync"
	"time"
)

// Snapshot is a point-in-time copy of every slice.
type Snapshot struct {
	Comments    CommentsState
	Bookmarks   BookmarksState
	Posts       PostsState
	Connections ConnectionsState
	Version     uint64
	UpdatedAt   time.Time
}

func (s Snapshot) clone() Snapshot {
	out := s
	out.Comments = s.Comments.clone()
	out.Bookmarks = s.Bookmarks.clone()
	out.Posts = s.Posts.clone()
	out.Connections = s.Connections.clone()
	return out
}

// reduce applies a to every slice. It never mutates prev.
func reduce(prev Snapshot, a Action) Snapshot {
	next := prev
	next.Comments = reduceComments(prev.Comments, a)
	next.Bookmarks = reduceBookmarks(prev.Bookmarks, a)
	next.Posts = reducePosts(prev.Posts, a)
	next.Connections = reduceConnections(prev.Connections, a)
	return next
}

// Listener receives a private copy of the state after each dispatch.
type Listener func(Snapshot)

type subscriber struct {
	id int
	fn Listener
}

// Store holds the client's view state. The zero value is ready to use.
//
// Dispatches are serialized: each one reduces and then notifies every
// listener before the next begins, so listeners observe versions in order.
// Listeners run on the dispatching goroutine and must not call Dispatch.
type Store struct {
	dispatchMu sync.Mutex

	mu    sync.RWMutex
	state Snapshot

	subMu  sync.Mutex
	subs   []subscriber
	nextID int
}

// Dispatch applies a and notifies listeners synchronously.
func (s *Store) Dispatch(a Action) {
	if a == nil {
		return
	}
	s.dispatchMu.Lock()
	defer s.dispatchMu.Unlock()

	s.mu.Lock()
	next := reduce(s.state, a)
	next.Version = s.state.Version + 1
	next.UpdatedAt = time.Now()
	s.state = next
	s.mu.Unlock()

	s.subMu.Lock()
	subs := make([]subscriber, len(s.subs))
	copy(subs, s.subs)
	s.subMu.Unlock()

	for _, sub := range subs {
		sub.fn(next.clone())
	}
}

// Subscribe registers fn and returns a function that removes it.
func (s *Store) Subscribe(fn Listener) func() {
	if fn == nil {
		return func() {}
	}
	s.subMu.Lock()
	defer s.subMu.Unlock()
	s.nextID++
	id := s.nextID
	s.subs = append(s.subs, subscriber{id: id, fn: fn})

	var once sync.Once
	return func() {
		once.Do(func() {
			s.subMu.Lock()
			defer s.subMu.Unlock()
			for i, sub := range s.subs {
				if sub.id == id {
					s.subs = append(s.subs[:i:i], s.subs[i+1:]...)
					return
				}
			}
		})
	}
}

// Snapshot returns a copy of the current state.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.clone()
}

// Comments selects the comments slice.
func (s *Store) Comments() CommentsState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.Comments.clone()
}

// Bookmarks selects the bookmarks slice.
func (s *Store) Bookmarks() BookmarksState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.Bookmarks.clone()
}

// Posts selects the posts slice.
func (s *Store) Posts() PostsState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.Posts.clone()
}

// Connections selects the connections slice.
func (s *Store) Connections() ConnectionsState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.Connections.clone()
}
