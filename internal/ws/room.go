package ws

import "sync"

// group is one multicast group: the set of connections subscribed to a room id.
type group struct {
	mu    sync.RWMutex
	conns map[*Conn]struct{}
}

func newGroup() *group { return &group{conns: map[*Conn]struct{}{}} }

func (g *group) add(c *Conn) {
	g.mu.Lock()
	g.conns[c] = struct{}{}
	g.mu.Unlock()
}

// remove reports whether the group is empty afterwards.
func (g *group) remove(c *Conn) bool {
	g.mu.Lock()
	delete(g.conns, c)
	empty := len(g.conns) == 0
	g.mu.Unlock()
	return empty
}

func (g *group) size() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return len(g.conns)
}

// broadcast writes msg to every member except the connection with exceptID
// (empty id sends to all) and returns the connections whose write failed;
// the hub is responsible for pruning those.
func (g *group) broadcast(msg []byte, exceptID string) []*Conn {
	// Take a quick snapshot of the current connections
	g.mu.RLock()
	conns := make([]*Conn, 0, len(g.conns))
	for c := range g.conns {
		if c.id != exceptID {
			conns = append(conns, c)
		}
	}
	g.mu.RUnlock()

	// Do the I/O outside the lock
	var failed []*Conn
	for _, c := range conns {
		if err := c.write(msg); err != nil {
			failed = append(failed, c)
		}
	}
	return failed
}
