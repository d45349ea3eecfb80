package remotebridge

import (
	"context"
	"fmt"
	"net/http"
	"sync"

	"github.com/dshills/eventcore/internal/corelog"
	"github.com/dshills/eventcore/internal/eventcore"
	"github.com/gorilla/websocket"
)

// Bridge is a component named "remote" that forwards an event to one named
// peer when it receives an event on the reserved "remote" channel, the Go
// analogue of the original Node's @handler("remote") method: the event's
// first argument names the peer, the rest of its positional arguments are
// the channels to re-address the forwarded event onto.
type Bridge struct {
	*eventcore.Component

	mu    sync.Mutex
	peers map[string]*Peer
	root  *eventcore.Manager
}

// NewBridge builds an unattached Bridge component over root. Register it
// with root (or any manager whose root is the same tree) to make its
// "remote" handler live.
func NewBridge(root *eventcore.Manager) *Bridge {
	b := &Bridge{peers: make(map[string]*Peer), root: root}
	forward := eventcore.ListenerWithEvent(b.onRemote, eventcore.OnChannels("remote"), eventcore.Named("remotebridge.forward"))
	b.Component = eventcore.NewComponent("remote", b, []*eventcore.Handler{forward}, eventcore.WithChannel("remote"))
	return b
}

func (b *Bridge) onRemote(ctx context.Context, ev *eventcore.Event, args []any, _ map[string]any) (any, error) {
	if len(args) == 0 {
		return nil, fmt.Errorf("remotebridge: remote event missing peer name argument")
	}
	peerName, ok := args[0].(string)
	if !ok {
		return nil, fmt.Errorf("remotebridge: remote event's first argument must be a peer name")
	}
	b.mu.Lock()
	peer, ok := b.peers[peerName]
	b.mu.Unlock()
	if !ok {
		return nil, fmt.Errorf("remotebridge: no peer named %q", peerName)
	}

	channels := make([]string, 0, len(args)-1)
	for _, a := range args[1:] {
		if ch, ok := a.(string); ok {
			channels = append(channels, ch)
		}
	}
	if len(channels) == 0 {
		return nil, peer.Send(ev)
	}
	for _, ch := range channels {
		ev.Channel = ch
		ev.Target = ""
		if err := peer.Send(ev); err != nil {
			return nil, err
		}
	}
	return nil, nil
}

// AddPeer wraps conn as a named peer, starting its read loop, and makes it
// reachable via a "remote" event naming peerName.
func (b *Bridge) AddPeer(peerName string, conn *websocket.Conn) *Peer {
	peer := newPeer(peerName, conn, b.root)
	b.mu.Lock()
	b.peers[peerName] = peer
	b.mu.Unlock()
	return peer
}

// RemovePeer closes and forgets the named peer, if present.
func (b *Bridge) RemovePeer(peerName string) {
	b.mu.Lock()
	peer, ok := b.peers[peerName]
	delete(b.peers, peerName)
	b.mu.Unlock()
	if ok {
		peer.Close()
	}
}

// Server upgrades inbound HTTP connections to websockets and registers
// each one as a peer of bridge, named from the request's "peer" query
// parameter.
type Server struct {
	bridge   *Bridge
	upgrader websocket.Upgrader
}

// NewServer builds a Server that adds inbound connections to bridge.
func NewServer(bridge *Bridge) *Server {
	return &Server{bridge: bridge}
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	peerName := r.URL.Query().Get("peer")
	if peerName == "" {
		http.Error(w, "missing peer query parameter", http.StatusBadRequest)
		return
	}
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		corelog.For("remotebridge.server").Error().Err(err).Msg("upgrade failed")
		return
	}
	s.bridge.AddPeer(peerName, conn)
}
