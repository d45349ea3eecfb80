package remotebridge

import (
	"context"
	"fmt"
	"sync"

	"github.com/dshills/eventcore/internal/corelog"
	"github.com/dshills/eventcore/internal/eventcore"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
)

// Peer is one named remote connection a Bridge forwards events to and
// receives events from. Reads happen on their own goroutine, grounded on
// the same dedicated-readLoop-plus-guarded-writes shape the pack's other
// websocket client uses.
type Peer struct {
	name string
	conn *websocket.Conn
	root *eventcore.Manager

	writeMu sync.Mutex
	log     zerolog.Logger

	closeOnce sync.Once
	done      chan struct{}
}

// Dial opens an outbound connection to a peer event bus at url and starts
// relaying events received from it into root.
func Dial(ctx context.Context, url, name string, root *eventcore.Manager) (*Peer, error) {
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, url, nil)
	if err != nil {
		return nil, fmt.Errorf("remotebridge: dial %s: %w", name, err)
	}
	return newPeer(name, conn, root), nil
}

// newPeer wraps an already-established connection (outbound via Dial, or
// inbound via Server's upgrader) and starts its read loop.
func newPeer(name string, conn *websocket.Conn, root *eventcore.Manager) *Peer {
	p := &Peer{
		name: name,
		conn: conn,
		root: root,
		log:  corelog.ForManager("remotebridge.peer", name),
		done: make(chan struct{}),
	}
	go p.readLoop()
	return p
}

// Send writes ev to this peer unless the event is marked to ignore it
// (it originated from this peer, or was explicitly excluded).
func (p *Peer) Send(ev *eventcore.Event) error {
	if ignores(ev, p.name) {
		return nil
	}
	p.writeMu.Lock()
	defer p.writeMu.Unlock()
	return p.conn.WriteJSON(toWire(ev))
}

// Close terminates the connection and its read loop. Safe to call more
// than once.
func (p *Peer) Close() error {
	var err error
	p.closeOnce.Do(func() {
		err = p.conn.Close()
		close(p.done)
	})
	return err
}

// Done reports when the peer's read loop has exited, either because the
// connection closed or a read error occurred.
func (p *Peer) Done() <-chan struct{} {
	return p.done
}

func (p *Peer) readLoop() {
	defer func() {
		p.closeOnce.Do(func() {
			p.conn.Close()
			close(p.done)
		})
	}()
	for {
		var msg wireEvent
		if err := p.conn.ReadJSON(&msg); err != nil {
			if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				p.log.Info().Msg("peer closed connection")
				return
			}
			p.log.Error().Err(err).Msg("peer read error")
			return
		}
		ev := msg.toEvent(p.name)
		if _, err := p.root.Send(context.Background(), ev, ev.Channel, ev.Target); err != nil {
			p.log.Error().Err(err).Str("event", ev.Name).Msg("dispatch of remote event failed")
		}
	}
}
