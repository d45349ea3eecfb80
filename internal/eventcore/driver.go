package eventcore

import (
	"context"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/dshills/eventcore/internal/corelog"
	"github.com/rs/zerolog"
)

// Ticker is the driver interface: a sub-manager exposes Tick and is driven
// by the run loop without being a registered component. A poller or timer
// source is the typical implementation.
type Ticker interface {
	Tick(ctx context.Context)
}

// Driver runs the foreground/background loop described in §4.5: each
// iteration invokes every registered ticker, then flushes the root
// manager's queue.
type Driver struct {
	root     *Manager
	interval time.Duration
	log      zerolog.Logger

	mu      sync.Mutex
	running bool
	stopCh  chan struct{}
	doneCh  chan struct{}
}

// NewDriver builds a Driver over root that runs one tick/flush iteration
// per interval, whether or not anything is queued. A non-positive interval
// becomes one millisecond.
func NewDriver(root *Manager, interval time.Duration) *Driver {
	if interval <= 0 {
		interval = time.Millisecond
	}
	return &Driver{
		root:     root.Root(),
		interval: interval,
		log:      corelog.For("eventcore.driver"),
	}
}

func (d *Driver) tick(ctx context.Context) {
	for _, t := range d.root.Tickers() {
		t.Tick(ctx)
	}
	if err := d.root.Flush(ctx); err != nil {
		d.log.Error().Err(err).Msg("flush returned error")
	}
}

// Run blocks the calling goroutine, looping tick/flush until ctx is
// cancelled or the process receives SIGINT/SIGTERM.
func (d *Driver) Run(ctx context.Context) {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	ticker := time.NewTicker(d.interval)
	defer ticker.Stop()

	d.log.Info().Msg("driver running in foreground")
	for {
		select {
		case <-ctx.Done():
			d.log.Info().Msg("driver stopping")
			return
		case <-ticker.C:
			d.tick(ctx)
		}
	}
}

// Start spawns the same loop as Run on a background goroutine and returns
// immediately. The goroutine does not block process exit.
func (d *Driver) Start(ctx context.Context) error {
	d.mu.Lock()
	if d.running {
		d.mu.Unlock()
		return ErrDriverRunning
	}
	d.running = true
	d.stopCh = make(chan struct{})
	d.doneCh = make(chan struct{})
	d.mu.Unlock()

	go func() {
		defer close(d.doneCh)
		ticker := time.NewTicker(d.interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-d.stopCh:
				return
			case <-ticker.C:
				d.tick(ctx)
			}
		}
	}()
	d.log.Info().Msg("driver started in background")
	return nil
}

// Stop cooperatively terminates the background loop at the next iteration
// boundary and waits for it to exit.
func (d *Driver) Stop() error {
	d.mu.Lock()
	if !d.running {
		d.mu.Unlock()
		return ErrDriverNotRunning
	}
	close(d.stopCh)
	d.mu.Unlock()

	<-d.doneCh

	d.mu.Lock()
	d.running = false
	d.mu.Unlock()
	d.log.Info().Msg("driver stopped")
	return nil
}
