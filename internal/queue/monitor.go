package queue

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Pinger is the backend health probe. *pgxpool.Pool satisfies it
// directly.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Monitor polls the backend and exposes an edge-triggered reconnect
// signal: one tick per disconnected-to-connected transition. That edge
// is the sole trigger for queue replay.
type Monitor struct {
	pinger   Pinger
	interval time.Duration
	logger   *zap.SugaredLogger

	mu     sync.Mutex
	online bool

	reconnect chan struct{}
}

func NewMonitor(pinger Pinger, interval time.Duration, logger *zap.SugaredLogger) *Monitor {
	if interval <= 0 {
		interval = 15 * time.Second
	}
	return &Monitor{
		pinger:    pinger,
		interval:  interval,
		logger:    logger,
		online:    true,
		reconnect: make(chan struct{}, 1),
	}
}

// Online reports the last observed connectivity state.
func (m *Monitor) Online() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.online
}

// Reconnected delivers one signal per offline-to-online edge. The
// channel is buffered so a slow consumer coalesces edges instead of
// blocking the poll loop.
func (m *Monitor) Reconnected() <-chan struct{} {
	return m.reconnect
}

// Start polls until ctx is cancelled.
func (m *Monitor) Start(ctx context.Context) {
	go func() {
		ticker := time.NewTicker(m.interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				m.check(ctx)
			}
		}
	}()
}

func (m *Monitor) check(ctx context.Context) {
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	err := m.pinger.Ping(pingCtx)
	cancel()
	nowOnline := err == nil

	m.mu.Lock()
	wasOnline := m.online
	m.online = nowOnline
	m.mu.Unlock()

	if wasOnline == nowOnline {
		return
	}
	if nowOnline {
		m.logger.Infow("backend connectivity restored, signalling queue replay")
		select {
		case m.reconnect <- struct{}{}:
		default:
		}
		return
	}
	m.logger.Warnw("backend connectivity lost, submissions will queue", "error", err)
}
