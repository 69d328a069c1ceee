package network

import (
	"context"
	"fmt"
	"net"
	"sync"

	"github.com/pires/go-proxyproto"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"

	"github.com/snapgo-project/snapgo/internal/config"
	"github.com/snapgo-project/snapgo/internal/metrics"
	"github.com/snapgo-project/snapgo/internal/protocol/packets"
)

// Manager is the connection manager of spec §4.5: it owns the accept
// loop, the connection registry, and handover of logged-in connections
// to the game layer.
type Manager struct {
	cfgStore *config.Store
	metrics  *metrics.Connections

	mu        sync.RWMutex
	listener  net.Listener
	shutdown  chan struct{}
	closeOnce sync.Once
	wg        sync.WaitGroup

	registry *registry

	registeredMu sync.Mutex
	registered   map[string]GameConn

	// OnRegistered is invoked once per connection whose first inbound
	// packet is the InternalServerInitialize handover signal (spec §4.5's
	// handover trigger); a connection whose first inbound packet is
	// anything else is never registered. The game layer supplies this to
	// receive ownership of conn's packet stream.
	OnRegistered func(conn GameConn)
}

// NewManager constructs a Manager reading its configuration from
// cfgStore so a hot-reloaded motd/max_players (spec §6.4) is observed by
// the next status response without restarting the process.
func NewManager(cfgStore *config.Store, m *metrics.Connections) *Manager {
	return &Manager{
		cfgStore:   cfgStore,
		metrics:    m,
		shutdown:   make(chan struct{}),
		registered: make(map[string]GameConn),
	}
}

// Start binds the listener and spawns the accept loop (spec §4.5).
func (m *Manager) Start() error {
	cfg := m.cfgStore.Get()
	addr := fmt.Sprintf("127.0.0.1:%d", cfg.Network.Port)

	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}

	if cfg.Network.Advanced.ProxyProtocol {
		ln = &proxyproto.Listener{Listener: ln}
		logrus.Info("accepting connections with PROXY protocol enabled")
	}

	m.listener = ln
	m.registry = newRegistry(cfg.Network.MaxPlayers)

	logrus.WithField("addr", addr).Info("listening for connections")

	m.wg.Add(1)
	go m.acceptLoop()
	return nil
}

func (m *Manager) acceptLoop() {
	defer m.wg.Done()
	defer m.listener.Close()

	var limiter *rate.Limiter
	if l := m.cfgStore.Get().Network.Advanced.AcceptRateLimit; l > 0 {
		burst := int(m.cfgStore.Get().Network.Advanced.AcceptRateBurst)
		if burst <= 0 {
			burst = 1
		}
		limiter = rate.NewLimiter(rate.Limit(l), burst)
	}

	for {
		conn, err := m.listener.Accept()
		if err != nil {
			select {
			case <-m.shutdown:
				return
			default:
				logrus.WithError(err).Error("accept failed")
				continue
			}
		}

		if limiter != nil && !limiter.Allow() {
			if m.metrics != nil {
				m.metrics.Rejected.Add(1)
			}
			conn.Close()
			continue
		}

		m.acceptOne(conn)
	}
}

func (m *Manager) acceptOne(conn net.Conn) {
	if tcp, ok := conn.(*net.TCPConn); ok {
		_ = tcp.SetNoDelay(true)
	}

	cfg := m.cfgStore.Get()
	online := m.registry.len()

	engine, gameConn := NewConnection(conn, cfg, online, m.metrics)
	key := m.registry.insert(engine)

	if m.metrics != nil {
		m.metrics.Accepted.Add(1)
		m.metrics.Active.Add(1)
	}

	m.wg.Add(1)
	go m.watchDisconnect(engine, key)

	m.wg.Add(1)
	go m.watchFirstInbound(engine, gameConn)
}

// watchDisconnect is the manager's disconnect-watcher helper task (spec
// §4.5): it removes the connection from the registry once its shutdown
// latch fires, logging the reason if non-empty.
func (m *Manager) watchDisconnect(engine *Connection, key registryKey) {
	defer m.wg.Done()

	<-engine.ShutdownNotify()
	if _, ok := m.registry.remove(key); ok {
		if m.metrics != nil {
			m.metrics.Active.Add(-1)
		}
	}

	if reason := engine.ShutdownReason(); reason != "" {
		logrus.WithField("conn", engine.ID()).WithField("reason", reason).Info("connection closed")
	} else {
		logrus.WithField("conn", engine.ID()).Debug("connection closed")
	}

	engine.Destroy()
	m.unregister(engine.ID().String())
}

// watchFirstInbound is the manager's first-inbound-packet watcher (spec
// §4.5): once the login preamble forwards its synthetic handover packet,
// the GameConn is moved into the registered map and handed to the game
// layer. Rationale: once registered, the game layer owns the packet
// stream, including any subsequent disconnect.
func (m *Manager) watchFirstInbound(engine *Connection, gameConn GameConn) {
	defer m.wg.Done()

	select {
	case pkt, ok := <-engine.Inbound():
		if !ok {
			return
		}
		if _, isInit := pkt.(*packets.InternalServerInitialize); !isInit {
			return
		}
		m.registeredMu.Lock()
		m.registered[gameConn.ID.String()] = gameConn
		m.registeredMu.Unlock()

		if m.OnRegistered != nil {
			m.OnRegistered(gameConn)
		}
	case <-engine.ShutdownNotify():
	}
}

func (m *Manager) unregister(id string) {
	m.registeredMu.Lock()
	defer m.registeredMu.Unlock()
	delete(m.registered, id)
}

// Registered returns the GameConn handed over for id, if any is still
// tracked.
func (m *Manager) Registered(id string) (GameConn, bool) {
	m.registeredMu.Lock()
	defer m.registeredMu.Unlock()
	gc, ok := m.registered[id]
	return gc, ok
}

// Len reports the number of connections currently tracked by the
// registry (handed over or not) — the "online" count the next accepted
// connection's status response will see.
func (m *Manager) Len() int {
	return m.registry.len()
}

// Stop stops accepting new connections and drains the registry, calling
// destroy on each engine (spec §4.5's manager-shutdown behavior).
// Idempotent.
func (m *Manager) Stop(ctx context.Context) {
	m.closeOnce.Do(func() {
		close(m.shutdown)
		if m.listener != nil {
			m.listener.Close()
		}
	})

	if m.registry != nil {
		for _, conn := range m.registry.drain() {
			conn.Destroy()
		}
	}

	done := make(chan struct{})
	go func() {
		m.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-ctx.Done():
		logrus.Warn("manager shutdown timed out waiting for tasks")
	}
}
