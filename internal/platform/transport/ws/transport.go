package ws

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/jwpark-dev/cardtable/internal/model"
	"github.com/jwpark-dev/cardtable/internal/platform/transport"
)

// Errors returned by the websocket transport
var (
	ErrNotConfigured = errors.New("transport is not configured")
	ErrRoleActive    = errors.New("transport already has an active role")
)

const (
	relayPathPrefix = "/relay/"
	pongWait        = 60 * time.Second
	pingPeriod      = 25 * time.Second
)

// Transport carries session traffic over websocket connections. The host
// role listens on the allocation endpoint; the client role dials it. Only
// peer attach/detach signals are surfaced here; payload framing belongs to
// the game layer.
type Transport struct {
	logger *slog.Logger

	mu         sync.Mutex
	cb         transport.Callbacks
	info       *model.ConnectionInfo
	role       model.SessionRole
	server     *http.Server
	clientConn *websocket.Conn
	peers      map[model.ConnectionID]*websocket.Conn
}

// New creates a new websocket transport
func New(logger *slog.Logger) *Transport {
	return &Transport{
		logger: logger.With(slog.String("component", "ws-transport")),
		role:   model.RoleNone,
		peers:  make(map[model.ConnectionID]*websocket.Conn),
	}
}

// Ensure Transport implements the contract
var _ transport.Transport = (*Transport)(nil)

// SetCallbacks registers peer lifecycle callbacks
func (t *Transport) SetCallbacks(cb transport.Callbacks) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.cb = cb
}

// Configure supplies the relay connection parameters for the next start
func (t *Transport) Configure(info model.ConnectionInfo) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.role == model.RoleHost || t.role == model.RoleClient {
		return ErrRoleActive
	}
	t.info = &info
	return nil
}

// StartHost listens on the allocation endpoint and accepts peer
// connections
func (t *Transport) StartHost(ctx context.Context) error {
	t.mu.Lock()
	if t.info == nil {
		t.mu.Unlock()
		return ErrNotConfigured
	}
	if t.role == model.RoleHost || t.role == model.RoleClient {
		t.mu.Unlock()
		return ErrRoleActive
	}
	info := *t.info
	t.mu.Unlock()

	ln, err := net.Listen("tcp", info.Endpoint)
	if err != nil {
		return fmt.Errorf("listen on relay endpoint: %w", err)
	}

	upgrader := websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		// Peers are relay-authenticated by join code before reaching here
		CheckOrigin: func(r *http.Request) bool { return true },
	}

	mux := http.NewServeMux()
	mux.HandleFunc(relayPathPrefix+string(info.AllocationID), func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			t.logger.Warn("websocket upgrade failed", slog.Any("error", err))
			return
		}
		t.acceptPeer(conn)
	})

	server := &http.Server{Handler: mux}

	t.mu.Lock()
	t.role = model.RoleHost
	t.server = server
	t.mu.Unlock()

	go func() {
		if err := server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			t.logger.Error("host transport stopped", slog.Any("error", err))
		}
	}()

	return nil
}

// StartClient dials the configured allocation's host
func (t *Transport) StartClient(ctx context.Context) error {
	t.mu.Lock()
	if t.info == nil {
		t.mu.Unlock()
		return ErrNotConfigured
	}
	if t.role == model.RoleHost || t.role == model.RoleClient {
		t.mu.Unlock()
		return ErrRoleActive
	}
	info := *t.info
	cb := t.cb
	t.mu.Unlock()

	url := fmt.Sprintf("ws://%s%s%s", info.Endpoint, relayPathPrefix, info.AllocationID)
	conn, resp, err := websocket.DefaultDialer.DialContext(ctx, url, nil)
	if err != nil {
		return fmt.Errorf("dial host: %w", err)
	}
	if resp != nil && resp.Body != nil {
		_ = resp.Body.Close()
	}

	id := model.ConnectionID(uuid.NewString())

	t.mu.Lock()
	t.role = model.RoleClient
	t.clientConn = conn
	t.mu.Unlock()

	if cb.OnPeerConnected != nil {
		cb.OnPeerConnected(id)
	}

	go t.readUntilClosed(conn, id)
	return nil
}

// Stop tears down the active role and drops all peers
func (t *Transport) Stop(ctx context.Context) error {
	t.mu.Lock()
	server := t.server
	clientConn := t.clientConn
	peers := t.peers
	t.role = model.RoleNone
	t.info = nil
	t.server = nil
	t.clientConn = nil
	t.peers = make(map[model.ConnectionID]*websocket.Conn)
	t.mu.Unlock()

	for _, conn := range peers {
		_ = conn.Close()
	}
	if clientConn != nil {
		_ = clientConn.Close()
	}
	if server != nil {
		return server.Shutdown(ctx)
	}
	return nil
}

// acceptPeer registers an incoming connection and watches it until it
// closes
func (t *Transport) acceptPeer(conn *websocket.Conn) {
	id := model.ConnectionID(uuid.NewString())

	t.mu.Lock()
	t.peers[id] = conn
	cb := t.cb
	t.mu.Unlock()

	t.logger.Info("peer connected", slog.String("connection_id", string(id)))
	if cb.OnPeerConnected != nil {
		cb.OnPeerConnected(id)
	}

	go t.readUntilClosed(conn, id)
}

// readUntilClosed consumes the connection until it errors, then fires the
// disconnect callback
func (t *Transport) readUntilClosed(conn *websocket.Conn, id model.ConnectionID) {
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	done := make(chan struct{})
	go func() {
		ticker := time.NewTicker(pingPeriod)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(5*time.Second)); err != nil {
					return
				}
			case <-done:
				return
			}
		}
	}()

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
		_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	}
	close(done)
	_ = conn.Close()

	t.mu.Lock()
	_, tracked := t.peers[id]
	delete(t.peers, id)
	wasClient := t.clientConn == conn
	if wasClient {
		t.clientConn = nil
	}
	cb := t.cb
	t.mu.Unlock()

	if (tracked || wasClient) && cb.OnPeerDisconnected != nil {
		t.logger.Info("peer disconnected", slog.String("connection_id", string(id)))
		cb.OnPeerDisconnected(id)
	}
}
