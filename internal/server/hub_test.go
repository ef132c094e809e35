package server

import (
	"io"
	"log/slog"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dice-analyzer/internal/dataset"
)

func TestReloadBroadcastReachesClients(t *testing.T) {
	table, err := dataset.ReadCSV(strings.NewReader(sampleCSV))
	require.NoError(t, err)

	srv, err := New(Config{
		Logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}, table)
	require.NoError(t, err)

	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()

	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	defer conn.Close()

	// Registration happens in the upgrade handler, but give the reader
	// goroutine a moment to come up before broadcasting.
	time.Sleep(50 * time.Millisecond)
	srv.hub.broadcast("reload")

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var msg map[string]string
	require.NoError(t, conn.ReadJSON(&msg))
	assert.Equal(t, "reload", msg["event"])
}

func TestBroadcastDropsDeadConnections(t *testing.T) {
	table, err := dataset.ReadCSV(strings.NewReader(sampleCSV))
	require.NoError(t, err)

	srv, err := New(Config{
		Logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}, table)
	require.NoError(t, err)

	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()

	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	conn.Close()

	// The server notices the close either via its reader loop or on the
	// next failed write; both paths end with the client removed.
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		srv.hub.broadcast("reload")
		srv.hub.mu.Lock()
		n := len(srv.hub.conns)
		srv.hub.mu.Unlock()
		if n == 0 {
			return
		}
		time.Sleep(20 * time.Millisecond)
	}
	t.Error("Dead connection was never dropped")
}
