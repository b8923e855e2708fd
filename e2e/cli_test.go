package e2e_test

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcoot/tetrisparty/internal/cli"
	"github.com/mcoot/tetrisparty/internal/model"
)

// testServer runs the real serve path on a free port
type testServer struct {
	addr     string
	scores   string
	shutdown func()
}

func startTestServer(t *testing.T) *testServer {
	t.Helper()

	// Find a free port
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	port := listener.Addr().(*net.TCPAddr).Port
	require.NoError(t, listener.Close())

	cfg := cli.DefaultServeConfig()
	cfg.Bind = "127.0.0.1"
	cfg.Port = port
	cfg.ScoresFile = filepath.Join(t.TempDir(), "scores.json")
	cfg.ReplayCooldown = 200 * time.Millisecond
	cfg.ReplayInterval = 10 * time.Millisecond
	require.NoError(t, cfg.Validate())

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- cli.Serve(ctx, cfg, logger)
	}()

	serverURL := "http://127.0.0.1:" + strconv.Itoa(port)
	waitForServer(t, serverURL+"/api/v1/health")

	return &testServer{
		addr:   serverURL,
		scores: cfg.ScoresFile,
		shutdown: func() {
			cancel()
			select {
			case err := <-done:
				assert.NoError(t, err)
			case <-time.After(15 * time.Second):
				t.Error("server did not stop")
			}
		},
	}
}

func waitForServer(t *testing.T, url string) {
	t.Helper()

	client := &http.Client{Timeout: 100 * time.Millisecond}
	deadline := time.Now().Add(5 * time.Second)

	for time.Now().Before(deadline) {
		resp, err := client.Get(url)
		if err == nil {
			_ = resp.Body.Close()
			if resp.StatusCode == http.StatusOK {
				return
			}
		}
		time.Sleep(50 * time.Millisecond)
	}

	t.Fatal("server did not become ready in time")
}

func runCLI(t *testing.T, serverURL string, args ...string) (string, error) {
	t.Helper()

	var out bytes.Buffer
	cmd := cli.NewRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(append([]string{"--server", serverURL, "--output", "json"}, args...))
	err := cmd.Execute()
	return out.String(), err
}

type frame struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

func dial(t *testing.T, serverURL string) *websocket.Conn {
	t.Helper()

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(serverURL, "http")+"/ws", nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func await(t *testing.T, conn *websocket.Conn, event string) frame {
	t.Helper()

	deadline := time.Now().Add(5 * time.Second)
	for {
		_ = conn.SetReadDeadline(deadline)
		var f frame
		require.NoError(t, conn.ReadJSON(&f), "waiting for %s", event)
		if f.Event == event {
			return f
		}
	}
}

type healthResponse struct {
	Status string `json:"status"`
	Arcade struct {
		Playing bool `json:"playing"`
		Queued  int  `json:"queued"`
		Viewers int  `json:"viewers"`
	} `json:"arcade"`
}

// Tests

func TestCLI_HealthCheck(t *testing.T) {
	ts := startTestServer(t)
	defer ts.shutdown()

	output, err := runCLI(t, ts.addr, "health")
	require.NoError(t, err, "output: %s", output)

	var resp healthResponse
	require.NoError(t, json.Unmarshal([]byte(output), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.False(t, resp.Arcade.Playing)
}

func TestCLI_EmptyScores(t *testing.T) {
	ts := startTestServer(t)
	defer ts.shutdown()

	output, err := runCLI(t, ts.addr, "scores")
	require.NoError(t, err, "output: %s", output)
	assert.JSONEq(t, `[]`, output)
}

func TestCLI_ErrorHandling(t *testing.T) {
	ts := startTestServer(t)
	defer ts.shutdown()

	output, err := runCLI(t, ts.addr, "scores", "--limit", "500")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "INVALID_REQUEST", "output: %s", output)
}

func TestFullGameIsScoredAndReplayed(t *testing.T) {
	ts := startTestServer(t)
	defer ts.shutdown()

	display := dial(t, ts.addr)
	require.NoError(t, display.WriteJSON(map[string]string{"event": model.EventDisplayConnect}))
	await(t, display, model.EventGameConfig)

	player := dial(t, ts.addr)
	require.NoError(t, player.WriteJSON(map[string]string{"event": model.EventControlsConnect}))
	await(t, player, model.EventGameStart)

	// Hard drops top the board out within a couple hundred pieces
	// whatever the random sequence
	ended := false
	for i := 0; i < 400 && !ended; i++ {
		require.NoError(t, player.WriteJSON(map[string]any{
			"event": model.EventGameUpdate,
			"data":  map[string]string{"action": string(model.ActionHardDrop)},
		}))

		output, err := runCLI(t, ts.addr, "health")
		require.NoError(t, err)
		var resp healthResponse
		require.NoError(t, json.Unmarshal([]byte(output), &resp))
		ended = !resp.Arcade.Playing
	}
	require.True(t, ended, "game never ended")

	end := await(t, player, model.EventGameEnd)
	var final model.GameEndPayload
	require.NoError(t, json.Unmarshal(end.Data, &final))
	await(t, player, model.EventScoreSaved)

	output, err := runCLI(t, ts.addr, "scores")
	require.NoError(t, err)
	var entries []model.ScoreEntry
	require.NoError(t, json.Unmarshal([]byte(output), &entries))
	require.Len(t, entries, 1)
	assert.Equal(t, final.Score, entries[0].Points)
	assert.Equal(t, final.Lines, entries[0].Lines)

	// The score log on disk matches
	data, err := os.ReadFile(ts.scores)
	require.NoError(t, err)
	var onDisk []model.ScoreEntry
	require.NoError(t, json.Unmarshal(data, &onDisk))
	assert.Len(t, onDisk, 1)

	// The display sees the finished game replayed
	await(t, display, model.EventReplayStart)
	await(t, display, model.EventUpdateGame)
}
