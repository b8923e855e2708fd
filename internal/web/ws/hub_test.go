package ws

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/suite"

	"github.com/mcoot/tetrisparty/internal/model"
	"github.com/mcoot/tetrisparty/internal/services/arcade"
	"github.com/mcoot/tetrisparty/internal/testutil"
)

// chanSink collects inbound events
type chanSink struct {
	events chan arcade.Event
}

func (c *chanSink) Post(ev arcade.Event) {
	c.events <- ev
}

type HubSuite struct {
	suite.Suite
	sink   *chanSink
	hub    *Hub
	server *httptest.Server
}

func TestHubSuite(t *testing.T) {
	suite.Run(t, new(HubSuite))
}

func (s *HubSuite) SetupTest() {
	s.sink = &chanSink{events: make(chan arcade.Event, 64)}
	s.hub = NewHub(s.sink, DefaultConfig(), testutil.NopLogger())
	s.server = httptest.NewServer(http.HandlerFunc(s.hub.ServeWS))
}

func (s *HubSuite) TearDownTest() {
	s.hub.Close()
	s.server.Close()
}

func (s *HubSuite) dial() *websocket.Conn {
	url := "ws" + strings.TrimPrefix(s.server.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	s.Require().NoError(err)
	s.T().Cleanup(func() { _ = conn.Close() })
	return conn
}

func (s *HubSuite) send(conn *websocket.Conn, frame string) {
	s.Require().NoError(conn.WriteMessage(websocket.TextMessage, []byte(frame)))
}

func (s *HubSuite) next() arcade.Event {
	select {
	case ev := <-s.sink.events:
		return ev
	case <-time.After(2 * time.Second):
		s.FailNow("no event received")
		return arcade.Event{}
	}
}

func (s *HubSuite) read(conn *websocket.Conn) map[string]json.RawMessage {
	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var msg map[string]json.RawMessage
	s.Require().NoError(conn.ReadJSON(&msg))
	return msg
}

// waitForClients blocks until the hub has registered n sockets
func (s *HubSuite) waitForClients(n int) {
	s.Require().Eventually(func() bool {
		return s.hub.ClientCount() == n
	}, 2*time.Second, 10*time.Millisecond)
}

func (s *HubSuite) TestInboundEventsAreDecoded() {
	conn := s.dial()

	s.send(conn, `{"event":"displayConnect"}`)
	s.send(conn, `{"event":"controlsConnect"}`)
	s.send(conn, `{"event":"startGame"}`)
	s.send(conn, `{"event":"gameUpdate","data":{"action":"rotate"}}`)
	s.send(conn, `{"event":"heartbeat"}`)

	first := s.next()
	s.Equal(arcade.DisplayConnected, first.Kind)
	s.NotZero(first.Conn)

	s.Equal(arcade.ControlsConnected, s.next().Kind)
	s.Equal(arcade.StartGame, s.next().Kind)

	update := s.next()
	s.Equal(arcade.GameUpdate, update.Kind)
	s.Equal(model.ActionRotate, update.Action)
	s.Equal(first.Conn, update.Conn)

	s.Equal(arcade.Heartbeat, s.next().Kind)
}

func (s *HubSuite) TestBadFramesAreSkipped() {
	conn := s.dial()

	s.send(conn, `not json`)
	s.send(conn, `{"event":"launchMissiles"}`)
	s.send(conn, `{"event":"gameUpdate","data":{"action":"teleport"}}`)
	s.send(conn, `{"event":"gameUpdate"}`)
	s.send(conn, `{"event":"heartbeat"}`)

	s.Equal(arcade.Heartbeat, s.next().Kind)
}

func (s *HubSuite) TestEmitReachesOnlyTarget() {
	a := s.dial()
	b := s.dial()
	s.send(a, `{"event":"heartbeat"}`)
	idA := s.next().Conn
	s.waitForClients(2)

	s.hub.Emit(idA, model.EventQueueUpdate, model.QueueStatus{Position: 1, Total: 2})
	s.hub.Broadcast(model.EventReplayStart, nil)

	msg := s.read(a)
	s.JSONEq(`"queueUpdate"`, string(msg["event"]))
	s.JSONEq(`{"position":1,"total":2,"isPlaying":false}`, string(msg["data"]))

	// b's first message is the broadcast, not a's queue update
	msg = s.read(b)
	s.JSONEq(`"replayStart"`, string(msg["event"]))
	_, hasData := msg["data"]
	s.False(hasData)
}

func (s *HubSuite) TestGameStateEnvelope() {
	conn := s.dial()
	s.waitForClients(1)

	state := model.NewGameState(model.DefaultRows, model.DefaultCols)
	s.hub.Broadcast(model.EventUpdateGame, state)

	msg := s.read(conn)
	s.JSONEq(`"updateGame"`, string(msg["event"]))
	var data map[string]json.RawMessage
	s.Require().NoError(json.Unmarshal(msg["data"], &data))
	for _, key := range []string{"board", "currentPiece", "nextPiece", "currentX", "currentY", "score", "level", "lines", "dropSpeed"} {
		s.Contains(data, key)
	}
}

func (s *HubSuite) TestEmitToUnknownIsNoOp() {
	s.NotPanics(func() {
		s.hub.Emit(9999, model.EventGameStart, nil)
	})
}

func (s *HubSuite) TestDisconnectIsReported() {
	conn := s.dial()
	s.send(conn, `{"event":"heartbeat"}`)
	id := s.next().Conn

	_ = conn.WriteMessage(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
	_ = conn.Close()

	ev := s.next()
	s.Equal(arcade.Disconnected, ev.Kind)
	s.Equal(id, ev.Conn)
	s.waitForClients(0)
}

func (s *HubSuite) TestConnectionIDsAreUnique() {
	a := s.dial()
	b := s.dial()
	s.send(a, `{"event":"heartbeat"}`)
	s.send(b, `{"event":"heartbeat"}`)

	first := s.next().Conn
	second := s.next().Conn
	s.NotEqual(first, second)
}

func (s *HubSuite) TestCloseDisconnectsClients() {
	conn := s.dial()
	s.waitForClients(1)

	s.hub.Close()

	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, _, err := conn.ReadMessage()
	s.Error(err)
	s.Equal(0, s.hub.ClientCount())
}

func TestConfigDefaults(t *testing.T) {
	cfg := Config{PongWait: 10 * time.Second, PingPeriod: time.Minute}.withDefaults()

	if cfg.PingPeriod != 9*time.Second {
		t.Errorf("PingPeriod = %s, want 9s", cfg.PingPeriod)
	}
	if cfg.SendBufferSize != DefaultConfig().SendBufferSize {
		t.Errorf("SendBufferSize = %d, want default", cfg.SendBufferSize)
	}
}
