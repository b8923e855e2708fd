package arcade

import (
	"context"
	"log/slog"
	"maps"
	"runtime/debug"
	"slices"
	"time"

	"github.com/google/uuid"

	"github.com/mcoot/tetrisparty/internal/dependencies/clock"
	"github.com/mcoot/tetrisparty/internal/model"
	"github.com/mcoot/tetrisparty/internal/services/game"
	"github.com/mcoot/tetrisparty/internal/services/queue"
	"github.com/mcoot/tetrisparty/internal/services/replay"
	"github.com/mcoot/tetrisparty/internal/services/scheduler"
	"github.com/mcoot/tetrisparty/internal/services/scores"
)

const (
	tickerDrop        = "drop"
	tickerReplayFrame = "replayFrame"
	tickerReplayDelay = "replayDelay"
	tickerSweep       = "sweep"

	eventBuffer = 256
)

// Config holds arcade timing and board settings
type Config struct {
	Rows int
	Cols int

	SweepInterval  time.Duration
	ReplayInterval time.Duration
	ReplayCooldown time.Duration
}

// DefaultConfig returns the standard 20x10 arcade settings
func DefaultConfig() Config {
	return Config{
		Rows:           model.DefaultRows,
		Cols:           model.DefaultCols,
		SweepInterval:  10 * time.Second,
		ReplayInterval: 100 * time.Millisecond,
		ReplayCooldown: 5 * time.Second,
	}
}

// WithDefaults fills unset fields from DefaultConfig
func (c Config) WithDefaults() Config {
	d := DefaultConfig()
	if c.Rows <= 0 {
		c.Rows = d.Rows
	}
	if c.Cols <= 0 {
		c.Cols = d.Cols
	}
	if c.SweepInterval <= 0 {
		c.SweepInterval = d.SweepInterval
	}
	if c.ReplayInterval <= 0 {
		c.ReplayInterval = d.ReplayInterval
	}
	if c.ReplayCooldown <= 0 {
		c.ReplayCooldown = d.ReplayCooldown
	}
	return c
}

// Controller owns every piece of mutable arcade state: the live game, the
// turn queue, the move log and the viewer set. All of it is touched only
// from the goroutine running Run; other goroutines talk to it through Post.
type Controller struct {
	cfg      Config
	games    *game.Service
	queue    *queue.Service
	scores   *scores.Service
	recorder *replay.Recorder
	emitter  Emitter
	clock    clock.Clock
	logger   *slog.Logger

	state   *model.GameState
	gameID  model.GameID
	viewers map[model.ConnID]struct{}
	cursor  *replay.Cursor

	drop        *scheduler.Ticker
	replayFrame *scheduler.Ticker
	replayDelay *scheduler.Ticker
	sweep       *scheduler.Ticker

	ctx    context.Context
	events chan Event
	done   chan struct{}
	post   func(Event)
	spawn  func(func())
	newID  func() model.GameID
}

// New creates a Controller. Nothing happens until Run is called.
func New(
	cfg Config,
	games *game.Service,
	queue *queue.Service,
	scores *scores.Service,
	emitter Emitter,
	clock clock.Clock,
	logger *slog.Logger,
) *Controller {
	c := &Controller{
		cfg:      cfg.WithDefaults(),
		games:    games,
		queue:    queue,
		scores:   scores,
		recorder: replay.NewRecorder(),
		emitter:  emitter,
		clock:    clock,
		logger:   logger.With(slog.String("component", "arcade")),
		viewers:  make(map[model.ConnID]struct{}),
		ctx:      context.Background(),
		events:   make(chan Event, eventBuffer),
		done:     make(chan struct{}),
		spawn:    func(f func()) { go f() },
		newID:    func() model.GameID { return model.GameID(uuid.NewString()) },
	}
	c.post = c.enqueue

	onTick := func(t scheduler.Tick) {
		c.post(Event{Kind: timerFired, tick: t})
	}
	c.drop = scheduler.New(tickerDrop, clock, onTick)
	c.replayFrame = scheduler.New(tickerReplayFrame, clock, onTick)
	c.replayDelay = scheduler.New(tickerReplayDelay, clock, onTick)
	c.sweep = scheduler.New(tickerSweep, clock, onTick)
	return c
}

// Run processes events until ctx is cancelled
func (c *Controller) Run(ctx context.Context) error {
	c.ctx = ctx
	defer close(c.done)

	c.start()
	c.logger.Info("arcade started",
		slog.Int("rows", c.cfg.Rows),
		slog.Int("cols", c.cfg.Cols))

	for {
		select {
		case <-ctx.Done():
			c.stop()
			c.logger.Info("arcade stopped")
			return nil
		case ev := <-c.events:
			c.handle(ev)
		}
	}
}

// Post queues an event for the loop. It never blocks once Run has returned.
func (c *Controller) Post(ev Event) {
	c.post(ev)
}

// Status asks the loop for a summary
func (c *Controller) Status(ctx context.Context) (Status, error) {
	reply := make(chan Status, 1)
	c.Post(Event{Kind: statusQuery, reply: reply})
	select {
	case status := <-reply:
		return status, nil
	case <-c.done:
		return Status{}, model.ErrArcadeStopped
	case <-ctx.Done():
		return Status{}, ctx.Err()
	}
}

func (c *Controller) enqueue(ev Event) {
	select {
	case c.events <- ev:
	case <-c.done:
	}
}

func (c *Controller) start() {
	c.sweep.Start(c.cfg.SweepInterval)
}

func (c *Controller) stop() {
	c.drop.Stop()
	c.stopReplay()
	c.sweep.Stop()
}

// handle runs one event to completion. A panic is contained to the event
// that raised it.
func (c *Controller) handle(ev Event) {
	defer func() {
		if r := recover(); r != nil {
			c.logger.Error("panic handling event",
				slog.String("event", ev.Kind.String()),
				slog.String("conn_id", ev.Conn.String()),
				slog.Any("panic", r),
				slog.String("stack", string(debug.Stack())))
			if ev.Conn != 0 {
				c.emitter.Emit(ev.Conn, model.EventError, model.InternalErrorMessage)
			}
		}
	}()

	switch ev.Kind {
	case ControlsConnected, StartGame, GameUpdate, Heartbeat:
		c.queue.Touch(ev.Conn)
	}

	switch ev.Kind {
	case DisplayConnected:
		c.onDisplayConnected(ev.Conn)
	case ControlsConnected:
		c.onControlsConnected(ev.Conn)
	case StartGame:
		c.onStartGame(ev.Conn)
	case GameUpdate:
		c.onGameUpdate(ev.Conn, ev.Action)
	case Heartbeat:
	case Pong:
		c.queue.TouchWaiting(ev.Conn)
	case Disconnected:
		c.onDisconnected(ev.Conn)
	case timerFired:
		c.onTick(ev.tick)
	case scoreResult:
		c.onScoreResult(ev)
	case statusQuery:
		ev.reply <- c.status()
	default:
		c.logger.Warn("unhandled event", slog.Int("kind", int(ev.Kind)))
	}
}

func (c *Controller) status() Status {
	_, playing := c.queue.Current()
	return Status{
		Playing:   playing,
		Queued:    c.queue.Len(),
		Viewers:   len(c.viewers),
		Replaying: c.replayFrame.Active() || c.replayDelay.Active(),
	}
}

// Connection handlers

func (c *Controller) onDisplayConnected(conn model.ConnID) {
	c.viewers[conn] = struct{}{}
	c.logger.Info("display connected",
		slog.String("conn_id", conn.String()),
		slog.Int("viewers", len(c.viewers)))

	c.emitter.Emit(conn, model.EventGameConfig, model.GameConfigPayload{Rows: c.cfg.Rows, Cols: c.cfg.Cols})

	if _, playing := c.queue.Current(); playing {
		if c.state != nil {
			c.emitter.Emit(conn, model.EventUpdateGame, c.state)
		}
		return
	}
	if c.replayFrame.Active() {
		c.emitter.Emit(conn, model.EventReplayStart, nil)
		return
	}
	c.startReplay()
}

func (c *Controller) onControlsConnected(conn model.ConnID) {
	c.logger.Info("controls connected", slog.String("conn_id", conn.String()))

	// A current player reconnecting gives up its turn and rejoins at the back
	if c.queue.IsCurrent(conn) {
		c.logger.Info("current player reconnected, forfeiting turn", slog.String("conn_id", conn.String()))
		c.drop.Stop()
		c.queue.Remove(conn)
		c.promoteNext()
	}

	if !c.queue.Add(conn) {
		c.logger.Debug("already queued", slog.String("conn_id", conn.String()))
		return
	}

	if !c.promoteNext() {
		c.pushQueueStatuses()
	}
}

func (c *Controller) onStartGame(conn model.ConnID) {
	switch {
	case c.queue.IsCurrent(conn):
		if c.state.HasActivePiece() {
			c.logger.Debug("start ignored, game in progress", slog.String("conn_id", conn.String()))
			return
		}
		c.startNewGame()
	default:
		if _, playing := c.queue.Current(); playing {
			c.logger.Debug("start ignored", slog.String("conn_id", conn.String()), slog.String("reason", model.ErrNotCurrentPlayer.Error()))
			return
		}
		if head, ok := c.queue.Head(); !ok || head != conn {
			c.logger.Debug("start ignored", slog.String("conn_id", conn.String()), slog.String("reason", model.ErrNotQueueHead.Error()))
			return
		}
		c.promoteNext()
	}
}

func (c *Controller) onGameUpdate(conn model.ConnID, action model.Action) {
	if !c.queue.IsCurrent(conn) {
		c.logger.Debug("action ignored",
			slog.String("conn_id", conn.String()),
			slog.String("action", string(action)),
			slog.String("reason", model.ErrNotCurrentPlayer.Error()))
		return
	}

	result, changed, err := c.games.Apply(c.state, action)
	if err != nil {
		c.logger.Debug("action rejected",
			slog.String("conn_id", conn.String()),
			slog.String("action", string(action)),
			slog.String("error", err.Error()))
		return
	}
	if !changed {
		return
	}
	c.afterTransition(result)
}

func (c *Controller) onDisconnected(conn model.ConnID) {
	if _, ok := c.viewers[conn]; ok {
		delete(c.viewers, conn)
		c.logger.Info("display disconnected",
			slog.String("conn_id", conn.String()),
			slog.Int("viewers", len(c.viewers)))
		if len(c.viewers) == 0 {
			c.stopReplay()
		}
	}
	c.removeController(conn)
}

// removeController evicts conn from the queue. If it was playing, the drop
// timer is cancelled before anyone else is promoted.
func (c *Controller) removeController(conn model.ConnID) {
	if !c.queue.Contains(conn) {
		return
	}

	wasCurrent := c.queue.IsCurrent(conn)
	if wasCurrent {
		c.drop.Stop()
	}
	c.queue.Remove(conn)
	c.logger.Info("controller left queue",
		slog.String("conn_id", conn.String()),
		slog.Bool("was_playing", wasCurrent))

	if !wasCurrent || !c.promoteNext() {
		c.pushQueueStatuses()
	}
}

// Game lifecycle

// promoteNext hands the turn to the queue head and starts their game. With
// nobody waiting it falls back to scheduling a replay for the viewers.
func (c *Controller) promoteNext() bool {
	next, ok := c.queue.NextPlayer()
	if !ok {
		if _, playing := c.queue.Current(); !playing {
			c.scheduleReplay(c.cfg.ReplayCooldown)
		}
		return false
	}

	c.stopReplay()
	c.emitter.Emit(next, model.EventGameStart, nil)
	c.startNewGame()
	c.pushQueueStatuses()
	return true
}

func (c *Controller) startNewGame() {
	state, err := c.games.NewGame(c.cfg.Rows, c.cfg.Cols)
	if err != nil {
		c.logger.Error("failed to start game", slog.String("error", err.Error()))
		return
	}

	c.drop.Stop()
	c.stopReplay()

	c.state = state
	c.gameID = c.newID()
	c.recorder.Reset(c.gameID)

	player, _ := c.queue.Current()
	c.logger.Info("game started",
		slog.String("game_id", string(c.gameID)),
		slog.String("conn_id", player.String()))

	c.emitter.Broadcast(model.EventUpdateGame, c.state)
	c.drop.Start(model.DropInterval(c.state.Level))
}

// afterTransition records and publishes a state change, then handles level
// changes and game over.
func (c *Controller) afterTransition(result game.DropResult) {
	c.recorder.Record(c.state)

	if result.GameOver {
		c.gameOver(result.Final)
		return
	}

	c.emitter.Broadcast(model.EventUpdateGame, c.state)

	if result.LevelUp() {
		c.drop.Reset(model.DropInterval(c.state.Level))
		if player, ok := c.queue.Current(); ok {
			c.emitter.Emit(player, model.EventLevelUp, model.LevelUpPayload{
				Level: c.state.Level,
				Speed: c.state.DropSpeed,
			})
		}
		c.logger.Info("level up",
			slog.String("game_id", string(c.gameID)),
			slog.Int("level", c.state.Level),
			slog.Int("drop_speed", c.state.DropSpeed))
	}
}

// gameOver ends the current turn. The drop timer is cancelled first and the
// state is final before the score write is handed off.
func (c *Controller) gameOver(final model.GameEndPayload) {
	c.drop.Stop()
	player := c.queue.ClearCurrent()

	c.logger.Info("game ended",
		slog.String("game_id", string(c.gameID)),
		slog.String("conn_id", player.String()),
		slog.Int("score", final.Score),
		slog.Int("level", final.Level),
		slog.Int("lines", final.Lines),
		slog.Int("moves", c.recorder.Len()))

	if player != 0 {
		c.emitter.Emit(player, model.EventGameEnd, final)
	}
	c.emitter.Broadcast(model.EventUpdateGame, c.state)

	c.saveScore(player, final)

	if !c.promoteNext() {
		c.pushQueueStatuses()
	}
}

func (c *Controller) saveScore(player model.ConnID, final model.GameEndPayload) {
	ctx := context.WithoutCancel(c.ctx)
	c.spawn(func() {
		entry, err := c.scores.Save(ctx, final)
		c.post(Event{Kind: scoreResult, Conn: player, entry: entry, err: err})
	})
}

func (c *Controller) onScoreResult(ev Event) {
	if ev.Conn == 0 {
		return
	}
	if ev.err != nil {
		c.emitter.Emit(ev.Conn, model.EventScoreSaveFailed, model.ScoreSaveFailedPayload{Error: ev.err.Error()})
		return
	}
	c.emitter.Emit(ev.Conn, model.EventScoreSaved, ev.entry)
}

// Timers

func (c *Controller) onTick(t scheduler.Tick) {
	switch t.Name {
	case tickerDrop:
		if c.drop.Accept(t) {
			c.onDropTick()
		}
	case tickerReplayFrame:
		if c.replayFrame.Accept(t) {
			c.onReplayFrame()
		}
	case tickerReplayDelay:
		if c.replayDelay.Accept(t) {
			c.startReplay()
		}
	case tickerSweep:
		if c.sweep.Accept(t) {
			c.onSweep()
		}
	}
}

func (c *Controller) onDropTick() {
	if _, playing := c.queue.Current(); !playing || !c.state.HasActivePiece() {
		c.drop.Stop()
		return
	}
	c.afterTransition(c.games.Drop(c.state))
}

func (c *Controller) onSweep() {
	for _, conn := range c.queue.Inactive() {
		c.logger.Info("evicting inactive controller",
			slog.String("conn_id", conn.String()),
			slog.Duration("timeout", c.queue.Timeout()))
		c.emitter.Emit(conn, model.EventKicked, model.KickedPayload{Reason: "inactive"})
		c.removeController(conn)
	}
}

// Replay

func (c *Controller) replayAllowed() bool {
	if _, playing := c.queue.Current(); playing {
		return false
	}
	return len(c.viewers) > 0 && c.recorder.Len() > 0
}

func (c *Controller) scheduleReplay(delay time.Duration) {
	if !c.replayAllowed() {
		return
	}
	c.replayFrame.Stop()
	c.cursor = nil
	c.replayDelay.After(delay)
}

// startReplay begins a pass over the move log from the first snapshot
func (c *Controller) startReplay() {
	if !c.replayAllowed() {
		c.stopReplay()
		return
	}
	if c.replayFrame.Active() {
		return
	}
	c.replayDelay.Stop()

	c.cursor = c.recorder.Cursor()
	c.logger.Debug("replay started",
		slog.String("game_id", string(c.cursor.GameID())),
		slog.Int("frames", c.cursor.Len()))
	c.emitToViewers(model.EventReplayStart, nil)
	c.replayFrame.Start(c.cfg.ReplayInterval)
}

func (c *Controller) onReplayFrame() {
	if !c.replayAllowed() || c.cursor == nil {
		c.stopReplay()
		return
	}

	frame, ok := c.cursor.Next()
	if !ok {
		c.replayFrame.Stop()
		c.replayDelay.After(c.cfg.ReplayCooldown)
		return
	}
	c.emitToViewers(model.EventUpdateGame, frame.State())
}

func (c *Controller) stopReplay() {
	c.replayFrame.Stop()
	c.replayDelay.Stop()
	c.cursor = nil
}

// Outbound helpers

func (c *Controller) emitToViewers(event string, payload any) {
	for _, conn := range slices.Sorted(maps.Keys(c.viewers)) {
		c.emitter.Emit(conn, event, payload)
	}
}

func (c *Controller) pushQueueStatuses() {
	for _, member := range c.queue.Statuses() {
		c.emitter.Emit(member.ConnID, model.EventQueueUpdate, member.Status)
	}
}
