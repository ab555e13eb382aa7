package ws

import (
	"encoding/json"
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"price_wheel/internal/game"
	"price_wheel/internal/logger"
)

var (
	ErrTableBusy   = errors.New("table already has a controlling connection")
	ErrTableClosed = errors.New("table closed")
)

// Sink receives the frames of one table. Send must not block.
type Sink interface {
	Send(msg Message) bool
}

type attachCmd struct {
	sink  Sink
	reply chan error
}

type detachCmd struct {
	sink Sink
}

type inboundCmd struct {
	sink Sink
	raw  []byte
}

type tickCmd struct {
	gen uint64
}

type snapshotCmd struct {
	reply chan Snapshot
}

type newGameCmd struct {
	reply chan game.Action
}

// Table is one hot-seat game: a wheel, a turn controller and at most one
// controlling connection. All state is owned by the Run goroutine; every
// other method posts a command to its inbox.
type Table struct {
	ID string

	inbox     chan any
	done      chan struct{}
	closeOnce sync.Once

	wheel *game.Wheel
	ctrl  *game.Controller
	faces game.Segments
	sink  Sink
	timer *time.Timer

	attached   atomic.Bool
	lastActive atomic.Int64
	log        *slog.Logger
}

func NewTable(id string, tuning game.Tuning) *Table {
	ctrl := game.NewController(tuning)
	t := &Table{
		ID:    id,
		inbox: make(chan any, 64),
		done:  make(chan struct{}),
		wheel: game.NewWheel(tuning, ctrl),
		ctrl:  ctrl,
		faces: game.Segments(tuning.Faces),
		log:   logger.With("table_id", id),
	}
	t.touch()
	return t
}

// Run processes commands until Close is called.
func (t *Table) Run() {
	t.log.Debug("table started")
	defer func() {
		if t.timer != nil {
			t.timer.Stop()
		}
		t.log.Debug("table stopped")
	}()

	for {
		select {
		case <-t.done:
			return
		case cmd := <-t.inbox:
			t.handle(cmd)
		}
	}
}

// Close stops the table. Pending and later commands are dropped.
func (t *Table) Close() {
	t.closeOnce.Do(func() { close(t.done) })
}

// Attach makes s the controlling connection. Only one is allowed at a time.
func (t *Table) Attach(s Sink) error {
	reply := make(chan error, 1)
	if !t.post(attachCmd{sink: s, reply: reply}) {
		return ErrTableClosed
	}
	select {
	case err := <-reply:
		return err
	case <-t.done:
		return ErrTableClosed
	}
}

// Detach releases the table if s controls it. Game state is kept so the
// player can reconnect.
func (t *Table) Detach(s Sink) {
	t.post(detachCmd{sink: s})
}

// Deliver hands a raw client message from s to the table.
func (t *Table) Deliver(s Sink, raw []byte) {
	t.post(inboundCmd{sink: s, raw: raw})
}

func (t *Table) Snapshot() (Snapshot, error) {
	reply := make(chan Snapshot, 1)
	if !t.post(snapshotCmd{reply: reply}) {
		return Snapshot{}, ErrTableClosed
	}
	select {
	case s := <-reply:
		return s, nil
	case <-t.done:
		return Snapshot{}, ErrTableClosed
	}
}

// NewGame resets scores and turn order, aborting a running spin. The wheel
// keeps its position.
func (t *Table) NewGame() (game.Action, error) {
	reply := make(chan game.Action, 1)
	if !t.post(newGameCmd{reply: reply}) {
		return game.Action{}, ErrTableClosed
	}
	select {
	case a := <-reply:
		return a, nil
	case <-t.done:
		return game.Action{}, ErrTableClosed
	}
}

// Idle reports whether nobody is attached and nothing happened for d.
func (t *Table) Idle(now time.Time, d time.Duration) bool {
	if t.attached.Load() {
		return false
	}
	return now.Sub(time.Unix(0, t.lastActive.Load())) > d
}

func (t *Table) post(cmd any) bool {
	select {
	case <-t.done:
		return false
	default:
	}
	select {
	case t.inbox <- cmd:
		return true
	case <-t.done:
		return false
	}
}

func (t *Table) touch() {
	t.lastActive.Store(time.Now().UnixNano())
}

func (t *Table) handle(cmd any) {
	switch c := cmd.(type) {
	case tickCmd:
		t.handleTick(c.gen)
		return
	case attachCmd:
		if t.sink != nil {
			c.reply <- ErrTableBusy
			return
		}
		t.sink = c.sink
		t.attached.Store(true)
		c.reply <- nil
		t.log.Info("connection attached")
		t.send(Message{Type: MsgState, Payload: t.snapshot()})
	case detachCmd:
		if t.sink != c.sink {
			return
		}
		t.sink = nil
		t.attached.Store(false)
		t.log.Info("connection detached")
	case inboundCmd:
		if t.sink != c.sink {
			return
		}
		t.handleMessage(c.raw)
	case snapshotCmd:
		c.reply <- t.snapshot()
	case newGameCmd:
		c.reply <- t.startNewGame()
	default:
		t.log.Warn("unknown table command", "cmd", cmd)
	}
	t.touch()
}

func (t *Table) handleMessage(raw []byte) {
	var msg ClientMessage
	if err := json.Unmarshal(raw, &msg); err != nil {
		t.log.Warn("bad client message", "error", err)
		t.sendError("malformed message")
		return
	}

	switch msg.Type {
	case MsgGestureBegin:
		t.wheel.BeginGesture(msg.Y, msg.T)

	case MsgGestureEnd:
		t.endGesture(msg.Y, msg.T)

	case MsgSecondSpin:
		a, err := t.ctrl.OnSecondSpinChoice(msg.Accept)
		t.emitOrReject(msg.Type, a, err)

	case MsgAck:
		a, err := t.ctrl.Acknowledge()
		t.emitOrReject(msg.Type, a, err)

	case MsgNewGame:
		t.startNewGame()

	case MsgPing:
		t.send(Message{Type: MsgPong})

	default:
		t.sendError("unknown message type: " + msg.Type)
	}
}

func (t *Table) endGesture(y, ts float64) {
	req, ok := t.wheel.EndGesture(y, ts)
	if !ok {
		GesturesIgnored.Inc()
		return
	}
	if err := t.ctrl.OnSpinStarted(); err != nil {
		// wheel and controller disagree about the input gate
		t.wheel.Abort()
		t.reject(MsgGestureEnd, err)
		return
	}

	SpinsStarted.Inc()
	t.log.Debug("spin started", "step", req.Step, "generation", req.Generation)
	t.send(Message{Type: MsgSpinStarted, Payload: SpinStartedPayload{Step: req.Step, Generation: req.Generation}})
	t.schedule(req.Delay(), req.Generation)
}

func (t *Table) handleTick(gen uint64) {
	t.timer = nil
	if gen != t.wheel.Generation() || !t.wheel.Spinning() {
		WheelTicks.WithLabelValues("stale").Inc()
		return
	}

	adv, err := t.wheel.Advance()
	if err != nil {
		t.log.Error("advance failed", "error", err)
		return
	}
	t.send(Message{Type: MsgFrame, Payload: t.frame(adv.Position)})

	if !adv.Stopped {
		WheelTicks.WithLabelValues("advanced").Inc()
		t.schedule(adv.NextDelay, gen)
		return
	}
	WheelTicks.WithLabelValues("stopped").Inc()

	a, err := t.ctrl.OnSpinStopped(adv.Position, adv.RotationCompleted)
	if err != nil {
		t.log.Error("spin result rejected", "error", err, "position", adv.Position)
		t.sendError(err.Error())
		return
	}
	if a.Kind == game.ActionRequestRepeat {
		SpinsRepeated.Inc()
		if err := t.wheel.ResetTo(adv.StartPosition); err != nil {
			t.log.Error("reset after short spin failed", "error", err)
		} else {
			t.send(Message{Type: MsgFrame, Payload: t.frame(adv.StartPosition)})
		}
	}
	t.emit(a)
}

func (t *Table) schedule(d time.Duration, gen uint64) {
	if t.timer != nil {
		t.timer.Stop()
	}
	t.timer = time.AfterFunc(d, func() {
		t.post(tickCmd{gen: gen})
	})
}

func (t *Table) startNewGame() game.Action {
	t.wheel.Abort()
	if t.timer != nil {
		t.timer.Stop()
		t.timer = nil
	}
	a := t.ctrl.StartNewGame()
	t.log.Info("new game", "position", t.wheel.Position())
	t.emit(a)
	return a
}

func (t *Table) emitOrReject(op string, a game.Action, err error) {
	if err != nil {
		t.reject(op, err)
		return
	}
	t.emit(a)
}

func (t *Table) emit(a game.Action) {
	if a.Kind == game.ActionAnnounceWinners {
		outcome := "win"
		if len(a.Winners) > 1 {
			outcome = "tie"
		}
		GamesFinished.WithLabelValues(outcome).Inc()
		t.log.Info("game finished", "winners", a.Winners, "scores", a.Scores)
	}
	t.send(Message{Type: MsgAction, Payload: a})
	t.send(Message{Type: MsgState, Payload: t.snapshot()})
}

func (t *Table) reject(op string, err error) {
	InvalidActions.WithLabelValues(op).Inc()
	t.log.Warn("rejected client action", "type", op, "error", err)
	t.sendError(err.Error())
}

func (t *Table) sendError(message string) {
	t.send(Message{Type: MsgError, Payload: ErrorPayload{Message: message}})
}

func (t *Table) send(msg Message) {
	if t.sink == nil {
		return
	}
	if !t.sink.Send(msg) {
		t.log.Warn("dropped message for slow connection", "type", msg.Type)
	}
}

func (t *Table) frame(position int) FramePayload {
	return FramePayload{Position: position, Face: t.faces.Value(position)}
}

func (t *Table) snapshot() Snapshot {
	s := Snapshot{
		TableID:   t.ID,
		Connected: t.sink != nil,
		Wheel:     t.wheel.State(),
		Face:      t.faces.Value(t.wheel.Position()),
		Turn:      t.ctrl.State(),
		Phase:     t.ctrl.Phase(),
		Scores:    t.ctrl.Scores(),
	}
	if r, ok := t.ctrl.Result(); ok {
		s.Result = &r
	}
	return s
}
