// Package room serializes all inbound actions for one table through a
// single-consumer queue, so no two actions ever mutate the same round state
// concurrently. Each room owns an independent engine and queue; nothing is
// shared across rooms.
package room

import (
	"context"
	"errors"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"liap/internal/domain"
	"liap/internal/engine"
)

// ErrClosed is returned for submissions to a room whose loop has stopped.
var ErrClosed = errors.New("room closed")

const queueDepth = 64

type submitReply struct {
	result engine.Result
	err    error
}

// envelope is one queued unit of work: either an action or an inspection.
type envelope struct {
	action  *engine.Action
	inspect func(*engine.Engine)
	reply   chan submitReply
}

// Room owns one engine and applies queued work in arrival order. State
// transitions triggered by an action run synchronously inside that action's
// processing, and the resulting events are published before the next envelope
// is dequeued.
type Room struct {
	ID string

	logger *log.Logger
	eng    *engine.Engine
	queue  chan envelope

	ctx    context.Context
	cancel context.CancelFunc
	done   chan struct{}
}

// New creates a room around an engine. Subscribe and wire collaborators, then
// call Start.
func New(eng *engine.Engine, logger *log.Logger) *Room {
	if logger == nil {
		logger = log.Default()
	}
	id := uuid.NewString()
	ctx, cancel := context.WithCancel(context.Background())
	return &Room{
		ID:     id,
		logger: logger.WithPrefix("room").With("room", id),
		eng:    eng,
		queue:  make(chan envelope, queueDepth),
		ctx:    ctx,
		cancel: cancel,
		done:   make(chan struct{}),
	}
}

// Subscribe registers an event subscriber on the underlying engine. Must be
// called before Start.
func (r *Room) Subscribe(fn engine.Subscriber) {
	r.eng.Subscribe(fn)
}

// Start launches the queue loop and deals the first round.
func (r *Room) Start() error {
	go r.loop()
	return r.Inspect(func(e *engine.Engine) {
		if err := e.Start(); err != nil {
			r.logger.Error("engine start failed", "error", err)
		}
	})
}

func (r *Room) loop() {
	defer close(r.done)
	for {
		select {
		case <-r.ctx.Done():
			r.drain()
			return
		case env := <-r.queue:
			r.process(env)
		}
	}
}

func (r *Room) process(env envelope) {
	if env.inspect != nil {
		env.inspect(r.eng)
		env.reply <- submitReply{}
		return
	}
	result, err := r.eng.Submit(*env.action)
	if err != nil {
		r.logger.Debug("action rejected", "action", env.action.Type, "seat", env.action.Seat, "error", err)
	}
	env.reply <- submitReply{result: result, err: err}
}

// drain fails any submissions that raced with shutdown.
func (r *Room) drain() {
	for {
		select {
		case env := <-r.queue:
			env.reply <- submitReply{err: ErrClosed}
		default:
			return
		}
	}
}

// SubmitAction enqueues an action and blocks until the engine has applied (or
// rejected) it. Results are fully synchronous: by the time this returns, all
// events caused by the action have been published.
func (r *Room) SubmitAction(a engine.Action) (engine.Result, error) {
	reply := make(chan submitReply, 1)
	select {
	case <-r.ctx.Done():
		return engine.Result{}, ErrClosed
	case r.queue <- envelope{action: &a, reply: reply}:
	}
	select {
	case <-r.ctx.Done():
		return engine.Result{}, ErrClosed
	case res := <-reply:
		return res.result, res.err
	}
}

// Inspect runs fn against the engine inside the queue, serialized with action
// processing. fn must not call back into the room.
func (r *Room) Inspect(fn func(*engine.Engine)) error {
	reply := make(chan submitReply, 1)
	select {
	case <-r.ctx.Done():
		return ErrClosed
	case r.queue <- envelope{inspect: fn, reply: reply}:
	}
	select {
	case <-r.ctx.Done():
		return ErrClosed
	case <-reply:
		return nil
	}
}

// Phase reads the current phase through the queue.
func (r *Room) Phase() (domain.Phase, error) {
	var phase domain.Phase
	err := r.Inspect(func(e *engine.Engine) { phase = e.Phase() })
	return phase, err
}

// Hand reads a seat's hand through the queue.
func (r *Room) Hand(seat int) ([]domain.Tile, error) {
	var hand []domain.Tile
	err := r.Inspect(func(e *engine.Engine) { hand = e.Hand(seat) })
	return hand, err
}

// SetBot toggles a seat's bot flag, e.g. when a collaborator detects a
// disconnect.
func (r *Room) SetBot(seat int, isBot bool) error {
	return r.Inspect(func(e *engine.Engine) {
		if err := e.SetBot(seat, isBot); err != nil {
			r.logger.Warn("set bot failed", "seat", seat, "error", err)
		}
	})
}

// Close abandons the room. In-flight work finishes; queued submissions fail
// with ErrClosed.
func (r *Room) Close() {
	r.cancel()
	<-r.done
}

// Done is closed once the queue loop has exited.
func (r *Room) Done() <-chan struct{} { return r.done }
