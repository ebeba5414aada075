// Package nakama adapts the game to the Nakama match runtime. The match loop
// is single threaded, so the handler drives the engine directly: messages
// become engine actions, engine events become broadcast payloads, and bot
// seats act on a tick schedule.
package nakama

import (
	"context"
	"database/sql"
	"encoding/json"
	"math/rand"
	"strconv"
	"strings"
	"time"

	"github.com/heroiclabs/nakama-common/runtime"

	"liap/internal/bot"
	"liap/internal/config"
	"liap/internal/domain"
	"liap/internal/engine"
)

const botUserPrefix = "bot:"

func isBotUserID(uid string) bool { return strings.HasPrefix(uid, botUserPrefix) }

// Label is the match label advertised for quick-match queries.
type Label struct {
	Open    int    `json:"open"`
	Game    string `json:"game"`
	Started bool   `json:"started"`
}

// queuedEvent buffers one engine event until the end of the current loop.
// Hands are captured at emission time because later actions in the same tick
// may already have changed them.
type queuedEvent struct {
	ev    engine.PhaseChangeEvent
	hands *[domain.NumPlayers][]domain.Tile
}

// MatchState is the authoritative per-match state.
type MatchState struct {
	Cfg       config.GameConfig
	Seats     [domain.NumPlayers]string // user ids, "" means open
	OwnerSeat int
	Tick      int64
	Presences map[string]runtime.Presence

	Engine *engine.Engine
	Brains [domain.NumPlayers]bot.Brain

	// Tick-based bot pacing.
	BotWaitUntil int64
	LastSoloTick int64

	pending []queuedEvent
	rng     *rand.Rand
}

func (s *MatchState) openSeats() int {
	n := 0
	for _, uid := range s.Seats {
		if uid == "" {
			n++
		}
	}
	return n
}

func (s *MatchState) humanCount() int {
	n := 0
	for _, uid := range s.Seats {
		if uid != "" && !isBotUserID(uid) {
			n++
		}
	}
	return n
}

func (s *MatchState) seatOf(uid string) int {
	for seat, occupant := range s.Seats {
		if occupant == uid {
			return seat
		}
	}
	return -1
}

func (s *MatchState) firstHumanSeat() int {
	for seat, uid := range s.Seats {
		if uid != "" && !isBotUserID(uid) {
			return seat
		}
	}
	return -1
}

func (s *MatchState) started() bool { return s.Engine != nil }

type matchHandler struct{}

// NewMatch is the factory registered with the Nakama runtime.
func NewMatch(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule) (runtime.Match, error) {
	return &matchHandler{}, nil
}

// MatchInit reads the runtime environment for table configuration and opens
// the lobby.
func (mh *matchHandler) MatchInit(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, params map[string]interface{}) (interface{}, int, string) {
	cfg := config.Default()
	if env, ok := ctx.Value(runtime.RUNTIME_CTX_ENV).(map[string]string); ok {
		cfg = config.FromEnv(env, cfg)
	}

	state := &MatchState{
		Cfg:       cfg,
		OwnerSeat: -1,
		Presences: make(map[string]runtime.Presence),
		rng:       rand.New(rand.NewSource(time.Now().UnixNano())),
	}

	tickRate := 1 // one tick per second; bot delays are counted in ticks
	return state, tickRate, marshalLabel(state)
}

func (mh *matchHandler) MatchJoinAttempt(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, presence runtime.Presence, metadata map[string]string) (interface{}, bool, string) {
	s, ok := state.(*MatchState)
	if !ok {
		return state, false, "state not found"
	}

	uid := presence.GetUserId()
	if s.seatOf(uid) >= 0 {
		return s, true, "" // rejoin
	}
	if s.started() {
		return s, false, "match in progress"
	}
	if s.openSeats() == 0 {
		// A lobby bot can give up its seat to a human.
		for _, occupant := range s.Seats {
			if isBotUserID(occupant) {
				return s, true, ""
			}
		}
		return s, false, "match full"
	}
	return s, true, ""
}

func (mh *matchHandler) MatchJoin(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, presences []runtime.Presence) interface{} {
	s, ok := state.(*MatchState)
	if !ok {
		logger.Error("MatchJoin: state not found")
		return state
	}

	for _, p := range presences {
		uid := p.GetUserId()
		s.Presences[uid] = p

		if seat := s.seatOf(uid); seat >= 0 {
			// A returning player takes the seat back from its stand-in bot.
			if s.started() {
				if err := s.Engine.SetBot(seat, false); err != nil {
					logger.Error("MatchJoin: reclaim seat %d: %v", seat, err)
				}
			}
			continue
		}

		seat := -1
		for i, occupant := range s.Seats {
			if occupant == "" {
				seat = i
				break
			}
		}
		if seat < 0 {
			for i, occupant := range s.Seats {
				if isBotUserID(occupant) {
					s.Brains[i] = nil
					seat = i
					break
				}
			}
		}
		if seat < 0 {
			logger.Warn("MatchJoin: no seat for %s", uid)
			continue
		}
		s.Seats[seat] = uid

		evt, _ := json.Marshal(PlayerJoinedEvent{UserID: uid, Seat: seat, Owner: s.OwnerSeat == -1})
		_ = dispatcher.BroadcastMessage(OpPlayerJoined, evt, nil, nil, true)
	}

	if s.OwnerSeat < 0 || !isHumanSeat(s, s.OwnerSeat) {
		s.OwnerSeat = s.firstHumanSeat()
	}

	_ = dispatcher.MatchLabelUpdate(marshalLabel(s))
	mh.broadcastMatchState(s, dispatcher)
	return s
}

func (mh *matchHandler) MatchLeave(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, presences []runtime.Presence) interface{} {
	s, ok := state.(*MatchState)
	if !ok {
		logger.Error("MatchLeave: state not found")
		return state
	}

	for _, p := range presences {
		uid := p.GetUserId()
		delete(s.Presences, uid)

		seat := s.seatOf(uid)
		if seat < 0 {
			continue
		}

		if s.started() {
			// Mid-game leavers keep their seat; a bot plays it until they
			// return or the game ends.
			if s.Brains[seat] == nil {
				brain, err := newBrainFromConfig(s.Cfg)
				if err != nil {
					logger.Error("MatchLeave: brain for seat %d: %v", seat, err)
				} else {
					s.Brains[seat] = brain
				}
			}
			if err := s.Engine.SetBot(seat, true); err != nil {
				logger.Error("MatchLeave: hand off seat %d: %v", seat, err)
			}
		} else {
			s.Seats[seat] = ""
		}

		evt, _ := json.Marshal(PlayerLeftEvent{UserID: uid, Seat: seat})
		_ = dispatcher.BroadcastMessage(OpPlayerLeft, evt, nil, nil, true)
	}

	if s.humanCount() == 0 {
		logger.Info("MatchLeave: no humans left, terminating")
		return nil
	}
	if !isHumanSeat(s, s.OwnerSeat) {
		s.OwnerSeat = s.firstHumanSeat()
	}

	_ = dispatcher.MatchLabelUpdate(marshalLabel(s))
	return s
}

func (mh *matchHandler) MatchLoop(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, messages []runtime.MatchData) interface{} {
	s, ok := state.(*MatchState)
	if !ok {
		return state
	}
	s.Tick = tick

	for _, msg := range messages {
		switch msg.GetOpCode() {
		case OpStartGame:
			mh.handleStartGame(s, dispatcher, logger, msg)
		case OpDeclare, OpPlayTiles, OpRedealChoice:
			mh.handleAction(s, dispatcher, logger, msg)
		default:
			logger.Warn("MatchLoop: unknown opcode %d", msg.GetOpCode())
		}
	}

	if s.Cfg.BotsEnabled {
		mh.processBots(s, dispatcher, logger)
	}

	mh.flushEvents(s, dispatcher, logger)
	return s
}

func (mh *matchHandler) MatchTerminate(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, graceSeconds int) interface{} {
	return state
}

func (mh *matchHandler) MatchSignal(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, data string) (interface{}, string) {
	return state, ""
}

// handleStartGame builds the engine once the owner asks for a game. Empty
// seats are backfilled with bots first.
func (mh *matchHandler) handleStartGame(s *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, msg runtime.MatchData) {
	sender := msg.GetUserId()
	if s.seatOf(sender) != s.OwnerSeat {
		mh.sendError(s, dispatcher, logger, sender, 403, "only the owner can start the game")
		return
	}
	if s.started() {
		mh.sendError(s, dispatcher, logger, sender, 409, "game already started")
		return
	}

	for seat, uid := range s.Seats {
		if uid != "" {
			continue
		}
		if !s.Cfg.BotsEnabled {
			mh.sendError(s, dispatcher, logger, sender, 412, "not enough players")
			return
		}
		botID := botUserPrefix + strconv.Itoa(seat)
		s.Seats[seat] = botID
		evt, _ := json.Marshal(PlayerJoinedEvent{UserID: botID, Seat: seat})
		_ = dispatcher.BroadcastMessage(OpPlayerJoined, evt, nil, nil, true)
	}

	var specs [domain.NumPlayers]engine.PlayerSpec
	for seat, uid := range s.Seats {
		specs[seat] = engine.PlayerSpec{ID: uid, IsBot: isBotUserID(uid)}
		if specs[seat].IsBot && s.Brains[seat] == nil {
			brain, err := newBrainFromConfig(s.Cfg)
			if err != nil {
				logger.Error("StartGame: brain for seat %d: %v", seat, err)
				return
			}
			s.Brains[seat] = brain
		}
	}

	dealer := domain.NewShuffleDealer(s.rng)
	opts := engine.Options{
		WinThreshold:     s.Cfg.WinThreshold,
		ForbidExactTotal: s.Cfg.ForbidExactTotal,
	}
	eng := engine.New(specs, dealer, nil, opts)
	eng.Subscribe(func(ev engine.PhaseChangeEvent) {
		q := queuedEvent{ev: ev}
		if ev.Reason == "hands_dealt" || ev.Reason == "redeal_accepted" {
			var hands [domain.NumPlayers][]domain.Tile
			for seat := 0; seat < domain.NumPlayers; seat++ {
				hands[seat] = eng.Hand(seat)
			}
			q.hands = &hands
		}
		s.pending = append(s.pending, q)
	})

	s.Engine = eng
	s.BotWaitUntil = 0
	if err := eng.Start(); err != nil {
		logger.Error("StartGame: %v", err)
		s.Engine = nil
		return
	}

	_ = dispatcher.MatchLabelUpdate(marshalLabel(s))
	logger.Info("StartGame: game started by %s", sender)
}

// handleAction converts a client message to an engine action and submits it.
func (mh *matchHandler) handleAction(s *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, msg runtime.MatchData) {
	sender := msg.GetUserId()
	seat := s.seatOf(sender)
	if seat < 0 {
		mh.sendError(s, dispatcher, logger, sender, 403, "not seated")
		return
	}
	if !s.started() {
		mh.sendError(s, dispatcher, logger, sender, 412, "game not started")
		return
	}

	action := engine.Action{Seat: seat}
	switch msg.GetOpCode() {
	case OpDeclare:
		var req DeclareRequest
		if err := json.Unmarshal(msg.GetData(), &req); err != nil {
			mh.sendError(s, dispatcher, logger, sender, 400, "bad declare payload")
			return
		}
		action.Type = engine.ActionDeclare
		action.Value = req.Value
	case OpPlayTiles:
		var req PlayTilesRequest
		if err := json.Unmarshal(msg.GetData(), &req); err != nil {
			mh.sendError(s, dispatcher, logger, sender, 400, "bad play payload")
			return
		}
		tiles, err := fromWireTiles(req.Tiles)
		if err != nil {
			mh.sendError(s, dispatcher, logger, sender, 400, err.Error())
			return
		}
		action.Type = engine.ActionPlay
		action.Tiles = tiles
	case OpRedealChoice:
		var req RedealChoiceRequest
		if err := json.Unmarshal(msg.GetData(), &req); err != nil {
			mh.sendError(s, dispatcher, logger, sender, 400, "bad redeal payload")
			return
		}
		action.Type = engine.ActionRedealChoice
		action.Accept = req.Accept
	}

	if _, err := s.Engine.Submit(action); err != nil {
		logger.Warn("handleAction: seat %d rejected: %v", seat, err)
		mh.sendError(s, dispatcher, logger, sender, 400, err.Error())
	}
}

// processBots fills a lonely lobby after a grace period and, in-game, plays
// the awaited seat once its tick deadline passes.
func (mh *matchHandler) processBots(s *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger) {
	if !s.started() {
		if s.humanCount() == 1 && s.openSeats() > 0 {
			if s.LastSoloTick == 0 {
				s.LastSoloTick = s.Tick
			}
			if s.Tick-s.LastSoloTick >= int64(s.Cfg.BotAutoFillDelaySec) {
				for seat, uid := range s.Seats {
					if uid != "" {
						continue
					}
					botID := botUserPrefix + strconv.Itoa(seat)
					s.Seats[seat] = botID
					evt, _ := json.Marshal(PlayerJoinedEvent{UserID: botID, Seat: seat})
					_ = dispatcher.BroadcastMessage(OpPlayerJoined, evt, nil, nil, true)
				}
				s.LastSoloTick = 0
				_ = dispatcher.MatchLabelUpdate(marshalLabel(s))
				mh.broadcastMatchState(s, dispatcher)
			}
		} else {
			s.LastSoloTick = 0
		}
		return
	}

	if s.Engine.Phase() == domain.PhaseGameOver {
		return
	}
	seat := s.Engine.CurrentActor()
	if seat < 0 || !s.Engine.IsBot(seat) || s.Brains[seat] == nil {
		s.BotWaitUntil = 0
		return
	}

	if s.BotWaitUntil == 0 {
		window := s.Cfg.BotMaxDelaySec - s.Cfg.BotMinDelaySec
		delay := s.Cfg.BotMinDelaySec
		if window > 0 {
			delay += s.rng.Intn(window + 1)
		}
		s.BotWaitUntil = s.Tick + int64(delay)
		return
	}
	if s.Tick < s.BotWaitUntil {
		return
	}
	s.BotWaitUntil = 0

	action, ok := bot.Decide(s.Engine, seat, s.Brains[seat])
	if !ok {
		return
	}
	if _, err := s.Engine.Submit(action); err != nil {
		logger.Warn("processBots: seat %d rejected: %v", seat, err)
		if fb, ok := bot.FallbackAction(s.Engine, seat); ok {
			if _, err := s.Engine.Submit(fb); err != nil {
				logger.Error("processBots: fallback for seat %d rejected: %v", seat, err)
			}
		}
	}
}

// flushEvents drains the buffered engine events: private hands first, then
// the broadcast form of each event, in emission order.
func (mh *matchHandler) flushEvents(s *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger) {
	if len(s.pending) == 0 {
		return
	}
	for _, q := range s.pending {
		if q.hands != nil {
			mh.sendHands(s, dispatcher, logger, q)
		}
		payload, err := json.Marshal(toWireEvent(q.ev))
		if err != nil {
			logger.Error("flushEvents: marshal event %d: %v", q.ev.Seq, err)
			continue
		}
		_ = dispatcher.BroadcastMessage(OpPhaseEvent, payload, nil, nil, true)

		if _, over := q.ev.Data.(engine.GameOverData); over {
			_ = dispatcher.MatchLabelUpdate(marshalLabel(s))
		}
	}
	s.pending = s.pending[:0]
}

func (mh *matchHandler) sendHands(s *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, q queuedEvent) {
	round := 0
	if data, ok := q.ev.Data.(engine.PreparationData); ok {
		round = data.RoundNumber
	}
	for seat, uid := range s.Seats {
		presence, connected := s.Presences[uid]
		if !connected || isBotUserID(uid) {
			continue
		}
		payload, err := json.Marshal(HandDealtEvent{RoundNumber: round, Tiles: toWireTiles(q.hands[seat])})
		if err != nil {
			logger.Error("sendHands: seat %d: %v", seat, err)
			continue
		}
		_ = dispatcher.BroadcastMessage(OpHandDealt, payload, []runtime.Presence{presence}, nil, true)
	}
}

func (mh *matchHandler) broadcastMatchState(s *MatchState, dispatcher runtime.MatchDispatcher) {
	payload, _ := json.Marshal(MatchStateEvent{
		Seats:     s.Seats,
		OwnerSeat: s.OwnerSeat,
		Started:   s.started(),
	})
	_ = dispatcher.BroadcastMessage(OpMatchState, payload, nil, nil, true)
}

func (mh *matchHandler) sendError(s *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, uid string, code int, message string) {
	presence, ok := s.Presences[uid]
	if !ok {
		return
	}
	payload, err := json.Marshal(GameErrorEvent{Code: code, Message: message})
	if err != nil {
		logger.Error("sendError: %v", err)
		return
	}
	_ = dispatcher.BroadcastMessage(OpGameError, payload, []runtime.Presence{presence}, nil, true)
}

func isHumanSeat(s *MatchState, seat int) bool {
	if seat < 0 || seat >= domain.NumPlayers {
		return false
	}
	uid := s.Seats[seat]
	return uid != "" && !isBotUserID(uid)
}

func newBrainFromConfig(cfg config.GameConfig) (bot.Brain, error) {
	level, err := bot.ParseBotLevel(cfg.BotLevel)
	if err != nil {
		level = bot.BotLevelPlanner
	}
	return bot.NewBrain(level)
}

func marshalLabel(s *MatchState) string {
	label, _ := json.Marshal(Label{Open: s.openSeats(), Game: "liap", Started: s.started()})
	return string(label)
}
