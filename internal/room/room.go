package room

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"

	"auction-draft-server/internal/engine"
	"auction-draft-server/internal/identity"
	"auction-draft-server/internal/roster"
	"auction-draft-server/internal/store"
	"auction-draft-server/internal/types"
)

const (
	defaultCountdownDelay   = 3 * time.Second
	defaultHeartbeatTTL     = 45 * time.Second
	defaultCommitRetryDelay = 5 * time.Second
	storeCallTimeout        = 5 * time.Second
)

type Config struct {
	Code    string
	Initial engine.State
	Cache   *roster.Cache
	Store   store.TeamStore
	Clock   clockwork.Clock
	Log     *zap.Logger

	CountdownDelay   time.Duration
	HeartbeatTTL     time.Duration
	CommitRetryDelay time.Duration

	// OnEmpty is called from the room goroutine when the last connection
	// leaves and no sale is pending. The hub uses it to dispose of the room.
	OnEmpty func(code string)
}

type client struct {
	participant identity.Participant
	outbox      chan types.ServerMessage
	joinedAt    time.Time
	lastSeen    time.Time
}

// Room is one auction session: a single goroutine drains the inbox and is the
// only thing that touches state, so ordering is total and no locks are
// needed. Timers and connections re-enter through the inbox.
type Room struct {
	inbox   chan Msg
	cfg     Config
	state   engine.State
	version int
	clients map[string]*client

	countdownTimer clockwork.Timer
	retryTimer     clockwork.Timer
	sweepTimer     clockwork.Timer

	ctx    context.Context
	cancel context.CancelFunc
	log    *zap.Logger
}

func New(parent context.Context, cfg Config) *Room {
	if cfg.CountdownDelay <= 0 {
		cfg.CountdownDelay = defaultCountdownDelay
	}
	if cfg.HeartbeatTTL <= 0 {
		cfg.HeartbeatTTL = defaultHeartbeatTTL
	}
	if cfg.CommitRetryDelay <= 0 {
		cfg.CommitRetryDelay = defaultCommitRetryDelay
	}
	if cfg.Clock == nil {
		cfg.Clock = clockwork.NewRealClock()
	}
	if cfg.Log == nil {
		cfg.Log = zap.NewNop()
	}

	ctx, cancel := context.WithCancel(parent)
	r := &Room{
		inbox:   make(chan Msg, 64),
		cfg:     cfg,
		state:   cfg.Initial,
		clients: make(map[string]*client),
		ctx:     ctx,
		cancel:  cancel,
		log:     cfg.Log.With(zap.String("room", cfg.Code)),
	}
	go r.run()
	return r
}

func (r *Room) Inbox() chan<- Msg { return r.inbox }

// Stop tears the room down without needing a channel send, so callers can
// never deadlock against a busy inbox.
func (r *Room) Stop() { r.cancel() }

func (r *Room) run() {
	r.primeState()
	r.scheduleSweep()
	r.loop()
}

// primeState pulls the first team snapshots and aligns the nomination cursor
// onto an eligible team before any client is admitted.
func (r *Room) primeState() {
	ctx, cancel := context.WithTimeout(r.ctx, storeCallTimeout)
	defer cancel()
	if err := r.cfg.Cache.Refresh(ctx); err != nil {
		return
	}
	aligned, err := engine.AlignNominator(r.state, r.cfg.Cache.All())
	switch {
	case errors.Is(err, engine.ErrDraftComplete):
		r.state.Phase = engine.PhaseDraftComplete
	case err != nil:
		r.log.Warn("could not align nominator", zap.Error(err))
	default:
		r.state = aligned
	}
}

func (r *Room) loop() {
	for {
		select {
		case <-r.ctx.Done():
			r.shutdown()
			return

		case m := <-r.inbox:
			switch msg := m.(type) {
			case Join:
				r.handleJoin(msg)
			case Leave:
				r.handleLeave(msg.ClientID)
			case Heartbeat:
				if c, ok := r.clients[msg.ClientID]; ok {
					c.lastSeen = r.cfg.Clock.Now()
				}
			case Resync:
				if c, ok := r.clients[msg.ClientID]; ok {
					r.send(msg.ClientID, c, r.initFrame())
				}
			case FromClient:
				r.handleCommand(msg.ClientID, msg.Cmd)
			case countdownFired:
				r.handleCommand("", engine.Command{Type: engine.CmdCountdownElapsed, Gen: msg.Gen})
			case sweepFired:
				r.sweep()
				r.scheduleSweep()
			case commitRetry:
				if r.state.Phase == engine.PhaseSold {
					r.commitSale()
				}
			case GetView:
				msg.Reply <- View{
					Version:      r.version,
					NumClients:   len(r.clients),
					State:        r.state,
					Participants: r.participants(),
				}
			case Shutdown:
				r.shutdown()
				return
			}
		}
	}
}

func (r *Room) handleJoin(msg Join) {
	now := r.cfg.Clock.Now()
	r.clients[msg.ClientID] = &client{
		participant: msg.Participant,
		outbox:      msg.Outbox,
		joinedAt:    now,
		lastSeen:    now,
	}
	r.send(msg.ClientID, r.clients[msg.ClientID], r.initFrame())
	r.broadcast(types.ServerMessage{
		Type:        "user_joined",
		Version:     r.version,
		Participant: participantInfo(msg.Participant, now),
	})
	r.log.Info("participant joined",
		zap.String("participant", msg.Participant.ID),
		zap.String("name", msg.Participant.DisplayName))
}

func (r *Room) handleLeave(clientID string) {
	c, ok := r.clients[clientID]
	if !ok {
		return // unbind is idempotent
	}
	delete(r.clients, clientID)
	close(c.outbox)
	r.broadcast(types.ServerMessage{
		Type:        "user_left",
		Version:     r.version,
		Participant: participantInfo(c.participant, c.joinedAt),
	})
	r.log.Info("participant left", zap.String("participant", c.participant.ID))
	r.checkEmpty()
}

func (r *Room) handleCommand(clientID string, cmd engine.Command) {
	cmd.Now = r.cfg.Clock.Now()

	// Fail closed: a bid we cannot verify against fresh budget data is
	// rejected, never optimistically accepted.
	if cmd.Type == engine.CmdPlaceBid && r.cfg.Cache.Stale() {
		ctx, cancel := context.WithTimeout(r.ctx, storeCallTimeout)
		_ = r.cfg.Cache.Refresh(ctx)
		cancel()
		if r.cfg.Cache.Stale() {
			r.sendError(clientID, engine.ErrStaleData)
			return
		}
	}

	events, newState, err := engine.Apply(r.state, r.cfg.Cache.All(), cmd)
	if err != nil {
		r.sendError(clientID, err)
		return
	}
	if len(events) == 0 {
		return // stale timer fire, provably inert
	}

	r.state = newState
	r.version++
	r.dispatch(events)
}

// dispatch reacts to the events of one accepted mutation: arm or disarm the
// countdown timer, broadcast the new snapshot, then run the sale commit if
// the hammer fell.
func (r *Room) dispatch(events []engine.Event) {
	sold := false
	for _, evt := range events {
		switch evt.Type {
		case engine.EvtCountdownStarted, engine.EvtCountdownAdvanced:
			r.scheduleCountdown()
		case engine.EvtCountdownCancelled:
			r.stopCountdown()
		case engine.EvtPlayerSold:
			sold = true
			r.stopCountdown()
		case engine.EvtSaleCommitted:
			r.broadcast(types.ServerMessage{
				Type:    "sale_committed",
				Version: r.version,
				Sale:    &types.SaleInfo{Player: evt.Player, TeamID: evt.TeamID, Amount: evt.Amount},
			})
		case engine.EvtDraftCompleted:
			r.log.Info("draft complete", zap.Int("rounds", evt.Round))
		}
	}

	r.broadcast(r.stateFrame())

	if sold {
		r.commitSale()
	}
}

// commitSale hands the decided sale to the external store. Success advances
// the draft; failure warns the whole room and retries, because Sold state and
// persisted truth have diverged and the nominator must not silently advance.
func (r *Room) commitSale() {
	bid := r.state.CurrentBid
	player := r.state.SelectedPlayer
	if bid == nil || player == nil {
		r.log.Error("sold state without bid or player")
		return
	}

	ctx, cancel := context.WithTimeout(r.ctx, storeCallTimeout)
	err := r.cfg.Store.CommitSale(ctx, player.ID, bid.TeamID, bid.Amount)
	cancel()
	if err != nil {
		r.log.Error("sale commit failed",
			zap.String("player", player.ID),
			zap.String("team", bid.TeamID),
			zap.Int("amount", bid.Amount),
			zap.Error(err))
		r.broadcast(types.ServerMessage{
			Type:    "commit_failed",
			Version: r.version,
			Sale:    &types.SaleInfo{Player: player, TeamID: bid.TeamID, Amount: bid.Amount},
			Error:   &types.ErrorInfo{Code: "CommitFailed", Message: engine.ErrCommitFailed.Error()},
		})
		r.scheduleCommitRetry()
		return
	}

	ctx, cancel = context.WithTimeout(r.ctx, storeCallTimeout)
	_ = r.cfg.Cache.Refresh(ctx)
	cancel()

	events, newState, err := engine.Apply(r.state, r.cfg.Cache.All(), engine.Command{
		Type: engine.CmdCommitSale,
		Now:  r.cfg.Clock.Now(),
	})
	if err != nil {
		r.log.Error("could not clear sold state", zap.Error(err))
		return
	}
	r.state = newState
	r.version++
	r.dispatch(events)
	r.checkEmpty()
}

func (r *Room) sweep() {
	cutoff := r.cfg.Clock.Now().Add(-r.cfg.HeartbeatTTL)
	for id, c := range r.clients {
		if c.lastSeen.Before(cutoff) {
			r.log.Info("pruning silent participant", zap.String("participant", c.participant.ID))
			r.handleLeave(id)
		}
	}
}

func (r *Room) checkEmpty() {
	if len(r.clients) == 0 && r.state.Phase != engine.PhaseSold && r.cfg.OnEmpty != nil {
		r.cfg.OnEmpty(r.cfg.Code)
	}
}

func (r *Room) shutdown() {
	r.stopCountdown()
	if r.retryTimer != nil {
		r.retryTimer.Stop()
	}
	if r.sweepTimer != nil {
		r.sweepTimer.Stop()
	}
	for id, c := range r.clients {
		close(c.outbox)
		delete(r.clients, id)
	}
	r.cancel()
}

func (r *Room) initFrame() types.ServerMessage {
	frame := r.stateFrame()
	frame.Type = "init_state"
	frame.Participants = r.participants()
	return frame
}

func (r *Room) stateFrame() types.ServerMessage {
	snapshot := r.state
	return types.ServerMessage{Type: "state", Version: r.version, State: &snapshot}
}

func (r *Room) participants() []types.ParticipantInfo {
	out := make([]types.ParticipantInfo, 0, len(r.clients))
	for _, c := range r.clients {
		out = append(out, *participantInfo(c.participant, c.joinedAt))
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].JoinedAt.Equal(out[j].JoinedAt) {
			return out[i].JoinedAt.Before(out[j].JoinedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out
}

func participantInfo(p identity.Participant, joinedAt time.Time) *types.ParticipantInfo {
	return &types.ParticipantInfo{
		ID:          p.ID,
		DisplayName: p.DisplayName,
		TeamID:      p.TeamID,
		Admin:       p.Admin,
		JoinedAt:    joinedAt,
	}
}

func (r *Room) broadcast(msg types.ServerMessage) {
	for id, c := range r.clients {
		r.send(id, c, msg)
	}
}

func (r *Room) send(id string, c *client, msg types.ServerMessage) {
	select {
	case c.outbox <- msg:
	default:
		// Client is slow/full - drop them. They resync on reconnect.
		r.log.Warn("dropping slow client", zap.String("client", id))
		close(c.outbox)
		delete(r.clients, id)
	}
}

func (r *Room) sendError(clientID string, err error) {
	c, ok := r.clients[clientID]
	if !ok {
		return
	}
	r.send(clientID, c, types.ServerMessage{
		Type:    "error",
		Version: r.version,
		Error:   &types.ErrorInfo{Code: errorCode(err), Message: err.Error()},
	})
}
