// internal/bot/bot.go

// Package bot implements one autonomous Palace client: a single connection,
// a per-connection protocol state machine, and the turn-taking policy.
package bot

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/brick-codes/palace-bot/internal/arbiter"
	"github.com/brick-codes/palace-bot/internal/cards"
	"github.com/brick-codes/palace-bot/internal/journal"
	"github.com/brick-codes/palace-bot/internal/protocol"
	"github.com/brick-codes/palace-bot/internal/transport"
)

// State is the bot's position in the connection lifecycle.
type State int

const (
	StateConnecting State = iota
	StateElecting
	StateJoining
	StateAwaitingStart
	StatePlaying
	StateTerminated
)

var stateNames = []string{
	"Connecting",
	"Electing",
	"Joining",
	"AwaitingStart",
	"Playing",
	"Terminated",
}

func (s State) String() string {
	if s < 0 || int(s) >= len(stateNames) {
		return fmt.Sprintf("State(%d)", int(s))
	}
	return stateNames[s]
}

// Session is the identity and game position the server assigns to one bot
// over the life of a connection. Fields fill in monotonically as responses
// arrive and are never reset.
type Session struct {
	PlayerID        string
	LobbyID         string
	Seat            int
	IsHost          bool
	ExpectedPlayers int
	Hand            cards.Hand
}

// Config describes one bot.
type Config struct {
	ServerURL       string
	PlayerName      string
	LobbyName       string
	LobbyPassword   string
	LobbyMaxPlayers int
	// SetupTimeout bounds each pre-game wait (dial, election, join, start)
	// so a silent server or a dead host can never hang the bot forever.
	SetupTimeout time.Duration
	// Resume, when set, skips the election entirely and asks the server to
	// restore a previously assigned seat.
	Resume *Session
}

// Deps are the collaborators a bot shares with the rest of the swarm. Zero
// values get sensible defaults, except Arbiter and Dialer which are required.
type Deps struct {
	Arbiter  *arbiter.Arbiter
	Dialer   transport.Dialer
	Strategy Strategy
	Journal  journal.Journal
	Logger   *logrus.Logger
	RunID    uuid.UUID
}

// Client is one bot. Not safe for concurrent use: all session state is
// owned by the single goroutine running Run.
type Client struct {
	cfg      Config
	arb      *arbiter.Arbiter
	dialer   transport.Dialer
	strategy Strategy
	journal  journal.Journal
	runID    uuid.UUID
	log      *logrus.Entry

	conn    transport.Conn
	state   State
	session Session

	claimHeld       bool
	lastPlayerCount int
	startRequested  bool
	pendingPlay     bool
	bufferedStart   *protocol.GameStartedEvent
}

// New builds a bot. It does not connect; call Run.
func New(cfg Config, deps Deps) *Client {
	if cfg.SetupTimeout <= 0 {
		cfg.SetupTimeout = 30 * time.Second
	}
	if deps.Strategy == nil {
		deps.Strategy = NewRandomStrategy(time.Now().UnixNano())
	}
	if deps.Journal == nil {
		deps.Journal = journal.Nop{}
	}
	if deps.Logger == nil {
		deps.Logger = logrus.StandardLogger()
	}
	return &Client{
		cfg:      cfg,
		arb:      deps.Arbiter,
		dialer:   deps.Dialer,
		strategy: deps.Strategy,
		journal:  deps.Journal,
		runID:    deps.RunID,
		log:      deps.Logger.WithField("bot", cfg.PlayerName),
		state:    StateConnecting,
		session:  Session{ExpectedPlayers: cfg.LobbyMaxPlayers},
	}
}

// Run drives the connection from dial to termination and returns the fatal
// error, if any. A bot the server hangs up on cleanly returns nil.
func (c *Client) Run(ctx context.Context) (err error) {
	defer func() {
		c.state = StateTerminated
		if c.claimHeld {
			// A creator dying before resolution must not strand the waiters.
			c.arb.Fail()
			c.claimHeld = false
		}
		if err != nil {
			c.record(context.WithoutCancel(ctx), "terminated", map[string]interface{}{"error": err.Error()})
		}
	}()

	dialCtx, cancel := context.WithTimeout(ctx, c.cfg.SetupTimeout)
	conn, dialErr := c.dialer.Dial(dialCtx, c.cfg.ServerURL)
	cancel()
	if dialErr != nil {
		return fmt.Errorf("connect: %w", dialErr)
	}
	c.conn = conn
	defer c.conn.Close()
	c.log.Info("connected")

	if c.cfg.Resume != nil {
		err = c.reconnect(ctx)
	} else {
		err = c.elect(ctx)
	}
	if err != nil {
		return err
	}

	return c.readLoop(ctx)
}

// elect runs the lobby election. Exactly one bot per swarm comes out of
// ClaimOrWait as the creator; it sends the create request and resolves the
// arbiter from the response handler. Everyone else gets the lobby ID here
// and goes straight to joining.
func (c *Client) elect(ctx context.Context) error {
	c.setState(StateElecting)

	claimCtx, cancel := context.WithTimeout(ctx, c.cfg.SetupTimeout)
	outcome, err := c.arb.ClaimOrWait(claimCtx)
	cancel()
	if err != nil {
		return fmt.Errorf("lobby election: %w", err)
	}

	if !outcome.Creator {
		c.session.LobbyID = outcome.LobbyID
		c.log.WithField("lobby", outcome.LobbyID).Info("election resolved, joining lobby")
		return c.join(ctx)
	}

	c.claimHeld = true
	c.session.IsHost = true
	c.log.Info("won the lobby election, creating lobby")
	if err := c.send(ctx, protocol.ListLobbies{}); err != nil {
		return err
	}
	return c.send(ctx, protocol.NewLobby{
		MaxPlayers: c.cfg.LobbyMaxPlayers,
		Password:   c.cfg.LobbyPassword,
		LobbyName:  c.cfg.LobbyName,
		PlayerName: c.cfg.PlayerName,
	})
}

func (c *Client) join(ctx context.Context) error {
	c.setState(StateJoining)
	return c.send(ctx, protocol.JoinLobby{
		LobbyID:    c.session.LobbyID,
		PlayerName: c.cfg.PlayerName,
		Password:   c.cfg.LobbyPassword,
	})
}

func (c *Client) reconnect(ctx context.Context) error {
	c.session = *c.cfg.Resume
	c.setState(StateJoining)
	c.log.WithField("lobby", c.session.LobbyID).Info("resuming previous session")
	return c.send(ctx, protocol.Reconnect{
		PlayerID: c.session.PlayerID,
		LobbyID:  c.session.LobbyID,
	})
}

// readLoop consumes inbound messages strictly in arrival order until the
// connection ends. Before the game starts, each wait is bounded by
// SetupTimeout; once playing, the bot waits as long as the game lasts.
func (c *Client) readLoop(ctx context.Context) error {
	for {
		rctx := ctx
		cancel := context.CancelFunc(func() {})
		if c.state != StatePlaying {
			rctx, cancel = context.WithTimeout(ctx, c.cfg.SetupTimeout)
		}
		data, err := c.conn.Receive(rctx)
		cancel()
		if err != nil {
			if errors.Is(err, transport.ErrClosed) {
				c.log.Info("server closed the connection")
				return nil
			}
			return fmt.Errorf("receive: %w", err)
		}

		msg, err := protocol.UnmarshalMessage(data)
		if err != nil {
			return fmt.Errorf("decode: %w", err)
		}
		if err := c.dispatch(ctx, msg); err != nil {
			return err
		}
	}
}

// dispatch routes one message to the handler for the current state.
func (c *Client) dispatch(ctx context.Context, msg protocol.Message) error {
	switch c.state {
	case StateElecting:
		return c.handleElecting(ctx, msg)
	case StateJoining:
		return c.handleJoining(ctx, msg)
	case StateAwaitingStart:
		return c.handleAwaitingStart(ctx, msg)
	case StatePlaying:
		return c.handlePlaying(ctx, msg)
	default:
		c.ignore(msg)
		return nil
	}
}

func (c *Client) handleElecting(ctx context.Context, msg protocol.Message) error {
	switch m := msg.(type) {
	case *protocol.LobbyList:
		c.log.WithField("lobbies", len(m.Lobbies)).Debug("received lobby directory")
		return nil

	case *protocol.NewLobbyResponse:
		if m.Err != "" {
			c.arb.Fail()
			c.claimHeld = false
			c.record(ctx, "create_rejected", map[string]interface{}{"reason": string(m.Err)})
			return fmt.Errorf("create lobby: %w", m.Err)
		}
		c.session.LobbyID = m.Ok.LobbyID
		c.arb.Resolve(m.Ok.LobbyID)
		c.claimHeld = false
		c.log.WithField("lobby", m.Ok.LobbyID).Info("lobby created")
		c.record(ctx, "lobby_created", map[string]interface{}{"lobby_id": m.Ok.LobbyID})
		// The host joins its own lobby like everyone else.
		return c.join(ctx)

	default:
		c.ignore(msg)
		return nil
	}
}

func (c *Client) handleJoining(ctx context.Context, msg protocol.Message) error {
	switch m := msg.(type) {
	case *protocol.JoinLobbyResponse:
		if m.Err != "" {
			c.record(ctx, "join_rejected", map[string]interface{}{"reason": string(m.Err)})
			return fmt.Errorf("join lobby %s: %w", c.session.LobbyID, m.Err)
		}
		c.session.PlayerID = m.Ok.PlayerID
		c.setState(StateAwaitingStart)
		c.log.WithField("player_id", m.Ok.PlayerID).Info("joined lobby")
		c.record(ctx, "joined", map[string]interface{}{"lobby_id": c.session.LobbyID})
		if c.bufferedStart != nil {
			started := c.bufferedStart
			c.bufferedStart = nil
			return c.handleAwaitingStart(ctx, started)
		}
		// The lobby may already have filled while our join was in flight.
		return c.maybeStart(ctx)

	case *protocol.ReconnectResponse:
		if m.Err != "" {
			return fmt.Errorf("reconnect: %w", m.Err)
		}
		c.setState(StatePlaying)
		c.log.Info("session resumed")
		return nil

	case *protocol.PlayerJoinEvent:
		// Another bot's join can land before our own join response.
		c.lastPlayerCount = m.NumPlayers
		return nil

	case *protocol.GameStartedEvent:
		// The deal can outrace our own join response too; hold it until the
		// server confirms the join, then replay it.
		c.bufferedStart = m
		return nil

	default:
		c.ignore(msg)
		return nil
	}
}

func (c *Client) handleAwaitingStart(ctx context.Context, msg protocol.Message) error {
	switch m := msg.(type) {
	case *protocol.PlayerJoinEvent:
		c.lastPlayerCount = m.NumPlayers
		c.log.WithField("players", m.NumPlayers).Debug("player joined lobby")
		return c.maybeStart(ctx)

	case *protocol.StartGameResponse:
		if m.Err != "" {
			return fmt.Errorf("start game: %w", m.Err)
		}
		return nil

	case *protocol.GameStartedEvent:
		c.session.Seat = m.TurnNumber
		c.session.Hand = m.Hand.Clone()
		c.setState(StatePlaying)
		c.log.WithFields(logrus.Fields{
			"seat":      m.TurnNumber,
			"hand_size": len(m.Hand),
		}).Info("game started")
		c.record(ctx, "game_started", map[string]interface{}{"seat": m.TurnNumber})
		return nil

	default:
		c.ignore(msg)
		return nil
	}
}

// maybeStart fires the host's single StartGame request once the server
// reports a full lobby. Non-hosts never send it.
func (c *Client) maybeStart(ctx context.Context) error {
	if !c.session.IsHost || c.startRequested || c.state != StateAwaitingStart {
		return nil
	}
	if c.lastPlayerCount != c.session.ExpectedPlayers {
		return nil
	}
	c.startRequested = true
	c.log.WithField("players", c.lastPlayerCount).Info("lobby is full, starting game")
	return c.send(ctx, protocol.StartGame{
		LobbyID:  c.session.LobbyID,
		PlayerID: c.session.PlayerID,
	})
}

func (c *Client) handlePlaying(ctx context.Context, msg protocol.Message) error {
	switch m := msg.(type) {
	case *protocol.PublicGameStateEvent:
		return c.maybeTakeTurn(ctx, &m.State)

	case *protocol.MakePlayResponse:
		c.pendingPlay = false
		if m.Err != "" {
			// Legality is adjudicated server-side; a rejected play just
			// means waiting for the next state push.
			c.log.Warnf("play rejected: %s", m.Err)
			c.record(ctx, "play_rejected", map[string]interface{}{"reason": string(m.Err)})
			return nil
		}
		c.session.Hand = m.Ok.Hand.Clone()
		c.log.WithField("hand_size", len(c.session.Hand)).Debug("play accepted")
		c.record(ctx, "play_accepted", map[string]interface{}{"hand_size": len(c.session.Hand)})
		return nil

	case *protocol.ChooseFaceupResponse:
		c.pendingPlay = false
		if m.Err != "" {
			c.log.Warnf("faceup selection rejected: %s", m.Err)
			c.record(ctx, "faceup_rejected", map[string]interface{}{"reason": string(m.Err)})
			return nil
		}
		c.session.Hand = m.Ok.Hand.Clone()
		c.log.WithField("hand_size", len(c.session.Hand)).Debug("faceup selection accepted")
		return nil

	default:
		c.ignore(msg)
		return nil
	}
}

// maybeTakeTurn acts on a public state snapshot: nothing unless this bot's
// seat is active and no request is already in flight.
func (c *Client) maybeTakeTurn(ctx context.Context, state *protocol.PublicGameState) error {
	if state.ActivePlayer != c.session.Seat {
		return nil
	}
	if c.pendingPlay {
		c.log.Debug("turn signaled while a play is already in flight")
		return nil
	}

	if state.CurPhase == protocol.PhaseSetup {
		return c.chooseFaceup(ctx)
	}
	return c.play(ctx)
}

// chooseFaceup lays down the first three held cards during Setup. The spread
// is not strategic; the server will tell us if it dislikes the choice.
func (c *Client) chooseFaceup(ctx context.Context) error {
	if len(c.session.Hand) < 3 {
		c.log.Warnf("cannot choose faceup cards from a hand of %d", len(c.session.Hand))
		return nil
	}
	c.pendingPlay = true
	c.log.Info("choosing faceup cards")
	c.record(ctx, "faceup_submitted", nil)
	return c.send(ctx, protocol.ChooseFaceup{
		LobbyID:   c.session.LobbyID,
		PlayerID:  c.session.PlayerID,
		CardOne:   c.session.Hand[0],
		CardTwo:   c.session.Hand[1],
		CardThree: c.session.Hand[2],
	})
}

func (c *Client) play(ctx context.Context) error {
	picked := c.strategy.ChoosePlay(c.session.Hand)
	if len(picked) == 0 {
		c.log.Warn("strategy produced no play for this turn")
		return nil
	}
	c.pendingPlay = true
	c.log.WithField("cards", fmt.Sprint(picked)).Info("taking turn")
	c.record(ctx, "play_submitted", map[string]interface{}{"cards": len(picked)})
	return c.send(ctx, protocol.MakePlay{
		Cards:    picked,
		LobbyID:  c.session.LobbyID,
		PlayerID: c.session.PlayerID,
	})
}

func (c *Client) send(ctx context.Context, req protocol.Request) error {
	data, err := protocol.MarshalRequest(req)
	if err != nil {
		return fmt.Errorf("encode request: %w", err)
	}
	if err := c.conn.Send(ctx, data); err != nil {
		return fmt.Errorf("send: %w", err)
	}
	return nil
}

func (c *Client) setState(s State) {
	c.log.WithFields(logrus.Fields{"from": c.state.String(), "to": s.String()}).Debug("state transition")
	c.state = s
}

func (c *Client) ignore(msg protocol.Message) {
	c.log.WithFields(logrus.Fields{
		"state":   c.state.String(),
		"message": fmt.Sprintf("%T", msg),
	}).Debug("ignoring message")
}

func (c *Client) record(ctx context.Context, event string, detail map[string]interface{}) {
	c.journal.Record(ctx, journal.NewEntry(c.runID, c.cfg.PlayerName, event, detail))
}
