// internal/bot/testutils_test.go
package bot

import (
	"context"
	"encoding/json"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"github.com/brick-codes/palace-bot/internal/arbiter"
	"github.com/brick-codes/palace-bot/internal/cards"
	"github.com/brick-codes/palace-bot/internal/protocol"
	"github.com/brick-codes/palace-bot/internal/transport"
)

// fakeConn is a scripted transport.Conn. Tests push inbound messages and
// inspect what the bot sent.
type fakeConn struct {
	mu     sync.Mutex
	sent   [][]byte
	inbox  chan []byte
	closed bool
}

func newFakeConn() *fakeConn {
	return &fakeConn{inbox: make(chan []byte, 32)}
}

func (f *fakeConn) Send(_ context.Context, data []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, data)
	return nil
}

func (f *fakeConn) Receive(ctx context.Context) ([]byte, error) {
	select {
	case data, ok := <-f.inbox:
		if !ok {
			return nil, transport.ErrClosed
		}
		return data, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (f *fakeConn) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
	return nil
}

// sentTags returns the variant names of every request the bot sent.
func (f *fakeConn) sentTags(t *testing.T) []string {
	t.Helper()
	f.mu.Lock()
	defer f.mu.Unlock()
	tags := make([]string, 0, len(f.sent))
	for _, data := range f.sent {
		tag, err := protocol.RequestTag(data)
		require.NoError(t, err)
		tags = append(tags, tag)
	}
	return tags
}

// lastRequest decodes the payload of the most recent request into out.
func (f *fakeConn) lastRequest(t *testing.T, tag string, out interface{}) {
	t.Helper()
	f.mu.Lock()
	defer f.mu.Unlock()
	require.NotEmpty(t, f.sent)
	var env map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(f.sent[len(f.sent)-1], &env))
	require.Contains(t, env, tag)
	require.NoError(t, json.Unmarshal(env[tag], out))
}

func quietLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

// testClient builds a client wired to a fake connection, bypassing Run.
func testClient(fc *fakeConn, arb *arbiter.Arbiter) *Client {
	c := New(Config{
		ServerURL:       "ws://unit.test",
		PlayerName:      "bot-0",
		LobbyName:       "test lobby",
		LobbyPassword:   "eggs",
		LobbyMaxPlayers: 4,
		SetupTimeout:    time.Second,
	}, Deps{
		Arbiter:  arb,
		Strategy: NewRandomStrategy(1),
		Logger:   quietLogger(),
	})
	c.conn = fc
	return c
}

// playingClient is a testClient already seated in a running game.
func playingClient(fc *fakeConn, seat int, hand cards.Hand) *Client {
	c := testClient(fc, arbiter.New())
	c.state = StatePlaying
	c.session = Session{
		PlayerID:        "p1",
		LobbyID:         "lobby-7",
		Seat:            seat,
		ExpectedPlayers: 4,
		Hand:            hand.Clone(),
	}
	return c
}

func stateEvent(active int, phase protocol.GamePhase) *protocol.PublicGameStateEvent {
	return &protocol.PublicGameStateEvent{State: protocol.PublicGameState{
		Hands:        []int{3, 3, 3, 3},
		CurPhase:     phase,
		ActivePlayer: active,
	}}
}

func testHand() cards.Hand {
	return cards.Hand{
		{Rank: cards.Two, Suit: cards.Clubs},
		{Rank: cards.Seven, Suit: cards.Diamonds},
		{Rank: cards.Ten, Suit: cards.Hearts},
		{Rank: cards.King, Suit: cards.Spades},
	}
}
