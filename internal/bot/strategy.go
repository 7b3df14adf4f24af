// internal/bot/strategy.go
package bot

import (
	"math/rand"
	"sync"

	"github.com/brick-codes/palace-bot/internal/cards"
)

// Strategy picks the cards to submit when the bot becomes the active player.
// The contract is narrow on purpose: consume the current hand, produce a
// non-empty subset, and let the server judge it.
type Strategy interface {
	// ChoosePlay returns the cards to play, or nil when the hand is empty.
	// Implementations must not mutate hand.
	ChoosePlay(hand cards.Hand) []cards.Card
}

// RandomStrategy plays exactly one uniformly random card from the hand.
// Intentionally rule-blind: a rejected play comes back as an error response
// and the bot simply waits for its next turn.
type RandomStrategy struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewRandomStrategy seeds a strategy. A fixed seed makes play deterministic,
// which the tests rely on.
func NewRandomStrategy(seed int64) *RandomStrategy {
	return &RandomStrategy{rng: rand.New(rand.NewSource(seed))}
}

func (s *RandomStrategy) ChoosePlay(hand cards.Hand) []cards.Card {
	if len(hand) == 0 {
		return nil
	}
	s.mu.Lock()
	idx := s.rng.Intn(len(hand))
	s.mu.Unlock()
	return []cards.Card{hand[idx]}
}
