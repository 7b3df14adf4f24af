// internal/cards/cards.go
package cards

// Suit is one of the four French suits, spelled the way the Palace server
// spells them on the wire.
type Suit string

const (
	Clubs    Suit = "Clubs"
	Diamonds Suit = "Diamonds"
	Hearts   Suit = "Hearts"
	Spades   Suit = "Spades"
)

// Rank is a card rank from Two up to Ace. The server serializes ranks under
// the field name "value".
type Rank string

const (
	Two   Rank = "Two"
	Three Rank = "Three"
	Four  Rank = "Four"
	Five  Rank = "Five"
	Six   Rank = "Six"
	Seven Rank = "Seven"
	Eight Rank = "Eight"
	Nine  Rank = "Nine"
	Ten   Rank = "Ten"
	Jack  Rank = "Jack"
	Queen Rank = "Queen"
	King  Rank = "King"
	Ace   Rank = "Ace"
)

// Suits enumerates every suit in a stable order.
var Suits = []Suit{Clubs, Diamonds, Hearts, Spades}

// Ranks enumerates every rank in a stable order.
var Ranks = []Rank{Two, Three, Four, Five, Six, Seven, Eight, Nine, Ten, Jack, Queen, King, Ace}

// Card is an immutable playing card value. Two cards are the same card iff
// they compare equal. The bot defines no ordering between cards; ranking
// plays is the server's job.
type Card struct {
	Rank Rank `json:"value"`
	Suit Suit `json:"suit"`
}

func (c Card) String() string {
	return string(c.Rank) + " of " + string(c.Suit)
}

// Hand is the ordered sequence of cards a single bot currently holds. The
// server owns the truth: whenever a response carries a hand, the bot replaces
// its hand wholesale rather than patching it.
type Hand []Card

// Clone returns an independent copy of the hand.
func (h Hand) Clone() Hand {
	if h == nil {
		return nil
	}
	out := make(Hand, len(h))
	copy(out, h)
	return out
}

// Contains reports whether the hand holds the given card.
func (h Hand) Contains(c Card) bool {
	for _, held := range h {
		if held == c {
			return true
		}
	}
	return false
}
