// internal/protocol/requests.go
package protocol

import "github.com/brick-codes/palace-bot/internal/cards"

// Request is implemented by every client-to-server message. The tag is the
// variant name the message is wrapped in on the wire.
type Request interface {
	tag() string
}

// NewLobby asks the server to create a lobby and seat the sender as its owner.
type NewLobby struct {
	MaxPlayers int    `json:"max_players"`
	Password   string `json:"password"`
	LobbyName  string `json:"lobby_name"`
	PlayerName string `json:"player_name"`
}

func (NewLobby) tag() string { return "NewLobby" }

// JoinLobby asks to be seated in an existing lobby.
type JoinLobby struct {
	LobbyID    string `json:"lobby_id"`
	PlayerName string `json:"player_name"`
	Password   string `json:"password"`
}

func (JoinLobby) tag() string { return "JoinLobby" }

// ListLobbies asks for the current lobby directory. It carries no payload
// and encodes as a bare variant name.
type ListLobbies struct{}

func (ListLobbies) tag() string { return "ListLobbies" }

// StartGame asks to start the game. The server only honors it from the
// lobby owner.
type StartGame struct {
	LobbyID  string `json:"lobby_id"`
	PlayerID string `json:"player_id"`
}

func (StartGame) tag() string { return "StartGame" }

// ChooseFaceup submits the three cards to lay face up during Setup.
type ChooseFaceup struct {
	LobbyID   string     `json:"lobby_id"`
	PlayerID  string     `json:"player_id"`
	CardOne   cards.Card `json:"card_one"`
	CardTwo   cards.Card `json:"card_two"`
	CardThree cards.Card `json:"card_three"`
}

func (ChooseFaceup) tag() string { return "ChooseFaceup" }

// MakePlay submits one or more cards from the sender's hand.
type MakePlay struct {
	Cards    []cards.Card `json:"cards"`
	LobbyID  string       `json:"lobby_id"`
	PlayerID string       `json:"player_id"`
}

func (MakePlay) tag() string { return "MakePlay" }

// Reconnect resumes a previously assigned seat after a dropped connection.
type Reconnect struct {
	PlayerID string `json:"player_id"`
	LobbyID  string `json:"lobby_id"`
}

func (Reconnect) tag() string { return "Reconnect" }
