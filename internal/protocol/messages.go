// internal/protocol/messages.go
package protocol

import "github.com/brick-codes/palace-bot/internal/cards"

// Message is implemented by every server-to-client message. Responses carry
// either a success payload (Ok) or a named error kind (Err); events carry
// plain payloads.
type Message interface {
	message()
}

// NewLobbyError names the server's reasons for refusing to create a lobby.
type NewLobbyError string

const (
	ErrLessThanTwoMaxPlayers NewLobbyError = "LessThanTwoMaxPlayers"
	ErrEmptyLobbyName        NewLobbyError = "EmptyLobbyName"
	ErrEmptyPlayerName       NewLobbyError = "EmptyPlayerName"
)

func (e NewLobbyError) Error() string { return "new lobby rejected: " + string(e) }

// LobbyCreated is the success payload of NewLobbyResponse. The creator is
// seated immediately and owns the lobby.
type LobbyCreated struct {
	PlayerID string `json:"player_id"`
	LobbyID  string `json:"lobby_id"`
}

// NewLobbyResponse answers a NewLobby request.
type NewLobbyResponse struct {
	Ok  *LobbyCreated
	Err NewLobbyError
}

func (*NewLobbyResponse) message() {}

// JoinLobbyError names the server's reasons for refusing a join. None of
// these are transient.
type JoinLobbyError string

const (
	ErrLobbyNotFound JoinLobbyError = "LobbyNotFound"
	ErrLobbyFull     JoinLobbyError = "LobbyFull"
	ErrBadPassword   JoinLobbyError = "BadPassword"
	ErrGameStarted   JoinLobbyError = "GameStarted"
)

func (e JoinLobbyError) Error() string { return "join lobby rejected: " + string(e) }

// LobbyJoined is the success payload of JoinLobbyResponse.
type LobbyJoined struct {
	PlayerID string `json:"player_id"`
}

// JoinLobbyResponse answers a JoinLobby request.
type JoinLobbyResponse struct {
	Ok  *LobbyJoined
	Err JoinLobbyError
}

func (*JoinLobbyResponse) message() {}

// LobbyDisplay is one advertised lobby in the directory. Read-only; the bot
// only ever logs it.
type LobbyDisplay struct {
	CurPlayers  int    `json:"cur_players"`
	MaxPlayers  int    `json:"max_players"`
	Started     bool   `json:"started"`
	HasPassword bool   `json:"has_password"`
	Owner       string `json:"owner"`
	Name        string `json:"name"`
	Age         uint64 `json:"age"`
}

// LobbyList answers a ListLobbies request.
type LobbyList struct {
	Lobbies []LobbyDisplay
}

func (*LobbyList) message() {}

// PlayError names the server's reasons for refusing a play or a faceup
// selection.
type PlayError string

const (
	ErrPlayLobbyNotFound  PlayError = "LobbyNotFound"
	ErrGameNotStarted     PlayError = "GameNotStarted"
	ErrPlayPlayerNotFound PlayError = "PlayerNotFound"
	ErrNotYourTurn        PlayError = "NotYourTurn"
)

func (e PlayError) Error() string { return "play rejected: " + string(e) }

// HandUpdate carries the server-confirmed hand after a play or faceup
// selection. It is authoritative and replaces the held hand entirely.
type HandUpdate struct {
	Hand cards.Hand `json:"hand"`
}

// ChooseFaceupResponse answers a ChooseFaceup request.
type ChooseFaceupResponse struct {
	Ok  *HandUpdate
	Err PlayError
}

func (*ChooseFaceupResponse) message() {}

// MakePlayResponse answers a MakePlay request.
type MakePlayResponse struct {
	Ok  *HandUpdate
	Err PlayError
}

func (*MakePlayResponse) message() {}

// ReconnectError names the server's reasons for refusing a reconnect.
type ReconnectError string

const (
	ErrReconnectLobbyNotFound  ReconnectError = "LobbyNotFound"
	ErrReconnectPlayerNotFound ReconnectError = "PlayerNotFound"
)

func (e ReconnectError) Error() string { return "reconnect rejected: " + string(e) }

// ReconnectResponse answers a Reconnect request. Success carries no payload.
type ReconnectResponse struct {
	Err ReconnectError
}

func (*ReconnectResponse) message() {}

// StartGameError names the server's reasons for refusing to start the game.
type StartGameError string

const (
	ErrStartLobbyNotFound StartGameError = "LobbyNotFound"
	ErrNotLobbyOwner      StartGameError = "NotLobbyOwner"
	ErrLessThanTwoPlayers StartGameError = "LessThanTwoPlayers"
)

func (e StartGameError) Error() string { return "start game rejected: " + string(e) }

// StartGameResponse answers a StartGame request. Success carries no payload;
// the game actually starting is signaled separately by GameStartedEvent.
type StartGameResponse struct {
	Err StartGameError
}

func (*StartGameResponse) message() {}

// GamePhase is the server-reported phase of the game.
type GamePhase string

const (
	PhaseSetup GamePhase = "Setup"
	PhasePlay  GamePhase = "Play"
)

// PublicGameState is the server-authoritative snapshot every player can see.
// Hand contents are private; only sizes appear here. This snapshot is the
// sole channel through which a bot learns whose turn it is.
type PublicGameState struct {
	Hands           []int          `json:"hands"`
	FaceUpThree     [][]cards.Card `json:"face_up_three"`
	FaceDownThree   []int          `json:"face_down_three"`
	TopCard         *cards.Card    `json:"top_card"`
	PileSize        int            `json:"pile_size"`
	ClearedSize     int            `json:"cleared_size"`
	CurPhase        GamePhase      `json:"cur_phase"`
	ActivePlayer    int            `json:"active_player"`
	LastCardsPlayed []cards.Card   `json:"last_cards_played"`
}

// PublicGameStateEvent is pushed on every public state change.
type PublicGameStateEvent struct {
	State PublicGameState
}

func (*PublicGameStateEvent) message() {}

// GameStartedEvent is pushed to each player when the game begins, carrying
// that player's dealt hand and seat index.
type GameStartedEvent struct {
	Hand       cards.Hand `json:"hand"`
	TurnNumber int        `json:"turn_number"`
}

func (*GameStartedEvent) message() {}

// PlayerJoinEvent is pushed to lobby members whenever someone joins.
type PlayerJoinEvent struct {
	NumPlayers int `json:"num_players"`
}

func (*PlayerJoinEvent) message() {}
