// internal/protocol/codec.go

// Package protocol defines the message vocabulary exchanged with the Palace
// server and its externally-tagged JSON encoding: every message is a
// single-key object {"Variant": payload}, unit variants encode as the bare
// variant name, and responses wrap their payload in {"Ok": ...} or
// {"Err": "Kind"}.
package protocol

import (
	"encoding/json"
	"fmt"
)

// MarshalRequest encodes a client request in its wire envelope.
func MarshalRequest(r Request) ([]byte, error) {
	if _, ok := r.(ListLobbies); ok {
		return json.Marshal(r.tag())
	}
	payload, err := json.Marshal(r)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal %s payload: %w", r.tag(), err)
	}
	return json.Marshal(map[string]json.RawMessage{r.tag(): payload})
}

// RequestTag peeks at an encoded request and returns its variant name.
// Fake servers and the journal use it; the bot itself never needs it.
func RequestTag(data []byte) (string, error) {
	var unit string
	if err := json.Unmarshal(data, &unit); err == nil {
		return unit, nil
	}
	var env map[string]json.RawMessage
	if err := json.Unmarshal(data, &env); err != nil {
		return "", fmt.Errorf("malformed request envelope: %w", err)
	}
	if len(env) != 1 {
		return "", fmt.Errorf("request envelope has %d keys, want 1", len(env))
	}
	for tag := range env {
		return tag, nil
	}
	return "", nil // unreachable
}

// result mirrors serde's Result encoding: exactly one of Ok/Err is present.
type result struct {
	Ok  json.RawMessage `json:"Ok"`
	Err json.RawMessage `json:"Err"`
}

func parseResult(tag string, raw json.RawMessage) (ok json.RawMessage, errKind string, err error) {
	var res result
	if err := json.Unmarshal(raw, &res); err != nil {
		return nil, "", fmt.Errorf("malformed %s result: %w", tag, err)
	}
	switch {
	case res.Ok != nil:
		return res.Ok, "", nil
	case res.Err != nil:
		var kind string
		if err := json.Unmarshal(res.Err, &kind); err != nil {
			return nil, "", fmt.Errorf("malformed %s error kind: %w", tag, err)
		}
		return nil, kind, nil
	default:
		return nil, "", fmt.Errorf("%s result carries neither Ok nor Err", tag)
	}
}

// UnmarshalMessage decodes one inbound server message. Unknown variants are
// an error: the vocabulary is closed and anything else means the connection
// is talking to the wrong server.
func UnmarshalMessage(data []byte) (Message, error) {
	var env map[string]json.RawMessage
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("malformed message envelope: %w", err)
	}
	if len(env) != 1 {
		return nil, fmt.Errorf("message envelope has %d keys, want 1", len(env))
	}

	var tag string
	var raw json.RawMessage
	for k, v := range env {
		tag, raw = k, v
	}

	switch tag {
	case "NewLobbyResponse":
		okRaw, errKind, err := parseResult(tag, raw)
		if err != nil {
			return nil, err
		}
		msg := &NewLobbyResponse{Err: NewLobbyError(errKind)}
		if okRaw != nil {
			msg.Ok = &LobbyCreated{}
			if err := json.Unmarshal(okRaw, msg.Ok); err != nil {
				return nil, fmt.Errorf("malformed %s payload: %w", tag, err)
			}
		}
		return msg, nil

	case "JoinLobbyResponse":
		okRaw, errKind, err := parseResult(tag, raw)
		if err != nil {
			return nil, err
		}
		msg := &JoinLobbyResponse{Err: JoinLobbyError(errKind)}
		if okRaw != nil {
			msg.Ok = &LobbyJoined{}
			if err := json.Unmarshal(okRaw, msg.Ok); err != nil {
				return nil, fmt.Errorf("malformed %s payload: %w", tag, err)
			}
		}
		return msg, nil

	case "LobbyList":
		msg := &LobbyList{}
		if err := json.Unmarshal(raw, &msg.Lobbies); err != nil {
			return nil, fmt.Errorf("malformed %s payload: %w", tag, err)
		}
		return msg, nil

	case "ChooseFaceupResponse":
		okRaw, errKind, err := parseResult(tag, raw)
		if err != nil {
			return nil, err
		}
		msg := &ChooseFaceupResponse{Err: PlayError(errKind)}
		if okRaw != nil {
			msg.Ok = &HandUpdate{}
			if err := json.Unmarshal(okRaw, msg.Ok); err != nil {
				return nil, fmt.Errorf("malformed %s payload: %w", tag, err)
			}
		}
		return msg, nil

	case "MakePlayResponse":
		okRaw, errKind, err := parseResult(tag, raw)
		if err != nil {
			return nil, err
		}
		msg := &MakePlayResponse{Err: PlayError(errKind)}
		if okRaw != nil {
			msg.Ok = &HandUpdate{}
			if err := json.Unmarshal(okRaw, msg.Ok); err != nil {
				return nil, fmt.Errorf("malformed %s payload: %w", tag, err)
			}
		}
		return msg, nil

	case "ReconnectResponse":
		_, errKind, err := parseResult(tag, raw)
		if err != nil {
			return nil, err
		}
		return &ReconnectResponse{Err: ReconnectError(errKind)}, nil

	case "StartGameResponse":
		_, errKind, err := parseResult(tag, raw)
		if err != nil {
			return nil, err
		}
		return &StartGameResponse{Err: StartGameError(errKind)}, nil

	case "PublicGameStateEvent":
		msg := &PublicGameStateEvent{}
		if err := json.Unmarshal(raw, &msg.State); err != nil {
			return nil, fmt.Errorf("malformed %s payload: %w", tag, err)
		}
		return msg, nil

	case "GameStartedEvent":
		msg := &GameStartedEvent{}
		if err := json.Unmarshal(raw, msg); err != nil {
			return nil, fmt.Errorf("malformed %s payload: %w", tag, err)
		}
		return msg, nil

	case "PlayerJoinEvent":
		msg := &PlayerJoinEvent{}
		if err := json.Unmarshal(raw, msg); err != nil {
			return nil, fmt.Errorf("malformed %s payload: %w", tag, err)
		}
		return msg, nil

	default:
		return nil, fmt.Errorf("unknown message variant %q", tag)
	}
}

// MarshalMessage is the inverse of UnmarshalMessage. The bot never sends
// Messages; this exists for fake servers in tests and tooling.
func MarshalMessage(m Message) ([]byte, error) {
	wrap := func(tag string, payload interface{}) ([]byte, error) {
		raw, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal %s: %w", tag, err)
		}
		return json.Marshal(map[string]json.RawMessage{tag: raw})
	}
	wrapResult := func(tag string, ok interface{}, errKind string) ([]byte, error) {
		if errKind != "" {
			return wrap(tag, map[string]string{"Err": errKind})
		}
		raw, err := json.Marshal(ok)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal %s: %w", tag, err)
		}
		return wrap(tag, map[string]json.RawMessage{"Ok": raw})
	}

	switch msg := m.(type) {
	case *NewLobbyResponse:
		return wrapResult("NewLobbyResponse", msg.Ok, string(msg.Err))
	case *JoinLobbyResponse:
		return wrapResult("JoinLobbyResponse", msg.Ok, string(msg.Err))
	case *LobbyList:
		return wrap("LobbyList", msg.Lobbies)
	case *ChooseFaceupResponse:
		return wrapResult("ChooseFaceupResponse", msg.Ok, string(msg.Err))
	case *MakePlayResponse:
		return wrapResult("MakePlayResponse", msg.Ok, string(msg.Err))
	case *ReconnectResponse:
		return wrapResult("ReconnectResponse", struct{}{}, string(msg.Err))
	case *StartGameResponse:
		return wrapResult("StartGameResponse", struct{}{}, string(msg.Err))
	case *PublicGameStateEvent:
		return wrap("PublicGameStateEvent", msg.State)
	case *GameStartedEvent:
		return wrap("GameStartedEvent", msg)
	case *PlayerJoinEvent:
		return wrap("PlayerJoinEvent", msg)
	default:
		return nil, fmt.Errorf("unknown message type %T", m)
	}
}
