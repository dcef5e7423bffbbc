package game

import (
	"encoding/json"
	"errors"
	"strings"
)

// Outbound event type tags.
const (
	EventPlayerJoined = "player_joined"
	EventPlayerLeft   = "player_left"
	EventDiceRoll     = "dice_roll"
	EventDiceResult   = "dice_result"
	EventTurnUpdate   = "turn_update"
	EventError        = "error"
)

var ErrUnknownMessage = errors.New("unknown message type")

// ClientMessage is one of the closed set of inbound message kinds:
// JoinMessage, RollMessage or ModeMessage.
type ClientMessage interface {
	clientMessage()
}

// JoinMessage must be the first message on a connection. An empty
// nickname after trimming falls back to "Guest".
type JoinMessage struct {
	Nickname string
}

// RollMessage requests a dice roll.
type RollMessage struct {
	DiceType    string
	Quantity    int
	CustomSides int
}

// ModeMessage toggles the room between turn-based and free play.
type ModeMessage struct {
	TurnBased bool
}

func (JoinMessage) clientMessage() {}
func (RollMessage) clientMessage() {}
func (ModeMessage) clientMessage() {}

type clientEnvelope struct {
	Type        string  `json:"type"`
	Nickname    *string `json:"nickname"`
	DiceType    string  `json:"dice_type"`
	Quantity    int     `json:"quantity"`
	CustomSides int     `json:"custom_sides"`
	TurnBased   bool    `json:"turn_based"`
}

// ParseClientMessage decodes one inbound frame into its message kind.
// A syntactically valid message with an unrecognized type tag returns
// ErrUnknownMessage; callers are expected to ignore those.
func ParseClientMessage(data []byte) (ClientMessage, error) {
	var env clientEnvelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, err
	}

	switch env.Type {
	case "join":
		if env.Nickname == nil {
			return nil, errors.New("join message missing nickname")
		}
		nick := strings.TrimSpace(*env.Nickname)
		if nick == "" {
			nick = "Guest"
		}
		return JoinMessage{Nickname: nick}, nil

	case "dice_roll":
		diceType := env.DiceType
		if diceType == "" {
			diceType = "d6"
		}
		quantity := env.Quantity
		if quantity == 0 {
			quantity = 1
		}
		return RollMessage{DiceType: diceType, Quantity: quantity, CustomSides: env.CustomSides}, nil

	case "change_mode":
		return ModeMessage{TurnBased: env.TurnBased}, nil

	default:
		return nil, ErrUnknownMessage
	}
}

// RosterEvent is the shared shape of player_joined and player_left.
type RosterEvent struct {
	Type          string   `json:"type"`
	Nickname      string   `json:"nickname"`
	Players       []string `json:"players"`
	PlayersOrder  []string `json:"players_order"`
	CurrentPlayer string   `json:"current_player"`
	IsTurnBased   bool     `json:"is_turn_based"`
}

// RollAnnouncement is the lightweight dice_roll event broadcast before
// the full result.
type RollAnnouncement struct {
	Type         string `json:"type"`
	Nickname     string `json:"nickname"`
	DiceNotation string `json:"dice_notation"`
	Quantity     int    `json:"quantity"`
	Sides        int    `json:"sides"`
}

// RollResult is the full dice_result event; it is also what the room
// history stores.
type RollResult struct {
	Type         string `json:"type"`
	Nickname     string `json:"nickname"`
	DiceType     string `json:"dice_type"`
	DiceNotation string `json:"dice_notation"`
	Quantity     int    `json:"quantity"`
	Sides        int    `json:"sides"`
	Rolls        []int  `json:"rolls"`
	Total        int    `json:"total"`
}

// TurnUpdate carries the turn state after a roll or mode change.
type TurnUpdate struct {
	Type          string   `json:"type"`
	PlayersOrder  []string `json:"players_order"`
	CurrentPlayer string   `json:"current_player"`
	IsTurnBased   bool     `json:"is_turn_based"`
}

// ErrorEvent is sent privately to a single connection, never broadcast.
type ErrorEvent struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

// NewRosterEvent snapshots the room for a player_joined or player_left
// broadcast about nickname.
func NewRosterEvent(eventType string, room *Room, nickname string) RosterEvent {
	order := room.PlayersInOrder()
	return RosterEvent{
		Type:          eventType,
		Nickname:      nickname,
		Players:       order,
		PlayersOrder:  order,
		CurrentPlayer: room.CurrentPlayerName(),
		IsTurnBased:   room.TurnBased(),
	}
}

// NewTurnUpdate snapshots the room's turn state.
func NewTurnUpdate(room *Room) TurnUpdate {
	return TurnUpdate{
		Type:          EventTurnUpdate,
		PlayersOrder:  room.PlayersInOrder(),
		CurrentPlayer: room.CurrentPlayerName(),
		IsTurnBased:   room.TurnBased(),
	}
}
