package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseClientMessage(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    ClientMessage
		wantErr bool
	}{
		{name: "join", raw: `{"type":"join","nickname":"Alice"}`, want: JoinMessage{Nickname: "Alice"}},
		{name: "join trims whitespace", raw: `{"type":"join","nickname":"  Bob  "}`, want: JoinMessage{Nickname: "Bob"}},
		{name: "join blank nickname falls back", raw: `{"type":"join","nickname":"   "}`, want: JoinMessage{Nickname: "Guest"}},
		{name: "join without nickname is invalid", raw: `{"type":"join"}`, wantErr: true},
		{name: "dice roll", raw: `{"type":"dice_roll","dice_type":"d20","quantity":3}`, want: RollMessage{DiceType: "d20", Quantity: 3}},
		{name: "dice roll defaults", raw: `{"type":"dice_roll"}`, want: RollMessage{DiceType: "d6", Quantity: 1}},
		{name: "dice roll custom", raw: `{"type":"dice_roll","dice_type":"custom","quantity":2,"custom_sides":7}`, want: RollMessage{DiceType: "custom", Quantity: 2, CustomSides: 7}},
		{name: "change mode", raw: `{"type":"change_mode","turn_based":false}`, want: ModeMessage{TurnBased: false}},
		{name: "unknown type", raw: `{"type":"dance"}`, wantErr: true},
		{name: "malformed json", raw: `{"type":`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseClientMessage([]byte(tt.raw))
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseClientMessageUnknownIsSentinel(t *testing.T) {
	_, err := ParseClientMessage([]byte(`{"type":"dance"}`))
	assert.ErrorIs(t, err, ErrUnknownMessage)
}

func TestNewRosterEvent(t *testing.T) {
	room := NewRoom("abc123")
	room.AddConnection(&fakeConn{name: "Alice"}, "Alice")
	room.AddConnection(&fakeConn{name: "Bob"}, "Bob")

	ev := NewRosterEvent(EventPlayerJoined, room, "Bob")
	assert.Equal(t, EventPlayerJoined, ev.Type)
	assert.Equal(t, "Bob", ev.Nickname)
	assert.Equal(t, []string{"Alice", "Bob"}, ev.PlayersOrder)
	assert.Equal(t, []string{"Alice", "Bob"}, ev.Players)
	assert.Equal(t, "Alice", ev.CurrentPlayer)
	assert.True(t, ev.IsTurnBased)
}

func TestNewTurnUpdate(t *testing.T) {
	room := NewRoom("abc123")
	room.AddConnection(&fakeConn{name: "Alice"}, "Alice")
	room.SetTurnBased(false)

	ev := NewTurnUpdate(room)
	assert.Equal(t, EventTurnUpdate, ev.Type)
	assert.Equal(t, []string{"Alice"}, ev.PlayersOrder)
	assert.Equal(t, "Alice", ev.CurrentPlayer)
	assert.False(t, ev.IsTurnBased)
}
