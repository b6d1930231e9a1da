package collab

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJoinCreatesRoomWithDefaults(t *testing.T) {
	r := NewRegistry()

	snap, user := r.Join("r1", "conn-a", "Alice")

	assert.Equal(t, DefaultCode, snap.Code)
	assert.Equal(t, DefaultLanguage, snap.Language)
	assert.Equal(t, []Participant{{ID: "conn-a", Name: "Alice"}}, snap.Users)
	assert.Equal(t, Participant{ID: "conn-a", Name: "Alice"}, user)
	assert.True(t, r.Has("r1"))
}

func TestSecondJoinDoesNotResetContent(t *testing.T) {
	r := NewRegistry()
	r.Join("r1", "conn-a", "Alice")
	require.NoError(t, r.SetCode("r1", "x = 1"))
	require.NoError(t, r.SetLanguage("r1", "python"))

	snap, _ := r.Join("r1", "conn-b", "Bob")

	assert.Equal(t, "x = 1", snap.Code)
	assert.Equal(t, "python", snap.Language)
	assert.Len(t, snap.Users, 2)
}

func TestJoinKeepsJoinOrder(t *testing.T) {
	r := NewRegistry()
	r.Join("r1", "conn-a", "Alice")
	r.Join("r1", "conn-b", "Bob")
	r.Join("r1", "conn-c", "Carol")

	members := r.Members("r1")
	require.Len(t, members, 3)
	assert.Equal(t, "Alice", members[0].Name)
	assert.Equal(t, "Bob", members[1].Name)
	assert.Equal(t, "Carol", members[2].Name)
}

func TestJoinSameConnectionNeverDuplicates(t *testing.T) {
	r := NewRegistry()
	r.Join("r1", "conn-a", "Alice")
	snap, _ := r.Join("r1", "conn-a", "Alicia")

	require.Len(t, snap.Users, 1)
	assert.Equal(t, "Alicia", snap.Users[0].Name, "rejoin refreshes the display name")
}

func TestRoomPresentIffMembers(t *testing.T) {
	r := NewRegistry()
	r.Join("r1", "conn-a", "Alice")
	r.Join("r1", "conn-b", "Bob")

	user, ok := r.Leave("r1", "conn-a")
	require.True(t, ok)
	assert.Equal(t, "Alice", user.Name)
	assert.True(t, r.Has("r1"), "room survives while a member remains")
	assert.Len(t, r.Members("r1"), 1)

	_, ok = r.Leave("r1", "conn-b")
	require.True(t, ok)
	assert.False(t, r.Has("r1"), "room is destroyed the instant it empties")
}

func TestRecreatedRoomForgetsPriorContent(t *testing.T) {
	r := NewRegistry()
	r.Join("r1", "conn-a", "Alice")
	require.NoError(t, r.SetCode("r1", "secret"))
	r.Leave("r1", "conn-a")

	snap, _ := r.Join("r1", "conn-b", "Bob")
	assert.Equal(t, DefaultCode, snap.Code, "no memory of prior content survives destruction")
}

func TestMutationsOnUnknownRoom(t *testing.T) {
	r := NewRegistry()

	assert.ErrorIs(t, r.SetCode("ghost", "x"), ErrRoomNotFound)
	assert.ErrorIs(t, r.SetLanguage("ghost", "go"), ErrRoomNotFound)

	_, ok := r.Leave("ghost", "conn-a")
	assert.False(t, ok)
}

func TestLeaveNonMemberIsNoop(t *testing.T) {
	r := NewRegistry()
	r.Join("r1", "conn-a", "Alice")

	_, ok := r.Leave("r1", "conn-b")
	assert.False(t, ok)
	assert.Len(t, r.Members("r1"), 1)
}

func TestSetCodeLastWriteWins(t *testing.T) {
	r := NewRegistry()
	r.Join("r1", "conn-a", "Alice")

	require.NoError(t, r.SetCode("r1", "first"))
	require.NoError(t, r.SetCode("r1", "second"))

	snap, _ := r.Join("r1", "conn-b", "Bob")
	assert.Equal(t, "second", snap.Code)
}

func TestRemoveFromAllRoomsSweepsEveryRoom(t *testing.T) {
	r := NewRegistry()
	r.Join("r1", "conn-a", "Alice")
	r.Join("r2", "conn-a", "Alice")
	r.Join("r2", "conn-b", "Bob")

	departures := r.RemoveFromAllRooms("conn-a")

	require.Len(t, departures, 2)
	assert.False(t, r.Has("r1"), "emptied room destroyed")
	assert.True(t, r.Has("r2"), "room with remaining member survives")
	assert.Len(t, r.Members("r2"), 1)
}

func TestStatsSurface(t *testing.T) {
	r := NewRegistry()
	assert.Zero(t, r.RoomCount())

	r.Join("r1", "conn-a", "Alice")
	r.Join("r2", "conn-b", "Bob")

	assert.Equal(t, 2, r.RoomCount())
	assert.ElementsMatch(t, []string{"r1", "r2"}, r.ActiveRooms())
}
