package player

import (
	"testing"

	"github.com/ambonmud/ambonmud/internal/ids"
	"github.com/ambonmud/ambonmud/internal/persistence"
	"github.com/ambonmud/ambonmud/internal/persistence/memstore"
	"github.com/stretchr/testify/require"
)

func stubHash(s string) string               { return "hash:" + s }
func stubVerify(hash, plain string) bool     { return hash == "hash:"+plain }
func stubStats(Class, Race) (int, int, int, int, int, int, int) {
	return 10, 10, 10, 10, 10, 10, 20
}

func TestLoginFlowCreateNewCharacter(t *testing.T) {
	start := ids.NewRoomId("zone", "start")
	r := NewRegistry(memstore.New(), start)
	sid := ids.SessionId(1)
	r.Connect(sid, true)

	exists, ok := r.SubmitName(sid, "Alice")
	require.True(t, ok)
	require.False(t, exists)

	require.True(t, r.ConfirmCreate(sid, true))
	require.True(t, r.SubmitNewPassword(sid, "secret", stubHash))
	require.True(t, r.SubmitClass(sid, ClassWarrior))
	require.True(t, r.SubmitRace(sid, RaceHuman, stubStats))

	st, ok := r.Get(sid)
	require.True(t, ok)
	require.Equal(t, PhaseInGame, st.LoginPhase)
	require.Equal(t, start, st.RoomId)
	require.Len(t, r.InRoom(start), 1)
}

func TestLoginFlowExistingCharacter(t *testing.T) {
	repo := memstore.New()
	start := ids.NewRoomId("zone", "start")
	repo.Save(recordFor("bob", start))

	r := NewRegistry(repo, start)
	sid := ids.SessionId(1)
	r.Connect(sid, true)

	exists, ok := r.SubmitName(sid, "bob")
	require.True(t, ok)
	require.True(t, exists)

	require.True(t, r.SubmitPassword(sid, "secret", stubVerify))
	st, _ := r.Get(sid)
	require.Equal(t, PhaseInGame, st.LoginPhase)
}

func TestSubmitPasswordRejectsWrongPassword(t *testing.T) {
	repo := memstore.New()
	start := ids.NewRoomId("zone", "start")
	repo.Save(recordFor("bob", start))

	r := NewRegistry(repo, start)
	sid := ids.SessionId(1)
	r.Connect(sid, true)
	r.SubmitName(sid, "bob")

	require.False(t, r.SubmitPassword(sid, "wrong", stubVerify))
	st, _ := r.Get(sid)
	require.Equal(t, PhasePromptPassword, st.LoginPhase)
}

func TestNameRejectsLiveDuplicateCaseInsensitive(t *testing.T) {
	start := ids.NewRoomId("zone", "start")
	r := NewRegistry(memstore.New(), start)
	s1, s2 := ids.SessionId(1), ids.SessionId(2)
	r.Connect(s1, true)
	r.SubmitName(s1, "Alice")
	r.ConfirmCreate(s1, true)
	r.SubmitNewPassword(s1, "x", stubHash)
	r.SubmitClass(s1, ClassMage)
	r.SubmitRace(s1, RaceElf, stubStats)

	r.Connect(s2, true)
	_, ok := r.SubmitName(s2, "alice")
	require.False(t, ok)
}

func TestMoveToUpdatesRoomIndex(t *testing.T) {
	start := ids.NewRoomId("zone", "start")
	r := NewRegistry(memstore.New(), start)
	sid := ids.SessionId(1)
	r.Connect(sid, true)
	r.SubmitName(sid, "Alice")
	r.ConfirmCreate(sid, true)
	r.SubmitNewPassword(sid, "x", stubHash)
	r.SubmitClass(sid, ClassRogue)
	r.SubmitRace(sid, RaceOrc, stubStats)

	dest := ids.NewRoomId("zone", "next")
	r.MoveTo(sid, dest)
	require.Empty(t, r.InRoom(start))
	require.Len(t, r.InRoom(dest), 1)
}

func TestDisconnectRemovesFromIndexesAndFreesName(t *testing.T) {
	repo := memstore.New()
	start := ids.NewRoomId("zone", "start")
	r := NewRegistry(repo, start)
	sid := ids.SessionId(1)
	r.Connect(sid, true)
	r.SubmitName(sid, "Alice")
	r.ConfirmCreate(sid, true)
	r.SubmitNewPassword(sid, "x", stubHash)
	r.SubmitClass(sid, ClassCleric)
	r.SubmitRace(sid, RaceHuman, stubStats)

	r.Disconnect(sid)
	_, ok := r.Get(sid)
	require.False(t, ok)
	require.True(t, repo.Exists("alice"))

	sid2 := ids.SessionId(2)
	r.Connect(sid2, true)
	_, ok = r.SubmitName(sid2, "Alice")
	require.True(t, ok)
}

func recordFor(name string, roomId ids.RoomId) persistence.PlayerRecord {
	return persistence.PlayerRecord{Name: name, PasswordHash: "hash:secret", RoomId: roomId, Level: 1}
}
