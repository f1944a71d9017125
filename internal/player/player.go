// Package player implements the player registry and login flow of
// spec §4.12: session-to-player state, the room index, login
// orchestration, rename, and persistence handoff.
package player

import (
	"regexp"
	"strings"

	"github.com/ambonmud/ambonmud/internal/ids"
	"github.com/ambonmud/ambonmud/internal/persistence"
)

type Class string

const (
	ClassWarrior Class = "WARRIOR"
	ClassMage    Class = "MAGE"
	ClassCleric  Class = "CLERIC"
	ClassRogue   Class = "ROGUE"
)

type Race string

const (
	RaceHuman Race = "HUMAN"
	RaceElf   Race = "ELF"
	RaceDwarf Race = "DWARF"
	RaceOrc   Race = "ORC"
)

// LoginPhase marks where a session sits in the login state machine
// (spec §4.12).
type LoginPhase int

const (
	PhasePromptName LoginPhase = iota
	PhasePromptPassword
	PhasePromptConfirmCreate
	PhasePromptNewPassword
	PhasePromptClass
	PhasePromptRace
	PhasePromptMfaCode // spec 4.17 supplement: staff TOTP challenge
	PhaseInGame
)

// State is the mutable, per-session player record (spec §3).
type State struct {
	SessionId   ids.SessionId
	Name        string
	RoomId      ids.RoomId
	Class       Class
	Race        Race
	Level       int
	XpTotal     int
	Gold        int
	Str, Dex, Con, Int, Wis, Cha int
	Hp, MaxHp   int
	Mana, MaxMana int
	BaseMaxHp   int
	IsStaff     bool
	MfaEnabled  bool
	MfaSecret   string
	Title       string
	ActiveQuests    []string
	CompletedQuests []string
	Achievements    []string
	AnsiEnabled bool

	LoginPhase   LoginPhase
	PendingName  string
	PendingClass Class
	PasswordHash string
}

// RenameResult is the tagged result of a rename attempt (spec §4.12).
type RenameResult int

const (
	RenameOk RenameResult = iota
	RenameInvalid
	RenameTaken
)

var nameRe = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9_]{1,19}$`)

// ValidName reports whether name satisfies spec §4.12's 2-20 char,
// [A-Za-z][A-Za-z0-9_]* rule.
func ValidName(name string) bool {
	return nameRe.MatchString(name)
}

// Registry owns every live PlayerState, the session and room indexes,
// and talks to a PlayerRepository for durable load/save. Not safe for
// concurrent use; the engine worker is its sole caller (spec §5).
type Registry struct {
	byId        map[ids.SessionId]*State
	roomIndex   map[ids.RoomId]map[ids.SessionId]bool
	namesInUse  map[string]ids.SessionId // lowercased name -> session
	repo        persistence.PlayerRepository
	startRoomId ids.RoomId
}

func NewRegistry(repo persistence.PlayerRepository, startRoomId ids.RoomId) *Registry {
	return &Registry{
		byId:       make(map[ids.SessionId]*State),
		roomIndex:  make(map[ids.RoomId]map[ids.SessionId]bool),
		namesInUse: make(map[string]ids.SessionId),
		repo:       repo,
		startRoomId: startRoomId,
	}
}

// Connect places a freshly connected session into login phase
// (spec §4.12 step 1).
func (r *Registry) Connect(sid ids.SessionId, ansiEnabled bool) *State {
	st := &State{SessionId: sid, LoginPhase: PhasePromptName, AnsiEnabled: ansiEnabled}
	r.byId[sid] = st
	return st
}

func (r *Registry) Get(sid ids.SessionId) (*State, bool) {
	st, ok := r.byId[sid]
	return st, ok
}

func (r *Registry) InRoom(roomId ids.RoomId) []*State {
	set := r.roomIndex[roomId]
	out := make([]*State, 0, len(set))
	for sid := range set {
		out = append(out, r.byId[sid])
	}
	return out
}

func (r *Registry) nameTaken(lower string) bool {
	if _, ok := r.namesInUse[lower]; ok {
		return true
	}
	return r.repo.Exists(lower)
}

// SubmitName handles login-phase step 1/2/3 entry: looks up an
// existing record or begins character creation.
func (r *Registry) SubmitName(sid ids.SessionId, name string) (exists bool, ok bool) {
	st, found := r.byId[sid]
	if !found || st.LoginPhase != PhasePromptName {
		return false, false
	}
	if !ValidName(name) {
		return false, false
	}
	lower := strings.ToLower(name)
	if _, live := r.namesInUse[lower]; live {
		return false, false
	}
	st.PendingName = name
	if r.repo.Exists(lower) {
		st.LoginPhase = PhasePromptPassword
		return true, true
	}
	st.LoginPhase = PhasePromptConfirmCreate
	return false, true
}

// SubmitPassword verifies an existing account's password and, on
// success, hydrates PlayerState from the repository record.
func (r *Registry) SubmitPassword(sid ids.SessionId, password string, verify func(hash, plain string) bool) bool {
	st, ok := r.byId[sid]
	if !ok || st.LoginPhase != PhasePromptPassword {
		return false
	}
	rec, found := r.repo.FindByName(strings.ToLower(st.PendingName))
	if !found || !verify(rec.PasswordHash, password) {
		return false
	}
	r.hydrate(st, rec)
	r.finishLogin(st)
	return true
}

func (r *Registry) hydrate(st *State, rec persistence.PlayerRecord) {
	st.Name = rec.Name
	st.RoomId = rec.RoomId
	st.Class = Class(rec.Class)
	st.Race = Race(rec.Race)
	st.Level = rec.Level
	st.XpTotal = rec.XpTotal
	st.Gold = rec.Gold
	st.Str, st.Dex, st.Con, st.Int, st.Wis, st.Cha = rec.Str, rec.Dex, rec.Con, rec.Int, rec.Wis, rec.Cha
	st.BaseMaxHp = rec.BaseMaxHp
	st.IsStaff = rec.IsStaff
	st.MfaEnabled = rec.MfaEnabled
	st.MfaSecret = rec.MfaSecret
	st.ActiveQuests = rec.ActiveQuests
	st.CompletedQuests = rec.CompletedQuests
	st.Achievements = rec.Achievements
	st.PasswordHash = rec.PasswordHash
}

// ConfirmCreate handles the yes/no character-creation confirmation
// prompt.
func (r *Registry) ConfirmCreate(sid ids.SessionId, yes bool) bool {
	st, ok := r.byId[sid]
	if !ok || st.LoginPhase != PhasePromptConfirmCreate {
		return false
	}
	if !yes {
		st.LoginPhase = PhasePromptName
		st.PendingName = ""
		return true
	}
	st.LoginPhase = PhasePromptNewPassword
	return true
}

func (r *Registry) SubmitNewPassword(sid ids.SessionId, password string, hash func(string) string) bool {
	st, ok := r.byId[sid]
	if !ok || st.LoginPhase != PhasePromptNewPassword {
		return false
	}
	st.PasswordHash = hash(password)
	st.LoginPhase = PhasePromptClass
	return true
}

func (r *Registry) SubmitClass(sid ids.SessionId, class Class) bool {
	st, ok := r.byId[sid]
	if !ok || st.LoginPhase != PhasePromptClass {
		return false
	}
	st.Class = class
	st.LoginPhase = PhasePromptRace
	return true
}

// SubmitRace finalizes character creation, persists the new record,
// and places the session at the start room.
func (r *Registry) SubmitRace(sid ids.SessionId, race Race, startingStats func(Class, Race) (str, dex, con, intel, wis, cha, baseMaxHp int)) bool {
	st, ok := r.byId[sid]
	if !ok || st.LoginPhase != PhasePromptRace {
		return false
	}
	st.Race = race
	st.Name = st.PendingName
	st.Level = 1
	st.Str, st.Dex, st.Con, st.Int, st.Wis, st.Cha, st.BaseMaxHp = startingStats(st.Class, st.Race)
	st.RoomId = r.startRoomId

	r.save(st)
	r.finishLogin(st)
	return true
}

func (r *Registry) finishLogin(st *State) {
	st.LoginPhase = PhaseInGame
	lower := strings.ToLower(st.Name)
	r.namesInUse[lower] = st.SessionId
	r.indexRoom(st.SessionId, st.RoomId)
}

func (r *Registry) indexRoom(sid ids.SessionId, roomId ids.RoomId) {
	set, ok := r.roomIndex[roomId]
	if !ok {
		set = make(map[ids.SessionId]bool)
		r.roomIndex[roomId] = set
	}
	set[sid] = true
}

// MoveTo updates a player's room index entry (spec §4.12).
func (r *Registry) MoveTo(sid ids.SessionId, roomId ids.RoomId) {
	st, ok := r.byId[sid]
	if !ok {
		return
	}
	if set, ok := r.roomIndex[st.RoomId]; ok {
		delete(set, sid)
	}
	st.RoomId = roomId
	r.indexRoom(sid, roomId)
}

// Rename validates and applies a new name, checking uniqueness against
// both live sessions and the repository.
func (r *Registry) Rename(sid ids.SessionId, newName string) RenameResult {
	st, ok := r.byId[sid]
	if !ok {
		return RenameInvalid
	}
	if !ValidName(newName) {
		return RenameInvalid
	}
	lower := strings.ToLower(newName)
	if r.nameTaken(lower) {
		return RenameTaken
	}
	delete(r.namesInUse, strings.ToLower(st.Name))
	st.Name = newName
	r.namesInUse[lower] = sid
	r.save(st)
	return RenameOk
}

// Disconnect removes sid from all indexes and writes a final snapshot.
// Per-subsystem derived state (ability cooldowns, status effects,
// dialogue, regen, behavior memory) is purged by the engine calling
// each subsystem's own onPlayerDisconnected hook; this registry only
// owns identity/room/persistence concerns.
func (r *Registry) Disconnect(sid ids.SessionId) {
	st, ok := r.byId[sid]
	if !ok {
		return
	}
	if set, ok := r.roomIndex[st.RoomId]; ok {
		delete(set, sid)
	}
	delete(r.namesInUse, strings.ToLower(st.Name))
	if st.LoginPhase == PhaseInGame {
		r.save(st)
	}
	delete(r.byId, sid)
}

func (r *Registry) save(st *State) {
	r.repo.Save(persistence.PlayerRecord{
		Name: st.Name, Class: string(st.Class), Race: string(st.Race),
		Level: st.Level, XpTotal: st.XpTotal, Gold: st.Gold,
		Str: st.Str, Dex: st.Dex, Con: st.Con, Int: st.Int, Wis: st.Wis, Cha: st.Cha,
		BaseMaxHp: st.BaseMaxHp, RoomId: st.RoomId, IsStaff: st.IsStaff, MfaEnabled: st.MfaEnabled,
		MfaSecret: st.MfaSecret,
		ActiveQuests: st.ActiveQuests, CompletedQuests: st.CompletedQuests, Achievements: st.Achievements,
		PasswordHash: st.PasswordHash,
	})
}

// Save exposes the persistence handoff for other subsystems that
// mutate durable fields (level-up, quest completion) and must trigger
// a save per spec §6's "save is invoked on login finalize and
// disconnect and on level-up."
func (r *Registry) Save(sid ids.SessionId) {
	if st, ok := r.byId[sid]; ok {
		r.save(st)
	}
}

// All returns every live in-game player, used by admin snapshots and
// zone broadcasts.
func (r *Registry) All() []*State {
	out := make([]*State, 0, len(r.byId))
	for _, st := range r.byId {
		if st.LoginPhase == PhaseInGame {
			out = append(out, st)
		}
	}
	return out
}
