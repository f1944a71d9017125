package engine

import (
	"strings"

	"github.com/ambonmud/ambonmud/internal/auth"
	"github.com/ambonmud/ambonmud/internal/content"
	"github.com/ambonmud/ambonmud/internal/ids"
	"github.com/ambonmud/ambonmud/internal/player"
)

// onLine routes one inbound line to the login state machine or the
// in-game command dispatcher depending on where the session sits
// (spec §4.12).
func (e *Engine) onLine(sid ids.SessionId, text string) {
	st, ok := e.players.Get(sid)
	if !ok {
		return
	}
	if e.pendingMfa[sid] {
		e.handleMfaCode(st, text)
		return
	}
	if st.LoginPhase != player.PhaseInGame {
		e.handleLoginLine(st, text)
		return
	}
	e.handleCommandLine(st, text)
}

func (e *Engine) handleLoginLine(st *player.State, text string) {
	sid := st.SessionId
	text = strings.TrimSpace(text)

	switch st.LoginPhase {
	case player.PhasePromptName:
		if _, ok := e.players.SubmitName(sid, text); !ok {
			e.send(sid, "That name won't do (2-20 letters/digits/underscore, starting with a letter), or is already in use.")
			e.promptForPhase(st)
			return
		}
		e.promptForPhase(st)

	case player.PhasePromptPassword:
		if !e.players.SubmitPassword(sid, text, auth.VerifyPassword) {
			e.send(sid, "Incorrect password.")
			e.promptForPhase(st)
			return
		}
		e.afterAuthenticated(st)

	case player.PhasePromptConfirmCreate:
		yes := text == "yes" || text == "y"
		no := text == "no" || text == "n"
		if !yes && !no {
			e.send(sid, "Please answer yes or no.")
			e.promptForPhase(st)
			return
		}
		e.players.ConfirmCreate(sid, yes)
		e.promptForPhase(st)

	case player.PhasePromptNewPassword:
		if text == "" {
			e.send(sid, "Password must not be blank.")
			e.promptForPhase(st)
			return
		}
		e.players.SubmitNewPassword(sid, text, auth.HashPassword)
		e.promptForPhase(st)

	case player.PhasePromptClass:
		class, ok := content.ParseClass(text)
		if !ok {
			e.send(sid, "Unknown class. Choose Warrior, Mage, Cleric, or Rogue.")
			e.promptForPhase(st)
			return
		}
		e.players.SubmitClass(sid, class)
		e.promptForPhase(st)

	case player.PhasePromptRace:
		race, ok := content.ParseRace(text)
		if !ok {
			e.send(sid, "Unknown race. Choose Human, Elf, Dwarf, or Orc.")
			e.promptForPhase(st)
			return
		}
		if !e.players.SubmitRace(sid, race, content.StartingStats) {
			e.promptForPhase(st)
			return
		}
		e.afterAuthenticated(st)
	}
}

// afterAuthenticated runs once a session has passed either the
// existing-account password check or brand new character creation.
// Staff accounts with MFA enrolled get one more challenge before
// entering the world (spec §4.17 supplement); the player registry's
// own LoginPhase has already advanced to PhaseInGame by this point, so
// the gate is tracked separately here rather than by rewinding it.
func (e *Engine) afterAuthenticated(st *player.State) {
	if st.IsStaff && st.MfaEnabled {
		e.pendingMfa[st.SessionId] = true
		e.send(st.SessionId, "Authenticator code: ")
		return
	}
	e.onEnterGame(st)
}

func (e *Engine) handleMfaCode(st *player.State, text string) {
	sid := st.SessionId
	if !auth.ValidateCode(st.MfaSecret, strings.TrimSpace(text)) {
		e.send(sid, "Invalid code. Try again.")
		e.send(sid, "Authenticator code: ")
		return
	}
	delete(e.pendingMfa, sid)
	e.onEnterGame(st)
}

// onEnterGame runs the first time a session lands in the world this
// connection: full heal (hp/mana are not persisted — see DESIGN.md),
// ability sync, and the opening room look.
func (e *Engine) onEnterGame(st *player.State) {
	if st.MaxHp == 0 {
		st.MaxHp = st.BaseMaxHp
	}
	st.Hp = st.MaxHp
	if st.MaxMana == 0 {
		st.MaxMana = 10 + st.Int + st.Wis
	}
	st.Mana = st.MaxMana

	e.abilityR.SyncAbilities(st.SessionId, st.Level, string(st.Class))

	e.send(st.SessionId, "Welcome, "+st.Name+".")
	e.sendGmcp(st.SessionId, "Char.Name", gmcpCharName(st))
	e.cmdLook(st, nil)
	e.broadcastRoom(st.RoomId, st.SessionId, st.Name+" has entered the world.")
	e.sendGmcp(st.SessionId, "Char.Vitals", gmcpVitals(st))
}
