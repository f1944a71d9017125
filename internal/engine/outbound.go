package engine

import (
	"github.com/ambonmud/ambonmud/internal/events"
	"github.com/ambonmud/ambonmud/internal/ids"
	"github.com/ambonmud/ambonmud/internal/player"
)

func (e *Engine) send(sid ids.SessionId, text string) {
	e.outbound.Enqueue(events.NewSendText(sid, text))
}

func (e *Engine) sendPrompt(sid ids.SessionId) {
	e.outbound.Enqueue(events.NewSendPrompt(sid))
}

func (e *Engine) sendGmcp(sid ids.SessionId, pkg string, payload any) {
	if !e.gmcpNegotiated[sid] {
		return
	}
	e.outbound.Enqueue(events.NewSendGmcp(sid, pkg, payload))
}

// broadcastRoom sends text to every in-game player in roomId except
// exclude (use the zero session id to exclude none).
func (e *Engine) broadcastRoom(roomId ids.RoomId, exclude ids.SessionId, text string) {
	for _, st := range e.players.InRoom(roomId) {
		if st.SessionId == exclude {
			continue
		}
		e.send(st.SessionId, text)
	}
}

// broadcastGmcpRoom sends a GMCP package to every in-game player in
// roomId except exclude, e.g. Room.AddPlayer/Room.RemovePlayer on
// movement (spec §6/§8 scenario S2).
func (e *Engine) broadcastGmcpRoom(roomId ids.RoomId, exclude ids.SessionId, pkg string, payload any) {
	for _, st := range e.players.InRoom(roomId) {
		if st.SessionId == exclude {
			continue
		}
		e.sendGmcp(st.SessionId, pkg, payload)
	}
}

func (e *Engine) promptForPhase(st *player.State) {
	switch st.LoginPhase {
	case player.PhasePromptName:
		e.send(st.SessionId, "Name: ")
	case player.PhasePromptPassword:
		e.send(st.SessionId, "Password: ")
	case player.PhasePromptConfirmCreate:
		e.send(st.SessionId, "That name is unclaimed. Create a new character? (yes/no) ")
	case player.PhasePromptNewPassword:
		e.send(st.SessionId, "Choose a password: ")
	case player.PhasePromptClass:
		e.send(st.SessionId, "Choose a class (Warrior/Mage/Cleric/Rogue): ")
	case player.PhasePromptRace:
		e.send(st.SessionId, "Choose a race (Human/Elf/Dwarf/Orc): ")
	case player.PhasePromptMfaCode:
		e.send(st.SessionId, "Authenticator code: ")
	case player.PhaseInGame:
		e.sendPrompt(st.SessionId)
	}
}
