// Package persistence defines the PlayerRepository contract of spec
// §6: the core depends only on this interface; durable backing stores
// (see sqlstore, memstore) satisfy it.
package persistence

import "github.com/ambonmud/ambonmud/internal/ids"

// PlayerRecord holds every durable player field (spec §6).
type PlayerRecord struct {
	Name         string
	Class        string
	Race         string
	Level        int
	XpTotal      int
	Gold         int
	Str, Dex, Con, Int, Wis, Cha int
	BaseMaxHp    int
	RoomId       ids.RoomId
	InventoryItemIds []string
	EquippedItemIds  map[string]string // slot -> item id
	ActiveQuests     []string
	CompletedQuests  []string
	Achievements     []string
	IsStaff      bool
	MfaEnabled   bool
	MfaSecret    string
	PasswordHash string
	CreatedAtUnix int64
	UpdatedAtUnix int64
}

// PlayerRepository is the durable backing store contract. The core
// guarantees Save is invoked on login finalize, disconnect, and
// level-up (spec §6); it never assumes a particular backend.
type PlayerRepository interface {
	FindByName(name string) (PlayerRecord, bool)
	Save(record PlayerRecord) error
	Exists(name string) bool
}
