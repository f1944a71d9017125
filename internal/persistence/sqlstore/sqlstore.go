// Package sqlstore is the SQL-backed PlayerRepository (spec §6),
// supporting both sqlite and postgres the way the teacher's
// internal/database package switches on DBType. Grounded on
// internal/database/database.go's Initialize/initializeSQLite/
// initializePostgreSQL split and internal/database/rooms.go's
// CRUD style, adapted from room/zone persistence to player records.
package sqlstore

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
	"go.uber.org/zap"

	"github.com/ambonmud/ambonmud/internal/ids"
	"github.com/ambonmud/ambonmud/internal/persistence"
)

const schema = `
CREATE TABLE IF NOT EXISTS players (
	name TEXT PRIMARY KEY,
	class TEXT NOT NULL,
	race TEXT NOT NULL,
	level INTEGER NOT NULL,
	xp_total INTEGER NOT NULL,
	gold INTEGER NOT NULL,
	str INTEGER NOT NULL, dex INTEGER NOT NULL, con INTEGER NOT NULL,
	int_stat INTEGER NOT NULL, wis INTEGER NOT NULL, cha INTEGER NOT NULL,
	base_max_hp INTEGER NOT NULL,
	room_id TEXT NOT NULL,
	inventory_item_ids TEXT NOT NULL,
	equipped_item_ids TEXT NOT NULL,
	active_quests TEXT NOT NULL,
	completed_quests TEXT NOT NULL,
	achievements TEXT NOT NULL,
	is_staff INTEGER NOT NULL,
	mfa_enabled INTEGER NOT NULL,
	mfa_secret TEXT NOT NULL,
	password_hash TEXT NOT NULL,
	created_at_unix INTEGER NOT NULL,
	updated_at_unix INTEGER NOT NULL
);
`

// Store is a *sql.DB-backed PlayerRepository.
type Store struct {
	db     *sql.DB
	log    *zap.Logger
	dbType string
}

// Open opens a connection for dbType ("sqlite" or "postgres") and
// ensures the players table exists, mirroring
// internal/database.Initialize's connect-then-migrate sequence.
func Open(dbType, dsn string, log *zap.Logger) (*Store, error) {
	var driver string
	switch dbType {
	case "sqlite":
		driver = "sqlite3"
		if dir := filepath.Dir(dsn); dir != "" && dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("sqlstore: create db directory: %w", err)
			}
		}
	case "postgres":
		driver = "postgres"
	default:
		return nil, fmt.Errorf("sqlstore: unsupported db type %q", dbType)
	}

	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("sqlstore: open %s: %w", dbType, err)
	}
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("sqlstore: ping %s: %w", dbType, err)
	}
	if dbType == "sqlite" {
		if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
			log.Warn("failed to enable sqlite foreign keys", zap.Error(err))
		}
		if _, err := db.Exec("PRAGMA journal_mode = WAL"); err != nil {
			log.Warn("failed to set sqlite WAL mode", zap.Error(err))
		}
	}
	if _, err := db.Exec(schema); err != nil {
		return nil, fmt.Errorf("sqlstore: migrate schema: %w", err)
	}
	return &Store{db: db, log: log, dbType: dbType}, nil
}

func (s *Store) Close() error { return s.db.Close() }

func join(xs []string) string {
	b, _ := json.Marshal(xs)
	return string(b)
}

func splitStrings(s string) []string {
	var out []string
	_ = json.Unmarshal([]byte(s), &out)
	return out
}

func joinMap(m map[string]string) string {
	if m == nil {
		m = map[string]string{}
	}
	b, _ := json.Marshal(m)
	return string(b)
}

func splitMap(s string) map[string]string {
	out := map[string]string{}
	_ = json.Unmarshal([]byte(s), &out)
	return out
}

func (s *Store) FindByName(name string) (persistence.PlayerRecord, bool) {
	row := s.db.QueryRow(`SELECT name, class, race, level, xp_total, gold, str, dex, con, int_stat, wis, cha,
		base_max_hp, room_id, inventory_item_ids, equipped_item_ids, active_quests, completed_quests, achievements,
		is_staff, mfa_enabled, mfa_secret, password_hash, created_at_unix, updated_at_unix
		FROM players WHERE name = ?`, name)

	var rec persistence.PlayerRecord
	var roomId string
	var inv, equip, active, completed, achievements string
	var isStaff, mfaEnabled int
	err := row.Scan(&rec.Name, &rec.Class, &rec.Race, &rec.Level, &rec.XpTotal, &rec.Gold,
		&rec.Str, &rec.Dex, &rec.Con, &rec.Int, &rec.Wis, &rec.Cha, &rec.BaseMaxHp,
		&roomId, &inv, &equip, &active, &completed, &achievements,
		&isStaff, &mfaEnabled, &rec.MfaSecret, &rec.PasswordHash, &rec.CreatedAtUnix, &rec.UpdatedAtUnix)
	if err != nil {
		if err != sql.ErrNoRows {
			s.log.Warn("player lookup failed", zap.String("name", name), zap.Error(err))
		}
		return persistence.PlayerRecord{}, false
	}
	rec.RoomId = ids.RoomId(roomId)
	rec.InventoryItemIds = splitStrings(inv)
	rec.EquippedItemIds = splitMap(equip)
	rec.ActiveQuests = splitStrings(active)
	rec.CompletedQuests = splitStrings(completed)
	rec.Achievements = splitStrings(achievements)
	rec.IsStaff = isStaff != 0
	rec.MfaEnabled = mfaEnabled != 0
	return rec, true
}

func (s *Store) Save(rec persistence.PlayerRecord) error {
	now := time.Now().Unix()
	if rec.CreatedAtUnix == 0 {
		rec.CreatedAtUnix = now
	}
	rec.UpdatedAtUnix = now

	query := `
	INSERT INTO players (name, class, race, level, xp_total, gold, str, dex, con, int_stat, wis, cha,
		base_max_hp, room_id, inventory_item_ids, equipped_item_ids, active_quests, completed_quests, achievements,
		is_staff, mfa_enabled, mfa_secret, password_hash, created_at_unix, updated_at_unix)
	VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?)
	ON CONFLICT(name) DO UPDATE SET
		class=excluded.class, race=excluded.race, level=excluded.level, xp_total=excluded.xp_total,
		gold=excluded.gold, str=excluded.str, dex=excluded.dex, con=excluded.con, int_stat=excluded.int_stat,
		wis=excluded.wis, cha=excluded.cha, base_max_hp=excluded.base_max_hp, room_id=excluded.room_id,
		inventory_item_ids=excluded.inventory_item_ids, equipped_item_ids=excluded.equipped_item_ids,
		active_quests=excluded.active_quests, completed_quests=excluded.completed_quests,
		achievements=excluded.achievements, is_staff=excluded.is_staff, mfa_enabled=excluded.mfa_enabled,
		mfa_secret=excluded.mfa_secret, password_hash=excluded.password_hash, updated_at_unix=excluded.updated_at_unix
	`
	_, err := s.db.Exec(query, rec.Name, rec.Class, rec.Race, rec.Level, rec.XpTotal, rec.Gold,
		rec.Str, rec.Dex, rec.Con, rec.Int, rec.Wis, rec.Cha, rec.BaseMaxHp, string(rec.RoomId),
		join(rec.InventoryItemIds), joinMap(rec.EquippedItemIds), join(rec.ActiveQuests),
		join(rec.CompletedQuests), join(rec.Achievements), boolToInt(rec.IsStaff), boolToInt(rec.MfaEnabled),
		rec.MfaSecret, rec.PasswordHash, rec.CreatedAtUnix, rec.UpdatedAtUnix)
	if err != nil {
		s.log.Error("player save failed", zap.String("name", rec.Name), zap.Error(err))
		return fmt.Errorf("sqlstore: save %q: %w", rec.Name, err)
	}
	return nil
}

func (s *Store) Exists(name string) bool {
	var count int
	err := s.db.QueryRow(`SELECT COUNT(1) FROM players WHERE name = ?`, name).Scan(&count)
	if err != nil {
		s.log.Warn("player exists check failed", zap.String("name", name), zap.Error(err))
		return false
	}
	return count > 0
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
