package queue

import "gorm.io/gorm"

// MigrateIndexes creates the partial unique index that enforces at most one
// active ticket per user system-wide. AutoMigrate cannot express partial
// indexes, so this runs as raw SQL after it; the syntax is shared by Postgres
// and SQLite. Dedup must live in the database: two concurrent joins at
// different facilities hold different per-facility locks, and a second server
// instance holds none of ours.
func MigrateIndexes(db *gorm.DB) error {
	return db.Exec(
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_tickets_one_active_per_user ` +
			`ON tickets (user_id) WHERE status IN ('waiting', 'called')`,
	).Error
}
