package db

import (
	"database/sql"

	_ "github.com/mattn/go-sqlite3"

	"github.com/tasksafe/backend/internal/auth"
	"github.com/tasksafe/backend/internal/db/models"
)

type Database struct {
	db *sql.DB
}

func NewSQLite(path string) (*Database, error) {
	sqlDB, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, err
	}
	// SQLite allows one writer at a time; a single connection serializes all
	// transactions and keeps concurrent redemptions from ever seeing
	// SQLITE_BUSY instead of the already-used state.
	sqlDB.SetMaxOpenConns(1)
	d := &Database{db: sqlDB}
	if err := d.migrate(); err != nil {
		return nil, err
	}
	return d, nil
}

func (d *Database) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS company_tags (
		id TEXT PRIMARY KEY,
		name TEXT UNIQUE NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		is_active INTEGER NOT NULL DEFAULT 1,
		created_at DATETIME NOT NULL
	);

	CREATE TABLE IF NOT EXISTS admin_users (
		id TEXT PRIMARY KEY,
		email TEXT UNIQUE NOT NULL,
		password TEXT NOT NULL,
		role TEXT NOT NULL,
		company_tag TEXT NOT NULL DEFAULT '',
		is_active INTEGER NOT NULL DEFAULT 1,
		created_at DATETIME NOT NULL
	);

	CREATE TABLE IF NOT EXISTS videos (
		id TEXT PRIMARY KEY,
		title TEXT NOT NULL,
		description TEXT NOT NULL,
		thumbnail_url TEXT NOT NULL,
		video_url TEXT NOT NULL,
		duration TEXT NOT NULL,
		category TEXT NOT NULL,
		company_tag TEXT NOT NULL DEFAULT '',
		is_active INTEGER NOT NULL DEFAULT 1,
		created_at DATETIME NOT NULL
	);

	CREATE TABLE IF NOT EXISTS magic_links (
		id TEXT PRIMARY KEY,
		token TEXT UNIQUE NOT NULL,
		email TEXT NOT NULL,
		user_name TEXT NOT NULL,
		video_id TEXT NOT NULL REFERENCES videos(id),
		expires_at DATETIME NOT NULL,
		is_used INTEGER NOT NULL DEFAULT 0,
		created_at DATETIME NOT NULL
	);

	CREATE TABLE IF NOT EXISTS access_logs (
		id TEXT PRIMARY KEY,
		magic_link_id TEXT NOT NULL REFERENCES magic_links(id),
		email TEXT NOT NULL,
		user_name TEXT NOT NULL,
		video_id TEXT NOT NULL,
		accessed_at DATETIME NOT NULL,
		watch_duration INTEGER NOT NULL DEFAULT 0,
		completion_percentage INTEGER NOT NULL DEFAULT 0,
		company_tag TEXT NOT NULL DEFAULT '',
		ip_address TEXT NOT NULL DEFAULT '',
		user_agent TEXT NOT NULL DEFAULT ''
	);

	CREATE TABLE IF NOT EXISTS sessions (
		id TEXT PRIMARY KEY,
		admin_user_id TEXT NOT NULL REFERENCES admin_users(id),
		expires_at DATETIME NOT NULL,
		created_at DATETIME NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_access_logs_video ON access_logs(video_id);
	CREATE INDEX IF NOT EXISTS idx_access_logs_tag ON access_logs(company_tag);
	CREATE INDEX IF NOT EXISTS idx_videos_tag ON videos(company_tag);
	`
	_, err := d.db.Exec(schema)
	return err
}

// EnsureSuperAdmin seeds the initial SUPER_ADMIN account when none exists,
// so a fresh deployment is reachable with the configured credentials.
func (d *Database) EnsureSuperAdmin(email, password string) error {
	var count int
	err := d.db.QueryRow(
		"SELECT COUNT(*) FROM admin_users WHERE role = ? AND is_active = 1",
		models.RoleSuperAdmin,
	).Scan(&count)
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}
	hash, err := auth.HashPassword(password)
	if err != nil {
		return err
	}
	return d.CreateAdminUser(&models.AdminUser{
		Email:    email,
		Password: hash,
		Role:     models.RoleSuperAdmin,
		IsActive: true,
	})
}

func (d *Database) Close() error {
	return d.db.Close()
}
