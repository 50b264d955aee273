package db

import (
	"database/sql"
	"time"

	"github.com/tasksafe/backend/internal/auth"
	"github.com/tasksafe/backend/internal/db/models"
)

// SessionLifetime matches the magic-link window: admin sessions expire after
// 24 hours regardless of activity.
const SessionLifetime = 24 * time.Hour

// CreateSession opens a server-side session for an admin. The returned ID is
// the opaque cookie value; nothing about the principal is stored client-side.
func (d *Database) CreateSession(adminUserID string) (*models.Session, error) {
	id, err := auth.NewToken()
	if err != nil {
		return nil, err
	}
	s := &models.Session{
		ID:          id,
		AdminUserID: adminUserID,
		ExpiresAt:   time.Now().Add(SessionLifetime),
		CreatedAt:   time.Now(),
	}
	_, err = d.db.Exec(
		"INSERT INTO sessions (id, admin_user_id, expires_at, created_at) VALUES (?, ?, ?, ?)",
		s.ID, s.AdminUserID, s.ExpiresAt, s.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return s, nil
}

func (d *Database) GetSession(id string) (*models.Session, error) {
	s := &models.Session{}
	err := d.db.QueryRow(
		"SELECT id, admin_user_id, expires_at, created_at FROM sessions WHERE id = ?", id,
	).Scan(&s.ID, &s.AdminUserID, &s.ExpiresAt, &s.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return s, nil
}

func (d *Database) DeleteSession(id string) error {
	_, err := d.db.Exec("DELETE FROM sessions WHERE id = ?", id)
	return err
}

// DeleteExpiredSessions removes stale rows; called periodically from main.
func (d *Database) DeleteExpiredSessions() (int64, error) {
	res, err := d.db.Exec("DELETE FROM sessions WHERE expires_at < ?", time.Now())
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
