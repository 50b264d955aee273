package db

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/tasksafe/backend/internal/db/models"
)

const magicLinkColumns = "id, token, email, user_name, video_id, expires_at, is_used, created_at"

func (d *Database) CreateMagicLink(link *models.MagicLink) error {
	link.ID = uuid.NewString()
	link.CreatedAt = time.Now()
	_, err := d.db.Exec(
		"INSERT INTO magic_links ("+magicLinkColumns+") VALUES (?, ?, ?, ?, ?, ?, ?, ?)",
		link.ID, link.Token, link.Email, link.UserName, link.VideoID,
		link.ExpiresAt, link.IsUsed, link.CreatedAt,
	)
	if isUniqueViolation(err) {
		return ErrDuplicate
	}
	return err
}

func (d *Database) GetMagicLinkByToken(token string) (*models.MagicLink, error) {
	link := &models.MagicLink{}
	err := d.db.QueryRow(
		"SELECT "+magicLinkColumns+" FROM magic_links WHERE token = ?", token,
	).Scan(&link.ID, &link.Token, &link.Email, &link.UserName, &link.VideoID,
		&link.ExpiresAt, &link.IsUsed, &link.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return link, nil
}

// DeleteMagicLink removes an unredeemed link. Used as compensating cleanup
// when the email dispatch fails, so no redeemable orphan row is left behind.
func (d *Database) DeleteMagicLink(id string) error {
	_, err := d.db.Exec("DELETE FROM magic_links WHERE id = ? AND is_used = 0", id)
	return err
}

// RedeemMagicLink runs the one-shot token state machine: unknown tokens fail
// with ErrNotFound, expired ones with ErrLinkExpired, consumed ones with
// ErrLinkUsed. Consumption and the access-log insert commit in a single
// transaction, and the is_used flip is a conditional update so two concurrent
// redemptions of the same token can never both succeed.
func (d *Database) RedeemMagicLink(token, ipAddress, userAgent string) (*models.Video, *models.AccessLog, error) {
	tx, err := d.db.Begin()
	if err != nil {
		return nil, nil, err
	}
	defer tx.Rollback()

	link := &models.MagicLink{}
	err = tx.QueryRow(
		"SELECT "+magicLinkColumns+" FROM magic_links WHERE token = ?", token,
	).Scan(&link.ID, &link.Token, &link.Email, &link.UserName, &link.VideoID,
		&link.ExpiresAt, &link.IsUsed, &link.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil, ErrNotFound
	}
	if err != nil {
		return nil, nil, err
	}

	if !time.Now().Before(link.ExpiresAt) {
		return nil, nil, ErrLinkExpired
	}
	if link.IsUsed {
		return nil, nil, ErrLinkUsed
	}

	video := &models.Video{}
	err = tx.QueryRow(
		"SELECT "+videoColumns+" FROM videos WHERE id = ?", link.VideoID,
	).Scan(&video.ID, &video.Title, &video.Description, &video.ThumbnailURL, &video.VideoURL,
		&video.Duration, &video.Category, &video.CompanyTag, &video.IsActive, &video.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil, ErrNotFound
	}
	if err != nil {
		return nil, nil, err
	}

	res, err := tx.Exec("UPDATE magic_links SET is_used = 1 WHERE id = ? AND is_used = 0", link.ID)
	if err != nil {
		return nil, nil, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return nil, nil, err
	}
	if n == 0 {
		// Another request consumed the link between our read and the update.
		return nil, nil, ErrLinkUsed
	}

	entry := &models.AccessLog{
		ID:          uuid.NewString(),
		MagicLinkID: link.ID,
		Email:       link.Email,
		UserName:    link.UserName,
		VideoID:     video.ID,
		AccessedAt:  time.Now(),
		CompanyTag:  video.CompanyTag,
		IPAddress:   ipAddress,
		UserAgent:   userAgent,
	}
	_, err = tx.Exec(
		"INSERT INTO access_logs ("+accessLogColumns+") VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)",
		entry.ID, entry.MagicLinkID, entry.Email, entry.UserName, entry.VideoID,
		entry.AccessedAt, entry.WatchDuration, entry.CompletionPercentage,
		entry.CompanyTag, entry.IPAddress, entry.UserAgent,
	)
	if err != nil {
		return nil, nil, fmt.Errorf("create access log: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, nil, err
	}
	return video, entry, nil
}
