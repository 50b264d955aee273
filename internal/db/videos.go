package db

import (
	"database/sql"
	"time"

	"github.com/google/uuid"

	"github.com/tasksafe/backend/internal/db/models"
)

const videoColumns = "id, title, description, thumbnail_url, video_url, duration, category, company_tag, is_active, created_at"

func scanVideo(row *sql.Row) (*models.Video, error) {
	v := &models.Video{}
	err := row.Scan(&v.ID, &v.Title, &v.Description, &v.ThumbnailURL, &v.VideoURL,
		&v.Duration, &v.Category, &v.CompanyTag, &v.IsActive, &v.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return v, nil
}

func (d *Database) GetVideo(id string) (*models.Video, error) {
	return scanVideo(d.db.QueryRow(
		"SELECT "+videoColumns+" FROM videos WHERE id = ?", id,
	))
}

// GetActiveVideo returns the most recently created active video. Access
// requests without an explicit video target resolve here.
func (d *Database) GetActiveVideo() (*models.Video, error) {
	return scanVideo(d.db.QueryRow(
		"SELECT " + videoColumns + " FROM videos WHERE is_active = 1 ORDER BY created_at DESC, id DESC LIMIT 1",
	))
}

func (d *Database) ListVideos(scope Scope) ([]models.Video, error) {
	query := "SELECT " + videoColumns + " FROM videos"
	var args []interface{}
	if !scope.All {
		query += " WHERE company_tag = ?"
		args = append(args, scope.Tag)
	}
	query += " ORDER BY created_at DESC"

	rows, err := d.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	videos := []models.Video{}
	for rows.Next() {
		var v models.Video
		if err := rows.Scan(&v.ID, &v.Title, &v.Description, &v.ThumbnailURL, &v.VideoURL,
			&v.Duration, &v.Category, &v.CompanyTag, &v.IsActive, &v.CreatedAt); err != nil {
			return nil, err
		}
		videos = append(videos, v)
	}
	return videos, rows.Err()
}

func (d *Database) CreateVideo(v *models.Video) error {
	v.ID = uuid.NewString()
	v.CreatedAt = time.Now()
	_, err := d.db.Exec(
		"INSERT INTO videos ("+videoColumns+") VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)",
		v.ID, v.Title, v.Description, v.ThumbnailURL, v.VideoURL,
		v.Duration, v.Category, v.CompanyTag, v.IsActive, v.CreatedAt,
	)
	return err
}

func (d *Database) UpdateVideo(v *models.Video) error {
	res, err := d.db.Exec(
		`UPDATE videos SET title=?, description=?, thumbnail_url=?, video_url=?,
		 duration=?, category=?, company_tag=?, is_active=? WHERE id=?`,
		v.Title, v.Description, v.ThumbnailURL, v.VideoURL,
		v.Duration, v.Category, v.CompanyTag, v.IsActive, v.ID,
	)
	if err != nil {
		return err
	}
	return requireRow(res)
}

// DeleteVideo is a hard delete. Access logs keep their denormalized company
// tag and survive the video; completions joins are LEFT joins for this reason.
func (d *Database) DeleteVideo(id string) error {
	res, err := d.db.Exec("DELETE FROM videos WHERE id = ?", id)
	if err != nil {
		return err
	}
	return requireRow(res)
}

func requireRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
