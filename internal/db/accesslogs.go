package db

import (
	"database/sql"

	"github.com/tasksafe/backend/internal/db/models"
)

const accessLogColumns = "id, magic_link_id, email, user_name, video_id, accessed_at, watch_duration, completion_percentage, company_tag, ip_address, user_agent"

// UpdateProgress persists watch progress for one viewing session. Both fields
// are monotonic: a stale or out-of-order update can never lower them, so
// concurrent tabs and retried requests are safe.
func (d *Database) UpdateProgress(accessLogID string, watchDuration, completionPercentage int) error {
	res, err := d.db.Exec(
		`UPDATE access_logs SET
			watch_duration = MAX(watch_duration, ?),
			completion_percentage = MAX(completion_percentage, ?)
		 WHERE id = ?`,
		watchDuration, completionPercentage, accessLogID,
	)
	if err != nil {
		return err
	}
	return requireRow(res)
}

// GetAccessLog returns one access log with the video fields the completion
// view shows. The join is LEFT because videos are hard-deleted.
func (d *Database) GetAccessLog(id string) (*models.AccessLogDetail, error) {
	entry := &models.AccessLogDetail{}
	err := d.db.QueryRow(
		`SELECT a.id, a.magic_link_id, a.email, a.user_name, a.video_id, a.accessed_at,
			a.watch_duration, a.completion_percentage, a.company_tag, a.ip_address, a.user_agent,
			COALESCE(v.title, ''), COALESCE(v.duration, ''), COALESCE(v.category, '')
		 FROM access_logs a
		 LEFT JOIN videos v ON v.id = a.video_id
		 WHERE a.id = ?`, id,
	).Scan(&entry.ID, &entry.MagicLinkID, &entry.Email, &entry.UserName, &entry.VideoID,
		&entry.AccessedAt, &entry.WatchDuration, &entry.CompletionPercentage,
		&entry.CompanyTag, &entry.IPAddress, &entry.UserAgent,
		&entry.VideoTitle, &entry.VideoDuration, &entry.VideoCategory)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return entry, nil
}

// ListAccessLogs returns completion records with video titles, newest first.
// The tenant filter applies to the log's own denormalized tag, so reports
// stay correct even after a video is deleted or re-tagged.
func (d *Database) ListAccessLogs(scope Scope) ([]models.AccessLogDetail, error) {
	query := `SELECT a.id, a.magic_link_id, a.email, a.user_name, a.video_id, a.accessed_at,
			a.watch_duration, a.completion_percentage, a.company_tag, a.ip_address, a.user_agent,
			COALESCE(v.title, ''), COALESCE(v.duration, ''), COALESCE(v.category, '')
		 FROM access_logs a
		 LEFT JOIN videos v ON v.id = a.video_id`
	var args []interface{}
	if !scope.All {
		query += " WHERE a.company_tag = ?"
		args = append(args, scope.Tag)
	}
	query += " ORDER BY a.accessed_at DESC"

	rows, err := d.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectAccessLogs(rows)
}

func (d *Database) ListAccessLogsByVideo(videoID string, limit int) ([]models.AccessLogDetail, error) {
	rows, err := d.db.Query(
		`SELECT a.id, a.magic_link_id, a.email, a.user_name, a.video_id, a.accessed_at,
			a.watch_duration, a.completion_percentage, a.company_tag, a.ip_address, a.user_agent,
			COALESCE(v.title, ''), COALESCE(v.duration, ''), COALESCE(v.category, '')
		 FROM access_logs a
		 LEFT JOIN videos v ON v.id = a.video_id
		 WHERE a.video_id = ?
		 ORDER BY a.accessed_at DESC
		 LIMIT ?`, videoID, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectAccessLogs(rows)
}

func collectAccessLogs(rows *sql.Rows) ([]models.AccessLogDetail, error) {
	entries := []models.AccessLogDetail{}
	for rows.Next() {
		var e models.AccessLogDetail
		if err := rows.Scan(&e.ID, &e.MagicLinkID, &e.Email, &e.UserName, &e.VideoID,
			&e.AccessedAt, &e.WatchDuration, &e.CompletionPercentage,
			&e.CompanyTag, &e.IPAddress, &e.UserAgent,
			&e.VideoTitle, &e.VideoDuration, &e.VideoCategory); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func (d *Database) GetVideoAnalytics(videoID string) (*models.VideoAnalytics, error) {
	a := &models.VideoAnalytics{}
	var totalWatch, totalCompletion sql.NullInt64
	err := d.db.QueryRow(
		`SELECT COUNT(*), SUM(watch_duration), SUM(completion_percentage), COUNT(DISTINCT email)
		 FROM access_logs WHERE video_id = ?`, videoID,
	).Scan(&a.TotalViews, &totalWatch, &totalCompletion, &a.UniqueViewers)
	if err != nil {
		return nil, err
	}
	a.TotalWatchTime = int(totalWatch.Int64)
	if a.TotalViews > 0 {
		a.AverageCompletion = int(float64(totalCompletion.Int64)/float64(a.TotalViews) + 0.5)
	}
	return a, nil
}
