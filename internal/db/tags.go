package db

import (
	"database/sql"
	"time"

	"github.com/google/uuid"

	"github.com/tasksafe/backend/internal/db/models"
)

const tagColumns = "id, name, description, is_active, created_at"

func (d *Database) ListCompanyTags() ([]models.CompanyTag, error) {
	rows, err := d.db.Query(
		"SELECT " + tagColumns + " FROM company_tags WHERE is_active = 1 ORDER BY created_at DESC",
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tags := []models.CompanyTag{}
	for rows.Next() {
		var t models.CompanyTag
		if err := rows.Scan(&t.ID, &t.Name, &t.Description, &t.IsActive, &t.CreatedAt); err != nil {
			return nil, err
		}
		tags = append(tags, t)
	}
	return tags, rows.Err()
}

func (d *Database) GetCompanyTag(id string) (*models.CompanyTag, error) {
	t := &models.CompanyTag{}
	err := d.db.QueryRow(
		"SELECT "+tagColumns+" FROM company_tags WHERE id = ?", id,
	).Scan(&t.ID, &t.Name, &t.Description, &t.IsActive, &t.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return t, nil
}

// CompanyTagExists reports whether name refers to an active tag. Video and
// admin-user writes validate their tag through this, so a typo can't create
// an invisible tenant.
func (d *Database) CompanyTagExists(name string) (bool, error) {
	var count int
	err := d.db.QueryRow(
		"SELECT COUNT(*) FROM company_tags WHERE name = ? AND is_active = 1", name,
	).Scan(&count)
	return count > 0, err
}

func (d *Database) CreateCompanyTag(t *models.CompanyTag) error {
	t.ID = uuid.NewString()
	t.CreatedAt = time.Now()
	_, err := d.db.Exec(
		"INSERT INTO company_tags ("+tagColumns+") VALUES (?, ?, ?, ?, ?)",
		t.ID, t.Name, t.Description, t.IsActive, t.CreatedAt,
	)
	if isUniqueViolation(err) {
		return ErrDuplicate
	}
	return err
}

func (d *Database) UpdateCompanyTag(t *models.CompanyTag) error {
	res, err := d.db.Exec(
		"UPDATE company_tags SET name=?, description=?, is_active=? WHERE id=?",
		t.Name, t.Description, t.IsActive, t.ID,
	)
	if isUniqueViolation(err) {
		return ErrDuplicate
	}
	if err != nil {
		return err
	}
	return requireRow(res)
}

func (d *Database) DeactivateCompanyTag(id string) error {
	res, err := d.db.Exec("UPDATE company_tags SET is_active = 0 WHERE id = ?", id)
	if err != nil {
		return err
	}
	return requireRow(res)
}
