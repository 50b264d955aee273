package db

import (
	"database/sql"
	"time"

	"github.com/google/uuid"

	"github.com/tasksafe/backend/internal/db/models"
)

const adminColumns = "id, email, password, role, company_tag, is_active, created_at"

func scanAdmin(row *sql.Row) (*models.AdminUser, error) {
	u := &models.AdminUser{}
	err := row.Scan(&u.ID, &u.Email, &u.Password, &u.Role, &u.CompanyTag, &u.IsActive, &u.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return u, nil
}

func (d *Database) GetAdminUserByEmail(email string) (*models.AdminUser, error) {
	return scanAdmin(d.db.QueryRow(
		"SELECT "+adminColumns+" FROM admin_users WHERE email = ?", email,
	))
}

func (d *Database) GetAdminUser(id string) (*models.AdminUser, error) {
	return scanAdmin(d.db.QueryRow(
		"SELECT "+adminColumns+" FROM admin_users WHERE id = ?", id,
	))
}

func (d *Database) CreateAdminUser(u *models.AdminUser) error {
	u.ID = uuid.NewString()
	u.CreatedAt = time.Now()
	_, err := d.db.Exec(
		"INSERT INTO admin_users ("+adminColumns+") VALUES (?, ?, ?, ?, ?, ?, ?)",
		u.ID, u.Email, u.Password, u.Role, u.CompanyTag, u.IsActive, u.CreatedAt,
	)
	if isUniqueViolation(err) {
		return ErrDuplicate
	}
	return err
}

func (d *Database) ListAdminUsers() ([]models.AdminUser, error) {
	rows, err := d.db.Query(
		"SELECT " + adminColumns + " FROM admin_users WHERE is_active = 1 ORDER BY created_at DESC",
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	users := []models.AdminUser{}
	for rows.Next() {
		var u models.AdminUser
		if err := rows.Scan(&u.ID, &u.Email, &u.Password, &u.Role, &u.CompanyTag, &u.IsActive, &u.CreatedAt); err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

func (d *Database) UpdateAdminUser(u *models.AdminUser) error {
	res, err := d.db.Exec(
		"UPDATE admin_users SET email=?, role=?, company_tag=?, is_active=? WHERE id=?",
		u.Email, u.Role, u.CompanyTag, u.IsActive, u.ID,
	)
	if isUniqueViolation(err) {
		return ErrDuplicate
	}
	if err != nil {
		return err
	}
	return requireRow(res)
}

func (d *Database) UpdateAdminPassword(id, passwordHash string) error {
	res, err := d.db.Exec("UPDATE admin_users SET password=? WHERE id=?", passwordHash, id)
	if err != nil {
		return err
	}
	return requireRow(res)
}

// DeactivateAdminUser is the soft delete: the row stays for audit, the
// account can no longer log in, and existing sessions stop working at the
// next request.
func (d *Database) DeactivateAdminUser(id string) error {
	res, err := d.db.Exec("UPDATE admin_users SET is_active = 0 WHERE id = ?", id)
	if err != nil {
		return err
	}
	return requireRow(res)
}
