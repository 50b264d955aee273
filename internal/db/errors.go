package db

import (
	"errors"

	"github.com/mattn/go-sqlite3"
)

// Domain states handlers map to HTTP statuses. Expired and AlreadyUsed are
// terminal: a link in either state is never revived.
var (
	ErrNotFound    = errors.New("not found")
	ErrLinkExpired = errors.New("magic link expired")
	ErrLinkUsed    = errors.New("magic link already used")
	ErrDuplicate   = errors.New("already exists")
)

func isUniqueViolation(err error) bool {
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique ||
			sqliteErr.ExtendedCode == sqlite3.ErrConstraintPrimaryKey
	}
	return false
}
