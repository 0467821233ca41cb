package repository

import (
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/lmarsolier/gestloc/internal/database"
)

func mustParseSQLTime(t *testing.T, s string) time.Time {
	tm, err := time.Parse(sqlTime, s)
	require.NoError(t, err)
	return tm
}

func openTestDB(t *testing.T) *sql.DB {
	d, err := database.OpenForTesting()
	require.NoError(t, err)
	t.Cleanup(func() { _ = d.Close() })
	return d
}

// seedOwner inserts a user and returns its id.
func seedOwner(t *testing.T, d *sql.DB, email string) uint64 {
	res, err := d.Exec(`INSERT INTO users (email, password_hash, role) VALUES (?, 'x', 'OWNER')`, email)
	require.NoError(t, err)
	id, err := res.LastInsertId()
	require.NoError(t, err)
	return uint64(id)
}

// seedProperty inserts a property for the given owner and returns its id.
func seedProperty(t *testing.T, d *sql.DB, ownerID uint64, name string) uint64 {
	res, err := d.Exec(`INSERT INTO properties (owner_id, name) VALUES (?, ?)`, ownerID, name)
	require.NoError(t, err)
	id, err := res.LastInsertId()
	require.NoError(t, err)
	return uint64(id)
}
