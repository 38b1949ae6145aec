package services

import (
	"testing"

	"wellness-engagement-system/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// The reward/claim/purchase guards only hold if the guarded row is locked
// for the whole transaction; without FOR UPDATE two READ COMMITTED
// transactions can both observe the pre-commit flag and double-grant.
func TestLockForUpdate_Postgres(t *testing.T) {
	db, err := gorm.Open(postgres.New(postgres.Config{}), &gorm.Config{
		DryRun:               true,
		DisableAutomaticPing: true,
	})
	require.NoError(t, err)

	var user models.User
	stmt := lockForUpdate(db).Where("id = ?", "u1").Find(&user).Statement
	assert.Contains(t, stmt.SQL.String(), "FOR UPDATE")
}

func TestLockForUpdate_SqliteSkipsClause(t *testing.T) {
	db := newTestDB(t)

	var user models.User
	stmt := lockForUpdate(db.Session(&gorm.Session{DryRun: true})).
		Where("id = ?", "u1").Find(&user).Statement
	assert.NotContains(t, stmt.SQL.String(), "FOR UPDATE")
}
