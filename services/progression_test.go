package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAwardXP_SingleOverflow(t *testing.T) {
	db := newTestDB(t)
	svc := NewProgressionService(db)

	user := createUser(t, db, "", "sara", 0)
	user.Level = 5
	user.XP = 5000
	user.NextLevelXP = 5000
	require.NoError(t, db.Save(user).Error)

	updated, err := svc.AwardXP(user.ID, 1, 0, "test")
	require.NoError(t, err)

	assert.Equal(t, 6, updated.Level)
	assert.Equal(t, int64(1), updated.XP)
	assert.Equal(t, int64(7500), updated.NextLevelXP)
	assert.NotNil(t, updated.LastLevelUpAt)
}

func TestAwardXP_MultipleLevelUps(t *testing.T) {
	db := newTestDB(t)
	svc := NewProgressionService(db)

	user := createUser(t, db, "", "reza", 0)

	// 1000 + 1500 = 2500 consumed by two level-ups, 100 carries over
	updated, err := svc.AwardXP(user.ID, 2600, 0, "test")
	require.NoError(t, err)

	assert.Equal(t, 3, updated.Level)
	assert.Equal(t, int64(100), updated.XP)
	assert.Equal(t, int64(2250), updated.NextLevelXP)
}

func TestAwardXP_NoLevelUpBelowThreshold(t *testing.T) {
	db := newTestDB(t)
	svc := NewProgressionService(db)

	user := createUser(t, db, "", "nika", 0)

	updated, err := svc.AwardXP(user.ID, 999, 50, "test")
	require.NoError(t, err)

	assert.Equal(t, 1, updated.Level)
	assert.Equal(t, int64(999), updated.XP)
	assert.Equal(t, int64(1000), updated.NextLevelXP)
	assert.Equal(t, int64(50), updated.Credits)
	assert.Nil(t, updated.LastLevelUpAt)
}

func TestAwardXP_UnknownUser(t *testing.T) {
	db := newTestDB(t)
	svc := NewProgressionService(db)

	_, err := svc.AwardXP("missing", 100, 0, "test")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestAwardXP_NegativeAmountRejected(t *testing.T) {
	db := newTestDB(t)
	svc := NewProgressionService(db)

	user := createUser(t, db, "", "parisa", 0)
	user.Credits = 200
	require.NoError(t, db.Save(user).Error)

	// a "grant" must never drain a balance
	_, err := svc.AwardXP(user.ID, 1, -5000, "test")
	assert.ErrorIs(t, err, ErrNegativeAmount)

	_, err = svc.AwardXP(user.ID, -10, 50, "test")
	assert.ErrorIs(t, err, ErrNegativeAmount)

	fresh := reloadUser(t, db, user.ID)
	assert.Equal(t, int64(200), fresh.Credits)
	assert.Equal(t, int64(0), fresh.XP)
}

func TestSpendCredits_InsufficientLeavesBalance(t *testing.T) {
	db := newTestDB(t)
	svc := NewProgressionService(db)

	user := createUser(t, db, "", "omid", 0)
	user.Credits = 100
	require.NoError(t, db.Save(user).Error)

	err := svc.SpendCredits(db, user, 101)
	assert.ErrorIs(t, err, ErrInsufficientCredits)

	fresh := reloadUser(t, db, user.ID)
	assert.Equal(t, int64(100), fresh.Credits)
}
