package services

import (
	"fmt"
	"testing"
	"time"

	"wellness-engagement-system/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func createDepartment(t *testing.T, db *gorm.DB, name string) *models.Department {
	t.Helper()
	dept := &models.Department{ID: uuid.NewString(), Name: name, Slug: name}
	require.NoError(t, db.Create(dept).Error)
	return dept
}

func TestRank_DeterministicOrderingWithTies(t *testing.T) {
	db := newTestDB(t)
	svc := NewLeaderboardService(db)

	// b and c tie on XP; id ascending breaks the tie
	createUser(t, db, "id-c", "carol", 500)
	createUser(t, db, "id-a", "alice", 900)
	createUser(t, db, "id-b", "bob", 500)

	page, err := svc.Rank(LeaderboardFilter{})
	require.NoError(t, err)
	require.Len(t, page.Entries, 3)

	assert.Equal(t, "alice", page.Entries[0].User.Username)
	assert.Equal(t, 1, page.Entries[0].Rank)
	assert.Equal(t, "bob", page.Entries[1].User.Username)
	assert.Equal(t, 2, page.Entries[1].Rank)
	assert.Equal(t, "carol", page.Entries[2].User.Username)
	assert.Equal(t, 3, page.Entries[2].Rank)

	// stable under repeated calls with unchanged XP
	again, err := svc.Rank(LeaderboardFilter{})
	require.NoError(t, err)
	for i := range page.Entries {
		assert.Equal(t, page.Entries[i].User.ID, again.Entries[i].User.ID)
	}
}

func TestRank_Pagination(t *testing.T) {
	db := newTestDB(t)
	svc := NewLeaderboardService(db)

	for i := 0; i < 25; i++ {
		createUser(t, db, fmt.Sprintf("id-%02d", i), fmt.Sprintf("user%02d", i), int64(1000-i))
	}

	page, err := svc.Rank(LeaderboardFilter{Page: 1})
	require.NoError(t, err)
	assert.Equal(t, 3, page.TotalPages) // ceil(25/10)
	assert.Equal(t, 25, page.Total)
	assert.Len(t, page.Entries, 10)
	assert.Equal(t, 1, page.Entries[0].Rank)

	last, err := svc.Rank(LeaderboardFilter{Page: 3})
	require.NoError(t, err)
	assert.Len(t, last.Entries, 5)
	assert.Equal(t, 21, last.Entries[0].Rank)

	// page 0 clamps to 1, page 99 clamps to the last page
	clampedLow, err := svc.Rank(LeaderboardFilter{Page: 0})
	require.NoError(t, err)
	assert.Equal(t, 1, clampedLow.Page)

	clampedHigh, err := svc.Rank(LeaderboardFilter{Page: 99})
	require.NoError(t, err)
	assert.Equal(t, 3, clampedHigh.Page)
	assert.Len(t, clampedHigh.Entries, 5)
}

func TestRank_FiltersKeepGlobalRanks(t *testing.T) {
	db := newTestDB(t)
	svc := NewLeaderboardService(db)

	eng := createDepartment(t, db, "Engineering")
	ops := createDepartment(t, db, "Operations")

	first := createUser(t, db, "id-a", "alice", 900)
	first.DepartmentID = &eng.ID
	require.NoError(t, db.Save(first).Error)

	second := createUser(t, db, "id-b", "bob", 700)
	second.DepartmentID = &ops.ID
	require.NoError(t, db.Save(second).Error)

	third := createUser(t, db, "id-c", "carol", 500)
	third.DepartmentID = &eng.ID
	require.NoError(t, db.Save(third).Error)

	// department match is caseless and keeps company-wide ranks
	page, err := svc.Rank(LeaderboardFilter{Department: "engineering"})
	require.NoError(t, err)
	require.Len(t, page.Entries, 2)
	assert.Equal(t, 1, page.Entries[0].Rank)
	assert.Equal(t, "alice", page.Entries[0].User.Username)
	assert.Equal(t, 3, page.Entries[1].Rank)
	assert.Equal(t, "carol", page.Entries[1].User.Username)

	// free-text search over name/username/department
	search, err := svc.Rank(LeaderboardFilter{Query: "BO"})
	require.NoError(t, err)
	require.Len(t, search.Entries, 1)
	assert.Equal(t, "bob", search.Entries[0].User.Username)
	assert.Equal(t, 2, search.Entries[0].Rank)

	// no match → empty page, zero total pages
	empty, err := svc.Rank(LeaderboardFilter{Query: "zzz"})
	require.NoError(t, err)
	assert.Empty(t, empty.Entries)
	assert.Equal(t, 0, empty.TotalPages)
}

func TestRank_RankChangeFromSnapshot(t *testing.T) {
	db := newTestDB(t)
	svc := NewLeaderboardService(db)

	alice := createUser(t, db, "id-a", "alice", 900)
	bob := createUser(t, db, "id-b", "bob", 700)

	// before any snapshot everyone is "new"
	page, err := svc.Rank(LeaderboardFilter{})
	require.NoError(t, err)
	assert.Equal(t, models.RankNew, page.Entries[0].RankChange)

	require.NoError(t, svc.Snapshot(time.Now()))

	// bob overtakes alice
	bob.XP = 1200
	require.NoError(t, db.Save(bob).Error)

	page, err = svc.Rank(LeaderboardFilter{})
	require.NoError(t, err)
	require.Len(t, page.Entries, 2)
	assert.Equal(t, "bob", page.Entries[0].User.Username)
	assert.Equal(t, models.RankUp, page.Entries[0].RankChange)
	assert.Equal(t, "alice", page.Entries[1].User.Username)
	assert.Equal(t, models.RankDown, page.Entries[1].RankChange)

	// a user created after the snapshot shows as new
	createUser(t, db, "id-c", "carol", 100)
	page, err = svc.Rank(LeaderboardFilter{})
	require.NoError(t, err)
	assert.Equal(t, models.RankNew, page.Entries[2].RankChange)
	_ = alice
}

func TestRank_RankSameWhenUnchanged(t *testing.T) {
	db := newTestDB(t)
	svc := NewLeaderboardService(db)

	createUser(t, db, "id-a", "alice", 900)
	createUser(t, db, "id-b", "bob", 700)

	require.NoError(t, svc.Snapshot(time.Now()))

	page, err := svc.Rank(LeaderboardFilter{})
	require.NoError(t, err)
	assert.Equal(t, models.RankSame, page.Entries[0].RankChange)
	assert.Equal(t, models.RankSame, page.Entries[1].RankChange)
}
