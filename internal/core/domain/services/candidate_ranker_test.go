package services_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/partner"
	"fulfillment/internal/core/domain/services"
)

func rankerCandidate(
	t *testing.T, name string, x, y kernel.Coordinate,
	activeLoad, rejectionsToday int, rejectionsDay time.Time, lastAssignedAt *time.Time,
) *partner.Partner {
	t.Helper()

	location, err := kernel.NewLocation(x, y)
	require.NoError(t, err)

	p, err := partner.RestorePartner(
		kernel.NewUUID(), name, location, activeLoad, rejectionsToday, rejectionsDay, lastAssignedAt)
	require.NoError(t, err)
	return p
}

func TestCandidateRanker_Rank(t *testing.T) {
	ranker := services.NewCandidateRanker()
	now := time.Now().UTC()
	destination, err := kernel.NewLocation(5, 5)
	require.NoError(t, err)

	t.Run("closer idle partner ranks first", func(t *testing.T) {
		near := rankerCandidate(t, "Near", 5, 6, 0, 0, time.Time{}, nil)
		far := rankerCandidate(t, "Far", 10, 10, 0, 0, time.Time{}, nil)

		ranked, err := ranker.Rank(destination, []*partner.Partner{far, near}, now)

		require.NoError(t, err)
		require.Len(t, ranked, 2)
		assert.Equal(t, "Near", ranked[0].Name())
		assert.Equal(t, "Far", ranked[1].Name())
	})

	t.Run("active load outweighs a small distance advantage", func(t *testing.T) {
		// Equidistant but "Busy" carries two active orders (worth four score
		// units), pushing it behind a partner three steps further out.
		busy := rankerCandidate(t, "Busy", 5, 6, 2, 0, time.Time{}, nil)
		idle := rankerCandidate(t, "Idle", 5, 9, 0, 0, time.Time{}, nil)

		ranked, err := ranker.Rank(destination, []*partner.Partner{busy, idle}, now)

		require.NoError(t, err)
		assert.Equal(t, "Idle", ranked[0].Name())
	})

	t.Run("same-day rejections push a partner down", func(t *testing.T) {
		flaky := rankerCandidate(t, "Flaky", 5, 6, 0, 3, now, nil)
		steady := rankerCandidate(t, "Steady", 5, 9, 0, 0, time.Time{}, nil)

		ranked, err := ranker.Rank(destination, []*partner.Partner{flaky, steady}, now)

		require.NoError(t, err)
		assert.Equal(t, "Steady", ranked[0].Name())
	})

	t.Run("yesterday's rejections no longer count", func(t *testing.T) {
		yesterday := now.AddDate(0, 0, -1)
		formerlyFlaky := rankerCandidate(t, "FormerlyFlaky", 5, 6, 0, 3, yesterday, nil)
		steady := rankerCandidate(t, "Steady", 5, 9, 0, 0, time.Time{}, nil)

		ranked, err := ranker.Rank(destination, []*partner.Partner{steady, formerlyFlaky}, now)

		require.NoError(t, err)
		assert.Equal(t, "FormerlyFlaky", ranked[0].Name())
	})

	t.Run("a just-assigned partner is penalized, decaying over time", func(t *testing.T) {
		justNow := now.Add(-time.Minute)
		longAgo := now.Add(-time.Hour)

		hot := rankerCandidate(t, "Hot", 5, 6, 0, 0, time.Time{}, &justNow)
		cooled := rankerCandidate(t, "Cooled", 5, 8, 0, 0, time.Time{}, &longAgo)

		ranked, err := ranker.Rank(destination, []*partner.Partner{hot, cooled}, now)

		require.NoError(t, err)
		assert.Equal(t, "Cooled", ranked[0].Name())
	})

	t.Run("equal scores keep input order", func(t *testing.T) {
		first := rankerCandidate(t, "First", 5, 6, 0, 0, time.Time{}, nil)
		second := rankerCandidate(t, "Second", 6, 5, 0, 0, time.Time{}, nil)

		ranked, err := ranker.Rank(destination, []*partner.Partner{first, second}, now)

		require.NoError(t, err)
		assert.Equal(t, "First", ranked[0].Name())
		assert.Equal(t, "Second", ranked[1].Name())
	})

	t.Run("unrankable candidates are skipped", func(t *testing.T) {
		valid := rankerCandidate(t, "Valid", 5, 6, 0, 0, time.Time{}, nil)

		ranked, err := ranker.Rank(destination, []*partner.Partner{nil, valid}, now)

		require.NoError(t, err)
		require.Len(t, ranked, 1)
		assert.Equal(t, "Valid", ranked[0].Name())
	})

	t.Run("no rankable candidates is an error", func(t *testing.T) {
		_, err := ranker.Rank(destination, nil, now)

		require.Error(t, err)
		assert.ErrorIs(t, err, services.ErrNoCandidatesFound)
	})

	t.Run("unconstructed destination is rejected", func(t *testing.T) {
		valid := rankerCandidate(t, "Valid", 5, 6, 0, 0, time.Time{}, nil)

		_, err := ranker.Rank(kernel.Location{}, []*partner.Partner{valid}, now)
		require.Error(t, err)
	})
}
