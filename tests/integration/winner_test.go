package integration_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lancecummins/eatout/internal/models"
	"github.com/lancecummins/eatout/internal/services"
	"github.com/lancecummins/eatout/tests/helpers"
)

func TestWinnerLockIn(t *testing.T) {
	server := helpers.NewTestServer(t)
	defer server.Cleanup()

	selector := services.NewBatchSelector(8)
	sm := services.NewSessionManager(server.App, selector)
	rm := services.NewResponseManager(server.App)

	setup := func(t *testing.T) (*models.Session, string) {
		session, adminID := helpers.CreateTestSession(t, sm)
		_, err := rm.JoinSession(session.ID, adminID, "Admin")
		require.NoError(t, err)
		helpers.MoveToRestaurantsStage(t, rm, session.ID, adminID)
		require.NoError(t, sm.SavePool(session.ID, helpers.TestPool(8)))
		return session, adminID
	}

	t.Run("picks a survivor from the active batch", func(t *testing.T) {
		session, adminID := setup(t)

		// Eliminate everything except two candidates.
		for i := 0; i < 6; i++ {
			_, err := rm.ToggleRestaurant(session.ID, adminID, helpers.TestPool(8)[i].PlaceID)
			require.NoError(t, err)
		}

		responses, err := rm.GetSessionResponses(session.ID)
		require.NoError(t, err)

		winner, err := sm.LockInWinner(session.ID, adminID, responses)

		require.NoError(t, err)
		require.NotNil(t, winner)
		assert.Contains(t, []string{"place-006", "place-007"}, winner.PlaceID)

		locked, err := sm.GetSession(session.ID)
		require.NoError(t, err)
		assert.Equal(t, models.StatusCompleted, locked.Status)
		require.NotNil(t, locked.Winner)
		assert.Equal(t, winner.PlaceID, locked.Winner.PlaceID)
	})

	t.Run("second lock-in returns the frozen winner", func(t *testing.T) {
		session, adminID := setup(t)

		responses, err := rm.GetSessionResponses(session.ID)
		require.NoError(t, err)

		first, err := sm.LockInWinner(session.ID, adminID, responses)
		require.NoError(t, err)

		second, err := sm.LockInWinner(session.ID, adminID, responses)
		require.NoError(t, err)
		assert.Equal(t, first.PlaceID, second.PlaceID)
	})

	t.Run("non-admin cannot lock in", func(t *testing.T) {
		session, _ := setup(t)

		outsider := helpers.NewUserID()
		_, err := rm.JoinSession(session.ID, outsider, "Guest")
		require.NoError(t, err)

		responses, err := rm.GetSessionResponses(session.ID)
		require.NoError(t, err)

		_, err = sm.LockInWinner(session.ID, outsider, responses)
		assert.ErrorIs(t, err, services.ErrNotAuthority)
	})

	t.Run("admin still in category stages cannot lock in", func(t *testing.T) {
		session, adminID := helpers.CreateTestSession(t, sm)
		_, err := rm.JoinSession(session.ID, adminID, "Admin")
		require.NoError(t, err)
		require.NoError(t, sm.SavePool(session.ID, helpers.TestPool(8)))

		responses, err := rm.GetSessionResponses(session.ID)
		require.NoError(t, err)

		_, err = sm.LockInWinner(session.ID, adminID, responses)
		assert.Error(t, err)
		assert.NotErrorIs(t, err, services.ErrNotAuthority)
	})

	t.Run("admin without a response record cannot lock in", func(t *testing.T) {
		session, adminID := helpers.CreateTestSession(t, sm)
		require.NoError(t, sm.SavePool(session.ID, helpers.TestPool(8)))

		_, err := sm.LockInWinner(session.ID, adminID, nil)
		assert.Error(t, err)
		assert.NotErrorIs(t, err, services.ErrNotAuthority)

		unchanged, err := sm.GetSession(session.ID)
		require.NoError(t, err)
		assert.Nil(t, unchanged.Winner)
	})

	t.Run("no pool means no lock-in", func(t *testing.T) {
		session, adminID := helpers.CreateTestSession(t, sm)
		_, err := rm.JoinSession(session.ID, adminID, "Admin")
		require.NoError(t, err)
		helpers.MoveToRestaurantsStage(t, rm, session.ID, adminID)

		responses, err := rm.GetSessionResponses(session.ID)
		require.NoError(t, err)

		_, err = sm.LockInWinner(session.ID, adminID, responses)
		assert.ErrorIs(t, err, services.ErrPoolNotFetched)
	})

	t.Run("fully eliminated batch refuses to pick", func(t *testing.T) {
		session, adminID := setup(t)

		for _, r := range helpers.TestPool(8) {
			_, err := rm.ToggleRestaurant(session.ID, adminID, r.PlaceID)
			require.NoError(t, err)
		}

		responses, err := rm.GetSessionResponses(session.ID)
		require.NoError(t, err)

		_, err = sm.LockInWinner(session.ID, adminID, responses)
		assert.ErrorIs(t, err, services.ErrNoSurvivors)

		// Nothing was written.
		unchanged, err := sm.GetSession(session.ID)
		require.NoError(t, err)
		assert.Nil(t, unchanged.Winner)
		assert.Equal(t, models.StatusActive, unchanged.Status)
	})
}
