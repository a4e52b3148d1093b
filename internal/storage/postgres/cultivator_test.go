package postgres_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/daasheo/immortalworld/internal/game/cultivation"
	"github.com/daasheo/immortalworld/internal/game/realm"
	"github.com/daasheo/immortalworld/internal/storage/postgres"
	"github.com/daasheo/immortalworld/internal/testutil"
)

func uniqueName(prefix string) string {
	return fmt.Sprintf("%s_%d", prefix, time.Now().UnixNano())
}

func setupCultivatorRepo(t *testing.T) *postgres.CultivatorRepository {
	t.Helper()
	pool := testutil.NewPool(t)
	return postgres.NewCultivatorRepository(pool)
}

func makeTestState() *cultivation.State {
	s := cultivation.NewState()
	s.SetTier(realm.QiCondensation)
	s.SetSubTier(realm.SubTierMid)
	s.SetSubTierProgress(30)
	s.SetMaxQi(250)
	s.SetCurrentQi(175.5)
	s.SetTotalExp(1200)
	s.SetBodyStrength(25)
	s.SetSpiritualSense(20)
	s.SetConstitution(15)
	s.SetTalent(60)
	s.SetRingSlotsUsed(1)
	s.SetKarma(-75)
	s.SetDailyRestSeconds(300)
	s.SetTribulationsCompleted(1)
	return s
}

func TestCultivatorRepository_CreateAndGet(t *testing.T) {
	repo := setupCultivatorRepo(t)
	ctx := context.Background()

	name := uniqueName("li_qing")
	rec, err := repo.Create(ctx, name, makeTestState())
	require.NoError(t, err)
	require.NotNil(t, rec)
	assert.NotEqual(t, uuid.Nil, rec.ID)
	assert.Equal(t, name, rec.Name)

	got, err := repo.GetByID(ctx, rec.ID)
	require.NoError(t, err)
	assert.Equal(t, rec.ID, got.ID)
	assert.Equal(t, name, got.Name)

	s := got.State
	assert.Equal(t, realm.QiCondensation, s.Tier())
	assert.Equal(t, realm.SubTierMid, s.SubTier())
	assert.Equal(t, 30.0, s.SubTierProgress())
	assert.Equal(t, 250.0, s.MaxQi())
	assert.Equal(t, 175.5, s.CurrentQi())
	assert.Equal(t, 1200.0, s.TotalExp())
	assert.Equal(t, 25, s.BodyStrength())
	assert.Equal(t, -75, s.Karma())
	assert.Equal(t, 1, s.RingSlotsUsed())
	assert.Equal(t, 300.0, s.DailyRestSeconds())
	assert.Equal(t, 1, s.TribulationsCompleted())
}

func TestCultivatorRepository_Create_Invalid(t *testing.T) {
	repo := setupCultivatorRepo(t)
	ctx := context.Background()

	_, err := repo.Create(ctx, "", cultivation.NewState())
	require.Error(t, err, "an empty name must be rejected")

	_, err = repo.Create(ctx, uniqueName("nil_state"), nil)
	require.Error(t, err, "a nil state must be rejected")
}

func TestCultivatorRepository_GetByName(t *testing.T) {
	repo := setupCultivatorRepo(t)
	ctx := context.Background()

	name := uniqueName("wanderer")
	_, err := repo.Create(ctx, name, cultivation.NewState())
	require.NoError(t, err)

	got, err := repo.GetByName(ctx, name)
	require.NoError(t, err)
	assert.Equal(t, name, got.Name)

	_, err = repo.GetByName(ctx, uniqueName("absent"))
	require.ErrorIs(t, err, postgres.ErrCultivatorNotFound)
}

func TestCultivatorRepository_GetByID_NotFound(t *testing.T) {
	repo := setupCultivatorRepo(t)

	_, err := repo.GetByID(context.Background(), uuid.New())
	require.ErrorIs(t, err, postgres.ErrCultivatorNotFound)
}

func TestCultivatorRepository_Save(t *testing.T) {
	repo := setupCultivatorRepo(t)
	ctx := context.Background()

	rec, err := repo.Create(ctx, uniqueName("ascender"), cultivation.NewState())
	require.NoError(t, err)

	state := rec.State
	advanced, err := state.AddExperience(130)
	require.NoError(t, err)
	require.True(t, advanced)
	_, err = state.ConsumeQi(40)
	require.NoError(t, err)

	require.NoError(t, repo.Save(ctx, rec.ID, state))

	got, err := repo.GetByID(ctx, rec.ID)
	require.NoError(t, err)
	assert.Equal(t, realm.SubTierMid, got.State.SubTier())
	assert.Equal(t, 30.0, got.State.SubTierProgress())
	assert.Equal(t, 150.0, got.State.MaxQi())
	assert.Equal(t, 110.0, got.State.CurrentQi())
	assert.Equal(t, 130.0, got.State.TotalExp())
}

func TestCultivatorRepository_Save_NotFound(t *testing.T) {
	repo := setupCultivatorRepo(t)

	err := repo.Save(context.Background(), uuid.New(), cultivation.NewState())
	require.ErrorIs(t, err, postgres.ErrCultivatorNotFound)
}

func TestCultivatorRepository_Save_RestingState(t *testing.T) {
	repo := setupCultivatorRepo(t)
	ctx := context.Background()

	state := cultivation.NewState()
	svc := cultivation.NewService(zap.NewNop(), nil)
	require.True(t, svc.BeginRest(state))

	rec, err := repo.Create(ctx, uniqueName("meditator"), state)
	require.NoError(t, err)

	got, err := repo.GetByID(ctx, rec.ID)
	require.NoError(t, err)
	assert.True(t, got.State.IsResting(), "the active session must survive persistence")
}

func TestCultivatorRepository_Delete(t *testing.T) {
	repo := setupCultivatorRepo(t)
	ctx := context.Background()

	rec, err := repo.Create(ctx, uniqueName("fleeting"), cultivation.NewState())
	require.NoError(t, err)

	require.NoError(t, repo.Delete(ctx, rec.ID))

	_, err = repo.GetByID(ctx, rec.ID)
	require.ErrorIs(t, err, postgres.ErrCultivatorNotFound)

	err = repo.Delete(ctx, rec.ID)
	require.ErrorIs(t, err, postgres.ErrCultivatorNotFound)
}

func TestCultivatorRepository_List(t *testing.T) {
	repo := setupCultivatorRepo(t)
	ctx := context.Background()

	names := []string{uniqueName("a"), uniqueName("b"), uniqueName("c")}
	for _, n := range names {
		_, err := repo.Create(ctx, n, cultivation.NewState())
		require.NoError(t, err)
	}

	records, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, records, len(names))
	for i := 1; i < len(records); i++ {
		assert.LessOrEqual(t, records[i-1].Name, records[i].Name,
			"the listing must be ordered by name")
	}
}
