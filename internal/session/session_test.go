package session

import (
	"testing"
	"time"

	"go-slab-ws/internal/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newUser(role model.Role) *model.User {
	u := &model.User{Username: "anwar", Role: role}
	u.ID = uuid.New()
	return u
}

func TestCreateAndGet(t *testing.T) {
	st := NewStore(time.Hour)
	s := st.Create(newUser(model.RoleAdmin))

	got, err := st.Get(s.ID)
	require.NoError(t, err)
	assert.Equal(t, "anwar", got.Username)
	assert.True(t, got.Can(model.PrivUserCreate))
	assert.Empty(t, got.SelectedBatch)

	_, err = st.Get("nope")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSelectBatchAndDrafts(t *testing.T) {
	st := NewStore(time.Hour)
	s := st.Create(newUser(model.RoleMarker))

	updated, err := st.SelectBatch(s.ID, "B1")
	require.NoError(t, err)
	assert.Equal(t, "B1", updated.SelectedBatch)

	rows := []model.Slab{{SlabNumber: 1, Length: 2, Width: 3}}
	_, err = st.SetDraft(s.ID, "B1", rows)
	require.NoError(t, err)
	rows[0].Length = 99 // caller's slice is not aliased

	draft, ok, err := st.Draft(s.ID, "B1")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, 2.0, draft[0].Length)

	require.NoError(t, st.ClearDraft(s.ID, "B1"))
	_, ok, err = st.Draft(s.ID, "B1")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestGetReturnsCopy(t *testing.T) {
	st := NewStore(time.Hour)
	s := st.Create(newUser(model.RoleMarker))
	s.SelectedBatch = "tampered"

	got, err := st.Get(s.ID)
	require.NoError(t, err)
	assert.Empty(t, got.SelectedBatch)
}

func TestDeleteClearsEverything(t *testing.T) {
	st := NewStore(time.Hour)
	s := st.Create(newUser(model.RoleMarker))
	_, err := st.SelectBatch(s.ID, "B1")
	require.NoError(t, err)
	_, err = st.SetDraft(s.ID, "B1", []model.Slab{{SlabNumber: 1}})
	require.NoError(t, err)

	st.Delete(s.ID)

	_, err = st.Get(s.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = st.SelectBatch(s.ID, "B2")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Zero(t, st.Len())
}

func TestDeleteByUser(t *testing.T) {
	st := NewStore(time.Hour)
	u := newUser(model.RoleMarker)
	st.Create(u)
	st.Create(u)
	other := st.Create(newUser(model.RoleAdmin))

	assert.Equal(t, 2, st.DeleteByUser(u.ID))
	assert.Equal(t, 1, st.Len())
	_, err := st.Get(other.ID)
	assert.NoError(t, err)
}

func TestSessionsExpireWithTTL(t *testing.T) {
	st := NewStore(time.Hour)
	clock := time.Date(2026, 10, 14, 8, 0, 0, 0, time.UTC)
	st.now = func() time.Time { return clock }

	old := st.Create(newUser(model.RoleMarker))
	assert.Equal(t, clock.Add(time.Hour), old.ExpiresAt)
	_, err := st.SetDraft(old.ID, "B1", []model.Slab{{SlabNumber: 1}})
	require.NoError(t, err)

	clock = clock.Add(59 * time.Minute)
	_, err = st.Get(old.ID)
	require.NoError(t, err)

	clock = clock.Add(time.Minute)
	_, err = st.Get(old.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	_, _, err = st.Draft(old.ID, "B1")
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = st.SelectBatch(old.ID, "B1")
	assert.ErrorIs(t, err, ErrNotFound)

	// logins without logout do not accumulate
	for i := 0; i < 50; i++ {
		st.Create(newUser(model.RoleMarker))
		clock = clock.Add(2 * time.Hour)
	}
	assert.Equal(t, 1, st.Len())
	assert.Equal(t, 1, st.Prune())
	assert.Zero(t, st.Len())
}

func TestNewStoreDefaultsTTL(t *testing.T) {
	st := NewStore(0)
	s := st.Create(newUser(model.RoleMarker))
	assert.Equal(t, DefaultTTL, s.ExpiresAt.Sub(s.CreatedAt))
}
