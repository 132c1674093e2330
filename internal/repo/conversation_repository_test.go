package repo

import (
	"LostFound/internal/model"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newConversation(itemID string, a, b int64) *model.Conversation {
	return &model.Conversation{
		ID:        uuid.NewString(),
		ItemID:    itemID,
		UserAID:   a,
		UserBID:   b,
		CreatedAt: time.Now().UTC(),
	}
}

func TestConversationRepository_FindForItemAndPairAnyOrder(t *testing.T) {
	db := newTestDB(t)
	r := NewConversationRepository(db)
	ctx := context.Background()
	a := mustUser(t, db, "a@college.edu")
	b := mustUser(t, db, "b@college.edu")
	c := mustUser(t, db, "c@college.edu")
	it := mustItem(t, db, model.Item{Type: model.ItemFound})

	conv := newConversation(it.ID, a.ID, b.ID)
	require.NoError(t, r.Create(ctx, conv))

	got, err := r.FindForItemAndPair(ctx, it.ID, a.ID, b.ID)
	require.NoError(t, err)
	assert.Equal(t, conv.ID, got.ID)

	got, err = r.FindForItemAndPair(ctx, it.ID, b.ID, a.ID)
	require.NoError(t, err)
	assert.Equal(t, conv.ID, got.ID)
	assert.Equal(t, a.ID, got.UserAID, "roles are kept as created")

	_, err = r.FindForItemAndPair(ctx, it.ID, a.ID, c.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	other := mustItem(t, db, model.Item{Type: model.ItemFound})
	_, err = r.FindForItemAndPair(ctx, other.ID, a.ID, b.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestConversationRepository_SaveFlagsOnlyTouchesFlags(t *testing.T) {
	db := newTestDB(t)
	r := NewConversationRepository(db)
	ctx := context.Background()
	a := mustUser(t, db, "a@college.edu")
	b := mustUser(t, db, "b@college.edu")
	it := mustItem(t, db, model.Item{Type: model.ItemLost})

	conv := newConversation(it.ID, a.ID, b.ID)
	require.NoError(t, r.Create(ctx, conv))

	changed := *conv
	changed.Approved = true
	changed.BlockedByB = true
	changed.UserAID = b.ID // не должно сохраниться
	require.NoError(t, r.SaveFlags(ctx, &changed))

	got, err := r.GetByID(ctx, conv.ID)
	require.NoError(t, err)
	assert.True(t, got.Approved)
	assert.True(t, got.BlockedByB)
	assert.False(t, got.BlockedByA)
	assert.Equal(t, a.ID, got.UserAID)

	// сброс флагов в false тоже сохраняется
	changed.Approved = false
	changed.BlockedByB = false
	require.NoError(t, r.SaveFlags(ctx, &changed))
	got, _ = r.GetByID(ctx, conv.ID)
	assert.False(t, got.Approved)
	assert.False(t, got.BlockedByB)

	missing := newConversation(it.ID, a.ID, b.ID)
	assert.ErrorIs(t, r.SaveFlags(ctx, missing), gorm.ErrRecordNotFound)
}

func TestConversationRepository_ListForUser(t *testing.T) {
	db := newTestDB(t)
	r := NewConversationRepository(db)
	ctx := context.Background()
	a := mustUser(t, db, "a@college.edu")
	b := mustUser(t, db, "b@college.edu")
	c := mustUser(t, db, "c@college.edu")
	it := mustItem(t, db, model.Item{Type: model.ItemLost})

	first := newConversation(it.ID, a.ID, b.ID)
	first.CreatedAt = time.Now().UTC().Add(-time.Minute)
	second := newConversation(it.ID, c.ID, a.ID)
	require.NoError(t, r.Create(ctx, first))
	require.NoError(t, r.Create(ctx, second))
	require.NoError(t, r.Create(ctx, newConversation(it.ID, b.ID, c.ID)))

	list, err := r.ListForUser(ctx, a.ID)
	require.NoError(t, err)
	if assert.Len(t, list, 2) {
		assert.Equal(t, second.ID, list[0].ID)
		assert.Equal(t, first.ID, list[1].ID)
	}
}

func TestTxRunner_AppendAndCountInsideTx(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	a := mustUser(t, db, "a@college.edu")
	b := mustUser(t, db, "b@college.edu")
	it := mustItem(t, db, model.Item{Type: model.ItemLost})
	conv := newConversation(it.ID, a.ID, b.ID)
	require.NoError(t, NewConversationRepository(db).Create(ctx, conv))

	tx := NewTxRunner(db)
	err := tx.WithTx(ctx, func(s StoreProvider) error {
		locked, err := s.Conversations().GetForUpdate(ctx, conv.ID)
		if err != nil {
			return err
		}
		n, err := s.Messages().CountBySender(ctx, locked.ID, a.ID)
		if err != nil {
			return err
		}
		assert.Zero(t, n)
		return s.Messages().Append(ctx, &model.Message{
			ID: "01J000000000000000000000A1", ConversationID: locked.ID, SenderID: a.ID, Content: "hi", SentAt: time.Now().UTC(),
		})
	})
	require.NoError(t, err)

	n, err := NewMessageRepository(db).CountBySender(ctx, conv.ID, a.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}

func TestTxRunner_RollbackOnError(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	a := mustUser(t, db, "a@college.edu")
	b := mustUser(t, db, "b@college.edu")
	it := mustItem(t, db, model.Item{Type: model.ItemLost})
	conv := newConversation(it.ID, a.ID, b.ID)
	require.NoError(t, NewConversationRepository(db).Create(ctx, conv))

	boom := errors.New("boom")
	err := NewTxRunner(db).WithTx(ctx, func(s StoreProvider) error {
		conv.Approved = true
		if err := s.Conversations().SaveFlags(ctx, conv); err != nil {
			return err
		}
		if err := s.Messages().Append(ctx, &model.Message{
			ID: "01J000000000000000000000B1", ConversationID: conv.ID, SenderID: b.ID, Content: "x", SentAt: time.Now().UTC(),
		}); err != nil {
			return err
		}
		return boom
	})
	assert.ErrorIs(t, err, boom)

	got, err := NewConversationRepository(db).GetByID(ctx, conv.ID)
	require.NoError(t, err)
	assert.False(t, got.Approved)
	msgs, err := NewMessageRepository(db).ListByConversation(ctx, conv.ID)
	require.NoError(t, err)
	assert.Empty(t, msgs)
}
