package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cardpolicy/internal/model"
)

func TestDecisionRecorder_FirstWriteWins(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t, time.Now)
	card := env.createCard(t, "ic_rec")
	tx := purchase(1500)
	raw := []byte(`{"id":"evt_1","type":"issuing_authorization.request"}`)

	first, created, err := env.recorder.Record(ctx, card.ID, tx, model.VerdictDeclined, ReasonMerchantBlocked, raw)
	require.NoError(t, err)
	assert.True(t, created)
	require.NotNil(t, first.Reason)
	assert.Equal(t, ReasonMerchantBlocked, *first.Reason)
	assert.JSONEq(t, string(raw), string(first.Raw))

	second, created, err := env.recorder.Record(ctx, card.ID, tx, model.VerdictApproved, "", nil)
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, model.VerdictDeclined, second.Verdict)

	var count int64
	require.NoError(t, env.db.Model(&model.Decision{}).Where("event_id = ?", tx.EventID).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestDecisionRecorder_PendingIsUpgradedOnce(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t, time.Now)
	card := env.createCard(t, "ic_pending")
	tx := purchase(400)

	placeholder, created, err := env.recorder.Record(ctx, card.ID, tx, model.VerdictPending, "", nil)
	require.NoError(t, err)
	assert.True(t, created)

	// A second PENDING write is just a duplicate.
	_, created, err = env.recorder.Record(ctx, card.ID, tx, model.VerdictPending, "", nil)
	require.NoError(t, err)
	assert.False(t, created)

	decided, created, err := env.recorder.Record(ctx, card.ID, tx, model.VerdictDeclined, ReasonTooLate, nil)
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, placeholder.ID, decided.ID)
	assert.Equal(t, model.VerdictDeclined, decided.Verdict)
	require.NotNil(t, decided.Reason)
	assert.Equal(t, ReasonTooLate, *decided.Reason)

	again, created, err := env.recorder.Record(ctx, card.ID, tx, model.VerdictApproved, "", nil)
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, model.VerdictDeclined, again.Verdict)
}

func TestDecisionRecorder_ConcurrentDelivery(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t, time.Now)
	card := env.createCard(t, "ic_race")
	tx := purchase(700)

	const writers = 6
	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		created int
		ids     = map[string]struct{}{}
	)
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			d, ok, err := env.recorder.Record(ctx, card.ID, tx, model.VerdictApproved, "", nil)
			if !assert.NoError(t, err) {
				return
			}
			mu.Lock()
			defer mu.Unlock()
			if ok {
				created++
			}
			ids[d.ID.String()] = struct{}{}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, created)
	assert.Len(t, ids, 1)
}

func TestDecisionRecorder_Lookup(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t, time.Now)
	card := env.createCard(t, "ic_lookup")

	missing, err := env.recorder.Lookup(ctx, "iauth_missing")
	require.NoError(t, err)
	assert.Nil(t, missing)

	_, _, err = env.recorder.Record(ctx, card.ID, purchase(1), model.VerdictApproved, "", nil)
	require.NoError(t, err)

	found, err := env.recorder.Lookup(ctx, "iauth_1")
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, card.ID, found.CardID)
	assert.Nil(t, found.Reason)
}
