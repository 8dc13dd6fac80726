package memory

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/ivankudzin/matchdeck/internal/domain/enums"
	"github.com/ivankudzin/matchdeck/internal/domain/model"
)

func strPtr(v string) *string { return &v }

func TestSwipeLedgerUpsertIsIdempotent(t *testing.T) {
	ctx := context.Background()
	ledger := NewSwipeLedger()

	_, err := ledger.Upsert(ctx, "u1", "u2", enums.SwipeActionLike)
	require.NoError(t, err)
	_, err = ledger.Upsert(ctx, "u1", "u2", enums.SwipeActionLike)
	require.NoError(t, err)

	records, err := ledger.Query(ctx, model.SwipeFilter{SwiperID: strPtr("u1"), TargetID: strPtr("u2")})
	require.NoError(t, err)
	require.Len(t, records, 1)
	require.Equal(t, enums.SwipeActionLike, records[0].Action)
	require.Equal(t, 1, ledger.Len())
}

func TestSwipeLedgerLastWriteWins(t *testing.T) {
	ctx := context.Background()
	clock := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	ledger := NewSwipeLedger().WithClock(func() time.Time {
		clock = clock.Add(time.Second)
		return clock
	})

	first, err := ledger.Upsert(ctx, "u1", "u2", enums.SwipeActionLike)
	require.NoError(t, err)
	second, err := ledger.Upsert(ctx, "u1", "u2", enums.SwipeActionPass)
	require.NoError(t, err)
	require.True(t, second.CreatedAt.After(first.CreatedAt))

	like := enums.SwipeActionLike
	likes, err := ledger.Query(ctx, model.SwipeFilter{SwiperID: strPtr("u1"), Action: &like})
	require.NoError(t, err)
	require.Empty(t, likes)

	all, err := ledger.Query(ctx, model.SwipeFilter{})
	require.NoError(t, err)
	require.Len(t, all, 1)
	require.Equal(t, enums.SwipeActionPass, all[0].Action)
}

func TestSwipeLedgerRejectsInvalidPayload(t *testing.T) {
	ctx := context.Background()
	ledger := NewSwipeLedger()

	_, err := ledger.Upsert(ctx, "u1", "u1", enums.SwipeActionLike)
	require.ErrorIs(t, err, ErrInvalidSwipe)
	_, err = ledger.Upsert(ctx, "", "u2", enums.SwipeActionLike)
	require.ErrorIs(t, err, ErrInvalidSwipe)
	_, err = ledger.Upsert(ctx, "u1", "u2", enums.SwipeAction("superlike"))
	require.ErrorIs(t, err, ErrInvalidSwipe)
}

func TestSwipeLedgerConcurrentOverwritesLeaveOneWholeRecord(t *testing.T) {
	ctx := context.Background()
	ledger := NewSwipeLedger()

	var wg sync.WaitGroup
	for i := 0; i < 64; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			action := enums.SwipeActionLike
			if i%2 == 1 {
				action = enums.SwipeActionPass
			}
			_, _ = ledger.Upsert(ctx, "u1", "u2", action)
		}(i)
	}
	wg.Wait()

	records, err := ledger.Query(ctx, model.SwipeFilter{})
	require.NoError(t, err)
	require.Len(t, records, 1)
	require.True(t, records[0].Action.Valid())
	require.Equal(t, "u1", records[0].SwiperID)
	require.Equal(t, "u2", records[0].TargetID)
}

func TestSwipeLedgerHonoursCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewSwipeLedger().Query(ctx, model.SwipeFilter{})
	require.ErrorIs(t, err, context.Canceled)
}

func TestProfileStoreUpsertMerges(t *testing.T) {
	ctx := context.Background()
	store := NewProfileStore()
	age := 30

	require.NoError(t, store.Upsert(ctx, model.Profile{ID: "u1", DisplayName: "Ann", Bio: "climber", Age: &age}))
	require.NoError(t, store.Upsert(ctx, model.Profile{ID: "u1", PhotoURL: strPtr("https://cdn.example.com/u1.jpg")}))

	got, err := store.Get(ctx, "u1")
	require.NoError(t, err)
	require.Equal(t, "Ann", got.DisplayName)
	require.Equal(t, "climber", got.Bio)
	require.NotNil(t, got.Age)
	require.Equal(t, 30, *got.Age)
	require.NotNil(t, got.PhotoURL)
}

func TestProfileStoreListAllExceptKeepsInsertionOrder(t *testing.T) {
	ctx := context.Background()
	store := NewProfileStore()
	for i := 1; i <= 4; i++ {
		require.NoError(t, store.Upsert(ctx, model.Profile{ID: fmt.Sprintf("u%d", i)}))
	}

	items, err := store.ListAllExcept(ctx, "u2")
	require.NoError(t, err)
	require.Len(t, items, 3)
	require.Equal(t, []string{"u1", "u3", "u4"}, []string{items[0].ID, items[1].ID, items[2].ID})
	require.Equal(t, model.DefaultDisplayName, items[0].DisplayName)
}

func TestProfileStoreGetMissing(t *testing.T) {
	store := NewProfileStore()
	store.Delete("ghost")

	_, err := store.Get(context.Background(), "ghost")
	require.ErrorIs(t, err, model.ErrProfileNotFound)
}
