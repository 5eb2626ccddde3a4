package service

import (
	"context"
	"testing"
	"time"

	"pricewatch/internal/dto"
	"pricewatch/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func cryptoSnap(name string, price float64) *dto.CryptoSnapshot {
	return &dto.CryptoSnapshot{CryptoQuote: dto.CryptoQuote{Name: name, Symbol: name, PriceUSD: price}}
}

func nftSnap(slug string, floor float64) *dto.NFTSnapshot {
	return &dto.NFTSnapshot{
		NFTCollectionStats: dto.NFTCollectionStats{Name: slug, Slug: slug, FloorPrice: floor, MarketCap: 5000, NumOwners: 100},
		NativeAsset:        "ETH",
	}
}

func newTestWatcher(repo *mockWatchRepo, resolver PriceResolver, dispatcher AlertDispatcher) *Watcher {
	return NewWatcher(testConfig(), testLogger(), repo, resolver, dispatcher)
}

func TestRunPassTriggersAtOrBelowThreshold(t *testing.T) {
	tests := []struct {
		name     string
		observed float64
		wantSent int
	}{
		{name: "below threshold triggers", observed: 2950, wantSent: 1},
		{name: "exactly at threshold triggers", observed: 3000, wantSent: 1},
		{name: "above threshold does not trigger", observed: 3100, wantSent: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := newMockWatchRepo()
			repo.active[model.AssetClassCrypto] = []model.Watch{
				{ID: 1, Name: "eth", ChannelID: 42, ThresholdValue: 3000, RemainingCycles: 10},
			}

			resolver := newMockResolver()
			resolver.crypto["eth"] = cryptoSnap("Ethereum", tt.observed)

			sender := &mockSender{}
			dispatcher := NewAlertDispatcher(testConfig(), testLogger(), repo, sender)

			w := newTestWatcher(repo, resolver, dispatcher)
			w.RunPass(context.Background(), 0)

			assert.Len(t, sender.sent, tt.wantSent)
			// The entry is decremented whether or not it triggered.
			assert.Contains(t, repo.decremented, uint(1))
		})
	}
}

func TestRunPassResolvesEachAssetOnce(t *testing.T) {
	repo := newMockWatchRepo()
	repo.active[model.AssetClassNFT] = []model.Watch{
		{ID: 1, Name: "cool-cats", ChannelID: 1, ThresholdValue: 1, RemainingCycles: 10},
		{ID: 2, Name: "Cool-Cats", ChannelID: 2, ThresholdValue: 1, RemainingCycles: 10},
		{ID: 3, Name: "doodles", ChannelID: 3, ThresholdValue: 1, RemainingCycles: 10},
	}

	resolver := newMockResolver()
	resolver.nft["cool-cats"] = nftSnap("cool-cats", 5)
	resolver.nft["doodles"] = nftSnap("doodles", 5)

	w := newTestWatcher(repo, resolver, NewAlertDispatcher(testConfig(), testLogger(), repo, &mockSender{}))
	w.RunPass(context.Background(), 1)

	assert.Equal(t, 1, resolver.callsFor(model.AssetClassNFT, "cool-cats"))
	assert.Equal(t, 1, resolver.callsFor(model.AssetClassNFT, "doodles"))
	assert.Len(t, repo.decremented, 3)
}

func TestRunPassCryptoCadence(t *testing.T) {
	repo := newMockWatchRepo()
	repo.active[model.AssetClassCrypto] = []model.Watch{
		{ID: 1, Name: "btc", ChannelID: 1, ThresholdValue: 1, RemainingCycles: 1000},
	}
	repo.active[model.AssetClassNFT] = []model.Watch{
		{ID: 2, Name: "cool-cats", ChannelID: 2, ThresholdValue: 0.1, RemainingCycles: 10000},
	}

	resolver := newMockResolver()
	resolver.crypto["btc"] = cryptoSnap("Bitcoin", 50000)
	resolver.nft["cool-cats"] = nftSnap("cool-cats", 5)

	w := newTestWatcher(repo, resolver, NewAlertDispatcher(testConfig(), testLogger(), repo, &mockSender{}))
	for counter := uint64(0); counter < 24; counter++ {
		w.RunPass(context.Background(), counter)
	}

	// Crypto is due only on pass 0 of the 24; NFT is due every pass.
	assert.Equal(t, 1, resolver.callsFor(model.AssetClassCrypto, "btc"))
	assert.Equal(t, 24, resolver.callsFor(model.AssetClassNFT, "cool-cats"))
}

func TestRunPassExpiresWatchAtZeroCycles(t *testing.T) {
	repo := newMockWatchRepo()
	repo.active[model.AssetClassNFT] = []model.Watch{
		{ID: 1, Name: "cool-cats", ChannelID: 1, ThresholdValue: 0.1, RemainingCycles: 2},
	}

	resolver := newMockResolver()
	resolver.nft["cool-cats"] = nftSnap("cool-cats", 5)

	w := newTestWatcher(repo, resolver, NewAlertDispatcher(testConfig(), testLogger(), repo, &mockSender{}))

	w.RunPass(context.Background(), 1)
	active, err := repo.ActiveByClass(context.Background(), model.AssetClassNFT)
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, 1, active[0].RemainingCycles)

	w.RunPass(context.Background(), 2)
	active, err = repo.ActiveByClass(context.Background(), model.AssetClassNFT)
	require.NoError(t, err)
	assert.Empty(t, active)
}

func TestRunPassResolutionFailureStillDecrements(t *testing.T) {
	repo := newMockWatchRepo()
	repo.active[model.AssetClassNFT] = []model.Watch{
		{ID: 1, Name: "ghost", ChannelID: 1, ThresholdValue: 100, RemainingCycles: 10},
		{ID: 2, Name: "cool-cats", ChannelID: 2, ThresholdValue: 10, RemainingCycles: 10},
	}

	resolver := newMockResolver()
	resolver.fail["ghost"] = errNoData
	resolver.nft["cool-cats"] = nftSnap("cool-cats", 5)

	sender := &mockSender{}
	w := newTestWatcher(repo, resolver, NewAlertDispatcher(testConfig(), testLogger(), repo, sender))
	w.RunPass(context.Background(), 1)

	// The unresolvable entry dispatched nothing but still consumed a cycle.
	require.Len(t, sender.sent, 1)
	assert.Equal(t, int64(2), sender.sent[0].chatID)
	assert.ElementsMatch(t, []uint{1, 2}, repo.decremented)
}

func TestRunStopsOnContextCancel(t *testing.T) {
	repo := newMockWatchRepo()
	resolver := newMockResolver()
	w := newTestWatcher(repo, resolver, NewAlertDispatcher(testConfig(), testLogger(), repo, &mockSender{}))

	var passes int
	w.sleep = func(ctx context.Context, d time.Duration) bool {
		passes++
		return passes < 3
	}

	done := make(chan struct{})
	go func() {
		w.Run(context.Background())
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("watcher did not stop after sleep returned false")
	}
	assert.Equal(t, 3, passes)
}
