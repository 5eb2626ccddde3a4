package service

import (
	"context"
	"errors"
	"testing"

	"pricewatch/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDispatchMarksTriggeredAfterConfirmedSend(t *testing.T) {
	repo := newMockWatchRepo()
	sender := &mockSender{}
	dispatcher := NewAlertDispatcher(testConfig(), testLogger(), repo, sender)

	watch := model.Watch{ID: 7, Name: "eth", ChannelID: 42, ThresholdValue: 3000}
	snap := cryptoSnap("Ethereum", 2950)

	err := dispatcher.Dispatch(context.Background(), model.AssetClassCrypto, watch, 2950, snap)
	require.NoError(t, err)

	require.Len(t, sender.sent, 1)
	assert.Equal(t, int64(42), sender.sent[0].chatID)
	assert.Contains(t, sender.sent[0].text, "Ethereum")

	require.Len(t, repo.triggered, 1)
	assert.Equal(t, uint(7), repo.triggered[0])
	assert.Contains(t, string(repo.snapshots[7]), "Ethereum")
}

func TestDispatchDeliveryFailureLeavesWatchActive(t *testing.T) {
	repo := newMockWatchRepo()
	repo.active[model.AssetClassCrypto] = []model.Watch{
		{ID: 7, Name: "eth", ChannelID: 42, ThresholdValue: 3000, RemainingCycles: 10},
	}
	sender := &mockSender{err: errors.New("blocked by user")}
	dispatcher := NewAlertDispatcher(testConfig(), testLogger(), repo, sender)

	watch := model.Watch{ID: 7, Name: "eth", ChannelID: 42, ThresholdValue: 3000}
	err := dispatcher.Dispatch(context.Background(), model.AssetClassCrypto, watch, 2950, cryptoSnap("Ethereum", 2950))

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrDeliveryFailed)
	// Not marked triggered: the watch stays active for the next pass.
	assert.Empty(t, repo.triggered)
	active, aerr := repo.ActiveByClass(context.Background(), model.AssetClassCrypto)
	require.NoError(t, aerr)
	assert.Len(t, active, 1)
}

func TestDispatchFormatsNFTAlertInNativeUnit(t *testing.T) {
	repo := newMockWatchRepo()
	sender := &mockSender{}
	dispatcher := NewAlertDispatcher(testConfig(), testLogger(), repo, sender)

	watch := model.Watch{ID: 3, Name: "cool-cats", ChannelID: 9, ThresholdValue: 3}
	err := dispatcher.Dispatch(context.Background(), model.AssetClassNFT, watch, 2.5, nftSnap("cool-cats", 2.5))
	require.NoError(t, err)

	require.Len(t, sender.sent, 1)
	assert.Contains(t, sender.sent[0].text, "ETH")
	assert.Contains(t, sender.sent[0].text, "cool-cats")
}
