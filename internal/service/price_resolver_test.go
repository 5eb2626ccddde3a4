package service

import (
	"context"
	"errors"
	"testing"

	"pricewatch/internal/dto"
	"pricewatch/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func quote(name string, price, marketCap float64) *dto.CryptoQuote {
	return &dto.CryptoQuote{Name: name, Symbol: name, PriceUSD: price, MarketCapUSD: marketCap}
}

func TestResolveCryptoMarketCapTieBreak(t *testing.T) {
	tests := []struct {
		name       string
		bySymbol   *dto.CryptoQuote
		bySlug     *dto.CryptoQuote
		wantName   string
		wantErr    error
	}{
		{
			name:     "symbol wins larger market cap",
			bySymbol: quote("symbol-coin", 10, 100),
			bySlug:   quote("slug-coin", 20, 50),
			wantName: "symbol-coin",
		},
		{
			name:     "slug wins larger market cap",
			bySymbol: quote("symbol-coin", 10, 50),
			bySlug:   quote("slug-coin", 20, 100),
			wantName: "slug-coin",
		},
		{
			name:     "symbol wins equal market caps",
			bySymbol: quote("symbol-coin", 10, 100),
			bySlug:   quote("slug-coin", 20, 100),
			wantName: "symbol-coin",
		},
		{
			name:     "only symbol resolves",
			bySymbol: quote("symbol-coin", 10, 100),
			wantName: "symbol-coin",
		},
		{
			name:     "only slug resolves",
			bySlug:   quote("slug-coin", 20, 100),
			wantName: "slug-coin",
		},
		{
			name:    "neither resolves",
			wantErr: repository.ErrNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			crypto := &mockCryptoMarket{
				bySymbol: map[string]*dto.CryptoQuote{},
				bySlug:   map[string]*dto.CryptoQuote{},
			}
			if tt.bySymbol != nil {
				crypto.bySymbol["doge"] = tt.bySymbol
			}
			if tt.bySlug != nil {
				crypto.bySlug["doge"] = tt.bySlug
			}

			resolver := NewPriceResolver(testConfig(), testLogger(), crypto, &mockNFTMarket{}, &mockFxRate{rate: 0.8}, newMapCache())

			snap, err := resolver.ResolveCrypto(context.Background(), "doge")
			if tt.wantErr != nil {
				require.Error(t, err)
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantName, snap.Name)
		})
	}
}

func TestResolveCryptoFxEnrichment(t *testing.T) {
	crypto := &mockCryptoMarket{
		bySymbol: map[string]*dto.CryptoQuote{"btc": quote("Bitcoin", 50000, 1e12)},
		bySlug:   map[string]*dto.CryptoQuote{},
	}

	t.Run("rate available", func(t *testing.T) {
		fx := &mockFxRate{rate: 0.8}
		resolver := NewPriceResolver(testConfig(), testLogger(), crypto, &mockNFTMarket{}, fx, newMapCache())

		snap, err := resolver.ResolveCrypto(context.Background(), "btc")
		require.NoError(t, err)
		require.NotNil(t, snap.PriceQuoted)
		assert.Equal(t, "GBP", snap.QuoteCurrency)
		assert.InDelta(t, 40000, *snap.PriceQuoted, 0.01)
	})

	t.Run("rate failure omits quoted price", func(t *testing.T) {
		fx := &mockFxRate{err: errors.New("provider down")}
		resolver := NewPriceResolver(testConfig(), testLogger(), crypto, &mockNFTMarket{}, fx, newMapCache())

		snap, err := resolver.ResolveCrypto(context.Background(), "btc")
		require.NoError(t, err)
		assert.Nil(t, snap.PriceQuoted)
		assert.Empty(t, snap.QuoteCurrency)
	})

	t.Run("rate is cached across resolutions", func(t *testing.T) {
		fx := &mockFxRate{rate: 0.8}
		resolver := NewPriceResolver(testConfig(), testLogger(), crypto, &mockNFTMarket{}, fx, newMapCache())

		_, err := resolver.ResolveCrypto(context.Background(), "btc")
		require.NoError(t, err)
		_, err = resolver.ResolveCrypto(context.Background(), "btc")
		require.NoError(t, err)
		assert.Equal(t, 1, fx.calls)
	})
}

func TestResolveNFT(t *testing.T) {
	nativeMarket := &mockCryptoMarket{
		bySymbol: map[string]*dto.CryptoQuote{"ETH": quote("Ethereum", 2000, 5e11)},
		bySlug:   map[string]*dto.CryptoQuote{},
	}

	tests := []struct {
		name    string
		stats   *dto.NFTCollectionStats
		wantErr error
	}{
		{
			name:  "real collection passes filter",
			stats: &dto.NFTCollectionStats{Name: "Cool Cats", Slug: "cool-cats", FloorPrice: 2.5, MarketCap: 5000, NumOwners: 4000},
		},
		{
			name:    "single owner is rejected",
			stats:   &dto.NFTCollectionStats{Name: "Rug", Slug: "rug", FloorPrice: 2.5, MarketCap: 5000, NumOwners: 1},
			wantErr: repository.ErrNotFound,
		},
		{
			name:    "tiny market cap is rejected",
			stats:   &dto.NFTCollectionStats{Name: "Rug", Slug: "rug", FloorPrice: 2.5, MarketCap: 9.99, NumOwners: 4000},
			wantErr: repository.ErrNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resolver := NewPriceResolver(testConfig(), testLogger(), nativeMarket, &mockNFTMarket{stats: tt.stats}, &mockFxRate{rate: 0.8}, newMapCache())

			snap, err := resolver.ResolveNFT(context.Background(), tt.stats.Slug)
			if tt.wantErr != nil {
				require.Error(t, err)
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "ETH", snap.NativeAsset)
			require.NotNil(t, snap.FloorUSD)
			assert.InDelta(t, 5000, *snap.FloorUSD, 0.01)
			require.NotNil(t, snap.MarketCapUSD)
			assert.InDelta(t, 1e7, *snap.MarketCapUSD, 0.01)
		})
	}
}

func TestResolveNFTNativeAssetFailureOmitsFiat(t *testing.T) {
	stats := &dto.NFTCollectionStats{Name: "Cool Cats", Slug: "cool-cats", FloorPrice: 2.5, MarketCap: 5000, NumOwners: 4000}
	brokenMarket := &mockCryptoMarket{err: errors.New("provider down")}

	resolver := NewPriceResolver(testConfig(), testLogger(), brokenMarket, &mockNFTMarket{stats: stats}, &mockFxRate{rate: 0.8}, newMapCache())

	snap, err := resolver.ResolveNFT(context.Background(), "cool-cats")
	require.NoError(t, err)
	assert.Equal(t, 2.5, snap.FloorPrice)
	assert.Nil(t, snap.FloorUSD)
	assert.Nil(t, snap.MarketCapUSD)
}

func TestResolveNFTProviderErrorPropagates(t *testing.T) {
	provider := &mockNFTMarket{err: repository.ErrProvider}
	resolver := NewPriceResolver(testConfig(), testLogger(), &mockCryptoMarket{}, provider, &mockFxRate{rate: 0.8}, newMapCache())

	_, err := resolver.ResolveNFT(context.Background(), "cool-cats")
	assert.ErrorIs(t, err, repository.ErrProvider)
}
