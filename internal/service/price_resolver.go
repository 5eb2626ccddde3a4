package service

import (
	"context"
	"fmt"
	"strings"

	"pricewatch/config"
	"pricewatch/internal/dto"
	"pricewatch/internal/model"
	"pricewatch/internal/repository"
	"pricewatch/pkg/cache"
	"pricewatch/pkg/common"
	"pricewatch/pkg/logger"
	"pricewatch/pkg/utils"
)

// Collections below these floors are placeholders with no real market and
// would pass through as false watch targets.
const (
	minCollectionOwners    = 2
	minCollectionMarketCap = 10.0
)

// PriceResolver maps a free-text asset identifier to one canonical price
// snapshot. Both operations are read-only and safe for concurrent use;
// per-pass deduplication is the caller's concern.
type PriceResolver interface {
	ResolveCrypto(ctx context.Context, identifier string) (*dto.CryptoSnapshot, error)
	ResolveNFT(ctx context.Context, slug string) (*dto.NFTSnapshot, error)
}

type priceResolver struct {
	cfg           *config.Config
	log           *logger.Logger
	cryptoMarket  repository.CryptoMarketRepository
	nftMarket     repository.NFTMarketRepository
	fxRate        repository.FxRateRepository
	inmemoryCache cache.Cache
}

func NewPriceResolver(
	cfg *config.Config,
	log *logger.Logger,
	cryptoMarket repository.CryptoMarketRepository,
	nftMarket repository.NFTMarketRepository,
	fxRate repository.FxRateRepository,
	inmemoryCache cache.Cache,
) PriceResolver {
	return &priceResolver{
		cfg:           cfg,
		log:           log,
		cryptoMarket:  cryptoMarket,
		nftMarket:     nftMarket,
		fxRate:        fxRate,
		inmemoryCache: inmemoryCache,
	}
}

// ResolveCrypto issues two lookups, one treating the identifier as a ticker
// symbol and one as a name slug, and keeps the result with the larger market
// cap. The symbol result wins ties because it is checked first.
func (r *priceResolver) ResolveCrypto(ctx context.Context, identifier string) (*dto.CryptoSnapshot, error) {
	symbolQuote := r.lookup(ctx, identifier, "symbol", r.cryptoMarket.QuoteBySymbol)
	slugQuote := r.lookup(ctx, identifier, "slug", r.cryptoMarket.QuoteBySlug)

	chosen := symbolQuote
	if chosen == nil {
		chosen = slugQuote
	} else if slugQuote != nil && slugQuote.MarketCapUSD > chosen.MarketCapUSD {
		chosen = slugQuote
	}
	if chosen == nil {
		return nil, fmt.Errorf("%w: %s", repository.ErrNotFound, identifier)
	}

	snapshot := &dto.CryptoSnapshot{CryptoQuote: *chosen}

	// Second-currency value is enrichment only: a failed rate lookup omits
	// the field instead of failing the resolution.
	if rate, err := r.quoteRate(ctx); err != nil {
		r.log.WarnContext(ctx, "FX rate unavailable, omitting quoted price",
			logger.ErrorField(err), logger.StringField("identifier", identifier))
	} else {
		snapshot.QuoteCurrency = r.cfg.FxRate.QuoteCurrency
		snapshot.PriceQuoted = utils.ToPointer(chosen.PriceUSD * rate)
	}

	r.inmemoryCache.Set(
		fmt.Sprintf(common.KEY_LAST_PRICE, model.AssetClassCrypto, strings.ToLower(identifier)),
		chosen.PriceUSD,
		r.cfg.Cache.DefaultExpiration,
	)

	return snapshot, nil
}

// ResolveNFT looks up a collection by slug and converts its native-unit floor
// and market cap to USD via the chain's native asset. If the nested crypto
// resolution fails, the fiat fields are omitted.
func (r *priceResolver) ResolveNFT(ctx context.Context, slug string) (*dto.NFTSnapshot, error) {
	stats, err := r.nftMarket.CollectionStats(ctx, slug)
	if err != nil {
		return nil, err
	}

	if stats.NumOwners < minCollectionOwners || stats.MarketCap < minCollectionMarketCap {
		return nil, fmt.Errorf("%w: collection %s has no real market (owners=%d, cap=%.2f)",
			repository.ErrNotFound, slug, stats.NumOwners, stats.MarketCap)
	}

	snapshot := &dto.NFTSnapshot{
		NFTCollectionStats: *stats,
		NativeAsset:        r.cfg.OpenSea.NativeAsset,
	}

	native, err := r.ResolveCrypto(ctx, r.cfg.OpenSea.NativeAsset)
	if err != nil {
		r.log.WarnContext(ctx, "Native asset resolution failed, omitting fiat values",
			logger.ErrorField(err), logger.StringField("slug", slug))
	} else {
		snapshot.FloorUSD = utils.ToPointer(stats.FloorPrice * native.PriceUSD)
		snapshot.MarketCapUSD = utils.ToPointer(stats.MarketCap * native.PriceUSD)
	}

	r.inmemoryCache.Set(
		fmt.Sprintf(common.KEY_LAST_PRICE, model.AssetClassNFT, strings.ToLower(slug)),
		stats.FloorPrice,
		r.cfg.Cache.DefaultExpiration,
	)

	return snapshot, nil
}

// lookup runs one provider lookup and degrades any failure to "no data".
func (r *priceResolver) lookup(
	ctx context.Context,
	identifier, kind string,
	fn func(context.Context, string) (*dto.CryptoQuote, error),
) *dto.CryptoQuote {
	quote, err := fn(ctx, identifier)
	if err != nil {
		r.log.DebugContext(ctx, "Crypto lookup yielded no data",
			logger.StringField("identifier", identifier),
			logger.StringField("kind", kind),
			logger.ErrorField(err))
		return nil
	}
	return quote
}

func (r *priceResolver) quoteRate(ctx context.Context) (float64, error) {
	key := fmt.Sprintf(common.KEY_FX_RATE, "USD", r.cfg.FxRate.QuoteCurrency)
	if cached, ok := r.inmemoryCache.Get(key); ok {
		if rate, ok := cached.(float64); ok {
			return rate, nil
		}
	}

	rate, err := r.fxRate.Rate(ctx, "USD", r.cfg.FxRate.QuoteCurrency)
	if err != nil {
		return 0, err
	}

	r.inmemoryCache.Set(key, rate, r.cfg.FxRate.CacheTTL)
	return rate, nil
}
