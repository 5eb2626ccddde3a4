package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"pricewatch/config"
	"pricewatch/internal/model"
	"pricewatch/internal/repository"
	"pricewatch/pkg/logger"

	"golang.org/x/sync/errgroup"
)

// Watcher is the alert evaluation loop. Each pass evaluates the NFT watch
// set; every CryptoCadence-th pass also evaluates the crypto watch set.
// Passes never overlap: the next sleep starts only after the current pass has
// fully completed.
type Watcher struct {
	cfg        *config.Config
	log        *logger.Logger
	watchRepo  repository.WatchRepository
	resolver   PriceResolver
	dispatcher AlertDispatcher

	// injectable for tests
	now   func() time.Time
	sleep func(ctx context.Context, d time.Duration) bool
}

func NewWatcher(
	cfg *config.Config,
	log *logger.Logger,
	watchRepo repository.WatchRepository,
	resolver PriceResolver,
	dispatcher AlertDispatcher,
) *Watcher {
	return &Watcher{
		cfg:        cfg,
		log:        log,
		watchRepo:  watchRepo,
		resolver:   resolver,
		dispatcher: dispatcher,
		now:        time.Now,
		sleep:      sleepContext,
	}
}

func sleepContext(ctx context.Context, d time.Duration) bool {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}

// Run executes passes until the context is cancelled.
func (w *Watcher) Run(ctx context.Context) {
	w.log.InfoContext(ctx, "Watcher started",
		logger.Field("tick_interval", w.cfg.Watcher.TickInterval),
		logger.Field("crypto_cadence", w.cfg.Watcher.CryptoCadence))

	var counter uint64
	for {
		if ctx.Err() != nil {
			w.log.InfoContext(ctx, "Watcher stopped")
			return
		}

		w.RunPass(ctx, counter)
		counter++

		if !w.sleep(ctx, w.cfg.Watcher.TickInterval) {
			w.log.InfoContext(ctx, "Watcher stopped")
			return
		}
	}
}

// RunPass performs one evaluation pass. Crypto entries are due when the pass
// counter is a multiple of the cadence; NFT entries are due every pass.
func (w *Watcher) RunPass(ctx context.Context, counter uint64) {
	start := w.now()
	w.log.DebugContext(ctx, "Starting watch pass", logger.Field("counter", counter))

	if counter%w.cfg.Watcher.CryptoCadence == 0 {
		if err := w.evaluateClass(ctx, model.AssetClassCrypto); err != nil {
			w.log.ErrorContextWithAlert(ctx, "Crypto evaluation aborted",
				logger.ErrorField(err), logger.Field("counter", counter))
		}
	}

	if err := w.evaluateClass(ctx, model.AssetClassNFT); err != nil {
		w.log.ErrorContextWithAlert(ctx, "NFT evaluation aborted",
			logger.ErrorField(err), logger.Field("counter", counter))
	}

	w.log.DebugContext(ctx, "Watch pass completed",
		logger.Field("counter", counter),
		logger.Field("duration", w.now().Sub(start)))
}

// assetResolution is one per-pass cache slot: written once by the resolving
// goroutine, read by the evaluation phase.
type assetResolution struct {
	value    float64
	snapshot interface{}
	err      error
}

// evaluateClass runs one pass over one asset class: read the active set,
// resolve each distinct asset once, dispatch alerts for threshold hits, then
// decrement every entry of the set. All triggering finishes before any
// decrement so each entry consumes exactly one evaluation per pass.
func (w *Watcher) evaluateClass(ctx context.Context, class model.AssetClass) error {
	watches, err := w.watchRepo.ActiveByClass(ctx, class)
	if err != nil {
		return fmt.Errorf("failed to read active %s watches: %w", class, err)
	}
	if len(watches) == 0 {
		return nil
	}

	resolutions := w.resolveAll(ctx, class, watches)

	for i := range watches {
		watch := watches[i]
		res := resolutions[assetKey(watch.Name)]
		if res == nil || res.err != nil {
			// Unresolvable this pass; the entry stays active and is still
			// decremented below.
			continue
		}

		if res.value <= watch.ThresholdValue {
			if err := w.dispatcher.Dispatch(ctx, class, watch, res.value, res.snapshot); err != nil {
				w.log.ErrorContext(ctx, "Failed to dispatch alert",
					logger.ErrorField(err),
					logger.Field("watch_id", watch.ID),
					logger.StringField("asset", watch.Name))
			}
		}
	}

	for i := range watches {
		if err := w.watchRepo.DecrementAndMaybeExpire(ctx, class, watches[i].ID); err != nil {
			w.log.ErrorContext(ctx, "Failed to decrement watch",
				logger.ErrorField(err), logger.Field("watch_id", watches[i].ID))
		}
	}

	return nil
}

// resolveAll resolves each distinct asset name in the set exactly once,
// concurrently up to the configured limit.
func (w *Watcher) resolveAll(ctx context.Context, class model.AssetClass, watches []model.Watch) map[string]*assetResolution {
	resolutions := make(map[string]*assetResolution)
	for i := range watches {
		key := assetKey(watches[i].Name)
		if _, ok := resolutions[key]; !ok {
			resolutions[key] = &assetResolution{}
		}
	}

	limit := w.cfg.Watcher.MaxConcurrency
	if limit <= 0 {
		limit = 1
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)
	for key, res := range resolutions {
		key, res := key, res
		g.Go(func() error {
			switch class {
			case model.AssetClassNFT:
				snap, err := w.resolver.ResolveNFT(gctx, key)
				if err != nil {
					res.err = err
				} else {
					res.value = snap.FloorPrice
					res.snapshot = snap
				}
			default:
				snap, err := w.resolver.ResolveCrypto(gctx, key)
				if err != nil {
					res.err = err
				} else {
					res.value = snap.PriceUSD
					res.snapshot = snap
				}
			}

			if res.err != nil {
				w.log.WarnContext(gctx, "Asset resolution failed this pass",
					logger.StringField("asset", key),
					logger.StringField("asset_class", string(class)),
					logger.ErrorField(res.err))
			}
			return nil
		})
	}
	_ = g.Wait()

	return resolutions
}

func assetKey(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
