package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"pricewatch/config"
	"pricewatch/internal/dto"
	"pricewatch/internal/model"
	"pricewatch/internal/repository"
	"pricewatch/pkg/logger"
)

var errNoData = fmt.Errorf("%w: no data", repository.ErrNotFound)

func testLogger() *logger.Logger {
	log, err := logger.New("error", "console")
	if err != nil {
		panic(err)
	}
	return log
}

func testConfig() *config.Config {
	return &config.Config{
		Watcher: config.Watcher{
			TickInterval:      5 * time.Minute,
			CryptoCadence:     24,
			CryptoWatchCycles: 360,
			NFTWatchCycles:    8640,
			MaxConcurrency:    4,
		},
		OpenSea: config.OpenSea{NativeAsset: "ETH"},
		FxRate:  config.FxRate{QuoteCurrency: "GBP", CacheTTL: 15 * time.Minute},
		Cache:   config.Cache{DefaultExpiration: 5 * time.Minute},
	}
}

type mapCache struct {
	mu    sync.Mutex
	items map[string]interface{}
}

func newMapCache() *mapCache {
	return &mapCache{items: make(map[string]interface{})}
}

func (c *mapCache) Set(key string, value interface{}, _ time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items[key] = value
}

func (c *mapCache) Get(key string) (interface{}, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.items[key]
	return v, ok
}

func (c *mapCache) Delete(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.items, key)
}

func (c *mapCache) Flush() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = make(map[string]interface{})
}

type mockCryptoMarket struct {
	bySymbol map[string]*dto.CryptoQuote
	bySlug   map[string]*dto.CryptoQuote
	err      error
}

func (m *mockCryptoMarket) QuoteBySymbol(_ context.Context, identifier string) (*dto.CryptoQuote, error) {
	if m.err != nil {
		return nil, m.err
	}
	if q, ok := m.bySymbol[identifier]; ok {
		return q, nil
	}
	return nil, errNoData
}

func (m *mockCryptoMarket) QuoteBySlug(_ context.Context, identifier string) (*dto.CryptoQuote, error) {
	if m.err != nil {
		return nil, m.err
	}
	if q, ok := m.bySlug[identifier]; ok {
		return q, nil
	}
	return nil, errNoData
}

type mockNFTMarket struct {
	stats *dto.NFTCollectionStats
	err   error
}

func (m *mockNFTMarket) CollectionStats(_ context.Context, _ string) (*dto.NFTCollectionStats, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.stats, nil
}

type mockFxRate struct {
	rate  float64
	err   error
	calls int
}

func (m *mockFxRate) Rate(_ context.Context, _, _ string) (float64, error) {
	m.calls++
	if m.err != nil {
		return 0, m.err
	}
	return m.rate, nil
}

type mockWatchRepo struct {
	mu sync.Mutex

	active      map[model.AssetClass][]model.Watch
	insertErr   error
	inserted    []model.Watch
	triggered   []uint
	snapshots   map[uint][]byte
	decremented []uint
	cleared     int64
}

func newMockWatchRepo() *mockWatchRepo {
	return &mockWatchRepo{
		active:    make(map[model.AssetClass][]model.Watch),
		snapshots: make(map[uint][]byte),
	}
}

func (m *mockWatchRepo) Insert(_ context.Context, class model.AssetClass, watch *model.Watch) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.insertErr != nil {
		return m.insertErr
	}
	watch.ID = uint(len(m.inserted) + 1)
	m.inserted = append(m.inserted, *watch)
	m.active[class] = append(m.active[class], *watch)
	return nil
}

func (m *mockWatchRepo) ActiveByClass(_ context.Context, class model.AssetClass) ([]model.Watch, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]model.Watch(nil), m.active[class]...), nil
}

func (m *mockWatchRepo) ActiveByRequester(_ context.Context, class model.AssetClass, requesterID int64) ([]model.Watch, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []model.Watch
	for _, w := range m.active[class] {
		if w.RequesterID == requesterID {
			out = append(out, w)
		}
	}
	return out, nil
}

func (m *mockWatchRepo) DecrementAndMaybeExpire(_ context.Context, class model.AssetClass, id uint) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.decremented = append(m.decremented, id)
	watches := m.active[class]
	for i := range watches {
		if watches[i].ID != id {
			continue
		}
		watches[i].RemainingCycles--
		if watches[i].RemainingCycles <= 0 {
			m.active[class] = append(watches[:i], watches[i+1:]...)
		}
		break
	}
	return nil
}

func (m *mockWatchRepo) MarkTriggered(_ context.Context, class model.AssetClass, id uint, snapshot []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.triggered = append(m.triggered, id)
	m.snapshots[id] = snapshot
	watches := m.active[class]
	for i := range watches {
		if watches[i].ID == id {
			m.active[class] = append(watches[:i], watches[i+1:]...)
			break
		}
	}
	return nil
}

func (m *mockWatchRepo) DeactivateAll(_ context.Context, class model.AssetClass, requesterID int64) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var kept []model.Watch
	var count int64
	for _, w := range m.active[class] {
		if w.RequesterID == requesterID {
			count++
			continue
		}
		kept = append(kept, w)
	}
	m.active[class] = kept
	m.cleared += count
	return count, nil
}

func (m *mockWatchRepo) CountActive(_ context.Context, class model.AssetClass) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return int64(len(m.active[class])), nil
}

func (m *mockWatchRepo) CountTriggeredSince(_ context.Context, _ model.AssetClass, _ time.Time) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return int64(len(m.triggered)), nil
}

type sentMessage struct {
	chatID int64
	text   string
}

type mockSender struct {
	mu   sync.Mutex
	err  error
	sent []sentMessage
}

func (m *mockSender) SendMessage(_ context.Context, chatID int64, what interface{}, _ ...interface{}) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	text, _ := what.(string)
	m.sent = append(m.sent, sentMessage{chatID: chatID, text: text})
	return nil
}

type resolveCall struct {
	class model.AssetClass
	name  string
}

type mockResolver struct {
	mu     sync.Mutex
	crypto map[string]*dto.CryptoSnapshot
	nft    map[string]*dto.NFTSnapshot
	fail   map[string]error
	calls  []resolveCall
}

func newMockResolver() *mockResolver {
	return &mockResolver{
		crypto: make(map[string]*dto.CryptoSnapshot),
		nft:    make(map[string]*dto.NFTSnapshot),
		fail:   make(map[string]error),
	}
}

func (m *mockResolver) ResolveCrypto(_ context.Context, identifier string) (*dto.CryptoSnapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, resolveCall{class: model.AssetClassCrypto, name: identifier})
	if err, ok := m.fail[identifier]; ok {
		return nil, err
	}
	if snap, ok := m.crypto[identifier]; ok {
		return snap, nil
	}
	return nil, errNoData
}

func (m *mockResolver) ResolveNFT(_ context.Context, slug string) (*dto.NFTSnapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, resolveCall{class: model.AssetClassNFT, name: slug})
	if err, ok := m.fail[slug]; ok {
		return nil, err
	}
	if snap, ok := m.nft[slug]; ok {
		return snap, nil
	}
	return nil, errNoData
}

func (m *mockResolver) callsFor(class model.AssetClass, name string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int
	for _, c := range m.calls {
		if c.class == class && c.name == name {
			n++
		}
	}
	return n
}
