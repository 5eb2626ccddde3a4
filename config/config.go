package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Log           Logger         `mapstructure:"logger"`
	DB            Database       `mapstructure:"database"`
	API           API            `mapstructure:"api"`
	Watcher       Watcher        `mapstructure:"watcher"`
	CoinMarketCap CoinMarketCap  `mapstructure:"coinmarketcap"`
	OpenSea       OpenSea        `mapstructure:"opensea"`
	FxRate        FxRate         `mapstructure:"fxrate"`
	Cache         Cache          `mapstructure:"cache"`
	Telegram      TelegramConfig `mapstructure:"telegram"`
}

type Logger struct {
	Level    string `mapstructure:"level"`
	Encoding string `mapstructure:"encoding"`
}

type Database struct {
	Host            string `mapstructure:"host"`
	Port            int    `mapstructure:"port"`
	User            string `mapstructure:"user"`
	Password        string `mapstructure:"password"`
	DBName          string `mapstructure:"name"`
	SSLMode         string `mapstructure:"ssl_mode"`
	TimeZone        string `mapstructure:"time_zone"`
	MaxIdleConns    int    `mapstructure:"max_idle_conns"`
	MaxOpenConns    int    `mapstructure:"max_open_conns"`
	ConnMaxLifetime string `mapstructure:"conn_max_lifetime"`
	LogLevel        string `mapstructure:"log_level"`
}

type API struct {
	Port int `mapstructure:"port"`
}

// Watcher controls the alert evaluation loop. NFT entries are evaluated every
// tick, crypto entries every CryptoCadence-th tick.
type Watcher struct {
	TickInterval      time.Duration `mapstructure:"tick_interval"`
	CryptoCadence     uint64        `mapstructure:"crypto_cadence"`
	CryptoWatchCycles int           `mapstructure:"crypto_watch_cycles"`
	NFTWatchCycles    int           `mapstructure:"nft_watch_cycles"`
	MaxConcurrency    int           `mapstructure:"max_concurrency"`
	DigestCron        string        `mapstructure:"digest_cron"`
}

type CoinMarketCap struct {
	BaseURL          string        `mapstructure:"base_url"`
	APIKey           string        `mapstructure:"api_key"`
	Timeout          time.Duration `mapstructure:"timeout"`
	MaxRequestPerMin int           `mapstructure:"max_request_per_min"`
}

type OpenSea struct {
	BaseURL          string        `mapstructure:"base_url"`
	APIKey           string        `mapstructure:"api_key"`
	Timeout          time.Duration `mapstructure:"timeout"`
	MaxRequestPerMin int           `mapstructure:"max_request_per_min"`
	NativeAsset      string        `mapstructure:"native_asset"`
}

type FxRate struct {
	BaseURL       string        `mapstructure:"base_url"`
	APIKey        string        `mapstructure:"api_key"`
	Timeout       time.Duration `mapstructure:"timeout"`
	QuoteCurrency string        `mapstructure:"quote_currency"`
	CacheTTL      time.Duration `mapstructure:"cache_ttl"`
}

type Cache struct {
	DefaultExpiration time.Duration `mapstructure:"default_expiration"`
	CleanupInterval   time.Duration `mapstructure:"cleanup_interval"`
}

type TelegramConfig struct {
	BotToken                  string        `mapstructure:"bot_token"`
	OpsChatID                 string        `mapstructure:"ops_chat_id"`
	TimeoutDuration           time.Duration `mapstructure:"timeout_duration"`
	MaxGlobalRequestPerSecond int           `mapstructure:"max_global_request_per_second"`
	MaxChatRequestPerSecond   int           `mapstructure:"max_chat_request_per_second"`
}

func Load() (*Config, error) {
	// .env is optional, deployments may inject environment variables directly.
	_ = godotenv.Load()

	viper.SetConfigType("yaml")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AddConfigPath(".")
	viper.AutomaticEnv()

	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		fmt.Println("No config file loaded:", err)
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	if cfg.Watcher.CryptoCadence == 0 {
		return nil, fmt.Errorf("watcher.crypto_cadence must be >= 1")
	}

	return &cfg, nil
}

func setDefaults() {
	viper.SetDefault("logger.level", "info")
	viper.SetDefault("logger.encoding", "json")

	viper.SetDefault("api.port", 8080)

	viper.SetDefault("watcher.tick_interval", 5*time.Minute)
	viper.SetDefault("watcher.crypto_cadence", 24)
	// ~30 days of coverage: crypto is evaluated every 2h, NFT every 5m.
	viper.SetDefault("watcher.crypto_watch_cycles", 360)
	viper.SetDefault("watcher.nft_watch_cycles", 8640)
	viper.SetDefault("watcher.max_concurrency", 4)
	viper.SetDefault("watcher.digest_cron", "0 9 * * *")

	viper.SetDefault("coinmarketcap.base_url", "https://pro-api.coinmarketcap.com")
	viper.SetDefault("coinmarketcap.timeout", 10*time.Second)
	viper.SetDefault("coinmarketcap.max_request_per_min", 25)

	viper.SetDefault("opensea.base_url", "https://api.opensea.io")
	viper.SetDefault("opensea.timeout", 10*time.Second)
	viper.SetDefault("opensea.max_request_per_min", 25)
	viper.SetDefault("opensea.native_asset", "ETH")

	viper.SetDefault("fxrate.base_url", "https://free.currconv.com")
	viper.SetDefault("fxrate.timeout", 10*time.Second)
	viper.SetDefault("fxrate.quote_currency", "GBP")
	viper.SetDefault("fxrate.cache_ttl", 15*time.Minute)

	viper.SetDefault("cache.default_expiration", 5*time.Minute)
	viper.SetDefault("cache.cleanup_interval", 10*time.Minute)

	viper.SetDefault("telegram.timeout_duration", 10*time.Second)
	viper.SetDefault("telegram.max_global_request_per_second", 30)
	viper.SetDefault("telegram.max_chat_request_per_second", 1)
}
