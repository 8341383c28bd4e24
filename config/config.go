package config

import (
	"log"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

type Config struct {
	LogLevel      string `env:"LOG_LEVEL"`
	Telegram      Telegram
	Redis         Redis
	API           API
	Cache         Cache
	Jobs          Jobs
	GoogleDrive   GoogleDrive
	LotsPerPage   int `env:"LOTS_PER_PAGE"`
	LedgerPerPage int `env:"LEDGER_PER_PAGE"`
}

type Telegram struct {
	Token      string        `env:"TELEGRAM_TOKEN"`
	UpdTimeout time.Duration `env:"TELEGRAM_UPD_TIMEOUT"`
}

type Redis struct {
	Host     string `env:"REDIS_HOST"`
	Port     int    `env:"REDIS_PORT"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB"`
}

type API struct {
	Debug      bool          `env:"API_DEBUG"`
	Timeout    time.Duration `env:"API_TIMEOUT"`
	JournalApi JournalApi
}

type JournalApi struct {
	Url string `env:"JOURNAL_API_URL"`
}

type Cache struct {
	PricesExpiration time.Duration `env:"CACHE_PRICES_EXPIRATION"`
}

type Jobs struct {
	RefreshPricesInterval time.Duration `env:"REFRESH_PRICES_JOB_INTERVAL"`
	DriveCleanupCrontab   string        `env:"DRIVE_CLEANUP_CRONTAB"`
}

type GoogleDrive struct {
	CredentialsFile string        `env:"GOOGLE_DRIVE_CREDENTIALS_FILE"`
	FileTTL         time.Duration `env:"GOOGLE_DRIVE_FILE_TTL"`
}

func MustLoad() *Config {
	_ = godotenv.Load(".env")

	cfg := &Config{}

	opts := env.Options{RequiredIfNoDef: true}

	if err := env.ParseWithOptions(cfg, opts); err != nil {
		log.Fatalf("parse config error: %s", err)
	}

	return cfg
}
