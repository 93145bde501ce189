package shared

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

type Config struct {
	AppEnv         string
	HTTPAddr       string
	MetricsAddr    string
	CORSOrigins    []string
	RequestTimeout time.Duration // covers a listing fetch with its pacing delays
	MySQLDSN       string
	RedisAddr      string
	RedisDB        int
	RedisPass      string

	ListingURL      string // %s is replaced by the query-escaped city
	ListingTimeout  time.Duration
	ListingRPS      int
	PreDelayMin     time.Duration
	PreDelayMax     time.Duration
	ItemDelayMin    time.Duration
	ItemDelayMax    time.Duration
	ListingCacheTTL time.Duration // 0 disables the listing cache

	ReferenceCSV   string // empty uses the embedded dataset
	ImportOnStart  bool
	LocalThreshold int
	MaxCandidates  int

	SessionKey string // 64 hex chars
	SessionTTL time.Duration

	Workers    int
	WarmCities []string
}

// DefaultWarmCities are resolved by `hotelctl warm` when no cities are given.
var DefaultWarmCities = []string{
	"Casablanca", "Rabat", "Agadir", "Marrakech", "Tangier", "Fes", "Essaouira",
	"Tokyo", "Paris", "London", "New York", "Dubai", "Rome", "Barcelona", "Amsterdam",
}

func Load() Config {
	// .env is optional
	_ = godotenv.Load()

	atoi := func(k string, def int) int {
		if v := os.Getenv(k); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				return n
			}
		}
		return def
	}
	ms := func(k string, def int) time.Duration {
		return time.Duration(atoi(k, def)) * time.Millisecond
	}
	c := Config{
		AppEnv:      env("APP_ENV", "prod"),
		HTTPAddr:    env("HTTP_ADDR", ":8080"),
		MetricsAddr: env("METRICS_ADDR", ""),
		CORSOrigins: envList("CORS_ORIGINS", []string{"*"}),
		MySQLDSN:    env("MYSQL_DSN", "root:root@tcp(localhost:3306)/hotels?parseTime=true&charset=utf8mb4,utf8&loc=UTC"),
		RedisAddr:   env("REDIS_ADDR", ""),
		RedisPass:   env("REDIS_PASSWORD", ""),
		RedisDB:     atoi("REDIS_DB", 0),

		RequestTimeout:  time.Duration(atoi("REQUEST_TIMEOUT_SECONDS", 60)) * time.Second,
		ListingURL:      env("LISTING_URL", "https://www.tripadvisor.com/Search?q=%s&searchType=hotel"),
		ListingTimeout:  time.Duration(atoi("LISTING_TIMEOUT_SECONDS", 10)) * time.Second,
		ListingRPS:      atoi("LISTING_RPS", 1),
		PreDelayMin:     ms("LISTING_PRE_DELAY_MIN_MS", 2000),
		PreDelayMax:     ms("LISTING_PRE_DELAY_MAX_MS", 4000),
		ItemDelayMin:    ms("LISTING_ITEM_DELAY_MIN_MS", 500),
		ItemDelayMax:    ms("LISTING_ITEM_DELAY_MAX_MS", 1500),
		ListingCacheTTL: time.Duration(atoi("LISTING_CACHE_TTL_SECONDS", 900)) * time.Second,

		ReferenceCSV:   env("REFERENCE_CSV", ""),
		ImportOnStart:  envBool("IMPORT_ON_START", false),
		LocalThreshold: atoi("RESOLVE_LOCAL_THRESHOLD", 5),
		MaxCandidates:  atoi("LISTING_MAX_CANDIDATES", 10),

		SessionKey: env("SESSION_KEY", ""),
		SessionTTL: time.Duration(atoi("SESSION_TTL_MINUTES", 24*60)) * time.Minute,

		Workers:    atoi("WARM_WORKERS", 4),
		WarmCities: envList("WARM_CITIES", DefaultWarmCities),
	}
	if c.SessionKey == "" {
		log.Warn().Msg("SESSION_KEY is empty; a random key will be generated and sessions will not survive restarts")
	}
	return c
}

func env(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func envBool(k string, def bool) bool {
	if v := os.Getenv(k); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return def
}

func envList(k string, def []string) []string {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	var out []string
	for _, p := range strings.Split(v, ",") {
		if t := strings.TrimSpace(p); t != "" {
			out = append(out, t)
		}
	}
	return out
}
