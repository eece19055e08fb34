package shared

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

type Config struct {
	AppEnv      string
	HTTPAddr    string
	MetricsAddr string
	MySQLDSN    string
	RedisAddr   string
	RedisDB     int
	RedisPass   string

	// Dataset sourcing: a local directory of CSV snapshots, or the
	// artifact store when ArtifactBase is set.
	DataDir      string
	ArtifactBase string
	ArtifactKey  string

	Dataset    string
	DatasetVer string
	Reference  string
	RefVer     string

	// Rule parameters.
	KLThreshold float64
	MinRows     int
	MaxRows     int
	MinPrice    float64
	MaxPrice    float64

	Workers  int
	CacheTTL time.Duration
}

func Load() Config {
	if err := godotenv.Load(); err != nil {
		log.Debug().Msg("no .env file, using process environment")
	}

	atoi := func(k string, def int) int {
		if v := os.Getenv(k); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				return n
			}
		}
		return def
	}
	atof := func(k string, def float64) float64 {
		if v := os.Getenv(k); v != "" {
			if f, err := strconv.ParseFloat(v, 64); err == nil {
				return f
			}
		}
		return def
	}
	c := Config{
		AppEnv:      env("APP_ENV", "prod"),
		HTTPAddr:    env("HTTP_ADDR", ":8080"),
		MetricsAddr: env("METRICS_ADDR", ":9100"),
		MySQLDSN:    env("MYSQL_DSN", "root:root@tcp(localhost:3306)/gate?parseTime=true&charset=utf8mb4,utf8&loc=UTC"),
		RedisAddr:   env("REDIS_ADDR", "localhost:6379"),
		RedisDB:     atoi("REDIS_DB", 0),
		RedisPass:   env("REDIS_PASSWORD", ""),

		DataDir:      env("DATA_DIR", "./data"),
		ArtifactBase: env("ARTIFACT_BASE_URL", ""),
		ArtifactKey:  env("ARTIFACT_API_KEY", ""),

		Dataset:    env("GATE_DATASET", "sample.csv"),
		DatasetVer: env("GATE_DATASET_VERSION", "latest"),
		Reference:  env("GATE_REFERENCE", "reference.csv"),
		RefVer:     env("GATE_REFERENCE_VERSION", "latest"),

		KLThreshold: atof("KL_THRESHOLD", 0.2),
		MinRows:     atoi("MIN_ROWS", 15000),
		MaxRows:     atoi("MAX_ROWS", 1_000_000),
		MinPrice:    atof("MIN_PRICE", 10),
		MaxPrice:    atof("MAX_PRICE", 350),

		Workers:  atoi("GATE_WORKERS", 4),
		CacheTTL: time.Duration(atoi("CACHE_TTL_SECONDS", 900)) * time.Second,
	}
	if c.ArtifactBase != "" && c.ArtifactKey == "" {
		log.Warn().Msg("ARTIFACT_API_KEY is empty")
	}
	return c
}

func env(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
