package config

import (
	"sync"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/rs/zerolog/log"
)

// Database is one postgres endpoint. Read and write may point at different
// hosts.
type Database struct {
	Host     string `envconfig:"HOST"`
	Port     string `envconfig:"PORT"     default:"5432"`
	Username string `envconfig:"USER"`
	Password string `envconfig:"PASSWORD"`
	Name     string `envconfig:"NAME"`
	SSLMode  string `envconfig:"SSL_MODE" default:"disable"`
}

type Config struct {
	Server struct {
		Env                 string `envconfig:"ENV"                   default:"development"`
		LogLevel            string `envconfig:"LOG_LEVEL"             default:"info"`
		Port                string `envconfig:"PORT"                  default:"8080"`
		Host                string `envconfig:"HOST"`
		ReadTimeoutSeconds  int    `envconfig:"READ_TIMEOUT_SECONDS"  default:"15"`
		WriteTimeoutSeconds int    `envconfig:"WRITE_TIMEOUT_SECONDS" default:"15"`
		Shutdown            struct {
			CleanupPeriodSeconds int64 `envconfig:"CLEANUP_PERIOD_SECONDS" default:"5"`
			GracePeriodSeconds   int64 `envconfig:"GRACE_PERIOD_SECONDS"   default:"10"`
		} `envconfig:"SHUTDOWN"`
	} `envconfig:"SERVER"`

	App struct {
		Name     string `envconfig:"APP_NAME" default:"tablebook"`
		Timezone string `envconfig:"TIMEZONE" default:"UTC"`
		CORS     struct {
			AllowCredentials bool     `envconfig:"ALLOW_CREDENTIALS"`
			AllowedHeaders   []string `envconfig:"ALLOWED_HEADERS"`
			AllowedMethods   []string `envconfig:"ALLOWED_METHODS"`
			AllowedOrigins   []string `envconfig:"ALLOWED_ORIGINS"`
			Enable           bool     `envconfig:"ENABLE"`
			MaxAgeSeconds    int      `envconfig:"MAX_AGE_SECONDS"`
		} `envconfig:"CORS"`
		RateLimiter struct {
			Enable        bool `envconfig:"ENABLE"`
			MaxRequests   int  `envconfig:"MAX_REQUESTS"   default:"120"`
			WindowSeconds int  `envconfig:"WINDOW_SECONDS" default:"60"`
		} `envconfig:"RATE_LIMITER"`
		APIKey string `envconfig:"API_KEY"`
	} `envconfig:"APP"`

	Cache struct {
		Redis struct {
			Primary struct {
				Host     string `envconfig:"HOST"`
				Port     string `envconfig:"PORT" default:"6379"`
				Password string `envconfig:"PASSWORD"`
				DB       int    `envconfig:"DB"`
			} `envconfig:"PRIMARY"`
		} `envconfig:"REDIS"`
		TTL int `envconfig:"TTL" default:"300"`
	} `envconfig:"CACHE"`

	JWT struct {
		AccessSecret     string `envconfig:"ACCESS_SECRET"`
		RefreshSecret    string `envconfig:"REFRESH_SECRET"`
		AccessExpireMin  int    `envconfig:"ACCESS_EXPIRE_MIN"  default:"15"`
		RefreshExpireMin int    `envconfig:"REFRESH_EXPIRE_MIN" default:"10080"`
	} `envconfig:"JWT"`

	DB struct {
		Postgres struct {
			MaxRetry       int      `envconfig:"MAX_RETRY"       default:"5"`
			RetryWaitTime  int      `envconfig:"RETRY_WAIT_TIME" default:"2"`
			MaxOpenConns   int      `envconfig:"MAX_OPEN_CONNS"  default:"10"`
			MaxIdleConns   int      `envconfig:"MAX_IDLE_CONNS"  default:"10"`
			MigrationTable string   `envconfig:"MIGRATION_TABLE"`
			MigrationPath  string   `envconfig:"MIGRATION_PATH"  default:"file://migrations/postgres"`
			AutoMigrate    bool     `envconfig:"AUTO_MIGRATE"`
			Prefix         string   `envconfig:"PREFIX"`
			Read           Database `envconfig:"READ"`
			Write          Database `envconfig:"WRITE"`
		} `envconfig:"POSTGRES"`
	} `envconfig:"DB"`

	Kafka struct {
		Enable       bool     `envconfig:"ENABLE"`
		Brokers      []string `envconfig:"BROKERS"`
		BookingTopic string   `envconfig:"BOOKING_TOPIC" default:"booking-events"`
		SASL         struct {
			Username string `envconfig:"USERNAME"`
			Password string `envconfig:"PASSWORD"`
		} `envconfig:"SASL"`
	} `envconfig:"KAFKA"`

	External struct {
		Otel struct {
			Endpoint    string  `envconfig:"ENDPOINT"`
			SampleRatio float64 `envconfig:"SAMPLE_RATIO" default:"1"`
		} `envconfig:"OTEL"`
		S3 struct {
			APIEndpoint     string `envconfig:"API_ENDPOINT"`
			PublicDomain    string `envconfig:"PUBLIC_DOMAIN"`
			AccessKeyID     string `envconfig:"ACCESS_KEY_ID"`
			SecretAccessKey string `envconfig:"SECRET_ACCESS_KEY"`
			BucketName      string `envconfig:"BUCKET_NAME"`
		} `envconfig:"S3"`
	} `envconfig:"EXTERNAL"`
}

var (
	conf Config
	once sync.Once
)

// Load reads .env when present, then the process environment.
func Load() (Config, error) {
	var cfg Config

	if err := godotenv.Load(".env"); err != nil {
		log.Debug().Err(err).Msg("no .env file, using process environment")
	}

	if err := envconfig.Process("", &cfg); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// Get returns the process wide configuration, loading it on first use.
func Get() *Config {
	once.Do(func() {
		cfg, err := Load()
		if err != nil {
			log.Fatal().Err(err).Msg("failed to process environment variables")
		}

		conf = cfg
	})

	return &conf
}
