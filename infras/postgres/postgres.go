package postgres

//nolint:revive
import (
	"context"
	"fmt"
	"net"
	"net/url"
	"time"

	"tablebook/config"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/rs/zerolog/log"
)

const driverName = "postgres"

// Connection splits traffic between a primary and a read replica. Both may
// point at the same server.
type Connection struct {
	Read  *sqlx.DB
	Write *sqlx.DB
}

func New(cfg *config.Config) *Connection {
	return &Connection{
		Read:  Connect(cfg, "read", cfg.DB.Postgres.Read),
		Write: Connect(cfg, "write", cfg.DB.Postgres.Write),
	}
}

// DSN renders db as a lib/pq URL. Credentials are escaped.
func DSN(db config.Database, prefix string) string {
	return (&url.URL{
		Scheme:   driverName,
		User:     url.UserPassword(db.Username, db.Password),
		Host:     net.JoinHostPort(db.Host, db.Port),
		Path:     prefix + db.Name,
		RawQuery: url.Values{"sslmode": []string{db.SSLMode}}.Encode(),
	}).String()
}

// Connect retries MaxRetry times and aborts the process when the database
// never answers.
func Connect(cfg *config.Config, name string, db config.Database) *sqlx.DB {
	pg := cfg.DB.Postgres
	dsn := DSN(db, pg.Prefix)

	logger := log.With().Str("name", name).Str("host", db.Host).Str("db", pg.Prefix+db.Name).Logger()

	var lastErr error

	for attempt := 1; attempt <= max(pg.MaxRetry, 1); attempt++ {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		conn, err := sqlx.ConnectContext(ctx, driverName, dsn)
		cancel()

		if err == nil {
			conn.SetMaxOpenConns(pg.MaxOpenConns)
			conn.SetMaxIdleConns(pg.MaxIdleConns)
			conn.SetConnMaxIdleTime(5 * time.Minute)

			logger.Info().Msg("connected to postgres")

			return conn
		}

		lastErr = err
		logger.Warn().Err(err).Int("attempt", attempt).Msg("postgres not reachable, retrying")

		time.Sleep(time.Duration(pg.RetryWaitTime) * time.Second)
	}

	logger.Fatal().Err(fmt.Errorf("giving up on postgres: %w", lastErr)).Msg("failed to connect to postgres")

	return nil
}
