package shared

import (
	"net"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/kelseyhightower/envconfig"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

type MySQL struct {
	Host     string `envconfig:"MYSQL_HOST" default:"localhost"`
	Port     string `envconfig:"MYSQL_PORT" default:"3306"`
	User     string `envconfig:"MYSQL_USER" default:"root"`
	Password string `envconfig:"MYSQL_PASSWORD"`
	Database string `envconfig:"MYSQL_DATABASE" default:"hostel_finder"`
	// Override, when set, wins over the discrete fields.
	Override string `envconfig:"MYSQL_DSN"`
	MaxConns int    `envconfig:"MYSQL_MAX_CONNS" default:"10"`
}

type Config struct {
	AppEnv      string `envconfig:"APP_ENV" default:"prod"`
	LogLevel    string `envconfig:"LOG_LEVEL" default:"info"`
	HTTPAddr    string `envconfig:"HTTP_ADDR" default:":8080"`
	MetricsAddr string `envconfig:"METRICS_ADDR"`

	MySQL          MySQL
	MigrateOnStart bool `envconfig:"MIGRATE_ON_START" default:"true"`

	RedisAddr string `envconfig:"REDIS_ADDR"`
	RedisPass string `envconfig:"REDIS_PASSWORD"`
	RedisDB   int    `envconfig:"REDIS_DB" default:"0"`
	CacheTTL  int    `envconfig:"CACHE_TTL_SECONDS" default:"300"`

	RateLimitRPS float64 `envconfig:"RATE_LIMIT_RPS" default:"50"`

	SeedFile    string `envconfig:"SEED_FILE" default:"seed/hostels.json"`
	SeedWorkers int    `envconfig:"SEED_WORKERS" default:"4"`
	SeedAPIURL  string `envconfig:"SEED_API_URL"`
}

// Load reads the process environment. Malformed values are an error rather
// than a silent fallback to the default.
func Load() (Config, error) {
	var c Config
	if err := envconfig.Process("", &c); err != nil {
		return Config{}, errors.Wrap(err, "load config")
	}
	if c.RedisAddr == "" {
		log.Info().Msg("REDIS_ADDR is empty, search cache disabled")
	}
	return c, nil
}

func (c Config) CacheTTLDuration() time.Duration {
	return time.Duration(c.CacheTTL) * time.Second
}

// DSN returns a go-sql-driver DSN with parseTime on and UTC locations.
func (m MySQL) DSN() string {
	if m.Override != "" {
		return m.Override
	}
	cfg := mysql.NewConfig()
	cfg.User = m.User
	cfg.Passwd = m.Password
	cfg.Net = "tcp"
	cfg.Addr = net.JoinHostPort(m.Host, m.Port)
	cfg.DBName = m.Database
	cfg.ParseTime = true
	cfg.Loc = time.UTC
	cfg.Params = map[string]string{"charset": "utf8mb4"}
	return cfg.FormatDSN()
}
