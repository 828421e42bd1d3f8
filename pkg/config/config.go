package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App          AppConfig
	DB           DBConfig
	Redis        RedisConfig
	JWT          JWTConfig
	FeatureFlags FeatureFlagsConfig
	Reservations ReservationsConfig
	Payouts      PayoutsConfig
	Referrals    ReferralsConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.ensureDSN(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"KIRAYA_APP_ENV" required:"true"`
	Port         string `envconfig:"KIRAYA_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"KIRAYA_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"KIRAYA_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"KIRAYA_DB_DSN"`
	Driver string `envconfig:"KIRAYA_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"KIRAYA_DB_HOST"`
	LegacyPort     int    `envconfig:"KIRAYA_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"KIRAYA_DB_USER"`
	LegacyPassword string `envconfig:"KIRAYA_DB_PASSWORD"`
	LegacyName     string `envconfig:"KIRAYA_DB_NAME"`
	LegacySSLMode  string `envconfig:"KIRAYA_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"KIRAYA_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"KIRAYA_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"KIRAYA_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"KIRAYA_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"KIRAYA_REDIS_URL" required:"true"`
	Address      string        `envconfig:"KIRAYA_REDIS_ADDR"`
	Password     string        `envconfig:"KIRAYA_REDIS_PASSWORD"`
	DB           int           `envconfig:"KIRAYA_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"KIRAYA_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"KIRAYA_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"KIRAYA_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"KIRAYA_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"KIRAYA_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret            string `envconfig:"KIRAYA_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"KIRAYA_JWT_ISSUER" required:"true"`
	ExpirationMinutes int    `envconfig:"KIRAYA_JWT_EXPIRATION_MINUTES" default:"60"`
}

type FeatureFlagsConfig struct {
	UseSQLite   bool `envconfig:"KIRAYA_USE_SQLITE" default:"false"`
	AutoMigrate bool `envconfig:"KIRAYA_AUTO_MIGRATE" default:"false"`
}

// ReservationsConfig tunes lifecycle-engine behavior.
type ReservationsConfig struct {
	// StrictCancellation restricts the pre-payment cancel path to
	// pending/accepted reservations. The default mirrors the legacy
	// behavior of allowing cancellation from any status.
	StrictCancellation bool `envconfig:"KIRAYA_RESERVATIONS_STRICT_CANCELLATION" default:"false"`
}

// PayoutsConfig controls advertiser settlement scheduling.
type PayoutsConfig struct {
	// SafetyWindow is the delay between move-in confirmation and payout
	// eligibility, during which the tenant can still request a refund.
	SafetyWindow time.Duration `envconfig:"KIRAYA_PAYOUT_SAFETY_WINDOW" default:"24h"`
}

// ReferralsConfig controls referral discount minting.
type ReferralsConfig struct {
	DiscountAmount int           `envconfig:"KIRAYA_REFERRAL_DISCOUNT_AMOUNT" default:"200"`
	DiscountExpiry time.Duration `envconfig:"KIRAYA_REFERRAL_DISCOUNT_EXPIRY" default:"168h"`
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
		return nil
	}

	missing := []string{}
	legacyValues := map[string]string{
		EnvDBHost: db.LegacyHost,
		EnvDBUser: db.LegacyUser,
		EnvDBName: db.LegacyName,
	}
	for _, env := range legacyDBEnvVars {
		if legacyValues[env] == "" {
			missing = append(missing, env)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("either %s or %s are required", EnvDBDSN, strings.Join(missing, ", "))
	}

	userInfo := url.User(db.LegacyUser)
	if db.LegacyPassword != "" {
		userInfo = url.UserPassword(db.LegacyUser, db.LegacyPassword)
	}

	u := &url.URL{
		Scheme: "postgres",
		User:   userInfo,
		Host:   fmt.Sprintf("%s:%d", db.LegacyHost, db.LegacyPort),
		Path:   db.LegacyName,
	}

	if db.LegacySSLMode != "" {
		q := u.Query()
		q.Set("sslmode", db.LegacySSLMode)
		u.RawQuery = q.Encode()
	}

	db.DSN = u.String()
	return nil
}
