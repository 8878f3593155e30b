package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App           AppConfig
	DB            DBConfig
	Redis         RedisConfig
	JWT           JWTConfig
	Password      PasswordConfig
	Payments      PaymentsConfig
	Registrations RegistrationsConfig
	AuthRateLimit AuthRateLimitConfig
	FeatureFlags  FeatureFlagsConfig
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
	Env          string   `envconfig:"CONREG_APP_ENV" required:"true"`
	Port         string   `envconfig:"CONREG_APP_PORT" required:"true"`
	LogLevel     string   `envconfig:"CONREG_LOG_LEVEL" default:"info"`
	LogWarnStack bool     `envconfig:"CONREG_LOG_WARN_STACK" default:"false"`
	CORSOrigins  []string `envconfig:"CONREG_CORS_ORIGINS" default:"http://localhost:3000"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"CONREG_DB_DSN"`
	Driver string `envconfig:"CONREG_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"CONREG_DB_HOST"`
	LegacyPort     int    `envconfig:"CONREG_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"CONREG_DB_USER"`
	LegacyPassword string `envconfig:"CONREG_DB_PASSWORD"`
	LegacyName     string `envconfig:"CONREG_DB_NAME"`
	LegacySSLMode  string `envconfig:"CONREG_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"CONREG_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"CONREG_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"CONREG_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"CONREG_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"CONREG_REDIS_URL"`
	Address      string        `envconfig:"CONREG_REDIS_ADDR"`
	Password     string        `envconfig:"CONREG_REDIS_PASSWORD"`
	DB           int           `envconfig:"CONREG_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"CONREG_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"CONREG_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"CONREG_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"CONREG_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"CONREG_REDIS_WRITE_TIMEOUT" default:"5s"`

	CatalogTTL time.Duration `envconfig:"CONREG_REDIS_CATALOG_TTL" default:"30s"`
}

type JWTConfig struct {
	Secret            string `envconfig:"CONREG_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"CONREG_JWT_ISSUER" required:"true"`
	ExpirationMinutes int    `envconfig:"CONREG_JWT_EXPIRATION_MINUTES" default:"720"`
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"CONREG_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"CONREG_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"CONREG_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"CONREG_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"CONREG_ARGON_KEY_LEN" default:"32"`
}

// PaymentsConfig covers the gateway callback contract only; gateway API
// integration lives outside this service.
type PaymentsConfig struct {
	CallbackSecret string `envconfig:"CONREG_PAYMENTS_CALLBACK_SECRET" required:"true"`
}

type RegistrationsConfig struct {
	PageSize int `envconfig:"CONREG_REGISTRATIONS_PAGE_SIZE" default:"50"`
}

type AuthRateLimitConfig struct {
	LoginWindow     time.Duration `envconfig:"CONREG_AUTH_RL_LOGIN_WINDOW" default:"5m"`
	LoginIPLimit    int           `envconfig:"CONREG_AUTH_RL_LOGIN_IP_LIMIT" default:"20"`
	LoginEmailLimit int           `envconfig:"CONREG_AUTH_RL_LOGIN_EMAIL_LIMIT" default:"5"`
}

type FeatureFlagsConfig struct {
	UseSQLite   bool `envconfig:"CONREG_USE_SQLITE" default:"false"`
	AutoMigrate bool `envconfig:"CONREG_AUTO_MIGRATE" default:"false"`
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
