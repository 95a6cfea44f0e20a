package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	// EnvPrefix namespaces every environment variable the app reads.
	EnvPrefix = "LOCALIZY"

	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	EnvDBDSN  = "LOCALIZY_DB_DSN"
	EnvDBHost = "LOCALIZY_DB_HOST"
	EnvDBUser = "LOCALIZY_DB_USER"
	EnvDBName = "LOCALIZY_DB_NAME"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}

type Config struct {
	App           AppConfig
	DB            DBConfig
	Redis         RedisConfig
	JWT           JWTConfig
	Password      PasswordConfig
	AuthRateLimit AuthRateLimitConfig
	Uploads       UploadsConfig
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
	Env          string `envconfig:"LOCALIZY_APP_ENV" required:"true"`
	Port         string `envconfig:"LOCALIZY_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"LOCALIZY_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"LOCALIZY_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"LOCALIZY_DB_DSN"`
	Driver string `envconfig:"LOCALIZY_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"LOCALIZY_DB_HOST"`
	LegacyPort     int    `envconfig:"LOCALIZY_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"LOCALIZY_DB_USER"`
	LegacyPassword string `envconfig:"LOCALIZY_DB_PASSWORD"`
	LegacyName     string `envconfig:"LOCALIZY_DB_NAME"`
	LegacySSLMode  string `envconfig:"LOCALIZY_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"LOCALIZY_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"LOCALIZY_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"LOCALIZY_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"LOCALIZY_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"LOCALIZY_REDIS_URL"`
	Address      string        `envconfig:"LOCALIZY_REDIS_ADDR"`
	Password     string        `envconfig:"LOCALIZY_REDIS_PASSWORD"`
	DB           int           `envconfig:"LOCALIZY_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"LOCALIZY_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"LOCALIZY_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"LOCALIZY_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"LOCALIZY_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"LOCALIZY_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret            string `envconfig:"LOCALIZY_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"LOCALIZY_JWT_ISSUER" required:"true"`
	ExpirationMinutes int    `envconfig:"LOCALIZY_JWT_EXPIRATION_MINUTES" default:"1440"`
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"LOCALIZY_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"LOCALIZY_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"LOCALIZY_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"LOCALIZY_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"LOCALIZY_ARGON_KEY_LEN" default:"32"`
}

type AuthRateLimitConfig struct {
	LoginWindow        time.Duration `envconfig:"LOCALIZY_AUTH_RATE_LIMIT_LOGIN_WINDOW" default:"1m"`
	LoginEmailLimit    int           `envconfig:"LOCALIZY_AUTH_RATE_LIMIT_LOGIN_EMAIL_LIMIT" default:"5"`
	LoginIPLimit       int           `envconfig:"LOCALIZY_AUTH_RATE_LIMIT_LOGIN_IP_LIMIT" default:"20"`
	RegisterWindow     time.Duration `envconfig:"LOCALIZY_AUTH_RATE_LIMIT_REGISTER_WINDOW" default:"5m"`
	RegisterEmailLimit int           `envconfig:"LOCALIZY_AUTH_RATE_LIMIT_REGISTER_EMAIL_LIMIT" default:"3"`
	RegisterIPLimit    int           `envconfig:"LOCALIZY_AUTH_RATE_LIMIT_REGISTER_IP_LIMIT" default:"20"`
}

type UploadsConfig struct {
	// Dir is the root directory backing the fileblob bucket.
	Dir         string `envconfig:"LOCALIZY_UPLOADS_DIR" default:"./uploads"`
	PublicBase  string `envconfig:"LOCALIZY_UPLOADS_PUBLIC_BASE" default:"/uploads"`
	MaxUploadMB int    `envconfig:"LOCALIZY_UPLOADS_MAX_MB" default:"5"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"LOCALIZY_AUTO_MIGRATE" default:"false"`
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
