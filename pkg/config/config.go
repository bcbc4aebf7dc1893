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
	AuthRateLimit AuthRateLimitConfig
	FeatureFlags  FeatureFlagsConfig
	Fees          FeeConfig
	Notifications NotificationsConfig
	Evidence      EvidenceConfig
	Cron          CronConfig
	Risk          RiskConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.ensureDSN(cfg.FeatureFlags.UseSQLite); err != nil {
		return nil, err
	}
	if err := cfg.Fees.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"SWAPSAFE_APP_ENV" required:"true"`
	Port         string `envconfig:"SWAPSAFE_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"SWAPSAFE_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"SWAPSAFE_LOG_WARN_STACK" default:"false"`

	AllowedOrigins []string `envconfig:"SWAPSAFE_CORS_ALLOWED_ORIGINS"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN        string `envconfig:"SWAPSAFE_DB_DSN"`
	Driver     string `envconfig:"SWAPSAFE_DB_DRIVER" default:"postgres"`
	SQLitePath string `envconfig:"SWAPSAFE_SQLITE_PATH" default:"swapsafe.db"`

	LegacyHost     string `envconfig:"SWAPSAFE_DB_HOST"`
	LegacyPort     int    `envconfig:"SWAPSAFE_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"SWAPSAFE_DB_USER"`
	LegacyPassword string `envconfig:"SWAPSAFE_DB_PASSWORD"`
	LegacyName     string `envconfig:"SWAPSAFE_DB_NAME"`
	LegacySSLMode  string `envconfig:"SWAPSAFE_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"SWAPSAFE_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"SWAPSAFE_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"SWAPSAFE_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"SWAPSAFE_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"SWAPSAFE_REDIS_URL" required:"true"`
	Address      string        `envconfig:"SWAPSAFE_REDIS_ADDR"`
	Password     string        `envconfig:"SWAPSAFE_REDIS_PASSWORD"`
	DB           int           `envconfig:"SWAPSAFE_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"SWAPSAFE_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"SWAPSAFE_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"SWAPSAFE_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"SWAPSAFE_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"SWAPSAFE_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret                 string `envconfig:"SWAPSAFE_JWT_SECRET" required:"true"`
	Issuer                 string `envconfig:"SWAPSAFE_JWT_ISSUER" required:"true"`
	ExpirationMinutes      int    `envconfig:"SWAPSAFE_JWT_EXPIRATION_MINUTES" default:"1440"`
	RefreshTokenTTLMinutes int    `envconfig:"SWAPSAFE_REFRESH_TOKEN_TTL_MINUTES" default:"43200"`
}

// RefreshTokenTTL returns the refresh token TTL configured in minutes.
func (j JWTConfig) RefreshTokenTTL() time.Duration {
	if j.RefreshTokenTTLMinutes <= 0 {
		return 0
	}
	return time.Duration(j.RefreshTokenTTLMinutes) * time.Minute
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"SWAPSAFE_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"SWAPSAFE_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"SWAPSAFE_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"SWAPSAFE_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"SWAPSAFE_ARGON_KEY_LEN" default:"32"`
}

type AuthRateLimitConfig struct {
	LoginWindow        time.Duration `envconfig:"SWAPSAFE_AUTH_RATE_LIMIT_LOGIN_WINDOW" default:"1m"`
	LoginEmailLimit    int           `envconfig:"SWAPSAFE_AUTH_RATE_LIMIT_LOGIN_EMAIL_LIMIT" default:"5"`
	LoginIPLimit       int           `envconfig:"SWAPSAFE_AUTH_RATE_LIMIT_LOGIN_IP_LIMIT" default:"20"`
	RegisterWindow     time.Duration `envconfig:"SWAPSAFE_AUTH_RATE_LIMIT_REGISTER_WINDOW" default:"5m"`
	RegisterEmailLimit int           `envconfig:"SWAPSAFE_AUTH_RATE_LIMIT_REGISTER_EMAIL_LIMIT" default:"3"`
	RegisterIPLimit    int           `envconfig:"SWAPSAFE_AUTH_RATE_LIMIT_REGISTER_IP_LIMIT" default:"20"`
}

type FeatureFlagsConfig struct {
	UseSQLite         bool `envconfig:"SWAPSAFE_USE_SQLITE" default:"false"`
	AutoMigrate       bool `envconfig:"SWAPSAFE_AUTO_MIGRATE" default:"false"`
	SeedDemoData      bool `envconfig:"SWAPSAFE_SEED_DEMO_DATA" default:"false"`
	ActivitySimulator bool `envconfig:"SWAPSAFE_ACTIVITY_SIMULATOR" default:"false"`
}

// FeeConfig expresses the marketplace fee as basis points of the order amount.
type FeeConfig struct {
	BasisPoints int    `envconfig:"SWAPSAFE_FEE_BASIS_POINTS" default:"300"`
	Currency    string `envconfig:"SWAPSAFE_FEE_CURRENCY" default:"USD"`
}

func (f FeeConfig) validate() error {
	if f.BasisPoints < 0 || f.BasisPoints > 10000 {
		return fmt.Errorf("%s must be between 0 and 10000", EnvFeeBasisPoints)
	}
	return nil
}

type NotificationsConfig struct {
	Capacity             int           `envconfig:"SWAPSAFE_NOTIFICATIONS_CAPACITY" default:"50"`
	DefaultActionURL     string        `envconfig:"SWAPSAFE_NOTIFICATIONS_DEFAULT_ACTION_URL" default:"/user-dashboard"`
	SimulatorInterval    time.Duration `envconfig:"SWAPSAFE_NOTIFICATIONS_SIMULATOR_INTERVAL" default:"30s"`
	SimulatorProbability float64       `envconfig:"SWAPSAFE_NOTIFICATIONS_SIMULATOR_PROBABILITY" default:"0.1"`
	Retention            time.Duration `envconfig:"SWAPSAFE_NOTIFICATIONS_RETENTION" default:"720h"`
}

type EvidenceConfig struct {
	MaxFiles  int `envconfig:"SWAPSAFE_EVIDENCE_MAX_FILES" default:"5"`
	MaxFileMB int `envconfig:"SWAPSAFE_EVIDENCE_MAX_FILE_MB" default:"10"`
}

// MaxFileBytes returns the per-file evidence ceiling in bytes.
func (e EvidenceConfig) MaxFileBytes() int64 {
	return int64(e.MaxFileMB) * 1024 * 1024
}

// RiskConfig selects the scam-risk scorer: rule, static or random.
type RiskConfig struct {
	Scorer string `envconfig:"SWAPSAFE_RISK_SCORER" default:"rule"`
}

type CronConfig struct {
	Interval time.Duration `envconfig:"SWAPSAFE_CRON_INTERVAL" default:"1h"`
	LockTTL  time.Duration `envconfig:"SWAPSAFE_CRON_LOCK_TTL" default:"10m"`
}

func (db *DBConfig) ensureDSN(useSQLite bool) error {
	if useSQLite {
		db.Driver = DriverSQLite
		if strings.TrimSpace(db.SQLitePath) == "" {
			return fmt.Errorf("%s is required when %s is set", EnvSQLitePath, EnvUseSQLite)
		}
		return nil
	}
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
