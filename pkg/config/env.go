package config

// EnvPrefix is handed to envconfig; every field carries an explicit key so
// the prefix only matters for unnamed fields.
const EnvPrefix = "SWAPSAFE"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

const (
	EnvAppEnv                 = "SWAPSAFE_APP_ENV"
	EnvPort                   = "SWAPSAFE_APP_PORT"
	EnvLogLevel               = "SWAPSAFE_LOG_LEVEL"
	EnvDBDSN                  = "SWAPSAFE_DB_DSN"
	EnvDBHost                 = "SWAPSAFE_DB_HOST"
	EnvDBUser                 = "SWAPSAFE_DB_USER"
	EnvDBName                 = "SWAPSAFE_DB_NAME"
	EnvSQLitePath             = "SWAPSAFE_SQLITE_PATH"
	EnvUseSQLite              = "SWAPSAFE_USE_SQLITE"
	EnvRedisURL               = "SWAPSAFE_REDIS_URL"
	EnvJWTSecret              = "SWAPSAFE_JWT_SECRET"
	EnvJWTIssuer              = "SWAPSAFE_JWT_ISSUER"
	EnvJWTExpMins             = "SWAPSAFE_JWT_EXPIRATION_MINUTES"
	EnvRefreshTokenTTLMinutes = "SWAPSAFE_REFRESH_TOKEN_TTL_MINUTES"
	EnvFeeBasisPoints         = "SWAPSAFE_FEE_BASIS_POINTS"
	EnvNotificationsCapacity  = "SWAPSAFE_NOTIFICATIONS_CAPACITY"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
