package config

// EnvPrefix is the envconfig prefix shared by every setting.
const EnvPrefix = "AVENIR"

const (
	AppEnvDev  = "development"
	AppEnvProd = "production"
)

// Environment variable names referenced outside struct tags.
const (
	EnvAppEnv     = "AVENIR_APP_ENV"
	EnvPort       = "AVENIR_APP_PORT"
	EnvDBDSN      = "AVENIR_DB_DSN"
	EnvDBHost     = "AVENIR_DB_HOST"
	EnvDBUser     = "AVENIR_DB_USER"
	EnvDBName     = "AVENIR_DB_NAME"
	EnvRedisURL   = "AVENIR_REDIS_URL"
	EnvJWTSecret  = "AVENIR_JWT_SECRET"
	EnvJWTIssuer  = "AVENIR_JWT_ISSUER"
	EnvJWTExpMins = "AVENIR_JWT_EXPIRATION_MINUTES"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
