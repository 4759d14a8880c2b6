package config

// EnvPrefix is passed to envconfig; individual fields carry explicit
// FARMAPUNTO_* names so the prefix stays empty.
const EnvPrefix = ""

const (
	AppEnvDev  = "development"
	AppEnvProd = "production"
)

const (
	EnvAppEnv = "FARMAPUNTO_APP_ENV"

	EnvDBDSN  = "FARMAPUNTO_DB_DSN"
	EnvDBHost = "FARMAPUNTO_DB_HOST"
	EnvDBUser = "FARMAPUNTO_DB_USER"
	EnvDBName = "FARMAPUNTO_DB_NAME"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
