package config

// EnvPrefix namespaces every environment variable read by Load.
const EnvPrefix = "VORTEX"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

const (
	EnvDBDSN        = "VORTEX_DB_DSN"
	EnvDBHost       = "VORTEX_DB_HOST"
	EnvDBUser       = "VORTEX_DB_USER"
	EnvDBName       = "VORTEX_DB_NAME"
	EnvDBSQLitePath = "VORTEX_DB_SQLITE_PATH"
)

var requiredDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
