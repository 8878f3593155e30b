package config

const (
	// EnvPrefix namespaces every environment variable the service reads.
	EnvPrefix = "conreg"

	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	EnvDBDSN  = "CONREG_DB_DSN"
	EnvDBHost = "CONREG_DB_HOST"
	EnvDBUser = "CONREG_DB_USER"
	EnvDBName = "CONREG_DB_NAME"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
