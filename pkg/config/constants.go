package config

const (
	// EnvPrefix namespaces every environment variable this service reads.
	EnvPrefix = "KIRAYA"

	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	EnvDBDSN  = "KIRAYA_DB_DSN"
	EnvDBHost = "KIRAYA_DB_HOST"
	EnvDBUser = "KIRAYA_DB_USER"
	EnvDBName = "KIRAYA_DB_NAME"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
