package common

const (
	EnvKeyEnvironment string = "ENVIRONMENT"

	EnvKeyRunIntegrationTests string = "RUN_INTEGRATION_TESTS"

	EnvKeyGlucovaDBType string = "GLUCOVA_DB_TYPE"
	EnvKeyGlucovaDBPath string = "GLUCOVA_DB_PATH"

	EnvironmentDevelopment string = "development"
	EnvironmentProduction  string = "production"

	LoggerNameGlucovaCore   string = "glucova_core"
	LoggerNameRestfulServer string = "restful_server"
	LoggerNameGrpcServer    string = "grpc_server"

	LoggerFieldCategory      string = "category"
	LoggerCategoryIdentity   string = "identity"
	LoggerCategoryDevice     string = "device"
	LoggerCategoryRecord     string = "record"
	LoggerCategoryAlert      string = "alert"
	LoggerCategoryContact    string = "contact"
	LoggerCategoryAccess     string = "access"
	LoggerFieldUserID        string = "user_id"
	LoggerFieldResourceID    string = "resource_id"
	DefaultAlertMessage      string = "Abnormal glucose levels detected"
	DefaultPageLimit         int    = 100
	DefaultMaxPageSize       int    = 1000
	BearerTokenType          string = "bearer"
	AuthorizationHeader      string = "Authorization"
	AuthenticateHeader       string = "WWW-Authenticate"
	AuthenticateHeaderBearer string = "Bearer"
)
