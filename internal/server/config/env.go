package config

import (
	"fmt"
	"net/url"
	"strconv"
	"time"
)

// Environment variable names understood by parseEnv.
const (
	EnvHTTPAddr        = "NOTES_HTTP_ADDR"
	EnvGRPCAddr        = "NOTES_GRPC_ADDR"
	EnvDatabaseDSN     = "NOTES_DATABASE_DSN"
	EnvSecretKey       = "NOTES_SECRET_KEY"
	EnvAccessTokenTTL  = "NOTES_ACCESS_TOKEN_TTL"
	EnvLogLevel        = "NOTES_LOG_LEVEL"
	EnvSpellerURL      = "NOTES_SPELLER_URL"
	EnvSpellerTimeout  = "NOTES_SPELLER_TIMEOUT"
	EnvSpellerRetries  = "NOTES_SPELLER_RETRIES"
	EnvSpellerFailOpen = "NOTES_SPELLER_FAIL_OPEN"
	EnvS3RootUser      = "NOTES_S3_ROOT_USER"
	EnvS3RootPassword  = "NOTES_S3_ROOT_PASSWORD"
	EnvS3Bucket        = "NOTES_S3_BUCKET"
	EnvS3Region        = "NOTES_S3_REGION"
	EnvS3BaseEndpoint  = "NOTES_S3_BASE_ENDPOINT"

	// Discrete database settings, used only when NOTES_DATABASE_DSN is unset.
	EnvDBUser     = "DB_USER_POS"
	EnvDBPassword = "DB_PASSWORD_POS"
	EnvDBName     = "DB_NAME_POS"
	EnvDBHost     = "DB_HOST_POS"
)

// parseEnv overlays values found through lookup. Malformed numbers,
// booleans or durations panic, like malformed JSON or flags do.
func parseEnv(config *Config, lookup func(string) (string, bool)) {
	str := func(key string, dst *string) {
		if v, ok := lookup(key); ok && v != "" {
			*dst = v
		}
	}
	dur := func(key string, dst *time.Duration) {
		if v, ok := lookup(key); ok && v != "" {
			d, err := time.ParseDuration(v)
			if err != nil {
				panic(fmt.Errorf("%s: %w", key, err))
			}
			*dst = d
		}
	}

	str(EnvHTTPAddr, &config.EndpointAddrHTTP)
	str(EnvGRPCAddr, &config.EndpointAddrGRPC)
	str(EnvSecretKey, &config.SecretKey)
	dur(EnvAccessTokenTTL, &config.AccessTokenValidityDuration)
	str(EnvLogLevel, &config.LogLevel)
	str(EnvSpellerURL, &config.SpellerURL)
	dur(EnvSpellerTimeout, &config.SpellerTimeout)
	str(EnvS3RootUser, &config.S3RootUser)
	str(EnvS3RootPassword, &config.S3RootPassword)
	str(EnvS3Bucket, &config.S3Bucket)
	str(EnvS3Region, &config.S3Region)
	str(EnvS3BaseEndpoint, &config.S3BaseEndpoint)

	if v, ok := lookup(EnvSpellerRetries); ok && v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			panic(fmt.Errorf("%s: %w", EnvSpellerRetries, err))
		}
		config.SpellerRetries = n
	}
	if v, ok := lookup(EnvSpellerFailOpen); ok && v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			panic(fmt.Errorf("%s: %w", EnvSpellerFailOpen, err))
		}
		config.SpellerFailOpen = b
	}

	if v, ok := lookup(EnvDatabaseDSN); ok && v != "" {
		config.DatabaseDSN = v
		return
	}
	if dsn := dsnFromParts(lookup); dsn != "" {
		config.DatabaseDSN = dsn
	}
}

func dsnFromParts(lookup func(string) (string, bool)) string {
	user, okUser := lookup(EnvDBUser)
	name, okName := lookup(EnvDBName)
	if !okUser || !okName || user == "" || name == "" {
		return ""
	}
	password, _ := lookup(EnvDBPassword)
	host, _ := lookup(EnvDBHost)
	if host == "" {
		host = "postgres:5432"
	}

	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(user, password),
		Host:     host,
		Path:     "/" + name,
		RawQuery: "sslmode=disable",
	}
	return u.String()
}
