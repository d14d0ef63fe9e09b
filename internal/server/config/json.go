package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/gophnotes/internal/timex"
)

// JsonConfig defines a configuration structure tailored for JSON unmarshalling.
// Interval fields use timex.Duration, which accepts both "30m" style strings
// and integer nanoseconds. Pointers distinguish "absent" from "zero" for the
// scalar settings.
type JsonConfig struct {
	EndpointAddrHTTP            string         `json:"endpoint_addr_http"`
	EndpointAddrGRPC            string         `json:"endpoint_addr_grpc"`
	DatabaseDSN                 string         `json:"database_dsn"`
	SecretKey                   string         `json:"secret_key"`
	AccessTokenValidityDuration timex.Duration `json:"access_token_validity_duration"`
	LogLevel                    string         `json:"log_level"`
	SpellerURL                  string         `json:"speller_url"`
	SpellerTimeout              timex.Duration `json:"speller_timeout"`
	SpellerRetries              *int           `json:"speller_retries"`
	SpellerFailOpen             *bool          `json:"speller_fail_open"`
	S3RootUser                  string         `json:"s3_root_user"`
	S3RootPassword              string         `json:"s3_root_password"`
	S3Bucket                    string         `json:"s3_bucket"`
	S3Region                    string         `json:"s3_region"`
	S3BaseEndpoint              string         `json:"s3_base_endpoint"`
}

// parseJson loads configuration values from the JSON file at path into config.
// An empty path loads nothing. Only keys present in the file override the
// current values. Unreadable files or invalid JSON panic.
func parseJson(config *Config, path string) {
	if path == "" {
		return
	}

	file, err := os.ReadFile(path)
	if err != nil {
		panic(err)
	}

	c := &JsonConfig{}
	if err := json.Unmarshal(file, c); err != nil {
		panic(err)
	}

	setString(&config.EndpointAddrHTTP, c.EndpointAddrHTTP)
	setString(&config.EndpointAddrGRPC, c.EndpointAddrGRPC)
	setString(&config.DatabaseDSN, c.DatabaseDSN)
	setString(&config.SecretKey, c.SecretKey)
	setString(&config.LogLevel, c.LogLevel)
	setString(&config.SpellerURL, c.SpellerURL)
	setString(&config.S3RootUser, c.S3RootUser)
	setString(&config.S3RootPassword, c.S3RootPassword)
	setString(&config.S3Bucket, c.S3Bucket)
	setString(&config.S3Region, c.S3Region)
	setString(&config.S3BaseEndpoint, c.S3BaseEndpoint)

	if c.AccessTokenValidityDuration.Duration != 0 {
		config.AccessTokenValidityDuration = c.AccessTokenValidityDuration.Duration
	}
	if c.SpellerTimeout.Duration != 0 {
		config.SpellerTimeout = c.SpellerTimeout.Duration
	}
	if c.SpellerRetries != nil {
		config.SpellerRetries = *c.SpellerRetries
	}
	if c.SpellerFailOpen != nil {
		config.SpellerFailOpen = *c.SpellerFailOpen
	}
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
