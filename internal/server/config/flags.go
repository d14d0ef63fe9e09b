package config

import (
	"flag"
	"time"

	"github.com/dmitrijs2005/gophnotes/internal/flagx"
)

var knownFlags = []string{"-a", "-m", "-d", "-s", "-t", "-l", "-w", "-o", "-n", "-f", "-u", "-p", "-b", "-g", "-e"}

// parseFlags populates selected server Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string   HTTP bind address (e.g., ":8000")
//	-m string   gRPC health bind address (e.g., ":50051")
//	-d string   PostgreSQL DSN
//	-s string   JWT HMAC secret key
//	-t int      access token validity, minutes
//	-l string   log level
//	-w string   speller base URL
//	-o int      speller timeout, seconds
//	-n int      speller retries
//	-f bool     let note writes pass when the speller is down (use -f=true)
//	-u string   S3 root user
//	-p string   S3 root password
//	-b string   S3 bucket name
//	-g string   S3 region
//	-e string   S3 base endpoint (e.g., "http://127.0.0.1:9000/")
//
// args are filtered with flagx.FilterArgs first, so flags owned by other
// components (-c/-config) do not collide. Parse errors panic.
func parseFlags(config *Config, args []string) {
	args = flagx.FilterArgs(args, knownFlags)

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.EndpointAddrHTTP, "a", config.EndpointAddrHTTP, "address and port to run the HTTP server")
	fs.StringVar(&config.EndpointAddrGRPC, "m", config.EndpointAddrGRPC, "address and port to run the gRPC health server")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.SecretKey, "s", config.SecretKey, "secret key")
	accessTokenValidityDuration := fs.Int("t", int(config.AccessTokenValidityDuration.Minutes()), "access_token_validity_duration (in minutes)")
	fs.StringVar(&config.LogLevel, "l", config.LogLevel, "log level")

	fs.StringVar(&config.SpellerURL, "w", config.SpellerURL, "speller base URL")
	spellerTimeout := fs.Int("o", int(config.SpellerTimeout.Seconds()), "speller timeout (in seconds)")
	fs.IntVar(&config.SpellerRetries, "n", config.SpellerRetries, "speller retries")
	fs.BoolVar(&config.SpellerFailOpen, "f", config.SpellerFailOpen, "accept notes when the speller is unavailable")

	fs.StringVar(&config.S3RootUser, "u", config.S3RootUser, "S3 root user")
	fs.StringVar(&config.S3RootPassword, "p", config.S3RootPassword, "S3 root password")
	fs.StringVar(&config.S3Bucket, "b", config.S3Bucket, "S3 root bucket")
	fs.StringVar(&config.S3Region, "g", config.S3Region, "S3 root region")
	fs.StringVar(&config.S3BaseEndpoint, "e", config.S3BaseEndpoint, "S3 base endpoint")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	// minute/second flags only replace durations when given explicitly
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "t":
			config.AccessTokenValidityDuration = time.Duration(*accessTokenValidityDuration) * time.Minute
		case "o":
			config.SpellerTimeout = time.Duration(*spellerTimeout) * time.Second
		}
	})
}
