// Package config loads environment-driven configuration into tagged structs
// using github.com/caarlos0/env/v11, with optional .env files read through
// github.com/joho/godotenv.
//
// Load parses a struct once per type and caches the copy for the life of the
// process; Parse skips the cache and accepts options such as a key prefix or an
// explicit environment map, which keeps tests hermetic.
//
//	type Config struct {
//	    AppKey string `env:"FRONTDOOR_APP_KEY,required"`
//	    Driver string `env:"FRONTDOOR_ACCOUNT_DRIVER" envDefault:"testing"`
//	}
//
//	if err := config.LoadEnv(".env.local", ".env"); err != nil {
//	    log.Fatal(err)
//	}
//	var cfg Config
//	if err := config.Load(&cfg); err != nil {
//	    log.Fatal(err)
//	}
//
// Values already present in the process environment always win over .env
// files. ResetCache drops every cached struct.
//
// # Errors
//
// ErrParsingConfig wraps env parsing failures (missing required keys, bad
// durations), ErrLoadingEnvFile wraps godotenv failures and ErrNilPointer
// guards against a nil target.
package config
