// Package config loads the simple-account configuration from environment
// variables with cleanenv, optionally layered over a YAML or .env file.
//
// Every setting has a default suitable for local development, so
//
//	cfg, err := config.Load("")
//
// starts an in-memory instance on port 4000. Production deployments must set
// APP_ENV=production and a real JWT_SECRET.
//
// Durations accept both Go ("10m", "168h") and ISO8601 ("PT10M", "P7D") notation.
package config
