package config // package config loads application configuration from environment variables

import (
	"log" // log is used to report configuration errors and halt execution
	"os"  // os provides access to environment variables

	"github.com/joho/godotenv" // godotenv loads a local .env file when present
)

// Config holds all runtime configuration values. Each field corresponds
// to an environment variable. The types reflect how the values are used
// in the application: strings for identifiers and secrets, ints for
// durations and quantities.
type Config struct {
	Env             string // application environment (e.g. "dev", "prod")
	Port            string // HTTP port to listen on
	APIBaseURL      string // base URL shared by the downstream services
	APIToken        string // bearer token sent to the downstream services (optional)
	JWTSecret       string // secret used to verify incoming bearer tokens
	CheckoutWindow  int    // checkout countdown total in seconds
	DBUser          string // database username (trade-request store, optional)
	DBPass          string // database password (optional)
	DBHost          string // database host address (empty disables the store)
	DBPort          string // database port number
	DBName          string // database name
}

// Load reads configuration values from environment variables and
// returns a Config. A .env file in the working directory is applied
// first when present. Required variables are enforced by must() and
// missing values cause the program to exit with a fatal log message.
func Load() Config {
	_ = godotenv.Load() // absent .env is fine; real env wins

	return Config{
		Env:            must("APP_ENV"),                  // environment (dev/test/prod)
		Port:           must("APP_PORT"),                 // port to bind the HTTP server
		APIBaseURL:     must("API_BASE_URL"),             // downstream services base URL
		APIToken:       os.Getenv("API_TOKEN"),           // downstream bearer token (empty allowed)
		JWTSecret:      must("JWT_SECRET"),               // secret for verifying bearer tokens
		CheckoutWindow: envInt("CHECKOUT_WINDOW", 300),   // checkout window in seconds
		DBUser:         os.Getenv("DB_USER"),             // database user (empty disables trade store)
		DBPass:         os.Getenv("DB_PASS"),             // database password (empty allowed)
		DBHost:         os.Getenv("DB_HOST"),             // database host
		DBPort:         os.Getenv("DB_PORT"),             // database port
		DBName:         os.Getenv("DB_NAME"),             // database name
	}
}

// must retrieves the value of a required environment variable. If the
// variable is unset or empty, the application logs a fatal error and exits.
// envInt and the other typed helpers live in ratelimit.go.
func must(key string) string {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		log.Fatalf("missing required env var: %s", key)
	}
	return v
}
